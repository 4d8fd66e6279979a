package navigation

import "adforge/internal/models"

// View is the selection resolved against a concrete collection.
type View struct {
	Mode         Mode            `json:"mode"`
	Epoch        Epoch           `json:"epoch"`
	Session      *models.Session `json:"session,omitempty"`
	AdSet        *models.AdSet   `json:"adSet,omitempty"`
	Ad           *models.Ad      `json:"ad,omitempty"`
	Script       *models.Script  `json:"script,omitempty"`
	CopyText     string          `json:"copyText,omitempty"`
	VersionIndex int             `json:"versionIndex"`
	VersionCount int             `json:"versionCount"`
	ScriptTab    int             `json:"scriptTab"`
	ScriptCount  int             `json:"scriptCount"`
}

func (v View) HasPrev() bool { return v.Ad != nil && v.VersionIndex > 0 }
func (v View) HasNext() bool { return v.Ad != nil && v.VersionIndex < v.VersionCount-1 }

// Resolve reconciles the stored indices with the collection and returns what
// is on screen. A grown history jumps to the newest version; stale indices
// are clamped; a vanished session sends the user back to campaign creation.
func (n *Navigator) Resolve(sessions []models.Session) View {
	n.mu.Lock()
	defer n.mu.Unlock()

	st := &n.state
	if st.Mode == ModeCreateCampaign || st.SessionID == "" {
		if st.Mode != ModeCreateCampaign {
			n.reset()
		}
		return View{Mode: st.Mode, Epoch: st.Epoch}
	}

	session, ok := models.FindSession(sessions, st.SessionID)
	if !ok {
		n.reset()
		return View{Mode: st.Mode, Epoch: st.Epoch}
	}
	view := View{Mode: st.Mode, Epoch: st.Epoch, Session: &session}
	if st.Mode != ModeViewAdSet {
		return view
	}

	adSet, ok := models.FindAdSet(session, st.AdSetID)
	if !ok {
		return view
	}
	view.AdSet = &adSet

	count := len(adSet.Ads)
	view.VersionCount = count
	if count == 0 {
		st.VersionIndex, st.ScriptTab, st.seenVersions = 0, 0, 0
		return view
	}
	if st.seenVersions != count {
		st.VersionIndex = count - 1
		st.ScriptTab = 0
		st.seenVersions = count
	}
	if st.VersionIndex > count-1 {
		st.VersionIndex = count - 1
		st.ScriptTab = 0
	}
	ad := adSet.Ads[st.VersionIndex]
	view.Ad = &ad
	view.VersionIndex = st.VersionIndex

	view.ScriptCount = len(ad.Scripts)
	if view.ScriptCount == 0 {
		st.ScriptTab = 0
		return view
	}
	if st.ScriptTab > view.ScriptCount-1 {
		st.ScriptTab = 0
	}
	script := ad.Scripts[st.ScriptTab]
	view.Script = &script
	view.ScriptTab = st.ScriptTab
	view.CopyText = script.CopyText(adSet.Format)
	return view
}
