package navigation

import (
	"adforge/internal/models"
	"sync"
)

type Mode string

const (
	ModeCreateCampaign Mode = "createCampaign"
	ModeDashboard      Mode = "dashboard"
	ModeCreateAdSet    Mode = "createAdSet"
	ModeViewAdSet      Mode = "viewAdSet"
)

// Epoch identifies a navigation state. Every user-driven transition bumps it,
// so a background completion can tell whether the user moved on meanwhile.
type Epoch uint64

// State is a plain copy of the navigator's fields.
type State struct {
	Mode         Mode   `json:"mode"`
	SessionID    string `json:"sessionId,omitempty"`
	AdSetID      string `json:"adSetId,omitempty"`
	VersionIndex int    `json:"versionIndex"`
	ScriptTab    int    `json:"scriptTab"`
	Epoch        Epoch  `json:"epoch"`

	// version count last seen for the selected ad set; -1 when unknown
	seenVersions int
}

type NavigatorInterface interface {
	State() State
	Epoch() Epoch
	NewSession()
	SelectSession(sessionID string)
	OpenAdSet(adSetID string) bool
	Back()
	BeginAdSet() bool
	CampaignCreated(at Epoch, sessionID, adSetID string) bool
	AdSetCreated(at Epoch, sessionID, adSetID string) bool
	SessionDeleted(sessionID string)
	SelectVersion(index int)
	StepVersion(delta int)
	SelectScript(index int)
	Resolve(sessions []models.Session) View
}

// Navigator tracks where the user is: mode, selected session and ad set, the
// ad version on screen and the script tab inside it.
type Navigator struct {
	mu    sync.Mutex
	state State
}

func NewNavigator() NavigatorInterface {
	return &Navigator{state: State{Mode: ModeCreateCampaign, seenVersions: -1}}
}

func (n *Navigator) State() State {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.state
}

func (n *Navigator) Epoch() Epoch {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.state.Epoch
}

// NewSession is reachable from any mode and clears the selection.
func (n *Navigator) NewSession() {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.reset()
}

func (n *Navigator) SelectSession(sessionID string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.moveTo(ModeDashboard, sessionID, "")
}

// OpenAdSet moves dashboard -> viewAdSet. It needs a selected session.
func (n *Navigator) OpenAdSet(adSetID string) bool {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.state.SessionID == "" {
		return false
	}
	n.moveTo(ModeViewAdSet, n.state.SessionID, adSetID)
	return true
}

func (n *Navigator) Back() {
	n.mu.Lock()
	defer n.mu.Unlock()
	switch n.state.Mode {
	case ModeViewAdSet, ModeCreateAdSet:
		n.moveTo(ModeDashboard, n.state.SessionID, "")
	}
}

// BeginAdSet moves dashboard -> createAdSet.
func (n *Navigator) BeginAdSet() bool {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.state.SessionID == "" || n.state.Mode != ModeDashboard {
		return false
	}
	n.moveTo(ModeCreateAdSet, n.state.SessionID, "")
	return true
}

// CampaignCreated selects a freshly created session, unless the user
// navigated somewhere else after the submission started.
func (n *Navigator) CampaignCreated(at Epoch, sessionID, adSetID string) bool {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.state.Epoch != at {
		return false
	}
	n.moveTo(ModeViewAdSet, sessionID, adSetID)
	return true
}

func (n *Navigator) AdSetCreated(at Epoch, sessionID, adSetID string) bool {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.state.Epoch != at || n.state.SessionID != sessionID {
		return false
	}
	n.moveTo(ModeViewAdSet, sessionID, adSetID)
	return true
}

func (n *Navigator) SessionDeleted(sessionID string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.state.SessionID == sessionID {
		n.reset()
	}
}

func (n *Navigator) SelectVersion(index int) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.selectVersion(index)
}

// StepVersion moves through history; Resolve clamps overshoot.
func (n *Navigator) StepVersion(delta int) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.selectVersion(n.state.VersionIndex + delta)
}

func (n *Navigator) selectVersion(index int) {
	if index < 0 {
		index = 0
	}
	if index != n.state.VersionIndex {
		n.state.ScriptTab = 0
	}
	n.state.VersionIndex = index
}

func (n *Navigator) SelectScript(index int) {
	n.mu.Lock()
	defer n.mu.Unlock()
	if index < 0 {
		index = 0
	}
	n.state.ScriptTab = index
}

func (n *Navigator) reset() {
	epoch := n.state.Epoch + 1
	n.state = State{Mode: ModeCreateCampaign, Epoch: epoch, seenVersions: -1}
}

func (n *Navigator) moveTo(mode Mode, sessionID, adSetID string) {
	n.state.Epoch++
	n.state.Mode = mode
	if adSetID != n.state.AdSetID || sessionID != n.state.SessionID {
		n.state.VersionIndex = 0
		n.state.ScriptTab = 0
		n.state.seenVersions = -1
	}
	n.state.SessionID = sessionID
	n.state.AdSetID = adSetID
}
