package models

// Operations over the session collection. Every function here is total and
// pure: arguments are never modified, unknown ids turn the call into a no-op,
// and only the path from the collection root down to the touched element is
// copied. Everything else is shared with the input.

// NewAdSet assembles an ad set holding a single first version.
func NewAdSet(id string, in CampaignInput, first Ad, now int64) AdSet {
	return AdSet{
		ID:             id,
		Name:           AdSetName(in.TargetAudience, in.Archetype),
		TargetAudience: in.TargetAudience,
		Archetype:      in.Archetype,
		Format:         in.Format,
		Ads:            []Ad{first.Normalize()},
		CreatedAt:      now,
		CustomColors:   in.PersistedColors(),
		ReferenceImage: in.ReferenceImage,
		LogoImage:      in.LogoImage,
	}
}

// NewSession wraps the first ad set of a campaign.
func NewSession(id string, info ProductInfo, first AdSet, now int64) Session {
	return Session{
		ID:           id,
		Title:        info.Name,
		ProductInfo:  info,
		AdSets:       []AdSet{first},
		LastModified: now,
	}
}

// CreateSession puts session at the front of the collection.
func CreateSession(sessions []Session, session Session) []Session {
	out := make([]Session, 0, len(sessions)+1)
	out = append(out, session)
	return append(out, sessions...)
}

func AppendAdSet(sessions []Session, sessionID string, adSet AdSet, now int64) []Session {
	return updateSession(sessions, sessionID, now, func(s Session) (Session, bool) {
		adSets := make([]AdSet, len(s.AdSets), len(s.AdSets)+1)
		copy(adSets, s.AdSets)
		s.AdSets = append(adSets, adSet)
		return s, true
	})
}

func AppendAdVersion(sessions []Session, sessionID, adSetID string, ad Ad, now int64) []Session {
	ad = ad.Normalize()
	return updateAdSet(sessions, sessionID, adSetID, now, func(as AdSet) (AdSet, bool) {
		ads := make([]Ad, len(as.Ads), len(as.Ads)+1)
		copy(ads, as.Ads)
		as.Ads = append(ads, ad)
		return as, true
	})
}

// AdPatch lists the fields that may change on an existing version. Only the
// video attachment qualifies.
type AdPatch struct {
	VideoURL *string
}

func (p AdPatch) apply(ad Ad) Ad {
	if p.VideoURL != nil {
		ad.VideoURL = *p.VideoURL
	}
	return ad
}

// UpdateAdVersionInPlace is the single exception to append-only history: the
// ad keeps its position, id and timestamp and receives the patched fields.
func UpdateAdVersionInPlace(sessions []Session, sessionID, adSetID, adID string, patch AdPatch, now int64) []Session {
	return updateAdSet(sessions, sessionID, adSetID, now, func(as AdSet) (AdSet, bool) {
		idx := indexOfAd(as.Ads, adID)
		if idx < 0 {
			return as, false
		}
		ads := make([]Ad, len(as.Ads))
		copy(ads, as.Ads)
		ads[idx] = patch.apply(ads[idx])
		as.Ads = ads
		return as, true
	})
}

type AdSetRename struct {
	Name           string `json:"name"`
	TargetAudience string `json:"targetAudience"`
}

func RenameAdSet(sessions []Session, sessionID, adSetID string, rename AdSetRename, now int64) []Session {
	return updateAdSet(sessions, sessionID, adSetID, now, func(as AdSet) (AdSet, bool) {
		as.Name = rename.Name
		as.TargetAudience = rename.TargetAudience
		return as, true
	})
}

func DeleteSession(sessions []Session, sessionID string) []Session {
	if indexOfSession(sessions, sessionID) < 0 {
		return sessions
	}
	out := make([]Session, 0, len(sessions)-1)
	for _, s := range sessions {
		if s.ID != sessionID {
			out = append(out, s)
		}
	}
	return out
}

func FindSession(sessions []Session, sessionID string) (Session, bool) {
	if i := indexOfSession(sessions, sessionID); i >= 0 {
		return sessions[i], true
	}
	return Session{}, false
}

func FindAdSet(session Session, adSetID string) (AdSet, bool) {
	for _, as := range session.AdSets {
		if as.ID == adSetID {
			return as, true
		}
	}
	return AdSet{}, false
}

func FindAd(adSet AdSet, adID string) (Ad, int, bool) {
	if i := indexOfAd(adSet.Ads, adID); i >= 0 {
		return adSet.Ads[i], i, true
	}
	return Ad{}, -1, false
}

// LatestAd is the newest version; false for an empty history.
func LatestAd(adSet AdSet) (Ad, bool) {
	if len(adSet.Ads) == 0 {
		return Ad{}, false
	}
	return adSet.Ads[len(adSet.Ads)-1], true
}

// Locate resolves a session/ad set pair in one step.
func Locate(sessions []Session, sessionID, adSetID string) (Session, AdSet, bool) {
	s, ok := FindSession(sessions, sessionID)
	if !ok {
		return Session{}, AdSet{}, false
	}
	as, ok := FindAdSet(s, adSetID)
	return s, as, ok
}

func updateSession(sessions []Session, sessionID string, now int64, fn func(Session) (Session, bool)) []Session {
	idx := indexOfSession(sessions, sessionID)
	if idx < 0 {
		return sessions
	}
	updated, changed := fn(sessions[idx])
	if !changed {
		return sessions
	}
	updated.LastModified = now
	out := make([]Session, len(sessions))
	copy(out, sessions)
	out[idx] = updated
	return out
}

func updateAdSet(sessions []Session, sessionID, adSetID string, now int64, fn func(AdSet) (AdSet, bool)) []Session {
	return updateSession(sessions, sessionID, now, func(s Session) (Session, bool) {
		idx := -1
		for i, as := range s.AdSets {
			if as.ID == adSetID {
				idx = i
				break
			}
		}
		if idx < 0 {
			return s, false
		}
		updated, changed := fn(s.AdSets[idx])
		if !changed {
			return s, false
		}
		adSets := make([]AdSet, len(s.AdSets))
		copy(adSets, s.AdSets)
		adSets[idx] = updated
		s.AdSets = adSets
		return s, true
	})
}

func indexOfSession(sessions []Session, id string) int {
	for i, s := range sessions {
		if s.ID == id {
			return i
		}
	}
	return -1
}

func indexOfAd(ads []Ad, id string) int {
	for i, a := range ads {
		if a.ID == id {
			return i
		}
	}
	return -1
}
