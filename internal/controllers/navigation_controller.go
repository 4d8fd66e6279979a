package controllers

import (
	"adforge/internal/models"
	"adforge/internal/navigation"
	"adforge/internal/orchestrator"
	"adforge/internal/services"
	"net/http"
)

type NavigationController struct {
	nav          navigation.NavigatorInterface
	store        services.SessionStoreInterface
	orchestrator orchestrator.OrchestratorInterface
}

func NewNavigationController(nav navigation.NavigatorInterface, store services.SessionStoreInterface, orch orchestrator.OrchestratorInterface) *NavigationController {
	return &NavigationController{nav: nav, store: store, orchestrator: orch}
}

type navRequest struct {
	Action    string `json:"action"`
	SessionID string `json:"sessionId,omitempty"`
	AdSetID   string `json:"adSetId,omitempty"`
	Index     int    `json:"index,omitempty"`
	Delta     int    `json:"delta,omitempty"`
}

type viewResponse struct {
	navigation.View
	HasPrev bool                             `json:"hasPrev"`
	HasNext bool                             `json:"hasNext"`
	Input   *models.CampaignInput            `json:"input,omitempty"`
	Errors  map[orchestrator.Category]string `json:"errors,omitempty"`
}

func (nc *NavigationController) View(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, nc.render(nil))
}

// Navigate applies one transition and answers with the resulting view.
func (nc *NavigationController) Navigate(w http.ResponseWriter, r *http.Request) {
	var req navRequest
	if !decode(w, r, &req) {
		return
	}

	var input *models.CampaignInput
	switch req.Action {
	case "newSession":
		nc.nav.NewSession()
		in := models.DefaultInput()
		input = &in
	case "selectSession":
		if _, ok := models.FindSession(nc.store.Snapshot(), req.SessionID); !ok {
			http.Error(w, "Not Found", http.StatusNotFound)
			return
		}
		nc.nav.SelectSession(req.SessionID)
	case "openAdSet":
		if !nc.nav.OpenAdSet(req.AdSetID) {
			http.Error(w, "no session selected", http.StatusConflict)
			return
		}
	case "back":
		nc.nav.Back()
	case "beginAdSet":
		session, ok := models.FindSession(nc.store.Snapshot(), nc.nav.State().SessionID)
		if !ok || !nc.nav.BeginAdSet() {
			http.Error(w, "open a session dashboard first", http.StatusConflict)
			return
		}
		in := models.InputForAdSet(session)
		input = &in
	case "selectVersion":
		nc.nav.SelectVersion(req.Index)
	case "stepVersion":
		nc.nav.StepVersion(req.Delta)
	case "selectScript":
		nc.nav.SelectScript(req.Index)
	default:
		http.Error(w, "unknown action", http.StatusBadRequest)
		return
	}
	writeJSON(w, http.StatusOK, nc.render(input))
}

func (nc *NavigationController) render(input *models.CampaignInput) viewResponse {
	view := nc.nav.Resolve(nc.store.Snapshot())
	return viewResponse{
		View:    view,
		HasPrev: view.HasPrev(),
		HasNext: view.HasNext(),
		Input:   input,
		Errors:  nc.orchestrator.Errors(),
	}
}
