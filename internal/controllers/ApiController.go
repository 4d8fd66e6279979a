package controllers

import (
	"adforge/internal/models"
	"adforge/internal/orchestrator"
	"adforge/internal/providers"
	"adforge/internal/services"
	"errors"
	"net/http"
	"strconv"

	json "github.com/goccy/go-json"
)

// Image payloads travel inline as data URLs.
const maxRequestBodySize = 32 << 20 // 32 MB

type ApiController struct {
	logger       providers.Logger
	store        services.SessionStoreInterface
	orchestrator orchestrator.OrchestratorInterface
	cache        providers.CacheProviderInterface
}

func NewApiController(logger providers.Logger, store services.SessionStoreInterface, orch orchestrator.OrchestratorInterface, cache providers.CacheProviderInterface) *ApiController {
	return &ApiController{
		logger:       logger,
		store:        store,
		orchestrator: orch,
		cache:        cache,
	}
}

type sessionSummary struct {
	ID           string             `json:"id"`
	Title        string             `json:"title"`
	ProductInfo  models.ProductInfo `json:"productInfo"`
	AdSetCount   int                `json:"adSetCount"`
	LastModified int64              `json:"lastModified"`
}

type accepted struct {
	Slot orchestrator.SlotKey `json:"slot"`
}

// ListSessions returns the session list, newest first. The rendering is cached
// per store revision.
func (ac *ApiController) ListSessions(w http.ResponseWriter, r *http.Request) {
	rev := ac.store.Revision()
	data, err := providers.Remember(ac.cache, "sessions:"+strconv.FormatUint(rev, 10), func() ([]byte, error) {
		sessions := ac.store.Snapshot()
		out := make([]sessionSummary, len(sessions))
		for i, s := range sessions {
			out[i] = sessionSummary{
				ID:           s.ID,
				Title:        s.Title,
				ProductInfo:  s.ProductInfo,
				AdSetCount:   len(s.AdSets),
				LastModified: s.LastModified,
			}
		}
		return json.Marshal(out)
	})
	if err != nil {
		ac.logger.Errorf(providers.TypeGet, "Failed to render session list: %s", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	writeRaw(w, http.StatusOK, data)
}

func (ac *ApiController) GetSession(w http.ResponseWriter, r *http.Request) {
	id := r.URL.Query().Get("id")
	session, ok := models.FindSession(ac.store.Snapshot(), id)
	if !ok {
		http.Error(w, "Not Found", http.StatusNotFound)
		return
	}
	writeJSON(w, http.StatusOK, session)
}

func (ac *ApiController) DeleteSession(w http.ResponseWriter, r *http.Request) {
	var req struct {
		SessionID string `json:"sessionId"`
	}
	if !decode(w, r, &req) {
		return
	}
	if err := ac.orchestrator.DeleteSession(req.SessionID); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (ac *ApiController) SubmitCampaign(w http.ResponseWriter, r *http.Request) {
	in := models.DefaultInput()
	if !decode(w, r, &in) {
		return
	}
	ac.dispatched(w, func() (orchestrator.SlotKey, error) { return ac.orchestrator.SubmitCampaign(in) })
}

func (ac *ApiController) SubmitAdSet(w http.ResponseWriter, r *http.Request) {
	req := orchestrator.AdSetRequest{Input: models.DefaultInput()}
	if !decode(w, r, &req) {
		return
	}
	ac.dispatched(w, func() (orchestrator.SlotKey, error) { return ac.orchestrator.SubmitAdSet(req) })
}

func (ac *ApiController) RenameAdSet(w http.ResponseWriter, r *http.Request) {
	var req orchestrator.RenameRequest
	if !decode(w, r, &req) {
		return
	}
	if err := ac.orchestrator.RenameAdSet(req); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (ac *ApiController) Refine(w http.ResponseWriter, r *http.Request) {
	var req orchestrator.RefineRequest
	if !decode(w, r, &req) {
		return
	}
	ac.dispatched(w, func() (orchestrator.SlotKey, error) { return ac.orchestrator.Refine(req) })
}

func (ac *ApiController) Resize(w http.ResponseWriter, r *http.Request) {
	var req orchestrator.ResizeRequest
	if !decode(w, r, &req) {
		return
	}
	ac.dispatched(w, func() (orchestrator.SlotKey, error) { return ac.orchestrator.Resize(req) })
}

func (ac *ApiController) Variation(w http.ResponseWriter, r *http.Request) {
	var req orchestrator.AdRequest
	if !decode(w, r, &req) {
		return
	}
	ac.dispatched(w, func() (orchestrator.SlotKey, error) { return ac.orchestrator.Variation(req) })
}

func (ac *ApiController) Enhance(w http.ResponseWriter, r *http.Request) {
	var req orchestrator.EnhanceRequest
	if !decode(w, r, &req) {
		return
	}
	ac.dispatched(w, func() (orchestrator.SlotKey, error) { return ac.orchestrator.Enhance(req) })
}

func (ac *ApiController) Animate(w http.ResponseWriter, r *http.Request) {
	var req orchestrator.AdRequest
	if !decode(w, r, &req) {
		return
	}
	ac.dispatched(w, func() (orchestrator.SlotKey, error) { return ac.orchestrator.Animate(req) })
}

// Tasks reports the state of every action slot and the last error message of
// each category.
func (ac *ApiController) Tasks(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, struct {
		Tasks  []orchestrator.TaskStatus        `json:"tasks"`
		Errors map[orchestrator.Category]string `json:"errors"`
	}{
		Tasks:  ac.orchestrator.Tasks(),
		Errors: ac.orchestrator.Errors(),
	})
}

func (ac *ApiController) dispatched(w http.ResponseWriter, submit func() (orchestrator.SlotKey, error)) {
	key, err := submit()
	if err != nil {
		ac.logger.Warnf(providers.TypePost, "Action rejected: %s", err)
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusAccepted, accepted{Slot: key})
}

func decode(w http.ResponseWriter, r *http.Request, v interface{}) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBodySize)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			http.Error(w, "Request Entity Too Large", http.StatusRequestEntityTooLarge)
			return false
		}
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return false
	}
	return true
}

func statusFor(err error) int {
	var verr *orchestrator.ValidationError
	switch {
	case errors.As(err, &verr):
		return http.StatusBadRequest
	case errors.Is(err, orchestrator.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, orchestrator.ErrSlotBusy), errors.Is(err, orchestrator.ErrAlreadyAnimated):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

func writeError(w http.ResponseWriter, err error) {
	status := statusFor(err)
	msg := err.Error()
	if status == http.StatusInternalServerError {
		msg = "Internal Server Error"
	}
	http.Error(w, msg, status)
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	gson, err := json.Marshal(v)
	if err != nil {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	writeRaw(w, status, gson)
}

func writeRaw(w http.ResponseWriter, status int, data []byte) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(data)
}
