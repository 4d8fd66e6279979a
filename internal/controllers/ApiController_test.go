package controllers

import (
	"adforge/internal/models"
	"adforge/internal/orchestrator"
	"adforge/internal/services"
	"adforge/internal/testutil"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// --- local mocks (scoped to controller tests) ---

type mockOrchestrator struct {
	store services.SessionStoreInterface
	err   error

	campaigns  []models.CampaignInput
	adSets     []orchestrator.AdSetRequest
	refines    []orchestrator.RefineRequest
	resizes    []orchestrator.ResizeRequest
	variations []orchestrator.AdRequest
	enhances   []orchestrator.EnhanceRequest
	animations []orchestrator.AdRequest
	renames    []orchestrator.RenameRequest
	deleted    []string
	tasks      []orchestrator.TaskStatus
	errors     map[orchestrator.Category]string
}

func (m *mockOrchestrator) SubmitCampaign(in models.CampaignInput) (orchestrator.SlotKey, error) {
	m.campaigns = append(m.campaigns, in)
	return orchestrator.CampaignSlot(), m.err
}
func (m *mockOrchestrator) SubmitAdSet(req orchestrator.AdSetRequest) (orchestrator.SlotKey, error) {
	m.adSets = append(m.adSets, req)
	return orchestrator.AdSetSlot(req.SessionID), m.err
}
func (m *mockOrchestrator) Refine(req orchestrator.RefineRequest) (orchestrator.SlotKey, error) {
	m.refines = append(m.refines, req)
	return orchestrator.RefineSlot(req.AdSetID), m.err
}
func (m *mockOrchestrator) Resize(req orchestrator.ResizeRequest) (orchestrator.SlotKey, error) {
	m.resizes = append(m.resizes, req)
	return orchestrator.ImageEditSlot(req.AdSetID), m.err
}
func (m *mockOrchestrator) Variation(req orchestrator.AdRequest) (orchestrator.SlotKey, error) {
	m.variations = append(m.variations, req)
	return orchestrator.ImageEditSlot(req.AdSetID), m.err
}
func (m *mockOrchestrator) Enhance(req orchestrator.EnhanceRequest) (orchestrator.SlotKey, error) {
	m.enhances = append(m.enhances, req)
	return orchestrator.ImageEditSlot(req.AdSetID), m.err
}
func (m *mockOrchestrator) Animate(req orchestrator.AdRequest) (orchestrator.SlotKey, error) {
	m.animations = append(m.animations, req)
	return orchestrator.AnimateSlot(req.AdSetID), m.err
}
func (m *mockOrchestrator) RenameAdSet(req orchestrator.RenameRequest) error {
	m.renames = append(m.renames, req)
	return m.err
}
func (m *mockOrchestrator) DeleteSession(id string) error {
	m.deleted = append(m.deleted, id)
	if m.err != nil {
		return m.err
	}
	m.store.Apply(func(in []models.Session) []models.Session { return models.DeleteSession(in, id) })
	return nil
}
func (m *mockOrchestrator) Tasks() []orchestrator.TaskStatus { return m.tasks }
func (m *mockOrchestrator) Errors() map[orchestrator.Category]string {
	return m.errors
}
func (m *mockOrchestrator) Stop(context.Context) error { return nil }

// --- helpers ---

func testSession(id string, adSets int) models.Session {
	s := models.Session{ID: id, Title: "Product " + id, ProductInfo: models.ProductInfo{Name: "Product " + id, PainPoint: "pain"}}
	for i := 0; i < adSets; i++ {
		s.AdSets = append(s.AdSets, models.AdSet{
			ID:   fmt.Sprintf("%s-as%d", id, i),
			Name: "students - Us vs. Them",
			Ads:  []models.Ad{{ID: fmt.Sprintf("%s-ad%d", id, i), ImagePrompt: "p", Scripts: []models.Script{{Title: "T", Hook: "H", Body: "B", CTA: "C"}}}},
		})
	}
	return s
}

func seededStore(sessions ...models.Session) services.SessionStoreInterface {
	store := services.NewSessionStore()
	for i := len(sessions) - 1; i >= 0; i-- {
		s := sessions[i]
		store.Apply(func(in []models.Session) []models.Session { return models.CreateSession(in, s) })
	}
	return store
}

func newTestController(store services.SessionStoreInterface, orch *mockOrchestrator, cache *testutil.MockCache) *ApiController {
	return NewApiController(&testutil.MockLogger{}, store, orch, cache)
}

func post(handler http.HandlerFunc, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
	rr := httptest.NewRecorder()
	handler(rr, req)
	return rr
}

// --- session tests ---

func TestListSessions_SummariesNewestFirst(t *testing.T) {
	store := seededStore(testSession("b", 2), testSession("a", 1))
	ac := newTestController(store, &mockOrchestrator{store: store}, testutil.NewMockCache())

	rr := httptest.NewRecorder()
	ac.ListSessions(rr, httptest.NewRequest(http.MethodGet, "/api/sessions", nil))

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "application/json", rr.Header().Get("Content-Type"))
	var got []sessionSummary
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &got))
	require.Len(t, got, 2)
	assert.Equal(t, "b", got[0].ID)
	assert.Equal(t, 2, got[0].AdSetCount)
	assert.Equal(t, "a", got[1].ID)
}

func TestListSessions_CachedPerRevision(t *testing.T) {
	store := seededStore(testSession("a", 1))
	cache := testutil.NewMockCache()
	ac := newTestController(store, &mockOrchestrator{store: store}, cache)

	rr := httptest.NewRecorder()
	ac.ListSessions(rr, httptest.NewRequest(http.MethodGet, "/api/sessions", nil))
	key := fmt.Sprintf("sessions:%d", store.Revision())
	cached, ok := cache.Get(key)
	require.True(t, ok)
	assert.Equal(t, rr.Body.Bytes(), cached)

	// a stale entry under the current revision is served as is
	cache.Set(key, []byte(`["cached"]`))
	rr = httptest.NewRecorder()
	ac.ListSessions(rr, httptest.NewRequest(http.MethodGet, "/api/sessions", nil))
	assert.JSONEq(t, `["cached"]`, rr.Body.String())

	// a new revision renders again
	s := testSession("b", 1)
	store.Apply(func(in []models.Session) []models.Session { return models.CreateSession(in, s) })
	rr = httptest.NewRecorder()
	ac.ListSessions(rr, httptest.NewRequest(http.MethodGet, "/api/sessions", nil))
	var got []sessionSummary
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &got))
	assert.Len(t, got, 2)
}

func TestGetSession(t *testing.T) {
	store := seededStore(testSession("a", 1))
	ac := newTestController(store, &mockOrchestrator{store: store}, testutil.NewMockCache())

	rr := httptest.NewRecorder()
	ac.GetSession(rr, httptest.NewRequest(http.MethodGet, "/api/session?id=a", nil))
	assert.Equal(t, http.StatusOK, rr.Code)
	var got models.Session
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &got))
	assert.Equal(t, "a-as0", got.AdSets[0].ID)

	rr = httptest.NewRecorder()
	ac.GetSession(rr, httptest.NewRequest(http.MethodGet, "/api/session?id=zzz", nil))
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestDeleteSession(t *testing.T) {
	store := seededStore(testSession("a", 1), testSession("b", 1))
	orch := &mockOrchestrator{store: store}
	ac := newTestController(store, orch, testutil.NewMockCache())

	rr := post(ac.DeleteSession, `{"sessionId":"a"}`)
	assert.Equal(t, http.StatusNoContent, rr.Code)
	assert.Equal(t, []string{"a"}, orch.deleted)
	assert.Equal(t, 1, store.Len())

	orch.err = fmt.Errorf("session x: %w", orchestrator.ErrNotFound)
	rr = post(ac.DeleteSession, `{"sessionId":"x"}`)
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

// --- action tests ---

func TestSubmitCampaign_Accepted(t *testing.T) {
	store := services.NewSessionStore()
	orch := &mockOrchestrator{store: store}
	ac := newTestController(store, orch, testutil.NewMockCache())

	rr := post(ac.SubmitCampaign, `{"productName":"WakeUp Coffee","targetAudience":"students","format":"STORY","archetype":"The Skeptic (UGC)"}`)
	assert.Equal(t, http.StatusAccepted, rr.Code)
	assert.JSONEq(t, `{"slot":{"kind":"campaign"}}`, rr.Body.String())

	require.Len(t, orch.campaigns, 1)
	in := orch.campaigns[0]
	assert.Equal(t, "WakeUp Coffee", in.ProductName)
	assert.Equal(t, models.FormatStory, in.Format)
	assert.Equal(t, models.ArchetypeSkeptic, in.Archetype)
	// omitted fields keep the form defaults
	assert.True(t, in.UseResearch)
	assert.Equal(t, models.ToneUrgent, in.Tone)
}

func TestSubmitCampaign_BadRequests(t *testing.T) {
	store := services.NewSessionStore()
	orch := &mockOrchestrator{store: store}
	ac := newTestController(store, orch, testutil.NewMockCache())

	assert.Equal(t, http.StatusBadRequest, post(ac.SubmitCampaign, `{not json`).Code)
	assert.Equal(t, http.StatusBadRequest, post(ac.SubmitCampaign, `{"format":"SQUARISH"}`).Code)
	assert.Empty(t, orch.campaigns)

	orch.err = &orchestrator.ValidationError{Err: fmt.Errorf("productName is required")}
	rr := post(ac.SubmitCampaign, `{}`)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Contains(t, rr.Body.String(), "productName")
}

func TestActions_StatusMapping(t *testing.T) {
	tests := []struct {
		name string
		err  error
		code int
	}{
		{"accepted", nil, http.StatusAccepted},
		{"busy", fmt.Errorf("animate:as: %w", orchestrator.ErrSlotBusy), http.StatusConflict},
		{"animated", orchestrator.ErrAlreadyAnimated, http.StatusConflict},
		{"missing", orchestrator.ErrNotFound, http.StatusNotFound},
		{"invalid", &orchestrator.ValidationError{Err: fmt.Errorf("bad")}, http.StatusBadRequest},
		{"unexpected", fmt.Errorf("dispatcher stopped"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := services.NewSessionStore()
			orch := &mockOrchestrator{store: store, err: tt.err}
			ac := newTestController(store, orch, testutil.NewMockCache())

			rr := post(ac.Animate, `{"sessionId":"s","adSetId":"as"}`)
			assert.Equal(t, tt.code, rr.Code)
			require.Len(t, orch.animations, 1)
			assert.Equal(t, orchestrator.AdRequest{SessionID: "s", AdSetID: "as"}, orch.animations[0])
		})
	}
}

func TestActions_DecodeRequests(t *testing.T) {
	store := services.NewSessionStore()
	orch := &mockOrchestrator{store: store}
	ac := newTestController(store, orch, testutil.NewMockCache())

	assert.Equal(t, http.StatusAccepted, post(ac.SubmitAdSet, `{"sessionId":"s","input":{"productName":"P","targetAudience":"A","tone":"HUMOROUS"}}`).Code)
	assert.Equal(t, http.StatusAccepted, post(ac.Refine, `{"sessionId":"s","adSetId":"as","instruction":"shorter hook"}`).Code)
	assert.Equal(t, http.StatusAccepted, post(ac.Resize, `{"sessionId":"s","adSetId":"as","adId":"ad","format":"LANDSCAPE"}`).Code)
	assert.Equal(t, http.StatusAccepted, post(ac.Variation, `{"sessionId":"s","adSetId":"as"}`).Code)
	assert.Equal(t, http.StatusAccepted, post(ac.Enhance, `{"sessionId":"s","adSetId":"as","image":"data:image/png;base64,xx"}`).Code)
	assert.Equal(t, http.StatusNoContent, post(ac.RenameAdSet, `{"sessionId":"s","adSetId":"as","name":"N","targetAudience":"T"}`).Code)

	require.Len(t, orch.adSets, 1)
	assert.Equal(t, models.ToneHumorous, orch.adSets[0].Input.Tone)
	assert.True(t, orch.adSets[0].Input.UseResearch)
	assert.Equal(t, "shorter hook", orch.refines[0].Instruction)
	assert.Equal(t, models.FormatLandscape, orch.resizes[0].Format)
	assert.Equal(t, "ad", orch.resizes[0].AdID)
	assert.Len(t, orch.variations, 1)
	assert.Equal(t, "data:image/png;base64,xx", orch.enhances[0].Image)
	assert.Equal(t, "T", orch.renames[0].TargetAudience)
}

func TestTasks(t *testing.T) {
	store := services.NewSessionStore()
	orch := &mockOrchestrator{
		store:  store,
		tasks:  []orchestrator.TaskStatus{{Slot: orchestrator.RefineSlot("as"), State: orchestrator.TaskFailed, Error: "boom"}},
		errors: map[orchestrator.Category]string{orchestrator.CategoryRefinement: orchestrator.MsgRefinement},
	}
	ac := newTestController(store, orch, testutil.NewMockCache())

	rr := httptest.NewRecorder()
	ac.Tasks(rr, httptest.NewRequest(http.MethodGet, "/api/tasks", nil))
	assert.Equal(t, http.StatusOK, rr.Code)

	var resp struct {
		Tasks  []map[string]interface{} `json:"tasks"`
		Errors map[string]string        `json:"errors"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	require.Len(t, resp.Tasks, 1)
	assert.Equal(t, "failed", resp.Tasks[0]["state"])
	assert.Equal(t, orchestrator.MsgRefinement, resp.Errors["refinement"])
}
