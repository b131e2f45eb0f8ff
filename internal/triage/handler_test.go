package triage_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"healthguide/internal/report"
	"healthguide/internal/triage"
)

type fakeService struct {
	processResp *triage.TriageResponse
	processErr  error
	summaryResp *triage.SummaryResponse
	summaryErr  error
}

func (s *fakeService) ProcessMessage(_ context.Context, _ *triage.TriageRequest) (*triage.TriageResponse, error) {
	return s.processResp, s.processErr
}

func (s *fakeService) Summary(_ context.Context, _ string) (*triage.SummaryResponse, error) {
	return s.summaryResp, s.summaryErr
}

func (s *fakeService) LogTemperature(_ context.Context, log *triage.TemperatureLog) error {
	log.ID = 7
	return nil
}

func (s *fakeService) TemperatureHistory(_ context.Context, _ string) ([]triage.TemperatureLog, error) {
	return nil, nil
}

type fakeCatalog struct{}

func (fakeCatalog) Providers() []triage.OracleProviderInfo {
	return []triage.OracleProviderInfo{
		{ID: "openai", Name: "OpenAI (GPT-4o Mini)", Available: true},
		{ID: "gemini", Name: "Google Gemini 2.0 Flash", Available: false},
	}
}

func (fakeCatalog) Default() string { return "openai" }

func newTestRouter(svc triage.Service) *chi.Mux {
	h := triage.NewHandler(svc, fakeCatalog{}, report.NewService(), zerolog.Nop())
	r := chi.NewRouter()
	r.Route("/api", func(r chi.Router) {
		triage.RegisterRoutes(r, h)
	})
	return r
}

func postJSON(t *testing.T, router http.Handler, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	raw, err := json.Marshal(body)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(raw))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestHandleTriage(t *testing.T) {
	svc := &fakeService{
		processResp: &triage.TriageResponse{
			SessionID: "s1",
			Message:   "rest and fluids",
			TriageResult: triage.TriageResult{
				TriageLevel: triage.LevelRoutine,
				Summary:     "mild fever",
			},
			ConversationComplete: true,
		},
	}
	router := newTestRouter(svc)

	rec := postJSON(t, router, "/api/triage", map[string]any{
		"session_id": "s1",
		"message":    "I have a mild fever",
	})
	require.Equal(t, http.StatusOK, rec.Code)

	var resp triage.TriageResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "s1", resp.SessionID)
	assert.Equal(t, triage.LevelRoutine, resp.TriageResult.TriageLevel)
	assert.True(t, resp.ConversationComplete)
}

func TestHandleTriage_Validation(t *testing.T) {
	router := newTestRouter(&fakeService{})

	t.Run("missing session id", func(t *testing.T) {
		rec := postJSON(t, router, "/api/triage", map[string]any{"message": "hi"})
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("missing message", func(t *testing.T) {
		rec := postJSON(t, router, "/api/triage", map[string]any{"session_id": "s1"})
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("invalid body", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/api/triage", bytes.NewReader([]byte("{not json")))
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestHandleTriage_OracleFailureIsBadGateway(t *testing.T) {
	svc := &fakeService{
		processErr: &triage.OracleError{Provider: "openai", Err: errors.New("quota exceeded")},
	}
	router := newTestRouter(svc)

	rec := postJSON(t, router, "/api/triage", map[string]any{
		"session_id": "s1",
		"message":    "fever",
	})
	assert.Equal(t, http.StatusBadGateway, rec.Code)
	assert.Contains(t, rec.Body.String(), "temporarily unavailable")
}

func TestHandleSummary_NotFound(t *testing.T) {
	svc := &fakeService{summaryErr: triage.ErrNotFound}
	router := newTestRouter(svc)

	req := httptest.NewRequest(http.MethodGet, "/api/summary/unknown", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestHandleSummary(t *testing.T) {
	svc := &fakeService{
		summaryResp: &triage.SummaryResponse{
			SessionID:            "s1",
			Summary:              "fever discussed",
			TriageLevel:          triage.LevelFollowUp,
			RecommendedNextSteps: []string{"rest"},
			ConversationCount:    4,
		},
	}
	router := newTestRouter(svc)

	req := httptest.NewRequest(http.MethodGet, "/api/summary/s1", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp triage.SummaryResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, 4, resp.ConversationCount)
	assert.Equal(t, triage.LevelFollowUp, resp.TriageLevel)
}

func TestHandleCreateSession(t *testing.T) {
	router := newTestRouter(&fakeService{})

	rec := postJSON(t, router, "/api/session", map[string]any{})
	require.Equal(t, http.StatusOK, rec.Code)

	var resp map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	_, err := uuid.Parse(resp["session_id"])
	assert.NoError(t, err, "session_id should be a valid uuid")
}

func TestHandleLLMProviders(t *testing.T) {
	router := newTestRouter(&fakeService{})

	req := httptest.NewRequest(http.MethodGet, "/api/llm-providers", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Providers []triage.OracleProviderInfo `json:"providers"`
		Default   string                      `json:"default"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "openai", resp.Default)
	require.Len(t, resp.Providers, 2)
	assert.True(t, resp.Providers[0].Available)
	assert.False(t, resp.Providers[1].Available)
}

func TestHandleLogTemperature(t *testing.T) {
	router := newTestRouter(&fakeService{})

	rec := postJSON(t, router, "/api/temperature", map[string]any{
		"session_id":  "s1",
		"temperature": 101.2,
		"unit":        "F",
	})
	require.Equal(t, http.StatusOK, rec.Code)

	var resp triage.TemperatureLog
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, int64(7), resp.ID)
	assert.Equal(t, 101.2, resp.Temperature)
}

func TestHandleTemperatureHistory_EmptyList(t *testing.T) {
	router := newTestRouter(&fakeService{})

	req := httptest.NewRequest(http.MethodGet, "/api/temperature/s1", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"temperatures":[]`)
}
