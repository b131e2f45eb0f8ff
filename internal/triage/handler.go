package triage

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"healthguide/internal/report"
)

// OracleProviderInfo describes one configured oracle provider for the
// provider listing endpoint.
type OracleProviderInfo struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Available bool   `json:"available"`
}

// OracleCatalog lists the configured oracle providers and the default.
type OracleCatalog interface {
	Providers() []OracleProviderInfo
	Default() string
}

type Handler struct {
	svc     Service
	oracles OracleCatalog
	reports *report.Service
	log     zerolog.Logger
}

func NewHandler(svc Service, oracles OracleCatalog, reports *report.Service, log zerolog.Logger) *Handler {
	return &Handler{svc: svc, oracles: oracles, reports: reports, log: log.With().Str("component", "http").Logger()}
}

func (h *Handler) HandleTriage(w http.ResponseWriter, r *http.Request) {
	var req TriageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.SessionID == "" {
		h.writeError(w, http.StatusBadRequest, "session_id is required")
		return
	}
	if req.Message == "" {
		h.writeError(w, http.StatusBadRequest, "message is required")
		return
	}

	resp, err := h.svc.ProcessMessage(r.Context(), &req)
	if err != nil {
		h.mapError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) HandleSummary(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionID")
	summary, err := h.svc.Summary(r.Context(), sessionID)
	if err != nil {
		h.mapError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, summary)
}

func (h *Handler) HandleSummaryPDF(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionID")
	summary, err := h.svc.Summary(r.Context(), sessionID)
	if err != nil {
		h.mapError(w, err)
		return
	}

	pdf, err := h.reports.SummaryPDF(report.Summary{
		SessionID:    summary.SessionID,
		Summary:      summary.Summary,
		TriageLevel:  string(summary.TriageLevel),
		Steps:        summary.RecommendedNextSteps,
		MessageCount: summary.ConversationCount,
	})
	if err != nil {
		h.log.Error().Err(err).Str("session_id", sessionID).Msg("pdf generation failed")
		h.writeError(w, http.StatusInternalServerError, "failed to generate report")
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", "attachment; filename=triage_summary_"+sessionID+".pdf")
	w.Write(pdf)
}

func (h *Handler) HandleCreateSession(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"session_id": uuid.NewString(),
		"message":    "New session created",
	})
}

func (h *Handler) HandleLLMProviders(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"providers": h.oracles.Providers(),
		"default":   h.oracles.Default(),
	})
}

type temperatureRequest struct {
	SessionID   string  `json:"session_id"`
	Temperature float64 `json:"temperature"`
	Unit        string  `json:"unit"`
	Notes       string  `json:"notes"`
}

func (h *Handler) HandleLogTemperature(w http.ResponseWriter, r *http.Request) {
	var req temperatureRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.SessionID == "" {
		h.writeError(w, http.StatusBadRequest, "session_id is required")
		return
	}

	log := &TemperatureLog{
		SessionID:   req.SessionID,
		Temperature: req.Temperature,
		Unit:        req.Unit,
		Notes:       req.Notes,
	}
	if err := h.svc.LogTemperature(r.Context(), log); err != nil {
		h.mapError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, log)
}

func (h *Handler) HandleTemperatureHistory(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionID")
	logs, err := h.svc.TemperatureHistory(r.Context(), sessionID)
	if err != nil {
		h.mapError(w, err)
		return
	}
	if logs == nil {
		logs = []TemperatureLog{}
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"session_id":   sessionID,
		"temperatures": logs,
	})
}

// mapError translates core error variants to HTTP statuses. An oracle outage
// is a bad gateway, never an all-clear triage result.
func (h *Handler) mapError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrNotFound):
		h.writeError(w, http.StatusNotFound, "conversation not found")
	case errors.Is(err, ErrOracleUnavailable):
		h.log.Error().Err(err).Msg("oracle failure")
		h.writeError(w, http.StatusBadGateway, "triage assistant is temporarily unavailable")
	default:
		h.log.Error().Err(err).Msg("request failed")
		h.writeError(w, http.StatusInternalServerError, "internal error")
	}
}

func (h *Handler) writeError(w http.ResponseWriter, status int, detail string) {
	writeJSON(w, status, map[string]string{"detail": detail})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func RegisterRoutes(r chi.Router, h *Handler) {
	r.Post("/triage", h.HandleTriage)
	r.Get("/summary/{sessionID}", h.HandleSummary)
	r.Get("/summary/{sessionID}/pdf", h.HandleSummaryPDF)
	r.Post("/session", h.HandleCreateSession)
	r.Get("/llm-providers", h.HandleLLMProviders)
	r.Post("/temperature", h.HandleLogTemperature)
	r.Get("/temperature/{sessionID}", h.HandleTemperatureHistory)
}
