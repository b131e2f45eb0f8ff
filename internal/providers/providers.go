package providers

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
)

// Provider describes a nearby healthcare facility. The real maps lookup is
// an external integration; this package serves a curated fallback list
// filtered by triage level so the frontend flow works without a maps key.
type Provider struct {
	ID      string  `json:"id"`
	Name    string  `json:"name"`
	Type    string  `json:"type"` // "emergency", "urgent_care", "clinic", "pharmacy"
	Address string  `json:"address"`
	Phone   string  `json:"phone"`
	Rating  float64 `json:"rating"`
}

type Request struct {
	Location    string `json:"location"`
	TriageLevel string `json:"triage_level"`
}

var fallbackProviders = []Provider{
	{ID: "er-1", Name: "City General Hospital Emergency Room", Type: "emergency", Address: "120 Main St", Phone: "911", Rating: 4.2},
	{ID: "er-2", Name: "St. Mary's Medical Center ER", Type: "emergency", Address: "45 Hillcrest Ave", Phone: "911", Rating: 4.0},
	{ID: "uc-1", Name: "Downtown Urgent Care", Type: "urgent_care", Address: "88 Oak Blvd", Phone: "+1 555 0188", Rating: 4.4},
	{ID: "uc-2", Name: "Rapid Response Urgent Care", Type: "urgent_care", Address: "301 Pine Rd", Phone: "+1 555 0301", Rating: 4.1},
	{ID: "cl-1", Name: "Family Health Clinic", Type: "clinic", Address: "12 Elm St", Phone: "+1 555 0012", Rating: 4.6},
	{ID: "cl-2", Name: "Neighborhood Medical Practice", Type: "clinic", Address: "77 Cedar Ln", Phone: "+1 555 0077", Rating: 4.3},
	{ID: "ph-1", Name: "Central Pharmacy", Type: "pharmacy", Address: "5 Market Sq", Phone: "+1 555 0005", Rating: 4.5},
}

// Lookup filters the provider list by the care level the triage outcome
// calls for.
func Lookup(req Request) []Provider {
	wanted := typesForLevel(req.TriageLevel)
	matched := make([]Provider, 0, len(fallbackProviders))
	for _, p := range fallbackProviders {
		if wanted[p.Type] {
			matched = append(matched, p)
		}
	}
	return matched
}

func typesForLevel(level string) map[string]bool {
	switch level {
	case "emergency":
		return map[string]bool{"emergency": true}
	case "urgent":
		return map[string]bool{"emergency": true, "urgent_care": true}
	case "routine":
		return map[string]bool{"urgent_care": true, "clinic": true}
	default:
		return map[string]bool{"clinic": true, "pharmacy": true}
	}
}

type Handler struct{}

func NewHandler() *Handler { return &Handler{} }

func (h *Handler) HandleLookup(w http.ResponseWriter, r *http.Request) {
	var req Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"detail": "invalid request body"})
		return
	}

	writeJSON(w, http.StatusOK, Lookup(req))
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func RegisterRoutes(r chi.Router, h *Handler) {
	r.Post("/providers", h.HandleLookup)
}
