package llm

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"healthguide/internal/config"
	"healthguide/internal/triage"
)

// Registry holds the configured oracle providers keyed by id. It implements
// triage.OracleRegistry and triage.OracleCatalog.
type Registry struct {
	clients map[string]triage.OracleClient
	infos   []triage.OracleProviderInfo
	def     string
}

// NewRegistry builds the provider registry from config. Providers without a
// configured API key are listed as unavailable but not registered.
func NewRegistry(cfg *config.Config, log zerolog.Logger) *Registry {
	r := &Registry{
		clients: make(map[string]triage.OracleClient),
		def:     cfg.LLMProvider,
	}

	openaiAvailable := keyConfigured(cfg.OpenAIAPIKey)
	if openaiAvailable {
		r.clients["openai"] = NewOpenAIClient(cfg.OpenAIAPIKey, cfg.OpenAIModel)
	}
	r.infos = append(r.infos, triage.OracleProviderInfo{
		ID: "openai", Name: "OpenAI (GPT-4o Mini)", Available: openaiAvailable,
	})

	geminiAvailable := keyConfigured(cfg.GeminiAPIKey)
	if geminiAvailable {
		r.clients["gemini"] = NewGeminiClient(cfg.GeminiAPIKey, cfg.GeminiModel)
	}
	r.infos = append(r.infos, triage.OracleProviderInfo{
		ID: "gemini", Name: "Google Gemini 2.0 Flash", Available: geminiAvailable,
	})

	if _, ok := r.clients[r.def]; !ok {
		// Fall back to any available provider so a misconfigured default
		// does not break every request.
		for id := range r.clients {
			log.Warn().Str("configured", r.def).Str("using", id).Msg("default llm provider unavailable")
			r.def = id
			break
		}
	}

	log.Info().
		Bool("openai", openaiAvailable).
		Bool("gemini", geminiAvailable).
		Str("default", r.def).
		Msg("oracle providers configured")

	return r
}

// Get returns the provider registered under name, or the default when name
// is empty.
func (r *Registry) Get(name string) (triage.OracleClient, error) {
	if name == "" {
		name = r.def
	}
	client, ok := r.clients[name]
	if !ok {
		return nil, &triage.OracleError{Provider: name, Err: fmt.Errorf("provider %q is not configured", name)}
	}
	return client, nil
}

func (r *Registry) Providers() []triage.OracleProviderInfo {
	return r.infos
}

func (r *Registry) Default() string {
	return r.def
}

func keyConfigured(key string) bool {
	switch key {
	case "", "your_key_here", "your-api-key":
		return false
	}
	return true
}

// assessmentPayload mirrors the JSON object the assessment prompt asks for.
type assessmentPayload struct {
	TriageLevel          string   `json:"triage_level"`
	NextQuestion         *string  `json:"next_question"`
	RedFlagDetected      bool     `json:"red_flag_detected"`
	RedFlagSymptom       *string  `json:"red_flag_symptom"`
	Summary              string   `json:"summary"`
	RecommendedNextSteps []string `json:"recommended_next_steps"`
}

// parseAssessment decodes the provider's JSON reply into a TriageResult. A
// malformed reply is an oracle failure, never a fabricated result.
func parseAssessment(provider, raw string) (*triage.TriageResult, error) {
	cleaned := extractJSON(raw)
	var payload assessmentPayload
	if err := json.Unmarshal([]byte(cleaned), &payload); err != nil {
		return nil, &triage.OracleError{Provider: provider, Err: fmt.Errorf("malformed assessment response: %w", err)}
	}

	result := &triage.TriageResult{
		TriageLevel:          triage.ParseTriageLevel(payload.TriageLevel),
		Summary:              payload.Summary,
		RecommendedNextSteps: payload.RecommendedNextSteps,
		RedFlagDetected:      payload.RedFlagDetected,
	}
	if payload.RedFlagSymptom != nil {
		result.RedFlagSymptom = *payload.RedFlagSymptom
	}
	if payload.NextQuestion != nil {
		result.NextQuestion = strings.TrimSpace(*payload.NextQuestion)
	}
	if result.TriageLevel == triage.LevelEmergency || result.RedFlagDetected {
		result.Escalate = true
	}
	return result, nil
}

// extractJSON strips code fences and surrounding prose, returning the
// outermost JSON object in the text.
func extractJSON(raw string) string {
	start := strings.Index(raw, "{")
	end := strings.LastIndex(raw, "}")
	if start == -1 || end == -1 || end < start {
		return raw
	}
	return raw[start : end+1]
}
