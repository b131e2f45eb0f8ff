package triage

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"healthguide/internal/metrics"
)

// OracleClient is the capability interface for the external language
// reasoning service. Implementations live in internal/llm.
type OracleClient interface {
	AssessTriage(ctx context.Context, history []Message, message string) (*TriageResult, error)
	GenerateResponse(ctx context.Context, messages []Message, history []Message) (string, error)
}

// OracleRegistry selects an oracle by provider name. An empty name resolves
// to the configured default.
type OracleRegistry interface {
	Get(name string) (OracleClient, error)
}

type Service interface {
	ProcessMessage(ctx context.Context, req *TriageRequest) (*TriageResponse, error)
	Summary(ctx context.Context, sessionID string) (*SummaryResponse, error)
	LogTemperature(ctx context.Context, log *TemperatureLog) error
	TemperatureHistory(ctx context.Context, sessionID string) ([]TemperatureLog, error)
}

type service struct {
	repo          Repository
	oracles       OracleRegistry
	metrics       *metrics.Metrics
	oracleTimeout time.Duration
	log           zerolog.Logger
}

func NewService(repo Repository, oracles OracleRegistry, m *metrics.Metrics, oracleTimeout time.Duration, log zerolog.Logger) Service {
	return &service{
		repo:          repo,
		oracles:       oracles,
		metrics:       m,
		oracleTimeout: oracleTimeout,
		log:           log.With().Str("component", "triage").Logger(),
	}
}

// ProcessMessage runs one triage turn: red-flag interlock first, then oracle
// assessment, then fever pattern annotation, then reply composition and
// persistence. The red-flag path completes with zero oracle calls.
func (s *service) ProcessMessage(ctx context.Context, req *TriageRequest) (*TriageResponse, error) {
	history := NormalizeHistory(req.ConversationHistory)
	enhanced := enhanceMessage(req.Message, req.SymptomData)

	// Safety interlock. A match on either the raw or the enhanced text is
	// authoritative and cannot be overridden by anything downstream.
	redFlag, found := CheckRedFlags(req.Message)
	if !found {
		redFlag, found = CheckRedFlags(enhanced)
	}
	if !found && req.SymptomData != nil && req.SymptomData.EmergencyDetected {
		redFlag = "Emergency symptoms selected via symptom selector"
		found = true
	}
	if found {
		return s.shortCircuit(ctx, req, history, redFlag)
	}

	oracle, err := s.oracles.Get(req.LLMProvider)
	if err != nil {
		return nil, err
	}

	triageMessage := req.Message
	if req.SymptomData != nil {
		triageMessage = enhanced
	}

	oracleCtx, cancel := context.WithTimeout(ctx, s.oracleTimeout)
	defer cancel()

	result, err := oracle.AssessTriage(oracleCtx, history, triageMessage)
	if err != nil {
		s.metrics.OracleFailure(req.LLMProvider)
		return nil, err
	}

	// The oracle may flag a red flag condition independently of the text
	// scan; that also forces emergency.
	if result.RedFlagDetected {
		symptom := result.RedFlagSymptom
		if symptom == "" {
			symptom = "red flag symptom"
		}
		forced := emergencyResult(symptom)
		if result.Summary != "" {
			forced.Summary = result.Summary
		}
		result = &forced
	}

	// Disease annotation never changes the triage level; it only biases the
	// recommendations when the scorer is confident enough.
	analysis := IdentifyFeverType(triageMessage, extractTemperature(triageMessage))
	if analysis.Confidence > DiseaseConfidenceThreshold {
		if recs := DiseaseRecommendations(analysis.LikelyType); len(recs) > 0 {
			result.RecommendedNextSteps = append(recs, result.RecommendedNextSteps...)
			result.Summary = fmt.Sprintf("%s (Possible %s - %.0f%% confidence)",
				result.Summary, strings.ToUpper(analysis.LikelyType), analysis.Confidence*100)
		}
	}
	s.log.Debug().
		Str("session_id", req.SessionID).
		Str("likely_type", analysis.LikelyType).
		Float64("confidence", analysis.Confidence).
		Interface("scores", analysis.Scores).
		Msg("fever pattern analysis")

	var reply string
	var complete bool
	if result.RedFlagDetected {
		reply = RedFlagResponse(result.RedFlagSymptom)
		complete = true
	} else {
		genCtx, cancelGen := context.WithTimeout(ctx, s.oracleTimeout)
		defer cancelGen()

		reply, err = oracle.GenerateResponse(genCtx, append(history, Message{
			Role: "user", Content: req.Message, Timestamp: time.Now(),
		}), history)
		if err != nil {
			s.metrics.OracleFailure(req.LLMProvider)
			return nil, err
		}
		if result.NextQuestion != "" {
			reply += "\n\n" + result.NextQuestion
		}
		// The dialogue terminates the first turn no further question is
		// produced.
		complete = result.NextQuestion == ""
	}

	transcript := appendTurn(history, req.Message, reply)
	if err := s.repo.SaveConversation(ctx, req.SessionID, transcript, result.TriageLevel, result.Summary, result.RedFlagSymptom); err != nil {
		return nil, err
	}

	s.metrics.TriageCompleted(string(result.TriageLevel))
	s.log.Info().
		Str("session_id", req.SessionID).
		Str("triage_level", string(result.TriageLevel)).
		Bool("complete", complete).
		Msg("triage turn processed")

	return &TriageResponse{
		SessionID:            req.SessionID,
		Message:              reply,
		TriageResult:         *result,
		ConversationComplete: complete,
	}, nil
}

// shortCircuit handles the red-flag path: fixed emergency result, fixed
// reply text, transcript persisted, no oracle involvement.
func (s *service) shortCircuit(ctx context.Context, req *TriageRequest, history []Message, redFlag string) (*TriageResponse, error) {
	result := emergencyResult(redFlag)
	reply := RedFlagResponse(redFlag)

	transcript := appendTurn(history, req.Message, reply)
	if err := s.repo.SaveConversation(ctx, req.SessionID, transcript, LevelEmergency, result.Summary, redFlag); err != nil {
		return nil, err
	}

	s.metrics.RedFlagDetected()
	s.metrics.TriageCompleted(string(LevelEmergency))
	s.log.Warn().
		Str("session_id", req.SessionID).
		Str("red_flag", redFlag).
		Msg("red flag detected, short-circuiting to emergency")

	return &TriageResponse{
		SessionID:            req.SessionID,
		Message:              reply,
		TriageResult:         result,
		ConversationComplete: true,
	}, nil
}

func (s *service) Summary(ctx context.Context, sessionID string) (*SummaryResponse, error) {
	conversation, err := s.repo.GetConversation(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	level := conversation.TriageLevel
	if !level.Valid() {
		level = LevelFollowUp
	}
	summary := conversation.Summary
	if summary == "" {
		summary = "Fever-related symptoms discussed"
	}

	return &SummaryResponse{
		SessionID:   sessionID,
		Summary:     summary,
		TriageLevel: level,
		RecommendedNextSteps: []string{
			"Monitor your symptoms",
			"Stay hydrated",
			"Get plenty of rest",
			"Consult a healthcare provider if symptoms persist",
		},
		ConversationCount: len(conversation.Messages),
	}, nil
}

func (s *service) LogTemperature(ctx context.Context, log *TemperatureLog) error {
	return s.repo.SaveTemperature(ctx, log)
}

func (s *service) TemperatureHistory(ctx context.Context, sessionID string) ([]TemperatureLog, error) {
	return s.repo.TemperatureHistory(ctx, sessionID, 50)
}

// enhanceMessage folds structured symptom selections into the free text so
// the downstream checks and the oracle see them. An emergency selection gets
// a marker prefix that the red-flag path treats as authoritative.
func enhanceMessage(message string, data *SymptomData) string {
	if data == nil {
		return message
	}
	enhanced := message
	if data.EmergencyDetected {
		enhanced = "EMERGENCY SYMPTOMS DETECTED: " + message
	}
	if len(data.Symptoms) > 0 {
		enhanced = fmt.Sprintf("%s\n\nSelected symptoms: %s", enhanced, strings.Join(data.Symptoms, ", "))
	}
	return enhanced
}

func appendTurn(history []Message, userMessage, reply string) []Message {
	now := time.Now()
	transcript := make([]Message, 0, len(history)+2)
	transcript = append(transcript, history...)
	transcript = append(transcript,
		Message{Role: "user", Content: userMessage, Timestamp: now},
		Message{Role: "assistant", Content: reply, Timestamp: now},
	)
	return transcript
}

var (
	tempLabeledRe = regexp.MustCompile(`(?i)(?:temperature|temp|fever)\s*(?:of|is|was|at|:)?\s*(\d{2,3}(?:\.\d+)?)`)
	tempUnitRe    = regexp.MustCompile(`(?i)(\d{2,3}(?:\.\d+)?)\s*°?\s*(?:f\b|fahrenheit)`)
)

// extractTemperature pulls an explicit Fahrenheit reading out of the message
// text, e.g. "temperature 104°F" or "fever of 103.5". Readings outside the
// clinically plausible 90-110 range are ignored.
func extractTemperature(text string) *float64 {
	for _, re := range []*regexp.Regexp{tempLabeledRe, tempUnitRe} {
		if m := re.FindStringSubmatch(text); m != nil {
			if t, err := strconv.ParseFloat(m[1], 64); err == nil && t >= 90 && t <= 110 {
				return &t
			}
		}
	}
	return nil
}
