package triage

import (
	"time"
)

// TriageLevel is the urgency classification assigned to a conversation turn.
// The label set is surfaced to callers and persisted, so it must not change.
type TriageLevel string

const (
	LevelEmergency TriageLevel = "emergency"
	LevelUrgent    TriageLevel = "urgent"
	LevelRoutine   TriageLevel = "routine"
	LevelFollowUp  TriageLevel = "follow_up"
)

// Urgency orders triage levels for comparison. Higher means more urgent.
func (l TriageLevel) Urgency() int {
	switch l {
	case LevelEmergency:
		return 3
	case LevelUrgent:
		return 2
	case LevelRoutine:
		return 1
	case LevelFollowUp:
		return 0
	default:
		return -1
	}
}

// Valid reports whether l is one of the known levels.
func (l TriageLevel) Valid() bool {
	return l.Urgency() >= 0
}

// ParseTriageLevel maps a raw string onto a TriageLevel, falling back to
// follow_up for anything unknown.
func ParseTriageLevel(raw string) TriageLevel {
	l := TriageLevel(raw)
	if !l.Valid() {
		return LevelFollowUp
	}
	return l
}

type Message struct {
	Role      string    `json:"role"` // "user" or "assistant"
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
}

// RawMessage is a leniently decoded history entry as supplied by clients.
// Shapes vary across frontends, so every field is optional here and
// NormalizeHistory fills in the defaults.
type RawMessage struct {
	Role      string     `json:"role"`
	Content   string     `json:"content"`
	Timestamp *time.Time `json:"timestamp"`
}

// NormalizeHistory converts client-supplied history entries into canonical
// Messages: a missing role defaults to "user" and a missing timestamp to the
// current time. The core only ever sees the canonical form.
func NormalizeHistory(raw []RawMessage) []Message {
	messages := make([]Message, 0, len(raw))
	for _, m := range raw {
		msg := Message{Role: m.Role, Content: m.Content}
		if msg.Role == "" {
			msg.Role = "user"
		}
		if m.Timestamp != nil {
			msg.Timestamp = *m.Timestamp
		} else {
			msg.Timestamp = time.Now()
		}
		messages = append(messages, msg)
	}
	return messages
}

// TriageResult is produced fresh each turn by the assessment step. The
// orchestrator may prepend disease-specific recommendations before returning
// it; nothing else mutates it after construction.
type TriageResult struct {
	TriageLevel          TriageLevel `json:"triage_level"`
	Escalate             bool        `json:"escalate"`
	Summary              string      `json:"summary"`
	RecommendedNextSteps []string    `json:"recommended_next_steps"`
	RedFlagDetected      bool        `json:"red_flag_detected"`
	RedFlagSymptom       string      `json:"red_flag_symptom,omitempty"`
	NextQuestion         string      `json:"next_question,omitempty"`
}

// SymptomData carries structured symptom selections made in the UI alongside
// the free-text message. EmergencyDetected carries the same authority as a
// textual red-flag match.
type SymptomData struct {
	Symptoms          []string `json:"symptoms"`
	EmergencyDetected bool     `json:"emergency_detected"`
}

type TriageRequest struct {
	SessionID           string       `json:"session_id"`
	Message             string       `json:"message"`
	ConversationHistory []RawMessage `json:"conversation_history"`
	SymptomData         *SymptomData `json:"symptom_data,omitempty"`
	LLMProvider         string       `json:"llm_provider,omitempty"`
}

type TriageResponse struct {
	SessionID            string       `json:"session_id"`
	Message              string       `json:"message"`
	TriageResult         TriageResult `json:"triage_result"`
	ConversationComplete bool         `json:"conversation_complete"`
}

type SummaryResponse struct {
	SessionID            string      `json:"session_id"`
	Summary              string      `json:"summary"`
	TriageLevel          TriageLevel `json:"triage_level"`
	RecommendedNextSteps []string    `json:"recommended_next_steps"`
	ConversationCount    int         `json:"conversation_count"`
}

// Conversation is the persisted transcript for a session.
type Conversation struct {
	SessionID   string      `json:"session_id"`
	Messages    []Message   `json:"messages"`
	TriageLevel TriageLevel `json:"triage_level,omitempty"`
	Summary     string      `json:"summary,omitempty"`
	RedFlag     string      `json:"red_flag_detected,omitempty"`
	CreatedAt   time.Time   `json:"created_at"`
	UpdatedAt   time.Time   `json:"updated_at"`
}

// TemperatureLog is a single temperature reading recorded for a session.
type TemperatureLog struct {
	ID          int64     `json:"id"`
	SessionID   string    `json:"session_id"`
	Temperature float64   `json:"temperature"`
	Unit        string    `json:"unit"` // "F" or "C"
	RecordedAt  time.Time `json:"recorded_at"`
	Notes       string    `json:"notes,omitempty"`
}
