package triage

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"
)

type Repository interface {
	SaveConversation(ctx context.Context, sessionID string, messages []Message, level TriageLevel, summary, redFlag string) error
	GetConversation(ctx context.Context, sessionID string) (*Conversation, error)
	SaveTemperature(ctx context.Context, log *TemperatureLog) error
	TemperatureHistory(ctx context.Context, sessionID string, limit int) ([]TemperatureLog, error)
}

type postgresRepo struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) Repository {
	return &postgresRepo{db: db}
}

// SaveConversation upserts the full transcript for a session. Last write
// wins: concurrent turns for one session are not ordered here, callers
// needing strict ordering must serialize per session.
func (r *postgresRepo) SaveConversation(ctx context.Context, sessionID string, messages []Message, level TriageLevel, summary, redFlag string) error {
	messagesJSON, err := json.Marshal(messages)
	if err != nil {
		return &PersistenceError{Op: "marshal messages", Err: err}
	}

	now := time.Now()
	query := `
		INSERT INTO conversations (session_id, messages, triage_level, summary, red_flag_detected, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $6)
		ON CONFLICT (session_id) DO UPDATE SET
			messages = $2,
			triage_level = $3,
			summary = $4,
			red_flag_detected = $5,
			updated_at = $6
	`
	if _, err := r.db.ExecContext(ctx, query,
		sessionID, messagesJSON, nullable(string(level)), nullable(summary), nullable(redFlag), now); err != nil {
		return &PersistenceError{Op: "save conversation", Err: err}
	}
	return nil
}

func (r *postgresRepo) GetConversation(ctx context.Context, sessionID string) (*Conversation, error) {
	query := `SELECT session_id, messages, triage_level, summary, red_flag_detected, created_at, updated_at
		FROM conversations WHERE session_id = $1`

	row := r.db.QueryRowContext(ctx, query, sessionID)

	var c Conversation
	var messagesJSON []byte
	var level, summary, redFlag sql.NullString

	err := row.Scan(&c.SessionID, &messagesJSON, &level, &summary, &redFlag, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrNotFound
		}
		return nil, &PersistenceError{Op: "get conversation", Err: err}
	}

	if len(messagesJSON) > 0 {
		if err := json.Unmarshal(messagesJSON, &c.Messages); err != nil {
			return nil, &PersistenceError{Op: "unmarshal messages", Err: fmt.Errorf("session %s: %w", sessionID, err)}
		}
	}
	if level.Valid {
		c.TriageLevel = TriageLevel(level.String)
	}
	c.Summary = summary.String
	c.RedFlag = redFlag.String

	return &c, nil
}

func (r *postgresRepo) SaveTemperature(ctx context.Context, log *TemperatureLog) error {
	if log.Unit == "" {
		log.Unit = "F"
	}
	if log.RecordedAt.IsZero() {
		log.RecordedAt = time.Now()
	}
	query := `
		INSERT INTO temperature_logs (session_id, temperature, unit, recorded_at, notes)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id
	`
	err := r.db.QueryRowContext(ctx, query,
		log.SessionID, log.Temperature, log.Unit, log.RecordedAt, nullable(log.Notes)).Scan(&log.ID)
	if err != nil {
		return &PersistenceError{Op: "save temperature", Err: err}
	}
	return nil
}

func (r *postgresRepo) TemperatureHistory(ctx context.Context, sessionID string, limit int) ([]TemperatureLog, error) {
	if limit <= 0 {
		limit = 50
	}
	query := `SELECT id, session_id, temperature, unit, recorded_at, notes
		FROM temperature_logs
		WHERE session_id = $1
		ORDER BY recorded_at DESC
		LIMIT $2`

	rows, err := r.db.QueryContext(ctx, query, sessionID, limit)
	if err != nil {
		return nil, &PersistenceError{Op: "temperature history", Err: err}
	}
	defer rows.Close()

	var logs []TemperatureLog
	for rows.Next() {
		var l TemperatureLog
		var notes sql.NullString
		if err := rows.Scan(&l.ID, &l.SessionID, &l.Temperature, &l.Unit, &l.RecordedAt, &notes); err != nil {
			return nil, &PersistenceError{Op: "scan temperature", Err: err}
		}
		l.Notes = notes.String
		logs = append(logs, l)
	}
	if err := rows.Err(); err != nil {
		return nil, &PersistenceError{Op: "temperature history", Err: err}
	}
	return logs, nil
}

func nullable(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
