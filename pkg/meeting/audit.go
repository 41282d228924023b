package meeting

import (
	"context"
	"database/sql"
	"errors"
	"time"

	_ "modernc.org/sqlite"
)

// CallEvent records one model call made during a meeting.
type CallEvent struct {
	MeetingType string
	TopicSlug   string
	AgentID     string
	Kind        string // "response", "standup", or "synthesis"
	Status      string // "ok" or "error"
	Error       string
	Duration    time.Duration
	StartedAt   time.Time
}

// CallFilter narrows AuditStore.List results. Zero values match everything.
type CallFilter struct {
	MeetingType string
	AgentID     string
	Status      string
	Limit       int
}

// AuditStore persists per-call audit events in SQLite.
type AuditStore struct {
	db *sql.DB
}

// OpenAuditStore opens (or creates) the audit database at path and ensures
// the schema.
func OpenAuditStore(path string) (*AuditStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	store, err := NewAuditStore(db)
	if err != nil {
		db.Close()
		return nil, err
	}
	return store, nil
}

// NewAuditStore wraps an existing database handle and ensures the schema.
func NewAuditStore(db *sql.DB) (*AuditStore, error) {
	if db == nil {
		return nil, errors.New("db is nil")
	}
	if _, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS meeting_call_events (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			meeting_type TEXT NOT NULL,
			topic_slug TEXT NOT NULL,
			agent_id TEXT NOT NULL,
			kind TEXT NOT NULL,
			status TEXT NOT NULL,
			error_text TEXT NOT NULL DEFAULT '',
			duration_ms INTEGER NOT NULL DEFAULT 0,
			started_at TIMESTAMP NOT NULL
		)
	`); err != nil {
		return nil, err
	}
	return &AuditStore{db: db}, nil
}

// Record stores a single call event.
func (s *AuditStore) Record(ctx context.Context, event CallEvent) error {
	started := event.StartedAt
	if started.IsZero() {
		started = time.Now().UTC()
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO meeting_call_events (
			meeting_type, topic_slug, agent_id, kind, status, error_text, duration_ms, started_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`,
		event.MeetingType,
		event.TopicSlug,
		event.AgentID,
		event.Kind,
		event.Status,
		event.Error,
		event.Duration.Milliseconds(),
		started.UTC(),
	)
	return err
}

// List returns call events matching the filter, oldest first.
func (s *AuditStore) List(ctx context.Context, filter CallFilter) ([]CallEvent, error) {
	query := `
		SELECT meeting_type, topic_slug, agent_id, kind, status, error_text, duration_ms, started_at
		FROM meeting_call_events
	`
	var args []any
	where := ""
	addFilter := func(clause string, value any) {
		if where == "" {
			where = " WHERE " + clause
		} else {
			where += " AND " + clause
		}
		args = append(args, value)
	}
	if filter.MeetingType != "" {
		addFilter("meeting_type = ?", filter.MeetingType)
	}
	if filter.AgentID != "" {
		addFilter("agent_id = ?", filter.AgentID)
	}
	if filter.Status != "" {
		addFilter("status = ?", filter.Status)
	}
	query += where + " ORDER BY started_at ASC, id ASC"
	if filter.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, filter.Limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var events []CallEvent
	for rows.Next() {
		var (
			event      CallEvent
			durationMS int64
			started    time.Time
		)
		if err := rows.Scan(
			&event.MeetingType,
			&event.TopicSlug,
			&event.AgentID,
			&event.Kind,
			&event.Status,
			&event.Error,
			&durationMS,
			&started,
		); err != nil {
			return nil, err
		}
		event.Duration = time.Duration(durationMS) * time.Millisecond
		event.StartedAt = started
		events = append(events, event)
	}
	return events, rows.Err()
}

// Close closes the underlying database.
func (s *AuditStore) Close() error {
	return s.db.Close()
}
