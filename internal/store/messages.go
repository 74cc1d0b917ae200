package store

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
)

// Message delivery outcomes.
const (
	MessageSent   = "sent"
	MessageFailed = "failed"
)

// Message is a recorded contact submission.
type Message struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Subject   string    `json:"subject"`
	Body      string    `json:"body"`
	Status    string    `json:"status"`
	Error     string    `json:"error,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// RecordMessage stores m, assigning an id and timestamp when missing.
func (s *Store) RecordMessage(ctx context.Context, m *Message) error {
	if m.ID == "" {
		m.ID = uuid.NewString()
	}
	if m.CreatedAt.IsZero() {
		m.CreatedAt = s.now()
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO messages (id, name, email, subject, body, status, error, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, m.ID, m.Name, m.Email, m.Subject, m.Body, m.Status, m.Error, m.CreatedAt.UTC())
	return errors.Wrap(err, "recording message")
}

// RecentMessages returns the latest submissions, newest first.
func (s *Store) RecentMessages(ctx context.Context, limit int) ([]Message, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, email, COALESCE(subject, ''), body, status, COALESCE(error, ''), created_at
		FROM messages
		ORDER BY created_at DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, errors.Wrap(err, "querying messages")
	}
	defer rows.Close()

	var msgs []Message
	for rows.Next() {
		var m Message
		if err := rows.Scan(&m.ID, &m.Name, &m.Email, &m.Subject, &m.Body, &m.Status, &m.Error, &m.CreatedAt); err != nil {
			return nil, errors.Wrap(err, "scanning message")
		}
		msgs = append(msgs, m)
	}
	return msgs, errors.Wrap(rows.Err(), "iterating messages")
}
