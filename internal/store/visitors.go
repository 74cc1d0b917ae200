package store

import (
	"context"
	"time"

	"github.com/pkg/errors"
)

// VisitorMetric is one tracked page view. The address is stored hashed.
type VisitorMetric struct {
	ID        int       `json:"id"`
	HashedIP  string    `json:"hashed_ip"`
	UserAgent string    `json:"user_agent"`
	Path      string    `json:"path"`
	Timestamp time.Time `json:"timestamp"`
	Country   string    `json:"country,omitempty"`
}

// RecordVisit logs a page view.
func (s *Store) RecordVisit(ctx context.Context, ip, userAgent, path string) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO visitors (hashed_ip, user_agent, path, timestamp)
		VALUES (?, ?, ?, ?)
	`, s.HashIP(ip), userAgent, path, s.now().UTC())
	return errors.Wrap(err, "recording visitor")
}

// RecentVisitors returns the latest page views, newest first.
func (s *Store) RecentVisitors(ctx context.Context, limit int) ([]VisitorMetric, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, hashed_ip, COALESCE(user_agent, ''), COALESCE(path, ''), timestamp, COALESCE(country, '')
		FROM visitors
		ORDER BY timestamp DESC, id DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, errors.Wrap(err, "querying visitors")
	}
	defer rows.Close()

	var visitors []VisitorMetric
	for rows.Next() {
		var v VisitorMetric
		if err := rows.Scan(&v.ID, &v.HashedIP, &v.UserAgent, &v.Path, &v.Timestamp, &v.Country); err != nil {
			return nil, errors.Wrap(err, "scanning visitor")
		}
		visitors = append(visitors, v)
	}
	return visitors, errors.Wrap(rows.Err(), "iterating visitors")
}

// CleanupVisitors removes page views older than months and reports how many
// were deleted.
func (s *Store) CleanupVisitors(ctx context.Context, months int) (int64, error) {
	cutoff := s.now().UTC().AddDate(0, -months, 0)
	res, err := s.db.ExecContext(ctx, `DELETE FROM visitors WHERE timestamp < ?`, cutoff)
	if err != nil {
		return 0, errors.Wrap(err, "cleaning up visitors")
	}
	return res.RowsAffected()
}
