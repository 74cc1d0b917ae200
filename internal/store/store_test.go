package store

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTest(t *testing.T) *Store {
	t.Helper()
	s, err := OpenMemory()
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestHashIPIsConsistentAndOpaque(t *testing.T) {
	s := openTest(t)
	h := s.HashIP("203.0.113.7")
	assert.Len(t, h, 16)
	assert.Equal(t, h, s.HashIP("203.0.113.7"))
	assert.NotEqual(t, h, s.HashIP("203.0.113.8"))
	assert.NotContains(t, h, "203")
}

func TestRecordAndListVisitors(t *testing.T) {
	s := openTest(t)
	ctx := context.Background()

	require.NoError(t, s.RecordVisit(ctx, "1.1.1.1", "curl", "/"))
	require.NoError(t, s.RecordVisit(ctx, "1.1.1.1", "curl", "/about"))
	require.NoError(t, s.RecordVisit(ctx, "2.2.2.2", "firefox", "/about"))

	visitors, err := s.RecentVisitors(ctx, 10)
	require.NoError(t, err)
	require.Len(t, visitors, 3)
	assert.Equal(t, "/about", visitors[0].Path)
	assert.Equal(t, s.HashIP("2.2.2.2"), visitors[0].HashedIP)

	stats, err := s.Stats(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 3, stats.TotalVisitors)
	assert.EqualValues(t, 2, stats.UniqueVisitors)
	assert.EqualValues(t, 3, stats.VisitorsToday)
	require.NotEmpty(t, stats.TopPaths)
	assert.Equal(t, PathCount{Path: "/about", Views: 2}, stats.TopPaths[0])
}

func TestCleanupVisitors(t *testing.T) {
	s := openTest(t)
	ctx := context.Background()

	now := time.Date(2026, 10, 18, 12, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return now.AddDate(-2, 0, 0) }
	require.NoError(t, s.RecordVisit(ctx, "1.1.1.1", "ua", "/old"))

	s.now = func() time.Time { return now }
	require.NoError(t, s.RecordVisit(ctx, "1.1.1.1", "ua", "/new"))

	n, err := s.CleanupVisitors(ctx, 12)
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)

	visitors, err := s.RecentVisitors(ctx, 10)
	require.NoError(t, err)
	require.Len(t, visitors, 1)
	assert.Equal(t, "/new", visitors[0].Path)
}

func TestRecordMessages(t *testing.T) {
	s := openTest(t)
	ctx := context.Background()

	sent := &Message{Name: "Ana", Email: "ana@example.com", Subject: "Hi", Body: "Hello", Status: MessageSent}
	require.NoError(t, s.RecordMessage(ctx, sent))
	assert.NotEmpty(t, sent.ID)
	assert.False(t, sent.CreatedAt.IsZero())

	failed := &Message{Name: "Bo", Email: "bo@example.com", Body: "Yo", Status: MessageFailed, Error: "timeout",
		CreatedAt: sent.CreatedAt.Add(time.Second)}
	require.NoError(t, s.RecordMessage(ctx, failed))

	msgs, err := s.RecentMessages(ctx, 5)
	require.NoError(t, err)
	require.Len(t, msgs, 2)
	assert.Equal(t, "Bo", msgs[0].Name)
	assert.Equal(t, "timeout", msgs[0].Error)

	stats, err := s.Stats(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 2, stats.TotalMessages)
	assert.EqualValues(t, 1, stats.FailedMessages)
}
