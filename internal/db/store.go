package db

import (
	"context"
	"crypto/rand"
	"database/sql"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/hpungsan/avrora/internal/activity"
	"github.com/hpungsan/avrora/internal/clock"
	"github.com/hpungsan/avrora/internal/errors"
)

// Store is the persistence collaborator used by the tracker and the report
// queries. It wraps an initialized *sql.DB.
type Store struct {
	db    *sql.DB
	clock clock.Clock
}

// NewStore wraps database. A nil clk uses the system clock.
func NewStore(database *sql.DB, clk clock.Clock) *Store {
	if clk == nil {
		clk = clock.System{}
	}
	return &Store{db: database, clock: clk}
}

// DB exposes the underlying handle.
func (s *Store) DB() *sql.DB {
	return s.db
}

// Now returns the store's notion of the current time.
func (s *Store) Now() time.Time {
	return s.clock.Now()
}

// RecordSession appends a finalized session and returns its new ID.
// The session's ID field is set on success.
func (s *Store) RecordSession(ctx context.Context, session *activity.Session) (string, error) {
	id, err := generateULID(s.clock.Now())
	if err != nil {
		return "", errors.NewInternal(err)
	}

	rec := *session
	rec.ID = id
	if err := InsertSession(ctx, s.db, &rec, clock.UnixMs(s.clock.Now())); err != nil {
		return "", err
	}

	session.ID = id
	return id, nil
}

// FetchRecentSessions returns sessions recorded in the last days days, newest first.
func (s *Store) FetchRecentSessions(ctx context.Context, days int) ([]activity.Record, error) {
	if days <= 0 {
		return nil, errors.NewInvalidRequest("days must be positive")
	}
	since := s.clock.Now().Add(-time.Duration(days) * 24 * time.Hour)
	return ListSessionsSince(ctx, s.db, clock.UnixMs(since))
}

// UpsertDailyStats stores stats under date (YYYY-MM-DD), replacing any prior value.
func (s *Store) UpsertDailyStats(ctx context.Context, date string, stats *activity.DailyStats) error {
	if _, err := time.Parse("2006-01-02", date); err != nil {
		return errors.NewInvalidRequest("date must be YYYY-MM-DD")
	}
	return UpsertDailyStats(ctx, s.db, date, stats, clock.UnixMs(s.clock.Now()))
}

// FetchDailyStats returns stored stats for date, or nil when absent.
func (s *Store) FetchDailyStats(ctx context.Context, date string) (*activity.DailyStats, error) {
	return GetDailyStats(ctx, s.db, date)
}

// Close releases the database handle.
func (s *Store) Close() error {
	return s.db.Close()
}

// generateULID generates a new ULID stamped with t.
func generateULID(t time.Time) (string, error) {
	entropy := ulid.Monotonic(rand.Reader, 0)
	id, err := ulid.New(ulid.Timestamp(t), entropy)
	if err != nil {
		return "", err
	}
	return id.String(), nil
}
