package ops

import (
	"context"
	"testing"
	"time"

	"github.com/hpungsan/avrora/internal/activity"
	"github.com/hpungsan/avrora/internal/clock"
	"github.com/hpungsan/avrora/internal/db"
)

var testNow = time.Date(2026, 3, 14, 18, 0, 0, 0, time.UTC)

// setupStore creates a Store over a temporary database with a manual clock.
func setupStore(t *testing.T) (*db.Store, *clock.Manual) {
	t.Helper()
	database, err := db.Init(t.TempDir())
	if err != nil {
		t.Fatalf("Init failed: %v", err)
	}
	t.Cleanup(func() { database.Close() })

	clk := clock.NewManual(testNow)
	return db.NewStore(database, clk), clk
}

// recordSession writes a finished session ending at the store's current time.
func recordSession(t *testing.T, store *db.Store, app, title, url string, cat activity.Category, d time.Duration) {
	t.Helper()
	s := &activity.Session{
		AppName:     app,
		WindowTitle: title,
		URL:         url,
		Category:    cat,
		StartTimeMs: store.Now().Add(-d).UnixMilli(),
		DurationMs:  d.Milliseconds(),
	}
	if _, err := store.RecordSession(context.Background(), s); err != nil {
		t.Fatalf("RecordSession failed: %v", err)
	}
}
