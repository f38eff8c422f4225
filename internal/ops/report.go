package ops

import (
	"context"
	"log"
	"time"

	"github.com/hpungsan/avrora/internal/activity"
	"github.com/hpungsan/avrora/internal/clock"
	"github.com/hpungsan/avrora/internal/config"
	"github.com/hpungsan/avrora/internal/report"
)

// Store is the persistence surface the report queries need.
// *db.Store implements it.
type Store interface {
	Now() time.Time
	FetchRecentSessions(ctx context.Context, days int) ([]activity.Record, error)
	UpsertDailyStats(ctx context.Context, date string, stats *activity.DailyStats) error
	FetchDailyStats(ctx context.Context, date string) (*activity.DailyStats, error)
}

// DailyReport rebuilds today's stats from the recent session window and
// persists them under today's UTC date.
//
// Returns (nil, nil) when the window holds no sessions. The window is rolling
// (cfg.HistoryDays back from now), so shortly after midnight it still
// includes yesterday's sessions.
func DailyReport(ctx context.Context, store Store, cfg *config.Config) (*activity.DailyStats, error) {
	records, err := store.FetchRecentSessions(ctx, historyDays(cfg))
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, nil
	}

	date := clock.DateKey(store.Now())
	stats, err := report.Aggregate(date, records)
	if err != nil {
		return nil, err
	}

	if err := store.UpsertDailyStats(ctx, date, stats); err != nil {
		return nil, err
	}
	return stats, nil
}

// todayReport runs DailyReport and logs any failure; consumers only see nil.
func todayReport(ctx context.Context, store Store, cfg *config.Config) *activity.DailyStats {
	stats, err := DailyReport(ctx, store, cfg)
	if err != nil {
		log.Printf("daily report failed: %v", err)
		return nil
	}
	return stats
}

func historyDays(cfg *config.Config) int {
	if cfg == nil || cfg.HistoryDays <= 0 {
		return 1
	}
	return cfg.HistoryDays
}
