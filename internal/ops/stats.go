package ops

import (
	"context"
	"strings"
	"time"

	"github.com/hpungsan/avrora/internal/activity"
	"github.com/hpungsan/avrora/internal/advisor"
	"github.com/hpungsan/avrora/internal/config"
	"github.com/hpungsan/avrora/internal/errors"
)

// StatsOutput contains the result of the TodayStats and StoredStats operations.
type StatsOutput struct {
	Stats           *activity.DailyStats `json:"stats"` // nil when there is no data
	ProductiveRatio float64              `json:"productive_ratio"`
}

// TodayStats returns freshly aggregated stats for today.
// Any failure is logged and reported as no data.
func TodayStats(ctx context.Context, store Store, cfg *config.Config) *StatsOutput {
	return newStatsOutput(todayReport(ctx, store, cfg))
}

// StoredStatsInput contains parameters for the StoredStats operation.
type StoredStatsInput struct {
	Date string // YYYY-MM-DD, required
}

// StoredStats reads previously persisted stats for a date without
// re-aggregating. Returns NOT_FOUND when nothing was stored for that date.
func StoredStats(ctx context.Context, store Store, input StoredStatsInput) (*StatsOutput, error) {
	date := strings.TrimSpace(input.Date)
	if date == "" {
		return nil, errors.NewInvalidRequest("date is required")
	}
	if _, err := time.Parse("2006-01-02", date); err != nil {
		return nil, errors.NewInvalidRequest("date must be YYYY-MM-DD")
	}

	stats, err := store.FetchDailyStats(ctx, date)
	if err != nil {
		return nil, err
	}
	if stats == nil {
		return nil, errors.NewNotFound("daily stats", date)
	}
	return newStatsOutput(stats), nil
}

func newStatsOutput(stats *activity.DailyStats) *StatsOutput {
	out := &StatsOutput{Stats: stats}
	if stats != nil {
		out.ProductiveRatio = advisor.ProductiveRatio(stats)
	}
	return out
}
