// Package report reduces recorded sessions into per-day statistics.
package report

import (
	"github.com/hpungsan/avrora/internal/activity"
	"github.com/hpungsan/avrora/internal/errors"
)

// Aggregate folds records into DailyStats for date. Records are taken as
// given; no date filtering happens here.
//
// A record with an unknown category or a negative duration fails the whole
// aggregation with AGGREGATION_FAILURE.
func Aggregate(date string, records []activity.Record) (*activity.DailyStats, error) {
	stats := activity.NewDailyStats(date)

	for _, r := range records {
		if !r.Category.Valid() {
			return nil, errors.NewAggregationFailure("unknown category in session record", map[string]any{
				"id":       r.ID,
				"category": string(r.Category),
			})
		}
		if r.DurationMs < 0 {
			return nil, errors.NewAggregationFailure("negative duration in session record", map[string]any{
				"id":          r.ID,
				"duration_ms": r.DurationMs,
			})
		}

		stats.TotalTimeMs += r.DurationMs
		if r.Category.IsProductive() {
			stats.ProductiveTimeMs += r.DurationMs
		} else {
			stats.UnproductiveTimeMs += r.DurationMs
		}

		if r.AppName != "" {
			stats.AppsUsed[r.AppName] += r.DurationMs
		}
		if r.URL != "" {
			stats.WebsitesVisited[activity.ExtractDomain(r.URL)] += r.DurationMs
		}
		stats.Categories[r.Category] += r.DurationMs
	}

	return stats, nil
}
