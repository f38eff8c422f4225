package db

import (
	"context"
	"database/sql"
	"encoding/json"

	"github.com/hpungsan/avrora/internal/activity"
	"github.com/hpungsan/avrora/internal/errors"
)

// InsertSession stores a finalized session. The session must already carry
// its ID and duration.
func InsertSession(ctx context.Context, db *sql.DB, s *activity.Session, recordedAtMs int64) error {
	query := `
		INSERT INTO sessions (
			id, app_name, window_title, url, category,
			start_time_ms, duration_ms, recorded_at_ms
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err := db.ExecContext(ctx, query,
		s.ID, s.AppName, s.WindowTitle, toNullString(s.URL), string(s.Category),
		s.StartTimeMs, s.DurationMs, recordedAtMs,
	)
	if err != nil {
		return errors.NewPersistenceFailure("record_session", err)
	}
	return nil
}

// ListSessionsSince returns sessions recorded at or after sinceMs, newest first.
func ListSessionsSince(ctx context.Context, db *sql.DB, sinceMs int64) ([]activity.Record, error) {
	query := `
		SELECT id, app_name, window_title, url, category,
			start_time_ms, duration_ms, recorded_at_ms
		FROM sessions
		WHERE recorded_at_ms >= ?
		ORDER BY recorded_at_ms DESC, id DESC
	`

	rows, err := db.QueryContext(ctx, query, sinceMs)
	if err != nil {
		return nil, errors.NewPersistenceFailure("fetch_recent_sessions", err)
	}
	defer rows.Close()

	records := make([]activity.Record, 0)
	for rows.Next() {
		var (
			r        activity.Record
			url      sql.NullString
			category string
			duration sql.NullInt64
		)
		if err := rows.Scan(
			&r.ID, &r.AppName, &r.WindowTitle, &url, &category,
			&r.StartTimeMs, &duration, &r.RecordedAtMs,
		); err != nil {
			return nil, errors.NewPersistenceFailure("fetch_recent_sessions", err)
		}
		r.URL = url.String
		r.Category = activity.Category(category)
		r.DurationMs = duration.Int64
		records = append(records, r)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.NewPersistenceFailure("fetch_recent_sessions", err)
	}

	return records, nil
}

// UpsertDailyStats writes stats for date, replacing any prior value.
func UpsertDailyStats(ctx context.Context, db *sql.DB, date string, stats *activity.DailyStats, updatedAtMs int64) error {
	appsJSON, err := marshalMap(stats.AppsUsed)
	if err != nil {
		return errors.NewInternal(err)
	}
	sitesJSON, err := marshalMap(stats.WebsitesVisited)
	if err != nil {
		return errors.NewInternal(err)
	}
	categoriesJSON, err := marshalMap(stats.Categories)
	if err != nil {
		return errors.NewInternal(err)
	}

	query := `
		INSERT INTO daily_stats (
			date, total_time_ms, productive_time_ms, unproductive_time_ms,
			apps_used_json, websites_visited_json, categories_json, updated_at_ms
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(date) DO UPDATE SET
			total_time_ms = excluded.total_time_ms,
			productive_time_ms = excluded.productive_time_ms,
			unproductive_time_ms = excluded.unproductive_time_ms,
			apps_used_json = excluded.apps_used_json,
			websites_visited_json = excluded.websites_visited_json,
			categories_json = excluded.categories_json,
			updated_at_ms = excluded.updated_at_ms
	`

	_, err = db.ExecContext(ctx, query,
		date, stats.TotalTimeMs, stats.ProductiveTimeMs, stats.UnproductiveTimeMs,
		appsJSON, sitesJSON, categoriesJSON, updatedAtMs,
	)
	if err != nil {
		return errors.NewPersistenceFailure("upsert_daily_stats", err)
	}
	return nil
}

// GetDailyStats returns the stored stats for date, or nil if none exist.
func GetDailyStats(ctx context.Context, db *sql.DB, date string) (*activity.DailyStats, error) {
	query := `
		SELECT date, total_time_ms, productive_time_ms, unproductive_time_ms,
			apps_used_json, websites_visited_json, categories_json
		FROM daily_stats
		WHERE date = ?
	`

	var (
		stats                               activity.DailyStats
		appsJSON, sitesJSON, categoriesJSON string
	)
	err := db.QueryRowContext(ctx, query, date).Scan(
		&stats.Date, &stats.TotalTimeMs, &stats.ProductiveTimeMs, &stats.UnproductiveTimeMs,
		&appsJSON, &sitesJSON, &categoriesJSON,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, errors.NewPersistenceFailure("fetch_daily_stats", err)
	}

	if err := json.Unmarshal([]byte(appsJSON), &stats.AppsUsed); err != nil {
		return nil, malformedColumn(date, "apps_used_json", err)
	}
	if err := json.Unmarshal([]byte(sitesJSON), &stats.WebsitesVisited); err != nil {
		return nil, malformedColumn(date, "websites_visited_json", err)
	}
	if err := json.Unmarshal([]byte(categoriesJSON), &stats.Categories); err != nil {
		return nil, malformedColumn(date, "categories_json", err)
	}

	return &stats, nil
}

func malformedColumn(date, column string, err error) error {
	return errors.NewAggregationFailure("malformed stored daily stats", map[string]any{
		"date":   date,
		"column": column,
		"error":  err.Error(),
	})
}

// marshalMap encodes a map as JSON, writing "{}" for nil maps.
func marshalMap[K ~string](m map[K]int64) (string, error) {
	if m == nil {
		return "{}", nil
	}
	data, err := json.Marshal(m)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// toNullString converts an optional string to sql.NullString; "" is NULL.
func toNullString(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}
