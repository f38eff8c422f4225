package ops

import (
	"context"

	"github.com/hpungsan/avrora/internal/activity"
	"github.com/hpungsan/avrora/internal/errors"
)

// History limits
const (
	DefaultHistoryDays  = 1
	MaxHistoryDays      = 90
	DefaultHistoryLimit = 50
	MaxHistoryLimit     = 1000
)

// HistoryInput contains parameters for the History operation.
type HistoryInput struct {
	Days  int // default 1, max 90
	Limit int // default 50, max 1000
}

// HistoryOutput contains the result of the History operation.
type HistoryOutput struct {
	Items   []activity.Record `json:"items"`
	Days    int               `json:"days"`
	Total   int               `json:"total"`
	HasMore bool              `json:"has_more"`
}

// History lists raw session records from the last Days days, newest first.
func History(ctx context.Context, store Store, input HistoryInput) (*HistoryOutput, error) {
	days := input.Days
	if days == 0 {
		days = DefaultHistoryDays
	}
	if days < 0 || days > MaxHistoryDays {
		return nil, errors.NewInvalidRequest("days must be between 1 and 90")
	}

	limit := input.Limit
	if limit <= 0 {
		limit = DefaultHistoryLimit
	}
	if limit > MaxHistoryLimit {
		limit = MaxHistoryLimit
	}

	records, err := store.FetchRecentSessions(ctx, days)
	if err != nil {
		return nil, err
	}

	out := &HistoryOutput{
		Items: records,
		Days:  days,
		Total: len(records),
	}
	if out.Items == nil {
		out.Items = []activity.Record{}
	}
	if len(out.Items) > limit {
		out.Items = out.Items[:limit]
		out.HasMore = true
	}
	return out, nil
}
