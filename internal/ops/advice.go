package ops

import (
	"context"

	"github.com/hpungsan/avrora/internal/advisor"
	"github.com/hpungsan/avrora/internal/config"
)

// AdviceOutput contains the result of the Advice operation.
type AdviceOutput struct {
	Items []advisor.AdviceItem `json:"items"` // empty, never nil, when there is no data
}

// Advice returns advice for today's stats.
func Advice(ctx context.Context, store Store, cfg *config.Config, adv *advisor.Advisor) *AdviceOutput {
	stats := todayReport(ctx, store, cfg)
	if stats == nil {
		return &AdviceOutput{Items: []advisor.AdviceItem{}}
	}
	return &AdviceOutput{Items: adv.GenerateAdvice(stats)}
}

// SummaryOutput contains the result of the Summary operation.
type SummaryOutput struct {
	Date     string `json:"date,omitempty"`
	Text     string `json:"text"`
	Markdown string `json:"markdown,omitempty"`
	HasData  bool   `json:"has_data"`
}

// Summary returns the daily text report, or advisor.NoDataSummary when
// there is nothing to report.
func Summary(ctx context.Context, store Store, cfg *config.Config) *SummaryOutput {
	stats := todayReport(ctx, store, cfg)
	if stats == nil {
		return &SummaryOutput{Text: advisor.NoDataSummary}
	}
	return &SummaryOutput{
		Date:     stats.Date,
		Text:     advisor.GenerateDailySummary(stats),
		Markdown: advisor.RenderSummaryMarkdown(stats),
		HasData:  true,
	}
}
