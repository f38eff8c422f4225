package ops

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/hpungsan/avrora/internal/activity"
	"github.com/hpungsan/avrora/internal/advisor"
	"github.com/hpungsan/avrora/internal/config"
	"github.com/hpungsan/avrora/internal/sampler"
	"github.com/hpungsan/avrora/internal/tracker"
)

// TestFullWorkflow exercises the pipeline end to end:
// sample → session → record → history → aggregate → advice → summary → stored stats
func TestFullWorkflow(t *testing.T) {
	store, clk := setupStore(t)
	cfg := config.DefaultConfig()
	ctx := context.Background()

	windows := []sampler.Window{
		{Owner: "Code.exe", Title: "main.go - Visual Studio Code"},
		{Owner: "Code.exe", Title: "main.go - Visual Studio Code"},
		{Owner: "chrome.exe", Title: "Go - https://github.com/golang/go"},
		{Owner: "chrome.exe", Title: "Music - https://www.youtube.com/watch?v=1"},
		{Owner: "Slack.exe", Title: "general"},
	}
	next := 0
	probe := sampler.Func(func(ctx context.Context) (*sampler.Window, error) {
		w := windows[next]
		next++
		return &w, nil
	})

	tr := tracker.New(tracker.Options{
		Sampler:    probe,
		Recorder:   store,
		Categorize: activity.NewCategorizer(activity.DefaultTables()).Categorize,
		Clock:      clk,
	})

	// 1. Drive five ticks, ten minutes apart
	for range windows {
		tr.CheckActivity(ctx)
		clk.Advance(10 * time.Minute)
	}

	// 2. History holds the three closed sessions; Slack is still open
	hist, err := History(ctx, store, HistoryInput{})
	require.NoError(t, err)
	require.Len(t, hist.Items, 3)
	require.Equal(t, "chrome", hist.Items[0].AppName)
	require.Equal(t, activity.CategoryEntertainment, hist.Items[0].Category)
	require.Equal(t, "Code", hist.Items[2].AppName)
	require.Equal(t, (20 * time.Minute).Milliseconds(), hist.Items[2].DurationMs)
	require.NotEmpty(t, hist.Items[2].ID)
	require.Equal(t, "Slack", tr.Current().AppName)

	// 3. Today's stats
	stats := TodayStats(ctx, store, cfg)
	require.NotNil(t, stats.Stats)
	require.Equal(t, (40 * time.Minute).Milliseconds(), stats.Stats.TotalTimeMs)
	require.Equal(t, (30 * time.Minute).Milliseconds(), stats.Stats.ProductiveTimeMs)
	require.Equal(t, stats.Stats.TotalTimeMs, stats.Stats.CategoryTotal())
	require.Equal(t, (10 * time.Minute).Milliseconds(), stats.Stats.WebsitesVisited["github.com"])
	require.InDelta(t, 0.75, stats.ProductiveRatio, 1e-9)

	// 4. Advice: positive, top apps, top websites
	adv := Advice(ctx, store, cfg, advisor.New(firstTemplate{}))
	require.Len(t, adv.Items, 3)
	require.Equal(t, advisor.KindPositive, adv.Items[0].Kind)
	require.Equal(t, "Больше всего времени вы провели в: Code, chrome", adv.Items[1].Message)

	// 5. Summary
	sum := Summary(ctx, store, cfg)
	require.True(t, sum.HasData)
	require.Contains(t, sum.Text, "✅ Продуктивное время: 30м (75%)")

	// 6. Stored stats match the last aggregation
	stored, err := StoredStats(ctx, store, StoredStatsInput{Date: stats.Stats.Date})
	require.NoError(t, err)
	require.Equal(t, stats.Stats.TotalTimeMs, stored.Stats.TotalTimeMs)
	require.Equal(t, stats.Stats.AppsUsed, stored.Stats.AppsUsed)
}
