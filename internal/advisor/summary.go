package advisor

import (
	"fmt"
	"math"
	"strings"

	"github.com/hpungsan/avrora/internal/activity"
)

// NoDataSummary is returned by consumers when there is nothing to summarize.
const NoDataSummary = "Нет данных за сегодня"

const summaryTopN = 5

// GenerateDailySummary renders the plain-text daily report.
func GenerateDailySummary(stats *activity.DailyStats) string {
	var b strings.Builder

	b.WriteString("📊 Отчет за день:\n\n")
	fmt.Fprintf(&b, "⏱️ Общее время: %s\n", FormatDuration(stats.TotalTimeMs))
	fmt.Fprintf(&b, "✅ Продуктивное время: %s (%d%%)\n", FormatDuration(stats.ProductiveTimeMs), productivePercent(stats))
	fmt.Fprintf(&b, "🎯 Непродуктивное время: %s\n\n", FormatDuration(stats.UnproductiveTimeMs))

	if apps := TopEntries(stats.AppsUsed, summaryTopN); len(apps) > 0 {
		b.WriteString("📱 Топ приложения:\n")
		writeRanked(&b, apps, "%d. %s - %s\n")
		b.WriteString("\n")
	}

	if sites := TopEntries(stats.WebsitesVisited, summaryTopN); len(sites) > 0 {
		b.WriteString("🌐 Топ сайты:\n")
		writeRanked(&b, sites, "%d. %s - %s\n")
		b.WriteString("\n")
	}

	return b.String()
}

// RenderSummaryMarkdown renders the same report as Markdown.
func RenderSummaryMarkdown(stats *activity.DailyStats) string {
	var b strings.Builder

	fmt.Fprintf(&b, "## Отчет за %s\n\n", stats.Date)
	fmt.Fprintf(&b, "- **Общее время:** %s\n", FormatDuration(stats.TotalTimeMs))
	fmt.Fprintf(&b, "- **Продуктивное время:** %s (%d%%)\n", FormatDuration(stats.ProductiveTimeMs), productivePercent(stats))
	fmt.Fprintf(&b, "- **Непродуктивное время:** %s\n\n", FormatDuration(stats.UnproductiveTimeMs))

	if apps := TopEntries(stats.AppsUsed, summaryTopN); len(apps) > 0 {
		b.WriteString("### Топ приложения\n\n")
		writeRanked(&b, apps, "%d. %s: %s\n")
		b.WriteString("\n")
	}

	if sites := TopEntries(stats.WebsitesVisited, summaryTopN); len(sites) > 0 {
		b.WriteString("### Топ сайты\n\n")
		writeRanked(&b, sites, "%d. %s: %s\n")
		b.WriteString("\n")
	}

	return b.String()
}

func writeRanked(b *strings.Builder, entries []Entry, format string) {
	for i, e := range entries {
		fmt.Fprintf(b, format, i+1, e.Name, FormatDuration(e.DurationMs))
	}
}

func productivePercent(stats *activity.DailyStats) int {
	return int(math.Round(ProductiveRatio(stats) * 100))
}
