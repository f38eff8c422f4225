package web

import (
	"net/http"
	"strconv"

	"github.com/hpungsan/avrora/internal/activity"
	"github.com/hpungsan/avrora/internal/advisor"
	"github.com/hpungsan/avrora/internal/config"
	"github.com/hpungsan/avrora/internal/ops"
)

// Handlers contains HTTP route handlers for the report page.
type Handlers struct {
	store    ops.Store
	cfg      *config.Config
	advisor  *advisor.Advisor
	renderer *Renderer
}

// HandleToday handles GET / — today's report.
func (h *Handlers) HandleToday(w http.ResponseWriter, r *http.Request) {
	out := ops.TodayStats(r.Context(), h.store, h.cfg)

	data := DayPageData{
		PageData: PageData{
			Title:   "Сегодня",
			Version: h.renderer.version,
			Nav:     "today",
		},
	}
	if out.Stats != nil {
		h.fillDay(&data, out.Stats)
	}

	h.renderer.renderPage(w, "day", data)
}

// HandleDay handles GET /days/{date} — stats stored for an earlier day.
func (h *Handlers) HandleDay(w http.ResponseWriter, r *http.Request) {
	date := r.PathValue("date")

	out, err := ops.StoredStats(r.Context(), h.store, ops.StoredStatsInput{Date: date})
	if err != nil {
		h.renderer.renderError(w, r, err)
		return
	}

	data := DayPageData{
		PageData: PageData{
			Title:   date,
			Version: h.renderer.version,
			Nav:     "history",
		},
		Stored: true,
	}
	h.fillDay(&data, out.Stats)

	h.renderer.renderPage(w, "day", data)
}

func (h *Handlers) fillDay(data *DayPageData, stats *activity.DailyStats) {
	data.Date = stats.Date
	data.Stats = stats
	data.ProductiveRatio = advisor.ProductiveRatio(stats)
	data.Categories = categoryRows(stats)
	data.TopApps = advisor.TopEntries(stats.AppsUsed, 10)
	data.TopWebsites = advisor.TopEntries(stats.WebsitesVisited, 10)
	data.Advice = h.advisor.GenerateAdvice(stats)
	data.SummaryHTML = renderMarkdown(advisor.RenderSummaryMarkdown(stats))
}

// HandleHistory handles GET /history — recent raw sessions.
func (h *Handlers) HandleHistory(w http.ResponseWriter, r *http.Request) {
	result, err := ops.History(r.Context(), h.store, ops.HistoryInput{
		Days:  parseIntParam(r, "days", ops.DefaultHistoryDays),
		Limit: parseIntParam(r, "limit", 200),
	})
	if err != nil {
		h.renderer.renderError(w, r, err)
		return
	}

	h.renderer.renderPage(w, "history", HistoryPageData{
		PageData: PageData{
			Title:   "История",
			Version: h.renderer.version,
			Nav:     "history",
		},
		Items:   result.Items,
		Days:    result.Days,
		Total:   result.Total,
		HasMore: result.HasMore,
	})
}

// HandleAPIStats handles GET /api/stats[?date=YYYY-MM-DD].
func (h *Handlers) HandleAPIStats(w http.ResponseWriter, r *http.Request) {
	if date := r.URL.Query().Get("date"); date != "" {
		out, err := ops.StoredStats(r.Context(), h.store, ops.StoredStatsInput{Date: date})
		if err != nil {
			h.renderer.renderError(w, r, err)
			return
		}
		renderJSON(w, http.StatusOK, out)
		return
	}

	renderJSON(w, http.StatusOK, ops.TodayStats(r.Context(), h.store, h.cfg))
}

// HandleAPIAdvice handles GET /api/advice.
func (h *Handlers) HandleAPIAdvice(w http.ResponseWriter, r *http.Request) {
	renderJSON(w, http.StatusOK, ops.Advice(r.Context(), h.store, h.cfg, h.advisor))
}

// HandleAPISummary handles GET /api/summary.
func (h *Handlers) HandleAPISummary(w http.ResponseWriter, r *http.Request) {
	renderJSON(w, http.StatusOK, ops.Summary(r.Context(), h.store, h.cfg))
}

// HandleAPIHistory handles GET /api/history?days=N&limit=N.
func (h *Handlers) HandleAPIHistory(w http.ResponseWriter, r *http.Request) {
	result, err := ops.History(r.Context(), h.store, ops.HistoryInput{
		Days:  parseIntParam(r, "days", ops.DefaultHistoryDays),
		Limit: parseIntParam(r, "limit", ops.DefaultHistoryLimit),
	})
	if err != nil {
		h.renderer.renderError(w, r, err)
		return
	}
	renderJSON(w, http.StatusOK, result)
}

// parseIntParam parses an integer query parameter with a default value.
func parseIntParam(r *http.Request, name string, defaultVal int) int {
	s := r.URL.Query().Get(name)
	if s == "" {
		return defaultVal
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return defaultVal
	}
	return v
}
