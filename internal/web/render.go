package web

import (
	"bytes"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"html/template"
	"io/fs"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/yuin/goldmark"

	"github.com/hpungsan/avrora/internal/activity"
	"github.com/hpungsan/avrora/internal/advisor"
	"github.com/hpungsan/avrora/internal/errors"
)

// PageData contains common fields used across all page templates.
type PageData struct {
	Title   string
	Version string
	Nav     string // active nav item: "today", "history"
}

// CategoryRow is one line of the per-category breakdown.
type CategoryRow struct {
	Category   activity.Category
	DurationMs int64
	Percent    int
}

// DayPageData is the template data for the today and stored-day pages.
type DayPageData struct {
	PageData
	Date            string
	Stats           *activity.DailyStats
	ProductiveRatio float64
	Categories      []CategoryRow
	TopApps         []advisor.Entry
	TopWebsites     []advisor.Entry
	Advice          []advisor.AdviceItem
	SummaryHTML     template.HTML
	Stored          bool // read from daily_stats instead of re-aggregated
}

// HistoryPageData is the template data for the session history page.
type HistoryPageData struct {
	PageData
	Items   []activity.Record
	Days    int
	Total   int
	HasMore bool
}

// ErrorPageData is the template data for the error page.
type ErrorPageData struct {
	PageData
	StatusCode int
	Message    string
}

// Renderer manages template parsing and rendering.
type Renderer struct {
	templates map[string]*template.Template
	version   string
}

// NewRenderer creates a Renderer by parsing templates from the given FS.
func NewRenderer(templateFS fs.FS, version string) *Renderer {
	funcMap := template.FuncMap{
		"add":            func(a, b int) int { return a + b },
		"formatDuration": advisor.FormatDuration,
		"formatTimeMs":   formatTimeMs,
		"percent":        func(r float64) int { return int(r*100 + 0.5) },
	}

	// Parse layout as the base template
	layoutTmpl := template.Must(template.New("layout").Funcs(funcMap).ParseFS(templateFS, "layout.html"))

	pages := map[string]string{
		"day":     "day.html",
		"history": "history.html",
		"error":   "error.html",
	}

	templates := make(map[string]*template.Template, len(pages))
	for name, file := range pages {
		t := template.Must(layoutTmpl.Clone())
		template.Must(t.ParseFS(templateFS, file))
		templates[name] = t
	}

	return &Renderer{
		templates: templates,
		version:   version,
	}
}

// renderPage renders a named page template with the given data and HTTP 200 status.
func (r *Renderer) renderPage(w http.ResponseWriter, name string, data any) {
	r.renderPageStatus(w, http.StatusOK, name, data)
}

// renderPageStatus renders a named page template with the given data and HTTP status code.
func (r *Renderer) renderPageStatus(w http.ResponseWriter, status int, name string, data any) {
	t, ok := r.templates[name]
	if !ok {
		log.Printf("template %q not found", name)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	var buf bytes.Buffer
	if err := t.ExecuteTemplate(&buf, "layout", data); err != nil {
		log.Printf("template execution error: %v", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write(buf.Bytes())
}

// renderError renders an error response with content negotiation.
func (r *Renderer) renderError(w http.ResponseWriter, req *http.Request, err error) {
	var aErr *errors.AvroraError
	if !stderrors.As(err, &aErr) {
		aErr = errors.NewInternal(err)
	}

	status := aErr.Status
	message := aErr.Message
	if aErr.Code == errors.ErrInternal {
		log.Printf("internal error: %v", err)
		message = "an internal error occurred"
	}

	// JSON request
	if wantsJSON(req) {
		renderJSON(w, status, map[string]any{
			"error": map[string]any{
				"code":    string(aErr.Code),
				"message": message,
				"status":  status,
			},
		})
		return
	}

	// Full error page
	r.renderPageStatus(w, status, "error", ErrorPageData{
		PageData: PageData{
			Title:   fmt.Sprintf("Error %d", status),
			Version: r.version,
		},
		StatusCode: status,
		Message:    message,
	})
}

func wantsJSON(req *http.Request) bool {
	return strings.HasPrefix(req.URL.Path, "/api/") ||
		strings.Contains(req.Header.Get("Accept"), "application/json")
}

// renderJSON writes a JSON response.
func renderJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

// renderMarkdown converts markdown text to HTML using goldmark.
func renderMarkdown(md string) template.HTML {
	var buf bytes.Buffer
	if err := goldmark.Convert([]byte(md), &buf); err != nil {
		return template.HTML(template.HTMLEscapeString(md))
	}
	return template.HTML(buf.String())
}

// formatTimeMs formats a Unix millisecond timestamp as "2006-01-02 15:04:05" UTC.
func formatTimeMs(ms int64) string {
	return time.UnixMilli(ms).UTC().Format("2006-01-02 15:04:05")
}

// categoryRows orders the per-category breakdown by activity.AllCategories,
// skipping categories with no time.
func categoryRows(stats *activity.DailyStats) []CategoryRow {
	rows := make([]CategoryRow, 0, len(stats.Categories))
	total := max(stats.TotalTimeMs, 1)
	for _, c := range activity.AllCategories {
		ms := stats.Categories[c]
		if ms == 0 {
			continue
		}
		rows = append(rows, CategoryRow{
			Category:   c,
			DurationMs: ms,
			Percent:    int((ms*100 + total/2) / total),
		})
	}
	return rows
}
