package mcp

import "github.com/mark3labs/mcp-go/mcp"

var statsToolDef = mcp.NewTool("activity_stats",
	mcp.WithDescription("Today's focus statistics: total, productive and unproductive time in milliseconds, "+
		"time per app, per website domain and per category. Pass date to read stats stored for an earlier day. "+
		"Returns stats=null when nothing was recorded."),
	mcp.WithString("date",
		mcp.Description("Optional YYYY-MM-DD. When set, returns previously stored stats for that day instead of re-aggregating today."),
	),
	mcp.WithReadOnlyHintAnnotation(false),
	mcp.WithDestructiveHintAnnotation(false),
	mcp.WithIdempotentHintAnnotation(true),
	mcp.WithOpenWorldHintAnnotation(false),
)

var adviceToolDef = mcp.NewTool("activity_advice",
	mcp.WithDescription("Advice derived from today's statistics. Each item has kind "+
		"(positive, warning, neutral, suggestion, info), topic and a message in Russian. "+
		"Returns an empty list when nothing was recorded."),
	mcp.WithReadOnlyHintAnnotation(false),
	mcp.WithDestructiveHintAnnotation(false),
	mcp.WithIdempotentHintAnnotation(true),
	mcp.WithOpenWorldHintAnnotation(false),
)

var summaryToolDef = mcp.NewTool("activity_summary",
	mcp.WithDescription("Plain-text daily report (total, productive share, top 5 apps and websites). "+
		"Returns the text \"Нет данных за сегодня\" when nothing was recorded."),
	mcp.WithBoolean("markdown",
		mcp.Description("Also return the report as Markdown (default: false)."),
	),
	mcp.WithReadOnlyHintAnnotation(false),
	mcp.WithDestructiveHintAnnotation(false),
	mcp.WithIdempotentHintAnnotation(true),
	mcp.WithOpenWorldHintAnnotation(false),
)

var historyToolDef = mcp.NewTool("activity_history",
	mcp.WithDescription("Raw recorded sessions from the last N days, newest first."),
	mcp.WithNumber("days",
		mcp.Description("Days to look back (default: 1, max: 90)."),
	),
	mcp.WithNumber("limit",
		mcp.Description("Maximum sessions to return (default: 50, max: 1000)."),
	),
	mcp.WithReadOnlyHintAnnotation(true),
	mcp.WithOpenWorldHintAnnotation(false),
)

var categorizeToolDef = mcp.NewTool("activity_categorize",
	mcp.WithDescription("Classify an application and window title the same way the monitor does. "+
		"Useful for checking category tables."),
	mcp.WithString("app_name",
		mcp.Description("Owner process name, e.g. \"chrome.exe\"."),
	),
	mcp.WithString("window_title",
		mcp.Description("Window title; the first http(s) URL in it is used for domain matching."),
	),
	mcp.WithReadOnlyHintAnnotation(true),
	mcp.WithOpenWorldHintAnnotation(false),
)
