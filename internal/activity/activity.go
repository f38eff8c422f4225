package activity

// Sample is one poll of the foreground window. It is compared against the
// open session and then discarded.
type Sample struct {
	AppName     string
	WindowTitle string
	TimestampMs int64
}

// Session is one contiguous interval during which focus stayed on the same
// (application, window title) pair.
type Session struct {
	// ID is the ULID assigned by the store once the session is recorded
	ID string `json:"id,omitempty"`

	// AppName is the normalized owner name (executable suffix stripped)
	AppName string `json:"app_name"`

	// WindowTitle is the raw foreground window title
	WindowTitle string `json:"window_title"`

	// URL is the first http(s) URL found in the title; empty when absent
	URL string `json:"url,omitempty"`

	// Category is fixed when the session is opened
	Category Category `json:"category"`

	// StartTimeMs is the Unix millisecond timestamp of the first sample
	StartTimeMs int64 `json:"start_time_ms"`

	// DurationMs is set when the successor activity is first observed
	DurationMs int64 `json:"duration_ms"`
}

// SameActivity reports whether the session covers the given app and title.
// Both fields are compared by exact string equality.
func (s *Session) SameActivity(appName, windowTitle string) bool {
	return s.AppName == appName && s.WindowTitle == windowTitle
}

// Record is a persisted session as read back from the store.
type Record struct {
	ID           string   `json:"id"`
	AppName      string   `json:"app_name"`
	WindowTitle  string   `json:"window_title"`
	URL          string   `json:"url,omitempty"`
	Category     Category `json:"category"`
	StartTimeMs  int64    `json:"start_time_ms"`
	DurationMs   int64    `json:"duration_ms"`
	RecordedAtMs int64    `json:"recorded_at_ms"`
}

// DailyStats is the per-day reduction of all sessions. It is rebuilt from
// scratch on every report request.
//
// Invariant: TotalTimeMs == ProductiveTimeMs + UnproductiveTimeMs == sum(Categories).
type DailyStats struct {
	Date               string             `json:"date"`
	TotalTimeMs        int64              `json:"total_time_ms"`
	ProductiveTimeMs   int64              `json:"productive_time_ms"`
	UnproductiveTimeMs int64              `json:"unproductive_time_ms"`
	AppsUsed           map[string]int64   `json:"apps_used"`
	WebsitesVisited    map[string]int64   `json:"websites_visited"`
	Categories         map[Category]int64 `json:"categories"`
}

// NewDailyStats returns empty stats for the given date with all maps allocated.
func NewDailyStats(date string) *DailyStats {
	return &DailyStats{
		Date:            date,
		AppsUsed:        make(map[string]int64),
		WebsitesVisited: make(map[string]int64),
		Categories:      make(map[Category]int64),
	}
}

// CategoryTotal returns the sum of all per-category durations.
func (d *DailyStats) CategoryTotal() int64 {
	var sum int64
	for _, ms := range d.Categories {
		sum += ms
	}
	return sum
}
