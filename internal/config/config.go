package config

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// Config holds application configuration.
type Config struct {
	// PollIntervalMs is how often the tracker samples the foreground window.
	PollIntervalMs int `json:"poll_interval_ms"`

	// SamplerTimeoutMs bounds a single foreground-window probe. A probe that
	// exceeds it counts as a skipped tick.
	SamplerTimeoutMs int `json:"sampler_timeout_ms"`

	// HistoryDays is the window of session history aggregated into "today's" stats.
	// The window is rolling (now minus N days), not a calendar-day filter.
	HistoryDays int `json:"history_days"`

	// FlushOnStop closes and records the open session when monitoring stops.
	// Off by default: stopping discards the in-progress session.
	FlushOnStop bool `json:"flush_on_stop,omitempty"`

	// SamplerCommand is an external command that prints the active window as JSON.
	// Used on platforms without a native sampler. Overlay replaces, never merges.
	SamplerCommand []string `json:"sampler_command,omitempty"`

	// DBMaxOpenConns limits the maximum number of open database connections.
	// 0 means use sql.DB default (unlimited).
	DBMaxOpenConns int `json:"db_max_open_conns,omitempty"`

	// DBMaxIdleConns limits the maximum number of idle database connections.
	DBMaxIdleConns int `json:"db_max_idle_conns,omitempty"`

	// DisabledTools is a list of MCP tool names to exclude from registration.
	// Unknown tool names are logged as warnings.
	DisabledTools []string `json:"disabled_tools,omitempty"`

	// Notify enables desktop notifications for warning advice while monitoring.
	Notify bool `json:"notify,omitempty"`

	// NotifyIntervalMinutes is how often advice is re-evaluated for notifications.
	NotifyIntervalMinutes int `json:"notify_interval_minutes"`

	// WebBind and WebPort configure the local report page.
	WebBind string `json:"web_bind"`
	WebPort int    `json:"web_port"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		PollIntervalMs:        2000,
		SamplerTimeoutMs:      5000,
		HistoryDays:           1,
		NotifyIntervalMinutes: 30,
		WebBind:               "127.0.0.1",
		WebPort:               8765,
	}
}

// PollInterval returns PollIntervalMs as a duration.
func (c *Config) PollInterval() time.Duration {
	return time.Duration(c.PollIntervalMs) * time.Millisecond
}

// SamplerTimeout returns SamplerTimeoutMs as a duration.
func (c *Config) SamplerTimeout() time.Duration {
	return time.Duration(c.SamplerTimeoutMs) * time.Millisecond
}

// NotifyInterval returns NotifyIntervalMinutes as a duration.
func (c *Config) NotifyInterval() time.Duration {
	return time.Duration(c.NotifyIntervalMinutes) * time.Minute
}

// Load loads configuration from baseDir/config.json.
// Returns default config if the file doesn't exist.
// The baseDir parameter allows tests to use t.TempDir() instead of ~/.avrora.
func Load(baseDir string) (*Config, error) {
	return loadFile(filepath.Join(baseDir, "config.json"))
}

// loadFileRaw loads configuration from a specific file path.
// Returns zero-valued config if the file doesn't exist (not defaults).
func loadFileRaw(configPath string) (*Config, error) {
	data, err := os.ReadFile(configPath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			// File doesn't exist, return zero config
			return &Config{}, nil
		}
		return nil, err
	}

	cfg := &Config{}
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// loadFile loads configuration from a specific file path.
// Returns default config if the file doesn't exist.
func loadFile(configPath string) (*Config, error) {
	cfg, err := loadFileRaw(configPath)
	if err != nil {
		return nil, err
	}
	return Merge(DefaultConfig(), cfg), nil
}

// Merge combines base and overlay configs.
// Overlay values take precedence for scalars; arrays are merged and deduplicated.
func Merge(base, overlay *Config) *Config {
	result := &Config{}

	// Scalars: overlay wins if positive, else base
	result.PollIntervalMs = pickInt(overlay.PollIntervalMs, base.PollIntervalMs)
	result.SamplerTimeoutMs = pickInt(overlay.SamplerTimeoutMs, base.SamplerTimeoutMs)
	result.HistoryDays = pickInt(overlay.HistoryDays, base.HistoryDays)
	result.DBMaxOpenConns = pickInt(overlay.DBMaxOpenConns, base.DBMaxOpenConns)
	result.DBMaxIdleConns = pickInt(overlay.DBMaxIdleConns, base.DBMaxIdleConns)
	result.NotifyIntervalMinutes = pickInt(overlay.NotifyIntervalMinutes, base.NotifyIntervalMinutes)
	result.WebPort = pickInt(overlay.WebPort, base.WebPort)

	result.WebBind = strings.TrimSpace(overlay.WebBind)
	if result.WebBind == "" {
		result.WebBind = base.WebBind
	}

	// Booleans: overlay wins if true, else base
	result.FlushOnStop = base.FlushOnStop || overlay.FlushOnStop
	result.Notify = base.Notify || overlay.Notify

	// Command argv: overlay replaces as a whole
	result.SamplerCommand = base.SamplerCommand
	if len(overlay.SamplerCommand) > 0 {
		result.SamplerCommand = overlay.SamplerCommand
	}

	// Arrays: merge and deduplicate
	result.DisabledTools = mergeStringSlice(base.DisabledTools, overlay.DisabledTools)

	return result
}

func pickInt(overlay, base int) int {
	if overlay > 0 {
		return overlay
	}
	return base
}

// mergeStringSlice combines two slices, trims whitespace, and removes duplicates.
func mergeStringSlice(a, b []string) []string {
	seen := make(map[string]bool)
	result := make([]string, 0, len(a)+len(b))

	for _, s := range a {
		s = strings.TrimSpace(s)
		if s != "" && !seen[s] {
			seen[s] = true
			result = append(result, s)
		}
	}
	for _, s := range b {
		s = strings.TrimSpace(s)
		if s != "" && !seen[s] {
			seen[s] = true
			result = append(result, s)
		}
	}

	if len(result) == 0 {
		return nil
	}
	return result
}
