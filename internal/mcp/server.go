package mcp

import (
	"context"
	"sort"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/hpungsan/avrora/internal/activity"
	"github.com/hpungsan/avrora/internal/config"
	"github.com/hpungsan/avrora/internal/ops"
)

// toolEntry pairs a tool definition with a handler factory.
type toolEntry struct {
	def     mcp.Tool
	handler func(*Handlers) server.ToolHandlerFunc
}

// toolRegistry maps tool names to their definitions and handler factories.
var toolRegistry = map[string]toolEntry{
	"activity_stats": {
		def:     statsToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleStats },
	},
	"activity_advice": {
		def:     adviceToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleAdvice },
	},
	"activity_summary": {
		def:     summaryToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleSummary },
	},
	"activity_history": {
		def:     historyToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleHistory },
	},
	"activity_categorize": {
		def:     categorizeToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleCategorize },
	},
}

// AllToolNames returns a sorted list of all valid tool names.
func AllToolNames() []string {
	names := make([]string, 0, len(toolRegistry))
	for name := range toolRegistry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ValidateDisabledTools returns a list of unknown tool names from the given list.
func ValidateDisabledTools(names []string) []string {
	unknown := make([]string, 0)
	for _, name := range names {
		if _, ok := toolRegistry[name]; !ok {
			unknown = append(unknown, name)
		}
	}
	return unknown
}

// NewServer creates a new MCP server with Avrora tools registered.
// Tools listed in cfg.DisabledTools are excluded from registration.
func NewServer(store ops.Store, cfg *config.Config, categorizer *activity.Categorizer, version string) *server.MCPServer {
	s := server.NewMCPServer(
		"avrora",
		version,
		server.WithToolCapabilities(true),
	)

	h := NewHandlers(store, cfg, categorizer, nil)

	disabled := make(map[string]bool)
	for _, name := range cfg.DisabledTools {
		disabled[name] = true
	}

	// Register tools (skip disabled)
	for name, entry := range toolRegistry {
		if disabled[name] {
			continue
		}
		s.AddTool(entry.def, entry.handler(h))
	}

	return s
}

// Run starts the MCP server using stdio transport.
func Run(store ops.Store, cfg *config.Config, categorizer *activity.Categorizer, version string) error {
	s := NewServer(store, cfg, categorizer, version)
	return server.ServeStdio(s)
}

// ToolHandlerFunc is the signature for tool handlers.
type ToolHandlerFunc func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error)
