package mcp

import (
	"context"
	"encoding/json"
	stderrors "errors"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/hpungsan/avrora/internal/activity"
	"github.com/hpungsan/avrora/internal/advisor"
	"github.com/hpungsan/avrora/internal/config"
	"github.com/hpungsan/avrora/internal/errors"
	"github.com/hpungsan/avrora/internal/ops"
)

// Handlers holds dependencies for MCP tool handlers.
type Handlers struct {
	store       ops.Store
	cfg         *config.Config
	categorizer *activity.Categorizer
	advisor     *advisor.Advisor
}

// NewHandlers creates a new Handlers instance. A nil adv uses a randomly
// seeded advisor.
func NewHandlers(store ops.Store, cfg *config.Config, categorizer *activity.Categorizer, adv *advisor.Advisor) *Handlers {
	if adv == nil {
		adv = advisor.New(nil)
	}
	return &Handlers{store: store, cfg: cfg, categorizer: categorizer, advisor: adv}
}

// Request types for each tool

// StatsRequest represents the arguments for activity_stats.
type StatsRequest struct {
	Date string `json:"date,omitempty"`
}

// SummaryRequest represents the arguments for activity_summary.
type SummaryRequest struct {
	Markdown bool `json:"markdown,omitempty"`
}

// HistoryRequest represents the arguments for activity_history.
type HistoryRequest struct {
	Days  int `json:"days,omitempty"`
	Limit int `json:"limit,omitempty"`
}

// CategorizeRequest represents the arguments for activity_categorize.
type CategorizeRequest struct {
	AppName     string `json:"app_name,omitempty"`
	WindowTitle string `json:"window_title,omitempty"`
}

// HandleStats handles the activity_stats tool call.
func (h *Handlers) HandleStats(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[StatsRequest](req)
	if err != nil {
		return errorResult(err), nil
	}

	if input.Date != "" {
		result, err := ops.StoredStats(ctx, h.store, ops.StoredStatsInput{Date: input.Date})
		if err != nil {
			return errorResult(err), nil
		}
		return successResult(result)
	}

	return successResult(ops.TodayStats(ctx, h.store, h.cfg))
}

// HandleAdvice handles the activity_advice tool call.
func (h *Handlers) HandleAdvice(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return successResult(ops.Advice(ctx, h.store, h.cfg, h.advisor))
}

// HandleSummary handles the activity_summary tool call.
func (h *Handlers) HandleSummary(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[SummaryRequest](req)
	if err != nil {
		return errorResult(err), nil
	}

	result := ops.Summary(ctx, h.store, h.cfg)
	if !input.Markdown {
		result.Markdown = ""
	}
	return successResult(result)
}

// HandleHistory handles the activity_history tool call.
func (h *Handlers) HandleHistory(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[HistoryRequest](req)
	if err != nil {
		return errorResult(err), nil
	}

	result, err := ops.History(ctx, h.store, ops.HistoryInput{
		Days:  input.Days,
		Limit: input.Limit,
	})
	if err != nil {
		return errorResult(err), nil
	}

	return successResult(result)
}

// HandleCategorize handles the activity_categorize tool call.
func (h *Handlers) HandleCategorize(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[CategorizeRequest](req)
	if err != nil {
		return errorResult(err), nil
	}

	result, err := ops.Categorize(h.categorizer, ops.CategorizeInput{
		AppName:     input.AppName,
		WindowTitle: input.WindowTitle,
	})
	if err != nil {
		return errorResult(err), nil
	}

	return successResult(result)
}

// Result helpers

// errorResult creates an MCP error result from any error.
// Uses IsError: true so MCP clients recognize failures properly.
// Internal error details are never exposed.
func errorResult(err error) *mcp.CallToolResult {
	var payload map[string]any

	var aErr *errors.AvroraError
	if stderrors.As(err, &aErr) && aErr.Code != errors.ErrInternal {
		msg := aErr.Message
		if err != error(aErr) {
			// Keep wrapper context added with fmt.Errorf("...: %w", err)
			msg = err.Error()
		}
		errorObj := map[string]any{
			"code":    aErr.Code,
			"message": msg,
			"status":  aErr.Status,
		}
		if aErr.Details != nil {
			errorObj["details"] = aErr.Details
		}
		payload = map[string]any{"error": errorObj}
	} else {
		payload = map[string]any{
			"error": map[string]any{
				"code":    errors.ErrInternal,
				"message": "an internal error occurred",
				"status":  500,
			},
		}
	}

	content, _ := json.Marshal(payload)
	return &mcp.CallToolResult{
		Content: []mcp.Content{mcp.TextContent{Type: "text", Text: string(content)}},
		IsError: true,
	}
}

// successResult creates an MCP success result from any data.
func successResult(data any) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultJSON(data)
}
