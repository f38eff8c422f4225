package ops

import (
	"strings"

	"github.com/hpungsan/avrora/internal/activity"
	"github.com/hpungsan/avrora/internal/errors"
)

// CategorizeInput contains parameters for the Categorize operation.
type CategorizeInput struct {
	AppName     string // raw owner name; normalized like a live sample
	WindowTitle string
}

// CategorizeOutput contains the result of the Categorize operation.
type CategorizeOutput struct {
	AppName  string            `json:"app_name"`
	URL      string            `json:"url,omitempty"`
	Domain   string            `json:"domain,omitempty"`
	Category activity.Category `json:"category"`
}

// Categorize classifies an (app, title) pair exactly as the tracker would
// when opening a session.
func Categorize(c *activity.Categorizer, input CategorizeInput) (*CategorizeOutput, error) {
	if strings.TrimSpace(input.AppName) == "" && strings.TrimSpace(input.WindowTitle) == "" {
		return nil, errors.NewInvalidRequest("app_name or window_title is required")
	}

	appName := activity.NormalizeAppName(input.AppName)
	url := activity.ExtractURL(input.WindowTitle)

	out := &CategorizeOutput{
		AppName:  appName,
		URL:      url,
		Category: c.Categorize(appName, input.WindowTitle, url),
	}
	if url != "" {
		out.Domain = activity.ExtractDomain(url)
	}
	return out, nil
}
