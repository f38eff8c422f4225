// Package sampler reads the currently focused window from the operating system.
package sampler

import (
	"context"
	"fmt"
	"strings"

	"github.com/hpungsan/avrora/internal/errors"
)

// Window is one observation of the foreground window.
type Window struct {
	// Owner is the owning process name as reported by the OS (e.g. "Code.exe").
	Owner string `json:"owner"`
	Title string `json:"title"`
	PID   int    `json:"pid,omitempty"`
	Path  string `json:"path,omitempty"`
}

// Owner is the structured owner shape some probes report instead of a bare name.
type Owner struct {
	Name      string `json:"name"`
	ProcessID int    `json:"processId,omitempty"`
	Path      string `json:"path,omitempty"`
}

// Sampler yields the current foreground window on demand.
// Implementations must honor ctx cancellation.
type Sampler interface {
	Sample(ctx context.Context) (*Window, error)
}

// Func adapts a plain function to the Sampler interface.
type Func func(ctx context.Context) (*Window, error)

// Sample calls f.
func (f Func) Sample(ctx context.Context) (*Window, error) {
	return f(ctx)
}

// OwnerName reduces the owner field of a probe result to a single string.
// It accepts a bare string, an Owner (or pointer), a decoded JSON object with
// a "name" key, or any fmt.Stringer. Anything else yields "".
func OwnerName(v any) string {
	switch o := v.(type) {
	case nil:
		return ""
	case string:
		return o
	case Owner:
		return o.Name
	case *Owner:
		if o == nil {
			return ""
		}
		return o.Name
	case map[string]any:
		if name, ok := o["name"].(string); ok {
			return name
		}
		return ""
	case fmt.Stringer:
		return o.String()
	default:
		return ""
	}
}

// Unavailable is a Sampler that always fails. It stands in when no probe
// exists for the current platform and none is configured.
type Unavailable struct {
	Reason error
}

// Sample always returns a SAMPLER_UNAVAILABLE error.
func (u Unavailable) Sample(ctx context.Context) (*Window, error) {
	return nil, errors.NewSamplerUnavailable(u.Reason)
}

// New picks a sampler: the configured command when present, the native
// probe otherwise, and Unavailable when neither exists.
func New(command []string) Sampler {
	if len(command) > 0 && strings.TrimSpace(command[0]) != "" {
		return NewCommand(command)
	}
	s, err := Native()
	if err != nil {
		return Unavailable{Reason: err}
	}
	return s
}
