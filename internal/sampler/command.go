package sampler

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os/exec"

	"github.com/hpungsan/avrora/internal/errors"
)

// Command runs an external program that prints the active window as JSON:
//
//	{"title": "...", "owner": "Code.exe" | {"name": "Code.exe", "processId": 42, "path": "..."}}
//
// This covers desktops without a native probe (e.g. active-win, xdotool wrappers).
type Command struct {
	argv []string
}

// NewCommand returns a Command sampler for argv. argv must be non-empty.
func NewCommand(argv []string) *Command {
	return &Command{argv: append([]string(nil), argv...)}
}

// commandOutput is the wire shape; owner is decoded loosely and reduced by OwnerName.
type commandOutput struct {
	Title string `json:"title"`
	Owner any    `json:"owner"`
	PID   int    `json:"pid"`
	Path  string `json:"path"`
}

// Sample runs the command once and decodes its stdout.
// Empty output means no window is focused and yields (nil, nil).
func (c *Command) Sample(ctx context.Context) (*Window, error) {
	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, c.argv[0], c.argv[1:]...)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if ctx.Err() != nil {
			return nil, errors.NewSamplerUnavailable(ctx.Err())
		}
		msg := bytes.TrimSpace(stderr.Bytes())
		if len(msg) > 0 {
			return nil, errors.NewSamplerUnavailable(fmt.Errorf("%s: %w: %s", c.argv[0], err, msg))
		}
		return nil, errors.NewSamplerUnavailable(fmt.Errorf("%s: %w", c.argv[0], err))
	}

	out := bytes.TrimSpace(stdout.Bytes())
	if len(out) == 0 || bytes.Equal(out, []byte("null")) {
		return nil, nil
	}

	var raw commandOutput
	if err := json.Unmarshal(out, &raw); err != nil {
		return nil, errors.NewSamplerUnavailable(fmt.Errorf("decode %s output: %w", c.argv[0], err))
	}
	return decodeWindow(raw), nil
}

func decodeWindow(raw commandOutput) *Window {
	w := &Window{
		Owner: OwnerName(raw.Owner),
		Title: raw.Title,
		PID:   raw.PID,
		Path:  raw.Path,
	}
	// Object-shaped owners carry process metadata alongside the name.
	if m, ok := raw.Owner.(map[string]any); ok {
		if w.PID == 0 {
			if pid, ok := m["processId"].(float64); ok {
				w.PID = int(pid)
			}
		}
		if w.Path == "" {
			if p, ok := m["path"].(string); ok {
				w.Path = p
			}
		}
	}
	return w
}
