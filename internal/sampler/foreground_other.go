//go:build !windows

package sampler

import (
	"fmt"
	"runtime"
)

// Native returns the platform foreground-window probe.
// Only Windows has one; elsewhere configure sampler_command.
func Native() (Sampler, error) {
	return nil, fmt.Errorf("no native foreground window probe on %s; set sampler_command", runtime.GOOS)
}
