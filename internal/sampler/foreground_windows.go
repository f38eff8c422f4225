package sampler

import (
	"context"
	"path/filepath"
	"unsafe"

	"golang.org/x/sys/windows"

	"github.com/hpungsan/avrora/internal/errors"
)

var (
	user32                    = windows.NewLazySystemDLL("user32.dll")
	procGetForegroundWindow   = user32.NewProc("GetForegroundWindow")
	procGetWindowTextLengthW  = user32.NewProc("GetWindowTextLengthW")
	procGetWindowTextW        = user32.NewProc("GetWindowTextW")
	procGetWindowThreadProcID = user32.NewProc("GetWindowThreadProcessId")
)

type foreground struct{}

// Native returns the user32-backed foreground window probe.
func Native() (Sampler, error) {
	if err := procGetForegroundWindow.Find(); err != nil {
		return nil, err
	}
	return foreground{}, nil
}

// Sample reads the foreground window. A desktop with nothing focused
// (lock screen, switching) yields (nil, nil).
func (foreground) Sample(ctx context.Context) (*Window, error) {
	if err := ctx.Err(); err != nil {
		return nil, errors.NewSamplerUnavailable(err)
	}

	hwnd, _, _ := procGetForegroundWindow.Call()
	if hwnd == 0 {
		return nil, nil
	}

	var pid uint32
	_, _, err := procGetWindowThreadProcID.Call(hwnd, uintptr(unsafe.Pointer(&pid)))
	if pid == 0 {
		return nil, errors.NewSamplerUnavailable(err)
	}

	w := &Window{
		Title: windowText(hwnd),
		PID:   int(pid),
	}
	if path, err := processImagePath(pid); err == nil {
		w.Path = path
		w.Owner = filepath.Base(path)
	}
	return w, nil
}

func windowText(hwnd uintptr) string {
	n, _, _ := procGetWindowTextLengthW.Call(hwnd)
	if n == 0 {
		return ""
	}
	buf := make([]uint16, n+1)
	procGetWindowTextW.Call(hwnd, uintptr(unsafe.Pointer(&buf[0])), uintptr(len(buf)))
	return windows.UTF16ToString(buf)
}

func processImagePath(pid uint32) (string, error) {
	h, err := windows.OpenProcess(windows.PROCESS_QUERY_LIMITED_INFORMATION, false, pid)
	if err != nil {
		return "", err
	}
	defer windows.CloseHandle(h)

	buf := make([]uint16, windows.MAX_LONG_PATH)
	size := uint32(len(buf))
	if err := windows.QueryFullProcessImageName(h, 0, &buf[0], &size); err != nil {
		return "", err
	}
	return windows.UTF16ToString(buf[:size]), nil
}
