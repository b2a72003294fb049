//go:build windows

package tracker

import (
	"context"
	"unsafe"

	"golang.org/x/sys/windows"
)

var (
	user32             = windows.NewLazySystemDLL("user32.dll")
	procGetWindowTextW = user32.NewProc("GetWindowTextW")
)

// Win32Detector reads the foreground window through user32.
type Win32Detector struct{}

// NewDetector returns the focused-window detector for this platform.
func NewDetector() Detector {
	return Win32Detector{}
}

// Name implements Detector.
func (Win32Detector) Name() string { return "win32" }

// Focused implements Detector.
func (Win32Detector) Focused(context.Context) (Focused, error) {
	hwnd := windows.GetForegroundWindow()
	if hwnd == 0 {
		return Focused{}, nil
	}

	var pid uint32
	if _, err := windows.GetWindowThreadProcessId(hwnd, &pid); err != nil {
		return Focused{}, err
	}
	if pid == 0 {
		return Focused{}, nil
	}

	return Focused{PID: int32(pid), WindowTitle: windowText(hwnd)}, nil
}

func windowText(hwnd windows.HWND) string {
	if err := procGetWindowTextW.Find(); err != nil {
		return ""
	}
	buf := make([]uint16, 512)
	n, _, _ := procGetWindowTextW.Call(
		uintptr(hwnd),
		uintptr(unsafe.Pointer(&buf[0])),
		uintptr(len(buf)),
	)
	if n == 0 {
		return ""
	}
	return windows.UTF16ToString(buf[:n])
}
