// Package errors provides error types for rizeclone.
// This file contains tracker, focus and storage errors.
package errors

import (
	"fmt"
	"runtime"
)

// ProbeFailed creates an error when the focused window could not be queried.
func ProbeFailed(detector string, cause error) *Error {
	return &Error{
		Kind:    ErrTracker,
		Message: fmt.Sprintf("failed to query focused window (%s)", detector),
		Cause:   cause,
		Details: map[string]string{"detector": detector, "os": runtime.GOOS},
		Suggestion: `Make sure a graphical session is available:
  • Linux/X11: install xdotool or xprop and check that $DISPLAY is set
  • macOS: allow your terminal under Privacy & Security → Accessibility
  • Windows: run rizeclone from an interactive desktop session`,
	}
}

// PlatformUnsupported creates an error for platforms without a detector.
func PlatformUnsupported(goos string) *Error {
	return &Error{
		Kind:       ErrPlatform,
		Message:    fmt.Sprintf("focused window detection is not supported on %s", goos),
		Details:    map[string]string{"os": goos},
		Suggestion: "Process listing and focus sessions still work; app usage will not be recorded.",
	}
}

// ProcessListFailed creates an error when running processes cannot be enumerated.
func ProcessListFailed(cause error) *Error {
	return &Error{
		Kind:    ErrTracker,
		Message: "failed to list running processes",
		Cause:   cause,
	}
}

// SessionActive creates an error when a focus session is already running.
func SessionActive(id string) *Error {
	return &Error{
		Kind:       ErrFocus,
		Message:    "a focus session is already active",
		Details:    map[string]string{"session_id": id},
		Suggestion: "End it first with 'rizeclone focus stop'.",
	}
}

// NoActiveSession creates an error when no focus session is running.
func NoActiveSession() *Error {
	return &Error{
		Kind:       ErrFocus,
		Message:    "no focus session is active",
		Suggestion: "Start one with 'rizeclone focus start --minutes 25'.",
	}
}

// InvalidFocusDuration creates an error for a non-positive session length.
func InvalidFocusDuration(d fmt.Stringer) *Error {
	return &Error{
		Kind:       ErrFocus,
		Message:    fmt.Sprintf("invalid focus duration %s", d),
		Suggestion: "Focus sessions need a positive duration, e.g. --minutes 25.",
	}
}

// StoreReadFailed creates an error for unreadable persisted state.
func StoreReadFailed(path string, cause error) *Error {
	return &Error{
		Kind:    ErrStore,
		Message: fmt.Sprintf("failed to read %s", path),
		Cause:   cause,
		Details: map[string]string{"path": path},
		Suggestion: `The file may be corrupted. Move it aside to start fresh:
  mv ` + path + ` ` + path + `.bak`,
	}
}

// StoreWriteFailed creates an error for persistence failures.
func StoreWriteFailed(path string, cause error) *Error {
	return &Error{
		Kind:       ErrStore,
		Message:    fmt.Sprintf("failed to write %s", path),
		Cause:      cause,
		Details:    map[string]string{"path": path},
		Suggestion: "Check that the data directory exists and is writable (see data_dir in 'rizeclone config show').",
	}
}

// NoActivity creates an error when a day has no recorded activity.
func NoActivity(date string) *Error {
	return &Error{
		Kind:       ErrNotFound,
		Message:    fmt.Sprintf("no activity recorded for %s", date),
		Details:    map[string]string{"date": date},
		Suggestion: "Run 'rizeclone track' to start recording app usage.",
	}
}
