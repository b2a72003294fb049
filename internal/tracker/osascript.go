package tracker

import (
	"context"
	"strings"
)

const (
	frontmostProcessScript = `tell application "System Events" to get name of first process where it is frontmost`
	frontmostWindowScript  = `tell application "System Events" to get name of first window of first process where it is frontmost`
)

// AppleScriptDetector asks System Events for the frontmost process.
type AppleScriptDetector struct {
	run runFunc
}

// NewAppleScriptDetector creates an AppleScriptDetector using osascript.
func NewAppleScriptDetector() *AppleScriptDetector {
	return &AppleScriptDetector{run: execRun}
}

// Name implements Detector.
func (d *AppleScriptDetector) Name() string { return "osascript" }

// Focused implements Detector.
func (d *AppleScriptDetector) Focused(ctx context.Context) (Focused, error) {
	out, err := d.run(ctx, "osascript", "-e", frontmostProcessScript)
	if err != nil {
		return Focused{}, err
	}
	name := strings.TrimSpace(string(out))
	if name == "" {
		return Focused{}, nil
	}

	f := Focused{Name: name}
	// Apps without windows make this script fail; the name is still valid.
	if title, err := d.run(ctx, "osascript", "-e", frontmostWindowScript); err == nil {
		f.WindowTitle = strings.TrimSpace(string(title))
	}
	return f, nil
}
