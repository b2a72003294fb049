package tracker

import (
	"context"
	"os/exec"
	"strconv"
)

// Focused is the result of a foreground window probe. A zero value means
// nothing is focused.
type Focused struct {
	PID         int32
	Name        string
	WindowTitle string
}

// IsZero reports whether nothing is focused.
func (f Focused) IsZero() bool {
	return f.PID == 0 && f.Name == ""
}

// Detector reports the application that currently has input focus.
// Implementations that only know the PID leave Name empty.
type Detector interface {
	Name() string
	Focused(ctx context.Context) (Focused, error)
}

// NoneDetector never reports a focused application.
type NoneDetector struct{}

// Name implements Detector.
func (NoneDetector) Name() string { return "none" }

// Focused implements Detector.
func (NoneDetector) Focused(context.Context) (Focused, error) {
	return Focused{}, nil
}

// runFunc executes an external command and returns its stdout.
type runFunc func(ctx context.Context, name string, args ...string) ([]byte, error)

func execRun(ctx context.Context, name string, args ...string) ([]byte, error) {
	return exec.CommandContext(ctx, name, args...).Output()
}

func itoa(pid int32) string {
	return strconv.FormatInt(int64(pid), 10)
}
