package tracker

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strconv"
	"strings"
)

// X11Detector queries the active X11 window with xdotool, falling back to
// xprop when xdotool is not installed.
type X11Detector struct {
	run      runFunc
	lookPath func(string) (string, error)
}

// NewX11Detector creates an X11Detector backed by the system tools.
func NewX11Detector() *X11Detector {
	return &X11Detector{run: execRun, lookPath: exec.LookPath}
}

// Name implements Detector.
func (d *X11Detector) Name() string { return "x11" }

// Focused implements Detector.
func (d *X11Detector) Focused(ctx context.Context) (Focused, error) {
	if _, err := d.lookPath("xdotool"); err == nil {
		return d.xdotool(ctx)
	}
	if _, err := d.lookPath("xprop"); err == nil {
		return d.xprop(ctx)
	}
	return Focused{}, errors.New("neither xdotool nor xprop found in PATH")
}

func (d *X11Detector) xdotool(ctx context.Context) (Focused, error) {
	out, err := d.run(ctx, "xdotool", "getactivewindow", "getwindowpid")
	if err != nil {
		// xdotool exits non-zero when no window has focus.
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return Focused{}, nil
		}
		return Focused{}, err
	}
	pid, err := strconv.ParseInt(strings.TrimSpace(string(out)), 10, 32)
	if err != nil {
		return Focused{}, fmt.Errorf("unexpected xdotool output %q: %w", out, err)
	}

	f := Focused{PID: int32(pid)}
	if title, err := d.run(ctx, "xdotool", "getactivewindow", "getwindowname"); err == nil {
		f.WindowTitle = strings.TrimSpace(string(title))
	}
	return f, nil
}

func (d *X11Detector) xprop(ctx context.Context) (Focused, error) {
	out, err := d.run(ctx, "xprop", "-root", "_NET_ACTIVE_WINDOW")
	if err != nil {
		return Focused{}, err
	}
	window, ok := parseActiveWindow(string(out))
	if !ok {
		return Focused{}, nil
	}

	out, err = d.run(ctx, "xprop", "-id", window, "_NET_WM_PID", "_NET_WM_NAME")
	if err != nil {
		return Focused{}, err
	}
	props := parseXprop(string(out))

	f := Focused{WindowTitle: props["_NET_WM_NAME"]}
	if pid, err := strconv.ParseInt(props["_NET_WM_PID"], 10, 32); err == nil {
		f.PID = int32(pid)
	}
	return f, nil
}

// parseActiveWindow extracts the window id from
// "_NET_ACTIVE_WINDOW(WINDOW): window id # 0x3a00007".
func parseActiveWindow(out string) (string, bool) {
	idx := strings.LastIndex(out, "#")
	if idx < 0 {
		return "", false
	}
	id := strings.TrimSpace(out[idx+1:])
	if fields := strings.Fields(id); len(fields) > 0 {
		id = strings.TrimSuffix(fields[0], ",")
	}
	if id == "" || id == "0x0" {
		return "", false
	}
	return id, true
}

// parseXprop parses "NAME(TYPE) = value" lines. Quoted string values are
// unquoted.
func parseXprop(out string) map[string]string {
	props := make(map[string]string)
	for _, line := range strings.Split(out, "\n") {
		key, value, ok := strings.Cut(line, "=")
		if !ok {
			continue
		}
		if i := strings.Index(key, "("); i >= 0 {
			key = key[:i]
		}
		value = strings.TrimSpace(value)
		if unq, err := strconv.Unquote(value); err == nil {
			value = unq
		}
		props[strings.TrimSpace(key)] = value
	}
	return props
}
