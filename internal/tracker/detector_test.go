package tracker

import (
	"context"
	"errors"
	"strings"
	"testing"
)

// scriptedRun answers commands from a table keyed by the joined argv.
func scriptedRun(responses map[string]string) runFunc {
	return func(_ context.Context, name string, args ...string) ([]byte, error) {
		key := strings.Join(append([]string{name}, args...), " ")
		out, ok := responses[key]
		if !ok {
			return nil, errors.New("unexpected command: " + key)
		}
		return []byte(out), nil
	}
}

func lookPathOnly(tools ...string) func(string) (string, error) {
	return func(name string) (string, error) {
		for _, tool := range tools {
			if tool == name {
				return "/usr/bin/" + name, nil
			}
		}
		return "", errors.New("not found")
	}
}

func TestX11Detector_Xdotool(t *testing.T) {
	d := &X11Detector{
		lookPath: lookPathOnly("xdotool", "xprop"),
		run: scriptedRun(map[string]string{
			"xdotool getactivewindow getwindowpid":  "4242\n",
			"xdotool getactivewindow getwindowname": "README.md - Code\n",
		}),
	}

	f, err := d.Focused(context.Background())
	if err != nil {
		t.Fatalf("Focused() error: %v", err)
	}
	if f.PID != 4242 || f.WindowTitle != "README.md - Code" || f.Name != "" {
		t.Errorf("Focused() = %+v", f)
	}
}

func TestX11Detector_XpropFallback(t *testing.T) {
	d := &X11Detector{
		lookPath: lookPathOnly("xprop"),
		run: scriptedRun(map[string]string{
			"xprop -root _NET_ACTIVE_WINDOW":               "_NET_ACTIVE_WINDOW(WINDOW): window id # 0x3a00007\n",
			"xprop -id 0x3a00007 _NET_WM_PID _NET_WM_NAME": "_NET_WM_PID(CARDINAL) = 1717\n_NET_WM_NAME(UTF8_STRING) = \"Inbox - Mail\"\n",
		}),
	}

	f, err := d.Focused(context.Background())
	if err != nil {
		t.Fatalf("Focused() error: %v", err)
	}
	if f.PID != 1717 || f.WindowTitle != "Inbox - Mail" {
		t.Errorf("Focused() = %+v", f)
	}
}

func TestX11Detector_NoTools(t *testing.T) {
	d := &X11Detector{lookPath: lookPathOnly(), run: scriptedRun(nil)}
	if _, err := d.Focused(context.Background()); err == nil {
		t.Error("expected error without xdotool or xprop")
	}
}

func TestParseActiveWindow(t *testing.T) {
	tests := []struct {
		in   string
		want string
		ok   bool
	}{
		{"_NET_ACTIVE_WINDOW(WINDOW): window id # 0x3a00007", "0x3a00007", true},
		{"_NET_ACTIVE_WINDOW(WINDOW): window id # 0x1c0000a, 0x0", "0x1c0000a", true},
		{"_NET_ACTIVE_WINDOW(WINDOW): window id # 0x0", "", false},
		{"_NET_ACTIVE_WINDOW:  not found.", "", false},
	}
	for _, tt := range tests {
		got, ok := parseActiveWindow(tt.in)
		if got != tt.want || ok != tt.ok {
			t.Errorf("parseActiveWindow(%q) = %q, %v; want %q, %v", tt.in, got, ok, tt.want, tt.ok)
		}
	}
}

func TestParseXprop(t *testing.T) {
	props := parseXprop("_NET_WM_PID(CARDINAL) = 99\n_NET_WM_NAME(UTF8_STRING) = \"a = b\"\ngarbage\n")
	if props["_NET_WM_PID"] != "99" {
		t.Errorf("_NET_WM_PID = %q", props["_NET_WM_PID"])
	}
	if props["_NET_WM_NAME"] != "a = b" {
		t.Errorf("_NET_WM_NAME = %q", props["_NET_WM_NAME"])
	}
}

func TestAppleScriptDetector(t *testing.T) {
	d := &AppleScriptDetector{run: scriptedRun(map[string]string{
		"osascript -e " + frontmostProcessScript: "Safari\n",
		"osascript -e " + frontmostWindowScript:  "Apple\n",
	})}

	f, err := d.Focused(context.Background())
	if err != nil {
		t.Fatalf("Focused() error: %v", err)
	}
	if f.Name != "Safari" || f.WindowTitle != "Apple" {
		t.Errorf("Focused() = %+v", f)
	}
}

func TestAppleScriptDetector_NoWindow(t *testing.T) {
	d := &AppleScriptDetector{run: scriptedRun(map[string]string{
		"osascript -e " + frontmostProcessScript: "Finder\n",
	})}

	f, err := d.Focused(context.Background())
	if err != nil {
		t.Fatalf("Focused() error: %v", err)
	}
	if f.Name != "Finder" || f.WindowTitle != "" {
		t.Errorf("Focused() = %+v", f)
	}
}
