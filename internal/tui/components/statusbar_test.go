package components

import (
	"strings"
	"testing"
	"time"
)

func TestNewStatusBar(t *testing.T) {
	sb := NewStatusBar()
	if sb == nil {
		t.Fatal("expected non-nil StatusBar")
	}
	if sb.data.FocusState != "idle" {
		t.Errorf("expected focus state 'idle', got %s", sb.data.FocusState)
	}
	if !sb.data.ShowShortcuts {
		t.Error("expected ShowShortcuts to be true by default")
	}
}

func TestStatusBar_SetMethods(t *testing.T) {
	sb := NewStatusBar()

	sb.SetUptime(10 * time.Minute)
	if sb.data.Uptime != 10*time.Minute {
		t.Errorf("SetUptime: expected 10m, got %v", sb.data.Uptime)
	}

	sb.SetFocus("paused", 3*time.Minute)
	if sb.data.FocusState != "paused" || sb.data.Remaining != 3*time.Minute {
		t.Errorf("SetFocus: got %s %v", sb.data.FocusState, sb.data.Remaining)
	}

	sb.SetMessage("hello")
	if sb.data.Message != "hello" {
		t.Errorf("SetMessage: got %s", sb.data.Message)
	}

	sb.SetShowShortcuts(false)
	if sb.data.ShowShortcuts {
		t.Error("SetShowShortcuts(false) should hide shortcuts")
	}
}

func TestStatusBar_ViewFocusStates(t *testing.T) {
	tests := []struct {
		state string
		want  string
	}{
		{"running", "Focus 12:30"},
		{"paused", "Paused 12:30"},
		{"idle", "No focus session"},
		{"", "No focus session"},
	}

	for _, tt := range tests {
		t.Run(tt.state, func(t *testing.T) {
			sb := NewStatusBar()
			sb.SetFocus(tt.state, 12*time.Minute+30*time.Second)
			view := sb.View()
			if !strings.Contains(view, tt.want) {
				t.Errorf("View() should contain %q, got %q", tt.want, view)
			}
		})
	}
}

func TestStatusBar_ViewContent(t *testing.T) {
	sb := NewStatusBar()
	sb.SetWidth(160)
	sb.SetUptime(65 * time.Second)
	sb.SetLastSaved(time.Date(2024, 3, 1, 9, 15, 0, 0, time.UTC))
	sb.SetMessage("Focus session started")

	view := sb.View()
	for _, want := range []string{"Up: 01:05", "Saved: 09:15:00", "Focus session started", "quit"} {
		if !strings.Contains(view, want) {
			t.Errorf("View() should contain %q, got %q", want, view)
		}
	}
}

func TestStatusBar_CustomShortcuts(t *testing.T) {
	sb := NewStatusBar()
	sb.SetShortcuts([]ShortcutDef{{"x", "custom"}})

	view := sb.View()
	if !strings.Contains(view, "custom") {
		t.Error("custom shortcuts should be rendered")
	}

	sb.SetShowShortcuts(false)
	if strings.Contains(sb.View(), "custom") {
		t.Error("shortcuts should be hidden")
	}
}
