package components

import (
	"strings"
	"testing"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

func testGroups() []HelpGroup {
	return []HelpGroup{
		{Title: "Focus", Bindings: []key.Binding{
			key.NewBinding(key.WithKeys("f"), key.WithHelp("f", "Start/stop focus session")),
			key.NewBinding(key.WithKeys("p"), key.WithHelp("p", "Pause/resume session")),
		}},
		{Title: "General", Bindings: []key.Binding{
			key.NewBinding(key.WithKeys("q"), key.WithHelp("q", "Quit")),
		}},
	}
}

func TestHelpOverlayVisibility(t *testing.T) {
	h := NewHelpOverlay()
	if h.IsVisible() {
		t.Fatal("HelpOverlay should be hidden by default")
	}

	h.Show()
	if !h.IsVisible() {
		t.Error("Show should make overlay visible")
	}
	h.Hide()
	if h.IsVisible() {
		t.Error("Hide should make overlay hidden")
	}
	h.Toggle()
	if !h.IsVisible() {
		t.Error("Toggle from hidden should show overlay")
	}
	h.Toggle()
	if h.IsVisible() {
		t.Error("Toggle from visible should hide overlay")
	}
}

func TestHelpOverlayUpdateWhenHidden(t *testing.T) {
	h := NewHelpOverlay()
	if cmd := h.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'?'}}); cmd != nil {
		t.Error("Update when hidden should return nil")
	}
}

func TestHelpOverlayCloseKeys(t *testing.T) {
	tests := []struct {
		name string
		msg  tea.KeyMsg
		want bool
	}{
		{"esc", tea.KeyMsg{Type: tea.KeyEscape}, true},
		{"question mark", tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'?'}}, true},
		{"q", tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'q'}}, true},
		{"other key", tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'f'}}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewHelpOverlay()
			h.Show()

			cmd := h.Update(tt.msg)
			if h.IsVisible() == tt.want {
				t.Errorf("visible = %v after %s", h.IsVisible(), tt.name)
			}
			if !tt.want {
				if cmd != nil {
					t.Error("non-closing key should not return a command")
				}
				return
			}
			if cmd == nil {
				t.Fatal("closing key should return a command")
			}
			if _, ok := cmd().(HelpClosedMsg); !ok {
				t.Error("closing key should produce HelpClosedMsg")
			}
		})
	}
}

func TestHelpOverlayView(t *testing.T) {
	h := NewHelpOverlay()
	h.SetGroups(testGroups())

	if h.View() != "" {
		t.Error("View should be empty when hidden")
	}

	h.Show()
	view := h.View()
	for _, want := range []string{"Keyboard Shortcuts", "Focus", "Pause/resume session", "General", "Quit", "esc, ? or q to close"} {
		if !strings.Contains(view, want) {
			t.Errorf("View missing %q", want)
		}
	}
}

func TestHelpOverlayHidesDisabledBindings(t *testing.T) {
	groups := testGroups()
	groups[0].Bindings[1].SetEnabled(false)

	h := NewHelpOverlay()
	h.SetGroups(groups)
	h.Show()

	view := h.View()
	if strings.Contains(view, "Pause/resume session") {
		t.Error("disabled binding should not be listed")
	}
	if !strings.Contains(view, "Start/stop focus session") {
		t.Error("enabled binding should be listed")
	}
}

func TestHelpOverlayColumns(t *testing.T) {
	h := NewHelpOverlay()

	h.SetSize(120, 40)
	if got := h.columns(); got != 2 {
		t.Errorf("columns at width 120 = %d, want 2", got)
	}
	h.SetSize(50, 40)
	if got := h.columns(); got != 1 {
		t.Errorf("columns at width 50 = %d, want 1", got)
	}
}
