package tui

import (
	"github.com/charmbracelet/bubbles/key"

	"github.com/wexinc/rizeclone/internal/tui/components"
)

// KeyMap holds the dashboard key bindings.
type KeyMap struct {
	Quit     key.Binding
	Help     key.Binding
	NextTab  key.Binding
	PrevTab  key.Binding
	JumpTab  key.Binding
	Focus    key.Binding
	Pause    key.Binding
	Music    key.Binding
	Longer   key.Binding
	Shorter  key.Binding
	PrevMon  key.Binding
	NextMon  key.Binding
	PrevWeek key.Binding
	NextWeek key.Binding
	PrevDay  key.Binding
	NextDay  key.Binding
	Today    key.Binding
}

// DefaultKeyMap returns the standard bindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Quit:     key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "Quit")),
		Help:     key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "Toggle help")),
		NextTab:  key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "Next tab")),
		PrevTab:  key.NewBinding(key.WithKeys("shift+tab"), key.WithHelp("S-tab", "Previous tab")),
		JumpTab:  key.NewBinding(key.WithKeys("1", "2", "3", "4"), key.WithHelp("1-4", "Dashboard, Calendar, Focus, Settings")),
		Focus:    key.NewBinding(key.WithKeys("f"), key.WithHelp("f", "Start/stop focus session")),
		Pause:    key.NewBinding(key.WithKeys("p"), key.WithHelp("p", "Pause/resume session")),
		Music:    key.NewBinding(key.WithKeys("m"), key.WithHelp("m", "Toggle music for next session")),
		Longer:   key.NewBinding(key.WithKeys("+", "="), key.WithHelp("+", "Longer session")),
		Shorter:  key.NewBinding(key.WithKeys("-"), key.WithHelp("-", "Shorter session")),
		PrevMon:  key.NewBinding(key.WithKeys("left", "h"), key.WithHelp("←", "Previous month")),
		NextMon:  key.NewBinding(key.WithKeys("right", "l"), key.WithHelp("→", "Next month")),
		PrevWeek: key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑", "Previous week")),
		NextWeek: key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓", "Next week")),
		PrevDay:  key.NewBinding(key.WithKeys("["), key.WithHelp("[", "Previous day")),
		NextDay:  key.NewBinding(key.WithKeys("]"), key.WithHelp("]", "Next day")),
		Today:    key.NewBinding(key.WithKeys("t"), key.WithHelp("t", "Jump to today")),
	}
}

// HelpGroups arranges the bindings for the help overlay.
func (k KeyMap) HelpGroups() []components.HelpGroup {
	return []components.HelpGroup{
		{Title: "Tabs", Bindings: []key.Binding{k.JumpTab, k.NextTab, k.PrevTab}},
		{Title: "Calendar", Bindings: []key.Binding{k.PrevMon, k.NextMon, k.PrevWeek, k.NextWeek, k.PrevDay, k.NextDay, k.Today}},
		{Title: "Focus", Bindings: []key.Binding{k.Focus, k.Pause, k.Music, k.Longer, k.Shorter}},
		{Title: "General", Bindings: []key.Binding{k.Help, k.Quit}},
	}
}
