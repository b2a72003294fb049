package components

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/wexinc/rizeclone/internal/clock"
	"github.com/wexinc/rizeclone/internal/tui/styles"
)

// StatusBarData contains the data to display in the status bar.
type StatusBarData struct {
	Uptime     time.Duration
	FocusState string // "idle", "running", "paused"
	Remaining  time.Duration
	Message    string
	// LastSaved is when activity was last flushed; zero means never.
	LastSaved     time.Time
	ShowShortcuts bool
	Shortcuts     []ShortcutDef
}

// StatusBar is a component that displays tracker status and keyboard shortcuts.
type StatusBar struct {
	data  StatusBarData
	width int
}

// NewStatusBar creates a new StatusBar component.
func NewStatusBar() *StatusBar {
	return &StatusBar{
		data: StatusBarData{
			FocusState:    "idle",
			ShowShortcuts: true,
			Shortcuts:     DashboardShortcuts,
		},
	}
}

// SetData updates the status bar data.
func (s *StatusBar) SetData(data StatusBarData) {
	s.data = data
}

// SetUptime sets how long the tracker has been running.
func (s *StatusBar) SetUptime(d time.Duration) {
	s.data.Uptime = d
}

// SetFocus sets the focus state and the time remaining in the session.
func (s *StatusBar) SetFocus(state string, remaining time.Duration) {
	s.data.FocusState = state
	s.data.Remaining = remaining
}

// SetMessage sets an optional status message.
func (s *StatusBar) SetMessage(message string) {
	s.data.Message = message
}

// SetLastSaved records the last flush time.
func (s *StatusBar) SetLastSaved(t time.Time) {
	s.data.LastSaved = t
}

// SetShortcuts replaces the shortcuts shown on the right.
func (s *StatusBar) SetShortcuts(shortcuts []ShortcutDef) {
	s.data.Shortcuts = shortcuts
}

// SetShowShortcuts sets whether to show keyboard shortcuts.
func (s *StatusBar) SetShowShortcuts(show bool) {
	s.data.ShowShortcuts = show
}

// SetWidth sets the width of the status bar.
func (s *StatusBar) SetWidth(width int) {
	s.width = width
}

// View renders the status bar.
func (s *StatusBar) View() string {
	sep := lipgloss.NewStyle().
		Foreground(styles.Muted).
		Render(" │ ")

	label := lipgloss.NewStyle().Foreground(styles.MutedLight)
	value := lipgloss.NewStyle().Foreground(styles.Foreground)

	leftContent := fmt.Sprintf("%s%s%s%s",
		label.Render("Up: "), value.Render(clock.FormatDuration(s.data.Uptime)), sep,
		s.renderFocusState(),
	)

	if !s.data.LastSaved.IsZero() {
		leftContent += sep + label.Render("Saved: ") + value.Render(s.data.LastSaved.Format("15:04:05"))
	}

	if s.data.Message != "" {
		msgStyle := lipgloss.NewStyle().
			Foreground(styles.MutedLight).
			Italic(true)
		leftContent += sep + msgStyle.Render(s.data.Message)
	}

	rightContent := ""
	if s.data.ShowShortcuts {
		rightContent = NewShortcutBar(s.data.Shortcuts...).View()
	}

	containerStyle := lipgloss.NewStyle().
		Background(styles.Background).
		Padding(0, 1)

	if s.width > 0 {
		containerStyle = containerStyle.Width(s.width)

		leftWidth := lipgloss.Width(leftContent)
		rightWidth := lipgloss.Width(rightContent)
		padding := s.width - leftWidth - rightWidth - 2 // container padding
		if padding > 0 {
			return containerStyle.Render(leftContent + strings.Repeat(" ", padding) + rightContent)
		}
	}

	return containerStyle.Render(leftContent + "  " + rightContent)
}

// renderFocusState renders the focus indicator with the time left.
func (s *StatusBar) renderFocusState() string {
	remaining := clock.FormatDuration(s.data.Remaining)
	switch s.data.FocusState {
	case "running":
		return styles.StateRunning + lipgloss.NewStyle().Foreground(styles.Success).Render(" Focus "+remaining)
	case "paused":
		return styles.StatePaused + lipgloss.NewStyle().Foreground(styles.Warning).Render(" Paused "+remaining)
	default:
		return styles.StateIdle + lipgloss.NewStyle().Foreground(styles.Muted).Render(" No focus session")
	}
}
