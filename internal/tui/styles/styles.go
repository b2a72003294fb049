// Package styles provides Lip Gloss styles for the rizeclone dashboard.
package styles

import (
	"github.com/charmbracelet/lipgloss"
)

// Color palette for the TUI.
var (
	// Primary colors
	Primary     = lipgloss.Color("#7C3AED") // Purple
	Secondary   = lipgloss.Color("#06B6D4") // Cyan
	Success     = lipgloss.Color("#10B981") // Green
	Warning     = lipgloss.Color("#F59E0B") // Amber
	Error       = lipgloss.Color("#EF4444") // Red
	Muted       = lipgloss.Color("#6B7280") // Gray
	MutedLight  = lipgloss.Color("#9CA3AF") // Light Gray
	Background  = lipgloss.Color("#1F2937") // Dark Gray
	Foreground  = lipgloss.Color("#F9FAFB") // White
	BorderColor = lipgloss.Color("#374151") // Border Gray
)

// Header styles.
var (
	// HeaderLabelStyle is for header labels.
	HeaderLabelStyle = lipgloss.NewStyle().
				Foreground(MutedLight)

	// HeaderValueStyle is for header values.
	HeaderValueStyle = lipgloss.NewStyle().
				Foreground(Foreground).
				Bold(true)

	// TitleStyle is for the application title.
	TitleStyle = lipgloss.NewStyle().
			Foreground(Foreground).
			Background(Primary).
			Bold(true).
			Padding(0, 1)
)

// Tab styles.
var (
	// ActiveTabStyle is the selected tab.
	ActiveTabStyle = lipgloss.NewStyle().
			Foreground(Foreground).
			Background(Primary).
			Bold(true).
			Padding(0, 2)

	// InactiveTabStyle is every other tab.
	InactiveTabStyle = lipgloss.NewStyle().
				Foreground(MutedLight).
				Padding(0, 2)
)

// Progress bar styles.
var (
	// ProgressFilledStyle is for the filled portion.
	ProgressFilledStyle = lipgloss.NewStyle().
				Foreground(Success).
				Bold(true)

	// ProgressPausedStyle is the filled portion while a session is paused.
	ProgressPausedStyle = lipgloss.NewStyle().
				Foreground(Warning).
				Bold(true)

	// ProgressEmptyStyle is for the empty portion.
	ProgressEmptyStyle = lipgloss.NewStyle().
				Foreground(Muted)

	// UsageBarStyle is for per-app usage bars.
	UsageBarStyle = lipgloss.NewStyle().
			Foreground(Secondary)
)

// Focus state icons.
var (
	// StateRunning marks a running focus session.
	StateRunning = lipgloss.NewStyle().
			Foreground(Success).
			Render("●")

	// StatePaused marks a paused focus session.
	StatePaused = lipgloss.NewStyle().
			Foreground(Warning).
			Render("⏸")

	// StateIdle marks the absence of a session.
	StateIdle = lipgloss.NewStyle().
			Foreground(Muted).
			Render("○")
)

// Box styles.
var (
	// BoxStyle is a standard box with border.
	BoxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(BorderColor).
			Padding(0, 1)

	// FocusedBoxStyle is a box that's currently focused.
	FocusedBoxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(Primary).
			Padding(0, 1)
)

// Text styles.
var (
	// MutedTextStyle is for de-emphasized text.
	MutedTextStyle = lipgloss.NewStyle().
			Foreground(Muted)

	// ErrorTextStyle is for error messages.
	ErrorTextStyle = lipgloss.NewStyle().
			Foreground(Error)

	// SuccessTextStyle is for success messages.
	SuccessTextStyle = lipgloss.NewStyle().
				Foreground(Success)

	// WarningTextStyle is for warning messages.
	WarningTextStyle = lipgloss.NewStyle().
				Foreground(Warning)

	// SectionTitleStyle is for section headings inside a tab.
	SectionTitleStyle = lipgloss.NewStyle().
				Foreground(Secondary).
				Bold(true)
)

// Status bar styles.
var (
	// KeyStyle is for keyboard shortcut keys.
	KeyStyle = lipgloss.NewStyle().
			Foreground(Secondary).
			Bold(true)

	// HelpStyle is for help text.
	HelpStyle = lipgloss.NewStyle().
			Foreground(Muted)
)

// Calendar styles.
var (
	// DayStyle is a day cell with no recorded activity.
	DayStyle = lipgloss.NewStyle().
			Foreground(MutedLight).
			Width(4).
			Align(lipgloss.Right)

	// ActiveDayStyle is a day cell with recorded activity.
	ActiveDayStyle = lipgloss.NewStyle().
			Foreground(Secondary).
			Width(4).
			Align(lipgloss.Right)

	// FocusDayStyle is a day cell with at least one focus session.
	FocusDayStyle = lipgloss.NewStyle().
			Foreground(Success).
			Bold(true).
			Width(4).
			Align(lipgloss.Right)

	// SelectedDayStyle is the highlighted day cell.
	SelectedDayStyle = lipgloss.NewStyle().
				Foreground(Foreground).
				Background(Primary).
				Bold(true).
				Width(4).
				Align(lipgloss.Right)
)
