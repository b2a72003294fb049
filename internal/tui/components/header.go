// Package components provides reusable TUI components for rizeclone.
package components

import (
	"fmt"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/wexinc/rizeclone/internal/clock"
	"github.com/wexinc/rizeclone/internal/tui/styles"
)

// HeaderData contains the data to display in the header.
type HeaderData struct {
	Version     string
	CurrentApp  string
	WindowTitle string
	Today       time.Duration
}

// Header is a component that displays the focused app in a header bar.
type Header struct {
	data  HeaderData
	width int
}

// NewHeader creates a new Header component.
func NewHeader() *Header {
	return &Header{
		data: HeaderData{
			CurrentApp: "-",
		},
	}
}

// SetData updates the header data.
func (h *Header) SetData(data HeaderData) {
	h.data = data
}

// SetCurrentApp sets the focused application and its window title.
func (h *Header) SetCurrentApp(name, title string) {
	if name == "" {
		name = "-"
	}
	h.data.CurrentApp = name
	h.data.WindowTitle = title
}

// SetToday sets today's tracked time.
func (h *Header) SetToday(d time.Duration) {
	h.data.Today = d
}

// SetVersion sets the version shown next to the title.
func (h *Header) SetVersion(v string) {
	h.data.Version = v
}

// SetWidth sets the width for the header.
func (h *Header) SetWidth(width int) {
	h.width = width
}

// View renders the header.
func (h *Header) View() string {
	name := "RIZECLONE"
	if h.data.Version != "" {
		name += " " + h.data.Version
	}
	title := styles.TitleStyle.Render(name)

	sep := lipgloss.NewStyle().
		Foreground(styles.MutedLight).
		Render(" │ ")

	appLabel := styles.HeaderLabelStyle.Render("App: ")
	appValue := styles.HeaderValueStyle.Render(h.data.CurrentApp)

	todayLabel := styles.HeaderLabelStyle.Render("Today: ")
	todayValue := styles.HeaderValueStyle.Render(clock.FormatDuration(h.data.Today))

	content := fmt.Sprintf("%s%s%s%s%s%s%s",
		title, sep,
		appLabel, appValue, sep,
		todayLabel, todayValue,
	)

	if h.data.WindowTitle != "" {
		windowTitle := h.data.WindowTitle
		if len([]rune(windowTitle)) > 40 {
			windowTitle = string([]rune(windowTitle)[:37]) + "..."
		}
		content += sep + styles.HeaderLabelStyle.Render(windowTitle)
	}

	headerStyle := lipgloss.NewStyle().
		Background(styles.Primary).
		Foreground(styles.Foreground).
		Padding(0, 1)

	if h.width > 0 {
		headerStyle = headerStyle.Width(h.width)
	}

	return headerStyle.Render(content)
}
