package components

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/wexinc/rizeclone/internal/tui/styles"
)

// DefaultMaxLines bounds how many lines an EventLog keeps.
const DefaultMaxLines = 500

// EventLog is a scrollable, bounded feed of daemon events with auto-follow.
type EventLog struct {
	viewport   viewport.Model
	lines      []string
	maxLines   int
	autoFollow bool
	title      string
	width      int
	height     int
	dirty      bool
}

// NewEventLog creates a new EventLog component.
func NewEventLog() *EventLog {
	vp := viewport.New(80, 10)
	return &EventLog{
		viewport:   vp,
		lines:      make([]string, 0, 64),
		maxLines:   DefaultMaxLines,
		autoFollow: true,
		title:      "Activity",
		width:      80,
		height:     10,
	}
}

// SetTitle sets the log title.
func (l *EventLog) SetTitle(title string) {
	l.title = title
}

// SetMaxLines sets the retention limit; non-positive values are ignored.
func (l *EventLog) SetMaxLines(n int) {
	if n <= 0 {
		return
	}
	l.maxLines = n
	l.trim()
}

// SetSize sets the log dimensions, including the title line and border.
func (l *EventLog) SetSize(width, height int) {
	l.width = width
	l.height = height
	l.viewport.Width = max(width-2, 1)
	l.viewport.Height = max(height-3, 1)
	l.dirty = true
}

// AutoFollow returns the current auto-follow state.
func (l *EventLog) AutoFollow() bool {
	return l.autoFollow
}

// Clear removes all lines.
func (l *EventLog) Clear() {
	l.lines = l.lines[:0]
	l.viewport.SetContent("")
	l.dirty = false
}

// AppendLine appends a line, dropping the oldest past the retention limit.
func (l *EventLog) AppendLine(line string) {
	l.lines = append(l.lines, strings.TrimRight(line, "\n"))
	l.trim()
	l.dirty = true
}

// Write implements io.Writer; each newline-separated line becomes an entry.
func (l *EventLog) Write(p []byte) (int, error) {
	for _, line := range strings.Split(strings.TrimRight(string(p), "\n"), "\n") {
		if line != "" {
			l.AppendLine(line)
		}
	}
	return len(p), nil
}

func (l *EventLog) trim() {
	if over := len(l.lines) - l.maxLines; over > 0 {
		l.lines = append(l.lines[:0], l.lines[over:]...)
		l.dirty = true
	}
}

// Lines returns a copy of the retained lines.
func (l *EventLog) Lines() []string {
	out := make([]string, len(l.lines))
	copy(out, l.lines)
	return out
}

// LineCount returns the number of lines.
func (l *EventLog) LineCount() int {
	return len(l.lines)
}

func (l *EventLog) refresh() {
	if !l.dirty {
		return
	}
	l.viewport.SetContent(strings.Join(l.lines, "\n"))
	l.dirty = false
	if l.autoFollow {
		l.viewport.GotoBottom()
	}
}

// GotoTop scrolls to the top and stops following.
func (l *EventLog) GotoTop() {
	l.refresh()
	l.viewport.GotoTop()
	l.autoFollow = false
}

// GotoBottom scrolls to the bottom and resumes following.
func (l *EventLog) GotoBottom() {
	l.refresh()
	l.viewport.GotoBottom()
	l.autoFollow = true
}

// Update handles scrolling keys.
func (l *EventLog) Update(msg tea.Msg) tea.Cmd {
	l.refresh()

	var cmd tea.Cmd
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "up", "k":
			l.autoFollow = false
			l.viewport.LineUp(1)
		case "down", "j":
			l.viewport.LineDown(1)
			if l.viewport.AtBottom() {
				l.autoFollow = true
			}
		case "pgup", "ctrl+u":
			l.autoFollow = false
			l.viewport.HalfViewUp()
		case "pgdown", "ctrl+d":
			l.viewport.HalfViewDown()
			if l.viewport.AtBottom() {
				l.autoFollow = true
			}
		case "home", "g":
			l.GotoTop()
		case "end", "G":
			l.GotoBottom()
		}
	default:
		l.viewport, cmd = l.viewport.Update(msg)
	}
	return cmd
}

// View renders the log.
func (l *EventLog) View() string {
	l.refresh()

	title := styles.SectionTitleStyle.Render(l.title)
	if !l.autoFollow {
		title += styles.MutedTextStyle.Render(fmt.Sprintf(" %.0f%%", l.viewport.ScrollPercent()*100))
	}

	body := l.viewport.View()
	if len(l.lines) == 0 {
		body = styles.MutedTextStyle.Render("Waiting for activity...")
	}

	box := lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(styles.BorderColor).
		Width(max(l.width-2, 1))

	return title + "\n" + box.Render(body)
}
