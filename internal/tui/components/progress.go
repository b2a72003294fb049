package components

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/wexinc/rizeclone/internal/clock"
	"github.com/wexinc/rizeclone/internal/tui/styles"
)

// ProgressData contains the data to display in the focus countdown.
type ProgressData struct {
	Elapsed time.Duration
	Total   time.Duration
	Paused  bool
	// StatusText is optional text shown after the counters.
	StatusText string
}

// Progress is a component that displays focus session progress as a bar.
type Progress struct {
	data  ProgressData
	width int
}

// NewProgress creates a new Progress component.
func NewProgress() *Progress {
	return &Progress{}
}

// SetData updates the progress data.
func (p *Progress) SetData(data ProgressData) {
	p.data = data
}

// SetProgress sets elapsed and total durations.
func (p *Progress) SetProgress(elapsed, total time.Duration) {
	p.data.Elapsed = elapsed
	p.data.Total = total
}

// SetPaused marks the session as paused.
func (p *Progress) SetPaused(paused bool) {
	p.data.Paused = paused
}

// SetStatusText sets optional status text.
func (p *Progress) SetStatusText(text string) {
	p.data.StatusText = text
}

// SetWidth sets the width for the progress bar.
func (p *Progress) SetWidth(width int) {
	p.width = width
}

// Remaining returns the time left, never negative.
func (p *Progress) Remaining() time.Duration {
	if r := p.data.Total - p.data.Elapsed; r > 0 {
		return r
	}
	return 0
}

// View renders the progress bar.
func (p *Progress) View() string {
	percent := p.PercentComplete()

	barWidth := 20
	if p.width > 60 {
		barWidth = 30
	}
	if p.width > 80 {
		barWidth = 40
	}

	filled := int(percent * float64(barWidth))
	empty := barWidth - filled

	fill := styles.ProgressFilledStyle
	if p.data.Paused {
		fill = styles.ProgressPausedStyle
	}
	bar := fill.Render(strings.Repeat("█", filled)) +
		styles.ProgressEmptyStyle.Render(strings.Repeat("░", empty))

	countStyle := lipgloss.NewStyle().
		Foreground(styles.Secondary)
	count := countStyle.Render(fmt.Sprintf("%s / %s",
		clock.FormatDuration(p.data.Elapsed), clock.FormatDuration(p.data.Total)))

	remainingStyle := lipgloss.NewStyle().
		Foreground(styles.MutedLight)
	remaining := remainingStyle.Render(clock.FormatDuration(p.Remaining()) + " left")

	sep := lipgloss.NewStyle().
		Foreground(styles.Muted).
		Render(" │ ")

	content := fmt.Sprintf("Focus: %s%s%s%s%s", bar, sep, count, sep, remaining)

	if p.data.StatusText != "" {
		statusStyle := lipgloss.NewStyle().
			Foreground(styles.MutedLight).
			Italic(true)
		content = fmt.Sprintf("%s%s%s", content, sep, statusStyle.Render(p.data.StatusText))
	}

	containerStyle := lipgloss.NewStyle().
		Padding(0, 1)

	if p.width > 0 {
		containerStyle = containerStyle.Width(p.width)
	}

	return containerStyle.Render(content)
}

// PercentComplete returns the completion percentage (0.0 - 1.0).
func (p *Progress) PercentComplete() float64 {
	if p.data.Total <= 0 {
		return 0
	}
	percent := float64(p.data.Elapsed) / float64(p.data.Total)
	if percent < 0 {
		return 0
	}
	if percent > 1 {
		return 1
	}
	return percent
}

// IsComplete returns true if the session has run its full duration.
func (p *Progress) IsComplete() bool {
	return p.data.Total > 0 && p.data.Elapsed >= p.data.Total
}
