package components

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/wexinc/rizeclone/internal/clock"
	"github.com/wexinc/rizeclone/internal/tui/styles"
)

// AppRow is one application line in an AppList.
type AppRow struct {
	Name     string
	Duration time.Duration
	Active   bool
}

// AppList renders applications with usage bars scaled to the busiest one.
type AppList struct {
	title string
	rows  []AppRow
	limit int
	width int
}

// NewAppList creates an AppList with the given title.
func NewAppList(title string) *AppList {
	return &AppList{title: title, limit: 10}
}

// SetRows replaces the rows. Rows are expected in display order.
func (a *AppList) SetRows(rows []AppRow) {
	a.rows = rows
}

// SetLimit sets how many rows are shown; zero or less shows all.
func (a *AppList) SetLimit(n int) {
	a.limit = n
}

// SetWidth sets the available width.
func (a *AppList) SetWidth(width int) {
	a.width = width
}

// Rows returns the rows that will be rendered.
func (a *AppList) Rows() []AppRow {
	if a.limit > 0 && len(a.rows) > a.limit {
		return a.rows[:a.limit]
	}
	return a.rows
}

// View renders the list.
func (a *AppList) View() string {
	var b strings.Builder
	b.WriteString(styles.SectionTitleStyle.Render(a.title))
	b.WriteString("\n")

	rows := a.Rows()
	if len(rows) == 0 {
		b.WriteString(styles.MutedTextStyle.Render("  No activity recorded"))
		return b.String()
	}

	var longest time.Duration
	nameWidth := 4
	for _, r := range rows {
		longest = max(longest, r.Duration)
		nameWidth = max(nameWidth, len([]rune(r.Name)))
	}
	nameWidth = min(nameWidth, 24)

	barWidth := 20
	if a.width > 0 {
		barWidth = max(a.width-nameWidth-16, 5)
		barWidth = min(barWidth, 40)
	}

	nameStyle := lipgloss.NewStyle().Width(nameWidth)
	for _, r := range rows {
		marker := "  "
		if r.Active {
			marker = styles.StateRunning + " "
		}

		name := r.Name
		if len([]rune(name)) > nameWidth {
			name = string([]rune(name)[:nameWidth-1]) + "…"
		}

		filled := 0
		if longest > 0 {
			filled = int(float64(barWidth) * float64(r.Duration) / float64(longest))
		}
		bar := styles.UsageBarStyle.Render(strings.Repeat("█", filled)) +
			styles.ProgressEmptyStyle.Render(strings.Repeat("░", barWidth-filled))

		fmt.Fprintf(&b, "%s%s %s %s\n", marker, nameStyle.Render(name), bar, clock.FormatDuration(r.Duration))
	}

	return strings.TrimRight(b.String(), "\n")
}
