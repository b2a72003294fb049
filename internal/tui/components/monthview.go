package components

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/wexinc/rizeclone/internal/calendar"
	"github.com/wexinc/rizeclone/internal/clock"
	"github.com/wexinc/rizeclone/internal/tui/styles"
)

// MonthView renders a month grid, Monday first, marking days with
// recorded activity and focus sessions.
type MonthView struct {
	year     int
	month    time.Month
	selected int
	loc      *time.Location
	days     map[string]calendar.DaySummary
}

// NewMonthView creates a MonthView showing the month containing now.
func NewMonthView(now time.Time, loc *time.Location) *MonthView {
	if loc == nil {
		loc = time.Local
	}
	now = now.In(loc)
	return &MonthView{
		year:     now.Year(),
		month:    now.Month(),
		selected: now.Day(),
		loc:      loc,
		days:     make(map[string]calendar.DaySummary),
	}
}

// Month returns the displayed year and month.
func (m *MonthView) Month() (int, time.Month) {
	return m.year, m.month
}

// SetDays replaces the per-day summaries for the displayed month.
func (m *MonthView) SetDays(days []calendar.DaySummary) {
	m.days = make(map[string]calendar.DaySummary, len(days))
	for _, d := range days {
		m.days[d.Date] = d
	}
}

// NextMonth moves to the following month.
func (m *MonthView) NextMonth() {
	m.shift(1)
}

// PrevMonth moves to the preceding month.
func (m *MonthView) PrevMonth() {
	m.shift(-1)
}

func (m *MonthView) shift(months int) {
	first := time.Date(m.year, m.month+time.Month(months), 1, 0, 0, 0, 0, m.loc)
	m.year, m.month = first.Year(), first.Month()
	m.selected = min(m.selected, m.daysInMonth())
	m.days = make(map[string]calendar.DaySummary)
}

// Jump shows the month containing t and selects its day.
func (m *MonthView) Jump(t time.Time) {
	t = t.In(m.loc)
	m.year, m.month, m.selected = t.Year(), t.Month(), t.Day()
	m.days = make(map[string]calendar.DaySummary)
}

// MoveDay moves the selection by delta days, staying inside the month.
func (m *MonthView) MoveDay(delta int) {
	m.selected = max(1, min(m.selected+delta, m.daysInMonth()))
}

// Selected returns the selected date at midnight in the view's location.
func (m *MonthView) Selected() time.Time {
	return time.Date(m.year, m.month, m.selected, 0, 0, 0, 0, m.loc)
}

// SelectedKey returns the YYYY-MM-DD key of the selected date.
func (m *MonthView) SelectedKey() string {
	return m.Selected().Format(clock.DateLayout)
}

func (m *MonthView) daysInMonth() int {
	return time.Date(m.year, m.month+1, 0, 0, 0, 0, 0, m.loc).Day()
}

// View renders the grid followed by the selected day's totals.
func (m *MonthView) View() string {
	var b strings.Builder

	first := time.Date(m.year, m.month, 1, 0, 0, 0, 0, m.loc)
	b.WriteString(styles.SectionTitleStyle.Render(fmt.Sprintf("◀ %s %d ▶", m.month, m.year)))
	b.WriteString("\n")

	header := lipgloss.NewStyle().Foreground(styles.Muted).Width(4).Align(lipgloss.Right)
	for _, wd := range []string{"Mo", "Tu", "We", "Th", "Fr", "Sa", "Su"} {
		b.WriteString(header.Render(wd))
	}
	b.WriteString("\n")

	offset := (int(first.Weekday()) + 6) % 7
	b.WriteString(strings.Repeat(" ", 4*offset))

	for day := 1; day <= m.daysInMonth(); day++ {
		key := time.Date(m.year, m.month, day, 0, 0, 0, 0, m.loc).Format(clock.DateLayout)
		b.WriteString(m.dayStyle(day, key).Render(fmt.Sprintf("%d", day)))
		if (offset+day)%7 == 0 {
			b.WriteString("\n")
		}
	}

	b.WriteString("\n\n")
	b.WriteString(m.selectedSummary())
	return b.String()
}

func (m *MonthView) dayStyle(day int, key string) lipgloss.Style {
	if day == m.selected {
		return styles.SelectedDayStyle
	}
	summary, ok := m.days[key]
	switch {
	case ok && summary.FocusSessions > 0:
		return styles.FocusDayStyle
	case ok && summary.Active > 0:
		return styles.ActiveDayStyle
	default:
		return styles.DayStyle
	}
}

func (m *MonthView) selectedSummary() string {
	key := m.SelectedKey()
	summary, ok := m.days[key]
	if !ok {
		return styles.MutedTextStyle.Render(key + ": no activity")
	}
	return fmt.Sprintf("%s: active %s, focus %s (%d sessions)",
		key,
		clock.FormatDuration(summary.Active),
		clock.FormatDuration(summary.Focus),
		summary.FocusSessions,
	)
}
