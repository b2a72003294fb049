package components

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/wexinc/rizeclone/internal/tui/styles"
)

// TabBar renders a row of numbered tabs with one selected.
type TabBar struct {
	titles []string
	active int
	width  int
}

// NewTabBar creates a TabBar with the first tab selected.
func NewTabBar(titles ...string) *TabBar {
	return &TabBar{titles: titles}
}

// Active returns the selected tab index.
func (t *TabBar) Active() int {
	return t.active
}

// Len returns the number of tabs.
func (t *TabBar) Len() int {
	return len(t.titles)
}

// Select selects tab i; out-of-range indexes are ignored.
func (t *TabBar) Select(i int) bool {
	if i < 0 || i >= len(t.titles) {
		return false
	}
	t.active = i
	return true
}

// Next selects the following tab, wrapping around.
func (t *TabBar) Next() {
	if len(t.titles) > 0 {
		t.active = (t.active + 1) % len(t.titles)
	}
}

// Prev selects the preceding tab, wrapping around.
func (t *TabBar) Prev() {
	if len(t.titles) > 0 {
		t.active = (t.active - 1 + len(t.titles)) % len(t.titles)
	}
}

// SetWidth sets the bar width.
func (t *TabBar) SetWidth(width int) {
	t.width = width
}

// View renders the tab bar.
func (t *TabBar) View() string {
	parts := make([]string, 0, len(t.titles))
	for i, title := range t.titles {
		label := fmt.Sprintf("%d %s", i+1, title)
		if i == t.active {
			parts = append(parts, styles.ActiveTabStyle.Render(label))
		} else {
			parts = append(parts, styles.InactiveTabStyle.Render(label))
		}
	}

	content := strings.Join(parts, " ")
	if t.width > 0 {
		return lipgloss.NewStyle().Width(t.width).Render(content)
	}
	return content
}
