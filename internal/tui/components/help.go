package components

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/wexinc/rizeclone/internal/tui/styles"
)

// HelpGroup is a titled set of key bindings.
type HelpGroup struct {
	Title    string
	Bindings []key.Binding
}

// columnWidth is the rendered width of one help column.
const columnWidth = 34

var closeHelp = key.NewBinding(key.WithKeys("esc", "?", "q"))

// HelpOverlay lists key bindings in columns. Disabled bindings are hidden.
type HelpOverlay struct {
	visible bool
	width   int
	height  int
	groups  []HelpGroup
}

// NewHelpOverlay creates a hidden overlay with no groups.
func NewHelpOverlay() *HelpOverlay {
	return &HelpOverlay{width: 2*columnWidth + 8, height: 20}
}

// SetGroups replaces the listed groups.
func (h *HelpOverlay) SetGroups(groups []HelpGroup) {
	h.groups = groups
}

// SetSize sets the space available to the overlay.
func (h *HelpOverlay) SetSize(width, height int) {
	h.width = width
	h.height = height
}

// Show makes the overlay visible.
func (h *HelpOverlay) Show() { h.visible = true }

// Hide hides the overlay.
func (h *HelpOverlay) Hide() { h.visible = false }

// Toggle flips visibility.
func (h *HelpOverlay) Toggle() { h.visible = !h.visible }

// IsVisible reports whether the overlay is shown.
func (h *HelpOverlay) IsVisible() bool { return h.visible }

// Update closes the overlay on esc, ? or q.
func (h *HelpOverlay) Update(msg tea.Msg) tea.Cmd {
	if !h.visible {
		return nil
	}
	if msg, ok := msg.(tea.KeyMsg); ok && key.Matches(msg, closeHelp) {
		h.Hide()
		return func() tea.Msg { return HelpClosedMsg{} }
	}
	return nil
}

// columns reports how many group columns fit in the current width.
func (h *HelpOverlay) columns() int {
	if h.width >= 2*columnWidth+8 {
		return 2
	}
	return 1
}

// View renders the overlay, or "" when hidden.
func (h *HelpOverlay) View() string {
	if !h.visible {
		return ""
	}

	cols := h.columns()
	stacks := make([][]string, cols)
	for i, g := range h.groups {
		if block := renderHelpGroup(g); block != "" {
			stacks[i%cols] = append(stacks[i%cols], block)
		}
	}
	rendered := make([]string, 0, cols)
	for _, s := range stacks {
		if len(s) > 0 {
			rendered = append(rendered, lipgloss.NewStyle().Width(columnWidth).Render(strings.Join(s, "\n")))
		}
	}

	title := lipgloss.NewStyle().
		Foreground(styles.Foreground).
		Background(styles.Primary).
		Bold(true).
		Padding(0, 1).
		Render("Keyboard Shortcuts")
	footer := lipgloss.NewStyle().Foreground(styles.Muted).Italic(true).Render("esc, ? or q to close")

	body := lipgloss.JoinVertical(lipgloss.Left,
		title,
		"",
		lipgloss.JoinHorizontal(lipgloss.Top, rendered...),
		footer,
	)

	return lipgloss.NewStyle().
		Border(lipgloss.DoubleBorder()).
		BorderForeground(styles.Primary).
		Padding(1, 2).
		Render(body)
}

func renderHelpGroup(g HelpGroup) string {
	keyStyle := lipgloss.NewStyle().Foreground(styles.Foreground).Bold(true).Width(7)
	descStyle := lipgloss.NewStyle().Foreground(styles.MutedLight)

	var lines []string
	for _, b := range g.Bindings {
		if !b.Enabled() {
			continue
		}
		hb := b.Help()
		lines = append(lines, " "+keyStyle.Render(hb.Key)+" "+descStyle.Render(hb.Desc))
	}
	if len(lines) == 0 {
		return ""
	}
	return styles.SectionTitleStyle.Render(g.Title) + "\n" + strings.Join(lines, "\n") + "\n"
}

// HelpClosedMsg is sent when the help overlay is closed.
type HelpClosedMsg struct{}
