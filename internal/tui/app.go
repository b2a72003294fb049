// Package tui provides the terminal dashboard for rizeclone.
package tui

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/wexinc/rizeclone/internal/calendar"
	"github.com/wexinc/rizeclone/internal/clock"
	"github.com/wexinc/rizeclone/internal/config"
	"github.com/wexinc/rizeclone/internal/daemon"
	"github.com/wexinc/rizeclone/internal/focus"
	"github.com/wexinc/rizeclone/internal/tracker"
	"github.com/wexinc/rizeclone/internal/tui/components"
	"github.com/wexinc/rizeclone/internal/tui/styles"
)

// Tab identifies a dashboard tab.
type Tab int

const (
	TabDashboard Tab = iota
	TabCalendar
	TabFocus
	TabSettings
)

var tabTitles = []string{"Dashboard", "Calendar", "Focus", "Settings"}

// String returns the tab title.
func (t Tab) String() string {
	if t < 0 || int(t) >= len(tabTitles) {
		return "Unknown"
	}
	return tabTitles[t]
}

// focusStep is how much +/- change the next session's length.
const focusStep = 5 * time.Minute

// Controller is the part of the daemon the dashboard drives.
type Controller interface {
	Now() time.Time
	Tracker() *tracker.Tracker
	Focus() *focus.Mode
	Calendar() *calendar.Calendar
	StartFocus(d time.Duration, music bool) (*focus.Session, error)
	EndFocus() (focus.Summary, error)
	TogglePause() error
	DefaultFocusDuration() time.Duration
}

// Model is the Bubble Tea model for the dashboard.
type Model struct {
	ctrl Controller
	cfg  *config.Config
	keys KeyMap

	// Components
	header      *components.Header
	tabs        *components.TabBar
	apps        *components.AppList
	events      *components.EventLog
	month       *components.MonthView
	progress    *components.Progress
	statusBar   *components.StatusBar
	helpOverlay *components.HelpOverlay

	// State
	startTime   time.Time
	lastSaved   time.Time
	focusLength time.Duration
	music       bool
	focusState  focus.State
	lastError   string

	// Window dimensions
	width  int
	height int

	quitting bool
}

// New creates a dashboard model over ctrl.
func New(ctrl Controller) *Model {
	now := ctrl.Now()
	keys := DefaultKeyMap()

	help := components.NewHelpOverlay()
	help.SetGroups(keys.HelpGroups())

	m := &Model{
		ctrl:        ctrl,
		keys:        keys,
		header:      components.NewHeader(),
		tabs:        components.NewTabBar(tabTitles...),
		apps:        components.NewAppList("Today"),
		events:      components.NewEventLog(),
		month:       components.NewMonthView(now, ctrl.Calendar().Location()),
		progress:    components.NewProgress(),
		statusBar:   components.NewStatusBar(),
		helpOverlay: help,
		startTime:   now,
		focusLength: ctrl.DefaultFocusDuration(),
		focusState:  focus.StateIdle,
	}
	m.refresh()
	return m
}

// SetConfig sets the configuration shown on the Settings tab.
func (m *Model) SetConfig(cfg *config.Config) {
	m.cfg = cfg
}

// SetVersion sets the version shown in the header.
func (m *Model) SetVersion(v string) {
	m.header.SetVersion(v)
}

// ActiveTab returns the selected tab.
func (m *Model) ActiveTab() Tab {
	return Tab(m.tabs.Active())
}

// Init initializes the model.
func (m *Model) Init() tea.Cmd {
	return tickCmd()
}

// tickCmd returns a command that sends a tick message every second.
func tickCmd() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg {
		return TickMsg{Time: t}
	})
}

// Update handles messages and updates the model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if m.helpOverlay.IsVisible() {
		if keyMsg, ok := msg.(tea.KeyMsg); ok {
			if keyMsg.Type == tea.KeyCtrlC {
				m.quitting = true
				return m, tea.Quit
			}
			return m, m.helpOverlay.Update(keyMsg)
		}
	}

	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKeyPress(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.resize()
		return m, nil

	case TickMsg:
		m.refresh()
		return m, tickCmd()

	case DaemonEventMsg:
		m.handleEvent(msg.Event)
		return m, nil

	case ConfigReloadedMsg:
		m.cfg = msg.Config
		return m, nil

	case ErrorMsg:
		if msg.Err != nil {
			m.lastError = msg.Err.Error()
		}
		return m, nil

	case QuitMsg:
		m.quitting = true
		return m, tea.Quit

	case components.HelpClosedMsg:
		return m, nil
	}

	return m, nil
}

// handleKeyPress handles keyboard input.
func (m *Model) handleKeyPress(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		m.quitting = true
		return m, tea.Quit
	case key.Matches(msg, m.keys.Help):
		m.helpOverlay.Toggle()
		return m, nil
	case key.Matches(msg, m.keys.NextTab):
		m.tabs.Next()
		m.refresh()
		return m, nil
	case key.Matches(msg, m.keys.PrevTab):
		m.tabs.Prev()
		m.refresh()
		return m, nil
	case key.Matches(msg, m.keys.JumpTab):
		m.tabs.Select(int(msg.Runes[0] - '1'))
		m.refresh()
		return m, nil
	case key.Matches(msg, m.keys.Focus):
		m.toggleFocus()
		return m, nil
	case key.Matches(msg, m.keys.Pause):
		if err := m.ctrl.TogglePause(); err != nil {
			m.lastError = err.Error()
		} else {
			m.lastError = ""
		}
		m.refresh()
		return m, nil
	}

	switch m.ActiveTab() {
	case TabDashboard:
		return m, m.events.Update(msg)
	case TabCalendar:
		m.handleCalendarKey(msg)
	case TabFocus:
		m.handleFocusKey(msg)
	}
	return m, nil
}

func (m *Model) handleCalendarKey(msg tea.KeyMsg) {
	switch {
	case key.Matches(msg, m.keys.PrevMon):
		m.month.PrevMonth()
	case key.Matches(msg, m.keys.NextMon):
		m.month.NextMonth()
	case key.Matches(msg, m.keys.PrevWeek):
		m.month.MoveDay(-7)
	case key.Matches(msg, m.keys.NextWeek):
		m.month.MoveDay(7)
	case key.Matches(msg, m.keys.PrevDay):
		m.month.MoveDay(-1)
	case key.Matches(msg, m.keys.NextDay):
		m.month.MoveDay(1)
	case key.Matches(msg, m.keys.Today):
		m.month.Jump(m.ctrl.Now())
	default:
		return
	}
	m.refreshMonth()
}

func (m *Model) handleFocusKey(msg tea.KeyMsg) {
	if m.ctrl.Focus().IsSessionActive() {
		return
	}
	switch {
	case key.Matches(msg, m.keys.Music):
		m.music = !m.music
	case key.Matches(msg, m.keys.Longer):
		m.focusLength = min(m.focusLength+focusStep, focus.MaxDuration)
	case key.Matches(msg, m.keys.Shorter):
		m.focusLength = max(m.focusLength-focusStep, focusStep)
	}
}

// toggleFocus starts a session with the selected length or ends the
// active one.
func (m *Model) toggleFocus() {
	var err error
	if m.ctrl.Focus().IsSessionActive() {
		_, err = m.ctrl.EndFocus()
	} else {
		_, err = m.ctrl.StartFocus(m.focusLength, m.music)
	}
	if err != nil {
		m.lastError = err.Error()
	} else {
		m.lastError = ""
	}
	m.refresh()
}

// handleEvent records a daemon event in the activity log.
func (m *Model) handleEvent(e daemon.Event) {
	ts := e.Timestamp
	if ts.IsZero() {
		ts = time.Now()
	}

	var line string
	switch e.Type {
	case daemon.EventStarted:
		line = "Tracking started"
	case daemon.EventAppSwitched:
		app := e.App
		if app == "" {
			app = "(nothing focused)"
		}
		line = "Switched to " + app
		if e.WindowTitle != "" {
			line += " - " + e.WindowTitle
		}
	case daemon.EventFocusStarted:
		line = "Focus session started (" + e.Message + ")"
	case daemon.EventFocusPaused:
		line = "Focus session paused"
	case daemon.EventFocusResumed:
		line = "Focus session resumed"
	case daemon.EventFocusCompleted:
		line = "Focus session completed: " + clock.FormatDuration(e.Focused)
	case daemon.EventFocusEnded:
		line = "Focus session ended"
		if e.Focused > 0 {
			line += ": " + clock.FormatDuration(e.Focused)
		}
	case daemon.EventPlaylistUpdated:
		line = "Playlist reloaded"
	case daemon.EventConfigReloaded:
		line = "Configuration reloaded"
		if e.Message != "" {
			line += " (" + e.Message + ")"
		}
	case daemon.EventSaved:
		m.lastSaved = ts
	case daemon.EventError:
		line = e.Message
		if e.Error != nil {
			line += ": " + e.Error.Error()
		}
		m.lastError = line
	case daemon.EventStopped:
		line = "Tracking stopped"
	}

	if line != "" {
		m.events.AppendLine(m.eventLine(ts, line))
	}
	m.refresh()
}

func (m *Model) eventLine(ts time.Time, text string) string {
	return styles.MutedTextStyle.Render(ts.Format("15:04:05")) + " " + text
}

// refresh pulls the latest state from the controller into the components.
func (m *Model) refresh() {
	now := m.ctrl.Now()
	cal := m.ctrl.Calendar()
	tr := m.ctrl.Tracker()

	current := tr.Current()
	title := ""
	if info, ok := tr.ActiveApps()[current]; ok {
		title = info.WindowTitle
	}
	m.header.SetCurrentApp(current, title)

	var today time.Duration
	if day, ok := cal.ActivityForDate(now); ok {
		today = day.Total()
	}
	m.header.SetToday(today)

	usage := cal.TopApps(now, 0)
	rows := make([]components.AppRow, 0, len(usage))
	for _, u := range usage {
		rows = append(rows, components.AppRow{Name: u.Name, Duration: u.Duration, Active: u.Name == current})
	}
	m.apps.SetRows(rows)

	m.focusState = focus.StateIdle
	var remaining time.Duration
	if s, ok := m.ctrl.Focus().CurrentSession(); ok {
		m.focusState = s.State
		remaining = s.Remaining(now)
		status := ""
		if s.MusicEnabled && s.MusicPath != "" {
			status = "♪ " + filepath.Base(s.MusicPath)
		}
		m.progress.SetData(components.ProgressData{
			Elapsed:    s.Elapsed(now),
			Total:      s.Duration,
			Paused:     s.State == focus.StatePaused,
			StatusText: status,
		})
	}

	m.statusBar.SetUptime(now.Sub(m.startTime))
	m.statusBar.SetFocus(m.focusState.String(), remaining)
	m.statusBar.SetLastSaved(m.lastSaved)
	m.statusBar.SetShortcuts(m.shortcuts())

	m.refreshMonth()
}

func (m *Model) refreshMonth() {
	year, month := m.month.Month()
	m.month.SetDays(m.ctrl.Calendar().Month(year, month))
}

func (m *Model) shortcuts() []components.ShortcutDef {
	switch m.ActiveTab() {
	case TabCalendar:
		return components.CalendarShortcuts
	case TabFocus:
		if m.focusState.IsActive() {
			return components.FocusActiveShortcuts
		}
		return components.FocusIdleShortcuts
	case TabSettings:
		return components.SettingsShortcuts
	default:
		return components.DashboardShortcuts
	}
}

func (m *Model) resize() {
	m.header.SetWidth(m.width)
	m.tabs.SetWidth(m.width)
	m.apps.SetWidth(m.width)
	m.progress.SetWidth(m.width)
	m.statusBar.SetWidth(m.width)
	m.helpOverlay.SetSize(min(m.width, 80), m.height)

	// header, tabs, divider, status bar and the app list above the log
	logHeight := m.height - 6 - min(len(m.apps.Rows())+2, 12)
	m.events.SetSize(m.width, max(logHeight, 5))
}

// View renders the model.
func (m *Model) View() string {
	if m.quitting {
		return "Goodbye!\n"
	}

	var b strings.Builder
	b.WriteString(m.header.View() + "\n")
	b.WriteString(m.tabs.View() + "\n")
	if m.width > 0 {
		b.WriteString(lipgloss.NewStyle().
			Foreground(styles.BorderColor).
			Render(strings.Repeat("─", m.width)) + "\n")
	}

	switch m.ActiveTab() {
	case TabDashboard:
		b.WriteString(m.viewDashboard())
	case TabCalendar:
		b.WriteString(m.month.View())
	case TabFocus:
		b.WriteString(m.viewFocus())
	case TabSettings:
		b.WriteString(m.viewSettings())
	}
	b.WriteString("\n")

	if m.lastError != "" {
		b.WriteString(styles.ErrorTextStyle.Render("Error: "+m.lastError) + "\n")
	}

	b.WriteString(m.statusBar.View())

	view := b.String()
	if m.helpOverlay.IsVisible() {
		view = m.renderOverlay(view, m.helpOverlay.View())
	}
	return view
}

func (m *Model) viewDashboard() string {
	out := m.apps.View() + "\n\n"
	if m.focusState.IsActive() {
		out += m.progress.View() + "\n\n"
	}
	return out + m.events.View()
}

func (m *Model) viewFocus() string {
	var b strings.Builder
	if m.focusState.IsActive() {
		b.WriteString(styles.SectionTitleStyle.Render("Focus session"))
		b.WriteString("\n")
		b.WriteString(m.progress.View())
		b.WriteString("\n")
		if m.focusState == focus.StatePaused {
			b.WriteString(styles.WarningTextStyle.Render("Paused. Press p to resume."))
		} else {
			b.WriteString(styles.SuccessTextStyle.Render("Focusing. Press f to stop."))
		}
	} else {
		music := "off"
		if m.music {
			music = "on"
		}
		b.WriteString(styles.SectionTitleStyle.Render("Next session"))
		b.WriteString("\n")
		fmt.Fprintf(&b, "  Length: %s\n", clock.FormatDuration(m.focusLength))
		fmt.Fprintf(&b, "  Music:  %s (%d tracks)\n", music, len(m.ctrl.Focus().Playlist()))
		b.WriteString(styles.MutedTextStyle.Render("  Press f to start."))
	}

	focused := m.ctrl.Calendar().TotalFocus(m.ctrl.Now())
	fmt.Fprintf(&b, "\n\nFocused today: %s", clock.FormatDuration(focused))
	return b.String()
}

func (m *Model) viewSettings() string {
	if m.cfg == nil {
		return styles.MutedTextStyle.Render("No configuration loaded")
	}
	c := m.cfg

	ignored := "none"
	if len(c.IgnoreApps) > 0 {
		ignored = strings.Join(c.IgnoreApps, ", ")
	}

	rows := [][2]string{
		{"Data directory", c.DataDir},
		{"Music directory", c.MusicDir},
		{"Default focus", c.DefaultFocusDuration.String()},
		{"Auto-start focus", fmt.Sprintf("%t", c.AutoStartFocus)},
		{"Window titles", fmt.Sprintf("%t", c.TrackWindowTitles)},
		{"Sample interval", c.SampleInterval.String()},
		{"Flush interval", c.FlushInterval.String()},
		{"Timezone", c.Timezone},
		{"Ignored apps", ignored},
		{"Log level", c.Log.Level},
	}

	label := lipgloss.NewStyle().Foreground(styles.MutedLight).Width(18)
	var b strings.Builder
	b.WriteString(styles.SectionTitleStyle.Render("Settings"))
	b.WriteString("\n")
	for _, r := range rows {
		b.WriteString("  " + label.Render(r[0]) + r[1] + "\n")
	}
	b.WriteString(styles.MutedTextStyle.Render("  Edit the config file; changes are applied automatically."))
	return b.String()
}

// renderOverlay centers an overlay on screen in place of the base view.
func (m *Model) renderOverlay(base, overlay string) string {
	if overlay == "" {
		return base
	}
	if m.width <= 0 || m.height <= 0 {
		return base + "\n" + overlay
	}
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, overlay)
}
