package tui

import (
	"time"

	"github.com/wexinc/rizeclone/internal/config"
	"github.com/wexinc/rizeclone/internal/daemon"
)

// TickMsg is sent every second to refresh timers.
type TickMsg struct {
	Time time.Time
}

// DaemonEventMsg carries a daemon event into the TUI.
type DaemonEventMsg struct {
	Event daemon.Event
}

// ConfigReloadedMsg is sent when the config file changed on disk.
type ConfigReloadedMsg struct {
	Config *config.Config
}

// ErrorMsg is sent when an error occurs.
type ErrorMsg struct {
	Err error
}

// QuitMsg is sent to request the TUI to quit.
type QuitMsg struct {
	Reason string
}
