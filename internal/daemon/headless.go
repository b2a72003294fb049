package daemon

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/wexinc/rizeclone/internal/clock"
	"github.com/wexinc/rizeclone/internal/tracker"
)

// OutputFormat defines the output format for headless mode.
type OutputFormat string

const (
	// OutputFormatText is the default human-readable text output.
	OutputFormatText OutputFormat = "text"
	// OutputFormatJSON writes one JSON object per event.
	OutputFormatJSON OutputFormat = "json"
)

// ParseOutputFormat validates an --output flag value.
func ParseOutputFormat(s string) (OutputFormat, bool) {
	switch OutputFormat(strings.ToLower(s)) {
	case "", OutputFormatText:
		return OutputFormatText, true
	case OutputFormatJSON:
		return OutputFormatJSON, true
	}
	return "", false
}

// HeadlessConfig configures the headless runner.
type HeadlessConfig struct {
	// OutputFormat is the format for output (text or json).
	OutputFormat OutputFormat
	// Writer is the output writer.
	Writer io.Writer
	// Verbose includes per-sample events.
	Verbose bool
}

// DefaultHeadlessConfig returns a default configuration.
func DefaultHeadlessConfig() *HeadlessConfig {
	return &HeadlessConfig{
		OutputFormat: OutputFormatText,
	}
}

// HeadlessRunner prints daemon events for non-interactive use.
type HeadlessRunner struct {
	config    *HeadlessConfig
	startTime time.Time
	mu        sync.Mutex
}

// NewHeadlessRunner creates a new headless runner with the given configuration.
func NewHeadlessRunner(config *HeadlessConfig) *HeadlessRunner {
	if config == nil {
		config = DefaultHeadlessConfig()
	}
	return &HeadlessRunner{
		config:    config,
		startTime: time.Now(),
	}
}

// JSONEvent is a single event in JSON-lines output.
type JSONEvent struct {
	Timestamp   string    `json:"timestamp"`
	Type        EventType `json:"type"`
	App         string    `json:"app,omitempty"`
	Previous    string    `json:"previous,omitempty"`
	WindowTitle string    `json:"window_title,omitempty"`
	DeltaMS     int64     `json:"delta_ms,omitempty"`
	SessionID   string    `json:"session_id,omitempty"`
	FocusedSecs float64   `json:"focused_seconds,omitempty"`
	Message     string    `json:"message,omitempty"`
	Error       string    `json:"error,omitempty"`
}

// HandleEvent writes an event. Use it as Options.OnEvent.
func (h *HeadlessRunner) HandleEvent(event Event) {
	if h.config.Writer == nil {
		return
	}
	h.mu.Lock()
	defer h.mu.Unlock()

	switch h.config.OutputFormat {
	case OutputFormatJSON:
		h.handleEventJSON(event)
	default:
		h.handleEventText(event)
	}
}

func (h *HeadlessRunner) handleEventText(event Event) {
	w := h.config.Writer
	ts := event.Timestamp
	if ts.IsZero() {
		ts = time.Now()
	}
	prefix := fmt.Sprintf("[%s]", clock.FormatDuration(ts.Sub(h.startTime)))

	var message string
	switch event.Type {
	case EventStarted:
		message = fmt.Sprintf("🚀 %s Tracking started (every %s)", prefix, event.Message)
	case EventStopped:
		message = fmt.Sprintf("🛑 %s Tracking stopped", prefix)
	case EventAppSwitched:
		app := event.App
		if app == "" {
			app = "(nothing focused)"
		}
		if event.WindowTitle != "" {
			message = fmt.Sprintf("🔀 %s %s - %s", prefix, app, event.WindowTitle)
		} else {
			message = fmt.Sprintf("🔀 %s %s", prefix, app)
		}
	case EventSample:
		if h.config.Verbose && event.App != "" {
			message = fmt.Sprintf("   %s %s +%s", prefix, event.App, event.Delta.Round(time.Millisecond))
		}
	case EventFocusStarted:
		message = fmt.Sprintf("🎯 %s Focus session started: %s (%s)", prefix, event.SessionID, event.Message)
	case EventFocusPaused:
		message = fmt.Sprintf("⏸️  %s Focus session paused", prefix)
	case EventFocusResumed:
		message = fmt.Sprintf("▶️  %s Focus session resumed", prefix)
	case EventFocusCompleted:
		message = fmt.Sprintf("✅ %s Focus session completed: %s focused", prefix, clock.FormatDuration(event.Focused))
	case EventFocusEnded:
		if event.Focused > 0 {
			message = fmt.Sprintf("⏹️  %s Focus session ended: %s focused", prefix, clock.FormatDuration(event.Focused))
		} else {
			message = fmt.Sprintf("⏹️  %s Focus session ended", prefix)
		}
	case EventPlaylistUpdated:
		message = fmt.Sprintf("🎵 %s Playlist reloaded", prefix)
	case EventConfigReloaded:
		message = fmt.Sprintf("⚙️  %s Configuration reloaded", prefix)
		if event.Message != "" {
			message += " (" + event.Message + ")"
		}
	case EventSaved:
		if h.config.Verbose {
			message = fmt.Sprintf("💾 %s Activity saved", prefix)
		}
	case EventError:
		message = fmt.Sprintf("❌ %s %s: %s", prefix, event.Message, errorStr(event.Error))
	default:
		if h.config.Verbose {
			message = fmt.Sprintf("   %s %s: %s", prefix, event.Type, event.Message)
		}
	}

	if message != "" {
		fmt.Fprintln(w, message)
	}
}

func (h *HeadlessRunner) handleEventJSON(event Event) {
	if event.Type == EventSample && !h.config.Verbose {
		return
	}
	ts := event.Timestamp
	if ts.IsZero() {
		ts = time.Now()
	}
	jsonEvent := JSONEvent{
		Timestamp:   ts.Format(time.RFC3339),
		Type:        event.Type,
		App:         event.App,
		Previous:    event.Previous,
		WindowTitle: event.WindowTitle,
		DeltaMS:     event.Delta.Milliseconds(),
		SessionID:   event.SessionID,
		FocusedSecs: event.Focused.Seconds(),
		Message:     event.Message,
		Error:       errorStr(event.Error),
	}
	// Encode errors are ignored, matching fmt.Fprintln in text mode.
	_ = json.NewEncoder(h.config.Writer).Encode(jsonEvent)
}

// PrintSummary prints the apps tracked during this run.
func (h *HeadlessRunner) PrintSummary(apps []tracker.AppInfo, focused time.Duration) {
	if h.config.OutputFormat == OutputFormatJSON || h.config.Writer == nil {
		return
	}
	h.mu.Lock()
	defer h.mu.Unlock()

	w := h.config.Writer
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, strings.Repeat("─", 60))
	fmt.Fprintf(w, "Tracked for %s\n", clock.FormatDuration(time.Since(h.startTime)))
	for _, app := range apps {
		if app.Duration <= 0 {
			continue
		}
		fmt.Fprintf(w, "  %-32s %s\n", app.Name, clock.FormatDuration(app.Duration))
	}
	if focused > 0 {
		fmt.Fprintf(w, "Focus today: %s\n", clock.FormatDuration(focused))
	}
	fmt.Fprintln(w, strings.Repeat("─", 60))
}

func errorStr(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}
