// Package daemon runs the sampling loop that ties the tracker, focus mode
// and calendar together.
package daemon

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/wexinc/rizeclone/internal/calendar"
	"github.com/wexinc/rizeclone/internal/clock"
	"github.com/wexinc/rizeclone/internal/config"
	"github.com/wexinc/rizeclone/internal/focus"
	"github.com/wexinc/rizeclone/internal/logging"
	"github.com/wexinc/rizeclone/internal/tracker"
	"github.com/wexinc/rizeclone/internal/watch"
)

// EventType identifies the type of daemon event.
type EventType string

const (
	EventStarted         EventType = "started"
	EventSample          EventType = "sample"
	EventAppSwitched     EventType = "app_switched"
	EventFocusStarted    EventType = "focus_started"
	EventFocusPaused     EventType = "focus_paused"
	EventFocusResumed    EventType = "focus_resumed"
	EventFocusCompleted  EventType = "focus_completed"
	EventFocusEnded      EventType = "focus_ended"
	EventPlaylistUpdated EventType = "playlist_updated"
	EventConfigReloaded  EventType = "config_reloaded"
	EventSaved           EventType = "saved"
	EventError           EventType = "error"
	EventStopped         EventType = "stopped"
)

// Event represents a daemon event for observers (TUI, headless output).
type Event struct {
	Type        EventType
	App         string
	Previous    string
	WindowTitle string
	// Delta is the time credited to App by a sample.
	Delta     time.Duration
	SessionID string
	// Focused is the focused time of a finished session.
	Focused   time.Duration
	Message   string
	Error     error
	Timestamp time.Time
}

// EventHandler is a callback for daemon events. It may be called from
// more than one goroutine, but never concurrently.
type EventHandler func(event Event)

// Options configures the daemon.
type Options struct {
	SampleInterval       time.Duration
	FlushInterval        time.Duration
	AutoStartFocus       bool
	DefaultFocusDuration time.Duration
	// MusicDir is scanned for the focus playlist and watched for changes.
	MusicDir string
	// Watch enables reloading focus state and the playlist when files
	// change on disk.
	Watch   bool
	OnEvent EventHandler
	Clock   clock.Clock
	Logger  *logging.Logger
}

// DefaultOptions returns default daemon options.
func DefaultOptions() *Options {
	return &Options{
		SampleInterval:       config.DefaultSampleInterval,
		FlushInterval:        config.DefaultFlushInterval,
		DefaultFocusDuration: config.DefaultFocusDuration,
		Watch:                true,
	}
}

// OptionsFromConfig builds options from the loaded configuration.
func OptionsFromConfig(cfg *config.Config) *Options {
	opts := DefaultOptions()
	opts.SampleInterval = cfg.SampleInterval
	opts.FlushInterval = cfg.FlushInterval
	opts.AutoStartFocus = cfg.AutoStartFocus
	opts.DefaultFocusDuration = cfg.DefaultFocusDuration
	opts.MusicDir = cfg.MusicDir
	return opts
}

// Daemon samples focus on a fixed interval, credits usage to the calendar,
// completes focus sessions and periodically flushes activity to disk.
type Daemon struct {
	tracker   *tracker.Tracker
	focus     *focus.Mode
	store     *calendar.Store
	focusPath string

	opts   *Options
	clock  clock.Clock
	logger *logging.Logger

	mu        sync.RWMutex
	view      *calendar.Calendar
	pending   *calendar.Calendar
	lastFlush time.Time
	// day is the date key of the last step, for log rotation.
	day string
	// watcher is set while Run is watching files.
	watcher      *watch.Watcher
	watchedMusic map[string]bool

	// probeErr is the last reported probe failure. Only Step touches it.
	probeErr string

	emitMu sync.Mutex
}

// New creates a daemon. focusPath is the focus state file to watch; it
// may be empty when watching is disabled.
func New(tr *tracker.Tracker, fm *focus.Mode, store *calendar.Store, focusPath string, opts *Options) *Daemon {
	if opts == nil {
		opts = DefaultOptions()
	}
	d := &Daemon{
		tracker:   tr,
		focus:     fm,
		store:     store,
		focusPath: focusPath,
		opts:      opts,
		clock:     opts.Clock,
		logger:    opts.Logger,

		watchedMusic: make(map[string]bool),
	}
	if d.clock == nil {
		d.clock = clock.Real{}
	}
	if d.logger == nil {
		d.logger = logging.NewNoop()
	}
	if d.opts.FlushInterval <= 0 {
		d.opts.FlushInterval = config.DefaultFlushInterval
	}
	if d.opts.SampleInterval <= 0 {
		d.opts.SampleInterval = config.DefaultSampleInterval
	}
	return d
}

// Tracker returns the daemon's tracker.
func (d *Daemon) Tracker() *tracker.Tracker { return d.tracker }

// Focus returns the daemon's focus mode.
func (d *Daemon) Focus() *focus.Mode { return d.focus }

// Now returns the daemon clock's current time.
func (d *Daemon) Now() time.Time { return d.clock.Now() }

// Calendar returns a copy of the activity recorded so far, including
// activity not yet flushed.
func (d *Daemon) Calendar() *calendar.Calendar {
	d.mu.RLock()
	defer d.mu.RUnlock()
	if d.view == nil {
		return calendar.New(d.store.Location())
	}
	return d.view.Clone()
}

func (d *Daemon) emit(event Event) {
	if event.Timestamp.IsZero() {
		event.Timestamp = d.clock.Now()
	}
	if event.Type == EventError && event.Error != nil {
		d.logger.Warn("daemon error", "error", event.Error, "message", event.Message)
	}
	if d.opts.OnEvent == nil {
		return
	}
	d.emitMu.Lock()
	defer d.emitMu.Unlock()
	d.opts.OnEvent(event)
}

// Start loads persisted state and the playlist. Run calls it; it is
// exported so callers can drive Step manually.
func (d *Daemon) Start() error {
	view, err := d.store.Load()
	if err != nil {
		return err
	}
	d.mu.Lock()
	d.view = view
	d.pending = calendar.New(view.Location())
	d.lastFlush = d.clock.Now()
	d.day = clock.DateKey(d.lastFlush, view.Location())
	d.mu.Unlock()

	if err := d.focus.Load(); err != nil {
		return err
	}
	d.reloadMusic()

	interval := d.sampleInterval().String()
	d.logger.Info("tracking started", "interval", interval)
	d.emit(Event{Type: EventStarted, Message: interval})

	if d.autoStartFocus() && !d.focus.IsSessionActive() {
		if _, err := d.StartFocus(d.DefaultFocusDuration(), len(d.focus.Playlist()) > 0); err != nil {
			d.emit(Event{Type: EventError, Message: "auto-start focus", Error: err})
		}
	}
	return nil
}

// Run samples until ctx is cancelled, then flushes and returns.
func (d *Daemon) Run(ctx context.Context) error {
	if err := d.Start(); err != nil {
		return err
	}

	watchCtx, stopWatch := context.WithCancel(ctx)
	defer stopWatch()
	if d.opts.Watch {
		d.startWatcher(watchCtx)
	}

	interval := d.sampleInterval()
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			d.Stop()
			return nil
		case <-ticker.C:
			d.Step(ctx)
			if next := d.sampleInterval(); next != interval {
				interval = next
				ticker.Reset(interval)
			}
		}
	}
}

// Stop flushes pending activity and emits EventStopped.
func (d *Daemon) Stop() {
	d.Flush()
	d.logger.Info("tracking stopped")
	d.emit(Event{Type: EventStopped})
}

func (d *Daemon) startWatcher(ctx context.Context) {
	w, err := watch.New(watch.WithLogger(d.logger))
	if err != nil {
		d.emit(Event{Type: EventError, Message: "file watcher unavailable", Error: err})
		return
	}
	if d.focusPath != "" {
		if err := w.File(d.focusPath, d.reloadFocus); err != nil {
			d.emit(Event{Type: EventError, Message: "cannot watch focus state", Error: err})
		}
	}
	d.mu.Lock()
	d.watcher = w
	d.mu.Unlock()
	d.watchMusic()

	go func() {
		w.Run(ctx)
		d.mu.Lock()
		d.watcher = nil
		d.mu.Unlock()
		w.Close()
	}()
}

// watchMusic adds the configured music directory to the running watcher.
func (d *Daemon) watchMusic() {
	d.mu.Lock()
	w, dir := d.watcher, d.opts.MusicDir
	if w == nil || dir == "" || d.watchedMusic[dir] {
		d.mu.Unlock()
		return
	}
	d.mu.Unlock()

	if info, err := os.Stat(dir); err != nil || !info.IsDir() {
		return
	}
	if err := w.Dir(dir, func() {
		d.reloadMusic()
		d.emit(Event{Type: EventPlaylistUpdated, Message: d.musicDir()})
	}); err != nil {
		d.emit(Event{Type: EventError, Message: "cannot watch music directory", Error: err})
		return
	}
	d.mu.Lock()
	d.watchedMusic[dir] = true
	d.mu.Unlock()
}

// Step performs one sampling tick.
func (d *Daemon) Step(ctx context.Context) {
	ctx = d.logContext(ctx)
	sample, err := d.tracker.Update(ctx)
	if err != nil {
		d.probeFailed(err)
	} else {
		if d.probeErr != "" {
			d.logger.Info("sampling recovered")
			d.probeErr = ""
		}
		if sample.Delta > 0 {
			d.addActivity(sample.App, sample.Delta, sample.At)
		}
		if sample.Switched() {
			d.logger.WithContext(logging.WithApp(ctx, sample.App)).Debug("app switched", "from", sample.Previous)
			d.emit(Event{
				Type:        EventAppSwitched,
				App:         sample.App,
				Previous:    sample.Previous,
				WindowTitle: sample.WindowTitle,
				Timestamp:   sample.At,
			})
		}
		d.emit(Event{
			Type:        EventSample,
			App:         sample.App,
			WindowTitle: sample.WindowTitle,
			Delta:       sample.Delta,
			Timestamp:   sample.At,
		})
	}

	now := d.clock.Now()
	summary, done, err := d.focus.Tick(now)
	if err != nil {
		d.emit(Event{Type: EventError, Message: "saving focus state", Error: err})
	}
	if done {
		d.logger.WithContext(ctx).Info("focus session finished", "focused", summary.Duration.String())
		d.recordSession(summary)
		d.emit(Event{Type: EventFocusCompleted, SessionID: summary.ID, Focused: summary.Duration})
	}

	d.mu.RLock()
	due := now.Sub(d.lastFlush) >= d.opts.FlushInterval
	d.mu.RUnlock()
	if due {
		d.Flush()
	}
	d.rollDay(now)
}

// probeFailed reports a failed sample once. Repeats of the same error stay
// quiet until a sample succeeds or the error changes.
func (d *Daemon) probeFailed(err error) {
	msg := err.Error()
	if msg == d.probeErr {
		d.logger.Debug("sample failed again", "error", err)
		return
	}
	d.probeErr = msg
	d.emit(Event{Type: EventError, Message: "sample failed", Error: err})
}

// logContext tags ctx with the active focus session for log records.
func (d *Daemon) logContext(ctx context.Context) context.Context {
	if s, ok := d.focus.CurrentSession(); ok {
		return logging.WithFocusSession(ctx, s.ID)
	}
	return ctx
}

// rollDay starts a new log file when the calendar day changes.
func (d *Daemon) rollDay(now time.Time) {
	key := clock.DateKey(now, d.store.Location())
	d.mu.Lock()
	changed := d.day != "" && d.day != key
	d.day = key
	d.mu.Unlock()
	if !changed {
		return
	}
	if err := d.logger.Rotate(); err != nil {
		d.emit(Event{Type: EventError, Message: "rotating log file", Error: err})
	}
	d.logger.Info("new day", "date", key)
}

func (d *Daemon) addActivity(app string, delta time.Duration, at time.Time) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.view == nil {
		return
	}
	d.view.AddActivity(app, delta, at)
	d.pending.AddActivity(app, delta, at)
}

func (d *Daemon) recordSession(s focus.Summary) {
	fs := calendar.FocusSessionSummary{
		ID:        s.ID,
		StartTime: s.StartTime,
		Duration:  s.Duration,
		MusicUsed: s.MusicUsed,
		Completed: s.Completed,
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.view == nil {
		return
	}
	d.view.AddFocusSession(fs)
	d.pending.AddFocusSession(fs)
}

// Flush merges pending activity into the activity file.
func (d *Daemon) Flush() {
	d.mu.Lock()
	if d.pending == nil {
		d.mu.Unlock()
		return
	}
	pending := d.pending
	merged, err := d.store.Merge(pending)
	if err != nil {
		d.mu.Unlock()
		d.emit(Event{Type: EventError, Message: "saving activity", Error: err})
		return
	}
	// Activity added by other processes shows up in the merged view.
	d.view = merged
	d.pending = calendar.New(merged.Location())
	d.lastFlush = d.clock.Now()
	d.mu.Unlock()

	d.logger.Debug("activity saved", "path", d.store.Path())
	d.emit(Event{Type: EventSaved, Message: d.store.Path()})
}

// StartFocus begins a focus session and reports it.
func (d *Daemon) StartFocus(duration time.Duration, music bool) (*focus.Session, error) {
	s, err := d.focus.StartSession(duration, music)
	if err != nil {
		return nil, err
	}
	d.emit(Event{Type: EventFocusStarted, SessionID: s.ID, Message: duration.String()})
	return s, nil
}

// EndFocus stops the active session and records it.
func (d *Daemon) EndFocus() (focus.Summary, error) {
	summary, err := d.focus.EndSession()
	if summary.ID == "" {
		return summary, err
	}
	d.recordSession(summary)
	typ := EventFocusEnded
	if summary.Completed {
		typ = EventFocusCompleted
	}
	d.emit(Event{Type: typ, SessionID: summary.ID, Focused: summary.Duration})
	return summary, err
}

// TogglePause pauses a running session or resumes a paused one.
func (d *Daemon) TogglePause() error {
	s, ok := d.focus.CurrentSession()
	if !ok || s.State != focus.StatePaused {
		if err := d.focus.Pause(); err != nil {
			return err
		}
		d.emit(Event{Type: EventFocusPaused, SessionID: s.ID})
		return nil
	}
	if err := d.focus.Resume(); err != nil {
		return err
	}
	d.emit(Event{Type: EventFocusResumed, SessionID: s.ID})
	return nil
}

// ApplyConfig applies a reloaded configuration to the running daemon.
// The timezone and data directory are fixed for the life of the daemon;
// changes to them are reported in the event message and take effect on
// restart.
func (d *Daemon) ApplyConfig(cfg *config.Config) {
	d.tracker.SetIgnore(cfg.IgnoreApps)
	d.tracker.SetWindowTitles(cfg.TrackWindowTitles)

	d.mu.Lock()
	d.opts.AutoStartFocus = cfg.AutoStartFocus
	d.opts.DefaultFocusDuration = cfg.DefaultFocusDuration
	if cfg.SampleInterval > 0 {
		d.opts.SampleInterval = cfg.SampleInterval
	}
	if cfg.FlushInterval > 0 {
		d.opts.FlushInterval = cfg.FlushInterval
	}
	musicChanged := cfg.MusicDir != d.opts.MusicDir
	d.opts.MusicDir = cfg.MusicDir
	d.mu.Unlock()

	if musicChanged {
		if cfg.MusicDir == "" {
			d.focus.SetPlaylist(nil)
		} else {
			d.reloadMusic()
			d.watchMusic()
		}
		d.emit(Event{Type: EventPlaylistUpdated, Message: cfg.MusicDir})
	}

	var restart []string
	if loc, err := cfg.Location(); err == nil && loc.String() != d.store.Location().String() {
		restart = append(restart, "timezone")
	}
	if filepath.Clean(cfg.DataDir) != filepath.Dir(d.store.Path()) {
		restart = append(restart, "data_dir")
	}

	var message string
	if len(restart) > 0 {
		message = "restart to apply " + strings.Join(restart, ", ")
		d.logger.Warn("configuration changes need a restart", "settings", strings.Join(restart, ","))
	}
	d.logger.Info("configuration reloaded")
	d.emit(Event{Type: EventConfigReloaded, Message: message})
}

// DefaultFocusDuration returns the configured session length.
func (d *Daemon) DefaultFocusDuration() time.Duration {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.opts.DefaultFocusDuration
}

func (d *Daemon) autoStartFocus() bool {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.opts.AutoStartFocus
}

func (d *Daemon) sampleInterval() time.Duration {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.opts.SampleInterval
}

func (d *Daemon) musicDir() string {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.opts.MusicDir
}

// reloadFocus picks up session changes made by another process.
func (d *Daemon) reloadFocus() {
	before, after, err := d.focus.Reload()
	if err != nil {
		d.emit(Event{Type: EventError, Message: "reloading focus state", Error: err})
		return
	}

	switch {
	case before == nil && after == nil:
	case before == nil:
		d.emit(Event{Type: EventFocusStarted, SessionID: after.ID, Message: after.Duration.String()})
	case after == nil:
		d.emit(Event{Type: EventFocusEnded, SessionID: before.ID})
	case before.ID != after.ID:
		d.emit(Event{Type: EventFocusEnded, SessionID: before.ID})
		d.emit(Event{Type: EventFocusStarted, SessionID: after.ID, Message: after.Duration.String()})
	case before.State != after.State && after.State == focus.StatePaused:
		d.emit(Event{Type: EventFocusPaused, SessionID: after.ID})
	case before.State != after.State && after.State == focus.StateRunning:
		d.emit(Event{Type: EventFocusResumed, SessionID: after.ID})
	}
}

func (d *Daemon) reloadMusic() {
	dir := d.musicDir()
	if dir == "" {
		return
	}
	tracks, err := focus.ScanMusic(dir)
	if err != nil {
		d.emit(Event{Type: EventError, Message: "scanning music directory", Error: err})
		return
	}
	d.focus.SetPlaylist(tracks)
	d.logger.Debug("playlist loaded", "tracks", len(tracks))
}
