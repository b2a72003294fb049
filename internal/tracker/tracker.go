// Package tracker samples the focused application and accumulates
// per-application usage time.
package tracker

import (
	"context"
	"encoding/json"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/wexinc/rizeclone/internal/clock"
	rcerrors "github.com/wexinc/rizeclone/internal/errors"
	"github.com/wexinc/rizeclone/internal/logging"
)

// AppInfo is the accumulated usage of one application.
type AppInfo struct {
	Name        string        `json:"name"`
	StartTime   time.Time     `json:"start_time"`
	Duration    time.Duration `json:"-"`
	WindowTitle string        `json:"window_title,omitempty"`
	IsActive    bool          `json:"is_active"`
}

type appInfoJSON struct {
	appInfoAlias
	DurationSeconds int64 `json:"duration"`
}

// appInfoAlias drops the JSON methods to avoid recursion.
type appInfoAlias AppInfo

// MarshalJSON encodes Duration as whole seconds.
func (a AppInfo) MarshalJSON() ([]byte, error) {
	return json.Marshal(appInfoJSON{
		appInfoAlias:    appInfoAlias(a),
		DurationSeconds: int64(a.Duration / time.Second),
	})
}

// UnmarshalJSON decodes Duration from whole seconds.
func (a *AppInfo) UnmarshalJSON(data []byte) error {
	var v appInfoJSON
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*a = AppInfo(v.appInfoAlias)
	a.Duration = time.Duration(v.DurationSeconds) * time.Second
	return nil
}

// Sample describes what a single Update observed and credited.
type Sample struct {
	// App is the focused application, empty when nothing is focused.
	App         string
	WindowTitle string
	// Previous is the application focused at the prior update.
	Previous string
	// Delta is the time credited to App by this update.
	Delta time.Duration
	At    time.Time
}

// Switched reports whether focus moved to a different application.
func (s Sample) Switched() bool {
	return s.App != s.Previous
}

// NameResolver maps a process ID to its executable name.
type NameResolver func(ctx context.Context, pid int32) (string, error)

// Option configures a Tracker.
type Option func(*Tracker)

// WithClock sets the time source.
func WithClock(c clock.Clock) Option {
	return func(t *Tracker) { t.clock = c }
}

// WithWindowTitles enables or disables recording window titles.
func WithWindowTitles(enabled bool) Option {
	return func(t *Tracker) { t.trackTitles = enabled }
}

// WithIgnore adds application names that are never tracked.
func WithIgnore(names ...string) Option {
	return func(t *Tracker) {
		for _, n := range names {
			t.ignore[strings.ToLower(n)] = true
		}
	}
}

// WithResolver overrides how PIDs are mapped to process names.
func WithResolver(r NameResolver) Option {
	return func(t *Tracker) { t.resolve = r }
}

// WithLogger sets the logger.
func WithLogger(l *logging.Logger) Option {
	return func(t *Tracker) { t.logger = l }
}

// Tracker accumulates focus time per application. It is safe for
// concurrent use.
type Tracker struct {
	mu          sync.RWMutex
	detector    Detector
	clock       clock.Clock
	resolve     NameResolver
	logger      *logging.Logger
	trackTitles bool
	ignore      map[string]bool

	apps       map[string]*AppInfo
	lastUpdate time.Time
	current    string
}

// New creates a Tracker that probes focus through detector.
func New(detector Detector, opts ...Option) *Tracker {
	t := &Tracker{
		detector:    detector,
		clock:       clock.Real{},
		resolve:     ProcessName,
		logger:      logging.NewNoop(),
		trackTitles: true,
		ignore:      make(map[string]bool),
		apps:        make(map[string]*AppInfo),
	}
	for _, opt := range opts {
		opt(t)
	}
	t.lastUpdate = t.clock.Now()
	return t
}

// Update probes the focused application and credits the time elapsed since
// the previous update to it. A new application is recorded with zero
// duration and starts accumulating from the next update.
func (t *Tracker) Update(ctx context.Context) (Sample, error) {
	focused, probeErr := t.probe(ctx)

	t.mu.Lock()
	defer t.mu.Unlock()

	now := t.clock.Now()
	elapsed := now.Sub(t.lastUpdate)
	if elapsed < 0 {
		elapsed = 0
	}

	sample := Sample{Previous: t.current, At: now}

	if probeErr != nil {
		for _, info := range t.apps {
			info.IsActive = false
		}
		t.current = ""
		t.lastUpdate = now
		return sample, probeErr
	}

	name := focused.Name
	if name != "" && t.ignore[strings.ToLower(name)] {
		name = ""
	}
	title := ""
	if t.trackTitles {
		title = focused.WindowTitle
	}

	for appName, info := range t.apps {
		info.IsActive = appName == name
		if info.IsActive {
			info.Duration += elapsed
			sample.Delta = elapsed
			if title != "" {
				info.WindowTitle = title
			}
		}
	}

	if name != "" {
		if _, ok := t.apps[name]; !ok {
			t.logger.Debug("tracking new app", "app", name)
			t.apps[name] = &AppInfo{
				Name:        name,
				StartTime:   now,
				WindowTitle: title,
				IsActive:    true,
			}
		}
	}

	sample.App = name
	sample.WindowTitle = title
	t.current = name
	t.lastUpdate = now
	return sample, nil
}

func (t *Tracker) probe(ctx context.Context) (Focused, error) {
	focused, err := t.detector.Focused(ctx)
	if err != nil {
		return Focused{}, rcerrors.ProbeFailed(t.detector.Name(), err)
	}
	if focused.Name == "" && focused.PID > 0 {
		name, err := t.resolve(ctx, focused.PID)
		if err != nil {
			return Focused{}, rcerrors.ProbeFailed(t.detector.Name(), err).
				WithDetails("pid", itoa(focused.PID))
		}
		focused.Name = name
	}
	return focused, nil
}

// ActiveApps returns a copy of all tracked applications keyed by name.
func (t *Tracker) ActiveApps() map[string]AppInfo {
	t.mu.RLock()
	defer t.mu.RUnlock()

	out := make(map[string]AppInfo, len(t.apps))
	for name, info := range t.apps {
		out[name] = *info
	}
	return out
}

// Sorted returns tracked applications by duration descending, then name.
func (t *Tracker) Sorted() []AppInfo {
	t.mu.RLock()
	apps := make([]AppInfo, 0, len(t.apps))
	for _, info := range t.apps {
		apps = append(apps, *info)
	}
	t.mu.RUnlock()

	sort.Slice(apps, func(i, j int) bool {
		if apps[i].Duration != apps[j].Duration {
			return apps[i].Duration > apps[j].Duration
		}
		return apps[i].Name < apps[j].Name
	})
	return apps
}

// Total returns the sum of all tracked durations.
func (t *Tracker) Total() time.Duration {
	t.mu.RLock()
	defer t.mu.RUnlock()

	var total time.Duration
	for _, info := range t.apps {
		total += info.Duration
	}
	return total
}

// Current returns the application focused at the last update.
func (t *Tracker) Current() string {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.current
}

// Reset forgets all tracked applications and restarts the elapsed clock.
func (t *Tracker) Reset() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.apps = make(map[string]*AppInfo)
	t.current = ""
	t.lastUpdate = t.clock.Now()
}

// SetIgnore replaces the ignore list.
func (t *Tracker) SetIgnore(names []string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.ignore = make(map[string]bool, len(names))
	for _, n := range names {
		t.ignore[strings.ToLower(n)] = true
	}
}

// SetWindowTitles enables or disables recording window titles. Disabling
// also forgets the titles already recorded.
func (t *Tracker) SetWindowTitles(enabled bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.trackTitles = enabled
	if enabled {
		return
	}
	for _, info := range t.apps {
		info.WindowTitle = ""
	}
}
