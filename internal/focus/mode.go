package focus

import (
	"sync"
	"time"

	"github.com/wexinc/rizeclone/internal/clock"
	rcerrors "github.com/wexinc/rizeclone/internal/errors"
	"github.com/wexinc/rizeclone/internal/idgen"
	"github.com/wexinc/rizeclone/internal/logging"
)

// MaxDuration bounds a single session.
const MaxDuration = 24 * time.Hour

// Option configures a Mode.
type Option func(*Mode)

// WithClock sets the time source.
func WithClock(c clock.Clock) Option {
	return func(m *Mode) { m.clock = c }
}

// WithStore persists the current session after every change.
func WithStore(s *StateStore) Option {
	return func(m *Mode) { m.store = s }
}

// WithLogger sets the logger.
func WithLogger(l *logging.Logger) Option {
	return func(m *Mode) { m.logger = l }
}

// Mode owns the current focus session and the music playlist. It is safe
// for concurrent use.
type Mode struct {
	mu       sync.RWMutex
	clock    clock.Clock
	store    *StateStore
	logger   *logging.Logger
	session  *Session
	playlist []string
}

// NewMode creates a Mode with no active session.
func NewMode(opts ...Option) *Mode {
	m := &Mode{
		clock:    clock.Real{},
		logger:   logging.NewNoop(),
		playlist: []string{},
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Load restores the active session from the store, if one is configured.
func (m *Mode) Load() error {
	if m.store == nil {
		return nil
	}
	session, err := m.store.Load()
	if err != nil {
		return err
	}
	m.mu.Lock()
	m.session = session
	m.mu.Unlock()
	return nil
}

// Reload re-reads the store and returns the sessions before and after, so
// callers can react to changes made by another process.
func (m *Mode) Reload() (before, after *Session, err error) {
	if m.store == nil {
		return nil, nil, nil
	}
	session, err := m.store.Load()
	if err != nil {
		return nil, nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	before = m.session.Clone()
	m.session = session
	return before, session.Clone(), nil
}

// persist saves the current session. Caller must hold m.mu.
func (m *Mode) persist() error {
	if m.store == nil {
		return nil
	}
	return m.store.Save(m.session)
}

// StartSession begins a session of duration d. When musicEnabled is set the
// first playlist entry becomes the session's track.
func (m *Mode) StartSession(d time.Duration, musicEnabled bool) (*Session, error) {
	if d <= 0 || d > MaxDuration {
		return nil, rcerrors.InvalidFocusDuration(d)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.session != nil && m.session.State.IsActive() {
		return nil, rcerrors.SessionActive(m.session.ID)
	}

	id, err := idgen.Generate()
	if err != nil {
		return nil, err
	}

	s := &Session{
		ID:           id,
		Duration:     d,
		MusicEnabled: musicEnabled,
		State:        StateIdle,
	}
	if musicEnabled && len(m.playlist) > 0 {
		s.MusicPath = m.playlist[0]
	}
	if err := s.Transition(StateRunning, m.clock.Now()); err != nil {
		return nil, err
	}

	m.session = s
	m.logger.Info("focus session started", "session", s.ID, "duration", d.String(), "music", s.MusicPath)
	if err := m.persist(); err != nil {
		return s.Clone(), err
	}
	return s.Clone(), nil
}

// EndSession stops the active session. A session that has used up its
// duration counts as completed, even if it was paused afterwards;
// otherwise it is cancelled.
func (m *Mode) EndSession() (Summary, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.session == nil || !m.session.State.IsActive() {
		return Summary{}, rcerrors.NoActiveSession()
	}

	now := m.clock.Now()
	s := m.session
	end := now
	if expired(s, now) {
		if err := complete(s); err != nil {
			return Summary{}, err
		}
		end = s.EndedAt
	} else if err := s.Transition(StateCancelled, now); err != nil {
		return Summary{}, err
	}

	summary := s.Summary(end)
	m.session = nil
	m.logger.Info("focus session ended", "session", s.ID, "state", s.State.String(),
		"focused", summary.Duration.String())
	return summary, m.persist()
}

// Pause stops the session timer.
func (m *Mode) Pause() error {
	return m.transition(StatePaused)
}

// Resume restarts a paused session timer.
func (m *Mode) Resume() error {
	return m.transition(StateRunning)
}

func (m *Mode) transition(to State) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.session == nil || !m.session.State.IsActive() {
		return rcerrors.NoActiveSession()
	}
	if err := m.session.Transition(to, m.clock.Now()); err != nil {
		return rcerrors.Wrap(err, rcerrors.ErrFocus, "cannot change focus session state")
	}
	m.logger.Debug("focus session state changed", "session", m.session.ID, "state", to.String())
	return m.persist()
}

// Tick completes a session whose time is up and returns its summary. A
// session paused after its deadline passed also completes. It reports
// false when nothing completed.
func (m *Mode) Tick(now time.Time) (Summary, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	s := m.session
	if s == nil || !expired(s, now) {
		return Summary{}, false, nil
	}

	if err := complete(s); err != nil {
		return Summary{}, false, err
	}
	summary := s.Summary(s.EndedAt)
	m.session = nil
	m.logger.Info("focus session completed", "session", s.ID, "focused", summary.Duration.String())
	return summary, true, m.persist()
}

// expired reports whether an active session has used up its duration.
func expired(s *Session, now time.Time) bool {
	return s.State.IsActive() && s.Elapsed(now) >= s.Duration
}

// complete ends an expired session at its deadline. A paused session is
// first resumed at the moment it was paused, so no pause time is added.
func complete(s *Session) error {
	if s.State == StatePaused {
		if err := s.Transition(StateRunning, s.PausedAt); err != nil {
			return err
		}
	}
	return s.Transition(StateCompleted, s.Deadline())
}

// Remaining returns the active session's remaining time, or zero.
func (m *Mode) Remaining(now time.Time) time.Duration {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.session == nil {
		return 0
	}
	return m.session.Remaining(now)
}

// Elapsed returns the active session's focused time, or zero.
func (m *Mode) Elapsed(now time.Time) time.Duration {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.session == nil {
		return 0
	}
	return m.session.Elapsed(now)
}

// CurrentSession returns a copy of the active session.
func (m *Mode) CurrentSession() (*Session, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.session == nil {
		return nil, false
	}
	return m.session.Clone(), true
}

// IsSessionActive reports whether a session is running or paused.
func (m *Mode) IsSessionActive() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.session != nil && m.session.State.IsActive()
}

// AddMusic appends a track to the playlist.
func (m *Mode) AddMusic(path string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.playlist = append(m.playlist, path)
}

// SetPlaylist replaces the playlist.
func (m *Mode) SetPlaylist(paths []string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.playlist = append([]string{}, paths...)
}

// Playlist returns a copy of the playlist.
func (m *Mode) Playlist() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]string{}, m.playlist...)
}
