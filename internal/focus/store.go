package focus

import (
	"encoding/json"
	"os"
	"path/filepath"
	"time"

	"github.com/wexinc/rizeclone/internal/clock"
	rcerrors "github.com/wexinc/rizeclone/internal/errors"
)

// DefaultStateFilename is the focus state file inside the data directory.
const DefaultStateFilename = "focus.json"

const stateVersion = "1.0"

// stateFile is the on-disk layout of focus.json.
type stateFile struct {
	Version   string       `json:"version"`
	UpdatedAt time.Time    `json:"updated_at"`
	Session   *sessionJSON `json:"session"`
}

type sessionJSON struct {
	ID                 string    `json:"id"`
	StartTime          time.Time `json:"start_time"`
	DurationSeconds    float64   `json:"duration_seconds"`
	MusicEnabled       bool      `json:"music_enabled"`
	MusicPath          string    `json:"music_path,omitempty"`
	State              State     `json:"state"`
	PausedAt           time.Time `json:"paused_at,omitempty"`
	PausedTotalSeconds float64   `json:"paused_total_seconds,omitempty"`
}

// StateStore persists the active session so separate rizeclone processes
// (the tracker and one-shot CLI commands) agree on it.
type StateStore struct {
	path string
}

// NewStateStore creates a store for path.
func NewStateStore(path string) *StateStore {
	return &StateStore{path: path}
}

// NewStateStoreInDir creates a store for focus.json in dir.
func NewStateStoreInDir(dir string) *StateStore {
	return NewStateStore(filepath.Join(dir, DefaultStateFilename))
}

// Path returns the file path of the store.
func (s *StateStore) Path() string {
	return s.path
}

// Load returns the persisted active session, or nil if there is none.
func (s *StateStore) Load() (*Session, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, rcerrors.StoreReadFailed(s.path, err)
	}

	var f stateFile
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, rcerrors.StoreReadFailed(s.path, err)
	}
	if f.Session == nil || !f.Session.State.IsActive() {
		return nil, nil
	}

	js := f.Session
	return &Session{
		ID:           js.ID,
		StartTime:    js.StartTime,
		Duration:     time.Duration(js.DurationSeconds * float64(time.Second)),
		MusicEnabled: js.MusicEnabled,
		MusicPath:    js.MusicPath,
		State:        js.State,
		PausedAt:     js.PausedAt,
		PausedTotal:  time.Duration(js.PausedTotalSeconds * float64(time.Second)),
	}, nil
}

// Save writes session, or clears the file's session when it is nil or
// no longer active.
func (s *StateStore) Save(session *Session) error {
	f := stateFile{Version: stateVersion, UpdatedAt: time.Now()}
	if session != nil && session.State.IsActive() {
		f.Session = &sessionJSON{
			ID:                 session.ID,
			StartTime:          session.StartTime,
			DurationSeconds:    session.Duration.Seconds(),
			MusicEnabled:       session.MusicEnabled,
			MusicPath:          session.MusicPath,
			State:              session.State,
			PausedAt:           session.PausedAt,
			PausedTotalSeconds: session.PausedTotal.Seconds(),
		}
	}

	data, err := json.MarshalIndent(f, "", "  ")
	if err != nil {
		return rcerrors.StoreWriteFailed(s.path, err)
	}
	if err := clock.WriteFileAtomic(s.path, data, 0644); err != nil {
		return rcerrors.StoreWriteFailed(s.path, err)
	}
	return nil
}
