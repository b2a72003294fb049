package focus

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	rcerrors "github.com/wexinc/rizeclone/internal/errors"
)

func TestStateStore_MissingFile(t *testing.T) {
	s := NewStateStoreInDir(t.TempDir())
	session, err := s.Load()
	if err != nil || session != nil {
		t.Errorf("Load() = %v, %v; want nil, nil", session, err)
	}
}

func TestStateStore_RoundTrip(t *testing.T) {
	s := NewStateStore(filepath.Join(t.TempDir(), "data", "focus.json"))
	start := time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)

	in := &Session{
		ID:           "focus-abc",
		StartTime:    start,
		Duration:     25 * time.Minute,
		MusicEnabled: true,
		MusicPath:    "/music/a.mp3",
		State:        StatePaused,
		PausedAt:     start.Add(5 * time.Minute),
		PausedTotal:  90 * time.Second,
	}
	if err := s.Save(in); err != nil {
		t.Fatalf("Save() error: %v", err)
	}

	out, err := s.Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if out.ID != in.ID || out.Duration != in.Duration || out.State != in.State {
		t.Errorf("loaded %+v", out)
	}
	if !out.StartTime.Equal(in.StartTime) || !out.PausedAt.Equal(in.PausedAt) {
		t.Errorf("times differ: %+v", out)
	}
	if out.PausedTotal != in.PausedTotal || out.MusicPath != in.MusicPath {
		t.Errorf("loaded %+v", out)
	}
}

func TestStateStore_SubSecondDurations(t *testing.T) {
	tests := []time.Duration{
		500 * time.Millisecond,
		1500 * time.Millisecond,
		25*time.Minute + 250*time.Millisecond,
	}
	for _, d := range tests {
		t.Run(d.String(), func(t *testing.T) {
			s := NewStateStoreInDir(t.TempDir())
			if err := s.Save(&Session{ID: "focus-short", State: StateRunning, Duration: d}); err != nil {
				t.Fatal(err)
			}
			out, err := s.Load()
			if err != nil {
				t.Fatalf("Load() error: %v", err)
			}
			if out.Duration != d {
				t.Errorf("Duration = %v, want %v", out.Duration, d)
			}
		})
	}
}

func TestStateStore_LoadsWholeSeconds(t *testing.T) {
	dir := t.TempDir()
	data := `{"version":"1.0","session":{"id":"focus-old","start_time":"2024-05-01T09:00:00Z","duration_seconds":1500,"music_enabled":false,"state":"running"}}`
	os.WriteFile(filepath.Join(dir, DefaultStateFilename), []byte(data), 0644)

	out, err := NewStateStoreInDir(dir).Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if out.Duration != 25*time.Minute {
		t.Errorf("Duration = %v, want 25m", out.Duration)
	}
}

func TestStateStore_SaveNilClears(t *testing.T) {
	s := NewStateStoreInDir(t.TempDir())
	s.Save(&Session{ID: "focus-x", State: StateRunning, Duration: time.Minute})

	if err := s.Save(nil); err != nil {
		t.Fatal(err)
	}
	session, err := s.Load()
	if err != nil || session != nil {
		t.Errorf("Load() after clear = %v, %v", session, err)
	}
}

func TestStateStore_Corrupt(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, DefaultStateFilename)
	os.WriteFile(path, []byte("{not json"), 0644)

	_, err := NewStateStore(path).Load()
	if !rcerrors.Is(err, rcerrors.ErrStore) {
		t.Errorf("Load() error = %v, want store error", err)
	}
}
