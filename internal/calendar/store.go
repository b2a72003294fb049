package calendar

import (
	"encoding/json"
	"math"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/wexinc/rizeclone/internal/clock"
	rcerrors "github.com/wexinc/rizeclone/internal/errors"
)

// DefaultStoreFilename is the activity file inside the data directory.
const DefaultStoreFilename = "activity.json"

// StoreVersion is the current activity file format version.
const StoreVersion = "1.0"

// StoreMetadata contains information about the activity file itself.
type StoreMetadata struct {
	Version   string    `json:"version"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	Timezone  string    `json:"timezone"`
}

// activityFile is the on-disk layout. Durations are seconds.
type activityFile struct {
	Metadata StoreMetadata       `json:"metadata"`
	Days     map[string]*dayJSON `json:"days"`
}

type dayJSON struct {
	Date             time.Time          `json:"date"`
	ProcessDurations map[string]float64 `json:"process_durations"`
	FocusSessions    []sessionJSON      `json:"focus_sessions"`
}

type sessionJSON struct {
	ID        string    `json:"id,omitempty"`
	StartTime time.Time `json:"start_time"`
	Duration  float64   `json:"duration"`
	MusicUsed bool      `json:"music_used"`
	Completed bool      `json:"completed"`
}

// Store reads and writes a Calendar as JSON.
type Store struct {
	path string
	loc  *time.Location

	mu       sync.Mutex
	metadata StoreMetadata
}

// NewStore creates a Store for path. Days are keyed in loc.
func NewStore(path string, loc *time.Location) *Store {
	if loc == nil {
		loc = time.UTC
	}
	now := time.Now()
	return &Store{
		path: path,
		loc:  loc,
		metadata: StoreMetadata{
			Version:   StoreVersion,
			CreatedAt: now,
			UpdatedAt: now,
			Timezone:  loc.String(),
		},
	}
}

// NewStoreInDir creates a Store for activity.json in dir.
func NewStoreInDir(dir string, loc *time.Location) *Store {
	return NewStore(filepath.Join(dir, DefaultStoreFilename), loc)
}

// Path returns the file path of the store.
func (s *Store) Path() string {
	return s.path
}

// Location returns the zone days are keyed in.
func (s *Store) Location() *time.Location {
	return s.loc
}

// Metadata returns the metadata from the last Load or Save.
func (s *Store) Metadata() StoreMetadata {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.metadata
}

// Load reads the activity file. A missing file yields an empty calendar.
func (s *Store) Load() (*Calendar, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load()
}

func (s *Store) load() (*Calendar, error) {
	cal := New(s.loc)

	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return cal, nil
		}
		return nil, rcerrors.StoreReadFailed(s.path, err)
	}

	var f activityFile
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, rcerrors.StoreReadFailed(s.path, err)
	}
	if f.Metadata.Version != "" {
		s.metadata = f.Metadata
	}

	for key, dj := range f.Days {
		if dj == nil {
			continue
		}
		d := &DailyActivity{
			Date:             dj.Date,
			ProcessDurations: make(map[string]time.Duration, len(dj.ProcessDurations)),
			FocusSessions:    make([]FocusSessionSummary, 0, len(dj.FocusSessions)),
		}
		if d.Date.IsZero() {
			if t, err := clock.ParseDateKey(key, s.loc); err == nil {
				d.Date = t
			}
		}
		for name, secs := range dj.ProcessDurations {
			d.ProcessDurations[name] = seconds(secs)
		}
		for _, sj := range dj.FocusSessions {
			d.FocusSessions = append(d.FocusSessions, FocusSessionSummary{
				ID:        sj.ID,
				StartTime: sj.StartTime,
				Duration:  seconds(sj.Duration),
				MusicUsed: sj.MusicUsed,
				Completed: sj.Completed,
			})
		}
		cal.days[key] = d
	}
	return cal, nil
}

// Save writes cal to the activity file, replacing its contents.
func (s *Store) Save(cal *Calendar) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.save(cal)
}

func (s *Store) save(cal *Calendar) error {
	s.metadata.Version = StoreVersion
	s.metadata.UpdatedAt = time.Now()
	s.metadata.Timezone = s.loc.String()

	f := activityFile{Metadata: s.metadata, Days: make(map[string]*dayJSON)}

	cal.mu.RLock()
	for key, d := range cal.days {
		dj := &dayJSON{
			Date:             d.Date,
			ProcessDurations: make(map[string]float64, len(d.ProcessDurations)),
			FocusSessions:    make([]sessionJSON, 0, len(d.FocusSessions)),
		}
		for name, dur := range d.ProcessDurations {
			dj.ProcessDurations[name] = dur.Seconds()
		}
		for _, fs := range d.FocusSessions {
			dj.FocusSessions = append(dj.FocusSessions, sessionJSON{
				ID:        fs.ID,
				StartTime: fs.StartTime,
				Duration:  fs.Duration.Seconds(),
				MusicUsed: fs.MusicUsed,
				Completed: fs.Completed,
			})
		}
		f.Days[key] = dj
	}
	cal.mu.RUnlock()

	data, err := json.MarshalIndent(f, "", "  ")
	if err != nil {
		return rcerrors.StoreWriteFailed(s.path, err)
	}
	if err := clock.WriteFileAtomic(s.path, data, 0644); err != nil {
		return rcerrors.StoreWriteFailed(s.path, err)
	}
	return nil
}

// Merge re-reads the activity file, adds pending to it and writes the
// result back. Other processes' writes since the last Load are kept.
// It returns the merged calendar.
func (s *Store) Merge(pending *Calendar) (*Calendar, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cal, err := s.load()
	if err != nil {
		return nil, err
	}
	cal.Merge(pending)
	if err := s.save(cal); err != nil {
		return nil, err
	}
	return cal, nil
}

func seconds(v float64) time.Duration {
	return time.Duration(math.Round(v * float64(time.Second)))
}
