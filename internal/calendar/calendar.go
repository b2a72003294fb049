// Package calendar rolls tracked app usage and focus sessions up into
// per-day activity records.
package calendar

import (
	"sort"
	"sync"
	"time"

	"github.com/wexinc/rizeclone/internal/clock"
)

// FocusSessionSummary records one finished focus session.
type FocusSessionSummary struct {
	ID        string
	StartTime time.Time
	Duration  time.Duration
	MusicUsed bool
	Completed bool
}

// DailyActivity is everything recorded for one calendar day.
type DailyActivity struct {
	// Date is midnight of the day in the calendar's location.
	Date             time.Time
	ProcessDurations map[string]time.Duration
	FocusSessions    []FocusSessionSummary
}

// Total returns the sum of all process durations.
func (d *DailyActivity) Total() time.Duration {
	var total time.Duration
	for _, v := range d.ProcessDurations {
		total += v
	}
	return total
}

// TotalFocus returns the sum of all focus session durations.
func (d *DailyActivity) TotalFocus() time.Duration {
	var total time.Duration
	for _, s := range d.FocusSessions {
		total += s.Duration
	}
	return total
}

// Clone returns a deep copy.
func (d *DailyActivity) Clone() *DailyActivity {
	c := &DailyActivity{
		Date:             d.Date,
		ProcessDurations: make(map[string]time.Duration, len(d.ProcessDurations)),
		FocusSessions:    append([]FocusSessionSummary{}, d.FocusSessions...),
	}
	for k, v := range d.ProcessDurations {
		c.ProcessDurations[k] = v
	}
	return c
}

// AppUsage is one application's time on a given day.
type AppUsage struct {
	Name     string
	Duration time.Duration
}

// DaySummary is a compact view of one day for month listings.
type DaySummary struct {
	Date          string
	Active        time.Duration
	Focus         time.Duration
	FocusSessions int
}

// Calendar holds daily activity keyed by YYYY-MM-DD in its location. It is
// safe for concurrent use.
type Calendar struct {
	mu   sync.RWMutex
	loc  *time.Location
	days map[string]*DailyActivity
}

// New creates an empty Calendar whose days begin at midnight in loc.
// A nil loc means UTC.
func New(loc *time.Location) *Calendar {
	if loc == nil {
		loc = time.UTC
	}
	return &Calendar{loc: loc, days: make(map[string]*DailyActivity)}
}

// Location returns the calendar's time zone.
func (c *Calendar) Location() *time.Location {
	return c.loc
}

// day returns the record for t's day, creating it. Caller must hold c.mu.
func (c *Calendar) day(t time.Time) *DailyActivity {
	key := clock.DateKey(t, c.loc)
	d, ok := c.days[key]
	if !ok {
		d = &DailyActivity{
			Date:             clock.StartOfDay(t, c.loc),
			ProcessDurations: make(map[string]time.Duration),
			FocusSessions:    []FocusSessionSummary{},
		}
		c.days[key] = d
	}
	return d
}

// AddActivity credits d of usage to process name on the day containing at.
// Non-positive durations and empty names are ignored.
func (c *Calendar) AddActivity(name string, d time.Duration, at time.Time) {
	if name == "" || d <= 0 {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.day(at).ProcessDurations[name] += d
}

// AddFocusSession records s on the day it started.
func (c *Calendar) AddFocusSession(s FocusSessionSummary) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.day(s.StartTime).FocusSessions = append(c.day(s.StartTime).FocusSessions, s)
}

// ActivityForDate returns a copy of the day containing t.
func (c *Calendar) ActivityForDate(t time.Time) (*DailyActivity, bool) {
	return c.ActivityForKey(clock.DateKey(t, c.loc))
}

// ActivityForKey returns a copy of the day with the given YYYY-MM-DD key.
func (c *Calendar) ActivityForKey(key string) (*DailyActivity, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	d, ok := c.days[key]
	if !ok {
		return nil, false
	}
	return d.Clone(), true
}

// TotalFocus returns focused time on the day containing t.
func (c *Calendar) TotalFocus(t time.Time) time.Duration {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if d, ok := c.days[clock.DateKey(t, c.loc)]; ok {
		return d.TotalFocus()
	}
	return 0
}

// TopApps returns up to n applications used on the day containing t,
// by duration descending then name. n <= 0 returns all.
func (c *Calendar) TopApps(t time.Time, n int) []AppUsage {
	c.mu.RLock()
	d, ok := c.days[clock.DateKey(t, c.loc)]
	var apps []AppUsage
	if ok {
		apps = make([]AppUsage, 0, len(d.ProcessDurations))
		for name, dur := range d.ProcessDurations {
			apps = append(apps, AppUsage{Name: name, Duration: dur})
		}
	}
	c.mu.RUnlock()

	sort.Slice(apps, func(i, j int) bool {
		if apps[i].Duration != apps[j].Duration {
			return apps[i].Duration > apps[j].Duration
		}
		return apps[i].Name < apps[j].Name
	})
	if n > 0 && len(apps) > n {
		apps = apps[:n]
	}
	return apps
}

// Month returns one summary per recorded day of year/month, in date order.
func (c *Calendar) Month(year int, month time.Month) []DaySummary {
	prefix := time.Date(year, month, 1, 0, 0, 0, 0, c.loc).Format("2006-01-")

	c.mu.RLock()
	var out []DaySummary
	for key, d := range c.days {
		if len(key) != len(clock.DateLayout) || key[:len(prefix)] != prefix {
			continue
		}
		out = append(out, DaySummary{
			Date:          key,
			Active:        d.Total(),
			Focus:         d.TotalFocus(),
			FocusSessions: len(d.FocusSessions),
		})
	}
	c.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool { return out[i].Date < out[j].Date })
	return out
}

// Days returns all recorded day keys in order.
func (c *Calendar) Days() []string {
	c.mu.RLock()
	keys := make([]string, 0, len(c.days))
	for k := range c.days {
		keys = append(keys, k)
	}
	c.mu.RUnlock()
	sort.Strings(keys)
	return keys
}

// Len returns the number of recorded days.
func (c *Calendar) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.days)
}

// Merge adds everything recorded in other into c. Focus sessions already
// present (same ID) are not duplicated.
func (c *Calendar) Merge(other *Calendar) {
	if other == nil || other == c {
		return
	}
	other.mu.RLock()
	snapshot := make(map[string]*DailyActivity, len(other.days))
	for k, d := range other.days {
		snapshot[k] = d.Clone()
	}
	other.mu.RUnlock()

	c.mu.Lock()
	defer c.mu.Unlock()
	for key, od := range snapshot {
		d, ok := c.days[key]
		if !ok {
			c.days[key] = od
			continue
		}
		for name, dur := range od.ProcessDurations {
			d.ProcessDurations[name] += dur
		}
		for _, s := range od.FocusSessions {
			if s.ID != "" && hasSession(d.FocusSessions, s.ID) {
				continue
			}
			d.FocusSessions = append(d.FocusSessions, s)
		}
	}
}

// Clone returns a deep copy of the calendar.
func (c *Calendar) Clone() *Calendar {
	out := New(c.loc)
	out.Merge(c)
	return out
}

func hasSession(sessions []FocusSessionSummary, id string) bool {
	for _, s := range sessions {
		if s.ID == id {
			return true
		}
	}
	return false
}
