package tracker

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/wexinc/rizeclone/internal/clock"
	rcerrors "github.com/wexinc/rizeclone/internal/errors"
)

// fakeDetector returns a scripted focus result.
type fakeDetector struct {
	mu      sync.Mutex
	focused Focused
	err     error
}

func (d *fakeDetector) Name() string { return "fake" }

func (d *fakeDetector) Focused(context.Context) (Focused, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.focused, d.err
}

func (d *fakeDetector) set(name, title string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.focused = Focused{Name: name, WindowTitle: title}
	d.err = nil
}

func (d *fakeDetector) fail(err error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.err = err
}

var epoch = time.Date(2024, 3, 15, 9, 0, 0, 0, time.UTC)

func newTestTracker(opts ...Option) (*Tracker, *fakeDetector, *clock.Fake) {
	det := &fakeDetector{}
	clk := clock.NewFake(epoch)
	opts = append([]Option{WithClock(clk)}, opts...)
	return New(det, opts...), det, clk
}

func TestUpdate_NewAppStartsAtZero(t *testing.T) {
	tr, det, clk := newTestTracker()
	det.set("firefox", "Docs")
	clk.Advance(5 * time.Second)

	s, err := tr.Update(context.Background())
	if err != nil {
		t.Fatalf("Update() error: %v", err)
	}
	if s.App != "firefox" || s.Delta != 0 || !s.Switched() {
		t.Errorf("unexpected sample %+v", s)
	}

	apps := tr.ActiveApps()
	info, ok := apps["firefox"]
	if !ok {
		t.Fatal("expected firefox to be tracked")
	}
	if info.Duration != 0 || !info.IsActive || !info.StartTime.Equal(clk.Now()) {
		t.Errorf("unexpected info %+v", info)
	}
	if info.WindowTitle != "Docs" {
		t.Errorf("WindowTitle = %q", info.WindowTitle)
	}
}

func TestUpdate_CreditsElapsedToFocusedApp(t *testing.T) {
	tr, det, clk := newTestTracker()
	ctx := context.Background()

	det.set("firefox", "")
	tr.Update(ctx)

	clk.Advance(3 * time.Second)
	s, err := tr.Update(ctx)
	if err != nil {
		t.Fatalf("Update() error: %v", err)
	}
	if s.Delta != 3*time.Second || s.Switched() {
		t.Errorf("unexpected sample %+v", s)
	}

	det.set("code", "main.go")
	clk.Advance(2 * time.Second)
	s, _ = tr.Update(ctx)
	if s.App != "code" || s.Previous != "firefox" || s.Delta != 0 {
		t.Errorf("unexpected switch sample %+v", s)
	}

	clk.Advance(4 * time.Second)
	tr.Update(ctx)

	apps := tr.ActiveApps()
	if apps["firefox"].Duration != 3*time.Second {
		t.Errorf("firefox = %v, want 3s", apps["firefox"].Duration)
	}
	if apps["firefox"].IsActive {
		t.Error("firefox should be inactive")
	}
	if apps["code"].Duration != 4*time.Second || !apps["code"].IsActive {
		t.Errorf("code = %+v", apps["code"])
	}
	if tr.Current() != "code" {
		t.Errorf("Current() = %q", tr.Current())
	}
}

func TestUpdate_TotalMatchesCreditedDeltas(t *testing.T) {
	tr, det, clk := newTestTracker()
	ctx := context.Background()

	script := []string{"a", "a", "b", "", "b", "a", "a", "c", "c", ""}
	var credited time.Duration
	for i, name := range script {
		det.set(name, "")
		clk.Advance(time.Duration(i+1) * time.Second)
		s, err := tr.Update(ctx)
		if err != nil {
			t.Fatalf("Update() error: %v", err)
		}
		credited += s.Delta
	}

	if got := tr.Total(); got != credited {
		t.Errorf("Total() = %v, credited %v", got, credited)
	}
}

func TestUpdate_NothingFocused(t *testing.T) {
	tr, det, clk := newTestTracker()
	ctx := context.Background()

	det.set("firefox", "")
	tr.Update(ctx)

	det.set("", "")
	clk.Advance(10 * time.Second)
	s, err := tr.Update(ctx)
	if err != nil {
		t.Fatalf("Update() error: %v", err)
	}
	if s.App != "" || s.Delta != 0 {
		t.Errorf("unexpected sample %+v", s)
	}
	if tr.ActiveApps()["firefox"].IsActive {
		t.Error("expected firefox inactive")
	}
}

func TestUpdate_IgnoredApps(t *testing.T) {
	tr, det, clk := newTestTracker(WithIgnore("Slack"))
	ctx := context.Background()

	det.set("slack", "general")
	clk.Advance(time.Second)
	s, _ := tr.Update(ctx)
	clk.Advance(time.Second)
	tr.Update(ctx)

	if s.App != "" {
		t.Errorf("expected ignored app to read as unfocused, got %q", s.App)
	}
	if _, ok := tr.ActiveApps()["slack"]; ok {
		t.Error("ignored app must never be inserted")
	}

	tr.SetIgnore(nil)
	tr.Update(ctx)
	if _, ok := tr.ActiveApps()["slack"]; !ok {
		t.Error("expected slack tracked after clearing ignore list")
	}
}

func TestUpdate_WindowTitlesDisabled(t *testing.T) {
	tr, det, _ := newTestTracker(WithWindowTitles(false))
	det.set("firefox", "secret")

	s, _ := tr.Update(context.Background())
	if s.WindowTitle != "" || tr.ActiveApps()["firefox"].WindowTitle != "" {
		t.Error("expected window title not to be recorded")
	}
}

func TestSetWindowTitles(t *testing.T) {
	tr, det, clk := newTestTracker()
	ctx := context.Background()

	det.set("firefox", "secret bank page")
	tr.Update(ctx)
	if tr.ActiveApps()["firefox"].WindowTitle != "secret bank page" {
		t.Fatal("expected title recorded while enabled")
	}

	tr.SetWindowTitles(false)
	if got := tr.ActiveApps()["firefox"].WindowTitle; got != "" {
		t.Errorf("title kept after disabling: %q", got)
	}
	clk.Advance(time.Second)
	s, _ := tr.Update(ctx)
	if s.WindowTitle != "" || tr.ActiveApps()["firefox"].WindowTitle != "" {
		t.Error("title recorded after disabling")
	}

	tr.SetWindowTitles(true)
	clk.Advance(time.Second)
	s, _ = tr.Update(ctx)
	if s.WindowTitle != "secret bank page" {
		t.Errorf("WindowTitle = %q after re-enabling", s.WindowTitle)
	}
}

func TestUpdate_ProbeError(t *testing.T) {
	tr, det, clk := newTestTracker()
	ctx := context.Background()

	det.set("firefox", "")
	tr.Update(ctx)

	det.fail(errors.New("no display"))
	clk.Advance(5 * time.Second)
	s, err := tr.Update(ctx)
	if err == nil {
		t.Fatal("expected probe error")
	}
	if !rcerrors.Is(err, rcerrors.ErrTracker) {
		t.Errorf("expected tracker error kind, got %v", err)
	}
	if s.Delta != 0 {
		t.Errorf("expected no credit on error, got %v", s.Delta)
	}
	info := tr.ActiveApps()["firefox"]
	if info.IsActive || info.Duration != 0 {
		t.Errorf("unexpected info after error %+v", info)
	}

	// The failed tick's time is not credited later either.
	det.set("firefox", "")
	clk.Advance(time.Second)
	s, _ = tr.Update(ctx)
	if s.Delta != time.Second {
		t.Errorf("Delta after recovery = %v, want 1s", s.Delta)
	}
}

func TestUpdate_ResolvesPID(t *testing.T) {
	resolver := func(_ context.Context, pid int32) (string, error) {
		if pid == 42 {
			return "vim", nil
		}
		return "", errors.New("no such process")
	}
	tr, det, _ := newTestTracker(WithResolver(resolver))
	ctx := context.Background()

	det.mu.Lock()
	det.focused = Focused{PID: 42, WindowTitle: "notes.txt"}
	det.mu.Unlock()

	s, err := tr.Update(ctx)
	if err != nil {
		t.Fatalf("Update() error: %v", err)
	}
	if s.App != "vim" {
		t.Errorf("App = %q, want vim", s.App)
	}

	det.mu.Lock()
	det.focused = Focused{PID: 7}
	det.mu.Unlock()
	if _, err := tr.Update(ctx); err == nil {
		t.Error("expected error for unresolvable PID")
	}
}

func TestUpdate_ClockGoingBackwards(t *testing.T) {
	tr, det, clk := newTestTracker()
	ctx := context.Background()

	det.set("firefox", "")
	tr.Update(ctx)
	clk.Advance(-time.Minute)
	s, _ := tr.Update(ctx)
	if s.Delta != 0 {
		t.Errorf("expected negative elapsed to be clamped, got %v", s.Delta)
	}
}

func TestSorted(t *testing.T) {
	tr, det, clk := newTestTracker()
	ctx := context.Background()

	for _, step := range []struct {
		app string
		d   time.Duration
	}{
		{"b", 0}, {"b", 5 * time.Second},
		{"a", 0}, {"a", 5 * time.Second},
		{"c", 0}, {"c", 9 * time.Second},
	} {
		det.set(step.app, "")
		clk.Advance(step.d)
		tr.Update(ctx)
	}

	sorted := tr.Sorted()
	want := []string{"c", "a", "b"}
	if len(sorted) != len(want) {
		t.Fatalf("Sorted() returned %d apps", len(sorted))
	}
	for i, name := range want {
		if sorted[i].Name != name {
			t.Errorf("Sorted()[%d] = %q, want %q", i, sorted[i].Name, name)
		}
	}
}

func TestActiveApps_ReturnsCopy(t *testing.T) {
	tr, det, _ := newTestTracker()
	det.set("firefox", "")
	tr.Update(context.Background())

	apps := tr.ActiveApps()
	info := apps["firefox"]
	info.Duration = time.Hour
	apps["firefox"] = info

	if tr.ActiveApps()["firefox"].Duration != 0 {
		t.Error("mutating the returned map must not affect the tracker")
	}
}

func TestReset(t *testing.T) {
	tr, det, _ := newTestTracker()
	det.set("firefox", "")
	tr.Update(context.Background())

	tr.Reset()
	if len(tr.ActiveApps()) != 0 || tr.Current() != "" {
		t.Error("expected empty tracker after Reset")
	}
}

func TestAppInfo_JSON(t *testing.T) {
	in := AppInfo{
		Name:      "firefox",
		StartTime: epoch,
		Duration:  90 * time.Second,
		IsActive:  true,
	}
	data, err := json.Marshal(in)
	if err != nil {
		t.Fatalf("Marshal() error: %v", err)
	}

	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		t.Fatal(err)
	}
	if raw["duration"] != float64(90) {
		t.Errorf("duration = %v, want 90 seconds", raw["duration"])
	}
	if _, ok := raw["window_title"]; ok {
		t.Error("empty window_title should be omitted")
	}

	var out AppInfo
	if err := json.Unmarshal(data, &out); err != nil {
		t.Fatalf("Unmarshal() error: %v", err)
	}
	if out.Duration != in.Duration || out.Name != in.Name || !out.StartTime.Equal(in.StartTime) {
		t.Errorf("round trip mismatch: %+v", out)
	}
}

func TestNoneDetector(t *testing.T) {
	f, err := NoneDetector{}.Focused(context.Background())
	if err != nil || !f.IsZero() {
		t.Errorf("NoneDetector = %+v, %v", f, err)
	}
}
