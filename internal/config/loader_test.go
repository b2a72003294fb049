package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write config file: %v", err)
	}
	return path
}

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	withXDG(t)
	path := filepath.Join(t.TempDir(), "nonexistent", "config.yaml")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.DefaultFocusDuration != DefaultFocusDuration {
		t.Errorf("DefaultFocusDuration = %v", cfg.DefaultFocusDuration)
	}
	if cfg.DataDir != DefaultDataDir() {
		t.Errorf("DataDir = %q, want %q", cfg.DataDir, DefaultDataDir())
	}
}

func TestLoad_ValidConfig(t *testing.T) {
	path := writeConfig(t, `
data_dir: /tmp/rizeclone-test
music_dir: /tmp/music
default_focus_duration: 45m
auto_start_focus: true
track_window_titles: false
sample_interval: 2s
flush_interval: 1m
timezone: Europe/Paris
ignore_apps:
  - slack
  - zoom
log:
  level: debug
  json: true
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	if cfg.DataDir != "/tmp/rizeclone-test" {
		t.Errorf("DataDir = %q", cfg.DataDir)
	}
	if cfg.MusicDir != "/tmp/music" {
		t.Errorf("MusicDir = %q", cfg.MusicDir)
	}
	if cfg.DefaultFocusDuration != 45*time.Minute {
		t.Errorf("DefaultFocusDuration = %v", cfg.DefaultFocusDuration)
	}
	if !cfg.AutoStartFocus {
		t.Error("expected AutoStartFocus true")
	}
	if cfg.TrackWindowTitles {
		t.Error("expected TrackWindowTitles false")
	}
	if cfg.SampleInterval != 2*time.Second {
		t.Errorf("SampleInterval = %v", cfg.SampleInterval)
	}
	if cfg.FlushInterval != time.Minute {
		t.Errorf("FlushInterval = %v", cfg.FlushInterval)
	}
	if cfg.Timezone != "Europe/Paris" {
		t.Errorf("Timezone = %q", cfg.Timezone)
	}
	if len(cfg.IgnoreApps) != 2 || cfg.IgnoreApps[0] != "slack" || cfg.IgnoreApps[1] != "zoom" {
		t.Errorf("IgnoreApps = %v", cfg.IgnoreApps)
	}
	if cfg.Log.Level != "debug" || !cfg.Log.JSON {
		t.Errorf("Log = %+v", cfg.Log)
	}
}

func TestLoad_FocusDurationAsMinutes(t *testing.T) {
	path := writeConfig(t, "default_focus_duration: 50\n")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.DefaultFocusDuration != 50*time.Minute {
		t.Errorf("DefaultFocusDuration = %v, want 50m", cfg.DefaultFocusDuration)
	}
}

func TestLoad_NumericIntervalIsSeconds(t *testing.T) {
	path := writeConfig(t, "sample_interval: 3\n")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.SampleInterval != 3*time.Second {
		t.Errorf("SampleInterval = %v, want 3s", cfg.SampleInterval)
	}
}

func TestLoad_DefaultsApplied(t *testing.T) {
	path := writeConfig(t, "timezone: UTC\n")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.Timezone != "UTC" {
		t.Errorf("Timezone = %q", cfg.Timezone)
	}
	if cfg.SampleInterval != DefaultSampleInterval {
		t.Errorf("SampleInterval = %v", cfg.SampleInterval)
	}
	if !cfg.TrackWindowTitles {
		t.Error("expected TrackWindowTitles default true")
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	path := writeConfig(t, "sample_interval: 2s\nlog:\n  level: info\n")

	t.Setenv("RIZECLONE_SAMPLE_INTERVAL", "5s")
	t.Setenv("RIZECLONE_LOG_LEVEL", "warn")
	t.Setenv("RIZECLONE_DEFAULT_FOCUS_DURATION", "30")
	t.Setenv("RIZECLONE_AUTO_START_FOCUS", "true")
	t.Setenv("RIZECLONE_IGNORE_APPS", "slack,zoom")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.SampleInterval != 5*time.Second {
		t.Errorf("SampleInterval = %v, want 5s", cfg.SampleInterval)
	}
	if cfg.Log.Level != "warn" {
		t.Errorf("Log.Level = %q, want warn", cfg.Log.Level)
	}
	if cfg.DefaultFocusDuration != 30*time.Minute {
		t.Errorf("DefaultFocusDuration = %v, want 30m", cfg.DefaultFocusDuration)
	}
	if !cfg.AutoStartFocus {
		t.Error("expected AutoStartFocus from env")
	}
	if len(cfg.IgnoreApps) != 2 {
		t.Errorf("IgnoreApps = %v", cfg.IgnoreApps)
	}
}

func TestLoad_ValidationError(t *testing.T) {
	path := writeConfig(t, "sample_interval: -1s\n")

	_, err := Load(path)
	if err == nil {
		t.Fatal("expected validation error")
	}
	var loadErr *LoadError
	if !errors.As(err, &loadErr) {
		t.Fatalf("expected *LoadError, got %T", err)
	}
	if loadErr.Message != "configuration validation failed" {
		t.Errorf("Message = %q", loadErr.Message)
	}
	var verrs ValidationErrors
	if !errors.As(err, &verrs) {
		t.Errorf("expected wrapped ValidationErrors, got %v", loadErr.Err)
	}
}

func TestLoad_InvalidYAML(t *testing.T) {
	path := writeConfig(t, "log: [unclosed\n")

	_, err := Load(path)
	var loadErr *LoadError
	if !errors.As(err, &loadErr) {
		t.Fatalf("expected *LoadError, got %T (%v)", err, err)
	}
	if loadErr.Message != "failed to read config file" {
		t.Errorf("Message = %q", loadErr.Message)
	}
}

func TestLoad_InvalidDuration(t *testing.T) {
	path := writeConfig(t, "sample_interval: soon\n")

	_, err := Load(path)
	var loadErr *LoadError
	if !errors.As(err, &loadErr) {
		t.Fatalf("expected *LoadError, got %T (%v)", err, err)
	}
	if loadErr.Message != "failed to parse config file" {
		t.Errorf("Message = %q", loadErr.Message)
	}
}

func TestLoad_ExpandsHome(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	path := writeConfig(t, "data_dir: ~/tracking\n")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.DataDir != filepath.Join(home, "tracking") {
		t.Errorf("DataDir = %q", cfg.DataDir)
	}
}

func TestLoadError_Error(t *testing.T) {
	withCause := &LoadError{Path: "/a.yaml", Message: "bad", Err: errors.New("boom")}
	if got := withCause.Error(); got != "/a.yaml: bad: boom" {
		t.Errorf("Error() = %q", got)
	}
	plain := &LoadError{Path: "/a.yaml", Message: "bad"}
	if got := plain.Error(); got != "/a.yaml: bad" {
		t.Errorf("Error() = %q", got)
	}
}

func TestLoadError_Unwrap(t *testing.T) {
	cause := errors.New("cause")
	err := &LoadError{Err: cause}
	if !errors.Is(err, cause) {
		t.Error("expected Unwrap to expose cause")
	}
}

func TestSave_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "dir", "config.yaml")

	cfg := NewConfig()
	cfg.DataDir = "/var/lib/rizeclone"
	cfg.DefaultFocusDuration = 90 * time.Minute
	cfg.SampleInterval = 1500 * time.Millisecond
	cfg.Timezone = "UTC"
	cfg.IgnoreApps = []string{"slack"}
	cfg.Log.JSON = true

	if err := Save(cfg, path); err != nil {
		t.Fatalf("Save() error: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to read saved config: %v", err)
	}
	if !strings.Contains(string(data), "default_focus_duration: 1h30m0s") {
		t.Errorf("expected human-readable duration, got:\n%s", data)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if loaded.DataDir != cfg.DataDir {
		t.Errorf("DataDir = %q", loaded.DataDir)
	}
	if loaded.DefaultFocusDuration != cfg.DefaultFocusDuration {
		t.Errorf("DefaultFocusDuration = %v", loaded.DefaultFocusDuration)
	}
	if loaded.SampleInterval != cfg.SampleInterval {
		t.Errorf("SampleInterval = %v", loaded.SampleInterval)
	}
	if len(loaded.IgnoreApps) != 1 || loaded.IgnoreApps[0] != "slack" {
		t.Errorf("IgnoreApps = %v", loaded.IgnoreApps)
	}
	if !loaded.Log.JSON {
		t.Error("expected Log.JSON true")
	}
}

func TestLoader_WatchBeforeLoad(t *testing.T) {
	if err := NewLoader().Watch(func(*Config, error) {}); err == nil {
		t.Error("expected error when watching before load")
	}
}

func TestLoader_Watch(t *testing.T) {
	path := writeConfig(t, "sample_interval: 2s\n")

	loader := NewLoader()
	if _, err := loader.LoadConfig(path); err != nil {
		t.Fatalf("LoadConfig() error: %v", err)
	}

	var mu sync.Mutex
	var latest *Config
	changed := make(chan struct{}, 8)
	err := loader.Watch(func(cfg *Config, err error) {
		if err != nil {
			return
		}
		mu.Lock()
		latest = cfg
		mu.Unlock()
		changed <- struct{}{}
	})
	if err != nil {
		t.Fatalf("Watch() error: %v", err)
	}

	if err := os.WriteFile(path, []byte("sample_interval: 4s\n"), 0644); err != nil {
		t.Fatalf("failed to rewrite config: %v", err)
	}

	deadline := time.After(5 * time.Second)
	for {
		select {
		case <-changed:
			mu.Lock()
			got := latest.SampleInterval
			mu.Unlock()
			if got == 4*time.Second {
				return
			}
		case <-deadline:
			t.Fatal("timed out waiting for config reload")
		}
	}
}
