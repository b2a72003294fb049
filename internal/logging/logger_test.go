package logging

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestNew(t *testing.T) {
	logDir := filepath.Join(t.TempDir(), "logs")

	logger, err := New(&Config{
		Level:       LevelDebug,
		LogDir:      logDir,
		MaxLogFiles: 5,
		MaxLogAge:   24 * time.Hour,
	})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	defer logger.Close()

	if _, err := os.Stat(logDir); os.IsNotExist(err) {
		t.Error("Log directory was not created")
	}

	logPath := logger.LogPath()
	if !strings.HasPrefix(filepath.Base(logPath), FilePrefix) {
		t.Errorf("log file %q should start with %q", logPath, FilePrefix)
	}
	if _, err := os.Stat(logPath); os.IsNotExist(err) {
		t.Error("Log file was not created")
	}
}

func TestNewNoop(t *testing.T) {
	logger := NewNoop()
	if logger == nil {
		t.Fatal("NewNoop() returned nil")
	}
	logger.Info("discarded")
	if logger.LogPath() != "" {
		t.Error("Noop logger should not have a log path")
	}
	if err := logger.Close(); err != nil {
		t.Errorf("Close() on noop logger error = %v", err)
	}
}

func TestLogLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	logger := NewWriter(&buf, &Config{Level: LevelWarn})

	logger.Debug("debug message")
	logger.Info("info message")
	logger.Warn("warn message")
	logger.Error("error message")

	out := buf.String()
	if strings.Contains(out, "debug message") || strings.Contains(out, "info message") {
		t.Error("messages below the configured level should be filtered")
	}
	if !strings.Contains(out, "warn message") || !strings.Contains(out, "error message") {
		t.Error("messages at or above the configured level should be written")
	}
}

func TestSetLevel(t *testing.T) {
	var buf bytes.Buffer
	logger := NewWriter(&buf, &Config{Level: LevelInfo})
	derived := logger.WithContext(WithApp(context.Background(), "code"))

	derived.Debug("hidden")
	logger.SetLevel(LevelDebug)
	derived.Debug("shown")

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Error("debug record written before SetLevel")
	}
	if !strings.Contains(out, "shown") {
		t.Error("derived logger should follow SetLevel")
	}

	logger.SetLevel(LevelError)
	logger.Warn("quiet")
	if strings.Contains(buf.String(), "quiet") {
		t.Error("warn record written at error level")
	}
}

func TestJSONFormat(t *testing.T) {
	var buf bytes.Buffer
	logger := NewWriter(&buf, &Config{Level: LevelInfo, JSONFormat: true})

	logger.Info("sample", "app", "firefox", "delta_ms", 1000)

	out := buf.String()
	if !strings.Contains(out, `"msg":"sample"`) {
		t.Errorf("JSON output missing msg: %s", out)
	}
	if !strings.Contains(out, `"app":"firefox"`) {
		t.Errorf("JSON output missing attribute: %s", out)
	}
}

func TestWith(t *testing.T) {
	var buf bytes.Buffer
	logger := NewWriter(&buf, nil)

	logger.With("component", "tracker").Info("tick")

	if !strings.Contains(buf.String(), "component=tracker") {
		t.Errorf("With() attribute missing: %s", buf.String())
	}
}

func TestWithContext(t *testing.T) {
	var buf bytes.Buffer
	logger := NewWriter(&buf, nil)

	ctx := WithFocusSession(context.Background(), "focus-abc")
	ctx = WithApp(ctx, "code")
	logger.WithContext(ctx).Info("focused")

	out := buf.String()
	if !strings.Contains(out, "focus_session=focus-abc") {
		t.Error("Log should contain focus_session from context")
	}
	if !strings.Contains(out, "app=code") {
		t.Error("Log should contain app from context")
	}

	buf.Reset()
	logger.WithContext(context.Background()).Info("plain")
	if strings.Contains(buf.String(), "focus_session") {
		t.Error("empty context should not add attributes")
	}
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in      string
		want    Level
		wantErr bool
	}{
		{"debug", LevelDebug, false},
		{"TRACE", LevelDebug, false},
		{"info", LevelInfo, false},
		{"", LevelInfo, false},
		{"Warning", LevelWarn, false},
		{"error", LevelError, false},
		{"loud", LevelInfo, true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseLevel(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseLevel(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ParseLevel(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestLevelFromEnv(t *testing.T) {
	t.Setenv(EnvLevel, "")
	if got := LevelFromEnv(LevelWarn); got != LevelWarn {
		t.Errorf("unset env: got %v, want fallback", got)
	}

	t.Setenv(EnvLevel, "debug")
	if got := LevelFromEnv(LevelInfo); got != LevelDebug {
		t.Errorf("RIZECLONE_LOG=debug: got %v", got)
	}

	t.Setenv(EnvLevel, "nonsense")
	if got := LevelFromEnv(LevelError); got != LevelError {
		t.Errorf("invalid env: got %v, want fallback", got)
	}
}

func TestCleanup(t *testing.T) {
	tmpDir := t.TempDir()

	old := time.Now().Add(-time.Hour)
	for i := 0; i < 8; i++ {
		name := filepath.Join(tmpDir, FilePrefix+"20240101_00000"+string(rune('0'+i))+".log")
		if err := os.WriteFile(name, []byte("test"), 0644); err != nil {
			t.Fatalf("WriteFile: %v", err)
		}
		mod := old.Add(time.Duration(i) * time.Minute)
		if err := os.Chtimes(name, mod, mod); err != nil {
			t.Fatalf("Chtimes: %v", err)
		}
	}
	// Files that do not match the prefix are left alone.
	other := filepath.Join(tmpDir, "notes.log")
	if err := os.WriteFile(other, []byte("keep"), 0644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	logger, err := New(&Config{Level: LevelInfo, LogDir: tmpDir, MaxLogFiles: 3})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	defer logger.Close()

	if err := logger.Cleanup(); err != nil {
		t.Fatalf("Cleanup() error = %v", err)
	}

	entries, err := os.ReadDir(tmpDir)
	if err != nil {
		t.Fatalf("ReadDir: %v", err)
	}
	count := 0
	for _, e := range entries {
		if strings.HasPrefix(e.Name(), FilePrefix) {
			count++
		}
	}
	// Current file plus the newest MaxLogFiles-1 old ones survive.
	if count > 3 {
		t.Errorf("expected at most 3 %s files after cleanup, got %d", FilePrefix, count)
	}
	if _, err := os.Stat(logger.LogPath()); err != nil {
		t.Error("current log file must never be removed")
	}
	if _, err := os.Stat(other); err != nil {
		t.Error("unrelated files must not be removed")
	}
}

func TestRotate(t *testing.T) {
	logger, err := New(&Config{Level: LevelInfo, LogDir: t.TempDir()})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	defer logger.Close()

	first := logger.LogPath()
	logger.Info("before rotate")

	// Log file names have second resolution.
	time.Sleep(1100 * time.Millisecond)

	if err := logger.Rotate(); err != nil {
		t.Fatalf("Rotate() error = %v", err)
	}
	second := logger.LogPath()
	if second == first {
		t.Fatal("Rotate() should create a new log file")
	}

	logger.Info("after rotate")

	content, err := os.ReadFile(second)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if !strings.Contains(string(content), "after rotate") {
		t.Error("new log file should receive messages after Rotate()")
	}
}

func TestLevelString(t *testing.T) {
	tests := map[Level]string{
		LevelDebug: "DEBUG",
		LevelInfo:  "INFO",
		LevelWarn:  "WARN",
		LevelError: "ERROR",
		Level(42):  "UNKNOWN",
	}
	for level, want := range tests {
		if got := level.String(); got != want {
			t.Errorf("Level(%d).String() = %q, want %q", level, got, want)
		}
	}
}

func TestDefaultConfig(t *testing.T) {
	config := DefaultConfig()
	if config.Level != LevelInfo {
		t.Errorf("DefaultConfig().Level = %v, want INFO", config.Level)
	}
	if config.MaxLogFiles != 10 {
		t.Errorf("DefaultConfig().MaxLogFiles = %d, want 10", config.MaxLogFiles)
	}
	if config.MaxLogAge != 7*24*time.Hour {
		t.Errorf("DefaultConfig().MaxLogAge = %v, want 7 days", config.MaxLogAge)
	}
}

func TestRotateWithoutFile(t *testing.T) {
	var buf bytes.Buffer
	logger := NewWriter(&buf, nil)
	if err := logger.Rotate(); err != nil {
		t.Fatalf("Rotate() error = %v", err)
	}
	if logger.LogPath() != "" {
		t.Error("writer logger should not gain a log file")
	}
	if err := NewNoop().Rotate(); err != nil {
		t.Errorf("noop Rotate() error = %v", err)
	}
}
