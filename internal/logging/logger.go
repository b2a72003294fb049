// Package logging provides structured logging for rizeclone.
// Logs go to timestamped files under the data directory, with cleanup by
// count and age so a long-running tracker does not fill the disk.
package logging

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"
)

// EnvLevel names the environment variable that overrides the log level.
const EnvLevel = "RIZECLONE_LOG"

// FilePrefix is the prefix of every log file name.
const FilePrefix = "rizeclone_"

// Level represents log severity levels.
type Level int

const (
	// LevelDebug is for detailed debugging information.
	LevelDebug Level = iota
	// LevelInfo is for informational messages.
	LevelInfo
	// LevelWarn is for warning messages.
	LevelWarn
	// LevelError is for error messages.
	LevelError
)

// String returns the string representation of the level.
func (l Level) String() string {
	switch l {
	case LevelDebug:
		return "DEBUG"
	case LevelInfo:
		return "INFO"
	case LevelWarn:
		return "WARN"
	case LevelError:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

func (l Level) toSlogLevel() slog.Level {
	switch l {
	case LevelDebug:
		return slog.LevelDebug
	case LevelWarn:
		return slog.LevelWarn
	case LevelError:
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// ParseLevel parses a level name (debug, info, warn/warning, error),
// ignoring case.
func ParseLevel(s string) (Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug", "trace":
		return LevelDebug, nil
	case "info", "":
		return LevelInfo, nil
	case "warn", "warning":
		return LevelWarn, nil
	case "error":
		return LevelError, nil
	}
	return LevelInfo, fmt.Errorf("unknown log level %q", s)
}

// LevelFromEnv returns the level named by RIZECLONE_LOG, or fallback when
// the variable is unset or invalid.
func LevelFromEnv(fallback Level) Level {
	v := os.Getenv(EnvLevel)
	if v == "" {
		return fallback
	}
	l, err := ParseLevel(v)
	if err != nil {
		return fallback
	}
	return l
}

// Config configures the logger.
type Config struct {
	// Level is the minimum log level to output.
	Level Level
	// LogDir is the directory to write log files to.
	LogDir string
	// MaxLogFiles is the maximum number of log files to keep.
	MaxLogFiles int
	// MaxLogAge is the maximum age of log files before cleanup.
	MaxLogAge time.Duration
	// Console mirrors log output to stderr.
	Console bool
	// JSONFormat uses JSON output format for structured logs.
	JSONFormat bool
}

// DefaultConfig returns default logging configuration.
func DefaultConfig() *Config {
	return &Config{
		Level:       LevelInfo,
		LogDir:      "logs",
		MaxLogFiles: 10,
		MaxLogAge:   7 * 24 * time.Hour,
	}
}

// Logger is a structured logger for rizeclone.
type Logger struct {
	slog    *slog.Logger
	config  *Config
	level   *slog.LevelVar
	logFile *os.File
	logPath string
	mu      sync.Mutex
}

func newLevelVar(l Level) *slog.LevelVar {
	v := new(slog.LevelVar)
	v.Set(l.toSlogLevel())
	return v
}

// New creates a new logger with the given configuration.
// It creates a log file in the configured log directory.
func New(config *Config) (*Logger, error) {
	if config == nil {
		config = DefaultConfig()
	}

	logger := &Logger{config: config, level: newLevelVar(config.Level)}
	if err := os.MkdirAll(config.LogDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create log directory: %w", err)
	}
	if err := logger.open(); err != nil {
		return nil, err
	}

	go func() { _ = logger.Cleanup() }()

	return logger, nil
}

// open creates a fresh timestamped log file and points the handler at it.
// Callers must hold l.mu or own l exclusively.
func (l *Logger) open() error {
	logPath := filepath.Join(l.config.LogDir, FilePrefix+time.Now().Format("20060102_150405")+".log")
	logFile, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return fmt.Errorf("failed to create log file: %w", err)
	}

	var w io.Writer = logFile
	if l.config.Console {
		w = io.MultiWriter(logFile, os.Stderr)
	}

	l.logFile = logFile
	l.logPath = logPath
	l.slog = slog.New(newHandler(w, l.config, l.level))
	return nil
}

func newHandler(w io.Writer, config *Config, level *slog.LevelVar) slog.Handler {
	opts := &slog.HandlerOptions{Level: level}
	if config.JSONFormat {
		return slog.NewJSONHandler(w, opts)
	}
	return slog.NewTextHandler(w, opts)
}

// NewNoop creates a no-op logger that discards all output.
func NewNoop() *Logger {
	return &Logger{
		slog:   slog.New(slog.NewTextHandler(io.Discard, nil)),
		config: DefaultConfig(),
		level:  newLevelVar(LevelInfo),
	}
}

// NewWriter creates a logger that writes to w instead of a file. Commands
// fall back to it when the log file cannot be created.
func NewWriter(w io.Writer, config *Config) *Logger {
	if config == nil {
		config = DefaultConfig()
	}
	level := newLevelVar(config.Level)
	return &Logger{
		slog:   slog.New(newHandler(w, config, level)),
		config: config,
		level:  level,
	}
}

// SetLevel changes the minimum level of l and of every logger derived
// from it with With or WithContext.
func (l *Logger) SetLevel(level Level) {
	l.level.Set(level.toSlogLevel())
}

// LogPath returns the path to the current log file.
func (l *Logger) LogPath() string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.logPath
}

// Close closes the log file.
func (l *Logger) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.logFile != nil {
		return l.logFile.Close()
	}
	return nil
}

// Debug logs a debug message.
func (l *Logger) Debug(msg string, args ...any) {
	l.slog.Debug(msg, args...)
}

// Info logs an info message.
func (l *Logger) Info(msg string, args ...any) {
	l.slog.Info(msg, args...)
}

// Warn logs a warning message.
func (l *Logger) Warn(msg string, args ...any) {
	l.slog.Warn(msg, args...)
}

// Error logs an error message.
func (l *Logger) Error(msg string, args ...any) {
	l.slog.Error(msg, args...)
}

// With returns a new logger with the given attributes added.
func (l *Logger) With(args ...any) *Logger {
	return &Logger{
		slog:    l.slog.With(args...),
		config:  l.config,
		level:   l.level,
		logFile: l.logFile,
		logPath: l.logPath,
	}
}

// WithContext returns a logger carrying the focus session and app found in ctx.
func (l *Logger) WithContext(ctx context.Context) *Logger {
	newLogger := l.slog

	if id, ok := ctx.Value(ContextKeyFocusSession).(string); ok && id != "" {
		newLogger = newLogger.With("focus_session", id)
	}
	if app, ok := ctx.Value(ContextKeyApp).(string); ok && app != "" {
		newLogger = newLogger.With("app", app)
	}

	return &Logger{
		slog:    newLogger,
		config:  l.config,
		level:   l.level,
		logFile: l.logFile,
		logPath: l.logPath,
	}
}

type contextKey string

const (
	// ContextKeyFocusSession is the context key for the active focus session ID.
	ContextKeyFocusSession contextKey = "focus_session"
	// ContextKeyApp is the context key for the focused application name.
	ContextKeyApp contextKey = "app"
)

// WithFocusSession adds a focus session ID to the context.
func WithFocusSession(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, ContextKeyFocusSession, id)
}

// WithApp adds the focused application name to the context.
func WithApp(ctx context.Context, app string) context.Context {
	return context.WithValue(ctx, ContextKeyApp, app)
}

// Cleanup removes old log files based on MaxLogFiles and MaxLogAge.
// The current log file is never removed.
func (l *Logger) Cleanup() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.config.LogDir == "" {
		return nil
	}

	entries, err := os.ReadDir(l.config.LogDir)
	if err != nil {
		return fmt.Errorf("failed to read log directory: %w", err)
	}

	type logFileInfo struct {
		path    string
		modTime time.Time
	}
	var logFiles []logFileInfo

	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasPrefix(name, FilePrefix) || !strings.HasSuffix(name, ".log") {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		logFiles = append(logFiles, logFileInfo{
			path:    filepath.Join(l.config.LogDir, name),
			modTime: info.ModTime(),
		})
	}

	// Newest first
	sort.Slice(logFiles, func(i, j int) bool {
		return logFiles[i].modTime.After(logFiles[j].modTime)
	})

	now := time.Now()
	var removed int
	for i, lf := range logFiles {
		if lf.path == l.logPath {
			continue
		}
		tooMany := l.config.MaxLogFiles > 0 && i >= l.config.MaxLogFiles
		tooOld := l.config.MaxLogAge > 0 && now.Sub(lf.modTime) > l.config.MaxLogAge
		if tooMany || tooOld {
			if err := os.Remove(lf.path); err == nil {
				removed++
			}
		}
	}

	if removed > 0 {
		l.slog.Debug("cleaned up old log files", "count", removed)
	}
	return nil
}

// Rotate closes the current log file and starts a new one, so each day's
// records land in their own file. Loggers without a file ignore it.
func (l *Logger) Rotate() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.logFile == nil {
		return nil
	}
	if err := l.logFile.Close(); err != nil {
		return fmt.Errorf("failed to close log file: %w", err)
	}
	if err := l.open(); err != nil {
		return err
	}
	go func() { _ = l.Cleanup() }()
	return nil
}
