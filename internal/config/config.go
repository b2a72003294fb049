// Package config provides configuration data structures for rizeclone.
package config

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"
	_ "time/tzdata" // calendar day boundaries must work without a system zoneinfo

	"github.com/adrg/xdg"
)

// AppName is the directory name used under the XDG config and data homes.
const AppName = "rizeclone"

// Default values.
const (
	DefaultFocusDuration  = 25 * time.Minute
	DefaultSampleInterval = time.Second
	DefaultFlushInterval  = 30 * time.Second
	DefaultTimezone       = "Local"
	DefaultLogLevel       = "info"

	// MaxFocusDuration bounds a single focus session.
	MaxFocusDuration = 24 * time.Hour
)

// Config represents the complete rizeclone configuration.
type Config struct {
	// DataDir holds activity.json, focus.json and logs/.
	DataDir string `yaml:"data_dir" json:"data_dir"`
	// MusicDir is scanned for a focus playlist. Empty disables music.
	MusicDir string `yaml:"music_dir" json:"music_dir"`
	// DefaultFocusDuration is the length of a focus session when none is given.
	DefaultFocusDuration time.Duration `yaml:"default_focus_duration" json:"default_focus_duration"`
	// AutoStartFocus starts a focus session as soon as tracking begins.
	AutoStartFocus bool `yaml:"auto_start_focus" json:"auto_start_focus"`
	// TrackWindowTitles records the focused window's title alongside the app.
	TrackWindowTitles bool `yaml:"track_window_titles" json:"track_window_titles"`
	// SampleInterval is how often the focused window is probed.
	SampleInterval time.Duration `yaml:"sample_interval" json:"sample_interval"`
	// FlushInterval is how often accumulated activity is written to disk.
	FlushInterval time.Duration `yaml:"flush_interval" json:"flush_interval"`
	// Timezone is the IANA zone used for calendar day boundaries.
	Timezone string `yaml:"timezone" json:"timezone"`
	// IgnoreApps lists process names that are never tracked.
	IgnoreApps []string `yaml:"ignore_apps" json:"ignore_apps"`
	// Log configures the file logger.
	Log LogConfig `yaml:"log" json:"log"`
}

// LogConfig configures logging.
type LogConfig struct {
	// Level is one of debug, info, warn, error.
	Level string `yaml:"level" json:"level"`
	// JSON switches the log file to JSON lines.
	JSON bool `yaml:"json" json:"json"`
}

// DefaultDataDir returns $XDG_DATA_HOME/rizeclone.
func DefaultDataDir() string {
	if xdg.DataHome == "" {
		return filepath.Join(".", AppName)
	}
	return filepath.Join(xdg.DataHome, AppName)
}

// DefaultMusicDir returns the user's XDG music directory, if any.
func DefaultMusicDir() string {
	return xdg.UserDirs.Music
}

// DefaultPath returns $XDG_CONFIG_HOME/rizeclone/config.yaml.
func DefaultPath() string {
	if xdg.ConfigHome == "" {
		return filepath.Join(".", AppName, "config.yaml")
	}
	return filepath.Join(xdg.ConfigHome, AppName, "config.yaml")
}

// NewConfig returns a new Config with default values applied.
func NewConfig() *Config {
	return &Config{
		DataDir:              DefaultDataDir(),
		MusicDir:             DefaultMusicDir(),
		DefaultFocusDuration: DefaultFocusDuration,
		AutoStartFocus:       false,
		TrackWindowTitles:    true,
		SampleInterval:       DefaultSampleInterval,
		FlushInterval:        DefaultFlushInterval,
		Timezone:             DefaultTimezone,
		IgnoreApps:           []string{},
		Log: LogConfig{
			Level: DefaultLogLevel,
		},
	}
}

// ApplyDefaults fills in any unset fields.
func (c *Config) ApplyDefaults() {
	defaults := NewConfig()

	if c.DataDir == "" {
		c.DataDir = defaults.DataDir
	}
	if c.DefaultFocusDuration == 0 {
		c.DefaultFocusDuration = defaults.DefaultFocusDuration
	}
	if c.SampleInterval == 0 {
		c.SampleInterval = defaults.SampleInterval
	}
	if c.FlushInterval == 0 {
		c.FlushInterval = defaults.FlushInterval
	}
	if c.Timezone == "" {
		c.Timezone = defaults.Timezone
	}
	if c.Log.Level == "" {
		c.Log.Level = defaults.Log.Level
	}
	if c.IgnoreApps == nil {
		c.IgnoreApps = []string{}
	}
}

// Location resolves Timezone. "Local" and "" mean the system zone.
func (c *Config) Location() (*time.Location, error) {
	switch c.Timezone {
	case "", "Local", "local":
		return time.Local, nil
	}
	return time.LoadLocation(c.Timezone)
}

// LogsDir returns the directory for log files.
func (c *Config) LogsDir() string {
	return filepath.Join(c.DataDir, "logs")
}

// ValidationError represents a configuration validation error.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Field + ": " + e.Message
}

// ValidationErrors is a collection of validation errors.
type ValidationErrors []*ValidationError

func (e ValidationErrors) Error() string {
	if len(e) == 0 {
		return ""
	}
	if len(e) == 1 {
		return e[0].Error()
	}
	msg := "multiple validation errors:"
	for _, err := range e {
		msg += "\n  - " + err.Error()
	}
	return msg
}

// Validate validates the configuration and returns any errors.
func (c *Config) Validate() error {
	var errs ValidationErrors

	if c.DefaultFocusDuration <= 0 {
		errs = append(errs, &ValidationError{Field: "default_focus_duration", Message: "must be positive"})
	} else if c.DefaultFocusDuration > MaxFocusDuration {
		errs = append(errs, &ValidationError{
			Field:   "default_focus_duration",
			Message: fmt.Sprintf("must not exceed %s", MaxFocusDuration),
		})
	}
	if c.SampleInterval <= 0 {
		errs = append(errs, &ValidationError{Field: "sample_interval", Message: "must be positive"})
	}
	if c.FlushInterval <= 0 {
		errs = append(errs, &ValidationError{Field: "flush_interval", Message: "must be positive"})
	} else if c.SampleInterval > 0 && c.FlushInterval < c.SampleInterval {
		errs = append(errs, &ValidationError{
			Field:   "flush_interval",
			Message: "should not be shorter than sample_interval",
		})
	}
	if _, err := c.Location(); err != nil {
		errs = append(errs, &ValidationError{Field: "timezone", Message: err.Error()})
	}

	switch strings.ToLower(c.Log.Level) {
	case "", "debug", "info", "warn", "warning", "error":
		// valid
	default:
		errs = append(errs, &ValidationError{
			Field:   "log.level",
			Message: "must be 'debug', 'info', 'warn', or 'error'",
		})
	}

	for i, app := range c.IgnoreApps {
		if strings.TrimSpace(app) == "" {
			errs = append(errs, &ValidationError{
				Field:   fmt.Sprintf("ignore_apps[%d]", i),
				Message: "must not be empty",
			})
		}
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}
