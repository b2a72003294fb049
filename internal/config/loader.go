// Package config provides configuration loading and management for rizeclone.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/go-viper/mapstructure/v2"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// EnvPrefix is the prefix for environment variable overrides,
// e.g. RIZECLONE_SAMPLE_INTERVAL=2s or RIZECLONE_LOG_LEVEL=debug.
const EnvPrefix = "RIZECLONE"

// Loader handles loading configuration from files and environment.
type Loader struct {
	v    *viper.Viper
	path string
}

// NewLoader creates a new configuration loader.
func NewLoader() *Loader {
	v := viper.New()
	v.SetConfigType("yaml")

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// AutomaticEnv only reaches keys viper already knows about.
	setDefaults(v, NewConfig())

	return &Loader{v: v}
}

func setDefaults(v *viper.Viper, c *Config) {
	v.SetDefault("data_dir", c.DataDir)
	v.SetDefault("music_dir", c.MusicDir)
	v.SetDefault("default_focus_duration", c.DefaultFocusDuration.String())
	v.SetDefault("auto_start_focus", c.AutoStartFocus)
	v.SetDefault("track_window_titles", c.TrackWindowTitles)
	v.SetDefault("sample_interval", c.SampleInterval.String())
	v.SetDefault("flush_interval", c.FlushInterval.String())
	v.SetDefault("timezone", c.Timezone)
	v.SetDefault("ignore_apps", c.IgnoreApps)
	v.SetDefault("log.level", c.Log.Level)
	v.SetDefault("log.json", c.Log.JSON)
}

// LoadConfig loads configuration from path, merges environment variables,
// applies defaults and validates the result. A missing file is not an error:
// defaults (plus environment) are used, matching a first run.
// If path is empty, DefaultPath() is used.
func (l *Loader) LoadConfig(path string) (*Config, error) {
	if path == "" {
		path = DefaultPath()
	}
	l.path = path

	if _, err := os.Stat(path); err == nil {
		l.v.SetConfigFile(path)
		if err := l.v.ReadInConfig(); err != nil {
			return nil, &LoadError{
				Path:    path,
				Message: "failed to read config file",
				Err:     err,
			}
		}
	} else if !os.IsNotExist(err) {
		return nil, &LoadError{Path: path, Message: "failed to stat config file", Err: err}
	}

	return l.decode()
}

func (l *Loader) decode() (*Config, error) {
	settings := l.v.AllSettings()

	// default_focus_duration was historically a bare number of minutes.
	if n, ok := asInt(settings["default_focus_duration"]); ok {
		settings["default_focus_duration"] = (time.Duration(n) * time.Minute).String()
	}

	cfg := NewConfig()
	dc := &mapstructure.DecoderConfig{Result: cfg, WeaklyTypedInput: true}
	viperDecodeHook(dc)
	decoder, err := mapstructure.NewDecoder(dc)
	if err == nil {
		err = decoder.Decode(settings)
	}
	if err != nil {
		return nil, &LoadError{
			Path:    l.path,
			Message: "failed to parse config file",
			Err:     err,
		}
	}

	cfg.DataDir = expandHome(cfg.DataDir)
	cfg.MusicDir = expandHome(cfg.MusicDir)
	cfg.ApplyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, &LoadError{
			Path:    l.path,
			Message: "configuration validation failed",
			Err:     err,
		}
	}

	return cfg, nil
}

// Path returns the config file path of the last LoadConfig call.
func (l *Loader) Path() string {
	return l.path
}

// Watch reloads the configuration whenever the file changes on disk and
// passes the result to onChange. Invalid edits are reported as errors and
// the previous configuration stays in effect for the caller.
// LoadConfig must have been called and the file must exist.
func (l *Loader) Watch(onChange func(*Config, error)) error {
	if l.path == "" {
		return fmt.Errorf("config: Watch called before LoadConfig")
	}
	if _, err := os.Stat(l.path); err != nil {
		return fmt.Errorf("config: cannot watch %s: %w", l.path, err)
	}

	l.v.OnConfigChange(func(e fsnotify.Event) {
		if !e.Has(fsnotify.Write) && !e.Has(fsnotify.Create) {
			return
		}
		onChange(l.decode())
	})
	l.v.WatchConfig()
	return nil
}

func asInt(v any) (int64, bool) {
	switch n := v.(type) {
	case int:
		return int64(n), true
	case int64:
		return n, true
	case float64:
		if n == float64(int64(n)) {
			return int64(n), true
		}
	case string:
		if i, err := strconv.ParseInt(strings.TrimSpace(n), 10, 64); err == nil {
			return i, true
		}
	}
	return 0, false
}

func expandHome(p string) string {
	if p == "~" || strings.HasPrefix(p, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, strings.TrimPrefix(p, "~"))
		}
	}
	return p
}

// viperDecodeHook decodes using yaml tag names and accepts durations as
// strings ("25m") or as bare numbers of seconds.
func viperDecodeHook(dc *mapstructure.DecoderConfig) {
	dc.TagName = "yaml"
	dc.DecodeHook = mapstructure.ComposeDecodeHookFunc(
		mapstructure.StringToTimeDurationHookFunc(),
		mapstructure.StringToSliceHookFunc(","),
		numberToDurationHookFunc(),
	)
}

func numberToDurationHookFunc() mapstructure.DecodeHookFunc {
	return func(from reflect.Type, to reflect.Type, data interface{}) (interface{}, error) {
		durationType := reflect.TypeOf(time.Duration(0))
		if to != durationType || from == durationType {
			return data, nil
		}
		switch from.Kind() {
		case reflect.Int, reflect.Int32, reflect.Int64:
			return time.Duration(reflect.ValueOf(data).Int()) * time.Second, nil
		case reflect.Float64:
			return time.Duration(reflect.ValueOf(data).Float() * float64(time.Second)), nil
		}
		return data, nil
	}
}

// fileConfig is the on-disk shape of Config, with durations as strings.
type fileConfig struct {
	DataDir              string    `yaml:"data_dir"`
	MusicDir             string    `yaml:"music_dir"`
	DefaultFocusDuration string    `yaml:"default_focus_duration"`
	AutoStartFocus       bool      `yaml:"auto_start_focus"`
	TrackWindowTitles    bool      `yaml:"track_window_titles"`
	SampleInterval       string    `yaml:"sample_interval"`
	FlushInterval        string    `yaml:"flush_interval"`
	Timezone             string    `yaml:"timezone"`
	IgnoreApps           []string  `yaml:"ignore_apps"`
	Log                  LogConfig `yaml:"log"`
}

// Marshal renders the config as YAML.
func Marshal(c *Config) ([]byte, error) {
	fc := fileConfig{
		DataDir:              c.DataDir,
		MusicDir:             c.MusicDir,
		DefaultFocusDuration: c.DefaultFocusDuration.String(),
		AutoStartFocus:       c.AutoStartFocus,
		TrackWindowTitles:    c.TrackWindowTitles,
		SampleInterval:       c.SampleInterval.String(),
		FlushInterval:        c.FlushInterval.String(),
		Timezone:             c.Timezone,
		IgnoreApps:           c.IgnoreApps,
		Log:                  c.Log,
	}
	return yaml.Marshal(fc)
}

// Save writes c to path as YAML, creating parent directories.
func Save(c *Config, path string) error {
	if path == "" {
		path = DefaultPath()
	}
	data, err := Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// LoadError represents an error that occurred while loading configuration.
type LoadError struct {
	Path    string
	Message string
	Err     error
}

func (e *LoadError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Path, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Path, e.Message)
}

func (e *LoadError) Unwrap() error {
	return e.Err
}

// Load is a convenience function that creates a new Loader and loads configuration.
// If path is empty, it uses DefaultPath().
func Load(path string) (*Config, error) {
	return NewLoader().LoadConfig(path)
}
