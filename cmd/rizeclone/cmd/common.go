package cmd

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/wexinc/rizeclone/internal/calendar"
	"github.com/wexinc/rizeclone/internal/clock"
	"github.com/wexinc/rizeclone/internal/config"
	rcerrors "github.com/wexinc/rizeclone/internal/errors"
	"github.com/wexinc/rizeclone/internal/focus"
	"github.com/wexinc/rizeclone/internal/logging"
)

// clk is the time source for one-shot commands. Tests replace it.
var clk clock.Clock = clock.Real{}

// configPath returns the --config flag value, or the default location.
func configPath(cmd *cobra.Command) string {
	path, _ := cmd.Flags().GetString("config")
	if path == "" {
		path = config.DefaultPath()
	}
	return path
}

// loadConfig loads the configuration named by --config and converts loader
// failures into user-facing errors.
func loadConfig(cmd *cobra.Command) (*config.Config, *config.Loader, error) {
	loader := config.NewLoader()
	cfg, err := loader.LoadConfig(configPath(cmd))
	if err != nil {
		var le *config.LoadError
		if errors.As(err, &le) {
			if le.Message == "configuration validation failed" {
				return nil, nil, rcerrors.ConfigValidationError(le.Path, le.Err)
			}
			return nil, nil, rcerrors.ConfigParseError(le.Path, le.Err)
		}
		return nil, nil, err
	}
	return cfg, loader, nil
}

// setupLogging starts the global file logger under the data directory.
// Failure is not fatal; the command continues without a log file.
func setupLogging(cmd *cobra.Command, cfg *config.Config) func() {
	logConfig := &logging.Config{
		Level:       logLevel(cmd, cfg),
		LogDir:      cfg.LogsDir(),
		MaxLogFiles: 10,
		MaxLogAge:   7 * 24 * time.Hour,
		Console:     false,
		JSONFormat:  cfg.Log.JSON,
	}
	if err := logging.InitGlobal(logConfig); err != nil {
		fmt.Fprintf(cmd.ErrOrStderr(), "Warning: failed to initialize logging: %v\n", err)
		// Warnings and errors still reach the terminal.
		logConfig.Level = max(logConfig.Level, logging.LevelWarn)
		logging.SetGlobal(logging.NewWriter(cmd.ErrOrStderr(), logConfig))
	}
	return func() { _ = logging.CloseGlobal() }
}

// logLevel resolves the log level: the config, then RIZECLONE_LOG, then
// --verbose.
func logLevel(cmd *cobra.Command, cfg *config.Config) logging.Level {
	level, err := logging.ParseLevel(cfg.Log.Level)
	if err != nil {
		level = logging.LevelInfo
	}
	level = logging.LevelFromEnv(level)
	if verbose, _ := cmd.Flags().GetBool("verbose"); verbose {
		level = logging.LevelDebug
	}
	return level
}

// location resolves the configured timezone.
func location(cfg *config.Config) (*time.Location, error) {
	loc, err := cfg.Location()
	if err != nil {
		return nil, rcerrors.InvalidTimezone(cfg.Timezone, err)
	}
	return loc, nil
}

// openFocus returns a focus mode backed by focus.json in the data directory,
// with the persisted session already loaded.
func openFocus(cfg *config.Config) (*focus.Mode, *focus.StateStore, error) {
	store := focus.NewStateStoreInDir(cfg.DataDir)
	fm := focus.NewMode(
		focus.WithClock(clk),
		focus.WithStore(store),
		focus.WithLogger(logging.Global()),
	)
	if err := fm.Load(); err != nil {
		return nil, nil, err
	}
	return fm, store, nil
}

// openCalendar returns the activity store for the data directory.
func openCalendar(cfg *config.Config) (*calendar.Store, error) {
	loc, err := location(cfg)
	if err != nil {
		return nil, err
	}
	return calendar.NewStoreInDir(cfg.DataDir, loc), nil
}

// recordSession merges a finished session into the activity file. A running
// tracker may record the same session; merging keeps one copy per ID.
func recordSession(cfg *config.Config, s focus.Summary) error {
	store, err := openCalendar(cfg)
	if err != nil {
		return err
	}
	pending := calendar.New(store.Location())
	pending.AddFocusSession(calendar.FocusSessionSummary{
		ID:        s.ID,
		StartTime: s.StartTime,
		Duration:  s.Duration,
		MusicUsed: s.MusicUsed,
		Completed: s.Completed,
	})
	_, err = store.Merge(pending)
	return err
}
