package cmd

import (
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/wexinc/rizeclone/internal/clock"
	"github.com/wexinc/rizeclone/internal/config"
	rcerrors "github.com/wexinc/rizeclone/internal/errors"
	"github.com/wexinc/rizeclone/internal/focus"
	"github.com/wexinc/rizeclone/internal/logging"
)

// focusCmd groups the focus session commands.
var focusCmd = &cobra.Command{
	Use:   "focus",
	Short: "Start, stop and inspect focus sessions",
	Long: `Control the focus session shared with a running tracker.

Session state lives in focus.json in the data directory, so these
commands work whether or not "rizeclone track" is running. A running
tracker picks up changes immediately.`,
}

var focusStartCmd = &cobra.Command{
	Use:   "start",
	Short: "Start a focus session",
	Long: `Start a focus session.

Examples:
  rizeclone focus start               # default_focus_duration from config
  rizeclone focus start --minutes 50
  rizeclone focus start --music       # play from music_dir`,
	Args: cobra.NoArgs,
	RunE: runFocusStart,
}

var focusStopCmd = &cobra.Command{
	Use:   "stop",
	Short: "End the active focus session",
	Args:  cobra.NoArgs,
	RunE:  runFocusStop,
}

var focusPauseCmd = &cobra.Command{
	Use:   "pause",
	Short: "Pause the active focus session",
	Args:  cobra.NoArgs,
	RunE:  runFocusPause,
}

var focusResumeCmd = &cobra.Command{
	Use:   "resume",
	Short: "Resume a paused focus session",
	Args:  cobra.NoArgs,
	RunE:  runFocusResume,
}

var focusStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the active focus session",
	Args:  cobra.NoArgs,
	RunE:  runFocusStatus,
}

func init() {
	rootCmd.AddCommand(focusCmd)
	focusCmd.AddCommand(focusStartCmd, focusStopCmd, focusPauseCmd, focusResumeCmd, focusStatusCmd)
	addFocusStartFlags(focusStartCmd)
}

func addFocusStartFlags(c *cobra.Command) {
	c.Flags().Int("minutes", 0, "Session length in minutes (default from config)")
	c.Flags().Bool("music", false, "Play music from music_dir during the session")
}

// openFocusCommand loads config, logging and the persisted session for a
// focus subcommand.
func openFocusCommand(cmd *cobra.Command) (*config.Config, *focus.Mode, func(), error) {
	cfg, _, err := loadConfig(cmd)
	if err != nil {
		return nil, nil, nil, err
	}
	closeLog := setupLogging(cmd, cfg)
	fm, _, err := openFocus(cfg)
	if err != nil {
		closeLog()
		return nil, nil, nil, err
	}
	return cfg, fm, closeLog, nil
}

// settle completes a session whose time ran out while nothing was ticking
// it, and records it.
func settle(cmd *cobra.Command, cfg *config.Config, fm *focus.Mode) error {
	summary, completed, err := fm.Tick(clk.Now())
	if err != nil {
		return err
	}
	if !completed {
		return nil
	}
	if err := recordSession(cfg, summary); err != nil {
		return err
	}
	cmd.Printf("Focus session %s completed (%s focused)\n", summary.ID, clock.FormatDuration(summary.Duration))
	return nil
}

func runFocusStart(cmd *cobra.Command, args []string) error {
	minutes, _ := cmd.Flags().GetInt("minutes")
	music, _ := cmd.Flags().GetBool("music")

	cfg, fm, closeLog, err := openFocusCommand(cmd)
	if err != nil {
		return err
	}
	defer closeLog()

	duration := cfg.DefaultFocusDuration
	if cmd.Flags().Changed("minutes") {
		duration = time.Duration(minutes) * time.Minute
	}
	if duration <= 0 || duration > focus.MaxDuration {
		return rcerrors.InvalidFocusDuration(duration)
	}

	if err := settle(cmd, cfg, fm); err != nil {
		return err
	}

	if music {
		tracks, err := focus.ScanMusic(cfg.MusicDir)
		if err != nil {
			logging.Warn("scanning music directory", "dir", cfg.MusicDir, "error", err)
		}
		if len(tracks) == 0 {
			cmd.PrintErrln("Warning: no music found; set music_dir in the config")
		}
		fm.SetPlaylist(tracks)
	}

	s, err := fm.StartSession(duration, music)
	if err != nil {
		return err
	}

	cmd.Printf("Focus session %s started: %s, ends at %s\n",
		s.ID, clock.FormatDuration(s.Duration), s.Deadline().Local().Format("15:04"))
	if s.MusicPath != "" {
		cmd.Printf("Music: %s\n", filepath.Base(s.MusicPath))
	}
	return nil
}

func runFocusStop(cmd *cobra.Command, args []string) error {
	cfg, fm, closeLog, err := openFocusCommand(cmd)
	if err != nil {
		return err
	}
	defer closeLog()

	summary, err := fm.EndSession()
	if err != nil {
		return err
	}
	if err := recordSession(cfg, summary); err != nil {
		return err
	}

	outcome := "cancelled"
	if summary.Completed {
		outcome = "completed"
	}
	cmd.Printf("Focus session %s %s (%s focused)\n", summary.ID, outcome, clock.FormatDuration(summary.Duration))
	return nil
}

func runFocusPause(cmd *cobra.Command, args []string) error {
	cfg, fm, closeLog, err := openFocusCommand(cmd)
	if err != nil {
		return err
	}
	defer closeLog()

	if err := settle(cmd, cfg, fm); err != nil {
		return err
	}
	if err := fm.Pause(); err != nil {
		return err
	}
	cmd.Printf("Focus session paused with %s left\n", clock.FormatDuration(fm.Remaining(clk.Now())))
	return nil
}

func runFocusResume(cmd *cobra.Command, args []string) error {
	_, fm, closeLog, err := openFocusCommand(cmd)
	if err != nil {
		return err
	}
	defer closeLog()

	if err := fm.Resume(); err != nil {
		return err
	}
	s, _ := fm.CurrentSession()
	cmd.Printf("Focus session resumed, ends at %s\n", s.Deadline().Local().Format("15:04"))
	return nil
}

func runFocusStatus(cmd *cobra.Command, args []string) error {
	cfg, fm, closeLog, err := openFocusCommand(cmd)
	if err != nil {
		return err
	}
	defer closeLog()

	if err := settle(cmd, cfg, fm); err != nil {
		return err
	}

	s, ok := fm.CurrentSession()
	if !ok {
		cmd.Println("No active focus session")
		return nil
	}

	now := clk.Now()
	cmd.Printf("Session:   %s\n", s.ID)
	cmd.Printf("State:     %s\n", s.State)
	cmd.Printf("Elapsed:   %s\n", clock.FormatDuration(s.Elapsed(now)))
	cmd.Printf("Remaining: %s\n", clock.FormatDuration(s.Remaining(now)))
	if s.MusicPath != "" {
		cmd.Printf("Music:     %s\n", filepath.Base(s.MusicPath))
	}
	return nil
}
