package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/wexinc/rizeclone/internal/config"
	"github.com/wexinc/rizeclone/internal/daemon"
	rcerrors "github.com/wexinc/rizeclone/internal/errors"
	"github.com/wexinc/rizeclone/internal/logging"
	"github.com/wexinc/rizeclone/internal/tracker"
	"github.com/wexinc/rizeclone/internal/tui"
)

// trackCmd represents the track command.
var trackCmd = &cobra.Command{
	Use:   "track",
	Short: "Track the focused application",
	Long: `Sample the focused application, add the time up per app and per day,
and complete focus sessions when their time is up.

By default the terminal dashboard is shown. Use --headless (or redirect
stdout) for a plain event stream suitable for services and scripts.

Examples:
  rizeclone track                        # Dashboard
  rizeclone track --headless             # Text events on stdout
  rizeclone track --headless --output json
  rizeclone track --interval 5s          # Sample every 5 seconds`,
	RunE: runTrack,
}

func init() {
	rootCmd.AddCommand(trackCmd)
	addTrackFlags(trackCmd)
}

func addTrackFlags(c *cobra.Command) {
	c.Flags().Bool("headless", false, "Run without the dashboard")
	c.Flags().String("output", "", "Output format: text or json (requires --headless)")
	c.Flags().Duration("interval", 0, "Sampling interval (overrides sample_interval)")
}

// trackOptions are the validated flags of the track command.
type trackOptions struct {
	headless bool
	format   daemon.OutputFormat
	interval time.Duration
	verbose  bool
}

// applyInterval makes --interval win over sample_interval, in the loaded
// config and in every reload.
func (o *trackOptions) applyInterval(cfg *config.Config) {
	if o.interval <= 0 {
		return
	}
	cfg.SampleInterval = o.interval
	if cfg.FlushInterval < o.interval {
		cfg.FlushInterval = o.interval
	}
}

func parseTrackFlags(cmd *cobra.Command) (*trackOptions, error) {
	headless, _ := cmd.Flags().GetBool("headless")
	output, _ := cmd.Flags().GetString("output")
	interval, _ := cmd.Flags().GetDuration("interval")
	verbose, _ := cmd.Flags().GetBool("verbose")

	if output != "" && !headless {
		return nil, fmt.Errorf("--output flag requires --headless mode")
	}
	format, ok := daemon.ParseOutputFormat(output)
	if !ok {
		return nil, rcerrors.InvalidFlag("output", output, []string{"text", "json"})
	}
	if interval < 0 {
		return nil, rcerrors.InvalidFlag("interval", interval.String(), nil)
	}

	return &trackOptions{
		headless: headless,
		format:   format,
		interval: interval,
		verbose:  verbose,
	}, nil
}

// runTrack is the entry point for the track command and the bare root command.
func runTrack(cmd *cobra.Command, args []string) error {
	opts, err := parseTrackFlags(cmd)
	if err != nil {
		return err
	}

	cfg, loader, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	opts.applyInterval(cfg)
	if !opts.headless && !term.IsTerminal(int(os.Stdout.Fd())) {
		opts.headless = true
	}

	closeLog := setupLogging(cmd, cfg)
	defer closeLog()

	detector := tracker.NewDetector()
	logging.Info("rizeclone starting", "version", Version, "detector", detector.Name(),
		"interval", cfg.SampleInterval.String(), "headless", opts.headless)
	if detector.Name() == "none" {
		fmt.Fprint(cmd.ErrOrStderr(), rcerrors.Format(rcerrors.PlatformUnsupported(runtime.GOOS)))
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if opts.headless {
		return runHeadless(ctx, cmd, cfg, loader, detector, opts)
	}
	return runDashboard(ctx, cmd, cfg, loader, detector, opts)
}

// buildDaemon wires the tracker, focus mode and activity store together.
func buildDaemon(cfg *config.Config, detector tracker.Detector, opts *daemon.Options) (*daemon.Daemon, error) {
	store, err := openCalendar(cfg)
	if err != nil {
		return nil, err
	}
	fm, focusStore, err := openFocus(cfg)
	if err != nil {
		return nil, err
	}
	tr := tracker.New(detector,
		tracker.WithClock(clk),
		tracker.WithWindowTitles(cfg.TrackWindowTitles),
		tracker.WithIgnore(cfg.IgnoreApps...),
		tracker.WithLogger(logging.Global()),
	)
	opts.Clock = clk
	opts.Logger = logging.Global()
	return daemon.New(tr, fm, store, focusStore.Path(), opts), nil
}

// watchConfig applies config edits to a running daemon. A missing config
// file simply means nothing is watched.
func watchConfig(cmd *cobra.Command, loader *config.Loader, d *daemon.Daemon, opts *trackOptions, onReload func(*config.Config)) {
	err := loader.Watch(func(cfg *config.Config, err error) {
		if err != nil {
			logging.Warn("ignoring invalid configuration edit", "error", err)
			return
		}
		reloadConfig(cmd, d, opts, cfg)
		if onReload != nil {
			onReload(cfg)
		}
	})
	if err != nil {
		logging.Debug("config not watched", "error", err)
	}
}

// reloadConfig applies a reloaded config to the daemon and the logger.
func reloadConfig(cmd *cobra.Command, d *daemon.Daemon, opts *trackOptions, cfg *config.Config) {
	opts.applyInterval(cfg)
	logging.Global().SetLevel(logLevel(cmd, cfg))
	d.ApplyConfig(cfg)
}

func runHeadless(ctx context.Context, cmd *cobra.Command, cfg *config.Config, loader *config.Loader, detector tracker.Detector, opts *trackOptions) error {
	runner := daemon.NewHeadlessRunner(&daemon.HeadlessConfig{
		OutputFormat: opts.format,
		Writer:       cmd.OutOrStdout(),
		Verbose:      opts.verbose,
	})

	daemonOpts := daemon.OptionsFromConfig(cfg)
	daemonOpts.OnEvent = runner.HandleEvent
	d, err := buildDaemon(cfg, detector, daemonOpts)
	if err != nil {
		return err
	}
	watchConfig(cmd, loader, d, opts, nil)

	if err := d.Run(ctx); err != nil {
		return err
	}
	runner.PrintSummary(d.Tracker().Sorted(), d.Calendar().TotalFocus(d.Now()))
	return nil
}

func runDashboard(ctx context.Context, cmd *cobra.Command, cfg *config.Config, loader *config.Loader, detector tracker.Detector, opts *trackOptions) error {
	fwd := tui.NewEventForwarder()

	daemonOpts := daemon.OptionsFromConfig(cfg)
	daemonOpts.OnEvent = fwd.HandleEvent
	d, err := buildDaemon(cfg, detector, daemonOpts)
	if err != nil {
		fwd.Close()
		return err
	}

	r := tui.NewRunner(d, fwd, cfg, Version)
	watchConfig(cmd, loader, d, opts, func(c *config.Config) {
		r.Send(tui.ConfigReloadedMsg{Config: c})
	})

	return r.Run(ctx, d.Run)
}
