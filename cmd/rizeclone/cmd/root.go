// Package cmd provides the CLI commands for rizeclone.
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	rcerrors "github.com/wexinc/rizeclone/internal/errors"
	"github.com/wexinc/rizeclone/internal/version"
)

// Version information - set via ldflags at build time in main.go.
var (
	Version = ""
	Commit  = "none"
	Date    = "unknown"
)

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "rizeclone",
	Short: "Track app usage and run focus sessions",
	Long: `rizeclone records which application has focus, adds the time up per
app and per day, and runs timed focus sessions alongside it.

Run without a subcommand to start tracking with the terminal dashboard
(same as "rizeclone track").`,
	RunE:          runTrack,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	addGlobalFlags(rootCmd)
	addTrackFlags(rootCmd)
}

func addGlobalFlags(c *cobra.Command) {
	c.PersistentFlags().String("config", "", "Config file (default $XDG_CONFIG_HOME/rizeclone/config.yaml)")
	c.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose output and debug logging")
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	info := version.NewInfo(Version, Commit, Date)
	Version = info.Version
	rootCmd.Version = fmt.Sprintf("%s (commit: %s, built: %s)", info.Version, info.Commit, info.Date)
	rootCmd.SetVersionTemplate("rizeclone {{.Version}}\n")

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprint(os.Stderr, rcerrors.Format(err))
		os.Exit(1)
	}
}

// Root returns the root command for testing purposes.
func Root() *cobra.Command {
	return rootCmd
}
