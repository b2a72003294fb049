package cmd

import (
	"github.com/spf13/cobra"

	"github.com/wexinc/rizeclone/internal/tracker"
	"github.com/wexinc/rizeclone/internal/version"
)

// versionCmd represents the version command.
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show version information",
	Long: `Show detailed version information for rizeclone.

Displays the current version, commit hash, build date, Go/platform
information and the foreground window detector in use.`,
	RunE: runVersion,
}

func init() {
	rootCmd.AddCommand(versionCmd)
}

// runVersion handles the version command.
func runVersion(cmd *cobra.Command, args []string) error {
	info := version.NewInfo(Version, Commit, Date)
	cmd.Println(info.FullString(tracker.NewDetector().Name()))
	return nil
}
