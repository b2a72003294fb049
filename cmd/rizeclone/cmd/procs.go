package cmd

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	rcerrors "github.com/wexinc/rizeclone/internal/errors"
	"github.com/wexinc/rizeclone/internal/tracker"
)

// procsCmd represents the procs command.
var procsCmd = &cobra.Command{
	Use:   "procs",
	Short: "List running processes by CPU usage",
	Long: `List running processes, busiest first. Useful for finding the process
name to put in ignore_apps.

Examples:
  rizeclone procs
  rizeclone procs --limit 0             # All processes`,
	Args: cobra.NoArgs,
	RunE: runProcs,
}

func init() {
	rootCmd.AddCommand(procsCmd)
	addProcsFlags(procsCmd)
}

func addProcsFlags(c *cobra.Command) {
	c.Flags().Int("limit", 20, "Maximum number of processes to show (0 for all)")
}

func runProcs(cmd *cobra.Command, args []string) error {
	limit, _ := cmd.Flags().GetInt("limit")
	if limit < 0 {
		return rcerrors.InvalidFlag("limit", strconv.Itoa(limit), nil)
	}

	procs, err := tracker.ListProcesses(cmd.Context())
	if err != nil {
		return err
	}
	total := len(procs)
	if limit > 0 && len(procs) > limit {
		procs = procs[:limit]
	}

	rows := make([][]string, 0, len(procs))
	for _, p := range procs {
		rows = append(rows, []string{
			strconv.Itoa(int(p.PID)),
			p.Name,
			fmt.Sprintf("%.1f", p.CPUPercent),
			formatBytes(p.MemoryRSS),
		})
	}

	w := cmd.OutOrStdout()
	printTable(w, []string{"PID", "NAME", "CPU%", "RSS"}, rows)
	fmt.Fprintf(w, "%d of %d processes\n", len(procs), total)
	return nil
}

// formatBytes renders a byte count with a binary unit suffix.
func formatBytes(n uint64) string {
	const unit = 1024
	if n < unit {
		return fmt.Sprintf("%d B", n)
	}
	div, exp := uint64(unit), 0
	for v := n / unit; v >= unit; v /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %ciB", float64(n)/float64(div), "KMGTPE"[exp])
}
