package cmd

import (
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/wexinc/rizeclone/internal/clock"
	rcerrors "github.com/wexinc/rizeclone/internal/errors"
)

// calendarCmd represents the calendar command.
var calendarCmd = &cobra.Command{
	Use:   "calendar",
	Short: "Show active and focused time per day for a month",
	Long: `List every recorded day of a month with its active time, focused time
and number of focus sessions.

Examples:
  rizeclone calendar                    # This month
  rizeclone calendar --month 2024-03`,
	Args: cobra.NoArgs,
	RunE: runCalendar,
}

func init() {
	rootCmd.AddCommand(calendarCmd)
	addCalendarFlags(calendarCmd)
}

func addCalendarFlags(c *cobra.Command) {
	c.Flags().String("month", "", "Month to show as YYYY-MM (default this month)")
}

func runCalendar(cmd *cobra.Command, args []string) error {
	monthFlag, _ := cmd.Flags().GetString("month")

	cfg, _, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	store, err := openCalendar(cfg)
	if err != nil {
		return err
	}
	loc := store.Location()

	first := clk.Now().In(loc)
	if monthFlag != "" {
		first, err = time.ParseInLocation("2006-01", monthFlag, loc)
		if err != nil {
			return rcerrors.InvalidFlag("month", monthFlag, nil)
		}
	}

	cal, err := store.Load()
	if err != nil {
		return err
	}

	w := cmd.OutOrStdout()
	title := first.Format("January 2006")
	days := cal.Month(first.Year(), first.Month())
	if len(days) == 0 {
		fmt.Fprintf(w, "No activity recorded in %s\n", title)
		return nil
	}

	var active, focused time.Duration
	var sessions int
	rows := make([][]string, 0, len(days))
	for _, d := range days {
		active += d.Active
		focused += d.Focus
		sessions += d.FocusSessions
		weekday := ""
		if t, err := clock.ParseDateKey(d.Date, loc); err == nil {
			weekday = t.Format("Mon")
		}
		rows = append(rows, []string{
			d.Date,
			weekday,
			clock.FormatDuration(d.Active),
			clock.FormatDuration(d.Focus),
			strconv.Itoa(d.FocusSessions),
		})
	}

	fmt.Fprintln(w, title)
	printTable(w, []string{"DATE", "DAY", "ACTIVE", "FOCUS", "SESSIONS"}, rows)
	fmt.Fprintf(w, "%d days, %s active, %s focused in %d sessions\n",
		len(days), clock.FormatDuration(active), clock.FormatDuration(focused), sessions)
	return nil
}
