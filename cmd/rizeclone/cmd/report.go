package cmd

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/wexinc/rizeclone/internal/calendar"
	"github.com/wexinc/rizeclone/internal/clock"
	rcerrors "github.com/wexinc/rizeclone/internal/errors"
)

// reportCmd represents the report command.
var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Show app usage and focus sessions for a day",
	Long: `Show how long each application was focused on a day, with the focus
sessions recorded that day.

Examples:
  rizeclone report                      # Today
  rizeclone report --date 2024-03-15
  rizeclone report --output json`,
	Args: cobra.NoArgs,
	RunE: runReport,
}

func init() {
	rootCmd.AddCommand(reportCmd)
	addReportFlags(reportCmd)
}

func addReportFlags(c *cobra.Command) {
	c.Flags().String("date", "", "Day to report as YYYY-MM-DD (default today)")
	c.Flags().String("output", "text", "Output format: text or json")
}

type reportApp struct {
	Name    string  `json:"name"`
	Seconds float64 `json:"seconds"`
}

type reportSession struct {
	ID              string    `json:"id"`
	StartTime       time.Time `json:"start_time"`
	DurationSeconds float64   `json:"duration_seconds"`
	MusicUsed       bool      `json:"music_used"`
	Completed       bool      `json:"completed"`
}

type reportJSON struct {
	Date          string          `json:"date"`
	TotalSeconds  float64         `json:"total_seconds"`
	FocusSeconds  float64         `json:"focus_seconds"`
	Apps          []reportApp     `json:"apps"`
	FocusSessions []reportSession `json:"focus_sessions"`
}

func runReport(cmd *cobra.Command, args []string) error {
	dateFlag, _ := cmd.Flags().GetString("date")
	output, _ := cmd.Flags().GetString("output")
	if output != "text" && output != "json" {
		return rcerrors.InvalidFlag("output", output, []string{"text", "json"})
	}

	cfg, _, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	store, err := openCalendar(cfg)
	if err != nil {
		return err
	}
	loc := store.Location()

	day := clk.Now().In(loc)
	if dateFlag != "" {
		day, err = clock.ParseDateKey(dateFlag, loc)
		if err != nil {
			return rcerrors.InvalidFlag("date", dateFlag, nil)
		}
	}
	key := clock.DateKey(day, loc)

	cal, err := store.Load()
	if err != nil {
		return err
	}
	activity, ok := cal.ActivityForKey(key)
	if !ok {
		return rcerrors.NoActivity(key)
	}
	apps := cal.TopApps(day, 0)

	if output == "json" {
		return writeReportJSON(cmd, key, activity, apps)
	}

	w := cmd.OutOrStdout()
	total := activity.Total()
	fmt.Fprintf(w, "Activity for %s\n", key)

	rows := make([][]string, 0, len(apps))
	for _, app := range apps {
		share := 0.0
		if total > 0 {
			share = float64(app.Duration) / float64(total) * 100
		}
		rows = append(rows, []string{app.Name, clock.FormatDuration(app.Duration), fmt.Sprintf("%.1f%%", share)})
	}
	if len(rows) > 0 {
		printTable(w, []string{"APP", "TIME", "SHARE"}, rows)
	}
	fmt.Fprintf(w, "Total active: %s\n", clock.FormatDuration(total))

	if len(activity.FocusSessions) > 0 {
		fmt.Fprintln(w)
		fmt.Fprintf(w, "Focus sessions (%s)\n", clock.FormatDuration(activity.TotalFocus()))
		srows := make([][]string, 0, len(activity.FocusSessions))
		for _, s := range activity.FocusSessions {
			outcome := "cancelled"
			if s.Completed {
				outcome = "completed"
			}
			srows = append(srows, []string{
				s.StartTime.In(loc).Format("15:04"),
				clock.FormatDuration(s.Duration),
				outcome,
				s.ID,
			})
		}
		printTable(w, []string{"START", "FOCUSED", "OUTCOME", "ID"}, srows)
	}
	return nil
}

func writeReportJSON(cmd *cobra.Command, key string, activity *calendar.DailyActivity, apps []calendar.AppUsage) error {
	out := reportJSON{
		Date:          key,
		TotalSeconds:  activity.Total().Seconds(),
		FocusSeconds:  activity.TotalFocus().Seconds(),
		Apps:          make([]reportApp, 0, len(apps)),
		FocusSessions: make([]reportSession, 0, len(activity.FocusSessions)),
	}
	for _, app := range apps {
		out.Apps = append(out.Apps, reportApp{Name: app.Name, Seconds: app.Duration.Seconds()})
	}
	for _, s := range activity.FocusSessions {
		out.FocusSessions = append(out.FocusSessions, reportSession{
			ID:              s.ID,
			StartTime:       s.StartTime,
			DurationSeconds: s.Duration.Seconds(),
			MusicUsed:       s.MusicUsed,
			Completed:       s.Completed,
		})
	}

	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}
