package commands

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/balkashynov/taskman/internal/models"
	"github.com/balkashynov/taskman/internal/taskutil"
)

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Show the weekly timesheet",
	Long: `Show a weekly timesheet of tracked time grouped by task and day.

Covers the current calendar week (Monday to Sunday) unless --week is given,
e.g. --week -1 for last week. Weekdays are always shown, weekend days only
when time was tracked.

Example output:
  Task                         Mon    Tue    Wed    Thu    Fri    Total
  1a2b3c4d5e6f Fix login bug   2h     1h 30m -      -      -      3h 30m
  Total                        2h     1h 30m 0m     0m     0m     3h 30m`,
	Args: cobra.NoArgs,
	Run: withApp(func(cmd *cobra.Command, args []string, a *App) {
		offset, _ := cmd.Flags().GetInt("week")
		weekStart := getWeekStart(time.Now()).AddDate(0, 0, 7*offset)
		weekEnd := weekStart.AddDate(0, 0, 7).Add(-time.Second)

		sessions, err := a.sessions.InRange(cmd.Context(), weekStart, weekEnd)
		if err != nil {
			fmt.Printf("Error: failed to get sessions: %v\n", err)
			return
		}
		if len(sessions) == 0 {
			fmt.Printf("No time tracked in the week of %s.\n", weekStart.Format("02/01/2006"))
			return
		}

		fmt.Printf("Week of %s\n\n", weekStart.Format("02/01/2006"))
		fmt.Print(buildTimesheet(sessions).render())
	}),
}

// getWeekStart returns the start of the calendar week (Monday) for the given time
func getWeekStart(t time.Time) time.Time {
	weekday := t.Weekday()
	daysFromMonday := int(weekday - time.Monday)
	if weekday == time.Sunday {
		daysFromMonday = 6
	}
	weekStart := t.AddDate(0, 0, -daysFromMonday)
	return time.Date(weekStart.Year(), weekStart.Month(), weekStart.Day(), 0, 0, 0, 0, weekStart.Location())
}

var weekdays = []time.Weekday{
	time.Monday, time.Tuesday, time.Wednesday, time.Thursday,
	time.Friday, time.Saturday, time.Sunday,
}

type timesheetRow struct {
	label   string
	minutes map[time.Weekday]int
	total   int
}

type timesheet struct {
	rows   []timesheetRow
	totals map[time.Weekday]int
	total  int
}

// buildTimesheet groups finished sessions by task and local weekday
func buildTimesheet(sessions []models.Session) timesheet {
	byTask := make(map[string]*timesheetRow)
	sheet := timesheet{totals: make(map[time.Weekday]int)}

	for _, s := range sessions {
		row, ok := byTask[s.TaskID]
		if !ok {
			row = &timesheetRow{
				label:   shortID(s.TaskID) + " " + s.TaskTitle,
				minutes: make(map[time.Weekday]int),
			}
			byTask[s.TaskID] = row
		}
		day := s.StartedAt.Local().Weekday()
		m := s.Minutes()
		row.minutes[day] += m
		row.total += m
		sheet.totals[day] += m
		sheet.total += m
	}

	for _, row := range byTask {
		sheet.rows = append(sheet.rows, *row)
	}
	sort.Slice(sheet.rows, func(i, j int) bool {
		if sheet.rows[i].total != sheet.rows[j].total {
			return sheet.rows[i].total > sheet.rows[j].total
		}
		return sheet.rows[i].label < sheet.rows[j].label
	})
	return sheet
}

// days lists Monday to Friday plus any weekend day with tracked time
func (t timesheet) days() []time.Weekday {
	var days []time.Weekday
	for i, d := range weekdays {
		if i < 5 || t.totals[d] > 0 {
			days = append(days, d)
		}
	}
	return days
}

func (t timesheet) render() string {
	const cellWidth = 8
	nameWidth := 20
	for _, row := range t.rows {
		nameWidth = max(nameWidth, len([]rune(row.label)))
	}
	nameWidth = min(nameWidth, 40)

	days := t.days()
	var b strings.Builder

	fmt.Fprintf(&b, "%-*s", nameWidth, "Task")
	for _, d := range days {
		fmt.Fprintf(&b, " %-*s", cellWidth, d.String()[:3])
	}
	fmt.Fprintf(&b, " %s\n", "Total")
	b.WriteString(strings.Repeat("-", nameWidth+(cellWidth+1)*(len(days)+1)))
	b.WriteString("\n")

	cell := func(minutes int, blank string) string {
		if minutes == 0 {
			return blank
		}
		return taskutil.FormatMinutes(minutes)
	}

	for _, row := range t.rows {
		fmt.Fprintf(&b, "%-*s", nameWidth, truncate(row.label, nameWidth))
		for _, d := range days {
			fmt.Fprintf(&b, " %-*s", cellWidth, cell(row.minutes[d], "-"))
		}
		fmt.Fprintf(&b, " %s\n", taskutil.FormatMinutes(row.total))
	}

	fmt.Fprintf(&b, "%-*s", nameWidth, "Total")
	for _, d := range days {
		fmt.Fprintf(&b, " %-*s", cellWidth, cell(t.totals[d], "0m"))
	}
	fmt.Fprintf(&b, " %s\n", taskutil.FormatMinutes(t.total))
	return b.String()
}

func init() {
	reportCmd.Flags().Int("week", 0, "Week offset from the current week, e.g. -1 for last week")
}
