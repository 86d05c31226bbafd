package main

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/dukerupert/cadence/internal/stats"
)

// Cell markers for the text grid.
var marks = map[stats.DayStatus]string{
	stats.StatusDone:   "*",
	stats.StatusMissed: "!",
}

func newCalendarCmd(a *app) *cobra.Command {
	var month string

	cmd := &cobra.Command{
		Use:   "calendar <id>",
		Short: "Show a month of completions for a series or todo",
		Long: `Show a Sunday-first month grid for one series or todo.

Days marked * were completed, ! were scheduled and missed, + are scheduled
after today.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			year, mon := a.today.Year, a.today.Month
			if month != "" {
				t, err := time.Parse("2006-01", month)
				if err != nil {
					return fmt.Errorf("--month: %w", err)
				}
				year, mon = t.Year(), t.Month()
			}

			var grid stats.Month
			var title string

			s, err := a.series.GetByID(args[0])
			if err != nil {
				return err
			}
			if s != nil {
				done, err := a.completions.ForSeries(s.ID)
				if err != nil {
					return err
				}
				grid, title = stats.MonthGrid(s.Rule, done, year, mon, a.today), s.Title
			} else {
				t, err := a.todos.GetByID(args[0])
				if err != nil {
					return err
				}
				if t == nil {
					return fmt.Errorf("no series or todo with id %s", args[0])
				}
				grid, title = stats.TodoMonthGrid(*t, year, mon, a.today), t.Title
			}

			if a.json {
				return writeJSON(cmd.OutOrStdout(), grid)
			}
			return renderMonth(cmd.OutOrStdout(), title, grid)
		},
	}
	cmd.Flags().StringVar(&month, "month", "", "month to show as YYYY-MM (defaults to the current month)")
	return cmd
}

func renderMonth(w io.Writer, title string, m stats.Month) error {
	var b strings.Builder
	fmt.Fprintf(&b, "%s, %s %d: %d/%d (%s)\n", title, m.Month, m.Year, m.Completed, m.Scheduled, percent(m.Rate()))
	b.WriteString(" Su  Mo  Tu  We  Th  Fr  Sa\n")

	col := 0
	for range m.Lead {
		b.WriteString("    ")
		col++
	}
	for _, c := range m.Cells {
		mark := marks[c.Status]
		if c.Status == stats.StatusFuture && c.Scheduled {
			mark = "+"
		}
		if mark == "" {
			mark = " "
		}
		fmt.Fprintf(&b, " %2d%s", c.Date.Day, mark)
		col++
		if col%7 == 0 {
			b.WriteString("\n")
		}
	}
	if col%7 != 0 {
		b.WriteString("\n")
	}

	_, err := io.WriteString(w, b.String())
	return err
}
