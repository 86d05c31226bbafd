package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/dukerupert/cadence/internal/calendar"
	"github.com/dukerupert/cadence/internal/stats"
)

func newStatsCmd(a *app) *cobra.Command {
	var from, to string

	cmd := &cobra.Command{
		Use:   "stats [id]",
		Short: "Completion rates and streaks",
		Long: `Show completion rates and streaks.

Without an id, every active series of the owner is rolled up along with
power days and the combined streak. With a series or todo id, only that
to-do is shown; --from and --to narrow a series to a window.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				return a.summary(cmd.OutOrStdout())
			}

			id := args[0]
			s, err := a.series.GetByID(id)
			if err != nil {
				return err
			}
			if s != nil {
				done, err := a.completions.ForSeries(s.ID)
				if err != nil {
					return err
				}

				var res stats.Result
				if from == "" && to == "" {
					res = stats.Rollup(s.Rule, done, a.today)
				} else {
					start, err := dateFlag("from", from, s.Start)
					if err != nil {
						return err
					}
					end, err := dateFlag("to", to, a.today)
					if err != nil {
						return err
					}
					// Occurrences after today have not been missed yet.
					res = stats.RollupWindow(s.Rule, done, start, calendar.Min(end, a.today))
				}
				return a.writeResult(cmd.OutOrStdout(), s.Title, res)
			}

			t, err := a.todos.GetByID(id)
			if err != nil {
				return err
			}
			if t == nil {
				return fmt.Errorf("no series or todo with id %s", id)
			}
			return a.writeResult(cmd.OutOrStdout(), t.Title, stats.Single(*t, a.today))
		},
	}
	cmd.Flags().StringVar(&from, "from", "", "start of the window (series only)")
	cmd.Flags().StringVar(&to, "to", "", "end of the window (series only)")
	return cmd
}

func (a *app) writeResult(w io.Writer, title string, res stats.Result) error {
	if a.json {
		return writeJSON(w, res)
	}
	tw := newTable(w)
	fmt.Fprintf(tw, "%s\n", title)
	fmt.Fprintf(tw, "completed\t%d/%d\t%s\n", res.TotalCompleted, res.TotalScheduled, percent(res.Rate()))
	fmt.Fprintf(tw, "current streak\t%d\n", res.CurrentStreak)
	fmt.Fprintf(tw, "longest streak\t%d\n", res.LongestStreak)
	return tw.Flush()
}

func (a *app) summary(w io.Writer) error {
	series, err := a.series.ListByOwner(a.owner)
	if err != nil {
		return err
	}
	history, err := a.completions.History(a.owner)
	if err != nil {
		return err
	}

	sum := stats.Summarize(series, history, a.today)
	if a.json {
		return writeJSON(w, sum)
	}

	tw := newTable(w)
	fmt.Fprintln(tw, "TITLE\tDONE\tRATE\tSTREAK\tBEST")
	for _, r := range sum.Rows {
		fmt.Fprintf(tw, "%s\t%d/%d\t%s\t%d\t%d\n",
			r.Title, r.TotalCompleted, r.TotalScheduled, percent(r.Rate()), r.CurrentStreak, r.LongestStreak)
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	fmt.Fprintf(w, "\noverall %d/%d (%s), %d power days, streak %d\n",
		sum.TotalCompleted, sum.TotalScheduled, percent(sum.Rate()), sum.PowerDays, sum.Streak)
	return nil
}
