package main

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"
)

// newMarkCmd builds "done" or "undo", which record the completion of one
// occurrence of a series.
func newMarkCmd(a *app, done bool) *cobra.Command {
	use, short := "done", "Mark a series occurrence completed"
	if !done {
		use, short = "undo", "Mark a series occurrence not completed"
	}
	var on string

	cmd := &cobra.Command{
		Use:   use + " <series-id>",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := dateFlag("date", on, a.today)
			if err != nil {
				return err
			}
			s, err := a.series.GetByID(args[0])
			if err != nil {
				return err
			}
			if s == nil {
				return fmt.Errorf("series %s not found", args[0])
			}
			if !s.OccursOn(d) {
				return fmt.Errorf("%q does not occur on %s", s.Title, d)
			}

			if err := a.completions.Set(s.ID, d, done); err != nil {
				return err
			}
			slog.Info("completion recorded", "series_id", s.ID, "date", d, "completed", done)

			history, err := a.completions.ForSeries(s.ID)
			if err != nil {
				return err
			}
			status := "not done"
			if history.Done(d) {
				status = "done"
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\t%s\n", s.Title, d, status)
			return nil
		},
	}
	cmd.Flags().StringVar(&on, "date", "", "occurrence date (defaults to today)")
	return cmd
}
