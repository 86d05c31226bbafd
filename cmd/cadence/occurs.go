package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dukerupert/cadence/internal/recurrence"
)

func newOccursCmd(a *app) *cobra.Command {
	var on, from, to string

	cmd := &cobra.Command{
		Use:   "occurs <series-id>",
		Short: "Check or list the dates a series occurs on",
		Long: `Check whether a series occurs on one date, or list its occurrences in a
range.

Examples:
  # Does it occur today?
  cadence occurs 3f2a...

  # Every occurrence in March
  cadence occurs 3f2a... --from 2024-03-01 --to 2024-03-31`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := a.series.GetByID(args[0])
			if err != nil {
				return err
			}
			if s == nil {
				return fmt.Errorf("series %s not found", args[0])
			}

			if from == "" && to == "" {
				d, err := dateFlag("date", on, a.today)
				if err != nil {
					return err
				}
				occurs := s.OccursOn(d)
				if a.json {
					return writeJSON(cmd.OutOrStdout(), map[string]any{"date": d, "occurs": occurs})
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s\t%t\n", d, occurs)
				return nil
			}

			start, err := dateFlag("from", from, a.today)
			if err != nil {
				return err
			}
			end, err := dateFlag("to", to, start.AddDays(30))
			if err != nil {
				return err
			}
			if end.Before(start) {
				return fmt.Errorf("--to %s is before --from %s", end, start)
			}

			dates := recurrence.Expand(s.Rule, start, end)
			if a.json {
				return writeJSON(cmd.OutOrStdout(), dates)
			}
			for _, d := range dates {
				fmt.Fprintln(cmd.OutOrStdout(), d)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&on, "date", "", "date to check (defaults to today)")
	cmd.Flags().StringVar(&from, "from", "", "first date of the range to list")
	cmd.Flags().StringVar(&to, "to", "", "last date of the range to list (defaults to 30 days after --from)")
	return cmd
}
