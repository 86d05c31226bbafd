package main

import (
	"fmt"

	"cloud.google.com/go/civil"
	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/dukerupert/cadence/internal/chore"
)

var statusColors = map[chore.Status]func(a ...any) string{
	chore.StatusOverdue:   color.New(color.FgRed, color.Bold).SprintFunc(),
	chore.StatusPending:   color.New(color.FgYellow).SprintFunc(),
	chore.StatusCompleted: color.New(color.FgGreen).SprintFunc(),
	chore.StatusNotDue:    color.New(color.FgHiBlack).SprintFunc(),
}

func colorStatus(s chore.Status) string {
	if paint, ok := statusColors[s]; ok {
		return paint(string(s))
	}
	return string(s)
}

func (a *app) agenda(today civil.Date) (chore.Agenda, error) {
	todos, err := a.todos.ListByOwner(a.owner)
	if err != nil {
		return chore.Agenda{}, err
	}
	series, err := a.series.ListByOwner(a.owner)
	if err != nil {
		return chore.Agenda{}, err
	}
	history, err := a.completions.History(a.owner)
	if err != nil {
		return chore.Agenda{}, err
	}
	return chore.Build(todos, series, history, today), nil
}

func newTodayCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "today",
		Short: "Show every to-do as of today and how many are left",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			agenda, err := a.agenda(a.today)
			if err != nil {
				return err
			}
			if a.json {
				return writeJSON(cmd.OutOrStdout(), agenda)
			}

			w := cmd.OutOrStdout()
			tw := newTable(w)
			fmt.Fprintln(tw, "STATUS\tKIND\tTITLE\tDUE\tNEXT\tID")
			for _, it := range agenda.Items {
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\n",
					colorStatus(it.Status), it.Kind, it.Title, dateOrDash(it.Due), dateOrDash(it.Next), it.ID)
			}
			if err := tw.Flush(); err != nil {
				return err
			}
			fmt.Fprintf(w, "\n%d remaining today (%s)\n", agenda.Remaining, a.today)
			return nil
		},
	}
}
