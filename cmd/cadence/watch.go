package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"cloud.google.com/go/civil"
	"github.com/spf13/cobra"

	"github.com/dukerupert/cadence/internal/chore"
	"github.com/dukerupert/cadence/internal/remind"
)

func newWatchCmd(a *app) *cobra.Command {
	var schedule string
	var now bool

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Print a reminder line on a cron schedule",
		Long: `Print how many to-dos are left, and which are overdue, every time the
cron schedule fires. Runs until interrupted.

Examples:
  # Every morning at 8
  cadence watch --schedule "0 8 * * *"

  # Hourly, plus once immediately
  cadence watch --schedule @hourly --now`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			w := cmd.OutOrStdout()
			clock := func() civil.Date {
				if a.pinned {
					return a.today
				}
				return civil.DateOf(time.Now())
			}

			s, err := remind.New(schedule, clock, a.agenda, func(today civil.Date, ag chore.Agenda) {
				fmt.Fprintln(w, remind.Line(today, ag))
			})
			if err != nil {
				return err
			}
			if now {
				if err := s.RunOnce(); err != nil {
					return err
				}
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			s.Start(ctx)
			<-s.Done()
			return nil
		},
	}
	cmd.Flags().StringVar(&schedule, "schedule", "0 8 * * *", "cron expression or descriptor such as @daily")
	cmd.Flags().BoolVar(&now, "now", false, "also remind once at startup")
	return cmd
}
