package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/dukerupert/cadence/internal/ics"
)

func newExportCmd(a *app) *cobra.Command {
	var out string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write to-dos as an iCalendar feed",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			series, err := a.series.ListByOwner(a.owner)
			if err != nil {
				return err
			}
			todos, err := a.todos.ListByOwner(a.owner)
			if err != nil {
				return err
			}

			feed := ics.Export(series, todos, time.Now().UTC())

			if out == "" || out == "-" {
				_, err := io.WriteString(cmd.OutOrStdout(), feed)
				return err
			}
			if err := os.WriteFile(out, []byte(feed), 0o644); err != nil {
				return fmt.Errorf("write %s: %w", out, err)
			}
			slog.Info("calendar exported", "path", out, "series", len(series), "todos", len(todos))
			return nil
		},
	}
	cmd.Flags().StringVarP(&out, "out", "o", "", "file to write (defaults to stdout)")
	return cmd
}
