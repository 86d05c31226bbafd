package main

import (
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"cloud.google.com/go/civil"
	"github.com/spf13/cobra"

	"github.com/dukerupert/cadence/internal/model"
	"github.com/dukerupert/cadence/internal/recurrence"
)

func newSeriesCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "series",
		Short: "Manage recurring to-dos",
	}
	cmd.AddCommand(
		newSeriesAddCmd(a),
		newSeriesListCmd(a),
		newSeriesEditCmd(a),
		newSeriesActiveCmd(a, "pause", false),
		newSeriesActiveCmd(a, "resume", true),
		newSeriesRmCmd(a),
	)
	return cmd
}

// patternFlags collects a recurrence pattern either as a raw RRULE or from
// individual frequency flags.
type patternFlags struct {
	rrule      string
	freq       string
	interval   int
	days       []string
	dayOfMonth int
	nth        string
	weekday    string
	until      string
}

func (f *patternFlags) register(cmd *cobra.Command) {
	fl := cmd.Flags()
	fl.StringVar(&f.rrule, "rrule", "", "RRULE such as FREQ=WEEKLY;BYDAY=MO,TH (replaces the other pattern flags)")
	fl.StringVar(&f.freq, "freq", "daily", "daily, weekly or monthly")
	fl.IntVar(&f.interval, "interval", 1, "repeat every N days, weeks or months")
	fl.StringSliceVar(&f.days, "days", nil, "weekdays for weekly series, e.g. mon,thu")
	fl.IntVar(&f.dayOfMonth, "day-of-month", 0, "day of month for monthly series (defaults to the start day)")
	fl.StringVar(&f.nth, "nth", "1", "week of month for --weekday: 1-5 or last")
	fl.StringVar(&f.weekday, "weekday", "", "weekday for monthly series, e.g. fri")
	fl.StringVar(&f.until, "until", "", "last date the series can occur (YYYY-MM-DD)")
}

// patternChanged reports whether any flag describing the pattern itself,
// rather than its end date, was given.
func patternChanged(cmd *cobra.Command) bool {
	for _, name := range []string{"rrule", "freq", "interval", "days", "day-of-month", "nth", "weekday"} {
		if cmd.Flags().Changed(name) {
			return true
		}
	}
	return false
}

func (f *patternFlags) build(start civil.Date) (recurrence.Pattern, *civil.Date, error) {
	var until *civil.Date
	if f.until != "" {
		d, err := dateFlag("until", f.until, civil.Date{})
		if err != nil {
			return nil, nil, err
		}
		until = &d
	}

	if f.rrule != "" {
		p, ruleUntil, err := recurrence.Parse(f.rrule)
		if err != nil {
			return nil, nil, err
		}
		if until == nil {
			until = ruleUntil
		}
		return p, until, nil
	}

	if f.interval < 1 {
		return nil, nil, fmt.Errorf("--interval must be at least 1, got %d", f.interval)
	}

	switch strings.ToLower(f.freq) {
	case "daily":
		return recurrence.Daily{Interval: f.interval}, until, nil

	case "weekly":
		if len(f.days) == 0 {
			return nil, nil, errors.New("weekly series need --days")
		}
		var days []time.Weekday
		for _, s := range f.days {
			wd, err := parseWeekday(s)
			if err != nil {
				return nil, nil, err
			}
			days = append(days, wd)
		}
		return recurrence.Weekly{Interval: f.interval, Days: days}, until, nil

	case "monthly":
		if f.weekday != "" {
			wd, err := parseWeekday(f.weekday)
			if err != nil {
				return nil, nil, err
			}
			nth, err := parseNth(f.nth)
			if err != nil {
				return nil, nil, err
			}
			return recurrence.Monthly{Interval: f.interval, Mode: recurrence.NthWeekday{Nth: nth, Weekday: wd}}, until, nil
		}
		day := f.dayOfMonth
		if day == 0 {
			day = start.Day
		}
		if day < 1 || day > 31 {
			return nil, nil, fmt.Errorf("--day-of-month must be 1-31, got %d", day)
		}
		return recurrence.Monthly{Interval: f.interval, Mode: recurrence.DayOfMonth{Day: day}}, until, nil

	default:
		return nil, nil, fmt.Errorf("unknown frequency %q", f.freq)
	}
}

func parseWeekday(s string) (time.Weekday, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if len(s) >= 2 {
		for wd := time.Sunday; wd <= time.Saturday; wd++ {
			if strings.HasPrefix(strings.ToLower(wd.String()), s) {
				return wd, nil
			}
		}
	}
	return 0, fmt.Errorf("unknown weekday %q", s)
}

func parseNth(s string) (int, error) {
	if strings.EqualFold(s, "last") {
		return recurrence.LastWeek, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < 1 || n > 5 {
		return 0, fmt.Errorf("--nth must be 1-5 or last, got %q", s)
	}
	return n, nil
}

func newSeriesAddCmd(a *app) *cobra.Command {
	var pf patternFlags
	var start string

	cmd := &cobra.Command{
		Use:   "add <title>",
		Short: "Add a recurring to-do",
		Long: `Add a recurring to-do.

Examples:
  # Every day from today
  cadence series add "Feed the cat"

  # Every other week on Monday and Thursday
  cadence series add "Take out bins" --freq weekly --interval 2 --days mon,thu

  # Last Friday of every month
  cadence series add "Pay allowance" --freq monthly --weekday fri --nth last

  # Straight from an RRULE
  cadence series add "Water plants" --rrule "FREQ=DAILY;INTERVAL=3"`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			startDate, err := dateFlag("start", start, a.today)
			if err != nil {
				return err
			}
			pattern, until, err := pf.build(startDate)
			if err != nil {
				return err
			}

			s, err := a.series.Create(a.owner, strings.Join(args, " "), startDate, pattern, until)
			if err != nil {
				return err
			}
			slog.Info("series created", "series_id", s.ID, "rrule", recurrence.Format(s.Pattern, s.Until))

			if a.json {
				return writeJSON(cmd.OutOrStdout(), seriesView(*s, a.today))
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s (%s)\n", s.ID, s.Title, recurrence.Describe(s.Pattern))
			return nil
		},
	}
	pf.register(cmd)
	cmd.Flags().StringVar(&start, "start", "", "first date of the series (defaults to today)")
	return cmd
}

type seriesRow struct {
	ID       string      `json:"id"`
	Title    string      `json:"title"`
	RRule    string      `json:"rrule"`
	Schedule string      `json:"schedule"`
	Start    civil.Date  `json:"start"`
	Until    *civil.Date `json:"until,omitempty"`
	Active   bool        `json:"active"`
	Next     *civil.Date `json:"next,omitempty"`
}

func seriesView(s model.Series, today civil.Date) seriesRow {
	row := seriesRow{
		ID:       s.ID,
		Title:    s.Title,
		RRule:    recurrence.Format(s.Pattern, s.Until),
		Schedule: recurrence.Describe(s.Pattern),
		Start:    s.Start,
		Until:    s.Until,
		Active:   s.Active,
	}
	// Next strictly after yesterday, so an occurrence today counts.
	if next, ok := recurrence.Next(s.Rule, today.AddDays(-1)); ok {
		row.Next = &next
	}
	return row
}

func newSeriesListCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List recurring to-dos",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			list, err := a.series.ListByOwner(a.owner)
			if err != nil {
				return err
			}

			rows := make([]seriesRow, 0, len(list))
			for _, s := range list {
				rows = append(rows, seriesView(s, a.today))
			}
			if a.json {
				return writeJSON(cmd.OutOrStdout(), rows)
			}

			tw := newTable(cmd.OutOrStdout())
			fmt.Fprintln(tw, "ID\tTITLE\tSCHEDULE\tSTART\tUNTIL\tACTIVE\tNEXT")
			for _, r := range rows {
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%t\t%s\n",
					r.ID, r.Title, r.Schedule, r.Start, dateOrDash(r.Until), r.Active, dateOrDash(r.Next))
			}
			return tw.Flush()
		},
	}
}

func newSeriesEditCmd(a *app) *cobra.Command {
	var pf patternFlags
	var title, start string

	cmd := &cobra.Command{
		Use:   "edit <series-id>",
		Short: "Change the title, start or schedule of a recurring to-do",
		Long: `Change the title, start or schedule of a recurring to-do.

Pattern flags replace the whole schedule; without them the current pattern
is kept and only --until, --start or --title change. Recorded completions
are kept.

Examples:
  # Move bins to Tuesdays
  cadence series edit 6f1c... --freq weekly --days tue

  # Stop the series at the end of the year
  cadence series edit 6f1c... --until 2024-12-31`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := a.series.GetByID(args[0])
			if err != nil {
				return err
			}
			if s == nil {
				return fmt.Errorf("series %s not found", args[0])
			}

			if title == "" {
				title = s.Title
			}
			startDate, err := dateFlag("start", start, s.Start)
			if err != nil {
				return err
			}

			pattern, until := s.Pattern, s.Until
			if patternChanged(cmd) {
				pattern, until, err = pf.build(startDate)
				if err != nil {
					return err
				}
			} else if pf.until != "" {
				d, err := dateFlag("until", pf.until, civil.Date{})
				if err != nil {
					return err
				}
				until = &d
			}

			s, err = a.series.Update(s.ID, title, startDate, pattern, until)
			if err != nil {
				return err
			}
			slog.Info("series updated", "series_id", s.ID, "rrule", recurrence.Format(s.Pattern, s.Until))

			if a.json {
				return writeJSON(cmd.OutOrStdout(), seriesView(*s, a.today))
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s (%s)\n", s.ID, s.Title, recurrence.Describe(s.Pattern))
			return nil
		},
	}
	pf.register(cmd)
	cmd.Flags().StringVar(&title, "title", "", "new title")
	cmd.Flags().StringVar(&start, "start", "", "new first date of the series")
	return cmd
}

func newSeriesActiveCmd(a *app, verb string, active bool) *cobra.Command {
	return &cobra.Command{
		Use:   verb + " <series-id>",
		Short: strings.ToUpper(verb[:1]) + verb[1:] + " a recurring to-do",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := a.series.SetActive(args[0], active)
			if err != nil {
				return err
			}
			if s == nil {
				return fmt.Errorf("series %s not found", args[0])
			}
			slog.Info("series updated", "series_id", s.ID, "active", s.Active)
			fmt.Fprintf(cmd.OutOrStdout(), "%s\tactive=%t\n", s.ID, s.Active)
			return nil
		},
	}
}

func newSeriesRmCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "rm <series-id>",
		Short: "Delete a recurring to-do and its completion history",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := a.series.GetByID(args[0])
			if err != nil {
				return err
			}
			if s == nil {
				return fmt.Errorf("series %s not found", args[0])
			}
			if err := a.series.Delete(s.ID); err != nil {
				return err
			}
			slog.Info("series deleted", "series_id", s.ID)
			return nil
		},
	}
}
