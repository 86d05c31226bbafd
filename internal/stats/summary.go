package stats

import (
	"cmp"
	"slices"
	"strings"

	"cloud.google.com/go/civil"

	"github.com/dukerupert/cadence/internal/model"
)

// Day holds the scheduled and completed counts summed across all series for
// one date.
type Day struct {
	Date      civil.Date `json:"date"`
	Scheduled int        `json:"scheduled"`
	Completed int        `json:"completed"`
}

// Power reports whether every to-do scheduled on the day was completed.
func (d Day) Power() bool {
	return d.Scheduled > 0 && d.Completed == d.Scheduled
}

// Row is the rollup of one series.
type Row struct {
	ID    string `json:"id"`
	Title string `json:"title"`
	Result
}

// Summary is the rollup across every active series of an owner.
type Summary struct {
	Rows           []Row `json:"rows"`
	Days           []Day `json:"days"`
	TotalScheduled int   `json:"total_scheduled"`
	TotalCompleted int   `json:"total_completed"`
	PowerDays      int   `json:"power_days"`
	Streak         int   `json:"streak"`
}

// Rate returns the overall completion rate, or 0 when nothing was scheduled.
func (s Summary) Rate() float64 {
	return rate(s.TotalCompleted, s.TotalScheduled)
}

// Summarize rolls up every active series independently, then sums the
// per-date counts across series to derive power days and the aggregate
// streak. Rows are sorted by title.
func Summarize(series []model.Series, history model.History, today civil.Date) Summary {
	var sum Summary
	byDate := make(map[civil.Date]*Day)

	for _, s := range series {
		if !s.Active {
			continue
		}

		var res Result
		walk(s.Rule, history.For(s.ID), s.Start, s.EffectiveEnd(today), func(d civil.Date, completed bool) {
			res.add(completed)

			day, ok := byDate[d]
			if !ok {
				day = &Day{Date: d}
				byDate[d] = day
			}
			day.Scheduled++
			if completed {
				day.Completed++
			}
		})

		sum.Rows = append(sum.Rows, Row{ID: s.ID, Title: s.Title, Result: res})
		sum.TotalScheduled += res.TotalScheduled
		sum.TotalCompleted += res.TotalCompleted
	}

	slices.SortFunc(sum.Rows, func(a, b Row) int {
		return cmp.Or(
			strings.Compare(strings.ToLower(a.Title), strings.ToLower(b.Title)),
			strings.Compare(a.ID, b.ID),
		)
	})

	sum.Days = make([]Day, 0, len(byDate))
	for _, d := range byDate {
		sum.Days = append(sum.Days, *d)
	}
	slices.SortFunc(sum.Days, func(a, b Day) int { return compareDates(a.Date, b.Date) })

	sum.PowerDays = PowerDays(sum.Days)
	sum.Streak = Streak(sum.Days, today)
	return sum
}

// PowerDays counts the days on which everything scheduled was completed.
func PowerDays(days []Day) int {
	n := 0
	for _, d := range days {
		if d.Power() {
			n++
		}
	}
	return n
}

// Streak walks days backward from today and counts consecutive scheduled
// days with at least one completion. Days after today and days with nothing
// scheduled are skipped; the first scheduled day with zero completions ends
// the streak. days must be sorted ascending.
//
// Unlike Result.CurrentStreak, a day only needs one completion to count.
func Streak(days []Day, today civil.Date) int {
	streak := 0
	for i := len(days) - 1; i >= 0; i-- {
		d := days[i]
		if d.Date.After(today) || d.Scheduled == 0 {
			continue
		}
		if d.Completed == 0 {
			break
		}
		streak++
	}
	return streak
}

func compareDates(a, b civil.Date) int {
	switch {
	case a.Before(b):
		return -1
	case a.After(b):
		return 1
	}
	return 0
}
