// Package stats aggregates completion records into scheduled/completed
// counts, streaks and calendar-grid classifications. Every function is a pure
// function of its arguments; "today" is always passed in by the caller.
package stats

import (
	"cloud.google.com/go/civil"

	"github.com/dukerupert/cadence/internal/calendar"
	"github.com/dukerupert/cadence/internal/model"
	"github.com/dukerupert/cadence/internal/recurrence"
)

// Result summarizes completions over a date range.
type Result struct {
	TotalScheduled int `json:"total_scheduled"`
	TotalCompleted int `json:"total_completed"`
	CurrentStreak  int `json:"current_streak"`
	LongestStreak  int `json:"longest_streak"`
}

// Rate returns TotalCompleted / TotalScheduled, or 0 when nothing was scheduled.
func (r Result) Rate() float64 {
	return rate(r.TotalCompleted, r.TotalScheduled)
}

func rate(completed, scheduled int) float64 {
	if scheduled <= 0 {
		return 0
	}
	return float64(completed) / float64(scheduled)
}

// Rollup computes the result for a rule over [rule.Start, EffectiveEnd].
//
// Streaks count scheduled occurrences only, so CurrentStreak is the run ending
// at the last scheduled date on or before the effective end, which need not
// be today.
func Rollup(rule recurrence.Rule, done model.Completions, today civil.Date) Result {
	return RollupWindow(rule, done, rule.Start, rule.EffectiveEnd(today))
}

// RollupWindow is Rollup restricted to [from, to], clipped to the rule's own
// start and end date. Streaks only see occurrences inside the window.
func RollupWindow(rule recurrence.Rule, done model.Completions, from, to civil.Date) Result {
	var res Result
	walk(rule, done, from, to, func(_ civil.Date, completed bool) {
		res.add(completed)
	})
	return res
}

// add folds the next scheduled occurrence into the result.
func (r *Result) add(completed bool) {
	r.TotalScheduled++
	if !completed {
		r.CurrentStreak = 0
		return
	}
	r.TotalCompleted++
	r.CurrentStreak++
	r.LongestStreak = max(r.LongestStreak, r.CurrentStreak)
}

// walk calls fn for every scheduled date of rule in [from, to] in ascending order.
func walk(rule recurrence.Rule, done model.Completions, from, to civil.Date, fn func(d civil.Date, completed bool)) {
	from = calendar.Max(from, rule.Start)
	if rule.Until != nil {
		to = calendar.Min(to, *rule.Until)
	}
	if to.Before(from) {
		return
	}
	for d := range calendar.Days(from, to) {
		if !rule.OccursOn(d) {
			continue
		}
		fn(d, done.Done(d))
	}
}

// Single treats a one-off todo as a schedule with one occurrence on its due
// date. The occurrence counts once it is due or already completed.
func Single(todo model.Todo, today civil.Date) Result {
	if todo.Due.After(today) && !todo.Completed {
		return Result{}
	}
	if !todo.Completed {
		return Result{TotalScheduled: 1}
	}
	return Result{TotalScheduled: 1, TotalCompleted: 1, CurrentStreak: 1, LongestStreak: 1}
}
