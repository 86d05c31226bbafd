package recurrence

import (
	"slices"

	"cloud.google.com/go/civil"

	"github.com/dukerupert/cadence/internal/calendar"
)

// Rule is a recurring task definition.
type Rule struct {
	ID      string
	Start   civil.Date
	Until   *civil.Date // inclusive; nil = never ends
	Pattern Pattern
	Active  bool
}

// OccursOn reports whether the rule is scheduled on d.
func (r Rule) OccursOn(d civil.Date) bool {
	if !r.Active {
		return false
	}
	if d.Before(r.Start) {
		return false
	}
	if r.Until != nil && d.After(*r.Until) {
		return false
	}

	switch p := Normalize(r.Pattern).(type) {
	case Daily:
		n := d.DaysSince(r.Start)
		return n >= 0 && n%p.Interval == 0

	case Weekly:
		weeks := calendar.StartOfWeek(d).DaysSince(calendar.StartOfWeek(r.Start)) / 7
		if weeks < 0 || weeks%p.Interval != 0 {
			return false
		}
		return slices.Contains(p.Days, calendar.Weekday(d))

	case Monthly:
		m := calendar.MonthsBetween(d, r.Start)
		if m < 0 || m%p.Interval != 0 {
			return false
		}
		return p.Mode.matches(d)
	}
	return false
}

// EffectiveEnd returns the last date a rollup for r may look at: today, or
// the rule's end date when that comes first.
func (r Rule) EffectiveEnd(today civil.Date) civil.Date {
	if r.Until != nil {
		return calendar.Min(*r.Until, today)
	}
	return today
}
