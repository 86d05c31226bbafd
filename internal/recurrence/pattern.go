package recurrence

import (
	"time"

	"cloud.google.com/go/civil"

	"github.com/dukerupert/cadence/internal/calendar"
)

// LastWeek selects the final occurrence of a weekday in a month.
const LastWeek = calendar.LastWeek

// Pattern is one of Daily, Weekly or Monthly.
type Pattern interface {
	isPattern()
}

// Daily occurs every Interval days starting from the rule's start date.
type Daily struct {
	Interval int
}

// Weekly occurs on Days within every Interval-th week. Weeks start on Sunday
// and are counted from the week containing the rule's start date.
type Weekly struct {
	Interval int
	Days     []time.Weekday
}

// Monthly occurs every Interval-th month from the start month, on the day
// selected by Mode.
type Monthly struct {
	Interval int
	Mode     MonthlyMode
}

func (Daily) isPattern()   {}
func (Weekly) isPattern()  {}
func (Monthly) isPattern() {}

// MonthlyMode is one of DayOfMonth or NthWeekday.
type MonthlyMode interface {
	matches(d civil.Date) bool
}

// DayOfMonth matches a fixed day number. Months without that day are skipped.
type DayOfMonth struct {
	Day int
}

// NthWeekday matches the Nth Weekday of the month, or the last one when Nth
// is LastWeek. Months without an Nth occurrence are skipped.
type NthWeekday struct {
	Nth     int
	Weekday time.Weekday
}

func (m DayOfMonth) matches(d civil.Date) bool {
	return d.Day == m.Day
}

func (m NthWeekday) matches(d civil.Date) bool {
	want, ok := calendar.NthWeekday(d.Year, d.Month, m.Weekday, m.Nth)
	return ok && want == d
}

// Normalize applies the fallback policy for patterns read from loosely
// validated sources:
//
//   - an interval below 1 is clamped to 1
//   - a nil pattern becomes Daily{Interval: 1}
//   - a Monthly pattern with no mode becomes DayOfMonth{Day: 1}
//
// Normalize never fails and OccursOn applies it on every call.
func Normalize(p Pattern) Pattern {
	switch v := p.(type) {
	case Daily:
		v.Interval = clamp(v.Interval)
		return v
	case Weekly:
		v.Interval = clamp(v.Interval)
		return v
	case Monthly:
		v.Interval = clamp(v.Interval)
		if v.Mode == nil {
			v.Mode = DayOfMonth{Day: 1}
		}
		return v
	default:
		return Daily{Interval: 1}
	}
}

func clamp(interval int) int {
	if interval < 1 {
		return 1
	}
	return interval
}
