// Package calendar holds timezone-naive date arithmetic on civil.Date values.
// Nothing here converts through UTC offsets or reads the wall clock.
package calendar

import (
	"fmt"
	"iter"
	"time"

	"cloud.google.com/go/civil"
)

// LastWeek selects the final occurrence of a weekday in NthWeekday.
const LastWeek = -1

// Parse parses a YYYY-MM-DD string. Out-of-range months and days are rejected.
func Parse(s string) (civil.Date, error) {
	d, err := civil.ParseDate(s)
	if err != nil {
		return civil.Date{}, fmt.Errorf("parse date %q: %w", s, err)
	}
	if !d.IsValid() {
		return civil.Date{}, fmt.Errorf("parse date %q: invalid calendar date", s)
	}
	return d, nil
}

// MustParse is like Parse but panics on error. Intended for tests and constants.
func MustParse(s string) civil.Date {
	d, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return d
}

// Weekday returns the day of week for d.
func Weekday(d civil.Date) time.Weekday {
	return d.In(time.UTC).Weekday()
}

// StartOfWeek returns the Sunday on or before d.
func StartOfWeek(d civil.Date) civil.Date {
	return d.AddDays(-int(Weekday(d)))
}

// MonthsBetween returns the calendar-month difference a - b, ignoring the day of month.
func MonthsBetween(a, b civil.Date) int {
	return (a.Year-b.Year)*12 + int(a.Month) - int(b.Month)
}

// DaysInMonth returns the number of days in the given month.
func DaysInMonth(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// FirstOfMonth returns the first day of d's month.
func FirstOfMonth(d civil.Date) civil.Date {
	return civil.Date{Year: d.Year, Month: d.Month, Day: 1}
}

// AddMonths returns the first day of the month delta months away from d's month.
func AddMonths(d civil.Date, delta int) civil.Date {
	t := time.Date(d.Year, d.Month+time.Month(delta), 1, 0, 0, 0, 0, time.UTC)
	return civil.DateOf(t)
}

// NthWeekday resolves the nth weekday of a month. nth counts from 1; LastWeek
// picks the final one. ok is false when the month has no such occurrence or
// nth is neither positive nor LastWeek.
func NthWeekday(year int, month time.Month, weekday time.Weekday, nth int) (civil.Date, bool) {
	last := DaysInMonth(year, month)

	if nth == LastWeek {
		end := civil.Date{Year: year, Month: month, Day: last}
		shift := (int(Weekday(end)) - int(weekday) + 7) % 7
		return end.AddDays(-shift), true
	}
	if nth < 1 {
		return civil.Date{}, false
	}

	first := civil.Date{Year: year, Month: month, Day: 1}
	shift := (int(weekday) - int(Weekday(first)) + 7) % 7
	day := 1 + shift + (nth-1)*7
	if day > last {
		return civil.Date{}, false
	}
	return civil.Date{Year: year, Month: month, Day: day}, true
}

// Min returns the earlier of a and b.
func Min(a, b civil.Date) civil.Date {
	if b.Before(a) {
		return b
	}
	return a
}

// Max returns the later of a and b.
func Max(a, b civil.Date) civil.Date {
	if b.After(a) {
		return b
	}
	return a
}

// Days yields every date from `from` to `to` inclusive in ascending order.
// Nothing is yielded when to is before from.
func Days(from, to civil.Date) iter.Seq[civil.Date] {
	return func(yield func(civil.Date) bool) {
		for d := from; !d.After(to); d = d.AddDays(1) {
			if !yield(d) {
				return
			}
		}
	}
}
