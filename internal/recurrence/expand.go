package recurrence

import (
	"cloud.google.com/go/civil"

	"github.com/dukerupert/cadence/internal/calendar"
)

// maxLookahead bounds forward searches on rules with no end date.
const maxLookahead = 10000

// Expand returns every date in [from, to] on which the rule occurs, in
// ascending order. The walk is clipped to the rule's own start and end.
func Expand(r Rule, from, to civil.Date) []civil.Date {
	from = calendar.Max(from, r.Start)
	if r.Until != nil {
		to = calendar.Min(to, *r.Until)
	}

	var out []civil.Date
	for d := range calendar.Days(from, to) {
		if r.OccursOn(d) {
			out = append(out, d)
		}
	}
	return out
}

// Previous returns the latest occurrence on or before d.
func Previous(r Rule, d civil.Date) (civil.Date, bool) {
	if r.Until != nil {
		d = calendar.Min(d, *r.Until)
	}
	for ; !d.Before(r.Start); d = d.AddDays(-1) {
		if r.OccursOn(d) {
			return d, true
		}
	}
	return civil.Date{}, false
}

// Next returns the earliest occurrence strictly after d. Rules without an end
// date are searched at most maxLookahead days ahead.
func Next(r Rule, d civil.Date) (civil.Date, bool) {
	d = calendar.Max(d.AddDays(1), r.Start)
	limit := d.AddDays(maxLookahead)
	if r.Until != nil {
		limit = calendar.Min(limit, *r.Until)
	}
	for ; !d.After(limit); d = d.AddDays(1) {
		if r.OccursOn(d) {
			return d, true
		}
	}
	return civil.Date{}, false
}
