// Package ics renders to-dos and series as an iCalendar feed so they can be
// subscribed to from an ordinary calendar app.
package ics

import (
	"time"

	"cloud.google.com/go/civil"
	ical "github.com/arran4/golang-ical"

	"github.com/dukerupert/cadence/internal/model"
	"github.com/dukerupert/cadence/internal/recurrence"
)

const productID = "-//cadence//todo export//EN"

// Export builds a calendar holding one all-day VEVENT per active series,
// carrying its RRULE, and one per one-off todo. stamp is written as DTSTAMP
// on every event so output is reproducible.
//
// A series event starts on its first occurrence rather than its start date,
// since DTSTART is itself an instance of the event. Series that never occur
// are left out.
func Export(series []model.Series, todos []model.Todo, stamp time.Time) string {
	cal := ical.NewCalendar()
	cal.SetMethod(ical.MethodPublish)
	cal.SetProductId(productID)

	for _, s := range series {
		if !s.Active {
			continue
		}
		first, ok := recurrence.Next(s.Rule, s.Start.AddDays(-1))
		if !ok {
			continue
		}
		ev := cal.AddEvent("series-" + s.ID)
		ev.SetSummary(s.Title)
		ev.SetDtStampTime(stamp)
		ev.SetAllDayStartAt(midnight(first))
		ev.SetAllDayEndAt(midnight(first.AddDays(1)))
		ev.SetProperty(ical.ComponentPropertyRrule, recurrence.Format(s.Pattern, s.Until))
	}

	for _, t := range todos {
		ev := cal.AddEvent("todo-" + t.ID)
		ev.SetSummary(t.Title)
		ev.SetDtStampTime(stamp)
		ev.SetAllDayStartAt(midnight(t.Due))
		ev.SetAllDayEndAt(midnight(t.Due.AddDays(1)))
		if t.Completed {
			ev.SetProperty(ical.ComponentPropertyStatus, "COMPLETED")
		}
	}

	return cal.Serialize()
}

func midnight(d civil.Date) time.Time {
	return d.In(time.UTC)
}
