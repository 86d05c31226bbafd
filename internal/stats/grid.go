package stats

import (
	"time"

	"cloud.google.com/go/civil"

	"github.com/dukerupert/cadence/internal/calendar"
	"github.com/dukerupert/cadence/internal/model"
	"github.com/dukerupert/cadence/internal/recurrence"
)

// DayStatus classifies one calendar day of a single to-do.
type DayStatus string

const (
	StatusNone   DayStatus = "none"
	StatusDone   DayStatus = "done"
	StatusMissed DayStatus = "missed"
	StatusFuture DayStatus = "future"
)

// Classify returns the status of d for a recurring rule.
func Classify(rule recurrence.Rule, done model.Completions, d, today civil.Date) DayStatus {
	return classify(rule.OccursOn(d), done.Done(d), d, today)
}

// ClassifyTodo returns the status of d for a one-off todo, whose only
// scheduled day is its due date.
func ClassifyTodo(todo model.Todo, d, today civil.Date) DayStatus {
	return classify(d == todo.Due, todo.Completed, d, today)
}

// Days after today are future whether or not anything is scheduled on them.
func classify(scheduled, completed bool, d, today civil.Date) DayStatus {
	switch {
	case d.After(today):
		return StatusFuture
	case !scheduled:
		return StatusNone
	case completed:
		return StatusDone
	default:
		return StatusMissed
	}
}

// Cell is one day of a month grid.
type Cell struct {
	Date      civil.Date `json:"date"`
	Scheduled bool       `json:"scheduled"`
	Status    DayStatus  `json:"status"`
}

// Month is a Sunday-first calendar grid for one to-do.
type Month struct {
	Year  int        `json:"year"`
	Month time.Month `json:"month"`
	// Lead is the number of blank cells before the 1st.
	Lead  int    `json:"lead"`
	Cells []Cell `json:"cells"`
	// Scheduled and Completed cover days up to and including today.
	Scheduled int `json:"scheduled"`
	Completed int `json:"completed"`
}

// Trail returns the number of blank cells after the last day that pad the
// grid to whole weeks.
func (m Month) Trail() int {
	return (7 - (m.Lead+len(m.Cells))%7) % 7
}

// Rate returns the month's completion rate, or 0 when nothing was scheduled.
func (m Month) Rate() float64 {
	return rate(m.Completed, m.Scheduled)
}

// MonthGrid classifies every day of the given month for a recurring rule.
// Only the month's own days are evaluated, independent of the rule's age.
func MonthGrid(rule recurrence.Rule, done model.Completions, year int, month time.Month, today civil.Date) Month {
	return buildMonth(year, month, today, func(d civil.Date) (bool, bool) {
		return rule.OccursOn(d), done.Done(d)
	})
}

// TodoMonthGrid classifies every day of the given month for a one-off todo.
func TodoMonthGrid(todo model.Todo, year int, month time.Month, today civil.Date) Month {
	return buildMonth(year, month, today, func(d civil.Date) (bool, bool) {
		return d == todo.Due, todo.Completed
	})
}

func buildMonth(year int, month time.Month, today civil.Date, lookup func(civil.Date) (scheduled, completed bool)) Month {
	first := civil.Date{Year: year, Month: month, Day: 1}
	m := Month{
		Year:  year,
		Month: month,
		Lead:  int(calendar.Weekday(first)),
		Cells: make([]Cell, 0, calendar.DaysInMonth(year, month)),
	}

	for d := range calendar.Days(first, first.AddDays(calendar.DaysInMonth(year, month)-1)) {
		scheduled, completed := lookup(d)
		m.Cells = append(m.Cells, Cell{
			Date:      d,
			Scheduled: scheduled,
			Status:    classify(scheduled, completed, d, today),
		})

		if scheduled && !d.After(today) {
			m.Scheduled++
			if completed {
				m.Completed++
			}
		}
	}
	return m
}
