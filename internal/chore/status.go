package chore

import (
	"cmp"
	"slices"
	"strings"

	"cloud.google.com/go/civil"

	"github.com/dukerupert/cadence/internal/model"
	"github.com/dukerupert/cadence/internal/recurrence"
)

type Status string

const (
	StatusPending   Status = "pending"
	StatusCompleted Status = "completed"
	StatusOverdue   Status = "overdue"
	StatusNotDue    Status = "not_due"
)

// rank orders agenda items: things needing attention first.
var rank = map[Status]int{
	StatusOverdue:   0,
	StatusPending:   1,
	StatusCompleted: 2,
	StatusNotDue:    3,
}

type Kind string

const (
	KindTodo   Kind = "todo"
	KindSeries Kind = "series"
)

// Item is one line of the agenda.
type Item struct {
	Kind   Kind        `json:"kind"`
	ID     string      `json:"id"`
	Title  string      `json:"title"`
	Status Status      `json:"status"`
	Due    *civil.Date `json:"due,omitempty"`
	Next   *civil.Date `json:"next,omitempty"`
}

// Agenda is the state of every to-do as seen from one day.
type Agenda struct {
	Items []Item `json:"items"`
	// Remaining counts the to-dos scheduled for today that are still open.
	Remaining int `json:"remaining"`
}

// TodoStatus determines the status of a one-off todo.
func TodoStatus(todo model.Todo, today civil.Date) Status {
	switch {
	case todo.Completed:
		return StatusCompleted
	case todo.Due.After(today):
		return StatusNotDue
	case todo.Due.Before(today):
		return StatusOverdue
	default:
		return StatusPending
	}
}

// SeriesStatus determines the status and current due date of a series. The
// current due date is the latest occurrence on or before today.
func SeriesStatus(s model.Series, done model.Completions, today civil.Date) (Status, *civil.Date) {
	due, ok := recurrence.Previous(s.Rule, today)
	if !ok {
		return StatusNotDue, nil
	}

	if done.Done(due) {
		return StatusCompleted, &due
	}
	if due.Before(today) {
		return StatusOverdue, &due
	}
	return StatusPending, &due
}

// Build assembles the agenda for today. Inactive series are left out.
func Build(todos []model.Todo, series []model.Series, history model.History, today civil.Date) Agenda {
	var a Agenda

	for _, t := range todos {
		due := t.Due
		a.Items = append(a.Items, Item{
			Kind:   KindTodo,
			ID:     t.ID,
			Title:  t.Title,
			Status: TodoStatus(t, today),
			Due:    &due,
		})
		if t.Due == today && !t.Completed {
			a.Remaining++
		}
	}

	for _, s := range series {
		if !s.Active {
			continue
		}
		done := history.For(s.ID)
		status, due := SeriesStatus(s, done, today)

		item := Item{Kind: KindSeries, ID: s.ID, Title: s.Title, Status: status, Due: due}
		if next, ok := recurrence.Next(s.Rule, today); ok {
			item.Next = &next
		}
		a.Items = append(a.Items, item)

		if s.OccursOn(today) && !done.Done(today) {
			a.Remaining++
		}
	}

	slices.SortFunc(a.Items, func(x, y Item) int {
		return cmp.Or(
			cmp.Compare(rank[x.Status], rank[y.Status]),
			strings.Compare(strings.ToLower(x.Title), strings.ToLower(y.Title)),
			strings.Compare(x.ID, y.ID),
		)
	})
	return a
}
