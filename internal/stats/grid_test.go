package stats

import (
	"testing"
	"time"

	"cloud.google.com/go/civil"

	"github.com/dukerupert/cadence/internal/model"
	"github.com/dukerupert/cadence/internal/recurrence"
)

func cellOn(t *testing.T, m Month, d civil.Date) Cell {
	t.Helper()
	for _, c := range m.Cells {
		if c.Date == d {
			return c
		}
	}
	t.Fatalf("no cell for %v", d)
	return Cell{}
}

func TestClassify(t *testing.T) {
	r := recurrence.Rule{
		ID:      "mwf",
		Start:   date("2024-02-01"),
		Pattern: recurrence.Weekly{Interval: 1, Days: []time.Weekday{time.Monday, time.Wednesday, time.Friday}},
		Active:  true,
	}
	done := model.Completions{date("2024-02-02"): true, date("2024-02-16"): true}
	today := date("2024-02-14")

	tests := []struct {
		date string
		want DayStatus
	}{
		{"2024-02-01", StatusNone},
		{"2024-02-02", StatusDone},
		{"2024-02-05", StatusMissed},
		{"2024-02-14", StatusMissed},
		{"2024-02-15", StatusFuture},
		{"2024-02-16", StatusFuture},
		{"2024-01-31", StatusNone},
	}

	for _, tt := range tests {
		if got := Classify(r, done, date(tt.date), today); got != tt.want {
			t.Errorf("Classify(%s) = %q, want %q", tt.date, got, tt.want)
		}
	}
}

func TestClassifyTodo(t *testing.T) {
	today := date("2024-03-15")
	open := model.Todo{ID: "t1", Due: date("2024-03-10")}
	done := model.Todo{ID: "t2", Due: date("2024-03-10"), Completed: true}

	if got := ClassifyTodo(open, date("2024-03-10"), today); got != StatusMissed {
		t.Errorf("open due day = %q, want missed", got)
	}
	if got := ClassifyTodo(done, date("2024-03-10"), today); got != StatusDone {
		t.Errorf("done due day = %q, want done", got)
	}
	if got := ClassifyTodo(open, date("2024-03-09"), today); got != StatusNone {
		t.Errorf("other day = %q, want none", got)
	}
	if got := ClassifyTodo(open, date("2024-03-20"), today); got != StatusFuture {
		t.Errorf("future day = %q, want future", got)
	}
}

func TestMonthGrid(t *testing.T) {
	r := recurrence.Rule{
		ID:      "mwf",
		Start:   date("2024-01-01"),
		Pattern: recurrence.Weekly{Interval: 1, Days: []time.Weekday{time.Monday, time.Wednesday, time.Friday}},
		Active:  true,
	}
	done := model.Completions{
		date("2024-02-02"): true,
		date("2024-02-05"): true,
		date("2024-02-07"): true,
		date("2024-02-14"): true,
		date("2024-01-31"): true,
	}

	m := MonthGrid(r, done, 2024, time.February, date("2024-02-14"))

	if m.Lead != 4 {
		t.Errorf("Lead = %d, want 4", m.Lead)
	}
	if len(m.Cells) != 29 {
		t.Errorf("cells = %d, want 29", len(m.Cells))
	}
	if m.Trail() != 2 {
		t.Errorf("Trail = %d, want 2", m.Trail())
	}
	if m.Scheduled != 6 || m.Completed != 4 {
		t.Errorf("month = %d/%d, want 4/6", m.Completed, m.Scheduled)
	}
	if got, want := m.Rate(), 4.0/6.0; got != want {
		t.Errorf("Rate = %v, want %v", got, want)
	}

	checks := map[string]DayStatus{
		"2024-02-01": StatusNone,
		"2024-02-02": StatusDone,
		"2024-02-09": StatusMissed,
		"2024-02-14": StatusDone,
		"2024-02-15": StatusFuture,
		"2024-02-16": StatusFuture,
	}
	for ds, want := range checks {
		if got := cellOn(t, m, date(ds)).Status; got != want {
			t.Errorf("%s = %q, want %q", ds, got, want)
		}
	}
	if !cellOn(t, m, date("2024-02-16")).Scheduled {
		t.Error("future Friday should still be marked scheduled")
	}
}

func TestMonthGridLeapAndLead(t *testing.T) {
	r := recurrence.Rule{ID: "d", Start: date("2024-01-01"), Pattern: recurrence.Daily{Interval: 1}, Active: true}

	// September 2024 starts on a Sunday.
	m := MonthGrid(r, nil, 2024, time.September, date("2024-12-31"))
	if m.Lead != 0 || len(m.Cells) != 30 || m.Trail() != 5 {
		t.Errorf("Sep 2024 lead=%d cells=%d trail=%d", m.Lead, len(m.Cells), m.Trail())
	}
	if m.Scheduled != 30 || m.Completed != 0 {
		t.Errorf("Sep 2024 = %d/%d, want 0/30", m.Completed, m.Scheduled)
	}

	m = MonthGrid(r, nil, 2023, time.February, date("2024-12-31"))
	if len(m.Cells) != 28 || m.Scheduled != 0 {
		t.Errorf("Feb 2023 cells=%d scheduled=%d, want 28 and 0", len(m.Cells), m.Scheduled)
	}
}

func TestTodoMonthGrid(t *testing.T) {
	todo := model.Todo{ID: "t1", Due: date("2024-03-10")}
	today := date("2024-03-15")

	m := TodoMonthGrid(todo, 2024, time.March, today)
	if m.Scheduled != 1 || m.Completed != 0 {
		t.Errorf("March = %d/%d, want 0/1", m.Completed, m.Scheduled)
	}
	if got := cellOn(t, m, date("2024-03-10")).Status; got != StatusMissed {
		t.Errorf("due day = %q, want missed", got)
	}

	m = TodoMonthGrid(todo, 2024, time.April, today)
	if m.Scheduled != 0 {
		t.Errorf("April scheduled = %d, want 0", m.Scheduled)
	}

	future := model.Todo{ID: "t2", Due: date("2024-03-20"), Completed: true}
	m = TodoMonthGrid(future, 2024, time.March, today)
	if m.Scheduled != 0 {
		t.Errorf("future todo scheduled = %d, want 0", m.Scheduled)
	}
	if got := cellOn(t, m, date("2024-03-20")).Status; got != StatusFuture {
		t.Errorf("future due day = %q, want future", got)
	}
}
