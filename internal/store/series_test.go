package store

import (
	"database/sql"
	"testing"
	"time"

	"cloud.google.com/go/civil"

	"github.com/dukerupert/cadence/internal/calendar"
	"github.com/dukerupert/cadence/internal/database"
	"github.com/dukerupert/cadence/internal/recurrence"
)

func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := database.Open(":memory:")
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func date(s string) civil.Date {
	return calendar.MustParse(s)
}

func TestSeriesCRUD(t *testing.T) {
	ss := NewSeriesStore(setupTestDB(t))

	until := date("2024-12-31")
	pattern := recurrence.Weekly{Interval: 2, Days: []time.Weekday{time.Monday, time.Thursday}}

	// Create
	s, err := ss.Create("alice", "Water plants", date("2024-01-01"), pattern, &until)
	if err != nil {
		t.Fatalf("create series: %v", err)
	}
	if s.ID == "" {
		t.Fatal("expected generated id")
	}
	if s.Title != "Water plants" {
		t.Errorf("title = %q, want %q", s.Title, "Water plants")
	}
	if !s.Active {
		t.Error("new series should be active")
	}
	if s.Start != date("2024-01-01") {
		t.Errorf("start = %v, want 2024-01-01", s.Start)
	}
	if s.Until == nil || *s.Until != until {
		t.Errorf("until = %v, want %v", s.Until, until)
	}
	got, ok := s.Pattern.(recurrence.Weekly)
	if !ok {
		t.Fatalf("pattern = %T, want Weekly", s.Pattern)
	}
	if got.Interval != 2 || len(got.Days) != 2 || got.Days[0] != time.Monday || got.Days[1] != time.Thursday {
		t.Errorf("pattern = %+v", got)
	}

	// Get by ID
	fetched, err := ss.GetByID(s.ID)
	if err != nil {
		t.Fatalf("get series: %v", err)
	}
	if fetched == nil || fetched.Title != "Water plants" {
		t.Fatalf("fetched = %+v", fetched)
	}

	// Update
	updated, err := ss.Update(s.ID, "Water all plants", date("2024-02-01"),
		recurrence.Monthly{Interval: 1, Mode: recurrence.NthWeekday{Nth: recurrence.LastWeek, Weekday: time.Friday}}, nil)
	if err != nil {
		t.Fatalf("update series: %v", err)
	}
	if updated.Title != "Water all plants" || updated.Until != nil {
		t.Errorf("updated = %+v", updated)
	}
	m, ok := updated.Pattern.(recurrence.Monthly)
	if !ok {
		t.Fatalf("pattern = %T, want Monthly", updated.Pattern)
	}
	if mode, ok := m.Mode.(recurrence.NthWeekday); !ok || mode.Nth != recurrence.LastWeek || mode.Weekday != time.Friday {
		t.Errorf("mode = %+v", m.Mode)
	}

	// Pause
	paused, err := ss.SetActive(s.ID, false)
	if err != nil {
		t.Fatalf("pause series: %v", err)
	}
	if paused.Active {
		t.Error("expected paused series")
	}
	if paused.OccursOn(date("2024-02-23")) {
		t.Error("paused series should not occur")
	}

	// Delete
	if err := ss.Delete(s.ID); err != nil {
		t.Fatalf("delete series: %v", err)
	}
	gone, err := ss.GetByID(s.ID)
	if err != nil {
		t.Fatalf("get deleted: %v", err)
	}
	if gone != nil {
		t.Error("expected nil after delete")
	}
}

func TestSeriesListByOwner(t *testing.T) {
	ss := NewSeriesStore(setupTestDB(t))

	ss.Create("alice", "Walk dog", date("2024-01-01"), recurrence.Daily{Interval: 1}, nil)
	ss.Create("alice", "Bins", date("2024-01-01"), recurrence.Weekly{Interval: 1, Days: []time.Weekday{time.Monday}}, nil)
	ss.Create("bob", "Laundry", date("2024-01-01"), recurrence.Daily{Interval: 3}, nil)

	list, err := ss.ListByOwner("alice")
	if err != nil {
		t.Fatalf("list series: %v", err)
	}
	if len(list) != 2 {
		t.Fatalf("len = %d, want 2", len(list))
	}
	if list[0].Title != "Bins" || list[1].Title != "Walk dog" {
		t.Errorf("order = %q, %q", list[0].Title, list[1].Title)
	}

	none, err := ss.ListByOwner("carol")
	if err != nil {
		t.Fatalf("list series: %v", err)
	}
	if len(none) != 0 {
		t.Errorf("len = %d, want 0", len(none))
	}
}

func TestSeriesMalformedRuleFallsBackToDaily(t *testing.T) {
	db := setupTestDB(t)
	ss := NewSeriesStore(db)

	_, err := db.Exec(
		`INSERT INTO todo_series (id, owner_id, title, start_date, rrule) VALUES ('bad', 'alice', 'Mystery', '2024-01-01', 'not a rule')`,
	)
	if err != nil {
		t.Fatalf("insert raw series: %v", err)
	}

	s, err := ss.GetByID("bad")
	if err != nil {
		t.Fatalf("get series: %v", err)
	}
	if d, ok := s.Pattern.(recurrence.Daily); !ok || d.Interval != 1 {
		t.Errorf("pattern = %+v, want daily every day", s.Pattern)
	}
	if !s.OccursOn(date("2024-01-05")) {
		t.Error("fallback series should occur daily")
	}
}

func TestSeriesBadStartDate(t *testing.T) {
	db := setupTestDB(t)
	ss := NewSeriesStore(db)

	_, err := db.Exec(
		`INSERT INTO todo_series (id, owner_id, title, start_date, rrule) VALUES ('bad', 'alice', 'Broken', '2024-02-30', 'FREQ=DAILY')`,
	)
	if err != nil {
		t.Fatalf("insert raw series: %v", err)
	}

	if _, err := ss.GetByID("bad"); err == nil {
		t.Error("expected error for impossible start date")
	}
}

func TestSeriesRejectsUnreadableRule(t *testing.T) {
	ss := NewSeriesStore(setupTestDB(t))

	tests := []struct {
		name    string
		pattern recurrence.Pattern
	}{
		{"weekly without days", recurrence.Weekly{Interval: 1}},
		{"zeroth weekday", recurrence.Monthly{Interval: 1, Mode: recurrence.NthWeekday{Nth: 0, Weekday: time.Monday}}},
		{"day zero", recurrence.Monthly{Interval: 1, Mode: recurrence.DayOfMonth{Day: 0}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if s, err := ss.Create("alice", "Never", date("2024-01-01"), tt.pattern, nil); err == nil {
				t.Errorf("create = %+v, want error", s.Pattern)
			}
		})
	}

	list, err := ss.ListByOwner("alice")
	if err != nil {
		t.Fatalf("list series: %v", err)
	}
	if len(list) != 0 {
		t.Errorf("stored %d series, want none", len(list))
	}

	s, err := ss.Create("alice", "Bins", date("2024-01-01"), recurrence.Weekly{Interval: 1, Days: []time.Weekday{time.Monday}}, nil)
	if err != nil {
		t.Fatalf("create series: %v", err)
	}
	if _, err := ss.Update(s.ID, "Bins", s.Start, recurrence.Weekly{Interval: 1}, nil); err == nil {
		t.Error("update with weekly rule without days should fail")
	}

	got, err := ss.GetByID(s.ID)
	if err != nil {
		t.Fatalf("get series: %v", err)
	}
	if got.OccursOn(date("2024-01-02")) {
		t.Error("rejected update must leave the Monday-only rule in place")
	}
	if !got.OccursOn(date("2024-01-08")) {
		t.Error("series should still occur on Mondays")
	}
}
