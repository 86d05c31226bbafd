package calendar

import (
	"testing"
	"time"

	"cloud.google.com/go/civil"
)

func TestParse(t *testing.T) {
	d, err := Parse("2024-02-29")
	if err != nil {
		t.Fatalf("Parse error: %v", err)
	}
	want := civil.Date{Year: 2024, Month: time.February, Day: 29}
	if d != want {
		t.Errorf("Parse = %v, want %v", d, want)
	}
}

func TestParseErrors(t *testing.T) {
	tests := []string{
		"",
		"2024-13-01",
		"2023-02-29",
		"2024-04-31",
		"2024/01/01",
		"yesterday",
	}

	for _, input := range tests {
		if _, err := Parse(input); err == nil {
			t.Errorf("Parse(%q) should error", input)
		}
	}
}

func TestWeekday(t *testing.T) {
	tests := []struct {
		date string
		want time.Weekday
	}{
		{"2024-01-01", time.Monday},
		{"2024-01-07", time.Sunday},
		{"2024-02-29", time.Thursday},
		{"2000-01-01", time.Saturday},
	}

	for _, tt := range tests {
		if got := Weekday(MustParse(tt.date)); got != tt.want {
			t.Errorf("Weekday(%s) = %v, want %v", tt.date, got, tt.want)
		}
	}
}

func TestStartOfWeek(t *testing.T) {
	tests := []struct {
		date string
		want string
	}{
		{"2024-01-01", "2023-12-31"},
		{"2023-12-31", "2023-12-31"},
		{"2024-01-06", "2023-12-31"},
		{"2024-03-02", "2024-02-25"},
	}

	for _, tt := range tests {
		if got := StartOfWeek(MustParse(tt.date)); got != MustParse(tt.want) {
			t.Errorf("StartOfWeek(%s) = %v, want %s", tt.date, got, tt.want)
		}
	}
}

func TestMonthsBetween(t *testing.T) {
	tests := []struct {
		a, b string
		want int
	}{
		{"2024-01-31", "2024-01-01", 0},
		{"2024-02-01", "2024-01-31", 1},
		{"2025-01-15", "2024-03-20", 10},
		{"2023-12-01", "2024-01-01", -1},
	}

	for _, tt := range tests {
		if got := MonthsBetween(MustParse(tt.a), MustParse(tt.b)); got != tt.want {
			t.Errorf("MonthsBetween(%s, %s) = %d, want %d", tt.a, tt.b, got, tt.want)
		}
	}
}

func TestDaysInMonth(t *testing.T) {
	tests := []struct {
		year  int
		month time.Month
		want  int
	}{
		{2024, time.February, 29},
		{2023, time.February, 28},
		{1900, time.February, 28},
		{2000, time.February, 29},
		{2024, time.April, 30},
		{2024, time.December, 31},
	}

	for _, tt := range tests {
		if got := DaysInMonth(tt.year, tt.month); got != tt.want {
			t.Errorf("DaysInMonth(%d, %v) = %d, want %d", tt.year, tt.month, got, tt.want)
		}
	}
}

func TestAddMonths(t *testing.T) {
	d := MustParse("2024-01-31")
	if got := AddMonths(d, 1); got != MustParse("2024-02-01") {
		t.Errorf("AddMonths(+1) = %v", got)
	}
	if got := AddMonths(d, -1); got != MustParse("2023-12-01") {
		t.Errorf("AddMonths(-1) = %v", got)
	}
	if got := AddMonths(d, 12); got != MustParse("2025-01-01") {
		t.Errorf("AddMonths(+12) = %v", got)
	}
}

func TestNthWeekday(t *testing.T) {
	tests := []struct {
		name    string
		year    int
		month   time.Month
		weekday time.Weekday
		nth     int
		want    string
		ok      bool
	}{
		{"first monday", 2024, time.January, time.Monday, 1, "2024-01-01", true},
		{"second tuesday", 2024, time.January, time.Tuesday, 2, "2024-01-09", true},
		{"fourth friday", 2024, time.March, time.Friday, 4, "2024-03-22", true},
		{"fifth monday exists", 2024, time.January, time.Monday, 5, "2024-01-29", true},
		{"fifth monday absent", 2024, time.February, time.Monday, 5, "", false},
		// Feb 2024 has four Mondays, April 2024 has five.
		{"last monday four-week month", 2024, time.February, time.Monday, LastWeek, "2024-02-26", true},
		{"last monday five-week month", 2024, time.April, time.Monday, LastWeek, "2024-04-29", true},
		{"last day is the weekday", 2024, time.March, time.Sunday, LastWeek, "2024-03-31", true},
		{"zero nth", 2024, time.January, time.Monday, 0, "", false},
		{"negative nth", 2024, time.January, time.Monday, -2, "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := NthWeekday(tt.year, tt.month, tt.weekday, tt.nth)
			if ok != tt.ok {
				t.Fatalf("ok = %v, want %v", ok, tt.ok)
			}
			if ok && got != MustParse(tt.want) {
				t.Errorf("got %v, want %s", got, tt.want)
			}
		})
	}
}

func TestDays(t *testing.T) {
	var got []civil.Date
	for d := range Days(MustParse("2024-02-27"), MustParse("2024-03-02")) {
		got = append(got, d)
	}
	want := []string{"2024-02-27", "2024-02-28", "2024-02-29", "2024-03-01", "2024-03-02"}
	if len(got) != len(want) {
		t.Fatalf("len = %d, want %d", len(got), len(want))
	}
	for i, w := range want {
		if got[i] != MustParse(w) {
			t.Errorf("day[%d] = %v, want %s", i, got[i], w)
		}
	}

	for range Days(MustParse("2024-03-02"), MustParse("2024-03-01")) {
		t.Fatal("reversed range should yield nothing")
	}
}

func TestMinMax(t *testing.T) {
	a, b := MustParse("2024-01-05"), MustParse("2024-01-10")
	if Min(a, b) != a || Min(b, a) != a {
		t.Error("Min should pick the earlier date")
	}
	if Max(a, b) != b || Max(b, a) != b {
		t.Error("Max should pick the later date")
	}
}
