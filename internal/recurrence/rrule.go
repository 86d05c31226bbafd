package recurrence

import (
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"cloud.google.com/go/civil"
	"github.com/teambition/rrule-go"
)

var freqNames = map[rrule.Frequency]string{
	rrule.DAILY:   "DAILY",
	rrule.WEEKLY:  "WEEKLY",
	rrule.MONTHLY: "MONTHLY",
}

var dayAbbrev = map[time.Weekday]string{
	time.Sunday:    "SU",
	time.Monday:    "MO",
	time.Tuesday:   "TU",
	time.Wednesday: "WE",
	time.Thursday:  "TH",
	time.Friday:    "FR",
	time.Saturday:  "SA",
}

const untilFormat = "20060102"

// Parse parses an RRULE string like "FREQ=WEEKLY;BYDAY=MO,WE;INTERVAL=2" into
// a pattern and an optional inclusive end date taken from UNTIL.
//
// Only DAILY, WEEKLY and MONTHLY are supported. WEEKLY needs BYDAY; MONTHLY
// needs either a single BYMONTHDAY or a single BYDAY with an ordinal
// ("2TU", "-1FR") or a plain weekday plus BYSETPOS. COUNT is rejected.
// WKST is ignored: weeks always start on Sunday.
func Parse(s string) (Pattern, *civil.Date, error) {
	s = strings.ToUpper(strings.TrimSpace(s))
	s = strings.TrimPrefix(s, "RRULE:")
	if s == "" {
		return nil, nil, errors.New("empty rule")
	}
	if !strings.Contains(s, "FREQ=") {
		return nil, nil, errors.New("FREQ is required")
	}

	opt, err := rrule.StrToROption(s)
	if err != nil {
		return nil, nil, fmt.Errorf("parse rrule: %w", err)
	}

	if opt.Count > 0 {
		return nil, nil, fmt.Errorf("unsupported rule key: %q", "COUNT")
	}
	if len(opt.Bymonth) > 0 || len(opt.Byyearday) > 0 || len(opt.Byweekno) > 0 {
		return nil, nil, errors.New("unsupported rule: BYMONTH, BYYEARDAY and BYWEEKNO are not supported")
	}
	if opt.Interval < 0 {
		return nil, nil, fmt.Errorf("invalid interval: %d", opt.Interval)
	}

	var until *civil.Date
	if !opt.Until.IsZero() {
		d := civil.DateOf(opt.Until)
		until = &d
	}

	var p Pattern
	switch opt.Freq {
	case rrule.DAILY:
		p = Daily{Interval: opt.Interval}

	case rrule.WEEKLY:
		if len(opt.Byweekday) == 0 {
			return nil, nil, errors.New("weekly rule requires BYDAY")
		}
		days := make([]time.Weekday, 0, len(opt.Byweekday))
		for _, wd := range opt.Byweekday {
			if wd.N() != 0 {
				return nil, nil, fmt.Errorf("weekly BYDAY cannot carry an ordinal: %d", wd.N())
			}
			days = append(days, weekdayOf(wd))
		}
		p = Weekly{Interval: opt.Interval, Days: days}

	case rrule.MONTHLY:
		mode, err := monthlyMode(opt)
		if err != nil {
			return nil, nil, err
		}
		p = Monthly{Interval: opt.Interval, Mode: mode}

	default:
		return nil, nil, fmt.Errorf("unsupported frequency in %q", s)
	}

	return Normalize(p), until, nil
}

func monthlyMode(opt *rrule.ROption) (MonthlyMode, error) {
	switch {
	case len(opt.Bymonthday) == 1 && len(opt.Byweekday) == 0:
		day := opt.Bymonthday[0]
		if day < 1 || day > 31 {
			return nil, fmt.Errorf("invalid BYMONTHDAY: %d", day)
		}
		return DayOfMonth{Day: day}, nil

	case len(opt.Byweekday) == 1 && len(opt.Bymonthday) == 0:
		wd := opt.Byweekday[0]
		nth := wd.N()
		if nth == 0 && len(opt.Bysetpos) == 1 {
			nth = opt.Bysetpos[0]
		}
		if nth == 0 || nth < LastWeek {
			return nil, fmt.Errorf("invalid monthly BYDAY ordinal: %d", nth)
		}
		return NthWeekday{Nth: nth, Weekday: weekdayOf(wd)}, nil
	}
	return nil, errors.New("monthly rule requires one BYMONTHDAY or one BYDAY")
}

// rrule-go numbers weekdays from Monday.
func weekdayOf(wd rrule.Weekday) time.Weekday {
	return time.Weekday((wd.Day() + 1) % 7)
}

// Format serializes a pattern and optional end date back to an RRULE string.
// The pattern is normalized first.
func Format(p Pattern, until *civil.Date) string {
	var parts []string

	switch v := Normalize(p).(type) {
	case Daily:
		parts = append(parts, "FREQ="+freqNames[rrule.DAILY])
		parts = appendInterval(parts, v.Interval)

	case Weekly:
		parts = append(parts, "FREQ="+freqNames[rrule.WEEKLY])
		parts = appendInterval(parts, v.Interval)
		parts = append(parts, "WKST=SU")
		if len(v.Days) > 0 {
			var days []string
			for _, d := range sortedDays(v.Days) {
				days = append(days, dayAbbrev[d])
			}
			parts = append(parts, "BYDAY="+strings.Join(days, ","))
		}

	case Monthly:
		parts = append(parts, "FREQ="+freqNames[rrule.MONTHLY])
		parts = appendInterval(parts, v.Interval)
		switch m := v.Mode.(type) {
		case DayOfMonth:
			parts = append(parts, fmt.Sprintf("BYMONTHDAY=%d", m.Day))
		case NthWeekday:
			parts = append(parts, fmt.Sprintf("BYDAY=%d%s", m.Nth, dayAbbrev[m.Weekday]))
		}
	}

	if until != nil {
		parts = append(parts, "UNTIL="+until.In(time.UTC).Format(untilFormat))
	}

	return strings.Join(parts, ";")
}

func appendInterval(parts []string, interval int) []string {
	if interval > 1 {
		return append(parts, fmt.Sprintf("INTERVAL=%d", interval))
	}
	return parts
}

// sortedDays returns a deduplicated Sunday-first copy of days.
func sortedDays(days []time.Weekday) []time.Weekday {
	out := slices.Clone(days)
	slices.Sort(out)
	return slices.Compact(out)
}

var ordinals = map[int]string{
	1:        "1st",
	2:        "2nd",
	3:        "3rd",
	4:        "4th",
	5:        "5th",
	LastWeek: "last",
}

// Describe returns a human-readable description of the pattern.
func Describe(p Pattern) string {
	switch v := Normalize(p).(type) {
	case Daily:
		if v.Interval > 1 {
			return fmt.Sprintf("Repeats every %d days", v.Interval)
		}
		return "Repeats daily"

	case Weekly:
		prefix := "Repeats weekly"
		if v.Interval > 1 {
			prefix = fmt.Sprintf("Repeats every %d weeks", v.Interval)
		}
		if len(v.Days) > 0 {
			var names []string
			for _, d := range sortedDays(v.Days) {
				names = append(names, d.String()[:3])
			}
			return prefix + " on " + strings.Join(names, ", ")
		}
		return prefix

	case Monthly:
		prefix := "Repeats monthly"
		if v.Interval > 1 {
			prefix = fmt.Sprintf("Repeats every %d months", v.Interval)
		}
		switch m := v.Mode.(type) {
		case DayOfMonth:
			return fmt.Sprintf("%s on day %d", prefix, m.Day)
		case NthWeekday:
			ord, ok := ordinals[m.Nth]
			if !ok {
				ord = fmt.Sprintf("%dth", m.Nth)
			}
			return fmt.Sprintf("%s on the %s %s", prefix, ord, m.Weekday)
		}
		return prefix
	}
	return ""
}
