package main

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"

	"cloud.google.com/go/civil"

	"github.com/dukerupert/cadence/internal/calendar"
)

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func newTable(w io.Writer) *tabwriter.Writer {
	return tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
}

func dateOrDash(d *civil.Date) string {
	if d == nil {
		return "-"
	}
	return d.String()
}

func percent(rate float64) string {
	return fmt.Sprintf("%.0f%%", rate*100)
}

// dateFlag parses an optional YYYY-MM-DD flag value, returning fallback when
// it is empty.
func dateFlag(name, value string, fallback civil.Date) (civil.Date, error) {
	if value == "" {
		return fallback, nil
	}
	d, err := calendar.Parse(value)
	if err != nil {
		return civil.Date{}, fmt.Errorf("--%s: %w", name, err)
	}
	return d, nil
}
