package model

import (
	"time"

	"cloud.google.com/go/civil"

	"github.com/dukerupert/cadence/internal/recurrence"
)

// Series is a recurring to-do owned by a single user.
type Series struct {
	recurrence.Rule
	OwnerID   string    `json:"owner_id"`
	Title     string    `json:"title"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Todo is a one-off to-do due on a single date.
type Todo struct {
	ID        string     `json:"id"`
	OwnerID   string     `json:"owner_id"`
	Title     string     `json:"title"`
	Due       civil.Date `json:"due_date"`
	Completed bool       `json:"completed"`
	CreatedAt time.Time  `json:"created_at"`
}

// Completions maps an occurrence date to its completion flag. A missing
// date means not completed.
type Completions map[civil.Date]bool

// Done reports whether d is recorded as completed.
func (c Completions) Done(d civil.Date) bool {
	return c[d]
}

// History maps a series ID to its completions.
type History map[string]Completions

// For returns the completions of one series, or nil when none are recorded.
func (h History) For(seriesID string) Completions {
	return h[seriesID]
}

// Set records a completion flag, allocating the inner map as needed.
func (h History) Set(seriesID string, d civil.Date, done bool) {
	c, ok := h[seriesID]
	if !ok {
		c = Completions{}
		h[seriesID] = c
	}
	c[d] = done
}
