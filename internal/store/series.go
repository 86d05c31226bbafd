package store

import (
	"database/sql"
	"fmt"
	"log/slog"

	"cloud.google.com/go/civil"
	"github.com/google/uuid"

	"github.com/dukerupert/cadence/internal/calendar"
	"github.com/dukerupert/cadence/internal/model"
	"github.com/dukerupert/cadence/internal/recurrence"
)

type SeriesStore struct {
	db *sql.DB
}

func NewSeriesStore(db *sql.DB) *SeriesStore {
	return &SeriesStore{db: db}
}

func scanSeries(scanner interface{ Scan(...any) error }) (*model.Series, error) {
	var s model.Series
	var start, rrule string

	err := scanner.Scan(
		&s.ID, &s.OwnerID, &s.Title, &start, &rrule, &s.Active,
		&s.CreatedAt, &s.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	s.Start, err = calendar.Parse(start)
	if err != nil {
		return nil, fmt.Errorf("series %s: %w", s.ID, err)
	}

	s.Pattern, s.Until, err = recurrence.Parse(rrule)
	if err != nil {
		// Fall back to daily so one bad row cannot hide the rest of the list.
		slog.Warn("invalid recurrence rule, treating as daily", "series_id", s.ID, "rrule", rrule, "error", err)
		s.Pattern, s.Until = recurrence.Daily{Interval: 1}, nil
	}
	return &s, nil
}

const seriesCols = `id, owner_id, title, start_date, rrule, active, created_at, updated_at`

// encodeRule formats a pattern for the rrule column and rejects patterns that
// would not read back as themselves, such as a weekly rule with no days.
func encodeRule(pattern recurrence.Pattern, until *civil.Date) (string, error) {
	rule := recurrence.Format(pattern, until)
	if _, _, err := recurrence.Parse(rule); err != nil {
		return "", fmt.Errorf("invalid recurrence %q: %w", rule, err)
	}
	return rule, nil
}

func (s *SeriesStore) Create(ownerID, title string, start civil.Date, pattern recurrence.Pattern, until *civil.Date) (*model.Series, error) {
	rule, err := encodeRule(pattern, until)
	if err != nil {
		return nil, err
	}

	id := uuid.NewString()
	_, err = s.db.Exec(
		`INSERT INTO todo_series (id, owner_id, title, start_date, rrule) VALUES (?, ?, ?, ?, ?)`,
		id, ownerID, title, start.String(), rule,
	)
	if err != nil {
		return nil, fmt.Errorf("insert series: %w", err)
	}
	return s.GetByID(id)
}

func (s *SeriesStore) GetByID(id string) (*model.Series, error) {
	row := s.db.QueryRow(`SELECT `+seriesCols+` FROM todo_series WHERE id = ?`, id)
	series, err := scanSeries(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get series: %w", err)
	}
	return series, nil
}

func (s *SeriesStore) ListByOwner(ownerID string) ([]model.Series, error) {
	rows, err := s.db.Query(
		`SELECT `+seriesCols+` FROM todo_series WHERE owner_id = ? ORDER BY title ASC, id ASC`,
		ownerID,
	)
	if err != nil {
		return nil, fmt.Errorf("list series: %w", err)
	}
	defer rows.Close()

	var list []model.Series
	for rows.Next() {
		series, err := scanSeries(rows)
		if err != nil {
			return nil, fmt.Errorf("scan series: %w", err)
		}
		list = append(list, *series)
	}
	return list, rows.Err()
}

// Update replaces the title, start date and recurrence of a series. Existing
// completions are kept even when their dates are no longer scheduled.
func (s *SeriesStore) Update(id, title string, start civil.Date, pattern recurrence.Pattern, until *civil.Date) (*model.Series, error) {
	rule, err := encodeRule(pattern, until)
	if err != nil {
		return nil, err
	}

	_, err = s.db.Exec(
		`UPDATE todo_series SET title = ?, start_date = ?, rrule = ? WHERE id = ?`,
		title, start.String(), rule, id,
	)
	if err != nil {
		return nil, fmt.Errorf("update series: %w", err)
	}
	return s.GetByID(id)
}

// SetActive pauses or resumes a series. Paused series never occur.
func (s *SeriesStore) SetActive(id string, active bool) (*model.Series, error) {
	_, err := s.db.Exec(`UPDATE todo_series SET active = ? WHERE id = ?`, active, id)
	if err != nil {
		return nil, fmt.Errorf("set series active: %w", err)
	}
	return s.GetByID(id)
}

func (s *SeriesStore) Delete(id string) error {
	_, err := s.db.Exec(`DELETE FROM todo_series WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete series: %w", err)
	}
	return nil
}
