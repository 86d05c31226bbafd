package store

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"

	"cloud.google.com/go/civil"

	"github.com/dukerupert/cadence/internal/calendar"
	"github.com/dukerupert/cadence/internal/model"
)

type CompletionStore struct {
	db *sql.DB
}

func NewCompletionStore(db *sql.DB) *CompletionStore {
	return &CompletionStore{db: db}
}

// resolveDone collapses the two stored representations into one flag. An
// explicit completed value wins; otherwise a legacy completed_by map counts
// as done when any member marked it.
func resolveDone(completed sql.NullBool, completedBy sql.NullString) bool {
	if completed.Valid {
		return completed.Bool
	}
	if !completedBy.Valid || completedBy.String == "" {
		return false
	}

	var byMember map[string]bool
	if err := json.Unmarshal([]byte(completedBy.String), &byMember); err != nil {
		slog.Warn("unreadable completed_by, treating as not completed", "value", completedBy.String, "error", err)
		return false
	}
	for _, v := range byMember {
		if v {
			return true
		}
	}
	return false
}

// Set records whether the series occurrence on d was completed.
func (s *CompletionStore) Set(seriesID string, d civil.Date, done bool) error {
	_, err := s.db.Exec(
		`INSERT INTO todo_series_completions (series_id, date, completed) VALUES (?, ?, ?)
		 ON CONFLICT (series_id, date) DO UPDATE SET completed = excluded.completed, updated_at = CURRENT_TIMESTAMP`,
		seriesID, d.String(), done,
	)
	if err != nil {
		return fmt.Errorf("set completion: %w", err)
	}
	return nil
}

// SetLegacy stores a per-member completion map without an explicit flag, the
// shape older clients wrote.
func (s *CompletionStore) SetLegacy(seriesID string, d civil.Date, completedBy map[string]bool) error {
	raw, err := json.Marshal(completedBy)
	if err != nil {
		return fmt.Errorf("marshal completed_by: %w", err)
	}
	_, err = s.db.Exec(
		`INSERT INTO todo_series_completions (series_id, date, completed, completed_by) VALUES (?, ?, NULL, ?)
		 ON CONFLICT (series_id, date) DO UPDATE SET completed = NULL, completed_by = excluded.completed_by, updated_at = CURRENT_TIMESTAMP`,
		seriesID, d.String(), string(raw),
	)
	if err != nil {
		return fmt.Errorf("set legacy completion: %w", err)
	}
	return nil
}

// Clear removes the record for d, which reads back as not completed.
func (s *CompletionStore) Clear(seriesID string, d civil.Date) error {
	_, err := s.db.Exec(
		`DELETE FROM todo_series_completions WHERE series_id = ? AND date = ?`,
		seriesID, d.String(),
	)
	if err != nil {
		return fmt.Errorf("clear completion: %w", err)
	}
	return nil
}

// ForSeries returns every recorded completion of one series.
func (s *CompletionStore) ForSeries(seriesID string) (model.Completions, error) {
	rows, err := s.db.Query(
		`SELECT series_id, date, completed, completed_by FROM todo_series_completions WHERE series_id = ?`,
		seriesID,
	)
	if err != nil {
		return nil, fmt.Errorf("list completions: %w", err)
	}
	defer rows.Close()

	h, err := scanHistory(rows)
	if err != nil {
		return nil, err
	}
	if c := h.For(seriesID); c != nil {
		return c, nil
	}
	return model.Completions{}, nil
}

// History returns the completions of every series owned by ownerID, keyed by
// series ID.
func (s *CompletionStore) History(ownerID string) (model.History, error) {
	rows, err := s.db.Query(
		`SELECT c.series_id, c.date, c.completed, c.completed_by
		 FROM todo_series_completions c
		 JOIN todo_series s ON s.id = c.series_id
		 WHERE s.owner_id = ?`,
		ownerID,
	)
	if err != nil {
		return nil, fmt.Errorf("list history: %w", err)
	}
	defer rows.Close()

	return scanHistory(rows)
}

func scanHistory(rows *sql.Rows) (model.History, error) {
	h := model.History{}
	for rows.Next() {
		var seriesID, date string
		var completed sql.NullBool
		var completedBy sql.NullString
		if err := rows.Scan(&seriesID, &date, &completed, &completedBy); err != nil {
			return nil, fmt.Errorf("scan completion: %w", err)
		}

		d, err := calendar.Parse(date)
		if err != nil {
			return nil, fmt.Errorf("completion for series %s: %w", seriesID, err)
		}
		h.Set(seriesID, d, resolveDone(completed, completedBy))
	}
	return h, rows.Err()
}
