package store

import (
	"database/sql"
	"fmt"

	"cloud.google.com/go/civil"
	"github.com/google/uuid"

	"github.com/dukerupert/cadence/internal/calendar"
	"github.com/dukerupert/cadence/internal/model"
)

type TodoStore struct {
	db *sql.DB
}

func NewTodoStore(db *sql.DB) *TodoStore {
	return &TodoStore{db: db}
}

func scanTodo(scanner interface{ Scan(...any) error }) (*model.Todo, error) {
	var t model.Todo
	var due string
	var completed sql.NullBool
	var completedBy sql.NullString

	err := scanner.Scan(&t.ID, &t.OwnerID, &t.Title, &due, &completed, &completedBy, &t.CreatedAt)
	if err != nil {
		return nil, err
	}

	t.Due, err = calendar.Parse(due)
	if err != nil {
		return nil, fmt.Errorf("todo %s: %w", t.ID, err)
	}
	t.Completed = resolveDone(completed, completedBy)
	return &t, nil
}

const todoCols = `id, owner_id, title, due_date, completed, completed_by, created_at`

func (s *TodoStore) Create(ownerID, title string, due civil.Date) (*model.Todo, error) {
	id := uuid.NewString()
	_, err := s.db.Exec(
		`INSERT INTO todos (id, owner_id, title, due_date, completed) VALUES (?, ?, ?, ?, 0)`,
		id, ownerID, title, due.String(),
	)
	if err != nil {
		return nil, fmt.Errorf("insert todo: %w", err)
	}
	return s.GetByID(id)
}

func (s *TodoStore) GetByID(id string) (*model.Todo, error) {
	row := s.db.QueryRow(`SELECT `+todoCols+` FROM todos WHERE id = ?`, id)
	t, err := scanTodo(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get todo: %w", err)
	}
	return t, nil
}

func (s *TodoStore) ListByOwner(ownerID string) ([]model.Todo, error) {
	return s.list(
		`SELECT `+todoCols+` FROM todos WHERE owner_id = ? ORDER BY due_date ASC, title ASC`,
		ownerID,
	)
}

func (s *TodoStore) ListDueOn(ownerID string, d civil.Date) ([]model.Todo, error) {
	return s.list(
		`SELECT `+todoCols+` FROM todos WHERE owner_id = ? AND due_date = ? ORDER BY title ASC`,
		ownerID, d.String(),
	)
}

func (s *TodoStore) list(query string, args ...any) ([]model.Todo, error) {
	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("list todos: %w", err)
	}
	defer rows.Close()

	var todos []model.Todo
	for rows.Next() {
		t, err := scanTodo(rows)
		if err != nil {
			return nil, fmt.Errorf("scan todo: %w", err)
		}
		todos = append(todos, *t)
	}
	return todos, rows.Err()
}

// SetCompleted writes an explicit completion flag, superseding any legacy
// completed_by map on the row.
func (s *TodoStore) SetCompleted(id string, done bool) (*model.Todo, error) {
	_, err := s.db.Exec(`UPDATE todos SET completed = ? WHERE id = ?`, done, id)
	if err != nil {
		return nil, fmt.Errorf("set todo completed: %w", err)
	}
	return s.GetByID(id)
}

func (s *TodoStore) Delete(id string) error {
	_, err := s.db.Exec(`DELETE FROM todos WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete todo: %w", err)
	}
	return nil
}
