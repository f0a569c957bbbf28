package store

import (
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"github.com/tsumuapp/tsumu/internal/model"
)

type TodoStore struct {
	db *sql.DB
}

func NewTodoStore(db *sql.DB) *TodoStore {
	return &TodoStore{db: db}
}

func scanTodo(scanner interface{ Scan(...any) error }) (*model.Todo, error) {
	var t model.Todo
	err := scanner.Scan(&t.ID, &t.PublicID, &t.UserID, &t.Text, &t.Done, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

const todoCols = `id, public_id, user_id, text, done, created_at, updated_at`

func (s *TodoStore) Create(userID int64, text string) (*model.Todo, error) {
	publicID := uuid.NewString()
	_, err := s.db.Exec(
		`INSERT INTO todos (public_id, user_id, text) VALUES (?, ?, ?)`,
		publicID, userID, text,
	)
	if err != nil {
		return nil, fmt.Errorf("insert todo: %w", err)
	}
	return s.GetByPublicID(userID, publicID)
}

func (s *TodoStore) GetByPublicID(userID int64, publicID string) (*model.Todo, error) {
	row := s.db.QueryRow(
		`SELECT `+todoCols+` FROM todos WHERE user_id = ? AND public_id = ?`,
		userID, publicID,
	)
	t, err := scanTodo(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get todo: %w", err)
	}
	return t, nil
}

func (s *TodoStore) ListByUser(userID int64) ([]model.Todo, error) {
	rows, err := s.db.Query(
		`SELECT `+todoCols+` FROM todos WHERE user_id = ? ORDER BY created_at DESC, id DESC`,
		userID,
	)
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

func (s *TodoStore) UpdateText(userID int64, publicID, text string) (*model.Todo, error) {
	_, err := s.db.Exec(
		`UPDATE todos SET text = ?, updated_at = CURRENT_TIMESTAMP WHERE user_id = ? AND public_id = ?`,
		text, userID, publicID,
	)
	if err != nil {
		return nil, fmt.Errorf("update todo: %w", err)
	}
	return s.GetByPublicID(userID, publicID)
}

func (s *TodoStore) SetDone(userID int64, publicID string, done bool) (*model.Todo, error) {
	_, err := s.db.Exec(
		`UPDATE todos SET done = ?, updated_at = CURRENT_TIMESTAMP WHERE user_id = ? AND public_id = ?`,
		done, userID, publicID,
	)
	if err != nil {
		return nil, fmt.Errorf("set todo done: %w", err)
	}
	return s.GetByPublicID(userID, publicID)
}

func (s *TodoStore) Delete(userID int64, publicID string) error {
	_, err := s.db.Exec(`DELETE FROM todos WHERE user_id = ? AND public_id = ?`, userID, publicID)
	if err != nil {
		return fmt.Errorf("delete todo: %w", err)
	}
	return nil
}

func (s *TodoStore) CountByUser(userID int64) (int, error) {
	var n int
	err := s.db.QueryRow(`SELECT COUNT(*) FROM todos WHERE user_id = ?`, userID).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count todos: %w", err)
	}
	return n, nil
}
