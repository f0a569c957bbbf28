package store

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/tsumuapp/tsumu/internal/model"
)

type GoalStore struct {
	db *sql.DB
}

func NewGoalStore(db *sql.DB) *GoalStore {
	return &GoalStore{db: db}
}

func scanGoal(scanner interface{ Scan(...any) error }) (*model.Goal, error) {
	var g model.Goal
	var achievedAt sql.NullTime

	err := scanner.Scan(
		&g.ID, &g.PublicID, &g.UserID, &g.Title, &g.Deadline,
		&g.Done, &achievedAt, &g.CreatedAt, &g.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if achievedAt.Valid {
		g.AchievedAt = &achievedAt.Time
	}
	return &g, nil
}

const goalCols = `id, public_id, user_id, title, deadline, done, achieved_at, created_at, updated_at`

func (s *GoalStore) Create(userID int64, title, deadline string) (*model.Goal, error) {
	publicID := uuid.NewString()
	_, err := s.db.Exec(
		`INSERT INTO goals (public_id, user_id, title, deadline) VALUES (?, ?, ?, ?)`,
		publicID, userID, title, deadline,
	)
	if err != nil {
		return nil, fmt.Errorf("insert goal: %w", err)
	}
	return s.GetByPublicID(userID, publicID)
}

func (s *GoalStore) GetByPublicID(userID int64, publicID string) (*model.Goal, error) {
	row := s.db.QueryRow(
		`SELECT `+goalCols+` FROM goals WHERE user_id = ? AND public_id = ?`,
		userID, publicID,
	)
	g, err := scanGoal(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get goal: %w", err)
	}
	return g, nil
}

func (s *GoalStore) ListByUser(userID int64) ([]model.Goal, error) {
	rows, err := s.db.Query(
		`SELECT `+goalCols+` FROM goals WHERE user_id = ? ORDER BY created_at DESC, id DESC`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("list goals: %w", err)
	}
	defer rows.Close()

	var goals []model.Goal
	for rows.Next() {
		g, err := scanGoal(rows)
		if err != nil {
			return nil, fmt.Errorf("scan goal: %w", err)
		}
		goals = append(goals, *g)
	}
	return goals, rows.Err()
}

func (s *GoalStore) Update(userID int64, publicID, title, deadline string) (*model.Goal, error) {
	_, err := s.db.Exec(
		`UPDATE goals SET title = ?, deadline = ?, updated_at = CURRENT_TIMESTAMP WHERE user_id = ? AND public_id = ?`,
		title, deadline, userID, publicID,
	)
	if err != nil {
		return nil, fmt.Errorf("update goal: %w", err)
	}
	return s.GetByPublicID(userID, publicID)
}

// SetDone marks a goal done or not done. Achieving stamps achieved_at;
// un-achieving clears it.
func (s *GoalStore) SetDone(userID int64, publicID string, done bool) (*model.Goal, error) {
	var achievedAt any
	if done {
		achievedAt = time.Now().UTC()
	}
	_, err := s.db.Exec(
		`UPDATE goals SET done = ?, achieved_at = ?, updated_at = CURRENT_TIMESTAMP WHERE user_id = ? AND public_id = ?`,
		done, achievedAt, userID, publicID,
	)
	if err != nil {
		return nil, fmt.Errorf("set goal done: %w", err)
	}
	return s.GetByPublicID(userID, publicID)
}

func (s *GoalStore) Delete(userID int64, publicID string) error {
	_, err := s.db.Exec(`DELETE FROM goals WHERE user_id = ? AND public_id = ?`, userID, publicID)
	if err != nil {
		return fmt.Errorf("delete goal: %w", err)
	}
	return nil
}

func (s *GoalStore) CountByUser(userID int64) (int, error) {
	var n int
	err := s.db.QueryRow(`SELECT COUNT(*) FROM goals WHERE user_id = ?`, userID).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count goals: %w", err)
	}
	return n, nil
}

func (s *GoalStore) CountAchieved(userID int64) (int, error) {
	var n int
	err := s.db.QueryRow(`SELECT COUNT(*) FROM goals WHERE user_id = ? AND done = 1`, userID).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count achieved goals: %w", err)
	}
	return n, nil
}
