package store

import (
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"

	"github.com/tsumuapp/tsumu/internal/model"
)

type HabitStore struct {
	db *sql.DB
}

func NewHabitStore(db *sql.DB) *HabitStore {
	return &HabitStore{db: db}
}

func scanHabit(scanner interface{ Scan(...any) error }) (*model.Habit, error) {
	var h model.Habit
	var days string

	err := scanner.Scan(
		&h.ID, &h.PublicID, &h.UserID, &h.Text, &h.Schedule, &days,
		&h.DailyStreak, &h.LastCompletedDate, &h.Point,
		&h.CreatedAt, &h.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal([]byte(days), &h.DaysOfWeek); err != nil {
		return nil, fmt.Errorf("decode days_of_week: %w", err)
	}
	return &h, nil
}

const habitCols = `id, public_id, user_id, text, schedule, days_of_week, daily_streak, last_completed_date, point, created_at, updated_at`

func (s *HabitStore) Create(userID int64, text, schedule string, daysOfWeek []int) (*model.Habit, error) {
	if daysOfWeek == nil {
		daysOfWeek = []int{}
	}
	days, err := json.Marshal(daysOfWeek)
	if err != nil {
		return nil, fmt.Errorf("encode days_of_week: %w", err)
	}

	publicID := uuid.NewString()
	_, err = s.db.Exec(
		`INSERT INTO habits (public_id, user_id, text, schedule, days_of_week) VALUES (?, ?, ?, ?, ?)`,
		publicID, userID, text, schedule, string(days),
	)
	if err != nil {
		return nil, fmt.Errorf("insert habit: %w", err)
	}
	return s.GetByPublicID(userID, publicID)
}

// GetByPublicID returns the habit with its full point history loaded.
func (s *HabitStore) GetByPublicID(userID int64, publicID string) (*model.Habit, error) {
	row := s.db.QueryRow(
		`SELECT `+habitCols+` FROM habits WHERE user_id = ? AND public_id = ?`,
		userID, publicID,
	)
	h, err := scanHabit(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get habit: %w", err)
	}
	if err := s.loadHistory(h); err != nil {
		return nil, err
	}
	return h, nil
}

// ListByUser returns the user's habits, newest first, with point histories
// loaded.
func (s *HabitStore) ListByUser(userID int64) ([]model.Habit, error) {
	rows, err := s.db.Query(
		`SELECT `+habitCols+` FROM habits WHERE user_id = ? ORDER BY created_at DESC, id DESC`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("list habits: %w", err)
	}
	defer rows.Close()

	var habits []model.Habit
	for rows.Next() {
		h, err := scanHabit(rows)
		if err != nil {
			return nil, fmt.Errorf("scan habit: %w", err)
		}
		habits = append(habits, *h)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range habits {
		if err := s.loadHistory(&habits[i]); err != nil {
			return nil, err
		}
	}
	return habits, nil
}

func (s *HabitStore) loadHistory(h *model.Habit) error {
	rows, err := s.db.Query(
		`SELECT day, points FROM habit_points WHERE habit_id = ? ORDER BY id ASC`,
		h.ID,
	)
	if err != nil {
		return fmt.Errorf("load point history: %w", err)
	}
	defer rows.Close()

	h.PointHistory = []model.PointEntry{}
	for rows.Next() {
		var e model.PointEntry
		if err := rows.Scan(&e.Day, &e.Points); err != nil {
			return fmt.Errorf("scan point entry: %w", err)
		}
		h.PointHistory = append(h.PointHistory, e)
	}
	return rows.Err()
}

func (s *HabitStore) Update(userID int64, publicID, text, schedule string, daysOfWeek []int) (*model.Habit, error) {
	if daysOfWeek == nil {
		daysOfWeek = []int{}
	}
	days, err := json.Marshal(daysOfWeek)
	if err != nil {
		return nil, fmt.Errorf("encode days_of_week: %w", err)
	}

	_, err = s.db.Exec(
		`UPDATE habits SET text = ?, schedule = ?, days_of_week = ?, updated_at = CURRENT_TIMESTAMP
		 WHERE user_id = ? AND public_id = ?`,
		text, schedule, string(days), userID, publicID,
	)
	if err != nil {
		return nil, fmt.Errorf("update habit: %w", err)
	}
	return s.GetByPublicID(userID, publicID)
}

func (s *HabitStore) Delete(userID int64, publicID string) error {
	_, err := s.db.Exec(`DELETE FROM habits WHERE user_id = ? AND public_id = ?`, userID, publicID)
	if err != nil {
		return fmt.Errorf("delete habit: %w", err)
	}
	return nil
}

// ApplyCheck persists a completing toggle: the habit row's streak, last
// completed date and running point total, plus the new history entry for the
// day, in one transaction.
func (s *HabitStore) ApplyCheck(habitID int64, streak int, lastCompleted string, point int, day string, dayPoints int) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.Exec(
		`UPDATE habits SET daily_streak = ?, last_completed_date = ?, point = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`,
		streak, lastCompleted, point, habitID,
	)
	if err != nil {
		return fmt.Errorf("update habit row: %w", err)
	}

	_, err = tx.Exec(
		`INSERT INTO habit_points (habit_id, day, points) VALUES (?, ?, ?)`,
		habitID, day, dayPoints,
	)
	if err != nil {
		return fmt.Errorf("insert point entry: %w", err)
	}

	return tx.Commit()
}

// ApplyUncheck persists an undoing toggle: the reduced point total and the
// removal of the day's history entry. Streak fields are left untouched.
func (s *HabitStore) ApplyUncheck(habitID int64, point int, day string) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.Exec(
		`UPDATE habits SET point = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`,
		point, habitID,
	)
	if err != nil {
		return fmt.Errorf("update habit row: %w", err)
	}

	_, err = tx.Exec(
		`DELETE FROM habit_points WHERE habit_id = ? AND day = ?`,
		habitID, day,
	)
	if err != nil {
		return fmt.Errorf("delete point entry: %w", err)
	}

	return tx.Commit()
}

// SumPoints totals the running point column over all of a user's habits.
func (s *HabitStore) SumPoints(userID int64) (int, error) {
	var sum int
	err := s.db.QueryRow(
		`SELECT COALESCE(SUM(point), 0) FROM habits WHERE user_id = ?`,
		userID,
	).Scan(&sum)
	if err != nil {
		return 0, fmt.Errorf("sum habit points: %w", err)
	}
	return sum, nil
}

func (s *HabitStore) CountByUser(userID int64) (int, error) {
	var n int
	err := s.db.QueryRow(`SELECT COUNT(*) FROM habits WHERE user_id = ?`, userID).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count habits: %w", err)
	}
	return n, nil
}
