package store

import (
	"database/sql"
	"fmt"

	"github.com/tsumuapp/tsumu/internal/model"
)

type TitleStore struct {
	db *sql.DB
}

func NewTitleStore(db *sql.DB) *TitleStore {
	return &TitleStore{db: db}
}

// ListEarned returns the user's titles in the order they were earned.
func (s *TitleStore) ListEarned(userID int64) ([]model.EarnedTitle, error) {
	rows, err := s.db.Query(
		`SELECT title_id, earned_at FROM user_titles WHERE user_id = ? ORDER BY rowid`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("list earned titles: %w", err)
	}
	defer rows.Close()

	var titles []model.EarnedTitle
	for rows.Next() {
		var t model.EarnedTitle
		if err := rows.Scan(&t.TitleID, &t.EarnedAt); err != nil {
			return nil, fmt.Errorf("scan earned title: %w", err)
		}
		titles = append(titles, t)
	}
	return titles, rows.Err()
}

// ListEarnedIDs returns just the title ids, earliest first.
func (s *TitleStore) ListEarnedIDs(userID int64) ([]string, error) {
	titles, err := s.ListEarned(userID)
	if err != nil {
		return nil, err
	}
	ids := make([]string, len(titles))
	for i, t := range titles {
		ids[i] = t.TitleID
	}
	return ids, nil
}

// AddEarned records newly earned titles. Already-held titles are left
// untouched, so a title is never lost once granted.
func (s *TitleStore) AddEarned(userID int64, titleIDs []string) error {
	if len(titleIDs) == 0 {
		return nil
	}
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("add earned titles: %w", err)
	}
	defer tx.Rollback()

	for _, id := range titleIDs {
		_, err := tx.Exec(
			`INSERT OR IGNORE INTO user_titles (user_id, title_id) VALUES (?, ?)`,
			userID, id,
		)
		if err != nil {
			return fmt.Errorf("add earned title %s: %w", id, err)
		}
	}
	return tx.Commit()
}
