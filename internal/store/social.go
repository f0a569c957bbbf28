package store

import (
	"database/sql"
	"fmt"
)

type SocialStore struct {
	db *sql.DB
}

func NewSocialStore(db *sql.DB) *SocialStore {
	return &SocialStore{db: db}
}

func (s *SocialStore) Follow(userID, targetID int64) error {
	_, err := s.db.Exec(
		`INSERT OR IGNORE INTO follows (user_id, target_id) VALUES (?, ?)`,
		userID, targetID,
	)
	if err != nil {
		return fmt.Errorf("follow: %w", err)
	}
	return nil
}

func (s *SocialStore) Unfollow(userID, targetID int64) error {
	_, err := s.db.Exec(
		`DELETE FROM follows WHERE user_id = ? AND target_id = ?`,
		userID, targetID,
	)
	if err != nil {
		return fmt.Errorf("unfollow: %w", err)
	}
	return nil
}

func (s *SocialStore) IsFollowing(userID, targetID int64) (bool, error) {
	var n int
	err := s.db.QueryRow(
		`SELECT COUNT(*) FROM follows WHERE user_id = ? AND target_id = ?`,
		userID, targetID,
	).Scan(&n)
	if err != nil {
		return false, fmt.Errorf("is following: %w", err)
	}
	return n > 0, nil
}

// Following returns the ids the user follows, oldest follow first.
func (s *SocialStore) Following(userID int64) ([]int64, error) {
	rows, err := s.db.Query(
		`SELECT target_id FROM follows WHERE user_id = ? ORDER BY rowid`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("list following: %w", err)
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan followed user: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}
