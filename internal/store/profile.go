package store

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/tsumuapp/tsumu/internal/model"
)

type ProfileStore struct {
	db *sql.DB
}

func NewProfileStore(db *sql.DB) *ProfileStore {
	return &ProfileStore{db: db}
}

const profileCols = `user_id, name, gender, dream, is_public, show_dream, show_goal, show_last_login,
	dream_achieved_count, bonus_points, first_login_at, last_login_at,
	recent_action_type, recent_action_text, recent_action_at,
	login_days, continuous_login_days, max_continuous_login_days, max_streak,
	goals_created_count, habits_created_count, goals_achieved_count,
	last_action_date, goals_added_today, todos_added_today, habits_added_today,
	created_at, updated_at`

func scanProfile(scanner interface{ Scan(...any) error }) (*model.Profile, error) {
	var p model.Profile
	var firstLogin, lastLogin, recentAt sql.NullTime

	err := scanner.Scan(
		&p.UserID, &p.Name, &p.Gender, &p.Dream, &p.IsPublic, &p.ShowDream, &p.ShowGoal, &p.ShowLastLogin,
		&p.DreamAchievedCount, &p.BonusPoints, &firstLogin, &lastLogin,
		&p.RecentActionType, &p.RecentActionText, &recentAt,
		&p.Stats.LoginDays, &p.Stats.ContinuousLoginDays, &p.Stats.MaxContinuousLoginDays, &p.Stats.MaxStreak,
		&p.Stats.GoalsCreatedCount, &p.Stats.HabitsCreatedCount, &p.Stats.GoalsAchievedCount,
		&p.Stats.LastActionDate, &p.Stats.GoalsAddedToday, &p.Stats.TodosAddedToday, &p.Stats.HabitsAddedToday,
		&p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if firstLogin.Valid {
		p.FirstLoginAt = &firstLogin.Time
	}
	if lastLogin.Valid {
		p.LastLoginAt = &lastLogin.Time
	}
	if recentAt.Valid {
		p.RecentActionAt = &recentAt.Time
	}
	return &p, nil
}

// Ensure creates an empty profile row for the user if none exists.
func (s *ProfileStore) Ensure(userID int64) error {
	_, err := s.db.Exec(`INSERT OR IGNORE INTO profiles (user_id) VALUES (?)`, userID)
	if err != nil {
		return fmt.Errorf("ensure profile: %w", err)
	}
	return nil
}

func (s *ProfileStore) Get(userID int64) (*model.Profile, error) {
	row := s.db.QueryRow(`SELECT `+profileCols+` FROM profiles WHERE user_id = ?`, userID)
	p, err := scanProfile(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get profile: %w", err)
	}
	return p, nil
}

// Save updates the user-editable profile fields.
func (s *ProfileStore) Save(userID int64, name, gender, dream string, isPublic, showDream, showGoal, showLastLogin bool) (*model.Profile, error) {
	_, err := s.db.Exec(
		`UPDATE profiles SET name = ?, gender = ?, dream = ?, is_public = ?, show_dream = ?, show_goal = ?, show_last_login = ?, updated_at = CURRENT_TIMESTAMP
		 WHERE user_id = ?`,
		name, gender, dream, isPublic, showDream, showGoal, showLastLogin, userID,
	)
	if err != nil {
		return nil, fmt.Errorf("save profile: %w", err)
	}
	return s.Get(userID)
}

// SaveStats overwrites the stats counters.
func (s *ProfileStore) SaveStats(userID int64, st model.Stats) error {
	_, err := s.db.Exec(
		`UPDATE profiles SET login_days = ?, continuous_login_days = ?, max_continuous_login_days = ?, max_streak = ?,
		 goals_created_count = ?, habits_created_count = ?, goals_achieved_count = ?,
		 last_action_date = ?, goals_added_today = ?, todos_added_today = ?, habits_added_today = ?,
		 updated_at = CURRENT_TIMESTAMP
		 WHERE user_id = ?`,
		st.LoginDays, st.ContinuousLoginDays, st.MaxContinuousLoginDays, st.MaxStreak,
		st.GoalsCreatedCount, st.HabitsCreatedCount, st.GoalsAchievedCount,
		st.LastActionDate, st.GoalsAddedToday, st.TodosAddedToday, st.HabitsAddedToday,
		userID,
	)
	if err != nil {
		return fmt.Errorf("save stats: %w", err)
	}
	return nil
}

// RecordLogin stamps last_login_at and sets first_login_at if never set.
func (s *ProfileStore) RecordLogin(userID int64, at time.Time) error {
	_, err := s.db.Exec(
		`UPDATE profiles SET last_login_at = ?, first_login_at = COALESCE(first_login_at, ?), updated_at = CURRENT_TIMESTAMP
		 WHERE user_id = ?`,
		at.UTC(), at.UTC(), userID,
	)
	if err != nil {
		return fmt.Errorf("record login: %w", err)
	}
	return nil
}

// SetBonusPoints overwrites the title-bonus total. The award pass computes
// the value; this never increments.
func (s *ProfileStore) SetBonusPoints(userID int64, bonus int) error {
	_, err := s.db.Exec(
		`UPDATE profiles SET bonus_points = ?, updated_at = CURRENT_TIMESTAMP WHERE user_id = ?`,
		bonus, userID,
	)
	if err != nil {
		return fmt.Errorf("set bonus points: %w", err)
	}
	return nil
}

// AchieveDream clears the dream and bumps the achieved counter.
func (s *ProfileStore) AchieveDream(userID int64) error {
	_, err := s.db.Exec(
		`UPDATE profiles SET dream = '', dream_achieved_count = dream_achieved_count + 1, updated_at = CURRENT_TIMESTAMP
		 WHERE user_id = ?`,
		userID,
	)
	if err != nil {
		return fmt.Errorf("achieve dream: %w", err)
	}
	return nil
}

// SetRecentAction records the action shown on the public profile.
func (s *ProfileStore) SetRecentAction(userID int64, actionType, text string) error {
	_, err := s.db.Exec(
		`UPDATE profiles SET recent_action_type = ?, recent_action_text = ?, recent_action_at = ?, updated_at = CURRENT_TIMESTAMP
		 WHERE user_id = ?`,
		actionType, text, time.Now().UTC(), userID,
	)
	if err != nil {
		return fmt.Errorf("set recent action: %w", err)
	}
	return nil
}

// SearchPublic finds public profiles whose name — or dream, when shared —
// contains the term. The caller is excluded from results.
func (s *ProfileStore) SearchPublic(term string, excludeUserID int64, limit int) ([]model.Profile, error) {
	pattern := "%" + term + "%"
	rows, err := s.db.Query(
		`SELECT `+profileCols+` FROM profiles
		 WHERE is_public = 1 AND user_id != ?
		   AND (name LIKE ? OR (show_dream = 1 AND dream LIKE ?))
		 ORDER BY last_login_at DESC
		 LIMIT ?`,
		excludeUserID, pattern, pattern, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("search profiles: %w", err)
	}
	defer rows.Close()

	var profiles []model.Profile
	for rows.Next() {
		p, err := scanProfile(rows)
		if err != nil {
			return nil, fmt.Errorf("scan profile: %w", err)
		}
		profiles = append(profiles, *p)
	}
	return profiles, rows.Err()
}

// GetPublic returns a profile only if it is public.
func (s *ProfileStore) GetPublic(userID int64) (*model.Profile, error) {
	row := s.db.QueryRow(`SELECT `+profileCols+` FROM profiles WHERE user_id = ? AND is_public = 1`, userID)
	p, err := scanProfile(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get public profile: %w", err)
	}
	return p, nil
}
