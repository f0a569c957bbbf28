package model

import "time"

// Recent action types shown on public profiles.
const (
	ActionDream = "dream"
	ActionGoal  = "goal"
)

// Stats is the running aggregate of a user's activity. It feeds title
// evaluation after reconciliation against live counts; the stored counters
// may drift behind ground truth and must not be trusted directly.
type Stats struct {
	LoginDays               int    `json:"login_days"`
	ContinuousLoginDays     int    `json:"continuous_login_days"`
	MaxContinuousLoginDays  int    `json:"max_continuous_login_days"`
	MaxStreak               int    `json:"max_streak"`
	GoalsCreatedCount       int    `json:"goals_created_count"`
	HabitsCreatedCount      int    `json:"habits_created_count"`
	GoalsAchievedCount      int    `json:"goals_achieved_count"`
	LastActionDate          string `json:"last_action_date,omitempty"`
	GoalsAddedToday         int    `json:"goals_added_today"`
	TodosAddedToday         int    `json:"todos_added_today"`
	HabitsAddedToday        int    `json:"habits_added_today"`
}

type Profile struct {
	UserID             int64      `json:"-"`
	Name               string     `json:"name"`
	Gender             string     `json:"gender"`
	Dream              string     `json:"dream"`
	IsPublic           bool       `json:"is_public"`
	ShowDream          bool       `json:"show_dream"`
	ShowGoal           bool       `json:"show_goal"`
	ShowLastLogin      bool       `json:"show_last_login"`
	DreamAchievedCount int        `json:"dream_achieved_count"`
	// BonusPoints is the sum of bonus points from earned titles. It is
	// overwritten, never incremented, by the award pass.
	BonusPoints      int        `json:"bonus_points"`
	FirstLoginAt     *time.Time `json:"first_login_at,omitempty"`
	LastLoginAt      *time.Time `json:"last_login_at,omitempty"`
	RecentActionType string     `json:"recent_action_type,omitempty"`
	RecentActionText string     `json:"recent_action_text,omitempty"`
	RecentActionAt   *time.Time `json:"recent_action_at,omitempty"`
	Stats            Stats      `json:"stats"`
	CreatedAt        time.Time  `json:"created_at"`
	UpdatedAt        time.Time  `json:"updated_at"`
}

// PublicProfile is the view of a profile exposed to other users. Fields
// gated by visibility flags are blanked before it leaves the server.
type PublicProfile struct {
	UserID             int64      `json:"user_id"`
	Name               string     `json:"name"`
	Gender             string     `json:"gender"`
	Dream              string     `json:"dream,omitempty"`
	DreamAchievedCount int        `json:"dream_achieved_count"`
	EarnedTitles       []string   `json:"earned_titles"`
	LastLoginAt        *time.Time `json:"last_login_at,omitempty"`
	RecentActionType   string     `json:"recent_action_type,omitempty"`
	RecentActionText   string     `json:"recent_action_text,omitempty"`
	RecentActionAt     *time.Time `json:"recent_action_at,omitempty"`
	Following          bool       `json:"following"`
}

type EarnedTitle struct {
	UserID   int64     `json:"-"`
	TitleID  string    `json:"title_id"`
	EarnedAt time.Time `json:"earned_at"`
}
