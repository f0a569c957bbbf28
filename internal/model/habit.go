package model

import "time"

// Habit schedule types.
const (
	ScheduleDaily  = "daily"
	ScheduleWeekly = "weekly"
)

// PointEntry records the points awarded for completing a habit on one
// calendar day. A habit's history holds at most one entry per day, in
// insertion order.
type PointEntry struct {
	Day    string `json:"day"`
	Points int    `json:"points"`
}

type Habit struct {
	ID       int64  `json:"-"`
	PublicID string `json:"id"`
	UserID   int64  `json:"-"`
	Text     string `json:"text"`
	Schedule string `json:"schedule"`
	// DaysOfWeek holds weekday indices (0=Sunday..6=Saturday) and is only
	// meaningful for weekly habits.
	DaysOfWeek []int `json:"days_of_week,omitempty"`
	// DailyStreak counts consecutive completed occurrences ending at
	// LastCompletedDate.
	DailyStreak int `json:"daily_streak"`
	// LastCompletedDate is the most recent completion day, or empty if the
	// habit has never been completed. It is not retracted when a same-day
	// completion is undone.
	LastCompletedDate string       `json:"last_completed_date,omitempty"`
	Point             int          `json:"point"`
	PointHistory      []PointEntry `json:"point_history"`
	CreatedAt         time.Time    `json:"created_at"`
	UpdatedAt         time.Time    `json:"updated_at"`
}

// DoneOn reports whether the habit's history records a completion for the
// given day.
func (h Habit) DoneOn(day string) bool {
	for _, e := range h.PointHistory {
		if e.Day == day {
			return true
		}
	}
	return false
}
