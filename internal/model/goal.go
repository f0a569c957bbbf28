package model

import "time"

type Goal struct {
	ID         int64      `json:"-"`
	PublicID   string     `json:"id"`
	UserID     int64      `json:"-"`
	Title      string     `json:"title"`
	Deadline   string     `json:"deadline,omitempty"`
	Done       bool       `json:"done"`
	AchievedAt *time.Time `json:"achieved_at,omitempty"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`
}

type Todo struct {
	ID        int64     `json:"-"`
	PublicID  string    `json:"id"`
	UserID    int64     `json:"-"`
	Text      string    `json:"text"`
	Done      bool      `json:"done"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
