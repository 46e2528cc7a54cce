package domain

import "time"

// Round is a tracked round of golf.
type Round struct {
	ID         string    `json:"id"`
	UserID     string    `json:"user_id"`
	CourseName string    `json:"course_name"`
	DatePlayed time.Time `json:"date_played"`
	Score      int       `json:"score"`
	Par        int       `json:"par"`
	Notes      string    `json:"notes,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}
