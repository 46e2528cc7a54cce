package domain

import (
	"encoding/json"
	"fmt"
	"time"
)

// PracticeItem is one drill in the generated practice plan.
type PracticeItem struct {
	Area      string `json:"area"`
	Drill     string `json:"drill"`
	Minutes   int    `json:"minutes"`
	Rationale string `json:"rationale,omitempty"`
}

// HoleAdvice is per-hole course strategy.
type HoleAdvice struct {
	Hole   int    `json:"hole"`
	Advice string `json:"advice"`
}

// Strategy is the full analysis payload produced for a scorecard.
// Teaser is the only part shown before the paywall is passed.
type Strategy struct {
	Summary        string         `json:"summary"`
	Teaser         string         `json:"teaser"`
	Strengths      []string       `json:"strengths"`
	Weaknesses     []string       `json:"weaknesses"`
	PracticePlan   []PracticeItem `json:"practice_plan"`
	CourseStrategy []HoleAdvice   `json:"course_strategy"`
	Provider       string         `json:"-"`
}

// Validate rejects payloads a provider returned malformed, so bad
// backend responses fail at the boundary instead of reaching the UI.
func (s Strategy) Validate() error {
	if s.Summary == "" {
		return fmt.Errorf("strategy summary is empty")
	}
	if len(s.PracticePlan) == 0 {
		return fmt.Errorf("strategy has no practice plan")
	}
	return nil
}

// Analysis is a committed (persisted) strategy for a user.
type Analysis struct {
	ID           string          `json:"id"`
	UserID       string          `json:"user_id"`
	Payload      json.RawMessage `json:"payload"`
	FormSnapshot json.RawMessage `json:"form_snapshot"`
	CreatedAt    time.Time       `json:"created_at"`
}
