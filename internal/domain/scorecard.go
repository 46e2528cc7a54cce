package domain

import (
	"fmt"
	"strings"
	"time"
)

// HoleScore is one hole of an uploaded scorecard.
type HoleScore struct {
	Hole       int  `json:"hole"`
	Par        int  `json:"par"`
	Strokes    int  `json:"strokes"`
	Putts      int  `json:"putts,omitempty"`
	FairwayHit bool `json:"fairway_hit,omitempty"`
	GIR        bool `json:"gir,omitempty"`
}

// Scorecard is the wizard output submitted for analysis. It mirrors the
// multi-step form: player info, course info, then per-hole scores and goals.
type Scorecard struct {
	PlayerName    string      `json:"player_name"`
	HandicapIndex float64     `json:"handicap_index,omitempty"`
	CourseName    string      `json:"course_name"`
	TeeName       string      `json:"tee_name,omitempty"`
	DatePlayed    time.Time   `json:"date_played"`
	Holes         []HoleScore `json:"holes"`
	Goals         string      `json:"goals,omitempty"`
	BiggestMiss   string      `json:"biggest_miss,omitempty"`
}

// TotalStrokes sums strokes across holes.
func (s Scorecard) TotalStrokes() int {
	total := 0
	for _, h := range s.Holes {
		total += h.Strokes
	}
	return total
}

// TotalPar sums par across holes.
func (s Scorecard) TotalPar() int {
	total := 0
	for _, h := range s.Holes {
		total += h.Par
	}
	return total
}

// Validate checks the fields the analysis pipeline depends on.
func (s Scorecard) Validate() error {
	if strings.TrimSpace(s.CourseName) == "" {
		return fmt.Errorf("course_name is required")
	}
	if len(s.Holes) == 0 {
		return fmt.Errorf("at least one hole is required")
	}
	if len(s.Holes) > 18 {
		return fmt.Errorf("at most 18 holes are supported, got %d", len(s.Holes))
	}
	for _, h := range s.Holes {
		if h.Hole < 1 || h.Hole > 18 {
			return fmt.Errorf("hole number %d out of range", h.Hole)
		}
		if h.Par < 3 || h.Par > 6 {
			return fmt.Errorf("hole %d: par %d out of range", h.Hole, h.Par)
		}
		if h.Strokes < 1 || h.Strokes > 20 {
			return fmt.Errorf("hole %d: strokes %d out of range", h.Hole, h.Strokes)
		}
	}
	return nil
}
