package main

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/billyrestey/golfstrategy/internal/domain"
)

// step is one screen of the wizard. Forward movement is gated by validate;
// apply writes the accepted answer into the scorecard under construction.
type step struct {
	name     string
	prompt   string
	validate func(input string) error
	apply    func(card *domain.Scorecard, input string)
}

// wizard is a linear multi-step form controller with forward and back
// movement. It holds the answers so going back and re-answering a step
// replaces the earlier value.
type wizard struct {
	steps   []step
	current int
	answers []string
}

func newWizard(steps []step) *wizard {
	return &wizard{steps: steps, answers: make([]string, len(steps))}
}

func (w *wizard) step() step { return w.steps[w.current] }

func (w *wizard) done() bool { return w.current >= len(w.steps) }

// submit validates the answer for the current step and advances on success.
func (w *wizard) submit(input string) error {
	s := w.steps[w.current]
	if err := s.validate(input); err != nil {
		return err
	}
	w.answers[w.current] = input
	w.current++
	return nil
}

// back returns to the previous step. At the first step it is a no-op.
func (w *wizard) back() {
	if w.current > 0 {
		w.current--
	}
}

// scorecard builds the final card from the accepted answers.
func (w *wizard) scorecard() domain.Scorecard {
	var card domain.Scorecard
	for i, s := range w.steps {
		if i < w.current {
			s.apply(&card, w.answers[i])
		}
	}
	return card
}

func scorecardSteps() []step {
	return []step{
		{
			name:   "course",
			prompt: "Course name",
			validate: func(in string) error {
				if strings.TrimSpace(in) == "" {
					return errors.New("course name is required")
				}
				return nil
			},
			apply: func(card *domain.Scorecard, in string) {
				card.CourseName = strings.TrimSpace(in)
			},
		},
		{
			name:   "date",
			prompt: "Date played (YYYY-MM-DD)",
			validate: func(in string) error {
				_, err := time.Parse("2006-01-02", strings.TrimSpace(in))
				return err
			},
			apply: func(card *domain.Scorecard, in string) {
				card.DatePlayed, _ = time.Parse("2006-01-02", strings.TrimSpace(in))
			},
		},
		{
			name:     "holes",
			prompt:   "Holes as par/strokes pairs, comma separated (e.g. 4/5, 3/4, 5/7)",
			validate: validateHoles,
			apply: func(card *domain.Scorecard, in string) {
				card.Holes, _ = parseHoles(in)
			},
		},
		{
			name:   "goals",
			prompt: "What are you working toward? (optional)",
			validate: func(string) error {
				return nil
			},
			apply: func(card *domain.Scorecard, in string) {
				card.Goals = strings.TrimSpace(in)
			},
		},
		{
			name:   "miss",
			prompt: "Your most common miss (optional, e.g. slice off the tee)",
			validate: func(string) error {
				return nil
			},
			apply: func(card *domain.Scorecard, in string) {
				card.BiggestMiss = strings.TrimSpace(in)
			},
		},
	}
}

func validateHoles(in string) error {
	holes, err := parseHoles(in)
	if err != nil {
		return err
	}
	card := domain.Scorecard{CourseName: "x", Holes: holes}
	return card.Validate()
}

func parseHoles(in string) ([]domain.HoleScore, error) {
	parts := strings.Split(in, ",")
	holes := make([]domain.HoleScore, 0, len(parts))
	for i, part := range parts {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		fields := strings.Split(part, "/")
		if len(fields) != 2 {
			return nil, fmt.Errorf("hole %d: expected par/strokes, got %q", i+1, part)
		}
		par, err := strconv.Atoi(strings.TrimSpace(fields[0]))
		if err != nil {
			return nil, fmt.Errorf("hole %d: bad par %q", i+1, fields[0])
		}
		strokes, err := strconv.Atoi(strings.TrimSpace(fields[1]))
		if err != nil {
			return nil, fmt.Errorf("hole %d: bad strokes %q", i+1, fields[1])
		}
		holes = append(holes, domain.HoleScore{Hole: len(holes) + 1, Par: par, Strokes: strokes})
	}
	if len(holes) == 0 {
		return nil, errors.New("at least one hole is required")
	}
	return holes, nil
}
