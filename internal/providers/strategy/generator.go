// Package strategy turns an uploaded scorecard into a practice plan and
// course strategy. The OpenAI generator is preferred; a deterministic
// heuristic generator backs it so preview never fails outright.
package strategy

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/billyrestey/golfstrategy/internal/domain"
)

const (
	openAIProviderName    = "openai"
	heuristicProviderName = "heuristic"
)

// Generator produces a strategy for a validated scorecard.
type Generator interface {
	Generate(ctx context.Context, card domain.Scorecard) (*domain.Strategy, error)
}

// HeuristicGenerator derives a strategy from scorecard statistics alone.
type HeuristicGenerator struct{}

func NewHeuristicGenerator() *HeuristicGenerator {
	return &HeuristicGenerator{}
}

type cardStats struct {
	overPar       int
	doubleOrWorse int
	threePutts    int
	fairwaysHit   int
	fairwayHoles  int
	girCount      int
	worstHoles    []domain.HoleScore
}

func computeStats(card domain.Scorecard) cardStats {
	var st cardStats
	for _, h := range card.Holes {
		over := h.Strokes - h.Par
		st.overPar += over
		if over >= 2 {
			st.doubleOrWorse++
		}
		if h.Putts >= 3 {
			st.threePutts++
		}
		if h.Par >= 4 {
			st.fairwayHoles++
			if h.FairwayHit {
				st.fairwaysHit++
			}
		}
		if h.GIR {
			st.girCount++
		}
	}
	st.worstHoles = append(st.worstHoles, card.Holes...)
	sort.Slice(st.worstHoles, func(i, j int) bool {
		return st.worstHoles[i].Strokes-st.worstHoles[i].Par > st.worstHoles[j].Strokes-st.worstHoles[j].Par
	})
	if len(st.worstHoles) > 3 {
		st.worstHoles = st.worstHoles[:3]
	}
	return st
}

func (g *HeuristicGenerator) Generate(ctx context.Context, card domain.Scorecard) (*domain.Strategy, error) {
	st := computeStats(card)
	course := cases.Title(language.English).String(strings.ToLower(strings.TrimSpace(card.CourseName)))
	if course == "" {
		course = "Your Course"
	}

	var plan []domain.PracticeItem
	if st.threePutts >= 2 {
		plan = append(plan, domain.PracticeItem{
			Area:      "putting",
			Drill:     "Lag putting ladder from 20, 30 and 40 feet",
			Minutes:   25,
			Rationale: fmt.Sprintf("%d three-putts on the card", st.threePutts),
		})
	}
	if st.fairwayHoles > 0 && st.fairwaysHit*2 < st.fairwayHoles {
		plan = append(plan, domain.PracticeItem{
			Area:      "driving",
			Drill:     "Fairway-finder: alternate driver and 3-wood to a 30 yard window",
			Minutes:   20,
			Rationale: fmt.Sprintf("hit %d of %d fairways", st.fairwaysHit, st.fairwayHoles),
		})
	}
	if st.girCount*2 < len(card.Holes) {
		plan = append(plan, domain.PracticeItem{
			Area:      "approach",
			Drill:     "9-shot drill from 100-150 yards, track proximity",
			Minutes:   25,
			Rationale: fmt.Sprintf("%d greens in regulation over %d holes", st.girCount, len(card.Holes)),
		})
	}
	if len(plan) == 0 {
		plan = append(plan, domain.PracticeItem{
			Area:    "short game",
			Drill:   "Up-and-down circuit from 10-40 yards",
			Minutes: 30,
		})
	}

	var advice []domain.HoleAdvice
	for _, h := range st.worstHoles {
		if h.Strokes-h.Par < 2 {
			continue
		}
		advice = append(advice, domain.HoleAdvice{
			Hole:   h.Hole,
			Advice: fmt.Sprintf("Par %d cost you %d. Club down off the tee and play to the fat side of the green.", h.Par, h.Strokes-h.Par),
		})
	}

	summary := fmt.Sprintf("You shot %d (%+d) at %s. The fastest strokes to recover are on the holes where you made double or worse (%d of them).",
		card.TotalStrokes(), st.overPar, course, st.doubleOrWorse)

	res := &domain.Strategy{
		Summary:        summary,
		Teaser:         fmt.Sprintf("We found %d focus areas in your round at %s.", len(plan), course),
		Strengths:      strengths(st, card),
		Weaknesses:     weaknesses(st),
		PracticePlan:   plan,
		CourseStrategy: advice,
		Provider:       heuristicProviderName,
	}
	return res, nil
}

func strengths(st cardStats, card domain.Scorecard) []string {
	var out []string
	if st.fairwayHoles > 0 && st.fairwaysHit*2 >= st.fairwayHoles {
		out = append(out, "driving accuracy")
	}
	if st.girCount*2 >= len(card.Holes) {
		out = append(out, "approach play")
	}
	if st.threePutts == 0 {
		out = append(out, "lag putting")
	}
	if len(out) == 0 {
		out = append(out, "course management fundamentals")
	}
	return out
}

func weaknesses(st cardStats) []string {
	var out []string
	if st.threePutts >= 2 {
		out = append(out, "three-putt avoidance")
	}
	if st.doubleOrWorse >= 2 {
		out = append(out, "blow-up holes")
	}
	if st.fairwayHoles > 0 && st.fairwaysHit*2 < st.fairwayHoles {
		out = append(out, "tee shot dispersion")
	}
	if len(out) == 0 {
		out = append(out, "consistency under pressure")
	}
	return out
}

var _ Generator = (*HeuristicGenerator)(nil)
