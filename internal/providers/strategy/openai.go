package strategy

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	openai "github.com/sashabaranov/go-openai"

	"github.com/billyrestey/golfstrategy/internal/domain"
)

const defaultOpenAIModel = "gpt-4o-mini"

// ChatClient captures the subset of the go-openai client the generator uses.
type ChatClient interface {
	CreateChatCompletion(ctx context.Context, request openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error)
}

type OpenAIOptions struct {
	Client     ChatClient
	Model      string
	Fallback   Generator
	OnFallback func(reason string, err error)
}

// OpenAIGenerator asks a chat model for a strategy and falls back to the
// heuristic generator on any provider problem.
type OpenAIGenerator struct {
	chat       ChatClient
	model      string
	fallback   Generator
	onFallback func(reason string, err error)
}

func NewOpenAIGenerator(opts OpenAIOptions) (*OpenAIGenerator, error) {
	if opts.Client == nil {
		return nil, errors.New("openai client is required")
	}
	model := strings.TrimSpace(opts.Model)
	if model == "" {
		model = defaultOpenAIModel
	}
	return &OpenAIGenerator{
		chat:       opts.Client,
		model:      model,
		fallback:   opts.Fallback,
		onFallback: opts.OnFallback,
	}, nil
}

// NewOpenAIGeneratorFromKey builds a generator with the stock go-openai
// client. baseURL may be empty for the public API.
func NewOpenAIGeneratorFromKey(apiKey, baseURL, model string, fallback Generator, onFallback func(string, error)) (*OpenAIGenerator, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, errors.New("openai api key is required")
	}
	cfg := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = strings.TrimRight(baseURL, "/")
	}
	return NewOpenAIGenerator(OpenAIOptions{
		Client:     openai.NewClientWithConfig(cfg),
		Model:      model,
		Fallback:   fallback,
		OnFallback: onFallback,
	})
}

type modelStrategyPayload struct {
	Summary        string                `json:"summary"`
	Teaser         string                `json:"teaser"`
	Strengths      []string              `json:"strengths"`
	Weaknesses     []string              `json:"weaknesses"`
	PracticePlan   []domain.PracticeItem `json:"practice_plan"`
	CourseStrategy []domain.HoleAdvice   `json:"course_strategy"`
}

func (g *OpenAIGenerator) Generate(ctx context.Context, card domain.Scorecard) (*domain.Strategy, error) {
	req := openai.ChatCompletionRequest{
		Model:       g.model,
		Temperature: 0.4,
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: buildUserPrompt(card)},
		},
	}
	resp, err := g.chat.CreateChatCompletion(ctx, req)
	if err != nil {
		return g.useFallback(ctx, card, "chat_completion", err)
	}
	if len(resp.Choices) == 0 {
		return g.useFallback(ctx, card, "empty_choices", errors.New("no choices"))
	}
	text := strings.TrimSpace(resp.Choices[0].Message.Content)
	if text == "" {
		return g.useFallback(ctx, card, "empty_response", errors.New("empty response"))
	}
	var parsed modelStrategyPayload
	if err := json.Unmarshal([]byte(sanitizeJSON(text)), &parsed); err != nil {
		return g.useFallback(ctx, card, "parse_payload", err)
	}
	out := &domain.Strategy{
		Summary:        parsed.Summary,
		Teaser:         parsed.Teaser,
		Strengths:      parsed.Strengths,
		Weaknesses:     parsed.Weaknesses,
		PracticePlan:   parsed.PracticePlan,
		CourseStrategy: parsed.CourseStrategy,
		Provider:       openAIProviderName,
	}
	if err := out.Validate(); err != nil {
		return g.useFallback(ctx, card, "invalid_payload", err)
	}
	if out.Teaser == "" {
		out.Teaser = firstSentence(out.Summary)
	}
	return out, nil
}

func (g *OpenAIGenerator) useFallback(ctx context.Context, card domain.Scorecard, reason string, err error) (*domain.Strategy, error) {
	if g.onFallback != nil {
		g.onFallback(reason, err)
	}
	if g.fallback == nil {
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %v", domain.ErrProviderFailure, reason, err)
		}
		return nil, fmt.Errorf("%w: %s", domain.ErrProviderFailure, reason)
	}
	return g.fallback.Generate(ctx, card)
}

const systemPrompt = "You are a golf coach. Respond only with a JSON object with keys " +
	"summary, teaser, strengths, weaknesses, practice_plan (area, drill, minutes, rationale) " +
	"and course_strategy (hole, advice). Base every recommendation on the scorecard supplied."

func buildUserPrompt(card domain.Scorecard) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Course: %s", card.CourseName)
	if card.TeeName != "" {
		fmt.Fprintf(&b, " (%s tees)", card.TeeName)
	}
	b.WriteString("\n")
	if card.HandicapIndex > 0 {
		fmt.Fprintf(&b, "Handicap index: %.1f\n", card.HandicapIndex)
	}
	fmt.Fprintf(&b, "Total: %d on par %d\n", card.TotalStrokes(), card.TotalPar())
	b.WriteString("Holes:\n")
	for _, h := range card.Holes {
		fmt.Fprintf(&b, "  hole %d par %d strokes %d", h.Hole, h.Par, h.Strokes)
		if h.Putts > 0 {
			fmt.Fprintf(&b, " putts %d", h.Putts)
		}
		if h.Par >= 4 {
			fmt.Fprintf(&b, " fairway=%t", h.FairwayHit)
		}
		fmt.Fprintf(&b, " gir=%t\n", h.GIR)
	}
	if card.Goals != "" {
		fmt.Fprintf(&b, "Player goals: %s\n", card.Goals)
	}
	if card.BiggestMiss != "" {
		fmt.Fprintf(&b, "Self-reported biggest miss: %s\n", card.BiggestMiss)
	}
	return b.String()
}

// sanitizeJSON strips a markdown code fence if the model wrapped its JSON.
func sanitizeJSON(text string) string {
	text = strings.TrimSpace(text)
	if strings.HasPrefix(text, "```") {
		text = strings.TrimPrefix(text, "```json")
		text = strings.TrimPrefix(text, "```")
		if i := strings.LastIndex(text, "```"); i >= 0 {
			text = text[:i]
		}
	}
	return strings.TrimSpace(text)
}

func firstSentence(s string) string {
	if i := strings.IndexAny(s, ".!?"); i >= 0 {
		return s[:i+1]
	}
	return s
}

var _ Generator = (*OpenAIGenerator)(nil)
