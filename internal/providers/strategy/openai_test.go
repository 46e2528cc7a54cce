package strategy

import (
	"context"
	"errors"
	"testing"
	"time"

	openai "github.com/sashabaranov/go-openai"

	"github.com/billyrestey/golfstrategy/internal/domain"
)

type fakeChatClient struct {
	content string
	err     error
	calls   int
}

func (f *fakeChatClient) CreateChatCompletion(ctx context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error) {
	f.calls++
	if f.err != nil {
		return openai.ChatCompletionResponse{}, f.err
	}
	return openai.ChatCompletionResponse{
		Choices: []openai.ChatCompletionChoice{
			{Message: openai.ChatCompletionMessage{Content: f.content}},
		},
	}, nil
}

func testCard() domain.Scorecard {
	return domain.Scorecard{
		PlayerName: "Billy",
		CourseName: "pebble creek",
		DatePlayed: time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC),
		Holes: []domain.HoleScore{
			{Hole: 1, Par: 4, Strokes: 6, Putts: 3},
			{Hole: 2, Par: 3, Strokes: 4, Putts: 2},
			{Hole: 3, Par: 5, Strokes: 7, Putts: 3, FairwayHit: false},
		},
	}
}

const goodPayload = `{
  "summary": "Solid ball striking, putting cost you five shots.",
  "teaser": "Putting is your biggest opportunity.",
  "strengths": ["iron play"],
  "weaknesses": ["lag putting"],
  "practice_plan": [{"area":"putting","drill":"ladder drill","minutes":30}],
  "course_strategy": [{"hole":1,"advice":"Hit 3-wood off the tee."}]
}`

func TestOpenAIGeneratorParsesPayload(t *testing.T) {
	chat := &fakeChatClient{content: goodPayload}
	g, err := NewOpenAIGenerator(OpenAIOptions{Client: chat})
	if err != nil {
		t.Fatalf("NewOpenAIGenerator: %v", err)
	}

	res, err := g.Generate(context.Background(), testCard())
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if res.Provider != openAIProviderName {
		t.Fatalf("provider mismatch: %q", res.Provider)
	}
	if len(res.PracticePlan) != 1 || res.PracticePlan[0].Area != "putting" {
		t.Fatalf("unexpected practice plan: %#v", res.PracticePlan)
	}
}

func TestOpenAIGeneratorStripsCodeFence(t *testing.T) {
	chat := &fakeChatClient{content: "```json\n" + goodPayload + "\n```"}
	g, _ := NewOpenAIGenerator(OpenAIOptions{Client: chat})

	res, err := g.Generate(context.Background(), testCard())
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if res.Summary == "" {
		t.Fatal("expected summary to survive fence stripping")
	}
}

func TestOpenAIGeneratorFallsBackOnError(t *testing.T) {
	var reason string
	chat := &fakeChatClient{err: errors.New("boom")}
	g, _ := NewOpenAIGenerator(OpenAIOptions{
		Client:     chat,
		Fallback:   NewHeuristicGenerator(),
		OnFallback: func(r string, err error) { reason = r },
	})

	res, err := g.Generate(context.Background(), testCard())
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if res.Provider != heuristicProviderName {
		t.Fatalf("expected heuristic fallback, got %q", res.Provider)
	}
	if reason != "chat_completion" {
		t.Fatalf("unexpected fallback reason %q", reason)
	}
}

func TestOpenAIGeneratorFallsBackOnInvalidPayload(t *testing.T) {
	chat := &fakeChatClient{content: `{"summary":""}`}
	g, _ := NewOpenAIGenerator(OpenAIOptions{Client: chat, Fallback: NewHeuristicGenerator()})

	res, err := g.Generate(context.Background(), testCard())
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if res.Provider != heuristicProviderName {
		t.Fatalf("expected heuristic fallback, got %q", res.Provider)
	}
}

func TestOpenAIGeneratorErrorWithoutFallback(t *testing.T) {
	chat := &fakeChatClient{err: errors.New("boom")}
	g, _ := NewOpenAIGenerator(OpenAIOptions{Client: chat})

	if _, err := g.Generate(context.Background(), testCard()); !errors.Is(err, domain.ErrProviderFailure) {
		t.Fatalf("expected ErrProviderFailure, got %v", err)
	}
}
