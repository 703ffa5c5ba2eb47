// Package suggest asks an LLM for IELTS speaking questions.
package suggest

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/abhisek/speaktest/internal/llm"
)

// ErrEmptySuggestion is returned when the model produced no usable question.
var ErrEmptySuggestion = errors.New("suggestion is empty")

// MaxQuestionLength bounds an accepted suggestion, in runes.
const MaxQuestionLength = 500

// Input narrows what kind of question to ask for. All fields are optional.
type Input struct {
	Topic string
	// Part is the IELTS speaking part (1, 2 or 3); 0 lets the model choose.
	Part int
	// Avoid lists questions that already exist and should not be repeated.
	Avoid []string
}

// Config controls the Suggester.
type Config struct {
	MaxTokens   int
	Temperature float64
	// MaxAvoid caps how many existing questions are sent for deduplication.
	MaxAvoid int
}

func DefaultConfig() Config {
	return Config{
		MaxTokens:   256,
		Temperature: 0.9,
		MaxAvoid:    10,
	}
}

// Suggester produces a single speaking question from an llm.Provider.
type Suggester struct {
	provider llm.Provider
	config   Config
}

func New(provider llm.Provider, cfg Config) *Suggester {
	return &Suggester{provider: provider, config: cfg}
}

type suggestionOutput struct {
	Question string `json:"question"`
}

// Suggest returns one trimmed question. Validation failures are
// ErrEmptySuggestion or a length error; provider failures are wrapped.
func (s *Suggester) Suggest(ctx context.Context, input Input) (string, error) {
	if input.Part < 0 || input.Part > 3 {
		return "", fmt.Errorf("invalid speaking part %d", input.Part)
	}

	ctx = llm.WithPurpose(ctx, "suggest-question")

	resp, err := s.provider.Generate(ctx, llm.Request{
		System: systemPrompt,
		Messages: []llm.Message{
			{Role: llm.RoleUser, Content: buildUserMessage(input, s.config)},
		},
		Schema:      QuestionSchema,
		MaxTokens:   s.config.MaxTokens,
		Temperature: s.config.Temperature,
	})
	if err != nil {
		return "", fmt.Errorf("LLM suggestion failed: %w", err)
	}

	var out suggestionOutput
	if err := json.Unmarshal(resp.Content, &out); err != nil {
		return "", fmt.Errorf("failed to parse LLM response: %w", err)
	}

	q := strings.TrimSpace(out.Question)
	if q == "" {
		return "", ErrEmptySuggestion
	}
	if n := len([]rune(q)); n > MaxQuestionLength {
		return "", fmt.Errorf("suggestion too long: %d characters", n)
	}
	return q, nil
}
