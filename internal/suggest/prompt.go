package suggest

import (
	"fmt"
	"strings"

	"github.com/abhisek/speaktest/internal/llm"
)

const systemPrompt = `You write practice questions for the IELTS Speaking test.

Rules:
- Produce exactly one question in plain English, as an examiner would say it.
- Part 1 questions are short and about familiar topics (home, work, hobbies).
- Part 2 questions are cue cards: "Describe ..." followed by "You should say:" and three or four bullet prompts on separate lines.
- Part 3 questions are abstract discussion questions linked to a broader theme.
- Do not number the question or add commentary.
- Do not repeat or paraphrase any question from the "already used" list.`

// QuestionSchema is the structured output expected from the model.
var QuestionSchema = &llm.Schema{
	Name:        "speaking-question",
	Description: "A single IELTS speaking practice question",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"question": map[string]any{
				"type":        "string",
				"description": "The question exactly as it should be shown to the candidate",
			},
		},
		"required":             []any{"question"},
		"additionalProperties": false,
	},
}

func buildUserMessage(input Input, cfg Config) string {
	var b strings.Builder

	if input.Part == 0 {
		b.WriteString("Part: any\n")
	} else {
		fmt.Fprintf(&b, "Part: %d\n", input.Part)
	}
	if topic := strings.TrimSpace(input.Topic); topic != "" {
		fmt.Fprintf(&b, "Topic: %s\n", topic)
	} else {
		b.WriteString("Topic: any everyday topic\n")
	}

	b.WriteString("\nAlready used:\n")
	b.WriteString(buildAvoid(input.Avoid, cfg.MaxAvoid))
	return b.String()
}

// buildAvoid keeps the first max entries; callers pass newest first.
func buildAvoid(questions []string, max int) string {
	if len(questions) == 0 {
		return "None"
	}
	if max > 0 && len(questions) > max {
		questions = questions[:max]
	}

	var b strings.Builder
	for i, q := range questions {
		// Multi-line cue cards collapse to their first line.
		line, _, _ := strings.Cut(strings.TrimSpace(q), "\n")
		fmt.Fprintf(&b, "%d. %s\n", i+1, line)
	}
	return strings.TrimRight(b.String(), "\n")
}
