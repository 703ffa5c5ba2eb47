package llm

// questionSchema mirrors the schema the suggester sends: one required
// "question" string and nothing else.
func questionSchema() *Schema {
	return &Schema{
		Name:        "speaking-question",
		Description: "A single IELTS speaking question",
		Definition: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"question": map[string]any{"type": "string"},
			},
			"required":             []any{"question"},
			"additionalProperties": false,
		},
	}
}

const questionSystem = "You write IELTS speaking test questions."

func questionRequest() Request {
	return Request{
		System:      questionSystem,
		Messages:    []Message{{Role: RoleUser, Content: "Part: 2\nTopic: travel"}},
		Schema:      questionSchema(),
		MaxTokens:   256,
		Temperature: 0.9,
	}
}
