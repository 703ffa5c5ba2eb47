package llm

import (
	"testing"
)

func TestGeminiModelMapping(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"gemini-flash", "gemini-2.0-flash"},
		{"gemini-pro", "gemini-2.0-pro"},
		{"gemini-2.0-flash", "gemini-2.0-flash"}, // Pass-through
	}
	for _, tt := range tests {
		got := resolveModel(tt.input, geminiModels)
		if got != tt.expected {
			t.Errorf("resolveModel(%q) = %q, want %q", tt.input, got, tt.expected)
		}
	}
}

func TestBuildGeminiSchema(t *testing.T) {
	def := map[string]any{
		"type": "object",
		"properties": map[string]any{
			"question": map[string]any{"type": "string", "description": "The prompt"},
			"minutes":  map[string]any{"type": "integer"},
			"part":     map[string]any{"type": "string", "enum": []any{"1", "2", "3"}},
			"bands": map[string]any{
				"type":  "array",
				"items": map[string]any{"type": "integer"},
			},
		},
		"required": []any{"question", "minutes"},
	}

	schema := geminiSchema(def)

	if schema.Type != "OBJECT" {
		t.Fatalf("expected OBJECT type, got %s", schema.Type)
	}
	if len(schema.Properties) != 4 {
		t.Fatalf("expected 4 properties, got %d", len(schema.Properties))
	}
	if schema.Properties["question"].Type != "STRING" {
		t.Fatalf("expected STRING for question, got %s", schema.Properties["question"].Type)
	}
	if schema.Properties["question"].Description != "The prompt" {
		t.Fatalf("expected description to carry over, got %q", schema.Properties["question"].Description)
	}
	if schema.Properties["minutes"].Type != "INTEGER" {
		t.Fatalf("expected INTEGER for minutes, got %s", schema.Properties["minutes"].Type)
	}
	if len(schema.Properties["part"].Enum) != 3 {
		t.Fatalf("expected 3 enum values, got %d", len(schema.Properties["part"].Enum))
	}
	if schema.Properties["bands"].Items.Type != "INTEGER" {
		t.Fatalf("expected INTEGER for bands items, got %s", schema.Properties["bands"].Items.Type)
	}
	if len(schema.Required) != 2 {
		t.Fatalf("expected 2 required fields, got %d", len(schema.Required))
	}
}

func TestGeminiSchema_UnknownTypeFallsBackToString(t *testing.T) {
	schema := geminiSchema(map[string]any{"type": "null"})
	if schema.Type != "STRING" {
		t.Fatalf("expected STRING fallback, got %s", schema.Type)
	}
}

func TestGeminiContents_MapsAssistantRole(t *testing.T) {
	contents := geminiContents([]Message{
		{Role: RoleUser, Content: "hi"},
		{Role: RoleAssistant, Content: "hello"},
	})
	if contents[0].Role != "user" || contents[1].Role != "model" {
		t.Fatalf("unexpected roles: %q, %q", contents[0].Role, contents[1].Role)
	}
}

func TestNewGeminiProvider_RequiresKey(t *testing.T) {
	if _, err := NewGeminiProvider(t.Context(), GeminiConfig{}); err == nil {
		t.Fatal("expected error for empty API key")
	}
}
