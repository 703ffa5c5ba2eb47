package speakingtest

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"
)

var recordDefinition = map[string]any{
	"type": "object",
	"properties": map[string]any{
		"id":         map[string]any{"type": "integer"},
		"question":   map[string]any{"type": "string"},
		"response":   map[string]any{"type": []any{"string", "null"}},
		"score":      map[string]any{"type": []any{"number", "string", "null"}},
		"created_at": map[string]any{"type": []any{"string", "null"}},
	},
	"required": []any{"id", "question"},
}

// listEnvelope is the shape of a successful List response.
var listEnvelope = envelope{
	name: "speaking-test-list",
	definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"data": map[string]any{
				"type":  "array",
				"items": recordDefinition,
			},
		},
		"required": []any{"data"},
	},
}

// recordEnvelope is the shape of a successful Create response.
var recordEnvelope = envelope{
	name: "speaking-test-record",
	definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"data": recordDefinition,
		},
		"required": []any{"data"},
	},
}

type envelope struct {
	name       string
	definition map[string]any
}

// compiledEnvelopes caches compiled schemas by envelope name.
var compiledEnvelopes sync.Map // map[string]*jsonschema.Schema

// validate checks raw against the envelope schema.
func (e envelope) validate(raw []byte) error {
	// UnmarshalJSON keeps numbers as json.Number so "integer" checks are exact.
	parsed, err := jsonschema.UnmarshalJSON(bytes.NewReader(raw))
	if err != nil {
		return fmt.Errorf("invalid JSON: %w", err)
	}

	compiled, err := e.compile()
	if err != nil {
		return fmt.Errorf("compile schema %q: %w", e.name, err)
	}

	if err := compiled.Validate(parsed); err != nil {
		return fmt.Errorf("schema validation failed: %w", err)
	}
	return nil
}

func (e envelope) compile() (*jsonschema.Schema, error) {
	if cached, ok := compiledEnvelopes.Load(e.name); ok {
		return cached.(*jsonschema.Schema), nil
	}

	// The compiler wants a decoded JSON value, not Go maps with typed slices.
	defBytes, err := json.Marshal(e.definition)
	if err != nil {
		return nil, fmt.Errorf("marshal schema definition: %w", err)
	}
	var defParsed any
	if err := json.Unmarshal(defBytes, &defParsed); err != nil {
		return nil, fmt.Errorf("parse schema definition: %w", err)
	}

	c := jsonschema.NewCompiler()
	url := fmt.Sprintf("schema://%s.json", e.name)
	if err := c.AddResource(url, defParsed); err != nil {
		return nil, fmt.Errorf("add resource: %w", err)
	}

	compiled, err := c.Compile(url)
	if err != nil {
		return nil, fmt.Errorf("compile: %w", err)
	}

	compiledEnvelopes.Store(e.name, compiled)
	return compiled, nil
}
