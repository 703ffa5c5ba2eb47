package llm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/abhisek/speaktest/internal/store"
)

// ErrDisabled is returned by NewProvider when no provider is configured.
var ErrDisabled = errors.New("no LLM provider configured")

// NewProvider creates a Provider from configuration, wrapped as
// caller → retry → logging → base. eventRepo may be nil to skip logging.
func NewProvider(ctx context.Context, cfg Config, eventRepo store.EventRepo) (Provider, error) {
	if !cfg.Enabled() {
		return nil, ErrDisabled
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	var (
		base Provider
		err  error
	)
	switch cfg.Provider {
	case "anthropic":
		base, err = NewAnthropicProvider(cfg.Anthropic)
	case "openai":
		base, err = NewOpenAIProvider(cfg.OpenAI)
	case "gemini":
		base, err = NewGeminiProvider(ctx, cfg.Gemini)
	case "openrouter":
		base, err = NewOpenRouterProvider(cfg.OpenRouter)
	case "mock":
		base = &MockProvider{Fallback: json.RawMessage(offlineQuestion)}
	default:
		return nil, fmt.Errorf("unknown LLM provider: %q", cfg.Provider)
	}
	if err != nil {
		return nil, fmt.Errorf("initializing %s provider: %w", cfg.Provider, err)
	}

	if eventRepo != nil {
		base = WithLogging(base, cfg.Provider, eventRepo)
	}
	return WithTimeout(WithRetry(base, cfg.Retry), cfg.Timeout), nil
}
