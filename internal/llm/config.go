package llm

import (
	"fmt"
	"os"
	"time"
)

// Config holds LLM provider configuration. An empty Provider disables
// AI features.
type Config struct {
	// Provider selects which LLM provider to use.
	// Values: "", "anthropic", "openai", "gemini", "openrouter", "mock"
	Provider string `yaml:"provider"`

	Anthropic  AnthropicConfig  `yaml:"anthropic"`
	OpenAI     OpenAIConfig     `yaml:"openai"`
	Gemini     GeminiConfig     `yaml:"gemini"`
	OpenRouter OpenRouterConfig `yaml:"openrouter"`
	Retry      RetryConfig      `yaml:"retry"`

	// Timeout is the maximum duration for a single LLM request
	// (including retries). Default: 30s.
	Timeout time.Duration `yaml:"timeout"`
}

type AnthropicConfig struct {
	APIKey string `yaml:"api_key"`
	Model  string `yaml:"model"` // Default: "claude-haiku"
}

type OpenAIConfig struct {
	APIKey  string `yaml:"api_key"`
	Model   string `yaml:"model"`    // Default: "gpt-4o-mini"
	BaseURL string `yaml:"base_url"` // Optional, for OpenAI-compatible APIs.
}

type GeminiConfig struct {
	APIKey string `yaml:"api_key"`
	Model  string `yaml:"model"` // Default: "gemini-flash"
}

type OpenRouterConfig struct {
	APIKey  string `yaml:"api_key"`
	Model   string `yaml:"model"`    // Default: "google/gemini-2.0-flash-exp"
	BaseURL string `yaml:"base_url"` // Default: "https://openrouter.ai/api/v1"
}

// RetryConfig configures retry behavior for transient failures.
type RetryConfig struct {
	MaxAttempts int           `yaml:"max_attempts"`
	InitialWait time.Duration `yaml:"initial_wait"`
	MaxWait     time.Duration `yaml:"max_wait"`
	Multiplier  float64       `yaml:"multiplier"`
}

// DefaultConfig returns a disabled Config with per-provider model defaults.
func DefaultConfig() Config {
	return Config{
		Anthropic:  AnthropicConfig{Model: "claude-haiku"},
		OpenAI:     OpenAIConfig{Model: "gpt-4o-mini"},
		Gemini:     GeminiConfig{Model: "gemini-flash"},
		OpenRouter: OpenRouterConfig{Model: "google/gemini-2.0-flash-exp"},
		Retry: RetryConfig{
			MaxAttempts: 3,
			InitialWait: 1 * time.Second,
			MaxWait:     10 * time.Second,
			Multiplier:  2.0,
		},
		Timeout: 30 * time.Second,
	}
}

// Enabled reports whether a provider is selected.
func (c Config) Enabled() bool {
	return c.Provider != ""
}

// ApplyEnv overlays SPEAKTEST_* environment variables onto c. When no
// provider is selected explicitly, the standard vendor key variables are
// detected via DiscoverConfig.
func (c *Config) ApplyEnv() {
	setString := func(dst *string, key string) {
		if v := os.Getenv(key); v != "" {
			*dst = v
		}
	}

	setString(&c.Provider, "SPEAKTEST_LLM_PROVIDER")
	setString(&c.Anthropic.APIKey, "SPEAKTEST_ANTHROPIC_API_KEY")
	setString(&c.Anthropic.Model, "SPEAKTEST_ANTHROPIC_MODEL")
	setString(&c.OpenAI.APIKey, "SPEAKTEST_OPENAI_API_KEY")
	setString(&c.OpenAI.Model, "SPEAKTEST_OPENAI_MODEL")
	setString(&c.OpenAI.BaseURL, "SPEAKTEST_OPENAI_BASE_URL")
	setString(&c.Gemini.APIKey, "SPEAKTEST_GEMINI_API_KEY")
	setString(&c.Gemini.Model, "SPEAKTEST_GEMINI_MODEL")
	setString(&c.OpenRouter.APIKey, "SPEAKTEST_OPENROUTER_API_KEY")
	setString(&c.OpenRouter.Model, "SPEAKTEST_OPENROUTER_MODEL")

	if c.Provider == "" {
		if found, ok := DiscoverConfig(); ok {
			c.Provider = found.Provider
			switch found.Provider {
			case "gemini":
				c.Gemini.APIKey = found.Gemini.APIKey
			case "openai":
				c.OpenAI.APIKey = found.OpenAI.APIKey
			case "anthropic":
				c.Anthropic.APIKey = found.Anthropic.APIKey
			case "openrouter":
				c.OpenRouter.APIKey = found.OpenRouter.APIKey
			}
		}
	}
}

// ConfigFromEnv builds a Config from defaults and environment variables.
func ConfigFromEnv() Config {
	cfg := DefaultConfig()
	cfg.ApplyEnv()
	return cfg
}

// DiscoverConfig checks standard API key env vars in priority order
// (Gemini → OpenAI → Anthropic → OpenRouter) and returns a Config for the
// first provider whose key is found.
func DiscoverConfig() (Config, bool) {
	cfg := DefaultConfig()

	if k := os.Getenv("GEMINI_API_KEY"); k != "" {
		cfg.Provider = "gemini"
		cfg.Gemini.APIKey = k
		return cfg, true
	}
	if k := os.Getenv("OPENAI_API_KEY"); k != "" {
		cfg.Provider = "openai"
		cfg.OpenAI.APIKey = k
		return cfg, true
	}
	if k := os.Getenv("ANTHROPIC_API_KEY"); k != "" {
		cfg.Provider = "anthropic"
		cfg.Anthropic.APIKey = k
		return cfg, true
	}
	if k := os.Getenv("OPENROUTER_API_KEY"); k != "" {
		cfg.Provider = "openrouter"
		cfg.OpenRouter.APIKey = k
		return cfg, true
	}

	return Config{}, false
}

// Validate checks that the selected provider has its required API key set.
// A disabled config is valid.
func (c Config) Validate() error {
	switch c.Provider {
	case "", "mock":
	case "anthropic":
		if c.Anthropic.APIKey == "" {
			return fmt.Errorf("SPEAKTEST_ANTHROPIC_API_KEY is required for the anthropic provider")
		}
	case "openai":
		if c.OpenAI.APIKey == "" {
			return fmt.Errorf("SPEAKTEST_OPENAI_API_KEY is required for the openai provider")
		}
	case "gemini":
		if c.Gemini.APIKey == "" {
			return fmt.Errorf("SPEAKTEST_GEMINI_API_KEY is required for the gemini provider")
		}
	case "openrouter":
		if c.OpenRouter.APIKey == "" {
			return fmt.Errorf("SPEAKTEST_OPENROUTER_API_KEY is required for the openrouter provider")
		}
	default:
		return fmt.Errorf("unknown LLM provider: %q", c.Provider)
	}
	if c.Retry.MaxAttempts < 1 && c.Provider != "" {
		return fmt.Errorf("retry.max_attempts must be at least 1")
	}
	return nil
}
