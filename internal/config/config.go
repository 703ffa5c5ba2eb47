// Package config loads speaktest settings from defaults, an optional YAML
// file and SPEAKTEST_* environment variables.
package config

import (
	"errors"
	"fmt"
	"io"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/abhisek/speaktest/internal/llm"
)

const (
	DefaultBaseURL  = "http://localhost:5000"
	DefaultAuthorID = 1
)

// Config is the full application configuration.
type Config struct {
	API     APIConfig  `yaml:"api"`
	DBPath  string     `yaml:"db_path"`
	Debug   bool       `yaml:"debug"`
	LogFile string     `yaml:"log_file"`
	LLM     llm.Config `yaml:"llm"`
}

// APIConfig points at the speaking-test backend.
type APIConfig struct {
	BaseURL  string        `yaml:"base_url"`
	AuthorID int64         `yaml:"author_id"`
	Timeout  time.Duration `yaml:"timeout"` // 0 uses the transport default
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		API: APIConfig{
			BaseURL:  DefaultBaseURL,
			AuthorID: DefaultAuthorID,
		},
		LogFile: "speaktest-debug.log",
		LLM:     llm.DefaultConfig(),
	}
}

// DefaultPath returns $XDG_CONFIG_HOME/speaktest/config.yaml, falling back
// to ~/.config.
func DefaultPath() (string, error) {
	dir := os.Getenv("XDG_CONFIG_HOME")
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("get home dir: %w", err)
		}
		dir = filepath.Join(home, ".config")
	}
	return filepath.Join(dir, "speaktest", "config.yaml"), nil
}

// Load builds a Config. An explicit path (or $SPEAKTEST_CONFIG) must
// exist; the default path is read only if present. Environment variables
// override file values.
func Load(path string) (*Config, error) {
	cfg := Default()

	required := true
	if path == "" {
		path = os.Getenv("SPEAKTEST_CONFIG")
	}
	if path == "" {
		required = false
		p, err := DefaultPath()
		if err == nil {
			path = p
		}
	}

	if path != "" {
		if err := decodeFile(path, &cfg); err != nil {
			if required || !errors.Is(err, os.ErrNotExist) {
				return nil, err
			}
		}
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	cfg.LLM.ApplyEnv()

	return &cfg, nil
}

func decodeFile(path string, cfg *Config) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open config: %w", err)
	}
	defer f.Close()

	if err := yaml.NewDecoder(f).Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("parse config %s: %w", path, err)
	}
	return nil
}

func (c *Config) applyEnv() error {
	if v := os.Getenv("SPEAKTEST_API_URL"); v != "" {
		c.API.BaseURL = v
	}
	if v := os.Getenv("SPEAKTEST_AUTHOR_ID"); v != "" {
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return fmt.Errorf("SPEAKTEST_AUTHOR_ID: %w", err)
		}
		c.API.AuthorID = id
	}
	if v := os.Getenv("SPEAKTEST_API_TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("SPEAKTEST_API_TIMEOUT: %w", err)
		}
		c.API.Timeout = d
	}
	if v := os.Getenv("SPEAKTEST_DB"); v != "" {
		c.DBPath = v
	}
	if v := os.Getenv("SPEAKTEST_DEBUG"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("SPEAKTEST_DEBUG: %w", err)
		}
		c.Debug = b
	}
	if v := os.Getenv("SPEAKTEST_LOG_FILE"); v != "" {
		c.LogFile = v
	}
	return nil
}

// Validate reports the first invalid setting.
func (c *Config) Validate() error {
	if c.API.BaseURL == "" {
		return fmt.Errorf("api.base_url is required")
	}
	u, err := url.Parse(c.API.BaseURL)
	if err != nil {
		return fmt.Errorf("api.base_url: %w", err)
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("api.base_url must be an absolute http(s) URL, got %q", c.API.BaseURL)
	}
	if c.API.AuthorID <= 0 {
		return fmt.Errorf("api.author_id must be positive, got %d", c.API.AuthorID)
	}
	if c.API.Timeout < 0 {
		return fmt.Errorf("api.timeout must not be negative")
	}
	if err := c.LLM.Validate(); err != nil {
		return fmt.Errorf("llm: %w", err)
	}
	return nil
}
