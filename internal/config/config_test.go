package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// isolate points every lookup at an empty temp dir and clears overrides.
func isolate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)
	for _, k := range []string{
		"SPEAKTEST_CONFIG", "SPEAKTEST_API_URL", "SPEAKTEST_AUTHOR_ID", "SPEAKTEST_API_TIMEOUT",
		"SPEAKTEST_DB", "SPEAKTEST_DEBUG", "SPEAKTEST_LOG_FILE", "SPEAKTEST_LLM_PROVIDER",
		"GEMINI_API_KEY", "OPENAI_API_KEY", "ANTHROPIC_API_KEY", "OPENROUTER_API_KEY",
	} {
		t.Setenv(k, "")
	}
	return dir
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func TestLoad_Defaults(t *testing.T) {
	isolate(t)

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, DefaultBaseURL, cfg.API.BaseURL)
	assert.Equal(t, int64(DefaultAuthorID), cfg.API.AuthorID)
	assert.Zero(t, cfg.API.Timeout)
	assert.False(t, cfg.LLM.Enabled())
	assert.NoError(t, cfg.Validate())
}

func TestLoad_DefaultPathFile(t *testing.T) {
	dir := isolate(t)
	writeFile(t, filepath.Join(dir, "speaktest", "config.yaml"), `
api:
  base_url: http://tests.example:8080
  timeout: 5s
debug: true
`)

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "http://tests.example:8080", cfg.API.BaseURL)
	assert.Equal(t, 5*time.Second, cfg.API.Timeout)
	assert.True(t, cfg.Debug)
	// Unset keys keep their defaults.
	assert.Equal(t, int64(DefaultAuthorID), cfg.API.AuthorID)
	assert.Equal(t, "claude-haiku", cfg.LLM.Anthropic.Model)
}

func TestLoad_ExplicitPathMustExist(t *testing.T) {
	dir := isolate(t)

	_, err := Load(filepath.Join(dir, "missing.yaml"))
	assert.Error(t, err)
}

func TestLoad_ConfigEnvPath(t *testing.T) {
	dir := isolate(t)
	path := filepath.Join(dir, "custom.yaml")
	writeFile(t, path, "api:\n  author_id: 42\nllm:\n  provider: mock\n")
	t.Setenv("SPEAKTEST_CONFIG", path)

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, int64(42), cfg.API.AuthorID)
	assert.Equal(t, "mock", cfg.LLM.Provider)
	assert.Equal(t, 3, cfg.LLM.Retry.MaxAttempts)
}

func TestLoad_EmptyFile(t *testing.T) {
	dir := isolate(t)
	path := filepath.Join(dir, "empty.yaml")
	writeFile(t, path, "")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, DefaultBaseURL, cfg.API.BaseURL)
}

func TestLoad_MalformedFile(t *testing.T) {
	dir := isolate(t)
	path := filepath.Join(dir, "bad.yaml")
	writeFile(t, path, "api: [unclosed")

	_, err := Load(path)
	assert.Error(t, err)
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	dir := isolate(t)
	path := filepath.Join(dir, "c.yaml")
	writeFile(t, path, "api:\n  base_url: http://file.example\n")
	t.Setenv("SPEAKTEST_API_URL", "http://env.example:5000")
	t.Setenv("SPEAKTEST_AUTHOR_ID", "7")
	t.Setenv("SPEAKTEST_API_TIMEOUT", "250ms")
	t.Setenv("SPEAKTEST_DB", "/tmp/speaktest.db")
	t.Setenv("SPEAKTEST_DEBUG", "1")
	t.Setenv("SPEAKTEST_LOG_FILE", "/tmp/debug.log")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "http://env.example:5000", cfg.API.BaseURL)
	assert.Equal(t, int64(7), cfg.API.AuthorID)
	assert.Equal(t, 250*time.Millisecond, cfg.API.Timeout)
	assert.Equal(t, "/tmp/speaktest.db", cfg.DBPath)
	assert.True(t, cfg.Debug)
	assert.Equal(t, "/tmp/debug.log", cfg.LogFile)
}

func TestLoad_BadEnvValues(t *testing.T) {
	for _, tc := range []struct{ key, val string }{
		{"SPEAKTEST_AUTHOR_ID", "abc"},
		{"SPEAKTEST_API_TIMEOUT", "soon"},
		{"SPEAKTEST_DEBUG", "maybe"},
	} {
		t.Run(tc.key, func(t *testing.T) {
			isolate(t)
			t.Setenv(tc.key, tc.val)
			_, err := Load("")
			assert.ErrorContains(t, err, tc.key)
		})
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		ok     bool
	}{
		{"defaults", func(*Config) {}, true},
		{"https", func(c *Config) { c.API.BaseURL = "https://api.example" }, true},
		{"empty url", func(c *Config) { c.API.BaseURL = "" }, false},
		{"relative url", func(c *Config) { c.API.BaseURL = "/api" }, false},
		{"ftp url", func(c *Config) { c.API.BaseURL = "ftp://host" }, false},
		{"zero author", func(c *Config) { c.API.AuthorID = 0 }, false},
		{"negative timeout", func(c *Config) { c.API.Timeout = -time.Second }, false},
		{"llm missing key", func(c *Config) { c.LLM.Provider = "openai" }, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.ok {
				assert.NoError(t, err)
			} else {
				assert.Error(t, err)
			}
		})
	}
}
