// Package config provides configuration loading and validation for the CLI and server.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/jonathan/humanizer/internal/llm"
)

// Config represents the runtime configuration. Values are resolved as
// defaults, then an optional JSON file, then the environment, then CLI flags.
type Config struct {
	// Generation
	APIKey          string   `json:"api_key,omitempty"`  // provider API key
	Provider        string   `json:"provider,omitempty"` // gemini or openai
	Model           string   `json:"model,omitempty"`    // model name; empty uses the provider default
	Temperature     float64  `json:"temperature"`        // 0.0-2.0
	TopP            float64  `json:"top_p"`              // 0.0-1.0
	TopK            int      `json:"top_k"`              // 0 disables
	MaxOutputTokens int      `json:"max_output_tokens"`  // must be positive
	Timeout         Duration `json:"timeout"`            // per generation call
	MaxRetries      int      `json:"max_retries"`        // transient failures only

	// Server
	Port        int    `json:"port,omitempty"`
	DatabaseURL string `json:"database_url,omitempty"` // PostgreSQL connection URL; empty keeps results in memory

	// Logging
	LogLevel  string `json:"log_level,omitempty"`
	LogFormat string `json:"log_format,omitempty"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Provider:        string(llm.ProviderGemini),
		Temperature:     0.9,
		TopP:            0.95,
		TopK:            40,
		MaxOutputTokens: 8192,
		Timeout:         Duration(60 * time.Second),
		MaxRetries:      2,
		Port:            8080,
		LogLevel:        "info",
		LogFormat:       "console",
	}
}

// Load resolves configuration from defaults, the optional file at path and
// the environment. It does not validate.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path != "" {
		fileCfg, err := LoadConfig(path)
		if err != nil {
			return nil, err
		}
		cfg = *fileCfg
	}
	if err := cfg.ApplyEnv(os.Getenv); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// LoadConfig loads configuration from a JSON file. Keys missing from the file
// keep their default values.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		return nil, fmt.Errorf("config path is empty")
	}

	// Resolve path relative to current directory if not absolute
	if !filepath.IsAbs(path) {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get current directory: %w", err)
		}
		path = filepath.Join(cwd, path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	cfg := Default()
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}

	return &cfg, nil
}

// ApplyEnv overrides fields from environment variables read through getenv.
func (c *Config) ApplyEnv(getenv func(string) string) error {
	env := func(key string) string { return strings.TrimSpace(getenv(key)) }

	if v := env("HUMANIZER_PROVIDER"); v != "" {
		c.Provider = v
	}
	if v := env("HUMANIZER_MODEL"); v != "" {
		c.Model = v
	}

	if c.Provider == string(llm.ProviderOpenAI) {
		if v := env("OPENAI_API_KEY"); v != "" {
			c.APIKey = v
		}
	} else {
		if v := firstNonEmpty(env("GOOGLE_API_KEY"), env("GEMINI_API_KEY")); v != "" {
			c.APIKey = v
		}
	}

	floats := []struct {
		key string
		dst *float64
	}{
		{"HUMANIZER_TEMPERATURE", &c.Temperature},
		{"HUMANIZER_TOP_P", &c.TopP},
	}
	for _, f := range floats {
		if v := env(f.key); v != "" {
			parsed, err := strconv.ParseFloat(v, 64)
			if err != nil {
				return &Error{Field: f.key, Message: "must be a number", Cause: err}
			}
			*f.dst = parsed
		}
	}

	ints := []struct {
		key string
		dst *int
	}{
		{"HUMANIZER_TOP_K", &c.TopK},
		{"HUMANIZER_MAX_OUTPUT_TOKENS", &c.MaxOutputTokens},
		{"HUMANIZER_MAX_RETRIES", &c.MaxRetries},
		{"PORT", &c.Port},
	}
	for _, i := range ints {
		if v := env(i.key); v != "" {
			parsed, err := strconv.Atoi(v)
			if err != nil {
				return &Error{Field: i.key, Message: "must be an integer", Cause: err}
			}
			*i.dst = parsed
		}
	}

	if v := env("HUMANIZER_TIMEOUT"); v != "" {
		d, err := parseDuration(v)
		if err != nil {
			return &Error{Field: "HUMANIZER_TIMEOUT", Message: "must be a duration such as 60s", Cause: err}
		}
		c.Timeout = Duration(d)
	}
	if v := env("DATABASE_URL"); v != "" {
		c.DatabaseURL = v
	}
	if v := env("LOG_LEVEL"); v != "" {
		c.LogLevel = v
	}
	if v := env("LOG_FORMAT"); v != "" {
		c.LogFormat = v
	}
	return nil
}

// Validate checks that the configuration can drive a generation client.
func (c *Config) Validate() error {
	if err := c.ValidateSettings(); err != nil {
		return err
	}
	if strings.TrimSpace(c.APIKey) == "" {
		return &Error{Field: "api_key", Message: c.missingKeyMessage()}
	}
	return nil
}

// ValidateSettings checks value ranges without requiring a credential.
func (c *Config) ValidateSettings() error {
	if _, err := llm.ParseProvider(c.Provider); err != nil {
		return &Error{Field: "provider", Message: "must be gemini or openai", Cause: err}
	}
	if c.Temperature < 0 || c.Temperature > 2 {
		return &Error{Field: "temperature", Message: "must be between 0 and 2"}
	}
	if c.TopP < 0 || c.TopP > 1 {
		return &Error{Field: "top_p", Message: "must be between 0 and 1"}
	}
	if c.TopK < 0 {
		return &Error{Field: "top_k", Message: "must be non-negative"}
	}
	if c.MaxOutputTokens <= 0 {
		return &Error{Field: "max_output_tokens", Message: "must be positive"}
	}
	if c.Timeout <= 0 {
		return &Error{Field: "timeout", Message: "must be positive"}
	}
	if c.MaxRetries < 0 {
		return &Error{Field: "max_retries", Message: "must be non-negative"}
	}
	if c.Port < 0 || c.Port > 65535 {
		return &Error{Field: "port", Message: "must be between 0 and 65535"}
	}
	return nil
}

func (c *Config) missingKeyMessage() string {
	if c.Provider == string(llm.ProviderOpenAI) {
		return "required (set OPENAI_API_KEY or pass --api-key)"
	}
	return "required (set GOOGLE_API_KEY or pass --api-key)"
}

// MergeWithDefaults returns a new Config with zero-valued fields filled from
// defaults. CLI flags use this to fall back to file and environment values.
func (c *Config) MergeWithDefaults(defaults Config) Config {
	result := *c

	stringFields := []struct{ dst, def *string }{
		{&result.APIKey, &defaults.APIKey},
		{&result.Provider, &defaults.Provider},
		{&result.Model, &defaults.Model},
		{&result.DatabaseURL, &defaults.DatabaseURL},
		{&result.LogLevel, &defaults.LogLevel},
		{&result.LogFormat, &defaults.LogFormat},
	}
	for _, f := range stringFields {
		if *f.dst == "" {
			*f.dst = *f.def
		}
	}

	if result.Port == 0 {
		result.Port = defaults.Port
	}
	if result.Timeout == 0 {
		result.Timeout = defaults.Timeout
	}

	// There are no sampling flags; those values always come from defaults.
	result.Temperature = defaults.Temperature
	result.TopP = defaults.TopP
	result.TopK = defaults.TopK
	result.MaxOutputTokens = defaults.MaxOutputTokens
	result.MaxRetries = defaults.MaxRetries

	return result
}

// LLMConfig builds the generation client configuration.
func (c *Config) LLMConfig() *llm.Config {
	provider, _ := llm.ParseProvider(c.Provider)
	return &llm.Config{
		Provider: provider,
		Model:    c.Model,
		Sampling: llm.Sampling{
			Temperature:     float32(c.Temperature),
			TopP:            float32(c.TopP),
			TopK:            int32(c.TopK),
			MaxOutputTokens: int32(c.MaxOutputTokens),
		},
	}
}

// RetryPolicy returns the retry policy for generation calls.
func (c *Config) RetryPolicy() llm.RetryPolicy {
	p := llm.DefaultRetryPolicy()
	p.MaxRetries = c.MaxRetries
	return p
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
