// Package llm wraps the text-generation providers behind a single Client
// interface and carries their sampling configuration.
package llm

import "fmt"

// Provider represents an LLM provider
type Provider string

// Provider constants define supported LLM providers
const (
	// ProviderGemini is the Google Gemini provider
	ProviderGemini Provider = "gemini"
	// ProviderOpenAI is the OpenAI provider
	ProviderOpenAI Provider = "openai"
)

// ParseProvider maps a provider name onto a Provider; empty means Gemini.
func ParseProvider(s string) (Provider, error) {
	switch Provider(s) {
	case "", ProviderGemini:
		return ProviderGemini, nil
	case ProviderOpenAI:
		return ProviderOpenAI, nil
	default:
		return "", fmt.Errorf("unknown provider %q", s)
	}
}

// Sampling holds the generation parameters sent with every request.
type Sampling struct {
	Temperature     float32
	TopP            float32
	TopK            int32 // ignored by providers without top-k
	MaxOutputTokens int32
}

// DefaultSampling returns a fairly creative setting suited to rewriting prose.
func DefaultSampling() Sampling {
	return Sampling{
		Temperature:     0.9,
		TopP:            0.95,
		TopK:            40,
		MaxOutputTokens: 8192,
	}
}

// Config holds the model configuration for the application
type Config struct {
	Provider Provider
	Model    string
	Sampling Sampling
}

// DefaultConfig returns the default configuration (Gemini)
func DefaultConfig() *Config {
	return DefaultGeminiConfig()
}

// DefaultGeminiConfig returns the default Gemini configuration
func DefaultGeminiConfig() *Config {
	return &Config{
		Provider: ProviderGemini,
		Model:    DefaultModel(ProviderGemini),
		Sampling: DefaultSampling(),
	}
}

// DefaultOpenAIConfig returns the default OpenAI configuration
func DefaultOpenAIConfig() *Config {
	return &Config{
		Provider: ProviderOpenAI,
		Model:    DefaultModel(ProviderOpenAI),
		Sampling: DefaultSampling(),
	}
}

// DefaultModel returns the model used when none is configured.
func DefaultModel(p Provider) string {
	switch p {
	case ProviderOpenAI:
		return "gpt-4o-mini"
	default:
		return "gemini-2.5-flash"
	}
}

// WithModel returns a copy of c using model.
func (c *Config) WithModel(model string) *Config {
	cp := *c
	cp.Model = model
	return &cp
}

// ModelName returns the configured model, falling back to the provider default.
func (c *Config) ModelName() string {
	if c.Model != "" {
		return c.Model
	}
	return DefaultModel(c.Provider)
}
