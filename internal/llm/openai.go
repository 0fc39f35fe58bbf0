package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/openai/openai-go/responses"
)

// OpenAIClient implements Client using the OpenAI Responses API
type OpenAIClient struct {
	client *openai.Client
	config *Config
}

// NewOpenAIClient creates a new OpenAI client. Extra request options, such as
// a base URL for tests, are passed through to the SDK.
func NewOpenAIClient(config *Config, apiKey string, opts ...option.RequestOption) (*OpenAIClient, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("API key is required")
	}

	client := openai.NewClient(append([]option.RequestOption{option.WithAPIKey(apiKey)}, opts...)...)
	return &OpenAIClient{
		client: &client,
		config: config,
	}, nil
}

// GenerateContent generates text with the configured model and sampling.
// Top-k has no Responses API equivalent and is not sent.
func (c *OpenAIClient) GenerateContent(ctx context.Context, prompt string) (string, error) {
	params := responses.ResponseNewParams{
		Model: c.config.ModelName(),
		Input: responses.ResponseNewParamsInputUnion{
			OfString: openai.String(prompt),
		},
		Temperature: openai.Float(float64(c.config.Sampling.Temperature)),
		TopP:        openai.Float(float64(c.config.Sampling.TopP)),
	}
	if c.config.Sampling.MaxOutputTokens > 0 {
		params.MaxOutputTokens = openai.Int(int64(c.config.Sampling.MaxOutputTokens))
	}

	resp, err := c.client.Responses.New(ctx, params)
	if err != nil {
		apiErr := &APIError{Provider: ProviderOpenAI, Message: "failed to generate content", Cause: err}
		var oaErr *openai.Error
		if errors.As(err, &oaErr) {
			apiErr.StatusCode = oaErr.StatusCode
		}
		return "", apiErr
	}

	text := resp.OutputText()
	if strings.TrimSpace(text) == "" {
		return "", &APIError{Provider: ProviderOpenAI, Message: "no text in response", Cause: ErrEmptyResponse}
	}
	return text, nil
}

// Model returns the configured model name
func (c *OpenAIClient) Model() string {
	return c.config.ModelName()
}

// Close is a no-op; the SDK holds no long-lived resources.
func (c *OpenAIClient) Close() error {
	return nil
}
