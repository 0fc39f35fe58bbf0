package llm

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"google.golang.org/api/googleapi"
)

type timeoutErr struct{}

func (timeoutErr) Error() string   { return "i/o timeout" }
func (timeoutErr) Timeout() bool   { return true }
func (timeoutErr) Temporary() bool { return true }

func TestAPIError_Error(t *testing.T) {
	err := &APIError{Provider: ProviderGemini, StatusCode: 503, Message: "failed to generate content", Cause: errors.New("unavailable")}
	assert.Equal(t, "gemini API error (status 503): failed to generate content: unavailable", err.Error())

	err = &APIError{Provider: ProviderOpenAI, Message: "no text in response"}
	assert.Equal(t, "openai API error: no text in response", err.Error())
}

func TestAPIError_Unwrap(t *testing.T) {
	err := &APIError{Provider: ProviderGemini, Message: "empty", Cause: ErrEmptyResponse}
	assert.ErrorIs(t, fmt.Errorf("wrapped: %w", err), ErrEmptyResponse)
}

func TestIsTransient(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{name: "nil", err: nil, want: false},
		{name: "rate limited", err: &APIError{StatusCode: 429}, want: true},
		{name: "request timeout", err: &APIError{StatusCode: 408}, want: true},
		{name: "server error", err: &APIError{StatusCode: 500}, want: true},
		{name: "unavailable", err: &APIError{StatusCode: 503}, want: true},
		{name: "bad request", err: &APIError{StatusCode: 400}, want: false},
		{name: "unauthorized", err: &APIError{StatusCode: 401}, want: false},
		{name: "empty response", err: &APIError{Cause: ErrEmptyResponse}, want: false},
		{name: "googleapi 502 cause", err: &APIError{Cause: &googleapi.Error{Code: 502}}, want: true},
		{name: "network timeout", err: &APIError{Cause: timeoutErr{}}, want: true},
		{name: "context canceled", err: &APIError{StatusCode: 503, Cause: context.Canceled}, want: false},
		{name: "deadline", err: context.DeadlineExceeded, want: false},
		{name: "plain error", err: errors.New("boom"), want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsTransient(tt.err))
		})
	}
}
