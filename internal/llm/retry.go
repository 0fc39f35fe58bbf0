package llm

import (
	"context"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/jonathan/humanizer/internal/logger"
)

// RetryPolicy bounds retries of transient generation failures.
type RetryPolicy struct {
	MaxRetries      int
	InitialInterval time.Duration
	MaxInterval     time.Duration
}

// DefaultRetryPolicy retries twice starting at half a second.
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{
		MaxRetries:      2,
		InitialInterval: 500 * time.Millisecond,
		MaxInterval:     5 * time.Second,
	}
}

type retryingClient struct {
	Client
	policy RetryPolicy
}

// WithRetry wraps c so transient failures (see IsTransient) are retried with
// exponential backoff. A policy with MaxRetries <= 0 returns c unchanged.
func WithRetry(c Client, policy RetryPolicy) Client {
	if policy.MaxRetries <= 0 {
		return c
	}
	return &retryingClient{Client: c, policy: policy}
}

func (r *retryingClient) GenerateContent(ctx context.Context, prompt string) (string, error) {
	var text string
	op := func() error {
		out, err := r.Client.GenerateContent(ctx, prompt)
		if err != nil {
			if ctx.Err() != nil || !IsTransient(err) {
				return backoff.Permanent(err)
			}
			return err
		}
		text = out
		return nil
	}

	b := backoff.NewExponentialBackOff()
	if r.policy.InitialInterval > 0 {
		b.InitialInterval = r.policy.InitialInterval
	}
	if r.policy.MaxInterval > 0 {
		b.MaxInterval = r.policy.MaxInterval
	}
	b.MaxElapsedTime = 0

	policy := backoff.WithContext(backoff.WithMaxRetries(b, uint64(r.policy.MaxRetries)), ctx)
	notify := func(err error, wait time.Duration) {
		logger.C(ctx).Warn().Err(err).Dur("wait", wait).Str("model", r.Model()).Msg("retrying generation")
	}

	if err := backoff.RetryNotify(op, policy, notify); err != nil {
		return "", err
	}
	return text, nil
}
