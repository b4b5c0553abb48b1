package exchange

import (
	"context"
	"time"

	"github.com/cenkalti/backoff/v5"
)

const (
	defaultRetryInitialInterval = 500 * time.Millisecond
	defaultRetryMaxInterval     = 30 * time.Second
)

// RetryTransient runs op with capped exponential backoff and jitter,
// retrying only transient exchange conditions (throttling, maintenance).
// Terminal kinds and transport errors surface immediately; ctx
// cancellation abandons the backoff wait.
func RetryTransient[T any](ctx context.Context, maxTries uint, op func() (T, error)) (T, error) {
	if maxTries <= 1 {
		return op()
	}
	wrapped := func() (T, error) {
		v, err := op()
		if err != nil && !IsRetryable(err) {
			var zero T
			return zero, backoff.Permanent(err)
		}
		return v, err
	}
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = defaultRetryInitialInterval
	b.MaxInterval = defaultRetryMaxInterval
	return backoff.Retry(ctx, wrapped,
		backoff.WithBackOff(b),
		backoff.WithMaxTries(maxTries),
	)
}
