package extract

import (
	"context"
	"time"
)

// Policy is a reusable retry-with-degradation policy. Every oracle-calling
// component shares this instead of hand-rolling its own loop: on
// exhaustion the caller receives Degraded plus the last error, never a
// panic or a partial value.
type Policy[T any] struct {
	// MaxAttempts bounds the number of tries; values below 1 mean one try
	MaxAttempts int

	// Backoff is the fixed pause between attempts
	Backoff time.Duration

	// Degraded is the value returned when all attempts fail
	Degraded T

	// Retryable reports whether an error is worth another attempt.
	// Nil means every error is retryable.
	Retryable func(error) bool
}

// Do runs op until it succeeds or attempts are exhausted. The returned
// error is the last attempt's error; the value is Degraded whenever the
// error is non-nil.
func (p Policy[T]) Do(ctx context.Context, op func(context.Context) (T, error)) (T, error) {
	attempts := p.MaxAttempts
	if attempts < 1 {
		attempts = 1
	}

	var lastErr error
	for attempt := 0; attempt < attempts; attempt++ {
		v, err := op(ctx)
		if err == nil {
			return v, nil
		}
		lastErr = err

		if p.Retryable != nil && !p.Retryable(err) {
			break
		}

		if attempt < attempts-1 && p.Backoff > 0 {
			select {
			case <-ctx.Done():
				return p.Degraded, ctx.Err()
			case <-time.After(p.Backoff):
			}
		}
	}

	return p.Degraded, lastErr
}
