package scraper

import (
	"context"
	"time"
)

// retryPolicy retries a call up to attempts times. Only the first failure is
// followed by the cooldown; later attempts run back to back.
type retryPolicy struct {
	attempts int
	cooldown time.Duration
	sleep    func(context.Context, time.Duration) error
}

// attemptResult is the tagged outcome of a retried call.
type attemptResult[T any] struct {
	value    T
	err      error
	attempts int
}

func (r attemptResult[T]) ok() bool {
	return r.err == nil
}

func (p retryPolicy) backoff(attempt int) time.Duration {
	if attempt == 1 {
		return p.cooldown
	}
	return 0
}

// withRetry runs fn until it succeeds or the policy is exhausted. onRetry is
// called before each scheduled retry with the failed attempt number.
func withRetry[T any](ctx context.Context, policy retryPolicy, onRetry func(attempt int, err error), fn func() (T, error)) attemptResult[T] {
	var result attemptResult[T]
	attempts := max(policy.attempts, 1)

	for attempt := 1; attempt <= attempts; attempt++ {
		result.attempts = attempt
		value, err := fn()
		if err == nil {
			result.value = value
			result.err = nil
			return result
		}
		result.err = err

		if attempt == attempts || ctx.Err() != nil {
			break
		}
		if onRetry != nil {
			onRetry(attempt, err)
		}
		if delay := policy.backoff(attempt); delay > 0 && policy.sleep != nil {
			if err := policy.sleep(ctx, delay); err != nil {
				result.err = err
				break
			}
		}
	}
	return result
}

func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
