// Package retry provides a reusable exponential backoff policy for idempotent
// external calls.
package retry

import (
	"context"
	"time"
)

// Policy describes how an operation is retried: how many attempts are allowed,
// how long the first backoff lasts, and which errors are worth retrying.
// Backoff doubles after every failed attempt.
type Policy struct {
	MaxAttempts int
	BaseDelay   time.Duration

	// Retryable reports whether the error is transient. A nil predicate
	// retries every error.
	Retryable func(error) bool

	// Sleep is injectable for tests; the default honors ctx cancellation.
	Sleep func(ctx context.Context, d time.Duration) error
}

// Default returns the policy used for provider metadata fetches: 3 attempts,
// 1s base delay, doubling.
func Default(retryable func(error) bool) *Policy {
	return &Policy{
		MaxAttempts: 3,
		BaseDelay:   time.Second,
		Retryable:   retryable,
	}
}

// Do runs fn under the policy. The first attempt is immediate; each retry is
// preceded by BaseDelay << (attempt-1). The last error is returned once
// attempts are exhausted or a non-retryable error occurs.
func (p *Policy) Do(ctx context.Context, fn func() error) error {
	maxAttempts := p.MaxAttempts
	if maxAttempts < 1 {
		maxAttempts = 1
	}
	sleep := p.Sleep
	if sleep == nil {
		sleep = sleepCtx
	}

	var err error
	for attempt := 0; attempt < maxAttempts; attempt++ {
		if attempt > 0 {
			backoff := p.BaseDelay << (attempt - 1)
			if serr := sleep(ctx, backoff); serr != nil {
				return serr
			}
		}

		if err = fn(); err == nil {
			return nil
		}
		if p.Retryable != nil && !p.Retryable(err) {
			return err
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
	}
	return err
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
