package retry

import (
	"context"
	"fmt"
	"time"
)

// Config controls retry behaviour.
type Config struct {
	// MaxAttempts is the total number of calls including the first attempt.
	MaxAttempts int
	// BaseDelay is the base for quadratic backoff. Wait = BaseDelay * attempt².
	BaseDelay time.Duration
	// OnRetry is called after a failed attempt and before the next delay.
	// attempt is 1-indexed (1 = first attempt just failed).
	OnRetry func(attempt int, err error)
}

// Do calls fn up to cfg.MaxAttempts times, waiting BaseDelay * attempt²
// between failures. Returns nil on first success, or the last error after
// all attempts. Cancelling ctx aborts the wait, not a running fn.
func Do(ctx context.Context, cfg Config, fn func() error) error {
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = 1
	}

	var lastErr error
	for attempt := 1; attempt <= cfg.MaxAttempts; attempt++ {
		lastErr = fn()
		if lastErr == nil {
			return nil
		}

		if attempt == cfg.MaxAttempts {
			break
		}

		if cfg.OnRetry != nil {
			cfg.OnRetry(attempt, lastErr)
		}

		delay := cfg.BaseDelay * time.Duration(attempt*attempt)
		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return fmt.Errorf("retry cancelled after attempt %d: %w", attempt, ctx.Err())
		}
	}
	return lastErr
}
