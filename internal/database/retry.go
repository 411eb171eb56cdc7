package database

import (
	"context"
	"log/slog"
	"time"

	"github.com/MrJamesThe3rd/shoplite/internal/apperr"
)

// RetryPolicy bounds how often a busy unit of work is run again.
type RetryPolicy struct {
	Retries int
	Backoff time.Duration
}

// Retry runs fn until it succeeds, fails with a non-retryable error or the
// policy is exhausted. The wait doubles after every busy attempt.
func Retry(ctx context.Context, p RetryPolicy, fn func(ctx context.Context) error) error {
	wait := p.Backoff

	for attempt := 0; ; attempt++ {
		err := fn(ctx)
		if err == nil || !apperr.Retryable(err) || attempt >= p.Retries {
			return err
		}

		slog.DebugContext(ctx, "retrying busy unit of work", "attempt", attempt+1, "wait", wait, "error", err)

		timer := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			timer.Stop()
			return err
		case <-timer.C:
		}

		wait *= 2
	}
}
