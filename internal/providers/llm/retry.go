package llm

import (
	"context"
	"time"

	"github.com/dislogroup/salesflow/internal/utils"
)

const (
	DefaultAttempts  = 3
	DefaultBaseDelay = 2 * time.Second
)

// Retry decorates a Provider with bounded retries. Only transient overload
// (UNAVAILABLE) is retried; any other failure propagates on first occurrence.
// Before attempt n+1 it sleeps n × base (2s, 4s with defaults). The sleep
// releases when the caller's context is cancelled, surfacing CANCELED instead
// of completing the wait. The upstream is read-only for these prompts, so
// repeating an attempt is safe.
type Retry struct {
	inner    Provider
	attempts int
	base     time.Duration
}

func NewRetry(inner Provider, attempts int, base time.Duration) *Retry {
	if attempts <= 0 {
		attempts = DefaultAttempts
	}
	if base <= 0 {
		base = DefaultBaseDelay
	}
	return &Retry{inner: inner, attempts: attempts, base: base}
}

func (r *Retry) Close() error { return r.inner.Close() }

func (r *Retry) Complete(ctx context.Context, prompt string) (string, error) {
	const op = "llm.Retry.Complete"

	var lastErr error
	for attempt := 1; attempt <= r.attempts; attempt++ {
		out, err := r.inner.Complete(ctx, prompt)
		if err == nil {
			return out, nil
		}
		if !utils.IsCode(err, utils.CodeUnavailable) {
			return "", err
		}

		lastErr = err
		if attempt == r.attempts {
			break
		}

		timer := time.NewTimer(time.Duration(attempt) * r.base)
		select {
		case <-timer.C:
		case <-ctx.Done():
			timer.Stop()
			return "", utils.E(utils.CodeCanceled, op, "canceled while waiting to retry", ctx.Err())
		}
	}
	return "", lastErr
}
