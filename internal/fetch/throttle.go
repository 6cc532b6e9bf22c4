package fetch

import (
	"context"
	"sync"
	"time"
)

// Throttled wraps a Fetcher so that successive Fetch calls are serialized and
// spaced at least minInterval apart. This is a cooperative per-source
// throttle, not a pipeline-wide lock: each source carries its own.
type Throttled struct {
	inner       Fetcher
	minInterval time.Duration

	mu       sync.Mutex
	lastCall time.Time
}

// Throttle wraps inner with a minimum spacing between calls. A non-positive
// interval only serializes calls without delaying them.
func Throttle(inner Fetcher, minInterval time.Duration) *Throttled {
	return &Throttled{inner: inner, minInterval: minInterval}
}

func (t *Throttled) Source() string { return t.inner.Source() }

// Fetch blocks until the spacing from the previous call has elapsed, then
// delegates. Context cancellation interrupts the wait.
func (t *Throttled) Fetch(ctx context.Context) ([]RawItem, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if !t.lastCall.IsZero() && t.minInterval > 0 {
		wait := t.minInterval - time.Since(t.lastCall)
		if wait > 0 {
			timer := time.NewTimer(wait)
			defer timer.Stop()
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-timer.C:
			}
		}
	}
	t.lastCall = time.Now()
	return t.inner.Fetch(ctx)
}
