package catalog

import (
	"context"
	"sync"
	"time"
)

// RateLimiter spaces outgoing requests so the back office is never
// asked more than N times a second. Callers take a slot under the
// lock and sleep outside it, so concurrent fetches queue up in
// reservation order.
type RateLimiter struct {
	mu       sync.Mutex
	nextSlot time.Time
	interval time.Duration
}

func NewRateLimiter(requestsPerSecond int) *RateLimiter {
	if requestsPerSecond <= 0 {
		requestsPerSecond = 1
	}
	return &RateLimiter{interval: time.Second / time.Duration(requestsPerSecond)}
}

// WaitTurn blocks until the caller's reserved slot arrives or the
// context is cancelled. A cancelled wait gives its slot up; the
// reservation stays consumed, which keeps the pacing conservative.
func (r *RateLimiter) WaitTurn(ctx context.Context) error {
	r.mu.Lock()
	now := time.Now()
	slot := now
	if r.nextSlot.After(now) {
		slot = r.nextSlot
	}
	r.nextSlot = slot.Add(r.interval)
	r.mu.Unlock()

	wait := time.Until(slot)
	if wait <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(wait)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
