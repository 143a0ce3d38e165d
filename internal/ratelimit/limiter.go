// Package ratelimit throttles login and registration attempts per identifier
// with a sliding window over recorded attempts.
package ratelimit

import (
	"context"
	"log"
	"time"

	"brgyalert/backend/internal/apperr"
)

// Limiter allows at most Limit attempts per key inside Window.
type Limiter struct {
	store  Store
	limit  int
	window time.Duration
	now    func() time.Time
}

func New(store Store, limit int, window time.Duration) *Limiter {
	if limit <= 0 {
		limit = 1
	}
	if window <= 0 {
		window = time.Minute
	}
	return &Limiter{
		store:  store,
		limit:  limit,
		window: window,
		now:    time.Now,
	}
}

// WithClock replaces the time source; used by tests.
func (l *Limiter) WithClock(now func() time.Time) *Limiter {
	l.now = now
	return l
}

// Reserve records an attempt for key, or fails with rate_limited when the
// window already holds Limit attempts. Pruning, counting and recording happen
// in one store operation, so concurrent callers cannot overshoot the limit.
// The slot stays taken until the window passes or Reset is called.
// Store errors fail open.
func (l *Limiter) Reserve(ctx context.Context, key string) error {
	now := l.now()
	ok, err := l.store.Reserve(ctx, key, now, now.Add(-l.window), l.limit)
	if err != nil {
		log.Printf("WARN: rate limiter reserve for %q failed: %v", key, err)
		return nil
	}
	if !ok {
		return apperr.RateLimited("too many attempts, please try again later")
	}
	return nil
}

// Reset forgets every attempt for key.
func (l *Limiter) Reset(ctx context.Context, key string) {
	if err := l.store.Clear(ctx, key); err != nil {
		log.Printf("WARN: rate limiter reset for %q failed: %v", key, err)
	}
}
