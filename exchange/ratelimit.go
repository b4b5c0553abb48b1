package exchange

import (
	"context"
	"sync"
	"time"
)

// RateLimiter paces requests from one adapter instance: a token bucket of
// size one refilling every interval. It does not coordinate across
// instances or processes.
type RateLimiter struct {
	mu       sync.Mutex
	interval time.Duration
	next     time.Time
}

func NewRateLimiter(interval time.Duration) *RateLimiter {
	return &RateLimiter{interval: interval}
}

// Wait blocks until the configured interval since the previous request has
// elapsed, or until ctx is canceled. A canceled wait still consumes its
// slot, so the limiter clock stays consistent for subsequent calls.
func (l *RateLimiter) Wait(ctx context.Context) (time.Duration, error) {
	if l == nil || l.interval <= 0 {
		return 0, ctx.Err()
	}
	l.mu.Lock()
	now := time.Now()
	wait := l.next.Sub(now)
	if wait < 0 {
		wait = 0
		l.next = now.Add(l.interval)
	} else {
		l.next = l.next.Add(l.interval)
	}
	l.mu.Unlock()

	if wait == 0 {
		return 0, ctx.Err()
	}
	timer := time.NewTimer(wait)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return wait, ctx.Err()
	case <-timer.C:
		return wait, nil
	}
}
