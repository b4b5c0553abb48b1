package exchange

import (
	"context"
	"testing"
	"time"
)

func TestRateLimiterPacing(t *testing.T) {
	const interval = 40 * time.Millisecond
	l := NewRateLimiter(interval)
	ctx := context.Background()

	start := time.Now()
	if _, err := l.Wait(ctx); err != nil {
		t.Fatalf("first Wait: %v", err)
	}
	if _, err := l.Wait(ctx); err != nil {
		t.Fatalf("second Wait: %v", err)
	}
	if elapsed := time.Since(start); elapsed < interval {
		t.Fatalf("two requests completed in %v, want at least %v apart", elapsed, interval)
	}
}

func TestRateLimiterZeroInterval(t *testing.T) {
	l := NewRateLimiter(0)
	start := time.Now()
	for i := 0; i < 100; i++ {
		if _, err := l.Wait(context.Background()); err != nil {
			t.Fatalf("Wait: %v", err)
		}
	}
	if elapsed := time.Since(start); elapsed > 50*time.Millisecond {
		t.Fatalf("unlimited limiter blocked for %v", elapsed)
	}
}

func TestRateLimiterCancel(t *testing.T) {
	l := NewRateLimiter(time.Second)
	if _, err := l.Wait(context.Background()); err != nil {
		t.Fatalf("first Wait: %v", err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := l.Wait(ctx); err != context.Canceled {
		t.Fatalf("canceled Wait = %v, want context.Canceled", err)
	}
}

func TestNonceMonotonic(t *testing.T) {
	var src nonceSource
	prev := src.Next()
	for i := 0; i < 1000; i++ {
		n := src.Next()
		if n <= prev {
			t.Fatalf("nonce %d not greater than previous %d", n, prev)
		}
		prev = n
	}
}
