package auth

import (
	"context"
	"sync"
	"time"
)

// SlidingWindowLimiter is an in-memory per-key request limiter used by the
// HTTP middleware. Windows are pruned lazily on access.
type SlidingWindowLimiter struct {
	mu         sync.Mutex
	limit      int
	windowSize time.Duration
	windows    map[string][]time.Time
}

// NewSlidingWindowLimiter creates a limiter allowing `limit` requests per window.
func NewSlidingWindowLimiter(limit int, windowSize time.Duration) *SlidingWindowLimiter {
	return &SlidingWindowLimiter{
		limit:      limit,
		windowSize: windowSize,
		windows:    make(map[string][]time.Time),
	}
}

// Allow records a request for key and reports whether it is within the limit.
func (l *SlidingWindowLimiter) Allow(ctx context.Context, key string) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := time.Now()
	cutoff := now.Add(-l.windowSize)

	kept := l.windows[key][:0]
	for _, t := range l.windows[key] {
		if t.After(cutoff) {
			kept = append(kept, t)
		}
	}

	if len(kept) >= l.limit {
		l.windows[key] = kept
		return false, nil
	}

	l.windows[key] = append(kept, now)
	return true, nil
}

// Reset clears the window for a key.
func (l *SlidingWindowLimiter) Reset(key string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	delete(l.windows, key)
}

// NewIPRateLimiter creates a per-IP limiter with a one-minute window.
func NewIPRateLimiter(requestsPerMinute int) *SlidingWindowLimiter {
	return NewSlidingWindowLimiter(requestsPerMinute, time.Minute)
}

// NewUserRateLimiter creates a per-user limiter with a one-minute window.
func NewUserRateLimiter(requestsPerMinute int) *SlidingWindowLimiter {
	return NewSlidingWindowLimiter(requestsPerMinute, time.Minute)
}
