package auth

import (
	"context"
	"fmt"
	"sync"
	"time"
)

// RateLimiter provides rate limiting functionality
type RateLimiter interface {
	Allow(ctx context.Context, key string) (bool, error)
	Reset(ctx context.Context, key string) error
}

// SlidingWindowLimiter implements sliding window rate limiting in process memory
type SlidingWindowLimiter struct {
	mu         sync.Mutex
	windows    map[string][]time.Time
	limit      int
	windowSize time.Duration
	now        func() time.Time
}

// NewSlidingWindowLimiter creates a new sliding window rate limiter
func NewSlidingWindowLimiter(limit int, windowSize time.Duration) *SlidingWindowLimiter {
	return &SlidingWindowLimiter{
		windows:    make(map[string][]time.Time),
		limit:      limit,
		windowSize: windowSize,
		now:        time.Now,
	}
}

// Allow checks if a request is allowed
func (l *SlidingWindowLimiter) Allow(ctx context.Context, key string) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	windowStart := now.Add(-l.windowSize)

	requests := l.windows[key]
	kept := requests[:0]
	for _, t := range requests {
		if t.After(windowStart) {
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

// Reset resets the rate limit for a key
func (l *SlidingWindowLimiter) Reset(ctx context.Context, key string) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	delete(l.windows, key)
	return nil
}

// KeyedRateLimiter namespaces keys so one backing limiter can serve IPs and users
type KeyedRateLimiter struct {
	limiter RateLimiter
	prefix  string
}

// NewIPRateLimiter creates a new IP-based rate limiter
func NewIPRateLimiter(limiter RateLimiter) *KeyedRateLimiter {
	return &KeyedRateLimiter{limiter: limiter, prefix: "ip"}
}

// NewUserRateLimiter creates a new user-based rate limiter
func NewUserRateLimiter(limiter RateLimiter) *KeyedRateLimiter {
	return &KeyedRateLimiter{limiter: limiter, prefix: "user"}
}

// Allow checks the namespaced key
func (l *KeyedRateLimiter) Allow(ctx context.Context, key string) (bool, error) {
	return l.limiter.Allow(ctx, fmt.Sprintf("%s:%s", l.prefix, key))
}

// Reset clears the namespaced key
func (l *KeyedRateLimiter) Reset(ctx context.Context, key string) error {
	return l.limiter.Reset(ctx, fmt.Sprintf("%s:%s", l.prefix, key))
}
