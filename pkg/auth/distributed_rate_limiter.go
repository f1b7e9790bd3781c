package auth

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

var slidingWindowScript = redis.NewScript(`
	local key = KEYS[1]
	local now = tonumber(ARGV[1])
	local window_start = tonumber(ARGV[2])
	local limit = tonumber(ARGV[3])
	local window_ms = tonumber(ARGV[4])

	redis.call("zremrangebyscore", key, "-inf", window_start)
	local current = redis.call("zcard", key)
	if current < limit then
		redis.call("zadd", key, now, now .. "-" .. math.random())
		redis.call("pexpire", key, window_ms)
		return 1
	end
	return 0
`)

// DistributedRateLimiter keeps sliding windows in Redis so limits hold
// across Lambda instances and API replicas.
type DistributedRateLimiter struct {
	client    redis.Scripter
	limit     int
	window    time.Duration
	keyPrefix string
	now       func() time.Time
}

// NewDistributedRateLimiter creates a Redis-backed rate limiter
func NewDistributedRateLimiter(client redis.Scripter, limit int, window time.Duration, keyPrefix string) *DistributedRateLimiter {
	if keyPrefix == "" {
		keyPrefix = "astroguia:ratelimit:"
	}
	return &DistributedRateLimiter{
		client:    client,
		limit:     limit,
		window:    window,
		keyPrefix: keyPrefix,
		now:       time.Now,
	}
}

// Allow checks if a request is allowed under the rate limit. Redis errors
// fail open and are returned alongside allowed=true.
func (r *DistributedRateLimiter) Allow(ctx context.Context, key string) (bool, error) {
	if r.client == nil {
		return true, nil
	}

	now := r.now()
	allowed, err := slidingWindowScript.Run(ctx, r.client, []string{r.keyPrefix + key},
		now.UnixMilli(),
		now.Add(-r.window).UnixMilli(),
		r.limit,
		r.window.Milliseconds(),
	).Int()
	if err != nil {
		return true, fmt.Errorf("rate limiter error (failing open): %w", err)
	}
	return allowed == 1, nil
}

// Reset clears the window for a key
func (r *DistributedRateLimiter) Reset(ctx context.Context, key string) error {
	if r.client == nil {
		return nil
	}
	deleter, ok := r.client.(redis.Cmdable)
	if !ok {
		return nil
	}
	return deleter.Del(ctx, r.keyPrefix+key).Err()
}
