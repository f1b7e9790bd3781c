// Package resilience wraps remote stores with bounded retries and a
// circuit breaker.
package resilience

import (
	"context"
	"math/rand/v2"
	"time"

	"astroguia-backend/application/ports"
	pkgerrors "astroguia-backend/pkg/errors"

	"go.uber.org/zap"
)

// RetryPolicy bounds how often and how patiently an operation is repeated
type RetryPolicy struct {
	Attempts  int
	BaseDelay time.Duration
	MaxDelay  time.Duration
}

// DefaultRetryPolicy is three attempts starting at 100ms
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{Attempts: 3, BaseDelay: 100 * time.Millisecond, MaxDelay: 2 * time.Second}
}

// Retrier runs operations under a RetryPolicy
type Retrier struct {
	policy  RetryPolicy
	metrics ports.Metrics
	logger  *zap.Logger
	sleep   func(ctx context.Context, d time.Duration) error
	jitter  func(d time.Duration) time.Duration
}

// NewRetrier creates a new Retrier
func NewRetrier(policy RetryPolicy, metrics ports.Metrics, logger *zap.Logger) *Retrier {
	if policy.Attempts < 1 {
		policy.Attempts = 1
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Retrier{
		policy:  policy,
		metrics: metrics,
		logger:  logger,
		sleep:   sleepContext,
		jitter:  halfJitter,
	}
}

// Do runs fn until it succeeds, fails permanently, the attempts run out
// or ctx ends. The last error is returned unchanged.
func (r *Retrier) Do(ctx context.Context, op string, fn func(ctx context.Context) error) error {
	var err error
	for attempt := 1; ; attempt++ {
		err = fn(ctx)
		if err == nil || attempt >= r.policy.Attempts || !shouldRetry(err) {
			return err
		}
		if ctx.Err() != nil {
			return pkgerrors.NewCancelledError(op, ctx.Err())
		}

		delay := r.backoff(attempt)
		r.logger.Debug("Retrying operation",
			zap.String("operation", op),
			zap.Int("attempt", attempt),
			zap.Duration("delay", delay),
			zap.Error(err),
		)
		if r.metrics != nil {
			r.metrics.PersistenceRetry(ctx)
		}
		if sleepErr := r.sleep(ctx, delay); sleepErr != nil {
			return pkgerrors.NewCancelledError(op, sleepErr)
		}
	}
}

// backoff doubles from the base delay per attempt, capped, then jittered
func (r *Retrier) backoff(attempt int) time.Duration {
	d := r.policy.BaseDelay
	for i := 1; i < attempt; i++ {
		d *= 2
		if r.policy.MaxDelay > 0 && d >= r.policy.MaxDelay {
			d = r.policy.MaxDelay
			break
		}
	}
	return r.jitter(d)
}

// shouldRetry excludes permanent failures and an open breaker
func shouldRetry(err error) bool {
	return pkgerrors.IsRetryable(err) && !pkgerrors.IsUnavailable(err)
}

func halfJitter(d time.Duration) time.Duration {
	if d <= 0 {
		return 0
	}
	half := d / 2
	return half + time.Duration(rand.Int64N(int64(half)+1))
}

func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
