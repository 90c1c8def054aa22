// Package retry re-runs failing operations with a linear backoff.
package retry

import (
	"context"
	"sync/atomic"
	"time"

	goretry "github.com/sethvargo/go-retry"
)

// Policy bounds how an operation is retried.
type Policy struct {
	// MaxAttempts counts the first call; values below 1 are treated as 1.
	MaxAttempts int
	// BaseDelay is multiplied by the attempt number before each retry.
	BaseDelay time.Duration
	// AttemptTimeout bounds every single attempt when positive.
	AttemptTimeout time.Duration
}

// Do runs op until it succeeds or the policy's attempts are exhausted, then
// returns the last error. Every error is retried.
func Do[T any](ctx context.Context, p Policy, op func(ctx context.Context) (T, error)) (T, error) {
	var result T
	err := goretry.Do(ctx, p.backoff(), func(ctx context.Context) error {
		attemptCtx := ctx
		if p.AttemptTimeout > 0 {
			var cancel context.CancelFunc
			attemptCtx, cancel = context.WithTimeout(ctx, p.AttemptTimeout)
			defer cancel()
		}

		v, err := op(attemptCtx)
		if err != nil {
			return goretry.RetryableError(err)
		}
		result = v
		return nil
	})
	if err != nil {
		var zero T
		return zero, err
	}
	return result, nil
}

// Exec is Do for operations without a result.
func Exec(ctx context.Context, p Policy, op func(ctx context.Context) error) error {
	_, err := Do(ctx, p, func(ctx context.Context) (struct{}, error) {
		return struct{}{}, op(ctx)
	})
	return err
}

// backoff waits attempt*BaseDelay before each retry.
func (p Policy) backoff() goretry.Backoff {
	var attempt int64
	linear := goretry.BackoffFunc(func() (time.Duration, bool) {
		n := atomic.AddInt64(&attempt, 1)
		return time.Duration(n) * p.BaseDelay, false
	})

	retries := p.MaxAttempts - 1
	if retries < 0 {
		retries = 0
	}
	return goretry.WithMaxRetries(uint64(retries), linear)
}
