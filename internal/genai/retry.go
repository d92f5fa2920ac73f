package genai

import (
	"context"
	"math/rand"
	"strings"
	"time"
)

// Retryer retries an operation with exponential backoff and jitter. The
// transient predicate is pluggable so the same combinator serves every call
// site; it holds no state beyond the call in flight and is safe for
// concurrent use.
type Retryer struct {
	// MaxAttempts is the total number of attempts, including the first.
	MaxAttempts int
	// BaseDelay is doubled before each retry: delay(i) = BaseDelay << i.
	BaseDelay time.Duration
	// JitterMax adds uniform random jitter in [0, JitterMax) to each delay.
	JitterMax time.Duration
	// Transient classifies errors worth retrying. Nil means IsTransient.
	Transient func(error) bool
}

// DefaultRetryer returns the policy applied to AI-service calls:
// 3 attempts, 2^i * 1s backoff plus up to 1s of jitter.
func DefaultRetryer() Retryer {
	return Retryer{
		MaxAttempts: 3,
		BaseDelay:   time.Second,
		JitterMax:   time.Second,
	}
}

// Do runs op, retrying transient failures up to MaxAttempts total attempts.
// Non-transient errors propagate immediately; exhausting retries surfaces
// the last observed error.
func (r Retryer) Do(ctx context.Context, op func(ctx context.Context) error) error {
	attempts := r.MaxAttempts
	if attempts < 1 {
		attempts = 1
	}
	transient := r.Transient
	if transient == nil {
		transient = IsTransient
	}

	var lastErr error
	for i := 0; i < attempts; i++ {
		if i > 0 {
			if err := sleepCtx(ctx, r.backoff(i-1)); err != nil {
				return err
			}
		}

		lastErr = op(ctx)
		if lastErr == nil {
			return nil
		}
		if !transient(lastErr) {
			return lastErr
		}
	}
	return lastErr
}

// backoff returns the delay before retry i (0-indexed).
func (r Retryer) backoff(i int) time.Duration {
	d := r.BaseDelay << uint(i)
	if r.JitterMax > 0 {
		d += time.Duration(rand.Int63n(int64(r.JitterMax)))
	}
	return d
}

// IsTransient classifies overload/unavailable signals as retriable.
func IsTransient(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "overloaded") || strings.Contains(msg, "unavailable")
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
