package tests

import (
	"context"
	"errors"
	"testing"
	"time"

	"chaloride/internal/genai"
)

// ──────────────────────────────────────────────
// 1. RETRY POLICY
// ──────────────────────────────────────────────

func fastRetryer() genai.Retryer {
	return genai.Retryer{
		MaxAttempts: 3,
		BaseDelay:   time.Millisecond,
		JitterMax:   time.Millisecond,
	}
}

func TestRetry_TransientThenSuccess_ThreeAttempts(t *testing.T) {
	t.Parallel()

	attempts := 0
	err := fastRetryer().Do(context.Background(), func(ctx context.Context) error {
		attempts++
		if attempts < 3 {
			return errors.New("model overloaded, try again")
		}
		return nil
	})

	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if attempts != 3 {
		t.Errorf("expected 3 attempts, got %d", attempts)
	}
}

func TestRetry_NonTransient_FailsImmediately(t *testing.T) {
	t.Parallel()

	attempts := 0
	wantErr := errors.New("invalid request")
	err := fastRetryer().Do(context.Background(), func(ctx context.Context) error {
		attempts++
		return wantErr
	})

	if !errors.Is(err, wantErr) {
		t.Fatalf("expected %v, got %v", wantErr, err)
	}
	if attempts != 1 {
		t.Errorf("expected 1 attempt, got %d", attempts)
	}
}

func TestRetry_Exhausted_ReturnsLastError(t *testing.T) {
	t.Parallel()

	attempts := 0
	err := fastRetryer().Do(context.Background(), func(ctx context.Context) error {
		attempts++
		return errors.New("service unavailable")
	})

	if err == nil {
		t.Fatal("expected error after exhausting retries")
	}
	if attempts != 3 {
		t.Errorf("expected 3 attempts, got %d", attempts)
	}
}

func TestRetry_ContextCancelled_StopsRetrying(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	attempts := 0
	retryer := genai.Retryer{
		MaxAttempts: 3,
		BaseDelay:   50 * time.Millisecond,
	}
	err := retryer.Do(ctx, func(ctx context.Context) error {
		attempts++
		cancel()
		return errors.New("overloaded")
	})

	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if attempts != 1 {
		t.Errorf("expected 1 attempt, got %d", attempts)
	}
}

func TestIsTransient_Classification(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name string
		err  error
		want bool
	}{
		{name: "nil error", err: nil, want: false},
		{name: "overloaded", err: errors.New("model Overloaded"), want: true},
		{name: "unavailable", err: errors.New("503 Service Unavailable"), want: true},
		{name: "validation", err: errors.New("invalid request"), want: false},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			if got := genai.IsTransient(tc.err); got != tc.want {
				t.Errorf("IsTransient(%v) = %v, want %v", tc.err, got, tc.want)
			}
		})
	}
}
