package tests

import (
	"sync/atomic"
	"testing"
	"time"

	"chaloride/internal/domain"
	"chaloride/internal/service"
)

// ──────────────────────────────────────────────
// 8. CANCELLATION FLOW
// ──────────────────────────────────────────────

func TestCancellation_FullFlow_ResetsToIdle(t *testing.T) {
	t.Parallel()

	f := confirmedFixture(t)

	if err := f.lifecycle.OpenCancellation(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := f.lifecycle.ConfirmCancellation(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := f.lifecycle.SelectCancellationReason("Changed my mind"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := f.lifecycle.CommitCancellation(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	snap := f.lifecycle.Snapshot()
	if snap.Status != domain.RideStatusIdle {
		t.Errorf("expected IDLE after cancellation, got %q", snap.Status)
	}
	if snap.Offer != nil || snap.TrackingLink != "" {
		t.Error("expected the ride bundle cleared after cancellation")
	}
	if snap.Cancellation.Step != domain.CancelStepIdle {
		t.Errorf("expected cancel overlay reset, got %q", snap.Cancellation.Step)
	}

	if got := atomic.LoadInt32(&f.notifier.RideCancelledCount); got != 1 {
		t.Errorf("expected 1 cancelled notification, got %d", got)
	}
	if got := f.notifier.LastCancelReason(); got != "Changed my mind" {
		t.Errorf("expected the selected reason, got %q", got)
	}
	if got := f.history.CountRides(); got != 0 {
		t.Errorf("expected no history entry for a cancelled ride, got %d", got)
	}
}

func TestCancellation_CommitWithoutReason_Rejected(t *testing.T) {
	t.Parallel()

	f := confirmedFixture(t)

	if err := f.lifecycle.OpenCancellation(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := f.lifecycle.ConfirmCancellation(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if err := f.lifecycle.CommitCancellation(); err != service.ErrNoCancelReason {
		t.Fatalf("expected ErrNoCancelReason, got %v", err)
	}

	// The rejected commit changes nothing: still CONFIRMED, still on the
	// reason step.
	snap := f.lifecycle.Snapshot()
	if snap.Status != domain.RideStatusConfirmed {
		t.Errorf("expected CONFIRMED, got %q", snap.Status)
	}
	if snap.Cancellation.Step != domain.CancelStepReason {
		t.Errorf("expected reason step, got %q", snap.Cancellation.Step)
	}
	if got := atomic.LoadInt32(&f.notifier.RideCancelledCount); got != 0 {
		t.Errorf("expected no cancelled notification, got %d", got)
	}
}

func TestCancellation_InvalidReason_Rejected(t *testing.T) {
	t.Parallel()

	f := confirmedFixture(t)

	if err := f.lifecycle.OpenCancellation(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := f.lifecycle.ConfirmCancellation(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := f.lifecycle.SelectCancellationReason("My dog ate the app"); err != service.ErrInvalidCancelReason {
		t.Errorf("expected ErrInvalidCancelReason, got %v", err)
	}
}

func TestCancellation_StepsEnforceOrder(t *testing.T) {
	t.Parallel()

	f := confirmedFixture(t)

	if err := f.lifecycle.ConfirmCancellation(); err != service.ErrCancelStep {
		t.Errorf("expected ErrCancelStep before opening, got %v", err)
	}
	if err := f.lifecycle.SelectCancellationReason("Other"); err != service.ErrCancelStep {
		t.Errorf("expected ErrCancelStep before the reason step, got %v", err)
	}
	if err := f.lifecycle.CommitCancellation(); err != service.ErrCancelStep {
		t.Errorf("expected ErrCancelStep before the reason step, got %v", err)
	}
}

func TestCancellation_Dismiss_KeepsRide(t *testing.T) {
	t.Parallel()

	f := confirmedFixture(t)

	if err := f.lifecycle.OpenCancellation(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	f.lifecycle.DismissCancellation()

	snap := f.lifecycle.Snapshot()
	if snap.Status != domain.RideStatusConfirmed {
		t.Errorf("expected CONFIRMED after dismiss, got %q", snap.Status)
	}
	if snap.Cancellation.Step != domain.CancelStepIdle {
		t.Errorf("expected cancel overlay closed, got %q", snap.Cancellation.Step)
	}
	if snap.Offer == nil {
		t.Error("expected the offer untouched after dismiss")
	}
}

func TestCancellation_RejectedOutsideConfirmed(t *testing.T) {
	t.Parallel()

	f := newFixture(nil)
	if err := f.lifecycle.OpenCancellation(); err != service.ErrNotConfirmed {
		t.Errorf("expected ErrNotConfirmed, got %v", err)
	}
}

func TestCancellation_CommitSupersedesPendingPayment(t *testing.T) {
	t.Parallel()

	f := confirmedFixture(t)

	// Start a cash payment, then cancel the ride before it completes.
	if err := f.lifecycle.SelectPayment("cash"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := f.lifecycle.OpenCancellation(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := f.lifecycle.ConfirmCancellation(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := f.lifecycle.SelectCancellationReason("Booked by mistake"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := f.lifecycle.CommitCancellation(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// The superseded payment completion must not fire.
	time.Sleep(60 * time.Millisecond)
	if got := f.lifecycle.Status(); got != domain.RideStatusIdle {
		t.Errorf("expected IDLE, got %q", got)
	}
	if got := f.history.CountRides(); got != 0 {
		t.Errorf("expected no completed ride, got %d", got)
	}
	if got := atomic.LoadInt32(&f.notifier.PaymentSuccessCount); got != 0 {
		t.Errorf("expected no payment notification, got %d", got)
	}
}
