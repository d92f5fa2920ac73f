package tests

import (
	"context"
	"strings"
	"sync/atomic"
	"testing"

	"chaloride/internal/domain"
	"chaloride/internal/logger"
	"chaloride/internal/service"
)

// ──────────────────────────────────────────────
// 10. RIDE SHARING
// ──────────────────────────────────────────────

func shareOffer() *domain.RideOffer {
	return &domain.RideOffer{
		DriverName:   "Ravi Kumar",
		VehicleModel: "Maruti Swift",
		LicensePlate: "KA-01-AB-1234",
		ETA:          "8 min",
		Fare:         "245.50",
	}
}

func TestShareRide_NativeSuccess(t *testing.T) {
	t.Parallel()

	sharer := &MockSharer{}
	notifier := NewMockNotifier()
	svc := service.NewShareService(sharer, notifier, logger.Nop())

	payload, native, err := svc.ShareRide(context.Background(), shareOffer(), "https://chalo.ride/track/abc", "5 min")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !native {
		t.Error("expected native share to succeed")
	}
	if got := atomic.LoadInt32(&sharer.ShareCallCount); got != 1 {
		t.Errorf("expected 1 native share call, got %d", got)
	}
	if got := atomic.LoadInt32(&notifier.LinkCopiedCount); got != 0 {
		t.Errorf("expected no copy fallback, got %d", got)
	}

	if payload.Link != "https://chalo.ride/track/abc" {
		t.Errorf("expected the tracking link in the payload, got %q", payload.Link)
	}
	for _, want := range []string{"Ravi Kumar", "Maruti Swift", "KA-01-AB-1234", "5 min"} {
		if !strings.Contains(payload.Text, want) {
			t.Errorf("expected payload text to mention %q, got %q", want, payload.Text)
		}
	}
}

func TestShareRide_NativeFailure_FallsBackToCopy(t *testing.T) {
	t.Parallel()

	sharer := &MockSharer{ShareError: errTestFailure}
	notifier := NewMockNotifier()
	svc := service.NewShareService(sharer, notifier, logger.Nop())

	_, native, err := svc.ShareRide(context.Background(), shareOffer(), "https://chalo.ride/track/abc", "5 min")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if native {
		t.Error("expected the copy fallback, not native success")
	}
	if got := atomic.LoadInt32(&notifier.LinkCopiedCount); got != 1 {
		t.Errorf("expected 1 link-copied notification, got %d", got)
	}
}

func TestShareRide_NoSharer_UsesCopyFallback(t *testing.T) {
	t.Parallel()

	notifier := NewMockNotifier()
	svc := service.NewShareService(nil, notifier, logger.Nop())

	_, native, err := svc.ShareRide(context.Background(), shareOffer(), "https://chalo.ride/track/abc", "8 min")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if native {
		t.Error("expected the copy fallback without a sharer")
	}
	if got := atomic.LoadInt32(&notifier.LinkCopiedCount); got != 1 {
		t.Errorf("expected 1 link-copied notification, got %d", got)
	}
}

func TestShareRide_NoActiveRide_Rejected(t *testing.T) {
	t.Parallel()

	notifier := NewMockNotifier()
	svc := service.NewShareService(nil, notifier, logger.Nop())

	if _, _, err := svc.ShareRide(context.Background(), nil, "", "8 min"); err != service.ErrNoOffer {
		t.Errorf("expected ErrNoOffer, got %v", err)
	}
}
