package tests

import (
	"sync/atomic"
	"testing"
	"time"

	"chaloride/internal/domain"
	"chaloride/internal/genai"
	"chaloride/internal/logger"
	"chaloride/internal/service"
)

// ──────────────────────────────────────────────
// 5. FARE ESTIMATOR DEBOUNCE
// ──────────────────────────────────────────────

func newEstimator(gen *MockRideGenerator) *service.FareEstimator {
	return service.NewFareEstimator(gen, 30*time.Millisecond, logger.Nop())
}

func estimatorRequest(pickup, destination string) domain.RideRequest {
	return domain.RideRequest{
		Pickup:         pickup,
		Destination:    destination,
		Vehicle:        domain.VehicleCar,
		PassengerCount: 1,
	}
}

func TestEstimator_RapidEdits_CollapseToOneCall(t *testing.T) {
	t.Parallel()

	gen := NewMockRideGenerator()
	gen.EstimateFunc = func(req genai.GenerateRequest) (*domain.FareEstimate, error) {
		return &domain.FareEstimate{EstimatedFare: "to " + req.Destination}, nil
	}
	e := newEstimator(gen)

	// Three quick edits inside one debounce window.
	e.Trigger(estimatorRequest("MG Road", "Airport"))
	e.Trigger(estimatorRequest("MG Road", "Airport T1"))
	e.Trigger(estimatorRequest("MG Road", "Airport T2"))

	settled := waitFor(time.Second, func() bool {
		_, pending := e.Current()
		return !pending
	})
	if !settled {
		t.Fatal("estimate never settled")
	}

	if got := atomic.LoadInt32(&gen.EstimateCallCount); got != 1 {
		t.Errorf("expected 1 estimate call, got %d", got)
	}
	estimate, _ := e.Current()
	if estimate == nil {
		t.Fatal("expected an estimate")
	}
	if estimate.EstimatedFare != "to Airport T2" {
		t.Errorf("expected the last edit to win, got %q", estimate.EstimatedFare)
	}
}

func TestEstimator_ShortInputs_ClearWithoutCalling(t *testing.T) {
	t.Parallel()

	gen := NewMockRideGenerator()
	e := newEstimator(gen)

	e.Trigger(estimatorRequest("MG Road", "Airport"))
	settled := waitFor(time.Second, func() bool {
		estimate, _ := e.Current()
		return estimate != nil
	})
	if !settled {
		t.Fatal("first estimate never arrived")
	}

	// Clearing the destination clears the estimate and schedules nothing.
	e.Trigger(estimatorRequest("MG Road", ""))
	estimate, pending := e.Current()
	if estimate != nil {
		t.Error("expected estimate cleared for a short destination")
	}
	if pending {
		t.Error("expected nothing pending for a short destination")
	}

	time.Sleep(60 * time.Millisecond)
	if got := atomic.LoadInt32(&gen.EstimateCallCount); got != 1 {
		t.Errorf("expected no further estimate calls, got %d total", got)
	}
}

func TestEstimator_LengthGateCountsCharacters(t *testing.T) {
	t.Parallel()

	gen := NewMockRideGenerator()
	e := newEstimator(gen)

	// Two Devanagari characters span six bytes but are still too short.
	e.Trigger(estimatorRequest("एमजी रोड", "दो"))
	estimate, pending := e.Current()
	if estimate != nil || pending {
		t.Error("expected no estimate scheduled for a two-character destination")
	}

	time.Sleep(60 * time.Millisecond)
	if got := atomic.LoadInt32(&gen.EstimateCallCount); got != 0 {
		t.Errorf("expected no estimate call, got %d", got)
	}

	// Three characters clear the gate regardless of byte width.
	e.Trigger(estimatorRequest("एमजी रोड", "दोना"))
	settled := waitFor(time.Second, func() bool {
		estimate, _ := e.Current()
		return estimate != nil
	})
	if !settled {
		t.Fatal("estimate never arrived for a multibyte destination")
	}
}

func TestEstimator_StaleInFlightResult_Discarded(t *testing.T) {
	t.Parallel()

	releaseA := make(chan struct{})
	releaseB := make(chan struct{})
	gen := NewMockRideGenerator()
	gen.EstimateFunc = func(req genai.GenerateRequest) (*domain.FareEstimate, error) {
		switch req.Destination {
		case "Old Airport":
			<-releaseA
			return &domain.FareEstimate{EstimatedFare: "old"}, nil
		default:
			<-releaseB
			return &domain.FareEstimate{EstimatedFare: "new"}, nil
		}
	}
	e := newEstimator(gen)

	e.Trigger(estimatorRequest("MG Road", "Old Airport"))
	started := waitFor(time.Second, func() bool {
		return atomic.LoadInt32(&gen.EstimateCallCount) == 1
	})
	if !started {
		t.Fatal("first estimate call never started")
	}

	// The inputs change while the first call is in flight.
	e.Trigger(estimatorRequest("MG Road", "New Airport"))
	close(releaseB)
	settled := waitFor(time.Second, func() bool {
		estimate, _ := e.Current()
		return estimate != nil
	})
	if !settled {
		t.Fatal("second estimate never arrived")
	}

	// The stale response lands afterwards and must be discarded.
	close(releaseA)
	time.Sleep(30 * time.Millisecond)
	estimate, _ := e.Current()
	if estimate == nil || estimate.EstimatedFare != "new" {
		t.Errorf("expected the current inputs' estimate to stick, got %+v", estimate)
	}
}

func TestEstimator_Failure_DegradesToNoEstimate(t *testing.T) {
	t.Parallel()

	gen := NewMockRideGenerator()
	gen.EstimateFunc = func(req genai.GenerateRequest) (*domain.FareEstimate, error) {
		return nil, errTestFailure
	}
	e := newEstimator(gen)

	e.Trigger(estimatorRequest("MG Road", "Airport"))
	settled := waitFor(time.Second, func() bool {
		_, pending := e.Current()
		return !pending && atomic.LoadInt32(&gen.EstimateCallCount) == 1
	})
	if !settled {
		t.Fatal("estimate call never completed")
	}

	estimate, _ := e.Current()
	if estimate != nil {
		t.Errorf("expected no estimate after a failure, got %+v", estimate)
	}
}

func TestEstimator_Cancel_DropsPendingWork(t *testing.T) {
	t.Parallel()

	gen := NewMockRideGenerator()
	e := newEstimator(gen)

	e.Trigger(estimatorRequest("MG Road", "Airport"))
	e.Cancel()

	time.Sleep(60 * time.Millisecond)
	if got := atomic.LoadInt32(&gen.EstimateCallCount); got != 0 {
		t.Errorf("expected no estimate call after cancel, got %d", got)
	}
	estimate, pending := e.Current()
	if estimate != nil || pending {
		t.Error("expected a cancelled estimator to be empty and idle")
	}
}
