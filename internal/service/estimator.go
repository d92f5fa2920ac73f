package service

import (
	"context"
	"sync"
	"time"
	"unicode/utf8"

	"chaloride/internal/domain"
	"chaloride/internal/genai"
	"chaloride/internal/logger"
)

// minLocationLen is the exclusive length, in characters, both pickup and
// destination must exceed before an estimate is computed.
const minLocationLen = 2

// FareEstimator converts the current ride request into an approximate
// price. Triggers are debounced; each trigger advances a generation counter
// that invalidates the previous pending computation, so a response is only
// applied when its inputs are still the current ones. Failures degrade to
// "no estimate shown" and never block ride search.
type FareEstimator struct {
	generator genai.RideGenerator
	window    time.Duration
	log       logger.Logger

	mu       sync.Mutex
	gen      uint64
	timer    *time.Timer
	estimate *domain.FareEstimate
	pending  bool
}

// NewFareEstimator creates a new FareEstimator with the given debounce
// window.
func NewFareEstimator(generator genai.RideGenerator, window time.Duration, log logger.Logger) *FareEstimator {
	return &FareEstimator{
		generator: generator,
		window:    window,
		log:       log,
	}
}

// Trigger schedules an estimate for req after the debounce window. Any
// previously pending computation is cancelled entirely. Requests whose
// pickup or destination are too short clear the estimate instead.
func (e *FareEstimator) Trigger(req domain.RideRequest) {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.gen++
	if e.timer != nil {
		e.timer.Stop()
		e.timer = nil
	}

	if utf8.RuneCountInString(req.Pickup) <= minLocationLen ||
		utf8.RuneCountInString(req.Destination) <= minLocationLen {
		e.estimate = nil
		e.pending = false
		return
	}

	// Cleared while the computation is pending ("estimating").
	e.estimate = nil
	e.pending = true

	gen := e.gen
	e.timer = time.AfterFunc(e.window, func() {
		e.compute(gen, req)
	})
}

// Cancel invalidates any pending computation and clears the estimate.
// Called when the lifecycle leaves IDLE.
func (e *FareEstimator) Cancel() {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.gen++
	if e.timer != nil {
		e.timer.Stop()
		e.timer = nil
	}
	e.estimate = nil
	e.pending = false
}

// Current returns the latest estimate, and whether a computation is pending.
func (e *FareEstimator) Current() (*domain.FareEstimate, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.estimate, e.pending
}

// compute runs after the debounce window for generation gen.
func (e *FareEstimator) compute(gen uint64, req domain.RideRequest) {
	e.mu.Lock()
	if gen != e.gen {
		e.mu.Unlock()
		return
	}
	e.mu.Unlock()

	estimate, err := e.generator.EstimateFare(context.Background(), genai.GenerateRequest{
		Pickup:         req.Pickup,
		Destination:    req.Destination,
		Vehicle:        req.Vehicle,
		PassengerCount: req.PassengerCount,
	})

	e.mu.Lock()
	defer e.mu.Unlock()
	if gen != e.gen {
		// Superseded while in flight; discard.
		return
	}
	e.pending = false
	if err != nil {
		e.log.Warn("fare estimate failed", logger.Error(err))
		e.estimate = nil
		return
	}
	e.estimate = estimate
}
