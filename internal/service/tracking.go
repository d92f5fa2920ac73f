package service

import (
	"math/rand"
	"strconv"
	"strings"
	"sync"
	"time"

	"chaloride/internal/domain"
	"chaloride/internal/logger"
)

// proximityThreshold is the DynamicEta value at which the one-time
// "driver nearby" notification fires.
const proximityThreshold = 2

// TrackingSimulator runs the two periodic effects of a confirmed ride:
// a cosmetic position drift and a dynamic ETA countdown. Both start
// together and are torn down together; a stopped simulator never mutates
// state again.
type TrackingSimulator struct {
	driftEvery time.Duration
	etaEvery   time.Duration
	notifier   Notifier
	log        logger.Logger

	mu       sync.Mutex
	active   bool
	stop     chan struct{}
	pos      domain.DriverPosition
	eta      int
	etaSet   bool
	notified bool
	offer    *domain.RideOffer
}

// NewTrackingSimulator creates a simulator with the given tick intervals.
func NewTrackingSimulator(driftEvery, etaEvery time.Duration, notifier Notifier, log logger.Logger) *TrackingSimulator {
	return &TrackingSimulator{
		driftEvery: driftEvery,
		etaEvery:   etaEvery,
		notifier:   notifier,
		log:        log,
	}
}

// Start begins tracking for offer. DynamicEta is seeded from the leading
// integer of the offer's ETA text; a parse failure leaves it unset and the
// view falls back to the static text.
func (t *TrackingSimulator) Start(offer *domain.RideOffer) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.active {
		close(t.stop)
	}

	t.active = true
	t.stop = make(chan struct{})
	t.offer = offer
	t.pos = domain.DriverPosition{Top: 45, Left: 50}
	t.eta, t.etaSet = parseEtaMinutes(offer.ETA)
	t.notified = false

	go t.run(t.stop)
}

// Stop tears both periodic effects down. Idempotent.
func (t *TrackingSimulator) Stop() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if !t.active {
		return
	}
	t.active = false
	close(t.stop)
	t.etaSet = false
	t.offer = nil
}

// Position returns the current simulated driver position and whether the
// simulator is active.
func (t *TrackingSimulator) Position() (domain.DriverPosition, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.pos, t.active
}

// Eta returns the dynamic ETA in minutes and whether it is set.
func (t *TrackingSimulator) Eta() (int, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.eta, t.etaSet
}

func (t *TrackingSimulator) run(stop chan struct{}) {
	drift := time.NewTicker(t.driftEvery)
	defer drift.Stop()
	countdown := time.NewTicker(t.etaEvery)
	defer countdown.Stop()

	for {
		select {
		case <-stop:
			return
		case <-drift.C:
			t.driftPosition(stop)
		case <-countdown.C:
			t.tickEta(stop)
		}
	}
}

// driftPosition perturbs top/left by a uniform value in [-2, +2] and clamps
// to the viewport.
func (t *TrackingSimulator) driftPosition(stop chan struct{}) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if !t.active || t.stop != stop {
		return
	}
	t.pos.Top += rand.Float64()*4 - 2
	t.pos.Left += rand.Float64()*4 - 2
	t.pos.Clamp()
}

// tickEta decrements the dynamic ETA, floored at 0. The proximity
// notification is edge-triggered: it fires only on the tick where the value
// lands exactly on the threshold, once per ride.
func (t *TrackingSimulator) tickEta(stop chan struct{}) {
	t.mu.Lock()
	if !t.active || t.stop != stop || !t.etaSet || t.eta <= 0 {
		t.mu.Unlock()
		return
	}
	t.eta--
	fire := t.eta == proximityThreshold && !t.notified
	if fire {
		t.notified = true
	}
	offer := t.offer
	t.mu.Unlock()

	if fire && t.notifier != nil && offer != nil {
		t.notifier.DriverNearby(offer)
	}
}

// parseEtaMinutes extracts the leading integer from an ETA text such as
// "8 min".
func parseEtaMinutes(s string) (int, bool) {
	s = strings.TrimSpace(s)
	end := 0
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	if end == 0 {
		return 0, false
	}
	n, err := strconv.Atoi(s[:end])
	if err != nil {
		return 0, false
	}
	return n, true
}
