package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"chaloride/internal/config"
	"chaloride/internal/domain"
	"chaloride/internal/genai"
	"chaloride/internal/logger"
	"chaloride/internal/repository"
)

// trackingLinkBase is the public prefix for generated tracking links.
const trackingLinkBase = "https://chalo.ride/track/"

// searchingMessages are the cosmetic strings rotated while SEARCHING. They
// carry no state.
var searchingMessages = [4]string{
	"Contacting nearby drivers...",
	"Checking traffic on your route...",
	"Negotiating the best fare...",
	"Almost there, hang tight...",
}

// LifecycleService is the ride-lifecycle orchestrator. It owns the single
// RideStatus and its bundle (request, offer, tracking link, cancellation
// overlay, payment sub-state); every user action and async completion is
// funneled through it. Completions validate a generation counter before
// applying, so nothing superseded ever mutates current state.
type LifecycleService struct {
	generator genai.RideGenerator
	estimator *FareEstimator
	tracker   *TrackingSimulator
	notifier  Notifier
	history   repository.HistoryRepository
	timing    config.SimulationConfig
	methods   []domain.PaymentMethod
	log       logger.Logger

	mu           sync.Mutex
	status       domain.RideStatus
	request      domain.RideRequest
	rideID       string
	offer        *domain.RideOffer
	trackingLink string
	errorMessage string
	cancellation domain.CancellationState

	searchGen   uint64
	rotatorStop chan struct{}
	rotatorIdx  int

	paymentGen       uint64
	payingMethodID   string
	walletOpen       bool
	walletProcessing bool
}

// NewLifecycleService creates the orchestrator in the IDLE state.
func NewLifecycleService(
	generator genai.RideGenerator,
	estimator *FareEstimator,
	tracker *TrackingSimulator,
	notifier Notifier,
	history repository.HistoryRepository,
	timing config.SimulationConfig,
	methods []domain.PaymentMethod,
	log logger.Logger,
) *LifecycleService {
	return &LifecycleService{
		generator: generator,
		estimator: estimator,
		tracker:   tracker,
		notifier:  notifier,
		history:   history,
		timing:    timing,
		methods:   methods,
		log:       log,
		status:    domain.RideStatusIdle,
		request: domain.RideRequest{
			Vehicle:        domain.VehicleCar,
			PassengerCount: 1,
		},
		cancellation: domain.CancellationState{Step: domain.CancelStepIdle},
	}
}

// Snapshot is a read-only view of the orchestrator state for rendering.
type Snapshot struct {
	Status           domain.RideStatus
	Request          domain.RideRequest
	Estimate         *domain.FareEstimate
	Estimating       bool
	SearchingMessage string
	Offer            *domain.RideOffer
	Position         *domain.DriverPosition
	DynamicEta       *int
	TrackingLink     string
	ErrorMessage     string
	Cancellation     domain.CancellationState
	PayingMethodID   string
	WalletOpen       bool
	WalletProcessing bool
}

// Snapshot returns a copy of the current state.
func (s *LifecycleService) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap := Snapshot{
		Status:           s.status,
		Request:          s.request,
		TrackingLink:     s.trackingLink,
		ErrorMessage:     s.errorMessage,
		Cancellation:     s.cancellation,
		PayingMethodID:   s.payingMethodID,
		WalletOpen:       s.walletOpen,
		WalletProcessing: s.walletProcessing,
	}
	if s.offer != nil {
		offer := *s.offer
		snap.Offer = &offer
	}
	if s.status == domain.RideStatusSearching {
		snap.SearchingMessage = searchingMessages[s.rotatorIdx]
	}
	if s.status == domain.RideStatusIdle {
		snap.Estimate, snap.Estimating = s.estimator.Current()
	}
	if pos, ok := s.tracker.Position(); ok {
		p := pos
		snap.Position = &p
	}
	if eta, ok := s.tracker.Eta(); ok {
		e := eta
		snap.DynamicEta = &e
	}
	return snap
}

// Status returns the current lifecycle status.
func (s *LifecycleService) Status() domain.RideStatus {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.status
}

// PaymentMethods returns the externally supplied payment options.
func (s *LifecycleService) PaymentMethods() []domain.PaymentMethod {
	return s.methods
}

// RequestUpdate carries optional edits to the ride request. Nil fields are
// left untouched.
type RequestUpdate struct {
	Pickup         *string
	Destination    *string
	Vehicle        *domain.VehicleType
	PassengerCount *int
}

// UpdateRequest applies an edit to the ride request and re-triggers the
// fare estimator. Changing the vehicle clamps the passenger count to its
// capacity. Only valid while IDLE.
func (s *LifecycleService) UpdateRequest(update RequestUpdate) (domain.RideRequest, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.status != domain.RideStatusIdle {
		return s.request, ErrNotIdle
	}

	if update.Vehicle != nil {
		switch *update.Vehicle {
		case domain.VehicleBike, domain.VehicleAuto, domain.VehicleCar:
		default:
			return s.request, ErrInvalidVehicle
		}
	}
	if update.PassengerCount != nil && *update.PassengerCount < 1 {
		return s.request, ErrInvalidPassengerCount
	}

	if update.Pickup != nil {
		s.request.Pickup = *update.Pickup
	}
	if update.Destination != nil {
		s.request.Destination = *update.Destination
	}
	if update.PassengerCount != nil {
		s.request.PassengerCount = *update.PassengerCount
	}
	if update.Vehicle != nil {
		s.request.SetVehicle(*update.Vehicle)
	} else if max := s.request.Vehicle.Capacity(); s.request.PassengerCount > max {
		s.request.PassengerCount = max
	}

	s.estimator.Trigger(s.request)
	return s.request, nil
}

// FindRide moves IDLE to SEARCHING and issues one offer request through the
// retry client in the background. Empty pickup/destination is a validation
// error: no transition occurs.
func (s *LifecycleService) FindRide(ctx context.Context) error {
	s.mu.Lock()

	if s.status != domain.RideStatusIdle {
		s.mu.Unlock()
		return ErrNotIdle
	}
	if s.request.Pickup == "" || s.request.Destination == "" {
		s.mu.Unlock()
		return ErrMissingLocations
	}

	s.estimator.Cancel()
	s.status = domain.RideStatusSearching
	s.errorMessage = ""
	s.searchGen++
	gen := s.searchGen
	req := s.request
	s.startRotatorLocked()
	s.mu.Unlock()

	s.log.Info("ride search started",
		logger.String("pickup", req.Pickup),
		logger.String("destination", req.Destination),
		logger.String("vehicle", string(req.Vehicle)),
	)

	go func() {
		offer, err := s.generator.GenerateOffer(context.WithoutCancel(ctx), genai.GenerateRequest{
			Pickup:         req.Pickup,
			Destination:    req.Destination,
			Vehicle:        req.Vehicle,
			PassengerCount: req.PassengerCount,
		})
		s.completeSearch(gen, offer, err)
	}()
	return nil
}

// completeSearch applies the result of a search call unless it has been
// superseded.
func (s *LifecycleService) completeSearch(gen uint64, offer *domain.RideOffer, err error) {
	s.mu.Lock()

	if gen != s.searchGen || s.status != domain.RideStatusSearching {
		s.mu.Unlock()
		return
	}
	s.stopRotatorLocked()

	if err != nil {
		s.status = domain.RideStatusError
		s.errorMessage = SearchFailedMessage
		s.mu.Unlock()
		s.log.Error("ride search failed", logger.Error(err))
		return
	}

	s.rideID = newRideID()
	s.offer = offer
	s.trackingLink = trackingLinkBase + s.rideID
	s.status = domain.RideStatusConfirmed
	s.cancellation = domain.CancellationState{Step: domain.CancelStepIdle}
	rideID := s.rideID
	// Started under the lock: anything that observes CONFIRMED and tears
	// the ride down must find an active tracker to stop.
	s.tracker.Start(offer)
	s.mu.Unlock()

	s.notifier.BookingConfirmed(rideID, offer)
	s.log.Info("ride confirmed",
		logger.String("ride_id", rideID),
		logger.String("driver", offer.DriverName),
		logger.String("eta", offer.ETA),
	)
}

// Reset returns the lifecycle to IDLE and clears the whole ride bundle.
// This is both the ERROR recovery path and the "new ride" action.
func (s *LifecycleService) Reset() {
	s.mu.Lock()
	s.resetLocked()
	s.mu.Unlock()
}

// resetLocked clears the bundle atomically. Caller holds the lock.
func (s *LifecycleService) resetLocked() {
	s.searchGen++
	s.paymentGen++
	s.stopRotatorLocked()
	s.tracker.Stop()

	s.status = domain.RideStatusIdle
	s.rideID = ""
	s.offer = nil
	s.trackingLink = ""
	s.errorMessage = ""
	s.cancellation = domain.CancellationState{Step: domain.CancelStepIdle}
	s.payingMethodID = ""
	s.walletOpen = false
	s.walletProcessing = false
}

// startRotatorLocked starts the cosmetic searching-message rotation.
func (s *LifecycleService) startRotatorLocked() {
	s.rotatorIdx = 0
	stop := make(chan struct{})
	s.rotatorStop = stop

	go func() {
		ticker := time.NewTicker(s.timing.RotatorInterval)
		defer ticker.Stop()
		for {
			select {
			case <-stop:
				return
			case <-ticker.C:
				s.mu.Lock()
				if s.rotatorStop == stop && s.status == domain.RideStatusSearching {
					s.rotatorIdx = (s.rotatorIdx + 1) % len(searchingMessages)
				}
				s.mu.Unlock()
			}
		}
	}()
}

// stopRotatorLocked stops and resets the rotator. Caller holds the lock.
func (s *LifecycleService) stopRotatorLocked() {
	if s.rotatorStop != nil {
		close(s.rotatorStop)
		s.rotatorStop = nil
	}
	s.rotatorIdx = 0
}

// newRideID generates a process-unique ride identifier: current time plus a
// random token.
func newRideID() string {
	return fmt.Sprintf("%d-%s", time.Now().UnixMilli(), uuid.NewString()[:8])
}
