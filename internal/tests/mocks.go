package tests

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"chaloride/internal/config"
	"chaloride/internal/domain"
	"chaloride/internal/genai"
	"chaloride/internal/logger"
	"chaloride/internal/repository"
	"chaloride/internal/service"
)

// errTestFailure is the generic injected backend failure.
var errTestFailure = errors.New("simulated backend failure")

// ──────────────────────────────────────────────
// MOCK RIDE GENERATOR
// ──────────────────────────────────────────────

// MockRideGenerator is a scriptable implementation of genai.RideGenerator.
type MockRideGenerator struct {
	// Call counters for verification.
	OfferCallCount    int32
	EstimateCallCount int32
	SuggestCallCount  int32

	// Hooks. Nil hooks fall back to the default responses below.
	OfferFunc    func(req genai.GenerateRequest) (*domain.RideOffer, error)
	EstimateFunc func(req genai.GenerateRequest) (*domain.FareEstimate, error)
	SuggestFunc  func(userName string, history []domain.CompletedRide) ([]domain.Suggestion, error)

	Offer    *domain.RideOffer
	Estimate *domain.FareEstimate
}

// Ensure MockRideGenerator implements RideGenerator.
var _ genai.RideGenerator = (*MockRideGenerator)(nil)

// NewMockRideGenerator returns a generator that succeeds with a fixed offer.
func NewMockRideGenerator() *MockRideGenerator {
	return &MockRideGenerator{
		Offer: &domain.RideOffer{
			DriverName:   "Ravi Kumar",
			DriverBio:    "4.9 rated, 2000+ trips",
			VehicleModel: "Maruti Swift",
			LicensePlate: "KA-01-AB-1234",
			ETA:          "8 min",
			Fare:         "245.50",
		},
		Estimate: &domain.FareEstimate{EstimatedFare: "240.00"},
	}
}

func (m *MockRideGenerator) GenerateOffer(ctx context.Context, req genai.GenerateRequest) (*domain.RideOffer, error) {
	atomic.AddInt32(&m.OfferCallCount, 1)
	if m.OfferFunc != nil {
		return m.OfferFunc(req)
	}
	offer := *m.Offer
	return &offer, nil
}

func (m *MockRideGenerator) EstimateFare(ctx context.Context, req genai.GenerateRequest) (*domain.FareEstimate, error) {
	atomic.AddInt32(&m.EstimateCallCount, 1)
	if m.EstimateFunc != nil {
		return m.EstimateFunc(req)
	}
	estimate := *m.Estimate
	return &estimate, nil
}

func (m *MockRideGenerator) SuggestShortcuts(ctx context.Context, userName string, history []domain.CompletedRide) ([]domain.Suggestion, error) {
	atomic.AddInt32(&m.SuggestCallCount, 1)
	if m.SuggestFunc != nil {
		return m.SuggestFunc(userName, history)
	}
	return []domain.Suggestion{
		{Kind: domain.SuggestionBookRide, Title: "Back to the office", Destination: "MG Road"},
	}, nil
}

// ──────────────────────────────────────────────
// MOCK HISTORY REPOSITORY
// ──────────────────────────────────────────────

// MockHistoryRepository is an in-memory implementation of HistoryRepository.
type MockHistoryRepository struct {
	mu    sync.RWMutex
	rides []*domain.CompletedRide

	AppendCallCount int32

	// Error injection
	AppendError error
}

// Ensure MockHistoryRepository implements the interface.
var _ repository.HistoryRepository = (*MockHistoryRepository)(nil)

// NewMockHistoryRepository creates a new mock history repository.
func NewMockHistoryRepository() *MockHistoryRepository {
	return &MockHistoryRepository{}
}

func (m *MockHistoryRepository) Append(ctx context.Context, ride *domain.CompletedRide) error {
	atomic.AddInt32(&m.AppendCallCount, 1)
	if m.AppendError != nil {
		return m.AppendError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	stored := *ride
	m.rides = append(m.rides, &stored)
	return nil
}

func (m *MockHistoryRepository) List(ctx context.Context) ([]*domain.CompletedRide, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	result := make([]*domain.CompletedRide, 0, len(m.rides))
	for i := len(m.rides) - 1; i >= 0; i-- {
		item := *m.rides[i]
		result = append(result, &item)
	}
	return result, nil
}

func (m *MockHistoryRepository) GetByID(ctx context.Context, id string) (*domain.CompletedRide, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, r := range m.rides {
		if r.ID == id {
			found := *r
			return &found, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (m *MockHistoryRepository) UpdateRating(ctx context.Context, id string, rating int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, r := range m.rides {
		if r.ID == id {
			r.Rating = rating
			return nil
		}
	}
	return repository.ErrNotFound
}

// CountRides returns the number of stored rides for test assertions.
func (m *MockHistoryRepository) CountRides() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.rides)
}

// LastRide returns the most recently appended ride, or nil.
func (m *MockHistoryRepository) LastRide() *domain.CompletedRide {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if len(m.rides) == 0 {
		return nil
	}
	last := *m.rides[len(m.rides)-1]
	return &last
}

// ──────────────────────────────────────────────
// MOCK NOTIFIER
// ──────────────────────────────────────────────

// MockNotifier records every notification for verification.
type MockNotifier struct {
	DriverNearbyCount     int32
	RideCancelledCount    int32
	PaymentSuccessCount   int32
	LinkCopiedCount       int32
	BookingConfirmedCount int32

	mu         sync.Mutex
	lastReason string
	lastFare   string
	lastMethod domain.PaymentMethodType
}

// Ensure MockNotifier implements Notifier.
var _ service.Notifier = (*MockNotifier)(nil)

// NewMockNotifier creates a new MockNotifier.
func NewMockNotifier() *MockNotifier {
	return &MockNotifier{}
}

func (m *MockNotifier) DriverNearby(offer *domain.RideOffer) {
	atomic.AddInt32(&m.DriverNearbyCount, 1)
}

func (m *MockNotifier) RideCancelled(reason string) {
	atomic.AddInt32(&m.RideCancelledCount, 1)
	m.mu.Lock()
	m.lastReason = reason
	m.mu.Unlock()
}

func (m *MockNotifier) PaymentSuccess(fare string, method domain.PaymentMethodType) {
	atomic.AddInt32(&m.PaymentSuccessCount, 1)
	m.mu.Lock()
	m.lastFare = fare
	m.lastMethod = method
	m.mu.Unlock()
}

func (m *MockNotifier) LinkCopied(link string) {
	atomic.AddInt32(&m.LinkCopiedCount, 1)
}

func (m *MockNotifier) BookingConfirmed(rideID string, offer *domain.RideOffer) {
	atomic.AddInt32(&m.BookingConfirmedCount, 1)
}

// LastCancelReason returns the reason of the last cancellation.
func (m *MockNotifier) LastCancelReason() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.lastReason
}

// LastPaymentMethod returns the method of the last successful payment.
func (m *MockNotifier) LastPaymentMethod() domain.PaymentMethodType {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.lastMethod
}

// ──────────────────────────────────────────────
// MOCK NATIVE SHARER
// ──────────────────────────────────────────────

// MockSharer is a scriptable native share surface.
type MockSharer struct {
	ShareCallCount int32
	ShareError     error
}

var _ service.NativeSharer = (*MockSharer)(nil)

func (m *MockSharer) Share(ctx context.Context, payload service.SharePayload) error {
	atomic.AddInt32(&m.ShareCallCount, 1)
	return m.ShareError
}

// ──────────────────────────────────────────────
// TEST FIXTURE
// ──────────────────────────────────────────────

// fastTiming compresses every simulated interval so tests settle quickly.
func fastTiming() config.SimulationConfig {
	return config.SimulationConfig{
		DebounceWindow:  30 * time.Millisecond,
		RotatorInterval: 20 * time.Millisecond,
		DriftInterval:   10 * time.Millisecond,
		EtaInterval:     25 * time.Millisecond,
		CashDelay:       20 * time.Millisecond,
		CardDelay:       35 * time.Millisecond,
		WalletDelay:     25 * time.Millisecond,
	}
}

// fixture bundles a wired orchestrator with its mocks.
type fixture struct {
	lifecycle *service.LifecycleService
	estimator *service.FareEstimator
	tracker   *service.TrackingSimulator
	generator *MockRideGenerator
	history   *MockHistoryRepository
	notifier  *MockNotifier
}

// newFixture wires an orchestrator against mocks with compressed timing.
func newFixture(generator *MockRideGenerator) *fixture {
	if generator == nil {
		generator = NewMockRideGenerator()
	}
	timing := fastTiming()
	log := logger.Nop()
	notifier := NewMockNotifier()
	history := NewMockHistoryRepository()
	estimator := service.NewFareEstimator(generator, timing.DebounceWindow, log)
	tracker := service.NewTrackingSimulator(timing.DriftInterval, timing.EtaInterval, notifier, log)
	lifecycle := service.NewLifecycleService(
		generator, estimator, tracker, notifier, history,
		timing, service.DefaultPaymentMethods(), log,
	)
	return &fixture{
		lifecycle: lifecycle,
		estimator: estimator,
		tracker:   tracker,
		generator: generator,
		history:   history,
		notifier:  notifier,
	}
}

// setLocations puts the fixture's request into a searchable state.
func (f *fixture) setLocations(pickup, destination string) {
	p, d := pickup, destination
	_, _ = f.lifecycle.UpdateRequest(service.RequestUpdate{Pickup: &p, Destination: &d})
}

// waitFor polls cond until it holds or the deadline passes.
func waitFor(timeout time.Duration, cond func() bool) bool {
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if cond() {
			return true
		}
		time.Sleep(2 * time.Millisecond)
	}
	return cond()
}

// waitForStatus waits until the lifecycle reaches the given status.
func (f *fixture) waitForStatus(status domain.RideStatus, timeout time.Duration) bool {
	return waitFor(timeout, func() bool {
		return f.lifecycle.Status() == status
	})
}
