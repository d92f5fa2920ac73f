package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"chaloride/internal/domain"
	"chaloride/internal/logger"
)

// historyAppendTimeout bounds the history write on payment completion.
const historyAppendTimeout = 5 * time.Second

// DefaultPaymentMethods returns the payment options the surrounding
// application supplies to the demo client.
func DefaultPaymentMethods() []domain.PaymentMethod {
	return []domain.PaymentMethod{
		{ID: "cash", Type: domain.PaymentTypeCash},
		{ID: "card-1", Type: domain.PaymentTypeCard, Brand: "Visa", Last4: "4242"},
		{ID: "gpay", Type: domain.PaymentTypeGooglePay},
		{ID: "phonepe", Type: domain.PaymentTypePhonePe},
	}
}

// SelectPayment begins paying for the confirmed ride with the given method.
// CASH and CARD complete after a fixed simulated delay; wallet methods open
// an interactive surface and wait for ConfirmWallet. Single-flight: a
// second selection while one is pending is rejected.
func (s *LifecycleService) SelectPayment(methodID string) error {
	s.mu.Lock()

	if s.status != domain.RideStatusConfirmed {
		s.mu.Unlock()
		return ErrNotConfirmed
	}
	if s.payingMethodID != "" {
		s.mu.Unlock()
		return ErrPaymentInFlight
	}

	method, ok := s.findMethod(methodID)
	if !ok {
		s.mu.Unlock()
		return ErrUnknownPaymentMethod
	}

	s.payingMethodID = method.ID
	s.paymentGen++
	gen := s.paymentGen

	if method.Type.Interactive() {
		s.walletOpen = true
		s.mu.Unlock()
		return nil
	}

	delay := s.timing.CashDelay
	if method.Type == domain.PaymentTypeCard {
		delay = s.timing.CardDelay
	}
	s.mu.Unlock()

	time.AfterFunc(delay, func() {
		s.completePayment(gen, method)
	})
	return nil
}

// ConfirmWallet is the explicit user confirm inside the wallet surface;
// processing completes after the simulated wallet delay.
func (s *LifecycleService) ConfirmWallet() error {
	s.mu.Lock()

	if !s.walletOpen || s.walletProcessing {
		s.mu.Unlock()
		return ErrWalletNotOpen
	}
	method, ok := s.findMethod(s.payingMethodID)
	if !ok {
		s.mu.Unlock()
		return ErrUnknownPaymentMethod
	}

	s.walletProcessing = true
	gen := s.paymentGen
	s.mu.Unlock()

	time.AfterFunc(s.timing.WalletDelay, func() {
		s.completePayment(gen, method)
	})
	return nil
}

// CancelWallet abandons an open wallet payment. The in-progress indicator
// is cleared; ride status does not change.
func (s *LifecycleService) CancelWallet() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.walletOpen || s.walletProcessing {
		return ErrWalletNotOpen
	}
	s.paymentGen++
	s.payingMethodID = ""
	s.walletOpen = false
	return nil
}

// completePayment converges every method on the single "ride completed"
// side effect: one CompletedRide emitted to history, indicators cleared,
// DynamicEta cleared, status PAID. Superseded completions are discarded.
func (s *LifecycleService) completePayment(gen uint64, method domain.PaymentMethod) {
	s.mu.Lock()

	if gen != s.paymentGen || s.status != domain.RideStatusConfirmed || s.payingMethodID != method.ID {
		s.mu.Unlock()
		return
	}

	offer := *s.offer
	completed := &domain.CompletedRide{
		ID:          uuid.New().String(),
		Pickup:      s.request.Pickup,
		Destination: s.request.Destination,
		Offer:       offer,
		Date:        time.Now(),
	}

	s.status = domain.RideStatusPaid
	s.offer = nil
	s.trackingLink = ""
	s.rideID = ""
	s.cancellation = domain.CancellationState{Step: domain.CancelStepIdle}
	s.payingMethodID = ""
	s.walletOpen = false
	s.walletProcessing = false
	s.tracker.Stop()
	s.mu.Unlock()

	ctx, cancel := context.WithTimeout(context.Background(), historyAppendTimeout)
	defer cancel()
	if err := s.history.Append(ctx, completed); err != nil {
		s.log.Error("failed to append ride history", logger.Error(err),
			logger.String("ride_id", completed.ID))
	}

	s.notifier.PaymentSuccess(offer.Fare, method.Type)
	s.log.Info("payment completed",
		logger.String("method", string(method.Type)),
		logger.String("fare", offer.Fare),
	)
}

// findMethod looks a payment method up by ID. Caller holds the lock.
func (s *LifecycleService) findMethod(id string) (domain.PaymentMethod, bool) {
	for _, m := range s.methods {
		if m.ID == id {
			return m, true
		}
	}
	return domain.PaymentMethod{}, false
}
