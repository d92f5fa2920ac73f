package service

import (
	"chaloride/internal/domain"
	"chaloride/internal/logger"
)

// The cancellation flow overlays a CONFIRMED ride without touching the main
// status until commit: idle -> confirm -> reason -> commit. Commit is gated
// on a reason from the fixed list; once gated it always succeeds and resets
// the whole bundle to IDLE.

// OpenCancellation shows the "are you sure" step with the fee warning.
func (s *LifecycleService) OpenCancellation() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.status != domain.RideStatusConfirmed {
		return ErrNotConfirmed
	}
	if s.cancellation.Step != domain.CancelStepIdle {
		return ErrCancelStep
	}
	s.cancellation.Step = domain.CancelStepConfirm
	return nil
}

// ConfirmCancellation advances from the confirm step to reason selection.
func (s *LifecycleService) ConfirmCancellation() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cancellation.Step != domain.CancelStepConfirm {
		return ErrCancelStep
	}
	s.cancellation.Step = domain.CancelStepReason
	return nil
}

// SelectCancellationReason records the rider's reason. It must be one of
// the fixed list.
func (s *LifecycleService) SelectCancellationReason(reason string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cancellation.Step != domain.CancelStepReason {
		return ErrCancelStep
	}
	if !domain.ValidCancellationReason(reason) {
		return ErrInvalidCancelReason
	}
	s.cancellation.Reason = reason
	return nil
}

// CommitCancellation cancels the ride. Rejected while no reason has been
// selected; state is left unchanged so the rider can be reminded. Once
// gated it emits the cancelled notification and resets to IDLE.
func (s *LifecycleService) CommitCancellation() error {
	s.mu.Lock()

	if s.cancellation.Step != domain.CancelStepReason {
		s.mu.Unlock()
		return ErrCancelStep
	}
	if s.cancellation.Reason == "" {
		s.mu.Unlock()
		return ErrNoCancelReason
	}

	reason := s.cancellation.Reason
	s.resetLocked()
	s.mu.Unlock()

	s.notifier.RideCancelled(reason)
	s.log.Info("ride cancelled", logger.String("reason", reason))
	return nil
}

// DismissCancellation closes the overlay without cancelling.
func (s *LifecycleService) DismissCancellation() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cancellation = domain.CancellationState{Step: domain.CancelStepIdle}
}
