package service

import (
	"context"
	"fmt"

	"chaloride/internal/domain"
	"chaloride/internal/logger"
)

// SharePayload is the formatted content handed to the platform share
// surface.
type SharePayload struct {
	Title string
	Text  string
	Link  string
}

// NativeSharer invokes the platform's native share sheet. Implementations
// are optional; absence means the copy fallback.
type NativeSharer interface {
	Share(ctx context.Context, payload SharePayload) error
}

// ShareService builds and dispatches ride share payloads. Share failures
// are soft-degrade: the link falls back to manual copy.
type ShareService struct {
	sharer   NativeSharer
	notifier Notifier
	log      logger.Logger
}

// NewShareService creates a new ShareService. sharer may be nil.
func NewShareService(sharer NativeSharer, notifier Notifier, log logger.Logger) *ShareService {
	return &ShareService{
		sharer:   sharer,
		notifier: notifier,
		log:      log,
	}
}

// ShareRide formats the ride details and tracking link, invoking the native
// share surface when available. The returned bool reports whether native
// sharing succeeded; false means the payload was surfaced for manual copy
// and a link-copied notification was emitted.
func (s *ShareService) ShareRide(ctx context.Context, offer *domain.RideOffer, link, etaText string) (SharePayload, bool, error) {
	if offer == nil || link == "" {
		return SharePayload{}, false, ErrNoOffer
	}

	payload := SharePayload{
		Title: "Track my ride",
		Text: fmt.Sprintf(
			"I'm on my way with %s in a %s (%s). ETA %s. Follow my trip live:",
			offer.DriverName, offer.VehicleModel, offer.LicensePlate, etaText,
		),
		Link: link,
	}

	if s.sharer != nil {
		err := s.sharer.Share(ctx, payload)
		if err == nil {
			return payload, true, nil
		}
		s.log.Warn("native share failed", logger.Error(err))
	}

	s.notifier.LinkCopied(link)
	return payload, false, nil
}
