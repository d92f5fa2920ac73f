package service

import (
	"fmt"
	"time"

	"chaloride/internal/domain"
	"chaloride/internal/logger"
)

// NotificationType represents the type of notification.
type NotificationType string

const (
	NotificationDriverNearby     NotificationType = "DRIVER_NEARBY"
	NotificationRideCancelled    NotificationType = "RIDE_CANCELLED"
	NotificationPaymentSuccess   NotificationType = "PAYMENT_SUCCESS"
	NotificationLinkCopied       NotificationType = "LINK_COPIED"
	NotificationBookingConfirmed NotificationType = "BOOKING_CONFIRMED"
)

// Notification is a short user-facing message emitted by the orchestrator.
type Notification struct {
	Type      NotificationType
	Title     string
	Message   string
	Data      map[string]interface{}
	CreatedAt time.Time
}

// Notifier is the toast/notification collaborator. Every method is
// no-op-safe: delivery failures never affect the ride lifecycle.
type Notifier interface {
	DriverNearby(offer *domain.RideOffer)
	RideCancelled(reason string)
	PaymentSuccess(fare string, method domain.PaymentMethodType)
	LinkCopied(link string)
	BookingConfirmed(rideID string, offer *domain.RideOffer)
}

// NotificationService delivers notifications. The demo delivery channel is
// the structured log; a real client would push these to the view layer.
type NotificationService struct {
	log logger.Logger
}

// Ensure NotificationService implements Notifier.
var _ Notifier = (*NotificationService)(nil)

// NewNotificationService creates a new NotificationService.
func NewNotificationService(log logger.Logger) *NotificationService {
	return &NotificationService{log: log}
}

// DriverNearby fires the one-time proximity warning.
func (s *NotificationService) DriverNearby(offer *domain.RideOffer) {
	s.send(Notification{
		Type:    NotificationDriverNearby,
		Title:   "Driver Update",
		Message: fmt.Sprintf("%s is 2 minutes away", offer.DriverName),
		Data: map[string]interface{}{
			"driver_name":   offer.DriverName,
			"vehicle_model": offer.VehicleModel,
		},
		CreatedAt: time.Now(),
	})
}

// RideCancelled confirms a committed cancellation.
func (s *NotificationService) RideCancelled(reason string) {
	s.send(Notification{
		Type:      NotificationRideCancelled,
		Title:     "Ride Cancelled",
		Message:   "Your ride has been cancelled. A cancellation fee may apply.",
		Data:      map[string]interface{}{"reason": reason},
		CreatedAt: time.Now(),
	})
}

// PaymentSuccess confirms a completed payment.
func (s *NotificationService) PaymentSuccess(fare string, method domain.PaymentMethodType) {
	s.send(Notification{
		Type:    NotificationPaymentSuccess,
		Title:   "Payment Successful",
		Message: fmt.Sprintf("Paid %s via %s. Thanks for riding!", fare, method),
		Data: map[string]interface{}{
			"fare":   fare,
			"method": string(method),
		},
		CreatedAt: time.Now(),
	})
}

// LinkCopied confirms the tracking link was surfaced for manual copy.
func (s *NotificationService) LinkCopied(link string) {
	s.send(Notification{
		Type:      NotificationLinkCopied,
		Title:     "Link Copied",
		Message:   "Tracking link copied to clipboard",
		Data:      map[string]interface{}{"link": link},
		CreatedAt: time.Now(),
	})
}

// BookingConfirmed emits the administrative booking event at confirmation.
// Functional correctness never depends on it.
func (s *NotificationService) BookingConfirmed(rideID string, offer *domain.RideOffer) {
	s.send(Notification{
		Type:    NotificationBookingConfirmed,
		Title:   "Booking Confirmed",
		Message: fmt.Sprintf("Ride %s confirmed with %s (%s)", rideID, offer.DriverName, offer.LicensePlate),
		Data: map[string]interface{}{
			"ride_id":       rideID,
			"driver_name":   offer.DriverName,
			"license_plate": offer.LicensePlate,
			"eta":           offer.ETA,
			"fare":          offer.Fare,
		},
		CreatedAt: time.Now(),
	})
}

// send delivers a notification through the log channel.
func (s *NotificationService) send(n Notification) {
	s.log.Info("notification",
		logger.String("type", string(n.Type)),
		logger.String("title", n.Title),
		logger.String("message", n.Message),
		logger.Any("data", n.Data),
	)
}
