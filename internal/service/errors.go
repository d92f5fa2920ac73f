package service

import "errors"

// SearchFailedMessage is the fixed user-facing message for any failed ride
// search, regardless of the underlying cause.
const SearchFailedMessage = "Could not find a ride. Please try again later."

var (
	// ErrMissingLocations is returned when pickup or destination is empty.
	ErrMissingLocations = errors.New("pickup and destination are required")

	// ErrNotIdle is returned when an IDLE-only action arrives in another state.
	ErrNotIdle = errors.New("ride lifecycle is not idle")

	// ErrNotConfirmed is returned when an action requires a confirmed ride.
	ErrNotConfirmed = errors.New("no confirmed ride")

	// ErrInvalidVehicle is returned for an unknown vehicle type.
	ErrInvalidVehicle = errors.New("invalid vehicle type")

	// ErrInvalidPassengerCount is returned when the count is below 1.
	ErrInvalidPassengerCount = errors.New("passenger count must be at least 1")

	// ErrPaymentInFlight is returned when a payment is already pending.
	ErrPaymentInFlight = errors.New("a payment is already in progress")

	// ErrUnknownPaymentMethod is returned for a method ID not on offer.
	ErrUnknownPaymentMethod = errors.New("unknown payment method")

	// ErrWalletNotOpen is returned when confirming or cancelling a wallet
	// payment without an open wallet surface.
	ErrWalletNotOpen = errors.New("wallet surface is not open")

	// ErrNoCancelReason is returned when committing a cancellation before a
	// reason has been selected.
	ErrNoCancelReason = errors.New("select a cancellation reason first")

	// ErrInvalidCancelReason is returned for a reason outside the fixed list.
	ErrInvalidCancelReason = errors.New("invalid cancellation reason")

	// ErrCancelStep is returned when a cancellation action arrives out of
	// order with the current step.
	ErrCancelStep = errors.New("cancellation flow is not at this step")

	// ErrNoOffer is returned when sharing without an active offer.
	ErrNoOffer = errors.New("no ride offer to share")

	// ErrInvalidRating is returned when a rating is outside 1..5.
	ErrInvalidRating = errors.New("rating must be between 1 and 5")
)
