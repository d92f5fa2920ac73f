package domain

import "time"

// CompletedRide is the record emitted to the history collaborator exactly
// once per successful payment. Rating is optional and set later by the
// rider.
type CompletedRide struct {
	ID          string
	Pickup      string
	Destination string
	Offer       RideOffer
	Date        time.Time
	Rating      int // 0 = unrated
}
