package domain

// RideOffer is the concrete offer produced by a successful ride search:
// a driver, their vehicle, an ETA and a fare. It is immutable once set and
// owned exclusively by the active ride lifecycle.
type RideOffer struct {
	DriverName     string
	DriverPhotoURL string
	DriverBio      string
	VehicleModel   string
	LicensePlate   string
	ETA            string // e.g. "8 min"
	Fare           string // decimal as text, e.g. "245.50"
}
