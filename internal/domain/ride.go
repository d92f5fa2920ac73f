package domain

// RideStatus represents the current phase of the ride lifecycle.
type RideStatus string

const (
	RideStatusIdle      RideStatus = "IDLE"
	RideStatusSearching RideStatus = "SEARCHING"
	RideStatusConfirmed RideStatus = "CONFIRMED"
	RideStatusPaid      RideStatus = "PAID"
	RideStatusError     RideStatus = "ERROR"

	// RideStatusCompleted exists in the status vocabulary but no transition
	// produces it; PAID is the terminal success state.
	RideStatusCompleted RideStatus = "COMPLETED"
)

// VehicleType represents the vehicle class requested for a ride.
type VehicleType string

const (
	VehicleBike VehicleType = "BIKE"
	VehicleAuto VehicleType = "AUTO"
	VehicleCar  VehicleType = "CAR"
)

// Capacity returns the maximum passenger count for a vehicle type.
func (v VehicleType) Capacity() int {
	switch v {
	case VehicleBike:
		return 1
	case VehicleAuto, VehicleCar:
		return 4
	default:
		return 1
	}
}

// RideRequest holds the rider's inputs while the lifecycle is IDLE.
type RideRequest struct {
	Pickup         string
	Destination    string
	Vehicle        VehicleType
	PassengerCount int
}

// SetVehicle changes the vehicle type and clamps the passenger count to the
// new vehicle's capacity. Clamping is a side effect, never an error.
func (r *RideRequest) SetVehicle(v VehicleType) {
	r.Vehicle = v
	if max := v.Capacity(); r.PassengerCount > max {
		r.PassengerCount = max
	}
	if r.PassengerCount < 1 {
		r.PassengerCount = 1
	}
}

// FareEstimate is the approximate price for the current request. It is
// ephemeral: each qualifying edit supersedes it wholesale.
type FareEstimate struct {
	EstimatedFare string
}
