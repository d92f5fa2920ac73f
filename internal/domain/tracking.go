package domain

// Viewport bounds for the simulated driver marker, in percent.
const (
	PositionTopMin  = 10.0
	PositionTopMax  = 80.0
	PositionLeftMin = 10.0
	PositionLeftMax = 90.0
)

// DriverPosition places the simulated driver within a bounded 2-D viewport.
// Values are percentages; mutated only by the tracking simulator while the
// ride is CONFIRMED.
type DriverPosition struct {
	Top  float64
	Left float64
}

// Clamp keeps the position inside the viewport bounds.
func (p *DriverPosition) Clamp() {
	if p.Top < PositionTopMin {
		p.Top = PositionTopMin
	}
	if p.Top > PositionTopMax {
		p.Top = PositionTopMax
	}
	if p.Left < PositionLeftMin {
		p.Left = PositionLeftMin
	}
	if p.Left > PositionLeftMax {
		p.Left = PositionLeftMax
	}
}

// CancellationStep is the current step of the cancellation overlay.
type CancellationStep string

const (
	CancelStepIdle    CancellationStep = "idle"
	CancelStepConfirm CancellationStep = "confirm"
	CancelStepReason  CancellationStep = "reason"
)

// CancellationState tracks the two-step cancel flow that overlays a
// CONFIRMED ride. Reason must come from CancellationReasons before commit.
type CancellationState struct {
	Step   CancellationStep
	Reason string
}

// CancellationReasons is the fixed list a rider must choose from.
var CancellationReasons = []string{
	"Changed my mind",
	"Driver is taking too long",
	"Booked by mistake",
	"Found another ride",
	"Other",
}

// ValidCancellationReason reports whether reason is one of the fixed list.
func ValidCancellationReason(reason string) bool {
	for _, r := range CancellationReasons {
		if r == reason {
			return true
		}
	}
	return false
}
