package repository

import (
	"context"

	"chaloride/internal/domain"
)

// HistoryRepository defines the persistence operations for completed rides.
// Append-only aside from the optional rating set after the fact.
type HistoryRepository interface {
	// Append persists a completed ride.
	Append(ctx context.Context, ride *domain.CompletedRide) error

	// List retrieves completed rides, most recent first.
	List(ctx context.Context) ([]*domain.CompletedRide, error)

	// GetByID retrieves a single completed ride.
	GetByID(ctx context.Context, id string) (*domain.CompletedRide, error)

	// UpdateRating sets the rating for a completed ride.
	UpdateRating(ctx context.Context, id string, rating int) error
}
