package postgres

import (
	"context"
	"database/sql"
	"errors"

	"chaloride/internal/domain"
	"chaloride/internal/repository"
)

// HistoryRepository is a PostgreSQL implementation of
// repository.HistoryRepository.
type HistoryRepository struct {
	q Querier
}

// Ensure HistoryRepository implements the interface.
var _ repository.HistoryRepository = (*HistoryRepository)(nil)

// NewHistoryRepository creates a new PostgreSQL history repository.
func NewHistoryRepository(db *sql.DB) *HistoryRepository {
	return &HistoryRepository{q: db}
}

// EnsureSchema creates the ride_history table if it does not exist.
func EnsureSchema(ctx context.Context, db *sql.DB) error {
	query := `
		CREATE TABLE IF NOT EXISTS ride_history (
			id               TEXT PRIMARY KEY,
			pickup           TEXT NOT NULL,
			destination      TEXT NOT NULL,
			driver_name      TEXT NOT NULL,
			driver_photo_url TEXT NOT NULL DEFAULT '',
			driver_bio       TEXT NOT NULL DEFAULT '',
			vehicle_model    TEXT NOT NULL DEFAULT '',
			license_plate    TEXT NOT NULL DEFAULT '',
			eta              TEXT NOT NULL DEFAULT '',
			fare             TEXT NOT NULL DEFAULT '',
			ride_date        TIMESTAMPTZ NOT NULL,
			rating           INT
		)
	`
	_, err := db.ExecContext(ctx, query)
	return err
}

// Append persists a completed ride.
func (r *HistoryRepository) Append(ctx context.Context, ride *domain.CompletedRide) error {
	query := `
		INSERT INTO ride_history (id, pickup, destination, driver_name, driver_photo_url, driver_bio, vehicle_model, license_plate, eta, fare, ride_date, rating)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`

	var rating sql.NullInt64
	if ride.Rating > 0 {
		rating = sql.NullInt64{Int64: int64(ride.Rating), Valid: true}
	}

	_, err := r.q.ExecContext(ctx, query,
		ride.ID,
		ride.Pickup,
		ride.Destination,
		ride.Offer.DriverName,
		ride.Offer.DriverPhotoURL,
		ride.Offer.DriverBio,
		ride.Offer.VehicleModel,
		ride.Offer.LicensePlate,
		ride.Offer.ETA,
		ride.Offer.Fare,
		ride.Date,
		rating,
	)
	return err
}

// List retrieves completed rides, most recent first.
func (r *HistoryRepository) List(ctx context.Context) ([]*domain.CompletedRide, error) {
	query := `
		SELECT id, pickup, destination, driver_name, driver_photo_url, driver_bio, vehicle_model, license_plate, eta, fare, ride_date, rating
		FROM ride_history ORDER BY ride_date DESC LIMIT 100
	`

	rows, err := r.q.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var rides []*domain.CompletedRide
	for rows.Next() {
		var ride domain.CompletedRide
		var rating sql.NullInt64
		if err := rows.Scan(
			&ride.ID,
			&ride.Pickup,
			&ride.Destination,
			&ride.Offer.DriverName,
			&ride.Offer.DriverPhotoURL,
			&ride.Offer.DriverBio,
			&ride.Offer.VehicleModel,
			&ride.Offer.LicensePlate,
			&ride.Offer.ETA,
			&ride.Offer.Fare,
			&ride.Date,
			&rating,
		); err != nil {
			return nil, err
		}
		if rating.Valid {
			ride.Rating = int(rating.Int64)
		}
		rides = append(rides, &ride)
	}
	return rides, rows.Err()
}

// UpdateRating sets the rating for a completed ride.
func (r *HistoryRepository) UpdateRating(ctx context.Context, id string, rating int) error {
	query := `UPDATE ride_history SET rating = $1 WHERE id = $2`

	result, err := r.q.ExecContext(ctx, query, rating, id)
	if err != nil {
		return err
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// GetByID retrieves a single completed ride.
func (r *HistoryRepository) GetByID(ctx context.Context, id string) (*domain.CompletedRide, error) {
	query := `
		SELECT id, pickup, destination, driver_name, driver_photo_url, driver_bio, vehicle_model, license_plate, eta, fare, ride_date, rating
		FROM ride_history WHERE id = $1
	`

	var ride domain.CompletedRide
	var rating sql.NullInt64
	err := r.q.QueryRowContext(ctx, query, id).Scan(
		&ride.ID,
		&ride.Pickup,
		&ride.Destination,
		&ride.Offer.DriverName,
		&ride.Offer.DriverPhotoURL,
		&ride.Offer.DriverBio,
		&ride.Offer.VehicleModel,
		&ride.Offer.LicensePlate,
		&ride.Offer.ETA,
		&ride.Offer.Fare,
		&ride.Date,
		&rating,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	if rating.Valid {
		ride.Rating = int(rating.Int64)
	}
	return &ride, nil
}
