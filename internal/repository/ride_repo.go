package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/rideghana/backend/internal/models"
)

const rideColumns = `id, passenger_id, driver_id, pickup_address, pickup_lat, pickup_lng,
	destination_address, destination_lat, destination_lng, distance_km, ride_class,
	estimated_price, final_price, status, payment_confirmed, trip_code, cancelled_by,
	created_at, assigned_at, started_at, ended_at, cancelled_at`

type PostgresRideRepository struct {
	db *sql.DB
}

func NewRideRepository(db *sql.DB) *PostgresRideRepository {
	return &PostgresRideRepository{db: db}
}

func scanRide(row rowScanner) (*models.Ride, error) {
	var r models.Ride
	var pickupLat, pickupLng, destLat, destLng, finalPrice sql.NullFloat64
	var tripCode, cancelledBy sql.NullString
	var assignedAt, startedAt, endedAt, cancelledAt sql.NullTime
	var rideClass, status string

	err := row.Scan(&r.ID, &r.PassengerID, &r.DriverID, &r.Pickup.Address, &pickupLat, &pickupLng,
		&r.Destination.Address, &destLat, &destLng, &r.DistanceKm, &rideClass,
		&r.EstimatedPrice, &finalPrice, &status, &r.PaymentConfirmed, &tripCode, &cancelledBy,
		&r.CreatedAt, &assignedAt, &startedAt, &endedAt, &cancelledAt)
	if err != nil {
		return nil, err
	}

	r.Pickup.Latitude = floatPtr(pickupLat)
	r.Pickup.Longitude = floatPtr(pickupLng)
	r.Destination.Latitude = floatPtr(destLat)
	r.Destination.Longitude = floatPtr(destLng)
	r.FinalPrice = floatPtr(finalPrice)
	r.RideClass = models.RideClass(rideClass)
	r.Status = models.RideStatus(status)
	r.TripCode = tripCode.String
	r.CancelledBy = cancelledBy.String
	r.AssignedAt = timePtr(assignedAt)
	r.StartedAt = timePtr(startedAt)
	r.EndedAt = timePtr(endedAt)
	r.CancelledAt = timePtr(cancelledAt)
	return &r, nil
}

func (repo *PostgresRideRepository) Create(ctx context.Context, r *models.Ride) error {
	_, err := repo.db.ExecContext(ctx, `
		INSERT INTO rides (id, passenger_id, driver_id, pickup_address, pickup_lat, pickup_lng,
			destination_address, destination_lat, destination_lng, distance_km, ride_class,
			estimated_price, status, payment_confirmed, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)`,
		r.ID, r.PassengerID, r.DriverID, r.Pickup.Address, nullFloat(r.Pickup.Latitude), nullFloat(r.Pickup.Longitude),
		r.Destination.Address, nullFloat(r.Destination.Latitude), nullFloat(r.Destination.Longitude), r.DistanceKm,
		string(r.RideClass), r.EstimatedPrice, string(r.Status), r.PaymentConfirmed, r.CreatedAt)
	return mapWriteErr(err)
}

func (repo *PostgresRideRepository) GetByID(ctx context.Context, id string) (*models.Ride, error) {
	row := repo.db.QueryRowContext(ctx, `SELECT `+rideColumns+` FROM rides WHERE id = $1`, id)
	r, err := scanRide(row)
	return r, mapRowErr(err)
}

// Every transition below is scoped by ride id, acting driver and source status.
// A zero-row result means one of the three did not match and is reported as ErrNoRowsAffected.

func (repo *PostgresRideRepository) Assign(ctx context.Context, rideID, driverID string, at time.Time) error {
	return expectAffected(repo.db.ExecContext(ctx, `
		UPDATE rides SET status = 'driver_assigned', assigned_at = $1
		WHERE id = $2 AND driver_id = $3 AND status = 'pending'`,
		at, rideID, driverID))
}

func (repo *PostgresRideRepository) Start(ctx context.Context, rideID, driverID string, at time.Time) error {
	return expectAffected(repo.db.ExecContext(ctx, `
		UPDATE rides SET status = 'started', started_at = $1
		WHERE id = $2 AND driver_id = $3 AND status = 'driver_assigned'`,
		at, rideID, driverID))
}

func (repo *PostgresRideRepository) Complete(ctx context.Context, rideID, driverID string, at time.Time, tripCode string, finalPrice float64) error {
	return expectAffected(repo.db.ExecContext(ctx, `
		UPDATE rides SET status = 'completed', ended_at = $1, trip_code = $2, final_price = $3
		WHERE id = $4 AND driver_id = $5 AND status = 'started'`,
		at, tripCode, finalPrice, rideID, driverID))
}

func (repo *PostgresRideRepository) Cancel(ctx context.Context, rideID, actorID string, at time.Time) error {
	return expectAffected(repo.db.ExecContext(ctx, `
		UPDATE rides SET status = 'cancelled', cancelled_at = $1, cancelled_by = $2
		WHERE id = $3 AND (passenger_id = $2 OR driver_id = $2) AND status IN ('pending', 'driver_assigned')`,
		at, actorID, rideID))
}

// AdminCancel may also cancel a started ride.
func (repo *PostgresRideRepository) AdminCancel(ctx context.Context, rideID, adminID string, at time.Time) error {
	return expectAffected(repo.db.ExecContext(ctx, `
		UPDATE rides SET status = 'cancelled', cancelled_at = $1, cancelled_by = $2
		WHERE id = $3 AND status IN ('pending', 'driver_assigned', 'started')`,
		at, adminID, rideID))
}

// MarkPaymentConfirmed sets the payment flag without touching status, only while pending.
func (repo *PostgresRideRepository) MarkPaymentConfirmed(ctx context.Context, rideID string) error {
	return expectAffected(repo.db.ExecContext(ctx, `
		UPDATE rides SET payment_confirmed = true
		WHERE id = $1 AND status = 'pending'`, rideID))
}

func (repo *PostgresRideRepository) ListByPassenger(ctx context.Context, passengerID string) ([]models.Ride, error) {
	return repo.list(ctx, `SELECT `+rideColumns+` FROM rides WHERE passenger_id = $1 ORDER BY created_at DESC`, passengerID)
}

// ListByDriver filters by status when one is given.
func (repo *PostgresRideRepository) ListByDriver(ctx context.Context, driverID string, status models.RideStatus) ([]models.Ride, error) {
	if status == "" {
		return repo.list(ctx, `SELECT `+rideColumns+` FROM rides WHERE driver_id = $1 ORDER BY created_at DESC`, driverID)
	}
	return repo.list(ctx, `SELECT `+rideColumns+` FROM rides WHERE driver_id = $1 AND status = $2 ORDER BY created_at DESC`,
		driverID, string(status))
}

func (repo *PostgresRideRepository) List(ctx context.Context) ([]models.Ride, error) {
	return repo.list(ctx, `SELECT `+rideColumns+` FROM rides ORDER BY created_at DESC`)
}

func (repo *PostgresRideRepository) list(ctx context.Context, query string, args ...any) ([]models.Ride, error) {
	rows, err := repo.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	rides := []models.Ride{}
	for rows.Next() {
		r, err := scanRide(rows)
		if err != nil {
			return nil, err
		}
		rides = append(rides, *r)
	}
	return rides, rows.Err()
}
