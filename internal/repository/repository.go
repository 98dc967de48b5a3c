package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/lib/pq"
	"github.com/rideghana/backend/internal/models"
)

var (
	// ErrNotFound is returned by single-row lookups that match nothing.
	ErrNotFound = errors.New("record not found")
	// ErrNoRowsAffected is returned by scoped updates whose WHERE clause matched nothing.
	// Callers must decide between not-found, forbidden and conflict; it is never success.
	ErrNoRowsAffected = errors.New("no rows affected")
	// ErrDuplicate is returned on a unique constraint violation.
	ErrDuplicate = errors.New("duplicate record")
)

const (
	uniqueViolation = "23505"
	// Raised when a key such as a malformed UUID cannot be cast to the column type.
	invalidTextRepresentation = "22P02"
)

type ProfileRepository interface {
	GetByID(ctx context.Context, id string) (*models.Profile, error)
	GetByPhone(ctx context.Context, phone string) (*models.Profile, error)
	// Create stores a new profile together with its role marker record.
	Create(ctx context.Context, p *models.Profile) error
	UpdateSetup(ctx context.Context, id, fullName string, role models.Role) error
	UpdateDetails(ctx context.Context, id string, fullName, photoURL *string) error
	SetSuspended(ctx context.Context, id string, suspended bool) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context) ([]models.Profile, error)
	EnsurePassenger(ctx context.Context, profileID string) error
}

type DriverRepository interface {
	GetByProfileID(ctx context.Context, profileID string) (*models.Driver, error)
	EnsureDriver(ctx context.Context, profileID string) error
	UpdateVehicle(ctx context.Context, profileID string, v models.VehicleDetails) error
	SetVerified(ctx context.Context, profileID string, verified bool) error
	UpdateLocation(ctx context.Context, profileID string, lat, lng float64) error
	ListAvailable(ctx context.Context, premiumOnly bool) ([]models.DriverListing, error)
	List(ctx context.Context) ([]models.DriverListing, error)
}

type RideRepository interface {
	Create(ctx context.Context, r *models.Ride) error
	GetByID(ctx context.Context, id string) (*models.Ride, error)
	Assign(ctx context.Context, rideID, driverID string, at time.Time) error
	Start(ctx context.Context, rideID, driverID string, at time.Time) error
	Complete(ctx context.Context, rideID, driverID string, at time.Time, tripCode string, finalPrice float64) error
	Cancel(ctx context.Context, rideID, actorID string, at time.Time) error
	AdminCancel(ctx context.Context, rideID, adminID string, at time.Time) error
	MarkPaymentConfirmed(ctx context.Context, rideID string) error
	ListByPassenger(ctx context.Context, passengerID string) ([]models.Ride, error)
	ListByDriver(ctx context.Context, driverID string, status models.RideStatus) ([]models.Ride, error)
	List(ctx context.Context) ([]models.Ride, error)
}

type PaymentRepository interface {
	Create(ctx context.Context, p *models.Payment) error
	GetByReference(ctx context.Context, reference string) (*models.Payment, error)
	MarkPaid(ctx context.Context, reference string, at time.Time) error
}

type RatingRepository interface {
	Create(ctx context.Context, r *models.Rating) error
	AverageForDriver(ctx context.Context, driverID string) (float64, int, error)
}

type WaitlistRepository interface {
	Create(ctx context.Context, e *models.WaitlistEntry) error
	List(ctx context.Context) ([]models.WaitlistEntry, error)
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == uniqueViolation
}

// isInvalidText reports a key that could never match a row.
func isInvalidText(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == invalidTextRepresentation
}

func mapWriteErr(err error) error {
	if isUniqueViolation(err) {
		return ErrDuplicate
	}
	return err
}

func mapRowErr(err error) error {
	if errors.Is(err, sql.ErrNoRows) || isInvalidText(err) {
		return ErrNotFound
	}
	return err
}

// expectAffected turns a zero-row update into ErrNoRowsAffected.
func expectAffected(res sql.Result, err error) error {
	if isInvalidText(err) {
		return ErrNoRowsAffected
	}
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNoRowsAffected
	}
	return nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func nullFloat(f *float64) sql.NullFloat64 {
	if f == nil {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: *f, Valid: true}
}

func floatPtr(f sql.NullFloat64) *float64 {
	if !f.Valid {
		return nil
	}
	v := f.Float64
	return &v
}

func timePtr(t sql.NullTime) *time.Time {
	if !t.Valid {
		return nil
	}
	v := t.Time
	return &v
}
