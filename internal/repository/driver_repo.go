package repository

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/rideghana/backend/internal/models"
)

const driverColumns = `d.profile_id, d.car_make, d.car_model, d.car_year, d.car_color, d.plate_number,
	d.seat_capacity, d.ac, d.quiet, d.music, d.premium, d.verified, d.current_lat, d.current_lng,
	d.created_at, d.updated_at`

type PostgresDriverRepository struct {
	db *sql.DB
}

func NewDriverRepository(db *sql.DB) *PostgresDriverRepository {
	return &PostgresDriverRepository{db: db}
}

func scanDriver(row rowScanner, extra ...any) (*models.Driver, error) {
	var d models.Driver
	var carMake, model, color, plate sql.NullString
	var year sql.NullInt64
	var lat, lng sql.NullFloat64

	dest := []any{&d.ProfileID, &carMake, &model, &year, &color, &plate,
		&d.SeatCapacity, &d.AC, &d.Quiet, &d.Music, &d.Premium, &d.Verified, &lat, &lng,
		&d.CreatedAt, &d.UpdatedAt}
	if err := row.Scan(append(dest, extra...)...); err != nil {
		return nil, err
	}

	d.CarMake = carMake.String
	d.CarModel = model.String
	d.CarYear = int(year.Int64)
	d.CarColor = color.String
	d.PlateNumber = plate.String
	d.CurrentLat = floatPtr(lat)
	d.CurrentLng = floatPtr(lng)
	return &d, nil
}

func (r *PostgresDriverRepository) GetByProfileID(ctx context.Context, profileID string) (*models.Driver, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+driverColumns+` FROM drivers d WHERE d.profile_id = $1`, profileID)
	d, err := scanDriver(row)
	return d, mapRowErr(err)
}

// EnsureDriver creates the empty record at role selection.
func (r *PostgresDriverRepository) EnsureDriver(ctx context.Context, profileID string) error {
	now := time.Now()
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO drivers (profile_id, created_at, updated_at) VALUES ($1, $2, $3)
		ON CONFLICT (profile_id) DO NOTHING`, profileID, now, now)
	return err
}

func (r *PostgresDriverRepository) UpdateVehicle(ctx context.Context, profileID string, v models.VehicleDetails) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE drivers
		SET car_make = $1, car_model = $2, car_year = $3, car_color = $4, plate_number = $5,
			seat_capacity = $6, ac = $7, quiet = $8, music = $9, premium = $10, updated_at = $11
		WHERE profile_id = $12`,
		v.CarMake, v.CarModel, v.CarYear, v.CarColor, strings.ToUpper(strings.TrimSpace(v.PlateNumber)),
		v.SeatCapacity, v.AC, v.Quiet, v.Music, v.Premium, time.Now(), profileID)
	return expectAffected(res, mapWriteErr(err))
}

func (r *PostgresDriverRepository) SetVerified(ctx context.Context, profileID string, verified bool) error {
	return expectAffected(r.db.ExecContext(ctx, `
		UPDATE drivers SET verified = $1, updated_at = $2 WHERE profile_id = $3`,
		verified, time.Now(), profileID))
}

func (r *PostgresDriverRepository) UpdateLocation(ctx context.Context, profileID string, lat, lng float64) error {
	return expectAffected(r.db.ExecContext(ctx, `
		UPDATE drivers SET current_lat = $1, current_lng = $2, updated_at = $3 WHERE profile_id = $4`,
		lat, lng, time.Now(), profileID))
}

// ListAvailable returns bookable drivers ordered by profile id so callers get a stable base order.
func (r *PostgresDriverRepository) ListAvailable(ctx context.Context, premiumOnly bool) ([]models.DriverListing, error) {
	return r.list(ctx, `
		SELECT `+driverColumns+`, COALESCE(p.full_name, ''), p.phone, p.rating, p.suspended
		FROM drivers d
		JOIN profiles p ON p.id = d.profile_id
		WHERE d.seat_capacity > 0
			AND d.car_make IS NOT NULL AND d.plate_number IS NOT NULL
			AND p.suspended = false
			AND ($1 = false OR d.premium = true)
		ORDER BY d.profile_id`, premiumOnly)
}

func (r *PostgresDriverRepository) List(ctx context.Context) ([]models.DriverListing, error) {
	return r.list(ctx, `
		SELECT `+driverColumns+`, COALESCE(p.full_name, ''), p.phone, p.rating, p.suspended
		FROM drivers d
		JOIN profiles p ON p.id = d.profile_id
		ORDER BY d.created_at DESC`)
}

func (r *PostgresDriverRepository) list(ctx context.Context, query string, args ...any) ([]models.DriverListing, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	listings := []models.DriverListing{}
	for rows.Next() {
		var l models.DriverListing
		d, err := scanDriver(rows, &l.FullName, &l.Phone, &l.Rating, &l.Suspended)
		if err != nil {
			return nil, err
		}
		l.Driver = *d
		listings = append(listings, l)
	}
	return listings, rows.Err()
}
