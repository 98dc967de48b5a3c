package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/rideghana/backend/internal/models"
)

type PostgresRatingRepository struct {
	db *sql.DB
}

func NewRatingRepository(db *sql.DB) *PostgresRatingRepository {
	return &PostgresRatingRepository{db: db}
}

// Create stores the rating and refreshes the denormalized profile rating in one transaction.
func (r *PostgresRatingRepository) Create(ctx context.Context, rating *models.Rating) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO ratings (id, ride_id, driver_id, passenger_id, score, comment, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		rating.ID, rating.RideID, rating.DriverID, rating.PassengerID, rating.Score, nullString(rating.Comment), rating.CreatedAt)
	if err != nil {
		return mapWriteErr(err)
	}

	_, err = tx.ExecContext(ctx, `
		UPDATE profiles
		SET rating = (SELECT ROUND(AVG(score)::numeric, 2) FROM ratings WHERE driver_id = $1), updated_at = $2
		WHERE id = $1`, rating.DriverID, time.Now())
	if err != nil {
		return err
	}

	return tx.Commit()
}

func (r *PostgresRatingRepository) AverageForDriver(ctx context.Context, driverID string) (float64, int, error) {
	var avg sql.NullFloat64
	var count int
	err := r.db.QueryRowContext(ctx, `
		SELECT AVG(score)::float8, COUNT(*) FROM ratings WHERE driver_id = $1`, driverID).Scan(&avg, &count)
	if err != nil {
		return 0, 0, err
	}
	return avg.Float64, count, nil
}
