package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/rideghana/backend/internal/models"
)

type PostgresPaymentRepository struct {
	db *sql.DB
}

func NewPaymentRepository(db *sql.DB) *PostgresPaymentRepository {
	return &PostgresPaymentRepository{db: db}
}

func (r *PostgresPaymentRepository) Create(ctx context.Context, p *models.Payment) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO payments (id, passenger_id, driver_id, ride_id, amount, currency, provider, reference, status, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		p.ID, p.PassengerID, nullString(p.DriverID), nullString(p.RideID), p.Amount, p.Currency,
		p.Provider, p.Reference, string(p.Status), p.CreatedAt)
	return mapWriteErr(err)
}

func (r *PostgresPaymentRepository) GetByReference(ctx context.Context, reference string) (*models.Payment, error) {
	var p models.Payment
	var driverID, rideID sql.NullString
	var status string
	var paidAt sql.NullTime

	err := r.db.QueryRowContext(ctx, `
		SELECT id, passenger_id, driver_id, ride_id, amount, currency, provider, reference, status, created_at, paid_at
		FROM payments WHERE reference = $1`, reference).
		Scan(&p.ID, &p.PassengerID, &driverID, &rideID, &p.Amount, &p.Currency, &p.Provider, &p.Reference, &status, &p.CreatedAt, &paidAt)
	if err != nil {
		return nil, mapRowErr(err)
	}

	p.DriverID = driverID.String
	p.RideID = rideID.String
	p.Status = models.PaymentStatus(status)
	p.PaidAt = timePtr(paidAt)
	return &p, nil
}

// MarkPaid flips a pending payment to paid. Already-paid payments affect zero rows.
func (r *PostgresPaymentRepository) MarkPaid(ctx context.Context, reference string, at time.Time) error {
	return expectAffected(r.db.ExecContext(ctx, `
		UPDATE payments SET status = 'paid', paid_at = $1
		WHERE reference = $2 AND status = 'pending'`, at, reference))
}
