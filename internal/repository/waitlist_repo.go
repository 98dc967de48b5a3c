package repository

import (
	"context"
	"database/sql"

	"github.com/rideghana/backend/internal/models"
)

type PostgresWaitlistRepository struct {
	db *sql.DB
}

func NewWaitlistRepository(db *sql.DB) *PostgresWaitlistRepository {
	return &PostgresWaitlistRepository{db: db}
}

func (r *PostgresWaitlistRepository) Create(ctx context.Context, e *models.WaitlistEntry) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO waitlist (id, name, phone, email, area, role, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		e.ID, e.Name, e.Phone, nullString(e.Email), e.Area, e.Role, e.CreatedAt)
	return err
}

func (r *PostgresWaitlistRepository) List(ctx context.Context) ([]models.WaitlistEntry, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, name, phone, email, area, role, created_at FROM waitlist ORDER BY created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	entries := []models.WaitlistEntry{}
	for rows.Next() {
		var e models.WaitlistEntry
		var email sql.NullString
		if err := rows.Scan(&e.ID, &e.Name, &e.Phone, &email, &e.Area, &e.Role, &e.CreatedAt); err != nil {
			return nil, err
		}
		e.Email = email.String
		entries = append(entries, e)
	}
	return entries, rows.Err()
}
