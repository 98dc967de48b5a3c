package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/rideghana/backend/internal/models"
)

const profileColumns = `id, phone, full_name, role, photo_url, rating, suspended, created_at, updated_at`

type PostgresProfileRepository struct {
	db *sql.DB
}

func NewProfileRepository(db *sql.DB) *PostgresProfileRepository {
	return &PostgresProfileRepository{db: db}
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanProfile(row rowScanner) (*models.Profile, error) {
	var p models.Profile
	var fullName, photoURL sql.NullString
	var role string
	if err := row.Scan(&p.ID, &p.Phone, &fullName, &role, &photoURL, &p.Rating, &p.Suspended, &p.CreatedAt, &p.UpdatedAt); err != nil {
		return nil, err
	}
	p.FullName = fullName.String
	p.PhotoURL = photoURL.String
	p.Role = models.Role(role)
	return &p, nil
}

func (r *PostgresProfileRepository) GetByID(ctx context.Context, id string) (*models.Profile, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+profileColumns+` FROM profiles WHERE id = $1`, id)
	p, err := scanProfile(row)
	return p, mapRowErr(err)
}

func (r *PostgresProfileRepository) GetByPhone(ctx context.Context, phone string) (*models.Profile, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+profileColumns+` FROM profiles WHERE phone = $1`, phone)
	p, err := scanProfile(row)
	return p, mapRowErr(err)
}

// Create inserts the profile and, for passengers, the passenger marker in one transaction.
func (r *PostgresProfileRepository) Create(ctx context.Context, p *models.Profile) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO profiles (id, phone, full_name, role, photo_url, rating, suspended, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		p.ID, p.Phone, nullString(p.FullName), string(p.Role), nullString(p.PhotoURL), p.Rating, p.Suspended, p.CreatedAt, p.UpdatedAt)
	if err != nil {
		return mapWriteErr(err)
	}

	if p.Role == models.RolePassenger {
		_, err = tx.ExecContext(ctx, `
			INSERT INTO passengers (profile_id, created_at) VALUES ($1, $2)
			ON CONFLICT (profile_id) DO NOTHING`, p.ID, p.CreatedAt)
		if err != nil {
			return err
		}
	}

	return tx.Commit()
}

func (r *PostgresProfileRepository) UpdateSetup(ctx context.Context, id, fullName string, role models.Role) error {
	return expectAffected(r.db.ExecContext(ctx, `
		UPDATE profiles SET full_name = $1, role = $2, updated_at = $3 WHERE id = $4`,
		fullName, string(role), time.Now(), id))
}

// UpdateDetails changes only the non-nil fields.
func (r *PostgresProfileRepository) UpdateDetails(ctx context.Context, id string, fullName, photoURL *string) error {
	return expectAffected(r.db.ExecContext(ctx, `
		UPDATE profiles
		SET full_name = COALESCE($1, full_name), photo_url = COALESCE($2, photo_url), updated_at = $3
		WHERE id = $4`,
		optional(fullName), optional(photoURL), time.Now(), id))
}

func (r *PostgresProfileRepository) SetSuspended(ctx context.Context, id string, suspended bool) error {
	return expectAffected(r.db.ExecContext(ctx, `
		UPDATE profiles SET suspended = $1, updated_at = $2 WHERE id = $3`,
		suspended, time.Now(), id))
}

func (r *PostgresProfileRepository) Delete(ctx context.Context, id string) error {
	return expectAffected(r.db.ExecContext(ctx, `DELETE FROM profiles WHERE id = $1`, id))
}

func (r *PostgresProfileRepository) List(ctx context.Context) ([]models.Profile, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+profileColumns+` FROM profiles ORDER BY created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	profiles := []models.Profile{}
	for rows.Next() {
		p, err := scanProfile(rows)
		if err != nil {
			return nil, err
		}
		profiles = append(profiles, *p)
	}
	return profiles, rows.Err()
}

func (r *PostgresProfileRepository) EnsurePassenger(ctx context.Context, profileID string) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO passengers (profile_id, created_at) VALUES ($1, $2)
		ON CONFLICT (profile_id) DO NOTHING`, profileID, time.Now())
	return err
}

func optional(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}
