package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/rideghana/backend/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var profileRowColumns = []string{"id", "phone", "full_name", "role", "photo_url", "rating", "suspended", "created_at", "updated_at"}

func TestProfileRepository_GetByPhone(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewProfileRepository(db)
	now := time.Now()

	t.Run("new account has empty name", func(t *testing.T) {
		mock.ExpectQuery("SELECT (.+) FROM profiles WHERE phone = \\$1").
			WithArgs("+233241234567").
			WillReturnRows(sqlmock.NewRows(profileRowColumns).
				AddRow("p-1", "+233241234567", nil, "passenger", nil, 0.0, false, now, now))

		p, err := repo.GetByPhone(context.Background(), "+233241234567")
		require.NoError(t, err)
		assert.Empty(t, p.FullName)
		assert.Equal(t, models.RolePassenger, p.Role)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("unknown phone", func(t *testing.T) {
		mock.ExpectQuery("SELECT (.+) FROM profiles WHERE phone = \\$1").
			WithArgs("+233200000000").
			WillReturnRows(sqlmock.NewRows(profileRowColumns))

		_, err := repo.GetByPhone(context.Background(), "+233200000000")
		assert.ErrorIs(t, err, ErrNotFound)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestProfileRepository_Create(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewProfileRepository(db)
	now := time.Now()
	p := &models.Profile{ID: "p-1", Phone: "+233241234567", Role: models.RolePassenger, CreatedAt: now, UpdatedAt: now}

	t.Run("inserts profile and passenger marker together", func(t *testing.T) {
		mock.ExpectBegin()
		mock.ExpectExec("INSERT INTO profiles").
			WithArgs("p-1", "+233241234567", sqlmock.AnyArg(), "passenger", sqlmock.AnyArg(), 0.0, false, now, now).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectExec("INSERT INTO passengers").
			WithArgs("p-1", now).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		assert.NoError(t, repo.Create(context.Background(), p))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("marker failure rolls back the profile", func(t *testing.T) {
		mock.ExpectBegin()
		mock.ExpectExec("INSERT INTO profiles").
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectExec("INSERT INTO passengers").
			WillReturnError(errors.New("connection reset"))
		mock.ExpectRollback()

		err := repo.Create(context.Background(), p)
		assert.Error(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("unique violation maps to duplicate", func(t *testing.T) {
		mock.ExpectBegin()
		mock.ExpectExec("INSERT INTO profiles").
			WillReturnError(&pq.Error{Code: "23505"})
		mock.ExpectRollback()

		err := repo.Create(context.Background(), p)
		assert.ErrorIs(t, err, ErrDuplicate)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("drivers get no passenger marker", func(t *testing.T) {
		driver := &models.Profile{ID: "d-1", Phone: "+233241111111", Role: models.RoleDriver, CreatedAt: now, UpdatedAt: now}
		mock.ExpectBegin()
		mock.ExpectExec("INSERT INTO profiles").
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		assert.NoError(t, repo.Create(context.Background(), driver))
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestProfileRepository_UpdateDetails(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewProfileRepository(db)
	name := "Ama Owusu"

	mock.ExpectExec("UPDATE profiles SET full_name = COALESCE").
		WithArgs(name, nil, sqlmock.AnyArg(), "p-1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	assert.NoError(t, repo.UpdateDetails(context.Background(), "p-1", &name, nil))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestProfileRepository_Delete(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewProfileRepository(db)

	mock.ExpectExec("DELETE FROM profiles WHERE id = \\$1").
		WithArgs("missing").
		WillReturnResult(sqlmock.NewResult(0, 0))

	assert.ErrorIs(t, repo.Delete(context.Background(), "missing"), ErrNoRowsAffected)
	assert.NoError(t, mock.ExpectationsWereMet())
}
