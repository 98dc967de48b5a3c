package repository

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/rideghana/backend/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRatingRepository_Create(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewRatingRepository(db)
	rating := &models.Rating{ID: "rt-1", RideID: "ride-1", DriverID: "drv-1", PassengerID: "pass-1", Score: 5, CreatedAt: time.Now()}

	t.Run("stores rating and refreshes profile", func(t *testing.T) {
		mock.ExpectBegin()
		mock.ExpectExec("INSERT INTO ratings").
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectExec("UPDATE profiles SET rating").
			WithArgs("drv-1", sqlmock.AnyArg()).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		assert.NoError(t, repo.Create(context.Background(), rating))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("ride already rated", func(t *testing.T) {
		mock.ExpectBegin()
		mock.ExpectExec("INSERT INTO ratings").
			WillReturnError(&pq.Error{Code: "23505"})
		mock.ExpectRollback()

		assert.ErrorIs(t, repo.Create(context.Background(), rating), ErrDuplicate)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestRatingRepository_AverageForDriver(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewRatingRepository(db)

	t.Run("no ratings yet", func(t *testing.T) {
		mock.ExpectQuery("SELECT AVG\\(score\\)").
			WithArgs("drv-1").
			WillReturnRows(sqlmock.NewRows([]string{"avg", "count"}).AddRow(nil, 0))

		avg, count, err := repo.AverageForDriver(context.Background(), "drv-1")
		require.NoError(t, err)
		assert.Equal(t, 0.0, avg)
		assert.Equal(t, 0, count)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("averages scores", func(t *testing.T) {
		mock.ExpectQuery("SELECT AVG\\(score\\)").
			WithArgs("drv-2").
			WillReturnRows(sqlmock.NewRows([]string{"avg", "count"}).AddRow(4.5, 2))

		avg, count, err := repo.AverageForDriver(context.Background(), "drv-2")
		require.NoError(t, err)
		assert.Equal(t, 4.5, avg)
		assert.Equal(t, 2, count)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
