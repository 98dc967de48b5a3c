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

var driverRowColumns = []string{"profile_id", "car_make", "car_model", "car_year", "car_color", "plate_number",
	"seat_capacity", "ac", "quiet", "music", "premium", "verified", "current_lat", "current_lng",
	"created_at", "updated_at"}

func TestDriverRepository_GetByProfileID(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewDriverRepository(db)
	now := time.Now()

	mock.ExpectQuery("SELECT (.+) FROM drivers d WHERE d.profile_id = \\$1").
		WithArgs("drv-1").
		WillReturnRows(sqlmock.NewRows(driverRowColumns).
			AddRow("drv-1", nil, nil, nil, nil, nil, 0, false, false, false, false, false, nil, nil, now, now))

	d, err := repo.GetByProfileID(context.Background(), "drv-1")
	require.NoError(t, err)
	assert.False(t, d.HasVehicle())
	assert.Nil(t, d.CurrentLat)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDriverRepository_UpdateVehicle(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewDriverRepository(db)
	v := models.VehicleDetails{
		CarMake: "Toyota", CarModel: "Corolla", CarYear: 2018, CarColor: "Silver",
		PlateNumber: " gr-1234-20 ", SeatCapacity: 4, AC: true,
	}

	t.Run("normalizes plate", func(t *testing.T) {
		mock.ExpectExec("UPDATE drivers").
			WithArgs("Toyota", "Corolla", 2018, "Silver", "GR-1234-20", 4, true, false, false, false, sqlmock.AnyArg(), "drv-1").
			WillReturnResult(sqlmock.NewResult(0, 1))

		assert.NoError(t, repo.UpdateVehicle(context.Background(), "drv-1", v))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("plate already registered", func(t *testing.T) {
		mock.ExpectExec("UPDATE drivers").
			WillReturnError(&pq.Error{Code: "23505"})

		err := repo.UpdateVehicle(context.Background(), "drv-1", v)
		assert.ErrorIs(t, err, ErrDuplicate)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestDriverRepository_ListAvailable(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewDriverRepository(db)
	now := time.Now()
	cols := append(append([]string{}, driverRowColumns...), "full_name", "phone", "rating", "suspended")

	mock.ExpectQuery("FROM drivers d JOIN profiles p").
		WithArgs(true).
		WillReturnRows(sqlmock.NewRows(cols).
			AddRow("drv-1", "Toyota", "Camry", 2020, "Black", "GR-1", 4, true, true, false, true, true, 5.6, -0.18, now, now,
				"Kofi Mensah", "+233241111111", 4.8, false))

	drivers, err := repo.ListAvailable(context.Background(), true)
	require.NoError(t, err)
	require.Len(t, drivers, 1)
	assert.Equal(t, "Kofi Mensah", drivers[0].FullName)
	assert.True(t, drivers[0].Premium)
	assert.Equal(t, 4.8, drivers[0].Rating)
	require.NotNil(t, drivers[0].CurrentLat)
	assert.NoError(t, mock.ExpectationsWereMet())
}
