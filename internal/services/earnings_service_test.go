package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rideghana/backend/internal/apperrors"
	"github.com/rideghana/backend/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func completedRide(id string, fare float64, endedAt time.Time) models.Ride {
	return models.Ride{
		ID:             id,
		DriverID:       driverID,
		Status:         models.RideStatusCompleted,
		EstimatedPrice: fare,
		FinalPrice:     float(fare),
		CreatedAt:      endedAt.Add(-30 * time.Minute),
		EndedAt:        &endedAt,
	}
}

func TestEarningsService_GetEarnings(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2025, 6, 30, 12, 0, 0, 0, time.UTC)

	newService := func() (*EarningsService, *MockRideRepository, *MockRatingRepository) {
		rides := new(MockRideRepository)
		ratings := new(MockRatingRepository)
		svc := NewEarningsService(rides, ratings, "GHS")
		svc.now = func() time.Time { return now }
		return svc, rides, ratings
	}

	t.Run("no rides is all zeros", func(t *testing.T) {
		svc, rides, ratings := newService()
		rides.On("ListByDriver", ctx, driverID, models.RideStatusCompleted).Return([]models.Ride{}, nil)
		ratings.On("AverageForDriver", ctx, driverID).Return(0.0, 0, nil)

		e, err := svc.GetEarnings(ctx, driverID)
		require.NoError(t, err)
		assert.Equal(t, &Earnings{Currency: "GHS"}, e)
	})

	t.Run("two completed rides this week", func(t *testing.T) {
		svc, rides, ratings := newService()
		rides.On("ListByDriver", ctx, driverID, models.RideStatusCompleted).Return([]models.Ride{
			completedRide("r1", 12, now.Add(-2*time.Hour)),
			completedRide("r2", 15, now.AddDate(0, 0, -3)),
		}, nil)
		ratings.On("AverageForDriver", ctx, driverID).Return(4.5, 2, nil)

		e, err := svc.GetEarnings(ctx, driverID)
		require.NoError(t, err)
		assert.Equal(t, 27.0, e.Total)
		assert.Equal(t, 27.0, e.ThisWeek)
		assert.Equal(t, 27.0, e.ThisMonth)
		assert.Equal(t, 2, e.CompletedTrips)
		assert.Equal(t, 4.5, e.Rating)
		assert.Equal(t, 2, e.RatingCount)
	})

	t.Run("windows split older rides", func(t *testing.T) {
		svc, rides, ratings := newService()
		missingFinal := completedRide("r4", 0, now.AddDate(0, 0, -1))
		missingFinal.FinalPrice = nil
		missingFinal.EstimatedPrice = 8.5
		rides.On("ListByDriver", ctx, driverID, models.RideStatusCompleted).Return([]models.Ride{
			completedRide("r1", 10, now.AddDate(0, 0, -2)),
			completedRide("r2", 20.25, now.AddDate(0, 0, -10)),
			completedRide("r3", 30, now.AddDate(0, 0, -45)),
			missingFinal,
		}, nil)
		ratings.On("AverageForDriver", ctx, driverID).Return(3.666666, 3, nil)

		e, err := svc.GetEarnings(ctx, driverID)
		require.NoError(t, err)
		assert.Equal(t, 68.75, e.Total)
		assert.Equal(t, 18.5, e.ThisWeek)
		assert.Equal(t, 38.75, e.ThisMonth)
		assert.Equal(t, 4, e.CompletedTrips)
		assert.Equal(t, 3.67, e.Rating)
	})

	t.Run("rating lookup failure", func(t *testing.T) {
		svc, rides, ratings := newService()
		rides.On("ListByDriver", ctx, driverID, models.RideStatusCompleted).Return([]models.Ride{}, nil)
		ratings.On("AverageForDriver", ctx, driverID).Return(0.0, 0, errors.New("db down"))

		_, err := svc.GetEarnings(ctx, driverID)
		assert.Equal(t, apperrors.CodeUnexpected, apperrors.CodeOf(err))
	})
}
