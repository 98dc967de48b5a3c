package services

import (
	"bytes"
	"context"
	"image/png"
	"testing"

	"github.com/rideghana/backend/internal/apperrors"
	"github.com/rideghana/backend/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQRService_TripCodePNG(t *testing.T) {
	ctx := context.Background()
	passenger := Actor{ID: passengerID, Role: models.RolePassenger}

	t.Run("completed ride renders a png", func(t *testing.T) {
		f := newRideFixture(t)
		ride := rideIn(models.RideStatusCompleted)
		ride.TripCode = "AB12"
		f.rides.On("GetByID", ctx, rideID).Return(ride, nil)

		data, err := NewQRService(f.service).TripCodePNG(ctx, passenger, rideID)
		require.NoError(t, err)
		img, err := png.Decode(bytes.NewReader(data))
		require.NoError(t, err)
		assert.Equal(t, 256, img.Bounds().Dx())
	})

	t.Run("no trip code yet", func(t *testing.T) {
		f := newRideFixture(t)
		f.rides.On("GetByID", ctx, rideID).Return(rideIn(models.RideStatusStarted), nil)

		_, err := NewQRService(f.service).TripCodePNG(ctx, passenger, rideID)
		assert.Equal(t, apperrors.CodeConflict, apperrors.CodeOf(err))
	})

	t.Run("outsider sees not found", func(t *testing.T) {
		f := newRideFixture(t)
		f.rides.On("GetByID", ctx, rideID).Return(rideIn(models.RideStatusCompleted), nil)

		_, err := NewQRService(f.service).TripCodePNG(ctx, Actor{ID: otherDriver, Role: models.RoleDriver}, rideID)
		assert.Equal(t, apperrors.CodeNotFound, apperrors.CodeOf(err))
	})
}
