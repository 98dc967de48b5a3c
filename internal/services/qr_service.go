package services

import (
	"bytes"
	"context"
	"encoding/json"
	"image/png"

	"github.com/rideghana/backend/internal/apperrors"
	"github.com/skip2/go-qrcode"
)

const tripCodeQRSize = 256

// QRService renders a completed ride's trip code so the passenger can confirm it by scanning.
type QRService struct {
	rides *RideService
}

func NewQRService(rides *RideService) *QRService {
	return &QRService{rides: rides}
}

func (s *QRService) TripCodePNG(ctx context.Context, actor Actor, rideID string) ([]byte, error) {
	ride, err := s.rides.GetRide(ctx, actor, rideID)
	if err != nil {
		return nil, err
	}
	if ride.TripCode == "" {
		return nil, apperrors.New(apperrors.CodeConflict, "Trip code is issued when the trip ends")
	}

	payload, err := json.Marshal(map[string]string{
		"rideId":   ride.ID,
		"tripCode": ride.TripCode,
	})
	if err != nil {
		return nil, apperrors.Internal(err)
	}

	qr, err := qrcode.New(string(payload), qrcode.Medium)
	if err != nil {
		return nil, apperrors.Internal(err)
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, qr.Image(tripCodeQRSize)); err != nil {
		return nil, apperrors.Internal(err)
	}
	return buf.Bytes(), nil
}
