package services

import (
	"context"
	"time"

	"github.com/rideghana/backend/internal/apperrors"
	"github.com/rideghana/backend/internal/models"
	"github.com/rideghana/backend/internal/repository"
)

// RatingAggregator rolls up a driver's ratings.
type RatingAggregator interface {
	AverageForDriver(ctx context.Context, driverID string) (float64, int, error)
}

// Earnings summarizes completed rides.
// @Description Driver earnings summary
type Earnings struct {
	Total          float64 `json:"total" example:"540.5"`
	ThisWeek       float64 `json:"thisWeek" example:"120"`
	ThisMonth      float64 `json:"thisMonth" example:"410.25"`
	CompletedTrips int     `json:"completedTrips" example:"23"`
	Rating         float64 `json:"rating" example:"4.7"`
	RatingCount    int     `json:"ratingCount" example:"18"`
	Currency       string  `json:"currency" example:"GHS"`
}

type EarningsService struct {
	rides    repository.RideRepository
	ratings  RatingAggregator
	currency string
	now      func() time.Time
}

func NewEarningsService(rides repository.RideRepository, ratings RatingAggregator, currency string) *EarningsService {
	return &EarningsService{rides: rides, ratings: ratings, currency: currency, now: time.Now}
}

// fareOf is the final price, or the estimate for rides completed without one.
func fareOf(r models.Ride) float64 {
	if r.FinalPrice != nil {
		return *r.FinalPrice
	}
	return r.EstimatedPrice
}

// GetEarnings sums completed rides: all time, ended within 7 days and ended within 30 days.
func (s *EarningsService) GetEarnings(ctx context.Context, driverID string) (*Earnings, error) {
	rides, err := s.rides.ListByDriver(ctx, driverID, models.RideStatusCompleted)
	if err != nil {
		return nil, apperrors.Internal(err)
	}

	now := s.now()
	weekStart := now.AddDate(0, 0, -7)
	monthStart := now.AddDate(0, 0, -30)

	e := &Earnings{Currency: s.currency}
	for _, r := range rides {
		if r.Status != models.RideStatusCompleted {
			continue
		}
		fare := fareOf(r)
		e.Total += fare
		e.CompletedTrips++
		if r.EndedAt == nil {
			continue
		}
		if !r.EndedAt.Before(weekStart) {
			e.ThisWeek += fare
		}
		if !r.EndedAt.Before(monthStart) {
			e.ThisMonth += fare
		}
	}
	e.Total = roundMoney(e.Total)
	e.ThisWeek = roundMoney(e.ThisWeek)
	e.ThisMonth = roundMoney(e.ThisMonth)

	avg, count, err := s.ratings.AverageForDriver(ctx, driverID)
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	if count > 0 {
		e.Rating = roundMoney(avg)
		e.RatingCount = count
	}
	return e, nil
}
