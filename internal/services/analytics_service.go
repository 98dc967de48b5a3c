package services

import (
	"context"
	"time"

	"github.com/rideghana/backend/internal/apperrors"
	"github.com/rideghana/backend/internal/models"
	"github.com/rideghana/backend/internal/repository"
)

const analyticsDays = 7

type UserCounts struct {
	Total           int `json:"total"`
	Passengers      int `json:"passengers"`
	Drivers         int `json:"drivers"`
	Admins          int `json:"admins"`
	VerifiedDrivers int `json:"verifiedDrivers"`
	PremiumDrivers  int `json:"premiumDrivers"`
	Suspended       int `json:"suspended"`
}

type RideCounts struct {
	Total    int                       `json:"total"`
	ByStatus map[models.RideStatus]int `json:"byStatus"`
}

type Revenue struct {
	Total       float64 `json:"total"`
	AverageFare float64 `json:"averageFare"`
	Currency    string  `json:"currency"`
}

type DailyPoint struct {
	Date    string  `json:"date" example:"2025-06-01"`
	Rides   int     `json:"rides"`
	Revenue float64 `json:"revenue"`
}

// Analytics is the platform-wide dashboard.
// @Description Admin analytics
type Analytics struct {
	Users   UserCounts   `json:"users"`
	Rides   RideCounts   `json:"rides"`
	Revenue Revenue      `json:"revenue"`
	Daily   []DailyPoint `json:"daily"`
}

// AnalyticsService only reads.
type AnalyticsService struct {
	profiles repository.ProfileRepository
	drivers  repository.DriverRepository
	rides    repository.RideRepository
	currency string
	now      func() time.Time
}

func NewAnalyticsService(profiles repository.ProfileRepository, drivers repository.DriverRepository, rides repository.RideRepository, currency string) *AnalyticsService {
	return &AnalyticsService{profiles: profiles, drivers: drivers, rides: rides, currency: currency, now: time.Now}
}

func (s *AnalyticsService) GetAnalytics(ctx context.Context) (*Analytics, error) {
	profiles, err := s.profiles.List(ctx)
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	drivers, err := s.drivers.List(ctx)
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	rides, err := s.rides.List(ctx)
	if err != nil {
		return nil, apperrors.Internal(err)
	}

	a := &Analytics{
		Users:   countUsers(profiles, drivers),
		Rides:   RideCounts{Total: len(rides), ByStatus: make(map[models.RideStatus]int, len(models.AllRideStatuses))},
		Revenue: Revenue{Currency: s.currency},
	}
	for _, st := range models.AllRideStatuses {
		a.Rides.ByStatus[st] = 0
	}

	today := truncateDay(s.now())
	first := today.AddDate(0, 0, -(analyticsDays - 1))
	daily := make([]DailyPoint, analyticsDays)
	index := make(map[string]int, analyticsDays)
	for i := range daily {
		date := first.AddDate(0, 0, i).Format("2006-01-02")
		daily[i] = DailyPoint{Date: date}
		index[date] = i
	}

	completed := 0
	for _, r := range rides {
		a.Rides.ByStatus[r.Status]++

		if i, ok := index[truncateDay(r.CreatedAt).Format("2006-01-02")]; ok {
			daily[i].Rides++
		}
		if r.Status != models.RideStatusCompleted {
			continue
		}

		fare := fareOf(r)
		completed++
		a.Revenue.Total += fare
		if r.EndedAt != nil {
			if i, ok := index[truncateDay(*r.EndedAt).Format("2006-01-02")]; ok {
				daily[i].Revenue += fare
			}
		}
	}

	if completed > 0 {
		a.Revenue.AverageFare = roundMoney(a.Revenue.Total / float64(completed))
	}
	a.Revenue.Total = roundMoney(a.Revenue.Total)
	for i := range daily {
		daily[i].Revenue = roundMoney(daily[i].Revenue)
	}
	a.Daily = daily
	return a, nil
}

func countUsers(profiles []models.Profile, drivers []models.DriverListing) UserCounts {
	c := UserCounts{Total: len(profiles)}
	for _, p := range profiles {
		switch p.Role {
		case models.RolePassenger:
			c.Passengers++
		case models.RoleDriver:
			c.Drivers++
		case models.RoleAdmin:
			c.Admins++
		}
		if p.Suspended {
			c.Suspended++
		}
	}
	for _, d := range drivers {
		if d.Verified {
			c.VerifiedDrivers++
		}
		if d.Premium {
			c.PremiumDrivers++
		}
	}
	return c
}

func truncateDay(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
