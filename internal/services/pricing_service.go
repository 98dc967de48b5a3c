package services

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"hash/fnv"
	"log"
	"math"
	"sort"
	"strings"

	"github.com/go-redis/redis/v8"
	"github.com/rideghana/backend/internal/apperrors"
	"github.com/rideghana/backend/internal/config"
	"github.com/rideghana/backend/internal/models"
	"github.com/rideghana/backend/internal/repository"
)

// DistanceProvider computes the route length between two locations.
type DistanceProvider interface {
	DistanceKm(ctx context.Context, pickup, destination models.Location) (float64, error)
}

// StandInDistance uses the great-circle distance when both points carry coordinates and
// otherwise derives a stable distance from the addresses.
type StandInDistance struct{}

func (StandInDistance) DistanceKm(ctx context.Context, pickup, destination models.Location) (float64, error) {
	if pickup.HasCoordinates() && destination.HasCoordinates() {
		return haversineKm(*pickup.Latitude, *pickup.Longitude, *destination.Latitude, *destination.Longitude), nil
	}
	return addressDistanceKm(pickup.Address, destination.Address), nil
}

func haversineKm(lat1, lng1, lat2, lng2 float64) float64 {
	const earthRadius = 6371 // km

	dlat := toRadians(lat2 - lat1)
	dlng := toRadians(lng2 - lng1)
	a := math.Sin(dlat/2)*math.Sin(dlat/2) +
		math.Cos(toRadians(lat1))*math.Cos(toRadians(lat2))*math.Sin(dlng/2)*math.Sin(dlng/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
	return earthRadius * c
}

func toRadians(deg float64) float64 {
	return deg * math.Pi / 180
}

// addressDistanceKm maps an address pair to 2..30 km. Identical addresses are 0.
func addressDistanceKm(from, to string) float64 {
	from = strings.ToLower(strings.TrimSpace(from))
	to = strings.ToLower(strings.TrimSpace(to))
	if from == to {
		return 0
	}
	h := fnv.New32a()
	h.Write([]byte(from + "|" + to))
	return 2 + float64(h.Sum32()%2801)/100
}

func roundMoney(v float64) float64 {
	return math.Round(v*100) / 100
}

// Estimate is the up-front fare for a route.
// @Description Trip estimate
type Estimate struct {
	DistanceKm      float64          `json:"distanceKm" example:"7.25"`
	DurationMinutes int              `json:"durationMinutes" example:"15"`
	Price           float64          `json:"price" example:"19.5"`
	Currency        string           `json:"currency" example:"GHS"`
	RideClass       models.RideClass `json:"rideClass" example:"basic"`
}

// DriverMatch is one search result.
// @Description Candidate driver with price
type DriverMatch struct {
	DriverID     string  `json:"driverId"`
	FullName     string  `json:"fullName"`
	Rating       float64 `json:"rating"`
	CarMake      string  `json:"carMake"`
	CarModel     string  `json:"carModel"`
	CarColor     string  `json:"carColor"`
	PlateNumber  string  `json:"plateNumber"`
	SeatCapacity int     `json:"seatCapacity"`
	AC           bool    `json:"ac"`
	Quiet        bool    `json:"quiet"`
	Music        bool    `json:"music"`
	Premium      bool    `json:"premium"`
	Verified     bool    `json:"verified"`
	Price        float64 `json:"price"`
	Currency     string  `json:"currency"`
	EtaMinutes   int     `json:"etaMinutes"`
	DistanceKm   float64 `json:"distanceKm"`
}

type PricingService struct {
	drivers  repository.DriverRepository
	distance DistanceProvider
	redis    *redis.Client
	cfg      config.PricingConfig
}

// NewPricingService caches search results in redis when a client is given.
func NewPricingService(drivers repository.DriverRepository, distance DistanceProvider, redisClient *redis.Client, cfg config.PricingConfig) *PricingService {
	if distance == nil {
		distance = StandInDistance{}
	}
	return &PricingService{
		drivers:  drivers,
		distance: distance,
		redis:    redisClient,
		cfg:      cfg,
	}
}

func (s *PricingService) perKm(class models.RideClass) float64 {
	if class == models.RideClassPremium {
		return s.cfg.PerKmPremium
	}
	return s.cfg.PerKmBasic
}

// Price is baseFare + perKm(class) * distanceKm, rounded to 2 decimals.
func (s *PricingService) Price(class models.RideClass, distanceKm float64) float64 {
	return roundMoney(s.cfg.BaseFare + s.perKm(class)*distanceKm)
}

func (s *PricingService) minutesFor(distanceKm float64) int {
	if distanceKm <= 0 || s.cfg.AvgSpeedKmh <= 0 {
		return 0
	}
	return int(math.Max(1, math.Ceil(distanceKm/s.cfg.AvgSpeedKmh*60)))
}

func normalizeClass(class models.RideClass) (models.RideClass, error) {
	if class == "" {
		return models.RideClassBasic, nil
	}
	if !class.Valid() {
		return "", apperrors.New(apperrors.CodeInvalidInput, "Ride class must be basic or premium")
	}
	return class, nil
}

func (s *PricingService) EstimateTrip(ctx context.Context, pickup, destination models.Location, class models.RideClass) (*Estimate, error) {
	class, err := normalizeClass(class)
	if err != nil {
		return nil, err
	}

	km, err := s.distance.DistanceKm(ctx, pickup, destination)
	if err != nil {
		log.Printf("[PRICING] Distance lookup failed: %v", err)
		return nil, apperrors.Upstream(err)
	}
	km = roundMoney(km)

	return &Estimate{
		DistanceKm:      km,
		DurationMinutes: s.minutesFor(km),
		Price:           s.Price(class, km),
		Currency:        s.cfg.Currency,
		RideClass:       class,
	}, nil
}

// SearchDrivers lists bookable drivers by rating, then id. Identical inputs return the
// cached list for pricing.search_cache_ttl.
func (s *PricingService) SearchDrivers(ctx context.Context, pickup, destination models.Location, class models.RideClass) ([]DriverMatch, error) {
	class, err := normalizeClass(class)
	if err != nil {
		return nil, err
	}

	key := searchCacheKey(pickup, destination, class)
	if cached, ok := s.cached(ctx, key); ok {
		return cached, nil
	}

	estimate, err := s.EstimateTrip(ctx, pickup, destination, class)
	if err != nil {
		return nil, err
	}

	listings, err := s.drivers.ListAvailable(ctx, class == models.RideClassPremium)
	if err != nil {
		return nil, apperrors.Internal(err)
	}

	sort.SliceStable(listings, func(i, j int) bool {
		if listings[i].Rating != listings[j].Rating {
			return listings[i].Rating > listings[j].Rating
		}
		return listings[i].ProfileID < listings[j].ProfileID
	})

	matches := make([]DriverMatch, 0, len(listings))
	for _, d := range listings {
		matches = append(matches, DriverMatch{
			DriverID:     d.ProfileID,
			FullName:     d.FullName,
			Rating:       d.Rating,
			CarMake:      d.CarMake,
			CarModel:     d.CarModel,
			CarColor:     d.CarColor,
			PlateNumber:  d.PlateNumber,
			SeatCapacity: d.SeatCapacity,
			AC:           d.AC,
			Quiet:        d.Quiet,
			Music:        d.Music,
			Premium:      d.Premium,
			Verified:     d.Verified,
			Price:        estimate.Price,
			Currency:     estimate.Currency,
			EtaMinutes:   s.etaMinutes(d.Driver, pickup),
			DistanceKm:   estimate.DistanceKm,
		})
	}

	s.store(ctx, key, matches)
	return matches, nil
}

// etaMinutes is the time for the driver to reach pickup. Without coordinates it falls back
// to a stable 3..12 minutes per driver and pickup.
func (s *PricingService) etaMinutes(d models.Driver, pickup models.Location) int {
	if d.CurrentLat != nil && d.CurrentLng != nil && pickup.HasCoordinates() {
		km := haversineKm(*d.CurrentLat, *d.CurrentLng, *pickup.Latitude, *pickup.Longitude)
		return int(math.Max(1, float64(s.minutesFor(km))))
	}
	h := fnv.New32a()
	h.Write([]byte(d.ProfileID + "|" + strings.ToLower(pickup.Address)))
	return 3 + int(h.Sum32()%10)
}

func searchCacheKey(pickup, destination models.Location, class models.RideClass) string {
	data, _ := json.Marshal(struct {
		Pickup      models.Location  `json:"p"`
		Destination models.Location  `json:"d"`
		Class       models.RideClass `json:"c"`
	}{pickup, destination, class})
	sum := sha256.Sum256(data)
	return fmt.Sprintf("search:%s", hex.EncodeToString(sum[:]))
}

func (s *PricingService) cached(ctx context.Context, key string) ([]DriverMatch, bool) {
	if s.redis == nil || s.cfg.SearchCacheTTL <= 0 {
		return nil, false
	}
	data, err := s.redis.Get(ctx, key).Bytes()
	if err != nil {
		if err != redis.Nil {
			log.Printf("[PRICING] Search cache read failed: %v", err)
		}
		return nil, false
	}
	var matches []DriverMatch
	if err := json.Unmarshal(data, &matches); err != nil {
		log.Printf("[PRICING] Discarding corrupt search cache entry: %v", err)
		return nil, false
	}
	return matches, true
}

func (s *PricingService) store(ctx context.Context, key string, matches []DriverMatch) {
	if s.redis == nil || s.cfg.SearchCacheTTL <= 0 {
		return
	}
	data, err := json.Marshal(matches)
	if err != nil {
		return
	}
	if err := s.redis.Set(ctx, key, data, s.cfg.SearchCacheTTL).Err(); err != nil {
		log.Printf("[PRICING] Search cache write failed: %v", err)
	}
}
