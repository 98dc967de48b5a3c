package services

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"log"
	"math/big"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rideghana/backend/internal/apperrors"
	"github.com/rideghana/backend/internal/audit"
	"github.com/rideghana/backend/internal/models"
	"github.com/rideghana/backend/internal/repository"
)

const (
	tripCodeCharset = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	tripCodeLength  = 4
)

// RideRequest is the passenger's trip request.
// @Description Ride request
type RideRequest struct {
	DriverID    string           `json:"driverId" validate:"required,uuid"`
	Pickup      models.Location  `json:"pickup"`
	Destination models.Location  `json:"destination"`
	RideClass   models.RideClass `json:"rideClass" validate:"omitempty,oneof=basic premium"`
	Price       *float64         `json:"price,omitempty" validate:"omitempty,gt=0"`
}

type RideService struct {
	rides    repository.RideRepository
	drivers  repository.DriverRepository
	profiles repository.ProfileRepository
	ratings  repository.RatingRepository
	pricing  *PricingService
	audit    *audit.Logger
	now      func() time.Time
	tripCode func() (string, error)
}

func NewRideService(
	rides repository.RideRepository,
	drivers repository.DriverRepository,
	profiles repository.ProfileRepository,
	ratings repository.RatingRepository,
	pricing *PricingService,
	auditLogger *audit.Logger,
) *RideService {
	return &RideService{
		rides:    rides,
		drivers:  drivers,
		profiles: profiles,
		ratings:  ratings,
		pricing:  pricing,
		audit:    auditLogger,
		now:      time.Now,
		tripCode: generateTripCode,
	}
}

// RequestRide creates a pending ride. A passenger may hold several pending requests.
func (s *RideService) RequestRide(ctx context.Context, passengerID string, req RideRequest) (*models.Ride, error) {
	class, err := normalizeClass(req.RideClass)
	if err != nil {
		return nil, err
	}
	if req.DriverID == passengerID {
		return nil, apperrors.New(apperrors.CodeInvalidInput, "You cannot book yourself")
	}
	if strings.TrimSpace(req.Pickup.Address) == "" || strings.TrimSpace(req.Destination.Address) == "" {
		return nil, apperrors.New(apperrors.CodeInvalidInput, "Pickup and destination are required")
	}

	driver, err := s.drivers.GetByProfileID(ctx, req.DriverID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, apperrors.New(apperrors.CodeNotFound, "Driver not found")
	}
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	if !driver.HasVehicle() || driver.SeatCapacity <= 0 {
		return nil, apperrors.New(apperrors.CodeInvalidInput, "Driver is not accepting rides")
	}
	if class == models.RideClassPremium && !driver.Premium {
		return nil, apperrors.New(apperrors.CodeInvalidInput, "Driver does not offer premium rides")
	}

	driverProfile, err := s.profiles.GetByID(ctx, req.DriverID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, apperrors.New(apperrors.CodeNotFound, "Driver not found")
	}
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	if driverProfile.Suspended {
		return nil, apperrors.New(apperrors.CodeInvalidInput, "Driver is not accepting rides")
	}

	estimate, err := s.pricing.EstimateTrip(ctx, req.Pickup, req.Destination, class)
	if err != nil {
		return nil, err
	}
	price := estimate.Price
	if req.Price != nil {
		price = roundMoney(*req.Price)
	}

	ride := &models.Ride{
		ID:             uuid.NewString(),
		PassengerID:    passengerID,
		DriverID:       req.DriverID,
		Pickup:         req.Pickup,
		Destination:    req.Destination,
		DistanceKm:     estimate.DistanceKm,
		RideClass:      class,
		EstimatedPrice: price,
		Status:         models.RideStatusPending,
		CreatedAt:      s.now(),
	}
	if err := s.rides.Create(ctx, ride); err != nil {
		return nil, apperrors.Internal(err)
	}

	s.audit.RideTransition(ride.ID, passengerID, "REQUESTED")
	log.Printf("[RIDE] Ride %s requested by %s with driver %s", ride.ID, passengerID, req.DriverID)
	return ride, nil
}

func (s *RideService) AcceptRide(ctx context.Context, driverID, rideID string) (*models.Ride, error) {
	err := s.rides.Assign(ctx, rideID, driverID, s.now())
	return s.afterDriverTransition(ctx, driverID, rideID, models.RideStatusDriverAssigned, err)
}

func (s *RideService) StartTrip(ctx context.Context, driverID, rideID string) (*models.Ride, error) {
	err := s.rides.Start(ctx, rideID, driverID, s.now())
	return s.afterDriverTransition(ctx, driverID, rideID, models.RideStatusStarted, err)
}

// EndTrip completes the ride, issues the trip code and fixes the final price.
func (s *RideService) EndTrip(ctx context.Context, driverID, rideID string, finalFare *float64) (*models.Ride, error) {
	if finalFare != nil && *finalFare <= 0 {
		return nil, apperrors.New(apperrors.CodeInvalidInput, "Final fare must be positive")
	}

	ride, err := s.getRide(ctx, rideID)
	if err != nil {
		return nil, err
	}
	if ride.DriverID != driverID {
		return nil, apperrors.New(apperrors.CodeForbidden, "This ride is assigned to another driver")
	}

	price := ride.EstimatedPrice
	if finalFare != nil {
		price = roundMoney(*finalFare)
	}
	code, err := s.tripCode()
	if err != nil {
		return nil, apperrors.Internal(err)
	}

	err = s.rides.Complete(ctx, rideID, driverID, s.now(), code, price)
	return s.afterDriverTransition(ctx, driverID, rideID, models.RideStatusCompleted, err)
}

// afterDriverTransition turns a scoped update result into the caller's answer. Zero rows is
// resolved by re-reading the ride and is never reported as plain success.
func (s *RideService) afterDriverTransition(ctx context.Context, driverID, rideID string, target models.RideStatus, err error) (*models.Ride, error) {
	if err != nil && !errors.Is(err, repository.ErrNoRowsAffected) {
		log.Printf("[RIDE] Transition of %s to %s failed: %v", rideID, target, err)
		return nil, apperrors.Internal(err)
	}

	ride, getErr := s.getRide(ctx, rideID)
	if getErr != nil {
		return nil, getErr
	}

	if err == nil {
		s.audit.RideTransition(rideID, driverID, strings.ToUpper(string(target)))
		log.Printf("[RIDE] Ride %s moved to %s by %s", rideID, target, driverID)
		return ride, nil
	}

	if ride.DriverID != driverID {
		return nil, apperrors.New(apperrors.CodeForbidden, "This ride is assigned to another driver")
	}
	if ride.Status.Reached(target) {
		return ride, nil
	}
	return nil, apperrors.Newf(apperrors.CodeConflict, "Ride is %s and cannot move to %s", ride.Status, target)
}

// CancelRide is open to the ride's passenger and driver before the trip starts.
func (s *RideService) CancelRide(ctx context.Context, actorID, rideID string) (*models.Ride, error) {
	err := s.rides.Cancel(ctx, rideID, actorID, s.now())
	if err != nil && !errors.Is(err, repository.ErrNoRowsAffected) {
		return nil, apperrors.Internal(err)
	}

	ride, getErr := s.getRide(ctx, rideID)
	if getErr != nil {
		return nil, getErr
	}
	if err == nil {
		s.audit.RideTransition(rideID, actorID, "CANCELLED")
		log.Printf("[RIDE] Ride %s cancelled by %s", rideID, actorID)
		return ride, nil
	}

	if !ride.IsParticipant(actorID) {
		return nil, apperrors.New(apperrors.CodeForbidden, "You are not part of this ride")
	}
	if ride.Status == models.RideStatusCancelled {
		return ride, nil
	}
	return nil, apperrors.Newf(apperrors.CodeConflict, "Ride is %s and can no longer be cancelled", ride.Status)
}

// AdminCancelRide may also cancel a started ride.
func (s *RideService) AdminCancelRide(ctx context.Context, adminID, rideID string) (*models.Ride, error) {
	err := s.rides.AdminCancel(ctx, rideID, adminID, s.now())
	if err != nil && !errors.Is(err, repository.ErrNoRowsAffected) {
		return nil, apperrors.Internal(err)
	}

	ride, getErr := s.getRide(ctx, rideID)
	if getErr != nil {
		return nil, getErr
	}
	if err == nil {
		s.audit.AdminAction(adminID, "RIDE_ADMIN_CANCELLED", rideID, "")
		return ride, nil
	}
	if ride.Status == models.RideStatusCancelled {
		return ride, nil
	}
	return nil, apperrors.Newf(apperrors.CodeConflict, "Ride is %s and can no longer be cancelled", ride.Status)
}

// GetRide is visible to the ride's passenger and driver and to admins.
func (s *RideService) GetRide(ctx context.Context, actor Actor, rideID string) (*models.Ride, error) {
	ride, err := s.getRide(ctx, rideID)
	if err != nil {
		return nil, err
	}
	if !actor.IsAdmin() && !ride.IsParticipant(actor.ID) {
		return nil, apperrors.New(apperrors.CodeNotFound, "Ride not found")
	}
	return ride, nil
}

func (s *RideService) ListPassengerRides(ctx context.Context, passengerID string) ([]models.Ride, error) {
	rides, err := s.rides.ListByPassenger(ctx, passengerID)
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	return rides, nil
}

// ListDriverRides filters by status when one is given.
func (s *RideService) ListDriverRides(ctx context.Context, driverID string, status models.RideStatus) ([]models.Ride, error) {
	if status != "" && !isKnownStatus(status) {
		return nil, apperrors.Newf(apperrors.CodeInvalidInput, "Unknown ride status %q", status)
	}
	rides, err := s.rides.ListByDriver(ctx, driverID, status)
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	return rides, nil
}

// RateRide records the passenger's score once per completed ride.
func (s *RideService) RateRide(ctx context.Context, passengerID, rideID string, score int, comment string) (*models.Rating, error) {
	if score < 1 || score > 5 {
		return nil, apperrors.New(apperrors.CodeInvalidInput, "Score must be between 1 and 5")
	}

	ride, err := s.getRide(ctx, rideID)
	if err != nil {
		return nil, err
	}
	if ride.PassengerID != passengerID {
		return nil, apperrors.New(apperrors.CodeForbidden, "You can only rate your own rides")
	}
	if ride.Status != models.RideStatusCompleted {
		return nil, apperrors.New(apperrors.CodeConflict, "Only completed rides can be rated")
	}

	rating := &models.Rating{
		ID:          uuid.NewString(),
		RideID:      ride.ID,
		DriverID:    ride.DriverID,
		PassengerID: passengerID,
		Score:       score,
		Comment:     strings.TrimSpace(comment),
		CreatedAt:   s.now(),
	}
	if err := s.ratings.Create(ctx, rating); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, apperrors.New(apperrors.CodeConflict, "This ride has already been rated")
		}
		return nil, apperrors.Internal(err)
	}
	return rating, nil
}

func (s *RideService) getRide(ctx context.Context, rideID string) (*models.Ride, error) {
	ride, err := s.rides.GetByID(ctx, rideID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, apperrors.New(apperrors.CodeNotFound, "Ride not found")
	}
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	return ride, nil
}

func isKnownStatus(status models.RideStatus) bool {
	for _, s := range models.AllRideStatuses {
		if s == status {
			return true
		}
	}
	return false
}

func generateTripCode() (string, error) {
	code := make([]byte, tripCodeLength)
	charsetLen := big.NewInt(int64(len(tripCodeCharset)))

	for i := range code {
		n, err := rand.Int(rand.Reader, charsetLen)
		if err != nil {
			return "", fmt.Errorf("trip code: %w", err)
		}
		code[i] = tripCodeCharset[n.Int64()]
	}
	return string(code), nil
}
