package services

import (
	"context"
	"errors"
	"log"
	"strings"

	"github.com/rideghana/backend/internal/apperrors"
	"github.com/rideghana/backend/internal/models"
	"github.com/rideghana/backend/internal/repository"
)

// ProfileService applies onboarding and profile mutations. Every call returns a fresh
// session so the client sees the recomputed onboarding status.
type ProfileService struct {
	profiles repository.ProfileRepository
	drivers  repository.DriverRepository
	sessions *SessionIssuer
}

func NewProfileService(profiles repository.ProfileRepository, drivers repository.DriverRepository, sessions *SessionIssuer) *ProfileService {
	return &ProfileService{profiles: profiles, drivers: drivers, sessions: sessions}
}

func (s *ProfileService) load(ctx context.Context, accountID string) (*models.Profile, error) {
	profile, err := s.profiles.GetByID(ctx, accountID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, apperrors.New(apperrors.CodeInvalidToken, "Account no longer exists")
	}
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	return profile, nil
}

// SetupProfile sets the name and selects passenger or driver. Admin is never selectable,
// an admin keeps their role, and a driver is not downgraded to passenger.
func (s *ProfileService) SetupProfile(ctx context.Context, accountID, fullName string, role models.Role) (*Session, error) {
	fullName = strings.TrimSpace(fullName)
	if len(fullName) < 2 {
		return nil, apperrors.New(apperrors.CodeInvalidInput, "Full name is required")
	}
	if role != models.RolePassenger && role != models.RoleDriver {
		return nil, apperrors.New(apperrors.CodeInvalidInput, "Role must be passenger or driver")
	}

	profile, err := s.load(ctx, accountID)
	if err != nil {
		return nil, err
	}
	if profile.Suspended {
		return nil, apperrors.New(apperrors.CodeForbidden, "Account suspended")
	}

	effective := role
	switch profile.Role {
	case models.RoleAdmin:
		effective = models.RoleAdmin
	case models.RoleDriver:
		if role == models.RolePassenger {
			log.Printf("[PROFILE] Ignoring passenger role for driver %s", accountID)
			effective = models.RoleDriver
		}
	}

	if err := s.profiles.UpdateSetup(ctx, accountID, fullName, effective); err != nil {
		return nil, mapMutationErr(err, "Account")
	}

	switch effective {
	case models.RoleDriver:
		err = s.drivers.EnsureDriver(ctx, accountID)
	case models.RolePassenger:
		err = s.profiles.EnsurePassenger(ctx, accountID)
	}
	if err != nil {
		return nil, apperrors.Internal(err)
	}

	log.Printf("[PROFILE] Profile setup for %s as %s", accountID, effective)
	return s.sessions.ForAccount(ctx, accountID, false)
}

// SetupVehicle completes the driver record.
func (s *ProfileService) SetupVehicle(ctx context.Context, accountID string, details models.VehicleDetails) (*Session, error) {
	profile, err := s.load(ctx, accountID)
	if err != nil {
		return nil, err
	}
	if profile.Role != models.RoleDriver {
		return nil, apperrors.New(apperrors.CodeForbidden, "Only drivers can register a vehicle")
	}

	if err := s.drivers.EnsureDriver(ctx, accountID); err != nil {
		return nil, apperrors.Internal(err)
	}
	if err := s.drivers.UpdateVehicle(ctx, accountID, details); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, apperrors.New(apperrors.CodeConflict, "A vehicle with this plate number is already registered")
		}
		return nil, mapMutationErr(err, "Driver")
	}

	log.Printf("[PROFILE] Vehicle registered for driver %s", accountID)
	return s.sessions.ForAccount(ctx, accountID, true)
}

// UpdateProfile changes only the provided fields.
func (s *ProfileService) UpdateProfile(ctx context.Context, accountID string, fullName, photoURL *string) (*Session, error) {
	if fullName != nil {
		trimmed := strings.TrimSpace(*fullName)
		if len(trimmed) < 2 {
			return nil, apperrors.New(apperrors.CodeInvalidInput, "Full name is too short")
		}
		fullName = &trimmed
	}

	if err := s.profiles.UpdateDetails(ctx, accountID, fullName, photoURL); err != nil {
		return nil, mapMutationErr(err, "Account")
	}
	return s.sessions.ForAccount(ctx, accountID, true)
}

func (s *ProfileService) UpdateLocation(ctx context.Context, accountID string, lat, lng float64) (*Session, error) {
	if lat < -90 || lat > 90 || lng < -180 || lng > 180 {
		return nil, apperrors.New(apperrors.CodeInvalidInput, "Coordinates out of range")
	}
	if err := s.drivers.UpdateLocation(ctx, accountID, lat, lng); err != nil {
		return nil, mapMutationErr(err, "Driver")
	}
	return s.sessions.ForAccount(ctx, accountID, true)
}

// mapMutationErr turns a zero-row update into NOT_FOUND for the named entity.
func mapMutationErr(err error, entity string) error {
	if errors.Is(err, repository.ErrNoRowsAffected) || errors.Is(err, repository.ErrNotFound) {
		return apperrors.Newf(apperrors.CodeNotFound, "%s not found", entity)
	}
	return apperrors.Internal(err)
}
