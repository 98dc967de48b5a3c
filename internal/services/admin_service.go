package services

import (
	"context"
	"fmt"
	"log"

	"github.com/rideghana/backend/internal/apperrors"
	"github.com/rideghana/backend/internal/audit"
	"github.com/rideghana/backend/internal/models"
	"github.com/rideghana/backend/internal/repository"
)

type AdminService struct {
	profiles repository.ProfileRepository
	drivers  repository.DriverRepository
	rides    repository.RideRepository
	audit    *audit.Logger
}

func NewAdminService(profiles repository.ProfileRepository, drivers repository.DriverRepository, rides repository.RideRepository, auditLogger *audit.Logger) *AdminService {
	return &AdminService{profiles: profiles, drivers: drivers, rides: rides, audit: auditLogger}
}

func (s *AdminService) ListUsers(ctx context.Context) ([]models.Profile, error) {
	users, err := s.profiles.List(ctx)
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	return users, nil
}

func (s *AdminService) ListDrivers(ctx context.Context) ([]models.DriverListing, error) {
	drivers, err := s.drivers.List(ctx)
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	return drivers, nil
}

func (s *AdminService) ListTrips(ctx context.Context) ([]models.Ride, error) {
	rides, err := s.rides.List(ctx)
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	return rides, nil
}

func (s *AdminService) VerifyDriver(ctx context.Context, adminID, driverID string, verified bool) error {
	if err := s.drivers.SetVerified(ctx, driverID, verified); err != nil {
		return mapMutationErr(err, "Driver")
	}
	s.audit.AdminAction(adminID, "DRIVER_VERIFIED", driverID, fmt.Sprintf("verified=%t", verified))
	log.Printf("[ADMIN] Driver %s verified=%t by %s", driverID, verified, adminID)
	return nil
}

func (s *AdminService) SuspendUser(ctx context.Context, adminID, userID string, suspended bool) error {
	if adminID == userID {
		return apperrors.New(apperrors.CodeInvalidInput, "You cannot suspend your own account")
	}
	if err := s.profiles.SetSuspended(ctx, userID, suspended); err != nil {
		return mapMutationErr(err, "User")
	}
	s.audit.AdminAction(adminID, "USER_SUSPENDED", userID, fmt.Sprintf("suspended=%t", suspended))
	log.Printf("[ADMIN] User %s suspended=%t by %s", userID, suspended, adminID)
	return nil
}

func (s *AdminService) DeleteUser(ctx context.Context, adminID, userID string) error {
	if adminID == userID {
		return apperrors.New(apperrors.CodeInvalidInput, "You cannot delete your own account")
	}
	if err := s.profiles.Delete(ctx, userID); err != nil {
		return mapMutationErr(err, "User")
	}
	s.audit.AdminAction(adminID, "USER_DELETED", userID, "")
	log.Printf("[ADMIN] User %s deleted by %s", userID, adminID)
	return nil
}
