package services

import (
	"context"
	"errors"
	"time"

	"github.com/rideghana/backend/internal/apperrors"
	"github.com/rideghana/backend/internal/models"
	"github.com/rideghana/backend/internal/onboarding"
	"github.com/rideghana/backend/internal/repository"
	"github.com/rideghana/backend/internal/token"
)

// Actor is the authenticated caller as seen by services.
type Actor struct {
	ID   string
	Role models.Role
}

func (a Actor) IsAdmin() bool {
	return a.Role == models.RoleAdmin
}

// Session is returned by every operation that (re)issues a token.
// @Description Session with onboarding status
type Session struct {
	Token            string            `json:"token"`
	ExpiresAt        time.Time         `json:"expiresAt" example:"2025-06-08T12:00:00Z"`
	User             models.PublicUser `json:"user"`
	OnboardingStatus onboarding.Status `json:"onboardingStatus"`
	Driver           *models.Driver    `json:"driver,omitempty"`
}

// SessionIssuer mints tokens from the stored profile, never from a previous token.
type SessionIssuer struct {
	profiles repository.ProfileRepository
	drivers  repository.DriverRepository
	tokens   *token.Manager
}

func NewSessionIssuer(profiles repository.ProfileRepository, drivers repository.DriverRepository, tokens *token.Manager) *SessionIssuer {
	return &SessionIssuer{profiles: profiles, drivers: drivers, tokens: tokens}
}

// ForAccount re-reads the profile. A deleted account is INVALID_TOKEN and a suspended one FORBIDDEN.
func (s *SessionIssuer) ForAccount(ctx context.Context, accountID string, includeDriver bool) (*Session, error) {
	profile, err := s.profiles.GetByID(ctx, accountID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, apperrors.New(apperrors.CodeInvalidToken, "Account no longer exists")
	}
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	return s.ForProfile(ctx, profile, includeDriver)
}

func (s *SessionIssuer) ForProfile(ctx context.Context, profile *models.Profile, includeDriver bool) (*Session, error) {
	if profile.Suspended {
		return nil, apperrors.New(apperrors.CodeForbidden, "Account suspended")
	}

	driver, err := s.driverRecord(ctx, profile)
	if err != nil {
		return nil, err
	}

	issued, err := s.tokens.Issue(profile.ID, profile.Phone, profile.Role)
	if err != nil {
		return nil, apperrors.Internal(err)
	}

	session := &Session{
		Token:            issued.Token,
		ExpiresAt:        issued.ExpiresAt,
		User:             profile.Public(),
		OnboardingStatus: onboarding.Resolve(profile, driver),
	}
	if includeDriver {
		session.Driver = driver
	}
	return session, nil
}

func (s *SessionIssuer) driverRecord(ctx context.Context, profile *models.Profile) (*models.Driver, error) {
	if profile.Role != models.RoleDriver {
		return nil, nil
	}
	driver, err := s.drivers.GetByProfileID(ctx, profile.ID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	return driver, nil
}
