package services

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rideghana/backend/internal/apperrors"
	"github.com/rideghana/backend/internal/models"
	"github.com/rideghana/backend/internal/repository"
)

// WaitlistRequest is a pre-launch signup.
// @Description Waitlist signup
type WaitlistRequest struct {
	Name  string `json:"name" validate:"required,min=2,max=120" example:"Ama Owusu"`
	Phone string `json:"phone" validate:"required,ghanaphone" example:"+233501234567"`
	Email string `json:"email,omitempty" validate:"omitempty,email,max=255" example:"ama@example.com"`
	Area  string `json:"area" validate:"required,max=120" example:"East Legon"`
	Role  string `json:"role" validate:"required,oneof=passenger driver" example:"passenger"`
}

type WaitlistService struct {
	entries repository.WaitlistRepository
	now     func() time.Time
}

func NewWaitlistService(entries repository.WaitlistRepository) *WaitlistService {
	return &WaitlistService{entries: entries, now: time.Now}
}

func (s *WaitlistService) Join(ctx context.Context, req WaitlistRequest) (*models.WaitlistEntry, error) {
	phone := strings.TrimSpace(req.Phone)
	if !models.IsGhanaPhone(phone) {
		return nil, invalidPhone()
	}

	entry := &models.WaitlistEntry{
		ID:        uuid.NewString(),
		Name:      strings.TrimSpace(req.Name),
		Phone:     phone,
		Email:     strings.ToLower(strings.TrimSpace(req.Email)),
		Area:      strings.TrimSpace(req.Area),
		Role:      req.Role,
		CreatedAt: s.now(),
	}
	if err := s.entries.Create(ctx, entry); err != nil {
		return nil, apperrors.Internal(err)
	}
	return entry, nil
}

func (s *WaitlistService) List(ctx context.Context) ([]models.WaitlistEntry, error) {
	entries, err := s.entries.List(ctx)
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	return entries, nil
}
