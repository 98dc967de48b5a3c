package services

import (
	"context"
	"crypto/hmac"
	"crypto/sha512"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rideghana/backend/internal/apperrors"
	"github.com/rideghana/backend/internal/audit"
	"github.com/rideghana/backend/internal/config"
	"github.com/rideghana/backend/internal/models"
	"github.com/rideghana/backend/internal/repository"
)

const EventChargeSuccess = "charge.success"

// PaymentInit is what the gateway needs to start a checkout.
type PaymentInit struct {
	Reference string
	Amount    float64
	Currency  string
	Phone     string
}

// PaymentGateway starts a checkout with the payment provider.
type PaymentGateway interface {
	Initialize(ctx context.Context, p PaymentInit) (string, error)
}

// StubGateway returns a deterministic checkout URL without calling a provider.
type StubGateway struct {
	BaseURL string
}

func (g StubGateway) Initialize(ctx context.Context, p PaymentInit) (string, error) {
	return fmt.Sprintf("%s/%s", strings.TrimRight(g.BaseURL, "/"), p.Reference), nil
}

// Checkout is returned by InitializePayment.
// @Description Payment checkout
type Checkout struct {
	Reference        string  `json:"reference"`
	AuthorizationURL string  `json:"authorizationUrl"`
	Amount           float64 `json:"amount"`
	Currency         string  `json:"currency"`
}

// WebhookEvent is the provider callback body.
type WebhookEvent struct {
	Event string `json:"event"`
	Data  struct {
		Reference string `json:"reference"`
		Status    string `json:"status"`
	} `json:"data"`
}

type PaymentService struct {
	payments repository.PaymentRepository
	rides    repository.RideRepository
	profiles repository.ProfileRepository
	gateway  PaymentGateway
	audit    *audit.Logger
	cfg      config.PaymentConfig
	currency string
	now      func() time.Time
}

func NewPaymentService(
	payments repository.PaymentRepository,
	rides repository.RideRepository,
	profiles repository.ProfileRepository,
	gateway PaymentGateway,
	auditLogger *audit.Logger,
	cfg config.PaymentConfig,
	currency string,
) *PaymentService {
	return &PaymentService{
		payments: payments,
		rides:    rides,
		profiles: profiles,
		gateway:  gateway,
		audit:    auditLogger,
		cfg:      cfg,
		currency: currency,
		now:      time.Now,
	}
}

// InitializePayment opens a checkout for a pending ride owned by the passenger.
func (s *PaymentService) InitializePayment(ctx context.Context, passengerID, rideID string) (*Checkout, error) {
	ride, err := s.rides.GetByID(ctx, rideID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, apperrors.New(apperrors.CodeNotFound, "Ride not found")
	}
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	if ride.PassengerID != passengerID {
		return nil, apperrors.New(apperrors.CodeForbidden, "You can only pay for your own rides")
	}
	if ride.Status != models.RideStatusPending || ride.PaymentConfirmed {
		return nil, apperrors.New(apperrors.CodeConflict, "This ride cannot be paid for")
	}

	passenger, err := s.profiles.GetByID(ctx, passengerID)
	if err != nil {
		return nil, apperrors.Internal(err)
	}

	payment := &models.Payment{
		ID:          uuid.NewString(),
		PassengerID: passengerID,
		DriverID:    ride.DriverID,
		RideID:      ride.ID,
		Amount:      ride.EstimatedPrice,
		Currency:    s.currency,
		Provider:    s.cfg.Provider,
		Reference:   "RG-" + uuid.NewString(),
		Status:      models.PaymentStatusPending,
		CreatedAt:   s.now(),
	}
	if err := s.payments.Create(ctx, payment); err != nil {
		return nil, apperrors.Internal(err)
	}

	url, err := s.gateway.Initialize(ctx, PaymentInit{
		Reference: payment.Reference,
		Amount:    payment.Amount,
		Currency:  payment.Currency,
		Phone:     passenger.Phone,
	})
	if err != nil {
		log.Printf("[PAYMENT] Gateway initialization failed for %s: %v", payment.Reference, err)
		return nil, apperrors.Upstream(err)
	}

	log.Printf("[PAYMENT] Checkout %s opened for ride %s", payment.Reference, ride.ID)
	return &Checkout{
		Reference:        payment.Reference,
		AuthorizationURL: url,
		Amount:           payment.Amount,
		Currency:         payment.Currency,
	}, nil
}

// VerifySignature checks the hex HMAC-SHA512 of the raw body in constant time.
func (s *PaymentService) VerifySignature(body []byte, signature string) bool {
	if s.cfg.WebhookSecret == "" || signature == "" {
		return false
	}
	given, err := hex.DecodeString(strings.TrimSpace(signature))
	if err != nil {
		return false
	}
	mac := hmac.New(sha512.New, []byte(s.cfg.WebhookSecret))
	mac.Write(body)
	return hmac.Equal(given, mac.Sum(nil))
}

// HandleWebhook authenticates the raw body before parsing it. It reports whether a payment
// was confirmed; events other than charge.success are acknowledged without effect.
func (s *PaymentService) HandleWebhook(ctx context.Context, body []byte, signature string) (bool, error) {
	if !s.VerifySignature(body, signature) {
		log.Printf("[PAYMENT] Rejected webhook with invalid signature")
		return false, apperrors.New(apperrors.CodeUnauthenticated, "Invalid signature")
	}

	var event WebhookEvent
	if err := json.Unmarshal(body, &event); err != nil {
		return false, apperrors.Wrap(apperrors.CodeInvalidInput, "Invalid webhook payload", err)
	}

	if event.Event != EventChargeSuccess {
		log.Printf("[PAYMENT] Ignoring webhook event %q", event.Event)
		return false, nil
	}
	if event.Data.Reference == "" {
		return false, apperrors.New(apperrors.CodeInvalidInput, "Missing payment reference")
	}

	if err := s.ConfirmPayment(ctx, event.Data.Reference); err != nil {
		return false, err
	}
	return true, nil
}

// ConfirmPayment marks the payment paid and flags its ride while the ride is still pending.
// Ride status is never changed here. Repeated confirmations are no-ops.
func (s *PaymentService) ConfirmPayment(ctx context.Context, reference string) error {
	payment, err := s.payments.GetByReference(ctx, reference)
	if errors.Is(err, repository.ErrNotFound) {
		return apperrors.New(apperrors.CodeNotFound, "Payment not found")
	}
	if err != nil {
		return apperrors.Internal(err)
	}

	err = s.payments.MarkPaid(ctx, reference, s.now())
	switch {
	case errors.Is(err, repository.ErrNoRowsAffected):
		log.Printf("[PAYMENT] Payment %s already confirmed", reference)
	case err != nil:
		return apperrors.Internal(err)
	}

	if payment.RideID != "" {
		err := s.rides.MarkPaymentConfirmed(ctx, payment.RideID)
		switch {
		case errors.Is(err, repository.ErrNoRowsAffected):
			log.Printf("[PAYMENT] Ride %s is no longer pending, payment flag unchanged", payment.RideID)
		case err != nil:
			return apperrors.Internal(err)
		}
	}

	s.audit.PaymentConfirmed(reference, payment.RideID)
	return nil
}
