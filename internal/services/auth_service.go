package services

import (
	"context"
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"fmt"
	"log"
	"math/big"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rideghana/backend/internal/apperrors"
	"github.com/rideghana/backend/internal/audit"
	"github.com/rideghana/backend/internal/config"
	"github.com/rideghana/backend/internal/models"
	"github.com/rideghana/backend/internal/repository"
	"github.com/rideghana/backend/internal/token"
	"golang.org/x/crypto/argon2"
)

// Argon2 parameters for OTP hashes. Codes live for minutes, so these stay light.
const (
	otpArgonTime    = 1
	otpArgonMemory  = 19 * 1024
	otpArgonThreads = 2
	otpArgonKeyLen  = 32
	otpSaltLen      = 16
)

// SMSSender delivers a code out of band.
type SMSSender interface {
	SendOTP(ctx context.Context, phone, code string) error
}

// LogSMSSender stands in for an SMS provider and only logs the delivery.
type LogSMSSender struct {
	// LogCode includes the code in the log line. Never set in production.
	LogCode bool
}

func (s LogSMSSender) SendOTP(ctx context.Context, phone, code string) error {
	if s.LogCode {
		log.Printf("[SMS] OTP for %s: %s", audit.MaskPhone(phone), code)
		return nil
	}
	log.Printf("[SMS] OTP dispatched to %s", audit.MaskPhone(phone))
	return nil
}

// RequestOTPResult is returned by RequestOTP. Code is set only when codes are exposed.
type RequestOTPResult struct {
	IsNewUser bool      `json:"isNewUser"`
	ExpiresAt time.Time `json:"expiresAt"`
	Code      string    `json:"otp,omitempty"`
}

type AuthService struct {
	profiles  repository.ProfileRepository
	otps      OTPStore
	sms       SMSSender
	sessions  *SessionIssuer
	blacklist token.Blacklist
	audit     *audit.Logger
	cfg       config.OTPConfig
	exposeOTP bool
	now       func() time.Time
}

func NewAuthService(
	profiles repository.ProfileRepository,
	otps OTPStore,
	sms SMSSender,
	sessions *SessionIssuer,
	blacklist token.Blacklist,
	auditLogger *audit.Logger,
	cfg config.OTPConfig,
	exposeOTP bool,
) *AuthService {
	return &AuthService{
		profiles:  profiles,
		otps:      otps,
		sms:       sms,
		sessions:  sessions,
		blacklist: blacklist,
		audit:     auditLogger,
		cfg:       cfg,
		exposeOTP: exposeOTP,
		now:       time.Now,
	}
}

func invalidPhone() error {
	return apperrors.New(apperrors.CodeInvalidPhone, "Phone number must be in the format +233XXXXXXXXX")
}

// RequestOTP issues a fresh code for phone, replacing any pending one.
func (s *AuthService) RequestOTP(ctx context.Context, phone string) (*RequestOTPResult, error) {
	phone = strings.TrimSpace(phone)
	if !models.IsGhanaPhone(phone) {
		return nil, invalidPhone()
	}

	isNewUser := false
	if _, err := s.profiles.GetByPhone(ctx, phone); err != nil {
		if !errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.Internal(err)
		}
		isNewUser = true
	}

	code, err := generateOTP()
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	hash, err := hashOTP(code)
	if err != nil {
		return nil, apperrors.Internal(err)
	}

	expiresAt := s.now().Add(s.cfg.TTL)
	entry := OTPEntry{Hash: hash, ExpiresAt: expiresAt}
	if err := s.otps.Put(ctx, phone, entry, s.cfg.TTL+s.cfg.Retention); err != nil {
		log.Printf("[AUTH] Failed to store OTP for %s: %v", audit.MaskPhone(phone), err)
		return nil, apperrors.Upstream(err)
	}

	if err := s.sms.SendOTP(ctx, phone, code); err != nil {
		log.Printf("[AUTH] OTP dispatch failed for %s: %v", audit.MaskPhone(phone), err)
		return nil, apperrors.Upstream(err)
	}

	s.audit.OTPIssued(phone, isNewUser)

	result := &RequestOTPResult{IsNewUser: isNewUser, ExpiresAt: expiresAt}
	if s.exposeOTP {
		result.Code = code
	}
	return result, nil
}

// VerifyOTP consumes the pending code and signs the caller in, creating the account on first use.
func (s *AuthService) VerifyOTP(ctx context.Context, phone, code string) (*Session, error) {
	phone = strings.TrimSpace(phone)
	if !models.IsGhanaPhone(phone) {
		return nil, invalidPhone()
	}

	if err := s.checkOTP(ctx, phone, code); err != nil {
		s.audit.OTPVerification(phone, "", err)
		return nil, err
	}

	profile, err := s.findOrCreate(ctx, phone)
	if err != nil {
		return nil, err
	}

	session, err := s.sessions.ForProfile(ctx, profile, false)
	if err != nil {
		s.audit.OTPVerification(phone, profile.ID, err)
		return nil, err
	}

	s.audit.OTPVerification(phone, profile.ID, nil)
	log.Printf("[AUTH] Sign-in successful for account %s", profile.ID)
	return session, nil
}

// checkOTP takes the entry before comparing so a code can never be accepted twice.
func (s *AuthService) checkOTP(ctx context.Context, phone, code string) error {
	entry, err := s.otps.Take(ctx, phone)
	if err != nil {
		log.Printf("[AUTH] OTP lookup failed for %s: %v", audit.MaskPhone(phone), err)
		return apperrors.Upstream(err)
	}
	if entry == nil {
		return apperrors.New(apperrors.CodeOTPNotFound, "No pending code for this phone, request a new one")
	}

	now := s.now()
	if now.After(entry.ExpiresAt) {
		return apperrors.New(apperrors.CodeOTPExpired, "Code expired, request a new one")
	}

	if verifyOTP(code, entry.Hash) {
		return nil
	}

	entry.Attempts++
	if entry.Attempts >= s.cfg.MaxAttempts {
		log.Printf("[AUTH] OTP burned after %d failed attempts for %s", entry.Attempts, audit.MaskPhone(phone))
		return apperrors.New(apperrors.CodeOTPAttemptsExceeded, "Too many incorrect attempts, request a new code")
	}

	keep := entry.ExpiresAt.Add(s.cfg.Retention).Sub(now)
	if _, err := s.otps.Restore(ctx, phone, *entry, keep); err != nil {
		log.Printf("[AUTH] Failed to restore OTP for %s: %v", audit.MaskPhone(phone), err)
	}
	return apperrors.New(apperrors.CodeOTPMismatch, "Incorrect code")
}

func (s *AuthService) findOrCreate(ctx context.Context, phone string) (*models.Profile, error) {
	profile, err := s.profiles.GetByPhone(ctx, phone)
	if err == nil {
		return profile, nil
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return nil, apperrors.Internal(err)
	}

	now := s.now()
	profile = &models.Profile{
		ID:        uuid.NewString(),
		Phone:     phone,
		Role:      models.RolePassenger,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.profiles.Create(ctx, profile); err != nil {
		if !errors.Is(err, repository.ErrDuplicate) {
			return nil, apperrors.Internal(err)
		}
		// Concurrent first sign-in for the same phone.
		profile, err = s.profiles.GetByPhone(ctx, phone)
		if err != nil {
			return nil, apperrors.Internal(err)
		}
		return profile, nil
	}

	log.Printf("[AUTH] Created account %s", profile.ID)
	return profile, nil
}

// Refresh reissues a token from the stored profile.
func (s *AuthService) Refresh(ctx context.Context, claims *token.Claims) (*Session, error) {
	return s.sessions.ForAccount(ctx, claims.AccountID(), false)
}

// Me is Refresh plus the driver record.
func (s *AuthService) Me(ctx context.Context, claims *token.Claims) (*Session, error) {
	return s.sessions.ForAccount(ctx, claims.AccountID(), true)
}

// Logout revokes the presented token until it would have expired anyway.
func (s *AuthService) Logout(ctx context.Context, claims *token.Claims) error {
	if err := s.blacklist.Revoke(ctx, claims.ID, claims.ExpiresAtTime()); err != nil {
		log.Printf("[AUTH] Failed to blacklist token for %s: %v", claims.AccountID(), err)
		return apperrors.Upstream(err)
	}
	log.Printf("[AUTH] Logout for account %s", claims.AccountID())
	return nil
}

func generateOTP() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1_000_000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%06d", n.Int64()), nil
}

func hashOTP(code string) (string, error) {
	salt := make([]byte, otpSaltLen)
	if _, err := rand.Read(salt); err != nil {
		return "", err
	}
	hash := argon2.IDKey([]byte(code), salt, otpArgonTime, otpArgonMemory, otpArgonThreads, otpArgonKeyLen)
	return fmt.Sprintf("%s$%s", base64.StdEncoding.EncodeToString(salt), base64.StdEncoding.EncodeToString(hash)), nil
}

func verifyOTP(code, hashed string) bool {
	parts := strings.Split(hashed, "$")
	if len(parts) != 2 {
		return false
	}

	salt, err := base64.StdEncoding.DecodeString(parts[0])
	if err != nil {
		return false
	}

	hash, err := base64.StdEncoding.DecodeString(parts[1])
	if err != nil {
		return false
	}

	computed := argon2.IDKey([]byte(code), salt, otpArgonTime, otpArgonMemory, otpArgonThreads, otpArgonKeyLen)
	return subtle.ConstantTimeCompare(hash, computed) == 1
}
