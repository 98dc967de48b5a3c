// Package token issues and verifies session tokens and tracks revoked ones.
package token

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/rideghana/backend/internal/apperrors"
	"github.com/rideghana/backend/internal/models"
)

// Claims identify the account. Role and Phone are a snapshot for authorization gates only;
// business decisions re-read the profile.
type Claims struct {
	Phone string      `json:"phone"`
	Role  models.Role `json:"role"`
	jwt.RegisteredClaims
}

func (c *Claims) AccountID() string {
	return c.Subject
}

func (c *Claims) ExpiresAtTime() time.Time {
	if c.ExpiresAt == nil {
		return time.Time{}
	}
	return c.ExpiresAt.Time
}

// Issued is a freshly minted token and its expiry.
type Issued struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
}

type Manager struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewManager(secret string, ttl time.Duration) *Manager {
	return &Manager{secret: []byte(secret), ttl: ttl, now: time.Now}
}

// WithClock replaces the time source. Used by tests.
func (m *Manager) WithClock(now func() time.Time) *Manager {
	m.now = now
	return m
}

func (m *Manager) TTL() time.Duration {
	return m.ttl
}

func (m *Manager) Issue(accountID, phone string, role models.Role) (Issued, error) {
	now := m.now()
	expiresAt := now.Add(m.ttl)
	claims := Claims{
		Phone: phone,
		Role:  role,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   accountID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secret)
	if err != nil {
		return Issued{}, err
	}
	return Issued{Token: signed, ExpiresAt: claims.ExpiresAt.Time}, nil
}

// Parse verifies signature and expiry. Expiry is reported as TOKEN_EXPIRED so clients
// can tell it apart from every other failure, which is INVALID_TOKEN.
func (m *Manager) Parse(tokenString string) (*Claims, error) {
	claims := &Claims{}
	t, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (any, error) {
		return m.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(m.now),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, apperrors.Wrap(apperrors.CodeTokenExpired, "Session expired, please sign in again", err)
		}
		return nil, apperrors.Wrap(apperrors.CodeInvalidToken, "Invalid session token", err)
	}
	if !t.Valid || claims.Subject == "" || claims.ID == "" {
		return nil, apperrors.New(apperrors.CodeInvalidToken, "Invalid session token")
	}
	return claims, nil
}
