package middleware

import (
	"context"
	"errors"
	"log"
	"net/http"
	"strings"

	"github.com/rideghana/backend/internal/apperrors"
	"github.com/rideghana/backend/internal/models"
	"github.com/rideghana/backend/internal/repository"
	"github.com/rideghana/backend/internal/response"
	"github.com/rideghana/backend/internal/token"
)

type contextKey string

const claimsKey contextKey = "claims"

// AccountLookup reads the stored account behind a token.
type AccountLookup interface {
	GetByID(ctx context.Context, id string) (*models.Profile, error)
}

// Authenticator validates bearer tokens, rejects revoked ones and checks the stored account.
// Claims passed downstream carry the stored role, so role gates never act on a stale token.
type Authenticator struct {
	tokens    *token.Manager
	blacklist token.Blacklist
	accounts  AccountLookup
}

func NewAuthenticator(tokens *token.Manager, blacklist token.Blacklist, accounts AccountLookup) *Authenticator {
	return &Authenticator{tokens: tokens, blacklist: blacklist, accounts: accounts}
}

func (a *Authenticator) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			response.Error(w, r, apperrors.New(apperrors.CodeUnauthenticated, "Authorization header required"))
			return
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" || parts[1] == "" {
			response.Error(w, r, apperrors.New(apperrors.CodeUnauthenticated, "Invalid authorization header format"))
			return
		}

		// Parse reports TOKEN_EXPIRED or INVALID_TOKEN.
		claims, err := a.tokens.Parse(parts[1])
		if err != nil {
			response.Error(w, r, err)
			return
		}

		revoked, err := a.blacklist.IsRevoked(r.Context(), claims.ID)
		if err != nil {
			log.Printf("[AUTH] Blacklist lookup failed for %s: %v", claims.AccountID(), err)
			response.Error(w, r, apperrors.Upstream(err))
			return
		}
		if revoked {
			response.Error(w, r, apperrors.New(apperrors.CodeInvalidToken, "Token has been revoked"))
			return
		}

		profile, err := a.accounts.GetByID(r.Context(), claims.AccountID())
		if errors.Is(err, repository.ErrNotFound) {
			response.Error(w, r, apperrors.New(apperrors.CodeInvalidToken, "Account no longer exists"))
			return
		}
		if err != nil {
			response.Error(w, r, apperrors.Internal(err))
			return
		}
		if profile.Suspended {
			response.Error(w, r, apperrors.New(apperrors.CodeForbidden, "Account suspended"))
			return
		}

		current := *claims
		current.Role = profile.Role
		current.Phone = profile.Phone

		ctx := context.WithValue(r.Context(), claimsKey, &current)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// ClaimsFromContext returns the claims stored by Authenticator.Middleware.
func ClaimsFromContext(ctx context.Context) (*token.Claims, bool) {
	claims, ok := ctx.Value(claimsKey).(*token.Claims)
	return claims, ok && claims != nil
}

// WithClaims stores claims the way the authenticator does. Handler tests use it directly.
func WithClaims(ctx context.Context, claims *token.Claims) context.Context {
	return context.WithValue(ctx, claimsKey, claims)
}

// RequireRole admits only accounts whose stored role is one of roles.
func RequireRole(roles ...models.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims, ok := ClaimsFromContext(r.Context())
			if !ok {
				response.Error(w, r, apperrors.New(apperrors.CodeUnauthenticated, "Authentication required"))
				return
			}
			for _, role := range roles {
				if claims.Role == role {
					next.ServeHTTP(w, r)
					return
				}
			}
			response.Error(w, r, apperrors.New(apperrors.CodeForbidden, "You do not have access to this resource"))
		})
	}
}
