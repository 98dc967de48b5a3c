// Package handlers adapts HTTP requests to service calls.
package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/rideghana/backend/internal/apperrors"
	mW "github.com/rideghana/backend/internal/middleware"
	"github.com/rideghana/backend/internal/response"
	"github.com/rideghana/backend/internal/services"
	"github.com/rideghana/backend/internal/token"
)

// claims returns the caller's token claims, writing UNAUTHENTICATED when absent.
func claims(w http.ResponseWriter, r *http.Request) (*token.Claims, bool) {
	c, ok := mW.ClaimsFromContext(r.Context())
	if !ok || c.AccountID() == "" {
		response.Error(w, r, apperrors.New(apperrors.CodeUnauthenticated, "Authentication required"))
		return nil, false
	}
	return c, true
}

// pathID returns the named URL parameter if it is a UUID. Anything else cannot name a stored
// row, so it is answered NOT_FOUND without a query.
func pathID(w http.ResponseWriter, r *http.Request, name, entity string) (string, bool) {
	id := chi.URLParam(r, name)
	if _, err := uuid.Parse(id); err != nil {
		response.Error(w, r, apperrors.Newf(apperrors.CodeNotFound, "%s not found", entity))
		return "", false
	}
	return id, true
}

func actorOf(c *token.Claims) services.Actor {
	return services.Actor{ID: c.AccountID(), Role: c.Role}
}

func sessionPayload(s *services.Session) map[string]any {
	payload := map[string]any{
		"token":            s.Token,
		"expiresAt":        s.ExpiresAt,
		"user":             s.User,
		"onboardingStatus": s.OnboardingStatus,
	}
	if s.Driver != nil {
		payload["driver"] = s.Driver
	}
	return payload
}
