package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/go-redis/redismock/v8"
	"github.com/rideghana/backend/internal/models"
	"github.com/rideghana/backend/internal/repository"
	"github.com/rideghana/backend/internal/response"
	"github.com/rideghana/backend/internal/token"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decodeError(t *testing.T, w *httptest.ResponseRecorder) response.ErrorResponse {
	t.Helper()
	var body response.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

func okHandler(w http.ResponseWriter, r *http.Request) {
	claims, _ := ClaimsFromContext(r.Context())
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(claims.AccountID()))
}

type stubAccounts struct {
	profiles map[string]*models.Profile
	err      error
}

func (s stubAccounts) GetByID(ctx context.Context, id string) (*models.Profile, error) {
	if s.err != nil {
		return nil, s.err
	}
	p, ok := s.profiles[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return p, nil
}

func TestAuthenticator(t *testing.T) {
	tokens := token.NewManager("test-secret", time.Hour)
	client, redisMock := redismock.NewClientMock()
	accounts := stubAccounts{profiles: map[string]*models.Profile{
		"acct-1": {ID: "acct-1", Phone: "+233241234567", Role: models.RolePassenger},
	}}
	auth := NewAuthenticator(tokens, token.NewRedisBlacklist(client), accounts)
	handler := auth.Middleware(http.HandlerFunc(okHandler))

	issued, err := tokens.Issue("acct-1", "+233241234567", models.RolePassenger)
	require.NoError(t, err)
	claims, err := tokens.Parse(issued.Token)
	require.NoError(t, err)

	serve := func(header string) *httptest.ResponseRecorder {
		r := httptest.NewRequest(http.MethodGet, "/api/v1/auth/me", nil)
		if header != "" {
			r.Header.Set("Authorization", header)
		}
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, r)
		return w
	}

	t.Run("valid token", func(t *testing.T) {
		redisMock.ExpectExists("blacklist:" + claims.ID).SetVal(0)
		w := serve("Bearer " + issued.Token)
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "acct-1", w.Body.String())
	})

	t.Run("missing header", func(t *testing.T) {
		w := serve("")
		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Equal(t, "UNAUTHENTICATED", string(decodeError(t, w).Code))
	})

	t.Run("malformed header", func(t *testing.T) {
		w := serve("Token " + issued.Token)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Equal(t, "UNAUTHENTICATED", string(decodeError(t, w).Code))
	})

	t.Run("tampered token", func(t *testing.T) {
		w := serve("Bearer " + issued.Token + "x")
		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Equal(t, "INVALID_TOKEN", string(decodeError(t, w).Code))
	})

	t.Run("expired token", func(t *testing.T) {
		past := token.NewManager("test-secret", time.Hour).WithClock(func() time.Time { return time.Now().Add(-2 * time.Hour) })
		old, err := past.Issue("acct-1", "+233241234567", models.RolePassenger)
		require.NoError(t, err)

		w := serve("Bearer " + old.Token)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Equal(t, "TOKEN_EXPIRED", string(decodeError(t, w).Code))
	})

	t.Run("revoked token", func(t *testing.T) {
		redisMock.ExpectExists("blacklist:" + claims.ID).SetVal(1)
		w := serve("Bearer " + issued.Token)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Equal(t, "INVALID_TOKEN", string(decodeError(t, w).Code))
	})

	t.Run("blacklist unavailable", func(t *testing.T) {
		redisMock.ExpectExists("blacklist:" + claims.ID).SetErr(errors.New("connection refused"))
		w := serve("Bearer " + issued.Token)
		assert.Equal(t, http.StatusInternalServerError, w.Code)
		body := decodeError(t, w)
		assert.Equal(t, "UPSTREAM", string(body.Code))
		assert.NotContains(t, body.Message, "connection refused")
	})

	assert.NoError(t, redisMock.ExpectationsWereMet())
}

func TestAuthenticator_StoredAccount(t *testing.T) {
	tokens := token.NewManager("test-secret", time.Hour)
	client, redisMock := redismock.NewClientMock()
	accounts := stubAccounts{profiles: map[string]*models.Profile{
		"drv-suspended": {ID: "drv-suspended", Phone: "+233241111111", Role: models.RoleDriver, Suspended: true},
		"drv-demoted":   {ID: "drv-demoted", Phone: "+233242222222", Role: models.RolePassenger},
	}}

	var seen *token.Claims
	handler := NewAuthenticator(tokens, token.NewRedisBlacklist(client), accounts).Middleware(
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			seen, _ = ClaimsFromContext(r.Context())
			w.WriteHeader(http.StatusOK)
		}))

	serve := func(accountID string, role models.Role) *httptest.ResponseRecorder {
		issued, err := tokens.Issue(accountID, "+233240000000", role)
		require.NoError(t, err)
		claims, err := tokens.Parse(issued.Token)
		require.NoError(t, err)
		redisMock.ExpectExists("blacklist:" + claims.ID).SetVal(0)

		r := httptest.NewRequest(http.MethodPost, "/api/v1/rides/x/accept", nil)
		r.Header.Set("Authorization", "Bearer "+issued.Token)
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, r)
		return w
	}

	t.Run("suspended account", func(t *testing.T) {
		w := serve("drv-suspended", models.RoleDriver)
		assert.Equal(t, http.StatusForbidden, w.Code)
		assert.Equal(t, "FORBIDDEN", string(decodeError(t, w).Code))
	})

	t.Run("deleted account", func(t *testing.T) {
		w := serve("drv-gone", models.RoleDriver)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Equal(t, "INVALID_TOKEN", string(decodeError(t, w).Code))
	})

	t.Run("stored role replaces token role", func(t *testing.T) {
		seen = nil
		w := serve("drv-demoted", models.RoleDriver)
		assert.Equal(t, http.StatusOK, w.Code)
		require.NotNil(t, seen)
		assert.Equal(t, models.RolePassenger, seen.Role)
		assert.Equal(t, "+233242222222", seen.Phone)
	})

	assert.NoError(t, redisMock.ExpectationsWereMet())
}

func TestAuthenticator_AccountLookupFailure(t *testing.T) {
	tokens := token.NewManager("test-secret", time.Hour)
	client, redisMock := redismock.NewClientMock()
	accounts := stubAccounts{err: errors.New("db down")}
	handler := NewAuthenticator(tokens, token.NewRedisBlacklist(client), accounts).Middleware(http.HandlerFunc(okHandler))

	issued, err := tokens.Issue("acct-1", "+233241234567", models.RolePassenger)
	require.NoError(t, err)
	claims, err := tokens.Parse(issued.Token)
	require.NoError(t, err)
	redisMock.ExpectExists("blacklist:" + claims.ID).SetVal(0)

	r := httptest.NewRequest(http.MethodGet, "/api/v1/auth/me", nil)
	r.Header.Set("Authorization", "Bearer "+issued.Token)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, r)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	body := decodeError(t, w)
	assert.Equal(t, "UNEXPECTED", string(body.Code))
	assert.NotContains(t, body.Message, "db down")
	assert.NoError(t, redisMock.ExpectationsWereMet())
}

func TestRequireRole(t *testing.T) {
	handler := RequireRole(models.RoleDriver, models.RoleAdmin)(http.HandlerFunc(okHandler))

	serve := func(claims *token.Claims) *httptest.ResponseRecorder {
		r := httptest.NewRequest(http.MethodPost, "/api/v1/rides/1/accept", nil)
		if claims != nil {
			r = r.WithContext(WithClaims(r.Context(), claims))
		}
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, r)
		return w
	}

	driver := &token.Claims{Role: models.RoleDriver}
	driver.Subject = "d1"
	passenger := &token.Claims{Role: models.RolePassenger}
	passenger.Subject = "p1"

	assert.Equal(t, http.StatusOK, serve(driver).Code)

	w := serve(passenger)
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, "FORBIDDEN", string(decodeError(t, w).Code))

	assert.Equal(t, http.StatusUnauthorized, serve(nil).Code)
}

func TestRateLimiter(t *testing.T) {
	rl := NewRateLimiter(1, 2)
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	rl.now = func() time.Time { return now }
	handler := rl.Limit(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	serve := func(ip string) *httptest.ResponseRecorder {
		r := httptest.NewRequest(http.MethodPost, "/api/v1/auth/request-otp", nil)
		r.RemoteAddr = ip + ":5000"
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, r)
		return w
	}

	assert.Equal(t, http.StatusOK, serve("10.0.0.1").Code)
	assert.Equal(t, http.StatusOK, serve("10.0.0.1").Code)

	w := serve("10.0.0.1")
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Equal(t, "RATE_LIMITED", string(decodeError(t, w).Code))
	assert.Equal(t, "60", w.Header().Get("Retry-After"))

	assert.Equal(t, http.StatusOK, serve("10.0.0.2").Code)

	now = now.Add(time.Minute)
	assert.Equal(t, http.StatusOK, serve("10.0.0.1").Code)
}

func TestRecoverer(t *testing.T) {
	handler := Recoverer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	}))
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	body := decodeError(t, w)
	assert.False(t, body.Success)
	assert.Equal(t, "UNEXPECTED", string(body.Code))
}

func TestStaticFileServer(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "photo.txt"), []byte("hello"), 0o644))
	handler := StaticFileServer(dir)

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/photo.txt", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "hello", w.Body.String())

	w = httptest.NewRecorder()
	handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/../../etc/passwd", nil))
	assert.Equal(t, "image/svg+xml", w.Header().Get("Content-Type"))
}

func TestSecurityHeaders(t *testing.T) {
	w := httptest.NewRecorder()
	SecurityHeaders(http.HandlerFunc(okHandlerNoClaims)).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, "nosniff", w.Header().Get("X-Content-Type-Options"))
	assert.Equal(t, "DENY", w.Header().Get("X-Frame-Options"))
}

func okHandlerNoClaims(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
}
