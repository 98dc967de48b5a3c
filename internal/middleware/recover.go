package middleware

import (
	"log"
	"net/http"
	"runtime/debug"

	"github.com/rideghana/backend/internal/apperrors"
	"github.com/rideghana/backend/internal/response"
)

// Recoverer turns a panic into the standard JSON error body.
func Recoverer(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				if rec == http.ErrAbortHandler {
					panic(rec)
				}
				log.Printf("[PANIC] %s %s: %v\n%s", r.Method, r.URL.Path, rec, debug.Stack())
				response.Error(w, r, apperrors.New(apperrors.CodeUnexpected, apperrors.GenericMessage))
			}
		}()
		next.ServeHTTP(w, r)
	})
}
