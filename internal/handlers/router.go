package handlers

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rideghana/backend/internal/config"
	mW "github.com/rideghana/backend/internal/middleware"
	"github.com/rideghana/backend/internal/models"
	"github.com/rideghana/backend/internal/response"
	"github.com/rideghana/backend/internal/services"
	"github.com/rideghana/backend/internal/token"
	httpSwagger "github.com/swaggo/http-swagger"
)

// Services bundles everything the HTTP layer calls into.
type Services struct {
	Auth      *services.AuthService
	Profile   *services.ProfileService
	Rides     *services.RideService
	Pricing   *services.PricingService
	Earnings  *services.EarningsService
	Analytics *services.AnalyticsService
	Payments  *services.PaymentService
	Admin     *services.AdminService
	Waitlist  *services.WaitlistService
	QR        *services.QRService
}

// NewRouter mounts every route under /api/v1 plus health, swagger and static photos.
// accounts backs the per-request account check behind every authenticated route.
func NewRouter(cfg *config.Config, tokens *token.Manager, blacklist token.Blacklist, accounts mW.AccountLookup, svc Services) http.Handler {
	validator := response.NewValidationHelper()

	authHandler := NewAuthHandler(svc.Auth, validator)
	profileHandler := NewProfileHandler(svc.Profile, validator)
	rideHandler := NewRideHandler(svc.Rides, svc.Pricing, svc.Earnings, validator)
	paymentHandler := NewPaymentHandler(svc.Payments, validator)
	adminHandler := NewAdminHandler(svc.Admin, svc.Analytics, svc.Rides, svc.Waitlist, validator)
	waitlistHandler := NewWaitlistHandler(svc.Waitlist, validator)
	qrHandler := NewQRHandler(svc.QR)

	authenticator := mW.NewAuthenticator(tokens, blacklist, accounts)
	otpLimiter := mW.NewRateLimiter(cfg.RateLimit.OTPPerMinute, cfg.RateLimit.OTPBurst)

	r := chi.NewRouter()

	r.Use(mW.SecurityHeaders)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(mW.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.CORS.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", SignatureHeader},
		ExposedHeaders:   []string{"Link", "Retry-After"},
		AllowCredentials: true,
		MaxAge:           86400,
	}))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		response.OK(w, "", map[string]any{"status": "healthy"})
	})

	r.Get("/swagger/*", httpSwagger.Handler(
		httpSwagger.URL("/swagger/doc.json"),
	))

	// Profile photos
	r.Handle("/static/*", http.StripPrefix("/static/", mW.StaticFileServer(cfg.App.StaticDir)))

	r.Route("/api/v1", func(r chi.Router) {
		// Public endpoints (no auth required)
		r.With(otpLimiter.Limit).Post("/auth/request-otp", authHandler.RequestOTP)
		r.With(otpLimiter.Limit).Post("/auth/verify-otp", authHandler.VerifyOTP)
		r.Post("/waitlist", waitlistHandler.Join)
		r.Post("/payments/webhook", paymentHandler.Webhook)

		// Protected endpoints (auth required)
		r.Group(func(r chi.Router) {
			r.Use(authenticator.Middleware)

			r.Get("/auth/me", authHandler.Me)
			r.Post("/auth/refresh", authHandler.Refresh)
			r.Post("/auth/logout", authHandler.Logout)
			r.Post("/auth/setup-profile", profileHandler.SetupProfile)

			r.Post("/drivers/search", rideHandler.SearchDrivers)
			r.Post("/drivers/estimate", rideHandler.Estimate)
			r.Get("/rides/{rideId}", rideHandler.GetRide)
			r.Post("/rides/{rideId}/cancel", rideHandler.CancelRide)
			r.Get("/rides/{rideId}/trip-code/qr", qrHandler.TripCodeQR)

			// Passenger endpoints
			r.Group(func(r chi.Router) {
				r.Use(mW.RequireRole(models.RolePassenger))

				r.Put("/passenger/profile", profileHandler.UpdateProfile)
				r.Post("/rides", rideHandler.RequestRide)
				r.Get("/passenger/rides", rideHandler.PassengerRides)
				r.Post("/rides/{rideId}/rate", rideHandler.RateRide)
				r.Post("/payments/initialize", paymentHandler.Initialize)
			})

			// Driver endpoints
			r.Group(func(r chi.Router) {
				r.Use(mW.RequireRole(models.RoleDriver))

				r.Put("/driver/profile", profileHandler.UpdateProfile)
				r.Post("/auth/setup-vehicle", profileHandler.SetupVehicle)
				r.Put("/driver/location", profileHandler.UpdateLocation)
				r.Post("/rides/{rideId}/accept", rideHandler.AcceptRide)
				r.Post("/rides/{rideId}/start", rideHandler.StartTrip)
				r.Post("/rides/{rideId}/end", rideHandler.EndTrip)
				r.Get("/driver/rides", rideHandler.DriverRides)
				r.Get("/driver/earnings", rideHandler.Earnings)
			})

			// Admin endpoints
			r.Group(func(r chi.Router) {
				r.Use(mW.RequireRole(models.RoleAdmin))

				r.Put("/admin/profile", profileHandler.UpdateProfile)
				r.Get("/admin/users", adminHandler.Users)
				r.Get("/admin/drivers", adminHandler.Drivers)
				r.Get("/admin/trips", adminHandler.Trips)
				r.Get("/admin/waitlist", adminHandler.Waitlist)
				r.Get("/admin/analytics", adminHandler.Analytics)
				r.Post("/admin/drivers/{id}/verify", adminHandler.VerifyDriver)
				r.Post("/admin/users/{id}/suspend", adminHandler.SuspendUser)
				r.Delete("/admin/users/{id}", adminHandler.DeleteUser)
				r.Post("/admin/rides/{rideId}/cancel", adminHandler.CancelRide)
			})
		})
	})

	return r
}
