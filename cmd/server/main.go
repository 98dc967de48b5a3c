package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rideghana/backend/docs"
	"github.com/rideghana/backend/internal/audit"
	"github.com/rideghana/backend/internal/config"
	"github.com/rideghana/backend/internal/database"
	"github.com/rideghana/backend/internal/handlers"
	"github.com/rideghana/backend/internal/repository"
	"github.com/rideghana/backend/internal/services"
	"github.com/rideghana/backend/internal/token"
)

// @title RideGhana Backend API
// @version 1.0
// @description API for passenger and driver onboarding, trip booking and trip lifecycle
// @host localhost:8080
// @BasePath /api/v1
// @schemes http https
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	// Initialize Swagger docs
	docs.SwaggerInfo.Title = "RideGhana Backend API"
	docs.SwaggerInfo.Description = "API for passenger and driver onboarding, trip booking and trip lifecycle"
	docs.SwaggerInfo.Version = "1.0"
	docs.SwaggerInfo.Host = "localhost:" + cfg.App.Port
	docs.SwaggerInfo.BasePath = "/api/v1"
	docs.SwaggerInfo.Schemes = []string{"http", "https"}

	db := database.InitDatabase(cfg.Database)
	defer db.Close()

	redisClient, err := database.InitRedis(cfg.Redis)
	if err != nil {
		log.Fatalf("Failed to connect to Redis: %v", err)
	}
	defer redisClient.Close()

	if cfg.App.ExposeOTP {
		log.Println("[CONFIG] OTP codes are returned in responses; never enable this in production")
	}

	// Repositories
	profiles := repository.NewProfileRepository(db)
	drivers := repository.NewDriverRepository(db)
	rides := repository.NewRideRepository(db)
	payments := repository.NewPaymentRepository(db)
	ratings := repository.NewRatingRepository(db)
	waitlist := repository.NewWaitlistRepository(db)

	// Services
	tokens := token.NewManager(cfg.JWT.SecretKey, cfg.JWT.TTL)
	blacklist := token.NewRedisBlacklist(redisClient)
	auditLogger := audit.NewLogger()
	sessions := services.NewSessionIssuer(profiles, drivers, tokens)

	pricingService := services.NewPricingService(drivers, services.StandInDistance{}, redisClient, cfg.Pricing)
	rideService := services.NewRideService(rides, drivers, profiles, ratings, pricingService, auditLogger)

	svc := handlers.Services{
		Auth: services.NewAuthService(
			profiles,
			services.NewRedisOTPStore(redisClient),
			services.LogSMSSender{LogCode: cfg.App.ExposeOTP},
			sessions,
			blacklist,
			auditLogger,
			cfg.OTP,
			cfg.App.ExposeOTP,
		),
		Profile:   services.NewProfileService(profiles, drivers, sessions),
		Rides:     rideService,
		Pricing:   pricingService,
		Earnings:  services.NewEarningsService(rides, ratings, cfg.Pricing.Currency),
		Analytics: services.NewAnalyticsService(profiles, drivers, rides, cfg.Pricing.Currency),
		Payments: services.NewPaymentService(
			payments,
			rides,
			profiles,
			services.StubGateway{BaseURL: cfg.Payment.CheckoutBaseURL},
			auditLogger,
			cfg.Payment,
			cfg.Pricing.Currency,
		),
		Admin:    services.NewAdminService(profiles, drivers, rides, auditLogger),
		Waitlist: services.NewWaitlistService(waitlist),
		QR:       services.NewQRService(rideService),
	}

	server := &http.Server{
		Addr:         ":" + cfg.App.Port,
		Handler:      handlers.NewRouter(cfg, tokens, blacklist, profiles, svc),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in goroutine
	go func() {
		log.Printf("Server starting on port %s (%s)", cfg.App.Port, cfg.App.Env)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed to start: %v", err)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}
	log.Println("Server exited")
}
