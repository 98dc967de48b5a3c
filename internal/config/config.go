package config

import (
	"errors"
	"log"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const EnvProduction = "production"

type Config struct {
	App       AppConfig
	Database  DatabaseConfig
	Redis     RedisConfig
	JWT       JWTConfig
	OTP       OTPConfig
	Pricing   PricingConfig
	Payment   PaymentConfig
	RateLimit RateLimitConfig
	CORS      CORSConfig
}

type AppConfig struct {
	Env  string
	Port string
	// ExposeOTP echoes issued codes in API responses for test automation. Always false in production.
	ExposeOTP bool
	// StaticDir holds uploaded profile photos served under /static.
	StaticDir string
}

func (a AppConfig) IsProduction() bool {
	return a.Env == EnvProduction
}

type DatabaseConfig struct {
	Host            string
	Port            string
	User            string
	Password        string
	Name            string
	SSLMode         string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
}

func (r RedisConfig) Addr() string {
	return r.Host + ":" + r.Port
}

type JWTConfig struct {
	SecretKey string
	TTL       time.Duration
}

type OTPConfig struct {
	TTL time.Duration
	// Retention keeps expired entries readable so late submissions get OTP_EXPIRED.
	Retention   time.Duration
	MaxAttempts int
}

type PricingConfig struct {
	Currency       string
	BaseFare       float64
	PerKmBasic     float64
	PerKmPremium   float64
	AvgSpeedKmh    float64
	SearchCacheTTL time.Duration
}

type PaymentConfig struct {
	Provider        string
	WebhookSecret   string
	CheckoutBaseURL string
}

type RateLimitConfig struct {
	OTPPerMinute int
	OTPBurst     int
}

type CORSConfig struct {
	AllowedOrigins []string
}

// SetDefaults registers every key with its default value.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("app.env", "development")
	v.SetDefault("app.port", "8080")
	v.SetDefault("app.expose_otp", true)
	v.SetDefault("app.static_dir", "./static")

	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", "5432")
	v.SetDefault("database.user", "postgres")
	v.SetDefault("database.password", "password")
	v.SetDefault("database.name", "rideghana")
	v.SetDefault("database.ssl_mode", "disable")
	v.SetDefault("database.max_open_conns", 25)
	v.SetDefault("database.max_idle_conns", 5)
	v.SetDefault("database.conn_max_lifetime", time.Minute*5)

	v.SetDefault("redis.host", "localhost")
	v.SetDefault("redis.port", "6379")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)

	v.SetDefault("jwt.secret_key", "dev-secret-change-me")
	v.SetDefault("jwt.ttl", 7*24*time.Hour)

	v.SetDefault("otp.ttl", 5*time.Minute)
	v.SetDefault("otp.retention", 10*time.Minute)
	v.SetDefault("otp.max_attempts", 5)

	v.SetDefault("pricing.currency", "GHS")
	v.SetDefault("pricing.base_fare", 5.0)
	v.SetDefault("pricing.per_km_basic", 2.0)
	v.SetDefault("pricing.per_km_premium", 3.5)
	v.SetDefault("pricing.avg_speed_kmh", 30.0)
	v.SetDefault("pricing.search_cache_ttl", 2*time.Minute)

	v.SetDefault("payment.provider", "paystack")
	v.SetDefault("payment.webhook_secret", "")
	v.SetDefault("payment.checkout_base_url", "https://checkout.paystack.com")

	v.SetDefault("ratelimit.otp_per_minute", 5)
	v.SetDefault("ratelimit.otp_burst", 3)

	v.SetDefault("cors.allowed_origins", []string{"https://*", "http://*"})
}

// Load reads .env and the environment. DATABASE_HOST overrides database.host and so on.
func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigFile(".env")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	SetDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		log.Printf("[CONFIG] Config file not found, using defaults: %v", err)
	}

	return FromViper(v)
}

// FromViper builds a Config from an already populated viper instance.
func FromViper(v *viper.Viper) (*Config, error) {
	cfg := &Config{
		App: AppConfig{
			Env:       strings.ToLower(v.GetString("app.env")),
			Port:      v.GetString("app.port"),
			ExposeOTP: v.GetBool("app.expose_otp"),
			StaticDir: v.GetString("app.static_dir"),
		},
		Database: DatabaseConfig{
			Host:            v.GetString("database.host"),
			Port:            v.GetString("database.port"),
			User:            v.GetString("database.user"),
			Password:        v.GetString("database.password"),
			Name:            v.GetString("database.name"),
			SSLMode:         v.GetString("database.ssl_mode"),
			MaxOpenConns:    v.GetInt("database.max_open_conns"),
			MaxIdleConns:    v.GetInt("database.max_idle_conns"),
			ConnMaxLifetime: v.GetDuration("database.conn_max_lifetime"),
		},
		Redis: RedisConfig{
			Host:     v.GetString("redis.host"),
			Port:     v.GetString("redis.port"),
			Password: v.GetString("redis.password"),
			DB:       v.GetInt("redis.db"),
		},
		JWT: JWTConfig{
			SecretKey: v.GetString("jwt.secret_key"),
			TTL:       v.GetDuration("jwt.ttl"),
		},
		OTP: OTPConfig{
			TTL:         v.GetDuration("otp.ttl"),
			Retention:   v.GetDuration("otp.retention"),
			MaxAttempts: v.GetInt("otp.max_attempts"),
		},
		Pricing: PricingConfig{
			Currency:       v.GetString("pricing.currency"),
			BaseFare:       v.GetFloat64("pricing.base_fare"),
			PerKmBasic:     v.GetFloat64("pricing.per_km_basic"),
			PerKmPremium:   v.GetFloat64("pricing.per_km_premium"),
			AvgSpeedKmh:    v.GetFloat64("pricing.avg_speed_kmh"),
			SearchCacheTTL: v.GetDuration("pricing.search_cache_ttl"),
		},
		Payment: PaymentConfig{
			Provider:        v.GetString("payment.provider"),
			WebhookSecret:   v.GetString("payment.webhook_secret"),
			CheckoutBaseURL: v.GetString("payment.checkout_base_url"),
		},
		RateLimit: RateLimitConfig{
			OTPPerMinute: v.GetInt("ratelimit.otp_per_minute"),
			OTPBurst:     v.GetInt("ratelimit.otp_burst"),
		},
		CORS: CORSConfig{
			AllowedOrigins: v.GetStringSlice("cors.allowed_origins"),
		},
	}

	if cfg.App.IsProduction() {
		cfg.App.ExposeOTP = false
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate rejects configurations that are unsafe to run.
func (c *Config) Validate() error {
	if c.JWT.TTL <= 0 {
		return errors.New("jwt.ttl must be positive")
	}
	if c.OTP.TTL <= 0 {
		return errors.New("otp.ttl must be positive")
	}
	if c.OTP.MaxAttempts <= 0 {
		return errors.New("otp.max_attempts must be positive")
	}
	if c.Pricing.PerKmPremium < c.Pricing.PerKmBasic {
		return errors.New("pricing.per_km_premium must not be lower than pricing.per_km_basic")
	}
	if c.App.IsProduction() {
		if c.JWT.SecretKey == "" || c.JWT.SecretKey == "dev-secret-change-me" {
			return errors.New("jwt.secret_key must be set in production")
		}
		if c.Payment.WebhookSecret == "" {
			return errors.New("payment.webhook_secret must be set in production")
		}
	}
	return nil
}
