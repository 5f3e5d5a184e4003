package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/v2"
	"github.com/shopspring/decimal"

	"github.com/voltmart/backend-volt/internal/pricing"
)

// Config holds application configuration loaded from the environment.
type Config struct {
	AppEnv             string
	Port               string
	DatabaseURL        string
	RedisURL           string
	JWTSecret          string
	JWTIssuer          string
	CORSAllowedOrigins []string
	CurrencyCode       string

	CartTTL        time.Duration
	CartLockTTL    time.Duration
	IdempotencyTTL time.Duration

	// Pricing constants consumed by the cart and checkout screens. Both
	// must share one set so displayed totals always agree.
	TaxRateBps            int64
	ShippingFlatFee       decimal.Decimal
	FreeShippingThreshold decimal.Decimal

	RateLimitWindow time.Duration
	RateLimitMax    int

	RunMigrations bool
}

// Load reads configuration from environment variables and optional .env files.
func Load() (*Config, error) {
	_ = godotenv.Load()

	k := koanf.New(".")
	if err := k.Load(env.Provider("", ".", func(s string) string { return s }), nil); err != nil {
		return nil, fmt.Errorf("load env: %w", err)
	}

	cfg := &Config{
		AppEnv:                valueOrDefault(k.String("APP_ENV"), "development"),
		Port:                  valueOrDefault(k.String("PORT"), "8080"),
		DatabaseURL:           k.String("DATABASE_URL"),
		RedisURL:              k.String("REDIS_URL"),
		JWTSecret:             k.String("JWT_SECRET"),
		JWTIssuer:             valueOrDefault(k.String("JWT_ISSUER"), "voltmart"),
		CORSAllowedOrigins:    splitAndTrim(k.String("CORS_ALLOWED_ORIGINS")),
		CurrencyCode:          valueOrDefault(k.String("CURRENCY_CODE"), "AED"),
		CartTTL:               parseDuration(k.String("CART_TTL"), "168h"),
		CartLockTTL:           parseDuration(k.String("CART_LOCK_TTL"), "10s"),
		IdempotencyTTL:        parseDuration(k.String("IDEMPOTENCY_TTL"), "24h"),
		TaxRateBps:            parseInt64(k.String("PRICING_TAX_RATE_BPS"), 500),
		ShippingFlatFee:       parseDecimal(k.String("SHIPPING_FLAT_FEE"), "60"),
		FreeShippingThreshold: parseDecimal(k.String("FREE_SHIPPING_THRESHOLD"), "1000"),
		RateLimitWindow:       parseDuration(k.String("RATE_LIMIT_WINDOW"), "1m"),
		RateLimitMax:          int(parseInt64(k.String("RATE_LIMIT_MAX"), 30)),
		RunMigrations:         parseBool(k.String("RUN_MIGRATIONS")),
	}

	if cfg.RedisURL == "" {
		return nil, errors.New("REDIS_URL is required")
	}
	if cfg.DatabaseURL == "" {
		return nil, errors.New("DATABASE_URL is required")
	}
	if cfg.JWTSecret == "" {
		return nil, errors.New("JWT_SECRET is required")
	}

	return cfg, nil
}

// HTTPAddr returns the address the HTTP server binds to.
func (c *Config) HTTPAddr() string {
	port := strings.TrimSpace(c.Port)
	if port == "" {
		port = "8080"
	}
	if strings.HasPrefix(port, ":") {
		return port
	}
	return ":" + port
}

// Pricing bundles the pricing constants for the engine.
func (c *Config) Pricing() pricing.Config {
	return pricing.Config{
		TaxRateBps:            c.TaxRateBps,
		ShippingFlatFee:       c.ShippingFlatFee,
		FreeShippingThreshold: c.FreeShippingThreshold,
	}
}

func splitAndTrim(value string) []string {
	if value == "" {
		return nil
	}
	parts := strings.Split(value, ",")
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}

func valueOrDefault(value, fallback string) string {
	if strings.TrimSpace(value) != "" {
		return value
	}
	return fallback
}

func parseDuration(value, fallback string) time.Duration {
	base := strings.TrimSpace(value)
	if base == "" {
		base = fallback
	}
	d, err := time.ParseDuration(base)
	if err != nil {
		d, _ = time.ParseDuration(fallback)
	}
	return d
}

func parseInt64(value string, fallback int64) int64 {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return fallback
	}
	n, err := strconv.ParseInt(trimmed, 10, 64)
	if err != nil {
		return fallback
	}
	return n
}

func parseDecimal(value, fallback string) decimal.Decimal {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		trimmed = fallback
	}
	d, err := decimal.NewFromString(trimmed)
	if err != nil {
		d = decimal.RequireFromString(fallback)
	}
	return d
}

func parseBool(value string) bool {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "1", "true", "yes", "on":
		return true
	default:
		return false
	}
}

// MustLoad behaves like Load but panics on error. Useful for entrypoints.
func MustLoad() *Config {
	cfg, err := Load()
	if err != nil {
		panic(err)
	}
	return cfg
}

// LoadForTests lets tests override environment variables and restores the
// previous values afterwards.
func LoadForTests(env map[string]string) (*Config, error) {
	original := make(map[string]string, len(env))
	for key := range env {
		original[key] = os.Getenv(key)
		if err := setEnvVar(key, env[key]); err != nil {
			return nil, err
		}
	}
	cfg, err := Load()
	restoreErr := restoreEnv(original)
	if err != nil {
		return nil, err
	}
	return cfg, restoreErr
}

func setEnvVar(key, value string) error {
	if value == "" {
		return os.Unsetenv(key)
	}
	return os.Setenv(key, value)
}

func restoreEnv(values map[string]string) error {
	var errs []string
	for key, value := range values {
		if err := setEnvVar(key, value); err != nil {
			errs = append(errs, fmt.Sprintf("%s: %v", key, err))
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("restore env: %s", strings.Join(errs, "; "))
	}
	return nil
}
