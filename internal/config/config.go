package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
)

type Config struct {
	Database DatabaseConfig
	JWT      JWTConfig
	App      AppConfig
	Engine   EngineConfig
	Delivery DeliveryConfig
}

type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Name     string
	SSLMode  string
}

// JWTConfig holds the verification key for scope claims
type JWTConfig struct {
	Secret                string
	AccessTokenExpiration string
}

// DeliveryConfig points at the external trip-tracking service consulted for
// outstation delivery counts.
type DeliveryConfig struct {
	BaseURL string
	APIKey  string
}

// AppConfig holds application configuration
type AppConfig struct {
	Port     int
	Env      string
	LogLevel string
}

// EngineConfig holds engine-wide fallback values used when a tenant has no
// payroll policy row of its own. Tenant configuration always wins.
type EngineConfig struct {
	OutstationMinDistanceKm   float64
	OutstationOvernightTolKm  float64
	OutstationMinDeliveries   int
	OutstationDailyRate       string
	RateDivisorDays           int
	RateDivisorHours          int
	StandardDaysPerMonth      int
	DailyOTThresholdMinutes   int
	ActivityLookupTimeoutSecs int
}

func Load() (*Config, error) {
	// Missing .env is fine in deployed environments, real env vars take over.
	_ = godotenv.Load()

	config := &Config{}

	dbPort, err := strconv.Atoi(getEnv("DB_PORT", "5432"))
	if err != nil {
		return nil, fmt.Errorf("invalid DB_PORT: %w", err)
	}

	config.Database = DatabaseConfig{
		Host:     getEnv("DB_HOST", "localhost"),
		Port:     dbPort,
		User:     getEnv("DB_USER", "postgres"),
		Password: getEnv("DB_PASSWORD", ""),
		Name:     getEnv("DB_NAME", "kerjapay"),
		SSLMode:  getEnv("DB_SSL_MODE", "disable"),
	}

	appPort, err := strconv.Atoi(getEnv("APP_PORT", "8080"))
	if err != nil {
		return nil, fmt.Errorf("invalid APP_PORT: %w", err)
	}

	config.App = AppConfig{
		Port:     appPort,
		Env:      getEnv("APP_ENV", "development"),
		LogLevel: getEnv("LOG_LEVEL", "info"),
	}

	config.JWT = JWTConfig{
		Secret:                getEnv("JWT_SECRET_KEY", ""),
		AccessTokenExpiration: getEnv("JWT_ACCESS_TOKEN_EXPIRATION", "15m"),
	}

	config.Delivery = DeliveryConfig{
		BaseURL: getEnv("DELIVERY_API_BASE_URL", "http://localhost:9090"),
		APIKey:  getEnv("DELIVERY_API_KEY", ""),
	}

	minDistance, err := strconv.ParseFloat(getEnv("OUTSTATION_MIN_DISTANCE_KM", "180"), 64)
	if err != nil {
		return nil, fmt.Errorf("invalid OUTSTATION_MIN_DISTANCE_KM: %w", err)
	}
	overnightTol, err := strconv.ParseFloat(getEnv("OUTSTATION_OVERNIGHT_TOLERANCE_KM", "0.5"), 64)
	if err != nil {
		return nil, fmt.Errorf("invalid OUTSTATION_OVERNIGHT_TOLERANCE_KM: %w", err)
	}
	minDeliveries, err := strconv.Atoi(getEnv("OUTSTATION_MIN_DELIVERIES", "3"))
	if err != nil {
		return nil, fmt.Errorf("invalid OUTSTATION_MIN_DELIVERIES: %w", err)
	}
	lookupTimeout, err := strconv.Atoi(getEnv("ACTIVITY_LOOKUP_TIMEOUT_SECS", "5"))
	if err != nil {
		return nil, fmt.Errorf("invalid ACTIVITY_LOOKUP_TIMEOUT_SECS: %w", err)
	}

	config.Engine = EngineConfig{
		OutstationMinDistanceKm:   minDistance,
		OutstationOvernightTolKm:  overnightTol,
		OutstationMinDeliveries:   minDeliveries,
		OutstationDailyRate:       getEnv("OUTSTATION_DAILY_RATE", "60"),
		RateDivisorDays:           26,
		RateDivisorHours:          8,
		StandardDaysPerMonth:      22,
		DailyOTThresholdMinutes:   540,
		ActivityLookupTimeoutSecs: lookupTimeout,
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return config, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Database.Password == "" {
		return fmt.Errorf("DB_PASSWORD is required")
	}
	if c.JWT.Secret == "" {
		return fmt.Errorf("JWT_SECRET_KEY is required")
	}
	if _, err := decimal.NewFromString(c.Engine.OutstationDailyRate); err != nil {
		return fmt.Errorf("invalid OUTSTATION_DAILY_RATE: %w", err)
	}
	return nil
}

// DatabaseURL returns the PostgreSQL connection string
func (c *Config) DatabaseURL() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.Database.User,
		c.Database.Password,
		c.Database.Host,
		c.Database.Port,
		c.Database.Name,
		c.Database.SSLMode,
	)
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
