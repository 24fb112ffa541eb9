package config

import (
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
	"github.com/spf13/viper"
)

// Config holds application configuration.
type Config struct {
	DatabaseURL   string
	Port          string
	IsProduction  bool
	EnableDBCheck bool

	// PointsAccrualRate is the loyalty accrual percent applied to a finalized
	// visit total. Business-configurable, not a code constant.
	PointsAccrualRate decimal.Decimal

	// Rate limiting for the public API surface.
	RateLimitRequests int
	RateLimitWindow   time.Duration

	CORSAllowedOrigins []string
}

// LoadConfig loads configuration from environment variables and .env file if present.
func LoadConfig() (*Config, error) {
	// Attempt to load .env file, ignore error if it doesn't exist
	_ = godotenv.Load()

	viper.SetDefault("PGSQL_URL", "")
	viper.SetDefault("PORT", "8080")
	viper.SetDefault("IS_PRODUCTION", false)
	viper.SetDefault("ENABLE_DB_CHECK", false)
	viper.SetDefault("POINTS_ACCRUAL_RATE", "5")
	viper.SetDefault("RATE_LIMIT_REQUESTS", 100)
	viper.SetDefault("RATE_LIMIT_WINDOW", "1m")
	viper.SetDefault("CORS_ALLOWED_ORIGINS", "http://localhost:3000")

	viper.AutomaticEnv()

	cfg := &Config{}

	cfg.DatabaseURL = viper.GetString("PGSQL_URL")
	if cfg.DatabaseURL == "" {
		log.Println("Warning: PGSQL_URL environment variable not set.")
	}

	cfg.Port = viper.GetString("PORT")
	if cfg.Port == "" {
		cfg.Port = "8080"
		log.Printf("Warning: PORT environment variable not set. Defaulting to %s\n", cfg.Port)
	}

	accrualStr := viper.GetString("POINTS_ACCRUAL_RATE")
	accrualRate, err := decimal.NewFromString(accrualStr)
	if err != nil || accrualRate.IsNegative() {
		accrualRate = decimal.NewFromInt(5)
		log.Printf("Warning: Invalid value for POINTS_ACCRUAL_RATE ('%s'). Defaulting to %s.\n", accrualStr, accrualRate.String())
	}
	cfg.PointsAccrualRate = accrualRate

	rateLimitWindowStr := viper.GetString("RATE_LIMIT_WINDOW")
	rateLimitWindow, err := time.ParseDuration(rateLimitWindowStr)
	if err != nil {
		rateLimitWindow = time.Minute
		if rateLimitWindowStr != "" {
			log.Printf("Warning: Invalid value for RATE_LIMIT_WINDOW ('%s'). Defaulting to %s.\n", rateLimitWindowStr, rateLimitWindow.String())
		}
	}
	cfg.RateLimitWindow = rateLimitWindow

	cfg.RateLimitRequests = viper.GetInt("RATE_LIMIT_REQUESTS")
	if cfg.RateLimitRequests <= 0 {
		cfg.RateLimitRequests = 100
	}

	cfg.CORSAllowedOrigins = viper.GetStringSlice("CORS_ALLOWED_ORIGINS")
	if len(cfg.CORSAllowedOrigins) == 0 {
		cfg.CORSAllowedOrigins = []string{"http://localhost:3000"}
	}

	cfg.IsProduction = viper.GetBool("IS_PRODUCTION")
	cfg.EnableDBCheck = viper.GetBool("ENABLE_DB_CHECK")

	return cfg, nil
}
