package config

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func loadWithEnv(t *testing.T, env map[string]string) *Config {
	t.Helper()
	viper.Reset()
	for k, v := range env {
		t.Setenv(k, v)
	}
	cfg, err := LoadConfig()
	require.NoError(t, err)
	return cfg
}

func TestLoadConfig_Defaults(t *testing.T) {
	cfg := loadWithEnv(t, nil)

	assert.Equal(t, "8080", cfg.Port)
	assert.False(t, cfg.IsProduction)
	assert.False(t, cfg.EnableDBCheck)
	assert.True(t, cfg.PointsAccrualRate.Equal(decimal.NewFromInt(5)))
	assert.Equal(t, 100, cfg.RateLimitRequests)
	assert.Equal(t, time.Minute, cfg.RateLimitWindow)
}

func TestLoadConfig_Overrides(t *testing.T) {
	cfg := loadWithEnv(t, map[string]string{
		"PORT":                "9090",
		"POINTS_ACCRUAL_RATE": "2.5",
		"RATE_LIMIT_REQUESTS": "10",
		"RATE_LIMIT_WINDOW":   "30s",
		"ENABLE_DB_CHECK":     "true",
	})

	assert.Equal(t, "9090", cfg.Port)
	assert.True(t, cfg.PointsAccrualRate.Equal(decimal.RequireFromString("2.5")))
	assert.Equal(t, 10, cfg.RateLimitRequests)
	assert.Equal(t, 30*time.Second, cfg.RateLimitWindow)
	assert.True(t, cfg.EnableDBCheck)
}

func TestLoadConfig_InvalidAccrualRateFallsBack(t *testing.T) {
	cfg := loadWithEnv(t, map[string]string{
		"POINTS_ACCRUAL_RATE": "not-a-number",
	})

	assert.True(t, cfg.PointsAccrualRate.Equal(decimal.NewFromInt(5)))
}

func TestLoadConfig_NegativeAccrualRateFallsBack(t *testing.T) {
	cfg := loadWithEnv(t, map[string]string{
		"POINTS_ACCRUAL_RATE": "-3",
	})

	assert.True(t, cfg.PointsAccrualRate.Equal(decimal.NewFromInt(5)))
}
