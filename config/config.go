// Package config holds simulation parameters that are market data rather
// than derived values: semiannual coupon approximations and the flat
// projected index rates used when no fixing is available.
package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds tunable engine parameters.
type Config struct {
	// FixedSemiannualCoupon is the coupon paid by fixed-rate instruments
	// with semiannual coupons, as a fraction of principal per payment.
	// Approximates the coupon structure of prefixed treasury notes.
	FixedSemiannualCoupon float64

	// InflationSemiannualCoupon is the coupon paid by inflation-linked
	// instruments, as a fraction of the corrected principal per payment.
	InflationSemiannualCoupon float64

	// DefaultInflationRate is the flat projected monthly inflation rate
	// applied when no fixing exists (0.0040 ~ 5% a.a.).
	DefaultInflationRate float64

	// DefaultFloatingRate is the flat projected monthly reference rate
	// applied when no fixing exists (0.0090 ~ 11% a.a.).
	DefaultFloatingRate float64

	// LogLevel is the logrus level used by the cmd binaries.
	LogLevel string
}

// DefaultConfig provides the bundled market approximations.
var DefaultConfig = Config{
	FixedSemiannualCoupon:     0.0473,
	InflationSemiannualCoupon: 0.0295,
	DefaultInflationRate:      0.0040,
	DefaultFloatingRate:       0.0090,
	LogLevel:                  "info",
}

// cfg is the active configuration. Defaults to DefaultConfig.
var cfg = DefaultConfig

// Set replaces the active configuration.
func Set(c Config) {
	cfg = c
}

// Get returns the active configuration.
func Get() Config {
	return cfg
}

// Load reads FISIM_* environment overrides (and a .env file when present),
// applies them to the active configuration and returns it.
func Load() Config {
	_ = godotenv.Load()

	c := DefaultConfig
	c.FixedSemiannualCoupon = getEnvFloat("FISIM_FIXED_COUPON", c.FixedSemiannualCoupon)
	c.InflationSemiannualCoupon = getEnvFloat("FISIM_INFLATION_COUPON", c.InflationSemiannualCoupon)
	c.DefaultInflationRate = getEnvFloat("FISIM_DEFAULT_INFLATION", c.DefaultInflationRate)
	c.DefaultFloatingRate = getEnvFloat("FISIM_DEFAULT_FLOATING", c.DefaultFloatingRate)
	c.LogLevel = getEnvString("FISIM_LOG_LEVEL", c.LogLevel)

	cfg = c
	return c
}

func getEnvString(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatValue, err := strconv.ParseFloat(value, 64); err == nil {
			return floatValue
		}
	}
	return defaultValue
}
