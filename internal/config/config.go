package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

// AppConfig holds settings for both services. The dashboard and the
// forecast API are deployed separately but share one configuration
// surface, so a single .env covers a whole installation.
type AppConfig struct {
	// Dashboard service.
	DashboardPort  string
	ForecastURL    string
	UpdateInterval time.Duration
	// FetchTimeout bounds the dashboard's forecast fetches. Zero keeps
	// the transport default, i.e. no client-side deadline.
	FetchTimeout time.Duration

	// Forecast API service.
	APIPort         string
	UpstreamURL     string
	UpstreamTimeout time.Duration
	CountryCode     string
	DefaultHours    int
	SyntheticSeed   int64
	CacheSize       int
	CacheBucket     time.Duration
	RateLimitRPS    float64
	RateLimitBurst  int
	AllowedOrigins  string

	// Shared.
	Location  *time.Location
	LogLevel  string
	LogFormat string
}

// Load reads configuration from environment with sensible defaults.
func Load() (*AppConfig, error) {
	if err := godotenv.Load(); err != nil {
		logrus.Infof("no .env file found or error loading it: %v", err)
	}

	cfg := &AppConfig{}

	cfg.DashboardPort = getenvDefault("DASHBOARD_PORT", "8050")
	cfg.APIPort = getenvDefault("API_PORT", "8000")
	cfg.ForecastURL = getenvDefault("FORECAST_URL", "http://localhost:8000/api/latest-forecast")

	var err error
	if cfg.UpdateInterval, err = getenvDuration("UPDATE_INTERVAL", 5*time.Minute); err != nil {
		return nil, err
	}
	if cfg.FetchTimeout, err = getenvDuration("FETCH_TIMEOUT", 0); err != nil {
		return nil, err
	}
	if cfg.UpstreamTimeout, err = getenvDuration("UPSTREAM_TIMEOUT", 30*time.Second); err != nil {
		return nil, err
	}
	if cfg.CacheBucket, err = getenvDuration("CACHE_BUCKET", 5*time.Minute); err != nil {
		return nil, err
	}

	cfg.UpstreamURL = os.Getenv("UPSTREAM_URL")
	cfg.CountryCode = getenvDefault("COUNTRY_CODE", "DE")
	cfg.DefaultHours = getenvInt("FORECAST_HOURS", 24)
	cfg.SyntheticSeed = int64(getenvInt("SYNTHETIC_SEED", 42))
	cfg.CacheSize = getenvInt("CACHE_SIZE", 16)
	cfg.RateLimitRPS = getenvFloat("RATE_LIMIT_RPS", 5)
	cfg.RateLimitBurst = getenvInt("RATE_LIMIT_BURST", 10)
	cfg.AllowedOrigins = getenvDefault("ALLOWED_ORIGINS", "*")
	cfg.LogLevel = getenvDefault("LOG_LEVEL", "info")
	cfg.LogFormat = getenvDefault("LOG_FORMAT", "text")

	if cfg.DefaultHours < 1 || cfg.DefaultHours > 168 {
		return nil, fmt.Errorf("FORECAST_HOURS must be between 1 and 168, got %d", cfg.DefaultHours)
	}

	tz := getenvDefault("TIMEZONE", "Europe/Berlin")
	loc, err := time.LoadLocation(tz)
	if err != nil {
		return nil, fmt.Errorf("invalid TIMEZONE: %w", err)
	}
	cfg.Location = loc

	return cfg, nil
}

func getenvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getenvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		n, err := strconv.Atoi(v)
		if err == nil {
			return n
		}
	}
	return def
}

func getenvFloat(key string, def float64) float64 {
	if v := os.Getenv(key); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err == nil {
			return f
		}
	}
	return def
}

func getenvDuration(key string, def time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return d, nil
}
