package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all application configuration loaded from environment variables.
// It is the single source of truth for runtime parameters.
type Config struct {
	Port string
	Env  string

	HubSpot HubSpotConfig
	Redis   RedisConfig
	Cache   CacheConfig
	Worker  WorkerConfig
}

// HubSpotConfig contains the CRM API connection parameters.
// The access token itself is never stored here: TokenEnv names the variable
// the client reads on every call.
type HubSpotConfig struct {
	BaseURL        string
	TokenEnv       string
	ClientSecret   string // signs extension-host requests; empty disables verification
	Timeout        time.Duration
	RateLimit      float64
	RateBurst      int
	MaxConcurrency int
	PageSize       int
}

// RedisConfig contains Redis connection parameters.
type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
}

// Enabled reports whether a Redis host was configured.
func (r RedisConfig) Enabled() bool {
	return r.Host != ""
}

// CacheConfig contains catalog cache settings.
type CacheConfig struct {
	CatalogTTL time.Duration
}

// WorkerConfig contains interval configuration for background workers.
type WorkerConfig struct {
	CatalogRefreshInterval time.Duration
}

// Load reads configuration from environment variables. If a .env file exists
// in the working directory, it will be loaded first.
func Load() (*Config, error) {
	// Ignore a missing .env so deployments using real environment variables keep working.
	_ = godotenv.Load()

	cfg := &Config{}

	// Server
	cfg.Port = getEnv("PORT", "8080")
	cfg.Env = getEnv("ENV", "development")

	// HubSpot
	cfg.HubSpot = HubSpotConfig{
		BaseURL:        getEnv("HUBSPOT_BASE_URL", "https://api.hubapi.com"),
		TokenEnv:       getEnv("HUBSPOT_TOKEN_ENV", "PRIVATE_APP_ACCESS_TOKEN"),
		ClientSecret:   getEnv("HUBSPOT_CLIENT_SECRET", ""),
		RateLimit:      getEnvFloat("HUBSPOT_RATE_LIMIT", 10),
		RateBurst:      getEnvInt("HUBSPOT_RATE_BURST", 10),
		MaxConcurrency: getEnvInt("HUBSPOT_MAX_CONCURRENCY", 5),
		PageSize:       getEnvInt("HUBSPOT_PAGE_SIZE", 100),
	}

	// Redis (optional)
	cfg.Redis = RedisConfig{
		Host:     getEnv("REDIS_HOST", ""),
		Port:     getEnv("REDIS_PORT", "6379"),
		Password: getEnv("REDIS_PASSWORD", ""),
		DB:       getEnvInt("REDIS_DB", 0),
	}

	var err error
	if cfg.HubSpot.Timeout, err = parseDurationEnv("HUBSPOT_TIMEOUT", "30s"); err != nil {
		return nil, fmt.Errorf("invalid HUBSPOT_TIMEOUT: %w", err)
	}
	if cfg.Cache.CatalogTTL, err = parseDurationEnv("CATALOG_CACHE_TTL", "5m"); err != nil {
		return nil, fmt.Errorf("invalid CATALOG_CACHE_TTL: %w", err)
	}
	if cfg.Worker.CatalogRefreshInterval, err = parseDurationEnv("CATALOG_REFRESH_INTERVAL", "0s"); err != nil {
		return nil, fmt.Errorf("invalid CATALOG_REFRESH_INTERVAL: %w", err)
	}

	if cfg.HubSpot.MaxConcurrency <= 0 {
		return nil, errors.New("HUBSPOT_MAX_CONCURRENCY must be greater than zero")
	}
	if cfg.HubSpot.PageSize <= 0 || cfg.HubSpot.PageSize > 500 {
		return nil, errors.New("HUBSPOT_PAGE_SIZE must be between 1 and 500")
	}
	if cfg.HubSpot.RateLimit < 0 {
		return nil, errors.New("HUBSPOT_RATE_LIMIT must be >= 0")
	}
	if strings.TrimSpace(cfg.HubSpot.TokenEnv) == "" {
		return nil, errors.New("HUBSPOT_TOKEN_ENV must name the environment variable holding the access token")
	}

	return cfg, nil
}

// getEnv returns the value of an environment variable or a default if empty.
func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

// getEnvInt returns the value of an environment variable as an integer or a default if empty/invalid.
func getEnvInt(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return i
}

func getEnvFloat(key string, def float64) float64 {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return def
	}
	return f
}

// parseDurationEnv reads an environment variable and parses it as time.Duration.
// If the variable is empty, it falls back to the provided default value.
func parseDurationEnv(key, def string) (time.Duration, error) {
	raw := getEnv(key, def)
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, err
	}
	if d < 0 {
		return 0, fmt.Errorf("duration must be >= 0")
	}
	return d, nil
}
