package config

import (
	"os"
	"strconv"
	"time"
)

// Config holds all application configuration loaded from environment variables.
type Config struct {
	// Environment
	Env string // "development", "production", etc.

	// Server
	ServerAddr string

	// Database
	DatabaseURL string

	// Redis, used for the per-IP search quota. Empty disables the quota.
	RedisURL string

	// External services
	CatalogBaseURL     string
	MarketplaceBaseURL string
	// Marketplace OAuth2 client credentials. Empty means anonymous access.
	MarketplaceClientID     string
	MarketplaceClientSecret string
	MarketplaceTokenURL     string

	// Query cache
	CacheCapacity int64
	CacheTTL      time.Duration

	// Per-IP searches per hour when the quota is enabled.
	SearchQuota int

	// Path to the optional scoring overrides file.
	ScoringFile string
}

// Load reads configuration from environment variables with sensible defaults.
func Load() *Config {
	return &Config{
		Env:                     getEnv("ENV", "development"),
		ServerAddr:              getEnv("SERVER_ADDR", ":3000"),
		DatabaseURL:             getEnv("DATABASE_URL", "postgres://localhost:5432/priceintel?sslmode=disable"),
		RedisURL:                getEnv("REDIS_URL", ""),
		CatalogBaseURL:          getEnv("CATALOG_BASE_URL", "https://catalog.example.gov/api/v1"),
		MarketplaceBaseURL:      getEnv("MARKETPLACE_BASE_URL", "https://api.marketplace.example.com"),
		MarketplaceClientID:     getEnv("MARKETPLACE_CLIENT_ID", ""),
		MarketplaceClientSecret: getEnv("MARKETPLACE_CLIENT_SECRET", ""),
		MarketplaceTokenURL:     getEnv("MARKETPLACE_TOKEN_URL", ""),
		CacheCapacity:           getEnvInt64("CACHE_CAPACITY", 10000),
		CacheTTL:                getEnvDuration("CACHE_TTL", 7*24*time.Hour),
		SearchQuota:             int(getEnvInt64("SEARCH_QUOTA_PER_HOUR", 30)),
		ScoringFile:             getEnv("SCORING_FILE", ""),
	}
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvInt64(key string, fallback int64) int64 {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.ParseInt(value, 10, 64); err == nil {
			return n
		}
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return fallback
}

// IsDev returns true if the environment is set to development.
func (c *Config) IsDev() bool {
	return c.Env == "development" || c.Env == "dev"
}
