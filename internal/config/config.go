// internal/config/config.go
// Centralized configuration management
// Loads from environment variables with sensible defaults

package config

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"time"
)

// Config holds all application configuration
type Config struct {
	// Server
	Port        string
	Environment string

	// Remote API
	APIBaseURL   string
	APITimeout   time.Duration
	APIRateLimit float64 // requests per second
	APIRateBurst int

	// Sessions
	SessionStore           string // "memory" or "redis"
	RedisURL               string
	SessionTTL             time.Duration
	SessionCleanupInterval time.Duration
	SessionCookieName      string
	CookieSecure           bool

	// Uploads
	MaxUploadSize int64
}

// Load reads configuration from environment variables
func Load() *Config {
	return &Config{
		// Server
		Port:        getEnv("PORT", "3000"),
		Environment: getEnv("ENVIRONMENT", "development"),

		// Remote API
		APIBaseURL:   getEnv("API_BASE_URL", "http://localhost:8000"),
		APITimeout:   getEnvDuration("API_TIMEOUT", "10s"),
		APIRateLimit: getEnvFloat("API_RATE_LIMIT", 20),
		APIRateBurst: getEnvInt("API_RATE_BURST", 40),

		// Sessions
		SessionStore:           getEnv("SESSION_STORE", "memory"),
		RedisURL:               getEnv("REDIS_URL", ""),
		SessionTTL:             getEnvDuration("SESSION_TTL", "24h"),
		SessionCleanupInterval: getEnvDuration("SESSION_CLEANUP_INTERVAL", "10m"),
		SessionCookieName:      getEnv("SESSION_COOKIE_NAME", "webclient_session"),
		CookieSecure:           getEnvBool("COOKIE_SECURE", false),

		// Uploads
		MaxUploadSize: int64(getEnvInt("MAX_UPLOAD_SIZE", 10<<20)), // 10MB
	}
}

// Validate validates the configuration
func (c *Config) Validate() error {
	u, err := url.Parse(c.APIBaseURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("API base URL must be an absolute http(s) URL, got %q", c.APIBaseURL)
	}

	if c.APITimeout <= 0 {
		return fmt.Errorf("API timeout must be positive")
	}

	if c.APIRateLimit <= 0 || c.APIRateBurst < 1 {
		return fmt.Errorf("API rate limit and burst must be positive")
	}

	switch c.SessionStore {
	case "memory":
	case "redis":
		if c.RedisURL == "" {
			return fmt.Errorf("REDIS_URL is required when SESSION_STORE=redis")
		}
	default:
		return fmt.Errorf("invalid session store: %s", c.SessionStore)
	}

	if c.SessionTTL <= 0 || c.SessionCleanupInterval <= 0 {
		return fmt.Errorf("session TTL and cleanup interval must be positive")
	}

	if c.SessionCookieName == "" {
		return fmt.Errorf("session cookie name is required")
	}

	if c.IsProduction() && !c.CookieSecure {
		return fmt.Errorf("COOKIE_SECURE must be enabled in production")
	}

	if c.MaxUploadSize < 1<<10 {
		return fmt.Errorf("max upload size must be at least 1KB")
	}

	return nil
}

// IsProduction returns true if running in production
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

// IsDevelopment returns true if running in development
func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

// Helper functions

// getEnv gets a string value from environment with a default
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvInt gets an integer value from environment with a default
func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
	}
	return defaultValue
}

// getEnvDuration gets a duration value from environment with a default
func getEnvDuration(key string, defaultValue string) time.Duration {
	value := getEnv(key, defaultValue)
	duration, err := time.ParseDuration(value)
	if err != nil {
		// If parsing fails, try to parse the default
		duration, _ = time.ParseDuration(defaultValue)
	}
	return duration
}

// getEnvBool gets a boolean value from environment with a default
func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return defaultValue
}
