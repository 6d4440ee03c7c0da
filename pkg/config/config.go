package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config holds all configuration for the application
type Config struct {
	// Server configuration
	Port string
	Env  string

	// Database configuration
	DatabaseURL string

	// Redis configuration
	RedisURL      string
	RedisPassword string

	// JWT configuration
	JWTSecret string

	// SolanaTracker data API configuration
	SolanaTrackerAPIKey string

	// Ingestion configuration
	IngestInterval time.Duration
	IngestEnabled  bool

	// Text generation API configuration (behavioral insights)
	TextGenAPIKey  string
	TextGenBaseURL string
	TextGenModel   string
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	cfg := &Config{
		Port:                getEnv("PORT", "8080"),
		Env:                 getEnv("ENV", "development"),
		DatabaseURL:         getEnv("DATABASE_URL", ""),
		RedisURL:            getEnv("REDIS_URL", "localhost:6379"),
		RedisPassword:       getEnv("REDIS_PASSWORD", ""),
		JWTSecret:           getEnv("JWT_SECRET", ""),
		SolanaTrackerAPIKey: getEnv("SOLANATRACKER_API_KEY", ""),
		IngestInterval:      getEnvAsDuration("INGEST_INTERVAL", 30*time.Minute),
		IngestEnabled:       getEnvAsBool("INGEST_ENABLED", true),
		TextGenAPIKey:       getEnv("TEXTGEN_API_KEY", ""),
		TextGenBaseURL:      getEnv("TEXTGEN_BASE_URL", "https://api.openai.com/v1"),
		TextGenModel:        getEnv("TEXTGEN_MODEL", ""),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate ensures all required configuration is present
func (c *Config) Validate() error {
	if c.DatabaseURL == "" {
		return fmt.Errorf("DATABASE_URL is required")
	}

	if c.JWTSecret == "" {
		return fmt.Errorf("JWT_SECRET is required")
	}

	if len(c.JWTSecret) < 32 {
		return fmt.Errorf("JWT_SECRET must be at least 32 characters long")
	}

	// The data API key is required in production; in development the
	// ingestion worker is simply disabled without one.
	if c.SolanaTrackerAPIKey == "" && c.IsProduction() {
		return fmt.Errorf("SOLANATRACKER_API_KEY is required in production")
	}

	if c.IngestInterval <= 0 {
		return fmt.Errorf("INGEST_INTERVAL must be positive")
	}

	return nil
}

// IsDevelopment returns true if running in development mode
func (c *Config) IsDevelopment() bool {
	return c.Env == "development"
}

// IsProduction returns true if running in production mode
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

// getEnv gets an environment variable with a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvAsBool gets an environment variable as a boolean with a default value
func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}

// getEnvAsDuration gets an environment variable as a duration with a default value
func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
