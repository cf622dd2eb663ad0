package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all application configuration.
type Config struct {
	ServerPort string
	GinMode    string
	LogLevel   string
	LogFormat  string
	// RedisURL enables the course change feed. Empty disables it.
	RedisURL   string
	JWTSecret  string
	JWTExpiry  time.Duration
	BcryptCost int
	// AllowedOrigins controls HTTP CORS and WebSocket origin validation.
	// Empty slice means all origins are permitted (dev default).
	AllowedOrigins []string
	// StoreLatency is the artificial delay in front of every store operation.
	StoreLatency time.Duration
	// AggregationConcurrency bounds the full-course join fan-out.
	AggregationConcurrency int
	SeedDemoData           bool
}

// Load reads configuration from environment variables with sensible defaults.
// It loads .env file if present but does not fail if missing.
func Load() *Config {
	_ = godotenv.Load()

	return &Config{
		ServerPort:             getEnv("SERVER_PORT", "8080"),
		GinMode:                getEnv("GIN_MODE", "debug"),
		LogLevel:               getEnv("LOG_LEVEL", "info"),
		LogFormat:              getEnv("LOG_FORMAT", "auto"),
		RedisURL:               os.Getenv("REDIS_URL"),
		JWTSecret:              getEnv("JWT_SECRET", "change-this-to-a-secure-random-string"),
		JWTExpiry:              time.Duration(getEnvInt("JWT_EXPIRY_HOURS", 24)) * time.Hour,
		BcryptCost:             getEnvInt("BCRYPT_COST", 6),
		AllowedOrigins:         parseOrigins(getEnv("ALLOWED_ORIGINS", "")),
		StoreLatency:           time.Duration(getEnvInt("STORE_LATENCY_MS", 100)) * time.Millisecond,
		AggregationConcurrency: getEnvInt("AGGREGATION_CONCURRENCY", 8),
		SeedDemoData:           getEnvBool("SEED_DEMO_DATA", true),
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}

func getEnvBool(key string, fallback bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return fallback
	}
	return b
}

// parseOrigins splits a comma-separated origins string into a trimmed slice.
// Returns nil (allow-all) if the input is empty.
func parseOrigins(raw string) []string {
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	origins := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			origins = append(origins, trimmed)
		}
	}
	return origins
}
