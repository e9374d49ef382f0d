package app

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Issuer         string        // Issuer claim for access tokens (default: rollcall)
	SigningSecret  string        // Required: HS256 signing secret, at least 32 bytes
	AccessTTL      time.Duration // Access token lifetime (default: 12h)
	BootstrapToken string        // Optional: enables the one-time first-admin bootstrap

	DatabaseFile string // Path to SQLite database file (default: ./attendance.db)

	MaxSampleAge time.Duration // Freshness bound for position samples (default: 2m)

	Env       string // Environment (dev, staging, prod) (default: dev)
	LogLevel  string // Log level (debug, info, warn, error) (default: info)
	LogFormat string // Log format (json, text) (default: json)
	Port      int    // HTTP server port (default: 8080)

	ShutdownGracePeriod  time.Duration // Graceful shutdown timeout (default: 10s)
	HousekeepingInterval time.Duration // Housekeeping sweep interval (default: 15m)
	SnapshotTTL          time.Duration // Location snapshot retention (default: 24h)
}

// LoadConfig reads configuration from the environment, consulting a .env
// file when one is present in the working directory.
func LoadConfig() Config {
	// Missing .env is fine; real deployments set the environment directly.
	_ = godotenv.Load()

	return Config{
		Issuer:         getEnvOrDefault("ATTENDANCE_ISSUER", "rollcall"),
		SigningSecret:  os.Getenv("ATTENDANCE_SIGNING_SECRET"),
		AccessTTL:      getEnvDurationOrDefault("ATTENDANCE_ACCESS_TTL", 12*time.Hour),
		BootstrapToken: os.Getenv("BOOTSTRAP_TOKEN"),

		DatabaseFile: getEnvOrDefault("ATTENDANCE_DATABASE_FILE", "attendance.db"),

		MaxSampleAge: getEnvDurationOrDefault("ATTENDANCE_MAX_SAMPLE_AGE", 2*time.Minute),

		Env:       getEnvOrDefault("ENV", "dev"),
		LogLevel:  getEnvOrDefault("LOG_LEVEL", "info"),
		LogFormat: getEnvOrDefault("LOG_FORMAT", "json"),
		Port:      getEnvIntOrDefault("PORT", 8080),

		ShutdownGracePeriod:  getEnvDurationOrDefault("SHUTDOWN_GRACE_PERIOD", 10*time.Second),
		HousekeepingInterval: getEnvDurationOrDefault("HOUSEKEEPING_INTERVAL", 15*time.Minute),
		SnapshotTTL:          getEnvDurationOrDefault("SNAPSHOT_TTL", 24*time.Hour),
	}
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	if intValue, err := strconv.Atoi(value); err == nil {
		return intValue
	}

	return defaultValue
}

func getEnvDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	if duration, err := time.ParseDuration(value); err == nil {
		return duration
	}

	return defaultValue
}
