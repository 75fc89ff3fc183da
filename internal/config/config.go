package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"

	"moneylovers/internal/logger"
)

// Config holds application configuration. It is built once by Load in main
// and passed to the components that need it.
type Config struct {
	// Server
	Port string
	Env  string

	// Database
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSSLMode  string

	// Connection pool
	DBMaxOpenConns    int
	DBMaxIdleConns    int
	DBConnMaxLifetime time.Duration

	// Migrations
	MigrationsDir string
	AutoMigrate   bool

	// JWT
	JWTSecret        string
	JWTExpirationDur time.Duration

	// Recurring transactions
	SchedulerEnabled  bool
	SchedulerInterval time.Duration
	SchedulerAPIKey   string
	Timezone          string
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if not already loaded
	if err := godotenv.Load(); err != nil {
		logger.Get().Debugw(".env file not loaded", "error", err)
	}

	config := &Config{
		// Server
		Port: getEnv("PORT", "8080"),
		Env:  getEnv("ENV", "development"),

		// Database
		DBHost:     getEnv("DB_HOST", "localhost"),
		DBPort:     getEnv("DB_PORT", "5432"),
		DBUser:     getEnv("DB_USER", "moneylovers"),
		DBPassword: getEnv("DB_PASSWORD", "moneylovers"),
		DBName:     getEnv("DB_NAME", "moneylovers"),
		DBSSLMode:  getEnv("DB_SSLMODE", "disable"),

		MigrationsDir: getEnv("MIGRATIONS_DIR", "migrations"),

		// JWT
		JWTSecret: getEnv("JWT_SECRET", "fallback-secret-key-for-dev-only"),

		SchedulerAPIKey: getEnv("SCHEDULER_API_KEY", ""),
		Timezone:        getEnv("APP_TIMEZONE", "UTC"),
	}

	config.JWTExpirationDur = getDuration("JWT_EXPIRES_IN", 24*time.Hour)
	config.SchedulerInterval = getDuration("SCHEDULER_INTERVAL", time.Hour)
	config.DBConnMaxLifetime = getDuration("DB_CONN_MAX_LIFETIME", time.Hour)
	config.DBMaxOpenConns = getInt("DB_MAX_OPEN_CONNS", 25)
	config.DBMaxIdleConns = getInt("DB_MAX_IDLE_CONNS", 10)
	if config.DBMaxIdleConns > config.DBMaxOpenConns {
		config.DBMaxIdleConns = config.DBMaxOpenConns
	}

	autoMigrate, err := strconv.ParseBool(getEnv("AUTO_MIGRATE", "true"))
	if err != nil {
		return nil, fmt.Errorf("invalid AUTO_MIGRATE: %w", err)
	}
	config.AutoMigrate = autoMigrate

	enabled, err := strconv.ParseBool(getEnv("SCHEDULER_ENABLED", "true"))
	if err != nil {
		return nil, fmt.Errorf("invalid SCHEDULER_ENABLED: %w", err)
	}
	config.SchedulerEnabled = enabled

	if _, err := time.LoadLocation(config.Timezone); err != nil {
		return nil, fmt.Errorf("invalid APP_TIMEZONE %q: %w", config.Timezone, err)
	}

	return config, nil
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getDuration(key string, fallback time.Duration) time.Duration {
	raw := getEnv(key, "")
	if raw == "" {
		return fallback
	}
	d, err := time.ParseDuration(raw)
	if err != nil || d <= 0 {
		logger.Get().Warnw("invalid duration, using default", "key", key, "value", raw, "default", fallback.String())
		return fallback
	}
	return d
}

func getInt(key string, fallback int) int {
	raw := getEnv(key, "")
	if raw == "" {
		return fallback
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n <= 0 {
		logger.Get().Warnw("invalid integer, using default", "key", key, "value", raw, "default", fallback)
		return fallback
	}
	return n
}
