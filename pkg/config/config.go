package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config is the ambient configuration for the order-saga process: how to
// reach the database, and a shutdown timeout.
type Config struct {
	Postgres PostgresConfig
	// ShutdownTimeout is loaded from SHUTDOWN_TIMEOUT (default 10s). The
	// cmd entry points in this repository do not read it.
	ShutdownTimeout time.Duration
}

// PostgresConfig holds the Postgres connection parameters.
type PostgresConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
	SSLMode  string
}

// Load reads configuration from the environment, loading a .env file first
// if one is present in the working directory.
func Load(serviceName string) *Config {
	godotenv.Load()

	return &Config{
		Postgres: PostgresConfig{
			Host:     GetEnv("POSTGRES_HOST", "localhost"),
			Port:     GetEnv("POSTGRES_PORT", "5432"),
			User:     GetEnv("POSTGRES_USER", "postgres"),
			Password: GetEnv("POSTGRES_PASSWORD", "postgres"),
			DBName:   GetEnv("POSTGRES_DB", serviceName),
			SSLMode:  GetEnv("POSTGRES_SSLMODE", "disable"),
		},
		ShutdownTimeout: GetEnvAsDuration("SHUTDOWN_TIMEOUT", 10*time.Second),
	}
}

func GetEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func GetEnvAsInt(key string, defaultValue int) int {
	valueStr := GetEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func GetEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := GetEnv(key, "")
	if value, err := time.ParseDuration(valueStr); err == nil {
		return value
	}
	return defaultValue
}
