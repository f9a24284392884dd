package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// Config holds all configuration for the application
type Config struct {
	// Server configuration
	ServerPort string
	ServerHost string

	// Database configuration
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSSLMode  string

	// Redis configuration
	RedisHost     string
	RedisPort     string
	RedisPassword string
	RedisDB       int
	RedisURL      string

	// JWT configuration
	JWTSecret string

	// ClientURL is the front-end origin allowed through CORS. A 401 from
	// any endpoint makes that client force a logout.
	ClientURL string

	// MealDBURL overrides the external recipe API endpoint (tests).
	MealDBURL string

	// MigrationsDir is where the server looks for SQL migrations at boot.
	MigrationsDir string
}

// LoadConfig creates a new Config instance with values from environment
// variables, falling back to Docker secret files for sensitive values.
func LoadConfig() (*Config, error) {
	cfg := &Config{
		ServerPort:    getEnv("SERVER_PORT", "8080"),
		ServerHost:    getEnv("SERVER_HOST", "0.0.0.0"),
		DBHost:        getEnv("DB_HOST", "localhost"),
		DBPort:        getEnv("DB_PORT", "5432"),
		DBUser:        getEnvOrSecret("DB_USER", "db_user", "postgres"),
		DBPassword:    getEnvOrSecret("DB_PASSWORD", "db_password", ""),
		DBName:        getEnv("DB_NAME", "recipevault"),
		DBSSLMode:     getEnv("DB_SSL_MODE", "disable"),
		RedisHost:     getEnv("REDIS_HOST", "localhost"),
		RedisPort:     getEnv("REDIS_PORT", "6379"),
		RedisPassword: getEnvOrSecret("REDIS_PASSWORD", "redis_password", ""),
		RedisURL:      getEnv("REDIS_URL", ""),
		JWTSecret:     getEnvOrSecret("JWT_SECRET", "jwt_secret", ""),
		ClientURL:     getEnv("CLIENT_URL", "http://localhost:3000"),
		MealDBURL:     getEnv("MEALDB_URL", ""),
		MigrationsDir: getEnv("MIGRATIONS_DIR", "migrations"),
	}

	if v := os.Getenv("REDIS_DB"); v != "" {
		db, err := strconv.Atoi(v)
		if err != nil {
			return nil, fmt.Errorf("invalid REDIS_DB: %w", err)
		}
		cfg.RedisDB = db
	}

	if err := ValidateConfig(cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

// getEnvOrSecret prefers the environment variable and falls back to a Docker
// secret file of the given name.
func getEnvOrSecret(envKey, secretName, fallback string) string {
	if value := os.Getenv(envKey); value != "" {
		return value
	}
	if value := readSecret(secretName); value != "" {
		return value
	}
	return fallback
}

// readSecret reads a Docker secret from the secrets directory
func readSecret(name string) string {
	secretsDir := os.Getenv("SECRETS_DIR")
	if secretsDir == "" {
		secretsDir = "/run/secrets"
	}
	secretPath := filepath.Join(secretsDir, name)
	if data, err := os.ReadFile(secretPath); err == nil {
		return strings.TrimSpace(string(data))
	}
	return ""
}
