package config

import (
	"fmt"
	"strings"
)

// ValidationError represents a configuration validation error
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidateConfig checks that every value the server cannot run without is
// present. Production additionally requires real credentials; development
// and test get permissive defaults so local runs stay frictionless.
func ValidateConfig(cfg *Config) error {
	var errors []string

	required := map[string]string{
		"SERVER_PORT": cfg.ServerPort,
		"DB_HOST":     cfg.DBHost,
		"DB_PORT":     cfg.DBPort,
		"DB_USER":     cfg.DBUser,
		"DB_NAME":     cfg.DBName,
	}
	for field, value := range required {
		if value == "" {
			errors = append(errors, fmt.Sprintf("required configuration %s is not set", field))
		}
	}

	if cfg.JWTSecret == "" {
		if IsProduction() || IsCI() {
			errors = append(errors, "jwt_secret is required")
		} else {
			cfg.JWTSecret = "dev-insecure-secret"
		}
	}

	if IsProduction() && cfg.DBPassword == "" {
		errors = append(errors, "db_password secret is required in production")
	}

	if len(errors) > 0 {
		return fmt.Errorf("%s", strings.Join(errors, "; "))
	}
	return nil
}
