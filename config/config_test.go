package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	t.Setenv("CI", "")
	t.Setenv("ENV", "development")
	t.Setenv("SECRETS_DIR", t.TempDir())

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.ServerPort)
	assert.Equal(t, "localhost", cfg.DBHost)
	assert.Equal(t, "recipevault", cfg.DBName)
	assert.Equal(t, "http://localhost:3000", cfg.ClientURL)
	// Development falls back to an insecure local secret.
	assert.Equal(t, "dev-insecure-secret", cfg.JWTSecret)
}

func TestLoadConfigEnvOverrides(t *testing.T) {
	t.Setenv("CI", "")
	t.Setenv("ENV", "development")
	t.Setenv("SECRETS_DIR", t.TempDir())
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("DB_NAME", "otherdb")
	t.Setenv("CLIENT_URL", "https://app.example.com")
	t.Setenv("REDIS_DB", "3")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, "9090", cfg.ServerPort)
	assert.Equal(t, "otherdb", cfg.DBName)
	assert.Equal(t, "https://app.example.com", cfg.ClientURL)
	assert.Equal(t, 3, cfg.RedisDB)
}

func TestLoadConfigInvalidRedisDB(t *testing.T) {
	t.Setenv("CI", "")
	t.Setenv("ENV", "development")
	t.Setenv("SECRETS_DIR", t.TempDir())
	t.Setenv("REDIS_DB", "not-a-number")

	_, err := LoadConfig()
	assert.Error(t, err)
}

func TestLoadConfigReadsSecretFiles(t *testing.T) {
	secretsDir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(secretsDir, "jwt_secret"), []byte("secret-from-file\n"), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(secretsDir, "db_password"), []byte("pass-from-file"), 0o600))

	t.Setenv("CI", "")
	t.Setenv("ENV", "development")
	t.Setenv("SECRETS_DIR", secretsDir)
	t.Setenv("JWT_SECRET", "")
	t.Setenv("DB_PASSWORD", "")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, "secret-from-file", cfg.JWTSecret)
	assert.Equal(t, "pass-from-file", cfg.DBPassword)
}

func TestLoadConfigEnvBeatsSecretFile(t *testing.T) {
	secretsDir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(secretsDir, "jwt_secret"), []byte("secret-from-file"), 0o600))

	t.Setenv("CI", "")
	t.Setenv("ENV", "development")
	t.Setenv("SECRETS_DIR", secretsDir)
	t.Setenv("JWT_SECRET", "secret-from-env")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, "secret-from-env", cfg.JWTSecret)
}

func TestValidateConfigProductionRequiresSecrets(t *testing.T) {
	t.Setenv("CI", "")
	t.Setenv("ENV", "production")
	t.Setenv("SECRETS_DIR", t.TempDir())
	t.Setenv("JWT_SECRET", "")
	t.Setenv("DB_PASSWORD", "")

	_, err := LoadConfig()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "jwt_secret is required")
	assert.Contains(t, err.Error(), "db_password secret is required in production")
}

func TestGetEnvironment(t *testing.T) {
	t.Setenv("CI", "")

	t.Setenv("ENV", "production")
	assert.Equal(t, Production, GetEnvironment())
	assert.True(t, IsProduction())

	t.Setenv("ENV", "test")
	assert.Equal(t, Test, GetEnvironment())

	t.Setenv("ENV", "")
	assert.Equal(t, Development, GetEnvironment())

	t.Setenv("CI", "true")
	assert.Equal(t, CI, GetEnvironment())
	assert.True(t, IsCI())
}
