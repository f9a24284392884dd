package testhelpers

import (
	"context"
	"fmt"
	"os/exec"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/pageza/recipevault/backend/internal/models"
	"github.com/pageza/recipevault/backend/internal/service"
)

// TestJWTSecret is the signing secret used throughout the test suite.
const TestJWTSecret = "test-jwt-secret"

// SetupTestDB creates an in-memory SQLite database with the full schema.
// TranslateError is on so unique-index violations surface as
// gorm.ErrDuplicatedKey, same as the postgres driver.
func SetupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:?cache=shared&_foreign_keys=on"), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}

	if err := db.AutoMigrate(&models.User{}, &models.Recipe{}, &models.Favorite{}); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}

	t.Cleanup(func() {
		// Shared-cache in-memory databases persist across connections; wipe
		// between tests.
		db.Exec("DELETE FROM favorites")
		db.Exec("DELETE FROM recipes")
		db.Exec("DELETE FROM users")
	})

	return db
}

// SetupPostgresTestDB starts a pgvector-enabled PostgreSQL container and
// returns a connected gorm DB. Skips when docker is unavailable.
func SetupPostgresTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	if _, err := exec.LookPath("docker"); err != nil {
		t.Skip("docker not installed, skipping container-based test")
	}

	ctx := context.Background()
	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "pgvector/pgvector:pg16",
			ExposedPorts: []string{"5432/tcp"},
			Env: map[string]string{
				"POSTGRES_USER":     "testuser",
				"POSTGRES_PASSWORD": "testpass",
				"POSTGRES_DB":       "testdb",
			},
			WaitingFor: wait.ForAll(
				wait.ForListeningPort("5432/tcp"),
				wait.ForLog("database system is ready to accept connections"),
			).WithStartupTimeout(60 * time.Second),
		},
		Started: true,
	})
	if err != nil {
		t.Fatalf("failed to start container: %v", err)
	}
	t.Cleanup(func() {
		if err := container.Terminate(ctx); err != nil {
			t.Logf("failed to terminate container: %v", err)
		}
	})

	host, err := container.Host(ctx)
	if err != nil {
		t.Fatalf("failed to get container host: %v", err)
	}
	mappedPort, err := container.MappedPort(ctx, "5432")
	if err != nil {
		t.Fatalf("failed to get container port: %v", err)
	}

	dsn := fmt.Sprintf("host=%s port=%s user=testuser password=testpass dbname=testdb sslmode=disable",
		host, mappedPort.Port())
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to connect to test database: %v", err)
	}

	if err := db.Exec("CREATE EXTENSION IF NOT EXISTS vector").Error; err != nil {
		t.Fatalf("failed to enable pgvector: %v", err)
	}
	if err := db.AutoMigrate(&models.User{}, &models.Recipe{}, &models.Favorite{}); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}

	return db
}

// CreateTestUser registers a user with a unique email and returns it.
func CreateTestUser(t *testing.T, db *gorm.DB) *models.User {
	t.Helper()

	authService := service.NewAuthService(db, TestJWTSecret)
	email := fmt.Sprintf("user-%s@example.com", uuid.NewString()[:8])
	user, _, err := authService.Register(context.Background(), "Test User", email, "password123")
	if err != nil {
		t.Fatalf("failed to create test user: %v", err)
	}
	return user
}

// CreateTestUserAndToken registers a user and returns it with a valid token.
func CreateTestUserAndToken(t *testing.T, db *gorm.DB) (*models.User, string) {
	t.Helper()

	authService := service.NewAuthService(db, TestJWTSecret)
	email := fmt.Sprintf("user-%s@example.com", uuid.NewString()[:8])
	user, token, err := authService.Register(context.Background(), "Test User", email, "password123")
	if err != nil {
		t.Fatalf("failed to create test user: %v", err)
	}
	return user, token
}
