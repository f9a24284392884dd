package api_test

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegisterEndpoint(t *testing.T) {
	router, _ := setupTestRouter(t, "")

	code, payload := doRequest(t, router, http.MethodPost, "/api/v1/auth/register", "", map[string]string{
		"name":     "Alice",
		"email":    "alice@example.com",
		"password": "password123",
	})

	require.Equal(t, http.StatusCreated, code)
	assert.NotEmpty(t, rawString(t, payload["token"]))
	// The user payload never contains the password or its hash.
	assert.NotContains(t, string(payload["user"]), "password")
	assert.NotContains(t, string(payload["user"]), "hash")
}

func TestRegisterEndpointMissingFields(t *testing.T) {
	router, _ := setupTestRouter(t, "")

	code, payload := doRequest(t, router, http.MethodPost, "/api/v1/auth/register", "", map[string]string{
		"email": "alice@example.com",
	})

	require.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "Please provide name, email, and password", rawString(t, payload["error"]))
}

func TestRegisterEndpointDuplicateEmail(t *testing.T) {
	router, _ := setupTestRouter(t, "")
	registerUser(t, router, "Alice", "alice@example.com")

	code, payload := doRequest(t, router, http.MethodPost, "/api/v1/auth/register", "", map[string]string{
		"name":     "Other Alice",
		"email":    "alice@example.com",
		"password": "different456",
	})

	require.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "User already exists with this email", rawString(t, payload["error"]))
}

func TestLoginEndpoint(t *testing.T) {
	router, _ := setupTestRouter(t, "")
	registerUser(t, router, "Alice", "alice@example.com")

	code, payload := doRequest(t, router, http.MethodPost, "/api/v1/auth/login", "", map[string]string{
		"email":    "alice@example.com",
		"password": "password123",
	})

	require.Equal(t, http.StatusOK, code)
	assert.NotEmpty(t, rawString(t, payload["token"]))
}

func TestLoginEndpointBadCredentials(t *testing.T) {
	router, _ := setupTestRouter(t, "")
	registerUser(t, router, "Alice", "alice@example.com")

	code, payload := doRequest(t, router, http.MethodPost, "/api/v1/auth/login", "", map[string]string{
		"email":    "alice@example.com",
		"password": "wrong-password",
	})

	require.Equal(t, http.StatusUnauthorized, code)
	assert.Equal(t, "Invalid email or password", rawString(t, payload["error"]))
}

func TestMeEndpoint(t *testing.T) {
	router, _ := setupTestRouter(t, "")
	token := registerUser(t, router, "Alice", "alice@example.com")

	code, payload := doRequest(t, router, http.MethodGet, "/api/v1/auth/me", token, nil)

	require.Equal(t, http.StatusOK, code)
	assert.Contains(t, string(payload["user"]), "alice@example.com")
}

func TestMeEndpointRequiresToken(t *testing.T) {
	router, _ := setupTestRouter(t, "")

	code, _ := doRequest(t, router, http.MethodGet, "/api/v1/auth/me", "", nil)
	assert.Equal(t, http.StatusUnauthorized, code)

	code, _ = doRequest(t, router, http.MethodGet, "/api/v1/auth/me", "garbage-token", nil)
	assert.Equal(t, http.StatusUnauthorized, code)
}
