package api_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/pageza/recipevault/backend/internal/api"
	"github.com/pageza/recipevault/backend/internal/service"
	"github.com/pageza/recipevault/backend/internal/testhelpers"
)

func setupTestRouter(t *testing.T, mealDBURL string) (*gin.Engine, *gorm.DB) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db := testhelpers.SetupTestDB(t)
	router := gin.New()

	authService := service.NewAuthService(db, testhelpers.TestJWTSecret)
	recipeService := service.NewRecipeService(db)
	favoriteService := service.NewFavoriteService(db)
	mealDBService := service.NewMealDBService(mealDBURL, nil)

	router.GET("/health", api.HealthCheck)
	v1 := router.Group("/api/v1")
	api.NewAuthHandler(authService).RegisterRoutes(v1)
	api.NewRecipeHandler(recipeService, authService, nil, nil).RegisterRoutes(v1)
	api.NewFavoriteHandler(favoriteService, authService).RegisterRoutes(v1)
	api.NewLookupHandler(mealDBService).RegisterRoutes(v1)

	return router, db
}

// doRequest performs a request against the router and decodes the JSON body.
func doRequest(t *testing.T, router *gin.Engine, method, path, token string, body interface{}) (int, map[string]json.RawMessage) {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("failed to marshal request body: %v", err)
		}
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	var payload map[string]json.RawMessage
	if len(w.Body.Bytes()) > 0 {
		if err := json.Unmarshal(w.Body.Bytes(), &payload); err != nil {
			t.Fatalf("failed to decode response %q: %v", w.Body.String(), err)
		}
	}
	return w.Code, payload
}

func rawString(t *testing.T, raw json.RawMessage) string {
	t.Helper()
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		t.Fatalf("failed to decode string: %v", err)
	}
	return s
}

func registerUser(t *testing.T, router *gin.Engine, name, email string) string {
	t.Helper()
	code, payload := doRequest(t, router, http.MethodPost, "/api/v1/auth/register", "", map[string]string{
		"name":     name,
		"email":    email,
		"password": "password123",
	})
	if code != http.StatusCreated {
		t.Fatalf("registration failed with status %d: %v", code, payload)
	}
	return rawString(t, payload["token"])
}
