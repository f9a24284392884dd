package api_test

import (
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/pageza/recipevault/backend/config"
	"github.com/pageza/recipevault/backend/internal/api"
	"github.com/pageza/recipevault/backend/internal/testhelpers"
)

func newFullRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db := testhelpers.SetupTestDB(t)
	router := gin.New()
	api.RegisterRoutes(router, db, nil, &config.Config{
		JWTSecret: testhelpers.TestJWTSecret,
	})
	return router
}

func TestImageRoutesNotMountedWithoutS3(t *testing.T) {
	t.Setenv("S3_BUCKET_NAME", "")
	t.Setenv("AWS_REGION", "")

	router := newFullRouter(t)

	// Without explicit S3 configuration the image endpoints do not exist at
	// all, rather than mounting and failing at request time.
	code, _ := doRequest(t, router, http.MethodPost, "/api/v1/images", "", nil)
	assert.Equal(t, http.StatusNotFound, code)

	code, _ = doRequest(t, router, http.MethodGet, "/api/v1/images/url?key=recipe-images/x.jpg", "", nil)
	assert.Equal(t, http.StatusNotFound, code)
}

func TestImageRoutesMountedWithS3(t *testing.T) {
	t.Setenv("S3_BUCKET_NAME", "test-bucket")
	t.Setenv("AWS_REGION", "us-east-1")

	router := newFullRouter(t)

	// With configuration present the route exists and is guarded by auth.
	code, _ := doRequest(t, router, http.MethodPost, "/api/v1/images", "", nil)
	assert.Equal(t, http.StatusUnauthorized, code)
}

func TestDBHealthEndpoint(t *testing.T) {
	t.Setenv("S3_BUCKET_NAME", "")
	t.Setenv("AWS_REGION", "")

	router := newFullRouter(t)

	code, payload := doRequest(t, router, http.MethodGet, "/api/health", "", nil)
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "healthy", rawString(t, payload["status"]))
}
