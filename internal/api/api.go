package api

import (
	"context"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/pageza/recipevault/backend/config"
	"github.com/pageza/recipevault/backend/internal/database"
	"github.com/pageza/recipevault/backend/internal/middleware"
	"github.com/pageza/recipevault/backend/internal/service"
)

// HealthCheck returns the health status of the API
func HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"message": "Recipe Vault API is running",
		"version": "v1.0.0",
	})
}

// DBHealthCheck reports the API status including database reachability.
func DBHealthCheck(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := database.HealthCheck(c.Request.Context(), db); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status": "unhealthy",
				"error":  "database unreachable",
			})
			return
		}
		HealthCheck(c)
	}
}

// RegisterRoutes wires every handler into the router.
func RegisterRoutes(router *gin.Engine, db *gorm.DB, redisClient *redis.Client, cfg *config.Config) {
	// Health check endpoints (no auth required)
	router.GET("/health", HealthCheck)
	router.GET("/api/health", DBHealthCheck(db))

	authService := service.NewAuthService(db, cfg.JWTSecret)
	recipeService := service.NewRecipeService(db)
	favoriteService := service.NewFavoriteService(db)
	mealDBService := service.NewMealDBService(cfg.MealDBURL, redisClient)

	var creationLimiter, modificationLimiter *middleware.RateLimiter
	if redisClient != nil {
		creationLimiter = middleware.NewRecipeCreationRateLimiter(redisClient)
		modificationLimiter = middleware.NewRecipeModificationRateLimiter(redisClient)
	}

	v1 := router.Group("/api/v1")
	NewAuthHandler(authService).RegisterRoutes(v1)
	NewRecipeHandler(recipeService, authService, creationLimiter, modificationLimiter).RegisterRoutes(v1)
	NewFavoriteHandler(favoriteService, authService).RegisterRoutes(v1)
	NewLookupHandler(mealDBService).RegisterRoutes(v1)

	// S3 is optional: without explicit configuration the upload endpoints are
	// simply not mounted and recipes keep their placeholder image.
	if config.S3Configured() {
		s3Config, err := config.NewS3Config(context.Background())
		if err != nil {
			log.Printf("Warning: failed to initialize S3, image uploads disabled: %v", err)
			return
		}
		imageService := service.NewImageService(s3Config)
		NewImageHandler(imageService, authService).RegisterRoutes(v1)
	} else {
		log.Printf("S3 not configured, image uploads disabled")
	}
}
