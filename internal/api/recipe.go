package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/pageza/recipevault/backend/internal/middleware"
	"github.com/pageza/recipevault/backend/internal/service"
)

type RecipeHandler struct {
	recipeService       service.IRecipeService
	authService         service.IAuthService
	creationLimiter     *middleware.RateLimiter
	modificationLimiter *middleware.RateLimiter
}

func NewRecipeHandler(recipeService service.IRecipeService, authService service.IAuthService, creationLimiter, modificationLimiter *middleware.RateLimiter) *RecipeHandler {
	return &RecipeHandler{
		recipeService:       recipeService,
		authService:         authService,
		creationLimiter:     creationLimiter,
		modificationLimiter: modificationLimiter,
	}
}

func (h *RecipeHandler) RegisterRoutes(router *gin.RouterGroup) {
	recipes := router.Group("/recipes")
	recipes.Use(middleware.AuthMiddleware(h.authService))
	{
		recipes.GET("", h.ListRecipes)
		recipes.GET("/:id", h.GetRecipe)

		create := []gin.HandlerFunc{h.CreateRecipe}
		if h.creationLimiter != nil {
			create = append([]gin.HandlerFunc{h.creationLimiter.RateLimitMiddleware()}, create...)
		}
		recipes.POST("", create...)

		update := []gin.HandlerFunc{h.UpdateRecipe}
		remove := []gin.HandlerFunc{h.DeleteRecipe}
		if h.modificationLimiter != nil {
			limiter := h.modificationLimiter.RateLimitMiddleware()
			update = append([]gin.HandlerFunc{limiter}, update...)
			remove = append([]gin.HandlerFunc{limiter}, remove...)
		}
		recipes.PUT("/:id", update...)
		recipes.DELETE("/:id", remove...)
	}
}

func (h *RecipeHandler) ListRecipes(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	opts := service.ListRecipesOptions{
		Query:    c.Query("q"),
		Category: c.Query("category"),
	}

	recipes, err := h.recipeService.ListRecipes(c.Request.Context(), userID, opts)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"count":   len(recipes),
		"recipes": recipes,
	})
}

func (h *RecipeHandler) GetRecipe(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	recipeID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Recipe not found"})
		return
	}

	recipe, err := h.recipeService.GetRecipe(c.Request.Context(), userID, recipeID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"recipe": recipe})
}

func (h *RecipeHandler) CreateRecipe(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var in service.RecipeInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	recipe, err := h.recipeService.CreateRecipe(c.Request.Context(), userID, in)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"recipe": recipe})
}

func (h *RecipeHandler) UpdateRecipe(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	recipeID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Recipe not found"})
		return
	}

	var upd service.RecipeUpdate
	if err := c.ShouldBindJSON(&upd); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	recipe, err := h.recipeService.UpdateRecipe(c.Request.Context(), userID, recipeID, upd)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"recipe": recipe})
}

func (h *RecipeHandler) DeleteRecipe(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	recipeID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Recipe not found"})
		return
	}

	if err := h.recipeService.DeleteRecipe(c.Request.Context(), userID, recipeID); err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Recipe deleted successfully",
		"id":      recipeID.String(),
	})
}
