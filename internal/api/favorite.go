package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/pageza/recipevault/backend/internal/middleware"
	"github.com/pageza/recipevault/backend/internal/service"
)

type FavoriteHandler struct {
	favoriteService service.IFavoriteService
	authService     service.IAuthService
}

func NewFavoriteHandler(favoriteService service.IFavoriteService, authService service.IAuthService) *FavoriteHandler {
	return &FavoriteHandler{
		favoriteService: favoriteService,
		authService:     authService,
	}
}

func (h *FavoriteHandler) RegisterRoutes(router *gin.RouterGroup) {
	favorites := router.Group("/favorites")
	favorites.Use(middleware.AuthMiddleware(h.authService))
	{
		favorites.GET("", h.ListFavorites)
		favorites.POST("", h.AddFavorite)
		favorites.POST("/toggle", h.ToggleFavorite)
		favorites.DELETE("/:recipeId", h.RemoveFavorite)
		favorites.DELETE("", h.ClearFavorites)
		favorites.GET("/check/:recipeId", h.CheckFavorite)
	}
}

// favoriteRequest wraps the snapshot the way the front end sends it.
type favoriteRequest struct {
	Recipe service.RecipeSnapshot `json:"recipe"`
}

func (h *FavoriteHandler) ListFavorites(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	favorites, err := h.favoriteService.ListFavorites(c.Request.Context(), userID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"count":     len(favorites),
		"favorites": favorites,
	})
}

// AddFavorite rejects duplicates; the toggle endpoint below treats them as a
// removal instead. Callers rely on the difference.
func (h *FavoriteHandler) AddFavorite(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req favoriteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	favorite, err := h.favoriteService.AddFavorite(c.Request.Context(), userID, req.Recipe)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"favorite": favorite})
}

func (h *FavoriteHandler) ToggleFavorite(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req favoriteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	action, favorite, err := h.favoriteService.ToggleFavorite(c.Request.Context(), userID, req.Recipe)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	if action == service.ToggleAdded {
		c.JSON(http.StatusCreated, gin.H{
			"message":  "Added to favorites",
			"action":   action,
			"favorite": favorite,
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Removed from favorites",
		"action":  action,
	})
}

func (h *FavoriteHandler) RemoveFavorite(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	if err := h.favoriteService.RemoveFavorite(c.Request.Context(), userID, c.Param("recipeId")); err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Favorite removed"})
}

func (h *FavoriteHandler) ClearFavorites(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	if err := h.favoriteService.ClearFavorites(c.Request.Context(), userID); err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "All favorites removed"})
}

func (h *FavoriteHandler) CheckFavorite(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	isFavorited, err := h.favoriteService.CheckFavorite(c.Request.Context(), userID, c.Param("recipeId"))
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"isFavorited": isFavorited})
}
