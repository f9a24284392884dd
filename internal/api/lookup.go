package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/pageza/recipevault/backend/internal/service"
)

// LookupHandler proxies the external recipe API. Results keep the upstream's
// native shape and are never owned by a user; clients must treat them as a
// separate variant from internal recipes.
type LookupHandler struct {
	mealDBService service.IMealDBService
}

func NewLookupHandler(mealDBService service.IMealDBService) *LookupHandler {
	return &LookupHandler{mealDBService: mealDBService}
}

func (h *LookupHandler) RegisterRoutes(router *gin.RouterGroup) {
	lookup := router.Group("/lookup")
	{
		lookup.GET("/search", h.SearchMeals)
		lookup.GET("/random", h.RandomMeal)
		lookup.GET("/meals/:id", h.MealByID)
	}
}

func (h *LookupHandler) SearchMeals(c *gin.Context) {
	meals, err := h.mealDBService.SearchMeals(c.Request.Context(), c.Query("q"))
	if err != nil {
		respondServiceError(c, err)
		return
	}

	// No match is an empty list, not an error.
	c.JSON(http.StatusOK, gin.H{
		"count": len(meals),
		"meals": meals,
	})
}

func (h *LookupHandler) RandomMeal(c *gin.Context) {
	meal, err := h.mealDBService.RandomMeal(c.Request.Context())
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"meal": meal})
}

func (h *LookupHandler) MealByID(c *gin.Context) {
	meal, err := h.mealDBService.MealByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"meal": meal})
}
