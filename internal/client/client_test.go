package client_test

import (
	"context"
	"encoding/json"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pageza/recipevault/backend/internal/api"
	"github.com/pageza/recipevault/backend/internal/client"
	"github.com/pageza/recipevault/backend/internal/service"
	"github.com/pageza/recipevault/backend/internal/testhelpers"
)

func startTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db := testhelpers.SetupTestDB(t)
	router := gin.New()

	authService := service.NewAuthService(db, testhelpers.TestJWTSecret)
	recipeService := service.NewRecipeService(db)
	favoriteService := service.NewFavoriteService(db)

	v1 := router.Group("/api/v1")
	api.NewAuthHandler(authService).RegisterRoutes(v1)
	api.NewRecipeHandler(recipeService, authService, nil, nil).RegisterRoutes(v1)
	api.NewFavoriteHandler(favoriteService, authService).RegisterRoutes(v1)

	server := httptest.NewServer(router)
	t.Cleanup(server.Close)
	return server
}

func TestClientSessionLifecycle(t *testing.T) {
	server := startTestServer(t)
	store := client.NewMemoryStore()
	c := client.New(server.URL, store)
	ctx := context.Background()

	assert.Empty(t, c.Token())
	assert.Nil(t, c.CurrentUser())

	user, err := c.Register(ctx, "Alice", "alice@example.com", "password123")
	require.NoError(t, err)
	assert.Equal(t, "alice@example.com", user.Email)
	assert.NotEmpty(t, c.Token())
	require.NotNil(t, c.CurrentUser())
	assert.Equal(t, user.ID, c.Cache().UserID())

	me, err := c.Me(ctx)
	require.NoError(t, err)
	assert.Equal(t, user.ID, me.ID)

	c.Logout()
	assert.Empty(t, c.Token())
	assert.Nil(t, c.CurrentUser())
	assert.Empty(t, c.Cache().UserID())

	_, err = c.Login(ctx, "alice@example.com", "password123")
	require.NoError(t, err)
	assert.NotEmpty(t, c.Token())
}

func TestClientRecipeFlow(t *testing.T) {
	server := startTestServer(t)
	c := client.New(server.URL, client.NewMemoryStore())
	ctx := context.Background()

	_, err := c.Register(ctx, "Alice", "alice@example.com", "password123")
	require.NoError(t, err)

	created, err := c.CreateRecipe(ctx, client.Recipe{
		Name:         "Pancakes",
		Category:     "Breakfast",
		Difficulty:   "Easy",
		CookingTime:  20,
		Servings:     2,
		Ingredients:  []string{"flour", "milk", "eggs"},
		Instructions: []string{"Mix", "Fry"},
	})
	require.NoError(t, err)
	require.NotEmpty(t, created.ID)

	recipes, err := c.ListRecipes(ctx, "", "")
	require.NoError(t, err)
	require.Len(t, recipes, 1)
	assert.Equal(t, created.ID, recipes[0].ID)

	updated, err := c.UpdateRecipe(ctx, created.ID, map[string]interface{}{"servings": 6})
	require.NoError(t, err)
	assert.Equal(t, 6, updated.Servings)

	require.NoError(t, c.DeleteRecipe(ctx, created.ID))

	recipes, err = c.ListRecipes(ctx, "", "")
	require.NoError(t, err)
	assert.Empty(t, recipes)
}

func TestClientFavoriteToggleSyncsCache(t *testing.T) {
	server := startTestServer(t)
	c := client.New(server.URL, client.NewMemoryStore())
	ctx := context.Background()

	_, err := c.Register(ctx, "Alice", "alice@example.com", "password123")
	require.NoError(t, err)

	meal := json.RawMessage(`{"idMeal":"52772","strMeal":"Teriyaki Chicken Casserole"}`)

	added, err := c.ToggleFavorite(ctx, meal)
	require.NoError(t, err)
	assert.True(t, added)
	assert.True(t, c.Cache().Contains("52772"))

	isFavorited, err := c.CheckFavorite(ctx, "52772")
	require.NoError(t, err)
	assert.True(t, isFavorited)

	favorites, err := c.ListFavorites(ctx)
	require.NoError(t, err)
	require.Len(t, favorites, 1)
	assert.Equal(t, "52772", favorites[0].RecipeRef)
	assert.Equal(t, "Teriyaki Chicken Casserole", favorites[0].Name)

	added, err = c.ToggleFavorite(ctx, meal)
	require.NoError(t, err)
	assert.False(t, added)
	assert.False(t, c.Cache().Contains("52772"))

	isFavorited, err = c.CheckFavorite(ctx, "52772")
	require.NoError(t, err)
	assert.False(t, isFavorited)
}

func TestClientValidationError(t *testing.T) {
	server := startTestServer(t)
	c := client.New(server.URL, client.NewMemoryStore())
	ctx := context.Background()

	_, err := c.Register(ctx, "Alice", "alice@example.com", "password123")
	require.NoError(t, err)

	_, err = c.CreateRecipe(ctx, client.Recipe{Name: "ab"})
	var apiErr *client.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, 400, apiErr.StatusCode)
	assert.Equal(t, "Validation Error", apiErr.Message)
	assert.NotEmpty(t, apiErr.Errors)
}

func TestClientUnauthorizedForcesLogout(t *testing.T) {
	server := startTestServer(t)
	store := client.NewMemoryStore()
	c := client.New(server.URL, store)
	ctx := context.Background()

	_, err := c.Register(ctx, "Alice", "alice@example.com", "password123")
	require.NoError(t, err)
	require.NoError(t, store.Set("token", []byte(`"tampered-token"`)))

	_, err = c.ListRecipes(ctx, "", "")
	assert.ErrorIs(t, err, client.ErrUnauthorized)

	// The 401 cleared the session and the in-memory cache.
	assert.Empty(t, c.Token())
	assert.Nil(t, c.CurrentUser())
	assert.Empty(t, c.Cache().UserID())
}

func TestClientUserSwitchDoesNotLeakFavorites(t *testing.T) {
	server := startTestServer(t)
	store := client.NewMemoryStore()
	c := client.New(server.URL, store)
	ctx := context.Background()

	_, err := c.Register(ctx, "Alice", "alice@example.com", "password123")
	require.NoError(t, err)
	_, err = c.ToggleFavorite(ctx, json.RawMessage(`{"idMeal":"52772","strMeal":"Teriyaki Chicken Casserole"}`))
	require.NoError(t, err)
	require.True(t, c.Cache().Contains("52772"))

	c.Logout()

	_, err = c.Register(ctx, "Bob", "bob@example.com", "password123")
	require.NoError(t, err)
	assert.False(t, c.Cache().Contains("52772"))
	assert.Empty(t, c.Cache().Entries())

	// Logging back in as the first user restores their cached favorites.
	c.Logout()
	_, err = c.Login(ctx, "alice@example.com", "password123")
	require.NoError(t, err)
	assert.True(t, c.Cache().Contains("52772"))
}
