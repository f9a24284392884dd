package service

import (
	"context"

	"github.com/google/uuid"

	"github.com/pageza/recipevault/backend/internal/models"
	"github.com/pageza/recipevault/backend/internal/types"
)

// IAuthService defines the interface for authentication operations
type IAuthService interface {
	Register(ctx context.Context, name, email, password string) (*models.User, string, error)
	Login(ctx context.Context, email, password string) (*models.User, string, error)
	GetUserByID(ctx context.Context, userID uuid.UUID) (*models.User, error)
	GenerateToken(userID uuid.UUID) (string, error)
	ValidateToken(token string) (*types.TokenClaims, error)
}

// IRecipeService defines the interface for recipe operations
type IRecipeService interface {
	ListRecipes(ctx context.Context, userID uuid.UUID, opts ListRecipesOptions) ([]models.Recipe, error)
	GetRecipe(ctx context.Context, userID, recipeID uuid.UUID) (*models.Recipe, error)
	CreateRecipe(ctx context.Context, userID uuid.UUID, in RecipeInput) (*models.Recipe, error)
	UpdateRecipe(ctx context.Context, userID, recipeID uuid.UUID, upd RecipeUpdate) (*models.Recipe, error)
	DeleteRecipe(ctx context.Context, userID, recipeID uuid.UUID) error
}

// IFavoriteService defines the interface for favorite operations
type IFavoriteService interface {
	ListFavorites(ctx context.Context, userID uuid.UUID) ([]models.Favorite, error)
	AddFavorite(ctx context.Context, userID uuid.UUID, snap RecipeSnapshot) (*models.Favorite, error)
	RemoveFavorite(ctx context.Context, userID uuid.UUID, recipeRef string) error
	ToggleFavorite(ctx context.Context, userID uuid.UUID, snap RecipeSnapshot) (string, *models.Favorite, error)
	CheckFavorite(ctx context.Context, userID uuid.UUID, recipeRef string) (bool, error)
	ClearFavorites(ctx context.Context, userID uuid.UUID) error
}

// IMealDBService defines the interface for external recipe lookups
type IMealDBService interface {
	SearchMeals(ctx context.Context, term string) ([]Meal, error)
	RandomMeal(ctx context.Context) (Meal, error)
	MealByID(ctx context.Context, id string) (Meal, error)
}

// IImageService defines the interface for recipe image storage
type IImageService interface {
	UploadRecipeImage(ctx context.Context, data []byte, contentType string) (string, error)
	GetImageURL(ctx context.Context, key string) (string, error)
}
