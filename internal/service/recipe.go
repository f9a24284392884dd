package service

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/pageza/recipevault/backend/internal/models"
)

// RecipeInput carries the writable recipe fields of a create request.
type RecipeInput struct {
	Name         string   `json:"name"`
	Category     string   `json:"category"`
	Difficulty   string   `json:"difficulty"`
	CookingTime  int      `json:"cookingTime"`
	Servings     int      `json:"servings"`
	Ingredients  []string `json:"ingredients"`
	Instructions []string `json:"instructions"`
	Image        string   `json:"image"`
}

// RecipeUpdate carries a partial update; nil fields are left untouched.
type RecipeUpdate struct {
	Name         *string   `json:"name"`
	Category     *string   `json:"category"`
	Difficulty   *string   `json:"difficulty"`
	CookingTime  *int      `json:"cookingTime"`
	Servings     *int      `json:"servings"`
	Ingredients  *[]string `json:"ingredients"`
	Instructions *[]string `json:"instructions"`
	Image        *string   `json:"image"`
}

// ListRecipesOptions narrows a recipe listing.
type ListRecipesOptions struct {
	Query    string
	Category string
}

// RecipeService handles recipe operations. Every method enforces ownership:
// a recipe is only ever visible to the user that created it.
type RecipeService struct {
	db *gorm.DB
}

func NewRecipeService(db *gorm.DB) *RecipeService {
	return &RecipeService{db: db}
}

// ListRecipes returns the user's recipes newest-first. A search query orders
// by embedding distance on postgres and falls back to LIKE elsewhere.
func (s *RecipeService) ListRecipes(ctx context.Context, userID uuid.UUID, opts ListRecipesOptions) ([]models.Recipe, error) {
	query := s.db.WithContext(ctx).Where("user_id = ?", userID)

	if opts.Query != "" {
		if s.db.Dialector.Name() == "postgres" {
			vec := GenerateEmbedding(opts.Query)
			query = query.Clauses(clause.OrderBy{
				Expression: clause.Expr{SQL: "embedding <-> ?", Vars: []interface{}{vec}},
			})
		} else {
			like := "%" + strings.ToLower(opts.Query) + "%"
			query = query.Where("LOWER(name) LIKE ?", like).Order("created_at DESC")
		}
	} else {
		query = query.Order("created_at DESC")
	}

	if opts.Category != "" {
		query = query.Where("category = ?", opts.Category)
	}

	var recipes []models.Recipe
	if err := query.Find(&recipes).Error; err != nil {
		return nil, err
	}
	return recipes, nil
}

// GetRecipe retrieves one of the user's recipes. A recipe owned by someone
// else is reported as absent so ids cannot be probed.
func (s *RecipeService) GetRecipe(ctx context.Context, userID, recipeID uuid.UUID) (*models.Recipe, error) {
	var recipe models.Recipe
	err := s.db.WithContext(ctx).Where("id = ? AND user_id = ?", recipeID, userID).First(&recipe).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &recipe, nil
}

// CreateRecipe validates every field and persists the recipe for the user.
func (s *RecipeService) CreateRecipe(ctx context.Context, userID uuid.UUID, in RecipeInput) (*models.Recipe, error) {
	if err := validateRecipe(in); err != nil {
		return nil, err
	}

	recipe := models.Recipe{
		UserID:       userID,
		Name:         strings.TrimSpace(in.Name),
		Category:     in.Category,
		Difficulty:   in.Difficulty,
		CookingTime:  in.CookingTime,
		Servings:     in.Servings,
		Ingredients:  models.JSONBStringArray(in.Ingredients),
		Instructions: models.JSONBStringArray(in.Instructions),
		Image:        in.Image,
		Embedding:    GenerateEmbedding(in.Name),
	}
	if err := s.db.WithContext(ctx).Create(&recipe).Error; err != nil {
		return nil, err
	}
	return &recipe, nil
}

// UpdateRecipe applies a partial update after re-validating the changed
// fields. Absent recipes yield ErrNotFound; recipes owned by another user
// yield ErrNotOwner.
func (s *RecipeService) UpdateRecipe(ctx context.Context, userID, recipeID uuid.UUID, upd RecipeUpdate) (*models.Recipe, error) {
	var recipe models.Recipe
	if err := s.db.WithContext(ctx).First(&recipe, "id = ?", recipeID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if recipe.UserID != userID {
		return nil, ErrNotOwner
	}

	if err := validateRecipeUpdate(upd); err != nil {
		return nil, err
	}

	if upd.Name != nil {
		recipe.Name = strings.TrimSpace(*upd.Name)
		recipe.Embedding = GenerateEmbedding(recipe.Name)
	}
	if upd.Category != nil {
		recipe.Category = *upd.Category
	}
	if upd.Difficulty != nil {
		recipe.Difficulty = *upd.Difficulty
	}
	if upd.CookingTime != nil {
		recipe.CookingTime = *upd.CookingTime
	}
	if upd.Servings != nil {
		recipe.Servings = *upd.Servings
	}
	if upd.Ingredients != nil {
		recipe.Ingredients = models.JSONBStringArray(*upd.Ingredients)
	}
	if upd.Instructions != nil {
		recipe.Instructions = models.JSONBStringArray(*upd.Instructions)
	}
	if upd.Image != nil {
		recipe.Image = *upd.Image
	}

	if err := s.db.WithContext(ctx).Save(&recipe).Error; err != nil {
		return nil, err
	}
	return &recipe, nil
}

// DeleteRecipe removes one of the user's recipes. Deleting an already-gone
// recipe fails with ErrNotFound, which makes retries observable but harmless.
func (s *RecipeService) DeleteRecipe(ctx context.Context, userID, recipeID uuid.UUID) error {
	var recipe models.Recipe
	if err := s.db.WithContext(ctx).First(&recipe, "id = ?", recipeID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return err
	}
	if recipe.UserID != userID {
		return ErrNotOwner
	}
	return s.db.WithContext(ctx).Delete(&recipe).Error
}

func validateRecipe(in RecipeInput) error {
	var msgs []string

	name := strings.TrimSpace(in.Name)
	switch {
	case name == "":
		msgs = append(msgs, "Please enter recipe name")
	case len(name) < 3:
		msgs = append(msgs, "Recipe name must be at least 3 characters long")
	case len(name) > 100:
		msgs = append(msgs, "Recipe name cannot exceed 100 characters")
	}

	if in.Category == "" {
		msgs = append(msgs, "Please enter recipe category")
	} else if !contains(models.RecipeCategories, in.Category) {
		msgs = append(msgs, "Please select a valid category")
	}

	if in.Difficulty == "" {
		msgs = append(msgs, "Please enter recipe difficulty")
	} else if !contains(models.RecipeDifficulties, in.Difficulty) {
		msgs = append(msgs, "Difficulty must be Easy, Medium, or Hard")
	}

	switch {
	case in.CookingTime == 0:
		msgs = append(msgs, "Please enter cooking time in minutes")
	case in.CookingTime < 1:
		msgs = append(msgs, "Cooking time must be at least 1 minute")
	case in.CookingTime > 1440:
		msgs = append(msgs, "Cooking time cannot exceed 1440 minutes (24 hours)")
	}

	switch {
	case in.Servings == 0:
		msgs = append(msgs, "Please enter number of servings")
	case in.Servings < 1:
		msgs = append(msgs, "Servings must be at least 1")
	case in.Servings > 100:
		msgs = append(msgs, "Servings cannot exceed 100")
	}

	if len(in.Ingredients) == 0 {
		msgs = append(msgs, "At least one ingredient is required")
	}
	if len(in.Instructions) == 0 {
		msgs = append(msgs, "At least one instruction step is required")
	}

	return NewValidationError(msgs)
}

func validateRecipeUpdate(upd RecipeUpdate) error {
	// Re-validate only the fields the caller is changing. Build a synthetic
	// input that passes on the untouched fields.
	in := RecipeInput{
		Name:         "placeholder",
		Category:     models.RecipeCategories[0],
		Difficulty:   models.RecipeDifficulties[0],
		CookingTime:  1,
		Servings:     1,
		Ingredients:  []string{"x"},
		Instructions: []string{"x"},
	}
	if upd.Name != nil {
		in.Name = *upd.Name
	}
	if upd.Category != nil {
		in.Category = *upd.Category
	}
	if upd.Difficulty != nil {
		in.Difficulty = *upd.Difficulty
	}
	if upd.CookingTime != nil {
		in.CookingTime = *upd.CookingTime
	}
	if upd.Servings != nil {
		in.Servings = *upd.Servings
	}
	if upd.Ingredients != nil {
		in.Ingredients = *upd.Ingredients
	}
	if upd.Instructions != nil {
		in.Instructions = *upd.Instructions
	}
	return validateRecipe(in)
}

func contains(values []string, v string) bool {
	for _, candidate := range values {
		if candidate == v {
			return true
		}
	}
	return false
}
