package service

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/pageza/recipevault/backend/internal/models"
)

// Toggle outcomes reported to the caller.
const (
	ToggleAdded   = "added"
	ToggleRemoved = "removed"
)

// RecipeSnapshot is the denormalized payload a favorite is created from.
// ID is the recipe's identity in its own scheme; Source tags where the
// snapshot came from and is fixed at ingestion.
type RecipeSnapshot struct {
	ID           string     `json:"id"`
	RecipeID     *uuid.UUID `json:"recipeId,omitempty"`
	Name         string     `json:"name"`
	Category     string     `json:"category,omitempty"`
	Difficulty   string     `json:"difficulty,omitempty"`
	CookTime     int        `json:"cookTime,omitempty"`
	Servings     int        `json:"servings,omitempty"`
	Ingredients  []string   `json:"ingredients,omitempty"`
	Instructions []string   `json:"instructions,omitempty"`
	Image        string     `json:"image,omitempty"`
	Source       string     `json:"source,omitempty"`
}

// FavoriteService manages per-user favorites. Uniqueness of
// (user, recipe ref) is enforced by the storage layer, which is what makes
// concurrent toggles safe; the service never relies on its own check-then-act
// being the only writer.
type FavoriteService struct {
	db *gorm.DB
}

func NewFavoriteService(db *gorm.DB) *FavoriteService {
	return &FavoriteService{db: db}
}

// ListFavorites returns the user's favorites newest-first.
func (s *FavoriteService) ListFavorites(ctx context.Context, userID uuid.UUID) ([]models.Favorite, error) {
	var favorites []models.Favorite
	err := s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&favorites).Error
	if err != nil {
		return nil, err
	}
	return favorites, nil
}

// AddFavorite persists a snapshot, rejecting duplicates.
func (s *FavoriteService) AddFavorite(ctx context.Context, userID uuid.UUID, snap RecipeSnapshot) (*models.Favorite, error) {
	if err := validateSnapshot(snap); err != nil {
		return nil, err
	}

	var existing models.Favorite
	err := s.db.WithContext(ctx).
		Where("user_id = ? AND recipe_ref = ?", userID, snap.ID).
		First(&existing).Error
	if err == nil {
		return nil, ErrDuplicateFavorite
	}

	favorite := snapshotToFavorite(userID, snap)
	if err := s.db.WithContext(ctx).Create(favorite).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrDuplicateFavorite
		}
		return nil, err
	}
	return favorite, nil
}

// RemoveFavorite deletes by the recipe's own id.
func (s *FavoriteService) RemoveFavorite(ctx context.Context, userID uuid.UUID, recipeRef string) error {
	res := s.db.WithContext(ctx).
		Where("user_id = ? AND recipe_ref = ?", userID, recipeRef).
		Delete(&models.Favorite{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// ToggleFavorite removes the favorite when present, adds it otherwise, and
// reports which happened. The delete-first ordering plus the unique index
// guarantee that two near-simultaneous toggles for the same (user, recipe)
// can never both insert: the loser's insert hits the index and is resolved
// as a removal.
func (s *FavoriteService) ToggleFavorite(ctx context.Context, userID uuid.UUID, snap RecipeSnapshot) (string, *models.Favorite, error) {
	if err := validateSnapshot(snap); err != nil {
		return "", nil, err
	}

	res := s.db.WithContext(ctx).
		Where("user_id = ? AND recipe_ref = ?", userID, snap.ID).
		Delete(&models.Favorite{})
	if res.Error != nil {
		return "", nil, res.Error
	}
	if res.RowsAffected > 0 {
		return ToggleRemoved, nil, nil
	}

	favorite := snapshotToFavorite(userID, snap)
	if err := s.db.WithContext(ctx).Create(favorite).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			// A concurrent toggle inserted first; this call flips it back off.
			res := s.db.WithContext(ctx).
				Where("user_id = ? AND recipe_ref = ?", userID, snap.ID).
				Delete(&models.Favorite{})
			if res.Error != nil {
				return "", nil, res.Error
			}
			return ToggleRemoved, nil, nil
		}
		return "", nil, err
	}
	return ToggleAdded, favorite, nil
}

// CheckFavorite reports whether the user has favorited the recipe.
func (s *FavoriteService) CheckFavorite(ctx context.Context, userID uuid.UUID, recipeRef string) (bool, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&models.Favorite{}).
		Where("user_id = ? AND recipe_ref = ?", userID, recipeRef).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// ClearFavorites deletes every favorite owned by the user. Clearing an empty
// set succeeds.
func (s *FavoriteService) ClearFavorites(ctx context.Context, userID uuid.UUID) error {
	return s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Delete(&models.Favorite{}).Error
}

// maxRecipeRefLen matches the recipe_ref column width.
const maxRecipeRefLen = 64

func validateSnapshot(snap RecipeSnapshot) error {
	if snap.ID == "" || snap.Name == "" {
		return NewValidationError([]string{"Please provide recipe with id and name"})
	}
	if len(snap.ID) > maxRecipeRefLen {
		return NewValidationError([]string{"Recipe id cannot exceed 64 characters"})
	}
	return nil
}

func snapshotToFavorite(userID uuid.UUID, snap RecipeSnapshot) *models.Favorite {
	source := snap.Source
	if source != models.SourceUser && source != models.SourceAPI {
		if snap.RecipeID != nil {
			source = models.SourceUser
		} else {
			source = models.SourceAPI
		}
	}
	return &models.Favorite{
		UserID:       userID,
		RecipeRef:    snap.ID,
		RecipeID:     snap.RecipeID,
		Name:         snap.Name,
		Category:     snap.Category,
		Difficulty:   snap.Difficulty,
		CookTime:     snap.CookTime,
		Servings:     snap.Servings,
		Ingredients:  models.JSONBStringArray(snap.Ingredients),
		Instructions: models.JSONBStringArray(snap.Instructions),
		Image:        snap.Image,
		Source:       source,
	}
}
