package models

import (
	"database/sql/driver"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	pgvector "github.com/pgvector/pgvector-go"
	"gorm.io/gorm"
)

// DefaultRecipeImage is used when a recipe is created without an image URL.
const DefaultRecipeImage = "https://via.placeholder.com/150"

// RecipeCategories are the accepted values for Recipe.Category.
var RecipeCategories = []string{
	"Italian", "Mexican", "Indian", "Chinese", "American", "Greek",
	"Japanese", "Dessert", "Salad", "Breakfast", "Lunch", "Dinner",
}

// RecipeDifficulties are the accepted values for Recipe.Difficulty.
var RecipeDifficulties = []string{"Easy", "Medium", "Hard"}

// JSONBStringArray is a custom type for handling string arrays in JSONB
type JSONBStringArray []string

// Value implements the driver.Valuer interface
func (a JSONBStringArray) Value() (driver.Value, error) {
	if len(a) == 0 {
		return "[]", nil
	}
	return json.Marshal(a)
}

// Scan implements the sql.Scanner interface
func (a *JSONBStringArray) Scan(value interface{}) error {
	if value == nil {
		*a = JSONBStringArray{}
		return nil
	}

	var bytes []byte
	switch v := value.(type) {
	case []byte:
		bytes = v
	case string:
		bytes = []byte(v)
	default:
		return nil
	}

	return json.Unmarshal(bytes, a)
}

type Recipe struct {
	ID           uuid.UUID        `gorm:"type:varchar(36);primarykey" json:"id"`
	CreatedAt    time.Time        `json:"created_at"`
	UpdatedAt    time.Time        `json:"updated_at"`
	DeletedAt    gorm.DeletedAt   `gorm:"index" json:"-"`
	UserID       uuid.UUID        `gorm:"type:varchar(36);not null;index:idx_recipes_user_created,priority:1" json:"user_id"`
	Name         string           `gorm:"size:100;not null" json:"name"`
	Category     string           `gorm:"size:50;not null;index" json:"category"`
	Difficulty   string           `gorm:"size:10;not null" json:"difficulty"`
	CookingTime  int              `gorm:"not null" json:"cookingTime"`
	Servings     int              `gorm:"not null" json:"servings"`
	Ingredients  JSONBStringArray `gorm:"type:jsonb;not null;default:'[]'" json:"ingredients"`
	Instructions JSONBStringArray `gorm:"type:jsonb;not null;default:'[]'" json:"instructions"`
	Image        string           `gorm:"size:255" json:"image"`
	Embedding    pgvector.Vector  `gorm:"type:vector(3)" json:"-"`
}

func (r *Recipe) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	if r.Image == "" {
		r.Image = DefaultRecipeImage
	}
	return nil
}
