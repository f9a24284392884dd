package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Favorite snapshot sources. The tag is set once when the snapshot is
// ingested and never re-derived afterwards.
const (
	SourceUser = "user"
	SourceAPI  = "api"
)

// Favorite is a user's bookmark of a recipe. It stores a denormalized
// snapshot rather than a live reference, so favorites of external recipes
// survive upstream changes and favorites of internal recipes survive
// deletion of the original.
//
// RecipeRef carries the saved recipe's identity in its own id scheme:
// the internal UUID string for user recipes, the upstream id for API
// recipes. The composite unique index makes concurrent toggles safe.
type Favorite struct {
	ID           uuid.UUID        `gorm:"type:varchar(36);primarykey" json:"id"`
	CreatedAt    time.Time        `json:"created_at"`
	UpdatedAt    time.Time        `json:"updated_at"`
	UserID       uuid.UUID        `gorm:"type:varchar(36);not null;uniqueIndex:idx_favorites_user_ref,priority:1" json:"user_id"`
	RecipeRef    string           `gorm:"size:64;not null;uniqueIndex:idx_favorites_user_ref,priority:2" json:"recipe_ref"`
	RecipeID     *uuid.UUID       `gorm:"type:varchar(36)" json:"recipe_id,omitempty"`
	Name         string           `gorm:"size:255;not null" json:"name"`
	Category     string           `gorm:"size:50" json:"category,omitempty"`
	Difficulty   string           `gorm:"size:10" json:"difficulty,omitempty"`
	CookTime     int              `json:"cook_time,omitempty"`
	Servings     int              `json:"servings,omitempty"`
	Ingredients  JSONBStringArray `gorm:"type:jsonb" json:"ingredients,omitempty"`
	Instructions JSONBStringArray `gorm:"type:jsonb" json:"instructions,omitempty"`
	Image        string           `gorm:"size:255" json:"image,omitempty"`
	Source       string           `gorm:"size:10;not null;default:'user'" json:"source"`
}

func (Favorite) TableName() string {
	return "favorites"
}

func (f *Favorite) BeforeCreate(tx *gorm.DB) error {
	if f.ID == uuid.Nil {
		f.ID = uuid.New()
	}
	return nil
}
