package models

import "time"

// Recipe is a user-authored recipe. RecipeID is chosen by the caller and
// unique across the system; Seq is the database-assigned insertion sequence
// used as the deterministic tie-break when creation timestamps collide.
// Seq is assigned once at creation and never reassigned.
type Recipe struct {
	Seq         uint      `gorm:"primaryKey" json:"-"`
	RecipeID    int64     `gorm:"uniqueIndex;not null" json:"recipe_id"`
	UserID      uint      `gorm:"not null;index" json:"user_id"`
	Name        string    `gorm:"not null" json:"name"`
	Description string    `gorm:"not null" json:"description"`
	CreatedAt   time.Time `json:"created_at"`

	Ingredients []RecipeIngredient `gorm:"foreignKey:RecipeID;references:RecipeID" json:"ingredients,omitempty"`
}

// RecipeIngredient is a single ingredient entry on a recipe. A recipe may
// carry zero entries; duplicates are accepted as supplied.
type RecipeIngredient struct {
	ID         uint   `gorm:"primaryKey" json:"-"`
	RecipeID   int64  `gorm:"not null;index" json:"recipe_id"`
	Ingredient string `gorm:"not null" json:"ingredient"`
}

// RecipeView is the hydrated query-result shape shared by the ranking
// queries and recipe detail lookups. Likes is rendered as a decimal string
// on the wire. Ingredients are sorted lexicographically.
type RecipeView struct {
	RecipeID    int64    `json:"-"`
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Ingredients []string `json:"ingredients"`
	Likes       string   `json:"likes"`
}
