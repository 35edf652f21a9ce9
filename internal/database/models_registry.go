package database

import "mealslan/internal/models"

// PersistentModels returns the authoritative set of schema-managed GORM models.
// Order matters for Reset: parents before dependents.
func PersistentModels() []interface{} {
	return []interface{}{
		&models.User{},
		&models.Recipe{},
		&models.RecipeIngredient{},
		&models.Like{},
		&models.Follow{},
	}
}
