package repository

import (
	"context"
	"fmt"
	"testing"
	"time"

	"mealslan/internal/database"
	"mealslan/internal/models"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// setupTestDB creates an in-memory SQLite database with the full schema.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(database.PersistentModels()...))
	return db
}

func mustCreateUser(t *testing.T, db *gorm.DB, username string) *models.User {
	t.Helper()
	user := &models.User{
		FirstName: "Test",
		LastName:  "User",
		Username:  username,
		Email:     fmt.Sprintf("%s@example.com", username),
		PassHash:  "hash",
		Salt:      "salt",
	}
	require.NoError(t, NewUserRepository(db).Create(context.Background(), user))
	return user
}

func mustCreateRecipe(t *testing.T, db *gorm.DB, username string, recipeID int64, ingredients []string) {
	t.Helper()
	recipe := &models.Recipe{
		RecipeID:    recipeID,
		Name:        fmt.Sprintf("recipe-%d", recipeID),
		Description: fmt.Sprintf("description-%d", recipeID),
	}
	require.NoError(t, NewRecipeRepository(db).Create(context.Background(), username, recipe, ingredients))
}

// setRecipeTimestamp pins a recipe's creation timestamp so tie-break
// ordering can be exercised deterministically.
func setRecipeTimestamp(t *testing.T, db *gorm.DB, recipeID int64, ts time.Time) {
	t.Helper()
	require.NoError(t, db.Model(&models.Recipe{}).
		Where("recipe_id = ?", recipeID).
		Update("created_at", ts).Error)
}

func recipeIDs(views []models.RecipeView) []int64 {
	ids := make([]int64, 0, len(views))
	for _, v := range views {
		ids = append(ids, v.RecipeID)
	}
	return ids
}
