package repository

import (
	"context"
	"errors"
	"sort"
	"strconv"
	"time"

	"mealslan/internal/models"
	"mealslan/internal/observability"

	"gorm.io/gorm"
)

// RecipeRepository defines persistence operations for recipes.
type RecipeRepository interface {
	Create(ctx context.Context, authorUsername string, recipe *models.Recipe, ingredients []string) error
	View(ctx context.Context, recipeID int64) (*models.RecipeView, error)
}

type recipeRepository struct {
	db *gorm.DB
}

// NewRecipeRepository returns a new RecipeRepository implementation.
func NewRecipeRepository(db *gorm.DB) RecipeRepository {
	return &recipeRepository{db: db}
}

// Create persists a recipe and its ingredient entries for the given author.
// The caller-supplied recipe id must be globally unused; the check shares the
// insert's transaction. The insertion sequence is assigned by the store at
// insert time and never reassigned.
func (r *recipeRepository) Create(ctx context.Context, authorUsername string, recipe *models.Recipe, ingredients []string) error {
	defer observability.ObserveQuery("recipe_create", time.Now())

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var author models.User
		if err := tx.Where("username = ?", authorUsername).First(&author).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return models.NewNotFoundError("user", authorUsername)
			}
			return models.NewInternalError(err)
		}

		var count int64
		if err := tx.Model(&models.Recipe{}).Where("recipe_id = ?", recipe.RecipeID).Count(&count).Error; err != nil {
			return models.NewInternalError(err)
		}
		if count > 0 {
			return models.NewConflictError("recipe id already exists")
		}

		recipe.UserID = author.ID
		if err := tx.Create(recipe).Error; err != nil {
			return models.NewInternalError(err)
		}

		for _, ingredient := range ingredients {
			entry := models.RecipeIngredient{RecipeID: recipe.RecipeID, Ingredient: ingredient}
			if err := tx.Create(&entry).Error; err != nil {
				return models.NewInternalError(err)
			}
		}
		return nil
	})
}

// View returns the hydrated detail of a single recipe: name, description,
// current like count and sorted ingredients, computed fresh in one
// transaction-scoped read.
func (r *recipeRepository) View(ctx context.Context, recipeID int64) (*models.RecipeView, error) {
	defer observability.ObserveQuery("recipe_view", time.Now())

	var view *models.RecipeView
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var recipe models.Recipe
		if err := tx.Where("recipe_id = ?", recipeID).First(&recipe).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return models.NewNotFoundError("recipe", recipeID)
			}
			return models.NewInternalError(err)
		}

		hydrated, err := hydrateRecipe(tx, recipe.RecipeID, recipe.Name, recipe.Description)
		if err != nil {
			return err
		}
		view = hydrated
		return nil
	})
	if err != nil {
		return nil, err
	}
	return view, nil
}

// hydrateRecipe resolves the per-recipe view fields that are computed fresh
// on every query: the like count (decimal string) and the lexicographically
// sorted ingredient list.
func hydrateRecipe(tx *gorm.DB, recipeID int64, name, description string) (*models.RecipeView, error) {
	var likes int64
	if err := tx.Model(&models.Like{}).Where("recipe_id = ?", recipeID).Count(&likes).Error; err != nil {
		return nil, models.NewInternalError(err)
	}

	ingredients := []string{}
	if err := tx.Model(&models.RecipeIngredient{}).
		Where("recipe_id = ?", recipeID).
		Pluck("ingredient", &ingredients).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	sort.Strings(ingredients)

	return &models.RecipeView{
		RecipeID:    recipeID,
		Name:        name,
		Description: description,
		Ingredients: ingredients,
		Likes:       strconv.FormatInt(likes, 10),
	}, nil
}
