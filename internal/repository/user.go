// Package repository implements the data access layer for the application.
//
// Every mutating operation runs inside a single transaction so uniqueness
// checks and inserts cannot interleave with concurrent requests, and the
// account cascade is never observable half-applied.
package repository

import (
	"context"
	"errors"
	"time"

	"mealslan/internal/models"
	"mealslan/internal/observability"

	"gorm.io/gorm"
)

// UserRepository defines persistence operations for accounts.
type UserRepository interface {
	GetByUsername(ctx context.Context, username string) (*models.User, error)
	Create(ctx context.Context, user *models.User) error
	DeleteCascade(ctx context.Context, username string) error
}

type userRepository struct {
	db *gorm.DB
}

// NewUserRepository returns a new UserRepository implementation.
func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

// GetByUsername returns the user with the given username, or nil when no
// such user exists.
func (r *userRepository) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).Where("username = ?", username).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, models.NewInternalError(err)
	}
	return &user, nil
}

// Create persists a new user. The username and email uniqueness checks share
// the insert's transaction; conflicts are reported as distinct taxonomy codes
// because the account-creation wire contract distinguishes them.
func (r *userRepository) Create(ctx context.Context, user *models.User) error {
	defer observability.ObserveQuery("user_create", time.Now())

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&models.User{}).Where("username = ?", user.Username).Count(&count).Error; err != nil {
			return models.NewInternalError(err)
		}
		if count > 0 {
			return models.NewUsernameTakenError(user.Username)
		}

		if err := tx.Model(&models.User{}).Where("email = ?", user.Email).Count(&count).Error; err != nil {
			return models.NewInternalError(err)
		}
		if count > 0 {
			return models.NewEmailTakenError(user.Email)
		}

		if err := tx.Create(user).Error; err != nil {
			return models.NewInternalError(err)
		}
		return nil
	})
	return err
}

// DeleteCascade removes a user and every row that exists only in relation to
// them, as one atomic unit: likes by the user and on the user's recipes, the
// recipes' ingredient entries, the recipes themselves, follow edges in both
// directions, and finally the user row. Concurrent queries observe either
// the full pre-delete state or none of it.
func (r *userRepository) DeleteCascade(ctx context.Context, username string) error {
	defer observability.ObserveQuery("user_delete_cascade", time.Now())

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var user models.User
		if err := tx.Where("username = ?", username).First(&user).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return models.NewNotFoundError("user", username)
			}
			return models.NewInternalError(err)
		}

		var recipeIDs []int64
		if err := tx.Model(&models.Recipe{}).Where("user_id = ?", user.ID).Pluck("recipe_id", &recipeIDs).Error; err != nil {
			return models.NewInternalError(err)
		}

		if err := tx.Where("user_id = ?", user.ID).Delete(&models.Like{}).Error; err != nil {
			return models.NewInternalError(err)
		}
		if len(recipeIDs) > 0 {
			if err := tx.Where("recipe_id IN ?", recipeIDs).Delete(&models.Like{}).Error; err != nil {
				return models.NewInternalError(err)
			}
			if err := tx.Where("recipe_id IN ?", recipeIDs).Delete(&models.RecipeIngredient{}).Error; err != nil {
				return models.NewInternalError(err)
			}
		}
		if err := tx.Where("user_id = ?", user.ID).Delete(&models.Recipe{}).Error; err != nil {
			return models.NewInternalError(err)
		}
		if err := tx.Where("follower_id = ? OR following_id = ?", user.ID, user.ID).Delete(&models.Follow{}).Error; err != nil {
			return models.NewInternalError(err)
		}
		if err := tx.Delete(&models.User{}, user.ID).Error; err != nil {
			return models.NewInternalError(err)
		}
		return nil
	})
	if err == nil {
		observability.CascadeDeletes.Inc()
	}
	return err
}
