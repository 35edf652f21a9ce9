package repository

import (
	"context"
	"errors"
	"time"

	"mealslan/internal/models"
	"mealslan/internal/observability"

	"gorm.io/gorm"
)

// SocialRepository defines persistence operations for likes and follows.
type SocialRepository interface {
	Like(ctx context.Context, username string, recipeID int64) error
	Follow(ctx context.Context, followerUsername, targetUsername string) error
}

type socialRepository struct {
	db *gorm.DB
}

// NewSocialRepository returns a new SocialRepository implementation.
func NewSocialRepository(db *gorm.DB) SocialRepository {
	return &socialRepository{db: db}
}

// Like records a like by the named user on the given recipe. At most one
// like per (user, recipe) pair; re-liking is a conflict, not a no-op.
func (s *socialRepository) Like(ctx context.Context, username string, recipeID int64) error {
	defer observability.ObserveQuery("like", time.Now())

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var user models.User
		if err := tx.Where("username = ?", username).First(&user).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return models.NewNotFoundError("user", username)
			}
			return models.NewInternalError(err)
		}

		var count int64
		if err := tx.Model(&models.Recipe{}).Where("recipe_id = ?", recipeID).Count(&count).Error; err != nil {
			return models.NewInternalError(err)
		}
		if count == 0 {
			return models.NewNotFoundError("recipe", recipeID)
		}

		if err := tx.Model(&models.Like{}).
			Where("user_id = ? AND recipe_id = ?", user.ID, recipeID).
			Count(&count).Error; err != nil {
			return models.NewInternalError(err)
		}
		if count > 0 {
			return models.NewConflictError("recipe already liked")
		}

		like := models.Like{UserID: user.ID, RecipeID: recipeID}
		if err := tx.Create(&like).Error; err != nil {
			return models.NewInternalError(err)
		}
		return nil
	})
}

// Follow records a follow edge from follower to target. The pair is unique
// and self-follows are rejected.
func (s *socialRepository) Follow(ctx context.Context, followerUsername, targetUsername string) error {
	defer observability.ObserveQuery("follow", time.Now())

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var follower models.User
		if err := tx.Where("username = ?", followerUsername).First(&follower).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return models.NewNotFoundError("user", followerUsername)
			}
			return models.NewInternalError(err)
		}

		var target models.User
		if err := tx.Where("username = ?", targetUsername).First(&target).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return models.NewNotFoundError("user", targetUsername)
			}
			return models.NewInternalError(err)
		}

		if follower.ID == target.ID {
			return models.NewValidationError("cannot follow yourself")
		}

		var count int64
		if err := tx.Model(&models.Follow{}).
			Where("follower_id = ? AND following_id = ?", follower.ID, target.ID).
			Count(&count).Error; err != nil {
			return models.NewInternalError(err)
		}
		if count > 0 {
			return models.NewConflictError("already following")
		}

		follow := models.Follow{FollowerID: follower.ID, FollowingID: target.ID}
		if err := tx.Create(&follow).Error; err != nil {
			return models.NewInternalError(err)
		}
		return nil
	})
}
