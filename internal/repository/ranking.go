package repository

import (
	"context"
	"errors"
	"time"

	"mealslan/internal/models"
	"mealslan/internal/observability"

	"gorm.io/gorm"
)

// feedLimit is the fixed result size for the feed and popular queries.
const feedLimit = 2

// RankingRepository answers the read-only discovery queries. Results are
// computed fresh on every call inside a single transaction-scoped view, so a
// concurrent cascade delete is either fully visible or not at all.
type RankingRepository interface {
	Feed(ctx context.Context, username string) ([]models.RecipeView, error)
	Popular(ctx context.Context, username string) ([]models.RecipeView, error)
	ByIngredients(ctx context.Context, username string, ingredients []string) ([]models.RecipeView, error)
}

type rankingRepository struct {
	db *gorm.DB
}

// NewRankingRepository returns a new RankingRepository implementation.
func NewRankingRepository(db *gorm.DB) RankingRepository {
	return &rankingRepository{db: db}
}

type recipeRow struct {
	RecipeID    int64
	Name        string
	Description string
}

// Feed returns the 2 most recent recipes authored by users the acting user
// follows, ordered by creation timestamp descending with the insertion
// sequence as tie-break (later-inserted first).
func (r *rankingRepository) Feed(ctx context.Context, username string) ([]models.RecipeView, error) {
	defer observability.ObserveQuery("search_feed", time.Now())
	observability.SearchQueries.WithLabelValues("feed").Inc()

	var views []models.RecipeView
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		actor, err := requireUser(tx, username)
		if err != nil {
			return err
		}

		var rows []recipeRow
		if err := tx.Model(&models.Recipe{}).
			Select("recipes.recipe_id, recipes.name, recipes.description").
			Joins("JOIN follows ON follows.following_id = recipes.user_id").
			Where("follows.follower_id = ?", actor.ID).
			Order("recipes.created_at DESC, recipes.seq DESC").
			Limit(feedLimit).
			Scan(&rows).Error; err != nil {
			return models.NewInternalError(err)
		}

		views, err = hydrateRows(tx, rows)
		return err
	})
	if err != nil {
		return nil, err
	}
	return views, nil
}

// Popular returns the top 2 recipes across all users by like count, with
// creation timestamp and then insertion sequence breaking ties. Recipes with
// zero likes are eligible and rank last.
func (r *rankingRepository) Popular(ctx context.Context, username string) ([]models.RecipeView, error) {
	defer observability.ObserveQuery("search_popular", time.Now())
	observability.SearchQueries.WithLabelValues("popular").Inc()

	var views []models.RecipeView
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := requireUser(tx, username); err != nil {
			return err
		}

		var rows []recipeRow
		if err := tx.Model(&models.Recipe{}).
			Select("recipes.recipe_id, recipes.name, recipes.description").
			Joins("LEFT JOIN likes ON likes.recipe_id = recipes.recipe_id").
			Group("recipes.recipe_id, recipes.name, recipes.description, recipes.created_at, recipes.seq").
			Order("COUNT(likes.id) DESC, recipes.created_at DESC, recipes.seq DESC").
			Limit(feedLimit).
			Scan(&rows).Error; err != nil {
			return models.NewInternalError(err)
		}

		var err error
		views, err = hydrateRows(tx, rows)
		return err
	})
	if err != nil {
		return nil, err
	}
	return views, nil
}

// ByIngredients returns every recipe whose ingredient entries form a
// non-empty subset of the query list: the recipe must have at least one
// ingredient and every one of its ingredients must appear in the list.
// An empty list therefore matches nothing and is not an error.
func (r *rankingRepository) ByIngredients(ctx context.Context, username string, ingredients []string) ([]models.RecipeView, error) {
	defer observability.ObserveQuery("search_ingredients", time.Now())
	observability.SearchQueries.WithLabelValues("ingredients").Inc()

	var views []models.RecipeView
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := requireUser(tx, username); err != nil {
			return err
		}

		if len(ingredients) == 0 {
			views = []models.RecipeView{}
			return nil
		}

		var rows []recipeRow
		if err := tx.Raw(`
			SELECT r.recipe_id, r.name, r.description
			FROM recipes r
			WHERE NOT EXISTS (
				SELECT 1 FROM recipe_ingredients ri
				WHERE ri.recipe_id = r.recipe_id
				AND ri.ingredient NOT IN ?
			)
			AND EXISTS (
				SELECT 1 FROM recipe_ingredients ri
				WHERE ri.recipe_id = r.recipe_id
			)`, ingredients).Scan(&rows).Error; err != nil {
			return models.NewInternalError(err)
		}

		var err error
		views, err = hydrateRows(tx, rows)
		return err
	})
	if err != nil {
		return nil, err
	}
	return views, nil
}

// requireUser resolves the acting user inside the query transaction; a
// deleted account fails here and is thereby excluded from every query.
func requireUser(tx *gorm.DB, username string) (*models.User, error) {
	var user models.User
	if err := tx.Where("username = ?", username).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("user", username)
		}
		return nil, models.NewInternalError(err)
	}
	return &user, nil
}

func hydrateRows(tx *gorm.DB, rows []recipeRow) ([]models.RecipeView, error) {
	views := make([]models.RecipeView, 0, len(rows))
	for _, row := range rows {
		view, err := hydrateRecipe(tx, row.RecipeID, row.Name, row.Description)
		if err != nil {
			return nil, err
		}
		views = append(views, *view)
	}
	return views, nil
}
