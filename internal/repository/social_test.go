package repository

import (
	"context"
	"testing"

	"mealslan/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSocialRepository_Like(t *testing.T) {
	db := setupTestDB(t)
	social := NewSocialRepository(db)
	ctx := context.Background()

	mustCreateUser(t, db, "alice")
	mustCreateUser(t, db, "bob")
	mustCreateRecipe(t, db, "bob", 500, nil)

	require.NoError(t, social.Like(ctx, "alice", 500))

	t.Run("duplicate like is a conflict, not a second row", func(t *testing.T) {
		err := social.Like(ctx, "alice", 500)
		assert.Equal(t, models.CodeConflict, models.CodeOf(err))

		var count int64
		require.NoError(t, db.Model(&models.Like{}).Count(&count).Error)
		assert.EqualValues(t, 1, count)
	})

	t.Run("unknown recipe", func(t *testing.T) {
		err := social.Like(ctx, "alice", 999)
		assert.Equal(t, models.CodeNotFound, models.CodeOf(err))
	})

	t.Run("unknown user", func(t *testing.T) {
		err := social.Like(ctx, "ghost", 500)
		assert.Equal(t, models.CodeNotFound, models.CodeOf(err))
	})

	t.Run("other users may like the same recipe", func(t *testing.T) {
		require.NoError(t, social.Like(ctx, "bob", 500))
	})
}

func TestSocialRepository_Follow(t *testing.T) {
	db := setupTestDB(t)
	social := NewSocialRepository(db)
	ctx := context.Background()

	mustCreateUser(t, db, "alice")
	mustCreateUser(t, db, "bob")

	require.NoError(t, social.Follow(ctx, "alice", "bob"))

	t.Run("re-follow is a conflict, not a duplicate row", func(t *testing.T) {
		err := social.Follow(ctx, "alice", "bob")
		assert.Equal(t, models.CodeConflict, models.CodeOf(err))

		var count int64
		require.NoError(t, db.Model(&models.Follow{}).Count(&count).Error)
		assert.EqualValues(t, 1, count)
	})

	t.Run("reverse direction is a distinct edge", func(t *testing.T) {
		require.NoError(t, social.Follow(ctx, "bob", "alice"))
	})

	t.Run("self-follow rejected", func(t *testing.T) {
		err := social.Follow(ctx, "alice", "alice")
		assert.Equal(t, models.CodeValidation, models.CodeOf(err))
	})

	t.Run("unknown target", func(t *testing.T) {
		err := social.Follow(ctx, "alice", "ghost")
		assert.Equal(t, models.CodeNotFound, models.CodeOf(err))
	})

	t.Run("unknown follower", func(t *testing.T) {
		err := social.Follow(ctx, "ghost", "alice")
		assert.Equal(t, models.CodeNotFound, models.CodeOf(err))
	})
}

func TestRecipeRepository_Create(t *testing.T) {
	db := setupTestDB(t)
	recipes := NewRecipeRepository(db)
	ctx := context.Background()

	mustCreateUser(t, db, "alice")
	mustCreateRecipe(t, db, "alice", 700, []string{"x", "y"})

	t.Run("duplicate recipe id", func(t *testing.T) {
		err := recipes.Create(ctx, "alice", &models.Recipe{RecipeID: 700, Name: "n", Description: "d"}, nil)
		assert.Equal(t, models.CodeConflict, models.CodeOf(err))
	})

	t.Run("unknown author", func(t *testing.T) {
		err := recipes.Create(ctx, "ghost", &models.Recipe{RecipeID: 701, Name: "n", Description: "d"}, nil)
		assert.Equal(t, models.CodeNotFound, models.CodeOf(err))
	})

	t.Run("insertion sequence is strictly increasing", func(t *testing.T) {
		mustCreateRecipe(t, db, "alice", 702, nil)
		mustCreateRecipe(t, db, "alice", 703, nil)

		var seqs []uint
		require.NoError(t, db.Model(&models.Recipe{}).
			Where("recipe_id IN ?", []int64{700, 702, 703}).
			Order("recipe_id").
			Pluck("seq", &seqs).Error)
		require.Len(t, seqs, 3)
		assert.Less(t, seqs[0], seqs[1])
		assert.Less(t, seqs[1], seqs[2])
	})
}

func TestRecipeRepository_View(t *testing.T) {
	db := setupTestDB(t)
	recipes := NewRecipeRepository(db)
	social := NewSocialRepository(db)
	ctx := context.Background()

	mustCreateUser(t, db, "alice")
	mustCreateUser(t, db, "bob")
	mustCreateRecipe(t, db, "alice", 800, []string{"zucchini", "apple", "miso"})
	require.NoError(t, social.Like(ctx, "bob", 800))

	view, err := recipes.View(ctx, 800)
	require.NoError(t, err)
	assert.Equal(t, "recipe-800", view.Name)
	assert.Equal(t, "description-800", view.Description)
	assert.Equal(t, "1", view.Likes, "like count is a decimal string")
	assert.Equal(t, []string{"apple", "miso", "zucchini"}, view.Ingredients, "ingredients are sorted")

	t.Run("unknown recipe", func(t *testing.T) {
		_, err := recipes.View(ctx, 999)
		assert.Equal(t, models.CodeNotFound, models.CodeOf(err))
	})

	t.Run("zero ingredients yields empty list, not nil", func(t *testing.T) {
		mustCreateRecipe(t, db, "alice", 801, nil)
		view, err := recipes.View(ctx, 801)
		require.NoError(t, err)
		assert.Equal(t, []string{}, view.Ingredients)
		assert.Equal(t, "0", view.Likes)
	})
}
