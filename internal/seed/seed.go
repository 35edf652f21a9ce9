// Package seed populates the database with demo data for development and
// testing. It writes through the repository layer so seeded state obeys the
// same uniqueness and cascade rules as live traffic.
package seed

import (
	"context"
	"fmt"
	"log"
	"math/rand"

	"mealslan/internal/database"
	"mealslan/internal/models"
	"mealslan/internal/repository"

	"gorm.io/gorm"
)

// Options configuration for the seeder
type Options struct {
	NumUsers     int
	NumRecipes   int
	LikesPerUser int
	ShouldClean  bool
	// DefaultPassword is assigned to every seeded account so seeded users
	// can log in during manual testing.
	DefaultPassword string
}

const defaultSeedPassword = "Seeded1Kitchen"

// Seed populates the database with demo users, recipes, follows and likes.
func Seed(db *gorm.DB, opts Options) error {
	if opts.NumUsers <= 0 {
		opts.NumUsers = 10
	}
	if opts.NumRecipes <= 0 {
		opts.NumRecipes = 30
	}
	if opts.LikesPerUser < 0 {
		opts.LikesPerUser = 0
	}
	if opts.DefaultPassword == "" {
		opts.DefaultPassword = defaultSeedPassword
	}

	log.Printf("seeding %d users and %d recipes", opts.NumUsers, opts.NumRecipes)

	if opts.ShouldClean {
		if err := database.Reset(db); err != nil {
			return fmt.Errorf("failed to reset database before seeding: %w", err)
		}
	}

	factory := NewFactory(db)
	ctx := context.Background()

	users := make([]*models.User, 0, opts.NumUsers)
	for i := 0; i < opts.NumUsers; i++ {
		user, err := factory.CreateUser(ctx, opts.DefaultPassword)
		if err != nil {
			return fmt.Errorf("failed to create seed user: %w", err)
		}
		users = append(users, user)
	}
	log.Printf("created %d users", len(users))

	recipes := make([]int64, 0, opts.NumRecipes)
	for i := 0; i < opts.NumRecipes; i++ {
		author := users[rand.Intn(len(users))]
		recipeID, err := factory.CreateRecipe(ctx, author.Username)
		if err != nil {
			return fmt.Errorf("failed to create seed recipe: %w", err)
		}
		recipes = append(recipes, recipeID)
	}
	log.Printf("created %d recipes", len(recipes))

	social := repository.NewSocialRepository(db)

	// Each user follows roughly a third of the others. Self-follows and
	// duplicate edges are rejected by the repository and simply skipped.
	follows := 0
	for _, follower := range users {
		for _, target := range users {
			if follower.Username == target.Username || rand.Intn(3) != 0 {
				continue
			}
			if err := social.Follow(ctx, follower.Username, target.Username); err == nil {
				follows++
			}
		}
	}
	log.Printf("created %d follow edges", follows)

	likes := 0
	for _, user := range users {
		for i := 0; i < opts.LikesPerUser; i++ {
			recipeID := recipes[rand.Intn(len(recipes))]
			if err := social.Like(ctx, user.Username, recipeID); err == nil {
				likes++
			}
		}
	}
	log.Printf("created %d likes", likes)

	return nil
}
