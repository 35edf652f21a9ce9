package seed

import (
	"context"
	"fmt"
	"math/rand"
	"strings"
	"time"

	"mealslan/internal/auth"
	"mealslan/internal/models"
	"mealslan/internal/repository"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Factory builds domain entities and persists them through the repository
// layer so seeded data passes the same checks as live traffic.
type Factory struct {
	users   repository.UserRepository
	recipes repository.RecipeRepository
	rng     *rand.Rand
	// nextRecipeID hands out caller-side recipe identifiers, which must be
	// unique across the system.
	nextRecipeID int64
}

// NewFactory creates a new Factory bound to the provided Gorm DB.
func NewFactory(db *gorm.DB) *Factory {
	gofakeit.Seed(time.Now().UnixNano())
	return &Factory{
		users:        repository.NewUserRepository(db),
		recipes:      repository.NewRecipeRepository(db),
		rng:          rand.New(rand.NewSource(time.Now().UnixNano())),
		nextRecipeID: 1000,
	}
}

var ingredientPool = []string{
	"flour", "sugar", "butter", "egg", "milk", "salt", "pepper", "olive oil",
	"garlic", "onion", "tomato", "basil", "oregano", "chicken", "beef",
	"rice", "pasta", "cheese", "lemon", "honey", "cinnamon", "vanilla",
	"carrot", "celery", "mushroom", "spinach", "potato", "cream", "yogurt",
}

// CreateUser persists a user with generated profile data and the given
// password. Usernames carry a UUID suffix so repeated seeding runs never
// collide, and the password is salted and digested exactly as signup does.
func (f *Factory) CreateUser(ctx context.Context, password string) (*models.User, error) {
	firstName := gofakeit.FirstName()
	lastName := gofakeit.LastName()
	suffix := strings.Split(uuid.NewString(), "-")[0]
	username := strings.ToLower(fmt.Sprintf("%s%s_%s", firstName[:1], lastName, suffix))
	salt := uuid.NewString()[:12]

	user := &models.User{
		FirstName: firstName,
		LastName:  lastName,
		Username:  username,
		Email:     fmt.Sprintf("%s@%s", username, gofakeit.DomainName()),
		PassHash:  auth.HashPassword(password, salt),
		Salt:      salt,
	}
	if err := f.users.Create(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// CreateRecipe persists a recipe with a generated dish name and a random
// draw of 2-6 ingredients from the pool, returning the assigned recipe id.
func (f *Factory) CreateRecipe(ctx context.Context, authorUsername string) (int64, error) {
	f.nextRecipeID++
	recipeID := f.nextRecipeID

	recipe := &models.Recipe{
		RecipeID:    recipeID,
		Name:        gofakeit.Dinner(),
		Description: gofakeit.Sentence(12),
	}

	count := 2 + f.rng.Intn(5)
	picked := map[string]bool{}
	ingredients := make([]string, 0, count)
	for len(ingredients) < count {
		ing := ingredientPool[f.rng.Intn(len(ingredientPool))]
		if picked[ing] {
			continue
		}
		picked[ing] = true
		ingredients = append(ingredients, ing)
	}

	if err := f.recipes.Create(ctx, authorUsername, recipe, ingredients); err != nil {
		return 0, err
	}
	return recipeID, nil
}
