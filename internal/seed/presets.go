package seed

import (
	"context"
	"fmt"
	"os"

	"mealslan/internal/auth"
	"mealslan/internal/models"
	"mealslan/internal/repository"

	"gopkg.in/yaml.v3"
	"gorm.io/gorm"
)

// Preset is a declarative seed fixture loaded from YAML. Unlike the random
// seeder it produces the same state on every run, which makes it suitable
// for demo environments and reproducible bug reports.
type Preset struct {
	Users []struct {
		Username  string `yaml:"username"`
		FirstName string `yaml:"first_name"`
		LastName  string `yaml:"last_name"`
		Email     string `yaml:"email"`
		Password  string `yaml:"password"`
		Salt      string `yaml:"salt"`
	} `yaml:"users"`
	Recipes []struct {
		RecipeID    int64    `yaml:"recipe_id"`
		Author      string   `yaml:"author"`
		Name        string   `yaml:"name"`
		Description string   `yaml:"description"`
		Ingredients []string `yaml:"ingredients"`
	} `yaml:"recipes"`
	Follows []struct {
		Follower  string `yaml:"follower"`
		Following string `yaml:"following"`
	} `yaml:"follows"`
	Likes []struct {
		Username string `yaml:"username"`
		RecipeID int64  `yaml:"recipe_id"`
	} `yaml:"likes"`
}

// LoadPreset reads and parses a preset file.
func LoadPreset(path string) (*Preset, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read preset %q: %w", path, err)
	}
	var preset Preset
	if err := yaml.Unmarshal(raw, &preset); err != nil {
		return nil, fmt.Errorf("failed to parse preset %q: %w", path, err)
	}
	return &preset, nil
}

// Apply writes the preset's entities in dependency order: users, recipes,
// follow edges, likes.
func (p *Preset) Apply(ctx context.Context, db *gorm.DB) error {
	users := repository.NewUserRepository(db)
	recipes := repository.NewRecipeRepository(db)
	social := repository.NewSocialRepository(db)

	for _, u := range p.Users {
		salt := u.Salt
		if salt == "" {
			salt = "preset"
		}
		password := u.Password
		if password == "" {
			password = defaultSeedPassword
		}
		user := &models.User{
			FirstName: u.FirstName,
			LastName:  u.LastName,
			Username:  u.Username,
			Email:     u.Email,
			PassHash:  auth.HashPassword(password, salt),
			Salt:      salt,
		}
		if err := users.Create(ctx, user); err != nil {
			return fmt.Errorf("preset user %q: %w", u.Username, err)
		}
	}

	for _, r := range p.Recipes {
		recipe := &models.Recipe{
			RecipeID:    r.RecipeID,
			Name:        r.Name,
			Description: r.Description,
		}
		if err := recipes.Create(ctx, r.Author, recipe, r.Ingredients); err != nil {
			return fmt.Errorf("preset recipe %d: %w", r.RecipeID, err)
		}
	}

	for _, f := range p.Follows {
		if err := social.Follow(ctx, f.Follower, f.Following); err != nil {
			return fmt.Errorf("preset follow %s -> %s: %w", f.Follower, f.Following, err)
		}
	}

	for _, l := range p.Likes {
		if err := social.Like(ctx, l.Username, l.RecipeID); err != nil {
			return fmt.Errorf("preset like %s -> %d: %w", l.Username, l.RecipeID, err)
		}
	}

	return nil
}
