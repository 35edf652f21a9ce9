package server

import (
	"encoding/json"
	"strconv"

	"mealslan/internal/middleware"
	"mealslan/internal/models"

	"github.com/gofiber/fiber/v2"
)

// CreateRecipe handles POST /create_recipe. The recipe identifier is chosen
// by the client and must be unique; the ingredients parameter is an optional
// JSON array of strings. Any rejected input or conflict yields status 2.
func (s *Server) CreateRecipe(c *fiber.Ctx) error {
	username := c.Locals("username").(string)

	name := postParam(c, "name")
	description := postParam(c, "description")
	recipeIDParam := postParam(c, "recipe_id")

	if name == "" || description == "" || recipeIDParam == "" {
		return c.JSON(fiber.Map{"status": statusError})
	}

	recipeID, err := strconv.ParseInt(recipeIDParam, 10, 64)
	if err != nil {
		return c.JSON(fiber.Map{"status": statusError})
	}

	var ingredients []string
	if raw := postParam(c, "ingredients"); raw != "" {
		if err := json.Unmarshal([]byte(raw), &ingredients); err != nil {
			return c.JSON(fiber.Map{"status": statusError})
		}
	}

	recipe := &models.Recipe{
		RecipeID:    recipeID,
		Name:        name,
		Description: description,
	}

	if err := s.recipeRepo.Create(c.UserContext(), username, recipe, ingredients); err != nil {
		if models.CodeOf(err) == models.CodeInternal {
			middleware.Logger.ErrorContext(c.UserContext(), "recipe creation failed", "error", err)
		}
		return c.JSON(fiber.Map{"status": statusError})
	}

	return c.JSON(fiber.Map{"status": statusOK})
}

// LikeRecipe handles POST /like. Each user may like a given recipe at most
// once; a repeat like is rejected with status 2.
func (s *Server) LikeRecipe(c *fiber.Ctx) error {
	username := c.Locals("username").(string)

	recipeIDParam := postParam(c, "recipe_id")
	if recipeIDParam == "" {
		return c.JSON(fiber.Map{"status": statusError})
	}
	recipeID, err := strconv.ParseInt(recipeIDParam, 10, 64)
	if err != nil {
		return c.JSON(fiber.Map{"status": statusError})
	}

	if err := s.socialRepo.Like(c.UserContext(), username, recipeID); err != nil {
		if models.CodeOf(err) == models.CodeInternal {
			middleware.Logger.ErrorContext(c.UserContext(), "like failed", "error", err)
		}
		return c.JSON(fiber.Map{"status": statusError})
	}

	return c.JSON(fiber.Map{"status": statusOK})
}

// FollowUser handles POST /follow. Following yourself, following a user
// twice, or naming an unknown user all yield status 2.
func (s *Server) FollowUser(c *fiber.Ctx) error {
	username := c.Locals("username").(string)

	target := postParam(c, "username")
	if target == "" {
		return c.JSON(fiber.Map{"status": statusError})
	}

	if err := s.socialRepo.Follow(c.UserContext(), username, target); err != nil {
		if models.CodeOf(err) == models.CodeInternal {
			middleware.Logger.ErrorContext(c.UserContext(), "follow failed", "error", err)
		}
		return c.JSON(fiber.Map{"status": statusError})
	}

	return c.JSON(fiber.Map{"status": statusOK})
}

// ViewRecipe handles GET /view_recipe/:recipe_id. Query parameters name,
// description, likes and ingredients select which fields appear in the data
// object; each must be the literal string "True". Requesting no fields
// short-circuits to an empty data object without touching the store.
func (s *Server) ViewRecipe(c *fiber.Ctx) error {
	recipeID, err := strconv.ParseInt(c.Params("recipe_id"), 10, 64)
	if err != nil {
		return c.JSON(fiber.Map{"status": statusError, "data": nullValue})
	}

	wantName := c.Query("name") == "True"
	wantDescription := c.Query("description") == "True"
	wantLikes := c.Query("likes") == "True"
	wantIngredients := c.Query("ingredients") == "True"

	if !wantName && !wantDescription && !wantLikes && !wantIngredients {
		return c.JSON(fiber.Map{"status": statusOK, "data": fiber.Map{}})
	}

	view, err := s.recipeRepo.View(c.UserContext(), recipeID)
	if err != nil {
		if models.CodeOf(err) == models.CodeInternal {
			middleware.Logger.ErrorContext(c.UserContext(), "recipe view failed", "error", err)
		}
		return c.JSON(fiber.Map{"status": statusError, "data": nullValue})
	}

	data := fiber.Map{}
	if wantName {
		data["name"] = view.Name
	}
	if wantDescription {
		data["description"] = view.Description
	}
	if wantLikes {
		data["likes"] = view.Likes
	}
	if wantIngredients {
		data["ingredients"] = view.Ingredients
	}

	return c.JSON(fiber.Map{"status": statusOK, "data": data})
}
