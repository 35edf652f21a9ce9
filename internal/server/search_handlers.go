package server

import (
	"encoding/json"
	"strconv"

	"mealslan/internal/middleware"
	"mealslan/internal/models"

	"github.com/gofiber/fiber/v2"
)

// Search handles GET /search. Exactly one query mode applies per request,
// checked in order: feed=True, then popular=True, then ingredients=<JSON
// array>. The result is an object keyed by decimal recipe id, each value
// holding name, description, sorted ingredients, and the like count as a
// decimal string.
func (s *Server) Search(c *fiber.Ctx) error {
	username := c.Locals("username").(string)
	ctx := c.UserContext()

	reject := func() error {
		return c.JSON(fiber.Map{"status": statusError, "data": nullValue})
	}

	var (
		views []models.RecipeView
		err   error
	)

	switch {
	case c.Query("feed") == "True":
		views, err = s.rankingRepo.Feed(ctx, username)
	case c.Query("popular") == "True":
		views, err = s.rankingRepo.Popular(ctx, username)
	case c.Query("ingredients") != "":
		// The parameter must decode to a JSON array. Decoding into a slice
		// directly would let the literal null through as an empty list.
		var parsed any
		if jsonErr := json.Unmarshal([]byte(c.Query("ingredients")), &parsed); jsonErr != nil {
			return reject()
		}
		list, ok := parsed.([]any)
		if !ok {
			return reject()
		}
		ingredients := make([]string, 0, len(list))
		for _, item := range list {
			// Non-string entries can never equal a stored ingredient text,
			// so they drop out without affecting the subset match.
			if text, isString := item.(string); isString {
				ingredients = append(ingredients, text)
			}
		}
		views, err = s.rankingRepo.ByIngredients(ctx, username, ingredients)
	default:
		return reject()
	}

	if err != nil {
		if models.CodeOf(err) == models.CodeInternal {
			middleware.Logger.ErrorContext(ctx, "search failed", "error", err)
		}
		return reject()
	}

	data := fiber.Map{}
	for _, view := range views {
		data[strconv.FormatInt(view.RecipeID, 10)] = fiber.Map{
			"name":        view.Name,
			"description": view.Description,
			"ingredients": view.Ingredients,
			"likes":       view.Likes,
		}
	}

	return c.JSON(fiber.Map{"status": statusOK, "data": data})
}
