package server

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"mealslan/internal/config"
	"mealslan/internal/database"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// setupTestApp builds a Fiber app wired to an in-memory SQLite database.
// Redis is absent, which exercises the rate limiter's test-environment
// bypass.
func setupTestApp(t *testing.T) (*fiber.App, *Server) {
	t.Helper()
	t.Setenv("APP_ENV", "test")

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(database.PersistentModels()...))

	cfg := &config.Config{
		TokenSecret: "test-secret",
		Env:         "test",
	}
	s, err := NewServerWithDeps(cfg, db, nil)
	require.NoError(t, err)

	app := fiber.New()
	s.SetupRoutes(app)
	return app, s
}

// postForm submits a url-encoded POST and decodes the JSON response body.
func postForm(t *testing.T, app *fiber.App, path, token string, form url.Values) map[string]any {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	if token != "" {
		req.Header.Set("Authorization", token)
	}
	return doRequest(t, app, req)
}

// getJSON submits a GET and decodes the JSON response body.
func getJSON(t *testing.T, app *fiber.App, path, token string) map[string]any {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if token != "" {
		req.Header.Set("Authorization", token)
	}
	return doRequest(t, app, req)
}

func doRequest(t *testing.T, app *fiber.App, req *http.Request) map[string]any {
	t.Helper()
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	var body map[string]any
	require.NoError(t, json.Unmarshal(raw, &body))
	return body
}

// registerUser creates an account through the endpoint with a policy-valid
// password and returns a login token for it.
func registerUser(t *testing.T, app *fiber.App, s *Server, username string) string {
	t.Helper()
	body := postForm(t, app, "/create_user", "", url.Values{
		"first_name":    {"Test"},
		"last_name":     {"Account"},
		"username":      {username},
		"email_address": {username + "@example.com"},
		"password":      {"Zq7vBn3kPlunge"},
		"salt":          {"pepper"},
	})
	require.EqualValues(t, statusOK, body["status"])

	token, err := s.codec.Issue(username)
	require.NoError(t, err)
	return token
}

// createRecipe publishes a recipe through the endpoint for the given token.
func createRecipe(t *testing.T, app *fiber.App, token string, recipeID, name string, ingredients string) {
	t.Helper()
	form := url.Values{
		"recipe_id":   {recipeID},
		"name":        {name},
		"description": {"a description of " + name},
	}
	if ingredients != "" {
		form.Set("ingredients", ingredients)
	}
	body := postForm(t, app, "/create_recipe", token, form)
	require.EqualValues(t, statusOK, body["status"])
}
