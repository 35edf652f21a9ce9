package server

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSearchFeed(t *testing.T) {
	app, s := setupTestApp(t)
	readerToken := registerUser(t, app, s, "reader")
	authorToken := registerUser(t, app, s, "author")
	strangerToken := registerUser(t, app, s, "stranger")

	body := postForm(t, app, "/follow", readerToken, url.Values{"username": {"author"}})
	require.EqualValues(t, statusOK, body["status"])

	createRecipe(t, app, authorToken, "1", "First", "")
	createRecipe(t, app, authorToken, "2", "Second", "")
	createRecipe(t, app, authorToken, "3", "Third", "")
	createRecipe(t, app, strangerToken, "4", "Unrelated", "")

	t.Run("two newest followed recipes", func(t *testing.T) {
		body := getJSON(t, app, "/search?feed=True", readerToken)
		assert.EqualValues(t, statusOK, body["status"])
		data := body["data"].(map[string]any)
		assert.Len(t, data, 2)
		assert.Contains(t, data, "2")
		assert.Contains(t, data, "3")
		assert.NotContains(t, data, "4")
	})

	t.Run("empty feed without follows", func(t *testing.T) {
		body := getJSON(t, app, "/search?feed=True", strangerToken)
		assert.EqualValues(t, statusOK, body["status"])
		assert.Equal(t, map[string]any{}, body["data"])
	})
}

func TestSearchPopular(t *testing.T) {
	app, s := setupTestApp(t)
	cookToken := registerUser(t, app, s, "cook")
	fan1Token := registerUser(t, app, s, "fanone")
	fan2Token := registerUser(t, app, s, "fantwo")

	createRecipe(t, app, cookToken, "1", "Quiet", "")
	createRecipe(t, app, cookToken, "2", "Hit", `["salt"]`)
	createRecipe(t, app, cookToken, "3", "Runner-up", "")

	for _, token := range []string{fan1Token, fan2Token} {
		body := postForm(t, app, "/like", token, url.Values{"recipe_id": {"2"}})
		require.EqualValues(t, statusOK, body["status"])
	}
	body := postForm(t, app, "/like", fan1Token, url.Values{"recipe_id": {"3"}})
	require.EqualValues(t, statusOK, body["status"])

	result := getJSON(t, app, "/search?popular=True", cookToken)
	assert.EqualValues(t, statusOK, result["status"])
	data := result["data"].(map[string]any)
	require.Len(t, data, 2)

	hit := data["2"].(map[string]any)
	assert.Equal(t, "Hit", hit["name"])
	assert.Equal(t, "2", hit["likes"])
	assert.Equal(t, []any{"salt"}, hit["ingredients"])

	runnerUp := data["3"].(map[string]any)
	assert.Equal(t, "1", runnerUp["likes"])
	assert.Equal(t, []any{}, runnerUp["ingredients"])
}

func TestSearchByIngredients(t *testing.T) {
	app, s := setupTestApp(t)
	token := registerUser(t, app, s, "cook")

	createRecipe(t, app, token, "1000", "OnlyX", `["x"]`)
	createRecipe(t, app, token, "1001", "XAndY", `["x", "y"]`)
	createRecipe(t, app, token, "1002", "Bare", "")
	createRecipe(t, app, token, "1003", "OnlyZ", `["z"]`)

	t.Run("subset match", func(t *testing.T) {
		body := getJSON(t, app, "/search?ingredients="+url.QueryEscape(`["x", "y"]`), token)
		assert.EqualValues(t, statusOK, body["status"])
		data := body["data"].(map[string]any)
		assert.Len(t, data, 2)
		assert.Contains(t, data, "1000")
		assert.Contains(t, data, "1001")
	})

	t.Run("single ingredient", func(t *testing.T) {
		body := getJSON(t, app, "/search?ingredients="+url.QueryEscape(`["x"]`), token)
		data := body["data"].(map[string]any)
		assert.Len(t, data, 1)
		assert.Contains(t, data, "1000")
	})

	t.Run("recipes without ingredients never match", func(t *testing.T) {
		body := getJSON(t, app, "/search?ingredients="+url.QueryEscape(`["x", "y", "z"]`), token)
		data := body["data"].(map[string]any)
		assert.NotContains(t, data, "1002")
	})

	t.Run("empty list yields empty data", func(t *testing.T) {
		body := getJSON(t, app, "/search?ingredients="+url.QueryEscape(`[]`), token)
		assert.EqualValues(t, statusOK, body["status"])
		assert.Equal(t, map[string]any{}, body["data"])
	})

	t.Run("non-list ingredients parameter", func(t *testing.T) {
		for _, raw := range []string{`{"x": 1}`, `null`, `"x"`, `42`, `true`} {
			body := getJSON(t, app, "/search?ingredients="+url.QueryEscape(raw), token)
			assert.EqualValues(t, statusError, body["status"], "parameter %s", raw)
			assert.Equal(t, nullValue, body["data"], "parameter %s", raw)
		}
	})

	t.Run("non-string list entries are inert", func(t *testing.T) {
		body := getJSON(t, app, "/search?ingredients="+url.QueryEscape(`["x", 5]`), token)
		assert.EqualValues(t, statusOK, body["status"])
		data := body["data"].(map[string]any)
		assert.Len(t, data, 1)
		assert.Contains(t, data, "1000")
	})
}

func TestSearchModeSelection(t *testing.T) {
	app, s := setupTestApp(t)
	token := registerUser(t, app, s, "cook")

	t.Run("no mode given", func(t *testing.T) {
		body := getJSON(t, app, "/search", token)
		assert.EqualValues(t, statusError, body["status"])
		assert.Equal(t, nullValue, body["data"])
	})

	t.Run("feed wins over ingredients", func(t *testing.T) {
		body := getJSON(t, app, "/search?feed=True&ingredients="+url.QueryEscape(`not json`), token)
		assert.EqualValues(t, statusOK, body["status"])
	})

	t.Run("deleted account cannot search", func(t *testing.T) {
		doomed := registerUser(t, app, s, "doomed")
		del := postForm(t, app, "/delete", doomed, url.Values{"username": {"doomed"}})
		require.EqualValues(t, statusOK, del["status"])

		body := getJSON(t, app, "/search?popular=True", doomed)
		assert.EqualValues(t, statusError, body["status"])
		assert.Equal(t, nullValue, body["data"])
	})
}
