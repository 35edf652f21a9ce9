package server

import (
	"encoding/json"
	"net/url"

	"github.com/gofiber/fiber/v2"
)

// postParam extracts a POST parameter regardless of how the client encoded
// the request. Form fields are tried first, then a JSON object body, then a
// raw url-encoded body without a content type. Empty values count as absent.
func postParam(c *fiber.Ctx, name string) string {
	if v := c.FormValue(name); v != "" {
		return v
	}

	body := c.Body()
	if len(body) == 0 {
		return ""
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(body, &fields); err == nil {
		if raw, ok := fields[name]; ok {
			var s string
			if err := json.Unmarshal(raw, &s); err == nil && s != "" {
				return s
			}
			// Numeric identifiers may arrive as bare JSON numbers.
			var n json.Number
			if err := json.Unmarshal(raw, &n); err == nil {
				return n.String()
			}
		}
	}

	if values, err := url.ParseQuery(string(body)); err == nil {
		if v := values.Get(name); v != "" {
			return v
		}
	}

	return ""
}
