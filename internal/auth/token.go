// Package auth implements the bearer-token codec and credential rules.
package auth

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"strings"
	"unicode/utf16"
)

// headerJSON is the canonical serialized header: keys in declared order,
// a single space after each colon and comma. Verification resigns the
// original segments, so these exact bytes are part of the token contract
// and must never change.
const headerJSON = `{"alg": "HS256", "typ": "JWT"}`

// Codec issues and verifies HMAC-signed bearer tokens. It is stateless
// apart from the process-wide secret, which is loaded once at startup and
// read-only for the process lifetime. Tokens carry no expiry; once issued
// under the current secret they verify indefinitely.
type Codec struct {
	secret []byte
}

// NewCodec returns a Codec signing with the given secret.
func NewCodec(secret string) *Codec {
	return &Codec{secret: []byte(secret)}
}

// Issue builds a token for the given username:
// base64url(header) + "." + base64url(payload) + "." + hex(HMAC-SHA256).
// Base64 padding is retained and the signature is lowercase hex; both are
// load-bearing for verification against historically issued tokens.
func (c *Codec) Issue(username string) (string, error) {
	payloadJSON := `{"username": ` + encodeTokenString(username) + `}`

	headerB64 := base64.URLEncoding.EncodeToString([]byte(headerJSON))
	payloadB64 := base64.URLEncoding.EncodeToString([]byte(payloadJSON))

	signingInput := headerB64 + "." + payloadB64
	return signingInput + "." + c.sign(signingInput), nil
}

// Verify checks a token's signature and returns the username it carries.
// The token is invalid when it is not exactly three dot-separated parts,
// the recomputed signature differs, the payload does not decode as JSON,
// or the payload lacks a string "username" field.
func (c *Codec) Verify(token string) (string, bool) {
	parts := strings.Split(token, ".")
	if len(parts) != 3 {
		return "", false
	}

	signingInput := parts[0] + "." + parts[1]
	expected := c.sign(signingInput)
	// Constant-time comparison over the hex digests.
	if !hmac.Equal([]byte(parts[2]), []byte(expected)) {
		return "", false
	}

	payloadJSON, err := base64.URLEncoding.DecodeString(parts[1])
	if err != nil {
		return "", false
	}
	var payload map[string]any
	if err := json.Unmarshal(payloadJSON, &payload); err != nil {
		return "", false
	}
	username, ok := payload["username"].(string)
	if !ok {
		return "", false
	}
	return username, true
}

// encodeTokenString serializes a string the way historically issued
// payloads were written: ASCII-only output with lowercase \uXXXX escapes
// for every rune outside 0x20..0x7e (surrogate pairs beyond the BMP), and
// no escaping of '&', '<', or '>'. encoding/json cannot produce these
// bytes; its HTML-safe default and raw UTF-8 output both change the
// payload and with it the signature.
func encodeTokenString(s string) string {
	var b strings.Builder
	b.WriteByte('"')
	for _, r := range s {
		switch r {
		case '"':
			b.WriteString(`\"`)
		case '\\':
			b.WriteString(`\\`)
		case '\b':
			b.WriteString(`\b`)
		case '\f':
			b.WriteString(`\f`)
		case '\n':
			b.WriteString(`\n`)
		case '\r':
			b.WriteString(`\r`)
		case '\t':
			b.WriteString(`\t`)
		default:
			switch {
			case r >= 0x20 && r <= 0x7e:
				b.WriteRune(r)
			case r > 0xffff:
				hi, lo := utf16.EncodeRune(r)
				fmt.Fprintf(&b, `\u%04x\u%04x`, hi, lo)
			default:
				fmt.Fprintf(&b, `\u%04x`, r)
			}
		}
	}
	b.WriteByte('"')
	return b.String()
}

func (c *Codec) sign(signingInput string) string {
	mac := hmac.New(sha256.New, c.secret)
	mac.Write([]byte(signingInput))
	return hex.EncodeToString(mac.Sum(nil))
}
