package auth

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
	"unicode"
)

// HashPassword returns the lowercase-hex SHA-256 digest of password+salt.
// Deterministic: the same inputs always yield the same digest, which login
// relies on when recomputing against the stored hash.
func HashPassword(password, salt string) string {
	sum := sha256.Sum256([]byte(password + salt))
	return hex.EncodeToString(sum[:])
}

// ValidatePassword checks the account password policy. The result is a
// single boolean so callers cannot learn which rule failed.
//
// Rules: at least 8 characters; at least one lowercase letter, one
// uppercase letter and one digit; must not contain the username, first
// name or last name (all checks case-insensitive).
func ValidatePassword(password, username, firstName, lastName string) bool {
	if len(password) < 8 {
		return false
	}

	hasLower := false
	hasUpper := false
	hasDigit := false
	for _, r := range password {
		switch {
		case unicode.IsLower(r):
			hasLower = true
		case unicode.IsUpper(r):
			hasUpper = true
		case unicode.IsDigit(r):
			hasDigit = true
		}
	}
	if !hasLower || !hasUpper || !hasDigit {
		return false
	}

	lowered := strings.ToLower(password)
	if strings.Contains(lowered, strings.ToLower(username)) {
		return false
	}
	if strings.Contains(lowered, strings.ToLower(firstName)) {
		return false
	}
	if strings.Contains(lowered, strings.ToLower(lastName)) {
		return false
	}

	return true
}
