package auth

import (
	"encoding/base64"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCodec_IssueKnownToken(t *testing.T) {
	codec := NewCodec("test-secret")

	token, err := codec.Issue("jmm")
	require.NoError(t, err)

	// The header and payload segments are a fixed byte contract: canonical
	// compact JSON with ": " and ", " separators, base64url with padding.
	assert.Equal(t,
		"eyJhbGciOiAiSFMyNTYiLCAidHlwIjogIkpXVCJ9.eyJ1c2VybmFtZSI6ICJqbW0ifQ==."+
			"6b568bdbeb866aa37f90e2d8adf68f56e0c60c780160ff0e32ae86ef242a555d",
		token)
}

func TestCodec_IssueEscaping(t *testing.T) {
	codec := NewCodec("test-secret")

	// Historically issued payloads never HTML-escape '&', '<', '>' and
	// write every non-ASCII rune as a lowercase \uXXXX escape, with
	// surrogate pairs beyond the BMP. Tokens for such usernames must
	// reproduce those bytes exactly.
	tests := []struct {
		username string
		token    string
	}{
		{
			"a&b",
			"eyJhbGciOiAiSFMyNTYiLCAidHlwIjogIkpXVCJ9.eyJ1c2VybmFtZSI6ICJhJmIifQ==." +
				"525a1d3c6e82448fc70d99c269db14bcc339bb74e2ff6acee1c5b794e47231dc",
		},
		{
			"j<m>m",
			"eyJhbGciOiAiSFMyNTYiLCAidHlwIjogIkpXVCJ9.eyJ1c2VybmFtZSI6ICJqPG0-bSJ9." +
				"a527e3ea4dbe06a792cd5add9f079ec8c045b59a0d79de3f13b166a34afa69d4",
		},
		{
			"café",
			"eyJhbGciOiAiSFMyNTYiLCAidHlwIjogIkpXVCJ9.eyJ1c2VybmFtZSI6ICJjYWZcdTAwZTkifQ==." +
				"4a6657d0ef1dc70f0e2e19cbaa6910c1af6a0e3241069cb4754074e9d54e8e15",
		},
		{
			"\U0001F35C",
			"eyJhbGciOiAiSFMyNTYiLCAidHlwIjogIkpXVCJ9.eyJ1c2VybmFtZSI6ICJcdWQ4M2NcdWRmNWMifQ==." +
				"ae00f9c001b25a1ad4e4b8dde3db328fa763deb067ac9500c8684e78fa2beb89",
		},
	}

	for _, tt := range tests {
		t.Run(tt.username, func(t *testing.T) {
			token, err := codec.Issue(tt.username)
			require.NoError(t, err)
			assert.Equal(t, tt.token, token)

			got, ok := codec.Verify(token)
			assert.True(t, ok)
			assert.Equal(t, tt.username, got)
		})
	}
}

func TestEncodeTokenString(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"jmm", `"jmm"`},
		{"a&b", `"a&b"`},
		{`quo"te`, `"quo\"te"`},
		{`back\slash`, `"back\\slash"`},
		{"tab\there", `"tab\there"`},
		{"café", `"café"`},
		{"\x7f", `""`},
		{"\U0001F35C", `"🍜"`},
		{"", `""`},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, encodeTokenString(tt.in), "input %q", tt.in)
	}
}

func TestCodec_RoundTrip(t *testing.T) {
	codec := NewCodec("another secret")

	for _, username := range []string{"jmm", "alice", "user with spaces", "ünïcode", ""} {
		token, err := codec.Issue(username)
		require.NoError(t, err)

		got, ok := codec.Verify(token)
		assert.True(t, ok, "token for %q should verify", username)
		assert.Equal(t, username, got)
	}
}

func TestCodec_Verify_Invalid(t *testing.T) {
	codec := NewCodec("test-secret")
	valid, err := codec.Issue("jmm")
	require.NoError(t, err)

	tests := []struct {
		name  string
		token string
	}{
		{"empty", ""},
		{"two parts", "abc.def"},
		{"four parts", valid + ".extra"},
		{"garbage", "not-a-token"},
		{"truncated signature", valid[:len(valid)-2]},
		{"wrong secret", func() string {
			other, _ := NewCodec("different-secret").Issue("jmm")
			return other
		}()},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, ok := codec.Verify(tt.token)
			assert.False(t, ok)
		})
	}
}

func TestCodec_Verify_SignatureBitFlip(t *testing.T) {
	codec := NewCodec("test-secret")
	valid, err := codec.Issue("jmm")
	require.NoError(t, err)

	parts := strings.Split(valid, ".")
	require.Len(t, parts, 3)

	// Mutating any single hex character of the signature must invalidate
	// the token.
	sig := []byte(parts[2])
	for i := range sig {
		mutated := make([]byte, len(sig))
		copy(mutated, sig)
		if mutated[i] == 'a' {
			mutated[i] = 'b'
		} else {
			mutated[i] = 'a'
		}
		if string(mutated) == parts[2] {
			continue
		}
		_, ok := codec.Verify(parts[0] + "." + parts[1] + "." + string(mutated))
		assert.False(t, ok, "flip at index %d should invalidate token", i)
	}
}

func TestCodec_Verify_TamperedPayload(t *testing.T) {
	codec := NewCodec("test-secret")
	a, err := codec.Issue("alice")
	require.NoError(t, err)
	b, err := codec.Issue("bob")
	require.NoError(t, err)

	aParts := strings.Split(a, ".")
	bParts := strings.Split(b, ".")

	// Splicing bob's payload under alice's signature must fail.
	_, ok := codec.Verify(aParts[0] + "." + bParts[1] + "." + aParts[2])
	assert.False(t, ok)
}

func TestCodec_Verify_PayloadMissingUsername(t *testing.T) {
	codec := NewCodec("test-secret")

	// Hand-build a correctly signed token whose payload has no username
	// field; the signature is valid but verification must still reject it.
	forge := func(payloadJSON string) string {
		headerB64 := "eyJhbGciOiAiSFMyNTYiLCAidHlwIjogIkpXVCJ9"
		payloadB64 := base64.URLEncoding.EncodeToString([]byte(payloadJSON))
		signingInput := headerB64 + "." + payloadB64
		return signingInput + "." + codec.sign(signingInput)
	}

	tests := []struct {
		name    string
		payload string
	}{
		{"no username field", `{"user": "jmm"}`},
		{"non-string username", `{"username": 42}`},
		{"null username", `{"username": null}`},
		{"not json", `this is not json`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, ok := codec.Verify(forge(tt.payload))
			assert.False(t, ok)
		})
	}
}
