package auth

import (
	"encoding/base64"
	"encoding/json"
	"testing"

	"github.com/lumosdigital/backoffice/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// signedToken builds a three-segment token whose payload segment is valid
// base64 JSON.
func signedToken(t *testing.T, payload map[string]interface{}) string {
	t.Helper()
	data, err := json.Marshal(payload)
	require.NoError(t, err)
	return "header." + base64.RawURLEncoding.EncodeToString(data) + ".signature"
}

func TestNormalizeKnownShapes(t *testing.T) {
	tests := []struct {
		name string
		body string
		want NormalizedUser
	}{
		{
			name: "access and user",
			body: `{"access":"tok-a","refresh":"ref-a","user":{"id":"u1","email":"u@example.com","username":"ursula"}}`,
			want: NormalizedUser{
				ID:           "u1",
				Email:        "u@example.com",
				Name:         "ursula",
				Role:         "User",
				Token:        "tok-a",
				RefreshToken: "ref-a",
			},
		},
		{
			name: "token and user",
			body: `{"token":"abc","user":{"id":7,"email":"a@b.com","username":"Ann"}}`,
			want: NormalizedUser{
				ID:    "7",
				Email: "a@b.com",
				Name:  "Ann",
				Role:  "User",
				Token: "abc",
			},
		},
		{
			name: "bare user record",
			body: `{"id":"42","email":"z@example.org"}`,
			want: NormalizedUser{
				ID:    "42",
				Email: "z@example.org",
				Name:  "z@example.org",
				Role:  "User",
				Token: PlaceholderToken,
			},
		},
		{
			name: "success envelope around token and user",
			body: `{"success":true,"data":{"token":"t5","user":{"id":"u5","email":"five@example.com","name":"Five"}}}`,
			want: NormalizedUser{
				ID:    "u5",
				Email: "five@example.com",
				Name:  "Five",
				Role:  "User",
				Token: "t5",
			},
		},
		{
			name: "success envelope around bare user",
			body: `{"success":true,"user":{"id":"u6","email":"six@example.com","token":"t6","role":"ADMIN"}}`,
			want: NormalizedUser{
				ID:    "u6",
				Email: "six@example.com",
				Name:  "six@example.com",
				Role:  "ADMIN",
				Token: "t6",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Normalize([]byte(tt.body), "input@example.com")
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)

			// The stable-shape guarantee: token and email are never empty
			// for any recognized shape.
			assert.NotEmpty(t, got.Token)
			assert.NotEmpty(t, got.Email)
		})
	}
}

func TestNormalizeMessageTokenShape(t *testing.T) {
	t.Run("identity recovered from token payload", func(t *testing.T) {
		token := signedToken(t, map[string]interface{}{
			"sub":      "sam@example.io",
			"role":     "ADMIN",
			"username": "sam",
		})
		body, _ := json.Marshal(map[string]string{"message": "login ok", "token": token})

		got, err := Normalize(body, "sam@example.io")
		require.NoError(t, err)
		assert.Equal(t, "sam@example.io", got.Email)
		assert.Equal(t, "sam", got.Name)
		assert.Equal(t, "ADMIN", got.Role)
		assert.Equal(t, token, got.Token)
	})

	t.Run("undecodable payload falls back to synthetic user", func(t *testing.T) {
		body := `{"message":"ok","token":"abc.!!!not-base64!!!.def"}`

		got, err := Normalize([]byte(body), "jane.doe@example.com")
		require.NoError(t, err, "decode failure is best-effort degradation, not an error")
		assert.Equal(t, "jane.doe@example.com", got.Email)
		assert.Equal(t, "jane.doe", got.Name)
		assert.Equal(t, "USER", got.Role)
		assert.Equal(t, "abc.!!!not-base64!!!.def", got.Token)
	})

	t.Run("token without three segments falls back to synthetic user", func(t *testing.T) {
		got, err := Normalize([]byte(`{"message":"ok","token":"opaque"}`), "bob@example.com")
		require.NoError(t, err)
		assert.Equal(t, "bob", got.Name)
		assert.Equal(t, "USER", got.Role)
	})

	t.Run("payload missing role defaults to USER vocabulary", func(t *testing.T) {
		token := signedToken(t, map[string]interface{}{"sub": "kim@example.com"})
		body, _ := json.Marshal(map[string]string{"message": "ok", "token": token})

		got, err := Normalize(body, "kim@example.com")
		require.NoError(t, err)
		assert.Equal(t, "USER", got.Role)
		assert.Equal(t, "kim", got.Name)
	})
}

func TestNormalizePriorityOrder(t *testing.T) {
	// When a payload matches several shapes, the first in priority order
	// wins: access beats token.
	body := `{"access":"from-access","token":"from-token","user":{"id":"1","email":"p@example.com"}}`

	got, err := Normalize([]byte(body), "p@example.com")
	require.NoError(t, err)
	assert.Equal(t, "from-access", got.Token)
}

func TestNormalizeFieldFallbacks(t *testing.T) {
	t.Run("name falls through username, name, displayName, email", func(t *testing.T) {
		got, err := Normalize([]byte(`{"token":"t","user":{"id":"1","email":"e@x.com","displayName":"Dee"}}`), "e@x.com")
		require.NoError(t, err)
		assert.Equal(t, "Dee", got.Name)

		got, err = Normalize([]byte(`{"token":"t","user":{"id":"1","email":"e@x.com"}}`), "e@x.com")
		require.NoError(t, err)
		assert.Equal(t, "e@x.com", got.Name)
	})

	t.Run("role falls through role, userType, then User default", func(t *testing.T) {
		got, err := Normalize([]byte(`{"token":"t","user":{"id":"1","email":"e@x.com","userType":"Editor"}}`), "e@x.com")
		require.NoError(t, err)
		assert.Equal(t, "Editor", got.Role)
	})

	t.Run("missing id falls back to email then unknown", func(t *testing.T) {
		got, err := Normalize([]byte(`{"token":"t","user":{"email":"only@x.com"}}`), "only@x.com")
		require.NoError(t, err)
		assert.Equal(t, "only@x.com", got.ID)

		got, err = Normalize([]byte(`{"token":"t","user":{"username":"ghost"}}`), "fallback@x.com")
		require.NoError(t, err)
		assert.Equal(t, "unknown", got.ID)
		assert.Equal(t, "fallback@x.com", got.Email)
	})
}

func TestNormalizeFailures(t *testing.T) {
	tests := []struct {
		name  string
		body  string
		check func(t *testing.T, err error)
	}{
		{
			name:  "empty object",
			body:  `{}`,
			check: func(t *testing.T, err error) { assert.True(t, services.IsUnrecognizedResponseError(err)) },
		},
		{
			name:  "unknown keys",
			body:  `{"foo":1}`,
			check: func(t *testing.T, err error) { assert.True(t, services.IsUnrecognizedResponseError(err)) },
		},
		{
			name:  "not json",
			body:  `<html>gateway error</html>`,
			check: func(t *testing.T, err error) { assert.True(t, services.IsUnrecognizedResponseError(err)) },
		},
		{
			name:  "token with empty user object",
			body:  `{"token":"t","user":{}}`,
			check: func(t *testing.T, err error) { assert.True(t, services.IsMissingUserDataError(err)) },
		},
		{
			name:  "success envelope around nothing usable",
			body:  `{"success":true,"data":{"foo":"bar"}}`,
			check: func(t *testing.T, err error) { assert.True(t, services.IsUnrecognizedResponseError(err)) },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Normalize([]byte(tt.body), "x@y.com")
			require.Error(t, err)
			tt.check(t, err)
		})
	}
}

func TestNormalizeIsPure(t *testing.T) {
	body := []byte(`{"token":"abc","user":{"id":7,"email":"a@b.com","username":"Ann"}}`)

	first, err := Normalize(body, "a@b.com")
	require.NoError(t, err)
	second, err := Normalize(body, "a@b.com")
	require.NoError(t, err)
	assert.Equal(t, first, second)
}
