// Package auth implements credential authentication against the upstream
// API and the normalization of its heterogeneous login responses into a
// single stable user shape.
package auth

import (
	"encoding/base64"
	"encoding/json"
	"strconv"
	"strings"

	"github.com/lumosdigital/backoffice/services"
)

// PlaceholderToken is the sentinel used when a bare user record carries no
// token of its own.
const PlaceholderToken = "dummy-token"

// NormalizedUser is the only identity shape the rest of the system may
// depend on. It is reconstructed fresh on every sign-in attempt.
type NormalizedUser struct {
	ID           string `json:"id"`
	Email        string `json:"email"`
	Name         string `json:"name"`
	Role         string `json:"role"`
	Token        string `json:"token"`
	RefreshToken string `json:"refreshToken,omitempty"`
}

// userRecord is the loosely-typed user object embedded in upstream
// responses. IDs arrive as strings or numbers depending on the backend.
type userRecord struct {
	ID          interface{} `json:"id"`
	Email       string      `json:"email"`
	Username    string      `json:"username"`
	Name        string      `json:"name"`
	DisplayName string      `json:"displayName"`
	Role        string      `json:"role"`
	UserType    string      `json:"userType"`
}

func (u userRecord) empty() bool {
	return u.ID == nil && u.Email == "" && u.Username == "" && u.Name == "" && u.DisplayName == ""
}

// resolved is the intermediate result of shape resolution, before field
// mapping into a NormalizedUser.
type resolved struct {
	user    userRecord
	token   string
	refresh string
	// synthetic marks the token-decode fallback path, which carries its
	// own role default ("USER" rather than "User").
	synthetic bool
}

// rawObject is a decoded top-level JSON object.
type rawObject map[string]json.RawMessage

// Normalize reduces an upstream login response body into a NormalizedUser,
// or fails with a typed reason. It is a pure function of the response body
// and the submitted email.
func Normalize(body []byte, inputEmail string) (NormalizedUser, error) {
	var obj rawObject
	if err := json.Unmarshal(body, &obj); err != nil || len(obj) == 0 {
		return NormalizedUser{}, services.ErrUnrecognizedResponse
	}
	return resolve(obj, inputEmail, 0)
}

// maxUnwrapDepth bounds {success, data} envelope recursion.
const maxUnwrapDepth = 3

// resolve attempts each known response shape in fixed priority order;
// the first decoder that matches wins.
func resolve(obj rawObject, inputEmail string, depth int) (NormalizedUser, error) {
	decoders := []func(rawObject, string) (resolved, bool){
		decodeAccessUser,
		decodeTokenUser,
		decodeMessageToken,
		decodeBareUser,
	}

	for _, decode := range decoders {
		if res, ok := decode(obj, inputEmail); ok {
			return mapFields(res, inputEmail)
		}
	}

	// {success, user} / {success, data}: unwrap one level and recurse.
	if inner, ok := unwrapEnvelope(obj); ok {
		if depth >= maxUnwrapDepth {
			return NormalizedUser{}, services.ErrUnrecognizedResponse
		}
		return resolve(inner, inputEmail, depth+1)
	}

	return NormalizedUser{}, services.ErrUnrecognizedResponse
}

// decodeAccessUser matches {access, user}.
func decodeAccessUser(obj rawObject, _ string) (resolved, bool) {
	access, hasAccess := stringField(obj, "access")
	userRaw, hasUser := obj["user"]
	if !hasAccess || !hasUser {
		return resolved{}, false
	}
	user, err := decodeUser(userRaw)
	if err != nil {
		return resolved{}, false
	}
	refresh, _ := stringField(obj, "refresh")
	return resolved{user: user, token: access, refresh: refresh}, true
}

// decodeTokenUser matches {token, user}.
func decodeTokenUser(obj rawObject, _ string) (resolved, bool) {
	token, hasToken := stringField(obj, "token")
	userRaw, hasUser := obj["user"]
	if !hasToken || !hasUser {
		return resolved{}, false
	}
	user, err := decodeUser(userRaw)
	if err != nil {
		return resolved{}, false
	}
	refresh, _ := stringField(obj, "refreshToken")
	return resolved{user: user, token: token, refresh: refresh}, true
}

// decodeMessageToken matches {message, token}. Identity is recovered from
// the token's payload segment; when that fails, a synthetic user derived
// from the submitted email is used instead. That degradation is deliberate
// and not an error.
func decodeMessageToken(obj rawObject, inputEmail string) (resolved, bool) {
	if _, hasMessage := obj["message"]; !hasMessage {
		return resolved{}, false
	}
	token, hasToken := stringField(obj, "token")
	if !hasToken {
		return resolved{}, false
	}

	if payload, err := decodeTokenPayload(token); err == nil {
		subject := payload.Sub
		if subject == "" {
			subject = inputEmail
		}
		username := payload.Username
		if username == "" {
			username = localPart(inputEmail)
		}
		role := payload.Role
		if role == "" {
			role = "USER"
		}
		return resolved{
			user: userRecord{
				ID:       subject,
				Email:    subject,
				Username: username,
				Role:     role,
			},
			token:     token,
			synthetic: true,
		}, true
	}

	return resolved{
		user: userRecord{
			ID:       inputEmail,
			Email:    inputEmail,
			Username: localPart(inputEmail),
			Role:     "USER",
		},
		token:     token,
		synthetic: true,
	}, true
}

// decodeBareUser matches {id, email, ...}: the payload itself is the user.
func decodeBareUser(obj rawObject, _ string) (resolved, bool) {
	_, hasID := obj["id"]
	email, hasEmail := stringField(obj, "email")
	if !hasID || !hasEmail || email == "" {
		return resolved{}, false
	}

	var user userRecord
	if err := json.Unmarshal(mustMarshal(obj), &user); err != nil {
		return resolved{}, false
	}

	token, _ := stringField(obj, "token")
	if token == "" {
		token = PlaceholderToken
	}
	refresh, _ := stringField(obj, "refreshToken")
	return resolved{user: user, token: token, refresh: refresh}, true
}

// unwrapEnvelope matches {success, user} and {success, data}.
func unwrapEnvelope(obj rawObject) (rawObject, bool) {
	if _, hasSuccess := obj["success"]; !hasSuccess {
		return nil, false
	}
	for _, key := range []string{"user", "data"} {
		raw, ok := obj[key]
		if !ok {
			continue
		}
		var inner rawObject
		if err := json.Unmarshal(raw, &inner); err == nil && len(inner) > 0 {
			return inner, true
		}
	}
	return nil, false
}

// mapFields maps a resolved shape into the stable NormalizedUser, applying
// the documented fallback chain per field. It never returns partial data:
// an identity that is still empty after all fallbacks is a hard failure.
func mapFields(res resolved, inputEmail string) (NormalizedUser, error) {
	if res.user.empty() {
		return NormalizedUser{}, services.ErrMissingUserData
	}

	id := stringifyID(res.user.ID)
	if id == "" {
		id = res.user.Email
	}
	if id == "" {
		id = "unknown"
	}

	email := res.user.Email
	if email == "" {
		email = inputEmail
	}

	name := firstOf(res.user.Username, res.user.Name, res.user.DisplayName, email)

	role := firstOf(res.user.Role, res.user.UserType)
	if role == "" {
		// The synthetic fallback vocabulary is "USER"; the primary
		// mapping default is "User". Preserved as-is, see DESIGN.md.
		if res.synthetic {
			role = "USER"
		} else {
			role = "User"
		}
	}

	user := NormalizedUser{
		ID:           id,
		Email:        email,
		Name:         name,
		Role:         role,
		Token:        res.token,
		RefreshToken: res.refresh,
	}

	if user.Email == "" && (user.ID == "" || user.ID == "unknown") {
		return NormalizedUser{}, services.ErrInvalidUserStructure
	}
	if user.Token == "" {
		return NormalizedUser{}, services.ErrInvalidUserStructure
	}

	return user, nil
}

// tokenPayload is the decoded middle segment of an upstream JWT.
type tokenPayload struct {
	Sub      string `json:"sub"`
	Role     string `json:"role"`
	Username string `json:"username"`
}

// decodeTokenPayload decodes the middle segment of a three-dot-separated
// token as base64 JSON.
func decodeTokenPayload(token string) (*tokenPayload, error) {
	parts := strings.Split(token, ".")
	if len(parts) != 3 {
		return nil, services.ErrInvalidUserStructure
	}

	data, err := base64.RawURLEncoding.DecodeString(parts[1])
	if err != nil {
		// Some upstream revisions emit standard base64.
		data, err = base64.StdEncoding.DecodeString(parts[1])
		if err != nil {
			return nil, err
		}
	}

	var payload tokenPayload
	if err := json.Unmarshal(data, &payload); err != nil {
		return nil, err
	}
	return &payload, nil
}

func decodeUser(raw json.RawMessage) (userRecord, error) {
	var user userRecord
	if err := json.Unmarshal(raw, &user); err != nil {
		return userRecord{}, err
	}
	return user, nil
}

func stringField(obj rawObject, key string) (string, bool) {
	raw, ok := obj[key]
	if !ok {
		return "", false
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return "", false
	}
	return s, true
}

// stringifyID renders a string or numeric id as a string.
func stringifyID(id interface{}) string {
	switch v := id.(type) {
	case nil:
		return ""
	case string:
		return v
	case json.Number:
		return v.String()
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case int:
		return strconv.Itoa(v)
	default:
		return ""
	}
}

func localPart(email string) string {
	if at := strings.Index(email, "@"); at > 0 {
		return email[:at]
	}
	return email
}

func firstOf(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

func mustMarshal(obj rawObject) []byte {
	data, _ := json.Marshal(obj)
	return data
}
