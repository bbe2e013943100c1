// Package handlers contains the HTTP handlers of the back-office gateway.
// Handlers are closures over a Deps interface so tests can wire fakes.
package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/lumosdigital/backoffice/auth"
	"github.com/lumosdigital/backoffice/services/account"
	"github.com/lumosdigital/backoffice/services/messages"
	"github.com/lumosdigital/backoffice/services/products"
	"github.com/lumosdigital/backoffice/session"
	"go.uber.org/zap"
)

// Deps provides the dependencies handlers need. Satisfied by
// *app.Dependencies.
type Deps interface {
	Logger() *zap.Logger
	Auth() *auth.Service
	Products() *products.Service
	Messages() *messages.Service
	Accounts() *account.Service
	Sessions() session.Store
	Carrier() *session.Carrier
	CookieSecure() bool
	Revoke(ctx context.Context, r *http.Request) error
	Ready(ctx context.Context) error
}

// Common error response structure
type ErrorResponse struct {
	Error   string                 `json:"error"`
	Message string                 `json:"message,omitempty"`
	Details map[string]interface{} `json:"details,omitempty"`
}

// Common success response structure
type SuccessResponse struct {
	Data    interface{} `json:"data,omitempty"`
	Message string      `json:"message,omitempty"`
}

// respondJSON writes a JSON response
func respondJSON(w http.ResponseWriter, statusCode int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(data)
}

// respondError writes an error JSON response
func respondError(w http.ResponseWriter, statusCode int, err string, message string) {
	respondJSON(w, statusCode, ErrorResponse{
		Error:   err,
		Message: message,
	})
}

// decodeBody decodes a JSON request body into dst.
func decodeBody(r *http.Request, dst interface{}) error {
	defer r.Body.Close()
	dec := json.NewDecoder(r.Body)
	return dec.Decode(dst)
}
