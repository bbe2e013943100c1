package middleware

import (
	"context"

	"github.com/lumosdigital/backoffice/session"
)

// Context key type to avoid collisions
type contextKey string

// SessionKey is the context key for the authenticated session
const SessionKey contextKey = "session"

// GetSessionFromContext retrieves the authenticated session from context
func GetSessionFromContext(ctx context.Context) *session.Session {
	if val := ctx.Value(SessionKey); val != nil {
		if s, ok := val.(*session.Session); ok {
			return s
		}
	}
	return nil
}

// WithSession adds the authenticated session to the context
func WithSession(ctx context.Context, s *session.Session) context.Context {
	return context.WithValue(ctx, SessionKey, s)
}
