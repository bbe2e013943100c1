package middleware

import (
	"context"
	"net/http"
	"strings"

	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/lumosdigital/backoffice/session"
	"github.com/lumosdigital/backoffice/utils"
	"go.uber.org/zap"
)

// CarrierParser verifies a session-carrier token and returns its claims.
type CarrierParser interface {
	Parse(tokenString string) (*session.Claims, error)
}

// AuthMiddleware gates requests on a valid, unrevoked session. The
// carrier proves authenticity; the store is the revocation authority.
type AuthMiddleware struct {
	carrier CarrierParser
	store   session.Store
	logger  *zap.Logger
}

// NewAuthMiddleware creates a new AuthMiddleware.
func NewAuthMiddleware(carrier CarrierParser, store session.Store, logger *zap.Logger) *AuthMiddleware {
	return &AuthMiddleware{
		carrier: carrier,
		store:   store,
		logger:  logger,
	}
}

// RequireAuth rejects requests without a valid session. The carrier is
// taken from the Authorization header or the session cookie; the session
// must still exist in the store (sign-out revokes it there).
func (m *AuthMiddleware) RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		requestID := chimiddleware.GetReqID(ctx)

		token := extractCarrier(r)
		if token == "" {
			m.logger.Warn("missing session carrier",
				zap.String("request_id", requestID))
			_ = utils.WriteUnauthorized(w, "Missing or invalid authorization")
			return
		}

		claims, err := m.carrier.Parse(token)
		if err != nil {
			m.logger.Warn("session carrier rejected",
				zap.String("request_id", requestID),
				zap.Error(err))
			_ = utils.WriteUnauthorized(w, "Invalid or expired session")
			return
		}

		sess, err := m.store.Get(ctx, claims.SessionID)
		if err != nil {
			m.logger.Error("session store lookup failed",
				zap.String("request_id", requestID),
				zap.Error(err))
			_ = utils.WriteInternalServerError(w, "")
			return
		}
		if sess == nil {
			m.logger.Debug("session revoked or expired",
				zap.String("request_id", requestID),
				zap.String("session_id", claims.SessionID))
			_ = utils.WriteUnauthorized(w, "Session expired, please sign in again")
			return
		}

		next.ServeHTTP(w, r.WithContext(WithSession(ctx, sess)))
	})
}

// RequireRole requires the session role to match one of the given roles.
// Comparison is case-insensitive: the upstream emits both "USER"-style
// constants and "User"-style labels for the same vocabulary.
func (m *AuthMiddleware) RequireRole(roles ...string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()

			sess := GetSessionFromContext(ctx)
			if sess == nil {
				_ = utils.WriteUnauthorized(w, "Authentication required")
				return
			}

			for _, role := range roles {
				if strings.EqualFold(sess.Role, role) {
					next.ServeHTTP(w, r)
					return
				}
			}

			m.logger.Warn("insufficient permissions",
				zap.String("request_id", chimiddleware.GetReqID(ctx)),
				zap.String("role", sess.Role),
				zap.Strings("required", roles))
			_ = utils.WriteForbidden(w, "Insufficient permissions")
		})
	}
}

// Revoke deletes the session behind the request's carrier, if any. Sign-in
// uses it to tear down a pre-existing session before issuing a fresh one,
// sign-out to revoke; the store delete is awaited, not fire-and-forget.
func (m *AuthMiddleware) Revoke(ctx context.Context, r *http.Request) error {
	token := extractCarrier(r)
	if token == "" {
		return nil
	}
	claims, err := m.carrier.Parse(token)
	if err != nil {
		// An unparseable carrier holds no live session.
		return nil
	}
	return m.store.Delete(ctx, claims.SessionID)
}

// extractCarrier extracts the carrier token from the Authorization header
// ("Bearer TOKEN") or the session cookie. The header takes precedence.
func extractCarrier(r *http.Request) string {
	if authHeader := r.Header.Get("Authorization"); authHeader != "" {
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) == 2 && strings.EqualFold(parts[0], "bearer") {
			return strings.TrimSpace(parts[1])
		}
	}
	if cookie, err := r.Cookie(session.CookieName); err == nil && cookie.Value != "" {
		return cookie.Value
	}
	return ""
}
