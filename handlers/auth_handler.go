package handlers

import (
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/lumosdigital/backoffice/auth"
	"github.com/lumosdigital/backoffice/middleware"
	"github.com/lumosdigital/backoffice/models"
	"github.com/lumosdigital/backoffice/session"
	"github.com/lumosdigital/backoffice/utils"
	"go.uber.org/zap"
)

// SessionResponse is the user-facing session view.
type SessionResponse struct {
	User      auth.NormalizedUser `json:"user"`
	ExpiresAt time.Time           `json:"expiresAt"`
}

// LoginHandler authenticates credentials against the upstream API and
// establishes a session.
func LoginHandler(deps Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var creds auth.Credentials
		if err := decodeBody(r, &creds); err != nil {
			_ = utils.WriteBadRequest(w, "Invalid request body", nil)
			return
		}

		ctx := r.Context()

		// A prior session is torn down before re-authenticating; the
		// store delete is awaited so the new session never races it. The
		// carrier may arrive in the Authorization header or the cookie.
		if err := deps.Revoke(ctx, r); err != nil {
			deps.Logger().Error("failed to tear down prior session", zap.Error(err))
			_ = utils.WriteInternalServerError(w, "")
			return
		}

		user, err := deps.Auth().Authenticate(ctx, creds)
		if err != nil {
			HandleServiceError(w, err, deps.Logger())
			return
		}

		sess := session.New(uuid.NewString(), user, time.Now(), deps.Carrier().TTL())
		if err := deps.Sessions().Create(ctx, sess); err != nil {
			deps.Logger().Error("failed to create session", zap.Error(err))
			_ = utils.WriteInternalServerError(w, "")
			return
		}

		carrier, err := deps.Carrier().Issue(sess)
		if err != nil {
			deps.Logger().Error("failed to issue session carrier", zap.Error(err))
			_ = utils.WriteInternalServerError(w, "")
			return
		}

		session.SetCookie(w, carrier, sess.ExpiresAt, deps.CookieSecure())
		respondJSON(w, http.StatusOK, SuccessResponse{Data: SessionResponse{
			User:      user,
			ExpiresAt: sess.ExpiresAt,
		}})
	}
}

// LogoutHandler revokes the current session and clears the cookie. Always
// clears the cookie, even when no live session was found.
func LogoutHandler(deps Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := deps.Revoke(r.Context(), r); err != nil {
			deps.Logger().Error("failed to revoke session", zap.Error(err))
			_ = utils.WriteInternalServerError(w, "")
			return
		}

		session.ClearCookie(w, deps.CookieSecure())
		utils.WriteNoContent(w)
	}
}

// SessionHandler returns the current session's user view. Gated by
// RequireAuth; the projection is pure.
func SessionHandler(deps Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess := middleware.GetSessionFromContext(r.Context())
		if sess == nil {
			_ = utils.WriteUnauthorized(w, "")
			return
		}
		respondJSON(w, http.StatusOK, SuccessResponse{Data: SessionResponse{
			User:      sess.User(),
			ExpiresAt: sess.ExpiresAt,
		}})
	}
}

// SignupHandler registers a new account with the upstream API.
func SignupHandler(deps Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var input models.SignupInput
		if err := decodeBody(r, &input); err != nil {
			_ = utils.WriteBadRequest(w, "Invalid request body", nil)
			return
		}

		if err := deps.Accounts().Signup(r.Context(), input); err != nil {
			HandleServiceError(w, err, deps.Logger())
			return
		}
		respondJSON(w, http.StatusCreated, SuccessResponse{Message: "Account created"})
	}
}

// ForgotPasswordHandler starts the password reset flow.
func ForgotPasswordHandler(deps Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var input models.PasswordResetRequestInput
		if err := decodeBody(r, &input); err != nil {
			_ = utils.WriteBadRequest(w, "Invalid request body", nil)
			return
		}

		if err := deps.Accounts().ForgotPassword(r.Context(), input); err != nil {
			HandleServiceError(w, err, deps.Logger())
			return
		}
		respondJSON(w, http.StatusAccepted, SuccessResponse{Message: "Password reset requested"})
	}
}

// ResetPasswordHandler completes the password reset flow.
func ResetPasswordHandler(deps Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var input models.PasswordResetInput
		if err := decodeBody(r, &input); err != nil {
			_ = utils.WriteBadRequest(w, "Invalid request body", nil)
			return
		}

		if err := deps.Accounts().ResetPassword(r.Context(), input); err != nil {
			HandleServiceError(w, err, deps.Logger())
			return
		}
		respondJSON(w, http.StatusOK, SuccessResponse{Message: "Password reset"})
	}
}
