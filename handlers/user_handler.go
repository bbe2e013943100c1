package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/lumosdigital/backoffice/models"
	"github.com/lumosdigital/backoffice/utils"
)

// ListUsersHandler lists all accounts. Admin only.
func ListUsersHandler(deps Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		token, ok := sessionToken(w, r)
		if !ok {
			return
		}

		users, err := deps.Accounts().List(r.Context(), token)
		if err != nil {
			HandleServiceError(w, err, deps.Logger())
			return
		}
		respondJSON(w, http.StatusOK, SuccessResponse{Data: users})
	}
}

// GetUserHandler returns one account by email. Admin only.
func GetUserHandler(deps Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		token, ok := sessionToken(w, r)
		if !ok {
			return
		}

		user, err := deps.Accounts().GetByEmail(r.Context(), token, chi.URLParam(r, "email"))
		if err != nil {
			HandleServiceError(w, err, deps.Logger())
			return
		}
		respondJSON(w, http.StatusOK, SuccessResponse{Data: user})
	}
}

// UpdateUserHandler updates an account profile. Admin only.
func UpdateUserHandler(deps Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		token, ok := sessionToken(w, r)
		if !ok {
			return
		}

		var input models.ProfileUpdateInput
		if err := decodeBody(r, &input); err != nil {
			_ = utils.WriteBadRequest(w, "Invalid request body", nil)
			return
		}

		if err := deps.Accounts().UpdateProfile(r.Context(), token, chi.URLParam(r, "email"), input); err != nil {
			HandleServiceError(w, err, deps.Logger())
			return
		}
		respondJSON(w, http.StatusOK, SuccessResponse{Message: "Profile updated"})
	}
}

// ChangePasswordHandler changes an account password. Admin only.
func ChangePasswordHandler(deps Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		token, ok := sessionToken(w, r)
		if !ok {
			return
		}

		var input models.PasswordChangeInput
		if err := decodeBody(r, &input); err != nil {
			_ = utils.WriteBadRequest(w, "Invalid request body", nil)
			return
		}

		if err := deps.Accounts().ChangePassword(r.Context(), token, chi.URLParam(r, "email"), input); err != nil {
			HandleServiceError(w, err, deps.Logger())
			return
		}
		respondJSON(w, http.StatusOK, SuccessResponse{Message: "Password changed"})
	}
}

// DeleteUserHandler removes an account. Admin only.
func DeleteUserHandler(deps Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		token, ok := sessionToken(w, r)
		if !ok {
			return
		}

		if err := deps.Accounts().Delete(r.Context(), token, chi.URLParam(r, "email")); err != nil {
			HandleServiceError(w, err, deps.Logger())
			return
		}
		utils.WriteNoContent(w)
	}
}
