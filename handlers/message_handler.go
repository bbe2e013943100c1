package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/lumosdigital/backoffice/models"
	"github.com/lumosdigital/backoffice/utils"
)

// ContactHandler accepts a public contact-form submission. No session
// required; this is the one write endpoint open to anonymous visitors.
func ContactHandler(deps Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var input models.ContactInput
		if err := decodeBody(r, &input); err != nil {
			_ = utils.WriteBadRequest(w, "Invalid request body", nil)
			return
		}

		if err := deps.Messages().Send(r.Context(), input); err != nil {
			HandleServiceError(w, err, deps.Logger())
			return
		}
		respondJSON(w, http.StatusCreated, SuccessResponse{Message: "Message sent"})
	}
}

// ListMessagesHandler lists the admin inbox, filtered by the optional q parameter.
func ListMessagesHandler(deps Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		token, ok := sessionToken(w, r)
		if !ok {
			return
		}

		items, err := deps.Messages().List(r.Context(), token, r.URL.Query().Get("q"))
		if err != nil {
			HandleServiceError(w, err, deps.Logger())
			return
		}
		respondJSON(w, http.StatusOK, SuccessResponse{Data: items})
	}
}

// GetConversationHandler returns the messages of one conversation.
func GetConversationHandler(deps Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		token, ok := sessionToken(w, r)
		if !ok {
			return
		}

		items, err := deps.Messages().Conversation(r.Context(), token, chi.URLParam(r, "id"))
		if err != nil {
			HandleServiceError(w, err, deps.Logger())
			return
		}
		respondJSON(w, http.StatusOK, SuccessResponse{Data: items})
	}
}

// DeleteMessageHandler removes one message.
func DeleteMessageHandler(deps Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		token, ok := sessionToken(w, r)
		if !ok {
			return
		}

		if err := deps.Messages().Delete(r.Context(), token, chi.URLParam(r, "id")); err != nil {
			HandleServiceError(w, err, deps.Logger())
			return
		}
		utils.WriteNoContent(w)
	}
}

// BatchDeleteMessagesHandler removes many messages in one request.
func BatchDeleteMessagesHandler(deps Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		token, ok := sessionToken(w, r)
		if !ok {
			return
		}

		var req BatchDeleteRequest
		if err := decodeBody(r, &req); err != nil {
			_ = utils.WriteBadRequest(w, "Invalid request body", nil)
			return
		}

		deleted, err := deps.Messages().BatchDelete(r.Context(), token, req.IDs)
		if err != nil {
			HandleServiceError(w, err, deps.Logger())
			return
		}
		respondJSON(w, http.StatusOK, SuccessResponse{Data: BatchDeleteResponse{Deleted: deleted}})
	}
}
