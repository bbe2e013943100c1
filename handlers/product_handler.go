package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/lumosdigital/backoffice/middleware"
	"github.com/lumosdigital/backoffice/models"
	"github.com/lumosdigital/backoffice/utils"
)

// BatchDeleteRequest is the payload for bulk row deletion from the admin
// list screens.
type BatchDeleteRequest struct {
	IDs []string `json:"ids"`
}

// BatchDeleteResponse reports which rows were removed.
type BatchDeleteResponse struct {
	Deleted []string `json:"deleted"`
}

// sessionToken returns the upstream access token of the authenticated
// session, or writes a 401 and returns false.
func sessionToken(w http.ResponseWriter, r *http.Request) (string, bool) {
	sess := middleware.GetSessionFromContext(r.Context())
	if sess == nil {
		_ = utils.WriteUnauthorized(w, "")
		return "", false
	}
	return sess.AccessToken, true
}

// ListProductsHandler lists the catalog, filtered by the optional q parameter.
func ListProductsHandler(deps Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		token, ok := sessionToken(w, r)
		if !ok {
			return
		}

		items, err := deps.Products().List(r.Context(), token, r.URL.Query().Get("q"))
		if err != nil {
			HandleServiceError(w, err, deps.Logger())
			return
		}
		respondJSON(w, http.StatusOK, SuccessResponse{Data: items})
	}
}

// GetProductHandler returns one product.
func GetProductHandler(deps Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		token, ok := sessionToken(w, r)
		if !ok {
			return
		}

		product, err := deps.Products().Get(r.Context(), token, chi.URLParam(r, "id"))
		if err != nil {
			HandleServiceError(w, err, deps.Logger())
			return
		}
		respondJSON(w, http.StatusOK, SuccessResponse{Data: product})
	}
}

// CreateProductHandler creates a product.
func CreateProductHandler(deps Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		token, ok := sessionToken(w, r)
		if !ok {
			return
		}

		var input models.ProductInput
		if err := decodeBody(r, &input); err != nil {
			_ = utils.WriteBadRequest(w, "Invalid request body", nil)
			return
		}

		product, err := deps.Products().Create(r.Context(), token, input)
		if err != nil {
			HandleServiceError(w, err, deps.Logger())
			return
		}
		respondJSON(w, http.StatusCreated, SuccessResponse{Data: product})
	}
}

// UpdateProductHandler updates a product.
func UpdateProductHandler(deps Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		token, ok := sessionToken(w, r)
		if !ok {
			return
		}

		var input models.ProductInput
		if err := decodeBody(r, &input); err != nil {
			_ = utils.WriteBadRequest(w, "Invalid request body", nil)
			return
		}

		product, err := deps.Products().Update(r.Context(), token, chi.URLParam(r, "id"), input)
		if err != nil {
			HandleServiceError(w, err, deps.Logger())
			return
		}
		respondJSON(w, http.StatusOK, SuccessResponse{Data: product})
	}
}

// DeleteProductHandler removes one product.
func DeleteProductHandler(deps Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		token, ok := sessionToken(w, r)
		if !ok {
			return
		}

		if err := deps.Products().Delete(r.Context(), token, chi.URLParam(r, "id")); err != nil {
			HandleServiceError(w, err, deps.Logger())
			return
		}
		utils.WriteNoContent(w)
	}
}

// BatchDeleteProductsHandler removes many products in one request.
func BatchDeleteProductsHandler(deps Deps) http.HandlerFunc {
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

		deleted, err := deps.Products().BatchDelete(r.Context(), token, req.IDs)
		if err != nil {
			HandleServiceError(w, err, deps.Logger())
			return
		}
		respondJSON(w, http.StatusOK, SuccessResponse{Data: BatchDeleteResponse{Deleted: deleted}})
	}
}
