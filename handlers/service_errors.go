package handlers

import (
	"net/http"

	"github.com/lumosdigital/backoffice/services"
	"github.com/lumosdigital/backoffice/utils"
	"go.uber.org/zap"
)

// HandleServiceError maps domain errors to HTTP responses. Nothing in
// this flow is fatal to the process; failures are scoped to the request.
func HandleServiceError(w http.ResponseWriter, err error, logger *zap.Logger) {
	if err == nil {
		return
	}

	details := services.GetErrorDetails(err)

	switch {
	case services.IsValidationError(err):
		_ = utils.WriteBadRequest(w, err.Error(), details)

	case services.IsInvalidRequestError(err):
		_ = utils.WriteBadRequest(w, err.Error(), details)

	case services.IsInvalidCredentialsError(err), services.IsUnauthorizedError(err):
		_ = utils.WriteUnauthorized(w, err.Error())

	case services.IsForbiddenError(err):
		_ = utils.WriteForbidden(w, err.Error())

	case services.IsNotFoundError(err):
		_ = utils.WriteNotFound(w, err.Error())

	case services.IsConnectivityError(err):
		// A timed-out upstream call is the caller's worst case; surface
		// it distinctly from other connectivity failures.
		if services.ConnectivityKind(err) == services.ConnectivityTimedOut {
			_ = utils.WriteGatewayTimeout(w, err.Error())
			return
		}
		_ = utils.WriteBadGateway(w, err.Error(), details)

	case services.IsUpstreamServerError(err),
		services.IsUnrecognizedResponseError(err),
		services.IsMissingUserDataError(err):
		_ = utils.WriteBadGateway(w, err.Error(), details)

	case services.IsInternalError(err):
		logger.Error("internal server error", zap.Error(err))
		_ = utils.WriteInternalServerError(w, "An internal error occurred")

	default:
		logger.Error("unhandled error type",
			zap.Error(err),
			zap.String("error_type", string(services.GetErrorType(err))))
		_ = utils.WriteInternalServerError(w, "An unexpected error occurred")
	}
}
