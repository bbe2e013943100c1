package services

import (
	"errors"
	"fmt"
)

// ErrorType represents the type/category of error
type ErrorType string

const (
	ErrorTypeValidation           ErrorType = "validation"
	ErrorTypeInvalidCredentials   ErrorType = "invalid_credentials"
	ErrorTypeInvalidRequest       ErrorType = "invalid_request"
	ErrorTypeUnauthorized         ErrorType = "unauthorized"
	ErrorTypeForbidden            ErrorType = "forbidden"
	ErrorTypeNotFound             ErrorType = "not_found"
	ErrorTypeConnectivity         ErrorType = "connectivity"
	ErrorTypeUpstreamServer       ErrorType = "upstream_server"
	ErrorTypeUnrecognizedResponse ErrorType = "unrecognized_response"
	ErrorTypeMissingUserData      ErrorType = "missing_user_data"
	ErrorTypeInternal             ErrorType = "internal"
)

// Connectivity subkinds stored under the "kind" detail key.
const (
	ConnectivityRefused  = "refused"
	ConnectivityNotFound = "not_found"
	ConnectivityTimedOut = "timed_out"
)

// DomainError represents a structured error with additional context
type DomainError struct {
	Type    ErrorType
	Message string
	Err     error
	Details map[string]interface{}
}

// Error implements the error interface
func (e *DomainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (%v)", e.Type, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

// Unwrap implements errors.Unwrap
func (e *DomainError) Unwrap() error {
	return e.Err
}

// Is implements errors.Is
func (e *DomainError) Is(target error) bool {
	t, ok := target.(*DomainError)
	if !ok {
		return false
	}
	return e.Type == t.Type
}

// WithDetail adds a detail to the error
func (e *DomainError) WithDetail(key string, value interface{}) *DomainError {
	if e.Details == nil {
		e.Details = make(map[string]interface{})
	}
	e.Details[key] = value
	return e
}

// NewDomainError creates a new domain error
func NewDomainError(errType ErrorType, message string, err error) *DomainError {
	return &DomainError{
		Type:    errType,
		Message: message,
		Err:     err,
		Details: make(map[string]interface{}),
	}
}

// Domain error variables

var (
	// Validation Errors (local, never reach the network)
	ErrMissingCredentials = NewDomainError(ErrorTypeValidation, "email and password are required", nil)
	ErrInvalidEmail       = NewDomainError(ErrorTypeValidation, "invalid email format", nil)
	ErrInvalidInput       = NewDomainError(ErrorTypeValidation, "invalid input", nil)

	// Authentication Errors
	ErrInvalidCredentials = NewDomainError(ErrorTypeInvalidCredentials, "invalid email or password", nil)
	ErrUnauthorized       = NewDomainError(ErrorTypeUnauthorized, "authentication required", nil)
	ErrSessionExpired     = NewDomainError(ErrorTypeUnauthorized, "session expired", nil)

	// Permission Errors
	ErrForbidden = NewDomainError(ErrorTypeForbidden, "access forbidden", nil)

	// Not Found Errors
	ErrProductNotFound = NewDomainError(ErrorTypeNotFound, "product not found", nil)
	ErrMessageNotFound = NewDomainError(ErrorTypeNotFound, "message not found", nil)
	ErrUserNotFound    = NewDomainError(ErrorTypeNotFound, "user not found", nil)

	// Upstream Transport Errors
	ErrConnectionRefused = NewDomainError(ErrorTypeConnectivity, "cannot connect to the upstream server", nil).
				WithDetail("kind", ConnectivityRefused)
	ErrHostNotFound = NewDomainError(ErrorTypeConnectivity, "upstream host could not be resolved", nil).
			WithDetail("kind", ConnectivityNotFound)
	ErrRequestTimedOut = NewDomainError(ErrorTypeConnectivity, "upstream request timed out", nil).
				WithDetail("kind", ConnectivityTimedOut)
	ErrUpstreamServer = NewDomainError(ErrorTypeUpstreamServer, "upstream server error", nil)

	// Response Interpretation Errors (transport succeeded, payload unusable)
	ErrUnrecognizedResponse = NewDomainError(ErrorTypeUnrecognizedResponse, "unrecognized response shape from upstream", nil)
	ErrMissingUserData      = NewDomainError(ErrorTypeMissingUserData, "no user data in upstream response", nil)
	ErrInvalidUserStructure = NewDomainError(ErrorTypeMissingUserData, "invalid user structure in upstream response", nil)

	// Internal Errors
	ErrInternal = NewDomainError(ErrorTypeInternal, "internal server error", nil)
)

// Error type checking helper functions

// IsValidationError checks if an error is a validation error
func IsValidationError(err error) bool {
	return GetErrorType(err) == ErrorTypeValidation
}

// IsInvalidCredentialsError checks if an error is an invalid credentials error
func IsInvalidCredentialsError(err error) bool {
	return GetErrorType(err) == ErrorTypeInvalidCredentials
}

// IsInvalidRequestError checks if an error is an upstream-rejected request error
func IsInvalidRequestError(err error) bool {
	return GetErrorType(err) == ErrorTypeInvalidRequest
}

// IsUnauthorizedError checks if an error is an unauthorized error
func IsUnauthorizedError(err error) bool {
	return GetErrorType(err) == ErrorTypeUnauthorized
}

// IsForbiddenError checks if an error is a forbidden error
func IsForbiddenError(err error) bool {
	return GetErrorType(err) == ErrorTypeForbidden
}

// IsNotFoundError checks if an error is a not found error
func IsNotFoundError(err error) bool {
	return GetErrorType(err) == ErrorTypeNotFound
}

// IsConnectivityError checks if an error is a local network failure
func IsConnectivityError(err error) bool {
	return GetErrorType(err) == ErrorTypeConnectivity
}

// IsUpstreamServerError checks if an error is an upstream 5xx error
func IsUpstreamServerError(err error) bool {
	return GetErrorType(err) == ErrorTypeUpstreamServer
}

// IsUnrecognizedResponseError checks if an error is an unrecognized response shape error
func IsUnrecognizedResponseError(err error) bool {
	return GetErrorType(err) == ErrorTypeUnrecognizedResponse
}

// IsMissingUserDataError checks if an error indicates an uninterpretable user payload
func IsMissingUserDataError(err error) bool {
	return GetErrorType(err) == ErrorTypeMissingUserData
}

// IsInternalError checks if an error is an internal error
func IsInternalError(err error) bool {
	return GetErrorType(err) == ErrorTypeInternal
}

// ConnectivityKind returns the connectivity subkind of a connectivity error,
// or an empty string for any other error.
func ConnectivityKind(err error) string {
	var domainErr *DomainError
	if errors.As(err, &domainErr) && domainErr.Type == ErrorTypeConnectivity {
		if kind, ok := domainErr.Details["kind"].(string); ok {
			return kind
		}
	}
	return ""
}

// GetErrorType returns the ErrorType of a domain error, or empty string if not a domain error
func GetErrorType(err error) ErrorType {
	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr.Type
	}
	return ""
}

// GetErrorDetails returns the details map of a domain error, or nil if not a domain error
func GetErrorDetails(err error) map[string]interface{} {
	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr.Details
	}
	return nil
}

// WrapError wraps an error with additional context
func WrapError(errType ErrorType, message string, err error) error {
	return NewDomainError(errType, message, err)
}

// WrapInternal wraps an error as an internal error
func WrapInternal(message string, err error) error {
	return NewDomainError(ErrorTypeInternal, message, err)
}

// WrapValidation wraps an error as a validation error
func WrapValidation(message string, err error) error {
	return NewDomainError(ErrorTypeValidation, message, err)
}
