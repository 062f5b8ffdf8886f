package apierror

import (
	"errors"
	"fmt"
	"net/http"

	"ecomcore-backend/internal/pkg/validation"

	"github.com/gofiber/fiber/v2"
)

// Error codes returned in the "error.code" field.
const (
	CodeUnauthorized           = "UNAUTHORIZED"
	CodeInvalidCredentials     = "INVALID_CREDENTIALS"
	CodeTokenExpired           = "TOKEN_EXPIRED"
	CodeInvalidToken           = "INVALID_TOKEN"
	CodeForbidden              = "FORBIDDEN"
	CodeInsufficientPermission = "INSUFFICIENT_PERMISSIONS"
	CodeValidation             = "VALIDATION_ERROR"
	CodeInvalidInput           = "INVALID_INPUT"
	CodeNotFound               = "NOT_FOUND"
	CodeAlreadyExists          = "RESOURCE_ALREADY_EXISTS"
	CodeInvalidState           = "INVALID_STATE"
	CodeOperationFailed        = "OPERATION_FAILED"
	CodeRateLimited            = "RATE_LIMITED"
	CodeInternal               = "INTERNAL_SERVER_ERROR"
	CodeDatabase               = "DATABASE_ERROR"
	CodeExternalService        = "EXTERNAL_SERVICE_ERROR"
)

// APIError is an error with a stable code and HTTP status that is safe to show to clients.
type APIError struct {
	Code       string
	StatusCode int
	Message    string
	Details    any
}

func (e *APIError) Error() string { return e.Message }

// New builds an APIError. A zero status means 400.
func New(code string, status int, message string, details any) *APIError {
	if status == 0 {
		status = http.StatusBadRequest
	}
	return &APIError{Code: code, StatusCode: status, Message: message, Details: details}
}

func Unauthorized() *APIError {
	return New(CodeUnauthorized, http.StatusUnauthorized, "Authentication required", nil)
}

func InvalidCredentials() *APIError {
	return New(CodeInvalidCredentials, http.StatusUnauthorized, "Invalid email or password", nil)
}

func InvalidToken() *APIError {
	return New(CodeInvalidToken, http.StatusUnauthorized, "Invalid token", nil)
}

func TokenExpired() *APIError {
	return New(CodeTokenExpired, http.StatusUnauthorized, "Token expired", nil)
}

func Forbidden() *APIError {
	return New(CodeForbidden, http.StatusForbidden, "You do not have permission to access this resource", nil)
}

func NotFound(resource string) *APIError {
	return New(CodeNotFound, http.StatusNotFound, fmt.Sprintf("%s not found", resource), nil)
}

func InvalidInput(message string) *APIError {
	return New(CodeInvalidInput, http.StatusBadRequest, message, nil)
}

func AlreadyExists(message string) *APIError {
	return New(CodeAlreadyExists, http.StatusConflict, message, nil)
}

func RateLimited() *APIError {
	return New(CodeRateLimited, http.StatusTooManyRequests, "Too many requests, please try again later", nil)
}

func Internal() *APIError {
	return New(CodeInternal, http.StatusInternalServerError, "An internal server error occurred", nil)
}

// Body is the "error" object of a failed response.
type Body struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
}

// Resolve maps any error to the status and body sent to the client. The second return
// reports whether err was unexpected and should be logged as a server error.
func Resolve(err error) (int, Body, bool) {
	if v, ok := validation.AsViolations(err); ok {
		return http.StatusBadRequest, Body{
			Code:    CodeValidation,
			Message: "Request validation failed",
			Details: []validation.Violation(v),
		}, false
	}

	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode, Body{Code: apiErr.Code, Message: apiErr.Message, Details: apiErr.Details}, apiErr.StatusCode >= 500
	}

	var fe *fiber.Error
	if errors.As(err, &fe) {
		return fe.Code, Body{Code: codeForStatus(fe.Code), Message: fe.Message}, fe.Code >= 500
	}

	return http.StatusInternalServerError, Body{
		Code:    CodeInternal,
		Message: "An unexpected error occurred",
	}, true
}

func codeForStatus(status int) string {
	switch status {
	case http.StatusBadRequest, http.StatusUnprocessableEntity, http.StatusRequestEntityTooLarge:
		return CodeInvalidInput
	case http.StatusUnauthorized:
		return CodeUnauthorized
	case http.StatusForbidden:
		return CodeForbidden
	case http.StatusNotFound, http.StatusMethodNotAllowed:
		return CodeNotFound
	case http.StatusTooManyRequests:
		return CodeRateLimited
	}
	if status >= 500 {
		return CodeInternal
	}
	return CodeOperationFailed
}
