package apierr

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/fanlink/fanlink/internal/model"
	"github.com/fanlink/fanlink/internal/services/auth"
)

// APIError represents an API error response
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// ErrorResponse wraps an APIError
type ErrorResponse struct {
	Error APIError `json:"error"`
}

// Common error codes
const (
	CodeInvalidRequest        = "INVALID_REQUEST"
	CodeUnauthorized          = "UNAUTHORIZED"
	CodeInvalidCredentials    = "INVALID_CREDENTIALS"
	CodeEmailExists           = "EMAIL_EXISTS"
	CodeInvalidRole           = "INVALID_ROLE"
	CodeUserNotFound          = "USER_NOT_FOUND"
	CodeRecipientNotFound     = "RECIPIENT_NOT_FOUND"
	CodeSameRoleNotAllowed    = "SAME_ROLE_NOT_ALLOWED"
	CodeSelfMessageNotAllowed = "SELF_MESSAGE_NOT_ALLOWED"
	CodeInternalError         = "INTERNAL_ERROR"
)

// httpError combines an HTTP status code with an APIError
type httpError struct {
	status   int
	apiError APIError
}

// Error implements error interface
func (e *httpError) Error() string {
	return e.apiError.Message
}

// WriteError writes an error response to the response writer
func WriteError(w http.ResponseWriter, err error) {
	he := toHTTPError(err)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(he.status)
	_ = json.NewEncoder(w).Encode(ErrorResponse{Error: he.apiError})
}

// toHTTPError converts an error to an httpError
func toHTTPError(err error) *httpError {
	var he *httpError
	if errors.As(err, &he) {
		return he
	}

	// Map model errors
	switch {
	case errors.Is(err, model.ErrUserNotFound):
		return &httpError{http.StatusNotFound, APIError{CodeUserNotFound, "User not found"}}
	case errors.Is(err, model.ErrUnknownRecipient):
		return &httpError{http.StatusNotFound, APIError{CodeRecipientNotFound, "User not found"}}
	case errors.Is(err, model.ErrSameRole):
		return &httpError{http.StatusForbidden, APIError{CodeSameRoleNotAllowed, "Chat not allowed between same roles"}}
	case errors.Is(err, model.ErrSelfMessage):
		return &httpError{http.StatusBadRequest, APIError{CodeSelfMessageNotAllowed, "You cannot message yourself"}}
	case errors.Is(err, model.ErrEmailExists):
		return &httpError{http.StatusConflict, APIError{CodeEmailExists, "User already exists"}}
	case errors.Is(err, model.ErrInvalidRole):
		return &httpError{http.StatusBadRequest, APIError{CodeInvalidRole, "Role must be either 'fan' or 'player'"}}

	// Map auth errors
	case errors.Is(err, auth.ErrInvalidCredentials):
		return &httpError{http.StatusUnauthorized, APIError{CodeInvalidCredentials, "Invalid email or password"}}
	case errors.Is(err, auth.ErrMissingToken):
		return &httpError{http.StatusUnauthorized, APIError{CodeUnauthorized, "Authentication required"}}
	case errors.Is(err, auth.ErrTokenExpired):
		return &httpError{http.StatusUnauthorized, APIError{CodeUnauthorized, "Token has expired, please log in again"}}
	case errors.Is(err, auth.ErrInvalidToken), errors.Is(err, auth.ErrUnknownUser):
		return &httpError{http.StatusUnauthorized, APIError{CodeUnauthorized, "Not authorized to access this route"}}

	default:
		return &httpError{http.StatusInternalServerError, APIError{CodeInternalError, "Internal server error"}}
	}
}

// NewInvalidRequestError creates an invalid request error
func NewInvalidRequestError(message string) error {
	return &httpError{http.StatusBadRequest, APIError{CodeInvalidRequest, message}}
}

// NewUnauthorizedError creates an unauthorized error
func NewUnauthorizedError() error {
	return &httpError{http.StatusUnauthorized, APIError{CodeUnauthorized, "Authentication required"}}
}

// NewInternalError creates an internal server error
func NewInternalError() error {
	return &httpError{http.StatusInternalServerError, APIError{CodeInternalError, "Internal server error"}}
}
