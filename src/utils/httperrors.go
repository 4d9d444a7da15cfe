package utils

import (
	"encoding/json"
	"net/http"
)

// ErrorCode is one of the fixed API error categories.
type ErrorCode string

const (
	CodeInvalidArgument   ErrorCode = "invalid_argument"
	CodeNotFound          ErrorCode = "not_found"
	CodeUnauthenticated   ErrorCode = "unauthenticated"
	CodePermissionDenied  ErrorCode = "permission_denied"
	CodeResourceExhausted ErrorCode = "resource_exhausted"
	CodeAlreadyExists     ErrorCode = "already_exists"
	CodeInternal          ErrorCode = "internal"
	CodeUnavailable       ErrorCode = "unavailable"
)

// HTTPError defines a custom error structure that includes an error code and message
type HTTPError struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
}

// Implement the Error() method to satisfy the error interface
func (e *HTTPError) Error() string {
	return e.Message
}

// HTTPStatus maps the error code to its HTTP status code.
func (e *HTTPError) HTTPStatus() int {
	switch e.Code {
	case CodeInvalidArgument:
		return http.StatusBadRequest
	case CodeNotFound:
		return http.StatusNotFound
	case CodeUnauthenticated:
		return http.StatusUnauthorized
	case CodePermissionDenied:
		return http.StatusForbidden
	case CodeResourceExhausted:
		return http.StatusTooManyRequests
	case CodeAlreadyExists:
		return http.StatusConflict
	case CodeUnavailable:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// NewHTTPError creates a new HTTPError instance with a custom code and message
func NewHTTPError(code ErrorCode, message string) error {
	return &HTTPError{
		Code:    code,
		Message: message,
	}
}

// InvalidArgument creates an invalid_argument (400) error
func InvalidArgument(message string) error {
	return NewHTTPError(CodeInvalidArgument, message)
}

// NotFound creates a not_found (404) error
func NotFound(message string) error {
	return NewHTTPError(CodeNotFound, message)
}

// Unauthenticated creates an unauthenticated (401) error
func Unauthenticated(message string) error {
	return NewHTTPError(CodeUnauthenticated, message)
}

// PermissionDenied creates a permission_denied (403) error
func PermissionDenied(message string) error {
	return NewHTTPError(CodePermissionDenied, message)
}

// ResourceExhausted creates a resource_exhausted (429) error
func ResourceExhausted(message string) error {
	return NewHTTPError(CodeResourceExhausted, message)
}

// AlreadyExists creates an already_exists (409) error
func AlreadyExists(message string) error {
	return NewHTTPError(CodeAlreadyExists, message)
}

// InternalServerError creates an internal (500) error
func InternalServerError(message string) error {
	return NewHTTPError(CodeInternal, message)
}

// ServiceUnavailable creates an unavailable (503) error
func ServiceUnavailable(message string) error {
	return NewHTTPError(CodeUnavailable, message)
}

// WriteError is a helper function to send the error response as JSON
func WriteError(w http.ResponseWriter, err error) {
	httpErr, ok := err.(*HTTPError)
	if !ok {
		// If not an HTTPError, default to an internal server error
		httpErr = &HTTPError{
			Code:    CodeInternal,
			Message: "Internal Server Error",
		}
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(httpErr.HTTPStatus())
	_ = json.NewEncoder(w).Encode(map[string]string{
		"code":  string(httpErr.Code),
		"error": httpErr.Message,
	})
}
