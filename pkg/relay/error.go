package relay

import (
	"fmt"
	"net/http"
)

// HTTPError represents an HTTP error with a specific status code and message
type HTTPError struct {
	StatusCode int    `json:"status_code"`
	Message    string `json:"message"`
	Details    any    `json:"details,omitempty"`
}

// Error implements the error interface
func (e *HTTPError) Error() string {
	return fmt.Sprintf("HTTP %d: %s", e.StatusCode, e.Message)
}

// NewHTTPError creates a new HTTPError with the given status code and message
func NewHTTPError(statusCode int, message string) *HTTPError {
	return &HTTPError{
		StatusCode: statusCode,
		Message:    message,
	}
}

// NewHTTPErrorWithDetails creates a new HTTPError with additional details
func NewHTTPErrorWithDetails(statusCode int, message string, details any) *HTTPError {
	return &HTTPError{
		StatusCode: statusCode,
		Message:    message,
		Details:    details,
	}
}

// Common HTTP error constructors for convenience

// ErrBadRequest creates a 400 Bad Request error
func ErrBadRequest(message string) *HTTPError {
	return NewHTTPError(http.StatusBadRequest, message)
}

// ErrBadRequestWithDetails creates a 400 Bad Request error with details
func ErrBadRequestWithDetails(message string, details any) *HTTPError {
	return NewHTTPErrorWithDetails(http.StatusBadRequest, message, details)
}

// ErrUnauthorized creates a 401 Unauthorized error
func ErrUnauthorized(message string) *HTTPError {
	return NewHTTPError(http.StatusUnauthorized, message)
}

// ErrForbidden creates a 403 Forbidden error
func ErrForbidden(message string) *HTTPError {
	return NewHTTPError(http.StatusForbidden, message)
}

// ErrNotFound creates a 404 Not Found error
func ErrNotFound(message string) *HTTPError {
	return NewHTTPError(http.StatusNotFound, message)
}

// ErrConflict creates a 409 Conflict error
func ErrConflict(message string) *HTTPError {
	return NewHTTPError(http.StatusConflict, message)
}

// ErrUnprocessableEntity creates a 422 Unprocessable Entity error
func ErrUnprocessableEntity(message string) *HTTPError {
	return NewHTTPError(http.StatusUnprocessableEntity, message)
}

// ErrInternalServerError creates a 500 Internal Server Error
func ErrInternalServerError(message string) *HTTPError {
	return NewHTTPError(http.StatusInternalServerError, message)
}

// RouteConflictError is returned by Resolver.Register when two routes share
// the same HTTP method and path shape, making them indistinguishable to the
// matcher. It is fatal at startup: the conflict is a registration bug, never
// something to resolve at request time.
type RouteConflictError struct {
	Method   string
	Path     string
	Existing string
}

func (e *RouteConflictError) Error() string {
	return fmt.Sprintf("route conflict: %s %s is indistinguishable from previously registered %s %s",
		e.Method, e.Path, e.Method, e.Existing)
}

// NotFoundError is returned by Resolver.Resolve when no registered route
// matches the request. The transport boundary translates it to a 404.
type NotFoundError struct {
	Method string
	Path   string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("no route matches %s %s", e.Method, e.Path)
}

// MissingArgumentError is returned during argument resolution when no
// resolver produces a value for a required argument that has no default and
// is not nullable. The transport boundary translates it to a 400.
type MissingArgumentError struct {
	Argument string
	Action   string
}

func (e *MissingArgumentError) Error() string {
	return fmt.Sprintf("no value could be resolved for required argument %q of %s", e.Argument, e.Action)
}

// ConversionError is returned when a raw request value is present but cannot
// be converted to the argument's declared type. The transport boundary
// translates it to a 400.
type ConversionError struct {
	Argument string
	Type     string
	Raw      string
	Cause    error
}

func (e *ConversionError) Error() string {
	return fmt.Sprintf("cannot convert %q to %s for argument %q: %v", e.Raw, e.Type, e.Argument, e.Cause)
}

// Unwrap exposes the underlying converter error
func (e *ConversionError) Unwrap() error {
	return e.Cause
}
