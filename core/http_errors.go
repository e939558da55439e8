package core

import "net/http"

// HTTPError carries an HTTP status code alongside a caller-facing message.
// Handlers and middleware return it (or wrap sentinel errors into it) so the
// response writer can map failures without inspecting package internals.
type HTTPError struct {
	Code    int            // HTTP status code
	Message string         // caller-facing error message
	Extra   map[string]any // optional structured details merged into the body
}

// Error implements the error interface.
func (e HTTPError) Error() string {
	return e.Message
}

// NewHTTPError creates an HTTPError with the given status code and message.
func NewHTTPError(code int, message string) HTTPError {
	return HTTPError{Code: code, Message: message}
}

// WithExtra returns a copy of the error with additional structured details
// merged into the JSON error body.
func (e HTTPError) WithExtra(extra map[string]any) HTTPError {
	e.Extra = extra
	return e
}

// Common request failures used across modules.
var (
	ErrBadRequest   = HTTPError{Code: http.StatusBadRequest, Message: "Bad request"}
	ErrUnauthorized = HTTPError{Code: http.StatusUnauthorized, Message: "Unauthorized"}
	ErrForbidden    = HTTPError{Code: http.StatusForbidden, Message: "Forbidden"}
	ErrNotFound     = HTTPError{Code: http.StatusNotFound, Message: "Not found"}
	ErrConflict     = HTTPError{Code: http.StatusConflict, Message: "Conflict"}
	ErrInternal     = HTTPError{Code: http.StatusInternalServerError, Message: "Internal server error"}
)
