package errors

import (
	"errors"
	"net/http"
)

// HTTPError represents an error with an associated HTTP status code.
type HTTPError struct {
	Code    int
	Message string
}

func (e *HTTPError) Error() string {
	return e.Message
}

// NewHTTPError creates a new HTTPError with the given code and message.
func NewHTTPError(code int, message string) *HTTPError {
	return &HTTPError{
		Code:    code,
		Message: message,
	}
}

// Helpers for the common cases.
func Validation(msg string) *HTTPError   { return NewHTTPError(http.StatusBadRequest, msg) }
func Unauthorized(msg string) *HTTPError { return NewHTTPError(http.StatusUnauthorized, msg) }
func Forbidden(msg string) *HTTPError    { return NewHTTPError(http.StatusForbidden, msg) }
func NotFound(msg string) *HTTPError     { return NewHTTPError(http.StatusNotFound, msg) }
func Conflict(msg string) *HTTPError     { return NewHTTPError(http.StatusConflict, msg) }
func Internal(msg string) *HTTPError     { return NewHTTPError(http.StatusInternalServerError, msg) }

// AsHTTPError unwraps err into an *HTTPError if one is in the chain.
func AsHTTPError(err error) (*HTTPError, bool) {
	var he *HTTPError
	if errors.As(err, &he) {
		return he, true
	}
	return nil, false
}

// Sentinel errors for the session/allocation core. Repositories return
// these so services and handlers can branch without string matching.
var (
	// ErrDuplicateEntry: the plate already has an open session.
	ErrDuplicateEntry = errors.New("vehicle already has an active session")
	// ErrFacilityFull: no free, unreserved, active spot in the facility.
	ErrFacilityFull = errors.New("parking is full")
	// ErrNoSpotOfType: no free spot matching the requested spot type.
	ErrNoSpotOfType = errors.New("no available spots of this type")
	// ErrNoActiveSession: exit requested for a plate with no open session.
	ErrNoActiveSession = errors.New("no active session for plate")
	// ErrSpotTaken: a conditional occupy lost the race for the spot.
	ErrSpotTaken = errors.New("spot already occupied")
	// ErrInsufficientBalance: a conditional wallet debit was refused.
	ErrInsufficientBalance = errors.New("insufficient wallet balance")
	// ErrNotFound: generic row-not-found from a repository.
	ErrNotFound = errors.New("not found")
)
