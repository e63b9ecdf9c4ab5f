package sessions

import (
	"errors"
	"net/http"
)

// Domain errors for session operations.
var (
	ErrNotFound    = errors.New("session not found")
	ErrDuplicate   = errors.New("session already exists")
	ErrInvalidRole = errors.New("role must be user or assistant")
	ErrNoMessages  = errors.New("session has no messages to title")
)

// MapHTTPStatus maps session domain errors to appropriate HTTP status codes.
func MapHTTPStatus(err error) int {
	if errors.Is(err, ErrNotFound) {
		return http.StatusNotFound
	}
	if errors.Is(err, ErrDuplicate) {
		return http.StatusConflict
	}
	if errors.Is(err, ErrInvalidRole) || errors.Is(err, ErrNoMessages) {
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}
