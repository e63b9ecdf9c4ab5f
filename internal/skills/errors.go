package skills

import (
	"errors"
	"net/http"
)

// Domain errors for skill operations.
var (
	ErrNotFound    = errors.New("skill not found")
	ErrDuplicate   = errors.New("skill name already exists")
	ErrHasChildren = errors.New("skill has child skills")
)

// MapHTTPStatus maps skill domain errors to appropriate HTTP status codes.
func MapHTTPStatus(err error) int {
	if errors.Is(err, ErrNotFound) {
		return http.StatusNotFound
	}
	if errors.Is(err, ErrDuplicate) {
		return http.StatusConflict
	}
	if errors.Is(err, ErrHasChildren) {
		return http.StatusConflict
	}
	return http.StatusInternalServerError
}
