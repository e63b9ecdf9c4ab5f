// Package boundaries assembles municipality boundary GeoJSON per prefecture.
// Boundary files are fetched from a public GitHub repository, merged into a
// single FeatureCollection, and cached in blob storage so each prefecture is
// assembled at most once.
package boundaries

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
)

// FeatureCollection is a GeoJSON feature collection. Features are kept as
// raw JSON; the service merges them without inspecting geometry.
type FeatureCollection struct {
	Type     string            `json:"type"`
	Features []json.RawMessage `json:"features"`
}

// Domain errors for boundary operations.
var (
	ErrInvalidPrefCode = errors.New("prefecture code must be 1-2 digits")
	ErrNoBoundaries    = errors.New("no boundary files found for prefecture")
)

// MapHTTPStatus maps boundary domain errors to appropriate HTTP status codes.
func MapHTTPStatus(err error) int {
	if errors.Is(err, ErrInvalidPrefCode) {
		return http.StatusBadRequest
	}
	if errors.Is(err, ErrNoBoundaries) {
		return http.StatusNotFound
	}
	return http.StatusBadGateway
}

// System defines the public contract for boundary operations.
type System interface {
	Handler() *Handler

	// Municipalities returns the merged municipality boundaries of a
	// prefecture, serving from cache when possible.
	Municipalities(ctx context.Context, prefCode string) (*FeatureCollection, error)
}
