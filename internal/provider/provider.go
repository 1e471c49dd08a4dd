package provider

import (
	"context"
	"errors"

	"github.com/jonluca/palate-backend-go/internal/models"
)

// ErrUnavailable indicates the live search backend could not be reached at
// all (as opposed to returning an empty result set).
var ErrUnavailable = errors.New("live search provider unavailable")

// LiveSearch is the live geo-search capability the match resolver depends on.
// Both calls are I/O bound and honor context cancellation; results arrive in
// provider relevance order with distances pre-computed from the given center.
type LiveSearch interface {
	// SearchNearby returns places within radiusMeters of the center point.
	SearchNearby(ctx context.Context, lat, lon, radiusMeters float64) ([]models.LiveResult, error)

	// SearchByText returns places matching the query near the center point.
	SearchByText(ctx context.Context, query string, lat, lon, radiusMeters float64) ([]models.LiveResult, error)
}
