package service

import (
	"context"
	"fmt"
	"log"

	"github.com/jonluca/palate-backend-go/internal/models"
)

// Curated candidate query bounds: the resolver only ever verifies the top
// few, but the UI shows a longer curated tail.
const (
	curatedRadiusMeters = 2000.0
	curatedLimit        = 20
)

// CuratedSource supplies distance-sorted curated restaurants around a point
type CuratedSource interface {
	NearestWithin(lat, lon, radiusMeters float64, limit int) ([]models.RestaurantCandidate, error)
	BulkImport(items []models.RestaurantImport) (*models.ImportResult, error)
	CountByBatch(batchID string) (int, error)
}

// MergeResolver merges curated candidates with live search results
type MergeResolver interface {
	Merge(ctx context.Context, curated []models.RestaurantCandidate, centerLat, centerLon float64) (*models.MergedResult, error)
}

// Invalidator is implemented by resolvers that cache merge results
type Invalidator interface {
	Invalidate()
}

// MatchService orchestrates restaurant matching: curated dataset lookup,
// live-search merge, and the curated-only fallback when live search is down
type MatchService struct {
	curated  CuratedSource
	resolver MergeResolver
}

// NewMatchService creates a new match service
func NewMatchService(curated CuratedSource, resolver MergeResolver) *MatchService {
	return &MatchService{curated: curated, resolver: resolver}
}

// NearbyRestaurants returns the merged, verified restaurant list around a
// point. When the live provider is unavailable the curated list is returned
// unverified with Degraded set, rather than failing the request.
func (s *MatchService) NearbyRestaurants(ctx context.Context, lat, lon float64) (*models.MergedResult, error) {
	if err := validateCoords(lat, lon); err != nil {
		return nil, err
	}

	curated, err := s.curated.NearestWithin(lat, lon, curatedRadiusMeters, curatedLimit)
	if err != nil {
		return nil, fmt.Errorf("failed to load curated candidates: %w", err)
	}

	result, err := s.resolver.Merge(ctx, curated, lat, lon)
	if err != nil {
		log.Printf("live search merge failed, serving curated-only: %v", err)
		return curatedOnlyResult(curated), nil
	}

	return result, nil
}

// ImportRestaurants loads a curated dataset batch and invalidates any cached
// merge results so the new entries are visible immediately
func (s *MatchService) ImportRestaurants(items []models.RestaurantImport) (*models.ImportResult, error) {
	if len(items) == 0 {
		return nil, fmt.Errorf("import payload is empty")
	}

	result, err := s.curated.BulkImport(items)
	if err != nil {
		return nil, fmt.Errorf("failed to import restaurants: %w", err)
	}

	if inv, ok := s.resolver.(Invalidator); ok {
		inv.Invalidate()
	}

	log.Printf("Imported %d restaurants (skipped %d) in batch %s", result.Imported, result.Skipped, result.BatchID)
	return result, nil
}

// ImportBatchCount reports how many restaurants an import batch produced
func (s *MatchService) ImportBatchCount(batchID string) (int, error) {
	return s.curated.CountByBatch(batchID)
}

// curatedOnlyResult builds the degraded fallback list: curated entries in
// their stored distance order, all unverified
func curatedOnlyResult(curated []models.RestaurantCandidate) *models.MergedResult {
	restaurants := make([]models.RestaurantCandidate, len(curated))
	for i, c := range curated {
		c.Source = models.SourceCurated
		c.IsVerified = false
		restaurants[i] = c
	}

	return &models.MergedResult{
		Restaurants:  restaurants,
		Verification: map[string]models.VerificationRecord{},
		Degraded:     true,
	}
}

func validateCoords(lat, lon float64) error {
	if lat < -90 || lat > 90 {
		return fmt.Errorf("latitude %v out of range [-90, 90]", lat)
	}
	if lon < -180 || lon > 180 {
		return fmt.Errorf("longitude %v out of range [-180, 180]", lon)
	}
	return nil
}
