package matching

import (
	"context"
	"fmt"
	"log"
	"sort"

	"github.com/jonluca/palate-backend-go/internal/models"
	"github.com/jonluca/palate-backend-go/internal/provider"
)

// Merge tuning. Verification only covers the closest curated candidates: a
// live hit within nameMatchMaxMeters with a matching name confirms a
// candidate, and anything within distanceOnlyMaxMeters confirms it even
// under a different listing name (same storefront, renamed listing).
const (
	nearbyRadiusMeters    = 300.0
	verifyRadiusMeters    = 500.0
	verifyCandidateCount  = 3
	nameMatchMaxMeters    = 100.0
	distanceOnlyMaxMeters = 30.0
)

// MatchFunc decides whether two restaurant names refer to the same venue.
// It must be symmetric.
type MatchFunc func(a, b string) bool

// Resolver merges curated restaurant candidates with live search results,
// cross-verifying the closest curated entries against the live provider.
type Resolver struct {
	search  provider.LiveSearch
	isMatch MatchFunc
}

// NewResolver creates a resolver backed by the given live search provider
func NewResolver(search provider.LiveSearch) *Resolver {
	return &Resolver{search: search, isMatch: IsFuzzyRestaurantMatch}
}

// NewResolverWithMatcher creates a resolver with a custom name predicate
func NewResolverWithMatcher(search provider.LiveSearch, isMatch MatchFunc) *Resolver {
	return &Resolver{search: search, isMatch: isMatch}
}

// Merge combines the already-distance-sorted curated candidates with a live
// radius search around the center point. The closest curated candidates are
// verified against the provider; live results duplicating a curated name are
// dropped in favor of the curated entry. The returned list is sorted
// ascending by distance.
//
// A failure of the radius search aborts the merge and propagates; callers
// fall back to a curated-only, unverified list. Failures of the
// per-candidate verification searches degrade to isVerified=false without
// aborting.
func (r *Resolver) Merge(ctx context.Context, curated []models.RestaurantCandidate, centerLat, centerLon float64) (*models.MergedResult, error) {
	liveResults, err := r.search.SearchNearby(ctx, centerLat, centerLon, nearbyRadiusMeters)
	if err != nil {
		return nil, fmt.Errorf("failed to search nearby restaurants: %w", err)
	}

	verification := r.verifyClosest(ctx, curated, centerLat, centerLon)

	merged := make([]models.RestaurantCandidate, 0, len(curated)+len(liveResults))
	curatedVerified := 0
	for _, c := range curated {
		c.Source = models.SourceCurated
		c.IsVerified = false
		if rec, ok := verification[c.ID]; ok && rec.IsVerified {
			c.IsVerified = true
			curatedVerified++
		}
		merged = append(merged, c)
	}

	liveRetained := 0
	for _, lr := range liveResults {
		if lr.Name == "" || r.duplicatesCurated(lr.Name, curated) {
			continue
		}
		merged = append(merged, models.RestaurantCandidate{
			ID:             liveResultID(lr),
			Name:           lr.Name,
			Latitude:       lr.Latitude,
			Longitude:      lr.Longitude,
			Address:        lr.Address,
			DistanceMeters: lr.DistanceMeters,
			Source:         models.SourceLiveSearch,
			IsVerified:     true,
		})
		liveRetained++
	}

	sort.SliceStable(merged, func(i, j int) bool {
		return merged[i].DistanceMeters < merged[j].DistanceMeters
	})

	return &models.MergedResult{
		Restaurants:     merged,
		Verification:    verification,
		LiveRetained:    liveRetained,
		CuratedVerified: curatedVerified,
	}, nil
}

// verifyClosest cross-checks the closest curated candidates against the live
// provider by name search, sequentially. A candidate is verified by the
// first acceptable result in provider order; a failed search marks that
// candidate unverified and moves on.
func (r *Resolver) verifyClosest(ctx context.Context, curated []models.RestaurantCandidate, centerLat, centerLon float64) map[string]models.VerificationRecord {
	verification := make(map[string]models.VerificationRecord, verifyCandidateCount)

	limit := len(curated)
	if limit > verifyCandidateCount {
		limit = verifyCandidateCount
	}

	for i := 0; i < limit; i++ {
		candidate := curated[i]
		rec := models.VerificationRecord{CandidateID: candidate.ID}

		results, err := r.search.SearchByText(ctx, candidate.Name, centerLat, centerLon, verifyRadiusMeters)
		if err != nil {
			log.Printf("verification search failed for %q: %v", candidate.Name, err)
			verification[candidate.ID] = rec
			continue
		}

		for _, res := range results {
			if r.accepts(candidate.Name, res) {
				matched := res
				rec.IsVerified = true
				rec.Matched = &matched
				break
			}
		}

		verification[candidate.ID] = rec
	}

	return verification
}

// accepts applies the verification rule to one live result
func (r *Resolver) accepts(candidateName string, res models.LiveResult) bool {
	if res.DistanceMeters < distanceOnlyMaxMeters {
		return true
	}
	return res.DistanceMeters < nameMatchMaxMeters && r.isMatch(candidateName, res.Name)
}

// duplicatesCurated reports whether a live result name collides with any
// curated candidate name
func (r *Resolver) duplicatesCurated(name string, curated []models.RestaurantCandidate) bool {
	for _, c := range curated {
		if r.isMatch(name, c.Name) {
			return true
		}
	}
	return false
}

// liveResultID synthesizes a deterministic id for a live search result from
// its rounded coordinates and a name prefix. Collisions between distinct
// venues at near-identical coordinates are acceptable.
func liveResultID(lr models.LiveResult) string {
	prefix := NormalizeName(lr.Name)
	runes := []rune(prefix)
	if len(runes) > 8 {
		prefix = string(runes[:8])
	}
	return fmt.Sprintf("live:%.4f,%.4f:%s", lr.Latitude, lr.Longitude, prefix)
}
