package matching

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/jonluca/palate-backend-go/internal/models"
)

// DefaultMemoTTL bounds how long a merged result is reused for an unchanged
// query. Restaurants do not move; the TTL exists so provider-side changes
// (new openings, closures) surface within minutes.
const DefaultMemoTTL = 5 * time.Minute

type memoEntry struct {
	result  *models.MergedResult
	expires time.Time
}

// MemoResolver caches merge results by query identity and coalesces
// concurrent identical requests into a single provider round trip. The cache
// key is the rounded center plus the curated candidate id set, so a changed
// dataset or a moved center always misses.
type MemoResolver struct {
	inner *Resolver
	ttl   time.Duration

	group singleflight.Group
	mu    sync.Mutex
	cache map[string]memoEntry
}

// NewMemoResolver wraps a resolver with memoization
func NewMemoResolver(inner *Resolver, ttl time.Duration) *MemoResolver {
	if ttl <= 0 {
		ttl = DefaultMemoTTL
	}
	return &MemoResolver{
		inner: inner,
		ttl:   ttl,
		cache: make(map[string]memoEntry),
	}
}

// Merge behaves like Resolver.Merge but serves repeated identical requests
// from cache. Errors are never cached.
func (m *MemoResolver) Merge(ctx context.Context, curated []models.RestaurantCandidate, centerLat, centerLon float64) (*models.MergedResult, error) {
	key := memoKey(curated, centerLat, centerLon)

	m.mu.Lock()
	if entry, ok := m.cache[key]; ok && time.Now().Before(entry.expires) {
		m.mu.Unlock()
		return entry.result, nil
	}
	m.mu.Unlock()

	v, err, _ := m.group.Do(key, func() (interface{}, error) {
		result, err := m.inner.Merge(ctx, curated, centerLat, centerLon)
		if err != nil {
			return nil, err
		}

		m.mu.Lock()
		m.cache[key] = memoEntry{result: result, expires: time.Now().Add(m.ttl)}
		m.mu.Unlock()

		return result, nil
	})
	if err != nil {
		return nil, err
	}

	return v.(*models.MergedResult), nil
}

// Invalidate drops all cached results, e.g. after a dataset import
func (m *MemoResolver) Invalidate() {
	m.mu.Lock()
	m.cache = make(map[string]memoEntry)
	m.mu.Unlock()
}

// memoKey builds the cache key from the rounded center coordinates and the
// sorted curated id set. Four decimal places (~11m) keeps jittering GPS fixes
// on the same key.
func memoKey(curated []models.RestaurantCandidate, centerLat, centerLon float64) string {
	ids := make([]string, 0, len(curated))
	for _, c := range curated {
		ids = append(ids, c.ID)
	}
	sort.Strings(ids)

	return fmt.Sprintf("%.4f|%.4f|%s", centerLat, centerLon, strings.Join(ids, ","))
}
