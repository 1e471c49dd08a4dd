package repository

import (
	"database/sql"
	"fmt"
	"sort"
	"strings"

	"github.com/google/uuid"

	"github.com/jonluca/palate-backend-go/internal/models"
	"github.com/jonluca/palate-backend-go/internal/spatial"
)

// RestaurantRepository handles database operations for curated restaurants
type RestaurantRepository struct {
	db *sql.DB
}

// NewRestaurantRepository creates a new restaurant repository
func NewRestaurantRepository(db *sql.DB) *RestaurantRepository {
	return &RestaurantRepository{db: db}
}

// NearestWithin returns curated restaurants within radiusMeters of the center
// point, sorted ascending by distance and capped at limit. The query uses a
// bounding-box prefilter on the lat/lon index; exact distances come from the
// haversine formula.
func (r *RestaurantRepository) NearestWithin(lat, lon, radiusMeters float64, limit int) ([]models.RestaurantCandidate, error) {
	if limit <= 0 {
		limit = 20
	}

	minLat, minLon, maxLat, maxLon := spatial.RadiusBoundingBox(lat, lon, radiusMeters)

	query := `
		SELECT id, name, latitude, longitude, address, cuisine, award
		FROM restaurants
		WHERE latitude BETWEEN ? AND ? AND longitude BETWEEN ? AND ?
	`

	rows, err := r.db.Query(query, minLat, maxLat, minLon, maxLon)
	if err != nil {
		return nil, fmt.Errorf("failed to query nearby restaurants: %w", err)
	}
	defer rows.Close()

	var candidates []models.RestaurantCandidate
	for rows.Next() {
		var c models.RestaurantCandidate
		if err := rows.Scan(&c.ID, &c.Name, &c.Latitude, &c.Longitude, &c.Address, &c.Cuisine, &c.Award); err != nil {
			return nil, fmt.Errorf("failed to scan restaurant: %w", err)
		}

		c.DistanceMeters = spatial.HaversineDistance(lat, lon, c.Latitude, c.Longitude)
		if c.DistanceMeters > radiusMeters {
			// Bounding-box corner beyond the actual radius.
			continue
		}
		c.Source = models.SourceCurated
		candidates = append(candidates, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate restaurants: %w", err)
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].DistanceMeters < candidates[j].DistanceMeters
	})

	if len(candidates) > limit {
		candidates = candidates[:limit]
	}

	return candidates, nil
}

// BulkImport inserts a batch of restaurants under a fresh batch id. Entries
// that duplicate an already-stored (name, geohash cell) pair are skipped.
func (r *RestaurantRepository) BulkImport(items []models.RestaurantImport) (*models.ImportResult, error) {
	batchID := uuid.NewString()

	tx, err := r.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("failed to begin import transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(`
		INSERT INTO restaurants (id, name, latitude, longitude, address, cuisine, award, geohash6, import_batch)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(name, geohash6) DO NOTHING
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to prepare import statement: %w", err)
	}
	defer stmt.Close()

	result := &models.ImportResult{BatchID: batchID}
	for _, item := range items {
		if strings.TrimSpace(item.Name) == "" {
			result.Skipped++
			continue
		}

		id := item.ID
		if id == "" {
			id = uuid.NewString()
		}

		res, err := stmt.Exec(
			id,
			item.Name,
			item.Latitude,
			item.Longitude,
			item.Address,
			item.Cuisine,
			item.Award,
			spatial.RestaurantCell(item.Latitude, item.Longitude),
			batchID,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to insert restaurant %q: %w", item.Name, err)
		}

		affected, err := res.RowsAffected()
		if err != nil {
			return nil, fmt.Errorf("failed to read insert result: %w", err)
		}
		if affected == 0 {
			result.Skipped++
		} else {
			result.Imported++
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit import: %w", err)
	}

	return result, nil
}

// CountByBatch returns how many stored restaurants belong to an import batch
func (r *RestaurantRepository) CountByBatch(batchID string) (int, error) {
	var count int
	err := r.db.QueryRow("SELECT COUNT(*) FROM restaurants WHERE import_batch = ?", batchID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count batch %s: %w", batchID, err)
	}
	return count, nil
}

// GetByID retrieves a single curated restaurant
func (r *RestaurantRepository) GetByID(id string) (*models.Restaurant, error) {
	query := `
		SELECT id, name, latitude, longitude, address, cuisine, award, geohash6, import_batch
		FROM restaurants
		WHERE id = ?
	`

	rest := &models.Restaurant{}
	err := r.db.QueryRow(query, id).Scan(
		&rest.ID,
		&rest.Name,
		&rest.Latitude,
		&rest.Longitude,
		&rest.Address,
		&rest.Cuisine,
		&rest.Award,
		&rest.Geohash6,
		&rest.ImportBatch,
	)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("restaurant not found: %s", id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get restaurant: %w", err)
	}

	return rest, nil
}
