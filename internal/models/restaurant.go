package models

// Candidate sources
const (
	SourceCurated    = "curated"
	SourceLiveSearch = "live-search"
)

// Restaurant represents a curated restaurant as stored in the database
type Restaurant struct {
	ID          string  `json:"id" db:"id"`
	Name        string  `json:"name" db:"name"`
	Latitude    float64 `json:"latitude" db:"latitude"`
	Longitude   float64 `json:"longitude" db:"longitude"`
	Address     string  `json:"address,omitempty" db:"address"`
	Cuisine     string  `json:"cuisine,omitempty" db:"cuisine"`
	Award       string  `json:"award,omitempty" db:"award"`
	Geohash6    string  `json:"-" db:"geohash6"`
	ImportBatch string  `json:"-" db:"import_batch"`
	CreatedAt   string  `json:"createdAt,omitempty" db:"created_at"`
}

// RestaurantCandidate is a restaurant considered for a match result, annotated
// with its distance from the query center and its verification status
type RestaurantCandidate struct {
	ID             string  `json:"id"`
	Name           string  `json:"name"`
	Latitude       float64 `json:"latitude"`
	Longitude      float64 `json:"longitude"`
	Address        string  `json:"address,omitempty"`
	Cuisine        string  `json:"cuisine,omitempty"`
	Award          string  `json:"award,omitempty"`
	DistanceMeters float64 `json:"distanceMeters"`
	Source         string  `json:"source"` // curated, live-search
	IsVerified     bool    `json:"isVerified"`
}

// RestaurantImport is the payload unit for bulk dataset imports
type RestaurantImport struct {
	ID        string  `json:"id"`
	Name      string  `json:"name" binding:"required"`
	Latitude  float64 `json:"latitude" binding:"required"`
	Longitude float64 `json:"longitude" binding:"required"`
	Address   string  `json:"address"`
	Cuisine   string  `json:"cuisine"`
	Award     string  `json:"award"`
}

// ImportResult summarizes a completed bulk import
type ImportResult struct {
	BatchID  string `json:"batchId"`
	Imported int    `json:"imported"`
	Skipped  int    `json:"skipped"` // duplicates of already-stored entries
}
