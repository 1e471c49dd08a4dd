package spatial

import (
	"math"

	"github.com/golang/geo/s2"
)

// Constants
const (
	EarthRadiusMeters = 6371000.0 // Earth's mean radius in meters

	metersPerDegreeLat = 111320.0
)

// HaversineDistance calculates the great-circle distance between two points
// in meters using the Haversine formula
func HaversineDistance(lat1, lon1, lat2, lon2 float64) float64 {
	p1 := s2.LatLngFromDegrees(lat1, lon1)
	p2 := s2.LatLngFromDegrees(lat2, lon2)
	return p1.Distance(p2).Radians() * EarthRadiusMeters
}

// RadiusBoundingBox returns the lat/lon box that fully contains a circle of
// radiusMeters around the center point. Used as a cheap SQL prefilter before
// exact haversine distances are computed.
// Returns (minLat, minLon, maxLat, maxLon)
func RadiusBoundingBox(lat, lon, radiusMeters float64) (float64, float64, float64, float64) {
	dLat := radiusMeters / metersPerDegreeLat

	// Longitude degrees shrink with latitude; near the poles the box
	// degenerates to the full longitude range.
	cosLat := math.Cos(lat * math.Pi / 180)
	dLon := 180.0
	if cosLat > 1e-6 {
		dLon = radiusMeters / (metersPerDegreeLat * cosLat)
	}

	minLat := math.Max(lat-dLat, -90)
	maxLat := math.Min(lat+dLat, 90)
	minLon := math.Max(lon-dLon, -180)
	maxLon := math.Min(lon+dLon, 180)

	return minLat, minLon, maxLat, maxLon
}
