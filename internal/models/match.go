package models

// LiveResult represents a single result from the live geo-search provider
type LiveResult struct {
	Name           string  `json:"name"`
	Latitude       float64 `json:"latitude"`
	Longitude      float64 `json:"longitude"`
	Address        string  `json:"address,omitempty"`
	DistanceMeters float64 `json:"distanceMeters"`
}

// VerificationRecord captures the outcome of cross-checking one curated
// candidate against the live provider. Records exist only for the closest
// candidates that were actually checked.
type VerificationRecord struct {
	CandidateID string      `json:"candidateId"`
	IsVerified  bool        `json:"isVerified"`
	Matched     *LiveResult `json:"matched,omitempty"`
}

// MergedResult is the final distance-sorted restaurant list combining curated
// and live-search entries, with same-name duplicates removed in favor of the
// curated entry
type MergedResult struct {
	Restaurants     []RestaurantCandidate         `json:"restaurants"`
	Verification    map[string]VerificationRecord `json:"verification"`
	LiveRetained    int                           `json:"liveRetained"`
	CuratedVerified int                           `json:"curatedVerified"`
	Degraded        bool                          `json:"degraded"` // live search unavailable, curated-only fallback
}
