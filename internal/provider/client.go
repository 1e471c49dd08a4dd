package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"golang.org/x/time/rate"

	"github.com/jonluca/palate-backend-go/internal/models"
	"github.com/jonluca/palate-backend-go/internal/spatial"
)

// Client talks to a places-search HTTP API. Outbound calls are rate limited
// so a burst of match requests cannot exhaust the provider quota.
type Client struct {
	baseURL string
	token   string
	http    *http.Client
	limiter *rate.Limiter
}

// NewClient creates a live search client. requestsPerSecond bounds the
// sustained outbound rate; a small burst is allowed to cover the radius
// search plus the per-candidate verification searches of one match request.
func NewClient(baseURL, token string, requestsPerSecond float64) *Client {
	if requestsPerSecond <= 0 {
		requestsPerSecond = 5
	}
	return &Client{
		baseURL: baseURL,
		token:   token,
		http:    &http.Client{Timeout: 10 * time.Second},
		limiter: rate.NewLimiter(rate.Limit(requestsPerSecond), 4),
	}
}

// searchResponse is the wire shape of the provider's search endpoints
type searchResponse struct {
	Results []struct {
		Name           string  `json:"name"`
		Latitude       float64 `json:"latitude"`
		Longitude      float64 `json:"longitude"`
		Address        string  `json:"address"`
		DistanceMeters float64 `json:"distance_meters"`
	} `json:"results"`
}

// SearchNearby returns places within radiusMeters of the center point
func (c *Client) SearchNearby(ctx context.Context, lat, lon, radiusMeters float64) ([]models.LiveResult, error) {
	params := url.Values{}
	params.Set("lat", strconv.FormatFloat(lat, 'f', 6, 64))
	params.Set("lon", strconv.FormatFloat(lon, 'f', 6, 64))
	params.Set("radius", strconv.FormatFloat(radiusMeters, 'f', 0, 64))

	return c.search(ctx, "/v1/search/nearby", params, lat, lon)
}

// SearchByText returns places matching the query near the center point
func (c *Client) SearchByText(ctx context.Context, query string, lat, lon, radiusMeters float64) ([]models.LiveResult, error) {
	params := url.Values{}
	params.Set("q", query)
	params.Set("lat", strconv.FormatFloat(lat, 'f', 6, 64))
	params.Set("lon", strconv.FormatFloat(lon, 'f', 6, 64))
	params.Set("radius", strconv.FormatFloat(radiusMeters, 'f', 0, 64))

	return c.search(ctx, "/v1/search/text", params, lat, lon)
}

func (c *Client) search(ctx context.Context, path string, params url.Values, centerLat, centerLon float64) ([]models.LiveResult, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("failed to acquire rate limit slot: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build search request: %w", err)
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: search returned status %d", ErrUnavailable, resp.StatusCode)
	}

	var body searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("failed to decode search response: %w", err)
	}

	results := make([]models.LiveResult, 0, len(body.Results))
	for _, r := range body.Results {
		distance := r.DistanceMeters
		if distance == 0 {
			// Some providers omit distance; backfill from the center.
			distance = spatial.HaversineDistance(centerLat, centerLon, r.Latitude, r.Longitude)
		}
		results = append(results, models.LiveResult{
			Name:           r.Name,
			Latitude:       r.Latitude,
			Longitude:      r.Longitude,
			Address:        r.Address,
			DistanceMeters: distance,
		})
	}

	return results, nil
}
