package matching

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonluca/palate-backend-go/internal/models"
)

// fakeSearch is a scripted live search provider
type fakeSearch struct {
	nearby      []models.LiveResult
	nearbyErr   error
	nearbyCalls int

	text      map[string][]models.LiveResult
	textErr   map[string]error
	textCalls []string
}

func (f *fakeSearch) SearchNearby(_ context.Context, lat, lon, radius float64) ([]models.LiveResult, error) {
	f.nearbyCalls++
	if f.nearbyErr != nil {
		return nil, f.nearbyErr
	}
	return f.nearby, nil
}

func (f *fakeSearch) SearchByText(_ context.Context, query string, lat, lon, radius float64) ([]models.LiveResult, error) {
	f.textCalls = append(f.textCalls, query)
	if err, ok := f.textErr[query]; ok {
		return nil, err
	}
	return f.text[query], nil
}

func curatedFixture() []models.RestaurantCandidate {
	return []models.RestaurantCandidate{
		{ID: "c1", Name: "Le Bernardin", Latitude: 40.7615, Longitude: -73.9819, Award: "3 stars", DistanceMeters: 40},
		{ID: "c2", Name: "Per Se", Latitude: 40.7685, Longitude: -73.9830, Award: "3 stars", DistanceMeters: 120},
		{ID: "c3", Name: "Sushi Nakazawa", Latitude: 40.7311, Longitude: -74.0036, Award: "1 star", DistanceMeters: 200},
		{ID: "c4", Name: "Marea", Latitude: 40.7674, Longitude: -73.9810, Award: "2 stars", DistanceMeters: 260},
	}
}

func TestMerge_PrimarySearchFailurePropagates(t *testing.T) {
	fake := &fakeSearch{nearbyErr: errors.New("provider down")}
	r := NewResolver(fake)

	_, err := r.Merge(context.Background(), curatedFixture(), 40.7614, -73.9820)
	require.Error(t, err)
	assert.Empty(t, fake.textCalls, "no verification searches after a failed radius search")
}

func TestMerge_VerifiesOnlyClosestThree(t *testing.T) {
	fake := &fakeSearch{
		text: map[string][]models.LiveResult{
			"Le Bernardin": {{Name: "Le Bernardin", DistanceMeters: 45}},
		},
	}
	r := NewResolver(fake)

	result, err := r.Merge(context.Background(), curatedFixture(), 40.7614, -73.9820)
	require.NoError(t, err)

	assert.Equal(t, []string{"Le Bernardin", "Per Se", "Sushi Nakazawa"}, fake.textCalls)

	// c4 was never searched and carries no verification record.
	_, ok := result.Verification["c4"]
	assert.False(t, ok)
	for _, rest := range result.Restaurants {
		if rest.ID == "c4" {
			assert.False(t, rest.IsVerified)
		}
	}
}

func TestMerge_AcceptanceRules(t *testing.T) {
	cases := []struct {
		name     string
		result   models.LiveResult
		accepted bool
	}{
		{"close distance, different name", models.LiveResult{Name: "Totally Different", DistanceMeters: 25}, true},
		{"matching name within 100m", models.LiveResult{Name: "le bernardin", DistanceMeters: 80}, true},
		{"matching name beyond 100m", models.LiveResult{Name: "Le Bernardin", DistanceMeters: 150}, false},
		{"different name beyond 30m", models.LiveResult{Name: "Totally Different", DistanceMeters: 50}, false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			fake := &fakeSearch{
				text: map[string][]models.LiveResult{
					"Le Bernardin": {tc.result},
				},
			}
			r := NewResolver(fake)

			curated := curatedFixture()[:1]
			result, err := r.Merge(context.Background(), curated, 40.7614, -73.9820)
			require.NoError(t, err)

			rec := result.Verification["c1"]
			assert.Equal(t, tc.accepted, rec.IsVerified)
			if tc.accepted {
				require.NotNil(t, rec.Matched)
				assert.Equal(t, tc.result.Name, rec.Matched.Name)
			}
		})
	}
}

func TestMerge_FirstAcceptableResultWins(t *testing.T) {
	fake := &fakeSearch{
		text: map[string][]models.LiveResult{
			"Le Bernardin": {
				{Name: "Unrelated Deli", DistanceMeters: 90},     // rejected: name mismatch, >30m
				{Name: "Le Bernardin", DistanceMeters: 60},       // first acceptance
				{Name: "Le Bernardin Annex", DistanceMeters: 10}, // never reached
			},
		},
	}
	r := NewResolver(fake)

	result, err := r.Merge(context.Background(), curatedFixture()[:1], 40.7614, -73.9820)
	require.NoError(t, err)

	rec := result.Verification["c1"]
	require.True(t, rec.IsVerified)
	assert.Equal(t, 60.0, rec.Matched.DistanceMeters)
}

func TestMerge_VerificationFailureDegradesGracefully(t *testing.T) {
	fake := &fakeSearch{
		textErr: map[string]error{
			"Le Bernardin": errors.New("timeout"),
		},
		text: map[string][]models.LiveResult{
			"Per Se": {{Name: "Per Se", DistanceMeters: 110}},
		},
	}
	r := NewResolver(fake)

	result, err := r.Merge(context.Background(), curatedFixture(), 40.7614, -73.9820)
	require.NoError(t, err, "one failed verification must not abort the merge")

	assert.False(t, result.Verification["c1"].IsVerified)
	assert.True(t, result.Verification["c2"].IsVerified)
	assert.Len(t, fake.textCalls, 3, "remaining candidates still verified")
}

func TestMerge_DedupPrefersCurated(t *testing.T) {
	fake := &fakeSearch{
		nearby: []models.LiveResult{
			{Name: "le bernardin", Latitude: 40.7616, Longitude: -73.9818, DistanceMeters: 50},
			{Name: "Corner Bistro", Latitude: 40.7620, Longitude: -73.9825, DistanceMeters: 75},
			{Name: "", Latitude: 40.7621, Longitude: -73.9826, DistanceMeters: 80}, // nameless, dropped
		},
	}
	r := NewResolver(fake)

	result, err := r.Merge(context.Background(), curatedFixture(), 40.7614, -73.9820)
	require.NoError(t, err)

	var bernardins []models.RestaurantCandidate
	for _, rest := range result.Restaurants {
		if IsFuzzyRestaurantMatch(rest.Name, "Le Bernardin") {
			bernardins = append(bernardins, rest)
		}
	}
	require.Len(t, bernardins, 1, "exactly one entry for the duplicated name")
	assert.Equal(t, models.SourceCurated, bernardins[0].Source)
	assert.Equal(t, "c1", bernardins[0].ID)

	assert.Equal(t, 1, result.LiveRetained, "only Corner Bistro survives the filter")
}

func TestMerge_LiveEntriesAlwaysVerified(t *testing.T) {
	fake := &fakeSearch{
		nearby: []models.LiveResult{
			{Name: "Corner Bistro", Latitude: 40.7620, Longitude: -73.9825, DistanceMeters: 75},
		},
	}
	r := NewResolver(fake)

	result, err := r.Merge(context.Background(), curatedFixture(), 40.7614, -73.9820)
	require.NoError(t, err)

	for _, rest := range result.Restaurants {
		if rest.Source == models.SourceLiveSearch {
			assert.True(t, rest.IsVerified)
			assert.NotEmpty(t, rest.ID)
		}
	}
}

func TestMerge_SortedAscendingByDistance(t *testing.T) {
	fake := &fakeSearch{
		nearby: []models.LiveResult{
			{Name: "Corner Bistro", DistanceMeters: 75},
			{Name: "The Modern", DistanceMeters: 10},
		},
	}
	r := NewResolver(fake)

	result, err := r.Merge(context.Background(), curatedFixture(), 40.7614, -73.9820)
	require.NoError(t, err)

	for i := 1; i < len(result.Restaurants); i++ {
		assert.GreaterOrEqual(t,
			result.Restaurants[i].DistanceMeters,
			result.Restaurants[i-1].DistanceMeters,
			"distance order violated at index %d", i)
	}
}

func TestMerge_Idempotent(t *testing.T) {
	build := func() *fakeSearch {
		return &fakeSearch{
			nearby: []models.LiveResult{
				{Name: "Corner Bistro", Latitude: 40.7620, Longitude: -73.9825, DistanceMeters: 75},
			},
			text: map[string][]models.LiveResult{
				"Le Bernardin": {{Name: "Le Bernardin", DistanceMeters: 45}},
			},
		}
	}

	r1 := NewResolver(build())
	r2 := NewResolver(build())

	first, err := r1.Merge(context.Background(), curatedFixture(), 40.7614, -73.9820)
	require.NoError(t, err)
	second, err := r2.Merge(context.Background(), curatedFixture(), 40.7614, -73.9820)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestLiveResultID_Deterministic(t *testing.T) {
	lr := models.LiveResult{Name: "Corner Bistro", Latitude: 40.76201, Longitude: -73.98254}
	assert.Equal(t, liveResultID(lr), liveResultID(lr))
	assert.Equal(t, "live:40.7620,-73.9825:corner b", liveResultID(lr))
}
