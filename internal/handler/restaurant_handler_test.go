package handler

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/jonluca/palate-backend-go/internal/models"
)

type stubMatcher struct {
	nearby    *models.MergedResult
	nearbyErr error
	imported  *models.ImportResult
	importErr error
}

func (s *stubMatcher) NearbyRestaurants(_ context.Context, lat, lon float64) (*models.MergedResult, error) {
	return s.nearby, s.nearbyErr
}

func (s *stubMatcher) ImportRestaurants(items []models.RestaurantImport) (*models.ImportResult, error) {
	return s.imported, s.importErr
}

func (s *stubMatcher) ImportBatchCount(batchID string) (int, error) {
	return 7, nil
}

func testRouter(m Matcher) *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := NewRestaurantHandler(m)

	r := gin.New()
	r.GET("/api/v1/restaurants/nearby", h.Nearby)
	r.POST("/api/admin/restaurants/import", h.Import)
	r.GET("/api/admin/restaurants/import/:batch", h.ImportBatch)
	return r
}

func TestNearby_OK(t *testing.T) {
	m := &stubMatcher{nearby: &models.MergedResult{
		Restaurants: []models.RestaurantCandidate{{ID: "c1", Name: "Le Bernardin"}},
	}}
	r := testRouter(m)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/restaurants/nearby?lat=40.76&lon=-73.98", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Le Bernardin")
}

func TestNearby_MissingCoords(t *testing.T) {
	r := testRouter(&stubMatcher{})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/restaurants/nearby?lat=40.76", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestNearby_ServiceError(t *testing.T) {
	r := testRouter(&stubMatcher{nearbyErr: errors.New("latitude 91 out of range")})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/restaurants/nearby?lat=91&lon=0", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestImport_OK(t *testing.T) {
	m := &stubMatcher{imported: &models.ImportResult{BatchID: "b1", Imported: 1}}
	r := testRouter(m)

	body := `{"restaurants":[{"name":"Le Bernardin","latitude":40.7615,"longitude":-73.9819}]}`
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/admin/restaurants/import", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "b1")
}

func TestImport_MalformedBody(t *testing.T) {
	r := testRouter(&stubMatcher{})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/admin/restaurants/import", strings.NewReader(`{"nope":true}`))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestImportBatch(t *testing.T) {
	r := testRouter(&stubMatcher{})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/admin/restaurants/import/b1", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"count":7`)
}
