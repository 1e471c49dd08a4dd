package handler

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/jonluca/palate-backend-go/internal/models"
	"github.com/jonluca/palate-backend-go/pkg/response"
)

// Matcher is the slice of the match service the HTTP layer needs
type Matcher interface {
	NearbyRestaurants(ctx context.Context, lat, lon float64) (*models.MergedResult, error)
	ImportRestaurants(items []models.RestaurantImport) (*models.ImportResult, error)
	ImportBatchCount(batchID string) (int, error)
}

// RestaurantHandler handles HTTP requests for restaurant matching
type RestaurantHandler struct {
	service Matcher
}

// NewRestaurantHandler creates a new restaurant handler
func NewRestaurantHandler(service Matcher) *RestaurantHandler {
	return &RestaurantHandler{service: service}
}

// Nearby returns the merged restaurant list around a point
// GET /api/v1/restaurants/nearby?lat=&lon=
func (h *RestaurantHandler) Nearby(c *gin.Context) {
	lat, err := strconv.ParseFloat(c.Query("lat"), 64)
	if err != nil {
		response.BadRequest(c, "Invalid or missing lat")
		return
	}
	lon, err := strconv.ParseFloat(c.Query("lon"), 64)
	if err != nil {
		response.BadRequest(c, "Invalid or missing lon")
		return
	}

	result, err := h.service.NearbyRestaurants(c.Request.Context(), lat, lon)
	if err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	response.Success(c, result)
}

// importRequest is the bulk import payload
type importRequest struct {
	Restaurants []models.RestaurantImport `json:"restaurants" binding:"required"`
}

// Import loads a curated dataset batch
// POST /api/admin/restaurants/import
func (h *RestaurantHandler) Import(c *gin.Context) {
	var req importRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid import payload: "+err.Error())
		return
	}

	result, err := h.service.ImportRestaurants(req.Restaurants)
	if err != nil {
		response.Error(c, http.StatusBadRequest, err.Error())
		return
	}

	response.Success(c, result)
}

// ImportBatch reports the stored size of an import batch
// GET /api/admin/restaurants/import/:batch
func (h *RestaurantHandler) ImportBatch(c *gin.Context) {
	batchID := c.Param("batch")

	count, err := h.service.ImportBatchCount(batchID)
	if err != nil {
		response.InternalError(c, err.Error())
		return
	}

	response.Success(c, gin.H{
		"batchId": batchID,
		"count":   count,
	})
}
