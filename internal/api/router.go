package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/jonluca/palate-backend-go/internal/config"
	"github.com/jonluca/palate-backend-go/internal/handler"
	"github.com/jonluca/palate-backend-go/internal/middleware"
)

// SetupRouter wires the HTTP routes
func SetupRouter(cfg *config.Config, restaurants *handler.RestaurantHandler) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.Logger())

	// CORS for the mobile client
	r.Use(func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	})

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"message": "Palate matching API is running",
		})
	})

	api := r.Group("/api/v1")
	api.Use(middleware.RateLimit(10, 20))
	{
		restaurantsGroup := api.Group("/restaurants")
		{
			restaurantsGroup.GET("/nearby", restaurants.Nearby)
		}
	}

	admin := r.Group("/api/admin")
	admin.Use(middleware.AdminAuth(cfg.JWTSecret))
	{
		admin.POST("/restaurants/import", restaurants.Import)
		admin.GET("/restaurants/import/:batch", restaurants.ImportBatch)
	}

	return r
}
