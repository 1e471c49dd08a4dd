package config

import (
	"os"
	"strconv"
)

// Config holds application configuration
type Config struct {
	Port      string
	DBPath    string
	JWTSecret string

	// Live geo-search provider
	LiveSearchBaseURL string
	LiveSearchToken   string
	LiveSearchRPS     float64
}

// Load reads configuration from the environment with sensible defaults
func Load() *Config {
	port := os.Getenv("PORT")
	if port == "" {
		port = ":8080"
	}

	dbPath := os.Getenv("DB_PATH")
	if dbPath == "" {
		dbPath = "./data/restaurants.db"
	}

	jwtSecret := os.Getenv("JWT_SECRET")
	if jwtSecret == "" {
		jwtSecret = "your-secret-key-change-in-production"
	}

	baseURL := os.Getenv("LIVE_SEARCH_BASE_URL")
	if baseURL == "" {
		baseURL = "http://localhost:9090"
	}

	rps := 5.0
	if v := os.Getenv("LIVE_SEARCH_RPS"); v != "" {
		if parsed, err := strconv.ParseFloat(v, 64); err == nil && parsed > 0 {
			rps = parsed
		}
	}

	return &Config{
		Port:              port,
		DBPath:            dbPath,
		JWTSecret:         jwtSecret,
		LiveSearchBaseURL: baseURL,
		LiveSearchToken:   os.Getenv("LIVE_SEARCH_TOKEN"),
		LiveSearchRPS:     rps,
	}
}
