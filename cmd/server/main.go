package main

import (
	"log"

	"github.com/jonluca/palate-backend-go/internal/api"
	"github.com/jonluca/palate-backend-go/internal/config"
	"github.com/jonluca/palate-backend-go/internal/database"
	"github.com/jonluca/palate-backend-go/internal/handler"
	"github.com/jonluca/palate-backend-go/internal/matching"
	"github.com/jonluca/palate-backend-go/internal/provider"
	"github.com/jonluca/palate-backend-go/internal/repository"
	"github.com/jonluca/palate-backend-go/internal/service"
)

func main() {
	cfg := config.Load()

	db, err := database.Open(database.Config{Path: cfg.DBPath})
	if err != nil {
		log.Fatal("Failed to initialize database:", err)
	}
	defer db.Close()

	repo := repository.NewRestaurantRepository(db)
	liveSearch := provider.NewClient(cfg.LiveSearchBaseURL, cfg.LiveSearchToken, cfg.LiveSearchRPS)
	resolver := matching.NewMemoResolver(matching.NewResolver(liveSearch), matching.DefaultMemoTTL)
	matchService := service.NewMatchService(repo, resolver)

	restaurants := handler.NewRestaurantHandler(matchService)
	router := api.SetupRouter(cfg, restaurants)

	log.Printf("Server starting on port %s", cfg.Port)
	if err := router.Run(cfg.Port); err != nil {
		log.Fatal("Failed to start server:", err)
	}
}
