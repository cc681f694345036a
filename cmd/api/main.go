package main

import (
	"log"
	"time"

	"variantd/internal/api"
	"variantd/internal/config"
	"variantd/internal/database"
	"variantd/internal/drafts"
	"variantd/internal/events"
	"variantd/internal/logger"
	"variantd/internal/variant"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load configuration:", err)
	}

	// Initialize logger
	logger := logger.New(cfg.LogLevel)

	// Initialize database
	db, err := database.New(cfg.DatabaseURL)
	if err != nil {
		logger.Fatal("Failed to connect to database: %v", err)
	}

	// Draft sessions live in memory only; submission is what persists.
	store := drafts.NewStore(variant.Config{
		Limit:    cfg.VariantLimit,
		Debounce: time.Duration(cfg.ValidateDebounceMS) * time.Millisecond,
	})

	publisher := events.NewPublisher(cfg.KafkaBrokers)
	defer publisher.Close()

	// Initialize API server
	server := api.New(cfg, logger, db, store, publisher)

	// Start server
	logger.Info("Starting API server on port " + cfg.APIPort)
	if err := server.Start(); err != nil {
		logger.Fatal("Failed to start server: %v", err)
	}
}
