package main

import (
	"log"

	"github.com/labstack/echo/v4"

	"github.com/anikraj/bumble-clone/backend/internal/logger"
	"github.com/anikraj/bumble-clone/backend/internal/realtime"
	"github.com/anikraj/bumble-clone/backend/internal/router"
	"github.com/anikraj/bumble-clone/backend/pkg/config"
	"github.com/anikraj/bumble-clone/backend/validators"
)

func main() {
	// Load configuration
	cfg := config.Load()

	logger.InitFromConfig(cfg)
	if cfg.JWTSecret == config.InsecureJWTSecret {
		logger.Warn("JWT_SECRET is not set; using the insecure default signing key")
	}

	// Initialize database connections
	db, err := config.InitDB(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize databases: %v", err)
	}
	defer db.CloseDB() // Ensure database connections are closed when main exits

	// Realtime fan-out over Redis pub/sub
	rt := realtime.NewManager(db.Redis, logger.With("component", "realtime"))
	defer rt.Close()

	// Create Echo instance
	e := echo.New()

	// Setup global middleware
	router.SetupMiddleware(e)

	// Setup routes and dependencies
	router.SetupRoutes(e, db, cfg, rt)

	// Validator
	e.Validator = validators.NewValidator()

	// Start server
	e.Logger.Fatal(e.Start(":" + cfg.Port))
}
