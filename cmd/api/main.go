package main

import (
	"fmt"
	"os"

	"khatabook/internal/config"
	"khatabook/internal/database"
	"khatabook/internal/identity"
	"khatabook/internal/logger"
	"khatabook/internal/router"
	"khatabook/internal/validator"
)

// @title           Khatabook API
// @version         1.0
// @description     Khatabook is a personal ledger for recording payments, receipts and transfers between your own accounts, with dashboards and filtered reports.

// @host      localhost:5000
// @BasePath  /api/v1

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

func main() {
	// Initialize logger (use ENV var if available, default to development)
	logger.Init(os.Getenv("ENV"))
	defer logger.Sync()

	if err := run(); err != nil {
		logger.Get().Fatalf("Fatal error: %v", err)
	}
}

func run() error {
	log := logger.Get()

	// Load configuration
	appConfig, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	// Initialize database configuration
	dbConfig, err := database.NewConfig(appConfig)
	if err != nil {
		return fmt.Errorf("failed to load database configuration: %w", err)
	}

	// Create database manager
	dbManager, err := database.NewManager(dbConfig)
	if err != nil {
		return fmt.Errorf("failed to create database manager: %w", err)
	}

	// Run migrations
	if err := dbManager.RunMigrations(); err != nil {
		return fmt.Errorf("failed to run database migrations: %w", err)
	}

	validator.Register()

	var verifier identity.Verifier
	if appConfig.GoogleClientID != "" {
		verifier = identity.NewGoogleVerifier(appConfig.GoogleClientID)
	} else {
		log.Warn("GOOGLE_CLIENT_ID not set, Google sign-in is disabled")
	}

	r := router.New(dbManager.DB(), router.Options{
		FrontendURL:    appConfig.FrontendURL,
		ReportLocation: appConfig.ReportLocation,
		Verifier:       verifier,
	})

	log.Infof("Starting Khatabook backend server on port %s", appConfig.Port)
	log.Infof("Swagger documentation available at http://localhost:%s/swagger/index.html", appConfig.Port)
	return r.Run(":" + appConfig.Port)
}
