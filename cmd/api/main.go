package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/timmy/dishlingo/internal/api"
	"github.com/timmy/dishlingo/internal/config"
	"github.com/timmy/dishlingo/internal/logger"
	"github.com/timmy/dishlingo/internal/service"
)

func main() {
	// Initialize logger from LOG_* environment variables
	appLogger := logger.NewDefault()
	logger.SetDefaultLogger(appLogger)
	defer logger.Sync()

	// Load configuration
	// Support CONFIG_PATH environment variable for production deployments
	configPath := os.Getenv("CONFIG_PATH")
	cfg, err := config.Load(configPath)
	if err != nil {
		appLogger.WithError(err).Fatal("Failed to load config")
	}

	if err := cfg.VLM.ValidateWithAPIKey(); err != nil {
		appLogger.WithError(err).Fatal("Invalid VLM configuration")
	}

	// One gateway for the whole process; read-only after this point
	gateway := service.NewVLMGateway(&service.VLMConfig{
		Model:       cfg.VLM.Model,
		APIKey:      cfg.VLM.APIKey,
		BaseURL:     cfg.VLM.BaseURL,
		Timeout:     cfg.VLM.Timeout,
		RetryCount:  cfg.VLM.RetryCount,
		MaxTokens:   cfg.VLM.MaxTokens,
		Temperature: cfg.VLM.Temperature,
	})

	analysisService := service.NewMenuAnalysisService(gateway, appLogger, &service.AnalysisConfig{
		MinImages:         cfg.Pipeline.MinImages,
		MaxImages:         cfg.Pipeline.MaxImages,
		EnrichmentEnabled: cfg.Pipeline.EnrichmentEnabled,
	})

	// Setup router
	router := api.SetupRouter(analysisService, cfg, appLogger)

	// Create HTTP server
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Start server in goroutine
	go func() {
		appLogger.WithFields(logger.Fields{
			"port":  cfg.Server.Port,
			"mode":  cfg.Server.Mode,
			"model": gateway.GetModel(),
		}).Info("Starting API server")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			appLogger.WithError(err).Fatal("Failed to start server")
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	appLogger.Info("Shutting down server...")

	// A started batch is never cancelled, so wait out the slowest one.
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.MaxAnalysisDuration()+5*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		appLogger.WithError(err).Fatal("Server forced to shutdown")
	}

	appLogger.Info("Server exited")
}
