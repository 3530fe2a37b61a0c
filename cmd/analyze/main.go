package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/timmy/dishlingo/internal/config"
	"github.com/timmy/dishlingo/internal/logger"
	"github.com/timmy/dishlingo/internal/service"
	"github.com/timmy/dishlingo/internal/source"
)

func main() {
	// Logs go to stderr so stdout stays pure JSON
	logCfg := logger.LoadFromEnv()
	logCfg.Output = os.Stderr
	if os.Getenv("SERVICE_NAME") == "" {
		logCfg.ServiceName = "dishlingo-analyze"
	}
	appLogger := logger.New(logCfg.ToConfig())
	logger.SetDefaultLogger(appLogger)

	skipEnrichment := flag.Bool("skip-enrichment", false, "Return dishes without pronunciations and allergens")
	configPath := flag.String("config", "", "Path to config file")
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "Usage: %s [-skip-enrichment] [-config path] photo-or-dir...\n", os.Args[0])
		flag.PrintDefaults()
	}
	flag.Parse()

	if flag.NArg() == 0 {
		flag.Usage()
		os.Exit(2)
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		appLogger.WithError(err).Fatal("Failed to load config")
	}
	if err := cfg.VLM.ValidateWithAPIKey(); err != nil {
		appLogger.WithError(err).Fatal("Invalid VLM configuration")
	}

	// Interrupts only stop file loading; a started analysis runs to the end
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	photos, err := source.Collect(flag.Args())
	if err != nil {
		appLogger.WithError(err).Fatal("Failed to collect photos")
	}
	images, err := source.Load(ctx, photos)
	if err != nil {
		appLogger.WithError(err).Fatal("Failed to load photos")
	}

	appLogger.WithFields(logger.Fields{
		"photos":          len(photos),
		"skip_enrichment": *skipEnrichment,
	}).Info("Starting analysis")

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

	result, err := analysisService.Analyze(ctx, &service.AnalyzeRequest{
		Images:         images,
		SkipEnrichment: *skipEnrichment,
	})
	if err != nil {
		var ae *service.AnalysisError
		if errors.As(err, &ae) {
			appLogger.WithField("code", ae.Code).Error(ae.Message)
			os.Exit(1)
		}
		appLogger.WithError(err).Fatal("Analysis failed")
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(result); err != nil {
		appLogger.WithError(err).Fatal("Failed to write result")
	}
}
