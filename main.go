package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"trendfit/app"
	"trendfit/internal"
	"trendfit/internal/api"
	"trendfit/internal/config"
	"trendfit/internal/insight"
	"trendfit/internal/metrics"
)

func main() {
	// Load environment variables from .env file
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment variables")
	}

	appConfig, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger := internal.NewLogger(internal.ParseLogLevel(appConfig.Log.Level))
	internal.DefaultLogger = logger

	m := metrics.New()
	trendService, err := app.NewTrendServiceFromConfig(appConfig, m, logger)
	if err != nil {
		log.Fatalf("Failed to build trend service: %v", err)
	}

	catalogue := insight.NewCatalogue(trendService, insight.Options{
		MinItems: appConfig.Insight.MinItems,
		Workers:  appConfig.Insight.Workers,
	}, logger)

	server := api.NewServer(trendService, catalogue, m, logger, appConfig.Server.GinMode)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger.Info("[Main] trendfit starting (max degree %d, rule %s, band %.0f%%)",
		appConfig.Fit.MaxDegree, appConfig.Fit.SelectionRule, appConfig.Fit.ConfidenceLevel*100)
	if err := server.Run(ctx, ":"+appConfig.Server.Port); err != nil {
		logger.Error("[Main] server stopped: %v", err)
		os.Exit(1)
	}
}
