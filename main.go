package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/sharathb5/PolicyRadar/internal/classify"
	"github.com/sharathb5/PolicyRadar/internal/config"
	"github.com/sharathb5/PolicyRadar/internal/fetch"
	"github.com/sharathb5/PolicyRadar/internal/ingest"
	"github.com/sharathb5/PolicyRadar/internal/repository"
	"github.com/sharathb5/PolicyRadar/internal/scoring"
	"github.com/sharathb5/PolicyRadar/internal/server"
)

func main() {
	logger, err := zap.NewDevelopment()
	if err != nil {
		panic(err) // Should not happen in development
	}
	defer func() {
		_ = logger.Sync() // Flushes buffer, if any
	}()

	// Load configuration
	cfgPath := "configs/config.yml"
	cfg, err := config.LoadConfig(cfgPath)
	if err != nil {
		logger.Fatal("Failed to load config", zap.Error(err))
	}

	// Database connection
	db, err := repository.NewPostgresDB(cfg.Database.URL, logger)
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	// Run migrations
	repository.MigrateDB(db, logger)

	// Register one throttled feed fetcher per configured source
	registry := fetch.NewRegistry()
	for _, source := range cfg.Ingest.Sources {
		fetcher := fetch.NewFeedFetcher(source.Name, source.URL, logger)
		registry.Register(fetch.Throttle(fetcher, cfg.MinFetchInterval()))
	}

	// Initialize repositories and the ingestion pipeline
	policyRepo := repository.NewPolicyRepository(db, logger)
	runRepo := repository.NewRunRepository(db, logger)

	classifier := classify.New(classify.DefaultRules())
	scorer := scoring.New(scoring.DefaultConfig())
	pipeline := ingest.NewPipeline(registry, policyRepo, runRepo, classifier, scorer, cfg.Jurisdictions(), logger)

	// Context for graceful shutdown
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	// Run the periodic ingestion runner in a goroutine
	runner := ingest.NewRunner(pipeline, registry.Sources(), cfg.PollInterval(), logger)
	go runner.Run(ctx)

	// Initialize and run the server
	srv := server.NewServer(db, pipeline, cfg.Server.APIKey, logger)
	go func() {
		if err := srv.Run(":" + cfg.Server.Port); err != nil {
			logger.Fatal("Server failed", zap.Error(err))
		}
	}()

	<-ctx.Done()
	logger.Info("Application stopped.")
}
