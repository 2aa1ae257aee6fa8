package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dvloznov/financial-analyzer/internal/config"
	"github.com/dvloznov/financial-analyzer/internal/embedding"
	infra "github.com/dvloznov/financial-analyzer/internal/infra/bigquery"
	"github.com/dvloznov/financial-analyzer/internal/jobs"
	"github.com/dvloznov/financial-analyzer/internal/jobs/inmemory"
	"github.com/dvloznov/financial-analyzer/internal/logger"
	"github.com/dvloznov/financial-analyzer/internal/pipeline"
)

func main() {
	configPath := flag.String("config", "", "Path to the YAML config file (defaults and env vars apply when omitted)")
	workers := flag.Int("workers", 2, "Number of concurrent ingestion workers")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log := logger.New()
		log.Fatal().Err(err).Msg("Failed to load config")
	}

	log := logger.NewWithLevel(cfg.LogLevel)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	ctx = logger.WithContext(ctx, log)

	store, err := infra.NewClient(ctx, cfg.BigQuery.ProjectID, cfg.BigQuery.Dataset)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create BigQuery client")
	}
	defer store.Close()

	var embedder embedding.Provider
	if !cfg.Embedding.Disabled {
		gemini, err := embedding.NewGemini(ctx, cfg.Embedding.Model)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to create embedding client")
		}
		embedder = gemini
	}

	ingestor := pipeline.NewIngestor(store, embedder)

	// In production the queue would be Cloud Tasks or Pub/Sub, the local
	// implementation keeps the worker self-contained.
	jobStore := inmemory.NewStore()
	jobQueue := inmemory.NewQueue(100, *workers, jobStore)

	handler := func(ctx context.Context, job *jobs.IngestJob) error {
		log := logger.FromContext(ctx)
		log.Info().
			Str("job_id", job.JobID).
			Str("input", job.Input()).
			Msg("Processing ingest job")

		var err error
		if job.GCSURI != "" {
			_, err = ingestor.IngestGCS(ctx, job.GCSURI)
		} else {
			_, err = ingestor.IngestFile(ctx, job.FilePath)
		}
		if err != nil {
			log.Error().Err(err).Str("job_id", job.JobID).Msg("Ingestion failed")
			return err
		}

		log.Info().Str("job_id", job.JobID).Msg("Ingest job completed")
		return nil
	}

	if err := jobQueue.Start(ctx, handler); err != nil {
		log.Fatal().Err(err).Msg("Failed to start job consumer")
	}

	watcher := &jobs.Watcher{
		Dir:          cfg.Watch.Dir,
		PollInterval: cfg.Watch.PollInterval,
		Publisher:    jobQueue,
	}
	go func() {
		if err := watcher.Run(ctx); err != nil && ctx.Err() == nil {
			log.Error().Err(err).Msg("Watcher stopped")
		}
	}()

	log.Info().
		Str("watch_dir", cfg.Watch.Dir).
		Dur("poll_interval", cfg.Watch.PollInterval).
		Int("workers", *workers).
		Msg("Worker service started, waiting for statements")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down worker service")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := jobQueue.Stop(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Error during graceful shutdown")
	}
	if err := jobQueue.Close(); err != nil {
		log.Error().Err(err).Msg("Failed to close job queue")
	}

	log.Info().Msg("Worker service exited")
}
