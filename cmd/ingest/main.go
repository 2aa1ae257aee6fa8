package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/dvloznov/financial-analyzer/internal/config"
	"github.com/dvloznov/financial-analyzer/internal/embedding"
	infra "github.com/dvloznov/financial-analyzer/internal/infra/bigquery"
	"github.com/dvloznov/financial-analyzer/internal/logger"
	"github.com/dvloznov/financial-analyzer/internal/pipeline"
)

func main() {
	configPath := flag.String("config", "", "Path to the YAML config file (defaults and env vars apply when omitted)")
	filePath := flag.String("file", "", "Path to a local statement CSV or XLSX file")
	dirPath := flag.String("dir", "", "Directory of statement files to ingest")
	gcsURI := flag.String("gcs-uri", "", "GCS URI of a statement file (e.g. gs://bucket/file.csv)")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log := logger.New()
		log.Fatal().Err(err).Msg("Failed to load config")
	}

	log := logger.NewWithLevel(cfg.LogLevel)

	if *filePath == "" && *dirPath == "" && *gcsURI == "" {
		log.Fatal().Msg("Error: one of --file, --dir or --gcs-uri is required")
	}

	// One-shot ingestion should not hang on a stuck upstream.
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
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

	switch {
	case *gcsURI != "":
		ingestOne(ctx, ingestor, *gcsURI, true)
	case *filePath != "":
		ingestOne(ctx, ingestor, *filePath, false)
	case *dirPath != "":
		ingestDir(ctx, ingestor, *dirPath)
	}
}

func ingestOne(ctx context.Context, ingestor *pipeline.Ingestor, path string, fromGCS bool) {
	log := logger.FromContext(ctx)
	log.Info().Str("path", path).Msg("Starting ingestion")

	var result *pipeline.Result
	var err error
	if fromGCS {
		result, err = ingestor.IngestGCS(ctx, path)
	} else {
		result, err = ingestor.IngestFile(ctx, path)
	}
	if err != nil {
		log.Fatal().Err(err).Str("path", path).Msg("Ingestion failed")
	}

	printResult(path, result)
}

func ingestDir(ctx context.Context, ingestor *pipeline.Ingestor, dir string) {
	log := logger.FromContext(ctx)

	entries, err := os.ReadDir(dir)
	if err != nil {
		log.Fatal().Err(err).Str("dir", dir).Msg("Failed to read directory")
	}

	var failed int
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		switch filepath.Ext(entry.Name()) {
		case ".csv", ".xlsx":
		default:
			continue
		}

		path := filepath.Join(dir, entry.Name())
		result, err := ingestor.IngestFile(ctx, path)
		if err != nil {
			log.Error().Err(err).Str("path", path).Msg("Ingestion failed")
			failed++
			continue
		}
		printResult(path, result)
	}

	if failed > 0 {
		log.Fatal().Int("failed", failed).Msg("Some files failed to ingest")
	}
}

func printResult(path string, result *pipeline.Result) {
	fmt.Printf("%s: source=%s inserted=%d skipped=%d failed=%d\n",
		path, result.Source, result.Counts.Inserted, result.Counts.Skipped, result.Counts.Failed)
}
