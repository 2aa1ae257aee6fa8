package main

import (
	"context"
	"flag"
	"fmt"
	"time"

	"github.com/dvloznov/financial-analyzer/internal/config"
	infra "github.com/dvloznov/financial-analyzer/internal/infra/bigquery"
	"github.com/dvloznov/financial-analyzer/internal/logger"
	"github.com/dvloznov/financial-analyzer/internal/notionsync"
)

func main() {
	configPath := flag.String("config", "", "Path to the YAML config file (defaults and env vars apply when omitted)")
	startDateStr := flag.String("start-date", "", "Start date in YYYY-MM-DD format (required)")
	endDateStr := flag.String("end-date", "", "End date in YYYY-MM-DD format (required)")
	dryRun := flag.Bool("dry-run", false, "Preview changes without writing to Notion")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log := logger.New()
		log.Fatal().Err(err).Msg("Failed to load config")
	}

	log := logger.NewWithLevel(cfg.LogLevel)

	if *startDateStr == "" {
		log.Fatal().Msg("Error: --start-date is required")
	}
	if *endDateStr == "" {
		log.Fatal().Msg("Error: --end-date is required")
	}
	if cfg.Notion.Token == "" {
		log.Fatal().Msg("Error: Notion token is not configured, set notion.token or NOTION_TOKEN")
	}
	if cfg.Notion.DatabaseID == "" {
		log.Fatal().Msg("Error: Notion database ID is not configured, set notion.database_id or NOTION_DATABASE_ID")
	}

	startDate, err := time.Parse("2006-01-02", *startDateStr)
	if err != nil {
		log.Fatal().Err(err).Str("start_date", *startDateStr).Msg("Error: invalid start-date format, expected YYYY-MM-DD")
	}

	endDate, err := time.Parse("2006-01-02", *endDateStr)
	if err != nil {
		log.Fatal().Err(err).Str("end_date", *endDateStr).Msg("Error: invalid end-date format, expected YYYY-MM-DD")
	}

	if endDate.Before(startDate) {
		log.Fatal().
			Time("start_date", startDate).
			Time("end_date", endDate).
			Msg("Error: end-date must be after start-date")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()
	ctx = logger.WithContext(ctx, log)

	store, err := infra.NewClient(ctx, cfg.BigQuery.ProjectID, cfg.BigQuery.Dataset)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create BigQuery client")
	}
	defer store.Close()

	notionClient := notionsync.NewClient(cfg.Notion.Token)

	if err := notionsync.SyncTransactions(ctx, store, notionClient, cfg.Notion.DatabaseID, startDate, endDate, *dryRun); err != nil {
		log.Fatal().Err(err).Msg("Sync failed")
	}

	fmt.Println("Sync completed successfully.")
}
