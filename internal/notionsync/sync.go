// Package notionsync mirrors stored transactions into a Notion database.
// The deterministic transaction ID keys the sync, so repeated runs are
// idempotent: existing pages are skipped, stale pages are archived.
package notionsync

import (
	"context"
	"fmt"
	"time"

	"github.com/jomei/notionapi"

	infra "github.com/dvloznov/financial-analyzer/internal/infra/bigquery"
	"github.com/dvloznov/financial-analyzer/internal/logger"
)

// SyncTransactions syncs stored transactions in the date range to Notion.
// It deletes Notion pages whose transaction no longer exists in storage,
// then creates pages for transactions not yet in Notion. With dryRun the
// plan is logged but nothing is written.
func SyncTransactions(ctx context.Context, repo TransactionRepository, notionClient NotionService, notionDBID string, from, to time.Time, dryRun bool) error {
	log := logger.FromContext(ctx)

	log.Info().
		Time("from", from).
		Time("to", to).
		Bool("dry_run", dryRun).
		Msg("Starting transaction sync to Notion")

	transactions, err := repo.QueryTransactions(ctx, infra.TransactionFilter{From: from, To: to})
	if err != nil {
		return fmt.Errorf("SyncTransactions: query transactions: %w", err)
	}
	log.Info().Int("transaction_count", len(transactions)).Msg("Retrieved transactions from storage")

	validIDs := make(map[string]bool)
	for _, tx := range transactions {
		validIDs[tx.TransactionID] = true
	}

	notionPages, err := queryAllNotionPages(ctx, notionClient, notionDBID)
	if err != nil {
		return fmt.Errorf("SyncTransactions: query Notion pages: %w", err)
	}
	log.Info().Int("notion_page_count", len(notionPages)).Msg("Retrieved existing Notion pages")

	existingIDs := make(map[string]bool)
	for _, page := range notionPages {
		if txID := extractTransactionID(page); txID != "" {
			existingIDs[txID] = true
		}
	}

	// Archive pages whose transaction is gone, and pages with no
	// Transaction ID left over from older syncs.
	var deleted int
	for _, page := range notionPages {
		txID := extractTransactionID(page)
		if txID != "" && validIDs[txID] {
			continue
		}
		if dryRun {
			log.Info().
				Str("transaction_id", txID).
				Str("page_id", string(page.ID)).
				Msg("[DRY RUN] Would delete stale Notion page")
			deleted++
			continue
		}
		if err := notionClient.DeletePage(ctx, string(page.ID)); err != nil {
			log.Warn().
				Err(err).
				Str("page_id", string(page.ID)).
				Msg("Failed to delete stale Notion page")
			continue
		}
		deleted++
	}

	var created, skipped int
	for _, tx := range transactions {
		if existingIDs[tx.TransactionID] {
			skipped++
			continue
		}
		if dryRun {
			log.Info().
				Str("transaction_id", tx.TransactionID).
				Msg("[DRY RUN] Would create Notion page")
			created++
			continue
		}

		props := TransactionToNotionProperties(tx)
		page, err := notionClient.CreatePage(ctx, notionDBID, props)
		if err != nil {
			log.Warn().
				Err(err).
				Str("transaction_id", tx.TransactionID).
				Msg("Failed to create Notion page")
			continue
		}
		log.Debug().
			Str("transaction_id", tx.TransactionID).
			Str("page_id", string(page.ID)).
			Msg("Created Notion page")
		created++
	}

	log.Info().
		Int("created", created).
		Int("deleted", deleted).
		Int("skipped", skipped).
		Int("total", len(transactions)).
		Msg("Transaction sync completed")

	return nil
}

// queryAllNotionPages queries all pages from a Notion database, handling
// pagination automatically.
func queryAllNotionPages(ctx context.Context, notionClient NotionService, databaseID string) ([]notionapi.Page, error) {
	var allPages []notionapi.Page
	var cursor notionapi.Cursor

	for {
		req := &notionapi.DatabaseQueryRequest{
			PageSize: 100,
		}
		if cursor != "" {
			req.StartCursor = cursor
		}

		resp, err := notionClient.QueryDatabase(ctx, databaseID, req)
		if err != nil {
			return nil, fmt.Errorf("queryAllNotionPages: %w", err)
		}

		allPages = append(allPages, resp.Results...)

		if !resp.HasMore {
			break
		}
		cursor = resp.NextCursor
	}

	return allPages, nil
}
