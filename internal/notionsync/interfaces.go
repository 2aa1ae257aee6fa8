package notionsync

import (
	"context"

	"github.com/jomei/notionapi"

	infra "github.com/dvloznov/financial-analyzer/internal/infra/bigquery"
)

// NotionService defines the interface for interacting with the Notion API.
// This interface enables mocking and testing of Notion operations.
type NotionService interface {
	// CreatePage creates a new page in a Notion database with the given properties.
	CreatePage(ctx context.Context, databaseID string, properties notionapi.Properties) (*notionapi.Page, error)

	// UpdatePage updates an existing Notion page with the given properties.
	UpdatePage(ctx context.Context, pageID string, properties notionapi.Properties) (*notionapi.Page, error)

	// QueryDatabase queries a Notion database with the given filter.
	QueryDatabase(ctx context.Context, databaseID string, filter *notionapi.DatabaseQueryRequest) (*notionapi.DatabaseQueryResponse, error)

	// DeletePage archives a Notion page.
	DeletePage(ctx context.Context, pageID string) error
}

// TransactionRepository is the slice of the storage layer the sync needs.
// Implemented by *infra.Client, mocked in tests.
type TransactionRepository interface {
	QueryTransactions(ctx context.Context, filter infra.TransactionFilter) ([]*infra.TransactionRow, error)
}
