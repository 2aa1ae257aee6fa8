// Package bigquery is the storage layer. It owns the transactions table and
// the two audit tables (documents, ingestion_runs), and implements the
// idempotent-insert and query operations the pipeline and CLI depend on.
package bigquery

import (
	"context"
	"fmt"

	"cloud.google.com/go/bigquery"
)

const (
	transactionsTable  = "transactions"
	documentsTable     = "documents"
	ingestionRunsTable = "ingestion_runs"

	dateFormat = "2006-01-02"
)

// Client wraps a BigQuery client bound to one project and dataset. All
// table operations are methods on it so binaries share a single connection.
type Client struct {
	bq        *bigquery.Client
	projectID string
	dataset   string
}

// NewClient connects to BigQuery for the given project and dataset.
func NewClient(ctx context.Context, projectID, dataset string) (*Client, error) {
	bq, err := bigquery.NewClient(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("NewClient: bigquery client: %w", err)
	}
	return &Client{bq: bq, projectID: projectID, dataset: dataset}, nil
}

// Close releases the underlying connection.
func (c *Client) Close() error {
	if c.bq != nil {
		return c.bq.Close()
	}
	return nil
}

func (c *Client) table(name string) *bigquery.Table {
	// Fully qualified to avoid default-project surprises.
	return c.bq.DatasetInProject(c.projectID, c.dataset).Table(name)
}

// qualified renders "dataset.table" for use inside query text.
func (c *Client) qualified(name string) string {
	return fmt.Sprintf("%s.%s", c.dataset, name)
}
