package bigquery

import (
	"time"

	"cloud.google.com/go/bigquery"
)

type IngestionRunRow struct {
	IngestionRunID string `bigquery:"ingestion_run_id"` // REQUIRED
	DocumentID     string `bigquery:"document_id"`      // REQUIRED

	StartedTS  time.Time              `bigquery:"started_ts"`  // REQUIRED
	FinishedTS bigquery.NullTimestamp `bigquery:"finished_ts"` // NULLABLE

	Source bigquery.NullString `bigquery:"source"` // NULLABLE, classified schema

	Status       string `bigquery:"status"`        // RUNNING, SUCCESS or FAILED
	ErrorMessage string `bigquery:"error_message"` // NULLABLE

	RowsTotal    bigquery.NullInt64 `bigquery:"rows_total"`    // NULLABLE
	RowsInserted bigquery.NullInt64 `bigquery:"rows_inserted"` // NULLABLE
	RowsFailed   bigquery.NullInt64 `bigquery:"rows_failed"`   // NULLABLE
	RowsSkipped  bigquery.NullInt64 `bigquery:"rows_skipped"`  // NULLABLE
}
