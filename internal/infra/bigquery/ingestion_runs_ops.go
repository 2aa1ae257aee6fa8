package bigquery

import (
	"context"
	"fmt"
	"time"

	"cloud.google.com/go/bigquery"
	"github.com/google/uuid"

	"github.com/dvloznov/financial-analyzer/internal/logger"
)

// RunCounts summarizes one ingestion run for the audit trail.
type RunCounts struct {
	Total    int
	Inserted int
	Failed   int
	Skipped  int
}

// StartIngestionRun inserts a RUNNING row into ingestion_runs and returns
// the generated run id.
func (c *Client) StartIngestionRun(ctx context.Context, documentID string) (string, error) {
	runID := uuid.NewString()

	q := c.bq.Query(fmt.Sprintf(`
		INSERT %s (
			ingestion_run_id,
			document_id,
			started_ts,
			status
		)
		VALUES (
			@ingestion_run_id,
			@document_id,
			@started_ts,
			@status
		)
	`, c.qualified(ingestionRunsTable)))
	q.Parameters = []bigquery.QueryParameter{
		{Name: "ingestion_run_id", Value: runID},
		{Name: "document_id", Value: documentID},
		{Name: "started_ts", Value: time.Now().UTC()},
		{Name: "status", Value: StatusRunning},
	}

	job, err := q.Run(ctx)
	if err != nil {
		return "", fmt.Errorf("StartIngestionRun: running insert query: %w", err)
	}
	jobStatus, err := job.Wait(ctx)
	if err != nil {
		return "", fmt.Errorf("StartIngestionRun: waiting for job: %w", err)
	}
	if err := jobStatus.Err(); err != nil {
		return "", fmt.Errorf("StartIngestionRun: job error: %w", err)
	}

	return runID, nil
}

// MarkIngestionRunSucceeded closes a run as SUCCESS with its row counts.
func (c *Client) MarkIngestionRunSucceeded(ctx context.Context, runID, source string, counts RunCounts) error {
	q := c.bq.Query(fmt.Sprintf(`
		UPDATE %s
		SET status = @status,
		    finished_ts = @finished_ts,
		    source = @source,
		    error_message = "",
		    rows_total = @rows_total,
		    rows_inserted = @rows_inserted,
		    rows_failed = @rows_failed,
		    rows_skipped = @rows_skipped
		WHERE ingestion_run_id = @ingestion_run_id
	`, c.qualified(ingestionRunsTable)))
	q.Parameters = []bigquery.QueryParameter{
		{Name: "status", Value: StatusSuccess},
		{Name: "finished_ts", Value: time.Now().UTC()},
		{Name: "source", Value: source},
		{Name: "rows_total", Value: int64(counts.Total)},
		{Name: "rows_inserted", Value: int64(counts.Inserted)},
		{Name: "rows_failed", Value: int64(counts.Failed)},
		{Name: "rows_skipped", Value: int64(counts.Skipped)},
		{Name: "ingestion_run_id", Value: runID},
	}

	job, err := q.Run(ctx)
	if err != nil {
		return fmt.Errorf("MarkIngestionRunSucceeded: running update query: %w", err)
	}
	jobStatus, err := job.Wait(ctx)
	if err != nil {
		return fmt.Errorf("MarkIngestionRunSucceeded: waiting for job: %w", err)
	}
	if err := jobStatus.Err(); err != nil {
		return fmt.Errorf("MarkIngestionRunSucceeded: job error: %w", err)
	}
	return nil
}

// MarkIngestionRunFailed closes a run as FAILED. It only logs on storage
// errors, the caller is already propagating the original failure.
func (c *Client) MarkIngestionRunFailed(ctx context.Context, runID string, ingestErr error) {
	log := logger.FromContext(ctx)

	errMsg := ""
	if ingestErr != nil {
		errMsg = ingestErr.Error()
		const maxLen = 2000
		if len(errMsg) > maxLen {
			errMsg = errMsg[:maxLen]
		}
	}

	q := c.bq.Query(fmt.Sprintf(`
		UPDATE %s
		SET status = @status,
		    finished_ts = @finished_ts,
		    error_message = @error_message
		WHERE ingestion_run_id = @ingestion_run_id
	`, c.qualified(ingestionRunsTable)))
	q.Parameters = []bigquery.QueryParameter{
		{Name: "status", Value: StatusFailed},
		{Name: "finished_ts", Value: time.Now().UTC()},
		{Name: "error_message", Value: errMsg},
		{Name: "ingestion_run_id", Value: runID},
	}

	job, err := q.Run(ctx)
	if err != nil {
		log.Error().
			Err(err).
			Str("ingestion_run_id", runID).
			Msg("MarkIngestionRunFailed: running update query")
		return
	}
	jobStatus, err := job.Wait(ctx)
	if err != nil {
		log.Error().
			Err(err).
			Str("ingestion_run_id", runID).
			Msg("MarkIngestionRunFailed: waiting for job")
		return
	}
	if err := jobStatus.Err(); err != nil {
		log.Error().
			Err(err).
			Str("ingestion_run_id", runID).
			Msg("MarkIngestionRunFailed: job completed with error")
	}
}
