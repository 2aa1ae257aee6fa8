package bigquery

import (
	"context"
	"fmt"
	"time"

	"cloud.google.com/go/bigquery"
	"google.golang.org/api/iterator"
)

// InsertDocument records an uploaded statement file in the audit trail.
func (c *Client) InsertDocument(ctx context.Context, row *DocumentRow) error {
	if err := c.table(documentsTable).Inserter().Put(ctx, row); err != nil {
		return fmt.Errorf("InsertDocument: inserting row: %w", err)
	}
	return nil
}

// FindDocumentByChecksum returns the document with the given content hash,
// or nil when the file has never been seen.
func (c *Client) FindDocumentByChecksum(ctx context.Context, checksum string) (*DocumentRow, error) {
	q := c.bq.Query(fmt.Sprintf(`
		SELECT *
		FROM %s
		WHERE checksum_sha256 = @checksum
		ORDER BY upload_ts DESC
		LIMIT 1
	`, c.qualified(documentsTable)))
	q.Parameters = []bigquery.QueryParameter{
		{Name: "checksum", Value: checksum},
	}

	it, err := q.Read(ctx)
	if err != nil {
		return nil, fmt.Errorf("FindDocumentByChecksum: query read: %w", err)
	}

	var row DocumentRow
	err = it.Next(&row)
	if err == iterator.Done {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("FindDocumentByChecksum: iter next: %w", err)
	}
	return &row, nil
}

// ListDocuments returns the audit trail, most recent upload first.
func (c *Client) ListDocuments(ctx context.Context) ([]*DocumentRow, error) {
	q := c.bq.Query(fmt.Sprintf(`
		SELECT *
		FROM %s
		ORDER BY upload_ts DESC
	`, c.qualified(documentsTable)))

	it, err := q.Read(ctx)
	if err != nil {
		return nil, fmt.Errorf("ListDocuments: query read: %w", err)
	}

	var rows []*DocumentRow
	for {
		var r DocumentRow
		err := it.Next(&r)
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("ListDocuments: iter next: %w", err)
		}
		rows = append(rows, &r)
	}
	return rows, nil
}

// MarkDocumentProcessed sets the final ingestion status, the processed
// timestamp and the classified source.
func (c *Client) MarkDocumentProcessed(ctx context.Context, documentID, status, source string) error {
	q := c.bq.Query(fmt.Sprintf(`
		UPDATE %s
		SET ingestion_status = @status,
		    processed_ts = @processed_ts,
		    source = @source
		WHERE document_id = @document_id
	`, c.qualified(documentsTable)))
	q.Parameters = []bigquery.QueryParameter{
		{Name: "status", Value: status},
		{Name: "processed_ts", Value: time.Now().UTC()},
		{Name: "source", Value: source},
		{Name: "document_id", Value: documentID},
	}

	job, err := q.Run(ctx)
	if err != nil {
		return fmt.Errorf("MarkDocumentProcessed: running update query: %w", err)
	}
	jobStatus, err := job.Wait(ctx)
	if err != nil {
		return fmt.Errorf("MarkDocumentProcessed: waiting for job: %w", err)
	}
	if err := jobStatus.Err(); err != nil {
		return fmt.Errorf("MarkDocumentProcessed: job error: %w", err)
	}
	return nil
}
