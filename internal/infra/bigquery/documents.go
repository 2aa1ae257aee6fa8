package bigquery

import (
	"time"

	"cloud.google.com/go/bigquery"
)

// Ingestion status values stored on documents.
const (
	StatusPending = "PENDING"
	StatusRunning = "RUNNING"
	StatusSuccess = "SUCCESS"
	StatusFailed  = "FAILED"
)

type DocumentRow struct {
	DocumentID string `bigquery:"document_id"` // REQUIRED

	GCSURI           bigquery.NullString `bigquery:"gcs_uri"`           // NULLABLE, empty for local files
	OriginalFilename string              `bigquery:"original_filename"` // REQUIRED
	FileMimeType     string              `bigquery:"file_mime_type"`    // NULLABLE

	Source bigquery.NullString `bigquery:"source"` // NULLABLE, set once classified

	UploadTS    time.Time              `bigquery:"upload_ts"`    // REQUIRED
	ProcessedTS bigquery.NullTimestamp `bigquery:"processed_ts"` // NULLABLE

	IngestionStatus string `bigquery:"ingestion_status"` // REQUIRED

	ChecksumSHA256 string `bigquery:"checksum_sha256"` // REQUIRED, duplicate-upload detection

	Metadata bigquery.NullJSON `bigquery:"metadata"` // NULLABLE
}
