// Package pipeline orchestrates statement ingestion: load the file, record
// it in the audit trail, normalize rows into canonical transactions, embed
// them and store the batch idempotently.
package pipeline

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"

	"github.com/dvloznov/financial-analyzer/internal/embedding"
	"github.com/dvloznov/financial-analyzer/internal/gcsuploader"
	infra "github.com/dvloznov/financial-analyzer/internal/infra/bigquery"
	"github.com/dvloznov/financial-analyzer/internal/logger"
	"github.com/dvloznov/financial-analyzer/internal/normalize"
)

// Store is the slice of the storage layer the pipeline needs. Implemented
// by *infra.Client, mocked in tests.
type Store interface {
	InsertDocument(ctx context.Context, row *infra.DocumentRow) error
	FindDocumentByChecksum(ctx context.Context, checksum string) (*infra.DocumentRow, error)
	MarkDocumentProcessed(ctx context.Context, documentID, status, source string) error

	StartIngestionRun(ctx context.Context, documentID string) (string, error)
	MarkIngestionRunSucceeded(ctx context.Context, runID, source string, counts infra.RunCounts) error
	MarkIngestionRunFailed(ctx context.Context, runID string, ingestErr error)

	InsertTransactions(ctx context.Context, rows []*infra.TransactionRow) (int, error)
}

// FetchFunc downloads bytes from a gs:// URI. Split out so tests never
// touch the network.
type FetchFunc func(ctx context.Context, gcsURI string) ([]byte, error)

// Ingestor wires the pipeline's dependencies. A nil Embedder disables
// embedding, rows are then stored without vectors.
type Ingestor struct {
	Store    Store
	Fetch    FetchFunc
	Embedder embedding.Provider
}

// NewIngestor builds an Ingestor with the default GCS fetcher.
func NewIngestor(store Store, embedder embedding.Provider) *Ingestor {
	return &Ingestor{
		Store:    store,
		Fetch:    gcsuploader.FetchStatement,
		Embedder: embedder,
	}
}

// Result summarizes one completed ingestion.
type Result struct {
	DocumentID string
	RunID      string
	Source     string
	Counts     infra.RunCounts
	RowErrors  int
}

// State is the shared state threaded through the pipeline steps.
type State struct {
	// Input: FilePath for local files, GCSURI for cloud objects.
	FilePath string
	GCSURI   string

	Filename string
	Content  []byte
	Checksum string

	DocumentID string
	RunID      string

	Batch      *normalize.Result
	Embeddings [][]float64

	Inserted int
}

// IngestFile runs the full pipeline for a local statement file.
func (ing *Ingestor) IngestFile(ctx context.Context, path string) (*Result, error) {
	return ing.run(ctx, &State{FilePath: path})
}

// IngestGCS runs the full pipeline for a statement stored in GCS.
func (ing *Ingestor) IngestGCS(ctx context.Context, gcsURI string) (*Result, error) {
	return ing.run(ctx, &State{GCSURI: gcsURI})
}

func (ing *Ingestor) run(ctx context.Context, state *State) (*Result, error) {
	log := logger.FromContext(ctx)

	if err := NewIngestionPipeline(ing).Execute(ctx, state); err != nil {
		return nil, err
	}

	result := &Result{
		DocumentID: state.DocumentID,
		RunID:      state.RunID,
		Source:     string(state.Batch.Source),
		Counts: infra.RunCounts{
			Total:    len(state.Batch.Transactions) + len(state.Batch.Errors) + state.Batch.Skipped,
			Inserted: state.Inserted,
			Failed:   len(state.Batch.Errors),
			Skipped:  state.Batch.Skipped,
		},
		RowErrors: len(state.Batch.Errors),
	}

	log.Info().
		Str("document_id", result.DocumentID).
		Str("source", result.Source).
		Int("inserted", result.Counts.Inserted).
		Int("failed", result.Counts.Failed).
		Msg("Ingestion completed")

	return result, nil
}

// loadContent reads the statement bytes from the configured input and
// derives filename and checksum.
func (ing *Ingestor) loadContent(ctx context.Context, state *State) error {
	switch {
	case state.FilePath != "":
		content, err := os.ReadFile(state.FilePath)
		if err != nil {
			return fmt.Errorf("loadContent: reading %q: %w", state.FilePath, err)
		}
		state.Content = content
		state.Filename = filepath.Base(state.FilePath)
	case state.GCSURI != "":
		content, err := ing.Fetch(ctx, state.GCSURI)
		if err != nil {
			return fmt.Errorf("loadContent: fetching %q: %w", state.GCSURI, err)
		}
		state.Content = content
		state.Filename = gcsuploader.FilenameFromGCSURI(state.GCSURI)
	default:
		return fmt.Errorf("loadContent: no input file or GCS URI")
	}

	sum := sha256.Sum256(state.Content)
	state.Checksum = hex.EncodeToString(sum[:])
	return nil
}
