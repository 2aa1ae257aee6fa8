package pipeline

import (
	"context"
	"fmt"
	"mime"
	"path/filepath"
	"time"

	bq "cloud.google.com/go/bigquery"
	"github.com/google/uuid"

	infra "github.com/dvloznov/financial-analyzer/internal/infra/bigquery"
	"github.com/dvloznov/financial-analyzer/internal/logger"
	"github.com/dvloznov/financial-analyzer/internal/normalize"
)

// Step is a single stage of the ingestion pipeline.
type Step interface {
	Execute(ctx context.Context, state *State) error
}

// Pipeline executes a sequence of steps in order.
type Pipeline struct {
	steps []Step
}

// NewPipeline creates a pipeline with the given steps.
func NewPipeline(steps ...Step) *Pipeline {
	return &Pipeline{steps: steps}
}

// Execute runs all steps sequentially, stopping at the first failure.
func (p *Pipeline) Execute(ctx context.Context, state *State) error {
	for i, step := range p.steps {
		if err := step.Execute(ctx, state); err != nil {
			return fmt.Errorf("pipeline step %d failed: %w", i+1, err)
		}
	}
	return nil
}

// NewIngestionPipeline creates the standard 7-step statement pipeline.
func NewIngestionPipeline(ing *Ingestor) *Pipeline {
	return NewPipeline(
		&LoadContentStep{ing: ing},
		&CreateDocumentStep{ing: ing},
		&StartRunStep{ing: ing},
		&NormalizeStep{ing: ing},
		&EmbedStep{ing: ing},
		&InsertTransactionsStep{ing: ing},
		&MarkSuccessStep{ing: ing},
	)
}

// Step 1: LoadContentStep reads the statement bytes from disk or GCS.
type LoadContentStep struct{ ing *Ingestor }

func (s *LoadContentStep) Execute(ctx context.Context, state *State) error {
	return s.ing.loadContent(ctx, state)
}

// Step 2: CreateDocumentStep records the file in the documents audit table.
// A file already ingested with the same checksum is logged but still
// processed, the transaction insert dedupes by deterministic ID.
type CreateDocumentStep struct{ ing *Ingestor }

func (s *CreateDocumentStep) Execute(ctx context.Context, state *State) error {
	log := logger.FromContext(ctx)

	existing, err := s.ing.Store.FindDocumentByChecksum(ctx, state.Checksum)
	if err != nil {
		return err
	}
	if existing != nil {
		log.Warn().
			Str("document_id", existing.DocumentID).
			Str("filename", state.Filename).
			Msg("File with identical content already ingested, duplicates will be skipped")
	}

	row := &infra.DocumentRow{
		DocumentID:       uuid.NewString(),
		OriginalFilename: state.Filename,
		FileMimeType:     mime.TypeByExtension(filepath.Ext(state.Filename)),
		UploadTS:         time.Now().UTC(),
		IngestionStatus:  infra.StatusPending,
		ChecksumSHA256:   state.Checksum,
	}
	if state.GCSURI != "" {
		row.GCSURI = bq.NullString{StringVal: state.GCSURI, Valid: true}
	}
	if err := s.ing.Store.InsertDocument(ctx, row); err != nil {
		return err
	}
	state.DocumentID = row.DocumentID
	return nil
}

// Step 3: StartRunStep opens an ingestion run (status=RUNNING).
type StartRunStep struct{ ing *Ingestor }

func (s *StartRunStep) Execute(ctx context.Context, state *State) error {
	runID, err := s.ing.Store.StartIngestionRun(ctx, state.DocumentID)
	if err != nil {
		return err
	}
	state.RunID = runID
	return nil
}

// Step 4: NormalizeStep classifies the file and normalizes its rows.
// Row-level failures are collected and logged, only whole-file failures
// abort the run.
type NormalizeStep struct{ ing *Ingestor }

func (s *NormalizeStep) Execute(ctx context.Context, state *State) error {
	log := logger.FromContext(ctx)

	batch, err := normalize.Normalize(state.Content, state.Filename)
	if err != nil {
		s.ing.fail(ctx, state, err)
		return err
	}
	for _, rowErr := range batch.Errors {
		log.Warn().
			Int("row", rowErr.Row).
			Str("filename", state.Filename).
			Err(rowErr.Err).
			Msg("Row failed normalization")
	}
	state.Batch = batch
	return nil
}

// Step 5: EmbedStep generates one embedding per transaction. Skipped when
// no embedder is configured. A provider failure degrades to nil vectors
// rather than failing the batch, the rows stay searchable by filter.
type EmbedStep struct{ ing *Ingestor }

func (s *EmbedStep) Execute(ctx context.Context, state *State) error {
	if s.ing.Embedder == nil || len(state.Batch.Transactions) == 0 {
		return nil
	}

	texts := make([]string, len(state.Batch.Transactions))
	for i, tx := range state.Batch.Transactions {
		texts[i] = tx.EmbeddingText()
	}
	vectors, err := s.ing.Embedder.EmbedBatch(ctx, texts)
	if err != nil {
		log := logger.FromContext(ctx)
		log.Warn().
			Err(err).
			Str("filename", state.Filename).
			Msg("Embedding failed, storing transactions without vectors")
		return nil
	}
	state.Embeddings = vectors
	return nil
}

// Step 6: InsertTransactionsStep stores the batch. Duplicate IDs are
// skipped by storage, Inserted reflects net new rows only.
type InsertTransactionsStep struct{ ing *Ingestor }

func (s *InsertTransactionsStep) Execute(ctx context.Context, state *State) error {
	rows := make([]*infra.TransactionRow, len(state.Batch.Transactions))
	for i, tx := range state.Batch.Transactions {
		var vector []float64
		if i < len(state.Embeddings) {
			vector = state.Embeddings[i]
		}
		rows[i] = infra.RowFromTransaction(tx, state.DocumentID, state.RunID, vector)
	}

	inserted, err := s.ing.Store.InsertTransactions(ctx, rows)
	if err != nil {
		s.ing.fail(ctx, state, err)
		return err
	}
	state.Inserted = inserted
	return nil
}

// Step 7: MarkSuccessStep closes the run and the document as SUCCESS.
type MarkSuccessStep struct{ ing *Ingestor }

func (s *MarkSuccessStep) Execute(ctx context.Context, state *State) error {
	source := string(state.Batch.Source)
	counts := infra.RunCounts{
		Total:    len(state.Batch.Transactions) + len(state.Batch.Errors) + state.Batch.Skipped,
		Inserted: state.Inserted,
		Failed:   len(state.Batch.Errors),
		Skipped:  state.Batch.Skipped,
	}
	if err := s.ing.Store.MarkIngestionRunSucceeded(ctx, state.RunID, source, counts); err != nil {
		return err
	}
	return s.ing.Store.MarkDocumentProcessed(ctx, state.DocumentID, infra.StatusSuccess, source)
}

// fail records a failed run and document. Best effort, the original error
// is what propagates to the caller.
func (ing *Ingestor) fail(ctx context.Context, state *State, err error) {
	log := logger.FromContext(ctx)

	if state.RunID != "" {
		ing.Store.MarkIngestionRunFailed(ctx, state.RunID, err)
	}
	if state.DocumentID != "" {
		source := ""
		if state.Batch != nil {
			source = string(state.Batch.Source)
		}
		if markErr := ing.Store.MarkDocumentProcessed(ctx, state.DocumentID, infra.StatusFailed, source); markErr != nil {
			log.Error().Err(markErr).Str("document_id", state.DocumentID).Msg("Failed to mark document as failed")
		}
	}
}
