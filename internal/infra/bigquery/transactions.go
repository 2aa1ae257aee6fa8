package bigquery

import (
	"encoding/json"
	"fmt"
	"math/big"
	"time"

	"cloud.google.com/go/bigquery"
	"cloud.google.com/go/civil"

	"github.com/dvloznov/financial-analyzer/internal/domain"
)

type TransactionRow struct {
	TransactionID string `bigquery:"transaction_id"` // REQUIRED, deterministic

	DocumentID     bigquery.NullString `bigquery:"document_id"`      // NULLABLE
	IngestionRunID bigquery.NullString `bigquery:"ingestion_run_id"` // NULLABLE

	TransactionDate civil.Date `bigquery:"transaction_date"` // REQUIRED

	Description string `bigquery:"description"` // REQUIRED

	Amount         *big.Rat `bigquery:"amount"`          // REQUIRED NUMERIC, signed
	AmountOriginal *big.Rat `bigquery:"amount_original"` // REQUIRED NUMERIC, pre-normalization magnitude
	Currency       string   `bigquery:"currency"`        // REQUIRED

	Category bigquery.NullString `bigquery:"category"` // NULLABLE
	TxType   string              `bigquery:"tx_type"`  // REQUIRED, income|expense|transfer
	Source   string              `bigquery:"source"`   // REQUIRED, schema identifier

	SourceFile string             `bigquery:"source_file"` // REQUIRED
	RowNumber  bigquery.NullInt64 `bigquery:"row_number"`  // NULLABLE

	RawFields bigquery.NullJSON `bigquery:"raw_fields"` // NULLABLE JSON

	Embedding []float64 `bigquery:"embedding"` // REPEATED FLOAT64, empty when embedding disabled

	CreatedTS time.Time `bigquery:"created_ts"` // REQUIRED
}

// RowFromTransaction converts a canonical transaction to its stored shape.
// documentID and runID tie the record back to the audit tables and may be
// empty for direct ingestion paths.
func RowFromTransaction(tx *domain.Transaction, documentID, runID string, embedding []float64) *TransactionRow {
	row := &TransactionRow{
		TransactionID:   tx.ID(),
		TransactionDate: civil.DateOf(tx.Date),
		Description:     tx.Description,
		Amount:          new(big.Rat).SetFloat64(tx.Amount),
		AmountOriginal:  new(big.Rat).SetFloat64(tx.AmountOriginal),
		Currency:        tx.Currency,
		TxType:          string(tx.Type),
		Source:          string(tx.Source),
		SourceFile:      tx.SourceFile,
		Embedding:       embedding,
		CreatedTS:       time.Now().UTC(),
	}
	if tx.Category != "" {
		row.Category = bigquery.NullString{StringVal: tx.Category, Valid: true}
	}
	if tx.RowNumber > 0 {
		row.RowNumber = bigquery.NullInt64{Int64: int64(tx.RowNumber), Valid: true}
	}
	if documentID != "" {
		row.DocumentID = bigquery.NullString{StringVal: documentID, Valid: true}
	}
	if runID != "" {
		row.IngestionRunID = bigquery.NullString{StringVal: runID, Valid: true}
	}
	if len(tx.RawFields) > 0 {
		if b, err := json.Marshal(tx.RawFields); err == nil {
			row.RawFields = bigquery.NullJSON{JSONVal: string(b), Valid: true}
		}
	}
	return row
}

// ToTransaction converts a stored row back to the canonical domain shape.
func (r *TransactionRow) ToTransaction() *domain.Transaction {
	tx := &domain.Transaction{
		Date:        r.TransactionDate.In(time.UTC),
		Description: r.Description,
		Currency:    r.Currency,
		Type:        domain.TxType(r.TxType),
		Source:      domain.Source(r.Source),
		SourceFile:  r.SourceFile,
	}
	if r.Amount != nil {
		tx.Amount, _ = r.Amount.Float64()
	}
	if r.AmountOriginal != nil {
		tx.AmountOriginal, _ = r.AmountOriginal.Float64()
	}
	if r.Category.Valid {
		tx.Category = r.Category.StringVal
	}
	if r.RowNumber.Valid {
		tx.RowNumber = int(r.RowNumber.Int64)
	}
	if r.RawFields.Valid {
		var m map[string]interface{}
		if err := json.Unmarshal([]byte(r.RawFields.JSONVal), &m); err == nil {
			fields := make(map[string]string, len(m))
			for k, v := range m {
				fields[k] = fmt.Sprint(v)
			}
			tx.RawFields = fields
		}
	}
	return tx
}
