package domain

import (
	"crypto/sha256"
	"fmt"
	"time"
)

// TxType classifies a canonical transaction.
type TxType string

const (
	TypeIncome   TxType = "income"
	TypeExpense  TxType = "expense"
	TypeTransfer TxType = "transfer"
)

// Source identifies one of the supported export schemas.
type Source string

const (
	SourceUpwork     Source = "upwork"
	SourceNuCredit   Source = "nu_credit"
	SourceNuDebit    Source = "nu_debit"
	SourceBBVACredit Source = "bbva_credit"
	SourceBBVADebit  Source = "bbva_debit"
	SourceUnknown    Source = "unknown"
)

// Sources lists every supported schema.
var Sources = []Source{
	SourceUpwork,
	SourceNuCredit,
	SourceNuDebit,
	SourceBBVACredit,
	SourceBBVADebit,
}

// ParseSource returns the Source matching s, or SourceUnknown.
func ParseSource(s string) Source {
	for _, src := range Sources {
		if string(src) == s {
			return src
		}
	}
	return SourceUnknown
}

// Transaction is the canonical representation every export schema normalizes
// into. It is a domain struct, not a BigQuery row; the infra layer maps it
// into the warehouse schema.
//
// Sign convention: expenses are stored <= 0, income >= 0, transfers keep the
// sign of the raw movement. Amount and Type are always consistent.
type Transaction struct {
	Date           time.Time // calendar date, UTC midnight
	Description    string
	Amount         float64 // signed, per the convention above
	AmountOriginal float64 // magnitude as it appeared in the export
	Currency       string  // ISO 4217, fixed per source schema
	Category       string  // optional, empty when the export had none
	Type           TxType
	Source         Source
	SourceFile     string
	RawFields      map[string]string // every original column, verbatim

	// RowNumber is the 1-based data row this transaction came from
	// (header excluded). Kept for the audit trail and for deterministic IDs.
	RowNumber int
}

// ID returns the deterministic identifier used for idempotent storage
// inserts: re-ingesting the same file yields the same IDs, so duplicates
// are skipped rather than appended.
func (t *Transaction) ID() string {
	h := sha256.Sum256(fmt.Appendf(nil, "%s|%d|%s|%.2f|%s",
		t.SourceFile, t.RowNumber, t.Date.Format("2006-01-02"), t.Amount, t.Description))
	return fmt.Sprintf("%x", h[:16])
}

// EmbeddingText is the text embedded for semantic search over transactions.
func (t *Transaction) EmbeddingText() string {
	return fmt.Sprintf("%s %s %.2f %s", t.Date.Format("2006-01-02"), t.Description, t.Amount, t.Currency)
}
