package normalize

import (
	"github.com/dvloznov/financial-analyzer/internal/domain"
)

// Result is the ordered outcome of normalizing one file. Transactions and
// Errors are both sorted by ascending original row number.
type Result struct {
	Source       domain.Source
	Filename     string
	Transactions []*domain.Transaction
	Errors       []*domain.RowError

	// Skipped counts blank and footer rows, which are neither transactions
	// nor errors.
	Skipped int
}

// Normalize turns raw file bytes into canonical transactions. The schema is
// detected once from headers and filename; an unrecognized schema rejects
// the whole file with a FormatError before any row is parsed. Row failures
// are collected as RowErrors and the batch continues; a file that ends with
// zero valid transactions is an EmptyResultError citing the first row
// failure as primary cause.
//
// The returned batch is all-or-nothing per file: a non-nil Result always
// reflects every processable row, never a partially-walked file.
func Normalize(content []byte, filename string) (*Result, error) {
	t, err := readTable(content, filename)
	if err != nil {
		return nil, err
	}

	source := DetectSource(t.headers, filename)
	if source == domain.SourceUnknown {
		return nil, &domain.FormatError{Filename: filename, Headers: t.headers}
	}

	normalizer, err := ForSource(source)
	if err != nil {
		return nil, err
	}

	result := &Result{Source: source, Filename: filename}
	for i, row := range t.rows {
		rowNum := t.numbered[i]

		if row.IsBlank() || row.IsFooter() {
			result.Skipped++
			continue
		}

		tx, err := normalizer.Normalize(row)
		if err != nil {
			result.Errors = append(result.Errors, &domain.RowError{Row: rowNum, Err: err})
			continue
		}

		tx.SourceFile = filename
		tx.RowNumber = rowNum
		tx.RawFields = row.Fields()
		result.Transactions = append(result.Transactions, tx)
	}

	if len(result.Transactions) == 0 {
		empty := &domain.EmptyResultError{Filename: filename, Errors: result.Errors}
		if len(result.Errors) > 0 {
			empty.First = result.Errors[0]
		}
		return nil, empty
	}

	return result, nil
}
