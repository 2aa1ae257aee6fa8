package normalize

import (
	"fmt"
	"math"
	"strings"

	"github.com/dvloznov/financial-analyzer/internal/domain"
	"github.com/dvloznov/financial-analyzer/internal/parse"
)

// upworkNormalizer handles the freelance ledger export:
// Date,Type,Contract_Details,Client,Client_Initials,Amount_USD,Status
type upworkNormalizer struct{}

func (upworkNormalizer) Normalize(row Row) (*domain.Transaction, error) {
	date, err := parse.Date(row.Get("Date"))
	if err != nil {
		return nil, err
	}

	amount, err := parse.Amount(row.Get("Amount_USD"))
	if err != nil {
		return nil, err
	}
	original := math.Abs(amount)

	kind := strings.ToLower(row.Get("Type"))

	// An explicit withdrawal is always an expense, whatever the raw sign.
	// Otherwise the sign of the raw amount decides.
	var txType domain.TxType
	switch {
	case kind == "withdrawal":
		txType = domain.TypeExpense
		amount = -math.Abs(amount)
	case amount < 0:
		txType = domain.TypeExpense
	default:
		txType = domain.TypeIncome
	}

	description := row.Get("Contract_Details")
	if client := row.Get("Client"); client != "" {
		description = fmt.Sprintf("%s (%s)", description, client)
	}

	return &domain.Transaction{
		Date:           date,
		Description:    description,
		Amount:         amount,
		AmountOriginal: original,
		Currency:       "USD",
		Category:       titleCase(kind),
		Type:           txType,
		Source:         domain.SourceUpwork,
	}, nil
}
