package normalize

import (
	"math"
	"strings"

	"github.com/dvloznov/financial-analyzer/internal/domain"
	"github.com/dvloznov/financial-analyzer/internal/parse"
)

// nuDebitNormalizer handles the Nu debit account export:
// Fecha,Tipo,Descripcion,Monto,Cajita,Categoria
type nuDebitNormalizer struct{}

func (nuDebitNormalizer) Normalize(row Row) (*domain.Transaction, error) {
	date, err := parse.Date(row.Get("Fecha"))
	if err != nil {
		return nil, err
	}

	amount, err := parse.Amount(row.Get("Monto"))
	if err != nil {
		return nil, err
	}
	original := math.Abs(amount)

	kind := strings.ToLower(row.Get("Tipo"))

	// An outgoing "transferencia" is a transfer, signed by direction.
	// Everything else classifies purely by amount sign.
	var txType domain.TxType
	switch {
	case strings.Contains(kind, "transferencia") && amount < 0:
		txType = domain.TypeTransfer
	case amount < 0:
		txType = domain.TypeExpense
	default:
		txType = domain.TypeIncome
	}

	return &domain.Transaction{
		Date:           date,
		Description:    row.Get("Descripcion"),
		Amount:         amount,
		AmountOriginal: original,
		Currency:       "MXN",
		Category:       row.Get("Categoria"),
		Type:           txType,
		Source:         domain.SourceNuDebit,
	}, nil
}
