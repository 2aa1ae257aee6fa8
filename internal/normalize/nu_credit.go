package normalize

import (
	"math"
	"strings"

	"github.com/dvloznov/financial-analyzer/internal/domain"
	"github.com/dvloznov/financial-analyzer/internal/parse"
)

// nuCreditNormalizer handles the Nu credit card export:
// Fecha,Categoria,Descripcion,Monto,Tipo
// "cargo" is a charge on the card, "abono" a payment into it.
type nuCreditNormalizer struct{}

func (nuCreditNormalizer) Normalize(row Row) (*domain.Transaction, error) {
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

	var txType domain.TxType
	if kind == "abono" || (kind == "" && amount < 0) {
		// Payment received by the card. Stored non-negative per the sign
		// convention even when the bank encodes payments as negatives.
		txType = domain.TypeIncome
		amount = math.Abs(amount)
	} else {
		txType = domain.TypeExpense
		amount = -math.Abs(amount)
	}

	return &domain.Transaction{
		Date:           date,
		Description:    row.Get("Descripcion"),
		Amount:         amount,
		AmountOriginal: original,
		Currency:       "MXN",
		Category:       row.Get("Categoria"),
		Type:           txType,
		Source:         domain.SourceNuCredit,
	}, nil
}
