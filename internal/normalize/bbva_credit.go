package normalize

import (
	"math"
	"strings"

	"github.com/dvloznov/financial-analyzer/internal/domain"
	"github.com/dvloznov/financial-analyzer/internal/parse"
)

// bbvaCreditNormalizer handles the BBVA credit card export:
// Fecha_Operacion,Fecha_Cargo,Descripcion,Monto,Tipo,Categoria
// The operation date is preferred over the settlement date when both exist.
type bbvaCreditNormalizer struct{}

func (bbvaCreditNormalizer) Normalize(row Row) (*domain.Transaction, error) {
	date, err := parse.Date(row.Get("Fecha_Operacion", "Fecha_Cargo", "Fecha"))
	if err != nil {
		return nil, err
	}

	amount, err := parse.Amount(row.Get("Monto"))
	if err != nil {
		return nil, err
	}
	original := math.Abs(amount)

	kind := strings.ToLower(row.Get("Tipo", "Tipo_Transaccion"))

	// Credit card charges are expenses. A "cargo" marker or a positive raw
	// amount both mean a charge; only explicit credits count as income.
	var txType domain.TxType
	if kind == "cargo" || amount > 0 {
		txType = domain.TypeExpense
		amount = -math.Abs(amount)
	} else {
		txType = domain.TypeIncome
		amount = math.Abs(amount)
	}

	return &domain.Transaction{
		Date:           date,
		Description:    row.Get("Descripcion"),
		Amount:         amount,
		AmountOriginal: original,
		Currency:       "MXN",
		Category:       row.Get("Categoria"),
		Type:           txType,
		Source:         domain.SourceBBVACredit,
	}, nil
}
