package normalize

import (
	"fmt"
	"math"
	"strings"

	"github.com/dvloznov/financial-analyzer/internal/domain"
	"github.com/dvloznov/financial-analyzer/internal/parse"
)

// bbvaDebitNormalizer handles the BBVA debit account export, which ships in
// two row shapes:
//
//  1. Fecha_Operacion,Fecha_Liquidacion,Descripcion,Referencia,Cargos,Abonos,Saldo
//     with separate charge/credit amount columns.
//  2. Fecha,Descripcion,Referencia,Monto,Saldo,Categoria,Tipo,Beneficiario
//     with one signed amount column plus an income/expense marker.
type bbvaDebitNormalizer struct{}

func (bbvaDebitNormalizer) Normalize(row Row) (*domain.Transaction, error) {
	date, err := parse.Date(row.Get("Fecha_Operacion", "Fecha_Liquidacion", "Fecha"))
	if err != nil {
		return nil, err
	}

	var (
		amount   float64
		original float64
		txType   domain.TxType
	)

	if row.Has("Cargos") || row.Has("Abonos") {
		cargos, err := parse.Amount(row.Get("Cargos"))
		if err != nil {
			return nil, err
		}
		abonos, err := parse.Amount(row.Get("Abonos"))
		if err != nil {
			return nil, err
		}
		if cargos > 0 {
			amount = -cargos
			original = cargos
			txType = domain.TypeExpense
		} else {
			amount = abonos
			original = abonos
			txType = domain.TypeIncome
		}
	} else {
		amount, err = parse.Amount(row.Get("Monto"))
		if err != nil {
			return nil, err
		}
		original = math.Abs(amount)

		kind := strings.ToLower(row.Get("Tipo"))
		if kind == "egreso" || kind == "cargo" || (kind != "ingreso" && kind != "abono" && amount < 0) {
			txType = domain.TypeExpense
			amount = -math.Abs(amount)
		} else {
			txType = domain.TypeIncome
			amount = math.Abs(amount)
		}
	}

	description := row.Get("Descripcion")
	if beneficiario := row.Get("Beneficiario"); beneficiario != "" {
		description = fmt.Sprintf("%s - %s", description, beneficiario)
	}

	return &domain.Transaction{
		Date:           date,
		Description:    description,
		Amount:         amount,
		AmountOriginal: original,
		Currency:       "MXN",
		Category:       row.Get("Categoria"),
		Type:           txType,
		Source:         domain.SourceBBVADebit,
	}, nil
}
