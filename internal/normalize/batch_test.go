package normalize

import (
	"errors"
	"strings"
	"testing"

	"github.com/dvloznov/financial-analyzer/internal/domain"
)

func TestNormalizeGenericSpanishFile(t *testing.T) {
	content := strings.Join([]string{
		"Fecha,Descripcion,Monto,Tipo",
		"2025-07-01,STARBUCKS,150.00,cargo",
		"2025-07-03,NOMINA,5000.00,abono",
	}, "\n")

	result, err := Normalize([]byte(content), "movimientos.csv")
	if err != nil {
		t.Fatalf("Normalize: %v", err)
	}

	if result.Source != domain.SourceBBVADebit {
		t.Errorf("Source = %s, want %s", result.Source, domain.SourceBBVADebit)
	}
	if len(result.Transactions) != 2 {
		t.Fatalf("got %d transactions, want 2", len(result.Transactions))
	}

	first, second := result.Transactions[0], result.Transactions[1]
	if first.Type != domain.TypeExpense || first.Amount != -150.00 || first.Currency != "MXN" {
		t.Errorf("first = (%s, %v, %s), want (expense, -150, MXN)", first.Type, first.Amount, first.Currency)
	}
	if second.Type != domain.TypeIncome || second.Amount != 5000.00 || second.Currency != "MXN" {
		t.Errorf("second = (%s, %v, %s), want (income, 5000, MXN)", second.Type, second.Amount, second.Currency)
	}
}

// A file with N rows and exactly k malformed rows yields N-k transactions
// and k ordered errors with original row numbers preserved.
func TestNormalizePartialFailure(t *testing.T) {
	content := strings.Join([]string{
		"Fecha,Categoria,Descripcion,Monto,Tipo",
		"2025-07-01,Comida,STARBUCKS,150.00,cargo",
		"not-a-date,Comida,TACOS,80.00,cargo",
		"2025-07-03,,NOMINA,5000.00,abono",
		"2025-07-04,Transporte,UBER,not-a-number,cargo",
		"2025-07-05,Comida,SUPER,320.00,cargo",
	}, "\n")

	result, err := Normalize([]byte(content), "nu_credit_julio.csv")
	if err != nil {
		t.Fatalf("Normalize: %v", err)
	}

	if len(result.Transactions) != 3 {
		t.Errorf("got %d transactions, want 3", len(result.Transactions))
	}
	if len(result.Errors) != 2 {
		t.Fatalf("got %d errors, want 2", len(result.Errors))
	}
	if result.Errors[0].Row != 2 || result.Errors[1].Row != 4 {
		t.Errorf("error rows = %d, %d, want 2, 4", result.Errors[0].Row, result.Errors[1].Row)
	}

	// Surviving transactions keep ascending row order.
	rows := []int{result.Transactions[0].RowNumber, result.Transactions[1].RowNumber, result.Transactions[2].RowNumber}
	if rows[0] != 1 || rows[1] != 3 || rows[2] != 5 {
		t.Errorf("transaction rows = %v, want [1 3 5]", rows)
	}
}

func TestNormalizeSkipsBlankAndFooterRows(t *testing.T) {
	content := strings.Join([]string{
		"Fecha,Categoria,Descripcion,Monto,Tipo",
		"2025-07-01,Comida,STARBUCKS,150.00,cargo",
		",,,,",
		"Periodo: 01/07/2025 - 31/07/2025,,,,",
		"Resumen del periodo,,,,",
		"2025-07-02,Comida,TACOS,80.00,cargo",
	}, "\n")

	result, err := Normalize([]byte(content), "nu_tdc_julio.csv")
	if err != nil {
		t.Fatalf("Normalize: %v", err)
	}
	if len(result.Transactions) != 2 {
		t.Errorf("got %d transactions, want 2", len(result.Transactions))
	}
	if len(result.Errors) != 0 {
		t.Errorf("got %d errors, want 0: %v", len(result.Errors), result.Errors)
	}
	if result.Skipped != 3 {
		t.Errorf("Skipped = %d, want 3", result.Skipped)
	}
}

func TestNormalizeUnknownFormatFailsWholeFile(t *testing.T) {
	content := "Timestamp,Value,Note\n2025-07-01,100,hello\n"

	_, err := Normalize([]byte(content), "export.csv")
	var formatErr *domain.FormatError
	if !errors.As(err, &formatErr) {
		t.Fatalf("err = %v, want FormatError", err)
	}
	if formatErr.Filename != "export.csv" {
		t.Errorf("Filename = %q", formatErr.Filename)
	}
}

func TestNormalizeEmptyResultCitesFirstRowError(t *testing.T) {
	content := strings.Join([]string{
		"Fecha,Categoria,Descripcion,Monto,Tipo",
		"bad-date,Comida,STARBUCKS,150.00,cargo",
		"2025-07-02,Comida,TACOS,oops,cargo",
	}, "\n")

	_, err := Normalize([]byte(content), "nu_credit.csv")
	var emptyErr *domain.EmptyResultError
	if !errors.As(err, &emptyErr) {
		t.Fatalf("err = %v, want EmptyResultError", err)
	}
	if emptyErr.First == nil || emptyErr.First.Row != 1 {
		t.Errorf("First = %v, want row 1", emptyErr.First)
	}
	if len(emptyErr.Errors) != 2 {
		t.Errorf("got %d collected errors, want 2", len(emptyErr.Errors))
	}
}

func TestNormalizeUpworkFile(t *testing.T) {
	content := strings.Join([]string{
		"Date,Type,Contract_Details,Client,Client_Initials,Amount_USD,Status",
		"2025-07-01,Hourly,Backend API work,Acme Corp,AC,\"1,250.00\",Paid",
		"2025-07-05,Withdrawal,Withdrawal to bank,,,500.00,Completed",
	}, "\n")

	result, err := Normalize([]byte(content), "upwork_statements.csv")
	if err != nil {
		t.Fatalf("Normalize: %v", err)
	}
	if result.Source != domain.SourceUpwork {
		t.Fatalf("Source = %s", result.Source)
	}
	if result.Transactions[0].Type != domain.TypeIncome || result.Transactions[0].Amount != 1250.00 {
		t.Errorf("first = (%s, %v)", result.Transactions[0].Type, result.Transactions[0].Amount)
	}
	if result.Transactions[1].Type != domain.TypeExpense || result.Transactions[1].Amount != -500.00 {
		t.Errorf("second = (%s, %v)", result.Transactions[1].Type, result.Transactions[1].Amount)
	}

	// Raw fields preserve every original column.
	raw := result.Transactions[0].RawFields
	if raw["Status"] != "Paid" || raw["Client_Initials"] != "AC" {
		t.Errorf("RawFields = %v", raw)
	}
}

func TestNormalizeDeterministicIDs(t *testing.T) {
	content := strings.Join([]string{
		"Fecha,Categoria,Descripcion,Monto,Tipo",
		"2025-07-01,Comida,STARBUCKS,150.00,cargo",
	}, "\n")

	a, err := Normalize([]byte(content), "nu_credit.csv")
	if err != nil {
		t.Fatal(err)
	}
	b, err := Normalize([]byte(content), "nu_credit.csv")
	if err != nil {
		t.Fatal(err)
	}
	if a.Transactions[0].ID() != b.Transactions[0].ID() {
		t.Error("same file produced different transaction IDs")
	}
}
