package normalize

import (
	"testing"
	"time"

	"github.com/dvloznov/financial-analyzer/internal/domain"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestUpworkNormalizer(t *testing.T) {
	tests := []struct {
		name       string
		row        Row
		wantType   domain.TxType
		wantAmount float64
		wantDesc   string
	}{
		{
			name: "hourly payment is income",
			row: Row{
				"Date": "2025-07-01", "Type": "Hourly",
				"Contract_Details": "Backend API work", "Client": "Acme Corp",
				"Amount_USD": "1,250.00",
			},
			wantType:   domain.TypeIncome,
			wantAmount: 1250.00,
			wantDesc:   "Backend API work (Acme Corp)",
		},
		{
			name: "withdrawal forces expense",
			row: Row{
				"Date": "2025-07-05", "Type": "Withdrawal",
				"Contract_Details": "Withdrawal to bank", "Amount_USD": "500.00",
			},
			wantType:   domain.TypeExpense,
			wantAmount: -500.00,
			wantDesc:   "Withdrawal to bank",
		},
		{
			name: "negative amount without kind is expense",
			row: Row{
				"Date": "2025-07-08", "Contract_Details": "Service fee",
				"Amount_USD": "(25.00)",
			},
			wantType:   domain.TypeExpense,
			wantAmount: -25.00,
			wantDesc:   "Service fee",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tx, err := (upworkNormalizer{}).Normalize(tt.row)
			if err != nil {
				t.Fatalf("Normalize: %v", err)
			}
			if tx.Type != tt.wantType {
				t.Errorf("Type = %s, want %s", tx.Type, tt.wantType)
			}
			if tx.Amount != tt.wantAmount {
				t.Errorf("Amount = %v, want %v", tx.Amount, tt.wantAmount)
			}
			if tx.Description != tt.wantDesc {
				t.Errorf("Description = %q, want %q", tx.Description, tt.wantDesc)
			}
			if tx.Currency != "USD" {
				t.Errorf("Currency = %s, want USD", tx.Currency)
			}
		})
	}
}

func TestNuCreditNormalizer(t *testing.T) {
	tests := []struct {
		name       string
		row        Row
		wantType   domain.TxType
		wantAmount float64
	}{
		{
			name:       "cargo is an expense with forced negative",
			row:        Row{"Fecha": "2025-07-01", "Descripcion": "STARBUCKS", "Monto": "150.00", "Tipo": "cargo"},
			wantType:   domain.TypeExpense,
			wantAmount: -150.00,
		},
		{
			name:       "abono is income",
			row:        Row{"Fecha": "2025-07-03", "Descripcion": "PAGO TARJETA", "Monto": "2,000.00", "Tipo": "abono"},
			wantType:   domain.TypeIncome,
			wantAmount: 2000.00,
		},
		{
			name:       "negative abono stored non-negative",
			row:        Row{"Fecha": "2025-07-03", "Descripcion": "PAGO TARJETA", "Monto": "-2,000.00", "Tipo": "abono"},
			wantType:   domain.TypeIncome,
			wantAmount: 2000.00,
		},
		{
			name:       "missing kind falls back to amount sign",
			row:        Row{"Fecha": "2025-07-04", "Descripcion": "PAGO", "Monto": "(300.00)"},
			wantType:   domain.TypeIncome,
			wantAmount: 300.00,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tx, err := (nuCreditNormalizer{}).Normalize(tt.row)
			if err != nil {
				t.Fatalf("Normalize: %v", err)
			}
			if tx.Type != tt.wantType || tx.Amount != tt.wantAmount {
				t.Errorf("got (%s, %v), want (%s, %v)", tx.Type, tx.Amount, tt.wantType, tt.wantAmount)
			}
			if tx.Currency != "MXN" {
				t.Errorf("Currency = %s, want MXN", tx.Currency)
			}
		})
	}
}

func TestNuDebitNormalizer(t *testing.T) {
	tests := []struct {
		name       string
		row        Row
		wantType   domain.TxType
		wantAmount float64
	}{
		{
			name:       "outgoing transferencia is a transfer",
			row:        Row{"Fecha": "2025-07-02", "Tipo": "Transferencia enviada", "Descripcion": "SPEI", "Monto": "-1,500.00"},
			wantType:   domain.TypeTransfer,
			wantAmount: -1500.00,
		},
		{
			name:       "negative amount is expense",
			row:        Row{"Fecha": "2025-07-02", "Tipo": "Compra", "Descripcion": "OXXO", "Monto": "-89.50"},
			wantType:   domain.TypeExpense,
			wantAmount: -89.50,
		},
		{
			name:       "positive amount is income even for transferencia",
			row:        Row{"Fecha": "2025-07-02", "Tipo": "Transferencia recibida", "Descripcion": "SPEI", "Monto": "3,000.00"},
			wantType:   domain.TypeIncome,
			wantAmount: 3000.00,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tx, err := (nuDebitNormalizer{}).Normalize(tt.row)
			if err != nil {
				t.Fatalf("Normalize: %v", err)
			}
			if tx.Type != tt.wantType || tx.Amount != tt.wantAmount {
				t.Errorf("got (%s, %v), want (%s, %v)", tx.Type, tx.Amount, tt.wantType, tt.wantAmount)
			}
		})
	}
}

func TestBBVACreditNormalizer(t *testing.T) {
	// Operation date preferred over settlement date.
	tx, err := (bbvaCreditNormalizer{}).Normalize(Row{
		"Fecha_Operacion": "2025-07-10", "Fecha_Cargo": "2025-07-12",
		"Descripcion": "AMAZON MX", "Monto": "499.00", "Tipo": "cargo",
	})
	if err != nil {
		t.Fatalf("Normalize: %v", err)
	}
	if !tx.Date.Equal(date(2025, time.July, 10)) {
		t.Errorf("Date = %s, want operation date 2025-07-10", tx.Date.Format("2006-01-02"))
	}
	if tx.Type != domain.TypeExpense || tx.Amount != -499.00 {
		t.Errorf("got (%s, %v), want (expense, -499)", tx.Type, tx.Amount)
	}

	// Settlement date used when the operation date is absent.
	tx, err = (bbvaCreditNormalizer{}).Normalize(Row{
		"Fecha_Cargo": "2025-07-12", "Descripcion": "MERPAGO", "Monto": "120.00", "Tipo": "cargo",
	})
	if err != nil {
		t.Fatalf("Normalize: %v", err)
	}
	if !tx.Date.Equal(date(2025, time.July, 12)) {
		t.Errorf("Date = %s, want settlement date 2025-07-12", tx.Date.Format("2006-01-02"))
	}

	// Explicit credit is income, stored non-negative.
	tx, err = (bbvaCreditNormalizer{}).Normalize(Row{
		"Fecha_Operacion": "2025-07-15", "Descripcion": "PAGO RECIBIDO", "Monto": "-1,000.00", "Tipo": "abono",
	})
	if err != nil {
		t.Fatalf("Normalize: %v", err)
	}
	if tx.Type != domain.TypeIncome || tx.Amount != 1000.00 {
		t.Errorf("got (%s, %v), want (income, 1000)", tx.Type, tx.Amount)
	}
}

func TestBBVADebitNormalizer(t *testing.T) {
	t.Run("cargos abonos shape", func(t *testing.T) {
		tx, err := (bbvaDebitNormalizer{}).Normalize(Row{
			"Fecha_Operacion": "2025-07-01", "Descripcion": "RETIRO ATM",
			"Cargos": "800.00", "Abonos": "",
		})
		if err != nil {
			t.Fatalf("Normalize: %v", err)
		}
		if tx.Type != domain.TypeExpense || tx.Amount != -800.00 || tx.AmountOriginal != 800.00 {
			t.Errorf("got (%s, %v, %v), want (expense, -800, 800)", tx.Type, tx.Amount, tx.AmountOriginal)
		}

		tx, err = (bbvaDebitNormalizer{}).Normalize(Row{
			"Fecha_Operacion": "2025-07-02", "Descripcion": "NOMINA",
			"Cargos": "", "Abonos": "12,500.00",
		})
		if err != nil {
			t.Fatalf("Normalize: %v", err)
		}
		if tx.Type != domain.TypeIncome || tx.Amount != 12500.00 {
			t.Errorf("got (%s, %v), want (income, 12500)", tx.Type, tx.Amount)
		}
	})

	t.Run("single amount shape with marker", func(t *testing.T) {
		tx, err := (bbvaDebitNormalizer{}).Normalize(Row{
			"Fecha": "2025-07-03", "Descripcion": "LUZ CFE", "Monto": "450.00", "Tipo": "egreso",
		})
		if err != nil {
			t.Fatalf("Normalize: %v", err)
		}
		if tx.Type != domain.TypeExpense || tx.Amount != -450.00 {
			t.Errorf("got (%s, %v), want (expense, -450)", tx.Type, tx.Amount)
		}
	})

	t.Run("beneficiario appended to description", func(t *testing.T) {
		tx, err := (bbvaDebitNormalizer{}).Normalize(Row{
			"Fecha": "2025-07-04", "Descripcion": "TRANSFERENCIA", "Monto": "-600.00",
			"Tipo": "egreso", "Beneficiario": "JUAN PEREZ",
		})
		if err != nil {
			t.Fatalf("Normalize: %v", err)
		}
		if tx.Description != "TRANSFERENCIA - JUAN PEREZ" {
			t.Errorf("Description = %q", tx.Description)
		}
	})

	t.Run("missing optional columns tolerated", func(t *testing.T) {
		tx, err := (bbvaDebitNormalizer{}).Normalize(Row{
			"Fecha": "2025-07-05", "Descripcion": "DEPOSITO", "Monto": "100.00", "Tipo": "ingreso",
		})
		if err != nil {
			t.Fatalf("Normalize: %v", err)
		}
		if tx.Category != "" {
			t.Errorf("Category = %q, want empty", tx.Category)
		}
	})
}

// Sign consistency invariant: amount sign always matches the type.
func TestNormalizersSignConvention(t *testing.T) {
	rows := []struct {
		n   Normalizer
		row Row
	}{
		{upworkNormalizer{}, Row{"Date": "2025-07-01", "Type": "Hourly", "Contract_Details": "X", "Amount_USD": "10"}},
		{upworkNormalizer{}, Row{"Date": "2025-07-01", "Type": "Withdrawal", "Contract_Details": "X", "Amount_USD": "10"}},
		{nuCreditNormalizer{}, Row{"Fecha": "2025-07-01", "Descripcion": "X", "Monto": "10", "Tipo": "cargo"}},
		{nuCreditNormalizer{}, Row{"Fecha": "2025-07-01", "Descripcion": "X", "Monto": "-10", "Tipo": "abono"}},
		{nuDebitNormalizer{}, Row{"Fecha": "2025-07-01", "Tipo": "Compra", "Descripcion": "X", "Monto": "-10"}},
		{bbvaCreditNormalizer{}, Row{"Fecha_Operacion": "2025-07-01", "Descripcion": "X", "Monto": "10", "Tipo": "cargo"}},
		{bbvaDebitNormalizer{}, Row{"Fecha": "2025-07-01", "Descripcion": "X", "Cargos": "10", "Abonos": ""}},
	}

	for i, c := range rows {
		tx, err := c.n.Normalize(c.row)
		if err != nil {
			t.Fatalf("case %d: %v", i, err)
		}
		switch tx.Type {
		case domain.TypeExpense:
			if tx.Amount > 0 {
				t.Errorf("case %d: expense with positive amount %v", i, tx.Amount)
			}
		case domain.TypeIncome:
			if tx.Amount < 0 {
				t.Errorf("case %d: income with negative amount %v", i, tx.Amount)
			}
		}
	}
}
