package analytics

import (
	"errors"
	"testing"
	"time"

	"github.com/dvloznov/financial-analyzer/internal/domain"
)

func july(from, to int) DateRange {
	return DateRange{
		From: time.Date(2025, time.July, from, 0, 0, 0, 0, time.UTC),
		To:   time.Date(2025, time.July, to, 0, 0, 0, 0, time.UTC),
	}
}

func TestComparePeriods(t *testing.T) {
	txs := []*domain.Transaction{
		tx(1, "Food", -100.00, domain.TypeExpense, "MXN", domain.SourceNuCredit),
		tx(2, "Food", -100.00, domain.TypeExpense, "MXN", domain.SourceNuCredit),
		tx(16, "Food", -300.00, domain.TypeExpense, "MXN", domain.SourceNuCredit),
		tx(16, "Food", -50.00, domain.TypeExpense, "USD", domain.SourceUpwork),
	}

	cmp, err := ComparePeriods(txs, july(1, 15), july(16, 31), "")
	if err != nil {
		t.Fatalf("ComparePeriods: %v", err)
	}
	if len(cmp.Currencies) != 2 {
		t.Fatalf("got %d currencies, want 2", len(cmp.Currencies))
	}

	mxn := cmp.Currencies[0]
	if mxn.Currency != "MXN" {
		t.Fatalf("first currency = %s, want MXN (sorted)", mxn.Currency)
	}
	if mxn.A.Total != 200.00 || mxn.A.Count != 2 || mxn.B.Total != 300.00 || mxn.B.Count != 1 {
		t.Errorf("MXN = A(%v,%d) B(%v,%d)", mxn.A.Total, mxn.A.Count, mxn.B.Total, mxn.B.Count)
	}
	if mxn.ChangeAmount != 100.00 || mxn.ChangePercent != 50.00 {
		t.Errorf("MXN change = (%v, %v%%), want (100, 50%%)", mxn.ChangeAmount, mxn.ChangePercent)
	}

	// USD only spent in period B: period A reported as zero.
	usd := cmp.Currencies[1]
	if usd.A.Total != 0 || usd.B.Total != 50.00 {
		t.Errorf("USD = A %v B %v, want A 0 B 50", usd.A.Total, usd.B.Total)
	}
}

func TestComparePeriodsZeroBaseline(t *testing.T) {
	tests := []struct {
		name    string
		txs     []*domain.Transaction
		wantPct float64
	}{
		{
			name: "totalA zero and totalB positive is 100 percent",
			txs: []*domain.Transaction{
				tx(20, "Food", -50.00, domain.TypeExpense, "MXN", domain.SourceNuCredit),
			},
			wantPct: 100,
		},
		{
			name: "both zero for a currency is 0 percent",
			txs: []*domain.Transaction{
				// Keeps the comparison non-empty via another currency,
				// while MXN appears only as income.
				tx(20, "", -10.00, domain.TypeExpense, "USD", domain.SourceUpwork),
				tx(5, "", 100.00, domain.TypeIncome, "MXN", domain.SourceBBVADebit),
			},
			wantPct: 0,
		},
	}

	t.Run(tests[0].name, func(t *testing.T) {
		cmp, err := ComparePeriods(tests[0].txs, july(1, 15), july(16, 31), "")
		if err != nil {
			t.Fatalf("ComparePeriods: %v", err)
		}
		if cmp.Currencies[0].ChangePercent != tests[0].wantPct {
			t.Errorf("ChangePercent = %v, want %v", cmp.Currencies[0].ChangePercent, tests[0].wantPct)
		}
	})

	t.Run(tests[1].name, func(t *testing.T) {
		cmp, err := ComparePeriods(tests[1].txs, july(1, 15), july(16, 31), "")
		if err != nil {
			t.Fatalf("ComparePeriods: %v", err)
		}
		if len(cmp.Currencies) != 1 || cmp.Currencies[0].Currency != "USD" {
			t.Fatalf("currencies = %+v, want USD only", cmp.Currencies)
		}
	})
}

func TestComparePeriodsCategoryFilter(t *testing.T) {
	txs := []*domain.Transaction{
		tx(1, "Food", -100.00, domain.TypeExpense, "MXN", domain.SourceNuCredit),
		tx(1, "Transport", -500.00, domain.TypeExpense, "MXN", domain.SourceNuCredit),
		tx(16, "Food", -200.00, domain.TypeExpense, "MXN", domain.SourceNuCredit),
	}

	cmp, err := ComparePeriods(txs, july(1, 15), july(16, 31), "food")
	if err != nil {
		t.Fatalf("ComparePeriods: %v", err)
	}
	mxn := cmp.Currencies[0]
	if mxn.A.Total != 100.00 || mxn.B.Total != 200.00 {
		t.Errorf("filtered totals = A %v B %v, want A 100 B 200", mxn.A.Total, mxn.B.Total)
	}
	if mxn.ChangePercent != 100.00 {
		t.Errorf("ChangePercent = %v, want 100", mxn.ChangePercent)
	}
}

func TestComparePeriodsNoData(t *testing.T) {
	txs := []*domain.Transaction{
		tx(5, "", 100.00, domain.TypeIncome, "MXN", domain.SourceBBVADebit),
	}
	_, err := ComparePeriods(txs, july(1, 15), july(16, 31), "")
	if !errors.Is(err, domain.ErrNoData) {
		t.Fatalf("err = %v, want ErrNoData", err)
	}
}
