package analytics

import (
	"math"
	"sort"

	"github.com/dvloznov/financial-analyzer/internal/domain"
)

// PeriodTotals is the expense aggregate of one period for one currency.
type PeriodTotals struct {
	Total float64
	Count int
}

// CurrencyComparison compares one currency across the two periods. A
// currency present in only one period reports the other period as zero.
type CurrencyComparison struct {
	Currency      string
	A             PeriodTotals
	B             PeriodTotals
	ChangeAmount  float64 // B.Total - A.Total
	ChangePercent float64
}

// PeriodComparison is the result of ComparePeriods, one entry per currency,
// sorted by currency code.
type PeriodComparison struct {
	RangeA     DateRange
	RangeB     DateRange
	Category   string
	Currencies []CurrencyComparison
}

// ComparePeriods independently aggregates expense totals per currency for
// two date ranges, optionally filtered by category substring.
//
// ChangePercent is (change / totalA) * 100, with the zero-baseline rule:
// when totalA is zero the change is 100% if totalB is positive, 0% if both
// are zero. No spending in either period returns ErrNoData.
func ComparePeriods(txs []*domain.Transaction, rangeA, rangeB DateRange, category string) (*PeriodComparison, error) {
	totalsFor := func(rng DateRange) map[string]PeriodTotals {
		out := make(map[string]PeriodTotals)
		for _, tx := range expenseIn(txs, rng, category, "") {
			t := out[tx.Currency]
			t.Total += math.Abs(tx.Amount)
			t.Count++
			out[tx.Currency] = t
		}
		return out
	}

	periodA := totalsFor(rangeA)
	periodB := totalsFor(rangeB)

	currencies := make(map[string]bool)
	for c := range periodA {
		currencies[c] = true
	}
	for c := range periodB {
		currencies[c] = true
	}
	if len(currencies) == 0 {
		return nil, domain.ErrNoData
	}

	result := &PeriodComparison{RangeA: rangeA, RangeB: rangeB, Category: category}
	for currency := range currencies {
		a, b := periodA[currency], periodB[currency]

		change := b.Total - a.Total
		var pct float64
		switch {
		case a.Total > 0:
			pct = change / a.Total * 100
		case b.Total > 0:
			pct = 100
		default:
			pct = 0
		}

		result.Currencies = append(result.Currencies, CurrencyComparison{
			Currency:      currency,
			A:             a,
			B:             b,
			ChangeAmount:  change,
			ChangePercent: pct,
		})
	}

	sort.Slice(result.Currencies, func(i, j int) bool {
		return result.Currencies[i].Currency < result.Currencies[j].Currency
	})

	return result, nil
}
