package analytics

import (
	"math"
	"sort"

	"github.com/dvloznov/financial-analyzer/internal/domain"
)

// CurrencyAmount is a (total, count) pair for one currency.
type CurrencyAmount struct {
	Currency string
	Total    float64
	Count    int
}

// SourceBreakdown splits income and expense totals of one source per
// currency.
type SourceBreakdown struct {
	Source  domain.Source
	Income  []CurrencyAmount
	Expense []CurrencyAmount
}

// Report is a full income/expense summary for a date range. Net is computed
// per currency from the unrounded running sums, so it is exact with respect
// to the stored amounts even when the displayed totals are rounded.
type Report struct {
	Range             DateRange
	Income            []CurrencyAmount
	ExpenseByCategory []CategoryTotal
	Net               map[string]float64 // income minus expense, per currency
	BySource          []SourceBreakdown  // present only when requested
}

// GenerateReport summarizes all transactions in the range: income by
// currency, expenses by (category, currency), and per-currency net. With
// includeSources it additionally breaks both sides down by source
// identifier. A range with no transactions at all returns ErrNoData.
func GenerateReport(txs []*domain.Transaction, rng DateRange, includeSources bool) (*Report, error) {
	var inRange []*domain.Transaction
	for _, tx := range txs {
		if rng.Contains(tx.Date) {
			inRange = append(inRange, tx)
		}
	}
	if len(inRange) == 0 {
		return nil, domain.ErrNoData
	}

	report := &Report{Range: rng, Net: make(map[string]float64)}

	income := make(map[string]*CurrencyAmount)
	type expKey struct{ category, currency string }
	expenses := make(map[expKey]*CategoryTotal)

	for _, tx := range inRange {
		switch tx.Type {
		case domain.TypeIncome:
			a, ok := income[tx.Currency]
			if !ok {
				a = &CurrencyAmount{Currency: tx.Currency}
				income[tx.Currency] = a
			}
			a.Total += tx.Amount
			a.Count++
			report.Net[tx.Currency] += tx.Amount
		case domain.TypeExpense:
			abs := math.Abs(tx.Amount)
			k := expKey{displayCategory(tx.Category), tx.Currency}
			g, ok := expenses[k]
			if !ok {
				g = &CategoryTotal{Category: k.category, Currency: k.currency, Min: abs, Max: abs}
				expenses[k] = g
			}
			g.Count++
			g.Total += abs
			if abs < g.Min {
				g.Min = abs
			}
			if abs > g.Max {
				g.Max = abs
			}
			report.Net[tx.Currency] -= abs
		}
		// Transfers move money between own accounts and are excluded
		// from both sides of the report.
	}

	for _, a := range income {
		report.Income = append(report.Income, *a)
	}
	sort.Slice(report.Income, func(i, j int) bool {
		return report.Income[i].Currency < report.Income[j].Currency
	})

	for _, g := range expenses {
		g.Average = g.Total / float64(g.Count)
		report.ExpenseByCategory = append(report.ExpenseByCategory, *g)
	}
	sort.Slice(report.ExpenseByCategory, func(i, j int) bool {
		a, b := report.ExpenseByCategory[i], report.ExpenseByCategory[j]
		if a.Total != b.Total {
			return a.Total > b.Total
		}
		if a.Category != b.Category {
			return a.Category < b.Category
		}
		return a.Currency < b.Currency
	})

	if includeSources {
		report.BySource = bySource(inRange)
	}

	return report, nil
}

func bySource(txs []*domain.Transaction) []SourceBreakdown {
	type sums struct {
		income  map[string]*CurrencyAmount
		expense map[string]*CurrencyAmount
	}
	perSource := make(map[domain.Source]*sums)

	for _, tx := range txs {
		if tx.Type != domain.TypeIncome && tx.Type != domain.TypeExpense {
			continue
		}
		s, ok := perSource[tx.Source]
		if !ok {
			s = &sums{
				income:  make(map[string]*CurrencyAmount),
				expense: make(map[string]*CurrencyAmount),
			}
			perSource[tx.Source] = s
		}

		side := s.income
		amount := tx.Amount
		if tx.Type == domain.TypeExpense {
			side = s.expense
			amount = math.Abs(tx.Amount)
		}
		a, ok := side[tx.Currency]
		if !ok {
			a = &CurrencyAmount{Currency: tx.Currency}
			side[tx.Currency] = a
		}
		a.Total += amount
		a.Count++
	}

	flatten := func(m map[string]*CurrencyAmount) []CurrencyAmount {
		var out []CurrencyAmount
		for _, a := range m {
			out = append(out, *a)
		}
		sort.Slice(out, func(i, j int) bool { return out[i].Currency < out[j].Currency })
		return out
	}

	var result []SourceBreakdown
	for source, s := range perSource {
		result = append(result, SourceBreakdown{
			Source:  source,
			Income:  flatten(s.income),
			Expense: flatten(s.expense),
		})
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Source < result[j].Source })
	return result
}
