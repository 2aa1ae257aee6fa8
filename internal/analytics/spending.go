package analytics

import (
	"math"
	"sort"

	"github.com/dvloznov/financial-analyzer/internal/domain"
)

// SpendingFilter narrows a spending analysis. All fields are optional.
type SpendingFilter struct {
	Category string // case-insensitive substring
	Range    DateRange
	Source   domain.Source
}

// CategoryTotal aggregates the expenses of one (category, currency) group.
// Totals are sums of absolute amounts: a 150.00 MXN charge contributes
// 150.00 to the group even though it is stored as -150.00.
type CategoryTotal struct {
	Category string
	Currency string
	Count    int
	Total    float64
	Average  float64
	Min      float64
	Max      float64
}

// SpendingAnalysis is the result of AnalyzeSpending. Groups are ordered by
// descending total, ties broken by category then currency so equal inputs
// always produce identical output.
type SpendingAnalysis struct {
	Groups      []CategoryTotal
	GrandTotals map[string]float64 // one grand total per currency
}

// AnalyzeSpending groups matching expenses by (category, currency) and
// computes count, total, average, min and max of absolute amounts. A filter
// that matches nothing returns ErrNoData, never an empty success.
func AnalyzeSpending(txs []*domain.Transaction, filter SpendingFilter) (*SpendingAnalysis, error) {
	matched := expenseIn(txs, filter.Range, filter.Category, filter.Source)
	if len(matched) == 0 {
		return nil, domain.ErrNoData
	}

	type key struct{ category, currency string }
	groups := make(map[key]*CategoryTotal)

	for _, tx := range matched {
		k := key{displayCategory(tx.Category), tx.Currency}
		g, ok := groups[k]
		abs := math.Abs(tx.Amount)
		if !ok {
			groups[k] = &CategoryTotal{
				Category: k.category,
				Currency: k.currency,
				Count:    1,
				Total:    abs,
				Min:      abs,
				Max:      abs,
			}
			continue
		}
		g.Count++
		g.Total += abs
		if abs < g.Min {
			g.Min = abs
		}
		if abs > g.Max {
			g.Max = abs
		}
	}

	analysis := &SpendingAnalysis{GrandTotals: make(map[string]float64)}
	for _, g := range groups {
		g.Average = g.Total / float64(g.Count)
		analysis.Groups = append(analysis.Groups, *g)
		analysis.GrandTotals[g.Currency] += g.Total
	}

	sort.Slice(analysis.Groups, func(i, j int) bool {
		a, b := analysis.Groups[i], analysis.Groups[j]
		if a.Total != b.Total {
			return a.Total > b.Total
		}
		if a.Category != b.Category {
			return a.Category < b.Category
		}
		return a.Currency < b.Currency
	})

	return analysis, nil
}
