// Package analytics implements the read-only aggregate operations over a
// storage-supplied snapshot of canonical transactions. Every operation is a
// pure function of (snapshot, filter parameters): no state, no I/O, safe to
// recompute per query.
package analytics

import (
	"strings"
	"time"

	"github.com/dvloznov/financial-analyzer/internal/domain"
)

// DateRange is an inclusive calendar-date interval. A zero From or To leaves
// that side unbounded.
type DateRange struct {
	From time.Time
	To   time.Time
}

// Contains reports whether d falls inside the range, inclusive on both ends.
func (r DateRange) Contains(d time.Time) bool {
	if !r.From.IsZero() && d.Before(r.From) {
		return false
	}
	if !r.To.IsZero() && d.After(r.To) {
		return false
	}
	return true
}

func (r DateRange) String() string {
	format := func(t time.Time, open string) string {
		if t.IsZero() {
			return open
		}
		return t.Format("2006-01-02")
	}
	return format(r.From, "...") + " to " + format(r.To, "...")
}

// matchCategory is the case-insensitive substring filter shared by the
// aggregation operations. An empty pattern matches everything.
func matchCategory(category, pattern string) bool {
	if pattern == "" {
		return true
	}
	return strings.Contains(strings.ToLower(category), strings.ToLower(pattern))
}

// displayCategory folds missing categories into one bucket.
func displayCategory(category string) string {
	if strings.TrimSpace(category) == "" {
		return "Uncategorized"
	}
	return category
}

// expenseIn selects expense-type transactions matching the range, category
// substring and source filters. Source/category zero values match all.
func expenseIn(txs []*domain.Transaction, rng DateRange, category string, source domain.Source) []*domain.Transaction {
	var out []*domain.Transaction
	for _, tx := range txs {
		if tx.Type != domain.TypeExpense {
			continue
		}
		if !rng.Contains(tx.Date) {
			continue
		}
		if !matchCategory(tx.Category, category) {
			continue
		}
		if source != "" && tx.Source != source {
			continue
		}
		out = append(out, tx)
	}
	return out
}
