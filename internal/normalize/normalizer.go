package normalize

import (
	"fmt"
	"strings"

	"github.com/dvloznov/financial-analyzer/internal/domain"
)

// Normalizer maps one raw row of a specific export schema into a canonical
// transaction. Implementations are pure: no I/O, no state, no row-to-row
// dependency. One is selected per file and reused for every row.
type Normalizer interface {
	Normalize(row Row) (*domain.Transaction, error)
}

// ForSource returns the normalizer for a detected schema, or an error for
// SourceUnknown.
func ForSource(src domain.Source) (Normalizer, error) {
	switch src {
	case domain.SourceUpwork:
		return upworkNormalizer{}, nil
	case domain.SourceNuCredit:
		return nuCreditNormalizer{}, nil
	case domain.SourceNuDebit:
		return nuDebitNormalizer{}, nil
	case domain.SourceBBVACredit:
		return bbvaCreditNormalizer{}, nil
	case domain.SourceBBVADebit:
		return bbvaDebitNormalizer{}, nil
	default:
		return nil, fmt.Errorf("ForSource: no normalizer for source %q", src)
	}
}

// titleCase capitalizes the first letter of a kind label ("withdrawal" →
// "Withdrawal") for use as a fallback category.
func titleCase(s string) string {
	if s == "" {
		return ""
	}
	return strings.ToUpper(s[:1]) + strings.ToLower(s[1:])
}
