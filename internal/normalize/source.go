package normalize

import (
	"strings"

	"github.com/dvloznov/financial-analyzer/internal/domain"
)

// DetectSource classifies a file by its header row and filename. The rule
// list is ordered and the first match wins; SourceUnknown rejects the whole
// file before any row is parsed.
//
// The last rule is deliberately loose: generic localized headers with a
// charge/credit type marker go to the BBVA debit normalizer, anything else
// Spanish-looking defaults to Nu credit. Two structurally different generic
// exports can land on the same normalizer; both handle the cargo/abono
// marker so the rows still normalize correctly.
func DetectSource(headers []string, filename string) domain.Source {
	lower := make([]string, 0, len(headers))
	for _, h := range headers {
		lower = append(lower, strings.ToLower(strings.TrimSpace(h)))
	}
	file := strings.ToLower(filename)

	has := func(name string) bool {
		for _, h := range lower {
			if h == name {
				return true
			}
		}
		return false
	}
	anyContains := func(subs ...string) bool {
		for _, h := range lower {
			for _, sub := range subs {
				if strings.Contains(h, sub) {
					return true
				}
			}
		}
		return false
	}

	// Upwork exports carry platform-specific contract/client columns.
	if has("contract_details") || has("client_initials") {
		return domain.SourceUpwork
	}

	// Nu Bank: filename hint, or the debit-only "cajita" savings column.
	if strings.Contains(file, "nu") || has("cajita") {
		if strings.Contains(file, "credit") || strings.Contains(file, "tdc") {
			return domain.SourceNuCredit
		}
		return domain.SourceNuDebit
	}

	// BBVA: filename hint, then header shape decides credit vs debit.
	if strings.Contains(file, "bbva") {
		switch {
		case has("fecha_operacion") && has("fecha_cargo"):
			return domain.SourceBBVACredit
		case has("cargos") && has("abonos"):
			return domain.SourceBBVADebit
		case has("beneficiario"):
			return domain.SourceBBVADebit
		default:
			return domain.SourceBBVACredit
		}
	}

	// Generic Spanish-language headers (Mexican banks).
	if has("fecha") || has("monto") {
		if has("tipo") || anyContains("cargo", "abono") {
			return domain.SourceBBVADebit
		}
		return domain.SourceNuCredit
	}

	return domain.SourceUnknown
}
