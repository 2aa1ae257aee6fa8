package normalize

import "strings"

// Row is one raw data row keyed by the original header names. Lookups are
// case-insensitive because the same bank ships the same column as "Monto",
// "monto" or "MONTO" depending on the export month.
type Row map[string]string

// Get returns the trimmed value for the first matching key, trying each name
// in order. Missing columns yield "".
func (r Row) Get(names ...string) string {
	for _, name := range names {
		for k, v := range r {
			if strings.EqualFold(strings.TrimSpace(k), name) {
				return strings.TrimSpace(v)
			}
		}
	}
	return ""
}

// Has reports whether the row has a column with the given name, even if the
// value is empty.
func (r Row) Has(name string) bool {
	for k := range r {
		if strings.EqualFold(strings.TrimSpace(k), name) {
			return true
		}
	}
	return false
}

// IsBlank reports whether every cell is empty or whitespace.
func (r Row) IsBlank() bool {
	for _, v := range r {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}

// IsFooter recognizes the summary/period footer rows some bank exports append
// after the data ("Periodo: 01/07 - 31/07", "Resumen del periodo", ...).
// These are skipped silently, not reported as errors.
func (r Row) IsFooter() bool {
	for _, v := range r {
		s := strings.ToLower(strings.TrimSpace(v))
		if strings.HasPrefix(s, "periodo") || strings.Contains(s, "resumen") {
			return true
		}
	}
	return false
}

// Fields returns a copy of the row for the canonical transaction's raw-field
// bag, preserving every original column verbatim.
func (r Row) Fields() map[string]string {
	out := make(map[string]string, len(r))
	for k, v := range r {
		out[k] = v
	}
	return out
}
