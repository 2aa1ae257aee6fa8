package parse

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// dateLayouts are attempted strictly in order; the first match wins. The
// order matters: day-first slash dates are far more common in the supported
// exports, so "15/01/2024" resolves day-first and "01/15/2024" only matches
// the month-first layout after day-first has failed.
var dateLayouts = []string{
	"2006-01-02", // ISO
	"02/01/2006", // day/month/year
	"01/02/2006", // month/day/year
	"02-01-2006", // day-month-year
	"2006/01/02", // slash-separated ISO-like
}

// spanishMonths maps the Mexican bank export month abbreviations to their
// month numbers. Used only after every numeric layout has failed.
var spanishMonths = map[string]time.Month{
	"ene": time.January, "feb": time.February, "mar": time.March,
	"abr": time.April, "may": time.May, "jun": time.June,
	"jul": time.July, "ago": time.August, "sep": time.September,
	"oct": time.October, "nov": time.November, "dic": time.December,
}

// Date parses a raw date string into a UTC calendar date. Empty or
// unparseable input is an error; the caller decides whether that fails a row
// or a file, but a date is never silently defaulted.
func Date(raw string) (time.Time, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return time.Time{}, fmt.Errorf("empty date string")
	}

	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC), nil
		}
	}

	if t, ok := parseSpanishDate(s); ok {
		return t, nil
	}

	return time.Time{}, fmt.Errorf("could not parse date: %q", raw)
}

// parseSpanishDate handles forms like "13-jul-2025" or "02/JUL". When the
// year token is missing the current processing year is assumed; that is a
// documented lossy fallback for exports that omit the year entirely.
func parseSpanishDate(s string) (time.Time, bool) {
	lower := strings.ToLower(s)
	for abbr, month := range spanishMonths {
		if !strings.Contains(lower, abbr) {
			continue
		}
		re := regexp.MustCompile(`(\d{1,2})[-/\s]?` + abbr + `[-/\s]?(\d{4})?`)
		m := re.FindStringSubmatch(lower)
		if m == nil {
			continue
		}
		day, _ := strconv.Atoi(m[1])
		year := time.Now().Year()
		if m[2] != "" {
			year, _ = strconv.Atoi(m[2])
		}
		if day < 1 || day > 31 {
			return time.Time{}, false
		}
		return time.Date(year, month, day, 0, 0, 0, 0, time.UTC), true
	}
	return time.Time{}, false
}
