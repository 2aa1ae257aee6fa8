package parse

import (
	"fmt"
	"strconv"
	"strings"
)

// currencyTokens are stripped before numeric parsing. Symbols and 3-letter
// codes seen across the supported exports; order is irrelevant since each is
// removed wherever it occurs.
var currencyTokens = []string{"$", "€", "£", "¥", "MXN", "USD"}

// Amount parses a raw monetary string into a signed float. The pipeline is
// deterministic and order-sensitive:
//
//	strip currency symbols/codes → parenthesized value becomes negative →
//	strip thousands-separator commas → trim → empty yields zero → ParseFloat.
//
// Every normalizer goes through here, so "$1,234.56", "(100.00)" and
// "-45.00 MXN" always resolve to the same values regardless of schema.
func Amount(raw string) (float64, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return 0, nil
	}

	for _, tok := range currencyTokens {
		s = strings.ReplaceAll(s, tok, "")
	}
	s = strings.TrimSpace(s)

	if strings.HasPrefix(s, "(") && strings.HasSuffix(s, ")") {
		s = "-" + s[1:len(s)-1]
	}

	s = strings.ReplaceAll(s, ",", "")
	s = strings.TrimSpace(s)

	if s == "" {
		return 0, nil
	}

	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("could not parse amount: %q", raw)
	}
	return v, nil
}
