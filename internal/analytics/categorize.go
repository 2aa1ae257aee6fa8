package analytics

import "strings"

// FallbackCategory is returned when no keyword rule matches.
const FallbackCategory = "Other"

// Rule maps one category to the keywords that suggest it. Rules are
// evaluated in table order and the first keyword hit wins, so earlier
// categories shadow later ones for overlapping descriptions.
type Rule struct {
	Category string   `yaml:"category"`
	Keywords []string `yaml:"keywords"`
}

// Categorizer suggests categories from transaction descriptions. The
// suggestion is advisory: callers decide whether to apply it, stored
// records are never mutated here.
type Categorizer struct {
	rules []Rule
}

// NewCategorizer builds a categorizer from an ordered rule table. Keywords
// are lower-cased once at construction.
func NewCategorizer(rules []Rule) *Categorizer {
	folded := make([]Rule, len(rules))
	for i, r := range rules {
		keywords := make([]string, len(r.Keywords))
		for j, k := range r.Keywords {
			keywords[j] = strings.ToLower(k)
		}
		folded[i] = Rule{Category: r.Category, Keywords: keywords}
	}
	return &Categorizer{rules: folded}
}

// Categorize returns the first category whose keyword list has a substring
// match against the lower-cased description, plus the keyword that matched.
// No match returns (FallbackCategory, "").
func (c *Categorizer) Categorize(description string) (category, keyword string) {
	lower := strings.ToLower(description)
	for _, rule := range c.rules {
		for _, k := range rule.Keywords {
			if strings.Contains(lower, k) {
				return rule.Category, k
			}
		}
	}
	return FallbackCategory, ""
}

// DefaultRules is the built-in rule table. Transport precedes Food so a
// description like "UBER EATS" resolves to Transport.
func DefaultRules() []Rule {
	return []Rule{
		{Category: "Transport", Keywords: []string{"uber", "didi", "lyft", "taxi", "metro", "gas", "gasolina", "metrobus"}},
		{Category: "Food", Keywords: []string{"restaurant", "starbucks", "mcdonalds", "food", "coffee", "cafe", "rest ", "comida"}},
		{Category: "Shopping", Keywords: []string{"amazon", "walmart", "target", "store", "shop", "mercado", "oxxo"}},
		{Category: "Bills", Keywords: []string{"electricity", "water", "internet", "phone", "luz", "agua", "telmex"}},
		{Category: "Entertainment", Keywords: []string{"netflix", "spotify", "cinema", "movie", "game", "cine"}},
		{Category: "Income", Keywords: []string{"salary", "payment", "deposit", "freelance", "hourly", "earnings", "upwork"}},
		{Category: "Transfer", Keywords: []string{"transfer", "spei", "transferencia"}},
		{Category: "Health", Keywords: []string{"pharmacy", "doctor", "hospital", "farmacia", "medico"}},
	}
}
