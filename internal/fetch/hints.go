package fetch

import (
	"regexp"
	"strings"
)

const maxHintsPerKind = 5

// Hint patterns run against raw HTML so the extractor can read prominent
// prices and sizes literally instead of re-deriving them from prose.
var (
	priceRe = regexp.MustCompile(`[$£€]\s?\d[\d,]*(?:\.\d{1,2})?`)
	sizeRe  = regexp.MustCompile(`(?i)\b\d+(?:\.\d+)?\s?(?:ml|milliliters?|fl\.?\s?oz|oz|mg|mcg|g|kg|lbs?|capsules?|tablets?|softgels?|gummies|servings?|count|ct)\b`)
)

// ExtractHints scans raw HTML for currency-prefixed prices and size/unit
// mentions, returning up to five de-duplicated hint lines of each kind.
func ExtractHints(rawHTML string) []string {
	var hints []string
	if prices := dedupeMatches(priceRe.FindAllString(rawHTML, -1)); len(prices) > 0 {
		hints = append(hints, "Prices found on page: "+strings.Join(prices, ", "))
	}
	if sizes := dedupeMatches(sizeRe.FindAllString(rawHTML, -1)); len(sizes) > 0 {
		hints = append(hints, "Sizes found on page: "+strings.Join(sizes, ", "))
	}
	return hints
}

func dedupeMatches(matches []string) []string {
	seen := make(map[string]bool, len(matches))
	var out []string
	for _, m := range matches {
		key := strings.ToLower(strings.Join(strings.Fields(m), " "))
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, strings.TrimSpace(m))
		if len(out) == maxHintsPerKind {
			break
		}
	}
	return out
}
