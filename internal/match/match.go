// Package match compares inventory ingredient names against the ingredient
// lines of generated recipes. Matching is deliberately fuzzy: it has to
// absorb plural/singular and brand-qualifier variance ("spinach" vs
// "organic spinach") without a dictionary.
package match

import "strings"

// Matches reports whether two ingredient names refer to the same thing,
// using bidirectional case-insensitive substring containment.
//
// Known limitation: short common substrings produce false positives
// ("egg" matches "eggplant"). That trade-off is intentional; callers
// should not try to compensate for it here.
func Matches(a, b string) bool {
	a = strings.ToLower(strings.TrimSpace(a))
	b = strings.ToLower(strings.TrimSpace(b))
	if a == "" || b == "" {
		return false
	}
	return strings.Contains(a, b) || strings.Contains(b, a)
}

// ExtractUsedIngredients returns the subset of pool names that a recipe's
// ingredient lines appear to use. Each line is reduced to a bare name (its
// last whitespace-delimited token, lower-cased) before matching, since lines
// arrive as human-readable "qty unit name" strings.
func ExtractUsedIngredients(ingredientLines []string, pool []string) map[string]bool {
	used := make(map[string]bool)
	for _, line := range ingredientLines {
		name := bareName(line)
		if name == "" {
			continue
		}
		for _, poolName := range pool {
			if Matches(name, poolName) {
				used[strings.ToLower(poolName)] = true
			}
		}
	}
	return used
}

func bareName(line string) string {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return ""
	}
	return strings.ToLower(fields[len(fields)-1])
}
