package utils

import "strings"

// NormalizeName folds a free-text entity mention to its lookup key:
// surrounding whitespace trimmed, inner runs collapsed to one space,
// lowercased. "  acme  " and "ACME" normalize identically.
func NormalizeName(s string) string {
	return strings.ToLower(strings.Join(strings.Fields(s), " "))
}
