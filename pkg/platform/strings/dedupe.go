// Package strings normalizes the free-form string lists that flow in from
// field devices (phone numbers, product names), which routinely arrive with
// stray whitespace and duplicated entries.
package strings

import "strings"

// Normalize trims each element and drops empties and duplicates, preserving
// first-seen order and case.
func Normalize(values []string) []string {
	return dedupe(values, strings.TrimSpace)
}

// Fold is Normalize plus lowercasing, for case-insensitive comparison of
// lists where "Granos" and "granos" are the same entry.
func Fold(values []string) []string {
	return dedupe(values, func(v string) string {
		return strings.ToLower(strings.TrimSpace(v))
	})
}

func dedupe(values []string, canon func(string) string) []string {
	if len(values) == 0 {
		return values
	}

	seen := make(map[string]struct{}, len(values))
	result := make([]string, 0, len(values))
	for _, v := range values {
		c := canon(v)
		if c == "" {
			continue
		}
		if _, ok := seen[c]; ok {
			continue
		}
		seen[c] = struct{}{}
		result = append(result, c)
	}
	return result
}
