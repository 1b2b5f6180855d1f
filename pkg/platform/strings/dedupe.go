// Package strings holds small string-slice helpers.
package strings

import (
	"slices"
	"strings"
)

// SortedDistinctLower trims and lowercases values, drops blanks and
// duplicates, and returns the rest in ascending order.
func SortedDistinctLower(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if v = strings.ToLower(strings.TrimSpace(v)); v != "" {
			out = append(out, v)
		}
	}
	slices.Sort(out)
	return slices.Compact(out)
}
