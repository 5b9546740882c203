package conneg

import (
	"slices"
	"sort"
)

// ResolveWeights collapses duplicate names and orders values by preference.
//
// Per RFC 7231, the last specification of a value wins: walking the input
// from the end, the first occurrence of each distinct name survives and
// earlier duplicates are dropped. Survivors are then stable-sorted by
// descending weight, so equal-weight values keep their relative input order.
func ResolveWeights(values []Value) []Value {
	seen := make(map[string]bool, len(values))
	kept := make([]Value, 0, len(values))
	for i := len(values) - 1; i >= 0; i-- {
		if seen[values[i].Name] {
			continue
		}
		seen[values[i].Name] = true
		kept = append(kept, values[i])
	}
	slices.Reverse(kept)

	sort.SliceStable(kept, func(i, j int) bool {
		return kept[i].Weight > kept[j].Weight
	})
	return kept
}
