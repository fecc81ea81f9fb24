// Package output keeps command results byte-stable across runs: scores are
// rounded to a fixed precision and sets are emitted in sorted order.
package output

import (
	"math"
	"sort"
	"strconv"
	"strings"
)

// Precision is the number of decimal places kept for scores.
const Precision = 6

// RoundFloat rounds a float to Precision decimal places
func RoundFloat(f float64) float64 {
	multiplier := math.Pow(10, Precision)
	return math.Round(f*multiplier) / multiplier
}

// FormatFloat formats a float with no trailing zeros
func FormatFloat(f float64) string {
	str := strconv.FormatFloat(RoundFloat(f), 'f', Precision, 64)
	str = strings.TrimRight(str, "0")
	return strings.TrimRight(str, ".")
}

// SortedKeys returns the keys of a set-like map in ascending order.
func SortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
