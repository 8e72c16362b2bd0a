package model

import (
	"fmt"
	"sort"
)

// SortOrder represents the canonical ordering applied to many-valued records
type SortOrder int

const (
	// SortAscending orders items by ascending sort key
	SortAscending SortOrder = iota
	// SortDescending orders items by descending sort key
	SortDescending
	// SortNatural orders items ascending with digit runs compared numerically
	SortNatural
)

// String returns the string representation of the sort order
func (s SortOrder) String() string {
	switch s {
	case SortAscending:
		return "ascending"
	case SortDescending:
		return "descending"
	case SortNatural:
		return "natural"
	default:
		return "unknown"
	}
}

// ParseSortOrder converts a string to a SortOrder
func ParseSortOrder(s string) (SortOrder, error) {
	switch s {
	case "ascending":
		return SortAscending, nil
	case "descending":
		return SortDescending, nil
	case "natural":
		return SortNatural, nil
	default:
		return 0, fmt.Errorf("unknown sort order: %s", s)
	}
}

// sortKey derives the ordering key for one item. Items are representation
// maps; a missing key or non-map item keys as nil so ordering never fails
// on partial data.
func sortKey(item any, by string) any {
	m, ok := item.(map[string]any)
	if !ok {
		return nil
	}
	return m[by]
}

// keyLess orders two sort keys. When both keys are numeric they compare as
// numbers, so priority 2 sorts before priority 10. Everything else compares
// as its string form, with a missing key reading as the empty string.
func keyLess(a, b any, natural bool) bool {
	if ai, ok := coerceInt(a); ok {
		if bi, ok := coerceInt(b); ok {
			return ai < bi
		}
	}
	as, bs := keyString(a), keyString(b)
	if natural {
		return naturalLess(as, bs)
	}
	return as < bs
}

func keyString(v any) string {
	if v == nil {
		return ""
	}
	return fmt.Sprintf("%v", v)
}

// sortItems orders items by the key derived from the configured field.
// The sort is stable so equal keys keep their relative input order.
func sortItems(items []any, by string, order SortOrder) {
	sort.SliceStable(items, func(i, j int) bool {
		a, b := sortKey(items[i], by), sortKey(items[j], by)
		if order == SortDescending {
			return keyLess(b, a, false)
		}
		return keyLess(a, b, order == SortNatural)
	})
}

// naturalLess compares two strings with runs of digits ordered numerically,
// so "rule2" sorts before "rule10". Digit runs are compared without parsing
// to avoid overflow: leading zeros are stripped, then shorter runs are
// smaller, then equal-length runs compare lexicographically.
func naturalLess(a, b string) bool {
	for len(a) > 0 && len(b) > 0 {
		if isDigit(a[0]) && isDigit(b[0]) {
			da, restA := takeDigits(a)
			db, restB := takeDigits(b)
			if c := compareDigits(da, db); c != 0 {
				return c < 0
			}
			a, b = restA, restB
			continue
		}
		if a[0] != b[0] {
			return a[0] < b[0]
		}
		a, b = a[1:], b[1:]
	}
	return len(a) < len(b)
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

// takeDigits splits the leading digit run from the rest of the string
func takeDigits(s string) (string, string) {
	i := 0
	for i < len(s) && isDigit(s[i]) {
		i++
	}
	return s[:i], s[i:]
}

// compareDigits compares two digit runs as numbers
func compareDigits(a, b string) int {
	a = trimZeros(a)
	b = trimZeros(b)
	if len(a) != len(b) {
		if len(a) < len(b) {
			return -1
		}
		return 1
	}
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

func trimZeros(s string) string {
	i := 0
	for i < len(s)-1 && s[i] == '0' {
		i++
	}
	return s[i:]
}
