package shape

import (
	"cmp"
	"slices"
	"strings"
)

// OrderKeys returns keys in template order: "id", then "type", then the
// rest in ascending code-point order. The input is not modified.
func OrderKeys(keys []string) []string {
	out := slices.Clone(keys)
	slices.SortFunc(out, compareKeys)
	return out
}

func compareKeys(a, b string) int {
	if c := cmp.Compare(keyRank(a), keyRank(b)); c != 0 {
		return c
	}
	return strings.Compare(a, b)
}

func keyRank(key string) int {
	switch key {
	case "id":
		return 0
	case "type":
		return 1
	default:
		return 2
	}
}
