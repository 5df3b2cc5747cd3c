package reconcile

import (
	"sort"
	"strings"
)

// GroupLabel names a group that no landing references yet.
type GroupLabel struct {
	Key  string
	Name string
}

// CanonicalOrder merges per-locale group orderings into one sequence. The
// first ordering wins; groups seen only in later orderings are appended in the
// order they are first encountered. With includeExtras, groups from extras
// that are still missing are appended sorted by name then key.
func CanonicalOrder(orderings [][]string, extras []GroupLabel, includeExtras bool) []string {
	merged := make([]string, 0)
	seen := map[string]bool{}

	for _, ordering := range orderings {
		for _, key := range ordering {
			if key == "" || seen[key] {
				continue
			}
			seen[key] = true
			merged = append(merged, key)
		}
	}

	if !includeExtras {
		return merged
	}

	missing := make([]GroupLabel, 0, len(extras))
	for _, extra := range extras {
		if extra.Key == "" || seen[extra.Key] {
			continue
		}
		seen[extra.Key] = true
		missing = append(missing, extra)
	}
	sort.SliceStable(missing, func(i, j int) bool {
		left, right := strings.ToLower(missing[i].Name), strings.ToLower(missing[j].Name)
		if left != right {
			return left < right
		}
		return missing[i].Key < missing[j].Key
	})
	for _, extra := range missing {
		merged = append(merged, extra.Key)
	}
	return merged
}
