package engine

import "sort"

// Rank collapses raw matches into the final suggestion list: excluded
// records are dropped, rules are deduplicated by name keeping the
// highest-priority occurrence, and the result is sorted by priority with
// declaration order as the tie-break (stable sort, so identical input
// always produces identical output).
func Rank(matches []Match) []Match {
	var kept []Match
	index := make(map[string]int)

	for _, m := range matches {
		if m.Excluded {
			continue
		}
		if i, ok := index[m.Rule.Name]; ok {
			if m.Rule.Priority.Rank() < kept[i].Rule.Priority.Rank() {
				kept[i] = m
			}
			continue
		}
		index[m.Rule.Name] = len(kept)
		kept = append(kept, m)
	}

	sort.SliceStable(kept, func(i, j int) bool {
		return kept[i].Rule.Priority.Rank() < kept[j].Rule.Priority.Rank()
	})

	return kept
}
