// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package sheet

import "fmt"

// UniqueNames returns column names that are non-empty and pairwise distinct.
// An empty name at position i becomes "Unnamed: i"; a name of only spaces is
// kept as is. A repeated name gets a ".1", ".2", ... suffix, skipping
// suffixes already taken by another column.
func UniqueNames(names []string) []string {
	out := make([]string, len(names))
	used := make(map[string]bool, len(names))
	for i, n := range names {
		if n == "" {
			n = fmt.Sprintf("Unnamed: %d", i)
		}
		out[i] = n
	}

	// Claim every first occurrence before suffixing, so a later explicit
	// "a.1" keeps its name.
	first := make([]bool, len(out))
	for i, n := range out {
		if !used[n] {
			used[n] = true
			first[i] = true
		}
	}

	counts := make(map[string]int, len(out))
	for i, n := range out {
		if first[i] {
			continue
		}
		k := counts[n] + 1
		cand := fmt.Sprintf("%s.%d", n, k)
		for used[cand] {
			k++
			cand = fmt.Sprintf("%s.%d", n, k)
		}
		counts[n] = k
		used[cand] = true
		out[i] = cand
	}
	return out
}
