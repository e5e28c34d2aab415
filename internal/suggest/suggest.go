// Package suggest produces "did you mean" hints for failed command-path
// lookups (SPEC_FULL.md §4.I). It never affects resolution or control
// flow — it only improves the UnknownCommand diagnostic.
package suggest

import (
	"sort"

	"github.com/lithammer/fuzzysearch/fuzzy"
)

// Closest returns the sibling name that best fuzzy-matches target, or ""
// and false if candidates is empty or nothing resembles target at all.
func Closest(target string, candidates []string) (string, bool) {
	if len(candidates) == 0 {
		return "", false
	}
	ranks := fuzzy.RankFind(target, candidates)
	if len(ranks) == 0 {
		return "", false
	}
	sort.Sort(ranks)
	return ranks[0].Target, true
}
