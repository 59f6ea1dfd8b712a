// SPDX-License-Identifier: MPL-2.0

package tui

import (
	"sort"

	"github.com/charmbracelet/bubbles/list"
	"github.com/sahilm/fuzzy"
)

// listFilter adapts fuzzy ranking to the bubbles list filter contract,
// keeping matched rune indexes for highlighting.
func listFilter(term string, targets []string) []list.Rank {
	matches := fuzzy.Find(term, targets)
	sort.Stable(matches)

	ranks := make([]list.Rank, len(matches))
	for i, m := range matches {
		ranks[i] = list.Rank{Index: m.Index, MatchedIndexes: m.MatchedIndexes}
	}
	return ranks
}
