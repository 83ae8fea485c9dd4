// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package sources

import (
	"sort"
	"strings"

	"github.com/pdiddy/study-scroller/pkg/types"
)

// NoAbstract is the card text used when a work carries no abstract index.
const NoAbstract = "No abstract available."

// ReconstructAbstract converts OpenAlex's abstract_inverted_index back to
// plain text and truncates it to the default card text limit.
func ReconstructAbstract(invertedIndex map[string][]int) string {
	return reconstructAbstract(invertedIndex, types.DefaultTextLimit)
}

// reconstructAbstract places each word at each of its positions and joins
// the words with single spaces. Uncovered positions are gaps that collapse
// in the join. When two words claim the same position the winner is
// unspecified. Negative positions are ignored.
func reconstructAbstract(invertedIndex map[string][]int, limit int) string {
	if len(invertedIndex) == 0 {
		return NoAbstract
	}

	byPos := make(map[int]string)
	for word, positions := range invertedIndex {
		for _, pos := range positions {
			if pos < 0 {
				continue
			}
			byPos[pos] = word
		}
	}
	if len(byPos) == 0 {
		return NoAbstract
	}

	positions := make([]int, 0, len(byPos))
	for pos := range byPos {
		positions = append(positions, pos)
	}
	sort.Ints(positions)

	words := make([]string, len(positions))
	for i, pos := range positions {
		words[i] = byPos[pos]
	}
	return Truncate(strings.Join(words, " "), limit)
}
