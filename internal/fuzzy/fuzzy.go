// Package fuzzy scores string similarity on a 0-100 scale using
// Levenshtein distance normalized by the longer string's length.
package fuzzy

import (
	"strings"
	"unicode/utf8"

	"github.com/agnivade/levenshtein"
)

// Score returns the similarity of a and b in [0,100], where 100 means
// identical (case-insensitive). Two empty strings score 100. Lengths
// are counted in runes to match ComputeDistance, so multibyte input
// (Devanagari task names, say) is scored on the same scale as ASCII.
func Score(a, b string) int {
	a = strings.ToLower(a)
	b = strings.ToLower(b)
	maxLen := utf8.RuneCountInString(a)
	if n := utf8.RuneCountInString(b); n > maxLen {
		maxLen = n
	}
	if maxLen == 0 {
		return 100
	}
	dist := levenshtein.ComputeDistance(a, b)
	return 100 - (100*dist)/maxLen
}

// BestMatch returns the candidate with the highest score against query
// and that score. Ties keep the earlier candidate, so results are
// deterministic for identical inputs. An empty candidate list returns
// ("", 0).
func BestMatch(query string, candidates []string) (string, int) {
	best, bestScore := "", -1
	for _, c := range candidates {
		if s := Score(query, c); s > bestScore {
			best, bestScore = c, s
		}
	}
	if bestScore < 0 {
		return "", 0
	}
	return best, bestScore
}
