package textutil

import (
	"regexp"
	"strings"

	"github.com/antzucaro/matchr"
)

var whitespaceRegex = regexp.MustCompile(`\s+`)

// NormalizeName lowercases a name and strips all whitespace from it.
func NormalizeName(name string) string {
	name = strings.ToLower(name)
	name = strings.Trim(name, " \n\t")
	name = whitespaceRegex.ReplaceAllString(name, "")
	return name
}

// BestMatch returns the index of the candidate that best matches the target
// and its similarity. An exact match after normalization always wins with a
// similarity of 1, otherwise candidates are ranked by Jaro-Winkler similarity
// with ties going to the earlier candidate.
//
// -1 is returned when there are no candidates.
func BestMatch(target string, candidates []string) (int, float64) {
	normalizedTarget := NormalizeName(target)

	for i, c := range candidates {
		if NormalizeName(c) == normalizedTarget {
			return i, 1
		}
	}

	best := -1
	var mostSimilarity float64
	for i, c := range candidates {
		similarity := matchr.JaroWinkler(normalizedTarget, NormalizeName(c), false)
		if best < 0 || similarity > mostSimilarity {
			best = i
			mostSimilarity = similarity
		}
	}
	return best, mostSimilarity
}
