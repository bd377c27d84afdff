package dataset

import (
	"strings"

	"github.com/agnivade/levenshtein"
)

// ClosestRegion resolves free-typed input to one of candidates. A case-insensitive
// exact match wins, then the first candidate starting with the input. Otherwise the
// candidate with the smallest edit distance relative to the longer string is chosen
// if that ratio is below threshold. Ties keep the earlier candidate.
func ClosestRegion(query string, candidates []string, threshold float64) (string, bool) {
	q := strings.ToUpper(strings.TrimSpace(query))
	if q == "" {
		return "", false
	}
	for _, c := range candidates {
		if strings.ToUpper(c) == q {
			return c, true
		}
	}
	for _, c := range candidates {
		if strings.HasPrefix(strings.ToUpper(c), q) {
			return c, true
		}
	}
	best, bestScore := "", threshold
	for _, c := range candidates {
		cu := strings.ToUpper(c)
		dist := levenshtein.ComputeDistance(q, cu)
		maxlen := max(len(q), len(cu))
		score := float64(dist) / float64(maxlen)
		if score < bestScore {
			best, bestScore = c, score
		}
	}
	return best, best != ""
}
