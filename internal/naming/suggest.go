package naming

import (
	"strings"

	"github.com/agnivade/levenshtein"
)

// Closest returns the candidate nearest to s by edit distance, ignoring case.
// It returns false when no candidate is within half the length of s.
func Closest(s string, candidates []string) (string, bool) {
	best, bestDist := "", -1
	needle := strings.ToLower(s)

	for _, c := range candidates {
		d := levenshtein.ComputeDistance(needle, strings.ToLower(c))
		if bestDist < 0 || d < bestDist {
			best, bestDist = c, d
		}
	}

	if bestDist < 0 || bestDist > max(1, len(s)/2) {
		return "", false
	}

	return best, true
}
