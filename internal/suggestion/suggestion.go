// Package suggestion ranks near-miss names for "did you mean" hints.
package suggestion

import (
	"sort"
	"strconv"
	"strings"

	"github.com/agnivade/levenshtein"
)

// List returns the candidates judged close enough to target, best match
// first. A candidate qualifies when its edit distance stays within half the
// length of the longer of the two names (at least 1). Ties keep the order in
// which candidates were supplied, so the result is deterministic for
// identical inputs.
func List(target string, candidates []string) []string {
	var results []string
	distances := map[string]int{}
	targetThreshold := len(target) / 2

	for _, candidate := range candidates {
		d := distance(target, candidate)
		threshold := max(targetThreshold, len(candidate)/2, 1)
		if d <= threshold {
			results = append(results, candidate)
			distances[candidate] = d
		}
	}

	sort.SliceStable(results, func(i, j int) bool {
		return distances[results[i]] < distances[results[j]]
	})
	return results
}

// A case-only mismatch counts as a single edit so that e.g. "iD" still
// suggests "id" even when the plain edit distance would exceed the threshold.
func distance(a, b string) int {
	if a == b {
		return 0
	}
	if strings.EqualFold(a, b) {
		return 1
	}
	return levenshtein.ComputeDistance(a, b)
}

const maxListed = 5

// QuotedOrList renders names as a human-readable quoted disjunction,
// e.g. `"a", "b", or "c"`. At most five names are listed.
func QuotedOrList(names []string) string {
	if len(names) > maxListed {
		names = names[:maxListed]
	}
	quoted := make([]string, len(names))
	for i, name := range names {
		quoted[i] = strconv.Quote(name)
	}
	switch len(quoted) {
	case 0:
		return ""
	case 1:
		return quoted[0]
	case 2:
		return quoted[0] + " or " + quoted[1]
	default:
		return strings.Join(quoted[:len(quoted)-1], ", ") + ", or " + quoted[len(quoted)-1]
	}
}
