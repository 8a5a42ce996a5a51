package remedy

import (
	"sort"
	"strings"
)

// TokenSet tokenizes free text for lexical matching: lowercase, split on
// whitespace, duplicates collapsed.
func TokenSet(s string) map[string]struct{} {
	fields := strings.Fields(strings.ToLower(s))
	set := make(map[string]struct{}, len(fields))
	for _, f := range fields {
		set[f] = struct{}{}
	}
	return set
}

// Jaccard computes the Jaccard coefficient |a ∩ b| / |a ∪ b| of two token
// sets. Two empty sets score 0, not 1: an empty signature matches nothing.
func Jaccard(a, b map[string]struct{}) float64 {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}

	// Iterate the smaller set.
	small, large := a, b
	if len(b) < len(a) {
		small, large = b, a
	}

	intersection := 0
	for tok := range small {
		if _, ok := large[tok]; ok {
			intersection++
		}
	}

	union := len(a) + len(b) - intersection
	return float64(intersection) / float64(union)
}

// Matcher scores stored problem signatures against a free-text query.
//
// Pure lexical overlap tolerates paraphrased problem text without embeddings
// or external models; it will miss semantically equivalent but lexically
// distinct descriptions. That trade-off suits an offline CLI cache.
type Matcher struct{}

// Match scores every pattern against the query, keeps those at or above the
// threshold, and returns them sorted by descending score. Ties keep the
// candidates' relative order.
func (m *Matcher) Match(query string, patterns []ResolutionPattern, threshold float64) []PatternMatch {
	queryTokens := TokenSet(query)

	matches := make([]PatternMatch, 0, len(patterns))
	for _, p := range patterns {
		score := Jaccard(queryTokens, TokenSet(p.Signature))
		if score >= threshold {
			matches = append(matches, PatternMatch{Pattern: p, Score: score})
		}
	}

	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].Score > matches[j].Score
	})

	return matches
}
