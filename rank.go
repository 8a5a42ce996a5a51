package remedy

import "sort"

// RankPatterns filters and sorts a repository snapshot for retrieval:
// patterns below params.MinConfidence are dropped, the rest are sorted
// descending by the chosen key, and params.Limit (when positive) truncates
// the head of the sorted sequence.
//
// Ties retain the snapshot's relative order; no secondary tie-break key is
// defined. Backends return snapshots in a deterministic order, so ranked
// results are stable across calls.
func RankPatterns(patterns []ResolutionPattern, params RankParams) ([]ResolutionPattern, error) {
	sortBy := params.SortBy
	if sortBy == "" {
		sortBy = RankByConfidence
	}
	if !sortBy.IsValid() {
		return nil, ErrInvalidSortKey
	}

	ranked := make([]ResolutionPattern, 0, len(patterns))
	for _, p := range patterns {
		if p.Confidence >= params.MinConfidence {
			ranked = append(ranked, p)
		}
	}

	var less func(i, j int) bool
	switch sortBy {
	case RankByConfidence:
		less = func(i, j int) bool { return ranked[i].Confidence > ranked[j].Confidence }
	case RankBySuccessRate:
		less = func(i, j int) bool { return ranked[i].SuccessRate() > ranked[j].SuccessRate() }
	case RankByRecentUse:
		less = func(i, j int) bool { return ranked[i].LastUsed.After(ranked[j].LastUsed) }
	}
	sort.SliceStable(ranked, less)

	if params.Limit > 0 && len(ranked) > params.Limit {
		ranked = ranked[:params.Limit]
	}

	return ranked, nil
}
