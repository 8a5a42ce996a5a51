package remedy

// ComputePatternStats aggregates a repository snapshot. It is always
// computed from the snapshot handed in, never cached, so callers see the
// store as it is at the moment of the call.
func ComputePatternStats(patterns []ResolutionPattern) *PatternStats {
	stats := &PatternStats{
		TotalPatterns:  len(patterns),
		PatternsByType: make(map[string]int),
	}

	var confidenceSum float64
	for i := range patterns {
		p := &patterns[i]
		stats.TotalSuccesses += p.SuccessCount
		stats.TotalFailures += p.FailureCount
		confidenceSum += p.Confidence
		stats.PatternsByType[p.ProblemType]++

		if stats.MostSuccessful == nil || p.SuccessCount > stats.MostSuccessful.SuccessCount {
			clone := clonePattern(p)
			stats.MostSuccessful = clone
		}
	}

	if len(patterns) > 0 {
		stats.AverageConfidence = confidenceSum / float64(len(patterns))
	}

	return stats
}
