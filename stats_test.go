package remedy

import "testing"

func TestComputePatternStatsEmpty(t *testing.T) {
	stats := ComputePatternStats(nil)

	if stats.TotalPatterns != 0 {
		t.Errorf("TotalPatterns = %d, want 0", stats.TotalPatterns)
	}
	if stats.AverageConfidence != 0 {
		t.Errorf("AverageConfidence = %v, want 0", stats.AverageConfidence)
	}
	if stats.MostSuccessful != nil {
		t.Errorf("MostSuccessful should be nil for an empty store")
	}
}

func TestComputePatternStatsAggregates(t *testing.T) {
	patterns := []ResolutionPattern{
		{ID: "a", ProblemType: "protocol", SuccessCount: 5, FailureCount: 1, Confidence: 0.8},
		{ID: "b", ProblemType: "protocol", SuccessCount: 2, FailureCount: 2, Confidence: 0.5},
		{ID: "c", ProblemType: "security", SuccessCount: 8, FailureCount: 0, Confidence: 1.0},
	}

	stats := ComputePatternStats(patterns)

	if stats.TotalPatterns != 3 {
		t.Errorf("TotalPatterns = %d, want 3", stats.TotalPatterns)
	}
	if stats.TotalSuccesses != 15 {
		t.Errorf("TotalSuccesses = %d, want 15", stats.TotalSuccesses)
	}
	if stats.TotalFailures != 3 {
		t.Errorf("TotalFailures = %d, want 3", stats.TotalFailures)
	}
	if !almostEqual(stats.AverageConfidence, 2.3/3.0) {
		t.Errorf("AverageConfidence = %v, want %v", stats.AverageConfidence, 2.3/3.0)
	}
	if stats.MostSuccessful == nil || stats.MostSuccessful.ID != "c" {
		t.Errorf("MostSuccessful = %+v, want pattern c", stats.MostSuccessful)
	}
	if stats.PatternsByType["protocol"] != 2 || stats.PatternsByType["security"] != 1 {
		t.Errorf("PatternsByType = %v", stats.PatternsByType)
	}
}

func TestComputePatternStatsMostSuccessfulTieKeepsFirst(t *testing.T) {
	patterns := []ResolutionPattern{
		{ID: "first", SuccessCount: 3},
		{ID: "second", SuccessCount: 3},
	}

	stats := ComputePatternStats(patterns)
	if stats.MostSuccessful.ID != "first" {
		t.Errorf("tie broke to %s, want first", stats.MostSuccessful.ID)
	}
}

func TestComputePatternStatsClonesMostSuccessful(t *testing.T) {
	patterns := []ResolutionPattern{
		{ID: "a", SuccessCount: 1, UserFeedback: []string{"worked"}},
	}

	stats := ComputePatternStats(patterns)
	stats.MostSuccessful.UserFeedback[0] = "mutated"

	if patterns[0].UserFeedback[0] != "worked" {
		t.Error("MostSuccessful aliases the input snapshot")
	}
}
