package remedy

import (
	"math"
	"testing"
)

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-6
}

func TestDeriveConfidence(t *testing.T) {
	tests := []struct {
		name      string
		successes int
		failures  int
		want      float64
	}{
		{"no outcomes yields neutral prior", 0, 0, 0.5},
		{"all successes", 4, 0, 1.0},
		{"all failures", 0, 3, 0.0},
		{"three of four", 3, 1, 0.75},
		{"three of five", 3, 2, 0.6},
		{"single success", 1, 0, 1.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := DeriveConfidence(tt.successes, tt.failures)
			if !almostEqual(got, tt.want) {
				t.Errorf("DeriveConfidence(%d, %d) = %v, want %v", tt.successes, tt.failures, got, tt.want)
			}
		})
	}
}

func TestClampConfidence(t *testing.T) {
	if got := ClampConfidence(-0.2); got != 0 {
		t.Errorf("ClampConfidence(-0.2) = %v, want 0", got)
	}
	if got := ClampConfidence(1.7); got != 1 {
		t.Errorf("ClampConfidence(1.7) = %v, want 1", got)
	}
	if got := ClampConfidence(0.42); got != 0.42 {
		t.Errorf("ClampConfidence(0.42) = %v, want 0.42", got)
	}
}

func TestRunningMean(t *testing.T) {
	// First sample replaces the zero mean entirely.
	if got := runningMean(0, 0, 1500); !almostEqual(got, 1500) {
		t.Errorf("first sample: got %v, want 1500", got)
	}

	// Two samples at 1000, fold in 2000: (1000*2 + 2000) / 3.
	if got := runningMean(1000, 2, 2000); !almostEqual(got, 4000.0/3.0) {
		t.Errorf("third sample: got %v, want %v", got, 4000.0/3.0)
	}
}

func TestApplySuccessFoldsRunningMean(t *testing.T) {
	p := &ResolutionPattern{
		SuccessCount:    2,
		AvgResolutionMs: 1000,
	}

	applySuccess(p, 2000)

	if p.SuccessCount != 3 {
		t.Errorf("SuccessCount = %d, want 3", p.SuccessCount)
	}
	if !almostEqual(p.AvgResolutionMs, 4000.0/3.0) {
		t.Errorf("AvgResolutionMs = %v, want %v", p.AvgResolutionMs, 4000.0/3.0)
	}
	if !almostEqual(p.Confidence, 1.0) {
		t.Errorf("Confidence = %v, want 1.0", p.Confidence)
	}
}

func TestApplyFailureRecomputesConfidence(t *testing.T) {
	p := &ResolutionPattern{
		SuccessCount: 3,
		FailureCount: 1,
		Confidence:   0.75,
	}

	applyFailure(p)

	if p.FailureCount != 2 {
		t.Errorf("FailureCount = %d, want 2", p.FailureCount)
	}
	if !almostEqual(p.Confidence, 0.6) {
		t.Errorf("Confidence = %v, want 0.6", p.Confidence)
	}
}

func TestFailureDoesNotTouchResolutionTime(t *testing.T) {
	p := &ResolutionPattern{
		SuccessCount:    2,
		AvgResolutionMs: 1200,
	}

	applyFailure(p)

	if !almostEqual(p.AvgResolutionMs, 1200) {
		t.Errorf("AvgResolutionMs changed on failure: got %v", p.AvgResolutionMs)
	}
}

func TestSuccessRateIndependentOfConfidence(t *testing.T) {
	p := &ResolutionPattern{SuccessCount: 1, FailureCount: 3, Confidence: 0.9}
	if got := p.SuccessRate(); !almostEqual(got, 0.25) {
		t.Errorf("SuccessRate() = %v, want 0.25", got)
	}

	empty := &ResolutionPattern{}
	if got := empty.SuccessRate(); !almostEqual(got, ConfidenceNeutral) {
		t.Errorf("SuccessRate() with no outcomes = %v, want %v", got, ConfidenceNeutral)
	}
}
