package remedy

// DeriveConfidence computes the trust score from accumulated outcome
// counters: successes / (successes + failures), clamped to [0, 1]. With no
// outcomes recorded it returns the neutral prior rather than dividing by
// zero.
func DeriveConfidence(successes, failures int) float64 {
	total := successes + failures
	if total <= 0 {
		return ConfidenceNeutral
	}
	c := float64(successes) / float64(total)
	return ClampConfidence(c)
}

// ClampConfidence bounds a confidence value to [ConfidenceMin, ConfidenceMax].
func ClampConfidence(c float64) float64 {
	if c < ConfidenceMin {
		return ConfidenceMin
	}
	if c > ConfidenceMax {
		return ConfidenceMax
	}
	return c
}

// runningMean folds one new sample into a weighted running mean where n is
// the number of samples already folded in: (avg*n + sample) / (n+1).
func runningMean(avg float64, n int, sample float64) float64 {
	if n <= 0 {
		return sample
	}
	return (avg*float64(n) + sample) / float64(n+1)
}

// applySuccess records a successful application of the pattern, folding the
// observed resolution time into the running mean. n is the success count
// before the call, which is exactly the running mean's sample count because
// failures never contribute a resolution time.
func applySuccess(p *ResolutionPattern, resolutionMs float64) {
	p.AvgResolutionMs = runningMean(p.AvgResolutionMs, p.SuccessCount, resolutionMs)
	p.SuccessCount++
	p.Confidence = DeriveConfidence(p.SuccessCount, p.FailureCount)
}

// applyFailure records a failed application of the pattern.
func applyFailure(p *ResolutionPattern) {
	p.FailureCount++
	p.Confidence = DeriveConfidence(p.SuccessCount, p.FailureCount)
}
