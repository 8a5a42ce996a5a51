package remedy

import "time"

// Store is the persistence contract shared by all backends. Every method is
// a self-contained unit of work: backends that persist to disk re-read the
// backing document, apply the change, and write the whole document back, so
// independent process invocations observe each other's committed writes.
//
// A missing ID surfaces as ErrNotFound from lookups and from outcome
// updates alike; silent no-ops would hide caller bugs.
type Store interface {
	// SavePattern upserts a pattern by ID. The pattern's solution payload is
	// stored verbatim without validation.
	SavePattern(p *ResolutionPattern) error

	// LoadPattern retrieves a pattern by ID, or ErrNotFound.
	LoadPattern(id string) (*ResolutionPattern, error)

	// UpdatePatternSuccess records a successful application, folding the
	// observed resolution time into the running mean and recomputing
	// confidence. Returns the updated pattern.
	UpdatePatternSuccess(id string, resolutionTime time.Duration) (*ResolutionPattern, error)

	// UpdatePatternFailure records a failed application and recomputes
	// confidence. Returns the updated pattern.
	UpdatePatternFailure(id string) (*ResolutionPattern, error)

	// AddPatternFeedback appends a free-form feedback entry to the pattern.
	AddPatternFeedback(id, feedback string) error

	// DeletePattern removes a pattern, reporting whether it existed.
	DeletePattern(id string) (bool, error)

	// LoadAllPatterns returns a full snapshot in a deterministic order.
	LoadAllPatterns() ([]ResolutionPattern, error)

	// SaveCommonIssue upserts an issue keyed by signature.
	SaveCommonIssue(issue *CommonIssue) error

	// UpdateCommonIssue bumps the occurrence counter for a signature,
	// recording the context tag if unseen. An unknown signature creates a
	// fresh entry with one occurrence; first sighting is not an error.
	UpdateCommonIssue(signature, context string) (*CommonIssue, error)

	// LoadCommonIssues returns all tracked issues in a deterministic order.
	LoadCommonIssues() ([]CommonIssue, error)

	// PruneOldPatterns removes every pattern whose last use is strictly
	// older than maxAge, returning the number removed.
	PruneOldPatterns(maxAge time.Duration) (int, error)

	// Close releases the backend. Further calls return ErrStoreClosed.
	Close() error
}

// clonePattern deep-copies a pattern so callers never alias store-owned
// slices.
func clonePattern(p *ResolutionPattern) *ResolutionPattern {
	if p == nil {
		return nil
	}
	clone := *p
	if p.Solution.Data != nil {
		clone.Solution.Data = append([]byte(nil), p.Solution.Data...)
	}
	if p.UserFeedback != nil {
		clone.UserFeedback = append([]string(nil), p.UserFeedback...)
	}
	return &clone
}

// cloneIssue deep-copies a common issue.
func cloneIssue(issue *CommonIssue) *CommonIssue {
	if issue == nil {
		return nil
	}
	clone := *issue
	if issue.Solutions != nil {
		clone.Solutions = append([]string(nil), issue.Solutions...)
	}
	if issue.Contexts != nil {
		clone.Contexts = append([]string(nil), issue.Contexts...)
	}
	return &clone
}

// appendUnique adds value to set if absent, preserving insertion order.
func appendUnique(set []string, value string) []string {
	if value == "" {
		return set
	}
	for _, v := range set {
		if v == value {
			return set
		}
	}
	return append(set, value)
}

// validatePattern enforces the store's own invariants before a save. The
// solution payload is deliberately not inspected.
func validatePattern(p *ResolutionPattern) error {
	if p.Signature == "" {
		return ErrEmptySignature
	}
	if len(p.Signature) > MaxSignatureLength {
		return ErrSignatureTooLong
	}
	if p.SuccessCount < 0 || p.FailureCount < 0 {
		return &ValidationError{Field: "counters", Message: "outcome counters must be non-negative"}
	}
	return nil
}

// normalizePattern fills lifecycle fields the store owns. Confidence is
// always recomputed from the counters so it can never be persisted out of
// sync with them.
func normalizePattern(p *ResolutionPattern, now time.Time) {
	p.Confidence = DeriveConfidence(p.SuccessCount, p.FailureCount)
	if p.CreatedAt.IsZero() {
		p.CreatedAt = now
	}
	if p.LastUsed.IsZero() {
		p.LastUsed = now
	}
	p.UpdatedAt = now
}
