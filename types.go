package remedy

import (
	"encoding/json"
	"time"
)

// Solution is the caller-owned remediation payload. The store never
// interprets Data; callers deserialize it with their own types and use
// SchemaVersion to pick the right decoder.
type Solution struct {
	SchemaVersion string          `json:"schema_version,omitempty"`
	Data          json.RawMessage `json:"data"`
}

// ResolutionPattern is a remembered problem/solution association with
// accumulated outcome statistics.
type ResolutionPattern struct {
	ID              string    `json:"id"`
	ProblemType     string    `json:"problem_type"`
	Signature       string    `json:"problem_signature"`
	Solution        Solution  `json:"solution"`
	SuccessCount    int       `json:"success_count"`
	FailureCount    int       `json:"failure_count"`
	AvgResolutionMs float64   `json:"average_resolution_time_ms"`
	Confidence      float64   `json:"confidence"`
	LastUsed        time.Time `json:"last_used"`
	UserFeedback    []string  `json:"user_feedback,omitempty"`
	SourceID        string    `json:"source_id,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// SuccessRate computes the success ratio from the raw counters. It uses the
// same formula as the derived Confidence field but is computed independently
// so the two sort keys may diverge in the future.
func (p *ResolutionPattern) SuccessRate() float64 {
	total := p.SuccessCount + p.FailureCount
	if total == 0 {
		return ConfidenceNeutral
	}
	return float64(p.SuccessCount) / float64(total)
}

// CommonIssue is a lightweight signature-keyed occurrence tally, independent
// of any resolution pattern covering the same problem space.
type CommonIssue struct {
	Signature   string    `json:"signature"`
	Occurrences int       `json:"occurrences"`
	Solutions   []string  `json:"solutions,omitempty"`
	Contexts    []string  `json:"contexts,omitempty"`
	FirstSeen   time.Time `json:"first_seen"`
	LastSeen    time.Time `json:"last_seen"`
}

// RankBy selects the sort key for ranked retrieval.
type RankBy string

const (
	// RankByConfidence sorts by the stored derived confidence.
	RankByConfidence RankBy = "confidence"
	// RankBySuccessRate sorts by the independently computed success ratio.
	RankBySuccessRate RankBy = "successRate"
	// RankByRecentUse sorts by last-used timestamp, most recent first.
	RankByRecentUse RankBy = "recentUse"
)

// IsValid checks if the sort key is a known ranking mode.
func (r RankBy) IsValid() bool {
	switch r {
	case RankByConfidence, RankBySuccessRate, RankByRecentUse:
		return true
	}
	return false
}

// RankParams configures ranked retrieval.
type RankParams struct {
	MinConfidence float64 `json:"min_confidence,omitempty"`
	SortBy        RankBy  `json:"sort_by,omitempty"`
	Limit         int     `json:"limit,omitempty"` // 0 means unlimited
}

// PatternMatch pairs a pattern with its similarity score against a query.
type PatternMatch struct {
	Pattern ResolutionPattern `json:"pattern"`
	Score   float64           `json:"score"`
}

// PatternStats is an aggregate snapshot over the whole repository, computed
// freshly on every call.
type PatternStats struct {
	TotalPatterns     int                `json:"total_patterns"`
	TotalSuccesses    int                `json:"total_successes"`
	TotalFailures     int                `json:"total_failures"`
	AverageConfidence float64            `json:"average_confidence"`
	MostSuccessful    *ResolutionPattern `json:"most_successful_pattern,omitempty"`
	PatternsByType    map[string]int     `json:"patterns_by_type"`
}

// SessionPattern describes a pattern surfaced during the current session.
type SessionPattern struct {
	SessionRef string  `json:"session_ref"` // P1, P2, etc.
	ID         string  `json:"id"`
	Signature  string  `json:"problem_signature"`
	Confidence float64 `json:"confidence"`
}

// Confidence bounds and defaults.
const (
	// ConfidenceNeutral is the bootstrap prior used before any outcome has
	// been observed (both counters zero).
	ConfidenceNeutral = 0.5
	ConfidenceMin     = 0.0
	ConfidenceMax     = 1.0
)

// Content limits.
const (
	MaxSignatureLength = 1000
	MaxFeedbackLength  = 2000
)
