package remedy

import (
	"sort"
	"sync"
	"time"
)

// MemoryStore is the non-durable backend: a process-lifetime mapping used
// for tests and ephemeral sessions. It implements the same contract as the
// durable backends.
type MemoryStore struct {
	mu       sync.RWMutex
	closed   bool
	patterns map[string]*ResolutionPattern
	issues   map[string]*CommonIssue
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		patterns: make(map[string]*ResolutionPattern),
		issues:   make(map[string]*CommonIssue),
	}
}

// SavePattern upserts a pattern by ID.
func (s *MemoryStore) SavePattern(p *ResolutionPattern) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrStoreClosed
	}
	if err := validatePattern(p); err != nil {
		return err
	}

	stored := clonePattern(p)
	normalizePattern(stored, time.Now().UTC())
	s.patterns[stored.ID] = stored

	// Reflect store-owned fields back to the caller.
	*p = *clonePattern(stored)
	return nil
}

// LoadPattern retrieves a pattern by ID.
func (s *MemoryStore) LoadPattern(id string) (*ResolutionPattern, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return nil, ErrStoreClosed
	}

	p, ok := s.patterns[id]
	if !ok {
		return nil, ErrNotFound
	}
	return clonePattern(p), nil
}

// UpdatePatternSuccess records a successful application of the pattern.
func (s *MemoryStore) UpdatePatternSuccess(id string, resolutionTime time.Duration) (*ResolutionPattern, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil, ErrStoreClosed
	}

	p, ok := s.patterns[id]
	if !ok {
		return nil, ErrNotFound
	}

	now := time.Now().UTC()
	applySuccess(p, durationMs(resolutionTime))
	p.LastUsed = now
	p.UpdatedAt = now
	return clonePattern(p), nil
}

// UpdatePatternFailure records a failed application of the pattern.
func (s *MemoryStore) UpdatePatternFailure(id string) (*ResolutionPattern, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil, ErrStoreClosed
	}

	p, ok := s.patterns[id]
	if !ok {
		return nil, ErrNotFound
	}

	now := time.Now().UTC()
	applyFailure(p)
	p.LastUsed = now
	p.UpdatedAt = now
	return clonePattern(p), nil
}

// AddPatternFeedback appends a feedback entry to the pattern.
func (s *MemoryStore) AddPatternFeedback(id, feedback string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrStoreClosed
	}
	if len(feedback) > MaxFeedbackLength {
		return ErrFeedbackTooLong
	}

	p, ok := s.patterns[id]
	if !ok {
		return ErrNotFound
	}

	p.UserFeedback = append(p.UserFeedback, feedback)
	p.UpdatedAt = time.Now().UTC()
	return nil
}

// DeletePattern removes a pattern, reporting whether it existed.
func (s *MemoryStore) DeletePattern(id string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return false, ErrStoreClosed
	}

	_, ok := s.patterns[id]
	delete(s.patterns, id)
	return ok, nil
}

// LoadAllPatterns returns a snapshot ordered by ID.
func (s *MemoryStore) LoadAllPatterns() ([]ResolutionPattern, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return nil, ErrStoreClosed
	}
	return snapshotPatterns(s.patterns), nil
}

// SaveCommonIssue upserts an issue keyed by signature.
func (s *MemoryStore) SaveCommonIssue(issue *CommonIssue) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrStoreClosed
	}
	if issue.Signature == "" {
		return ErrEmptySignature
	}

	stored := cloneIssue(issue)
	normalizeIssue(stored, time.Now().UTC())
	s.issues[stored.Signature] = stored
	return nil
}

// UpdateCommonIssue bumps the occurrence counter for a signature.
func (s *MemoryStore) UpdateCommonIssue(signature, context string) (*CommonIssue, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil, ErrStoreClosed
	}
	if signature == "" {
		return nil, ErrEmptySignature
	}

	issue := upsertIssue(s.issues, signature, context, time.Now().UTC())
	return cloneIssue(issue), nil
}

// LoadCommonIssues returns a snapshot ordered by signature.
func (s *MemoryStore) LoadCommonIssues() ([]CommonIssue, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return nil, ErrStoreClosed
	}
	return snapshotIssues(s.issues), nil
}

// PruneOldPatterns removes patterns unused for longer than maxAge.
func (s *MemoryStore) PruneOldPatterns(maxAge time.Duration) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return 0, ErrStoreClosed
	}

	now := time.Now().UTC()
	removed := 0
	for id, p := range s.patterns {
		if now.Sub(p.LastUsed) > maxAge {
			delete(s.patterns, id)
			removed++
		}
	}
	return removed, nil
}

// Close releases the store.
func (s *MemoryStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.closed = true
	return nil
}

// durationMs converts a duration to fractional milliseconds, the unit the
// persisted running mean is kept in.
func durationMs(d time.Duration) float64 {
	return float64(d) / float64(time.Millisecond)
}

// normalizeIssue fills lifecycle fields on a saved issue.
func normalizeIssue(issue *CommonIssue, now time.Time) {
	if issue.Occurrences < 1 {
		issue.Occurrences = 1
	}
	if issue.FirstSeen.IsZero() {
		issue.FirstSeen = now
	}
	if issue.LastSeen.IsZero() {
		issue.LastSeen = now
	}
}

// upsertIssue applies the occurrence-tracking rules to a signature map.
// Shared by the map-backed stores.
func upsertIssue(issues map[string]*CommonIssue, signature, context string, now time.Time) *CommonIssue {
	issue, ok := issues[signature]
	if !ok {
		issue = &CommonIssue{
			Signature:   signature,
			Occurrences: 1,
			FirstSeen:   now,
			LastSeen:    now,
		}
		issue.Contexts = appendUnique(issue.Contexts, context)
		issues[signature] = issue
		return issue
	}

	issue.Occurrences++
	issue.Contexts = appendUnique(issue.Contexts, context)
	issue.LastSeen = now
	return issue
}

// snapshotPatterns copies a pattern map into an ID-ordered slice.
func snapshotPatterns(patterns map[string]*ResolutionPattern) []ResolutionPattern {
	ids := make([]string, 0, len(patterns))
	for id := range patterns {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	out := make([]ResolutionPattern, 0, len(ids))
	for _, id := range ids {
		out = append(out, *clonePattern(patterns[id]))
	}
	return out
}

// snapshotIssues copies an issue map into a signature-ordered slice.
func snapshotIssues(issues map[string]*CommonIssue) []CommonIssue {
	sigs := make([]string, 0, len(issues))
	for sig := range issues {
		sigs = append(sigs, sig)
	}
	sort.Strings(sigs)

	out := make([]CommonIssue, 0, len(sigs))
	for _, sig := range sigs {
		out = append(out, *cloneIssue(issues[sig]))
	}
	return out
}
