package remedy

import (
	"fmt"
	"strings"
	"sync"
)

// Session tracks patterns surfaced during a single process invocation so
// outcome and feedback reports can reference them by a short ref instead of
// a full ID.
type Session struct {
	mu       sync.Mutex
	patterns map[string]string // session ref (P1, P2) -> pattern ID
	reverse  map[string]string // pattern ID -> session ref
	counter  int
}

// NewSession creates a new session tracker.
func NewSession() *Session {
	return &Session{
		patterns: make(map[string]string),
		reverse:  make(map[string]string),
	}
}

// Track adds a pattern to the session and returns its session reference.
func (s *Session) Track(id string) string {
	s.mu.Lock()
	defer s.mu.Unlock()

	if ref, ok := s.reverse[id]; ok {
		return ref
	}

	s.counter++
	ref := fmt.Sprintf("P%d", s.counter)
	s.patterns[ref] = id
	s.reverse[id] = ref
	return ref
}

// Resolve converts a session reference to a pattern ID.
func (s *Session) Resolve(ref string) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id, ok := s.patterns[ref]
	return id, ok
}

// All returns all tracked session patterns as ref -> ID.
func (s *Session) All() map[string]string {
	s.mu.Lock()
	defer s.mu.Unlock()

	result := make(map[string]string, len(s.patterns))
	for ref, id := range s.patterns {
		result[ref] = id
	}
	return result
}

// Count returns the number of patterns tracked this session.
func (s *Session) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.patterns)
}

// Clear resets the session tracking.
func (s *Session) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.patterns = make(map[string]string)
	s.reverse = make(map[string]string)
	s.counter = 0
}

// FuzzyMatch attempts to match a reference string to a tracked pattern.
// It accepts:
// - Session refs (P1, P2, etc.)
// - Pattern IDs directly
// - Signature snippets (partial match against the stored signature)
func (s *Session) FuzzyMatch(ref string, signatureLookup func(id string) string) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	// Try direct session ref
	if id, ok := s.patterns[ref]; ok {
		return id, true
	}

	// Try as direct pattern ID
	if _, ok := s.reverse[ref]; ok {
		return ref, true
	}

	// Try signature snippet match
	refLower := strings.ToLower(ref)
	for _, id := range s.patterns {
		sig := signatureLookup(id)
		if strings.Contains(strings.ToLower(sig), refLower) {
			return id, true
		}
	}

	return "", false
}
