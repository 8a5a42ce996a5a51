package remedy

import "testing"

func TestSessionTrackAssignsSequentialRefs(t *testing.T) {
	s := NewSession()

	if ref := s.Track("id-a"); ref != "P1" {
		t.Errorf("first ref = %q, want P1", ref)
	}
	if ref := s.Track("id-b"); ref != "P2" {
		t.Errorf("second ref = %q, want P2", ref)
	}
}

func TestSessionTrackIsIdempotentPerID(t *testing.T) {
	s := NewSession()

	first := s.Track("id-a")
	second := s.Track("id-a")
	if first != second {
		t.Errorf("re-tracking assigned a new ref: %q then %q", first, second)
	}
	if s.Count() != 1 {
		t.Errorf("Count = %d, want 1", s.Count())
	}
}

func TestSessionResolve(t *testing.T) {
	s := NewSession()
	s.Track("id-a")

	id, ok := s.Resolve("P1")
	if !ok || id != "id-a" {
		t.Errorf("Resolve(P1) = %q, %v", id, ok)
	}
	if _, ok := s.Resolve("P99"); ok {
		t.Error("Resolve(P99) should miss")
	}
}

func TestSessionClear(t *testing.T) {
	s := NewSession()
	s.Track("id-a")
	s.Clear()

	if s.Count() != 0 {
		t.Errorf("Count after Clear = %d, want 0", s.Count())
	}
	// Refs restart from P1.
	if ref := s.Track("id-b"); ref != "P1" {
		t.Errorf("ref after Clear = %q, want P1", ref)
	}
}

func TestSessionFuzzyMatch(t *testing.T) {
	s := NewSession()
	s.Track("id-a")

	lookup := func(id string) string {
		if id == "id-a" {
			return "Connection Timeout Error Network"
		}
		return ""
	}

	// Session ref.
	if id, ok := s.FuzzyMatch("P1", lookup); !ok || id != "id-a" {
		t.Errorf("FuzzyMatch(P1) = %q, %v", id, ok)
	}
	// Direct ID.
	if id, ok := s.FuzzyMatch("id-a", lookup); !ok || id != "id-a" {
		t.Errorf("FuzzyMatch(id-a) = %q, %v", id, ok)
	}
	// Case-insensitive signature snippet.
	if id, ok := s.FuzzyMatch("timeout error", lookup); !ok || id != "id-a" {
		t.Errorf("FuzzyMatch(snippet) = %q, %v", id, ok)
	}
	// Unknown ref.
	if _, ok := s.FuzzyMatch("nothing here", lookup); ok {
		t.Error("FuzzyMatch should miss for unrelated text")
	}
}
