package remedy

import (
	"errors"
	"testing"
	"time"
)

func TestRankPatternsFiltersAndSorts(t *testing.T) {
	patterns := []ResolutionPattern{
		{ID: "a", Confidence: 0.83},
		{ID: "b", Confidence: 0.5},
		{ID: "c", Confidence: 0.95},
	}

	ranked, err := RankPatterns(patterns, RankParams{MinConfidence: 0.7})
	if err != nil {
		t.Fatalf("RankPatterns: %v", err)
	}

	if len(ranked) != 2 {
		t.Fatalf("expected 2 patterns, got %d", len(ranked))
	}
	if ranked[0].ID != "c" || ranked[1].ID != "a" {
		t.Errorf("order = [%s, %s], want [c, a]", ranked[0].ID, ranked[1].ID)
	}
}

func TestRankPatternsThresholdIsInclusive(t *testing.T) {
	patterns := []ResolutionPattern{
		{ID: "exact", Confidence: 0.7},
	}

	ranked, err := RankPatterns(patterns, RankParams{MinConfidence: 0.7})
	if err != nil {
		t.Fatalf("RankPatterns: %v", err)
	}
	if len(ranked) != 1 {
		t.Errorf("pattern at exact threshold excluded; got %d results", len(ranked))
	}
}

func TestRankPatternsDefaultSortKey(t *testing.T) {
	patterns := []ResolutionPattern{
		{ID: "low", Confidence: 0.2},
		{ID: "high", Confidence: 0.9},
	}

	ranked, err := RankPatterns(patterns, RankParams{})
	if err != nil {
		t.Fatalf("RankPatterns: %v", err)
	}
	if ranked[0].ID != "high" {
		t.Errorf("default sort should be by confidence descending, got %s first", ranked[0].ID)
	}
}

func TestRankPatternsBySuccessRate(t *testing.T) {
	patterns := []ResolutionPattern{
		{ID: "a", SuccessCount: 1, FailureCount: 3, Confidence: 0.25},
		{ID: "b", SuccessCount: 9, FailureCount: 1, Confidence: 0.9},
	}

	ranked, err := RankPatterns(patterns, RankParams{SortBy: RankBySuccessRate})
	if err != nil {
		t.Fatalf("RankPatterns: %v", err)
	}
	if ranked[0].ID != "b" {
		t.Errorf("success rate sort: got %s first, want b", ranked[0].ID)
	}
}

func TestRankPatternsByRecentUse(t *testing.T) {
	now := time.Now().UTC()
	patterns := []ResolutionPattern{
		{ID: "stale", Confidence: 0.9, LastUsed: now.Add(-48 * time.Hour)},
		{ID: "fresh", Confidence: 0.1, LastUsed: now},
	}

	ranked, err := RankPatterns(patterns, RankParams{SortBy: RankByRecentUse})
	if err != nil {
		t.Fatalf("RankPatterns: %v", err)
	}
	if ranked[0].ID != "fresh" {
		t.Errorf("recent use sort: got %s first, want fresh", ranked[0].ID)
	}
}

func TestRankPatternsLimit(t *testing.T) {
	patterns := []ResolutionPattern{
		{ID: "a", Confidence: 0.9},
		{ID: "b", Confidence: 0.8},
		{ID: "c", Confidence: 0.7},
	}

	ranked, err := RankPatterns(patterns, RankParams{Limit: 2})
	if err != nil {
		t.Fatalf("RankPatterns: %v", err)
	}
	if len(ranked) != 2 {
		t.Fatalf("limit 2: got %d results", len(ranked))
	}
	if ranked[0].ID != "a" || ranked[1].ID != "b" {
		t.Errorf("limit should keep the head: got [%s, %s]", ranked[0].ID, ranked[1].ID)
	}
}

func TestRankPatternsTiesKeepSnapshotOrder(t *testing.T) {
	patterns := []ResolutionPattern{
		{ID: "first", Confidence: 0.5},
		{ID: "second", Confidence: 0.5},
		{ID: "third", Confidence: 0.5},
	}

	ranked, err := RankPatterns(patterns, RankParams{})
	if err != nil {
		t.Fatalf("RankPatterns: %v", err)
	}
	for i, want := range []string{"first", "second", "third"} {
		if ranked[i].ID != want {
			t.Errorf("position %d = %s, want %s", i, ranked[i].ID, want)
		}
	}
}

func TestRankPatternsInvalidSortKey(t *testing.T) {
	_, err := RankPatterns(nil, RankParams{SortBy: "popularity"})
	if !errors.Is(err, ErrInvalidSortKey) {
		t.Errorf("expected ErrInvalidSortKey, got %v", err)
	}
}

func TestRankPatternsEmptyInput(t *testing.T) {
	ranked, err := RankPatterns(nil, RankParams{MinConfidence: 0.9})
	if err != nil {
		t.Fatalf("RankPatterns: %v", err)
	}
	if len(ranked) != 0 {
		t.Errorf("expected empty result, got %d", len(ranked))
	}
}
