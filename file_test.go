package remedy

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func newTestFileStore(t *testing.T) (*FileStore, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "patterns.json")
	s, err := NewFileStore(path)
	if err != nil {
		t.Fatalf("NewFileStore: %v", err)
	}
	return s, path
}

func TestFileStoreCreatesParentDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "deeper", "patterns.json")
	s, err := NewFileStore(path)
	if err != nil {
		t.Fatalf("NewFileStore: %v", err)
	}
	defer s.Close()

	if err := s.SavePattern(testPattern("pat-1")); err != nil {
		t.Fatalf("SavePattern: %v", err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Errorf("document not written: %v", err)
	}
}

func TestFileStoreMissingFileIsEmptyStore(t *testing.T) {
	s, _ := newTestFileStore(t)
	defer s.Close()

	all, err := s.LoadAllPatterns()
	if err != nil {
		t.Fatalf("LoadAllPatterns: %v", err)
	}
	if len(all) != 0 {
		t.Errorf("expected empty store, got %d patterns", len(all))
	}
}

// Statistics must accumulate across independent store instances against the
// same path: each open observes every prior committed write.
func TestFileStoreCrossSessionAccumulation(t *testing.T) {
	path := filepath.Join(t.TempDir(), "patterns.json")

	// First invocation: seed a pattern with history.
	s1, err := NewFileStore(path)
	if err != nil {
		t.Fatalf("NewFileStore (first): %v", err)
	}
	p := testPattern("pat-1")
	p.SuccessCount = 5
	p.AvgResolutionMs = 1000
	if err := s1.SavePattern(p); err != nil {
		t.Fatalf("SavePattern: %v", err)
	}
	if err := s1.Close(); err != nil {
		t.Fatalf("Close (first): %v", err)
	}

	// Second invocation: record one more success.
	s2, err := NewFileStore(path)
	if err != nil {
		t.Fatalf("NewFileStore (second): %v", err)
	}
	updated, err := s2.UpdatePatternSuccess("pat-1", 800*time.Millisecond)
	if err != nil {
		t.Fatalf("UpdatePatternSuccess: %v", err)
	}
	if updated.SuccessCount != 6 {
		t.Errorf("SuccessCount = %d, want 6", updated.SuccessCount)
	}
	if !almostEqual(updated.AvgResolutionMs, 5800.0/6.0) {
		t.Errorf("AvgResolutionMs = %v, want %v", updated.AvgResolutionMs, 5800.0/6.0)
	}
	if err := s2.Close(); err != nil {
		t.Fatalf("Close (second): %v", err)
	}

	// Third invocation observes the combined history.
	s3, err := NewFileStore(path)
	if err != nil {
		t.Fatalf("NewFileStore (third): %v", err)
	}
	defer s3.Close()

	got, err := s3.LoadPattern("pat-1")
	if err != nil {
		t.Fatalf("LoadPattern: %v", err)
	}
	if got.SuccessCount != 6 {
		t.Errorf("persisted SuccessCount = %d, want 6", got.SuccessCount)
	}
	if !almostEqual(got.AvgResolutionMs, 5800.0/6.0) {
		t.Errorf("persisted AvgResolutionMs = %v, want %v", got.AvgResolutionMs, 5800.0/6.0)
	}
	if !almostEqual(got.Confidence, 1.0) {
		t.Errorf("persisted Confidence = %v, want 1.0", got.Confidence)
	}
}

func TestFileStoreCorruptDocumentFailsOpen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "patterns.json")
	if err := os.WriteFile(path, []byte("{not json"), 0644); err != nil {
		t.Fatalf("seed corrupt file: %v", err)
	}

	_, err := NewFileStore(path)
	if !errors.Is(err, ErrStoreCorrupted) {
		t.Fatalf("expected ErrStoreCorrupted, got %v", err)
	}

	var corruption *CorruptionError
	if !errors.As(err, &corruption) {
		t.Fatalf("expected *CorruptionError, got %T", err)
	}
	if corruption.Path != path {
		t.Errorf("CorruptionError.Path = %q, want %q", corruption.Path, path)
	}

	// The corrupt document is never overwritten.
	data, readErr := os.ReadFile(path)
	if readErr != nil {
		t.Fatalf("read back: %v", readErr)
	}
	if string(data) != "{not json" {
		t.Error("corrupt document was modified")
	}
}

func TestFileStoreEmptyFileIsEmptyStore(t *testing.T) {
	path := filepath.Join(t.TempDir(), "patterns.json")
	if err := os.WriteFile(path, nil, 0644); err != nil {
		t.Fatalf("seed empty file: %v", err)
	}

	s, err := NewFileStore(path)
	if err != nil {
		t.Fatalf("NewFileStore: %v", err)
	}
	defer s.Close()

	all, err := s.LoadAllPatterns()
	if err != nil {
		t.Fatalf("LoadAllPatterns: %v", err)
	}
	if len(all) != 0 {
		t.Errorf("expected empty store, got %d patterns", len(all))
	}
}

func TestFileStoreDocumentRoundTrips(t *testing.T) {
	s, path := newTestFileStore(t)
	defer s.Close()

	p := testPattern("pat-1")
	if err := s.SavePattern(p); err != nil {
		t.Fatalf("SavePattern: %v", err)
	}
	if _, err := s.UpdateCommonIssue("disk pressure", "production"); err != nil {
		t.Fatalf("UpdateCommonIssue: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read document: %v", err)
	}

	var doc struct {
		Version  string                         `json:"version"`
		Patterns map[string]json.RawMessage     `json:"patterns"`
		Issues   map[string]json.RawMessage     `json:"issues"`
	}
	if err := json.Unmarshal(data, &doc); err != nil {
		t.Fatalf("document not valid JSON: %v", err)
	}
	if doc.Version != documentVersion {
		t.Errorf("version = %q, want %q", doc.Version, documentVersion)
	}
	if _, ok := doc.Patterns["pat-1"]; !ok {
		t.Error("pattern missing from document")
	}
	if _, ok := doc.Issues["disk pressure"]; !ok {
		t.Error("issue missing from document")
	}
}

func TestFileStoreLeavesNoTempFiles(t *testing.T) {
	s, path := newTestFileStore(t)
	defer s.Close()

	for i := 0; i < 5; i++ {
		if err := s.SavePattern(testPattern("pat-1")); err != nil {
			t.Fatalf("SavePattern: %v", err)
		}
	}

	entries, err := os.ReadDir(filepath.Dir(path))
	if err != nil {
		t.Fatalf("list directory: %v", err)
	}
	if len(entries) != 1 {
		names := make([]string, 0, len(entries))
		for _, e := range entries {
			names = append(names, e.Name())
		}
		t.Errorf("leftover files after writes: %v", names)
	}
}

func TestFileStoreFailedMutationLeavesDocumentIntact(t *testing.T) {
	s, path := newTestFileStore(t)
	defer s.Close()

	if err := s.SavePattern(testPattern("pat-1")); err != nil {
		t.Fatalf("SavePattern: %v", err)
	}
	before, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read document: %v", err)
	}

	// Unknown ID aborts the cycle before the write step.
	if _, err := s.UpdatePatternSuccess("ghost", time.Second); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	after, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read document: %v", err)
	}
	if string(before) != string(after) {
		t.Error("failed mutation rewrote the document")
	}
}
