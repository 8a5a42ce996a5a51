package remedy

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// documentVersion is the current on-disk document format version.
const documentVersion = "1"

// document is the single JSON document a FileStore keeps at its path: both
// top-level collections, human-diffable, round-tripping across save/load
// cycles.
type document struct {
	Version  string                        `json:"version"`
	Patterns map[string]*ResolutionPattern `json:"patterns"`
	Issues   map[string]*CommonIssue       `json:"issues"`
}

func newDocument() *document {
	return &document{
		Version:  documentVersion,
		Patterns: make(map[string]*ResolutionPattern),
		Issues:   make(map[string]*CommonIssue),
	}
}

// FileStore is the durable backend. Every mutation re-reads the backing
// document, applies the change, and atomically replaces the file, so a
// store opened later against the same path observes all prior committed
// writes — the cross-session accumulation guarantee.
//
// The store takes no file lock: the deployment model is one CLI invocation
// at a time per path. Truly concurrent writers risk last-writer-wins loss;
// use SQLiteStore when that assumption stops holding.
type FileStore struct {
	mu     sync.Mutex
	closed bool
	path   string
}

// NewFileStore opens or creates a file-backed store at path. An existing
// document is parsed immediately so corruption surfaces at open time, not
// on the first mutation.
func NewFileStore(path string) (*FileStore, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create store directory: %w", err)
	}

	s := &FileStore{path: path}
	if _, err := s.load(); err != nil {
		return nil, err
	}
	return s, nil
}

// Path returns the backing document path.
func (s *FileStore) Path() string { return s.path }

// load reads and parses the backing document. A missing file is an empty
// store; an unparseable file is ErrStoreCorrupted, never a silent reset.
func (s *FileStore) load() (*document, error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return newDocument(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("read store document: %w", err)
	}
	if len(data) == 0 {
		return newDocument(), nil
	}

	var doc document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, &CorruptionError{Path: s.path, Err: err}
	}
	if doc.Patterns == nil {
		doc.Patterns = make(map[string]*ResolutionPattern)
	}
	if doc.Issues == nil {
		doc.Issues = make(map[string]*CommonIssue)
	}
	return &doc, nil
}

// write replaces the backing document all-or-nothing: marshal, write to a
// temp file in the same directory, fsync, rename over the original.
func (s *FileStore) write(doc *document) error {
	doc.Version = documentVersion

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("encode store document: %w", err)
	}
	data = append(data, '\n')

	tmp, err := os.CreateTemp(filepath.Dir(s.path), filepath.Base(s.path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("create temp document: %w", err)
	}
	tmpPath := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("write store document: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("sync store document: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("close temp document: %w", err)
	}

	if err := os.Rename(tmpPath, s.path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("replace store document: %w", err)
	}
	return nil
}

// mutate runs one read-modify-write cycle under the in-process lock.
func (s *FileStore) mutate(fn func(doc *document) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrStoreClosed
	}

	doc, err := s.load()
	if err != nil {
		return err
	}
	if err := fn(doc); err != nil {
		return err
	}
	return s.write(doc)
}

// view runs a read-only function against a fresh document read.
func (s *FileStore) view(fn func(doc *document) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrStoreClosed
	}

	doc, err := s.load()
	if err != nil {
		return err
	}
	return fn(doc)
}

// SavePattern upserts a pattern by ID.
func (s *FileStore) SavePattern(p *ResolutionPattern) error {
	if err := validatePattern(p); err != nil {
		return err
	}

	return s.mutate(func(doc *document) error {
		stored := clonePattern(p)
		normalizePattern(stored, time.Now().UTC())
		doc.Patterns[stored.ID] = stored
		*p = *clonePattern(stored)
		return nil
	})
}

// LoadPattern retrieves a pattern by ID.
func (s *FileStore) LoadPattern(id string) (*ResolutionPattern, error) {
	var result *ResolutionPattern
	err := s.view(func(doc *document) error {
		p, ok := doc.Patterns[id]
		if !ok {
			return ErrNotFound
		}
		result = clonePattern(p)
		return nil
	})
	return result, err
}

// UpdatePatternSuccess records a successful application of the pattern.
func (s *FileStore) UpdatePatternSuccess(id string, resolutionTime time.Duration) (*ResolutionPattern, error) {
	var result *ResolutionPattern
	err := s.mutate(func(doc *document) error {
		p, ok := doc.Patterns[id]
		if !ok {
			return ErrNotFound
		}
		now := time.Now().UTC()
		applySuccess(p, durationMs(resolutionTime))
		p.LastUsed = now
		p.UpdatedAt = now
		result = clonePattern(p)
		return nil
	})
	return result, err
}

// UpdatePatternFailure records a failed application of the pattern.
func (s *FileStore) UpdatePatternFailure(id string) (*ResolutionPattern, error) {
	var result *ResolutionPattern
	err := s.mutate(func(doc *document) error {
		p, ok := doc.Patterns[id]
		if !ok {
			return ErrNotFound
		}
		now := time.Now().UTC()
		applyFailure(p)
		p.LastUsed = now
		p.UpdatedAt = now
		result = clonePattern(p)
		return nil
	})
	return result, err
}

// AddPatternFeedback appends a feedback entry to the pattern.
func (s *FileStore) AddPatternFeedback(id, feedback string) error {
	if len(feedback) > MaxFeedbackLength {
		return ErrFeedbackTooLong
	}

	return s.mutate(func(doc *document) error {
		p, ok := doc.Patterns[id]
		if !ok {
			return ErrNotFound
		}
		p.UserFeedback = append(p.UserFeedback, feedback)
		p.UpdatedAt = time.Now().UTC()
		return nil
	})
}

// DeletePattern removes a pattern, reporting whether it existed.
func (s *FileStore) DeletePattern(id string) (bool, error) {
	existed := false
	err := s.mutate(func(doc *document) error {
		_, existed = doc.Patterns[id]
		delete(doc.Patterns, id)
		return nil
	})
	return existed, err
}

// LoadAllPatterns returns a snapshot ordered by ID.
func (s *FileStore) LoadAllPatterns() ([]ResolutionPattern, error) {
	var result []ResolutionPattern
	err := s.view(func(doc *document) error {
		result = snapshotPatterns(doc.Patterns)
		return nil
	})
	return result, err
}

// SaveCommonIssue upserts an issue keyed by signature.
func (s *FileStore) SaveCommonIssue(issue *CommonIssue) error {
	if issue.Signature == "" {
		return ErrEmptySignature
	}

	return s.mutate(func(doc *document) error {
		stored := cloneIssue(issue)
		normalizeIssue(stored, time.Now().UTC())
		doc.Issues[stored.Signature] = stored
		return nil
	})
}

// UpdateCommonIssue bumps the occurrence counter for a signature.
func (s *FileStore) UpdateCommonIssue(signature, context string) (*CommonIssue, error) {
	if signature == "" {
		return nil, ErrEmptySignature
	}

	var result *CommonIssue
	err := s.mutate(func(doc *document) error {
		issue := upsertIssue(doc.Issues, signature, context, time.Now().UTC())
		result = cloneIssue(issue)
		return nil
	})
	return result, err
}

// LoadCommonIssues returns a snapshot ordered by signature.
func (s *FileStore) LoadCommonIssues() ([]CommonIssue, error) {
	var result []CommonIssue
	err := s.view(func(doc *document) error {
		result = snapshotIssues(doc.Issues)
		return nil
	})
	return result, err
}

// PruneOldPatterns removes patterns unused for longer than maxAge.
func (s *FileStore) PruneOldPatterns(maxAge time.Duration) (int, error) {
	removed := 0
	err := s.mutate(func(doc *document) error {
		now := time.Now().UTC()
		for id, p := range doc.Patterns {
			if now.Sub(p.LastUsed) > maxAge {
				delete(doc.Patterns, id)
				removed++
			}
		}
		return nil
	})
	return removed, err
}

// Close releases the store. The document is already durable after every
// mutation, so there is nothing to flush.
func (s *FileStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.closed = true
	return nil
}
