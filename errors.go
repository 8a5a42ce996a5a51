package remedy

import (
	"errors"
	"fmt"
)

// Common errors returned by the store.
var (
	// ErrNotFound is returned when a pattern or issue is not in the store.
	// A lookup miss is a normal outcome callers are expected to branch on.
	ErrNotFound = errors.New("pattern not found")

	// ErrStoreClosed is returned when operating on a closed store.
	ErrStoreClosed = errors.New("store is closed")

	// ErrStoreCorrupted is returned when the backing document cannot be
	// parsed. The store fails fast rather than silently starting empty.
	ErrStoreCorrupted = errors.New("store document corrupted")

	// ErrEmptySignature is returned when a pattern or issue has no signature.
	ErrEmptySignature = errors.New("problem signature cannot be empty")

	// ErrSignatureTooLong is returned when a signature exceeds MaxSignatureLength.
	ErrSignatureTooLong = errors.New("problem signature exceeds maximum length")

	// ErrFeedbackTooLong is returned when a feedback entry exceeds MaxFeedbackLength.
	ErrFeedbackTooLong = errors.New("feedback exceeds maximum length")

	// ErrInvalidSortKey is returned for an unknown RankBy value.
	ErrInvalidSortKey = errors.New("invalid rank sort key")

	// ErrInvalidThreshold is returned when a similarity threshold is outside [0, 1].
	ErrInvalidThreshold = errors.New("similarity threshold must be between 0 and 1")

	// ErrSessionRefNotFound is returned when a session reference cannot be resolved.
	ErrSessionRefNotFound = errors.New("session reference not found")
)

// ValidationError is returned when configuration validation fails.
// Extractable via errors.As().
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("config: %s: %s", e.Field, e.Message)
}

// CorruptionError wraps the parse failure behind ErrStoreCorrupted with the
// offending path. Matches errors.Is(err, ErrStoreCorrupted).
type CorruptionError struct {
	Path string
	Err  error
}

func (e *CorruptionError) Error() string {
	return fmt.Sprintf("store document corrupted: %s: %v", e.Path, e.Err)
}

func (e *CorruptionError) Unwrap() error { return e.Err }

// Is reports ErrStoreCorrupted identity so callers need not know the
// concrete type.
func (e *CorruptionError) Is(target error) bool { return target == ErrStoreCorrupted }
