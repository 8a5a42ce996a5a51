// Package store provides multi-store path and ID management.
package store

import (
	"errors"
	"strings"
)

// Store ID validation errors.
var (
	// ErrInvalidStoreID indicates the store ID format is invalid.
	ErrInvalidStoreID = errors.New("invalid store ID: must be 1-4 lowercase alphanumeric segments separated by /")

	// ErrReservedStoreID indicates the store ID is reserved and cannot be created.
	ErrReservedStoreID = errors.New("reserved store ID: cannot create stores with reserved IDs")
)

// Store ID shape limits.
const (
	maxStoreIDLength = 256
	maxSegmentLength = 64
	maxSegments      = 4
)

// Reserved store IDs that cannot be created (but can be targeted).
var reservedStoreIDs = map[string]bool{
	"default": true,
	"_system": true,
}

// ValidateStoreID validates a store ID: 1-4 slash-separated segments of
// lowercase letters, digits, and single interior hyphens, 256 characters
// total at most. Reserved IDs (like "_system") are valid for targeting but
// not creation.
func ValidateStoreID(id string) error {
	if id == "" || len(id) > maxStoreIDLength {
		return ErrInvalidStoreID
	}
	if reservedStoreIDs[id] {
		return nil
	}

	segments := strings.Split(id, "/")
	if len(segments) > maxSegments {
		return ErrInvalidStoreID
	}
	for _, seg := range segments {
		if !validSegment(seg) {
			return ErrInvalidStoreID
		}
	}
	return nil
}

func validSegment(seg string) bool {
	if seg == "" || len(seg) > maxSegmentLength {
		return false
	}
	if seg[0] == '-' || seg[len(seg)-1] == '-' {
		return false
	}

	prevHyphen := false
	for i := 0; i < len(seg); i++ {
		switch c := seg[i]; {
		case c >= 'a' && c <= 'z', c >= '0' && c <= '9':
			prevHyphen = false
		case c == '-':
			if prevHyphen {
				return false
			}
			prevHyphen = true
		default:
			return false
		}
	}
	return true
}

// IsReservedStoreID returns true if the store ID is reserved.
func IsReservedStoreID(id string) bool {
	return reservedStoreIDs[id]
}

// ValidateStoreIDForCreation validates a store ID for creation operations.
// Returns an error if the format is invalid or the ID is reserved.
func ValidateStoreIDForCreation(id string) error {
	if err := ValidateStoreID(id); err != nil {
		return err
	}
	if IsReservedStoreID(id) {
		return ErrReservedStoreID
	}
	return nil
}
