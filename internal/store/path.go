package store

import (
	"os"
	"path/filepath"
	"strings"
)

// DefaultStoreRoot returns the root directory for all stores.
// Defaults to ~/.remedy/stores, falls back to ./.remedy/stores if home dir
// unavailable.
func DefaultStoreRoot() string {
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		// Fallback to current working directory
		cwd, _ := os.Getwd()
		return filepath.Join(cwd, ".remedy", "stores")
	}
	return filepath.Join(home, ".remedy", "stores")
}

// EncodeStorePath encodes a store ID for filesystem use.
// Replaces "/" with "__" for path-style store IDs.
func EncodeStorePath(storeID string) string {
	return strings.ReplaceAll(storeID, "/", "__")
}

// DecodeStorePath decodes an encoded store path back to store ID.
func DecodeStorePath(encoded string) string {
	return strings.ReplaceAll(encoded, "__", "/")
}

// DocumentPath returns the full path to a store's JSON document.
// Example: DocumentPath("org/team") -> ~/.remedy/stores/org__team/patterns.json
func DocumentPath(storeID string) string {
	encoded := EncodeStorePath(storeID)
	return filepath.Join(DefaultStoreRoot(), encoded, "patterns.json")
}

// DatabasePath returns the full path to a store's SQLite database.
// Example: DatabasePath("org/team") -> ~/.remedy/stores/org__team/patterns.db
func DatabasePath(storeID string) string {
	encoded := EncodeStorePath(storeID)
	return filepath.Join(DefaultStoreRoot(), encoded, "patterns.db")
}
