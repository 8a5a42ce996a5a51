package store

import (
	"fmt"
	"os"
)

// ResolveStore picks the store ID for an invocation: an explicit value wins,
// then the REMEDY_STORE environment variable, then "default". Whichever
// source supplied the ID must pass validation.
func ResolveStore(explicit string) (string, error) {
	id, source := explicit, "store ID"
	if id == "" {
		id, source = os.Getenv("REMEDY_STORE"), "REMEDY_STORE"
	}
	if id == "" {
		return "default", nil
	}

	if err := ValidateStoreID(id); err != nil {
		return "", fmt.Errorf("invalid %s %q: %w", source, id, err)
	}
	return id, nil
}
