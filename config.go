package remedy

import (
	"os"

	"github.com/hyperengineering/remedy/internal/store"
)

// Backend selects the persistence implementation for a store.
type Backend string

const (
	// BackendFile keeps the store in a single human-diffable JSON document.
	BackendFile Backend = "file"
	// BackendMemory keeps the store for process lifetime only.
	BackendMemory Backend = "memory"
	// BackendSQLite keeps the store in a SQLite database.
	BackendSQLite Backend = "sqlite"
)

// IsValid checks if the backend is a known implementation.
func (b Backend) IsValid() bool {
	switch b {
	case BackendFile, BackendMemory, BackendSQLite:
		return true
	}
	return false
}

// Config configures a knowledge store client.
type Config struct {
	// Path is the location of the backing document or database. Ignored by
	// the memory backend. If empty, derived from Store.
	Path string

	// Store is the store ID to operate against.
	// If empty, resolved via explicit > REMEDY_STORE env > "default".
	Store string

	// Backend selects the persistence implementation. Defaults to file.
	Backend Backend

	// SourceID identifies this client instance in saved patterns.
	// Defaults to hostname if not set.
	SourceID string

	// Debug enables verbose logging of store operations.
	Debug bool

	// DebugLogPath is the path to write debug logs.
	// Defaults to stderr if empty.
	DebugLogPath string
}

// DefaultConfig returns a Config with sensible defaults: the "default"
// store on the file backend.
func DefaultConfig() Config {
	hostname, _ := os.Hostname()
	return Config{
		Store:    "default",
		Backend:  BackendFile,
		Path:     store.DocumentPath("default"),
		SourceID: hostname,
	}
}

// ConfigFromEnv reads configuration from environment variables.
//
//	REMEDY_STORE_PATH → Path
//	REMEDY_STORE      → Store
//	REMEDY_BACKEND    → Backend
//	REMEDY_SOURCE_ID  → SourceID
//	REMEDY_DEBUG      → Debug (any non-empty value enables)
//	REMEDY_DEBUG_LOG  → DebugLogPath
func ConfigFromEnv() Config {
	return Config{
		Path:         os.Getenv("REMEDY_STORE_PATH"),
		Store:        os.Getenv("REMEDY_STORE"),
		Backend:      Backend(os.Getenv("REMEDY_BACKEND")),
		SourceID:     os.Getenv("REMEDY_SOURCE_ID"),
		Debug:        os.Getenv("REMEDY_DEBUG") != "",
		DebugLogPath: os.Getenv("REMEDY_DEBUG_LOG"),
	}
}

// Validate checks the configuration for errors.
// Returns *ValidationError for invalid fields.
func (c *Config) Validate() error {
	if !c.Backend.IsValid() {
		return &ValidationError{Field: "Backend", Message: "must be file, memory, or sqlite"}
	}

	if c.Backend != BackendMemory && c.Path == "" {
		return &ValidationError{Field: "Path", Message: "required: path to store document"}
	}

	if c.Store != "" {
		if err := store.ValidateStoreID(c.Store); err != nil {
			return &ValidationError{Field: "Store", Message: err.Error()}
		}
	}

	return nil
}

// WithDefaults fills in default values for unset fields.
// Store resolution: explicit Store field > REMEDY_STORE env > "default".
// Path is derived from the resolved store and backend if not explicitly set.
func (c Config) WithDefaults() Config {
	if c.Backend == "" {
		c.Backend = BackendFile
	}

	if c.Store == "" {
		resolved, err := store.ResolveStore("")
		if err == nil {
			c.Store = resolved
		} else {
			c.Store = "default"
		}
	}

	if c.Path == "" && c.Backend != BackendMemory {
		switch c.Backend {
		case BackendSQLite:
			c.Path = store.DatabasePath(c.Store)
		default:
			c.Path = store.DocumentPath(c.Store)
		}
	}

	if c.SourceID == "" {
		c.SourceID, _ = os.Hostname()
	}

	return c
}
