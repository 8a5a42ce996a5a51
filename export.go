package remedy

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"time"
)

// ExportVersion is the current version of the export format.
const ExportVersion = "1.0"

// ExportFormat is the top-level structure for JSON exports. It carries both
// collections so a whole store can move between machines or backends.
type ExportFormat struct {
	Version    string              `json:"version"`
	ExportedAt time.Time           `json:"exported_at"`
	StoreID    string              `json:"store_id,omitempty"`
	Patterns   []ResolutionPattern `json:"patterns"`
	Issues     []CommonIssue       `json:"issues,omitempty"`
}

// MergeStrategy defines how to handle conflicts during import.
type MergeStrategy string

const (
	// MergeStrategySkip skips entries that already exist (by ID).
	MergeStrategySkip MergeStrategy = "skip"
	// MergeStrategyReplace replaces existing entries with imported versions.
	MergeStrategyReplace MergeStrategy = "replace"
	// MergeStrategyMerge combines counters and sets of existing and
	// imported entries (default).
	MergeStrategyMerge MergeStrategy = "merge"
)

// IsValid checks if the strategy is known.
func (m MergeStrategy) IsValid() bool {
	switch m {
	case MergeStrategySkip, MergeStrategyReplace, MergeStrategyMerge:
		return true
	}
	return false
}

// ImportResult summarizes an import operation.
type ImportResult struct {
	Total   int      `json:"total"`
	Created int      `json:"created"`
	Merged  int      `json:"merged"`
	Skipped int      `json:"skipped"`
	Issues  int      `json:"issues"`
	Errors  []string `json:"errors,omitempty"`
}

// Export writes the whole store as a versioned JSON document.
func (c *Client) Export(ctx context.Context, w io.Writer) error {
	patterns, err := c.store.LoadAllPatterns()
	if err != nil {
		return fmt.Errorf("export: load patterns: %w", err)
	}

	if err := ctx.Err(); err != nil {
		return err
	}

	issues, err := c.store.LoadCommonIssues()
	if err != nil {
		return fmt.Errorf("export: load issues: %w", err)
	}

	out := ExportFormat{
		Version:    ExportVersion,
		ExportedAt: time.Now().UTC(),
		StoreID:    c.config.Store,
		Patterns:   patterns,
		Issues:     issues,
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(out); err != nil {
		return fmt.Errorf("export: encode: %w", err)
	}
	return nil
}
