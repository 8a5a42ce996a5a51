package remedy

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
)

// Import reads a JSON export and applies it to the store using the given
// merge strategy. With dryRun set, it only counts what would happen.
func (c *Client) Import(ctx context.Context, r io.Reader, strategy MergeStrategy, dryRun bool) (*ImportResult, error) {
	if strategy == "" {
		strategy = MergeStrategyMerge
	}
	if !strategy.IsValid() {
		return nil, fmt.Errorf("import: unknown merge strategy %q", strategy)
	}

	var in ExportFormat
	dec := json.NewDecoder(r)
	if err := dec.Decode(&in); err != nil {
		return nil, fmt.Errorf("import: decode: %w", err)
	}
	if in.Version != ExportVersion {
		return nil, fmt.Errorf("import: unsupported export version %q (expected %q)", in.Version, ExportVersion)
	}

	result := &ImportResult{}

	for i := range in.Patterns {
		if err := ctx.Err(); err != nil {
			return result, err
		}

		imported := &in.Patterns[i]
		result.Total++

		existing, err := c.store.LoadPattern(imported.ID)
		exists := err == nil
		if err != nil && !errors.Is(err, ErrNotFound) {
			result.Errors = append(result.Errors, fmt.Sprintf("check %s: %v", imported.ID, err))
			continue
		}

		if dryRun {
			countPreview(result, exists, strategy)
			continue
		}

		switch {
		case !exists:
			if err := c.store.SavePattern(clonePattern(imported)); err != nil {
				result.Errors = append(result.Errors, fmt.Sprintf("import %s: %v", imported.ID, err))
				continue
			}
			result.Created++

		case strategy == MergeStrategySkip:
			result.Skipped++

		case strategy == MergeStrategyReplace:
			if err := c.store.SavePattern(clonePattern(imported)); err != nil {
				result.Errors = append(result.Errors, fmt.Sprintf("import %s: %v", imported.ID, err))
				continue
			}
			result.Merged++

		default: // MergeStrategyMerge
			merged := mergePatterns(existing, imported)
			if err := c.store.SavePattern(merged); err != nil {
				result.Errors = append(result.Errors, fmt.Sprintf("import %s: %v", imported.ID, err))
				continue
			}
			result.Merged++
		}
	}

	for i := range in.Issues {
		if err := ctx.Err(); err != nil {
			return result, err
		}
		if dryRun {
			result.Issues++
			continue
		}
		if err := c.store.SaveCommonIssue(&in.Issues[i]); err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("import issue %s: %v", in.Issues[i].Signature, err))
			continue
		}
		result.Issues++
	}

	return result, nil
}

func countPreview(result *ImportResult, exists bool, strategy MergeStrategy) {
	if !exists {
		result.Created++
		return
	}
	switch strategy {
	case MergeStrategySkip:
		result.Skipped++
	default:
		result.Merged++
	}
}

// mergePatterns combines an existing and an imported pattern: counters add,
// the running mean is recombined weighted by success counts, feedback
// entries union, and the most recent use wins. Confidence is rederived from
// the combined counters.
func mergePatterns(existing, imported *ResolutionPattern) *ResolutionPattern {
	merged := clonePattern(existing)

	totalSuccess := existing.SuccessCount + imported.SuccessCount
	if totalSuccess > 0 {
		merged.AvgResolutionMs = (existing.AvgResolutionMs*float64(existing.SuccessCount) +
			imported.AvgResolutionMs*float64(imported.SuccessCount)) / float64(totalSuccess)
	}
	merged.SuccessCount = totalSuccess
	merged.FailureCount = existing.FailureCount + imported.FailureCount
	merged.Confidence = DeriveConfidence(merged.SuccessCount, merged.FailureCount)

	if imported.LastUsed.After(merged.LastUsed) {
		merged.LastUsed = imported.LastUsed
	}
	for _, fb := range imported.UserFeedback {
		merged.UserFeedback = appendUnique(merged.UserFeedback, fb)
	}
	if merged.Signature == "" {
		merged.Signature = imported.Signature
	}
	if merged.ProblemType == "" {
		merged.ProblemType = imported.ProblemType
	}

	return merged
}
