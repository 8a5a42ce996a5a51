package main

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/hyperengineering/remedy"
	"github.com/spf13/cobra"
)

// outputAsJSON writes any value as formatted JSON to the command's stdout.
func outputAsJSON(cmd *cobra.Command, v interface{}) error {
	out := cmd.OutOrStdout()
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// outputPattern prints a single pattern in the configured format.
func outputPattern(cmd *cobra.Command, p *remedy.ResolutionPattern) error {
	if outputJSON {
		return outputAsJSON(cmd, p)
	}
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "ID:         %s\n", p.ID)
	fmt.Fprintf(out, "Type:       %s\n", p.ProblemType)
	fmt.Fprintf(out, "Signature:  %s\n", p.Signature)
	fmt.Fprintf(out, "Confidence: %.2f (%d success / %d failure)\n", p.Confidence, p.SuccessCount, p.FailureCount)
	if p.SuccessCount > 0 {
		fmt.Fprintf(out, "Avg time:   %.1fms\n", p.AvgResolutionMs)
	}
	fmt.Fprintf(out, "Last used:  %s\n", p.LastUsed.Format(time.RFC3339))
	for _, fb := range p.UserFeedback {
		fmt.Fprintf(out, "Feedback:   %s\n", fb)
	}
	return nil
}

// outputPatternList prints a sequence of patterns.
func outputPatternList(cmd *cobra.Command, patterns []remedy.ResolutionPattern) error {
	if outputJSON {
		return outputAsJSON(cmd, patterns)
	}
	out := cmd.OutOrStdout()
	if len(patterns) == 0 {
		fmt.Fprintln(out, "No patterns found.")
		return nil
	}
	for i := range patterns {
		p := &patterns[i]
		fmt.Fprintf(out, "%s  conf=%.2f  %s\n", p.ID, p.Confidence, p.Signature)
	}
	return nil
}

// outputMatches prints scored similarity matches.
func outputMatches(cmd *cobra.Command, matches []remedy.PatternMatch) error {
	if outputJSON {
		return outputAsJSON(cmd, matches)
	}
	out := cmd.OutOrStdout()
	if len(matches) == 0 {
		fmt.Fprintln(out, "No matching patterns.")
		return nil
	}
	for _, m := range matches {
		fmt.Fprintf(out, "%.2f  %s  %s\n", m.Score, m.Pattern.ID, m.Pattern.Signature)
	}
	return nil
}

// outputIssue prints a single common issue.
func outputIssue(cmd *cobra.Command, issue *remedy.CommonIssue) error {
	if outputJSON {
		return outputAsJSON(cmd, issue)
	}
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Signature:   %s\n", issue.Signature)
	fmt.Fprintf(out, "Occurrences: %d\n", issue.Occurrences)
	if len(issue.Contexts) > 0 {
		fmt.Fprintf(out, "Contexts:    %v\n", issue.Contexts)
	}
	fmt.Fprintf(out, "First seen:  %s\n", issue.FirstSeen.Format(time.RFC3339))
	fmt.Fprintf(out, "Last seen:   %s\n", issue.LastSeen.Format(time.RFC3339))
	return nil
}

// outputError prints an error to stderr.
func outputError(w io.Writer, err error) {
	fmt.Fprintf(w, "Error: %s\n", err)
}
