package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show store statistics",
	Long: `Display aggregate statistics about the store, computed freshly from
the current repository snapshot.

Example:
  remedy stats
  remedy stats --json`,
	RunE: runStats,
}

func runStats(cmd *cobra.Command, args []string) error {
	client, err := openClient()
	if err != nil {
		return fmt.Errorf("initialize client: %w", err)
	}
	defer client.Close()

	stats, err := client.Statistics()
	if err != nil {
		return fmt.Errorf("get stats: %w", err)
	}

	if outputJSON {
		return outputAsJSON(cmd, stats)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, "Pattern Store Statistics")
	fmt.Fprintln(out, "------------------------")
	fmt.Fprintf(out, "Patterns:        %d\n", stats.TotalPatterns)
	fmt.Fprintf(out, "Successes:       %d\n", stats.TotalSuccesses)
	fmt.Fprintf(out, "Failures:        %d\n", stats.TotalFailures)
	fmt.Fprintf(out, "Avg confidence:  %.2f\n", stats.AverageConfidence)

	if stats.MostSuccessful != nil {
		fmt.Fprintf(out, "Most successful: %s (%d successes)\n",
			stats.MostSuccessful.ID, stats.MostSuccessful.SuccessCount)
	}

	if len(stats.PatternsByType) > 0 {
		fmt.Fprintln(out)
		fmt.Fprintln(out, "By problem type:")
		for typ, count := range stats.PatternsByType {
			fmt.Fprintf(out, "  %-16s %d\n", typ, count)
		}
	}
	return nil
}
