package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var findCmd = &cobra.Command{
	Use:   "find <query...>",
	Short: "Find patterns with similar problem signatures",
	Long: `Score stored problem signatures against a free-text query using
token-set Jaccard overlap and print matches at or above the threshold,
best first.

Example:
  remedy find connection timeout network --threshold 0.4`,
	Args: cobra.MinimumNArgs(1),
	RunE: runFind,
}

var findThreshold float64

func init() {
	findCmd.Flags().Float64Var(&findThreshold, "threshold", 0.3, "Minimum Jaccard score (0.0-1.0)")
}

func runFind(cmd *cobra.Command, args []string) error {
	client, err := openClient()
	if err != nil {
		return fmt.Errorf("initialize client: %w", err)
	}
	defer client.Close()

	matches, err := client.FindSimilarPatterns(strings.Join(args, " "), findThreshold)
	if err != nil {
		return fmt.Errorf("find patterns: %w", err)
	}

	return outputMatches(cmd, matches)
}
