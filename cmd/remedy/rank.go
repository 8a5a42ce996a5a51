package main

import (
	"fmt"

	"github.com/hyperengineering/remedy"
	"github.com/spf13/cobra"
)

var rankCmd = &cobra.Command{
	Use:   "rank",
	Short: "List patterns ranked by trust",
	Long: `Filter and sort stored patterns for retrieval.

Example:
  remedy rank --min-confidence 0.7 --sort confidence --limit 5
  remedy rank --sort recentUse`,
	RunE: runRank,
}

var (
	rankMinConfidence float64
	rankSortBy        string
	rankLimit         int
)

func init() {
	rankCmd.Flags().Float64Var(&rankMinConfidence, "min-confidence", 0, "Minimum confidence threshold (0.0-1.0)")
	rankCmd.Flags().StringVar(&rankSortBy, "sort", "confidence", "Sort key: confidence, successRate, or recentUse")
	rankCmd.Flags().IntVar(&rankLimit, "limit", 0, "Maximum number of results (0 = unlimited)")
}

func runRank(cmd *cobra.Command, args []string) error {
	client, err := openClient()
	if err != nil {
		return fmt.Errorf("initialize client: %w", err)
	}
	defer client.Close()

	patterns, err := client.RetrievePatternsByRank(remedy.RankParams{
		MinConfidence: rankMinConfidence,
		SortBy:        remedy.RankBy(rankSortBy),
		Limit:         rankLimit,
	})
	if err != nil {
		return fmt.Errorf("rank patterns: %w", err)
	}

	return outputPatternList(cmd, patterns)
}
