package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

var pruneCmd = &cobra.Command{
	Use:   "prune",
	Short: "Evict patterns unused beyond a threshold",
	Long: `Remove every pattern whose last use is older than the given age.
Recency alone governs eviction; historical confidence does not protect a
pattern targeting an environment that may no longer exist.

Example:
  remedy prune --max-age 720h`,
	RunE: runPrune,
}

var pruneMaxAge time.Duration

func init() {
	pruneCmd.Flags().DurationVar(&pruneMaxAge, "max-age", 90*24*time.Hour, "Maximum age since last use")
}

func runPrune(cmd *cobra.Command, args []string) error {
	client, err := openClient()
	if err != nil {
		return fmt.Errorf("initialize client: %w", err)
	}
	defer client.Close()

	removed, err := client.PruneOldPatterns(pruneMaxAge)
	if err != nil {
		return fmt.Errorf("prune patterns: %w", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Removed %d pattern(s).\n", removed)
	return nil
}
