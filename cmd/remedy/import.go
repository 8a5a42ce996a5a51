package main

import (
	"context"
	"fmt"
	"os"

	"github.com/hyperengineering/remedy"
	"github.com/spf13/cobra"
)

var importCmd = &cobra.Command{
	Use:   "import <file>",
	Short: "Import patterns from a JSON export",
	Long: `Read a versioned JSON export and apply it to the store.

Strategies for entries that already exist:
  skip     keep the local entry
  replace  take the imported entry
  merge    combine counters and feedback (default)

Example:
  remedy import patterns-backup.json --strategy merge --dry-run`,
	Args: cobra.ExactArgs(1),
	RunE: runImport,
}

var (
	importStrategy string
	importDryRun   bool
)

func init() {
	importCmd.Flags().StringVar(&importStrategy, "strategy", "merge", "Merge strategy: skip, replace, or merge")
	importCmd.Flags().BoolVar(&importDryRun, "dry-run", false, "Preview without applying")
}

func runImport(cmd *cobra.Command, args []string) error {
	client, err := openClient()
	if err != nil {
		return fmt.Errorf("initialize client: %w", err)
	}
	defer client.Close()

	f, err := os.Open(args[0])
	if err != nil {
		return fmt.Errorf("open import file: %w", err)
	}
	defer f.Close()

	result, err := client.Import(context.Background(), f, remedy.MergeStrategy(importStrategy), importDryRun)
	if err != nil {
		return fmt.Errorf("import: %w", err)
	}

	if outputJSON {
		return outputAsJSON(cmd, result)
	}

	out := cmd.OutOrStdout()
	if importDryRun {
		fmt.Fprintln(out, "Dry run; nothing applied.")
	}
	fmt.Fprintf(out, "Patterns: %d total, %d created, %d merged, %d skipped\n",
		result.Total, result.Created, result.Merged, result.Skipped)
	fmt.Fprintf(out, "Issues:   %d\n", result.Issues)
	for _, e := range result.Errors {
		fmt.Fprintf(out, "  error: %s\n", e)
	}
	return nil
}
