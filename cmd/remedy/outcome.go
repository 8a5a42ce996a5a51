package main

import (
	"errors"
	"fmt"
	"time"

	"github.com/hyperengineering/remedy"
	"github.com/spf13/cobra"
)

var outcomeCmd = &cobra.Command{
	Use:   "outcome <id>",
	Short: "Report the outcome of applying a pattern",
	Long: `Record whether applying a pattern resolved the problem. Successful
outcomes fold the observed resolution time into the pattern's running mean;
both outcomes recompute its confidence.

Example:
  remedy outcome 01J3ZK... --success --duration 1.5s
  remedy outcome 01J3ZK... --failure`,
	Args: cobra.ExactArgs(1),
	RunE: runOutcome,
}

var (
	outcomeSuccess  bool
	outcomeFailure  bool
	outcomeDuration time.Duration
)

func init() {
	outcomeCmd.Flags().BoolVar(&outcomeSuccess, "success", false, "The pattern resolved the problem")
	outcomeCmd.Flags().BoolVar(&outcomeFailure, "failure", false, "The pattern did not resolve the problem")
	outcomeCmd.Flags().DurationVar(&outcomeDuration, "duration", 0, "Observed resolution time (success only)")

	outcomeCmd.MarkFlagsOneRequired("success", "failure")
	outcomeCmd.MarkFlagsMutuallyExclusive("success", "failure")
}

func runOutcome(cmd *cobra.Command, args []string) error {
	client, err := openClient()
	if err != nil {
		return fmt.Errorf("initialize client: %w", err)
	}
	defer client.Close()

	var pattern *remedy.ResolutionPattern
	if outcomeSuccess {
		pattern, err = client.ReportSuccess(args[0], outcomeDuration)
	} else {
		pattern, err = client.ReportFailure(args[0])
	}
	if errors.Is(err, remedy.ErrNotFound) {
		return fmt.Errorf("no pattern with ID %q", args[0])
	}
	if err != nil {
		return fmt.Errorf("report outcome: %w", err)
	}

	return outputPattern(cmd, pattern)
}
