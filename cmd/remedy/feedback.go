package main

import (
	"errors"
	"fmt"

	"github.com/hyperengineering/remedy"
	"github.com/spf13/cobra"
)

var feedbackCmd = &cobra.Command{
	Use:   "feedback <id> <text>",
	Short: "Attach free-form feedback to a pattern",
	Args:  cobra.ExactArgs(2),
	RunE:  runFeedback,
}

func runFeedback(cmd *cobra.Command, args []string) error {
	client, err := openClient()
	if err != nil {
		return fmt.Errorf("initialize client: %w", err)
	}
	defer client.Close()

	if err := client.AddFeedback(args[0], args[1]); err != nil {
		if errors.Is(err, remedy.ErrNotFound) {
			return fmt.Errorf("no pattern with ID %q", args[0])
		}
		return fmt.Errorf("add feedback: %w", err)
	}

	fmt.Fprintln(cmd.OutOrStdout(), "Feedback recorded.")
	return nil
}
