package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var deleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a pattern",
	Args:  cobra.ExactArgs(1),
	RunE:  runDelete,
}

func runDelete(cmd *cobra.Command, args []string) error {
	client, err := openClient()
	if err != nil {
		return fmt.Errorf("initialize client: %w", err)
	}
	defer client.Close()

	existed, err := client.DeletePattern(args[0])
	if err != nil {
		return fmt.Errorf("delete pattern: %w", err)
	}

	if existed {
		fmt.Fprintf(cmd.OutOrStdout(), "Deleted %s.\n", args[0])
	} else {
		fmt.Fprintf(cmd.OutOrStdout(), "No pattern with ID %q.\n", args[0])
	}
	return nil
}
