package main

import (
	"errors"
	"fmt"

	"github.com/hyperengineering/remedy"
	"github.com/spf13/cobra"
)

var getCmd = &cobra.Command{
	Use:   "get <id>",
	Short: "Load a pattern by ID",
	Args:  cobra.ExactArgs(1),
	RunE:  runGet,
}

func runGet(cmd *cobra.Command, args []string) error {
	client, err := openClient()
	if err != nil {
		return fmt.Errorf("initialize client: %w", err)
	}
	defer client.Close()

	pattern, err := client.LoadPattern(args[0])
	if errors.Is(err, remedy.ErrNotFound) {
		return fmt.Errorf("no pattern with ID %q", args[0])
	}
	if err != nil {
		return fmt.Errorf("load pattern: %w", err)
	}

	return outputPattern(cmd, pattern)
}
