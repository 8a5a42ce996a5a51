package main

import (
	"fmt"

	remedymcp "github.com/hyperengineering/remedy/mcp"
	"github.com/spf13/cobra"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Start MCP server for coding agent integration",
	Long: `Start a Model Context Protocol (MCP) server over stdio.

This lets agent frameworks consult and update the pattern store directly.

Environment variables:
  REMEDY_STORE_PATH  Path to the store document (default: derived from store ID)
  REMEDY_STORE       Store ID (default: "default")
  REMEDY_BACKEND     Persistence backend: file, memory, or sqlite`,
	RunE: runMCP,
}

func init() {
	rootCmd.AddCommand(mcpCmd)
}

func runMCP(cmd *cobra.Command, args []string) error {
	client, err := openClient()
	if err != nil {
		return fmt.Errorf("initialize client: %w", err)
	}
	defer client.Close()

	return remedymcp.NewServer(client).Run()
}
