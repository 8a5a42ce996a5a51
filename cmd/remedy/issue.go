package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var issueCmd = &cobra.Command{
	Use:   "issue",
	Short: "Track common issue occurrences",
}

var issueTrackCmd = &cobra.Command{
	Use:   "track <signature>",
	Short: "Record a sighting of an issue signature",
	Long: `Bump the occurrence counter for an issue signature, creating the
entry on first sighting.

Example:
  remedy issue track "tls handshake failure" --context production`,
	Args: cobra.ExactArgs(1),
	RunE: runIssueTrack,
}

var issueListCmd = &cobra.Command{
	Use:   "list",
	Short: "List tracked issues",
	RunE:  runIssueList,
}

var issueContext string

func init() {
	issueTrackCmd.Flags().StringVar(&issueContext, "context", "", "Environment tag, e.g. production, staging")

	issueCmd.AddCommand(issueTrackCmd)
	issueCmd.AddCommand(issueListCmd)
}

func runIssueTrack(cmd *cobra.Command, args []string) error {
	client, err := openClient()
	if err != nil {
		return fmt.Errorf("initialize client: %w", err)
	}
	defer client.Close()

	issue, err := client.TrackIssue(args[0], issueContext)
	if err != nil {
		return fmt.Errorf("track issue: %w", err)
	}

	return outputIssue(cmd, issue)
}

func runIssueList(cmd *cobra.Command, args []string) error {
	client, err := openClient()
	if err != nil {
		return fmt.Errorf("initialize client: %w", err)
	}
	defer client.Close()

	issues, err := client.CommonIssues()
	if err != nil {
		return fmt.Errorf("list issues: %w", err)
	}

	if outputJSON {
		return outputAsJSON(cmd, issues)
	}

	out := cmd.OutOrStdout()
	if len(issues) == 0 {
		fmt.Fprintln(out, "No issues tracked.")
		return nil
	}
	for i := range issues {
		fmt.Fprintf(out, "%4d  %s\n", issues[i].Occurrences, issues[i].Signature)
	}
	return nil
}
