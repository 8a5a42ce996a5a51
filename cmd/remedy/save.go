package main

import (
	"encoding/json"
	"fmt"

	"github.com/hyperengineering/remedy"
	"github.com/spf13/cobra"
)

var saveCmd = &cobra.Command{
	Use:   "save",
	Short: "Save a resolution pattern",
	Long: `Record a problem/solution pair as a resolution pattern.

The solution payload is stored verbatim; the store never interprets it.

Example:
  remedy save --type protocol --signature "connection timeout error network" \
      --solution '{"action":"retry","backoff_ms":500}'`,
	RunE: runSave,
}

var (
	saveID             string
	saveType           string
	saveSignature      string
	saveSolution       string
	saveSolutionSchema string
)

func init() {
	saveCmd.Flags().StringVar(&saveID, "id", "", "Pattern ID (generated if omitted)")
	saveCmd.Flags().StringVarP(&saveType, "type", "t", "", "Coarse problem category, e.g. protocol, security")
	saveCmd.Flags().StringVarP(&saveSignature, "signature", "s", "", "Free-text problem signature (required)")
	saveCmd.Flags().StringVar(&saveSolution, "solution", "", "Solution payload as JSON (required)")
	saveCmd.Flags().StringVar(&saveSolutionSchema, "solution-schema", "", "Schema version tag for the solution payload")

	saveCmd.MarkFlagRequired("signature")
	saveCmd.MarkFlagRequired("solution")
}

func runSave(cmd *cobra.Command, args []string) error {
	if !json.Valid([]byte(saveSolution)) {
		return fmt.Errorf("solution must be valid JSON")
	}

	client, err := openClient()
	if err != nil {
		return fmt.Errorf("initialize client: %w", err)
	}
	defer client.Close()

	pattern := remedy.ResolutionPattern{
		ID:          saveID,
		ProblemType: saveType,
		Signature:   saveSignature,
		Solution: remedy.Solution{
			SchemaVersion: saveSolutionSchema,
			Data:          json.RawMessage(saveSolution),
		},
	}

	if err := client.SavePattern(&pattern); err != nil {
		return fmt.Errorf("save pattern: %w", err)
	}

	return outputPattern(cmd, &pattern)
}
