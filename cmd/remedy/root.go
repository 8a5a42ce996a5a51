package main

import (
	"github.com/hyperengineering/remedy"
	"github.com/spf13/cobra"
)

var (
	cfgStorePath string
	cfgStore     string
	cfgBackend   string
	outputJSON   bool
)

var rootCmd = &cobra.Command{
	Use:   "remedy",
	Short: "Remedy - resolution pattern knowledge store CLI",
	Long: `Remedy is a persistent, ranked cache of remediation strategies.

A diagnostic or self-healing tool records which solutions worked for which
classes of problems; later invocations look up ranked or lexically similar
patterns before re-deriving a solution from scratch.`,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgStorePath, "store-path", "", "Path to the store document (default: derived from store ID)")
	rootCmd.PersistentFlags().StringVar(&cfgStore, "store", "", "Store ID to operate against (default: REMEDY_STORE or \"default\")")
	rootCmd.PersistentFlags().StringVar(&cfgBackend, "backend", "", "Persistence backend: file, memory, or sqlite (default: file)")
	rootCmd.PersistentFlags().BoolVar(&outputJSON, "json", false, "Output as JSON")

	rootCmd.AddCommand(saveCmd)
	rootCmd.AddCommand(getCmd)
	rootCmd.AddCommand(findCmd)
	rootCmd.AddCommand(rankCmd)
	rootCmd.AddCommand(outcomeCmd)
	rootCmd.AddCommand(feedbackCmd)
	rootCmd.AddCommand(issueCmd)
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(pruneCmd)
	rootCmd.AddCommand(deleteCmd)
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(importCmd)
}

// loadConfig builds the client config from env, overridden by flags.
func loadConfig() remedy.Config {
	cfg := remedy.ConfigFromEnv()

	if cfgStorePath != "" {
		cfg.Path = cfgStorePath
	}
	if cfgStore != "" {
		cfg.Store = cfgStore
	}
	if cfgBackend != "" {
		cfg.Backend = remedy.Backend(cfgBackend)
	}

	return cfg
}

// openClient creates a client for the current invocation.
func openClient() (*remedy.Client, error) {
	return remedy.New(loadConfig())
}
