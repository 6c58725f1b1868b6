package cmd

import (
	"github.com/spf13/cobra"
)

//nolint:gochecknoglobals // required by cobra CLI pattern
var (
	configPath string
	verbose    bool
)

//nolint:gochecknoglobals // required by cobra CLI pattern
var rootCmd = &cobra.Command{
	Use:   "flowstore",
	Short: "Inspect flow storage backends",
	Long: `A companion CLI for the flowstore library, which lets a workflow
orchestration system locate and fetch flow source files from a Bitbucket
repository (cloud or self-hosted server).

The library is consumed by the orchestration engine; this tool exists so
operators can verify a deployment definition by hand: point it at a config
file and it fetches the flow source the engine would load.`,
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

//nolint:gochecknoinits // required by cobra CLI pattern
func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "",
		"Path to config file (default: auto-detect)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false,
		"Enable verbose output")
}
