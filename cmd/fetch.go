package cmd

import (
	"context"
	"fmt"

	logger "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/orchesto/flowstore/application"
	"github.com/orchesto/flowstore/config"
)

//nolint:gochecknoglobals // required by cobra CLI pattern
var fetchCmd = &cobra.Command{
	Use:   "fetch [location]",
	Short: "Fetch a flow's source from the configured storage",
	Long: `Fetch the raw source of a flow file through the configured storage
backend and print it to stdout.

Without an argument the storage's default path is fetched. With an argument,
the given file path is fetched; it must be a location the storage resolves
flows to, exactly as the orchestration engine would see it.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runFetch,
}

//nolint:gochecknoinits // required by cobra CLI pattern
func init() {
	rootCmd.AddCommand(fetchCmd)
}

func runFetch(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	cfgPath := configPath
	if cfgPath == "" {
		var err error
		cfgPath, err = config.FindConfigFile()
		if err != nil {
			return fmt.Errorf(
				"no config file found: %w\nSpecify one with --config or create flowstore.yaml",
				err,
			)
		}
	}

	logger.Infof("Using config file: %s", cfgPath)

	cfg, err := config.Load(cfgPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	location := ""
	if len(args) > 0 {
		location = args[0]
	}

	svc := injectFetchService()

	flow, err := svc.Fetch(ctx, cfg, application.FetchOptions{
		Location: location,
		Verbose:  verbose,
	})
	if err != nil {
		return err
	}

	if src, ok := flow.(application.SourceFlow); ok {
		fmt.Fprint(cmd.OutOrStdout(), src.Source)
	}
	return nil
}
