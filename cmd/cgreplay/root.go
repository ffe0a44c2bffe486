package main

import (
	"github.com/spf13/cobra"
)

func newRootCommand() *cobra.Command {
	var configFlag string
	var catalogFlag string
	var logLevelFlag string

	ctx := newCommandContext(&configFlag, &catalogFlag, &logLevelFlag)

	rootCmd := &cobra.Command{
		Use:           "cgreplay",
		Short:         "Reproduce and verify per-participant video pair sessions",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if shouldSkipConfig(cmd) {
				return nil
			}
			_, err := ctx.ensureConfig()
			return err
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	rootCmd.PersistentFlags().StringVarP(&configFlag, "config", "c", "", "Configuration file path")
	rootCmd.PersistentFlags().StringVar(&catalogFlag, "catalog", "", "Catalog file overriding catalog.path")
	rootCmd.PersistentFlags().StringVar(&logLevelFlag, "log-level", "", "Log level overriding logging.level (debug, info, warn, error)")

	rootCmd.AddCommand(newPairsCommand(ctx))
	rootCmd.AddCommand(newSeedCommand())
	rootCmd.AddCommand(newVerifyCommand(ctx))
	rootCmd.AddCommand(newImportCommand(ctx))
	rootCmd.AddCommand(newRunsCommand(ctx))
	rootCmd.AddCommand(newCatalogCommand(ctx))
	rootCmd.AddCommand(newConfigCommand(ctx))
	rootCmd.AddCommand(newCheckCommand(ctx))
	rootCmd.AddCommand(newServeCommand(ctx))

	return rootCmd
}
