package main

import (
	"github.com/spf13/cobra"
)

func newRootCommand() *cobra.Command {
	ctx := &commandContext{}

	rootCmd := &cobra.Command{
		Use:           "filesig",
		Short:         "Identify file formats from their content",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return ctx.load(cmd)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	rootCmd.PersistentFlags().BoolVar(&ctx.jsonOutput, "json", false, "Write results as JSON")
	rootCmd.PersistentFlags().StringVar(&ctx.logLevel, "log-level", "", "Log level (debug, info, warn, error); overrides BEAVER_FILESIG_LOG_LEVEL")
	rootCmd.PersistentFlags().BoolVar(&ctx.signaturesOnly, "signatures-only", false, "Skip the text detector")

	rootCmd.AddCommand(newIdentifyCommand(ctx))
	rootCmd.AddCommand(newScanCommand(ctx))
	rootCmd.AddCommand(newWatchCommand(ctx))
	rootCmd.AddCommand(newCheckCommand(ctx))
	rootCmd.AddCommand(newCatalogCommand(ctx))
	rootCmd.AddCommand(newConfigCommand(ctx))

	return rootCmd
}
