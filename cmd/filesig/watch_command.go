package main

import (
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/gobeaver/filesig/scan"
)

func newWatchCommand(ctx *commandContext) *cobra.Command {
	var flags scanFlags
	var recursive bool
	var debounce time.Duration

	cmd := &cobra.Command{
		Use:   "watch <dir>",
		Short: "Identify files as they are created or modified",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			runCtx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			opts := flags.options(ctx)
			opts.Recursive = recursive
			opts.Debounce = debounce

			printer := &resultPrinter{out: cmd.OutOrStdout(), json: ctx.jsonOutput, flags: &flags}
			return scan.Watch(runCtx, args[0], opts, printer.print)
		},
	}
	flags.register(cmd)
	cmd.Flags().BoolVarP(&recursive, "recursive", "r", false, "Watch subdirectories too")
	cmd.Flags().DurationVar(&debounce, "debounce", scan.DefaultDebounce, "Quiet period before a changed file is identified")
	return cmd
}
