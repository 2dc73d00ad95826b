package main

import (
	"encoding/json"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
)

func newConfigCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Show the effective configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			if ctx.jsonOutput {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(ctx.cfg)
			}

			cfg := ctx.cfg
			var detectors []string
			for _, d := range ctx.identifier.Registry().Detectors() {
				detectors = append(detectors, d.Name())
			}
			rows := [][]string{
				{"BEAVER_FILESIG_TEXT_SAMPLE_SIZE", strconv.Itoa(cfg.TextSampleSize)},
				{"BEAVER_FILESIG_MAX_BUFFER_SIZE", strconv.FormatInt(cfg.MaxBufferSize, 10)},
				{"BEAVER_FILESIG_CACHE_ENABLED", strconv.FormatBool(cfg.CacheEnabled)},
				{"BEAVER_FILESIG_CACHE_TTL", cfg.CacheTTL},
				{"BEAVER_FILESIG_DISABLED_DETECTORS", cfg.DisabledDetectors},
				{"BEAVER_FILESIG_SCAN_WORKERS", strconv.Itoa(cfg.ScanWorkers)},
				{"BEAVER_FILESIG_SCAN_INCLUDE", cfg.ScanInclude},
				{"BEAVER_FILESIG_SCAN_EXCLUDE", cfg.ScanExclude},
				{"BEAVER_FILESIG_ACCEPTED_TYPES", cfg.AcceptedTypes},
				{"BEAVER_FILESIG_BLOCKED_TYPES", cfg.BlockedTypes},
				{"BEAVER_FILESIG_LOG_LEVEL", cfg.LogLevel},
				{"detectors", strings.Join(detectors, ",")},
			}
			return writeRows(out, []string{"Setting", "Value"}, rows, nil)
		},
	}
}
