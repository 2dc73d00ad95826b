package main

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/gobeaver/filesig"
)

// identifyRecord is the JSON shape of one identified input.
type identifyRecord struct {
	Path    string           `json:"path"`
	Formats []filesig.Format `json:"formats"`
	Error   string           `json:"error,omitempty"`
}

func newIdentifyCommand(ctx *commandContext) *cobra.Command {
	var merge bool
	var all bool
	var category string

	cmd := &cobra.Command{
		Use:   "identify <path>...",
		Short: "Identify the format of files (use - for standard input)",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			records := make([]identifyRecord, 0, len(args))
			failed := 0
			for _, path := range args {
				formats, err := identifyArg(ctx, cmd, path)
				rec := identifyRecord{Path: path, Formats: shapeFormats(formats, merge, all, category)}
				if err != nil {
					rec.Error = err.Error()
					failed++
					ctx.logger.Warn("identification failed", slog.String("path", path), slog.Any("error", err))
				}
				records = append(records, rec)
			}

			out := cmd.OutOrStdout()
			if ctx.jsonOutput {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				if err := enc.Encode(records); err != nil {
					return err
				}
			} else if err := writeRows(out, formatHeaders, identifyRows(records), formatAligns); err != nil {
				return err
			}

			if failed > 0 {
				return fmt.Errorf("%d of %d inputs could not be identified", failed, len(args))
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&merge, "merge", false, "Combine duplicate formats, summing their confidence")
	cmd.Flags().BoolVar(&all, "all", false, "Show every candidate instead of only the most confident")
	cmd.Flags().StringVar(&category, "category", "", "Only report formats of this category")

	return cmd
}

func identifyArg(ctx *commandContext, cmd *cobra.Command, path string) ([]filesig.Format, error) {
	if path == "-" {
		return ctx.identifier.IdentifyReader(cmd.InOrStdin())
	}
	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	if info.IsDir() {
		return nil, fmt.Errorf("%s is a directory (use scan)", path)
	}
	return ctx.identifier.IdentifyFile(path)
}

// shapeFormats applies the --category, --merge and --all flags.
func shapeFormats(formats []filesig.Format, merge, all bool, category string) []filesig.Format {
	if category != "" {
		formats = filesig.Filter(formats, category)
	}
	if merge {
		formats = filesig.Merge(formats)
	}
	if !all {
		if best, ok := filesig.Best(formats); ok {
			return []filesig.Format{best}
		}
		return []filesig.Format{}
	}
	if formats == nil {
		return []filesig.Format{}
	}
	return formats
}

var (
	formatHeaders = []string{"Path", "Format", "Confidence", "MIME", "Extension"}
	formatAligns  = []columnAlignment{alignLeft, alignLeft, alignRight, alignLeft, alignLeft}
)

func identifyRows(records []identifyRecord) [][]string {
	var rows [][]string
	for _, rec := range records {
		if rec.Error != "" {
			rows = append(rows, []string{rec.Path, "error: " + rec.Error, "", "", ""})
			continue
		}
		if len(rec.Formats) == 0 {
			rows = append(rows, []string{rec.Path, "unknown", "0", "", ""})
			continue
		}
		for _, f := range rec.Formats {
			rows = append(rows, formatRow(rec.Path, f))
		}
	}
	return rows
}

func formatRow(path string, f filesig.Format) []string {
	return []string{
		path,
		f.String(),
		strconv.Itoa(f.Confidence()),
		f.MIMEType(),
		filesig.DefaultExtension(f),
	}
}
