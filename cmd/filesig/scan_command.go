package main

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/gobeaver/filesig"
	"github.com/gobeaver/filesig/scan"
)

// scanRecord is the JSON line written per file by scan and watch.
type scanRecord struct {
	Path              string           `json:"path"`
	Size              int64            `json:"size"`
	Formats           []filesig.Format `json:"formats"`
	ExtensionMismatch bool             `json:"extension_mismatch,omitempty"`
	Error             string           `json:"error,omitempty"`
}

// scanFlags are shared by scan and watch.
type scanFlags struct {
	include  string
	exclude  string
	workers  int
	merge    bool
	all      bool
	mismatch bool
}

func (f *scanFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.include, "include", "", "Glob of files to identify (default BEAVER_FILESIG_SCAN_INCLUDE)")
	cmd.Flags().StringVar(&f.exclude, "exclude", "", "Glob of files to skip (default BEAVER_FILESIG_SCAN_EXCLUDE)")
	cmd.Flags().IntVar(&f.workers, "workers", 0, "Files identified concurrently (default BEAVER_FILESIG_SCAN_WORKERS)")
	cmd.Flags().BoolVar(&f.merge, "merge", false, "Combine duplicate formats, summing their confidence")
	cmd.Flags().BoolVar(&f.all, "all", false, "Show every candidate instead of only the most confident")
	cmd.Flags().BoolVar(&f.mismatch, "mismatches", false, "Only report files whose extension contradicts their content")
}

func (f *scanFlags) options(ctx *commandContext) scan.Options {
	opts := scan.Options{
		Include:    ctx.cfg.ScanInclude,
		Exclude:    ctx.cfg.ScanExclude,
		Workers:    ctx.cfg.ScanWorkers,
		Identifier: ctx.identifier,
		Logger:     ctx.logger,
	}
	if f.include != "" {
		opts.Include = f.include
	}
	if f.exclude != "" {
		opts.Exclude = f.exclude
	}
	if f.workers > 0 {
		opts.Workers = f.workers
	}
	return opts
}

// resultPrinter writes scan results as they arrive, either as JSON lines or
// as rows.
type resultPrinter struct {
	out     io.Writer
	json    bool
	flags   *scanFlags
	files   int
	skipped int
	failed  int
}

func (p *resultPrinter) print(res scan.Result) error {
	p.files++
	if res.Err != nil {
		p.failed++
	}
	mismatch := res.ExtensionMismatch()
	if p.flags.mismatch && !mismatch {
		p.skipped++
		return nil
	}

	formats := shapeFormats(res.Formats, p.flags.merge, p.flags.all, "")
	if p.json {
		rec := scanRecord{
			Path:              res.Rel,
			Size:              res.Size,
			Formats:           formats,
			ExtensionMismatch: mismatch,
		}
		if res.Err != nil {
			rec.Error = res.Err.Error()
		}
		return json.NewEncoder(p.out).Encode(rec)
	}

	var rows [][]string
	switch {
	case res.Err != nil:
		rows = append(rows, []string{res.Rel, "error: " + res.Err.Error(), "", "", "", ""})
	case len(formats) == 0:
		rows = append(rows, []string{res.Rel, "unknown", "0", "", "", strconv.FormatInt(res.Size, 10)})
	default:
		for _, f := range formats {
			row := formatRow(res.Rel, f)
			if mismatch {
				row[4] += " (mismatch)"
			}
			rows = append(rows, append(row, strconv.FormatInt(res.Size, 10)))
		}
	}
	// Rows are streamed; tables would redraw per file.
	for _, row := range rows {
		if _, err := fmt.Fprintln(p.out, joinRow(row)); err != nil {
			return err
		}
	}
	return nil
}

func newScanCommand(ctx *commandContext) *cobra.Command {
	var flags scanFlags

	cmd := &cobra.Command{
		Use:   "scan <dir>",
		Short: "Identify every file under a directory",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			runCtx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			printer := &resultPrinter{out: cmd.OutOrStdout(), json: ctx.jsonOutput, flags: &flags}
			start := time.Now()
			if err := scan.Walk(runCtx, args[0], flags.options(ctx), printer.print); err != nil {
				return err
			}
			ctx.logger.Info("scan complete",
				slog.String("dir", args[0]),
				slog.Int("files", printer.files),
				slog.Int("failed", printer.failed),
				slog.Int("skipped", printer.skipped),
				slog.Duration("elapsed", time.Since(start)))
			return nil
		},
	}
	flags.register(cmd)
	return cmd
}
