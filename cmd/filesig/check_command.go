package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/gobeaver/filesig/policy"
	"github.com/gobeaver/filesig/scan"
)

// checkRecord is the JSON line written per checked file.
type checkRecord struct {
	Path      string `json:"path"`
	OK        bool   `json:"ok"`
	Violation string `json:"violation,omitempty"`
	Error     string `json:"error,omitempty"`
}

var presets = map[string]func() policy.Constraints{
	"none":      func() policy.Constraints { return policy.Constraints{} },
	"default":   policy.DefaultConstraints,
	"images":    policy.ImageOnlyConstraints,
	"documents": policy.DocumentOnlyConstraints,
	"media":     policy.MediaOnlyConstraints,
}

func newCheckCommand(ctx *commandContext) *cobra.Command {
	var preset string
	var accept []string
	var block []string
	var strictExtension bool
	var minConfidence int
	var flags scanFlags

	cmd := &cobra.Command{
		Use:   "check <path>...",
		Short: "Check files against a content policy (directories are scanned)",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			build, ok := presets[strings.ToLower(preset)]
			if !ok {
				return fmt.Errorf("unknown preset %q", preset)
			}
			constraints := build()
			if len(accept) == 0 {
				accept = ctx.cfg.Accepted()
			}
			if len(block) == 0 {
				block = ctx.cfg.Blocked()
			}
			if len(accept) > 0 {
				constraints.AcceptedTypes = accept
			}
			if len(block) > 0 {
				constraints.BlockedTypes = append(constraints.BlockedTypes, block...)
			}
			if strictExtension {
				constraints.StrictExtension = true
			}
			if minConfidence > 0 {
				constraints.MinConfidence = minConfidence
			}
			p := policy.New(constraints)

			out := cmd.OutOrStdout()
			violations := 0
			report := func(path string, err error) error {
				rec := checkRecord{Path: path, OK: err == nil}
				if err != nil {
					if policy.IsViolation(err) {
						violations++
						rec.Violation = string(policy.GetViolationType(err))
					}
					rec.Error = err.Error()
				}
				if ctx.jsonOutput {
					return json.NewEncoder(out).Encode(rec)
				}
				status := "ok"
				if err != nil {
					status = err.Error()
				}
				_, werr := fmt.Fprintln(out, joinRow([]string{path, status}))
				return werr
			}

			failed := 0
			for _, path := range args {
				info, err := os.Stat(path)
				if err != nil {
					failed++
					if err := report(path, err); err != nil {
						return err
					}
					continue
				}
				if !info.IsDir() {
					err := p.CheckFile(ctx.identifier, path)
					if err != nil && !policy.IsViolation(err) {
						failed++
					}
					if err := report(path, err); err != nil {
						return err
					}
					continue
				}

				err = scan.Walk(cmd.Context(), path, flags.options(ctx), func(res scan.Result) error {
					err := res.Err
					if err == nil {
						err = p.Check(res.Path, res.Size, res.Formats)
					} else {
						failed++
					}
					return report(res.Path, err)
				})
				if err != nil {
					return err
				}
			}

			if violations > 0 || failed > 0 {
				return fmt.Errorf("%d policy violations, %d files could not be checked", violations, failed)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&preset, "preset", "default", "Base constraints: none, default, images, documents, media")
	cmd.Flags().StringSliceVar(&accept, "accept", nil, "Accepted type patterns (default BEAVER_FILESIG_ACCEPTED_TYPES)")
	cmd.Flags().StringSliceVar(&block, "block", nil, "Additional blocked type patterns (default BEAVER_FILESIG_BLOCKED_TYPES)")
	cmd.Flags().BoolVar(&strictExtension, "strict-extension", false, "Require extensions to match the detected format")
	cmd.Flags().IntVar(&minConfidence, "min-confidence", 0, "Minimum confidence of the detected format")
	cmd.Flags().StringVar(&flags.include, "include", "", "Glob of files to check in directories")
	cmd.Flags().StringVar(&flags.exclude, "exclude", "", "Glob of files to skip in directories")
	cmd.Flags().IntVar(&flags.workers, "workers", 0, "Files identified concurrently")

	return cmd
}
