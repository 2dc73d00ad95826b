package main

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/gobeaver/filesig"
)

// catalogEntry is the JSON shape of one signature rule.
type catalogEntry struct {
	ID         string   `json:"id"`
	Category   string   `json:"category"`
	MIMEType   string   `json:"mime_type,omitempty"`
	Extension  string   `json:"extension,omitempty"`
	Confidence int      `json:"confidence"`
	Checks     []string `json:"checks"`
}

func newCatalogCommand(ctx *commandContext) *cobra.Command {
	var category string

	cmd := &cobra.Command{
		Use:   "catalog",
		Short: "List the built-in signatures",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var entries []catalogEntry
			for _, rule := range filesig.DefaultCatalog() {
				if category != "" && !strings.EqualFold(rule.Category, category) {
					continue
				}
				entries = append(entries, catalogEntry{
					ID:         rule.ID(),
					Category:   rule.Category,
					MIMEType:   rule.MIMEType,
					Extension:  rule.Extension,
					Confidence: rule.Confidence,
					Checks:     describeChecks(rule.Checks),
				})
			}

			out := cmd.OutOrStdout()
			if ctx.jsonOutput {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(entries)
			}

			rows := make([][]string, 0, len(entries))
			for _, e := range entries {
				rows = append(rows, []string{
					e.ID,
					e.MIMEType,
					e.Extension,
					strconv.Itoa(e.Confidence),
					strings.Join(e.Checks, " "),
				})
			}
			return writeRows(out,
				[]string{"Format", "MIME", "Extension", "Confidence", "Signature"},
				rows,
				[]columnAlignment{alignLeft, alignLeft, alignLeft, alignRight, alignLeft})
		},
	}
	cmd.Flags().StringVar(&category, "category", "", "Only list rules of this category")
	return cmd
}

// describeChecks renders checks as "@offset:pattern".
func describeChecks(checks []filesig.Check) []string {
	out := make([]string, 0, len(checks))
	for _, c := range checks {
		out = append(out, fmt.Sprintf("@%d:%s", c.Offset, c.Pattern))
	}
	return out
}
