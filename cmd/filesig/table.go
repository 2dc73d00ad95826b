package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
)

type columnAlignment int

const (
	alignLeft columnAlignment = iota
	alignRight
)

func renderTable(headers []string, rows [][]string, aligns []columnAlignment) string {
	columns := len(headers)
	if columns == 0 {
		return ""
	}

	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)

	header := make(table.Row, columns)
	for i := range columns {
		header[i] = headers[i]
	}
	tw.AppendHeader(header)

	for _, row := range rows {
		r := make(table.Row, columns)
		for i := range columns {
			if i < len(row) {
				r[i] = row[i]
			} else {
				r[i] = ""
			}
		}
		tw.AppendRow(r)
	}

	columnConfigs := make([]table.ColumnConfig, 0, columns)
	for i := range columns {
		align := text.AlignLeft
		if i < len(aligns) && aligns[i] == alignRight {
			align = text.AlignRight
		}
		columnConfigs = append(columnConfigs, table.ColumnConfig{
			Number:      i + 1,
			Align:       align,
			AlignHeader: text.AlignLeft,
		})
	}
	tw.SetColumnConfigs(columnConfigs)

	return tw.Render()
}

// writeRows draws a table on terminals and tab separated lines, without a
// header, everywhere else.
func writeRows(w io.Writer, headers []string, rows [][]string, aligns []columnAlignment) error {
	if isTerminal(w) {
		if len(rows) == 0 {
			return nil
		}
		_, err := fmt.Fprintln(w, renderTable(headers, rows, aligns))
		return err
	}
	for _, row := range rows {
		if _, err := fmt.Fprintln(w, joinRow(row)); err != nil {
			return err
		}
	}
	return nil
}

func joinRow(row []string) string {
	return strings.Join(row, "\t")
}
