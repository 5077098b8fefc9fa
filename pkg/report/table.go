package report

import (
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
)

// Align selects the alignment of a column.
type Align int

const (
	AlignLeft Align = iota
	AlignRight
)

// Markdown renders a markdown table.
func Markdown(headers []string, rows [][]string, aligns ...Align) string {
	tw := newWriter(headers, rows, aligns)
	if tw == nil {
		return ""
	}
	tw.Style().Format.Header = text.FormatDefault
	return tw.RenderMarkdown()
}

// Text renders a rounded box table for terminals.
func Text(headers []string, rows [][]string, aligns ...Align) string {
	tw := newWriter(headers, rows, aligns)
	if tw == nil {
		return ""
	}
	tw.SetStyle(table.StyleRounded)
	return tw.Render()
}

func newWriter(headers []string, rows [][]string, aligns []Align) table.Writer {
	columns := len(headers)
	if columns == 0 {
		return nil
	}

	tw := table.NewWriter()
	header := make(table.Row, columns)
	for i, h := range headers {
		header[i] = h
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

	configs := make([]table.ColumnConfig, 0, columns)
	for i := range columns {
		align := text.AlignLeft
		if i < len(aligns) && aligns[i] == AlignRight {
			align = text.AlignRight
		}
		configs = append(configs, table.ColumnConfig{
			Number:      i + 1,
			Align:       align,
			AlignHeader: text.AlignLeft,
		})
	}
	tw.SetColumnConfigs(configs)
	return tw
}
