package renderer

import (
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/Sumatoshi-tech/sizediff/pkg/delta"
	"github.com/Sumatoshi-tech/sizediff/pkg/sizereport"
)

// MarkdownPreamble opens every markdown report.
const MarkdownPreamble = "# Memory report\n\n" +
	"Memory usage of each test program on this branch (to) compared with main (from), " +
	"in bytes; the increase is relative to main.\n\n"

// Markdown table header cells.
const (
	markdownFromHeader     = "from"
	markdownToHeader       = "to"
	markdownIncreaseHeader = "increase (%)"
)

// FormatMarkdown renders the preamble followed by one table per delta row.
// Each table is headed by the unmodified filename and has one row per size
// category: text, data, bss and total.
func FormatMarkdown(update, main *sizereport.Report, d *delta.Report) string {
	blocks := make([]string, 0, d.Len())

	for _, row := range d.Rows {
		blocks = append(blocks, markdownBlock(update, main, d, row))
	}

	var sb strings.Builder

	sb.WriteString(MarkdownPreamble)
	sb.WriteString(strings.Join(blocks, "\n\n"))
	sb.WriteString("\n")

	return sb.String()
}

func markdownBlock(update, main *sizereport.Report, d *delta.Report, row delta.Row) string {
	tbl := table.NewWriter()
	tbl.AppendHeader(table.Row{"", markdownFromHeader, markdownToHeader, markdownIncreaseHeader})

	for _, cat := range sizereport.Categories {
		from, _ := main.Value(row.MainIndex, cat.Column)
		to, _ := update.Value(row.Index, cat.Column)

		increase := ""
		if p, ok := d.RowValue(row, cat.Column); ok {
			increase = delta.FormatPercent(p)
		}

		tbl.AppendRow(table.Row{cat.Label, from, to, increase})
	}

	return "## " + row.Filename + "\n\n" + tbl.RenderMarkdown()
}
