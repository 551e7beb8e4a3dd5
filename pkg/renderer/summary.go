package renderer

import (
	"fmt"
	"math"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/Sumatoshi-tech/sizediff/pkg/delta"
	"github.com/Sumatoshi-tech/sizediff/pkg/sizereport"
	"github.com/Sumatoshi-tech/sizediff/pkg/terminal"
)

// Summary layout constants.
const (
	SummaryTitle         = "MEMORY REPORT"
	summaryFileHeader    = "file"
	summaryFilenameWidth = 32
)

// FormatSummary renders a console table with humanized sizes and colored
// changes for every compiled unit.
func FormatSummary(update, main *sizereport.Report, d *delta.Report, cfg terminal.Config) string {
	header := terminal.DrawHeader(SummaryTitle, fmt.Sprintf("%d files", d.Len()), cfg.Width)

	tbl := table.NewWriter()
	tbl.SetStyle(table.StyleLight)
	tbl.Style().Options.SeparateRows = false
	tbl.Style().Options.SeparateColumns = false
	tbl.Style().Options.DrawBorder = false

	headerRow := table.Row{summaryFileHeader}
	for _, cat := range sizereport.Categories {
		headerRow = append(headerRow, cat.Label)
	}

	tbl.AppendHeader(headerRow)

	for _, row := range d.Rows {
		cells := table.Row{terminal.TruncateWithEllipsis(DisplayFilename(row.Filename), summaryFilenameWidth)}

		for _, cat := range sizereport.Categories {
			cells = append(cells, summaryCell(update, main, d, row, cat, cfg))
		}

		tbl.AppendRow(cells)
	}

	return strings.Join([]string{header, tbl.Render()}, "\n") + "\n"
}

func summaryCell(
	update, main *sizereport.Report,
	d *delta.Report,
	row delta.Row,
	cat sizereport.Category,
	cfg terminal.Config,
) string {
	p, ok := d.RowValue(row, cat.Column)
	if !ok {
		return ""
	}

	from, _ := main.Number(row.MainIndex, cat.Column)
	to, _ := update.Number(row.Index, cat.Column)

	change := cfg.Colorize(signedPercent(p), terminal.ColorForChange(p))

	return fmt.Sprintf("%s -> %s %s", humanBytes(from), humanBytes(to), change)
}

// signedPercent renders p with an explicit sign for growth.
func signedPercent(p float64) string {
	text := delta.FormatPercent(p) + "%"
	if p > 0 {
		return "+" + text
	}

	return text
}

func humanBytes(v float64) string {
	if v < 0 || math.IsNaN(v) {
		return fmt.Sprintf("%g B", v)
	}

	return humanize.Bytes(uint64(v))
}
