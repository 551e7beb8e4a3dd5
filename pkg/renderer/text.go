// Package renderer formats size report comparisons as text, markdown,
// structured documents, charts and console summaries.
package renderer

import (
	"fmt"
	"strings"

	"github.com/Sumatoshi-tech/sizediff/pkg/delta"
	"github.com/Sumatoshi-tech/sizediff/pkg/sizereport"
)

// Source filename suffix rewrite applied by the text report only.
const (
	sourceSuffixRaw    = "_c"
	sourceSuffixPretty = ".c"
)

// Text report column widths.
const (
	textNameWidth    = 4
	textPercentWidth = 6
	textValueWidth   = 6
)

// DisplayFilename rewrites every "_c" in name to ".c".
func DisplayFilename(name string) string {
	return strings.ReplaceAll(name, sourceSuffixRaw, sourceSuffixPretty)
}

// FormatText renders one block per delta row: a "Test N: file:" line, one
// line per numeric column with the change and the main and update values,
// and a blank separator line.
func FormatText(update, main *sizereport.Report, d *delta.Report) string {
	var sb strings.Builder

	columns := d.NumericColumns()

	for _, row := range d.Rows {
		fmt.Fprintf(&sb, "Test %d: %s:\n", row.Index, DisplayFilename(row.Filename))

		for i, name := range columns {
			from, _ := main.Value(row.MainIndex, name)
			to, _ := update.Value(row.Index, name)

			fmt.Fprintf(&sb, "%-*s: %-*s (from %*s -> %*s)\n",
				textNameWidth, name,
				textPercentWidth, delta.FormatPercent(row.Percent[i]),
				textValueWidth, from,
				textValueWidth, to,
			)
		}

		sb.WriteString("\n")
	}

	return sb.String()
}
