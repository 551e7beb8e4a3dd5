package terminal

import (
	"strings"

	"github.com/jedib0t/go-pretty/v6/text"
)

// Ellipsis marks a shortened cell.
const Ellipsis = "..."

// TruncateWithEllipsis shortens s to at most maxWidth display columns,
// cutting on rune boundaries and ending in Ellipsis. Widths too narrow for
// the ellipsis get only dots.
func TruncateWithEllipsis(s string, maxWidth int) string {
	if text.StringWidthWithoutEscSequences(s) <= maxWidth {
		return s
	}

	if maxWidth <= len(Ellipsis) {
		return strings.Repeat(".", max(maxWidth, 0))
	}

	return text.Snip(s, maxWidth, Ellipsis)
}
