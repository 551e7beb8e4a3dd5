package terminal

import "strings"

// Heavy box drawing characters.
const (
	BoxHeavyHorizontal  = "━"
	BoxHeavyVertical    = "┃"
	BoxHeavyTopLeft     = "┏"
	BoxHeavyTopRight    = "┓"
	BoxHeavyBottomLeft  = "┗"
	BoxHeavyBottomRight = "┛"
)

// HeaderPadding is the space around header content.
const HeaderPadding = 1

// borderChars is the number of border and spacing runes a header adds.
const borderChars = 4

// DrawHeader draws a heavy-bordered section header.
// ┏━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━┓
// ┃ TITLE                     rightText ┃
// ┗━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━┛
// Widths are computed on visible text, so title and rightText must not
// carry escape sequences.
func DrawHeader(title, rightText string, width int) string {
	minRequired := len(title) + len(rightText) + borderChars + (HeaderPadding * 2)
	width = max(width, minRequired)

	innerWidth := width - 2

	contentWidth := innerWidth - (HeaderPadding * 2)
	gap := max(contentWidth-len(title)-len(rightText), 1)
	content := title + strings.Repeat(" ", gap) + rightText

	padding := strings.Repeat(" ", HeaderPadding)

	return BoxHeavyTopLeft + strings.Repeat(BoxHeavyHorizontal, innerWidth) + BoxHeavyTopRight + "\n" +
		BoxHeavyVertical + padding + content + padding + BoxHeavyVertical + "\n" +
		BoxHeavyBottomLeft + strings.Repeat(BoxHeavyHorizontal, innerWidth) + BoxHeavyBottomRight
}
