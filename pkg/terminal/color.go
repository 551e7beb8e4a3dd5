package terminal

import (
	"math"

	"github.com/fatih/color"
)

// Color represents a terminal color.
type Color int

// Color constants.
const (
	ColorNone Color = iota
	ColorGreen
	ColorYellow
	ColorRed
	ColorBlue
	ColorGray
)

// Colorize applies color to text. If NoColor is true, returns text unchanged.
func (c Config) Colorize(text string, clr Color) string {
	if c.NoColor {
		return text
	}

	var attr color.Attribute

	switch clr {
	case ColorGreen:
		attr = color.FgGreen
	case ColorYellow:
		attr = color.FgYellow
	case ColorRed:
		attr = color.FgRed
	case ColorBlue:
		attr = color.FgBlue
	case ColorGray:
		attr = color.FgHiBlack
	default:
		return text
	}

	painter := color.New(attr)
	painter.EnableColor()

	return painter.Sprint(text)
}

// ColorForChange returns the color for a percentage change: growth is red,
// shrinkage green, no change gray and undefined values yellow.
func ColorForChange(percent float64) Color {
	switch {
	case math.IsNaN(percent):
		return ColorYellow
	case percent > 0:
		return ColorRed
	case percent < 0:
		return ColorGreen
	default:
		return ColorGray
	}
}
