package terminal_test

import (
	"math"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"

	"github.com/Sumatoshi-tech/sizediff/pkg/terminal"
)

func TestDetectWidth(t *testing.T) {
	tests := []struct {
		env  string
		want int
	}{
		{env: "", want: terminal.DefaultWidth},
		{env: "invalid", want: terminal.DefaultWidth},
		{env: "100", want: 100},
		{env: "20", want: terminal.MinWidth},
		{env: "500", want: terminal.MaxWidth},
	}

	for _, tt := range tests {
		t.Run(tt.env, func(t *testing.T) {
			t.Setenv("COLUMNS", tt.env)

			assert.Equal(t, tt.want, terminal.DetectWidth())
		})
	}
}

func TestNewConfig_NoColorEnv(t *testing.T) {
	t.Setenv("NO_COLOR", "1")

	assert.True(t, terminal.NewConfig().NoColor)
}

func TestColorize(t *testing.T) {
	t.Parallel()

	plain := terminal.Config{NoColor: true}
	assert.Equal(t, "text", plain.Colorize("text", terminal.ColorRed))

	colored := terminal.Config{}
	out := colored.Colorize("text", terminal.ColorRed)
	assert.Contains(t, out, "text")
	assert.Contains(t, out, "\x1b[")

	assert.Equal(t, "text", colored.Colorize("text", terminal.ColorNone))
}

func TestColorForChange(t *testing.T) {
	t.Parallel()

	assert.Equal(t, terminal.ColorRed, terminal.ColorForChange(3.5))
	assert.Equal(t, terminal.ColorRed, terminal.ColorForChange(math.Inf(1)))
	assert.Equal(t, terminal.ColorGreen, terminal.ColorForChange(-0.1))
	assert.Equal(t, terminal.ColorGray, terminal.ColorForChange(0))
	assert.Equal(t, terminal.ColorYellow, terminal.ColorForChange(math.NaN()))
}

func TestTruncateWithEllipsis(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "short", terminal.TruncateWithEllipsis("short", 10))
	assert.Equal(t, "long...", terminal.TruncateWithEllipsis("long_filename_c", 7))
	assert.Equal(t, "..", terminal.TruncateWithEllipsis("abcdef", 2))
}

func TestTruncateWithEllipsis_Multibyte(t *testing.T) {
	t.Parallel()

	out := terminal.TruncateWithEllipsis("größe_modul_c", 8)

	assert.Equal(t, "größe...", out)
	assert.True(t, utf8.ValidString(out))
	assert.Equal(t, "größe_c", terminal.TruncateWithEllipsis("größe_c", 7))
}

func TestDrawHeader(t *testing.T) {
	t.Parallel()

	header := terminal.DrawHeader("MEMORY", "3 files", 30)
	lines := strings.Split(header, "\n")

	assert.Len(t, lines, 3)
	assert.True(t, strings.HasPrefix(lines[0], terminal.BoxHeavyTopLeft))
	assert.Contains(t, lines[1], "MEMORY")
	assert.Contains(t, lines[1], "3 files")
	assert.True(t, strings.HasSuffix(lines[2], terminal.BoxHeavyBottomRight))
}

func TestDrawHeader_GrowsToFit(t *testing.T) {
	t.Parallel()

	header := terminal.DrawHeader("A VERY LONG TITLE", "right", 5)
	lines := strings.Split(header, "\n")

	assert.Contains(t, lines[1], "A VERY LONG TITLE right")
}
