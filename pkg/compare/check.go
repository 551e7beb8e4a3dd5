package compare

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/sergi/go-diff/diffmatchpatch"
)

// ErrCheckMismatch is returned when the text report differs from the expected output.
var ErrCheckMismatch = errors.New("text report does not match expected output")

// CheckText compares got with the contents of expectedPath. A mismatch
// returns ErrCheckMismatch carrying a line diff (- expected, + got).
func CheckText(got, expectedPath string) error {
	want, readErr := os.ReadFile(expectedPath)
	if readErr != nil {
		return fmt.Errorf("read expected output: %w", readErr)
	}

	if string(want) == got {
		return nil
	}

	return fmt.Errorf("%w:\n%s", ErrCheckMismatch, LineDiff(string(want), got))
}

// LineDiff renders a unified-style line diff of two texts.
func LineDiff(from, to string) string {
	dmp := diffmatchpatch.New()
	src, dst, lines := dmp.DiffLinesToRunes(from, to)
	diffs := dmp.DiffCharsToLines(dmp.DiffMainRunes(src, dst, false), lines)

	var sb strings.Builder

	for _, d := range diffs {
		prefix := " "

		switch d.Type {
		case diffmatchpatch.DiffDelete:
			prefix = "-"
		case diffmatchpatch.DiffInsert:
			prefix = "+"
		case diffmatchpatch.DiffEqual:
		}

		for line := range strings.SplitSeq(strings.TrimSuffix(d.Text, "\n"), "\n") {
			sb.WriteString(prefix)
			sb.WriteString(line)
			sb.WriteByte('\n')
		}
	}

	return sb.String()
}
