package sizereport

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"slices"
	"strings"
)

// Parse errors.
var (
	ErrEmptyReport   = errors.New("size report has no header line")
	ErrMissingColumn = errors.New("size report is missing a required column")
	ErrColumnCount   = errors.New("size report row has the wrong number of columns")
	ErrNotNumeric    = errors.New("size report column is not numeric")
	ErrAlternation   = errors.New("size report header/data alternation is broken")
)

// LineKind classifies a line of a size report by its position.
type LineKind int

// Line kinds.
const (
	LineHeader LineKind = iota
	LineRepeatedHeader
	LineData
)

// String returns the kind name.
func (k LineKind) String() string {
	switch k {
	case LineHeader:
		return "header"
	case LineRepeatedHeader:
		return "repeated header"
	case LineData:
		return "data"
	default:
		return "unknown"
	}
}

// Classify assigns a kind to every line purely by position: line 0 is the
// header, odd lines are data, and every even line after the first is a copy
// of the header printed by the size tool before each file.
func Classify(lines []string) []LineKind {
	kinds := make([]LineKind, len(lines))

	for i := range lines {
		switch {
		case i == 0:
			kinds[i] = LineHeader
		case i%2 == 0:
			kinds[i] = LineRepeatedHeader
		default:
			kinds[i] = LineData
		}
	}

	return kinds
}

// ParseFile reads and parses the size report at path.
func ParseFile(path string) (*Report, error) {
	f, openErr := os.Open(path)
	if openErr != nil {
		return nil, fmt.Errorf("open size report: %w", openErr)
	}

	defer f.Close()

	report, parseErr := Parse(f)
	if parseErr != nil {
		return nil, fmt.Errorf("%s: %w", path, parseErr)
	}

	return report, nil
}

// Parse reads a size report. The hex column is dropped; the first four
// remaining columns must be numeric and a filename column must be present.
func Parse(r io.Reader) (*Report, error) {
	lines, readErr := readLines(r)
	if readErr != nil {
		return nil, readErr
	}

	if len(lines) == 0 {
		return nil, ErrEmptyReport
	}

	kinds := Classify(lines)

	header := strings.Fields(lines[0])

	columns, hexIdx, colErr := reportColumns(header)
	if colErr != nil {
		return nil, colErr
	}

	if len(lines)%2 != 0 {
		return nil, fmt.Errorf("%w: %d lines, the last header has no data line", ErrAlternation, len(lines))
	}

	report := &Report{Columns: columns}

	for i, line := range lines {
		fields := strings.Fields(line)

		switch kinds[i] {
		case LineHeader:
			continue
		case LineRepeatedHeader:
			if !slices.Equal(fields, header) {
				return nil, fmt.Errorf("%w: line %d is not a header", ErrAlternation, i+1)
			}
		case LineData:
			row, rowErr := parseRow(fields, len(header), hexIdx)
			if rowErr != nil {
				return nil, fmt.Errorf("line %d: %w", i+1, rowErr)
			}

			row.Index = len(report.Rows)
			report.Rows = append(report.Rows, row)
		}
	}

	return report, nil
}

// readLines returns all lines with trailing blank lines removed.
func readLines(r io.Reader) ([]string, error) {
	var lines []string

	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		lines = append(lines, scanner.Text())
	}

	scanErr := scanner.Err()
	if scanErr != nil {
		return nil, fmt.Errorf("read size report: %w", scanErr)
	}

	for len(lines) > 0 && strings.TrimSpace(lines[len(lines)-1]) == "" {
		lines = lines[:len(lines)-1]
	}

	return lines, nil
}

// reportColumns validates the header and returns the column names without
// hex, along with the position hex had in the raw header. Every category
// column must be one of the leading numeric columns.
func reportColumns(header []string) ([]string, int, error) {
	hexIdx := slices.Index(header, ColumnHex)
	if hexIdx < 0 {
		return nil, 0, fmt.Errorf("%w: %q", ErrMissingColumn, ColumnHex)
	}

	columns := slices.Delete(slices.Clone(header), hexIdx, hexIdx+1)

	fileIdx := slices.Index(columns, ColumnFilename)
	if fileIdx < 0 {
		return nil, 0, fmt.Errorf("%w: %q", ErrMissingColumn, ColumnFilename)
	}

	if fileIdx < NumericColumnCount {
		return nil, 0, fmt.Errorf("%w: need %d numeric columns before %q, got %d",
			ErrMissingColumn, NumericColumnCount, ColumnFilename, fileIdx)
	}

	for _, cat := range Categories {
		if !slices.Contains(columns[:NumericColumnCount], cat.Column) {
			return nil, 0, fmt.Errorf("%w: %q", ErrMissingColumn, cat.Column)
		}
	}

	return columns, hexIdx, nil
}

func parseRow(fields []string, width, hexIdx int) (Row, error) {
	if len(fields) != width {
		return Row{}, fmt.Errorf("%w: got %d, want %d", ErrColumnCount, len(fields), width)
	}

	cells := slices.Delete(slices.Clone(fields), hexIdx, hexIdx+1)

	for _, raw := range cells[:NumericColumnCount] {
		_, numErr := parseNumber(raw)
		if numErr != nil {
			return Row{}, numErr
		}
	}

	return Row{Cells: cells}, nil
}
