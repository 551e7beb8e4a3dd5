// Package sizereport parses the whitespace-delimited tables printed by binary
// size tools (text, data, bss, dec, hex, filename) into positional rows.
package sizereport

import (
	"fmt"
	"strconv"
)

// Column names with a fixed meaning in size tool output.
const (
	ColumnText     = "text"
	ColumnData     = "data"
	ColumnBSS      = "bss"
	ColumnTotal    = "dec"
	ColumnHex      = "hex"
	ColumnFilename = "filename"
)

// NumericColumnCount is the number of leading numeric size columns.
const NumericColumnCount = 4

// Report is a parsed size report. Rows keep file order; they are matched
// against another report by position.
type Report struct {
	Columns []string
	Rows    []Row
}

// Row is one data line of a size report. Cells are the raw column texts,
// aligned with Report.Columns.
type Row struct {
	Index int
	Cells []string
}

// Len returns the number of data rows.
func (r *Report) Len() int {
	return len(r.Rows)
}

// NumericColumns returns the names of the leading numeric size columns.
func (r *Report) NumericColumns() []string {
	n := min(NumericColumnCount, len(r.Columns))

	return r.Columns[:n]
}

// ColumnIndex returns the position of the named column, or -1.
func (r *Report) ColumnIndex(name string) int {
	for i, col := range r.Columns {
		if col == name {
			return i
		}
	}

	return -1
}

// Value returns the raw text of a column in the given row.
func (r *Report) Value(row int, column string) (string, bool) {
	if row < 0 || row >= len(r.Rows) {
		return "", false
	}

	idx := r.ColumnIndex(column)
	if idx < 0 || idx >= len(r.Rows[row].Cells) {
		return "", false
	}

	return r.Rows[row].Cells[idx], true
}

// Number returns a numeric column of the given row as float64.
func (r *Report) Number(row int, column string) (float64, error) {
	raw, ok := r.Value(row, column)
	if !ok {
		return 0, fmt.Errorf("%w: %q in row %d", ErrMissingColumn, column, row)
	}

	return parseNumber(raw)
}

// Filename returns the filename column of the given row.
func (r *Report) Filename(row int) string {
	name, _ := r.Value(row, ColumnFilename)

	return name
}

func parseNumber(raw string) (float64, error) {
	n, intErr := strconv.ParseInt(raw, 10, 64)
	if intErr == nil {
		return float64(n), nil
	}

	f, floatErr := strconv.ParseFloat(raw, 64)
	if floatErr != nil {
		return 0, fmt.Errorf("%w: %q", ErrNotNumeric, raw)
	}

	return f, nil
}

// Category is a reported size category and the column it is read from.
type Category struct {
	Label  string
	Column string
}

// Categories lists the size categories in report order. "total" is read
// from the decimal sum column.
var Categories = []Category{
	{Label: "text", Column: ColumnText},
	{Label: "data", Column: ColumnData},
	{Label: "bss", Column: ColumnBSS},
	{Label: "total", Column: ColumnTotal},
}

// CategoryByLabel returns the category with the given label.
func CategoryByLabel(label string) (Category, bool) {
	for _, c := range Categories {
		if c.Label == label {
			return c, true
		}
	}

	return Category{}, false
}
