// Package delta computes per-column percentage changes between an update
// size report and its main baseline.
package delta

import (
	"errors"
	"fmt"
	"math"
	"slices"
	"strconv"

	"github.com/Sumatoshi-tech/sizediff/pkg/sizereport"
)

// percentScale converts a ratio to a percentage.
const percentScale = 100

// FilenameColumnIndex is the position of the filename column in a delta report.
const FilenameColumnIndex = sizereport.NumericColumnCount

// Errors returned by Compute.
var (
	ErrRowCount       = errors.New("size reports have different row counts")
	ErrColumnMismatch = errors.New("size reports have different numeric columns")
	ErrUnmatchedRow   = errors.New("size report row has no counterpart")
	ErrUnknownJoin    = errors.New("unknown join mode")
)

// Join selects how rows of the two reports are paired.
type Join string

// Join modes.
const (
	// JoinPosition pairs rows by index. Filenames are never compared.
	JoinPosition Join = "position"
	// JoinFilename pairs rows by filename and fails on any unmatched row.
	JoinFilename Join = "filename"
)

// ParseJoin converts a configuration string to a Join.
func ParseJoin(s string) (Join, error) {
	switch Join(s) {
	case JoinPosition, JoinFilename:
		return Join(s), nil
	case "":
		return JoinPosition, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownJoin, s)
	}
}

// Report holds percentage changes in update row order.
type Report struct {
	// Columns lists the numeric column names with "filename" inserted at
	// FilenameColumnIndex.
	Columns []string
	Rows    []Row
}

// Row is the change for one compiled unit.
type Row struct {
	// Index is the row position in the update report.
	Index int
	// MainIndex is the row position in the main report paired with it.
	MainIndex int
	Filename  string
	// Percent is aligned with NumericColumns.
	Percent []float64
}

// NumericColumns returns the column names percentages were computed for.
func (r *Report) NumericColumns() []string {
	cols := make([]string, 0, len(r.Columns))
	for _, c := range r.Columns {
		if c != sizereport.ColumnFilename {
			cols = append(cols, c)
		}
	}

	return cols
}

// Len returns the number of rows.
func (r *Report) Len() int {
	return len(r.Rows)
}

// Value returns the percentage for column in the given row.
func (r *Report) Value(row int, column string) (float64, bool) {
	if row < 0 || row >= len(r.Rows) {
		return 0, false
	}

	return r.RowValue(r.Rows[row], column)
}

// RowValue returns the percentage for column in row.
func (r *Report) RowValue(row Row, column string) (float64, bool) {
	idx := slices.Index(r.NumericColumns(), column)
	if idx < 0 || idx >= len(row.Percent) {
		return 0, false
	}

	return row.Percent[idx], true
}

// Percent returns update/main*100 - 100. A zero baseline is not an error:
// 0/0 yields NaN and x/0 yields +Inf.
func Percent(update, main float64) float64 {
	return update/main*percentScale - percentScale
}

// Compute pairs rows by position and computes percentage changes.
func Compute(update, main *sizereport.Report) (*Report, error) {
	return ComputeWithJoin(update, main, JoinPosition)
}

// ComputeWithJoin pairs rows with the given join mode and computes
// percentage changes for the numeric columns.
func ComputeWithJoin(update, main *sizereport.Report, join Join) (*Report, error) {
	numeric := update.NumericColumns()
	if !slices.Equal(numeric, main.NumericColumns()) {
		return nil, fmt.Errorf("%w: %v vs %v", ErrColumnMismatch, numeric, main.NumericColumns())
	}

	pairs, pairErr := pairRows(update, main, join)
	if pairErr != nil {
		return nil, pairErr
	}

	columns := slices.Insert(slices.Clone(numeric), FilenameColumnIndex, sizereport.ColumnFilename)

	report := &Report{
		Columns: columns,
		Rows:    make([]Row, 0, len(pairs)),
	}

	for updateIdx, mainIdx := range pairs {
		percents := make([]float64, len(numeric))

		for i, col := range numeric {
			u, uErr := update.Number(updateIdx, col)
			if uErr != nil {
				return nil, fmt.Errorf("update row %d: %w", updateIdx, uErr)
			}

			m, mErr := main.Number(mainIdx, col)
			if mErr != nil {
				return nil, fmt.Errorf("main row %d: %w", mainIdx, mErr)
			}

			percents[i] = Percent(u, m)
		}

		report.Rows = append(report.Rows, Row{
			Index:     updateIdx,
			MainIndex: mainIdx,
			Filename:  update.Filename(updateIdx),
			Percent:   percents,
		})
	}

	return report, nil
}

// pairRows returns, for every update row index, the paired main row index.
func pairRows(update, main *sizereport.Report, join Join) ([]int, error) {
	switch join {
	case JoinPosition, "":
		if update.Len() != main.Len() {
			return nil, fmt.Errorf("%w: update %d, main %d", ErrRowCount, update.Len(), main.Len())
		}

		pairs := make([]int, update.Len())
		for i := range pairs {
			pairs[i] = i
		}

		return pairs, nil
	case JoinFilename:
		return pairByFilename(update, main)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownJoin, join)
	}
}

func pairByFilename(update, main *sizereport.Report) ([]int, error) {
	mainIdx := make(map[string]int, main.Len())
	for i := range main.Rows {
		mainIdx[main.Filename(i)] = i
	}

	pairs := make([]int, update.Len())
	seen := make(map[string]bool, update.Len())

	for i := range update.Rows {
		name := update.Filename(i)

		m, ok := mainIdx[name]
		if !ok {
			return nil, fmt.Errorf("%w: %q only in update report", ErrUnmatchedRow, name)
		}

		pairs[i] = m
		seen[name] = true
	}

	for i := range main.Rows {
		name := main.Filename(i)
		if !seen[name] {
			return nil, fmt.Errorf("%w: %q only in main report", ErrUnmatchedRow, name)
		}
	}

	return pairs, nil
}

// FormatPercent renders a percentage with two decimals. Non-finite values
// render as inf, -inf and nan.
func FormatPercent(p float64) string {
	switch {
	case math.IsNaN(p):
		return "nan"
	case math.IsInf(p, 1):
		return "inf"
	case math.IsInf(p, -1):
		return "-inf"
	default:
		return strconv.FormatFloat(p, 'f', 2, 64)
	}
}
