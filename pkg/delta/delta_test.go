package delta_test

import (
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Sumatoshi-tech/sizediff/pkg/delta"
	"github.com/Sumatoshi-tech/sizediff/pkg/sizereport"
)

const header = "text data bss dec hex filename"

func parse(t *testing.T, rows ...string) *sizereport.Report {
	t.Helper()

	lines := make([]string, 0, 2*len(rows))
	for _, row := range rows {
		lines = append(lines, header, row)
	}

	report, err := sizereport.Parse(strings.NewReader(strings.Join(lines, "\n")))
	require.NoError(t, err)

	return report
}

func TestPercent(t *testing.T) {
	t.Parallel()

	assert.InDelta(t, 25.0, delta.Percent(100, 80), 1e-9)
	assert.InDelta(t, -20.0, delta.Percent(80, 100), 1e-9)
	assert.Zero(t, delta.Percent(42, 42))
	assert.True(t, math.IsNaN(delta.Percent(0, 0)))
	assert.True(t, math.IsInf(delta.Percent(5, 0), 1))
}

func TestPercent_Sign(t *testing.T) {
	t.Parallel()

	values := []float64{1, 7, 80, 100, 4096, 123456}
	for _, u := range values {
		for _, m := range values {
			p := delta.Percent(u, m)

			switch {
			case u > m:
				assert.Positive(t, p, "update %v main %v", u, m)
			case u < m:
				assert.Negative(t, p, "update %v main %v", u, m)
			default:
				assert.Zero(t, p, "update %v main %v", u, m)
			}
		}
	}
}

func TestCompute_EndToEndRow(t *testing.T) {
	t.Parallel()

	update := parse(t, "100 50 10 160 a0 foo_c")
	main := parse(t, "80 50 10 140 8c foo_c")

	d, err := delta.Compute(update, main)
	require.NoError(t, err)

	assert.Equal(t, []string{"text", "data", "bss", "dec", "filename"}, d.Columns)
	assert.Equal(t, "filename", d.Columns[delta.FilenameColumnIndex])
	assert.Equal(t, []string{"text", "data", "bss", "dec"}, d.NumericColumns())
	require.Equal(t, 1, d.Len())

	row := d.Rows[0]
	assert.Equal(t, "foo_c", row.Filename)
	assert.Equal(t, "25.00", delta.FormatPercent(row.Percent[0]))
	assert.Equal(t, "0.00", delta.FormatPercent(row.Percent[1]))
	assert.Equal(t, "0.00", delta.FormatPercent(row.Percent[2]))
	assert.Equal(t, "14.29", delta.FormatPercent(row.Percent[3]))

	total, ok := d.Value(0, "dec")
	assert.True(t, ok)
	assert.InDelta(t, 14.2857, total, 1e-4)

	_, ok = d.Value(0, "filename")
	assert.False(t, ok)

	_, ok = d.Value(1, "dec")
	assert.False(t, ok)
}

func TestCompute_PreservesPositionalOrder(t *testing.T) {
	t.Parallel()

	update := parse(t, "1 1 1 3 3 a_c", "2 2 2 6 6 b_c", "3 3 3 9 9 c_c")
	// Main lists different files: position join never looks at names.
	main := parse(t, "1 1 1 3 3 x_c", "1 1 1 3 3 y_c", "1 1 1 3 3 z_c")

	d, err := delta.Compute(update, main)
	require.NoError(t, err)

	require.Equal(t, update.Len(), d.Len())

	for i, row := range d.Rows {
		assert.Equal(t, i, row.Index)
		assert.Equal(t, i, row.MainIndex)
		assert.Equal(t, update.Filename(i), row.Filename)
	}

	assert.InDelta(t, 200.0, d.Rows[2].Percent[0], 1e-9)
}

func TestCompute_ZeroBaseline(t *testing.T) {
	t.Parallel()

	update := parse(t, "10 0 5 15 f a_c")
	main := parse(t, "10 0 0 10 a a_c")

	d, err := delta.Compute(update, main)
	require.NoError(t, err)

	assert.True(t, math.IsNaN(d.Rows[0].Percent[1]))
	assert.True(t, math.IsInf(d.Rows[0].Percent[2], 1))
	assert.Equal(t, "nan", delta.FormatPercent(d.Rows[0].Percent[1]))
	assert.Equal(t, "inf", delta.FormatPercent(d.Rows[0].Percent[2]))
}

func TestCompute_RowCountMismatch(t *testing.T) {
	t.Parallel()

	update := parse(t, "1 1 1 3 3 a_c", "2 2 2 6 6 b_c")
	main := parse(t, "1 1 1 3 3 a_c")

	_, err := delta.Compute(update, main)
	require.ErrorIs(t, err, delta.ErrRowCount)
}

func TestCompute_ColumnMismatch(t *testing.T) {
	t.Parallel()

	update := parse(t, "1 1 1 3 3 a_c")

	main, err := sizereport.Parse(strings.NewReader("text bss data dec hex filename\n1 1 1 3 3 a_c\n"))
	require.NoError(t, err)

	_, err = delta.Compute(update, main)
	require.ErrorIs(t, err, delta.ErrColumnMismatch)
}

func TestComputeWithJoin_Filename(t *testing.T) {
	t.Parallel()

	update := parse(t, "20 1 1 22 16 b_c", "10 1 1 12 c a_c")
	main := parse(t, "10 1 1 12 c a_c", "10 1 1 12 c b_c")

	d, err := delta.ComputeWithJoin(update, main, delta.JoinFilename)
	require.NoError(t, err)

	require.Equal(t, 2, d.Len())
	assert.Equal(t, "b_c", d.Rows[0].Filename)
	assert.Equal(t, 1, d.Rows[0].MainIndex)
	assert.InDelta(t, 100.0, d.Rows[0].Percent[0], 1e-9)
	assert.Equal(t, "a_c", d.Rows[1].Filename)
	assert.Equal(t, 0, d.Rows[1].MainIndex)
	assert.Zero(t, d.Rows[1].Percent[0])
}

func TestComputeWithJoin_FilenameUnmatched(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		update []string
		main   []string
	}{
		{
			name:   "only in update",
			update: []string{"1 1 1 3 3 a_c", "1 1 1 3 3 new_c"},
			main:   []string{"1 1 1 3 3 a_c"},
		},
		{
			name:   "only in main",
			update: []string{"1 1 1 3 3 a_c"},
			main:   []string{"1 1 1 3 3 a_c", "1 1 1 3 3 gone_c"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := delta.ComputeWithJoin(parse(t, tt.update...), parse(t, tt.main...), delta.JoinFilename)
			require.ErrorIs(t, err, delta.ErrUnmatchedRow)
		})
	}
}

func TestParseJoin(t *testing.T) {
	t.Parallel()

	j, err := delta.ParseJoin("")
	require.NoError(t, err)
	assert.Equal(t, delta.JoinPosition, j)

	j, err = delta.ParseJoin("filename")
	require.NoError(t, err)
	assert.Equal(t, delta.JoinFilename, j)

	_, err = delta.ParseJoin("hash")
	require.ErrorIs(t, err, delta.ErrUnknownJoin)
}

func TestFormatPercent(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "-inf", delta.FormatPercent(math.Inf(-1)))
	assert.Equal(t, "-1.38", delta.FormatPercent(delta.Percent(8000, 8112)))
	assert.Equal(t, "0.00", delta.FormatPercent(0))
}
