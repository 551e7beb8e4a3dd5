package renderer_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Sumatoshi-tech/sizediff/pkg/delta"
	"github.com/Sumatoshi-tech/sizediff/pkg/renderer"
	"github.com/Sumatoshi-tech/sizediff/pkg/sizereport"
)

// fixtures holds the update/main/expected reports shared by every package.
var fixtures = filepath.Join("..", "sizereport", "testdata")

type comparison struct {
	update *sizereport.Report
	main   *sizereport.Report
	delta  *delta.Report
}

func loadComparison(t *testing.T) comparison {
	t.Helper()

	update, err := sizereport.ParseFile(filepath.Join(fixtures, "update.txt"))
	require.NoError(t, err)

	main, err := sizereport.ParseFile(filepath.Join(fixtures, "main.txt"))
	require.NoError(t, err)

	d, err := delta.Compute(update, main)
	require.NoError(t, err)

	return comparison{update: update, main: main, delta: d}
}

// fooComparison is a single row where text grew from 80 to 100 and the
// total from 140 to 160.
func fooComparison(t *testing.T) comparison {
	t.Helper()

	const header = "   text\t   data\t    bss\t    dec\t    hex\tfilename"

	update, err := sizereport.Parse(strings.NewReader(header + "\n    100\t     50\t     10\t    160\t     a0\tfoo_c\n"))
	require.NoError(t, err)

	main, err := sizereport.Parse(strings.NewReader(header + "\n     80\t     50\t     10\t    140\t     8c\tfoo_c\n"))
	require.NoError(t, err)

	d, err := delta.Compute(update, main)
	require.NoError(t, err)

	return comparison{update: update, main: main, delta: d}
}

func TestFormatText_Golden(t *testing.T) {
	t.Parallel()

	c := loadComparison(t)

	expected, err := os.ReadFile(filepath.Join(fixtures, "expected.txt"))
	require.NoError(t, err)

	assert.Equal(t, string(expected), renderer.FormatText(c.update, c.main, c.delta))
}

func TestFormatText_SingleRow(t *testing.T) {
	t.Parallel()

	c := fooComparison(t)

	want := "Test 0: foo.c:\n" +
		"text: 25.00  (from     80 ->    100)\n" +
		"data: 0.00   (from     50 ->     50)\n" +
		"bss : 0.00   (from     10 ->     10)\n" +
		"dec : 14.29  (from    140 ->    160)\n" +
		"\n"

	assert.Equal(t, want, renderer.FormatText(c.update, c.main, c.delta))
}

func TestFormatText_NeverListsFilenameColumn(t *testing.T) {
	t.Parallel()

	out := renderer.FormatText(fooComparison(t).update, fooComparison(t).main, fooComparison(t).delta)

	for _, line := range strings.Split(out, "\n") {
		assert.False(t, strings.HasPrefix(line, "filename"), line)
	}
}

func TestFormatText_Deterministic(t *testing.T) {
	t.Parallel()

	c := loadComparison(t)

	assert.Equal(t,
		renderer.FormatText(c.update, c.main, c.delta),
		renderer.FormatText(c.update, c.main, c.delta),
	)
}

func TestDisplayFilename(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "foo.c", renderer.DisplayFilename("foo_c"))
	assert.Equal(t, "bin/a.cpp.c", renderer.DisplayFilename("bin/a_cpp_c"))
	assert.Equal(t, "plain", renderer.DisplayFilename("plain"))
}
