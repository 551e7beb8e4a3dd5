package renderer

import (
	"fmt"
	"io"
	"math"

	"github.com/Sumatoshi-tech/sizediff/pkg/delta"
	"github.com/Sumatoshi-tech/sizediff/pkg/plotpage"
	"github.com/Sumatoshi-tech/sizediff/pkg/sizereport"
)

const (
	plotYAxisLabel      = "increase (%)"
	plotNonFiniteNotice = "changes against a zero baseline are plotted as 0"
)

// PlotSeries returns one bar series per size category. Non-finite changes
// are plotted as 0; the second result reports whether any were found.
func PlotSeries(d *delta.Report) ([]plotpage.BarSeries, bool) {
	series := make([]plotpage.BarSeries, 0, len(sizereport.Categories))
	nonFinite := false

	for _, cat := range sizereport.Categories {
		s := plotpage.BarSeries{Name: cat.Label, Data: make([]float64, 0, d.Len())}

		for _, row := range d.Rows {
			p, _ := d.RowValue(row, cat.Column)
			if math.IsNaN(p) || math.IsInf(p, 0) {
				nonFinite = true
				p = 0
			}

			s.Data = append(s.Data, p)
		}

		series = append(series, s)
	}

	return series, nonFinite
}

// RenderPlot writes an HTML page with a grouped bar chart of the changes,
// one group per compiled unit.
func RenderPlot(w io.Writer, d *delta.Report, theme plotpage.Theme) error {
	labels := make([]string, 0, d.Len())
	for _, row := range d.Rows {
		labels = append(labels, row.Filename)
	}

	series, nonFinite := PlotSeries(d)

	subtitle := ""
	if nonFinite {
		subtitle = plotNonFiniteNotice
	}

	bar := plotpage.BuildBarChart(plotpage.NewChartOpts(theme), DocumentTitle, subtitle, labels, series, plotYAxisLabel)

	renderErr := bar.Render(w)
	if renderErr != nil {
		return fmt.Errorf("render chart: %w", renderErr)
	}

	return nil
}
