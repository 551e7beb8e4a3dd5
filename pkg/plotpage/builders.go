package plotpage

import (
	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"
)

// Chart dimensions.
const (
	chartWidth  = "100%"
	chartHeight = "500px"
)

// BarSeries defines the properties and data for a single bar chart series.
type BarSeries struct {
	Name  string
	Data  []float64
	Color string // Optional, uses the theme palette if empty.
}

// BuildBarChart constructs a grouped bar chart. If cOpts is nil,
// DefaultChartOpts() is used.
func BuildBarChart(cOpts *ChartOpts, title, subtitle string, labels []string, series []BarSeries, yAxisLabel string) *charts.Bar {
	if cOpts == nil {
		cOpts = DefaultChartOpts()
	}

	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithInitializationOpts(cOpts.Init(chartWidth, chartHeight)),
		charts.WithTitleOpts(cOpts.Title(title, subtitle)),
		charts.WithTooltipOpts(cOpts.Tooltip("axis")),
		charts.WithDataZoomOpts(cOpts.DataZoom()...),
		charts.WithXAxisOpts(cOpts.XAxis("")),
		charts.WithYAxisOpts(cOpts.YAxis(yAxisLabel)),
		charts.WithLegendOpts(cOpts.Legend()),
	)

	bar.SetXAxis(labels)

	for i, s := range series {
		barData := make([]opts.BarData, len(s.Data))
		for j, v := range s.Data {
			barData[j] = opts.BarData{Value: v}
		}

		clr := s.Color
		if clr == "" {
			clr = cOpts.SeriesColor(i)
		}

		bar.AddSeries(s.Name, barData, charts.WithItemStyleOpts(opts.ItemStyle{Color: clr}))
	}

	return bar
}
