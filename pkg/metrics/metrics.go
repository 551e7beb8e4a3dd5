// Package metrics exports size comparisons as Prometheus metrics in the
// text exposition format, for node exporter's textfile collector.
package metrics

import (
	"fmt"
	"strconv"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/Sumatoshi-tech/sizediff/pkg/delta"
	"github.com/Sumatoshi-tech/sizediff/pkg/sizereport"
)

// Metric names.
const (
	SizeBytesName     = "sizediff_size_bytes"
	ChangePercentName = "sizediff_size_change_percent"
)

// Report label values.
const (
	ReportMain   = "main"
	ReportUpdate = "update"
)

// Collect builds a registry holding the sizes of both reports and the
// change of every size category.
func Collect(update, main *sizereport.Report, d *delta.Report) (*prometheus.Registry, error) {
	sizeBytes := prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: SizeBytesName,
		Help: "Size of a compiled unit per category, in bytes.",
	}, []string{"report", "category", "filename", "index"})

	changePercent := prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: ChangePercentName,
		Help: "Change of a size category relative to main, in percent.",
	}, []string{"category", "filename", "index"})

	registry := prometheus.NewRegistry()

	for _, c := range []prometheus.Collector{sizeBytes, changePercent} {
		registerErr := registry.Register(c)
		if registerErr != nil {
			return nil, fmt.Errorf("register metric: %w", registerErr)
		}
	}

	for _, row := range d.Rows {
		index := strconv.Itoa(row.Index)

		for _, cat := range sizereport.Categories {
			p, ok := d.RowValue(row, cat.Column)
			if !ok {
				continue
			}

			from, fromErr := main.Number(row.MainIndex, cat.Column)
			if fromErr != nil {
				return nil, fmt.Errorf("main row %d: %w", row.MainIndex, fromErr)
			}

			to, toErr := update.Number(row.Index, cat.Column)
			if toErr != nil {
				return nil, fmt.Errorf("update row %d: %w", row.Index, toErr)
			}

			sizeBytes.WithLabelValues(ReportMain, cat.Label, row.Filename, index).Set(from)
			sizeBytes.WithLabelValues(ReportUpdate, cat.Label, row.Filename, index).Set(to)
			changePercent.WithLabelValues(cat.Label, row.Filename, index).Set(p)
		}
	}

	return registry, nil
}

// WriteTextfile writes the metrics of a comparison to path atomically.
func WriteTextfile(path string, update, main *sizereport.Report, d *delta.Report) error {
	registry, collectErr := Collect(update, main, d)
	if collectErr != nil {
		return collectErr
	}

	writeErr := prometheus.WriteToTextfile(path, registry)
	if writeErr != nil {
		return fmt.Errorf("write metrics textfile: %w", writeErr)
	}

	return nil
}
