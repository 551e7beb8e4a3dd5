package observability

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const (
	metricRunsTotal     = "sizediff.compare.runs.total"
	metricRowsTotal     = "sizediff.compare.rows.total"
	metricFilesTotal    = "sizediff.output.files.total"
	metricRunDuration   = "sizediff.compare.duration.seconds"
	metricViolationsMax = "sizediff.budget.violations"

	attrStatus = "status"
	attrFormat = "format"
)

// Run statuses.
const (
	StatusOK       = "ok"
	StatusError    = "error"
	StatusExceeded = "budget_exceeded"
)

// RunMetrics holds OTel instruments for compare runs.
type RunMetrics struct {
	runs       metric.Int64Counter
	rows       metric.Int64Counter
	files      metric.Int64Counter
	duration   metric.Float64Histogram
	violations metric.Int64Gauge
}

// RunStats describes one finished compare run.
type RunStats struct {
	Status     string
	Rows       int
	Formats    []string
	Violations int
	Duration   time.Duration
}

// NewRunMetrics creates run metric instruments from the given meter.
func NewRunMetrics(mt metric.Meter) (*RunMetrics, error) {
	runs, err := mt.Int64Counter(metricRunsTotal,
		metric.WithDescription("Compare runs by status"),
		metric.WithUnit("{run}"),
	)
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", metricRunsTotal, err)
	}

	rows, err := mt.Int64Counter(metricRowsTotal,
		metric.WithDescription("Compiled units compared"),
		metric.WithUnit("{row}"),
	)
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", metricRowsTotal, err)
	}

	files, err := mt.Int64Counter(metricFilesTotal,
		metric.WithDescription("Report files written by format"),
		metric.WithUnit("{file}"),
	)
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", metricFilesTotal, err)
	}

	duration, err := mt.Float64Histogram(metricRunDuration,
		metric.WithDescription("Compare run duration in seconds"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", metricRunDuration, err)
	}

	violations, err := mt.Int64Gauge(metricViolationsMax,
		metric.WithDescription("Rows over the growth budget in the last run"),
		metric.WithUnit("{row}"),
	)
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", metricViolationsMax, err)
	}

	return &RunMetrics{
		runs:       runs,
		rows:       rows,
		files:      files,
		duration:   duration,
		violations: violations,
	}, nil
}

// RecordRun records the statistics of one compare run.
func (rm *RunMetrics) RecordRun(ctx context.Context, stats RunStats) {
	status := metric.WithAttributes(attribute.String(attrStatus, stats.Status))

	rm.runs.Add(ctx, 1, status)
	rm.duration.Record(ctx, stats.Duration.Seconds(), status)
	rm.rows.Add(ctx, int64(stats.Rows))
	rm.violations.Record(ctx, int64(stats.Violations))

	for _, f := range stats.Formats {
		rm.files.Add(ctx, 1, metric.WithAttributes(attribute.String(attrFormat, f)))
	}
}
