// Package compare runs a full size comparison: it parses the update and main
// reports, computes the changes, writes every enabled report format and
// applies the growth budget.
package compare

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"slices"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	nooptrace "go.opentelemetry.io/otel/trace/noop"

	"github.com/Sumatoshi-tech/sizediff/pkg/budget"
	"github.com/Sumatoshi-tech/sizediff/pkg/config"
	"github.com/Sumatoshi-tech/sizediff/pkg/delta"
	"github.com/Sumatoshi-tech/sizediff/pkg/metrics"
	"github.com/Sumatoshi-tech/sizediff/pkg/observability"
	"github.com/Sumatoshi-tech/sizediff/pkg/plotpage"
	"github.com/Sumatoshi-tech/sizediff/pkg/renderer"
	"github.com/Sumatoshi-tech/sizediff/pkg/sizereport"
)

const outputFilePerm = 0o644

// ErrUnknownFormat is returned for an output format with no renderer.
var ErrUnknownFormat = errors.New("unknown output format")

// formatOrder fixes the order in which outputs are rendered and written.
var formatOrder = []string{
	config.FormatText,
	config.FormatMarkdown,
	config.FormatJSON,
	config.FormatYAML,
	config.FormatHTML,
}

var formatExtensions = map[string]string{
	config.FormatText:     ".txt",
	config.FormatMarkdown: ".md",
	config.FormatJSON:     ".json",
	config.FormatYAML:     ".yaml",
	config.FormatHTML:     ".html",
}

// Options configures a comparison run.
type Options struct {
	UpdatePath   string
	MainPath     string
	OutputPrefix string

	// Formats lists the report formats to write. Empty means text and markdown.
	Formats []string
	// Single writes only the text report, to exactly OutputPrefix.
	Single bool
	Join   delta.Join
	Theme  plotpage.Theme
	Budget budget.Limit

	// MetricsFile, when set, receives a Prometheus textfile of the comparison.
	MetricsFile string
	// CheckPath, when set, is compared with the rendered text report.
	CheckPath string

	Tracer     trace.Tracer
	Logger     *slog.Logger
	RunMetrics *observability.RunMetrics
}

// Output is one written report file.
type Output struct {
	Format string
	Path   string
}

// Result holds everything a run produced.
type Result struct {
	Update     *sizereport.Report
	Main       *sizereport.Report
	Delta      *delta.Report
	Text       string
	Outputs    []Output
	Violations []budget.Violation
}

// OutputPath returns the file a format is written to.
func OutputPath(prefix, format string, single bool) string {
	if single {
		return prefix
	}

	return prefix + formatExtensions[format]
}

// Run performs the comparison. Outputs are written before the budget is
// checked, so a budget violation still returns a complete Result together
// with an error wrapping budget.ErrBudgetExceeded.
func Run(ctx context.Context, opts Options) (*Result, error) {
	opts = opts.withDefaults()
	start := time.Now()

	ctx, span := opts.Tracer.Start(ctx, "sizediff.compare",
		trace.WithAttributes(
			attribute.String("compare.join", string(opts.Join)),
			attribute.StringSlice("output.formats", opts.Formats),
			attribute.Bool("output.single", opts.Single),
		))
	defer span.End()

	result, err := run(ctx, opts)

	status := observability.StatusOK

	switch {
	case errors.Is(err, budget.ErrBudgetExceeded):
		status = observability.StatusExceeded
	case err != nil:
		status = observability.StatusError

		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}

	if opts.RunMetrics != nil {
		stats := observability.RunStats{Status: status, Duration: time.Since(start)}
		if result != nil {
			stats.Rows = result.Delta.Len()
			stats.Violations = len(result.Violations)

			for _, o := range result.Outputs {
				stats.Formats = append(stats.Formats, o.Format)
			}
		}

		opts.RunMetrics.RecordRun(ctx, stats)
	}

	return result, err
}

func (o Options) withDefaults() Options {
	if len(o.Formats) == 0 {
		o.Formats = config.DefaultOutputFormats
	}

	if o.Single {
		o.Formats = []string{config.FormatText}
	}

	if o.Join == "" {
		o.Join = delta.JoinPosition
	}

	if o.Theme == "" {
		o.Theme = plotpage.ThemeLight
	}

	if o.Tracer == nil {
		o.Tracer = nooptrace.NewTracerProvider().Tracer("sizediff")
	}

	if o.Logger == nil {
		o.Logger = slog.New(slog.DiscardHandler)
	}

	return o
}

func run(ctx context.Context, opts Options) (*Result, error) {
	update, updateErr := parseReport(ctx, opts, "update", opts.UpdatePath)
	if updateErr != nil {
		return nil, updateErr
	}

	main, mainErr := parseReport(ctx, opts, "main", opts.MainPath)
	if mainErr != nil {
		return nil, mainErr
	}

	d, computeErr := delta.ComputeWithJoin(update, main, opts.Join)
	if computeErr != nil {
		return nil, fmt.Errorf("compare reports: %w", computeErr)
	}

	opts.Logger.DebugContext(ctx, "computed deltas", "rows", d.Len(), "join", string(opts.Join))

	result := &Result{
		Update: update,
		Main:   main,
		Delta:  d,
		Text:   renderer.FormatText(update, main, d),
	}

	writeErr := writeOutputs(ctx, opts, result)
	if writeErr != nil {
		return nil, writeErr
	}

	if opts.MetricsFile != "" {
		metricsErr := metrics.WriteTextfile(opts.MetricsFile, update, main, d)
		if metricsErr != nil {
			return nil, metricsErr
		}

		opts.Logger.DebugContext(ctx, "wrote metrics textfile", "path", opts.MetricsFile)
	}

	if opts.CheckPath != "" {
		checkErr := CheckText(result.Text, opts.CheckPath)
		if checkErr != nil {
			return result, checkErr
		}
	}

	violations, budgetErr := budget.Check(d, opts.Budget)
	if budgetErr != nil {
		return result, budgetErr
	}

	result.Violations = violations

	for _, v := range violations {
		opts.Logger.WarnContext(ctx, "budget exceeded", "violation", v.String())
	}

	return result, budget.Error(violations)
}

func parseReport(ctx context.Context, opts Options, role, path string) (*sizereport.Report, error) {
	_, span := opts.Tracer.Start(ctx, "sizediff.parse", trace.WithAttributes(attribute.String("report.role", role)))
	defer span.End()

	report, err := sizereport.ParseFile(path)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())

		return nil, fmt.Errorf("%s report: %w", role, err)
	}

	span.SetAttributes(attribute.Int("report.rows", report.Len()))
	opts.Logger.DebugContext(ctx, "parsed report", "role", role, "path", path, "rows", report.Len())

	return report, nil
}

func writeOutputs(ctx context.Context, opts Options, result *Result) error {
	_, span := opts.Tracer.Start(ctx, "sizediff.write")
	defer span.End()

	for _, format := range opts.Formats {
		if _, ok := formatExtensions[format]; !ok {
			return fmt.Errorf("%w: %q", ErrUnknownFormat, format)
		}
	}

	for _, format := range formatOrder {
		if !slices.Contains(opts.Formats, format) {
			continue
		}

		content, renderErr := render(format, opts, result)
		if renderErr != nil {
			return renderErr
		}

		path := OutputPath(opts.OutputPrefix, format, opts.Single)

		writeErr := os.WriteFile(path, content, outputFilePerm)
		if writeErr != nil {
			return fmt.Errorf("write %s report: %w", format, writeErr)
		}

		result.Outputs = append(result.Outputs, Output{Format: format, Path: path})
		opts.Logger.DebugContext(ctx, "wrote output", "format", format, "path", path, "bytes", len(content))
	}

	span.SetAttributes(attribute.Int("output.files", len(result.Outputs)))

	return nil
}

func render(format string, opts Options, result *Result) ([]byte, error) {
	switch format {
	case config.FormatText:
		return []byte(result.Text), nil
	case config.FormatMarkdown:
		return []byte(renderer.FormatMarkdown(result.Update, result.Main, result.Delta)), nil
	case config.FormatJSON:
		return renderer.EncodeJSON(renderer.BuildDocument(result.Update, result.Main, result.Delta))
	case config.FormatYAML:
		return renderer.EncodeYAML(renderer.BuildDocument(result.Update, result.Main, result.Delta))
	case config.FormatHTML:
		var buf bytes.Buffer

		plotErr := renderer.RenderPlot(&buf, result.Delta, opts.Theme)
		if plotErr != nil {
			return nil, plotErr
		}

		return buf.Bytes(), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}
}
