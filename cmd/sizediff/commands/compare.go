// Package commands implements the sizediff CLI.
package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/Sumatoshi-tech/sizediff/pkg/budget"
	"github.com/Sumatoshi-tech/sizediff/pkg/compare"
	"github.com/Sumatoshi-tech/sizediff/pkg/config"
	"github.com/Sumatoshi-tech/sizediff/pkg/delta"
	"github.com/Sumatoshi-tech/sizediff/pkg/observability"
	"github.com/Sumatoshi-tech/sizediff/pkg/plotpage"
	"github.com/Sumatoshi-tech/sizediff/pkg/renderer"
	"github.com/Sumatoshi-tech/sizediff/pkg/terminal"
	"github.com/Sumatoshi-tech/sizediff/pkg/version"
)

const (
	compareCmdUse   = "sizediff <update-report> <main-report> <output-prefix>"
	compareCmdShort = "Compare memory size reports of a branch against main"
	compareCmdLong  = `Compare two size tool reports, one built from this branch (update) and
one from main, and write the percentage change of every size category.

Writes <output-prefix>.txt and <output-prefix>.md by default. Use --format to
add json, yaml or html outputs, or --single to write only the text report to
exactly <output-prefix>.

Rows are paired by position by default, so both reports must list the same
number of compiled units or the comparison fails. Use --join filename to pair
rows by filename when the reports may differ in length or order.

Use --version to print the build version.`
	compareArgCount = 3

	usageLine = "Usage: sizediff <path to update report> <path to main report> <path to output>"
	writeOK   = "Write ok."
	testOK    = "Test ok."

	envOTLPHeaders = "OTEL_EXPORTER_OTLP_HEADERS"
)

// Exit codes.
const (
	ExitOK             = 0
	ExitError          = 1
	ExitBudgetExceeded = 2
)

// ErrUsage is returned when the positional arguments are wrong. The usage
// line has already been printed.
var ErrUsage = errors.New("wrong number of arguments")

type observabilityInit func(cfg observability.Config, w io.Writer) (observability.Providers, error)

// CompareCommand holds the flags of the root command.
type CompareCommand struct {
	configPath  string
	formats     []string
	single      bool
	join        string
	theme       string
	maxIncrease float64
	category    string
	metricsFile string
	summary     bool
	noColor     bool
	check       string
	verbose     bool
	quiet       bool
	logJSON     bool

	initObservability observabilityInit
}

// NewRootCommand creates the sizediff root command.
func NewRootCommand() *cobra.Command {
	return newRootCommandWithDeps(observability.InitWithWriter)
}

func newRootCommandWithDeps(initObs observabilityInit) *cobra.Command {
	cc := &CompareCommand{initObservability: initObs}

	cmd := &cobra.Command{
		Use:           compareCmdUse,
		Short:         compareCmdShort,
		Long:          compareCmdLong,
		Version:       version.Version,
		Args:          usageArgs,
		RunE:          cc.run,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	flags := cmd.Flags()
	flags.StringVar(&cc.configPath, "config", "", "Config file path (default: .sizediff.yaml in CWD or $HOME)")
	flags.StringSliceVar(&cc.formats, "format", nil, "Output formats: text, markdown, json, yaml, html")
	flags.BoolVar(&cc.single, "single", false, "Write only the text report, to exactly <output-prefix>")
	flags.StringVar(&cc.join, "join", "", "Row pairing: position or filename")
	flags.StringVar(&cc.theme, "theme", "", "HTML chart theme: light or dark")
	flags.Float64Var(&cc.maxIncrease, "max-increase", 0, "Fail with exit code 2 when a row grows more than this percent (0 = off)")
	flags.StringVar(&cc.category, "budget-category", "", "Size category checked by --max-increase: text, data, bss or total")
	flags.StringVar(&cc.metricsFile, "metrics-file", "", "Write a Prometheus textfile with sizes and changes")
	flags.BoolVar(&cc.summary, "summary", false, "Print a colored summary table")
	flags.BoolVar(&cc.noColor, "no-color", false, "Disable colored summary output")
	flags.StringVar(&cc.check, "check", "", "Compare the text report with an expected file")
	flags.BoolVarP(&cc.verbose, "verbose", "v", false, "Debug logging")
	flags.BoolVarP(&cc.quiet, "quiet", "q", false, "Only log errors and skip the success line")
	flags.BoolVar(&cc.logJSON, "log-json", false, "Log JSON records")

	cmd.SetVersionTemplate(version.String() + "\n")

	return cmd
}

func usageArgs(cmd *cobra.Command, args []string) error {
	if len(args) == compareArgCount {
		return nil
	}

	fmt.Fprintln(cmd.OutOrStdout(), usageLine)

	return fmt.Errorf("%w: got %d, want %d", ErrUsage, len(args), compareArgCount)
}

// ExitCode maps a command error to the process exit status.
func ExitCode(err error) int {
	switch {
	case err == nil:
		return ExitOK
	case errors.Is(err, budget.ErrBudgetExceeded):
		return ExitBudgetExceeded
	default:
		return ExitError
	}
}

func (cc *CompareCommand) run(cmd *cobra.Command, args []string) error {
	cfg, loadErr := config.LoadConfig(cc.configPath)
	if loadErr != nil {
		return loadErr
	}

	cc.applyFlags(cmd, cfg)

	validateErr := cfg.Validate()
	if validateErr != nil {
		return fmt.Errorf("invalid flags: %w", validateErr)
	}

	providers, obsErr := cc.initObservability(cc.observabilityConfig(cfg), cmd.ErrOrStderr())
	if obsErr != nil {
		return fmt.Errorf("init observability: %w", obsErr)
	}

	ctx := cmd.Context()

	defer func() {
		shutdownErr := providers.Shutdown(context.WithoutCancel(ctx))
		if shutdownErr != nil {
			providers.Logger.Warn("telemetry shutdown failed", "error", shutdownErr)
		}
	}()

	runMetrics, metricsErr := observability.NewRunMetrics(providers.Meter)
	if metricsErr != nil {
		return metricsErr
	}

	join, _ := delta.ParseJoin(cfg.Compare.Join)

	result, runErr := compare.Run(ctx, compare.Options{
		UpdatePath:   args[0],
		MainPath:     args[1],
		OutputPrefix: args[2],
		Formats:      cfg.Output.Formats,
		Single:       cfg.Output.Single,
		Join:         join,
		Theme:        plotpage.ParseTheme(cfg.Output.Theme),
		Budget:       cfg.BudgetLimit(),
		MetricsFile:  cfg.Metrics.Textfile,
		CheckPath:    cc.check,
		Tracer:       providers.Tracer,
		Logger:       providers.Logger,
		RunMetrics:   runMetrics,
	})

	if result != nil && cfg.Summary.Enabled {
		termCfg := terminal.NewConfig()
		termCfg.NoColor = termCfg.NoColor || cfg.Summary.NoColor

		fmt.Fprint(cmd.OutOrStdout(), renderer.FormatSummary(result.Update, result.Main, result.Delta, termCfg))
	}

	if runErr != nil {
		return runErr
	}

	providers.Logger.DebugContext(ctx, "compare finished", slog.Int("outputs", len(result.Outputs)))

	if cc.quiet {
		return nil
	}

	fmt.Fprintln(cmd.OutOrStdout(), writeOK)

	if cc.check != "" {
		fmt.Fprintln(cmd.OutOrStdout(), testOK)
	}

	return nil
}

// applyFlags overrides config values with flags set on the command line.
func (cc *CompareCommand) applyFlags(cmd *cobra.Command, cfg *config.Config) {
	flags := cmd.Flags()

	if flags.Changed("format") {
		cfg.Output.Formats = cc.formats
	}

	if flags.Changed("single") {
		cfg.Output.Single = cc.single
	}

	if flags.Changed("join") {
		cfg.Compare.Join = cc.join
	}

	if flags.Changed("theme") {
		cfg.Output.Theme = cc.theme
	}

	if flags.Changed("max-increase") {
		cfg.Budget.MaxIncrease = cc.maxIncrease
	}

	if flags.Changed("budget-category") {
		cfg.Budget.Category = cc.category
	}

	if flags.Changed("metrics-file") {
		cfg.Metrics.Textfile = cc.metricsFile
	}

	if flags.Changed("summary") {
		cfg.Summary.Enabled = cc.summary
	}

	if flags.Changed("no-color") {
		cfg.Summary.NoColor = cc.noColor
	}

	if flags.Changed("log-json") {
		cfg.Logging.JSON = cc.logJSON
	}

	switch {
	case cc.verbose:
		cfg.Logging.Level = "debug"
	case cc.quiet:
		cfg.Logging.Level = "error"
	}
}

func (cc *CompareCommand) observabilityConfig(cfg *config.Config) observability.Config {
	obsCfg := observability.DefaultConfig()
	obsCfg.ServiceVersion = version.Version
	obsCfg.Environment = cfg.Telemetry.Environment
	obsCfg.OTLPEndpoint = cfg.Telemetry.OTLPEndpoint
	obsCfg.OTLPInsecure = cfg.Telemetry.OTLPInsecure
	obsCfg.DebugTrace = cfg.Telemetry.DebugTrace
	obsCfg.SampleRatio = cfg.Telemetry.SampleRatio
	obsCfg.ShutdownTimeoutSec = cfg.Telemetry.ShutdownTimeoutSec
	obsCfg.LogJSON = cfg.Logging.JSON

	headers := cfg.Telemetry.OTLPHeaders
	if headers == "" {
		headers = os.Getenv(envOTLPHeaders)
	}

	obsCfg.OTLPHeaders = observability.ParseOTLPHeaders(headers)

	// Validate has already accepted the level.
	obsCfg.LogLevel, _ = cfg.Logging.SlogLevel()

	if cfg.BudgetLimit().Enabled() {
		obsCfg.Mode = observability.ModeCI
	}

	return obsCfg
}
