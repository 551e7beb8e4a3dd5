// Package config provides YAML and environment configuration for sizediff.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"math"
	"slices"

	"github.com/Sumatoshi-tech/sizediff/pkg/budget"
	"github.com/Sumatoshi-tech/sizediff/pkg/delta"
)

// Config is the top-level configuration struct for sizediff.
// Field tags use mapstructure for viper unmarshalling.
type Config struct {
	Output    OutputConfig    `mapstructure:"output"`
	Compare   CompareConfig   `mapstructure:"compare"`
	Budget    BudgetConfig    `mapstructure:"budget"`
	Metrics   MetricsConfig   `mapstructure:"metrics"`
	Summary   SummaryConfig   `mapstructure:"summary"`
	Logging   LoggingConfig   `mapstructure:"logging"`
	Telemetry TelemetryConfig `mapstructure:"telemetry"`
}

// OutputConfig selects which report files are written.
type OutputConfig struct {
	Formats []string `mapstructure:"formats"`
	// Single writes only the text report, to exactly the output prefix.
	Single bool   `mapstructure:"single"`
	Theme  string `mapstructure:"theme"`
}

// CompareConfig holds row pairing settings.
type CompareConfig struct {
	Join string `mapstructure:"join"`
}

// BudgetConfig holds the growth gate.
type BudgetConfig struct {
	MaxIncrease float64 `mapstructure:"max_increase"`
	Category    string  `mapstructure:"category"`
}

// MetricsConfig holds Prometheus textfile export settings.
type MetricsConfig struct {
	Textfile string `mapstructure:"textfile"`
}

// SummaryConfig holds console summary settings.
type SummaryConfig struct {
	Enabled bool `mapstructure:"enabled"`
	NoColor bool `mapstructure:"no_color"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level string `mapstructure:"level"`
	JSON  bool   `mapstructure:"json"`
}

// TelemetryConfig holds OpenTelemetry export settings. DebugTrace samples
// every span and logs the span attributes the filter drops. A zero
// SampleRatio samples everything.
type TelemetryConfig struct {
	OTLPEndpoint       string  `mapstructure:"otlp_endpoint"`
	OTLPInsecure       bool    `mapstructure:"otlp_insecure"`
	OTLPHeaders        string  `mapstructure:"otlp_headers"`
	Environment        string  `mapstructure:"environment"`
	DebugTrace         bool    `mapstructure:"debug_trace"`
	SampleRatio        float64 `mapstructure:"sample_ratio"`
	ShutdownTimeoutSec int     `mapstructure:"shutdown_timeout_sec"`
}

var knownFormats = []string{FormatText, FormatMarkdown, FormatJSON, FormatYAML, FormatHTML}

// Sentinel errors for configuration validation.
var (
	// ErrNoFormats indicates output.formats is empty.
	ErrNoFormats = errors.New("output.formats must not be empty")
	// ErrUnknownFormat indicates output.formats names an unsupported format.
	ErrUnknownFormat = errors.New("output.formats contains an unknown format")
	// ErrInvalidLogLevel indicates logging.level is not a slog level.
	ErrInvalidLogLevel = errors.New("logging.level must be debug, info, warn or error")
	// ErrSampleRatio indicates telemetry.sample_ratio is outside [0, 1].
	ErrSampleRatio = errors.New("telemetry.sample_ratio must be between 0 and 1")
	// ErrShutdownTimeout indicates telemetry.shutdown_timeout_sec is negative.
	ErrShutdownTimeout = errors.New("telemetry.shutdown_timeout_sec must not be negative")
)

// Validate checks Config invariants and returns the first error found.
func (c *Config) Validate() error {
	if len(c.Output.Formats) == 0 {
		return ErrNoFormats
	}

	for _, f := range c.Output.Formats {
		if !slices.Contains(knownFormats, f) {
			return fmt.Errorf("%w: %q", ErrUnknownFormat, f)
		}
	}

	_, joinErr := delta.ParseJoin(c.Compare.Join)
	if joinErr != nil {
		return fmt.Errorf("compare.join: %w", joinErr)
	}

	budgetErr := c.BudgetLimit().Validate()
	if budgetErr != nil {
		return fmt.Errorf("budget: %w", budgetErr)
	}

	_, levelErr := c.Logging.SlogLevel()
	if levelErr != nil {
		return levelErr
	}

	return c.Telemetry.Validate()
}

// Validate checks the sampling ratio and shutdown timeout ranges.
func (t TelemetryConfig) Validate() error {
	if math.IsNaN(t.SampleRatio) || t.SampleRatio < 0 || t.SampleRatio > 1 {
		return fmt.Errorf("%w: %g", ErrSampleRatio, t.SampleRatio)
	}

	if t.ShutdownTimeoutSec < 0 {
		return fmt.Errorf("%w: %d", ErrShutdownTimeout, t.ShutdownTimeoutSec)
	}

	return nil
}

// HasFormat reports whether the named output format is enabled.
func (c *Config) HasFormat(name string) bool {
	return slices.Contains(c.Output.Formats, name)
}

// BudgetLimit returns the configured growth limit.
func (c *Config) BudgetLimit() budget.Limit {
	return budget.Limit{
		Category:    c.Budget.Category,
		MaxIncrease: c.Budget.MaxIncrease,
	}
}

// SlogLevel parses Level. An empty level is info.
func (l LoggingConfig) SlogLevel() (slog.Level, error) {
	if l.Level == "" {
		return slog.LevelInfo, nil
	}

	var level slog.Level

	err := level.UnmarshalText([]byte(l.Level))
	if err != nil {
		return slog.LevelInfo, fmt.Errorf("%w: %q", ErrInvalidLogLevel, l.Level)
	}

	return level, nil
}
