package config

// Output format names.
const (
	FormatText     = "text"
	FormatMarkdown = "markdown"
	FormatJSON     = "json"
	FormatYAML     = "yaml"
	FormatHTML     = "html"
)

// Output defaults.
var DefaultOutputFormats = []string{FormatText, FormatMarkdown}

// Defaults for the remaining sections.
const (
	DefaultOutputSingle   = false
	DefaultOutputTheme    = "light"
	DefaultCompareJoin    = "position"
	DefaultBudgetCategory = "total"
	DefaultBudgetMax      = 0.0
	DefaultMetricsFile    = ""
	DefaultSummary        = false
	DefaultNoColor        = false
	DefaultLogLevel       = "info"
	DefaultLogJSON        = false
	DefaultOTLPEndpoint   = ""
	DefaultOTLPInsecure   = false
	DefaultOTLPHeaders    = ""
	DefaultEnvironment    = ""
)

// Trace sampling and exporter shutdown defaults.
const (
	DefaultDebugTrace         = false
	DefaultSampleRatio        = 0.0
	DefaultShutdownTimeoutSec = 5
)
