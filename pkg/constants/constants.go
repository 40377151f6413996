// Package constants provides shared constants for the hydrocast application.
package constants

// Financial constants
const (
	// DecimalPrecision is the precision for currency rounding (2 decimal places)
	DecimalPrecision = 100

	// CurrencyTolerance is the tolerance for currency comparisons (1 cent)
	CurrencyTolerance = 0.01
)

// Output format constants
const (
	// OutputFormatPretty is the human-readable output format
	OutputFormatPretty = "pretty"

	// OutputFormatCSV is the CSV output format
	OutputFormatCSV = "csv"
)

// Configuration file constants
const (
	// DefaultConfigFile is the default configuration file name
	DefaultConfigFile = "config.yaml"

	// ExampleConfigFile is the example configuration file name
	ExampleConfigFile = "config.yaml.example"

	// DefaultServerConfigFile is the default server configuration file name
	DefaultServerConfigFile = "server-config.yaml"
)

// Solver defaults
const (
	// DefaultSolverTolerance is the function-value convergence tolerance for
	// the NPV maximizer
	DefaultSolverTolerance = 1e-6

	// DefaultSolverMaxIterations caps the solver's iteration budget
	DefaultSolverMaxIterations = 1000

	// DefaultConstraintTolerance is the slack allowed when checking the
	// levelized cost against the selling price
	DefaultConstraintTolerance = 1e-6

	// DefaultSweepPoints is the number of samples in a sensitivity sweep when
	// the configuration does not specify one
	DefaultSweepPoints = 20
)

// Server configuration defaults
const (
	// DefaultServerAddress is the default HTTP listen address for the web UI
	DefaultServerAddress = ":8080"

	// DefaultMaxBodySizeBytes is the default maximum request body size for
	// uploaded configurations (256 KB)
	DefaultMaxBodySizeBytes int64 = 256 * 1024
)
