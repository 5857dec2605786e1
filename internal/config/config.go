// Package config provides the configuration management for the besselj
// application: the configuration struct, command-line parsing with
// environment overrides, and validation.
package config

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"math"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/agbru/besselj/internal/bessel"
	apperrors "github.com/agbru/besselj/internal/errors"
	"github.com/agbru/besselj/internal/membrane"
)

const (
	// EnvPrefix is the prefix for all environment variables used by besselj.
	EnvPrefix = "BESSELJ_"
)

// Default configuration values.
// These can be overridden via command-line flags or environment variables.
const (
	DefaultX        = 1.0
	DefaultN        = 0.0
	DefaultTimeout  = 30 * time.Second
	DefaultPort     = "8080"
	DefaultAlgo     = "all"
	DefaultMaxOrder = 10000
	DefaultLogLevel = "warn"
)

// AppConfig aggregates the application's configuration parameters.
type AppConfig struct {
	// X is the argument of J_n(x).
	X float64
	// N is the requested order. Fractional orders are rounded to the
	// nearest integer, half away from zero; see Order.
	N float64
	// Algo is "all" or a registered evaluator name.
	Algo string
	// Timeout bounds a single CLI run.
	Timeout time.Duration
	// MaxOrder bounds |n| (0 disables the limit).
	MaxOrder int

	// Verbose prints the value with full precision.
	Verbose bool
	// Details adds the dispatch strategy and timing to the report.
	Details bool
	// JSONOutput prints the result as JSON.
	JSONOutput bool
	// Quiet prints only the value.
	Quiet bool
	// OutputFile, if set, also writes the result to this path.
	OutputFile string
	// NoColor disables colors (NO_COLOR is honoured as well).
	NoColor bool
	// LogLevel is the minimum zerolog level written to stderr; empty means
	// DefaultLogLevel.
	LogLevel string

	// ServerMode starts the HTTP server; Port is where it listens.
	ServerMode bool
	Port       string
	// Interactive starts the REPL.
	Interactive bool
	// Completion, if set, prints a completion script for that shell and exits.
	Completion string

	// Membrane samples a membrane mode instead of evaluating J_n(x).
	Membrane bool
	// M and K select the membrane mode; T is the sampling time.
	M, K int
	T    float64
	// Radius and Velocity describe the membrane; Rings and Spokes its grid.
	Radius   float64
	Velocity float64
	Rings    int
	Spokes   int
}

// Order returns N rounded to the nearest integer.
func (c AppConfig) Order() int {
	return bessel.RoundOrder(c.N)
}

// Level returns the parsed LogLevel, DefaultLogLevel when it is empty.
func (c AppConfig) Level() zerolog.Level {
	name := c.LogLevel
	if name == "" {
		name = DefaultLogLevel
	}
	level, err := zerolog.ParseLevel(name)
	if err != nil {
		return zerolog.WarnLevel
	}
	return level
}

// MembraneConfig converts the membrane flags into a membrane.Config.
func (c AppConfig) MembraneConfig() membrane.Config {
	return membrane.Config{
		Radius:          c.Radius,
		WaveVelocity:    c.Velocity,
		Mode:            membrane.Mode{M: c.M, K: c.K},
		RadialSegments:  c.Rings,
		AngularSegments: c.Spokes,
	}
}

// Validate checks the semantic consistency of the configuration.
//
// Parameters:
//   - availableAlgos: The registered evaluator names.
//
// Returns:
//   - error: A ConfigError if the configuration is invalid, nil otherwise.
func (c AppConfig) Validate(availableAlgos []string) error {
	if c.Timeout <= 0 {
		return apperrors.NewConfigError("timeout value must be strictly positive")
	}
	if math.IsNaN(c.N) || math.IsInf(c.N, 0) {
		return apperrors.NewConfigError("order n must be a finite number, got %v", c.N)
	}
	if c.MaxOrder < 0 {
		return apperrors.NewConfigError("max order cannot be negative: %d", c.MaxOrder)
	}
	if !bessel.OrderInRange(c.N) {
		return apperrors.NewConfigError("order n=%v is outside the supported range of ±%d", c.N, bessel.MaxSupportedOrder)
	}
	if n := c.Order(); c.MaxOrder > 0 && (n > c.MaxOrder || n < -c.MaxOrder) {
		return apperrors.NewConfigError("order n=%v exceeds the maximum of %d", c.N, c.MaxOrder)
	}
	if _, err := zerolog.ParseLevel(c.LogLevel); err != nil {
		return apperrors.NewConfigError("unrecognized log level: '%s'", c.LogLevel)
	}
	if c.Algo != "all" && !contains(availableAlgos, c.Algo) {
		return apperrors.NewConfigError("unrecognized algorithm: '%s'. Valid algorithms are: 'all' or [%s]", c.Algo, strings.Join(availableAlgos, ", "))
	}
	if c.Membrane {
		if err := c.MembraneConfig().Validate(); err != nil {
			return apperrors.NewConfigError("invalid membrane: %v", err)
		}
	}
	return nil
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

// ParseConfig parses the command-line arguments into an AppConfig, applies
// BESSELJ_ environment overrides for flags not set explicitly, and validates
// the result.
//
// Parameters:
//   - programName: The name of the program, used in the usage message.
//   - args: The command-line arguments (typically os.Args[1:]).
//   - errorWriter: Where parsing errors and usage are printed.
//   - availableAlgos: The registered evaluator names.
//
// Returns:
//   - AppConfig: The populated configuration.
//   - error: An error if flag parsing or validation fails.
func ParseConfig(programName string, args []string, errorWriter io.Writer, availableAlgos []string) (AppConfig, error) {
	fs := flag.NewFlagSet(programName, flag.ContinueOnError)
	fs.SetOutput(errorWriter)
	algoHelp := fmt.Sprintf("Evaluator to use: 'all' (default, compares them) or one of [%s].", strings.Join(availableAlgos, ", "))

	config := AppConfig{}
	fs.Float64Var(&config.X, "x", DefaultX, "Argument x of J_n(x).")
	fs.Float64Var(&config.N, "n", DefaultN, "Order n of J_n(x); fractional orders are rounded.")
	fs.StringVar(&config.Algo, "algo", DefaultAlgo, algoHelp)
	fs.DurationVar(&config.Timeout, "timeout", DefaultTimeout, "Maximum execution time.")
	fs.IntVar(&config.MaxOrder, "max-order", DefaultMaxOrder, "Maximum accepted |n| (0 for no limit).")
	fs.BoolVar(&config.Verbose, "v", false, "Display the value with full precision.")
	fs.BoolVar(&config.Details, "d", false, "Display the evaluation strategy and timing.")
	fs.BoolVar(&config.Details, "details", false, "Alias for -d.")
	fs.BoolVar(&config.JSONOutput, "json", false, "Output results in JSON format.")
	fs.BoolVar(&config.Quiet, "quiet", false, "Quiet mode - print only the value.")
	fs.BoolVar(&config.Quiet, "q", false, "Quiet mode (shorthand).")
	fs.StringVar(&config.OutputFile, "output", "", "Output file path for the result.")
	fs.StringVar(&config.OutputFile, "o", "", "Output file path (shorthand).")
	fs.BoolVar(&config.NoColor, "no-color", false, "Disable colored output (also respects NO_COLOR env var).")
	fs.StringVar(&config.LogLevel, "log-level", DefaultLogLevel, "Minimum log level (debug, info, warn, error, disabled).")
	fs.BoolVar(&config.ServerMode, "server", false, "Start in HTTP server mode.")
	fs.StringVar(&config.Port, "port", DefaultPort, "Port to listen on in server mode.")
	fs.BoolVar(&config.Interactive, "interactive", false, "Start in interactive REPL mode.")
	fs.StringVar(&config.Completion, "completion", "", "Print a completion script for the shell (bash, zsh, fish, powershell).")

	fs.BoolVar(&config.Membrane, "membrane", false, "Sample a vibrating membrane mode instead of a single value.")
	fs.IntVar(&config.M, "m", membrane.DefaultAngularMode, "Angular mode m of the membrane (0-6).")
	fs.IntVar(&config.K, "k", membrane.DefaultRadialMode, "Radial mode k of the membrane (1-5).")
	fs.Float64Var(&config.T, "t", 0, "Time at which the membrane is sampled.")
	fs.Float64Var(&config.Radius, "radius", membrane.DefaultRadius, "Membrane radius.")
	fs.Float64Var(&config.Velocity, "velocity", membrane.DefaultWaveVelocity, "Wave velocity on the membrane.")
	fs.IntVar(&config.Rings, "rings", membrane.DefaultRadialSegments, "Radial segments of the sampling grid.")
	fs.IntVar(&config.Spokes, "spokes", membrane.DefaultAngularSegments, "Angular segments of the sampling grid.")

	setCustomUsage(fs)

	if err := fs.Parse(args); err != nil {
		return AppConfig{}, err
	}

	applyEnvOverrides(&config, fs)

	config.Algo = strings.ToLower(config.Algo)
	config.LogLevel = strings.ToLower(config.LogLevel)
	if err := config.Validate(availableAlgos); err != nil {
		fmt.Fprintln(errorWriter, "Configuration error:", err)
		fs.Usage()
		return AppConfig{}, errors.Join(errors.New("invalid configuration"), err)
	}
	return config, nil
}
