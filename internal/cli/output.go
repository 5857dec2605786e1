package cli

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/agbru/besselj/internal/bessel"
	"github.com/agbru/besselj/internal/membrane"
)

// OutputConfig holds configuration for result output.
type OutputConfig struct {
	// OutputFile is the path to save the result (empty for no file output).
	OutputFile string
	// Quiet prints only the value.
	Quiet bool
	// Verbose prints the value with full precision.
	Verbose bool
	// Details adds the strategy and timing.
	Details bool
}

// createOutputFile creates path and any missing parent directories.
func createOutputFile(path string) (*os.File, error) {
	if dir := filepath.Dir(path); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create directory: %w", err)
		}
	}
	file, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("failed to create output file: %w", err)
	}
	return file, nil
}

// WriteResultToFile writes an evaluation result to config.OutputFile, with a
// commented header. It does nothing if no file is configured.
//
// Parameters:
//   - x: The argument.
//   - n: The integer order.
//   - value: J_n(x).
//   - duration: The evaluation duration.
//   - algo: The evaluator name.
//   - config: Output configuration.
//
// Returns:
//   - error: An error if the file cannot be written.
func WriteResultToFile(x float64, n int, value float64, duration time.Duration, algo string, config OutputConfig) error {
	if config.OutputFile == "" {
		return nil
	}
	file, err := createOutputFile(config.OutputFile)
	if err != nil {
		return err
	}
	defer file.Close()

	w := bufio.NewWriter(file)
	fmt.Fprintf(w, "# Bessel Function Evaluation\n")
	fmt.Fprintf(w, "# Generated: %s\n", time.Now().Format(time.RFC3339))
	fmt.Fprintf(w, "# Algorithm: %s\n", algo)
	fmt.Fprintf(w, "# Strategy: %s\n", bessel.Method(x, n))
	fmt.Fprintf(w, "# Duration: %s\n", duration)
	fmt.Fprintf(w, "\nJ_%d(%s) = %s\n", n, FormatValue(x, true), FormatValue(value, true))
	return w.Flush()
}

// WriteFrameToFile writes a membrane frame as CSV (r, theta, z), one row per
// grid vertex, to path.
func WriteFrameToFile(frame *membrane.Frame, cfg membrane.Config, path string) error {
	if path == "" {
		return nil
	}
	file, err := createOutputFile(path)
	if err != nil {
		return err
	}
	defer file.Close()

	w := bufio.NewWriter(file)
	fmt.Fprintf(w, "# mode=%s t=%g lambda=%g radius=%g\n", frame.Mode, frame.Time, frame.Lambda, frame.Radius)
	fmt.Fprintln(w, "r,theta,z")
	for i, ring := range membrane.Grid(cfg) {
		for j, v := range ring {
			fmt.Fprintf(w, "%s,%s,%s\n", FormatValue(v.R, true), FormatValue(v.Theta, true), FormatValue(frame.Rings[i][j], true))
		}
	}
	return w.Flush()
}

// FormatQuietResult formats a value for quiet mode: the shortest
// representation that round-trips, suitable for scripting.
func FormatQuietResult(value float64) string {
	return FormatValue(value, true)
}

// DisplayQuietResult outputs a value in quiet mode (minimal output).
func DisplayQuietResult(out io.Writer, value float64) {
	fmt.Fprintln(out, FormatQuietResult(value))
}

// DisplayResultWithConfig displays a result with the given output
// configuration and saves it when a file is configured.
//
// Returns:
//   - error: An error if file output fails.
func DisplayResultWithConfig(out io.Writer, x float64, n int, value float64, duration time.Duration, algo string, config OutputConfig) error {
	if config.Quiet {
		DisplayQuietResult(out, value)
	} else {
		DisplayResult(x, n, value, duration, config.Verbose, config.Details, out)
	}

	if config.OutputFile != "" {
		if err := WriteResultToFile(x, n, value, duration, algo, config); err != nil {
			return err
		}
		if !config.Quiet {
			fmt.Fprintf(out, "\n%s✓ Result saved to: %s%s%s\n",
				ColorGreen(), ColorCyan(), config.OutputFile, ColorReset())
		}
	}
	return nil
}
