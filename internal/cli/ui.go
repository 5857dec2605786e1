// The cli package provides the command-line interface of besselj: result
// and frame presentation, a progress display for long membrane samplings,
// file output, shell completion and the interactive REPL.
package cli

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/briandowns/spinner"
	"golang.org/x/term"

	"github.com/agbru/besselj/internal/bessel"
	"github.com/agbru/besselj/internal/ui"
)

// FormatExecutionDuration formats a time.Duration for display.
// It shows nanoseconds below a microsecond, microseconds below a
// millisecond, milliseconds below a second, and the default string
// representation otherwise. Single evaluations usually land in the first
// bucket.
//
// Parameters:
//   - d: The duration to format.
//
// Returns:
//   - string: A formatted string representing the duration.
func FormatExecutionDuration(d time.Duration) string {
	switch {
	case d < time.Microsecond:
		return fmt.Sprintf("%dns", d.Nanoseconds())
	case d < time.Millisecond:
		return fmt.Sprintf("%dµs", d.Microseconds())
	case d < time.Second:
		return fmt.Sprintf("%dms", d.Milliseconds())
	}
	return d.String()
}

const (
	// DisplayPrecision is the number of significant digits shown for a value
	// unless full precision is requested.
	DisplayPrecision = 10
	// ProgressRefreshRate defines the refresh frequency of the progress bar.
	ProgressRefreshRate = 200 * time.Millisecond
	// ProgressBarWidth defines the width in characters of the progress bar.
	ProgressBarWidth = 40
)

// Color functions return ANSI escape codes from the current theme.

// ColorReset returns the reset escape code from the current theme.
func ColorReset() string { return ui.GetCurrentTheme().Reset }

// ColorRed returns the error color from the current theme.
func ColorRed() string { return ui.GetCurrentTheme().Error }

// ColorGreen returns the success color from the current theme.
func ColorGreen() string { return ui.GetCurrentTheme().Success }

// ColorYellow returns the warning color from the current theme.
func ColorYellow() string { return ui.GetCurrentTheme().Warning }

// ColorBlue returns the primary color from the current theme.
func ColorBlue() string { return ui.GetCurrentTheme().Primary }

// ColorMagenta returns the info color from the current theme.
func ColorMagenta() string { return ui.GetCurrentTheme().Info }

// ColorCyan returns the secondary color from the current theme.
func ColorCyan() string { return ui.GetCurrentTheme().Secondary }

// ColorBold returns the bold escape code from the current theme.
func ColorBold() string { return ui.GetCurrentTheme().Bold }

// ColorUnderline returns the underline escape code from the current theme.
func ColorUnderline() string { return ui.GetCurrentTheme().Underline }

// Spinner abstracts a terminal spinner so that DisplayProgress can be tested
// without a terminal.
type Spinner interface {
	// Start begins the spinner animation.
	Start()
	// Stop halts the spinner animation.
	Stop()
	// UpdateSuffix sets the text that is displayed after the spinner.
	UpdateSuffix(suffix string)
}

// realSpinner adapts spinner.Spinner to the Spinner interface.
type realSpinner struct {
	s *spinner.Spinner
}

func (rs *realSpinner) Start() { rs.s.Start() }
func (rs *realSpinner) Stop()  { rs.s.Stop() }

func (rs *realSpinner) UpdateSuffix(suffix string) {
	rs.s.Lock()
	rs.s.Suffix = suffix
	rs.s.Unlock()
}

var newSpinner = func(options ...spinner.Option) Spinner {
	s := spinner.New(spinner.CharSets[11], ProgressRefreshRate, options...)
	return &realSpinner{s}
}

// isTerminal reports whether w is a terminal. It is a variable so tests can
// force the interactive path.
var isTerminal = func(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// IsTerminal reports whether w writes to a terminal.
func IsTerminal(w io.Writer) bool {
	return isTerminal(w)
}

// progressBar generates a string representing a textual progress bar.
//
// Parameters:
//   - progress: The normalized progress value (0.0 to 1.0).
//   - length: The total character width of the progress bar.
//
// Returns:
//   - string: A string representation of the progress bar.
func progressBar(progress float64, length int) string {
	if progress > 1.0 {
		progress = 1.0
	}
	if progress < 0.0 {
		progress = 0.0
	}
	count := int(progress * float64(length))
	return strings.Repeat("█", count) + strings.Repeat("░", length-count)
}

// DisplayProgress renders a spinner with a progress bar and ETA while a
// membrane frame is sampled. It is designed to run in its own goroutine and
// returns when progressChan is closed.
//
// Nothing is drawn unless out is a terminal: the updates are drained so that
// piped or redirected output stays clean.
//
// Parameters:
//   - wg: A WaitGroup to signal when the display routine is complete.
//   - progressChan: The channel receiving completed fractions (0.0 to 1.0).
//   - label: The text shown before the bar.
//   - out: The io.Writer to which the progress bar is rendered.
func DisplayProgress(wg *sync.WaitGroup, progressChan <-chan float64, label string, out io.Writer) {
	defer wg.Done()
	if !isTerminal(out) {
		for range progressChan {
		}
		return
	}

	state := NewProgressWithETA()
	s := newSpinner(spinner.WithWriter(out))
	s.Start()
	defer s.Stop()

	ticker := time.NewTicker(ProgressRefreshRate)
	defer ticker.Stop()

	for {
		select {
		case value, ok := <-progressChan:
			if !ok {
				return
			}
			state.Update(value)
		case <-ticker.C:
			s.UpdateSuffix(" " + label + ": " + FormatProgressBarWithETA(state.Progress(), state.GetETA(), ProgressBarWidth))
		}
	}
}

// FormatValue formats a function value for display: DisplayPrecision
// significant digits, or the shortest exact representation when full is
// set.
func FormatValue(v float64, full bool) string {
	if full {
		return strconv.FormatFloat(v, 'g', -1, 64)
	}
	return strconv.FormatFloat(v, 'g', DisplayPrecision, 64)
}

// FormatOrder formats a requested order, showing the rounding when it is
// not an integer, e.g. "2.6 → 3".
func FormatOrder(requested float64, n int) string {
	if requested == float64(n) {
		return strconv.Itoa(n)
	}
	return fmt.Sprintf("%s → %d", strconv.FormatFloat(requested, 'g', -1, 64), n)
}

// DisplayResult formats and prints the value of J_n(x). With details it
// adds the dispatch branch and the evaluation time.
//
// Parameters:
//   - x: The argument.
//   - n: The integer order.
//   - value: J_n(x).
//   - duration: The time taken by the evaluation.
//   - verbose: If true, prints the value with full precision.
//   - details: If true, prints the strategy and timing.
//   - out: The io.Writer for the output.
func DisplayResult(x float64, n int, value float64, duration time.Duration, verbose, details bool, out io.Writer) {
	fmt.Fprintf(out, "\nJ_%s%d%s(%s%g%s) = %s%s%s\n",
		ColorMagenta(), n, ColorReset(),
		ColorMagenta(), x, ColorReset(),
		ColorGreen(), FormatValue(value, verbose), ColorReset())

	if !details {
		return
	}
	fmt.Fprintf(out, "\n%s--- Evaluation details ---%s\n", ColorBold(), ColorReset())
	durationStr := FormatExecutionDuration(duration)
	if duration == 0 {
		durationStr = "< 1ns"
	}
	fmt.Fprintf(out, "Strategy          : %s%s%s\n", ColorCyan(), bessel.Method(x, n), ColorReset())
	fmt.Fprintf(out, "Evaluation time   : %s%s%s\n", ColorGreen(), durationStr, ColorReset())
	fmt.Fprintf(out, "Scientific        : %s%.6e%s\n", ColorCyan(), value, ColorReset())
}
