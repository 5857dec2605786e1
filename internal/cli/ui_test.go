package cli

import (
	"bytes"
	"io"
	"math"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/briandowns/spinner"

	"github.com/agbru/besselj/internal/testutil"
	"github.com/agbru/besselj/internal/ui"
)

// MockSpinner for testing
type MockSpinner struct {
	mu      sync.Mutex
	started bool
	stopped bool
	suffix  string
}

func (m *MockSpinner) Start() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.started = true
}

func (m *MockSpinner) Stop() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.stopped = true
}

func (m *MockSpinner) UpdateSuffix(suffix string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.suffix = suffix
}

func TestFormatExecutionDuration(t *testing.T) {
	t.Parallel()
	tests := []struct {
		d        time.Duration
		expected string
	}{
		{420 * time.Nanosecond, "420ns"},
		{10 * time.Microsecond, "10µs"},
		{1500 * time.Microsecond, "1ms"}, // Truncates
		{10 * time.Millisecond, "10ms"},
		{2 * time.Second, "2s"},
	}

	for _, tt := range tests {
		got := FormatExecutionDuration(tt.d)
		if got != tt.expected {
			t.Errorf("FormatExecutionDuration(%v) = %s; want %s", tt.d, got, tt.expected)
		}
	}
}

func TestProgressBar(t *testing.T) {
	t.Parallel()
	tests := []struct {
		progress float64
		length   int
		contains string
	}{
		{0.0, 10, "░░░░░░░░░░"},
		{0.5, 10, "█████░░░░░"},
		{1.0, 10, "██████████"},
		{1.2, 10, "██████████"},  // Cap at 1.0
		{-0.1, 10, "░░░░░░░░░░"}, // Floor at 0.0
	}

	for _, tt := range tests {
		got := progressBar(tt.progress, tt.length)
		if got != tt.contains {
			t.Errorf("progressBar(%f, %d) = %s; want %s", tt.progress, tt.length, got, tt.contains)
		}
	}
}

func TestFormatValue(t *testing.T) {
	t.Parallel()
	tests := []struct {
		v        float64
		full     bool
		expected string
	}{
		{0.7651976865579666, false, "0.7651976866"},
		{0.7651976865579666, true, "0.7651976865579666"},
		{2.630615123687453e-10, false, "2.630615124e-10"},
		{-0.25, false, "-0.25"},
		{0, false, "0"},
		{math.NaN(), false, "NaN"},
		{math.Inf(-1), true, "-Inf"},
	}
	for _, tt := range tests {
		if got := FormatValue(tt.v, tt.full); got != tt.expected {
			t.Errorf("FormatValue(%v, %v) = %q; want %q", tt.v, tt.full, got, tt.expected)
		}
	}
}

func TestFormatOrder(t *testing.T) {
	t.Parallel()
	if got := FormatOrder(3, 3); got != "3" {
		t.Errorf("FormatOrder(3, 3) = %q", got)
	}
	if got := FormatOrder(2.6, 3); got != "2.6 → 3" {
		t.Errorf("FormatOrder(2.6, 3) = %q", got)
	}
	if got := FormatOrder(-0.4, 0); got != "-0.4 → 0" {
		t.Errorf("FormatOrder(-0.4, 0) = %q", got)
	}
}

func TestDisplayResult(t *testing.T) {
	ui.InitTheme(false)

	tests := []struct {
		name     string
		x        float64
		n        int
		value    float64
		duration time.Duration
		verbose  bool
		details  bool
		contains []string
		excludes []string
	}{
		{
			name:     "Concise Output",
			x:        1,
			n:        0,
			value:    0.7651976865579666,
			contains: []string{"J_0(1) = 0.7651976866"},
			excludes: []string{"Evaluation details"},
		},
		{
			name:     "Verbose Output",
			x:        1,
			n:        0,
			value:    0.7651976865579666,
			verbose:  true,
			contains: []string{"J_0(1) = 0.7651976865579666"},
		},
		{
			name:     "Details",
			x:        10,
			n:        5,
			value:    -0.2340615281867936,
			duration: 3 * time.Microsecond,
			details:  true,
			contains: []string{"--- Evaluation details ---", "Strategy          : forward", "Evaluation time   : 3µs", "Scientific        : -2.340615e-01"},
		},
		{
			name:     "Sub-nanosecond Duration",
			x:        2,
			n:        9,
			value:    math.Jn(9, 2),
			details:  true,
			contains: []string{"Strategy          : miller", "< 1ns"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			DisplayResult(tt.x, tt.n, tt.value, tt.duration, tt.verbose, tt.details, &buf)
			output := testutil.StripAnsiCodes(buf.String())
			for _, s := range tt.contains {
				if !strings.Contains(output, s) {
					t.Errorf("Expected output to contain %q, but got:\n%s", s, output)
				}
			}
			for _, s := range tt.excludes {
				if strings.Contains(output, s) {
					t.Errorf("Expected output not to contain %q, but got:\n%s", s, output)
				}
			}
		})
	}
}

func TestRealSpinner(t *testing.T) {
	t.Parallel()
	s := spinner.New(spinner.CharSets[11], 100*time.Millisecond, spinner.WithWriter(io.Discard))
	rs := &realSpinner{s}

	// Just verify these methods don't panic
	rs.Start()
	rs.UpdateSuffix(" test")
	rs.Stop()
}

func TestColors(t *testing.T) {
	ui.InitTheme(true)
	for name, fn := range map[string]func() string{
		"Reset": ColorReset, "Red": ColorRed, "Green": ColorGreen, "Yellow": ColorYellow,
		"Blue": ColorBlue, "Magenta": ColorMagenta, "Cyan": ColorCyan, "Bold": ColorBold,
		"Underline": ColorUnderline,
	} {
		if got := fn(); got != "" {
			t.Errorf("Color%s() = %q with colors disabled, want empty", name, got)
		}
	}
	ui.InitTheme(false)
}

func TestIsTerminal(t *testing.T) {
	t.Parallel()
	if IsTerminal(&bytes.Buffer{}) {
		t.Error("a buffer is not a terminal")
	}
}

// withTerminal forces the interactive display path and replaces the spinner.
func withTerminal(t *testing.T, s Spinner) {
	t.Helper()
	origSpinner, origTerminal := newSpinner, isTerminal
	t.Cleanup(func() { newSpinner, isTerminal = origSpinner, origTerminal })
	newSpinner = func(options ...spinner.Option) Spinner { return s }
	isTerminal = func(io.Writer) bool { return true }
}

func TestDisplayProgress(t *testing.T) {
	mockS := &MockSpinner{}
	withTerminal(t, mockS)

	var wg sync.WaitGroup
	wg.Add(1)

	progressChan := make(chan float64)
	go func() {
		progressChan <- 0.25
		progressChan <- 0.5
		time.Sleep(2 * ProgressRefreshRate)
		close(progressChan)
	}()

	DisplayProgress(&wg, progressChan, "Sampling", io.Discard)
	wg.Wait()

	mockS.mu.Lock()
	defer mockS.mu.Unlock()
	if !mockS.started {
		t.Error("Spinner should have started")
	}
	if !mockS.stopped {
		t.Error("Spinner should have stopped")
	}
	if !strings.Contains(mockS.suffix, "Sampling:") || !strings.Contains(mockS.suffix, "50.00%") {
		t.Errorf("unexpected spinner suffix %q", mockS.suffix)
	}
}

func TestDisplayProgress_NotATerminal(t *testing.T) {
	t.Parallel()
	var wg sync.WaitGroup
	wg.Add(1)
	progressChan := make(chan float64, 3)
	progressChan <- 0.1
	progressChan <- 0.9
	close(progressChan)

	var buf bytes.Buffer
	DisplayProgress(&wg, progressChan, "Sampling", &buf)
	wg.Wait()
	if buf.Len() != 0 {
		t.Errorf("expected no output for a non-terminal writer, got %q", buf.String())
	}
	if len(progressChan) != 0 {
		t.Error("progress updates should have been drained")
	}
}
