package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/peterh/liner"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"

	"github.com/agbru/besselj/internal/bessel"
)

const (
	replPrompt  = "besselj> "
	historyFile = ".besselj_history"
	// maxTableRows caps the number of rows the table command prints.
	maxTableRows = 1000
)

// REPLConfig holds configuration for the REPL session.
type REPLConfig struct {
	// DefaultAlgo is the evaluator selected at start-up.
	DefaultAlgo string
	// Timeout is the maximum duration of each command.
	Timeout time.Duration
	// MaxOrder bounds |n| (0 disables the limit).
	MaxOrder int
	// Verbose displays values with full precision.
	Verbose bool
}

// lineReader reads one line of input after showing a prompt.
type lineReader interface {
	Prompt(prompt string) (string, error)
	Close() error
}

// linerReader is the interactive lineReader: line editing and a history
// persisted in the user's home directory.
type linerReader struct {
	state       *liner.State
	historyPath string
}

func newLinerReader() *linerReader {
	state := liner.NewLiner()
	state.SetCtrlCAborts(true)
	lr := &linerReader{state: state}
	if home, err := os.UserHomeDir(); err == nil {
		lr.historyPath = filepath.Join(home, historyFile)
		if f, err := os.Open(lr.historyPath); err == nil {
			_, _ = state.ReadHistory(f)
			f.Close()
		}
	}
	return lr
}

func (lr *linerReader) Prompt(prompt string) (string, error) {
	line, err := lr.state.Prompt(prompt)
	if errors.Is(err, liner.ErrPromptAborted) {
		return "", io.EOF
	}
	if err == nil && strings.TrimSpace(line) != "" {
		lr.state.AppendHistory(line)
	}
	return line, err
}

func (lr *linerReader) Close() error {
	if lr.historyPath != "" {
		if f, err := os.Create(lr.historyPath); err == nil {
			_, _ = lr.state.WriteHistory(f)
			f.Close()
		}
	}
	return lr.state.Close()
}

// bufferedReader is the lineReader used when input is not the terminal.
type bufferedReader struct {
	reader *bufio.Reader
	out    io.Writer
}

func (br *bufferedReader) Prompt(prompt string) (string, error) {
	fmt.Fprint(br.out, ColorGreen()+prompt+ColorReset())
	line, err := br.reader.ReadString('\n')
	if err != nil && line != "" && errors.Is(err, io.EOF) {
		return line, nil
	}
	return line, err
}

func (br *bufferedReader) Close() error { return nil }

// REPL represents an interactive Bessel evaluation session.
type REPL struct {
	config      REPLConfig
	registry    map[string]bessel.Evaluator
	currentAlgo string
	in          io.Reader
	out         io.Writer
}

// NewREPL creates a new REPL instance.
//
// Parameters:
//   - registry: Map of available evaluators.
//   - config: REPL configuration.
//
// Returns:
//   - *REPL: A new REPL instance.
func NewREPL(registry map[string]bessel.Evaluator, config REPLConfig) *REPL {
	currentAlgo := config.DefaultAlgo
	if _, ok := registry[currentAlgo]; !ok {
		currentAlgo = ""
		if _, ok := registry[bessel.AlgoMiller]; ok {
			currentAlgo = bessel.AlgoMiller
		} else if names := sortedNames(registry); len(names) > 0 {
			currentAlgo = names[0]
		}
	}
	if config.Timeout <= 0 {
		config.Timeout = 30 * time.Second
	}

	return &REPL{
		config:      config,
		registry:    registry,
		currentAlgo: currentAlgo,
		out:         os.Stdout,
	}
}

// SetInput sets a custom input reader. Line editing and history are only
// available when reading from the terminal.
func (r *REPL) SetInput(in io.Reader) {
	r.in = in
}

// SetOutput sets a custom output writer (useful for testing).
func (r *REPL) SetOutput(out io.Writer) {
	r.out = out
}

func (r *REPL) newReader() lineReader {
	if r.in != nil {
		return &bufferedReader{reader: bufio.NewReader(r.in), out: r.out}
	}
	return newLinerReader()
}

// Start begins the interactive REPL session.
// It continuously reads user input and processes commands until
// the user exits, aborts with Ctrl-C or EOF is reached.
func (r *REPL) Start() {
	r.printBanner()
	r.printHelp()
	fmt.Fprintln(r.out)

	reader := r.newReader()
	defer reader.Close()

	for {
		input, err := reader.Prompt(replPrompt)
		if err != nil {
			if errors.Is(err, io.EOF) {
				fmt.Fprintln(r.out, "\nGoodbye!")
				return
			}
			fmt.Fprintf(r.out, "%sRead error: %v%s\n", ColorRed(), err, ColorReset())
			return
		}

		input = strings.TrimSpace(input)
		if input == "" {
			continue
		}
		if !r.processCommand(input) {
			return
		}
	}
}

func (r *REPL) printBanner() {
	fmt.Fprintf(r.out, "\n%s╔══════════════════════════════════════════════════════════╗%s\n", ColorCyan(), ColorReset())
	fmt.Fprintf(r.out, "%s║%s     %sBessel J_n(x) Evaluator - Interactive Mode%s           %s║%s\n",
		ColorCyan(), ColorReset(), ColorBold(), ColorReset(), ColorCyan(), ColorReset())
	fmt.Fprintf(r.out, "%s╚══════════════════════════════════════════════════════════╝%s\n\n", ColorCyan(), ColorReset())
}

func (r *REPL) printHelp() {
	fmt.Fprintf(r.out, "%sAvailable commands:%s\n", ColorBold(), ColorReset())
	fmt.Fprintf(r.out, "  %sj <x> <n>%s                 - Evaluate J_n(x) with the current evaluator\n", ColorYellow(), ColorReset())
	fmt.Fprintf(r.out, "  %s<x> <n>%s                   - Shorthand for j\n", ColorYellow(), ColorReset())
	fmt.Fprintf(r.out, "  %salgo <name>%s               - Change evaluator (%s)\n", ColorYellow(), ColorReset(), r.getAlgoList())
	fmt.Fprintf(r.out, "  %scompare <x> <n>%s           - Compare all evaluators for J_n(x)\n", ColorYellow(), ColorReset())
	fmt.Fprintf(r.out, "  %stable <n> <x0> <x1> <dx>%s  - Tabulate J_n over [x0, x1]\n", ColorYellow(), ColorReset())
	fmt.Fprintf(r.out, "  %slist%s                      - List available evaluators\n", ColorYellow(), ColorReset())
	fmt.Fprintf(r.out, "  %sverbose%s                   - Toggle full-precision display\n", ColorYellow(), ColorReset())
	fmt.Fprintf(r.out, "  %sstatus%s                    - Display current configuration\n", ColorYellow(), ColorReset())
	fmt.Fprintf(r.out, "  %shelp%s                      - Display this help\n", ColorYellow(), ColorReset())
	fmt.Fprintf(r.out, "  %sexit%s / %squit%s               - Exit interactive mode\n", ColorYellow(), ColorReset(), ColorYellow(), ColorReset())
}

func sortedNames(registry map[string]bessel.Evaluator) []string {
	names := maps.Keys(registry)
	slices.Sort(names)
	return names
}

// getAlgoList returns a comma-separated list of available evaluators.
func (r *REPL) getAlgoList() string {
	return strings.Join(sortedNames(r.registry), ", ")
}

// processCommand parses and executes a user command.
// Returns false if the REPL should exit.
func (r *REPL) processCommand(input string) bool {
	parts := strings.Fields(input)
	if len(parts) == 0 {
		return true
	}

	cmd := strings.ToLower(parts[0])
	args := parts[1:]

	switch cmd {
	case "j", "eval", "e":
		r.cmdEval(args)
	case "algo", "a":
		r.cmdAlgo(args)
	case "compare", "cmp":
		r.cmdCompare(args)
	case "table", "t":
		r.cmdTable(args)
	case "list", "ls":
		r.cmdList()
	case "verbose", "v":
		r.cmdVerbose()
	case "status", "st":
		r.cmdStatus()
	case "help", "h", "?":
		r.printHelp()
	case "exit", "quit", "q":
		fmt.Fprintf(r.out, "%sGoodbye!%s\n", ColorGreen(), ColorReset())
		return false
	default:
		// "<x> <n>" evaluates directly.
		if _, err := strconv.ParseFloat(cmd, 64); err == nil && len(parts) == 2 {
			r.cmdEval(parts)
		} else {
			fmt.Fprintf(r.out, "%sUnknown command: %s%s\n", ColorRed(), cmd, ColorReset())
			fmt.Fprintf(r.out, "Type %shelp%s to see available commands.\n", ColorYellow(), ColorReset())
		}
	}

	return true
}

// parseFloat parses a finite number, reporting errors to the user.
func (r *REPL) parseFloat(label, s string) (float64, bool) {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		fmt.Fprintf(r.out, "%sInvalid %s: %s%s\n", ColorRed(), label, s, ColorReset())
		return 0, false
	}
	return v, true
}

// parseOrder parses and rounds an order, enforcing the configured limit.
func (r *REPL) parseOrder(s string) (requested float64, n int, ok bool) {
	requested, ok = r.parseFloat("order", s)
	if !ok {
		return 0, 0, false
	}
	if !bessel.OrderInRange(requested) {
		fmt.Fprintf(r.out, "%sInvalid order: %s%s\n", ColorRed(), s, ColorReset())
		return 0, 0, false
	}
	n = bessel.RoundOrder(requested)
	if r.config.MaxOrder > 0 && (n > r.config.MaxOrder || n < -r.config.MaxOrder) {
		fmt.Fprintf(r.out, "%sOrder |n| exceeds the maximum allowed (%d)%s\n", ColorRed(), r.config.MaxOrder, ColorReset())
		return 0, 0, false
	}
	return requested, n, true
}

func (r *REPL) parseArgs(usage string, args []string) (x, requested float64, n int, ok bool) {
	if len(args) != 2 {
		fmt.Fprintf(r.out, "%sUsage: %s%s\n", ColorRed(), usage, ColorReset())
		return 0, 0, 0, false
	}
	if x, ok = r.parseFloat("argument", args[0]); !ok {
		return 0, 0, 0, false
	}
	requested, n, ok = r.parseOrder(args[1])
	return x, requested, n, ok
}

func (r *REPL) cmdEval(args []string) {
	x, requested, n, ok := r.parseArgs("j <x> <n>", args)
	if !ok {
		return
	}
	ev, ok := r.registry[r.currentAlgo]
	if !ok {
		fmt.Fprintf(r.out, "%sEvaluator not found: %s%s\n", ColorRed(), r.currentAlgo, ColorReset())
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), r.config.Timeout)
	defer cancel()

	start := time.Now()
	value, err := ev.Evaluate(ctx, x, n)
	duration := time.Since(start)
	if err != nil {
		fmt.Fprintf(r.out, "%sError: %v%s\n", ColorRed(), err, ColorReset())
		return
	}

	fmt.Fprintf(r.out, "  J_%s(%g) = %s%s%s\n", FormatOrder(requested, n), x,
		ColorGreen(), FormatValue(value, r.config.Verbose), ColorReset())
	fmt.Fprintf(r.out, "  %s, %s%s%s, %s\n", ev.Name(), ColorCyan(), bessel.Method(x, n), ColorReset(),
		FormatExecutionDuration(duration))
}

func (r *REPL) cmdAlgo(args []string) {
	if len(args) == 0 {
		fmt.Fprintf(r.out, "%sUsage: algo <name>%s\n", ColorRed(), ColorReset())
		fmt.Fprintf(r.out, "Available evaluators: %s\n", r.getAlgoList())
		return
	}

	name := strings.ToLower(args[0])
	if _, ok := r.registry[name]; !ok {
		fmt.Fprintf(r.out, "%sUnknown evaluator: %s%s\n", ColorRed(), name, ColorReset())
		fmt.Fprintf(r.out, "Available evaluators: %s\n", r.getAlgoList())
		return
	}

	r.currentAlgo = name
	fmt.Fprintf(r.out, "Evaluator changed to: %s%s%s\n", ColorGreen(), r.registry[name].Name(), ColorReset())
}

func (r *REPL) cmdCompare(args []string) {
	x, requested, n, ok := r.parseArgs("compare <x> <n>", args)
	if !ok {
		return
	}

	fmt.Fprintf(r.out, "\n%sComparison for J_%s(%g):%s\n", ColorBold(), FormatOrder(requested, n), x, ColorReset())
	fmt.Fprintf(r.out, "%s─────────────────────────────────────────────%s\n", ColorCyan(), ColorReset())

	var (
		reference float64
		haveRef   bool
	)
	for _, name := range sortedNames(r.registry) {
		ctx, cancel := context.WithTimeout(context.Background(), r.config.Timeout)
		start := time.Now()
		value, err := r.registry[name].Evaluate(ctx, x, n)
		duration := time.Since(start)
		cancel()

		if err != nil {
			fmt.Fprintf(r.out, "  %s%-10s%s: %sError - %v%s\n",
				ColorYellow(), name, ColorReset(),
				ColorRed(), err, ColorReset())
			continue
		}

		if !haveRef {
			reference, haveRef = value, true
		}
		status := ColorGreen() + "✓" + ColorReset()
		if !bessel.Agree(value, reference) {
			status = ColorRed() + "✗ MISMATCH" + ColorReset()
		}

		fmt.Fprintf(r.out, "  %s%-10s%s: %s%-18s%s %s%10s%s %s\n",
			ColorYellow(), name, ColorReset(),
			ColorGreen(), FormatValue(value, r.config.Verbose), ColorReset(),
			ColorCyan(), FormatExecutionDuration(duration), ColorReset(),
			status)
	}

	fmt.Fprintf(r.out, "%s─────────────────────────────────────────────%s\n\n", ColorCyan(), ColorReset())
}

// tableArgs returns the arguments x0, x0+dx, ... up to x1 inclusive.
func tableArgs(x0, x1, dx float64) ([]float64, error) {
	if dx <= 0 {
		return nil, fmt.Errorf("step must be strictly positive")
	}
	if x1 < x0 {
		return nil, fmt.Errorf("x1 must not be below x0")
	}
	count := math.Floor((x1-x0)/dx+1e-9) + 1
	if count > maxTableRows {
		return nil, fmt.Errorf("too many rows (%.0f > %d)", count, maxTableRows)
	}
	xs := make([]float64, int(count))
	for i := range xs {
		xs[i] = x0 + float64(i)*dx
	}
	return xs, nil
}

func (r *REPL) cmdTable(args []string) {
	if len(args) != 4 {
		fmt.Fprintf(r.out, "%sUsage: table <n> <x0> <x1> <dx>%s\n", ColorRed(), ColorReset())
		return
	}
	requested, n, ok := r.parseOrder(args[0])
	if !ok {
		return
	}
	var bounds [3]float64
	for i, label := range []string{"x0", "x1", "dx"} {
		if bounds[i], ok = r.parseFloat(label, args[i+1]); !ok {
			return
		}
	}
	xs, err := tableArgs(bounds[0], bounds[1], bounds[2])
	if err != nil {
		fmt.Fprintf(r.out, "%sInvalid range: %v%s\n", ColorRed(), err, ColorReset())
		return
	}
	ev, ok := r.registry[r.currentAlgo]
	if !ok {
		fmt.Fprintf(r.out, "%sEvaluator not found: %s%s\n", ColorRed(), r.currentAlgo, ColorReset())
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), r.config.Timeout)
	defer cancel()
	values, err := bessel.EvaluateBatch(ctx, ev, xs, n)
	if err != nil {
		fmt.Fprintf(r.out, "%sError: %v%s\n", ColorRed(), err, ColorReset())
		return
	}

	fmt.Fprintf(r.out, "\n%s%12s  J_%s(x)%s\n", ColorBold(), "x", FormatOrder(requested, n), ColorReset())
	for i, x := range xs {
		fmt.Fprintf(r.out, "%12g  %s\n", x, FormatValue(values[i], r.config.Verbose))
	}
	fmt.Fprintln(r.out)
}

func (r *REPL) cmdList() {
	fmt.Fprintf(r.out, "\n%sAvailable evaluators:%s\n", ColorBold(), ColorReset())
	for _, name := range sortedNames(r.registry) {
		marker := "  "
		if name == r.currentAlgo {
			marker = ColorGreen() + "► " + ColorReset()
		}
		fmt.Fprintf(r.out, "%s%s%-10s%s - %s\n", marker, ColorYellow(), name, ColorReset(), r.registry[name].Name())
	}
	fmt.Fprintln(r.out)
}

func (r *REPL) cmdVerbose() {
	r.config.Verbose = !r.config.Verbose
	status := "disabled"
	if r.config.Verbose {
		status = "enabled"
	}
	fmt.Fprintf(r.out, "Full precision: %s%s%s\n", ColorGreen(), status, ColorReset())
}

func (r *REPL) cmdStatus() {
	fmt.Fprintf(r.out, "\n%sCurrent configuration:%s\n", ColorBold(), ColorReset())
	fmt.Fprintf(r.out, "  Evaluator:      %s%s%s\n", ColorCyan(), r.currentAlgo, ColorReset())
	fmt.Fprintf(r.out, "  Timeout:        %s%s%s\n", ColorCyan(), r.config.Timeout, ColorReset())
	maxOrder := "none"
	if r.config.MaxOrder > 0 {
		maxOrder = strconv.Itoa(r.config.MaxOrder)
	}
	fmt.Fprintf(r.out, "  Max order:      %s%s%s\n", ColorCyan(), maxOrder, ColorReset())
	precision := "no"
	if r.config.Verbose {
		precision = "yes"
	}
	fmt.Fprintf(r.out, "  Full precision: %s%s%s\n", ColorCyan(), precision, ColorReset())
	fmt.Fprintln(r.out)
}
