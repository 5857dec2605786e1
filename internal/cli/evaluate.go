package cli

import (
	"fmt"
	"io"
	"runtime"

	"github.com/agbru/besselj/internal/bessel"
	"github.com/agbru/besselj/internal/config"
)

// GetEvaluatorsToRun determines which evaluators should be executed based on
// the configuration, in the registry's sorted order.
//
// Parameters:
//   - cfg: The application configuration containing the algorithm selection.
//   - factory: The evaluator factory to retrieve implementations from.
//
// Returns:
//   - []bessel.Evaluator: The evaluators to execute.
func GetEvaluatorsToRun(cfg config.AppConfig, factory bessel.EvaluatorFactory) []bessel.Evaluator {
	if cfg.Algo == "all" {
		keys := factory.List()
		evaluators := make([]bessel.Evaluator, 0, len(keys))
		for _, k := range keys {
			if ev, err := factory.Get(k); err == nil {
				evaluators = append(evaluators, ev)
			}
		}
		return evaluators
	}
	if ev, err := factory.Get(cfg.Algo); err == nil {
		return []bessel.Evaluator{ev}
	}
	return nil
}

// PrintExecutionConfig displays the target evaluation, the timeout and the
// runtime environment.
func PrintExecutionConfig(cfg config.AppConfig, out io.Writer) {
	fmt.Fprintf(out, "--- Execution Configuration ---\n")
	fmt.Fprintf(out, "Evaluating %sJ_%s(%g)%s with a timeout of %s%s%s.\n",
		ColorMagenta(), FormatOrder(cfg.N, cfg.Order()), cfg.X, ColorReset(),
		ColorYellow(), cfg.Timeout, ColorReset())
	fmt.Fprintf(out, "Environment: %s%d%s logical processors, Go %s%s%s.\n",
		ColorCyan(), runtime.NumCPU(), ColorReset(), ColorCyan(), runtime.Version(), ColorReset())
}

// PrintExecutionMode displays the execution mode (single evaluator vs comparison).
func PrintExecutionMode(evaluators []bessel.Evaluator, out io.Writer) {
	var modeDesc string
	switch len(evaluators) {
	case 0:
		modeDesc = "No evaluator selected"
	case 1:
		modeDesc = fmt.Sprintf("Single evaluation with %s%s%s",
			ColorGreen(), evaluators[0].Name(), ColorReset())
	default:
		modeDesc = "Parallel comparison of all evaluators"
	}
	fmt.Fprintf(out, "Execution mode: %s.\n", modeDesc)
	fmt.Fprintf(out, "\n--- Starting Execution ---\n")
}
