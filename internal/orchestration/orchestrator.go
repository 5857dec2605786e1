// Package orchestration runs evaluations concurrently for the CLI and
// reports on them: the comparison table of the evaluators and the sampling
// of membrane frames with a progress display.
package orchestration

import (
	"context"
	"fmt"
	"io"
	"sort"
	"sync"
	"text/tabwriter"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/agbru/besselj/internal/bessel"
	"github.com/agbru/besselj/internal/cli"
	"github.com/agbru/besselj/internal/config"
	apperrors "github.com/agbru/besselj/internal/errors"
	"github.com/agbru/besselj/internal/membrane"
	"github.com/agbru/besselj/internal/ui"
)

// EvaluationResult encapsulates the outcome of a single J_n(x) evaluation.
// It serves as a standardized container for results from different
// evaluators, facilitating comparison and reporting.
type EvaluationResult struct {
	// Name is the display name of the evaluator (e.g., "Miller recurrence").
	Name string
	// Value is J_n(x). It is meaningless if Err is set.
	Value float64
	// Duration is the time taken by the evaluation.
	Duration time.Duration
	// Err contains any error that occurred during the evaluation.
	Err error
}

// ExecuteEvaluations runs every evaluator on J_n(x) concurrently, with
// x = cfg.X and n = cfg.Order(), and collects the results in the order of
// evaluators. A failing evaluator does not cancel the others.
//
// Parameters:
//   - ctx: The context for managing cancellation and deadlines.
//   - evaluators: The evaluators to execute.
//   - cfg: The application configuration.
//
// Returns:
//   - []EvaluationResult: One result per evaluator.
func ExecuteEvaluations(ctx context.Context, evaluators []bessel.Evaluator, cfg config.AppConfig) []EvaluationResult {
	var g errgroup.Group
	results := make([]EvaluationResult, len(evaluators))
	x, n := cfg.X, cfg.Order()

	for i, ev := range evaluators {
		idx, evaluator := i, ev
		g.Go(func() error {
			startTime := time.Now()
			value, err := evaluator.Evaluate(ctx, x, n)
			results[idx] = EvaluationResult{
				Name:     evaluator.Name(),
				Value:    value,
				Duration: time.Since(startTime),
				Err:      apperrors.NewEvaluationError(evaluator.Name(), x, n, err),
			}
			return nil
		})
	}

	_ = g.Wait()
	return results
}

// AnalyzeComparisonResults processes the results from the evaluators and
// prints a summary report.
//
// It sorts the results by execution time with failures last, displays a
// comparative table and checks that every successful evaluation agrees
// with the fastest one to bessel.AgreementTolerance.
//
// Parameters:
//   - results: The evaluation results to analyze.
//   - cfg: The application configuration.
//   - out: The io.Writer for the summary report.
//
// Returns:
//   - int: An exit code indicating success (0) or the type of failure.
func AnalyzeComparisonResults(results []EvaluationResult, cfg config.AppConfig, out io.Writer) int {
	sort.SliceStable(results, func(i, j int) bool {
		if (results[i].Err == nil) != (results[j].Err == nil) {
			return results[i].Err == nil
		}
		return results[i].Duration < results[j].Duration
	})

	var (
		best       *EvaluationResult
		firstError error
	)

	fmt.Fprintf(out, "\n--- Comparison Summary ---\n")
	tw := tabwriter.NewWriter(out, 0, 0, 3, ' ', 0)
	fmt.Fprintf(tw, "%sEvaluator%s\t%sDuration%s\t%sValue%s\t%sStatus%s\n",
		ui.ColorUnderline(), ui.ColorReset(), ui.ColorUnderline(), ui.ColorReset(),
		ui.ColorUnderline(), ui.ColorReset(), ui.ColorUnderline(), ui.ColorReset())

	for i := range results {
		res := &results[i]
		var status, value string
		if res.Err != nil {
			status = fmt.Sprintf("%s❌ Failure (%v)%s", ui.ColorRed(), res.Err, ui.ColorReset())
			value = "-"
			if firstError == nil {
				firstError = res.Err
			}
		} else {
			status = fmt.Sprintf("%s✅ Success%s", ui.ColorGreen(), ui.ColorReset())
			value = cli.FormatValue(res.Value, cfg.Verbose)
			if best == nil {
				best = res
			}
		}
		duration := cli.FormatExecutionDuration(res.Duration)
		if res.Duration == 0 {
			duration = "< 1ns"
		}
		fmt.Fprintf(tw, "%s%s%s\t%s%s%s\t%s\t%s\n",
			ui.ColorBlue(), res.Name, ui.ColorReset(),
			ui.ColorYellow(), duration, ui.ColorReset(),
			value, status)
	}
	if err := tw.Flush(); err != nil {
		fmt.Fprintf(out, "Warning: failed to flush tabwriter: %v\n", err)
	}

	if best == nil {
		fmt.Fprintf(out, "\nGlobal Status: Failure. No evaluator could complete the evaluation.\n")
		return apperrors.HandleEvaluationError(firstError, 0, out, cli.CLIColorProvider{})
	}

	for _, res := range results {
		if res.Err == nil && !bessel.Agree(res.Value, best.Value) {
			fmt.Fprintf(out, "\nGlobal Status: CRITICAL ERROR! The evaluators disagree beyond a tolerance of %g.\n", bessel.AgreementTolerance)
			return apperrors.ExitErrorMismatch
		}
	}

	fmt.Fprintf(out, "\nGlobal Status: Success. All valid results are consistent.\n")
	cli.DisplayResult(cfg.X, cfg.Order(), best.Value, best.Duration, cfg.Verbose, cfg.Details, out)
	return apperrors.ExitSuccess
}

// BestResult returns the fastest successful result, or nil if every
// evaluation failed.
func BestResult(results []EvaluationResult) *EvaluationResult {
	var best *EvaluationResult
	for i := range results {
		if results[i].Err == nil && (best == nil || results[i].Duration < best.Duration) {
			best = &results[i]
		}
	}
	return best
}

// SampleMembrane samples a membrane frame with ev while a progress bar is
// rendered on out. The bar is only drawn when out is a terminal.
//
// Parameters:
//   - ctx: The context for cancellation.
//   - ev: The evaluator used for the radial profile.
//   - cfg: The membrane configuration.
//   - t: The sampling time.
//   - out: The io.Writer for the progress display.
//
// Returns:
//   - *membrane.Frame: The sampled frame.
//   - time.Duration: The sampling time.
//   - error: A validation or evaluation error.
func SampleMembrane(ctx context.Context, ev bessel.Evaluator, cfg membrane.Config, t float64, out io.Writer) (*membrane.Frame, time.Duration, error) {
	m, err := membrane.New(cfg, ev)
	if err != nil {
		return nil, 0, err
	}

	progressChan := make(chan float64, cfg.RadialSegments+1)
	var displayWg sync.WaitGroup
	displayWg.Add(1)
	go cli.DisplayProgress(&displayWg, progressChan, "Sampling", out)

	start := time.Now()
	frame, err := m.SampleWithProgress(ctx, t, progressChan)
	duration := time.Since(start)
	close(progressChan)
	displayWg.Wait()

	if err != nil {
		return nil, duration, err
	}
	return frame, duration, nil
}
