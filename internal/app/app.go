package app

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/agbru/besselj/internal/bessel"
	"github.com/agbru/besselj/internal/cli"
	"github.com/agbru/besselj/internal/config"
	apperrors "github.com/agbru/besselj/internal/errors"
	"github.com/agbru/besselj/internal/orchestration"
	"github.com/agbru/besselj/internal/server"
	"github.com/agbru/besselj/internal/ui"
)

// Application represents the besselj application instance.
// It encapsulates the configuration and provides methods to run
// the application in its various modes (CLI, membrane, server, REPL).
type Application struct {
	// Config holds the parsed application configuration.
	Config config.AppConfig
	// Factory provides access to the evaluator implementations.
	// Uses the interface type for better testability and dependency injection.
	Factory bessel.EvaluatorFactory
	// ErrWriter is the writer for error output (typically os.Stderr).
	ErrWriter io.Writer
}

// New creates a new Application instance by parsing command-line arguments.
// It validates the configuration and returns an error if parsing or validation fails.
//
// Parameters:
//   - args: The command-line arguments (typically os.Args).
//   - errWriter: The writer for error output.
//
// Returns:
//   - *Application: A new application instance.
//   - error: An error if configuration parsing or validation fails.
func New(args []string, errWriter io.Writer) (*Application, error) {
	factory := bessel.GlobalFactory()

	// args[0] is program name, args[1:] are the actual arguments
	programName := "besselj"
	var cmdArgs []string
	if len(args) > 0 {
		programName = args[0]
		cmdArgs = args[1:]
	}

	cfg, err := config.ParseConfig(programName, cmdArgs, errWriter, factory.List())
	if err != nil {
		return nil, err
	}

	return &Application{
		Config:    cfg,
		Factory:   factory,
		ErrWriter: errWriter,
	}, nil
}

// Run executes the application based on the configured mode.
// It dispatches to the appropriate handler (completion, server, REPL,
// membrane sampling or evaluation).
//
// Parameters:
//   - ctx: The context for managing cancellation and timeouts.
//   - out: The writer for standard output.
//
// Returns:
//   - int: An exit code (0 for success, non-zero for errors).
func (a *Application) Run(ctx context.Context, out io.Writer) int {
	if a.Config.Completion != "" {
		return a.runCompletion(out)
	}

	// Initialize CLI theme (respects --no-color flag and NO_COLOR env var)
	ui.InitTheme(a.Config.NoColor)

	switch {
	case a.Config.ServerMode:
		return a.runServer()
	case a.Config.Interactive:
		return a.runREPL()
	case a.Config.Membrane:
		return a.runMembrane(ctx, out)
	}
	return a.runEvaluate(ctx, out)
}

// runCompletion generates shell completion scripts.
func (a *Application) runCompletion(out io.Writer) int {
	if err := cli.GenerateCompletion(out, a.Config.Completion, a.Factory.List()); err != nil {
		fmt.Fprintf(a.errWriter(), "Error generating completion: %v\n", err)
		return apperrors.ExitErrorConfig
	}
	return apperrors.ExitSuccess
}

// runServer starts the HTTP server mode.
func (a *Application) runServer() int {
	srv := server.NewServer(a.Factory, a.Config)
	if err := srv.Start(); err != nil {
		fmt.Fprintf(a.errWriter(), "%v\n", apperrors.NewServerError("server stopped", err))
		return apperrors.ExitErrorGeneric
	}
	return apperrors.ExitSuccess
}

// runREPL starts the interactive REPL mode.
func (a *Application) runREPL() int {
	repl := cli.NewREPL(a.Factory.GetAll(), cli.REPLConfig{
		DefaultAlgo: a.Config.Algo,
		Timeout:     a.Config.Timeout,
		MaxOrder:    a.Config.MaxOrder,
		Verbose:     a.Config.Verbose,
	})
	repl.Start()
	return apperrors.ExitSuccess
}

// membraneAlgo returns the evaluator used for membrane sampling: the
// selected one, or Miller's when every evaluator is selected.
func (a *Application) membraneAlgo() string {
	if a.Config.Algo == "all" || a.Config.Algo == "" {
		return bessel.AlgoMiller
	}
	return a.Config.Algo
}

// runMembrane samples the configured membrane mode and reports the frame.
func (a *Application) runMembrane(ctx context.Context, out io.Writer) int {
	ctx, stop := runContext(ctx, a.Config.Timeout)
	defer stop()

	algo := a.membraneAlgo()
	ev, err := a.Factory.Get(algo)
	if err != nil {
		return apperrors.HandleEvaluationError(apperrors.NewConfigError("%v", err), 0, out, cli.CLIColorProvider{})
	}

	progressOut := out
	if a.Config.Quiet || a.Config.JSONOutput {
		progressOut = io.Discard
	}
	membraneCfg := a.Config.MembraneConfig()
	frame, duration, err := orchestration.SampleMembrane(ctx, ev, membraneCfg, a.Config.T, progressOut)
	if err != nil {
		return apperrors.HandleEvaluationError(err, duration, out, cli.CLIColorProvider{})
	}
	stats, err := frame.Stats()
	if err != nil {
		return apperrors.HandleEvaluationError(err, duration, out, cli.CLIColorProvider{})
	}

	switch {
	case a.Config.JSONOutput:
		if err := writeJSON(out, server.MembraneResponse{
			Algorithm: algo,
			Duration:  duration.String(),
			Frame:     frame,
			Stats:     stats,
		}); err != nil {
			return apperrors.ExitErrorGeneric
		}
	case a.Config.Quiet:
		fmt.Fprintf(out, "%s %s %s %s\n",
			cli.FormatQuietResult(stats.Min), cli.FormatQuietResult(stats.Max),
			cli.FormatQuietResult(stats.Mean), cli.FormatQuietResult(stats.StdDev))
	default:
		cli.DisplayFrame(frame, stats, duration, a.Config.Details, out)
	}

	if a.Config.OutputFile != "" {
		if err := cli.WriteFrameToFile(frame, membraneCfg, a.Config.OutputFile); err != nil {
			fmt.Fprintf(a.errWriter(), "Error saving frame: %v\n", err)
			return apperrors.ExitErrorGeneric
		}
		if !a.Config.Quiet && !a.Config.JSONOutput {
			fmt.Fprintf(out, "\n%s✓ Frame saved to: %s%s%s\n",
				cli.ColorGreen(), cli.ColorCyan(), a.Config.OutputFile, cli.ColorReset())
		}
	}
	return apperrors.ExitSuccess
}

// runEvaluate orchestrates the evaluation of J_n(x) by the selected
// evaluators.
func (a *Application) runEvaluate(ctx context.Context, out io.Writer) int {
	ctx, stop := runContext(ctx, a.Config.Timeout)
	defer stop()

	evaluatorsToRun := cli.GetEvaluatorsToRun(a.Config, a.Factory)

	// Skip verbose output in quiet mode
	if !a.Config.JSONOutput && !a.Config.Quiet {
		cli.PrintExecutionConfig(a.Config, out)
		cli.PrintExecutionMode(evaluatorsToRun, out)
	}

	results := orchestration.ExecuteEvaluations(ctx, evaluatorsToRun, a.Config)

	if a.Config.JSONOutput {
		return a.printJSONResults(results, out)
	}

	outputCfg := cli.OutputConfig{
		OutputFile: a.Config.OutputFile,
		Quiet:      a.Config.Quiet,
		Verbose:    a.Config.Verbose,
		Details:    a.Config.Details,
	}
	return a.analyzeResultsWithOutput(results, outputCfg, out)
}

func (a *Application) analyzeResultsWithOutput(results []orchestration.EvaluationResult, outputCfg cli.OutputConfig, out io.Writer) int {
	var best orchestration.EvaluationResult
	found := false
	if b := orchestration.BestResult(results); b != nil {
		best, found = *b, true
	}

	// Quiet mode prints the best value only.
	if outputCfg.Quiet && found {
		if err := cli.DisplayResultWithConfig(out, a.Config.X, a.Config.Order(), best.Value, best.Duration, best.Name, outputCfg); err != nil {
			fmt.Fprintf(a.errWriter(), "Error saving result: %v\n", err)
			return apperrors.ExitErrorGeneric
		}
		return apperrors.ExitSuccess
	}

	exitCode := orchestration.AnalyzeComparisonResults(results, a.Config, out)

	if found && exitCode == apperrors.ExitSuccess && outputCfg.OutputFile != "" {
		if err := a.saveResultIfNeeded(best, outputCfg); err != nil {
			return apperrors.ExitErrorGeneric
		}
		fmt.Fprintf(out, "\n%s✓ Result saved to: %s%s%s\n",
			cli.ColorGreen(), cli.ColorCyan(), outputCfg.OutputFile, cli.ColorReset())
	}

	return exitCode
}

// IsHelpError checks if the error is a help flag error (--help was used).
// This is useful for determining if the application should exit with success
// after displaying help text.
//
// Parameters:
//   - err: The error to check.
//
// Returns:
//   - bool: True if the error indicates help was requested.
func IsHelpError(err error) bool {
	return errors.Is(err, flag.ErrHelp)
}

func (a *Application) saveResultIfNeeded(res orchestration.EvaluationResult, cfg cli.OutputConfig) error {
	if cfg.OutputFile == "" {
		return nil
	}
	if err := cli.WriteResultToFile(a.Config.X, a.Config.Order(), res.Value, res.Duration, res.Name, cfg); err != nil {
		fmt.Fprintf(a.errWriter(), "Error saving result: %v\n", err)
		return err
	}
	return nil
}

func (a *Application) errWriter() io.Writer {
	if a.ErrWriter == nil {
		return os.Stderr
	}
	return a.ErrWriter
}

func writeJSON(out io.Writer, v any) error {
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// printJSONResults writes one /evaluate-style object per evaluator as a JSON
// array. Non-finite values are encoded as strings. The exit code reflects
// the first error when every evaluation failed.
func (a *Application) printJSONResults(results []orchestration.EvaluationResult, out io.Writer) int {
	output := make([]server.EvaluateResponse, len(results))
	var firstErr error
	succeeded := false
	for i, res := range results {
		jr := server.EvaluateResponse{
			X:          server.Float(a.Config.X),
			N:          a.Config.Order(),
			RequestedN: a.Config.N,
			Algorithm:  res.Name,
			Duration:   res.Duration.String(),
		}
		if res.Err != nil {
			jr.Error = res.Err.Error()
			if firstErr == nil {
				firstErr = res.Err
			}
		} else {
			v := server.Float(res.Value)
			jr.Value = &v
			succeeded = true
		}
		output[i] = jr
	}

	if err := writeJSON(out, output); err != nil {
		return apperrors.ExitErrorGeneric
	}
	if !succeeded && firstErr != nil {
		return apperrors.HandleEvaluationError(firstErr, 0, io.Discard, nil)
	}
	return apperrors.ExitSuccess
}
