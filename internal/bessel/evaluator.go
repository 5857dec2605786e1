package bessel

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
)

var (
	evaluationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "besselj_evaluations_total",
			Help: "The total number of Bessel function evaluations processed",
		},
		[]string{"algorithm", "status"},
	)
	evaluationDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "besselj_evaluation_duration_seconds",
			Help:    "The duration of Bessel function evaluations in seconds",
			Buckets: prometheus.ExponentialBuckets(1e-8, 10, 9),
		},
		[]string{"algorithm"},
	)

	evalLogger atomic.Pointer[zerolog.Logger]
)

func init() {
	SetLogger(zerolog.Nop())
}

// SetLogger sets the logger that receives one debug record per evaluation.
// Records are discarded until it is called.
func SetLogger(l zerolog.Logger) {
	evalLogger.Store(&l)
}

// Evaluator defines the public interface for a Bessel J_n(x) evaluator.
// It is the abstraction the service, server and CLI layers use to select and
// compare evaluation strategies.
type Evaluator interface {
	// Evaluate returns J_n(x). It fails only when ctx is already done.
	//
	// Parameters:
	//   - ctx: The context for cancellation.
	//   - x: The real argument.
	//   - n: The integer order.
	//
	// Returns:
	//   - float64: The value of J_n(x).
	//   - error: ctx.Err() if the context was canceled before evaluation.
	Evaluate(ctx context.Context, x float64, n int) (float64, error)

	// Name returns the display name of the evaluator (e.g., "Miller recurrence").
	Name() string
}

// coreEvaluator is the internal interface for a pure evaluation routine.
type coreEvaluator interface {
	EvaluateCore(x float64, n int) float64
	Name() string
}

// InstrumentedEvaluator implements Evaluator by decorating a coreEvaluator
// with cancellation checks, Prometheus metrics, a tracing span and a debug
// log record.
type InstrumentedEvaluator struct {
	core coreEvaluator
}

// NewEvaluator wraps a coreEvaluator. It panics if core is nil.
//
// Parameters:
//   - core: The evaluation routine to decorate.
//
// Returns:
//   - Evaluator: The instrumented evaluator.
func NewEvaluator(core coreEvaluator) Evaluator {
	if core == nil {
		panic("bessel: the `coreEvaluator` implementation cannot be nil")
	}
	return &InstrumentedEvaluator{core: core}
}

// Name delegates to the wrapped core.
func (e *InstrumentedEvaluator) Name() string {
	return e.core.Name()
}

// Evaluate checks ctx, evaluates through the core and records metrics.
func (e *InstrumentedEvaluator) Evaluate(ctx context.Context, x float64, n int) (value float64, err error) {
	_, span := otel.Tracer("bessel").Start(ctx, "Evaluate")
	span.SetAttributes(attribute.Float64("x", x), attribute.Int("n", n))
	defer span.End()

	start := time.Now()
	defer func() {
		duration := time.Since(start).Seconds()
		status := "success"
		if err != nil {
			status = "error"
		}
		algoName := e.core.Name()
		evaluationsTotal.WithLabelValues(algoName, status).Inc()
		evaluationDuration.WithLabelValues(algoName).Observe(duration)

		evalLogger.Load().Debug().
			Str("algo", algoName).
			Float64("x", x).
			Int("n", n).
			Float64("duration", duration).
			Str("status", status).
			Msg("evaluation completed")
	}()

	if err := ctx.Err(); err != nil {
		return 0, err
	}
	return e.core.EvaluateCore(x, n), nil
}

// EvaluateBatch evaluates J_n at every argument in xs with the given
// evaluator. The context is checked between evaluations so that long
// batches can be canceled.
//
// Parameters:
//   - ctx: The context for cancellation.
//   - ev: The evaluator to use.
//   - xs: The arguments.
//   - n: The order shared by every evaluation.
//
// Returns:
//   - []float64: One value per argument, in order.
//   - error: The first error returned by the evaluator.
func EvaluateBatch(ctx context.Context, ev Evaluator, xs []float64, n int) ([]float64, error) {
	out := make([]float64, len(xs))
	for i, x := range xs {
		v, err := ev.Evaluate(ctx, x, n)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}
