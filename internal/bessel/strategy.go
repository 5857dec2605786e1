package bessel

import "math"

// MillerEvaluator is the package's own evaluator: rational fits for orders 0
// and 1, forward recurrence when x > n, Miller's backward recurrence
// otherwise. It is a thin coreEvaluator around J.
type MillerEvaluator struct{}

// Name returns the name of the algorithm.
func (MillerEvaluator) Name() string {
	return "Miller recurrence"
}

// EvaluateCore returns J(x, n).
func (MillerEvaluator) EvaluateCore(x float64, n int) float64 {
	return J(x, n)
}

// StdlibEvaluator delegates to the standard library's math.Jn. It serves as
// an independent oracle when comparing evaluators.
type StdlibEvaluator struct{}

// Name returns the name of the algorithm.
func (StdlibEvaluator) Name() string {
	return "Go math.Jn"
}

// EvaluateCore returns math.Jn(n, x).
func (StdlibEvaluator) EvaluateCore(x float64, n int) float64 {
	return math.Jn(n, x)
}
