// Package bessel provides implementations for evaluating the Bessel function
// of the first kind, J_n(x), for integer order n and real argument x.
//
// The package-level function J is the numerical core. It is pure, allocation
// free and safe for concurrent use. It picks one of three strategies per call:
// closed-form rational fits for orders 0 and 1, forward recurrence when the
// argument exceeds the order, and Miller's backward recurrence otherwise.
//
// On top of the core, the package exposes an `Evaluator` interface with a
// registry of named evaluators so that outer layers (CLI, HTTP server,
// membrane sampler) can select, compare and instrument them.
package bessel

import "math"

// J returns the Bessel function of the first kind of integer order n at x.
//
// The function is total: every float64 x and every int n yields a value
// without panicking, and every call finishes in O(|n|) steps.
//
// Special cases are:
//
//	J(NaN, n) = NaN
//	J(±Inf, n) = 0
//	J(0, 0) = 1
//	J(0, n) = 0 for n != 0
//
// Negative orders and arguments are folded with J_{-n}(x) = (-1)^n·J_n(x)
// and J_n(-x) = (-1)^n·J_n(x). Orders with |n| > MaxSupportedOrder yield
// NaN.
func J(x float64, n int) float64 {
	switch {
	case math.IsNaN(x):
		return x
	case n > MaxSupportedOrder || n < -MaxSupportedOrder:
		return math.NaN()
	case math.IsInf(x, 0):
		return 0
	}
	if n < 0 {
		return parity(n) * J(x, -n)
	}
	if x < 0 {
		return parity(n) * J(-x, n)
	}

	switch n {
	case 0:
		return J0(x)
	case 1:
		return J1(x)
	}
	if x == 0 {
		return 0
	}

	// Forward recurrence is only stable while the argument dominates the order.
	if x > float64(n) {
		return forward(x, n, J0(x), J1(x))
	}
	return miller(x, n)
}

// JRounded is J with a floating-point order, rounded to the nearest integer
// (halves away from zero) before evaluation. Non-finite orders and orders
// beyond MaxSupportedOrder are not meaningful and yield NaN.
func JRounded(x, order float64) float64 {
	if !OrderInRange(order) {
		return math.NaN()
	}
	return J(x, int(math.Round(order)))
}

// RoundOrder converts a floating-point order to the integer order J uses.
// Orders beyond ±MaxSupportedOrder, infinities included, saturate at the
// bound; NaN maps to 0. Callers that must reject such orders check
// OrderInRange first.
func RoundOrder(order float64) int {
	rounded := math.Round(order)
	switch {
	case math.IsNaN(rounded):
		return 0
	case rounded > MaxSupportedOrder:
		return MaxSupportedOrder
	case rounded < -MaxSupportedOrder:
		return -MaxSupportedOrder
	}
	return int(rounded)
}

// OrderInRange reports whether order rounds to an integer J supports.
func OrderInRange(order float64) bool {
	rounded := math.Round(order)
	return !math.IsNaN(rounded) && math.Abs(rounded) <= MaxSupportedOrder
}

// parity returns (-1)^n.
func parity(n int) float64 {
	if n%2 != 0 {
		return -1
	}
	return 1
}

// Method names the branch J takes for (x, n) after the symmetry reductions:
// "special" for non-finite arguments, unsupported orders and x = 0 above
// order 1, "rational"
// or "asymptotic" for orders 0 and 1 (split at |x| = 8), and "forward" or
// "miller" for higher orders.
func Method(x float64, n int) string {
	if n > MaxSupportedOrder || n < -MaxSupportedOrder {
		return "special"
	}
	if n < 0 {
		n = -n
	}
	x = math.Abs(x)
	switch {
	case math.IsNaN(x), math.IsInf(x, 0):
		return "special"
	case n <= 1 && x < AsymptoticThreshold:
		return "rational"
	case n <= 1:
		return "asymptotic"
	case x == 0:
		return "special"
	case x > float64(n):
		return "forward"
	}
	return "miller"
}
