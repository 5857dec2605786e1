package bessel

import "math"

// forward climbs the three-term recurrence
//
//	J_{k+1}(x) = (2k/x)·J_k(x) - J_{k-1}(x)
//
// from the seeds j0 = J0(x) and j1 = J1(x) up to order n. It is only stable
// when x > n; the dispatcher never calls it otherwise.
func forward(x float64, n int, j0, j1 float64) float64 {
	twoOverX := 2 / x
	prev, cur := j0, j1
	for k := 1; k < n; k++ {
		prev, cur = cur, float64(k)*twoOverX*cur-prev
	}
	return cur
}

// millerStart returns the even order the backward recurrence starts from.
// The result overflows int for orders near math.MaxInt; that precondition is
// left unchecked and callers bound n (see service.DefaultMaxOrder).
func millerStart(n int) int {
	return 2 * ((n + int(math.Sqrt(float64(MillerHeadroom*n)))) / 2)
}

// miller computes J_n(x) for 0 < x ≤ n, n ≥ 2, with Miller's backward
// recurrence. It seeds J_{m+1} = 0, J_m = 1 at m = millerStart(n), descends
// to order 0 in a single pass and recovers the absolute scale from
//
//	J_0(x) + 2·(J_2(x) + J_4(x) + ...) = 1.
//
// The value at order n is captured on the way down. Whenever the running
// value exceeds RescaleLimit every tracked quantity is multiplied by
// RescaleFactor in the same step, so their ratios are untouched. Arguments so
// small that a single step would overflow fall back to leadingTerm.
func miller(x float64, n int) float64 {
	m := millerStart(n)
	twoOverX := 2 / x
	if math.IsInf(float64(m)*twoOverX, 0) {
		return leadingTerm(x, n)
	}

	var (
		above  float64 // J_{k+1}, then J_k after the shift
		cur    = 1.0   // J_k, then J_{k-1} after the shift
		sum    float64 // J_0 + J_2 + ... accumulated so far
		target float64 // unnormalised J_n
		even   bool
	)
	for k := m; k > 0; k-- {
		below := float64(k)*twoOverX*cur - above
		if math.IsInf(below, 0) {
			// Only reachable for x within a few orders of magnitude of the
			// smallest normal float, where the series has a single term.
			return leadingTerm(x, n)
		}
		above, cur = cur, below

		for math.Abs(cur) > RescaleLimit {
			cur *= RescaleFactor
			above *= RescaleFactor
			target *= RescaleFactor
			sum *= RescaleFactor
		}
		// cur now holds J_{k-1}; m is even so k-1 is even on every other step.
		if even {
			sum += cur
		}
		even = !even
		if k == n {
			target = above
		}
	}
	// sum counted J_0 once; the identity weighs it once and the rest twice.
	norm := 2*sum - cur
	return target / norm
}

// leadingTerm returns (x/2)^n / n!, the first term of the power series of
// J_n(x), computed in log space so that it underflows to 0 instead of
// overflowing. It equals J_n(x) to double precision once x² ≪ n+1.
func leadingTerm(x float64, n int) float64 {
	lg, _ := math.Lgamma(float64(n + 1))
	return math.Exp(float64(n)*math.Log(x/2) - lg)
}
