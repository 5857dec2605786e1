package bessel

import "math"

// horner evaluates the polynomial whose coefficients are given from the
// highest degree down to the constant term.
func horner(coeffs []float64, v float64) float64 {
	z := 0.0
	for _, c := range coeffs {
		z = v*z + c
	}
	return z
}

// J0 returns the Bessel function of the first kind of order zero.
//
// For |x| < 8 it evaluates a rational fit in x²; beyond that it uses the
// asymptotic form sqrt(2/(πx))·(cos(x-π/4)·R(z) - sin(x-π/4)·(8/x)·S(z))
// with z = 64/x². J0 is even, so only |x| matters.
//
// Special cases are:
//
//	J0(0) = 1
//	J0(±Inf) = 0
//	J0(NaN) = NaN
func J0(x float64) float64 {
	switch {
	case math.IsNaN(x):
		return x
	case math.IsInf(x, 0):
		return 0
	case x == 0:
		return 1
	}

	ax := math.Abs(x)
	if ax < AsymptoticThreshold {
		y := x * x
		return horner(j0NearNum[:], y) / horner(j0NearDen[:], y)
	}
	return asymptotic(ax, phaseJ0, j0FarCos[:], j0FarSin[:])
}

// J1 returns the Bessel function of the first kind of order one.
//
// It mirrors J0 with its own coefficient tables. The near-origin fit carries
// an explicit factor of x, and the asymptotic branch restores the sign for
// negative x since J1(-x) = -J1(x).
//
// Special cases are:
//
//	J1(0) = 0
//	J1(±Inf) = 0
//	J1(NaN) = NaN
func J1(x float64) float64 {
	switch {
	case math.IsNaN(x):
		return x
	case math.IsInf(x, 0):
		return 0
	case x == 0:
		return 0
	}

	ax := math.Abs(x)
	if ax < AsymptoticThreshold {
		y := x * x
		return x * horner(j1NearNum[:], y) / horner(j1NearDen[:], y)
	}
	v := asymptotic(ax, phaseJ1, j1FarCos[:], j1FarSin[:])
	if x < 0 {
		v = -v
	}
	return v
}

// asymptotic evaluates the large-argument form shared by J0 and J1 for ax ≥ 8.
func asymptotic(ax, phase float64, cosCoeffs, sinCoeffs []float64) float64 {
	z := 64 / (ax * ax)
	xx := ax - phase
	return math.Sqrt(twoOverPi/ax) * (math.Cos(xx)*horner(cosCoeffs, z) - math.Sin(xx)*8/ax*horner(sinCoeffs, z))
}
