// Package bessel provides implementations for evaluating Bessel functions of the first kind.
package bessel

import "math"

// ─────────────────────────────────────────────────────────────────────────────
// Strategy Selection Constants
// ─────────────────────────────────────────────────────────────────────────────

const (
	// AsymptoticThreshold is the |x| at which the J0/J1 base cases switch from
	// the near-origin rational fit to the asymptotic (Hankel) form.
	AsymptoticThreshold = 8.0

	// MillerHeadroom controls how far above the requested order the backward
	// recurrence starts: m = 2*floor((n + floor(sqrt(MillerHeadroom*n))) / 2).
	MillerHeadroom = 40

	// RescaleLimit is the magnitude above which the running values of the
	// backward recurrence are scaled down.
	RescaleLimit = 1e10

	// RescaleFactor multiplies every tracked quantity of the backward
	// recurrence when RescaleLimit is exceeded.
	RescaleFactor = 1e-10

	// MaxSupportedOrder is the largest |n| J evaluates. The start order of
	// the backward recurrence stays well inside int range below it.
	MaxSupportedOrder = math.MaxInt32
)

// twoOverPi is 2/π as used by the asymptotic amplitude sqrt(2/(πx)).
const twoOverPi = 0.636619772

// Phase offsets of the asymptotic form: x - π/4 for J0 and x - 3π/4 for J1.
const (
	phaseJ0 = 0.785398164
	phaseJ1 = 2.356194491
)

// ─────────────────────────────────────────────────────────────────────────────
// Coefficient Tables
// ─────────────────────────────────────────────────────────────────────────────
//
// All tables are ordered from the highest degree coefficient to the constant
// term, which is the order horner consumes them in. They are never mutated.

var (
	// j0NearNum and j0NearDen form J0(x) = P(x²)/Q(x²) for |x| < 8.
	j0NearNum = [...]float64{-184.9052456, 77392.33017, -11214424.18, 651619640.7, -13362590354.0, 57568490574.0}
	j0NearDen = [...]float64{1.0, 267.8532712, 59272.64853, 9494680.718, 1029532985.0, 57568490411.0}

	// j0FarCos and j0FarSin are the R(z) and S(z) factors of the asymptotic
	// form for |x| ≥ 8, with z = 64/x².
	j0FarCos = [...]float64{0.2093887211e-6, -0.2073370639e-5, 0.2734510407e-4, -0.1098628627e-2, 1.0}
	j0FarSin = [...]float64{-0.934935152e-7, 0.7621095161e-6, -0.6911147651e-5, 0.1430488765e-3, -0.1562499995e-1}

	// j1NearNum and j1NearDen form J1(x) = x·P(x²)/Q(x²) for |x| < 8.
	j1NearNum = [...]float64{-30.16036606, 15704.48260, -2972611.439, 242396853.1, -7895059235.0, 72362614232.0}
	j1NearDen = [...]float64{1.0, 376.9991397, 99447.43394, 18583304.74, 2300535178.0, 144725228442.0}

	// j1FarCos and j1FarSin are the J1 counterparts of j0FarCos and j0FarSin.
	j1FarCos = [...]float64{-0.240337019e-6, 0.2457520174e-5, -0.3516396496e-4, 0.183105e-2, 1.0}
	j1FarSin = [...]float64{0.105787412e-6, -0.88228987e-6, 0.8449199096e-5, -0.2002690873e-3, 0.04687499995}
)
