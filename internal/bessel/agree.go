package bessel

import (
	"math"

	"gonum.org/v1/gonum/floats/scalar"
)

// AgreementTolerance is the absolute-or-relative tolerance within which two
// evaluators are considered to agree. The rational fits for J0 and J1 are
// accurate to about 2e-7 in absolute terms, which bounds what can be asked
// of any evaluator built on them.
const AgreementTolerance = 1e-6

// Agree reports whether a and b agree within AgreementTolerance. Two NaNs
// agree, as do two infinities of the same sign.
func Agree(a, b float64) bool {
	switch {
	case math.IsNaN(a) || math.IsNaN(b):
		return math.IsNaN(a) && math.IsNaN(b)
	case math.IsInf(a, 0) || math.IsInf(b, 0):
		return a == b
	}
	return scalar.EqualWithinAbsOrRel(a, b, AgreementTolerance, AgreementTolerance)
}
