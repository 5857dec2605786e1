package membrane

import (
	"errors"
	"fmt"
)

const (
	// MaxAngularMode is the largest angular mode m with tabulated zeros.
	MaxAngularMode = 6
	// MaxRadialMode is the largest radial mode k with tabulated zeros.
	MaxRadialMode = 5
)

// ErrModeOutOfRange is returned for a mode outside the zero table.
var ErrModeOutOfRange = errors.New("membrane: mode out of range")

// besselZeros[m][k-1] is the k-th positive zero of J_m, to four decimals.
var besselZeros = [MaxAngularMode + 1][MaxRadialMode]float64{
	{2.4048, 5.5201, 8.6537, 11.7915, 14.9309},
	{3.8317, 7.0156, 10.1735, 13.3237, 16.4706},
	{5.1356, 8.4172, 11.6198, 14.7959, 17.9598},
	{6.3802, 9.7610, 13.0152, 16.2235, 19.4094},
	{7.5883, 11.0647, 14.3725, 17.6159, 20.8269},
	{8.7715, 12.3386, 15.7002, 18.9801, 22.2178},
	{9.9361, 13.5893, 17.0038, 20.3208, 23.5830},
}

// Zero returns j_{m,k}, the k-th positive zero of J_m.
//
// Parameters:
//   - m: The angular mode, 0 ≤ m ≤ MaxAngularMode.
//   - k: The radial mode, 1 ≤ k ≤ MaxRadialMode.
//
// Returns:
//   - float64: The zero, accurate to the table's four decimals.
//   - error: ErrModeOutOfRange (wrapped) when (m, k) is not tabulated.
func Zero(m, k int) (float64, error) {
	if m < 0 || m > MaxAngularMode || k < 1 || k > MaxRadialMode {
		return 0, fmt.Errorf("%w: (m=%d, k=%d), want 0 ≤ m ≤ %d and 1 ≤ k ≤ %d",
			ErrModeOutOfRange, m, k, MaxAngularMode, MaxRadialMode)
	}
	return besselZeros[m][k-1], nil
}
