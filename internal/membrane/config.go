package membrane

import (
	"errors"
	"fmt"
	"math"
)

// Default membrane parameters.
const (
	DefaultRadius          = 10.0
	DefaultWaveVelocity    = 1.0
	DefaultAngularMode     = 3
	DefaultRadialMode      = 2
	DefaultRadialSegments  = 32
	DefaultAngularSegments = 64
	// DefaultTimeStep is the time advance between consecutive animation frames.
	DefaultTimeStep = 0.01
	// MaxSegments bounds each grid dimension.
	MaxSegments = 4096
)

// Mode identifies a normal mode of the membrane: M is the angular mode
// (number of nodal diameters) and K the radial mode (number of nodal circles,
// counting the rim).
type Mode struct {
	M int `json:"m"`
	K int `json:"k"`
}

// String returns "(m,k)".
func (m Mode) String() string {
	return fmt.Sprintf("(%d,%d)", m.M, m.K)
}

// Config describes a clamped circular membrane and the polar grid it is
// sampled on.
type Config struct {
	// Radius is the membrane radius a.
	Radius float64 `json:"radius"`
	// WaveVelocity is the wave speed c.
	WaveVelocity float64 `json:"wave_velocity"`
	// Mode selects the vibrating normal mode.
	Mode Mode `json:"mode"`
	// RadialSegments is the number of rings beyond the centre.
	RadialSegments int `json:"radial_segments"`
	// AngularSegments is the number of spokes; the seam at θ = 2π is sampled twice.
	AngularSegments int `json:"angular_segments"`
}

// DefaultConfig returns the (3,2) mode on a radius-10 membrane sampled on a
// 32×64 grid.
func DefaultConfig() Config {
	return Config{
		Radius:          DefaultRadius,
		WaveVelocity:    DefaultWaveVelocity,
		Mode:            Mode{M: DefaultAngularMode, K: DefaultRadialMode},
		RadialSegments:  DefaultRadialSegments,
		AngularSegments: DefaultAngularSegments,
	}
}

// Validate checks the configuration for consistency.
func (c Config) Validate() error {
	if math.IsNaN(c.Radius) || math.IsInf(c.Radius, 0) || c.Radius <= 0 {
		return errors.New("membrane: radius must be a positive finite number")
	}
	if math.IsNaN(c.WaveVelocity) || math.IsInf(c.WaveVelocity, 0) {
		return errors.New("membrane: wave velocity must be finite")
	}
	if _, err := Zero(c.Mode.M, c.Mode.K); err != nil {
		return err
	}
	if c.RadialSegments < 1 || c.RadialSegments > MaxSegments {
		return fmt.Errorf("membrane: radial segments must be in [1, %d], got %d", MaxSegments, c.RadialSegments)
	}
	if c.AngularSegments < 1 || c.AngularSegments > MaxSegments {
		return fmt.Errorf("membrane: angular segments must be in [1, %d], got %d", MaxSegments, c.AngularSegments)
	}
	return nil
}
