// Package membrane samples the normal modes of a vibrating circular
// membrane clamped at its rim. The radial profile of mode (m, k) is
//
//	J_m(λ r / a)   with λ = j_{m,k}
//
// so the rim r = a is a node of every mode.
package membrane

import (
	"context"
	"fmt"
	"math"
	"runtime"
	"sync/atomic"

	"github.com/montanaflynn/stats"
	"golang.org/x/sync/errgroup"

	"github.com/agbru/besselj/internal/bessel"
)

// Vertex is a point of the polar sampling grid.
type Vertex struct {
	R     float64 `json:"r"`
	Theta float64 `json:"theta"`
}

// Grid returns the polar vertices of cfg: ring i sits at r = i/R·a and
// spoke j at θ = j/A·2π, for i ∈ [0, R] and j ∈ [0, A].
func Grid(cfg Config) [][]Vertex {
	rings := make([][]Vertex, cfg.RadialSegments+1)
	for i := range rings {
		r := float64(i) / float64(cfg.RadialSegments) * cfg.Radius
		ring := make([]Vertex, cfg.AngularSegments+1)
		for j := range ring {
			ring[j] = Vertex{R: r, Theta: float64(j) / float64(cfg.AngularSegments) * 2 * math.Pi}
		}
		rings[i] = ring
	}
	return rings
}

// Membrane evaluates displacements of a single normal mode.
type Membrane struct {
	cfg    Config
	lambda float64
	ev     bessel.Evaluator
}

// New validates cfg and binds it to the evaluator used for J_m.
//
// Parameters:
//   - cfg: The membrane configuration.
//   - ev: The Bessel evaluator.
//
// Returns:
//   - *Membrane: The membrane, ready for sampling.
//   - error: A validation error, or an error if ev is nil.
func New(cfg Config, ev bessel.Evaluator) (*Membrane, error) {
	if ev == nil {
		return nil, fmt.Errorf("membrane: nil evaluator")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	lambda, _ := Zero(cfg.Mode.M, cfg.Mode.K)
	return &Membrane{cfg: cfg, lambda: lambda, ev: ev}, nil
}

// Config returns the configuration the membrane was built with.
func (m *Membrane) Config() Config { return m.cfg }

// Lambda returns the zero j_{m,k} that scales the radial profile.
func (m *Membrane) Lambda() float64 { return m.lambda }

func (m *Membrane) angular(theta float64) float64 {
	mt := float64(m.cfg.Mode.M) * theta
	return math.Cos(mt) + math.Sin(mt)
}

func (m *Membrane) temporal(t float64) float64 {
	wt := m.cfg.WaveVelocity * m.lambda * t
	return math.Cos(wt) + math.Sin(wt)
}

func (m *Membrane) radial(ctx context.Context, r float64) (float64, error) {
	return m.ev.Evaluate(ctx, m.lambda*r/m.cfg.Radius, m.cfg.Mode.M)
}

// Displacement returns the height of the membrane at polar point (r, θ) and
// time t:
//
//	J_m(λ r/a) · (cos mθ + sin mθ) · (cos cλt + sin cλt)
func (m *Membrane) Displacement(ctx context.Context, r, theta, t float64) (float64, error) {
	jm, err := m.radial(ctx, r)
	if err != nil {
		return 0, err
	}
	return jm * m.angular(theta) * m.temporal(t), nil
}

// Sample evaluates the membrane on its full grid at time t. Rings are
// evaluated concurrently; the Bessel factor is computed once per ring since
// it depends on r only.
//
// Parameters:
//   - ctx: The context for cancellation.
//   - t: The time of the snapshot.
//
// Returns:
//   - *Frame: The sampled displacements.
//   - error: The first evaluation error, typically a context error.
func (m *Membrane) Sample(ctx context.Context, t float64) (*Frame, error) {
	return m.SampleWithProgress(ctx, t, nil)
}

// SampleWithProgress is Sample reporting the fraction of rings completed on
// progress after each ring. Sends never block: an update is dropped when the
// channel is full, and the next one supersedes it. The channel is not closed.
func (m *Membrane) SampleWithProgress(ctx context.Context, t float64, progress chan<- float64) (*Frame, error) {
	grid := Grid(m.cfg)
	frame := &Frame{
		Time:   t,
		Mode:   m.cfg.Mode,
		Radius: m.cfg.Radius,
		Lambda: m.lambda,
		Rings:  make([][]float64, len(grid)),
	}
	temporal := m.temporal(t)
	total := float64(len(grid))
	var done atomic.Int64

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))
	for i, ring := range grid {
		idx, vertices := i, ring
		g.Go(func() error {
			jm, err := m.radial(ctx, vertices[0].R)
			if err != nil {
				return err
			}
			row := make([]float64, len(vertices))
			for j, v := range vertices {
				row[j] = jm * m.angular(v.Theta) * temporal
			}
			frame.Rings[idx] = row

			if progress != nil {
				select {
				case progress <- float64(done.Add(1)) / total:
				default:
				}
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return frame, nil
}

// Sample is a convenience wrapper around New and Membrane.Sample.
func Sample(ctx context.Context, cfg Config, ev bessel.Evaluator, t float64) (*Frame, error) {
	m, err := New(cfg, ev)
	if err != nil {
		return nil, err
	}
	return m.Sample(ctx, t)
}

// Frame is a snapshot of the membrane displacement on its polar grid.
type Frame struct {
	Time   float64 `json:"t"`
	Mode   Mode    `json:"mode"`
	Radius float64 `json:"radius"`
	Lambda float64 `json:"lambda"`
	// Rings[i][j] is the displacement at ring i, spoke j.
	Rings [][]float64 `json:"rings"`
}

// Values returns every displacement of the frame, ring by ring.
func (f *Frame) Values() []float64 {
	n := 0
	for _, ring := range f.Rings {
		n += len(ring)
	}
	out := make([]float64, 0, n)
	for _, ring := range f.Rings {
		out = append(out, ring...)
	}
	return out
}

// FrameStats summarises the displacements of a Frame.
type FrameStats struct {
	Min    float64 `json:"min"`
	Max    float64 `json:"max"`
	Mean   float64 `json:"mean"`
	StdDev float64 `json:"stddev"`
}

// Stats returns the minimum, maximum, mean and population standard
// deviation of the frame's displacements.
func (f *Frame) Stats() (FrameStats, error) {
	values := f.Values()
	var (
		s   FrameStats
		err error
	)
	if s.Min, err = stats.Min(values); err != nil {
		return FrameStats{}, fmt.Errorf("membrane: frame stats: %w", err)
	}
	if s.Max, err = stats.Max(values); err != nil {
		return FrameStats{}, fmt.Errorf("membrane: frame stats: %w", err)
	}
	if s.Mean, err = stats.Mean(values); err != nil {
		return FrameStats{}, fmt.Errorf("membrane: frame stats: %w", err)
	}
	if s.StdDev, err = stats.StandardDeviationPopulation(values); err != nil {
		return FrameStats{}, fmt.Errorf("membrane: frame stats: %w", err)
	}
	return s, nil
}
