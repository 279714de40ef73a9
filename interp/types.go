package interp

import "github.com/katalvlaran/tsne/internal/parallelfor"

// boundaryEpsilon guards against a zero step size when every point
// shares a coordinate along some dimension, mirroring sptree's own
// bounding-box padding.
const boundaryEpsilon = 1e-5

// Options configures the grid interpolator.
type Options struct {
	// Intervals is the number of cells per dimension, I in spec.md §4.4.
	// Larger values trade speed for accuracy.
	Intervals int

	// ParallelFor runs the independent waypoint-evaluation step (§4.4
	// step 2, each waypoint is an independent SPTree query). Defaults to
	// parallelfor.Sequential.
	ParallelFor parallelfor.Func
}

// DefaultOptions returns Intervals=20, ParallelFor=parallelfor.Sequential.
func DefaultOptions() Options {
	return Options{
		Intervals:   20,
		ParallelFor: parallelfor.Sequential,
	}
}

func (o *Options) fillDefaults() {
	if o.Intervals <= 0 {
		o.Intervals = 20
	}
	if o.ParallelFor == nil {
		o.ParallelFor = parallelfor.Sequential
	}
}

// Validate reports ErrBadIntervals for a non-positive Intervals.
func (o Options) Validate() error {
	if o.Intervals <= 0 {
		return ErrBadIntervals
	}

	return nil
}

// channels is the number of values stored per waypoint: d repulsive-force
// components plus one Q contribution.
const channels = 3 // d(=2) force components + 1 Q contribution

// cellCoeffs holds the four bilinear coefficients (slope-of-slope, slope,
// intercept-of-slope, intercept) for one output channel within one anchor
// cell, per spec.md §4.4's "precompute bilinear coefficients" step.
type cellCoeffs struct {
	slopeOfSlope     float64
	slope            float64
	interceptOfSlope float64
	intercept        float64
}

// Lattice is a built interpolation grid over a fixed d=2 embedding
// snapshot: bounding box, step size, per-waypoint evaluated values, and
// per-anchor-cell bilinear coefficients.
type Lattice struct {
	intervals int
	min       [2]float64
	step      [2]float64

	// coeffs maps an anchor cell's vertex hash (its lower-left corner) to
	// its per-channel bilinear coefficients.
	coeffs map[int64][channels]cellCoeffs
}
