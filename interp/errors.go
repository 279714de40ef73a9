package interp

import "errors"

// Sentinel errors for the grid interpolator.
var (
	// ErrUnsupportedDimension indicates the interpolator was invoked with
	// d != 2; only two-dimensional embeddings are supported.
	ErrUnsupportedDimension = errors.New("interp: only d=2 is supported")

	// ErrEmptyPoints indicates Build was called with zero points.
	ErrEmptyPoints = errors.New("interp: at least one point is required")

	// ErrBadIntervals indicates a non-positive interval count.
	ErrBadIntervals = errors.New("interp: intervals must be > 0")
)
