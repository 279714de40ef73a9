package sptree

import "errors"

// Sentinel errors for SPTree construction.
var (
	// ErrEmptyPoints indicates Build was called with zero points.
	ErrEmptyPoints = errors.New("sptree: at least one point is required")

	// ErrDimensionMismatch indicates len(y) != n*d, or a non-positive
	// dimensionality passed to New.
	ErrDimensionMismatch = errors.New("sptree: point buffer length must be a multiple of the dimensionality")

	// ErrBadDepth indicates a non-positive MaxDepth was configured.
	ErrBadDepth = errors.New("sptree: max depth must be > 0")
)
