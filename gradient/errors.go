package gradient

import "errors"

// Sentinel errors for the gradient engine.
var (
	// ErrNotInitialized indicates Step was called with a nil State.
	ErrNotInitialized = errors.New("gradient: state not initialized")

	// ErrDimensionMismatch indicates a non-positive n or d, a Y whose
	// length is not n*d, or a P whose row count differs from N.
	ErrDimensionMismatch = errors.New("gradient: buffer length inconsistent with n and d")

	// ErrBadSchedule indicates a Schedule field holds a nonsensical value
	// (non-positive learning rate, eta, or max depth; momentum outside
	// [0,1)).
	ErrBadSchedule = errors.New("gradient: invalid schedule")
)
