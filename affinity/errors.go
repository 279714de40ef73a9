package affinity

import "errors"

// Sentinel errors for affinity input validation.
var (
	// ErrInsufficientObservations indicates K >= N: there are not enough
	// observations to support the requested neighbor-list width.
	ErrInsufficientObservations = errors.New("affinity: insufficient observations for requested neighbor count (K >= N)")

	// ErrLengthMismatch indicates a row's index and distance slices differ
	// in length, or rows differ in width across observations.
	ErrLengthMismatch = errors.New("affinity: neighbor index and distance rows must have matching, uniform length")

	// ErrNonFiniteDistance indicates a NaN or Inf distance was supplied.
	ErrNonFiniteDistance = errors.New("affinity: neighbor distances must be finite")

	// ErrEmptyInput indicates zero observations were supplied.
	ErrEmptyInput = errors.New("affinity: neighbor input must contain at least one observation")

	// ErrBadPerplexity indicates Options.Perplexity <= 0.
	ErrBadPerplexity = errors.New("affinity: perplexity must be > 0")
)
