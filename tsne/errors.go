package tsne

import "errors"

// Sentinel errors for the root orchestration layer.
var (
	// ErrEmptyInput indicates zero observations or zero points were given.
	ErrEmptyInput = errors.New("tsne: at least one observation is required")

	// ErrDimensionMismatch indicates a points buffer whose length is not
	// dims*n, a non-positive embedding dimensionality, or a Run output
	// buffer whose length is not N*D.
	ErrDimensionMismatch = errors.New("tsne: buffer length inconsistent with n and dims")

	// ErrBadK indicates a requested neighbor-list width too small or too
	// large relative to n.
	ErrBadK = errors.New("tsne: neighbor count must satisfy 1 <= k < n")
)
