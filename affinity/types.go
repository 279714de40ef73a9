package affinity

import (
	"log/slog"
	"math"

	"github.com/katalvlaran/tsne/internal/parallelfor"
)

// NeighborInput holds, for each of N observations, the K nearest-neighbor
// indices and distances produced by an external nearest-neighbor search.
// Both Indices[n] and Distances[n] must be sorted by ascending distance and
// must share the same length K for every n.
type NeighborInput struct {
	Indices   [][]int32   // Indices[n][m] is the m-th nearest neighbor of n
	Distances [][]float64 // Distances[n][m] is the corresponding distance, ascending in m
}

// N reports the number of observations.
func (ni NeighborInput) N() int { return len(ni.Indices) }

// K reports the neighbor-list width, or 0 if there are no observations.
func (ni NeighborInput) K() int {
	if len(ni.Indices) == 0 {
		return 0
	}

	return len(ni.Indices[0])
}

// Validate checks the structural invariants NeighborInput must satisfy
// before calibration: non-empty, matching row lengths, finite distances,
// and K < N (required so each row's entropy target is achievable).
func (ni NeighborInput) Validate() error {
	n := ni.N()
	if n == 0 {
		return ErrEmptyInput
	}
	if len(ni.Distances) != n {
		return ErrLengthMismatch
	}
	k := ni.K()
	if k >= n {
		return ErrInsufficientObservations
	}
	for i := 0; i < n; i++ {
		if len(ni.Indices[i]) != k || len(ni.Distances[i]) != k {
			return ErrLengthMismatch
		}
		for _, d := range ni.Distances[i] {
			if math.IsNaN(d) || math.IsInf(d, 0) {
				return ErrNonFiniteDistance
			}
		}
	}

	return nil
}

// Entry is one (neighbor index, probability) pair within a Row.
type Entry struct {
	Index int32
	Prob  float64
}

// Row is one observation's neighbor-probability list, sorted by ascending
// Index after symmetrization.
type Row []Entry

// Matrix is the full sparse, symmetric similarity matrix P: one Row per
// observation. Built once by ComputeJointProbabilities and immutable
// thereafter.
type Matrix []Row

// Sum returns Σ∑p across the whole matrix; used by tests to check the
// "sums to one" invariant.
func (m Matrix) Sum() float64 {
	var total float64
	for _, row := range m {
		for _, e := range row {
			total += e.Prob
		}
	}

	return total
}

// Options configures perplexity calibration.
type Options struct {
	// Perplexity is the target effective neighborhood size U; entropy of
	// each calibrated row converges to log(U). Callers typically pass
	// K/3 per spec.md §4.1.
	Perplexity float64

	// Tolerance is the |H - log U| stopping threshold for the root
	// search. Default 1e-5.
	Tolerance float64

	// MaxIter caps the Newton/bisection root search per row. Default 200.
	MaxIter int

	// BinarySearchOnly disables the Newton step and falls back to pure
	// bisection for every row; useful for deterministic testing since it
	// removes the Newton step's data-dependent convergence path.
	BinarySearchOnly bool

	// ParallelFor runs the independent per-row calibration step. Defaults
	// to parallelfor.Sequential.
	ParallelFor parallelfor.Func

	// Logger receives non-convergence warnings. Defaults to slog.Default().
	Logger *slog.Logger
}

// DefaultOptions returns calibration defaults: Tolerance=1e-5, MaxIter=200,
// BinarySearchOnly=false, ParallelFor=parallelfor.Sequential,
// Logger=slog.Default(). Perplexity is left at 0 and must be set by the
// caller (Calibrate rejects Perplexity <= 0).
func DefaultOptions() Options {
	return Options{
		Tolerance:   1e-5,
		MaxIter:     200,
		ParallelFor: parallelfor.Sequential,
		Logger:      slog.Default(),
	}
}

func (o *Options) fillDefaults() {
	if o.Tolerance <= 0 {
		o.Tolerance = 1e-5
	}
	if o.MaxIter <= 0 {
		o.MaxIter = 200
	}
	if o.ParallelFor == nil {
		o.ParallelFor = parallelfor.Sequential
	}
	if o.Logger == nil {
		o.Logger = slog.Default()
	}
}
