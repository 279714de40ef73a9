package tsne

import (
	"context"
	"fmt"
	"math"
	"math/rand"
	"sort"

	"github.com/katalvlaran/tsne/affinity"
	"github.com/katalvlaran/tsne/gradient"
)

// defaultInitSeed is the fixed seed used to generate the initial
// embedding, mirroring tsp's "fixed default seed, deterministic unless
// the caller asks otherwise" stance (see tsp/rng.go's defaultRNGSeed).
const defaultInitSeed int64 = 1

// initSpread is the standard deviation of the small Gaussian jitter the
// initial embedding is drawn from, matching the conventional t-SNE
// initialization scale.
const initSpread = 1e-4

// NeighborInput holds, for each of N observations, the K nearest-neighbor
// indices and ascending distances produced by an external (or brute-force,
// see InitializeFromPoints) nearest-neighbor search.
type NeighborInput struct {
	Indices   [][]int32
	Distances [][]float64
}

func (ni NeighborInput) toAffinity() affinity.NeighborInput {
	return affinity.NeighborInput{Indices: ni.Indices, Distances: ni.Distances}
}

// Initialize calibrates perplexity, builds the symmetric affinity matrix
// P, draws an initial d-dimensional embedding, and returns a Status ready
// for Run. neighbors must satisfy K < N (affinity.ErrInsufficientObservations
// otherwise).
func Initialize(neighbors NeighborInput, d int, opts ...Option) (*Status, error) {
	cfg := DefaultOptions()
	for _, opt := range opts {
		opt(&cfg)
	}
	cfg.fillDefaults()

	if d <= 0 {
		return nil, ErrDimensionMismatch
	}

	ai := neighbors.toAffinity()
	aopts := affinity.DefaultOptions()
	aopts.Perplexity = cfg.perplexity
	aopts.BinarySearchOnly = cfg.binarySearchOnly
	aopts.ParallelFor = cfg.parallelFor
	aopts.Logger = cfg.logger

	p, err := affinity.ComputeJointProbabilities(ai, aopts)
	if err != nil {
		return nil, fmt.Errorf("tsne: %w", err)
	}

	n := ai.N()
	y := randomEmbedding(n, d, defaultInitSeed)

	state, err := gradient.NewState(y, n, d)
	if err != nil {
		return nil, fmt.Errorf("tsne: %w", err)
	}

	engine, err := gradient.NewEngine(d, n, scheduleFromConfig(cfg))
	if err != nil {
		return nil, fmt.Errorf("tsne: %w", err)
	}

	return &Status{n: n, d: d, cfg: cfg, p: p, engine: engine, state: state}, nil
}

// InitializeFromPoints is a convenience entry point for callers who have
// not run their own nearest-neighbor search: it computes an exact
// brute-force K-nearest-neighbor list (K = 3*perplexity, clamped to
// n-1) from raw high-dimensional points, then delegates to Initialize.
// This stays within spec.md's "nearest-neighbor search itself" Non-goal
// only in the sense that no approximate/indexed search library is
// introduced; exact brute-force KNN is the natural bridge from raw
// points to the same NeighborInput pipeline Initialize uses.
func InitializeFromPoints(points []float64, dims, n int, opts ...Option) (*Status, error) {
	if n <= 0 || dims <= 0 {
		return nil, ErrEmptyInput
	}
	if len(points) != n*dims {
		return nil, ErrDimensionMismatch
	}

	cfg := DefaultOptions()
	for _, opt := range opts {
		opt(&cfg)
	}
	cfg.fillDefaults()

	k := int(3 * cfg.perplexity)
	if k >= n {
		k = n - 1
	}
	if k < 1 {
		return nil, ErrBadK
	}

	neighbors := bruteForceKNN(points, dims, n, k)

	// The output embedding dimensionality is conventionally 2 regardless
	// of the input dims (points lives in the high-dimensional input
	// space; the embedding lives in a small, separate output space) —
	// the same convention WithInterpolation's d=2 requirement assumes.
	const outputDims = 2

	return Initialize(neighbors, outputDims, opts...)
}

// Run drives st from its current iteration count up to st's configured
// MaxIter, checking ctx for cancellation only at iteration boundaries
// (spec.md §5's "only safe interruption point is between iterations").
// y must have length N*D; it is overwritten with the latest embedding
// after every iteration, so a caller may safely inspect it between Run
// calls or after Run returns (mid-iteration inspection is undefined).
func Run(ctx context.Context, st *Status, y []float64) error {
	if st == nil || st.engine == nil || st.state == nil {
		return gradient.ErrNotInitialized
	}
	if len(y) != st.n*st.d {
		return ErrDimensionMismatch
	}

	for st.state.Iter < st.cfg.maxIter {
		select {
		case <-ctx.Done():
			copy(y, st.state.Y)
			return ctx.Err()
		default:
		}

		if err := st.engine.Step(st.state, st.p); err != nil {
			return fmt.Errorf("tsne: %w", err)
		}
		copy(y, st.state.Y)
	}

	return nil
}

// Embed is a one-shot convenience wrapper: Initialize followed by Run to
// completion, returning the final N*D embedding directly — the
// Initialize+Run analog of dtw.DTW's single top-level validate-then-compute
// entry point.
func Embed(ctx context.Context, neighbors NeighborInput, d int, opts ...Option) ([]float64, error) {
	st, err := Initialize(neighbors, d, opts...)
	if err != nil {
		return nil, err
	}

	y := make([]float64, st.n*st.d)
	if err := Run(ctx, st, y); err != nil {
		return nil, err
	}

	return y, nil
}

// randomEmbedding draws an n*d buffer of small, zero-centered Gaussian
// jitter from a fixed-seed deterministic stream — the conventional t-SNE
// initialization, scaled small enough that early iterations are driven
// by the actual forces rather than the starting noise.
func randomEmbedding(n, d int, seed int64) []float64 {
	rng := rand.New(rand.NewSource(seed))
	y := make([]float64, n*d)
	for i := range y {
		y[i] = rng.NormFloat64() * initSpread
	}

	return y
}

// bruteForceKNN computes, for every point, the k nearest neighbors by
// exact Euclidean distance — O(n^2*dims) time, acceptable for the modest
// point counts this convenience path targets.
func bruteForceKNN(points []float64, dims, n, k int) NeighborInput {
	indices := make([][]int32, n)
	distances := make([][]float64, n)

	type pair struct {
		idx  int32
		dist float64
	}

	for i := 0; i < n; i++ {
		ib := i * dims
		candidates := make([]pair, 0, n-1)
		for j := 0; j < n; j++ {
			if j == i {
				continue
			}
			jb := j * dims
			s := 0.0
			for dd := 0; dd < dims; dd++ {
				diff := points[ib+dd] - points[jb+dd]
				s += diff * diff
			}
			candidates = append(candidates, pair{int32(j), math.Sqrt(s)})
		}
		sort.Slice(candidates, func(a, b int) bool { return candidates[a].dist < candidates[b].dist })

		idxRow := make([]int32, k)
		distRow := make([]float64, k)
		for m := 0; m < k; m++ {
			idxRow[m] = candidates[m].idx
			distRow[m] = candidates[m].dist
		}
		indices[i] = idxRow
		distances[i] = distRow
	}

	return NeighborInput{Indices: indices, Distances: distances}
}
