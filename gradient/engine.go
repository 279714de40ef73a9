package gradient

import (
	"math"
	"time"

	"github.com/katalvlaran/tsne/affinity"
	"github.com/katalvlaran/tsne/interp"
	"github.com/katalvlaran/tsne/sptree"
)

// Engine runs the per-iteration optimization loop against a reusable
// SPTree, per spec.md §4.3. An Engine is bound to one dimensionality and
// one Schedule; it is not safe for concurrent use by multiple
// goroutines driving the same State.
type Engine struct {
	tree     *sptree.SPTree
	schedule Schedule
}

// NewEngine allocates an Engine for the given dimensionality and
// capacity hint (expected point count, used only to pre-size the
// SPTree's node arena).
func NewEngine(d int, capacityHint int, schedule Schedule) (*Engine, error) {
	if err := schedule.Validate(); err != nil {
		return nil, err
	}
	schedule.fillDefaults()

	tree, err := sptree.New(d, schedule.MaxDepth, capacityHint)
	if err != nil {
		return nil, err
	}

	return &Engine{tree: tree, schedule: schedule}, nil
}

// Step runs exactly one iteration of spec.md §4.3 against st, using p as
// the fixed sparse affinity matrix. It mutates st.Y (and every other
// State buffer) in place and increments st.Iter.
func (e *Engine) Step(st *State, p affinity.Matrix) error {
	if st == nil {
		return ErrNotInitialized
	}
	if len(p) != st.N {
		return ErrDimensionMismatch
	}

	start := time.Now()
	sch := e.schedule

	// 1. Rebuild SPTree over current Y.
	e.tree.Reset()
	if err := e.tree.Build(st.Y, st.N); err != nil {
		return err
	}

	// 2. Attractive forces over sparse P.
	for i := range st.PosF {
		st.PosF[i] = 0
	}
	mult := sch.multiplier(st.Iter)
	if err := sch.ParallelFor(st.N, func(n int) error {
		attractiveForceRow(st, p[n], n, mult)
		return nil
	}); err != nil {
		return err
	}

	// 3. Repulsive forces and Q_sum via Barnes–Hut, optionally amortized
	// through grid interpolation (§4.4).
	for i := range st.NegF {
		st.NegF[i] = 0
	}
	var qSum float64
	if sch.Interp != nil {
		lat, err := interp.Build(st.Y, st.N, st.D, e.tree, sch.Theta, *sch.Interp)
		if err != nil {
			return err
		}
		qSum = lat.Evaluate(st.Y, st.N, st.NegF)
	} else {
		qSum = e.tree.ComputeRepulsion(st.Y, sch.Theta, st.NegF)
	}
	if qSum <= 0 {
		qSum = math.SmallestNonzeroFloat64
	}

	// 4. Form the gradient.
	for i := range st.DY {
		st.DY[i] = st.PosF[i] - st.NegF[i]/qSum
	}

	// 5. Adaptive gains (Jacobs' rule).
	for i := range st.Gains {
		if s := sign(st.DY[i]); s != 0 && s != sign(st.UY[i]) {
			st.Gains[i] += 0.2
		} else {
			st.Gains[i] *= 0.8
		}
		if st.Gains[i] < 0.01 {
			st.Gains[i] = 0.01
		}
	}

	// 6. Momentum update.
	momentum := sch.momentum(st.Iter)
	for i := range st.UY {
		st.UY[i] = momentum*st.UY[i] - sch.Eta*st.Gains[i]*st.DY[i]
		st.Y[i] += st.UY[i]
	}

	// 7. Re-center.
	recenter(st.Y, st.N, st.D)

	// 8. Advance the iteration counter.
	st.Iter++

	if sch.Metrics != nil {
		sch.Metrics.ObserveIteration(time.Since(start))
		sch.Metrics.SetTreeDepth(e.tree.DepthReached())
		sch.Metrics.SetQSum(qSum)
	}
	sch.Logger.Debug("gradient: iteration complete", "iter", st.Iter, "q_sum", qSum)

	return nil
}

// attractiveForceRow accumulates point n's attractive-force contribution
// from its own row of P into st.PosF[n*D:(n+1)*D]. Distinct n write to
// disjoint slices, so this is safe to call concurrently across n.
func attractiveForceRow(st *State, row affinity.Row, n int, mult float64) {
	d := st.D
	nb := n * d
	delta := make([]float64, d)

	for _, entry := range row {
		j := int(entry.Index)
		jb := j * d
		s := 0.0
		for dd := 0; dd < d; dd++ {
			delta[dd] = st.Y[nb+dd] - st.Y[jb+dd]
			s += delta[dd] * delta[dd]
		}
		qUnnorm := 1 / (1 + s)
		coeff := mult * entry.Prob * qUnnorm
		for dd := 0; dd < d; dd++ {
			st.PosF[nb+dd] += coeff * delta[dd]
		}
	}
}

// recenter subtracts the per-dimension mean from every point in y,
// re-establishing the zero-mean invariant spec.md §4.3 step 7 requires.
func recenter(y []float64, n, d int) {
	mean := make([]float64, d)
	for i := 0; i < n; i++ {
		base := i * d
		for dd := 0; dd < d; dd++ {
			mean[dd] += y[base+dd]
		}
	}
	for dd := 0; dd < d; dd++ {
		mean[dd] /= float64(n)
	}
	for i := 0; i < n; i++ {
		base := i * d
		for dd := 0; dd < d; dd++ {
			y[base+dd] -= mean[dd]
		}
	}
}

// sign returns -1, 0, or 1. sign(0) is defined as 0 so a zero gradient
// never counts as a sign flip in the gains update (spec.md §4.3 note).
func sign(v float64) int {
	switch {
	case v > 0:
		return 1
	case v < 0:
		return -1
	default:
		return 0
	}
}
