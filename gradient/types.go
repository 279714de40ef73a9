package gradient

import (
	"log/slog"

	"github.com/katalvlaran/tsne/internal/metrics"
	"github.com/katalvlaran/tsne/internal/parallelfor"
	"github.com/katalvlaran/tsne/interp"
)

// State holds every dense buffer the optimization loop reads and
// mutates, all sized N·D and laid out column-major per observation
// (point n occupies buf[n*D : n*D+D]), plus the monotonically
// increasing iteration counter.
type State struct {
	N, D int

	Y     []float64 // current embedding
	DY    []float64 // gradient, reformed fresh each iteration
	UY    []float64 // velocity (momentum accumulator)
	Gains []float64 // per-coordinate adaptive gains, initialized to 1.0
	PosF  []float64 // attractive-force accumulator
	NegF  []float64 // repulsive-force accumulator

	Iter int
}

// NewState allocates a State for n points in d dimensions, seeded with
// the caller-supplied initial embedding y (copied, not aliased). Gains
// start at 1.0 per point per spec.md §3; every other buffer starts
// zeroed.
func NewState(y []float64, n, d int) (*State, error) {
	if n <= 0 || d <= 0 {
		return nil, ErrDimensionMismatch
	}
	if len(y) != n*d {
		return nil, ErrDimensionMismatch
	}

	size := n * d
	st := &State{
		N:     n,
		D:     d,
		Y:     append([]float64(nil), y...),
		DY:    make([]float64, size),
		UY:    make([]float64, size),
		Gains: make([]float64, size),
		PosF:  make([]float64, size),
		NegF:  make([]float64, size),
	}
	for i := range st.Gains {
		st.Gains[i] = 1.0
	}

	return st, nil
}

// Schedule configures the optimization loop's numerical constants and
// iteration-index-triggered behavior changes.
type Schedule struct {
	Theta float64 // Barnes–Hut opening-angle threshold
	Eta   float64 // learning rate

	Exaggeration   float64 // early-exaggeration multiplier
	StopLyingIter  int     // iter at which exaggeration reverts to 1
	StartMomentum  float64
	FinalMomentum  float64
	MomSwitchIter  int // iter at which momentum switches from Start to Final
	MaxDepth       int // SPTree max depth

	ParallelFor parallelfor.Func
	Logger      *slog.Logger
	Metrics     *metrics.Recorder

	// Interp enables the grid-interpolation acceleration of repulsive
	// force evaluation (§4.4) in place of a direct per-point SPTree
	// walk, when non-nil. Only valid for d=2; Step surfaces
	// interp.ErrUnsupportedDimension otherwise.
	Interp *interp.Options
}

// DefaultSchedule returns the constants spec.md §4.3 names: perplexity
// calibration is a separate concern (see affinity.DefaultOptions), but
// theta, eta, the exaggeration/momentum schedule, and max depth all
// default exactly as specified.
func DefaultSchedule() Schedule {
	return Schedule{
		Theta:         0.5,
		Eta:           200,
		Exaggeration:  12,
		StopLyingIter: 250,
		StartMomentum: 0.5,
		FinalMomentum: 0.8,
		MomSwitchIter: 250,
		MaxDepth:      7,
		ParallelFor:   parallelfor.Sequential,
		Logger:        slog.Default(),
	}
}

func (s *Schedule) fillDefaults() {
	if s.ParallelFor == nil {
		s.ParallelFor = parallelfor.Sequential
	}
	if s.Logger == nil {
		s.Logger = slog.Default()
	}
}

// Validate reports ErrBadSchedule for any numerically nonsensical field.
func (s Schedule) Validate() error {
	if s.Eta <= 0 || s.MaxDepth <= 0 {
		return ErrBadSchedule
	}
	if s.StartMomentum < 0 || s.StartMomentum >= 1 || s.FinalMomentum < 0 || s.FinalMomentum >= 1 {
		return ErrBadSchedule
	}
	if s.Theta < 0 {
		return ErrBadSchedule
	}

	return nil
}

// momentum returns the schedule-appropriate momentum for the given
// iteration.
func (s Schedule) momentum(iter int) float64 {
	if iter < s.MomSwitchIter {
		return s.StartMomentum
	}

	return s.FinalMomentum
}

// multiplier returns the early-exaggeration attractive-force multiplier
// for the given iteration.
func (s Schedule) multiplier(iter int) float64 {
	if iter < s.StopLyingIter {
		return s.Exaggeration
	}

	return 1
}
