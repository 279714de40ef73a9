package tsne

import (
	"log/slog"

	"github.com/katalvlaran/tsne/internal/metrics"
	"github.com/katalvlaran/tsne/internal/parallelfor"
	"github.com/katalvlaran/tsne/interp"
)

// config is the fully resolved, immutable set of knobs a Status runs
// with, assembled from DefaultOptions() plus every Option a caller
// supplies to Initialize/InitializeFromPoints.
type config struct {
	perplexity       float64
	binarySearchOnly bool

	theta         float64
	eta           float64
	maxIter       int
	exaggeration  float64
	stopLyingIter int
	startMomentum float64
	finalMomentum float64
	momSwitchIter int
	maxDepth      int

	interpolationIntervals int // 0 disables interpolation

	parallelFor parallelfor.Func
	logger      *slog.Logger
	metrics     *metrics.Recorder
}

// Option configures a Status at construction time.
type Option func(*config)

// DefaultOptions returns the schedule spec.md §4.3 names: perplexity 30,
// theta 0.5, max_iter 1000, stop_lying_iter 250, mom_switch_iter 250,
// start_momentum 0.5, final_momentum 0.8, eta 200, exaggeration 12,
// max_depth 7, sequential execution, no metrics, interpolation disabled.
func DefaultOptions() config {
	return config{
		perplexity:    30,
		theta:         0.5,
		eta:           200,
		maxIter:       1000,
		exaggeration:  12,
		stopLyingIter: 250,
		startMomentum: 0.5,
		finalMomentum: 0.8,
		momSwitchIter: 250,
		maxDepth:      7,
		parallelFor:   parallelfor.Sequential,
		logger:        slog.Default(),
	}
}

// WithPerplexity sets the target effective neighborhood size (§4.1).
func WithPerplexity(u float64) Option {
	return func(c *config) { c.perplexity = u }
}

// WithTheta sets the Barnes–Hut opening-angle threshold.
func WithTheta(theta float64) Option {
	return func(c *config) { c.theta = theta }
}

// WithMaxIter sets the total number of gradient-descent iterations Run
// performs across all calls on one Status.
func WithMaxIter(n int) Option {
	return func(c *config) { c.maxIter = n }
}

// WithExaggeration sets the early-exaggeration multiplier and the
// iteration at which it reverts to 1.
func WithExaggeration(factor float64, stopIter int) Option {
	return func(c *config) {
		c.exaggeration = factor
		c.stopLyingIter = stopIter
	}
}

// WithMomentum sets the momentum schedule: start value, final value, and
// the iteration at which the switch occurs.
func WithMomentum(start, final float64, switchIter int) Option {
	return func(c *config) {
		c.startMomentum = start
		c.finalMomentum = final
		c.momSwitchIter = switchIter
	}
}

// WithLearningRate sets eta, the gradient-update step size.
func WithLearningRate(eta float64) Option {
	return func(c *config) { c.eta = eta }
}

// WithMaxDepth sets the SPTree's maximum root-to-leaf path length.
func WithMaxDepth(depth int) Option {
	return func(c *config) { c.maxDepth = depth }
}

// WithInterpolation enables the grid-interpolation acceleration of
// repulsive-force evaluation (§4.4) with the given number of intervals
// per dimension. Only effective for d=2; Run surfaces
// interp.ErrUnsupportedDimension otherwise. intervals <= 0 disables it.
func WithInterpolation(intervals int) Option {
	return func(c *config) { c.interpolationIntervals = intervals }
}

// WithParallelFor overrides the default sequential execution for every
// independently parallelizable stage (§5): per-row calibration,
// attractive-force accumulation, and waypoint evaluation.
func WithParallelFor(fn parallelfor.Func) Option {
	return func(c *config) { c.parallelFor = fn }
}

// WithLogger overrides the default *slog.Logger used for non-convergence
// and diagnostic warnings.
func WithLogger(l *slog.Logger) Option {
	return func(c *config) { c.logger = l }
}

// WithMetrics attaches a metrics.Recorder the gradient engine updates
// once per iteration. Nil (the default) disables instrumentation.
func WithMetrics(r *metrics.Recorder) Option {
	return func(c *config) { c.metrics = r }
}

// WithBinarySearchOnly forces pure-bisection perplexity calibration,
// disabling the Newton step for deterministic testing.
func WithBinarySearchOnly(on bool) Option {
	return func(c *config) { c.binarySearchOnly = on }
}

func (c *config) fillDefaults() {
	if c.parallelFor == nil {
		c.parallelFor = parallelfor.Sequential
	}
	if c.logger == nil {
		c.logger = slog.Default()
	}
}

func (c config) interp() *interp.Options {
	if c.interpolationIntervals <= 0 {
		return nil
	}

	return &interp.Options{
		Intervals:   c.interpolationIntervals,
		ParallelFor: c.parallelFor,
	}
}
