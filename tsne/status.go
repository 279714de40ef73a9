package tsne

import (
	"github.com/katalvlaran/tsne/affinity"
	"github.com/katalvlaran/tsne/gradient"
)

// Status holds everything a Run call needs: the resolved configuration,
// the immutable sparse affinity matrix P, and the gradient engine's
// mutable state. A Status is produced by Initialize or
// InitializeFromPoints and is not safe for concurrent use by more than
// one goroutine driving the same Run.
type Status struct {
	n, d int
	cfg  config

	p      affinity.Matrix
	engine *gradient.Engine
	state  *gradient.State
}

// N reports the number of observations.
func (s *Status) N() int { return s.n }

// D reports the embedding dimensionality.
func (s *Status) D() int { return s.d }

// Iter reports the number of gradient-descent iterations performed so far.
func (s *Status) Iter() int { return s.state.Iter }

// Y returns the current embedding coordinates (a copy, safe to retain
// across further Run calls).
func (s *Status) Y() []float64 {
	return append([]float64(nil), s.state.Y...)
}

// scheduleFromConfig translates the public option set into the
// gradient engine's internal Schedule.
func scheduleFromConfig(cfg config) gradient.Schedule {
	return gradient.Schedule{
		Theta:         cfg.theta,
		Eta:           cfg.eta,
		Exaggeration:  cfg.exaggeration,
		StopLyingIter: cfg.stopLyingIter,
		StartMomentum: cfg.startMomentum,
		FinalMomentum: cfg.finalMomentum,
		MomSwitchIter: cfg.momSwitchIter,
		MaxDepth:      cfg.maxDepth,
		ParallelFor:   cfg.parallelFor,
		Logger:        cfg.logger,
		Metrics:       cfg.metrics,
		Interp:        cfg.interp(),
	}
}
