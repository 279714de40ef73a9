package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Recorder collects per-iteration instrumentation for a single embedding
// run. It owns a private prometheus.Registry rather than registering into
// the global DefaultRegisterer, so callers can construct (and discard)
// multiple Recorders within one process — e.g. one per test case — without
// a duplicate-registration panic.
type Recorder struct {
	registry *prometheus.Registry

	iterDuration prometheus.Histogram
	treeDepth    prometheus.Gauge
	qSum         prometheus.Gauge
}

// NewRecorder builds a Recorder with its own registry and the gradient
// engine's three instrumentation points pre-registered.
func NewRecorder() *Recorder {
	reg := prometheus.NewRegistry()

	r := &Recorder{
		registry: reg,
		iterDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "tsne_iteration_duration_seconds",
			Help:    "Wall-clock time of a single gradient-engine iteration.",
			Buckets: prometheus.DefBuckets,
		}),
		treeDepth: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "tsne_sptree_max_depth",
			Help: "Deepest root-to-leaf path reached while building the SPTree this iteration.",
		}),
		qSum: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "tsne_q_sum",
			Help: "Unnormalized low-dimensional similarity mass (Q_sum) for the last iteration.",
		}),
	}

	reg.MustRegister(r.iterDuration, r.treeDepth, r.qSum)

	return r
}

// Registry exposes the private prometheus.Registry so a caller can wire it
// into an HTTP /metrics handler of their own choosing; this package makes
// no assumption about how (or whether) metrics are exported.
func (r *Recorder) Registry() *prometheus.Registry {
	if r == nil {
		return nil
	}

	return r.registry
}

// ObserveIteration records the duration of one gradient-engine iteration.
// Safe to call on a nil *Recorder (no-op), so call sites never need a
// separate nil check.
func (r *Recorder) ObserveIteration(d time.Duration) {
	if r == nil {
		return
	}
	r.iterDuration.Observe(d.Seconds())
}

// SetTreeDepth records the SPTree's deepest root-to-leaf path for the
// current iteration.
func (r *Recorder) SetTreeDepth(depth int) {
	if r == nil {
		return
	}
	r.treeDepth.Set(float64(depth))
}

// SetQSum records the current iteration's repulsive-force normalizer.
func (r *Recorder) SetQSum(q float64) {
	if r == nil {
		return
	}
	r.qSum.Set(q)
}
