// Package metrics provides an optional prometheus-backed instrumentation
// hook for the gradient engine. A nil *Recorder disables all instrumentation
// with a single nil check per call site, so the iteration hot loop pays
// nothing when metrics are not requested.
package metrics
