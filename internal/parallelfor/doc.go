// Package parallelfor provides the pluggable data-parallel-for abstraction
// shared by the affinity and gradient packages.
//
// Three modes are supported, matching the concurrency model of a library
// meant to be embedded inside larger parallel frameworks:
//
//   - Sequential: a plain for-loop, zero dependencies.
//   - NewPool: a bounded worker pool built on golang.org/x/sync/errgroup
//     and golang.org/x/sync/semaphore.
//   - any caller-supplied Func value, so a host application can inject its
//     own scheduler (a different pool, a GOMAXPROCS-aware splitter, etc.).
//
// Every Func must preserve the "disjoint writes, ordered reduction" rule
// described in the gradient and affinity packages: callers that need an
// aggregate value must write per-index results into a buffer and reduce it
// serially afterward, never into a shared float accumulator.
package parallelfor
