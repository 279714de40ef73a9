// Package affinity builds the sparse, symmetric input-similarity matrix P
// that t-SNE's gradient engine treats as ground truth.
//
// 🚀 What does affinity do?
//
//	Given, for every observation, a sorted list of K nearest-neighbor
//	indices and distances, affinity calibrates a per-row Gaussian kernel
//	bandwidth so each row's entropy matches a target perplexity, then
//	symmetrizes the resulting directed neighbor graph into an undirected
//	probability distribution that sums to one across the whole matrix.
//
// ✨ Key features:
//   - distance-shift numerical stabilization before exponentiating
//   - hybrid Newton–Raphson / bisection root search, with a pure
//     bisection fallback selectable for deterministic testing
//   - two-finger sparse symmetrization that never materializes a dense
//     N×N matrix
//   - pluggable parallel-for (internal/parallelfor) across the
//     independent per-row calibration step
//
// Non-convergence of the root search after Options.MaxIter steps is
// reported through the configured logger as a warning and never halts
// the batch — see Options.Logger and spec §7.
package affinity
