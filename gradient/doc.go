// Package gradient implements the per-iteration optimization loop that
// drives a point cloud toward a low-dimensional embedding minimizing KL
// divergence between the input similarity distribution P and the
// output similarity distribution Q: rebuild the SPTree, accumulate
// attractive forces over sparse P, accumulate repulsive forces and
// Q_sum via Barnes–Hut, form the gradient, apply adaptive per-coordinate
// gains (Jacobs' rule), integrate with momentum, and re-center.
//
// State owns every dense buffer the loop touches (Y, DY, UY, Gains,
// PosF, NegF) so a caller can run many independent embeddings
// concurrently without any engine-level shared state — the same
// "engine struct with its own dense buffers" idiom
// github.com/katalvlaran/lvlath/tsp's bbEngine uses for its distance
// matrix and bounds.
package gradient
