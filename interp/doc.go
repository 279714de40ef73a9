// Package interp implements a d=2 grid-interpolation acceleration for
// Barnes–Hut repulsive-force evaluation: instead of walking the SPTree
// once per point, it walks the tree only at the corners of a coarse
// lattice overlaid on the current embedding, then recovers a
// per-point approximation by bilinear interpolation between the four
// corners of the point's containing cell.
//
// This is an approximation of an approximation — it trades some
// accuracy for a large constant-factor speedup when many points share
// the same lattice cell, and is not intended for final-quality runs by
// default (see gradient.Schedule, which leaves it disabled unless a
// caller opts in via tsne.WithInterpolation).
package interp
