// Package tsne is the root orchestration layer of a Barnes–Hut
// accelerated t-SNE embedding engine: it wires together affinity
// calibration (package affinity), the Barnes–Hut space-partitioning
// tree (package sptree), the per-iteration gradient descent loop
// (package gradient), and the optional grid-interpolation acceleration
// (package interp) behind two entry points, Initialize and Run, plus
// the Embed convenience wrapper for the common one-shot case.
package tsne
