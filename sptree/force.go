package sptree

import "math"

// ComputeRepulsion accumulates the Barnes–Hut approximation of the
// repulsive force on every point into out (a flat N·d buffer, zeroed by
// the caller) and returns Q_sum, the unnormalized sum of the
// Student-t kernel over all ordered pairs (i != j). For each query point
// i the tree is walked from the root; a non-root internal node is
// summarized as a single pseudo-point at its center of mass whenever the
// longest side of its bounding box is small relative to its distance
// from i (gated by theta), otherwise the walk recurses into its children.
// Every point held by a leaf that the walk reaches is visited
// individually. theta == 0 never summarizes a node, so every other point
// is visited individually, which is exactly brute-force pairwise
// summation (see BruteForce). y must be the same buffer the tree was
// last Built from.
func (t *SPTree) ComputeRepulsion(y []float64, theta float64, out []float64) float64 {
	d := t.dims
	n := len(t.locations)
	qsum := 0.0
	diff := make([]float64, d)

	for i := 0; i < n; i++ {
		base := i * d
		qsum += t.accumulate(int32(0), y, y[base:base+d], int32(i), theta, out[base:base+d], diff)
	}

	return qsum
}

// EvaluateAt runs the same Barnes–Hut traversal as ComputeRepulsion but
// for a single arbitrary query coordinate that need not be one of the
// tree's own points (e.g. a grid interpolator waypoint). It returns the
// repulsive-force vector and Q contribution at query, with no
// self-exclusion since query is not a member of the tree.
func (t *SPTree) EvaluateAt(y, query []float64, theta float64) (force []float64, q float64) {
	force = make([]float64, t.dims)
	diff := make([]float64, t.dims)
	q = t.accumulate(int32(0), y, query, -1, theta, force, diff)

	return force, q
}

// accumulate walks the subtree rooted at nodeIdx, adding the repulsive
// contribution of every summarized pseudo-point onto force (the slice
// for query point self), and returns the partial Q_sum contributed by
// this subtree. diff is a scratch buffer reused across the whole walk to
// avoid per-node allocation.
func (t *SPTree) accumulate(nodeIdx int32, y, point []float64, self int32, theta float64, force, diff []float64) float64 {
	nd := &t.nodes[nodeIdx]
	if nd.number == 0 {
		return 0
	}

	if nd.isLeaf {
		return t.accumulateLeaf(nd, y, point, self, force, diff)
	}

	maxSide := 0.0
	for _, h := range nd.halfwidth {
		if side := 2 * h; side > maxSide {
			maxSide = side
		}
	}

	rSq := 0.0
	for dd := range diff {
		diff[dd] = point[dd] - nd.com[dd]
		rSq += diff[dd] * diff[dd]
	}

	if nodeIdx != 0 && rSq > 0 && maxSide/math.Sqrt(rSq) < theta {
		return repulsionTerm(diff, rSq, float64(nd.number), force)
	}

	qsum := 0.0
	for _, c := range nd.children {
		if c == 0 {
			continue
		}
		qsum += t.accumulate(c, y, point, self, theta, force, diff)
	}

	return qsum
}

// accumulateLeaf treats every point held by a leaf as an individual
// pseudo-point (a leaf is only summarized wholesale by its own COM one
// level up, via the parent's theta test; once the walk has descended
// into it, each member must be visited individually), excluding the
// query point itself from its own force and mass.
func (t *SPTree) accumulateLeaf(nd *node, y, point []float64, self int32, force, diff []float64) float64 {
	d := t.dims
	qsum := 0.0

	for _, p := range nd.points {
		if p == self {
			continue
		}
		base := int(p) * d
		rSq := 0.0
		for dd := 0; dd < d; dd++ {
			diff[dd] = point[dd] - y[base+dd]
			rSq += diff[dd] * diff[dd]
		}
		qsum += repulsionTerm(diff, rSq, 1, force)
	}

	return qsum
}

// repulsionTerm adds the Student-t repulsive contribution of a single
// pseudo-point (already expressed as point-minus-other in diff, with
// squared distance rSq and aggregate mass) onto force, and returns its
// contribution to Q_sum: mass * (1+rSq)^-1.
func repulsionTerm(diff []float64, rSq, mass float64, force []float64) float64 {
	inv := 1.0 / (1.0 + rSq)
	q := mass * inv
	coeff := q * inv // mass * (1+rSq)^-2
	for dd := range force {
		force[dd] += coeff * diff[dd]
	}

	return q
}

// BruteForce computes the exact O(n^2) repulsive forces and Q_sum by
// direct pairwise summation, with no tree involved. It is the oracle
// scenario (e) checks ComputeRepulsion(theta=0) against, and is also
// useful directly on embeddings too small to justify tree overhead.
func BruteForce(y []float64, n, d int, out []float64) float64 {
	qsum := 0.0
	diff := make([]float64, d)

	for i := 0; i < n; i++ {
		ib := i * d
		for j := 0; j < n; j++ {
			if i == j {
				continue
			}
			jb := j * d
			rSq := 0.0
			for dd := 0; dd < d; dd++ {
				diff[dd] = y[ib+dd] - y[jb+dd]
				rSq += diff[dd] * diff[dd]
			}
			qsum += repulsionTerm(diff, rSq, 1, out[ib:ib+d])
		}
	}

	return qsum
}
