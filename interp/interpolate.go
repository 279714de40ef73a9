package interp

// Evaluate recovers a per-point approximation of repulsive force and
// Q contribution from lat's precomputed anchor-cell coefficients: for
// each point, locate its anchor cell, compute the local offset from the
// cell's lower-left corner, and evaluate the bilinear form, less the
// interpolated contribution of the point's own kernel. Repulsive
// forces accumulate into out (a flat n*2 buffer, zeroed by the caller);
// the sum of all Q contributions is returned as Q_sum.
func (l *Lattice) Evaluate(y []float64, n int, out []float64) float64 {
	qSum := 0.0

	for i := 0; i < n; i++ {
		base := i * 2
		ix, iy := l.cellIndex(y[base : base+2])
		cellHash := vertexHash(ix, iy, l.intervals)
		cc := l.coeffs[cellHash]

		dx := y[base] - (float64(ix)*l.step[0] + l.min[0])
		dy := y[base+1] - (float64(iy)*l.step[1] + l.min[1])

		out[base] += bilinearEval(cc[0], dx, dy)
		out[base+1] += bilinearEval(cc[1], dx, dy)
		qSum += bilinearEval(cc[2], dx, dy)

		// Waypoint values include this point's own kernel (a waypoint is not
		// a tree member), so its interpolated self-term is subtracted.
		wx, wy := dx/l.step[0], dy/l.step[1]
		for _, v := range [4][3]float64{{0, 0, (1 - wx) * (1 - wy)}, {1, 0, wx * (1 - wy)}, {0, 1, (1 - wx) * wy}, {1, 1, wx * wy}} {
			ox, oy := v[0]*l.step[0]-dx, v[1]*l.step[1]-dy
			q := 1 / (1 + ox*ox + oy*oy)
			out[base] -= v[2] * q * q * ox
			out[base+1] -= v[2] * q * q * oy
			qSum -= v[2] * q
		}
	}

	return qSum
}

// bilinearEval evaluates one channel's bilinear form at local offset
// (dx, dy) from its cell's lower-left corner.
func bilinearEval(c cellCoeffs, dx, dy float64) float64 {
	return c.intercept + c.slope*dx + c.interceptOfSlope*dy + c.slopeOfSlope*dx*dy
}
