package affinity

import (
	"math"
	"sync/atomic"
)

// calibrateRow searches for the precision β > 0 such that the Gaussian
// kernel row distribution over the K neighbor distances has Shannon
// entropy log(perplexity), and returns the unnormalized probabilities
// together with the row's total mass S (Calibrate divides the row by S).
//
// Two numerical techniques are mandatory and implemented exactly as
// specified:
//
//  1. distance shift: s_m = d_m² - d_0², which zeroes the smallest
//     squared distance so exp(-β·s) stays representable for large β
//     without changing the normalized distribution (a constant shift in
//     the exponent cancels on normalization).
//  2. hybrid Newton–Raphson / bisection root search on H(β) = log U,
//     bracketed in [lo, hi], Newton accepted only when it lands strictly
//     inside the current bracket.
func calibrateRow(distances []float64, logU float64, opts Options) (probs []float64, sum float64, converged bool, lastBeta float64) {
	k := len(distances)
	s := make([]float64, k)
	d0sq := distances[0] * distances[0]
	for m, d := range distances {
		s[m] = d*d - d0sq
	}

	probs = make([]float64, k)

	beta := 1.0
	lo, hi := 0.0, math.Inf(1)

	for iter := 0; iter < opts.MaxIter; iter++ {
		var sumP, sumSP, sumS2P float64
		for m := range s {
			p := math.Exp(-beta * s[m])
			probs[m] = p
			sumP += p
			sumSP += s[m] * p
			sumS2P += s[m] * s[m] * p
		}

		h := beta*sumSP/sumP + math.Log(sumP)
		diff := h - logU
		if math.Abs(diff) < opts.Tolerance {
			return probs, sumP, true, beta
		}

		hPrime := -beta / sumP * (sumS2P - sumSP*sumSP/sumP)

		next, usedNewton := 0.0, false
		if !opts.BinarySearchOnly && hPrime != 0 {
			candidate := beta - diff/hPrime
			if candidate > lo && candidate < hi {
				next = candidate
				usedNewton = true
			}
		}

		if !usedNewton {
			if diff > 0 {
				lo = beta
				if math.IsInf(hi, 1) {
					next = beta * 2
				} else {
					next = (beta + hi) / 2
				}
			} else {
				hi = beta
				next = (beta + lo) / 2
			}
		}

		beta = next
		lastBeta = beta
	}

	// Non-convergence: recompute probabilities at the last β so the
	// caller still gets a usable (if imperfect) row.
	var sumP float64
	for m := range s {
		p := math.Exp(-beta * s[m])
		probs[m] = p
		sumP += p
	}

	return probs, sumP, false, beta
}

// Calibrate computes per-row Gaussian kernel probabilities for every
// observation in neighbors, parallelized across rows via opts.ParallelFor
// (each row's search is fully independent, per spec.md §5). It returns an
// unsymmetrized Matrix whose rows are NOT yet normalized to sum to one
// globally — Symmetrize performs that final normalization.
func Calibrate(neighbors NeighborInput, opts Options) (Matrix, error) {
	if err := neighbors.Validate(); err != nil {
		return nil, err
	}
	if opts.Perplexity <= 0 {
		return nil, ErrBadPerplexity
	}
	opts.fillDefaults()

	n := neighbors.N()
	k := neighbors.K()
	logU := math.Log(opts.Perplexity)

	rows := make([]Row, n)
	var nonConverged int64

	pf := opts.ParallelFor
	err := pf(n, func(i int) error {
		probs, sum, converged, _ := calibrateRow(neighbors.Distances[i], logU, opts)
		row := make(Row, k)
		for m := 0; m < k; m++ {
			row[m] = Entry{Index: neighbors.Indices[i][m], Prob: probs[m] / sum}
		}
		rows[i] = row
		if !converged {
			atomic.AddInt64(&nonConverged, 1)
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	if nonConverged > 0 {
		opts.Logger.Warn("affinity: perplexity calibration did not converge for some rows",
			"rows", nonConverged, "max_iter", opts.MaxIter, "tolerance", opts.Tolerance)
	}

	return Matrix(rows), nil
}
