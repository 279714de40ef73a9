package affinity

import "sort"

// Symmetrize converts the per-row Gaussian probabilities in raw (as
// produced by Calibrate) into the symmetric matrix P required by the
// gradient engine: for every directed pair (n, j) in row_n, the mutual
// counterpart in row_j is located and combined; missing counterparts are
// appended. The combined matrix is finally divided by 2·T (T being the
// pre-symmetrization total mass) so that ∑∑p = 1, and every row is
// re-sorted by ascending neighbor index since appended entries break the
// original order.
//
// The search for a counterpart exploits that both the source row and the
// target row's original prefix are sorted by ascending index: a per-target
// cursor advances monotonically as the outer loop's source index n
// increases, giving an amortized two-finger scan rather than a fresh
// search per pair.
func Symmetrize(raw Matrix) Matrix {
	n := len(raw)
	rows := make(Matrix, n)
	origLen := make([]int, n)
	for i, r := range raw {
		rows[i] = append(Row(nil), r...) // deep-ish copy: own backing array per row
		sort.Slice(rows[i], func(a, b int) bool { return rows[i][a].Index < rows[i][b].Index })
		origLen[i] = len(r)
	}

	var total float64
	for _, r := range rows {
		for _, e := range r {
			total += e.Prob
		}
	}

	cursor := make([]int, n)

	find := func(target int32, key int32) (idx int, ok bool) {
		row := rows[target]
		limit := origLen[target]
		for cursor[target] < limit && row[cursor[target]].Index < key {
			cursor[target]++
		}
		if cursor[target] < limit && row[cursor[target]].Index == key {
			return cursor[target], true
		}

		return -1, false
	}

	for ni := 0; ni < n; ni++ {
		nIdx := int32(ni)
		for idx := 0; idx < origLen[ni]; idx++ {
			j := rows[ni][idx].Index
			p := rows[ni][idx].Prob

			pos, found := find(j, nIdx)
			if !found {
				rows[j] = append(rows[j], Entry{Index: nIdx, Prob: p})
				continue
			}
			if nIdx < j {
				combined := p + rows[j][pos].Prob
				rows[ni][idx].Prob = combined
				rows[j][pos].Prob = combined
			}
			// nIdx > j: already combined while j was the source row.
		}
	}

	denom := 2 * total
	for i := range rows {
		for k := range rows[i] {
			rows[i][k].Prob /= denom
		}
		sort.Slice(rows[i], func(a, b int) bool { return rows[i][a].Index < rows[i][b].Index })
	}

	return rows
}

// ComputeJointProbabilities is the single-call convenience wrapper: it
// calibrates per-row Gaussian kernels and symmetrizes the result in one
// step, the natural public entry point for callers who don't need the two
// stages separated (mirrors builder.BuildGraph's "one orchestrator" idiom).
func ComputeJointProbabilities(neighbors NeighborInput, opts Options) (Matrix, error) {
	raw, err := Calibrate(neighbors, opts)
	if err != nil {
		return nil, err
	}

	return Symmetrize(raw), nil
}
