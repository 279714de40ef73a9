package affinity_test

import (
	"math"
	"math/rand"
	"testing"

	"github.com/katalvlaran/tsne/affinity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func makeRandomNeighbors(n, k int, seed int64) affinity.NeighborInput {
	r := rand.New(rand.NewSource(seed))
	points := make([][]float64, n)
	for i := range points {
		points[i] = []float64{r.Float64() * 10, r.Float64() * 10}
	}

	indices := make([][]int32, n)
	distances := make([][]float64, n)
	for i := 0; i < n; i++ {
		type cand struct {
			idx int
			d   float64
		}
		cands := make([]cand, 0, n-1)
		for j := 0; j < n; j++ {
			if j == i {
				continue
			}
			dx := points[i][0] - points[j][0]
			dy := points[i][1] - points[j][1]
			cands = append(cands, cand{j, math.Hypot(dx, dy)})
		}
		// simple insertion sort by ascending distance, good enough for small test N
		for a := 1; a < len(cands); a++ {
			for b := a; b > 0 && cands[b].d < cands[b-1].d; b-- {
				cands[b], cands[b-1] = cands[b-1], cands[b]
			}
		}
		idxRow := make([]int32, k)
		distRow := make([]float64, k)
		for m := 0; m < k; m++ {
			idxRow[m] = int32(cands[m].idx)
			distRow[m] = cands[m].d
		}
		indices[i] = idxRow
		distances[i] = distRow
	}

	return affinity.NeighborInput{Indices: indices, Distances: distances}
}

func rowEntropy(row affinity.Row) float64 {
	var h float64
	for _, e := range row {
		if e.Prob <= 0 {
			continue
		}
		h -= e.Prob * math.Log(e.Prob)
	}

	return h
}

// TestCalibrate_PerplexityRoundTrip covers spec scenario (c): for N=50
// random points, K=30, every row's entropy matches log(K/3) within 1e-5.
func TestCalibrate_PerplexityRoundTrip(t *testing.T) {
	n, k := 50, 30
	neighbors := makeRandomNeighbors(n, k, 42)
	perplexity := float64(k) / 3

	opts := affinity.DefaultOptions()
	opts.Perplexity = perplexity

	raw, err := affinity.Calibrate(neighbors, opts)
	require.NoError(t, err)
	require.Len(t, raw, n)

	logU := math.Log(perplexity)
	for i, row := range raw {
		h := rowEntropy(row)
		assert.InDeltaf(t, logU, h, 1e-5, "row %d entropy should match log(perplexity)", i)
	}
}

// TestCalibrate_InsufficientObservations covers the K >= N rejection.
func TestCalibrate_InsufficientObservations(t *testing.T) {
	neighbors := affinity.NeighborInput{
		Indices:   [][]int32{{1, 1}, {0, 0}},
		Distances: [][]float64{{1.0, 1.0}, {1.0, 1.0}},
	}
	opts := affinity.DefaultOptions()
	opts.Perplexity = 1

	_, err := affinity.Calibrate(neighbors, opts)
	assert.ErrorIs(t, err, affinity.ErrInsufficientObservations)
}

// TestCalibrate_BinarySearchOnlyMatchesHybrid checks that the
// deterministic binary-search-only mode converges to the same entropy
// target as the default hybrid Newton/bisection mode.
func TestCalibrate_BinarySearchOnlyMatchesHybrid(t *testing.T) {
	n, k := 30, 10
	neighbors := makeRandomNeighbors(n, k, 7)
	perplexity := float64(k) / 3

	hybrid := affinity.DefaultOptions()
	hybrid.Perplexity = perplexity
	rawHybrid, err := affinity.Calibrate(neighbors, hybrid)
	require.NoError(t, err)

	bisect := affinity.DefaultOptions()
	bisect.Perplexity = perplexity
	bisect.BinarySearchOnly = true
	rawBisect, err := affinity.Calibrate(neighbors, bisect)
	require.NoError(t, err)

	logU := math.Log(perplexity)
	for i := range rawHybrid {
		assert.InDelta(t, logU, rowEntropy(rawHybrid[i]), 1e-4)
		assert.InDelta(t, logU, rowEntropy(rawBisect[i]), 1e-4)
	}
}

// TestCalibrate_LengthMismatch covers the ragged-row rejection.
func TestCalibrate_LengthMismatch(t *testing.T) {
	neighbors := affinity.NeighborInput{
		Indices:   [][]int32{{1, 2}, {0, 2}, {0}},
		Distances: [][]float64{{1.0, 2.0}, {1.0, 2.0}, {1.0}},
	}
	opts := affinity.DefaultOptions()
	opts.Perplexity = 1

	_, err := affinity.Calibrate(neighbors, opts)
	assert.ErrorIs(t, err, affinity.ErrLengthMismatch)
}
