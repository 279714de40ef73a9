package tsne_test

import (
	"context"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/tsne/tsne"
)

func smallNeighbors(n, k int) tsne.NeighborInput {
	rng := rand.New(rand.NewSource(42))
	points := make([]float64, n*4)
	for i := range points {
		points[i] = rng.Float64() * 10
	}

	idx := make([][]int32, n)
	dist := make([][]float64, n)
	for i := 0; i < n; i++ {
		type pair struct {
			j int32
			d float64
		}
		cands := make([]pair, 0, n-1)
		for j := 0; j < n; j++ {
			if j == i {
				continue
			}
			s := 0.0
			for dd := 0; dd < 4; dd++ {
				diff := points[i*4+dd] - points[j*4+dd]
				s += diff * diff
			}
			cands = append(cands, pair{int32(j), s})
		}
		for a := 0; a < len(cands); a++ {
			for b := a + 1; b < len(cands); b++ {
				if cands[b].d < cands[a].d {
					cands[a], cands[b] = cands[b], cands[a]
				}
			}
		}
		ir := make([]int32, k)
		dr := make([]float64, k)
		for m := 0; m < k; m++ {
			ir[m] = cands[m].j
			dr[m] = cands[m].d
		}
		idx[i] = ir
		dist[i] = dr
	}

	return tsne.NeighborInput{Indices: idx, Distances: dist}
}

func TestInitialize_BuildsStatus(t *testing.T) {
	neighbors := smallNeighbors(20, 5)
	st, err := tsne.Initialize(neighbors, 2, tsne.WithPerplexity(5.0/3))
	require.NoError(t, err)
	assert.Equal(t, 20, st.N())
	assert.Equal(t, 2, st.D())
	assert.Equal(t, 0, st.Iter())
}

func TestRun_AdvancesIterationsAndFillsBuffer(t *testing.T) {
	neighbors := smallNeighbors(20, 5)
	st, err := tsne.Initialize(neighbors, 2,
		tsne.WithPerplexity(5.0/3),
		tsne.WithMaxIter(15),
	)
	require.NoError(t, err)

	y := make([]float64, 20*2)
	require.NoError(t, tsne.Run(context.Background(), st, y))
	assert.Equal(t, 15, st.Iter())

	nonZero := false
	for _, v := range y {
		if v != 0 {
			nonZero = true
			break
		}
	}
	assert.True(t, nonZero)
}

func TestRun_RespectsContextCancellation(t *testing.T) {
	neighbors := smallNeighbors(20, 5)
	st, err := tsne.Initialize(neighbors, 2,
		tsne.WithPerplexity(5.0/3),
		tsne.WithMaxIter(1000),
	)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	y := make([]float64, 20*2)
	err = tsne.Run(ctx, st, y)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Less(t, st.Iter(), 1000)
}

func TestRun_RejectsBufferLengthMismatch(t *testing.T) {
	neighbors := smallNeighbors(20, 5)
	st, err := tsne.Initialize(neighbors, 2, tsne.WithPerplexity(5.0/3))
	require.NoError(t, err)

	err = tsne.Run(context.Background(), st, make([]float64, 3))
	assert.ErrorIs(t, err, tsne.ErrDimensionMismatch)
}

func TestInitializeFromPoints_BuildsStatus(t *testing.T) {
	rng := rand.New(rand.NewSource(9))
	n, dims := 30, 5
	points := make([]float64, n*dims)
	for i := range points {
		points[i] = rng.Float64() * 10
	}

	st, err := tsne.InitializeFromPoints(points, dims, n, tsne.WithPerplexity(5))
	require.NoError(t, err)
	assert.Equal(t, n, st.N())
	assert.Equal(t, 2, st.D())
}

func TestEmbed_OneShot(t *testing.T) {
	neighbors := smallNeighbors(15, 4)
	y, err := tsne.Embed(context.Background(), neighbors, 2,
		tsne.WithPerplexity(4.0/3),
		tsne.WithMaxIter(5),
	)
	require.NoError(t, err)
	assert.Len(t, y, 30)
}
