package interp

import (
	"math"

	"github.com/katalvlaran/tsne/internal/parallelfor"
	"github.com/katalvlaran/tsne/sptree"
)

// cellIndex returns the clamped grid cell (ix, iy) containing point y_d,
// per spec.md §4.4's encoding: index_d = min(floor((y_d-min_d)/step_d), I-1).
func (l *Lattice) cellIndex(y []float64) (ix, iy int) {
	ix = clampIndex(int(math.Floor((y[0]-l.min[0])/l.step[0])), l.intervals)
	iy = clampIndex(int(math.Floor((y[1]-l.min[1])/l.step[1])), l.intervals)

	return ix, iy
}

func clampIndex(i, intervals int) int {
	if i < 0 {
		return 0
	}
	if i > intervals-1 {
		return intervals - 1
	}

	return i
}

// vertexHash encodes a lattice vertex (vx, vy), each in [0, I], as a
// single int64: vx + vy*(I+1), the Σ_d index_d·(I+1)^d encoding spec.md
// §4.4 names, specialized to d=2.
func vertexHash(vx, vy, intervals int) int64 {
	width := int64(intervals + 1)

	return int64(vx) + int64(vy)*width
}

func vertexCoord(l *Lattice, vx, vy int) []float64 {
	return []float64{
		l.min[0] + float64(vx)*l.step[0],
		l.min[1] + float64(vy)*l.step[1],
	}
}

// Build constructs a Lattice over the current embedding y (n points, d=2)
// and the already-built SPTree tr that covers the same y, evaluating
// Barnes–Hut repulsion only at the waypoints spec.md §4.4 names: the
// corner vertices of every cell containing at least one point.
func Build(y []float64, n, d int, tr *sptree.SPTree, theta float64, opts Options) (*Lattice, error) {
	if d != 2 {
		return nil, ErrUnsupportedDimension
	}
	if n <= 0 {
		return nil, ErrEmptyPoints
	}
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	opts.fillDefaults()

	lat := &Lattice{
		intervals: opts.Intervals,
		coeffs:    make(map[int64][channels]cellCoeffs),
	}
	boundingBox(y, n, &lat.min, &lat.step, opts.Intervals)

	// Pass 1: mark occupied cells and their four corner waypoints.
	occupied := make(map[int64]bool)
	waypointSet := make(map[int64][2]int) // hash -> (vx, vy)
	for i := 0; i < n; i++ {
		ix, iy := lat.cellIndex(y[i*2 : i*2+2])
		cellHash := vertexHash(ix, iy, opts.Intervals)
		if occupied[cellHash] {
			continue
		}
		occupied[cellHash] = true

		for dx := 0; dx <= 1; dx++ {
			for dy := 0; dy <= 1; dy++ {
				vx, vy := ix+dx, iy+dy
				h := vertexHash(vx, vy, opts.Intervals)
				waypointSet[h] = [2]int{vx, vy}
			}
		}
	}

	// Pass 2: evaluate every waypoint exactly once via SPTree.
	hashes := make([]int64, 0, len(waypointSet))
	coords := make([][2]int, 0, len(waypointSet))
	for h, vxy := range waypointSet {
		hashes = append(hashes, h)
		coords = append(coords, vxy)
	}

	values := make([][channels]float64, len(hashes))
	pf := opts.ParallelFor
	if pf == nil {
		pf = parallelfor.Sequential
	}
	if err := pf(len(hashes), func(i int) error {
		vx, vy := coords[i][0], coords[i][1]
		coord := vertexCoord(lat, vx, vy)
		force, q := tr.EvaluateAt(y, coord, theta)
		values[i] = [channels]float64{force[0], force[1], q}
		return nil
	}); err != nil {
		return nil, err
	}

	valueByHash := make(map[int64][channels]float64, len(hashes))
	for i, h := range hashes {
		valueByHash[h] = values[i]
	}

	// Precompute bilinear coefficients for every anchor (occupied) cell.
	for cellHash := range occupied {
		iy := int(cellHash / int64(opts.Intervals+1))
		ix := int(cellHash % int64(opts.Intervals+1))

		f00 := valueByHash[vertexHash(ix, iy, opts.Intervals)]
		f10 := valueByHash[vertexHash(ix+1, iy, opts.Intervals)]
		f01 := valueByHash[vertexHash(ix, iy+1, opts.Intervals)]
		f11 := valueByHash[vertexHash(ix+1, iy+1, opts.Intervals)]

		var cc [channels]cellCoeffs
		for c := 0; c < channels; c++ {
			cc[c] = bilinearCoeffs(f00[c], f10[c], f01[c], f11[c], lat.step[0], lat.step[1])
		}
		lat.coeffs[cellHash] = cc
	}

	return lat, nil
}

func bilinearCoeffs(f00, f10, f01, f11, stepX, stepY float64) cellCoeffs {
	return cellCoeffs{
		slopeOfSlope:     (f11 - f10 - f01 + f00) / (stepX * stepY),
		slope:            (f10 - f00) / stepX,
		interceptOfSlope: (f01 - f00) / stepY,
		intercept:        f00,
	}
}

// boundingBox computes the 2-D bounding box of y and a per-dimension step
// size, padded by boundaryEpsilon so a degenerate (zero-extent) dimension
// never divides by zero.
func boundingBox(y []float64, n int, min, step *[2]float64, intervals int) {
	var lo, hi [2]float64
	lo[0], lo[1] = math.Inf(1), math.Inf(1)
	hi[0], hi[1] = math.Inf(-1), math.Inf(-1)

	for i := 0; i < n; i++ {
		for dd := 0; dd < 2; dd++ {
			v := y[i*2+dd]
			if v < lo[dd] {
				lo[dd] = v
			}
			if v > hi[dd] {
				hi[dd] = v
			}
		}
	}

	for dd := 0; dd < 2; dd++ {
		min[dd] = lo[dd]
		extent := hi[dd] - lo[dd] + boundaryEpsilon
		step[dd] = extent / float64(intervals)
	}
}
