// Package frechet computes the discrete Fréchet distance between two
// trajectories, and an early-abort predicate for "is the distance within
// epsilon" that avoids computing the exact distance when the answer is
// known sooner.
package frechet

import (
	"math"

	"github.com/module/trajsim/pkg/geo"
)

// Distance returns the discrete Fréchet distance between A and B, computed
// bottom-up over a fully-allocated |A|x|B| matrix. Both trajectories must
// be non-empty; behaviour on an empty trajectory is undefined.
//
// F[i][j] = max(G[i][j], min(F[i-1][j-1], F[i-1][j], F[i][j-1]))
// F[0][0] = G[0][0]
// F[i][0] = max(F[i-1][0], G[i][0])
// F[0][j] = max(F[0][j-1], G[0][j])
func Distance(a, b geo.Trajectory) float64 {
	f := NewMatrix(len(a), len(b))
	fill(f, a, b)
	return f.At(len(a)-1, len(b)-1)
}

// Matrix is a fully-allocated |A|x|B| row-major matrix of float64. Using a
// flat slice instead of a slice-of-slices keeps the DP cache-friendly and
// avoids one allocation per row.
type Matrix struct {
	rows, cols int
	data       []float64
}

// NewMatrix allocates a rows x cols matrix.
func NewMatrix(rows, cols int) *Matrix {
	return &Matrix{rows: rows, cols: cols, data: make([]float64, rows*cols)}
}

// At returns the value at (i, j).
func (m *Matrix) At(i, j int) float64 { return m.data[i*m.cols+j] }

// Set stores v at (i, j).
func (m *Matrix) Set(i, j int, v float64) { m.data[i*m.cols+j] = v }

func fill(f *Matrix, a, b geo.Trajectory) {
	for i := 0; i < len(a); i++ {
		for j := 0; j < len(b); j++ {
			g := geo.Distance(a[i], b[j])

			switch {
			case i == 0 && j == 0:
				f.Set(i, j, g)
			case i == 0:
				f.Set(i, j, math.Max(f.At(i, j-1), g))
			case j == 0:
				f.Set(i, j, math.Max(f.At(i-1, j), g))
			default:
				prev := math.Min(f.At(i-1, j-1), math.Min(f.At(i-1, j), f.At(i, j-1)))
				f.Set(i, j, math.Max(g, prev))
			}
		}
	}
}

// state is the tri-state cell marker used by Within: unknown cells have not
// been visited yet, so a plain byte with three sentinel values avoids
// allocating a boxed *bool per cell.
type state byte

const (
	unknown state = iota
	isTrue
	isFalse
)

// Within reports whether the discrete Fréchet distance between A and B is
// at most eps, short-circuiting the recursion as soon as the answer is
// known rather than computing the full numeric distance.
//
// Cell (i,j) is false outright if G[i][j] > eps; otherwise it is true iff
// any of its three predecessors (diagonal, up, left — evaluated in that
// order for expected speed) is reachable. Any evaluation order that
// preserves this OR semantics is correct; diagonal-first is simply the one
// most likely to short-circuit early in practice.
func Within(eps float64, a, b geo.Trajectory) bool {
	s := make([]state, len(a)*len(b))
	cols := len(b)
	at := func(i, j int) state { return s[i*cols+j] }
	set := func(i, j int, v state) { s[i*cols+j] = v }

	var reachable func(i, j int) bool
	reachable = func(i, j int) bool {
		if i < 0 || j < 0 {
			return false
		}
		if v := at(i, j); v != unknown {
			return v == isTrue
		}

		if geo.Distance(a[i], b[j]) > eps {
			set(i, j, isFalse)
			return false
		}

		var ok bool
		switch {
		case i == 0 && j == 0:
			ok = true
		case i == 0:
			ok = reachable(i, j-1)
		case j == 0:
			ok = reachable(i-1, j)
		default:
			ok = reachable(i-1, j-1) || reachable(i-1, j) || reachable(i, j-1)
		}

		if ok {
			set(i, j, isTrue)
		} else {
			set(i, j, isFalse)
		}
		return ok
	}

	return reachable(len(a)-1, len(b)-1)
}
