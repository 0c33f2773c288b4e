// Package motif finds the subtrajectory pair of at least a given minimum
// length that minimises the discrete Fréchet distance between two
// trajectories. Three implementations share one contract: a brute-force
// reference, a DP-accelerated brute force, and a branch-and-bound search
// using per-row/per-column distance minima to prune. Only the bounding
// search is meant for production use; the other two exist to cross-check
// it in tests.
package motif

import (
	"math"
	"sort"

	"github.com/module/trajsim/pkg/geo"
)

// Pair is a closed-open subrange of A and a closed-open subrange of B,
// together with the discrete Fréchet distance between those subranges.
type Pair struct {
	I, IEnd int
	J, JEnd int
	Dist    float64
}

// distMatrix computes G[i][j] = haversine(A[i], B[j]) once, for reuse
// across every candidate start in the DP-based variants.
func distMatrix(a, b geo.Trajectory) [][]float64 {
	g := make([][]float64, len(a))
	for i := range a {
		g[i] = make([]float64, len(b))
		for j := range b {
			g[i][j] = geo.Distance(a[i], b[j])
		}
	}
	return g
}

// dfdFromMatrix computes the discrete Fréchet distance of a[i:ie] and
// b[j:je] given a precomputed full distance matrix g, by running the
// standard DP recurrence over the submatrix.
func dfdFromMatrix(g [][]float64, i, ie, j, je int) float64 {
	rows, cols := ie-i, je-j
	f := make([][]float64, rows)
	for r := range f {
		f[r] = make([]float64, cols)
	}
	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			val := g[i+r][j+c]
			switch {
			case r == 0 && c == 0:
				f[r][c] = val
			case r == 0:
				f[r][c] = math.Max(f[r][c-1], val)
			case c == 0:
				f[r][c] = math.Max(f[r-1][c], val)
			default:
				f[r][c] = math.Max(val, math.Min(f[r-1][c-1], math.Min(f[r-1][c], f[r][c-1])))
			}
		}
	}
	return f[rows-1][cols-1]
}

// BruteForce enumerates every (i, j, ie, je) quadruple and recomputes DFD
// from scratch for each. It is the simplest possible implementation of the
// contract and the slowest; it exists to cross-check the faster variants.
func BruteForce(a, b geo.Trajectory, e int) (Pair, bool) {
	s, t := len(a), len(b)
	if s < e || t < e || e <= 0 {
		return Pair{}, false
	}

	best := Pair{Dist: math.Inf(1)}
	found := false

	for i := 0; i <= s-e; i++ {
		for ie := i + e; ie <= s; ie++ {
			for j := 0; j <= t-e; j++ {
				for je := j + e; je <= t; je++ {
					d := dfdNaive(a[i:ie], b[j:je])
					if d < best.Dist {
						best = Pair{I: i, IEnd: ie, J: j, JEnd: je, Dist: d}
						found = true
					}
				}
			}
		}
	}
	return best, found
}

func dfdNaive(a, b geo.Trajectory) float64 {
	rows, cols := len(a), len(b)
	f := make([][]float64, rows)
	for r := range f {
		f[r] = make([]float64, cols)
	}
	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			g := geo.Distance(a[r], b[c])
			switch {
			case r == 0 && c == 0:
				f[r][c] = g
			case r == 0:
				f[r][c] = math.Max(f[r][c-1], g)
			case c == 0:
				f[r][c] = math.Max(f[r-1][c], g)
			default:
				f[r][c] = math.Max(g, math.Min(f[r-1][c-1], math.Min(f[r-1][c], f[r][c-1])))
			}
		}
	}
	return f[rows-1][cols-1]
}

// DPBruteForce reuses the full pairwise distance matrix G across every
// (i, j) start, and grows F incrementally across (ie, je) within a fixed
// start rather than recomputing DFD from scratch.
func DPBruteForce(a, b geo.Trajectory, e int) (Pair, bool) {
	s, t := len(a), len(b)
	if s < e || t < e || e <= 0 {
		return Pair{}, false
	}
	g := distMatrix(a, b)

	best := Pair{Dist: math.Inf(1)}
	found := false

	for i := 0; i <= s-e; i++ {
		for j := 0; j <= t-e; j++ {
			for ie := i + e; ie <= s; ie++ {
				for je := j + e; je <= t; je++ {
					d := dfdFromMatrix(g, i, ie, j, je)
					if d < best.Dist {
						best = Pair{I: i, IEnd: ie, J: j, JEnd: je, Dist: d}
						found = true
					}
				}
			}
		}
	}
	return best, found
}

// candidate is one (i, j) start with its lower bound on the best achievable
// DFD for any subrange beginning there.
type candidate struct {
	i, j int
	lb   float64
}

// Execute runs the bounding branch-and-bound search: precompute G, cMin
// (the minimum of the row after i) and rMin (the minimum of the column after
// j), derive a lower bound per candidate start, sort ascending, and stop
// as soon as the best-so-far distance can no longer be beaten. This is the
// variant the engine uses in production; BruteForce and DPBruteForce exist
// to confirm it returns the same minimum distance.
func Execute(a, b geo.Trajectory, e int) (Pair, bool) {
	s, t := len(a), len(b)
	if s < e || t < e || e <= 0 {
		return Pair{}, false
	}

	g := distMatrix(a, b)

	// cMin[i] = min over j of G[i+1][j]; rMin[j] = min over i of G[i][j+1].
	cMin := make([]float64, s)
	for i := 0; i < s; i++ {
		cMin[i] = math.Inf(1)
		if i+1 < s {
			for j := 0; j < t; j++ {
				cMin[i] = math.Min(cMin[i], g[i+1][j])
			}
		}
	}
	rMin := make([]float64, t)
	for j := 0; j < t; j++ {
		rMin[j] = math.Inf(1)
		if j+1 < t {
			for i := 0; i < s; i++ {
				rMin[j] = math.Min(rMin[j], g[i][j+1])
			}
		}
	}

	var candidates []candidate
	for i := 0; i <= s-e; i++ {
		for j := 0; j <= t-e; j++ {
			// The window's corner cell is always on the matched path, and so
			// is the minimum of every row/column strictly inside the window
			// (i+1..i+e-1, j+1..j+e-1) — a coupling of length e must pass
			// through some cell of each. Rows/columns beyond the window are
			// NOT forced: a match may end at ie = i+e, je = j+e and never
			// reach them.
			lb := g[i][j]

			for jj := j; jj < j+e-1; jj++ {
				lb = math.Max(lb, rMin[jj])
			}
			for ii := i; ii < i+e-1; ii++ {
				lb = math.Max(lb, cMin[ii])
			}
			candidates = append(candidates, candidate{i: i, j: j, lb: lb})
		}
	}

	// Stable sort by ascending lb, ties broken by insertion order (i.e.
	// (i, j) lexicographic, since candidates were generated in that order).
	// Tie order must be deterministic or branch-and-bound pruning could
	// diverge across platforms.
	sort.SliceStable(candidates, func(x, y int) bool { return candidates[x].lb < candidates[y].lb })

	best := Pair{Dist: math.Inf(1)}
	found := false

	for _, c := range candidates {
		if found && best.Dist <= c.lb {
			break
		}

		iEnd, jEnd := s, t
		f := make([][]float64, iEnd-c.i)
		for r := range f {
			f[r] = make([]float64, jEnd-c.j)
		}

		for ie := c.i; ie < iEnd; ie++ {
			r := ie - c.i
			for je := c.j; je < jEnd; je++ {
				col := je - c.j
				val := g[ie][je]
				switch {
				case r == 0 && col == 0:
					f[r][col] = val
				case r == 0:
					f[r][col] = math.Max(f[r][col-1], val)
				case col == 0:
					f[r][col] = math.Max(f[r-1][col], val)
				default:
					f[r][col] = math.Max(val, math.Min(f[r-1][col-1], math.Min(f[r-1][col], f[r][col-1])))
				}

				if ie-c.i >= e-1 && je-c.j >= e-1 && f[r][col] < best.Dist {
					best = Pair{I: c.i, IEnd: ie + 1, J: c.j, JEnd: je + 1, Dist: f[r][col]}
					found = true
				}
			}

			// Each axis is capped independently: growing i past best.IEnd
			// can only help if some row at or beyond best.IEnd has a cell
			// cheaper than the current best, which cMin[best.IEnd-1] (the
			// minimum of row best.IEnd) rules out when it's already >= bsf.
			// This only holds while this start lies at or before that row
			// (resp. column), since the best pair may come from another start.
			// Capping on one axis never depends on the other axis's bound.
			if found {
				if c.i <= best.IEnd && best.Dist <= cMin[best.IEnd-1] {
					iEnd = best.IEnd
				}
				if c.j <= best.JEnd && best.Dist <= rMin[best.JEnd-1] {
					jEnd = best.JEnd
				}
				if ie+1 >= iEnd {
					break
				}
			}
		}
	}

	return best, found
}
