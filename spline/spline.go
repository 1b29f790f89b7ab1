// Package spline implements the piecewise-linear spline functors (spec
// §4.H): a small set of (x, y) knots turned into a fast uniform-index
// evaluator usable both as a scalar function and as an engine.Functor
// over a dated vector.
package spline

import (
	"math"
	"sort"

	"github.com/meenmo/tachygo/archx"
	"github.com/meenmo/tachygo/tachyerr"
)

// LinearSplineUniformIndex evaluates a piecewise-linear function
// y = a[k] + b[k]*x for x inside knot interval k, where k is found in
// O(1) via a uniform index map rather than a binary search over knots.
// Construction detects whether the knots' x-coordinates fall on a
// common grid ("uniform" meaning every knot-to-knot step is
// an integer multiple of one base step) and fails with ErrNonUniform
// if not — callers that genuinely need non-uniform knots fall back to
// a direct knot search, outside this type's scope.
type LinearSplineUniformIndex[T archx.Float] struct {
	x0     float64   // x of grid cell 0: one step before the first break point (slope modes), the first knot (xy mode)
	step   float64   // uniform grid step between adjacent index-map cells
	a, b   []T       // per-interval intercept/slope
	idx    []int     // idx[k] is the interval index covering grid cell k
	nCells int
	knotX  []float64 // break-point x-coordinates behind a[1:]/b[1:], nil for xy-points splines
}

// FromIncrSlopes builds a spline from a set of (x, slope) break points,
// realizing the sum-of-ramps function S(x) = sum_k slope_k*max(0, x-x_k):
// the per-interval slope is the *cumulative* sum of the increments seen
// so far, b[i] = b[i-1] + slope[i-1], with b[0] = 0 covering every x
// below the first break point. This is the constructor to use when only
// rates of change (not absolute levels) are known at each break point.
func FromIncrSlopes[T archx.Float](xs []float64, slopes []T) (*LinearSplineUniformIndex[T], error) {
	return fromSlopeNodes(xs, slopes, true)
}

// FromLocalSlopes builds a spline from a set of (x, slope) break points
// where each interval keeps its own given slope rather than accumulating
// the ones before it, b[i] = slope[i-1], with the intercept
// a[i] = a[i-1] - (b[i]-b[i-1])*x[i-1] re-derived at every break point to
// preserve continuity.
func FromLocalSlopes[T archx.Float](xs []float64, slopes []T) (*LinearSplineUniformIndex[T], error) {
	return fromSlopeNodes(xs, slopes, false)
}

// fromSlopeNodes is the shared construction path for FromIncrSlopes and
// FromLocalSlopes: both sort (x, slope) pairs, anchor one grid step
// before the first break point (so index 0 can be the implicit
// a=b=0 segment covering everything below it), and differ only in
// whether b accumulates the slopes seen so far or keeps each interval's
// own.
func fromSlopeNodes[T archx.Float](xs []float64, slopes []T, cumulative bool) (*LinearSplineUniformIndex[T], error) {
	n := len(xs)
	if n < 1 || len(slopes) != n {
		return nil, tachyerr.ErrNonUniform
	}
	order := make([]int, n)
	for i := range order {
		order[i] = i
	}
	sort.Slice(order, func(i, j int) bool { return xs[order[i]] < xs[order[j]] })
	sx := make([]float64, n)
	sslope := make([]T, n)
	for i, o := range order {
		sx[i] = xs[o]
		sslope[i] = slopes[o]
	}

	var step, xfirst float64
	if n == 1 {
		step, xfirst = 1, sx[0]
	} else {
		var ok bool
		step, xfirst, ok = detectUniformGrid(sx)
		if !ok {
			return nil, tachyerr.ErrNonUniform
		}
	}
	x0 := xfirst - step

	m := n + 1
	a := make([]T, m)
	b := make([]T, m)
	for i := 1; i < m; i++ {
		if cumulative {
			b[i] = b[i-1] + sslope[i-1]
		} else {
			b[i] = sslope[i-1]
		}
		a[i] = a[i-1] - (b[i]-b[i-1])*T(sx[i-1])
	}

	idx, nCells := buildSlopeIndexMap(sx, x0, step, m)
	return &LinearSplineUniformIndex[T]{x0: x0, step: step, a: a, b: b, idx: idx, nCells: nCells, knotX: sx}, nil
}

// FromXYPoints builds a spline from raw (x, y) knot pairs, sorted by x,
// deriving each interval's slope and intercept. This is the only
// construction mode the time-dependent/modulated variant rejects, since
// a modulation reshapes y without a stable notion of "the knots" to
// carry forward.
func FromXYPoints[T archx.Float](xs []float64, ys []T) (*LinearSplineUniformIndex[T], error) {
	if len(xs) < 2 || len(xs) != len(ys) {
		return nil, tachyerr.ErrNonUniform
	}
	order := make([]int, len(xs))
	for i := range order {
		order[i] = i
	}
	sort.Slice(order, func(i, j int) bool { return xs[order[i]] < xs[order[j]] })
	sortedX := make([]float64, len(xs))
	sortedY := make([]T, len(ys))
	for i, o := range order {
		sortedX[i] = xs[o]
		sortedY[i] = ys[o]
	}
	return fromKnots(sortedX, sortedY)
}

func fromKnots[T archx.Float](xs []float64, ys []T) (*LinearSplineUniformIndex[T], error) {
	n := len(xs) - 1
	a := make([]T, n)
	b := make([]T, n)
	for k := 0; k < n; k++ {
		dx := xs[k+1] - xs[k]
		if dx <= 0 {
			return nil, tachyerr.ErrNonUniform
		}
		slope := (ys[k+1] - ys[k]) / T(dx)
		b[k] = slope
		a[k] = ys[k] - slope*T(xs[k])
	}
	step, x0, ok := detectUniformGrid(xs)
	if !ok {
		return nil, tachyerr.ErrNonUniform
	}
	idx, nCells := buildIndexMap(xs, x0, step)
	return &LinearSplineUniformIndex[T]{x0: x0, step: step, a: a, b: b, idx: idx, nCells: nCells}, nil
}

// detectUniformGrid reports whether every consecutive knot spacing is
// (within floating tolerance) an integer multiple of a common base
// step, found as the GCD of the spacings; if so it returns that base
// step and the first knot's x-coordinate.
func detectUniformGrid(xs []float64) (step, x0 float64, ok bool) {
	if len(xs) < 2 {
		return 0, 0, false
	}
	diffs := make([]float64, len(xs)-1)
	for k := range diffs {
		diffs[k] = xs[k+1] - xs[k]
		if diffs[k] <= 0 {
			return 0, 0, false
		}
	}
	g := diffs[0]
	for _, d := range diffs[1:] {
		g = gcdFloat(g, d)
	}
	if g <= 0 {
		return 0, 0, false
	}
	// A floating-point Euclidean GCD always terminates, even for knot
	// spacings that share no sensible common step: it just bottoms out
	// once the remainder drops below tol. Reject that degenerate case by
	// capping how many grid cells the derived step would imply across
	// the whole range — a genuine uniform grid (e.g. monthly steps over
	// decades) never needs more than a few thousand, while a spurious
	// near-zero step from truly irregular knots would imply millions.
	const maxCells = 1 << 20
	span := xs[len(xs)-1] - xs[0]
	if span/g > maxCells {
		return 0, 0, false
	}
	for _, d := range diffs {
		ratio := d / g
		if math.Abs(ratio-math.Round(ratio)) > 1e-6*math.Max(1, ratio) {
			return 0, 0, false
		}
	}
	return g, xs[0], true
}

// gcdFloat is the Euclidean algorithm adapted to a floating tolerance,
// used to find the common grid step underlying possibly irregular knot
// spacing (e.g. mixed 1-month and 3-month intervals reducing to a
// 1-month base step).
func gcdFloat(a, b float64) float64 {
	const tol = 1e-9
	for b > tol {
		a, b = b, math.Mod(a, b)
	}
	return a
}

// buildIndexMap assigns every uniform-grid cell the interval index that
// covers its centre, so a scalar x need only compute
// floor((x-x0)/step) to find its cell and look up the interval in O(1).
func buildIndexMap(xs []float64, x0, step float64) ([]int, int) {
	nCells := int(math.Round((xs[len(xs)-1]-x0)/step)) + 1
	idx := make([]int, nCells)
	interval := 0
	for k := 0; k < nCells; k++ {
		cellCentre := x0 + (float64(k)+0.5)*step
		for interval < len(xs)-2 && cellCentre > xs[interval+1] {
			interval++
		}
		idx[k] = interval
	}
	return idx, nCells
}

// buildSlopeIndexMap is buildIndexMap's counterpart for the slope-based
// constructors: it carries one more interval than xs has break points
// (m = len(xs)+1, the leading a=b=0 segment plus one per break point)
// and extends the grid one step past the last break point so an
// extrapolated read resolves to the final cumulative segment instead of
// clamping to a stale earlier one.
func buildSlopeIndexMap(sx []float64, x0, step float64, m int) ([]int, int) {
	n := len(sx)
	nCells := int(math.Round((sx[n-1]-sx[0])/step)) + 2
	idx := make([]int, nCells)
	interval := 0
	for k := 0; k < nCells; k++ {
		cellCentre := x0 + (float64(k)+0.5)*step
		for interval < m-1 && cellCentre > sx[interval] {
			interval++
		}
		idx[k] = interval
	}
	return idx, nCells
}

func (s *LinearSplineUniformIndex[T]) cellOf(x float64) int {
	k := int((x - s.x0) / s.step)
	if k < 0 {
		k = 0
	}
	if k >= s.nCells {
		k = s.nCells - 1
	}
	return k
}

// Eval evaluates the spline at a single point.
func (s *LinearSplineUniformIndex[T]) Eval(x T) T {
	k := s.idx[s.cellOf(float64(x))]
	return s.a[k] + s.b[k]*x
}

// EvalPacked evaluates the spline at every lane of xs via gather +
// fused multiply-add, a vectorised evaluation path.
func (s *LinearSplineUniformIndex[T]) EvalPacked(xs []T) []T {
	cells := make([]int, len(xs))
	for i, x := range xs {
		cells[i] = s.cellOf(float64(x))
	}
	intervals := archx.IGather(s.idx, cells)
	aVals := archx.Gather(s.a, intervals)
	bVals := archx.Gather(s.b, intervals)
	return archx.FMA(bVals, xs, aVals)
}
