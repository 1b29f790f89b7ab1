package spline

import (
	"github.com/meenmo/tachygo/archx"
	"github.com/meenmo/tachygo/engine"
	"github.com/meenmo/tachygo/tachyerr"
)

// InitMode selects how a Modulated spline's base curve was built.
type InitMode int

const (
	InitIncrSlopes InitMode = iota
	InitLocalSlopes
	InitXYPoints
)

// Modulated pairs a base LinearSplineUniformIndex with a per-break-point
// modulation time series and precomputes a time-dependent (a, b) table
// of shape (T_len x m): at time t, every break point's slope is scaled
// by modulation[break point][t], with the intercepts re-derived the same
// way the base spline derived them, so continuity at the break points
// holds at every time step. It is exposed as an engine.Functor so it
// composes into an expression tree the same way any other engine does.
type Modulated[T archx.Float] struct {
	base *LinearSplineUniformIndex[T]
	a, b []T // flattened (T_len x m) table, row t starts at t*m
	m    int // break points per row, == len(base.b)
	tLen int
}

// NewModulated pairs base with modulation, one time series per break
// point base was built from (modulation[k][t] scales base.b[k] at time
// t). All rows must share the same length, the number of time steps the
// modulated spline will ever be read at; a mismatched row count or
// inconsistent row lengths fails with ErrModulationShapeMismatch. mode
// records how base was constructed; xy-point bases are rejected because
// a modulation reshapes y without the stable per-break-point slope
// identity the continuity re-derivation needs.
func NewModulated[T archx.Float](base *LinearSplineUniformIndex[T], modulation [][]T, mode InitMode) (*Modulated[T], error) {
	if mode == InitXYPoints || base.knotX == nil {
		return nil, tachyerr.ErrUnsupportedInitModeForModulation
	}
	m := len(base.b)
	if len(modulation) != m {
		return nil, tachyerr.ErrModulationShapeMismatch
	}
	tLen := 0
	if m > 0 {
		tLen = len(modulation[0])
	}
	for _, row := range modulation {
		if len(row) != tLen {
			return nil, tachyerr.ErrModulationShapeMismatch
		}
	}

	a := make([]T, tLen*m)
	b := make([]T, tLen*m)
	for t := 0; t < tLen; t++ {
		off := t * m
		// Node 0 is always the implicit pre-break-point zero segment;
		// a[off], b[off] stay zero regardless of modulation.
		for k := 1; k < m; k++ {
			b[off+k] = base.b[k] * modulation[k][t]
			a[off+k] = a[off+k-1] - (b[off+k]-b[off+k-1])*T(base.knotX[k-1])
		}
	}
	return &Modulated[T]{base: base, a: a, b: b, m: m, tLen: tLen}, nil
}

// EvalAt evaluates the modulated curve at time t, point x.
func (m *Modulated[T]) EvalAt(t int, x T) T {
	k := m.base.idx[m.base.cellOf(float64(x))]
	row := t * m.m
	return m.a[row+k] + m.b[row+k]*x
}

// EvalPackedAt evaluates the modulated curve at every lane of xs, with
// lane k read at time i+k (the read index doubles as the time index, as
// in a sequentially evaluated time series).
func (m *Modulated[T]) EvalPackedAt(i int, xs []T) ([]T, error) {
	if i < 0 || i+len(xs) > m.tLen {
		return nil, tachyerr.ErrModulationShapeMismatch
	}
	cells := make([]int, len(xs))
	for k, x := range xs {
		cells[k] = m.base.cellOf(float64(x))
	}
	intervals := archx.IGather(m.base.idx, cells)
	rowed := make([]int, len(intervals))
	for k, interval := range intervals {
		rowed[k] = (i+k)*m.m + interval
	}
	aVals := archx.Gather(m.a, rowed)
	bVals := archx.Gather(m.b, rowed)
	return archx.FMA(bVals, xs, aVals), nil
}

// AsFunctor adapts the modulated spline into an engine.Functor reading
// x values from src: Read(i) evaluates EvalAt(i, src.Read(i)).
func (m *Modulated[T]) AsFunctor(src engine.Engine[T]) *engine.Functor[T] {
	scalarFn := func(i int, x T) T { return m.EvalAt(i, x) }
	packedFn := func(i int, xs []T) []T {
		out, err := m.EvalPackedAt(i, xs)
		if err != nil {
			// Packed callers (engine.Functor.Packed) only ever request a
			// window within src's own reported size, and modulation is
			// sized to match its source at construction, so a shape
			// mismatch here means a caller built Modulated over the
			// wrong source; that is a programming error, not a runtime
			// condition to recover from.
			panic(err)
		}
		return out
	}
	return engine.NewFunctor(src, scalarFn, packedFn)
}
