// Package archx is the arch abstraction: a uniform numeric
// interface over a SIMD lane width W chosen once for the running CPU.
//
// Go has no portable way to emit hardware vector instructions without
// cgo or hand-written assembly per architecture, so this package does not
// attempt to (github.com/ajroetker/go-highway is the nearest
// ecosystem analogue, built the same way: Go generics over lane-width
// loops that rely on the compiler's own auto-vectorizer for the tight
// inner loop, not on intrinsics). What it does provide, faithfully, is
// the *contract*: a lane width W derived from the detected CPU tier, and
// elementwise operations expressed as tight loops over W-sized slices so
// the compiler has the best chance of vectorizing them. The tier
// selection itself is the one piece of real, inspectable hardware
// detection (via github.com/klauspost/cpuid/v2), decided once at package
// init rather than per call (see DESIGN.md).
package archx

import (
	"math"

	"github.com/klauspost/cpuid/v2"
)

// Tier ranks the detected SIMD capability, highest first.
type Tier int

const (
	// TierScalar is the universal fallback, lane width 1.
	TierScalar Tier = iota
	TierSSE2
	TierAVX
	TierAVX2FMA
)

func (t Tier) String() string {
	switch t {
	case TierAVX2FMA:
		return "AVX2+FMA"
	case TierAVX:
		return "AVX"
	case TierSSE2:
		return "SSE2"
	default:
		return "scalar"
	}
}

// ActiveTier is the SIMD tier selected for this process, decided once at
// init from the host's reported CPU features: FMA+AVX2 > AVX > SSE2 >
// scalar.
var ActiveTier = detectTier()

func detectTier() Tier {
	switch {
	case cpuid.CPU.Supports(cpuid.AVX2, cpuid.FMA3):
		return TierAVX2FMA
	case cpuid.CPU.Supports(cpuid.AVX):
		return TierAVX
	case cpuid.CPU.Supports(cpuid.SSE2):
		return TierSSE2
	default:
		return TierScalar
	}
}

// Float is the closed set of numeric types the engine supports: f32 and
// f64. Operations across the two are never mixed.
type Float interface {
	~float32 | ~float64
}

// LaneWidth returns W for type T at the given tier: the number of
// scalars the engine batches per packed operation. Fallback is always 1.
func LaneWidth[T Float](tier Tier) int {
	var zero T
	is64 := unsafeIsFloat64(zero)
	switch tier {
	case TierAVX2FMA, TierAVX:
		if is64 {
			return 4
		}
		return 8
	case TierSSE2:
		if is64 {
			return 2
		}
		return 4
	default:
		return 1
	}
}

func unsafeIsFloat64[T Float](zero T) bool {
	switch any(zero).(type) {
	case float64:
		return true
	default:
		return false
	}
}

// Width returns the active lane width for T under ActiveTier.
func Width[T Float]() int {
	return LaneWidth[T](ActiveTier)
}

// Add, Sub, Mul, Div are lane-wise binary arithmetic over equal-length
// packed slices. Callers own lifetime of the returned slice.
func Add[T Float](x, y []T) []T { return zipWith(x, y, func(a, b T) T { return a + b }) }
func Sub[T Float](x, y []T) []T { return zipWith(x, y, func(a, b T) T { return a - b }) }
func Mul[T Float](x, y []T) []T { return zipWith(x, y, func(a, b T) T { return a * b }) }
func Div[T Float](x, y []T) []T { return zipWith(x, y, func(a, b T) T { return a / b }) }
func Min[T Float](x, y []T) []T {
	return zipWith(x, y, func(a, b T) T {
		if a < b {
			return a
		}
		return b
	})
}
func Max[T Float](x, y []T) []T {
	return zipWith(x, y, func(a, b T) T {
		if a > b {
			return a
		}
		return b
	})
}

func zipWith[T Float](x, y []T, f func(a, b T) T) []T {
	n := len(x)
	out := make([]T, n)
	for i := 0; i < n; i++ {
		out[i] = f(x[i], y[i])
	}
	return out
}

// Neg, Abs, Sqrt, Floor, Ceil are lane-wise unary ops.
func Neg[T Float](x []T) []T { return mapWith(x, func(a T) T { return -a }) }
func Abs[T Float](x []T) []T {
	return mapWith(x, func(a T) T {
		if a < 0 {
			return -a
		}
		return a
	})
}
func Sqrt[T Float](x []T) []T {
	return mapWith(x, func(a T) T { return T(math.Sqrt(float64(a))) })
}
func Floor[T Float](x []T) []T {
	return mapWith(x, func(a T) T { return T(math.Floor(float64(a))) })
}
func Ceil[T Float](x []T) []T {
	return mapWith(x, func(a T) T { return T(math.Ceil(float64(a))) })
}

func mapWith[T Float](x []T, f func(a T) T) []T {
	out := make([]T, len(x))
	for i, v := range x {
		out[i] = f(v)
	}
	return out
}

// FMA computes x*y + c lanewise. Go has no portable hardware FMA
// intrinsic reachable without assembly, so this uses math.FMA (itself
// hardware-accelerated on amd64/arm64 by the Go runtime where available)
// for f64 and a plain multiply-add for f32; the two may
// differ from a dedicated FMA unit by up to 1 ULP, which is within
// contract.
func FMA[T Float](x, y, c []T) []T {
	n := len(x)
	out := make([]T, n)
	for i := 0; i < n; i++ {
		switch v := any(x[i]).(type) {
		case float64:
			out[i] = T(math.FMA(v, float64(any(y[i]).(float64)), float64(any(c[i]).(float64))))
		default:
			out[i] = x[i]*y[i] + c[i]
		}
	}
	return out
}

// CvtToInt rounds each lane to the nearest integer, ties to even.
func CvtToInt[T Float](x []T) []int {
	out := make([]int, len(x))
	for i, v := range x {
		out[i] = int(math.RoundToEven(float64(v)))
	}
	return out
}

// IMin, IMax are lane-wise integer min/max.
func IMin(x, y []int) []int {
	out := make([]int, len(x))
	for i := range x {
		if x[i] < y[i] {
			out[i] = x[i]
		} else {
			out[i] = y[i]
		}
	}
	return out
}
func IMax(x, y []int) []int {
	out := make([]int, len(x))
	for i := range x {
		if x[i] > y[i] {
			out[i] = x[i]
		} else {
			out[i] = y[i]
		}
	}
	return out
}

// ClampInt clamps every lane of x into [lo, hi].
func ClampInt(x []int, lo, hi int) []int {
	out := make([]int, len(x))
	for i, v := range x {
		if v < lo {
			v = lo
		} else if v > hi {
			v = hi
		}
		out[i] = v
	}
	return out
}

// Gather reads lane k as base[idx[k]]. idx must already be in range;
// callers (the spline evaluator) are responsible for the clamp.
func Gather[T Float](base []T, idx []int) []T {
	out := make([]T, len(idx))
	for k, i := range idx {
		out[k] = base[i]
	}
	return out
}

// IGather is the integer-valued analogue of Gather, used to fetch
// interval indices out of a spline's index map.
func IGather(base []int, idx []int) []int {
	out := make([]int, len(idx))
	for k, i := range idx {
		out[k] = base[i]
	}
	return out
}

// expLo, expHi bound the domain within which Exp guarantees a 1e-14
// relative error; outside, it clamps to the boundary value rather
// than overflowing to +Inf or underflowing to 0 prematurely.
const (
	expLo = -709.4
	expHi = 709.4
)

// Exp computes exp(x) lanewise, clamping the argument to
// [expLo, expHi] first. This uses math.Exp, which on the
// standard Go toolchain already resolves to a minimax/Pade-family
// approximation for f64.
func Exp[T Float](x []T) []T {
	return mapWith(x, func(a T) T {
		v := float64(a)
		if v < expLo {
			v = expLo
		} else if v > expHi {
			v = expHi
		}
		return T(math.Exp(v))
	})
}

// Log computes the natural logarithm lanewise.
func Log[T Float](x []T) []T {
	return mapWith(x, func(a T) T { return T(math.Log(float64(a))) })
}
