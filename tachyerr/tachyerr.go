// Package tachyerr collects the sentinel error kinds the calculation core
// can report. Every failure case in this module fails the current
// operation atomically and leaves the calc cache and every live engine
// valid; nothing here is retried internally.
package tachyerr

import "errors"

// Sentinel error kinds. Compare with errors.Is, e.g.
// errors.Is(err, tachyerr.ErrNonUniform).
var (
	// ErrInvalidDate: a YYYYMM value is outside 1001..999912 or has a
	// month outside 1..12.
	ErrInvalidDate = errors.New("tachygo: invalid date")

	// ErrDuplicateKey: a calc vector was constructed with an id that
	// already exists in its (non-level-0) cache.
	ErrDuplicateKey = errors.New("tachygo: duplicate cache key")

	// ErrCachedReassign: an assignment targeted a calc vector already
	// registered in its cache under its id.
	ErrCachedReassign = errors.New("tachygo: cannot reassign a cached vector")

	// ErrNonUniform: spline break points do not lie on a common integer
	// grid step and no uniform step could be derived.
	ErrNonUniform = errors.New("tachygo: spline break points are not uniform")

	// ErrModulationShapeMismatch: the modulation vectors supplied for a
	// time-dependent spline don't match the base spline's node count, or
	// the modulation vectors are not all the same length.
	ErrModulationShapeMismatch = errors.New("tachygo: modulation shape mismatch")

	// ErrUnsupportedInitModeForModulation: an xy-point spline (init mode
	// from_xy_points) was asked to build a time-dependent modulation,
	// which only incr/local-slope splines support.
	ErrUnsupportedInitModeForModulation = errors.New("tachygo: init mode does not support modulation")

	// ErrAlignmentAllocationFailure: an aligned buffer could not be
	// obtained for the requested length.
	ErrAlignmentAllocationFailure = errors.New("tachygo: aligned allocation failure")

	// ErrUnknownCacheKey: a read was attempted against a cache key that
	// was never inserted.
	ErrUnknownCacheKey = errors.New("tachygo: unknown cache key")
)
