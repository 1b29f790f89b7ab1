package scalarid_test

import (
	"testing"

	"github.com/meenmo/tachygo/scalarid"
)

func TestOf_StableForEqualValues(t *testing.T) {
	t.Parallel()

	if scalarid.Of(1.0) != scalarid.Of(1.0) {
		t.Fatalf("Of(1.0) not stable across calls")
	}
	if scalarid.Of(1.0) == scalarid.Of(2.0) {
		t.Fatalf("distinct scalars minted the same id")
	}
}

func TestOf_TrimsTrailingZeroNibbles(t *testing.T) {
	t.Parallel()

	id := scalarid.Of(0)
	if id != "S0" {
		t.Fatalf("Of(0) = %q, want S0", id)
	}
}

func TestOfFloat32_DistinctFromOf(t *testing.T) {
	t.Parallel()

	a := scalarid.OfFloat32(1.5)
	b := scalarid.Of(1.5)
	if a == "" || b == "" {
		t.Fatalf("empty id minted")
	}
	if a == b {
		t.Fatalf("OfFloat32(1.5) and Of(1.5) minted the same id %q", a)
	}
}
