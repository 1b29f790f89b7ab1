package ops_test

import (
	"testing"

	"github.com/meenmo/tachygo/cache"
	"github.com/meenmo/tachygo/date"
	"github.com/meenmo/tachygo/engine"
	"github.com/meenmo/tachygo/ops"
	"github.com/meenmo/tachygo/veceng"
)

func mustNode(t *testing.T, c *cache.Cache[float64], id string, start int, values []float64) ops.Node[float64] {
	t.Helper()
	v, err := veceng.NewFromValues(date.MustNew(start), values)
	if err != nil {
		t.Fatalf("NewFromValues error: %v", err)
	}
	return ops.Stored[float64](engine.NewStored(v), id, c)
}

func TestAdd_BothLevelZero_Uncached(t *testing.T) {
	t.Parallel()

	dummy := cache.Dummy[float64]()
	a := mustNode(t, dummy, "a", 202401, []float64{1, 2, 3})
	b := mustNode(t, dummy, "b", 202401, []float64{10, 20, 30})

	sum := ops.Add(a, b)
	if sum.Cache != nil {
		t.Fatalf("expected uncached result when both operands are level 0")
	}
	if sum.Eng.Read(1) != 22 {
		t.Fatalf("Read(1) = %v, want 22", sum.Eng.Read(1))
	}
}

func TestAdd_SameLevel_DelaysIntoCache(t *testing.T) {
	t.Parallel()

	c := cache.New[float64]("c1", 1)
	a := mustNode(t, c, "a", 202401, []float64{1, 2, 3})
	b := mustNode(t, c, "b", 202401, []float64{10, 20, 30})

	sum := ops.Add(a, b)
	if sum.Cache != c {
		t.Fatalf("expected same-level result to carry the shared cache")
	}
	if c.Len() != 0 {
		t.Fatalf("expected nothing materialised before Force is called, got Len()=%d", c.Len())
	}
	if sum.Eng.Read(0) != 11 {
		t.Fatalf("Read(0) = %v, want 11", sum.Eng.Read(0))
	}
}

func TestAdd_DifferentLevels_EagerlyMaterialisesIntoStronger(t *testing.T) {
	t.Parallel()

	weak := cache.New[float64]("weak", 3)
	strong := cache.New[float64]("strong", 1)

	a := mustNode(t, weak, "a", 202401, []float64{1, 2})
	b := mustNode(t, strong, "b", 202401, []float64{10, 20})

	sum := ops.Add(a, b)
	if sum.Cache != strong {
		t.Fatalf("expected result cached into the stronger (smaller-level) cache")
	}
	if strong.Len() != 1 {
		t.Fatalf("expected eager insertion into the stronger cache, got Len()=%d", strong.Len())
	}
}

func TestMul_ScalarOperandTreatedAsInfiniteLevel(t *testing.T) {
	t.Parallel()

	c := cache.New[float64]("c1", 1)
	a := mustNode(t, c, "a", 202401, []float64{1, 2, 3})
	two := ops.Scalar(2.0)

	prod := ops.Mul(a, two)
	if prod.Cache != c {
		t.Fatalf("expected scalar combination to materialise into the vector operand's cache")
	}
	if c.Len() != 1 {
		t.Fatalf("expected eager materialisation, got Len()=%d", c.Len())
	}
	if prod.Eng.Read(2) != 6 {
		t.Fatalf("Read(2) = %v, want 6", prod.Eng.Read(2))
	}
}

func TestLag_BuildsShiftedID(t *testing.T) {
	t.Parallel()

	dummy := cache.Dummy[float64]()
	a := mustNode(t, dummy, "a", 202401, []float64{1, 2, 3})
	lagged, lagEng := ops.Lag(a, 1, true)
	defer lagEng.Close()

	if lagged.Eng.Read(1) != 1 {
		t.Fatalf("Read(1) = %v, want 1", lagged.Eng.Read(1))
	}
	if lagged.ID != "a[+1]" {
		t.Fatalf("ID = %q, want a[+1]", lagged.ID)
	}
}
