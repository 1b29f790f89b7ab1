package calcvector_test

import (
	"bytes"
	"errors"
	"testing"

	"github.com/meenmo/tachygo/cache"
	"github.com/meenmo/tachygo/calcvector"
	"github.com/meenmo/tachygo/date"
	"github.com/meenmo/tachygo/ops"
	"github.com/meenmo/tachygo/tachyerr"
)

func TestNew_DuplicateKeyRejected(t *testing.T) {
	t.Parallel()

	c := cache.New[float64]("c1", 1)
	_, err := calcvector.New("v", date.MustNew(202401), []float64{1, 2}, c, true)
	if err != nil {
		t.Fatalf("first New error: %v", err)
	}
	_, err = calcvector.New("v", date.MustNew(202401), []float64{3, 4}, c, true)
	if !errors.Is(err, tachyerr.ErrDuplicateKey) {
		t.Fatalf("expected ErrDuplicateKey, got %v", err)
	}
}

func TestAssign_Unguarded_OverwritesValues(t *testing.T) {
	t.Parallel()

	dummy := cache.Dummy[float64]()
	a, err := calcvector.New("a", date.MustNew(202401), []float64{0, 0, 0}, dummy, false)
	if err != nil {
		t.Fatalf("New error: %v", err)
	}
	rhs, err := calcvector.New("rhs", date.MustNew(202401), []float64{1, 2, 3}, dummy, false)
	if err != nil {
		t.Fatalf("New error: %v", err)
	}

	if err := a.Assign(rhs.Node()); err != nil {
		t.Fatalf("Assign error: %v", err)
	}
	for i, want := range []float64{1, 2, 3} {
		if a.Read(i) != want {
			t.Fatalf("Read(%d) = %v, want %v", i, a.Read(i), want)
		}
	}
}

func TestAssign_ShortRHS_CarriesLastValueForward(t *testing.T) {
	t.Parallel()

	dummy := cache.Dummy[float64]()
	a, _ := calcvector.New("a", date.MustNew(202401), []float64{0, 0, 0, 0}, dummy, false)
	rhs, _ := calcvector.New("rhs", date.MustNew(202401), []float64{5, 6}, dummy, false)

	if err := a.Assign(rhs.Node()); err != nil {
		t.Fatalf("Assign error: %v", err)
	}
	want := []float64{5, 6, 6, 6}
	for i, w := range want {
		if a.Read(i) != w {
			t.Fatalf("Read(%d) = %v, want %v", i, a.Read(i), w)
		}
	}
}

func TestAssign_RHSStartsLater_AlignsByDateOffset(t *testing.T) {
	t.Parallel()

	dummy := cache.Dummy[float64]()
	a, _ := calcvector.New("a", date.MustNew(202401), []float64{0, 0, 0, 0, 0}, dummy, false)
	rhs, _ := calcvector.New("rhs", date.MustNew(202403), []float64{10, 20, 30}, dummy, false)

	if err := a.Assign(rhs.Node()); err != nil {
		t.Fatalf("Assign error: %v", err)
	}
	// rhs starts 2 months after a, so its values land at a's index 2, not 0.
	want := []float64{0, 0, 10, 20, 30}
	for i, w := range want {
		if a.Read(i) != w {
			t.Fatalf("Read(%d) = %v, want %v", i, a.Read(i), w)
		}
	}
}

func TestAssign_RHSStartsEarlier_AlignsByDateOffset(t *testing.T) {
	t.Parallel()

	dummy := cache.Dummy[float64]()
	a, _ := calcvector.New("a", date.MustNew(202403), []float64{0, 0, 0}, dummy, false)
	rhs, _ := calcvector.New("rhs", date.MustNew(202401), []float64{1, 2, 3, 4, 5}, dummy, false)

	if err := a.Assign(rhs.Node()); err != nil {
		t.Fatalf("Assign error: %v", err)
	}
	// rhs starts 2 months before a, so a reads rhs's index 2 onward.
	want := []float64{3, 4, 5}
	for i, w := range want {
		if a.Read(i) != w {
			t.Fatalf("Read(%d) = %v, want %v", i, a.Read(i), w)
		}
	}
}

func TestAssign_SelfReferentialRecurrence_WritesAscending(t *testing.T) {
	t.Parallel()

	dummy := cache.Dummy[float64]()
	a, err := calcvector.New("a", date.MustNew(202401), []float64{1, 0, 0, 0}, dummy, false)
	if err != nil {
		t.Fatalf("New error: %v", err)
	}

	// a[t] = a[t-1] * 2, a recurrence that only works if writes happen in
	// ascending index order so each lagged read sees the freshly written
	// predecessor.
	lagged, lagEng := a.Lag(1, true)
	defer lagEng.Close()
	rhs := ops.Mul(lagged, ops.Scalar(2.0))

	if err := a.Assign(rhs); err != nil {
		t.Fatalf("Assign error: %v", err)
	}
	want := []float64{2, 4, 8, 16}
	for i, w := range want {
		if a.Read(i) != w {
			t.Fatalf("Read(%d) = %v, want %v", i, a.Read(i), w)
		}
	}
}

func TestAssign_AlreadyCachedRejected(t *testing.T) {
	t.Parallel()

	c := cache.New[float64]("c1", 1)
	a, err := calcvector.New("a", date.MustNew(202401), []float64{1, 2}, c, true)
	if err != nil {
		t.Fatalf("New error: %v", err)
	}
	rhs, _ := calcvector.New("rhs", date.MustNew(202401), []float64{9, 9}, cache.Dummy[float64](), false)

	err = a.Assign(rhs.Node())
	if !errors.Is(err, tachyerr.ErrCachedReassign) {
		t.Fatalf("expected ErrCachedReassign, got %v", err)
	}
}

func TestCommit_MaterialisesLazyExpressionOnce(t *testing.T) {
	t.Parallel()

	c := cache.New[float64]("c1", 1)
	a, _ := calcvector.New("a", date.MustNew(202401), []float64{1, 2, 3}, c, true)
	b, _ := calcvector.New("b", date.MustNew(202401), []float64{10, 20, 30}, c, true)

	sumNode := ops.Add(a.Node(), b.Node())
	sum, err := calcvector.FromExpr("sum", sumNode, c)
	if err != nil {
		t.Fatalf("FromExpr error: %v", err)
	}
	if sum.Owned() {
		t.Fatalf("expected lazy calc vector before Commit")
	}
	v1 := sum.Commit()
	if !sum.Owned() {
		t.Fatalf("expected owned after Commit")
	}
	v2 := sum.Commit()
	if v1 != v2 {
		t.Fatalf("Commit must be idempotent")
	}
	if v1.Read(0) != 11 {
		t.Fatalf("Read(0) = %v, want 11", v1.Read(0))
	}
}

func TestDebugPrint_IncludesIDAndValues(t *testing.T) {
	t.Parallel()

	dummy := cache.Dummy[float64]()
	a, _ := calcvector.New("a", date.MustNew(202401), []float64{1, 2, 3}, dummy, false)

	var buf bytes.Buffer
	a.DebugPrint(&buf)
	out := buf.String()
	if !bytes.Contains(buf.Bytes(), []byte("a ")) {
		t.Fatalf("DebugPrint output missing id: %q", out)
	}
}
