package veceng_test

import (
	"testing"

	"github.com/meenmo/tachygo/date"
	"github.com/meenmo/tachygo/veceng"
)

func TestNewFromValues_Accessors(t *testing.T) {
	t.Parallel()

	start := date.MustNew(202401)
	v, err := veceng.NewFromValues(start, []float64{1, 2, 3})
	if err != nil {
		t.Fatalf("NewFromValues error: %v", err)
	}
	if v.Size() != 3 {
		t.Fatalf("Size() = %d, want 3", v.Size())
	}
	if v.StartDate() != start {
		t.Fatalf("StartDate() mismatch")
	}
	if v.Read(1) != 2 {
		t.Fatalf("Read(1) = %v, want 2", v.Read(1))
	}
}

func TestDependsOn(t *testing.T) {
	t.Parallel()

	a, _ := veceng.NewFromValues(date.MustNew(202401), []float64{1})
	b, _ := veceng.NewFromValues(date.MustNew(202401), []float64{1})
	if !a.DependsOn(a) {
		t.Fatalf("a.DependsOn(a) = false, want true")
	}
	if a.DependsOn(b) {
		t.Fatalf("a.DependsOn(b) = true, want false")
	}
}

func TestReset_LaterStartTruncatesPrefix(t *testing.T) {
	t.Parallel()

	v, _ := veceng.NewFromValues(date.MustNew(202401), []float64{1, 2, 3, 4})
	v.Reset(date.MustNew(202403), 4)

	if v.StartDate().AsInt() != 202403 {
		t.Fatalf("StartDate() = %d, want 202403", v.StartDate().AsInt())
	}
	// Index 0 at the new start (202403) held value 3 at the old start.
	if v.Read(0) != 3 {
		t.Fatalf("Read(0) = %v, want 3", v.Read(0))
	}
	if v.Read(1) != 4 {
		t.Fatalf("Read(1) = %v, want 4", v.Read(1))
	}
	if v.Read(2) != 0 || v.Read(3) != 0 {
		t.Fatalf("expected zero-filled tail, got %v %v", v.Read(2), v.Read(3))
	}
}

func TestReset_EarlierStartPrependsZeros(t *testing.T) {
	t.Parallel()

	v, _ := veceng.NewFromValues(date.MustNew(202403), []float64{1, 2})
	v.Reset(date.MustNew(202401), 4)

	if v.StartDate().AsInt() != 202401 {
		t.Fatalf("StartDate() = %d, want 202401", v.StartDate().AsInt())
	}
	if v.Read(0) != 0 || v.Read(1) != 0 {
		t.Fatalf("expected zero-filled prefix, got %v %v", v.Read(0), v.Read(1))
	}
	if v.Read(2) != 1 || v.Read(3) != 2 {
		t.Fatalf("expected shifted original values, got %v %v", v.Read(2), v.Read(3))
	}
}

func TestGuards_RefcountedByIdentity(t *testing.T) {
	t.Parallel()

	v, _ := veceng.NewFromValues(date.MustNew(202401), []float64{1})
	owner := new(int)

	if v.IsGuarded() {
		t.Fatalf("fresh vector reports guarded")
	}
	v.AddGuard(owner)
	v.AddGuard(owner)
	if !v.IsGuarded() {
		t.Fatalf("expected guarded after AddGuard")
	}
	v.RemoveGuard(owner)
	if !v.IsGuarded() {
		t.Fatalf("expected still guarded after one RemoveGuard of two AddGuards")
	}
	v.RemoveGuard(owner)
	if v.IsGuarded() {
		t.Fatalf("expected unguarded after refcount reaches zero")
	}
}
