package date_test

import (
	"errors"
	"testing"

	"github.com/meenmo/tachygo/date"
	"github.com/meenmo/tachygo/tachyerr"
)

func TestNew_Valid(t *testing.T) {
	t.Parallel()

	d, err := date.New(202403)
	if err != nil {
		t.Fatalf("New error: %v", err)
	}
	if d.Year() != 2024 || d.Month() != 3 {
		t.Fatalf("got year=%d month=%d", d.Year(), d.Month())
	}
	if d.AsInt() != 202403 {
		t.Fatalf("AsInt mismatch: got %d", d.AsInt())
	}
	if d.String() != "202403" {
		t.Fatalf("String mismatch: got %q", d.String())
	}
}

func TestNew_InvalidMonth(t *testing.T) {
	t.Parallel()

	_, err := date.New(202413)
	if !errors.Is(err, tachyerr.ErrInvalidDate) {
		t.Fatalf("expected ErrInvalidDate, got %v", err)
	}
}

func TestAddMonths_CrossesYearBoundary(t *testing.T) {
	t.Parallel()

	d := date.MustNew(202411)
	got := d.AddMonths(3)
	if got.AsInt() != 202502 {
		t.Fatalf("got %d want 202502", got.AsInt())
	}

	back := got.AddMonths(-3)
	if !back.Equal(d) {
		t.Fatalf("round trip mismatch: got %d want %d", back.AsInt(), d.AsInt())
	}
}

func TestSub(t *testing.T) {
	t.Parallel()

	a := date.MustNew(202501)
	b := date.MustNew(202403)
	if a.Sub(b) != 10 {
		t.Fatalf("Sub mismatch: got %d want 10", a.Sub(b))
	}
	if b.Sub(a) != -10 {
		t.Fatalf("Sub mismatch: got %d want -10", b.Sub(a))
	}
}

func TestMaxMin(t *testing.T) {
	t.Parallel()

	a := date.MustNew(202401)
	b := date.MustNew(202501)
	if date.Max(a, b) != b {
		t.Fatalf("Max picked wrong date")
	}
	if date.Min(a, b) != a {
		t.Fatalf("Min picked wrong date")
	}
}

func TestMinDate(t *testing.T) {
	t.Parallel()

	if date.MinDate.AsInt() != 1001 {
		t.Fatalf("MinDate mismatch: got %d", date.MinDate.AsInt())
	}
}
