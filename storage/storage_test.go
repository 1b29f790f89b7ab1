package storage_test

import (
	"errors"
	"testing"

	"github.com/meenmo/tachygo/storage"
	"github.com/meenmo/tachygo/tachyerr"
)

func TestNewAndAccessors(t *testing.T) {
	t.Parallel()

	s, err := storage.New[float64](5)
	if err != nil {
		t.Fatalf("New error: %v", err)
	}
	if s.Len() != 5 {
		t.Fatalf("Len() = %d, want 5", s.Len())
	}
	s.Set(2, 3.5)
	if got := s.At(2); got != 3.5 {
		t.Fatalf("At(2) = %v, want 3.5", got)
	}
}

func TestNewFrom(t *testing.T) {
	t.Parallel()

	values := []float64{1, 2, 3}
	s, err := storage.NewFrom(values)
	if err != nil {
		t.Fatalf("NewFrom error: %v", err)
	}
	for i, v := range values {
		if s.At(i) != v {
			t.Fatalf("At(%d) = %v, want %v", i, s.At(i), v)
		}
	}
}

func TestPackedAt_UnalignedTail(t *testing.T) {
	t.Parallel()

	s, err := storage.NewFrom([]float64{1, 2, 3})
	if err != nil {
		t.Fatalf("NewFrom error: %v", err)
	}
	p := s.PackedAt(2)
	if len(p) != 1 {
		t.Fatalf("PackedAt(2) len = %d, want 1 (only one lane left)", len(p))
	}
}

func TestSetPackedAt(t *testing.T) {
	t.Parallel()

	s, err := storage.New[float64](4)
	if err != nil {
		t.Fatalf("New error: %v", err)
	}
	s.SetPackedAt(1, []float64{10, 20})
	if s.At(1) != 10 || s.At(2) != 20 {
		t.Fatalf("SetPackedAt did not write expected lanes: got %v %v", s.At(1), s.At(2))
	}
}

func TestResize(t *testing.T) {
	t.Parallel()

	s, err := storage.NewFrom([]float64{1, 2, 3})
	if err != nil {
		t.Fatalf("NewFrom error: %v", err)
	}
	if err := s.Resize(5); err != nil {
		t.Fatalf("Resize error: %v", err)
	}
	if s.Len() != 5 {
		t.Fatalf("Len() = %d, want 5", s.Len())
	}
	if s.At(0) != 1 || s.At(3) != 0 {
		t.Fatalf("Resize did not preserve/zero-fill correctly: %v %v", s.At(0), s.At(3))
	}

	if err := s.Resize(2); err != nil {
		t.Fatalf("Resize (shrink) error: %v", err)
	}
	if s.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", s.Len())
	}
}

func TestClone_Independent(t *testing.T) {
	t.Parallel()

	s, err := storage.NewFrom([]float64{1, 2, 3})
	if err != nil {
		t.Fatalf("NewFrom error: %v", err)
	}
	c := s.Clone()
	c.Set(0, 99)
	if s.At(0) == 99 {
		t.Fatalf("Clone shares storage with original")
	}
}

func TestNew_NegativeLengthFails(t *testing.T) {
	t.Parallel()

	_, err := storage.New[float64](-1)
	if !errors.Is(err, tachyerr.ErrAlignmentAllocationFailure) {
		t.Fatalf("expected ErrAlignmentAllocationFailure, got %v", err)
	}
}
