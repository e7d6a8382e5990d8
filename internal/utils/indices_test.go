package utils

import (
	"slices"
	"testing"
)

func TestStrides(t *testing.T) {
	if got := Strides([]int{2, 3, 4}); !slices.Equal(got, []int{12, 4, 1}) {
		t.Errorf("expected strides [12 4 1], got %v", got)
	}
	if got := Strides(nil); len(got) != 0 {
		t.Errorf("expected empty strides, got %v", got)
	}
}

func TestBroadcastStrides(t *testing.T) {
	// Size-1 axes and missing leading axes get stride 0.
	got := BroadcastStrides([]int{1, 3}, []int{4, 2, 3})
	if !slices.Equal(got, []int{0, 0, 1}) {
		t.Errorf("expected strides [0 0 1], got %v", got)
	}
	got = BroadcastStrides([]int{2, 3}, []int{2, 3})
	if !slices.Equal(got, []int{3, 1}) {
		t.Errorf("expected strides [3 1], got %v", got)
	}
}

func TestFlattenUnflattenIndex(t *testing.T) {
	dims := []int{2, 3, 4}
	strides := Strides(dims)
	indices := make([]int, len(dims))
	for flat := 0; flat < 2*3*4; flat++ {
		UnflattenIndex(flat, dims, indices)
		if got := FlattenIndex(indices, strides); got != flat {
			t.Fatalf("round trip of flat index %d gave %d (multi-index %v)", flat, got, indices)
		}
	}
}
