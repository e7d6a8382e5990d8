package utils

import (
	"testing"
)

// The engines use Set[int] to detect repeated axes after normalization:
// insert each adjusted axis and refuse the one already present.
func TestSetAxisBookkeeping(t *testing.T) {
	const rank = 3
	axes := []int{-1, 0, 2} // -1 and 2 collide once adjusted.
	seen := MakeSet[int](len(axes))
	collisions := 0
	for _, axis := range axes {
		if axis < 0 {
			axis += rank
		}
		if seen.Has(axis) {
			collisions++
			continue
		}
		seen.Insert(axis)
	}
	if collisions != 1 {
		t.Errorf("expected 1 collision, got %d", collisions)
	}
	if len(seen) != 2 {
		t.Errorf("expected 2 distinct axes, got %d", len(seen))
	}
	if !seen.Has(0) || !seen.Has(2) {
		t.Errorf("expected axes {0, 2}, got %v", seen)
	}
	if seen.Has(1) {
		t.Errorf("axis 1 was never inserted")
	}
}

func TestSetWith(t *testing.T) {
	s := SetWith(0, 1)
	if len(s) != 2 {
		t.Errorf("expected len 2, got %d", len(s))
	}
	s.Insert(1, 4)
	if len(s) != 3 {
		t.Errorf("expected len 3 after reinserting 1, got %d", len(s))
	}
	if !s.Has(4) {
		t.Errorf("expected s.Has(4) to be true")
	}
}
