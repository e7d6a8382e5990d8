package sorting

import (
	"math"
	"testing"

	"github.com/gomlx/arrayapi/types"
	"github.com/gomlx/arrayapi/types/shapes"
	"github.com/gomlx/gopjrt/dtypes"
	"github.com/pkg/errors"
)

var (
	F64 = dtypes.Float64
	I64 = dtypes.Int64

	S = shapes.Make
)

// must1 panics if there is an error.
func must1[T any](value T, err error) T {
	if err != nil {
		panic(err)
	}
	return value
}

func floats(dims []int, values ...float64) *types.Result {
	scalars := make([]types.Scalar, len(values))
	for i, v := range values {
		scalars[i] = types.FromFloat(F64, v)
	}
	return types.NewResult(S(F64, dims...), nil, scalars)
}

func checkFloats(t *testing.T, result *types.Result, want ...float64) {
	t.Helper()
	if result.Len() != len(want) {
		t.Fatalf("expected %d elements, got %d", len(want), result.Len())
	}
	for i, w := range want {
		got := result.At(i).Real
		if got != w && !(math.IsNaN(got) && math.IsNaN(w)) {
			t.Errorf("element %d: expected %v, got %v", i, w, got)
		}
	}
}

func TestSort(t *testing.T) {
	result := must1(Sort(floats([]int{5}, 3, 1, 4, 1, 5), -1, Options{Stable: true}))
	checkFloats(t, result, 1, 1, 3, 4, 5)

	// Descending reverses the comparator.
	result = must1(Sort(floats([]int{5}, 3, 1, 4, 1, 5), -1, Options{Descending: true, Stable: true}))
	checkFloats(t, result, 5, 4, 3, 1, 1)

	// Axis 0 sorts the columns independently.
	result = must1(Sort(floats([]int{3, 2},
		3, 1,
		1, 2,
		2, 0), 0, Options{Stable: true}))
	checkFloats(t, result, 1, 0, 2, 1, 3, 2)

	// The last axis sorts each row.
	result = must1(Sort(floats([]int{2, 3}, 3, 1, 2, 6, 5, 4), -1, Options{}))
	checkFloats(t, result, 1, 2, 3, 4, 5, 6)
}

func TestSortNaN(t *testing.T) {
	nan := math.NaN()

	// NaNs sort after every other value in ascending order.
	result := must1(Sort(floats([]int{4}, nan, 2, nan, 1), -1, Options{Stable: true}))
	checkFloats(t, result, 1, 2, nan, nan)

	// ... and first in descending order.
	result = must1(Sort(floats([]int{4}, nan, 2, nan, 1), -1, Options{Descending: true, Stable: true}))
	checkFloats(t, result, nan, nan, 2, 1)
}

func TestSortComplexLexicographic(t *testing.T) {
	C := dtypes.Complex128
	scalars := []types.Scalar{
		types.FromComplex(C, complex(2, 1)),
		types.FromComplex(C, complex(1, 3)),
		types.FromComplex(C, complex(1, 2)),
	}
	x := types.NewResult(S(C, 3), nil, scalars)
	result := must1(Sort(x, -1, Options{Stable: true}))
	want := []complex128{complex(1, 2), complex(1, 3), complex(2, 1)}
	for i, w := range want {
		if got := result.At(i).AsComplex128(); got != w {
			t.Errorf("element %d: expected %v, got %v", i, w, got)
		}
	}
}

func TestSortStability(t *testing.T) {
	// The original positions tag the two equal 5s: a stable argsort must
	// keep index 0 before index 2.
	result := must1(ArgSort(floats([]int{3}, 5, 3, 5), -1, I64, Options{Stable: true}))
	wantOrder := []int64{1, 0, 2}
	for i, w := range wantOrder {
		if got := result.At(i).Int; got != w {
			t.Errorf("position %d: expected index %d, got %d", i, w, got)
		}
	}
}

func TestArgSortGatherConsistency(t *testing.T) {
	x := floats([]int{2, 4},
		3, 1, 4, 1,
		5, 9, 2, 6)
	sorted := must1(Sort(x, -1, Options{Stable: true}))
	indices := must1(ArgSort(x, -1, I64, Options{Stable: true}))
	if !indices.Shape().Equal(S(I64, 2, 4)) {
		t.Fatalf("unexpected argsort shape %s", indices.Shape())
	}
	// Gathering x by the argsort permutation per row reproduces the sort.
	for row := range 2 {
		for col := range 4 {
			flat := row*4 + col
			gathered := x.At(row*4 + int(indices.At(flat).Int))
			if gathered.Real != sorted.At(flat).Real {
				t.Errorf("row %d col %d: gathered %v, sorted %v", row, col, gathered.Real, sorted.At(flat).Real)
			}
		}
	}
}

func TestSortErrors(t *testing.T) {
	_, err := Sort(floats(nil, 1), 0, Options{})
	if !errors.Is(err, types.ErrShapeMismatch) {
		t.Errorf("expected ErrShapeMismatch for a scalar, got %v", err)
	}
	_, err = Sort(floats([]int{3}, 1, 2, 3), 1, Options{})
	if !errors.Is(err, types.ErrInvalidAxis) {
		t.Errorf("expected ErrInvalidAxis, got %v", err)
	}
	_, err = ArgSort(floats([]int{3}, 1, 2, 3), 0, F64, Options{})
	if !errors.Is(err, types.ErrIncompatibleDType) {
		t.Errorf("expected ErrIncompatibleDType for a float index dtype, got %v", err)
	}
}

func TestSortIntegersAndBools(t *testing.T) {
	ints := types.NewResult(S(dtypes.Int32, 4), nil, []types.Scalar{
		types.FromInt(dtypes.Int32, -1),
		types.FromInt(dtypes.Int32, 3),
		types.FromInt(dtypes.Int32, -7),
		types.FromInt(dtypes.Int32, 0),
	})
	result := must1(Sort(ints, -1, Options{}))
	wantInts := []int64{-7, -1, 0, 3}
	for i, w := range wantInts {
		if got := result.At(i).Int; got != w {
			t.Errorf("element %d: expected %d, got %d", i, w, got)
		}
	}

	bools := types.NewResult(S(dtypes.Bool, 3), nil, []types.Scalar{
		types.FromBool(true), types.FromBool(false), types.FromBool(true),
	})
	result = must1(Sort(bools, -1, Options{}))
	wantBools := []bool{false, true, true}
	for i, w := range wantBools {
		if got := result.At(i).Bool; got != w {
			t.Errorf("element %d: expected %v, got %v", i, w, got)
		}
	}
}
