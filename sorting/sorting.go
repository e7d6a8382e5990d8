// Package sorting orders array elements along an axis, as values (sort) or
// as the index permutation (argsort).
//
// Ordering is defined per dtype kind: booleans order false before true,
// integers numerically, floats numerically with NaN after every other value
// in ascending order, and complex values lexicographically by (real,
// imaginary) component. Descending reverses the whole comparator, which
// places NaNs first. These NaN and complex choices are implementation
// decisions, not requirements of the interface.
//
// Lanes along the sort axis are independent and run through
// internal/parallel; within one lane the sort is serial, preserving
// stability when requested.
package sorting

import (
	"cmp"
	"slices"

	"github.com/gomlx/arrayapi/internal/parallel"
	"github.com/gomlx/arrayapi/internal/utils"
	"github.com/gomlx/arrayapi/shapeinference"
	"github.com/gomlx/arrayapi/types"
	"github.com/gomlx/arrayapi/types/shapes"
	"github.com/gomlx/gopjrt/dtypes"
	"github.com/pkg/errors"
)

// Options configure a sort.
type Options struct {
	// Descending reverses the comparator.
	Descending bool

	// Stable keeps the original relative order of equal elements. When
	// false a faster non-stable algorithm may be used and the order of
	// equal elements is unspecified.
	Stable bool

	Parallel parallel.Config
}

// Compare orders two scalars of the same dtype kind: -1, 0 or +1. NaNs sort
// after every non-NaN value; complex values order lexicographically.
func Compare(a, b types.Scalar) int {
	switch a.Kind() {
	case types.KindBool:
		var av, bv int
		if a.Bool {
			av = 1
		}
		if b.Bool {
			bv = 1
		}
		return cmp.Compare(av, bv)
	case types.KindInt:
		if a.DType.IsUnsigned() {
			return cmp.Compare(a.Uint, b.Uint)
		}
		return cmp.Compare(a.Int, b.Int)
	case types.KindComplex:
		if c := compareFloat(a.Real, b.Real); c != 0 {
			return c
		}
		return compareFloat(a.Imag, b.Imag)
	default:
		return compareFloat(a.Real, b.Real)
	}
}

// compareFloat orders NaN after every other value, and NaN equal to NaN so
// that stability decides among them.
func compareFloat(a, b float64) int {
	aNaN := a != a
	bNaN := b != b
	switch {
	case aNaN && bNaN:
		return 0
	case aNaN:
		return 1
	case bNaN:
		return -1
	}
	return cmp.Compare(a, b)
}

// Sort returns x with its elements ordered along the given axis.
func Sort(x types.Array, axis int, opts Options) (*types.Result, error) {
	values, outputShape, err := sortLanes(x, axis, opts, func(vals types.ElementStream, lane []int, out []types.Scalar, start, stride int) {
		for k, flat := range lane {
			out[start+k*stride] = vals.At(flat)
		}
	}, x.Shape().DType)
	if err != nil {
		return nil, err
	}
	return types.NewResult(outputShape, x.Device(), values), nil
}

// ArgSort returns the permutation of indices along the given axis that
// sorts x, with the given integer index dtype.
func ArgSort(x types.Array, axis int, indexDType dtypes.DType, opts Options) (*types.Result, error) {
	if !indexDType.IsInt() {
		return nil, errors.Wrapf(types.ErrIncompatibleDType,
			"ArgSort index dtype must be an integer type, got %s", indexDType)
	}
	values, outputShape, err := sortLanes(x, axis, opts, func(vals types.ElementStream, lane []int, out []types.Scalar, start, stride int) {
		for k, flat := range lane {
			out[start+k*stride] = types.FromInt(indexDType, int64((flat-start)/stride))
		}
	}, indexDType)
	if err != nil {
		return nil, err
	}
	return types.NewResult(outputShape, x.Device(), values), nil
}

// sortLanes runs the per-lane sort machinery shared by Sort and ArgSort.
// emit receives the lane's flat indices in sorted order plus the lane's
// start offset and stride in the output.
func sortLanes(x types.Array, axis int, opts Options,
	emit func(vals types.ElementStream, lane []int, out []types.Scalar, start, stride int),
	outputDType dtypes.DType) ([]types.Scalar, shapes.Shape, error) {

	shape := x.Shape()
	if shape.IsScalar() {
		return nil, shapes.Invalid(), errors.Wrapf(types.ErrShapeMismatch,
			"sorting requires an operand of rank >= 1, got %s", shape)
	}
	normalized, err := shapeinference.AdjustAxisToRank(axis, shape.Rank())
	if err != nil {
		return nil, shapes.Invalid(), errors.WithMessagef(err, "while sorting %s", shape)
	}

	dims := shape.Dimensions
	strides := utils.Strides(dims)
	laneLen := dims[normalized]
	laneStride := strides[normalized]
	inner := laneStride
	outer := 1
	for a := 0; a < normalized; a++ {
		outer *= dims[a]
	}
	laneCount := outer * inner

	vals := x.Values()
	values := make([]types.Scalar, shape.Size())
	compare := Compare
	if opts.Descending {
		compare = func(a, b types.Scalar) int { return Compare(b, a) }
	}
	parallel.For(laneCount, func(l int) {
		o, i := l/inner, l%inner
		start := o*laneLen*inner + i

		lane := make([]int, laneLen)
		for k := range laneLen {
			lane[k] = start + k*laneStride
		}
		byValue := func(a, b int) int { return compare(vals.At(a), vals.At(b)) }
		if opts.Stable {
			slices.SortStableFunc(lane, byValue)
		} else {
			slices.SortFunc(lane, byValue)
		}
		emit(vals, lane, values, start, laneStride)
	}, opts.Parallel)

	return values, shape.WithDType(outputDType), nil
}
