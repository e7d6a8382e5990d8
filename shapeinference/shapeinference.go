// Package shapeinference validates the inputs of array operations and
// calculates their output shapes.
//
// It implements the standard broadcasting rules (right-aligned dimensions,
// missing or size-1 dimensions stretch to match), axis normalization for
// negative axis specifiers, and one shape-derivation function per operation
// family: contraction (MatMul, TensorDot, VecDot), manipulation (Transpose,
// Concatenate, Reshape, ...) and searching (ArgMinMax, Where).
//
// Every function is a pure function of its inputs: validation errors are
// returned before anything else happens, and each error wraps one of the
// types.Err* sentinels so callers can classify with errors.Is.
package shapeinference

import (
	"github.com/gomlx/arrayapi/internal/utils"
	"github.com/gomlx/arrayapi/types"
	"github.com/gomlx/arrayapi/types/shapes"
	"github.com/pkg/errors"
)

// BroadcastShapes returns the shape resulting from broadcasting a against b,
// comparing dimensions from the trailing one backward. Missing leading
// dimensions are treated as size 1, and two dimensions are compatible if they
// are equal or either is 1.
//
// The result carries an invalid dtype: broadcasting is a rule over dimensions
// only, and the output dtype is the promotion package's business.
//
// It fails wrapping types.ErrBroadcast on the first incompatible pair.
// It is commutative: BroadcastShapes(a, b) == BroadcastShapes(b, a).
func BroadcastShapes(a, b shapes.Shape) (output shapes.Shape, err error) {
	rank := max(a.Rank(), b.Rank())
	output = shapes.Shape{Dimensions: make([]int, rank)}
	for i := 1; i <= rank; i++ {
		aDim, bDim := 1, 1
		if i <= a.Rank() {
			aDim = a.Dimensions[a.Rank()-i]
		}
		if i <= b.Rank() {
			bDim = b.Dimensions[b.Rank()-i]
		}
		if aDim != bDim && aDim != 1 && bDim != 1 {
			return shapes.Invalid(), errors.Wrapf(types.ErrBroadcast,
				"dimension %d (counting from the end) doesn't match and cannot be broadcast, got shapes %s and %s",
				i, a, b)
		}
		// A size-1 axis stretches to whatever it meets, including size 0.
		if aDim == 1 {
			output.Dimensions[rank-i] = bDim
		} else {
			output.Dimensions[rank-i] = aDim
		}
	}
	if rank == 0 {
		output.Dimensions = nil
	}
	return output, nil
}

// BroadcastAll folds BroadcastShapes over the given shapes.
// It fails wrapping types.ErrShapeMismatch if called with no inputs.
func BroadcastAll(inputs ...shapes.Shape) (output shapes.Shape, err error) {
	if len(inputs) == 0 {
		return shapes.Invalid(), errors.Wrap(types.ErrShapeMismatch, "BroadcastAll requires at least one shape")
	}
	output = shapes.Shape{}
	for _, input := range inputs {
		output, err = BroadcastShapes(output, input)
		if err != nil {
			return shapes.Invalid(), err
		}
	}
	return output, nil
}

// AdjustAxisToRank returns a non-negative axis, adjusting negative values to
// the given rank. It fails wrapping types.ErrInvalidAxis unless
// -rank <= axis < rank.
func AdjustAxisToRank(axis, rank int) (int, error) {
	if axis < -rank || axis >= rank {
		return -1, errors.Wrapf(types.ErrInvalidAxis, "axis %d is out of range for rank %d", axis, rank)
	}
	if axis < 0 {
		axis += rank
	}
	return axis, nil
}

// AdjustAxesToRank normalizes every axis of a multi-axis specifier against the
// given rank. It fails wrapping types.ErrInvalidAxis for an out-of-range axis
// and types.ErrDuplicateAxis if two axes resolve to the same value.
//
// It returns the normalized axes in their original order, plus the set of
// normalized values.
func AdjustAxesToRank(axes []int, rank int) (normalized []int, seen utils.Set[int], err error) {
	normalized = make([]int, len(axes))
	seen = utils.MakeSet[int](len(axes))
	for i, axis := range axes {
		adjusted, err := AdjustAxisToRank(axis, rank)
		if err != nil {
			return nil, nil, errors.WithMessagef(err, "while adjusting axes[%d]=%d", i, axis)
		}
		if seen.Has(adjusted) {
			return nil, nil, errors.Wrapf(types.ErrDuplicateAxis,
				"axes[%d]=%d resolves to %d, which appears more than once in %v", i, axis, adjusted, axes)
		}
		seen.Insert(adjusted)
		normalized[i] = adjusted
	}
	return normalized, seen, nil
}
