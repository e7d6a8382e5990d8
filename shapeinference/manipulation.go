package shapeinference

import (
	"slices"

	"github.com/gomlx/arrayapi/types"
	"github.com/gomlx/arrayapi/types/shapes"
	"github.com/pkg/errors"
)

// PermuteDims returns the shape resulting from permuting the operand axes:
// output axis i gets the size of operand axis permutation[i]. The permutation
// must name every axis of the operand exactly once.
//
// Negative axes in permutation are replaced in place by their non-negative
// equivalents.
func PermuteDims(operand shapes.Shape, permutation []int) (output shapes.Shape, err error) {
	rank := operand.Rank()
	if len(permutation) != rank {
		return shapes.Invalid(), errors.Wrapf(types.ErrInvalidAxis,
			"PermuteDims requires all axes to be permuted, operand has shape %s but %d permutation axes were given",
			operand, len(permutation))
	}
	if rank == 0 {
		return operand.Clone(), nil
	}
	normalized, _, err := AdjustAxesToRank(permutation, rank)
	if err != nil {
		return shapes.Invalid(), errors.WithMessagef(err, "for the permutation of PermuteDims(%s, %v)", operand, permutation)
	}
	copy(permutation, normalized)

	output = operand.Clone()
	for axis := range output.Dimensions {
		output.Dimensions[axis] = operand.Dimensions[permutation[axis]]
	}
	return output, nil
}

// MatrixTranspose returns the shape with the last two axes of the operand
// swapped. The operand must have rank >= 2.
func MatrixTranspose(operand shapes.Shape) (output shapes.Shape, err error) {
	rank := operand.Rank()
	if rank < 2 {
		return shapes.Invalid(), errors.Wrapf(types.ErrShapeMismatch,
			"MatrixTranspose requires an operand of rank >= 2, got %s", operand)
	}
	output = operand.Clone()
	output.Dimensions[rank-2], output.Dimensions[rank-1] = output.Dimensions[rank-1], output.Dimensions[rank-2]
	return output, nil
}

// ExpandDims returns the operand shape with a size-1 axis inserted at the
// given position. The axis is normalized against rank+1, so axis == rank (or
// -1 counting from an already extended shape) appends the new axis at the
// end.
func ExpandDims(operand shapes.Shape, axis int) (output shapes.Shape, err error) {
	normalized, err := AdjustAxisToRank(axis, operand.Rank()+1)
	if err != nil {
		return shapes.Invalid(), errors.WithMessagef(err, "for ExpandDims(%s)", operand)
	}
	newDims := slices.Insert(slices.Clone(operand.Dimensions), normalized, 1)
	return shapes.Make(operand.DType, newDims...), nil
}

// Squeeze returns the operand shape with the given axes removed. Every
// squeezed axis must have size 1. An empty axes list removes all size-1 axes.
func Squeeze(operand shapes.Shape, axes ...int) (output shapes.Shape, err error) {
	if len(axes) == 0 {
		newDims := make([]int, 0, operand.Rank())
		for _, dim := range operand.Dimensions {
			if dim != 1 {
				newDims = append(newDims, dim)
			}
		}
		return shapes.Make(operand.DType, newDims...), nil
	}

	_, axesSet, err := AdjustAxesToRank(axes, operand.Rank())
	if err != nil {
		return shapes.Invalid(), errors.WithMessagef(err, "for Squeeze(%s)", operand)
	}
	newDims := make([]int, 0, operand.Rank()-len(axes))
	for axis, dim := range operand.Dimensions {
		if !axesSet.Has(axis) {
			newDims = append(newDims, dim)
			continue
		}
		if dim != 1 {
			return shapes.Invalid(), errors.Wrapf(types.ErrShapeMismatch,
				"Squeeze axis %d of %s has size %d, only size-1 axes can be squeezed", axis, operand, dim)
		}
	}
	return shapes.Make(operand.DType, newDims...), nil
}

// Concatenate returns the shape resulting from concatenating the inputs along
// the given axis. All inputs must share the same dtype and rank, and match on
// every axis but the concatenation one.
func Concatenate(inputs []shapes.Shape, axis int) (output shapes.Shape, err error) {
	if len(inputs) == 0 {
		return shapes.Invalid(), errors.Wrapf(types.ErrShapeMismatch, "Concatenate requires at least one input")
	}

	first := inputs[0]
	rank := first.Rank()
	if !first.Ok() {
		return shapes.Invalid(), errors.Wrapf(types.ErrShapeMismatch, "invalid shape %s for input #0 of Concatenate", first)
	}
	normalized, err := AdjustAxisToRank(axis, rank)
	if err != nil {
		return shapes.Invalid(), errors.WithMessagef(err, "for Concatenate over shapes of rank %d", rank)
	}

	output = first.Clone()
	for i := 1; i < len(inputs); i++ {
		current := inputs[i]
		if current.DType != first.DType {
			return shapes.Invalid(), errors.Wrapf(types.ErrIncompatibleDType,
				"mismatched dtypes for Concatenate: input #0 has %s, input #%d has %s",
				first.DType, i, current.DType)
		}
		if current.Rank() != rank {
			return shapes.Invalid(), errors.Wrapf(types.ErrShapeMismatch,
				"mismatched ranks for Concatenate: input #0 has rank %d, input #%d has rank %d",
				rank, i, current.Rank())
		}
		for d := range rank {
			if d == normalized {
				output.Dimensions[d] += current.Dimensions[d]
			} else if current.Dimensions[d] != first.Dimensions[d] {
				return shapes.Invalid(), errors.Wrapf(types.ErrShapeMismatch,
					"Concatenate inputs must match on all axes but the concatenation one (%d): input #0 has shape %s, input #%d has shape %s",
					normalized, first, i, current)
			}
		}
	}
	return output, nil
}

// Stack returns the shape resulting from joining the inputs along a new axis
// at the given position. All inputs must have identical shapes and dtypes.
// The axis is normalized against rank+1.
func Stack(inputs []shapes.Shape, axis int) (output shapes.Shape, err error) {
	if len(inputs) == 0 {
		return shapes.Invalid(), errors.Wrapf(types.ErrShapeMismatch, "Stack requires at least one input")
	}
	first := inputs[0]
	for i := 1; i < len(inputs); i++ {
		if !inputs[i].Equal(first) {
			return shapes.Invalid(), errors.Wrapf(types.ErrShapeMismatch,
				"Stack inputs must all have the same shape: input #0 has %s, input #%d has %s",
				first, i, inputs[i])
		}
	}
	normalized, err := AdjustAxisToRank(axis, first.Rank()+1)
	if err != nil {
		return shapes.Invalid(), errors.WithMessagef(err, "for Stack over shapes %s", first)
	}
	newDims := slices.Insert(slices.Clone(first.Dimensions), normalized, len(inputs))
	return shapes.Make(first.DType, newDims...), nil
}

// Flip checks the axes to reverse and returns the normalized axes. The output
// shape is unchanged. An empty axes list means every axis.
func Flip(operand shapes.Shape, axes ...int) (normalized []int, err error) {
	if len(axes) == 0 {
		normalized = make([]int, operand.Rank())
		for axis := range normalized {
			normalized[axis] = axis
		}
		return normalized, nil
	}
	normalized, _, err = AdjustAxesToRank(axes, operand.Rank())
	if err != nil {
		return nil, errors.WithMessagef(err, "for Flip(%s)", operand)
	}
	return normalized, nil
}

// Reshape returns the operand reshaped to the given dimensions, keeping the
// dtype. At most one dimension may be -1, in which case it is inferred from
// the operand size. The total number of elements must be preserved.
func Reshape(operand shapes.Shape, dimensions ...int) (output shapes.Shape, err error) {
	newDims := slices.Clone(dimensions)
	inferred := -1
	knownSize := 1
	for axis, dim := range newDims {
		if dim == -1 {
			if inferred >= 0 {
				return shapes.Invalid(), errors.Wrapf(types.ErrShapeMismatch,
					"Reshape accepts at most one -1 dimension, got %v", dimensions)
			}
			inferred = axis
			continue
		}
		if dim < 0 {
			return shapes.Invalid(), errors.Wrapf(types.ErrShapeMismatch,
				"Reshape dimensions must be non-negative (or -1 to infer), got %v", dimensions)
		}
		knownSize *= dim
	}
	size := operand.Size()
	if inferred >= 0 {
		if knownSize == 0 || size%knownSize != 0 {
			return shapes.Invalid(), errors.Wrapf(types.ErrShapeMismatch,
				"cannot infer the -1 dimension of Reshape(%s, %v)", operand, dimensions)
		}
		newDims[inferred] = size / knownSize
		knownSize = size
	}
	if knownSize != size {
		return shapes.Invalid(), errors.Wrapf(types.ErrShapeMismatch,
			"Reshape(%s, %v) would change the number of elements from %d to %d",
			operand, dimensions, size, knownSize)
	}
	return shapes.Make(operand.DType, newDims...), nil
}

// BroadcastTo checks that the operand can be broadcast to the target
// dimensions and returns the resulting shape. Broadcasting follows the usual
// right-aligned rules, but the target rank must be >= the operand rank and
// size-1 target axes cannot shrink larger operand axes.
func BroadcastTo(operand shapes.Shape, dimensions ...int) (output shapes.Shape, err error) {
	if len(dimensions) < operand.Rank() {
		return shapes.Invalid(), errors.Wrapf(types.ErrBroadcast,
			"cannot broadcast %s to the lower rank shape %v", operand, dimensions)
	}
	offset := len(dimensions) - operand.Rank()
	for axis, dim := range operand.Dimensions {
		target := dimensions[offset+axis]
		if dim != target && dim != 1 {
			return shapes.Invalid(), errors.Wrapf(types.ErrBroadcast,
				"cannot broadcast axis %d of %s (size %d) to size %d", axis, operand, dim, target)
		}
	}
	return shapes.Make(operand.DType, dimensions...), nil
}
