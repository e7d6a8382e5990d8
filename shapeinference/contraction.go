package shapeinference

import (
	"slices"

	"github.com/gomlx/arrayapi/types"
	"github.com/gomlx/arrayapi/types/shapes"
	"github.com/gomlx/gopjrt/dtypes"
	"github.com/pkg/errors"
)

// MatMul returns the output shape of a (possibly batched) matrix product of
// lhs by rhs, with the given output dtype (resolved by the caller through the
// promotion package).
//
// Both operands must have rank >= 1. A rank-1 lhs of length M is promoted to
// a (1, M) matrix and a rank-1 rhs of length N to an (N, 1) matrix; axes
// inserted by this promotion are removed from the output. Leading (batch)
// axes are broadcast; the contraction dimension -- last axis of lhs against
// second-to-last of rhs -- must match exactly.
func MatMul(lhs, rhs shapes.Shape, outputDType dtypes.DType) (output shapes.Shape, err error) {
	if lhs.Rank() == 0 || rhs.Rank() == 0 {
		return shapes.Invalid(), errors.Wrapf(types.ErrShapeMismatch,
			"MatMul requires operands of rank >= 1, got %s and %s", lhs, rhs)
	}
	lhsDims := lhs.Dimensions
	rhsDims := rhs.Dimensions
	lhsIsVector := lhs.Rank() == 1
	rhsIsVector := rhs.Rank() == 1
	if lhsIsVector {
		lhsDims = []int{1, lhsDims[0]}
	}
	if rhsIsVector {
		rhsDims = []int{rhsDims[0], 1}
	}

	contractDim := lhsDims[len(lhsDims)-1]
	if contractDim != rhsDims[len(rhsDims)-2] {
		return shapes.Invalid(), errors.Wrapf(types.ErrShapeMismatch,
			"MatMul contraction dimensions don't match: lhs %s has %d columns, rhs %s has %d rows",
			lhs, contractDim, rhs, rhsDims[len(rhsDims)-2])
	}

	batch, err := BroadcastShapes(
		shapes.Shape{Dimensions: lhsDims[:len(lhsDims)-2]},
		shapes.Shape{Dimensions: rhsDims[:len(rhsDims)-2]})
	if err != nil {
		return shapes.Invalid(), errors.WithMessagef(err, "while broadcasting the batch axes of MatMul(%s, %s)", lhs, rhs)
	}

	outputDims := slices.Clone(batch.Dimensions)
	if !lhsIsVector {
		outputDims = append(outputDims, lhsDims[len(lhsDims)-2])
	}
	if !rhsIsVector {
		outputDims = append(outputDims, rhsDims[len(rhsDims)-1])
	}
	return shapes.Make(outputDType, outputDims...), nil
}

// TensorDot returns the output shape of the tensor contraction of the last
// n axes of lhs against the first n axes of rhs, pairwise in order.
// n = 0 yields the outer product.
func TensorDot(lhs, rhs shapes.Shape, n int, outputDType dtypes.DType) (output shapes.Shape, err error) {
	if n < 0 {
		return shapes.Invalid(), errors.Wrapf(types.ErrInvalidAxis,
			"TensorDot axes count must be non-negative, got %d", n)
	}
	if n > lhs.Rank() || n > rhs.Rank() {
		return shapes.Invalid(), errors.Wrapf(types.ErrInvalidAxis,
			"TensorDot cannot contract %d axes of operands with shapes %s and %s", n, lhs, rhs)
	}
	lhsAxes := make([]int, n)
	rhsAxes := make([]int, n)
	for i := range n {
		lhsAxes[i] = lhs.Rank() - n + i
		rhsAxes[i] = i
	}
	return TensorDotAxes(lhs, rhs, lhsAxes, rhsAxes, outputDType)
}

// TensorDotAxes returns the output shape of the tensor contraction of
// explicitly paired axes: lhsAxes[i] of lhs is contracted against rhsAxes[i]
// of rhs. Contracted axes are never broadcast: each pair must have exactly
// equal sizes. The output shape is the non-contracted axes of lhs, in their
// original order, followed by the non-contracted axes of rhs.
//
// As a side effect, negative axes in lhsAxes and rhsAxes are replaced in
// place by their non-negative equivalents.
func TensorDotAxes(lhs, rhs shapes.Shape, lhsAxes, rhsAxes []int, outputDType dtypes.DType) (output shapes.Shape, err error) {
	if len(lhsAxes) != len(rhsAxes) {
		return shapes.Invalid(), errors.Wrapf(types.ErrShapeMismatch,
			"TensorDot axes sequences must have the same length, got %d for lhs and %d for rhs",
			len(lhsAxes), len(rhsAxes))
	}

	lhsNormalized, lhsSet, err := AdjustAxesToRank(lhsAxes, lhs.Rank())
	if err != nil {
		return shapes.Invalid(), errors.WithMessagef(err, "for the lhs operand %s of TensorDot", lhs)
	}
	rhsNormalized, rhsSet, err := AdjustAxesToRank(rhsAxes, rhs.Rank())
	if err != nil {
		return shapes.Invalid(), errors.WithMessagef(err, "for the rhs operand %s of TensorDot", rhs)
	}
	copy(lhsAxes, lhsNormalized)
	copy(rhsAxes, rhsNormalized)

	for i, lhsAxis := range lhsAxes {
		rhsAxis := rhsAxes[i]
		if lhs.Dimensions[lhsAxis] != rhs.Dimensions[rhsAxis] {
			return shapes.Invalid(), errors.Wrapf(types.ErrShapeMismatch,
				"TensorDot contracted dimensions don't match: lhs[%d]=%d != rhs[%d]=%d",
				lhsAxis, lhs.Dimensions[lhsAxis], rhsAxis, rhs.Dimensions[rhsAxis])
		}
	}

	outputDims := make([]int, 0, lhs.Rank()+rhs.Rank()-2*len(lhsAxes))
	for axis, dim := range lhs.Dimensions {
		if !lhsSet.Has(axis) {
			outputDims = append(outputDims, dim)
		}
	}
	for axis, dim := range rhs.Dimensions {
		if !rhsSet.Has(axis) {
			outputDims = append(outputDims, dim)
		}
	}
	return shapes.Make(outputDType, outputDims...), nil
}

// VecDot returns the output shape of the vector dot product of lhs and rhs
// over the given axis, plus the normalized per-operand axes.
//
// The axis is normalized against the smaller of the two ranks and identifies
// the same right-aligned logical axis in both operands, whose sizes must
// match exactly (the contracted axis is never broadcast). All other axes are
// broadcast; the output has one fewer axis than the broadcast result, or
// rank 0 when both operands are rank-1.
func VecDot(lhs, rhs shapes.Shape, axis int, outputDType dtypes.DType) (output shapes.Shape, lhsAxis, rhsAxis int, err error) {
	if lhs.Rank() == 0 || rhs.Rank() == 0 {
		return shapes.Invalid(), -1, -1, errors.Wrapf(types.ErrShapeMismatch,
			"VecDot requires operands of rank >= 1, got %s and %s", lhs, rhs)
	}
	minRank := min(lhs.Rank(), rhs.Rank())
	normalized, err := AdjustAxisToRank(axis, minRank)
	if err != nil {
		return shapes.Invalid(), -1, -1, errors.WithMessagef(err, "for VecDot over operands %s and %s", lhs, rhs)
	}
	// The axis counts from the end so it lands on the same logical axis in
	// operands of different ranks.
	offset := minRank - normalized
	lhsAxis = lhs.Rank() - offset
	rhsAxis = rhs.Rank() - offset
	if lhs.Dimensions[lhsAxis] != rhs.Dimensions[rhsAxis] {
		return shapes.Invalid(), -1, -1, errors.Wrapf(types.ErrShapeMismatch,
			"VecDot contracted axis sizes don't match: lhs[%d]=%d != rhs[%d]=%d",
			lhsAxis, lhs.Dimensions[lhsAxis], rhsAxis, rhs.Dimensions[rhsAxis])
	}

	lhsFree := slices.Delete(slices.Clone(lhs.Dimensions), lhsAxis, lhsAxis+1)
	rhsFree := slices.Delete(slices.Clone(rhs.Dimensions), rhsAxis, rhsAxis+1)
	broadcast, err := BroadcastShapes(
		shapes.Shape{Dimensions: lhsFree}, shapes.Shape{Dimensions: rhsFree})
	if err != nil {
		return shapes.Invalid(), -1, -1, errors.WithMessagef(err, "while broadcasting the free axes of VecDot(%s, %s)", lhs, rhs)
	}
	return shapes.Make(outputDType, broadcast.Dimensions...), lhsAxis, rhsAxis, nil
}
