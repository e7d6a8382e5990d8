package arrayapi

import (
	"github.com/gomlx/arrayapi/contraction"
	"github.com/gomlx/arrayapi/promotion"
	"github.com/gomlx/arrayapi/shapeinference"
	"github.com/gomlx/arrayapi/types"
	"github.com/pkg/errors"
)

func (ns *Namespace) contractionOptions() contraction.Options {
	return contraction.Options{Parallel: ns.parallel}
}

// MatMul computes the matrix product of x1 by x2, batched over any leading
// axes. Rank-1 operands are treated as rows (x1) or columns (x2), with the
// promoted axis dropped from the result. The output dtype is the promotion
// of the operands' dtypes.
func (ns *Namespace) MatMul(x1, x2 types.Array) (*types.Result, error) {
	dtype, err := promotion.Promote(x1.Shape().DType, x2.Shape().DType)
	if err != nil {
		return nil, err
	}
	return contraction.MatMul(x1, x2, dtype, ns.contractionOptions())
}

// MatrixTranspose swaps the trailing two axes of x.
func (ns *Namespace) MatrixTranspose(x types.Array) (*types.Result, error) {
	shape, err := shapeinference.MatrixTranspose(x.Shape())
	if err != nil {
		return nil, err
	}
	dims := x.Shape().Dimensions
	rank := len(dims)
	numRows := dims[rank-2]
	numCols := dims[rank-1]
	stream := x.Values()
	values := make([]types.Scalar, stream.Len())
	matrixSize := numRows * numCols
	for flat := range values {
		base := flat - flat%matrixSize
		matrixIndex := flat % matrixSize
		row := matrixIndex / numRows
		col := matrixIndex % numRows
		values[flat] = stream.At(base + col*numCols + row)
	}
	return types.NewResult(shape, x.Device(), values), nil
}

// TensorDot contracts the last n axes of x1 against the first n axes of x2.
// n = 0 computes the outer product. The output dtype is the promotion of
// the operands' dtypes.
func (ns *Namespace) TensorDot(x1, x2 types.Array, n int) (*types.Result, error) {
	dtype, err := promotion.Promote(x1.Shape().DType, x2.Shape().DType)
	if err != nil {
		return nil, err
	}
	return contraction.TensorDot(x1, x2, n, dtype, ns.contractionOptions())
}

// TensorDotAxes contracts explicitly paired axes of x1 and x2.
func (ns *Namespace) TensorDotAxes(x1, x2 types.Array, x1Axes, x2Axes []int) (*types.Result, error) {
	dtype, err := promotion.Promote(x1.Shape().DType, x2.Shape().DType)
	if err != nil {
		return nil, err
	}
	return contraction.TensorDotAxes(x1, x2, x1Axes, x2Axes, dtype, ns.contractionOptions())
}

// VecDot computes the vector dot product over the given axis, conjugating
// the first operand's elements when complex.
func (ns *Namespace) VecDot(x1, x2 types.Array, axis int) (*types.Result, error) {
	dtype, err := promotion.Promote(x1.Shape().DType, x2.Shape().DType)
	if err != nil {
		return nil, err
	}
	return contraction.VecDot(x1, x2, axis, dtype, ns.contractionOptions())
}

// Gather reconstructs values by index: it returns an array shaped like
// indices whose elements are x's flattened elements at each (integer)
// index. Indices are not bounds-normalized: they must be in [0, size).
func (ns *Namespace) Gather(x, indices types.Array) (*types.Result, error) {
	if !indices.Shape().DType.IsInt() {
		return nil, errors.Wrapf(types.ErrIncompatibleDType,
			"Gather indices must be integers, got %s", indices.Shape())
	}
	if !types.SameDevice(x.Device(), indices.Device()) {
		return nil, errors.Wrapf(types.ErrDeviceMismatch,
			"Gather operands are placed on different devices: %v and %v", x.Device(), indices.Device())
	}
	stream := x.Values()
	size := stream.Len()
	indexStream := indices.Values()
	values := make([]types.Scalar, indexStream.Len())
	for i := range values {
		index := scalarAsInt(indexStream.At(i))
		if index < 0 || index >= int64(size) {
			return nil, errors.Errorf("Gather index %d out of range for %d elements", index, size)
		}
		values[i] = stream.At(int(index))
	}
	shape := indices.Shape().WithDType(x.Shape().DType)
	return types.NewResult(shape, types.CommonDevice(x.Device(), indices.Device()), values), nil
}
