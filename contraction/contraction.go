// Package contraction computes tensor contractions (matmul, tensordot and
// vecdot) over element streams.
//
// The engine consumes read-only types.Array views and materializes a
// *types.Result. Output shapes and normalized axes come from the
// shapeinference package; the output dtype is resolved by the caller
// (normally through the promotion package) and passed in. Sums of products
// are accumulated in the widest type of the output's kind (int64, uint64,
// float64 or complex128) and cast to the output dtype once per element.
package contraction

import (
	"math/cmplx"
	"slices"

	"github.com/gomlx/arrayapi/internal/parallel"
	"github.com/gomlx/arrayapi/internal/utils"
	"github.com/gomlx/arrayapi/shapeinference"
	"github.com/gomlx/arrayapi/types"
	"github.com/gomlx/arrayapi/types/shapes"
	"github.com/gomlx/gopjrt/dtypes"
	"github.com/pkg/errors"
)

// Options configure the engine.
type Options struct {
	Parallel parallel.Config
}

// checkOperands rejects non-numeric operands and incompatible placements,
// returning the output device.
func checkOperands(name string, lhs, rhs types.Array) (device types.Device, err error) {
	for _, operand := range []types.Array{lhs, rhs} {
		dtype := operand.Shape().DType
		if dtype == dtypes.Bool || types.KindOf(dtype) == types.KindInvalid {
			return nil, errors.Wrapf(types.ErrIncompatibleDType,
				"%s requires numeric operands, got %s", name, operand.Shape())
		}
	}
	if !types.SameDevice(lhs.Device(), rhs.Device()) {
		return nil, errors.Wrapf(types.ErrDeviceMismatch,
			"%s operands are placed on different devices: %v and %v", name, lhs.Device(), rhs.Device())
	}
	return types.CommonDevice(lhs.Device(), rhs.Device()), nil
}

// MatMul computes the (possibly batched) matrix product of lhs by rhs,
// materialized with the given output dtype. See shapeinference.MatMul for
// the shape rules. Complex operands are not conjugated.
func MatMul(lhs, rhs types.Array, outputDType dtypes.DType, opts Options) (*types.Result, error) {
	device, err := checkOperands("MatMul", lhs, rhs)
	if err != nil {
		return nil, err
	}
	outputShape, err := shapeinference.MatMul(lhs.Shape(), rhs.Shape(), outputDType)
	if err != nil {
		return nil, err
	}

	lhsDims := lhs.Shape().Dimensions
	rhsDims := rhs.Shape().Dimensions
	if len(lhsDims) == 1 {
		lhsDims = []int{1, lhsDims[0]}
	}
	if len(rhsDims) == 1 {
		rhsDims = []int{rhsDims[0], 1}
	}
	contractSize := lhsDims[len(lhsDims)-1]
	rowCount := lhsDims[len(lhsDims)-2]
	colCount := rhsDims[len(rhsDims)-1]

	batch, err := shapeinference.BroadcastShapes(
		shapes.Shape{Dimensions: lhsDims[:len(lhsDims)-2]},
		shapes.Shape{Dimensions: rhsDims[:len(rhsDims)-2]})
	if err != nil {
		return nil, err
	}
	batchDims := batch.Dimensions

	lhsStrides := utils.Strides(lhsDims)
	rhsStrides := utils.Strides(rhsDims)
	lhsBatchStrides := alignStrides(lhsDims[:len(lhsDims)-2], lhsStrides, batchDims)
	rhsBatchStrides := alignStrides(rhsDims[:len(rhsDims)-2], rhsStrides, batchDims)
	lhsRowStride := lhsStrides[len(lhsStrides)-2]
	lhsContractStride := lhsStrides[len(lhsStrides)-1]
	rhsContractStride := rhsStrides[len(rhsStrides)-2]
	rhsColStride := rhsStrides[len(rhsStrides)-1]

	lhsVals := lhs.Values()
	rhsVals := rhs.Values()
	values := make([]types.Scalar, outputShape.Size())
	parallel.For(len(values), func(flat int) {
		batchIndex := flat / (rowCount * colCount)
		matrixIndex := flat % (rowCount * colCount)
		row := matrixIndex / colCount
		col := matrixIndex % colCount

		batchIndices := make([]int, len(batchDims))
		utils.UnflattenIndex(batchIndex, batchDims, batchIndices)
		lhsBase := utils.FlattenIndex(batchIndices, lhsBatchStrides) + row*lhsRowStride
		rhsBase := utils.FlattenIndex(batchIndices, rhsBatchStrides) + col*rhsColStride
		values[flat] = sumProducts(lhsVals, rhsVals,
			func(k int) int { return lhsBase + k*lhsContractStride },
			func(k int) int { return rhsBase + k*rhsContractStride },
			contractSize, outputDType, false)
	}, opts.Parallel)
	return types.NewResult(outputShape, device, values), nil
}

// TensorDot contracts the last n axes of lhs against the first n axes of
// rhs, pairwise in order. n = 0 computes the outer product.
func TensorDot(lhs, rhs types.Array, n int, outputDType dtypes.DType, opts Options) (*types.Result, error) {
	if n < 0 {
		return nil, errors.Wrapf(types.ErrInvalidAxis, "TensorDot axes count must be non-negative, got %d", n)
	}
	if n > lhs.Shape().Rank() || n > rhs.Shape().Rank() {
		return nil, errors.Wrapf(types.ErrInvalidAxis,
			"TensorDot cannot contract %d axes of operands with shapes %s and %s", n, lhs.Shape(), rhs.Shape())
	}
	lhsAxes := make([]int, n)
	rhsAxes := make([]int, n)
	for i := range n {
		lhsAxes[i] = lhs.Shape().Rank() - n + i
		rhsAxes[i] = i
	}
	return TensorDotAxes(lhs, rhs, lhsAxes, rhsAxes, outputDType, opts)
}

// TensorDotAxes contracts explicitly paired axes: lhsAxes[i] of lhs against
// rhsAxes[i] of rhs. Contracted axes are never broadcast. The output's axes
// are the free axes of lhs, in order, then the free axes of rhs.
func TensorDotAxes(lhs, rhs types.Array, lhsAxes, rhsAxes []int, outputDType dtypes.DType, opts Options) (*types.Result, error) {
	device, err := checkOperands("TensorDot", lhs, rhs)
	if err != nil {
		return nil, err
	}
	lhsAxes = slices.Clone(lhsAxes)
	rhsAxes = slices.Clone(rhsAxes)
	outputShape, err := shapeinference.TensorDotAxes(lhs.Shape(), rhs.Shape(), lhsAxes, rhsAxes, outputDType)
	if err != nil {
		return nil, err
	}

	lhsDims := lhs.Shape().Dimensions
	rhsDims := rhs.Shape().Dimensions
	lhsStrides := utils.Strides(lhsDims)
	rhsStrides := utils.Strides(rhsDims)

	// Strides of each operand aligned to the output multi-index, zero on the
	// axes the operand does not own.
	outputRank := outputShape.Rank()
	lhsOutputStrides := make([]int, outputRank)
	rhsOutputStrides := make([]int, outputRank)
	outputAxis := 0
	for axis := range lhsDims {
		if !slices.Contains(lhsAxes, axis) {
			lhsOutputStrides[outputAxis] = lhsStrides[axis]
			outputAxis++
		}
	}
	for axis := range rhsDims {
		if !slices.Contains(rhsAxes, axis) {
			rhsOutputStrides[outputAxis] = rhsStrides[axis]
			outputAxis++
		}
	}

	contractDims := make([]int, len(lhsAxes))
	lhsContractStrides := make([]int, len(lhsAxes))
	rhsContractStrides := make([]int, len(lhsAxes))
	contractSize := 1
	for i, lhsAxis := range lhsAxes {
		contractDims[i] = lhsDims[lhsAxis]
		lhsContractStrides[i] = lhsStrides[lhsAxis]
		rhsContractStrides[i] = rhsStrides[rhsAxes[i]]
		contractSize *= contractDims[i]
	}

	lhsVals := lhs.Values()
	rhsVals := rhs.Values()
	outputDims := outputShape.Dimensions
	values := make([]types.Scalar, outputShape.Size())
	parallel.For(len(values), func(flat int) {
		outputIndices := make([]int, outputRank)
		utils.UnflattenIndex(flat, outputDims, outputIndices)
		lhsBase := utils.FlattenIndex(outputIndices, lhsOutputStrides)
		rhsBase := utils.FlattenIndex(outputIndices, rhsOutputStrides)

		contractIndices := make([]int, len(contractDims))
		values[flat] = sumProducts(lhsVals, rhsVals,
			func(k int) int {
				utils.UnflattenIndex(k, contractDims, contractIndices)
				return lhsBase + utils.FlattenIndex(contractIndices, lhsContractStrides)
			},
			func(k int) int {
				utils.UnflattenIndex(k, contractDims, contractIndices)
				return rhsBase + utils.FlattenIndex(contractIndices, rhsContractStrides)
			},
			contractSize, outputDType, false)
	}, opts.Parallel)
	return types.NewResult(outputShape, device, values), nil
}

// VecDot computes the vector dot product over the given axis: the sum over
// the contracted axis of conj(lhs_i) * rhs_i, with conjugation applied to
// the lhs only (a no-op for real operands). All other axes broadcast.
func VecDot(lhs, rhs types.Array, axis int, outputDType dtypes.DType, opts Options) (*types.Result, error) {
	device, err := checkOperands("VecDot", lhs, rhs)
	if err != nil {
		return nil, err
	}
	outputShape, lhsAxis, rhsAxis, err := shapeinference.VecDot(lhs.Shape(), rhs.Shape(), axis, outputDType)
	if err != nil {
		return nil, err
	}

	lhsDims := lhs.Shape().Dimensions
	rhsDims := rhs.Shape().Dimensions
	lhsStrides := utils.Strides(lhsDims)
	rhsStrides := utils.Strides(rhsDims)
	contractSize := lhsDims[lhsAxis]
	lhsContractStride := lhsStrides[lhsAxis]
	rhsContractStride := rhsStrides[rhsAxis]

	lhsFreeDims := slices.Delete(slices.Clone(lhsDims), lhsAxis, lhsAxis+1)
	lhsFreeStrides := slices.Delete(slices.Clone(lhsStrides), lhsAxis, lhsAxis+1)
	rhsFreeDims := slices.Delete(slices.Clone(rhsDims), rhsAxis, rhsAxis+1)
	rhsFreeStrides := slices.Delete(slices.Clone(rhsStrides), rhsAxis, rhsAxis+1)

	outputDims := outputShape.Dimensions
	lhsOutputStrides := alignStrides(lhsFreeDims, lhsFreeStrides, outputDims)
	rhsOutputStrides := alignStrides(rhsFreeDims, rhsFreeStrides, outputDims)

	lhsVals := lhs.Values()
	rhsVals := rhs.Values()
	values := make([]types.Scalar, outputShape.Size())
	parallel.For(len(values), func(flat int) {
		outputIndices := make([]int, len(outputDims))
		utils.UnflattenIndex(flat, outputDims, outputIndices)
		lhsBase := utils.FlattenIndex(outputIndices, lhsOutputStrides)
		rhsBase := utils.FlattenIndex(outputIndices, rhsOutputStrides)
		values[flat] = sumProducts(lhsVals, rhsVals,
			func(k int) int { return lhsBase + k*lhsContractStride },
			func(k int) int { return rhsBase + k*rhsContractStride },
			contractSize, outputDType, true)
	}, opts.Parallel)
	return types.NewResult(outputShape, device, values), nil
}

// alignStrides right-aligns the strides of the given dims to targetDims,
// with stride 0 on axes the operand broadcasts over.
func alignStrides(dims, strides, targetDims []int) []int {
	aligned := make([]int, len(targetDims))
	offset := len(targetDims) - len(dims)
	for axis := range dims {
		if dims[axis] != 1 {
			aligned[offset+axis] = strides[axis]
		}
	}
	return aligned
}

// sumProducts accumulates sum over k of lhs[lhsAt(k)] * rhs[rhsAt(k)] in the
// widest type of the output dtype's kind, then casts once.
func sumProducts(lhsVals, rhsVals types.ElementStream, lhsAt, rhsAt func(k int) int,
	count int, outputDType dtypes.DType, conjugateLhs bool) types.Scalar {
	switch types.KindOf(outputDType) {
	case types.KindComplex:
		var acc complex128
		for k := range count {
			a := lhsVals.At(lhsAt(k)).AsComplex128()
			if conjugateLhs {
				a = cmplx.Conj(a)
			}
			acc += a * rhsVals.At(rhsAt(k)).AsComplex128()
		}
		return types.FromComplex(outputDType, acc)

	case types.KindFloat:
		var acc float64
		for k := range count {
			acc += lhsVals.At(lhsAt(k)).AsFloat64() * rhsVals.At(rhsAt(k)).AsFloat64()
		}
		return types.FromFloat(outputDType, acc)

	default: // Integer output implies integer operands.
		if outputDType.IsUnsigned() {
			var acc uint64
			for k := range count {
				acc += scalarUint(lhsVals.At(lhsAt(k))) * scalarUint(rhsVals.At(rhsAt(k)))
			}
			out, _ := types.FromUint(dtypes.Uint64, acc).Cast(outputDType, types.CastWrap)
			return out
		}
		var acc int64
		for k := range count {
			acc += scalarInt(lhsVals.At(lhsAt(k))) * scalarInt(rhsVals.At(rhsAt(k)))
		}
		out, _ := types.FromInt(dtypes.Int64, acc).Cast(outputDType, types.CastWrap)
		return out
	}
}

func scalarInt(s types.Scalar) int64 {
	if s.DType.IsUnsigned() {
		return int64(s.Uint)
	}
	return s.Int
}

func scalarUint(s types.Scalar) uint64 {
	if s.DType.IsUnsigned() {
		return s.Uint
	}
	return uint64(s.Int)
}
