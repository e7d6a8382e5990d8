package arrayapi

import (
	"github.com/gomlx/arrayapi/internal/utils"
	"github.com/gomlx/arrayapi/promotion"
	"github.com/gomlx/arrayapi/shapeinference"
	"github.com/gomlx/arrayapi/sorting"
	"github.com/gomlx/arrayapi/types"
	"github.com/gomlx/arrayapi/types/shapes"
	"github.com/pkg/errors"
)

// ArgMax returns the index of the maximum value along the given axis, with
// the configured index dtype. Ties resolve to the first occurrence; if a
// NaN is present it wins, mirroring the usual reduction semantics.
func (ns *Namespace) ArgMax(x types.Array, axis int, keepDims bool) (*types.Result, error) {
	return ns.argMinMax(x, axis, keepDims, true)
}

// ArgMin returns the index of the minimum value along the given axis.
// Ties and NaNs behave as in ArgMax.
func (ns *Namespace) ArgMin(x types.Array, axis int, keepDims bool) (*types.Result, error) {
	return ns.argMinMax(x, axis, keepDims, false)
}

func (ns *Namespace) argMinMax(x types.Array, axis int, keepDims, wantMax bool) (*types.Result, error) {
	shape, normalized, err := shapeinference.ArgMinMax(x.Shape(), axis, keepDims, ns.defaults.Index)
	if err != nil {
		return nil, err
	}

	dims := x.Shape().Dimensions
	strides := utils.Strides(dims)
	laneLen := dims[normalized]
	laneStride := strides[normalized]
	inner := laneStride
	outer := 1
	for a := 0; a < normalized; a++ {
		outer *= dims[a]
	}
	if laneLen == 0 {
		return nil, errors.Wrapf(types.ErrShapeMismatch,
			"cannot reduce over the empty axis %d of %s", normalized, x.Shape())
	}

	stream := x.Values()
	values := make([]types.Scalar, shape.Size())
	for l := range outer * inner {
		o, i := l/inner, l%inner
		start := o*laneLen*inner + i
		best := 0
		bestValue := stream.At(start)
		for k := 1; k < laneLen && !bestValue.HasNaN(); k++ {
			value := stream.At(start + k*laneStride)
			if value.HasNaN() {
				best, bestValue = k, value
				break
			}
			c := sorting.Compare(value, bestValue)
			if (wantMax && c > 0) || (!wantMax && c < 0) {
				best, bestValue = k, value
			}
		}
		values[l] = types.FromInt(ns.defaults.Index, int64(best))
	}
	return types.NewResult(shape, x.Device(), values), nil
}

// Where selects elements from x1 where cond is true and from x2 elsewhere.
// The three operands broadcast together; the output dtype is the promotion
// of x1's and x2's dtypes.
func (ns *Namespace) Where(cond, x1, x2 types.Array) (*types.Result, error) {
	dtype, err := promotion.Promote(x1.Shape().DType, x2.Shape().DType)
	if err != nil {
		return nil, err
	}
	shape, err := shapeinference.Where(cond.Shape(), x1.Shape(), x2.Shape(), dtype)
	if err != nil {
		return nil, err
	}
	device := ns.device
	for _, operand := range []types.Array{cond, x1, x2} {
		if !types.SameDevice(device, operand.Device()) {
			return nil, errors.Wrapf(types.ErrDeviceMismatch,
				"Where operands are placed on different devices: %v and %v", device, operand.Device())
		}
		device = types.CommonDevice(device, operand.Device())
	}

	dims := shape.Dimensions
	condStrides := utils.BroadcastStrides(cond.Shape().Dimensions, dims)
	x1Strides := utils.BroadcastStrides(x1.Shape().Dimensions, dims)
	x2Strides := utils.BroadcastStrides(x2.Shape().Dimensions, dims)
	condStream := cond.Values()
	x1Stream := x1.Values()
	x2Stream := x2.Values()

	values := make([]types.Scalar, shape.Size())
	indices := make([]int, len(dims))
	for flat := range values {
		utils.UnflattenIndex(flat, dims, indices)
		var picked types.Scalar
		if condStream.At(utils.FlattenIndex(indices, condStrides)).Bool {
			picked = x1Stream.At(utils.FlattenIndex(indices, x1Strides))
		} else {
			picked = x2Stream.At(utils.FlattenIndex(indices, x2Strides))
		}
		picked, err = picked.Cast(dtype, types.CastWrap)
		if err != nil {
			return nil, err
		}
		values[flat] = picked
	}
	return types.NewResult(shape, device, values), nil
}

// NonZero returns the coordinates of x's non-zero elements as one rank-1
// index array per axis, in row-major scan order. x must have rank >= 1.
func (ns *Namespace) NonZero(x types.Array) ([]*types.Result, error) {
	shape := x.Shape()
	if shape.IsScalar() {
		return nil, errors.Wrapf(types.ErrShapeMismatch,
			"NonZero requires an operand of rank >= 1, got %s", shape)
	}
	stream := x.Values()
	coordinates := make([][]types.Scalar, shape.Rank())
	indices := make([]int, shape.Rank())
	for flat := range stream.Len() {
		if stream.At(flat).IsZero() {
			continue
		}
		utils.UnflattenIndex(flat, shape.Dimensions, indices)
		for axis, index := range indices {
			coordinates[axis] = append(coordinates[axis], types.FromInt(ns.defaults.Index, int64(index)))
		}
	}
	results := make([]*types.Result, shape.Rank())
	for axis, axisCoordinates := range coordinates {
		results[axis] = types.NewResult(
			shapes.Make(ns.defaults.Index, len(axisCoordinates)), x.Device(), axisCoordinates)
	}
	return results, nil
}

// CountNonZero returns the number of non-zero elements of x. Signed zeros
// and complex values with both components zero count as zero.
func (ns *Namespace) CountNonZero(x types.Array) int {
	stream := x.Values()
	count := 0
	for i := range stream.Len() {
		if !stream.At(i).IsZero() {
			count++
		}
	}
	return count
}
