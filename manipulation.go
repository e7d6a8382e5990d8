package arrayapi

import (
	"slices"

	"github.com/gomlx/arrayapi/internal/utils"
	"github.com/gomlx/arrayapi/promotion"
	"github.com/gomlx/arrayapi/shapeinference"
	"github.com/gomlx/arrayapi/types"
	"github.com/gomlx/arrayapi/types/shapes"
	"github.com/gomlx/gopjrt/dtypes"
	"github.com/pkg/errors"
)

// copyWithShape returns x's elements under a different shape of the same
// size.
func copyWithShape(x types.Array, shape shapes.Shape) *types.Result {
	stream := x.Values()
	values := make([]types.Scalar, stream.Len())
	for i := range values {
		values[i] = stream.At(i)
	}
	return types.NewResult(shape, x.Device(), values)
}

// BroadcastTo returns x broadcast to the given dimensions, materializing
// the repeated elements.
func (ns *Namespace) BroadcastTo(x types.Array, dimensions ...int) (*types.Result, error) {
	shape, err := shapeinference.BroadcastTo(x.Shape(), dimensions...)
	if err != nil {
		return nil, err
	}
	srcStrides := utils.BroadcastStrides(x.Shape().Dimensions, dimensions)
	stream := x.Values()
	values := make([]types.Scalar, shape.Size())
	indices := make([]int, len(dimensions))
	for flat := range values {
		utils.UnflattenIndex(flat, dimensions, indices)
		values[flat] = stream.At(utils.FlattenIndex(indices, srcStrides))
	}
	return types.NewResult(shape, x.Device(), values), nil
}

// BroadcastArrays broadcasts the inputs against each other and returns them
// all with the common shape. Each output keeps its input's dtype and
// device.
func (ns *Namespace) BroadcastArrays(arrays ...types.Array) ([]*types.Result, error) {
	inputShapes := make([]shapes.Shape, len(arrays))
	for i, array := range arrays {
		inputShapes[i] = array.Shape()
	}
	common, err := shapeinference.BroadcastAll(inputShapes...)
	if err != nil {
		return nil, err
	}
	results := make([]*types.Result, len(arrays))
	for i, array := range arrays {
		results[i], err = ns.BroadcastTo(array, common.Dimensions...)
		if err != nil {
			return nil, err
		}
	}
	return results, nil
}

// ExpandDims returns x with a size-1 axis inserted at the given position.
func (ns *Namespace) ExpandDims(x types.Array, axis int) (*types.Result, error) {
	shape, err := shapeinference.ExpandDims(x.Shape(), axis)
	if err != nil {
		return nil, err
	}
	return copyWithShape(x, shape), nil
}

// Squeeze returns x with the given size-1 axes removed, or all size-1 axes
// when none are given.
func (ns *Namespace) Squeeze(x types.Array, axes ...int) (*types.Result, error) {
	shape, err := shapeinference.Squeeze(x.Shape(), axes...)
	if err != nil {
		return nil, err
	}
	return copyWithShape(x, shape), nil
}

// Reshape returns x with the given dimensions; at most one may be -1 and is
// then inferred. The element count is preserved.
func (ns *Namespace) Reshape(x types.Array, dimensions ...int) (*types.Result, error) {
	shape, err := shapeinference.Reshape(x.Shape(), dimensions...)
	if err != nil {
		return nil, err
	}
	return copyWithShape(x, shape), nil
}

// PermuteDims returns x with its axes permuted: output axis i takes input
// axis permutation[i].
func (ns *Namespace) PermuteDims(x types.Array, permutation []int) (*types.Result, error) {
	permutation = slices.Clone(permutation)
	shape, err := shapeinference.PermuteDims(x.Shape(), permutation)
	if err != nil {
		return nil, err
	}
	srcStrides := utils.Strides(x.Shape().Dimensions)
	// Stride of output axis i is the stride of the source axis it takes.
	outStrides := make([]int, len(permutation))
	for axis, srcAxis := range permutation {
		outStrides[axis] = srcStrides[srcAxis]
	}
	stream := x.Values()
	values := make([]types.Scalar, shape.Size())
	indices := make([]int, shape.Rank())
	for flat := range values {
		utils.UnflattenIndex(flat, shape.Dimensions, indices)
		values[flat] = stream.At(utils.FlattenIndex(indices, outStrides))
	}
	return types.NewResult(shape, x.Device(), values), nil
}

// Flip returns x with the element order reversed along the given axes, or
// along every axis when none are given.
func (ns *Namespace) Flip(x types.Array, axes ...int) (*types.Result, error) {
	flipped, err := shapeinference.Flip(x.Shape(), axes...)
	if err != nil {
		return nil, err
	}
	dims := x.Shape().Dimensions
	strides := utils.Strides(dims)
	stream := x.Values()
	values := make([]types.Scalar, stream.Len())
	indices := make([]int, len(dims))
	for flat := range values {
		utils.UnflattenIndex(flat, dims, indices)
		for _, axis := range flipped {
			indices[axis] = dims[axis] - 1 - indices[axis]
		}
		values[flat] = stream.At(utils.FlattenIndex(indices, strides))
	}
	return types.NewResult(x.Shape().Clone(), x.Device(), values), nil
}

// Concat joins the inputs along an existing axis. The inputs' dtypes are
// promoted to a common dtype and must match on every axis but the
// concatenation one.
func (ns *Namespace) Concat(axis int, arrays ...types.Array) (*types.Result, error) {
	if len(arrays) == 0 {
		return nil, errors.Wrapf(types.ErrShapeMismatch, "Concat requires at least one input")
	}
	dtype, device, err := ns.combineInputs("Concat", arrays)
	if err != nil {
		return nil, err
	}
	inputShapes := make([]shapes.Shape, len(arrays))
	for i, array := range arrays {
		inputShapes[i] = array.Shape().WithDType(dtype)
	}
	shape, err := shapeinference.Concatenate(inputShapes, axis)
	if err != nil {
		return nil, err
	}
	normalized, err := shapeinference.AdjustAxisToRank(axis, shape.Rank())
	if err != nil {
		return nil, err
	}

	inner := 1
	for _, dim := range shape.Dimensions[normalized+1:] {
		inner *= dim
	}
	outer := 1
	for _, dim := range shape.Dimensions[:normalized] {
		outer *= dim
	}
	outAxisDim := shape.Dim(normalized)

	values := make([]types.Scalar, shape.Size())
	offset := 0
	for _, array := range arrays {
		stream := array.Values()
		axisDim := array.Shape().Dim(normalized)
		for o := range outer {
			for j := range axisDim {
				for i := range inner {
					element, err := stream.At((o*axisDim+j)*inner + i).Cast(dtype, types.CastWrap)
					if err != nil {
						return nil, err
					}
					values[(o*outAxisDim+offset+j)*inner+i] = element
				}
			}
		}
		offset += axisDim
	}
	return types.NewResult(shape, device, values), nil
}

// Stack joins the inputs along a new axis at the given position. All inputs
// must have identical shapes; dtypes are promoted to a common dtype.
func (ns *Namespace) Stack(axis int, arrays ...types.Array) (*types.Result, error) {
	if len(arrays) == 0 {
		return nil, errors.Wrapf(types.ErrShapeMismatch, "Stack requires at least one input")
	}
	dtype, device, err := ns.combineInputs("Stack", arrays)
	if err != nil {
		return nil, err
	}
	inputShapes := make([]shapes.Shape, len(arrays))
	for i, array := range arrays {
		inputShapes[i] = array.Shape().WithDType(dtype)
	}
	shape, err := shapeinference.Stack(inputShapes, axis)
	if err != nil {
		return nil, err
	}
	normalized, err := shapeinference.AdjustAxisToRank(axis, shape.Rank())
	if err != nil {
		return nil, err
	}

	inputDims := arrays[0].Shape().Dimensions
	inner := 1
	for _, dim := range inputDims[normalized:] {
		inner *= dim
	}
	outer := 1
	for _, dim := range inputDims[:normalized] {
		outer *= dim
	}

	values := make([]types.Scalar, shape.Size())
	for m, array := range arrays {
		stream := array.Values()
		for o := range outer {
			for i := range inner {
				element, err := stream.At(o*inner + i).Cast(dtype, types.CastWrap)
				if err != nil {
					return nil, err
				}
				values[(o*len(arrays)+m)*inner+i] = element
			}
		}
	}
	return types.NewResult(shape, device, values), nil
}

// combineInputs resolves the promoted dtype and the common device of inputs
// joined into a single output.
func (ns *Namespace) combineInputs(name string, arrays []types.Array) (dtype dtypes.DType, device types.Device, err error) {
	inputDTypes := make([]dtypes.DType, len(arrays))
	for i, array := range arrays {
		inputDTypes[i] = array.Shape().DType
		if !types.SameDevice(device, array.Device()) {
			return dtypes.InvalidDType, nil, errors.Wrapf(types.ErrDeviceMismatch,
				"%s inputs are placed on different devices: %v and %v", name, device, array.Device())
		}
		device = types.CommonDevice(device, array.Device())
	}
	dtype, err = promotion.Resolve(inputDTypes...)
	if err != nil {
		return dtypes.InvalidDType, nil, err
	}
	return dtype, device, nil
}
