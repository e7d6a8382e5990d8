package shapeinference

import (
	"slices"

	"github.com/gomlx/arrayapi/types"
	"github.com/gomlx/arrayapi/types/shapes"
	"github.com/gomlx/gopjrt/dtypes"
	"github.com/pkg/errors"
)

// ArgMinMax returns the output shape of an argmin or argmax reduction over
// the given axis, plus the normalized axis. keepDims keeps the reduced axis
// with size 1 instead of removing it.
func ArgMinMax(operand shapes.Shape, axis int, keepDims bool, outputDType dtypes.DType) (output shapes.Shape, normalized int, err error) {
	if !outputDType.IsInt() {
		return shapes.Invalid(), -1, errors.Wrapf(types.ErrIncompatibleDType,
			"ArgMinMax output dtype must be an integer type, got %s", outputDType)
	}
	if operand.DType.IsComplex() || operand.DType == dtypes.Bool {
		return shapes.Invalid(), -1, errors.Wrapf(types.ErrIncompatibleDType,
			"ArgMinMax requires a real numeric operand, got %s", operand)
	}
	if operand.IsScalar() {
		return shapes.Invalid(), -1, errors.Wrapf(types.ErrShapeMismatch,
			"ArgMinMax requires a non-scalar operand, got %s", operand)
	}
	normalized, err = AdjustAxisToRank(axis, operand.Rank())
	if err != nil {
		return shapes.Invalid(), -1, errors.WithMessagef(err, "for ArgMinMax over %s", operand)
	}
	newDims := slices.Clone(operand.Dimensions)
	if keepDims {
		newDims[normalized] = 1
	} else {
		newDims = slices.Delete(newDims, normalized, normalized+1)
	}
	return shapes.Make(outputDType, newDims...), normalized, nil
}

// Where returns the output shape of an element-wise select: cond must be
// boolean, and cond, onTrue and onFalse broadcast together. The output dtype
// (resolved by the caller through the promotion package) is taken from
// onTrue and onFalse only.
func Where(cond, onTrue, onFalse shapes.Shape, outputDType dtypes.DType) (output shapes.Shape, err error) {
	if cond.DType != dtypes.Bool {
		return shapes.Invalid(), errors.Wrapf(types.ErrIncompatibleDType,
			"Where condition must be boolean, got %s", cond)
	}
	output, err = BroadcastAll(cond, onTrue, onFalse)
	if err != nil {
		return shapes.Invalid(), errors.WithMessagef(err, "while broadcasting the operands of Where")
	}
	output.DType = outputDType
	return output, nil
}
