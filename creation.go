package arrayapi

import (
	"math"
	"reflect"

	"github.com/gomlx/arrayapi/internal/utils"
	"github.com/gomlx/arrayapi/types"
	"github.com/gomlx/arrayapi/types/shapes"
	"github.com/gomlx/gopjrt/dtypes"
	"github.com/pkg/errors"
)

// fillScalar builds the scalar of the given dtype holding the (small) value
// v, used for zeros, ones and diagonals.
func fillScalar(dtype dtypes.DType, v float64) types.Scalar {
	switch types.KindOf(dtype) {
	case types.KindBool:
		return types.FromBool(v != 0)
	case types.KindInt:
		if dtype.IsUnsigned() {
			return types.FromUint(dtype, uint64(v))
		}
		return types.FromInt(dtype, int64(v))
	case types.KindComplex:
		return types.FromComplex(dtype, complex(v, 0))
	default:
		return types.FromFloat(dtype, v)
	}
}

// fillResult materializes a shape filled with copies of one scalar.
func (ns *Namespace) fillResult(shape shapes.Shape, device types.Device, fill types.Scalar) *types.Result {
	values := make([]types.Scalar, shape.Size())
	for i := range values {
		values[i] = fill
	}
	return types.NewResult(shape, device, values)
}

// literalDType resolves the dtype for a combination of Go scalar literals:
// the explicit dtype wins when given, otherwise the literals' kinds decide
// through the configured defaults.
func (ns *Namespace) literalDType(dtype dtypes.DType, literals ...types.Scalar) (dtypes.DType, error) {
	if dtype != dtypes.InvalidDType {
		return dtype, nil
	}
	kinds := make([]types.Kind, len(literals))
	for i, literal := range literals {
		kinds[i] = literal.Kind()
	}
	return ns.defaults.ResolveKinds(kinds...)
}

// Arange returns a rank-1 array of evenly spaced values in the half-open
// interval [start, stop), stepping by step. The arguments are Go scalar
// literals (any integer or float type); pass dtypes.InvalidDType to infer
// the dtype from their kinds.
func (ns *Namespace) Arange(start, stop, step any, dtype dtypes.DType) (*types.Result, error) {
	literals := make([]types.Scalar, 3)
	for i, arg := range []any{start, stop, step} {
		literal, err := types.FromGoValue(arg)
		if err != nil {
			return nil, err
		}
		if literal.Kind() == types.KindComplex || literal.Kind() == types.KindBool {
			return nil, errors.Wrapf(types.ErrIncompatibleDType,
				"Arange arguments must be integers or floats, got %s", literal.DType)
		}
		literals[i] = literal
	}
	dtype, err := ns.literalDType(dtype, literals...)
	if err != nil {
		return nil, err
	}

	if literals[2].IsZero() {
		return nil, errors.New("Arange step must be non-zero")
	}

	var values []types.Scalar
	allInts := literals[0].Kind() == types.KindInt && literals[1].Kind() == types.KindInt &&
		literals[2].Kind() == types.KindInt
	if allInts && dtype.IsInt() {
		startInt := scalarAsInt(literals[0])
		stopInt := scalarAsInt(literals[1])
		stepInt := scalarAsInt(literals[2])
		count := intRangeLen(startInt, stopInt, stepInt)
		values = make([]types.Scalar, count)
		for i := range count {
			value, err := types.FromInt(dtypes.Int64, startInt+int64(i)*stepInt).Cast(dtype, ns.castPolicy)
			if err != nil {
				return nil, err
			}
			values[i] = value
		}
	} else {
		startF := literals[0].AsFloat64()
		stopF := literals[1].AsFloat64()
		stepF := literals[2].AsFloat64()
		count := int(math.Ceil((stopF - startF) / stepF))
		if count < 0 {
			count = 0
		}
		values = make([]types.Scalar, count)
		for i := range count {
			value, err := types.FromFloat(dtypes.Float64, startF+float64(i)*stepF).Cast(dtype, ns.castPolicy)
			if err != nil {
				return nil, err
			}
			values[i] = value
		}
	}
	return types.NewResult(shapes.Make(dtype, len(values)), ns.device, values), nil
}

func scalarAsInt(s types.Scalar) int64 {
	if s.DType.IsUnsigned() {
		return int64(s.Uint)
	}
	return s.Int
}

func intRangeLen(start, stop, step int64) int {
	diff := stop - start
	if diff == 0 || (diff > 0) != (step > 0) {
		return 0
	}
	if diff < 0 {
		diff, step = -diff, -step
	}
	return int((diff + step - 1) / step)
}

// Asarray converts a Go value to an array: either an existing types.Array
// (copied) or a scalar / regularly nested slice of scalars. An explicit
// dtype converts the elements under the configured cast policy; otherwise
// the element's Go type decides.
func (ns *Namespace) Asarray(value any, dtype dtypes.DType) (*types.Result, error) {
	if array, ok := value.(types.Array); ok {
		return ns.copyArray(array, dtype)
	}

	shape, err := shapes.FromAnyValue(value)
	if err != nil {
		return nil, err
	}
	values := make([]types.Scalar, 0, shape.Size())
	if err := flattenAnyValue(reflect.ValueOf(value), &values); err != nil {
		return nil, err
	}
	if dtype != dtypes.InvalidDType && dtype != shape.DType {
		for i, v := range values {
			values[i], err = v.Cast(dtype, ns.castPolicy)
			if err != nil {
				return nil, err
			}
		}
		shape = shape.WithDType(dtype)
	}
	return types.NewResult(shape, ns.device, values), nil
}

func (ns *Namespace) copyArray(array types.Array, dtype dtypes.DType) (*types.Result, error) {
	shape := array.Shape().Clone()
	stream := array.Values()
	values := make([]types.Scalar, stream.Len())
	if dtype == dtypes.InvalidDType || dtype == shape.DType {
		for i := range values {
			values[i] = stream.At(i)
		}
	} else {
		var err error
		for i := range values {
			values[i], err = stream.At(i).Cast(dtype, ns.castPolicy)
			if err != nil {
				return nil, err
			}
		}
		shape = shape.WithDType(dtype)
	}
	return types.NewResult(shape, array.Device(), values), nil
}

// flattenAnyValue appends the leaf scalars of a (possibly nested) slice in
// row-major order. The shape must already have been validated by
// shapes.FromAnyValue.
func flattenAnyValue(v reflect.Value, out *[]types.Scalar) error {
	if v.Kind() != reflect.Slice {
		scalar, err := types.FromGoValue(v.Interface())
		if err != nil {
			return err
		}
		*out = append(*out, scalar)
		return nil
	}
	for i := 0; i < v.Len(); i++ {
		if err := flattenAnyValue(v.Index(i), out); err != nil {
			return err
		}
	}
	return nil
}

// Empty returns an uninitialized array descriptor: shape, dtype and device
// only, with no materialized values. Storage allocation belongs to the
// embedding array type.
func (ns *Namespace) Empty(dtype dtypes.DType, dimensions ...int) *types.Result {
	if dtype == dtypes.InvalidDType {
		dtype = ns.defaults.Float
	}
	return types.NewResult(shapes.Make(dtype, dimensions...), ns.device, nil)
}

// EmptyLike is Empty with the shape, dtype and device taken from x.
// An explicit dtype overrides x's.
func (ns *Namespace) EmptyLike(x types.Array, dtype dtypes.DType) *types.Result {
	shape := x.Shape().Clone()
	if dtype != dtypes.InvalidDType {
		shape = shape.WithDType(dtype)
	}
	return types.NewResult(shape, x.Device(), nil)
}

// Eye returns a (numRows, numCols) matrix with ones on the k-th diagonal
// and zeros elsewhere. numCols < 0 means square. k > 0 moves the diagonal
// above the main one, k < 0 below.
func (ns *Namespace) Eye(numRows, numCols, k int, dtype dtypes.DType) (*types.Result, error) {
	if numRows < 0 {
		return nil, errors.Wrapf(types.ErrShapeMismatch, "Eye requires a non-negative number of rows, got %d", numRows)
	}
	if numCols < 0 {
		numCols = numRows
	}
	if dtype == dtypes.InvalidDType {
		dtype = ns.defaults.Float
	}
	zero := fillScalar(dtype, 0)
	one := fillScalar(dtype, 1)
	values := make([]types.Scalar, numRows*numCols)
	for row := range numRows {
		for col := range numCols {
			if col-row == k {
				values[row*numCols+col] = one
			} else {
				values[row*numCols+col] = zero
			}
		}
	}
	return types.NewResult(shapes.Make(dtype, numRows, numCols), ns.device, values), nil
}

// Full returns an array of the given dimensions filled with the fill
// literal. The dtype defaults to the literal's kind mapped through the
// configured defaults; an explicit dtype converts the literal under the
// cast policy.
func (ns *Namespace) Full(fill any, dtype dtypes.DType, dimensions ...int) (*types.Result, error) {
	literal, err := types.FromGoValue(fill)
	if err != nil {
		return nil, err
	}
	dtype, err = ns.literalDType(dtype, literal)
	if err != nil {
		return nil, err
	}
	literal, err = literal.Cast(dtype, ns.castPolicy)
	if err != nil {
		return nil, err
	}
	return ns.fillResult(shapes.Make(dtype, dimensions...), ns.device, literal), nil
}

// FullLike is Full with the shape, dtype and device taken from x.
func (ns *Namespace) FullLike(x types.Array, fill any, dtype dtypes.DType) (*types.Result, error) {
	if dtype == dtypes.InvalidDType {
		dtype = x.Shape().DType
	}
	literal, err := types.FromGoValue(fill)
	if err != nil {
		return nil, err
	}
	literal, err = literal.Cast(dtype, ns.castPolicy)
	if err != nil {
		return nil, err
	}
	return ns.fillResult(x.Shape().WithDType(dtype), x.Device(), literal), nil
}

// Linspace returns num evenly spaced values from start to stop. When
// endpoint is true (the usual case) stop is the last value; otherwise the
// interval is half-open like Arange. The dtype defaults to the configured
// default float.
func (ns *Namespace) Linspace(start, stop float64, num int, endpoint bool, dtype dtypes.DType) (*types.Result, error) {
	if num < 0 {
		return nil, errors.Errorf("Linspace requires a non-negative number of samples, got %d", num)
	}
	if dtype == dtypes.InvalidDType {
		dtype = ns.defaults.Float
	}
	if !dtype.IsFloat() && !dtype.IsComplex() {
		return nil, errors.Wrapf(types.ErrIncompatibleDType, "Linspace dtype must be a float or complex type, got %s", dtype)
	}

	div := num
	if endpoint {
		div = num - 1
	}
	values := make([]types.Scalar, num)
	for i := range num {
		v := start
		if div > 0 {
			v = start + float64(i)*(stop-start)/float64(div)
		}
		// The exact endpoint only applies with at least two samples: a
		// single sample is start, not stop.
		if endpoint && num > 1 && i == num-1 {
			v = stop
		}
		if dtype.IsComplex() {
			values[i] = types.FromComplex(dtype, complex(v, 0))
		} else {
			values[i] = types.FromFloat(dtype, v)
		}
	}
	return types.NewResult(shapes.Make(dtype, num), ns.device, values), nil
}

// MeshgridIndexing selects the axis convention of Meshgrid.
type MeshgridIndexing string

const (
	// MeshgridIJ is matrix ("ij") indexing: output axis i varies with input i.
	MeshgridIJ MeshgridIndexing = "ij"

	// MeshgridXY is cartesian ("xy") indexing: the first two axes are swapped
	// relative to MeshgridIJ.
	MeshgridXY MeshgridIndexing = "xy"
)

// Meshgrid returns coordinate arrays from rank-1 coordinate vectors: output
// i holds input i's values broadcast along every other axis. All outputs
// share the same shape, whose dimensions are the input lengths (with the
// first two swapped under MeshgridXY).
func (ns *Namespace) Meshgrid(indexing MeshgridIndexing, arrays ...types.Array) ([]*types.Result, error) {
	if indexing != MeshgridIJ && indexing != MeshgridXY {
		return nil, errors.Errorf("Meshgrid indexing must be %q or %q, got %q", MeshgridIJ, MeshgridXY, indexing)
	}
	device := ns.device
	dims := make([]int, len(arrays))
	for i, array := range arrays {
		if array.Shape().Rank() != 1 {
			return nil, errors.Wrapf(types.ErrShapeMismatch,
				"Meshgrid requires rank-1 inputs, input #%d has shape %s", i, array.Shape())
		}
		if !types.SameDevice(device, array.Device()) {
			return nil, errors.Wrapf(types.ErrDeviceMismatch,
				"Meshgrid inputs are placed on different devices: %v and %v", device, array.Device())
		}
		device = types.CommonDevice(device, array.Device())
		dims[i] = array.Shape().Dim(0)
	}
	// The axis along which input i varies in the outputs.
	axisOf := func(i int) int { return i }
	if indexing == MeshgridXY && len(arrays) >= 2 {
		dims[0], dims[1] = dims[1], dims[0]
		axisOf = func(i int) int {
			switch i {
			case 0:
				return 1
			case 1:
				return 0
			}
			return i
		}
	}

	size := 1
	for _, dim := range dims {
		size *= dim
	}
	results := make([]*types.Result, len(arrays))
	indices := make([]int, len(dims))
	for i, array := range arrays {
		axis := axisOf(i)
		stream := array.Values()
		values := make([]types.Scalar, size)
		for flat := range size {
			utils.UnflattenIndex(flat, dims, indices)
			values[flat] = stream.At(indices[axis])
		}
		results[i] = types.NewResult(shapes.Make(array.Shape().DType, dims...), device, values)
	}
	return results, nil
}

// Ones returns an array of ones. The dtype defaults to the configured
// default float.
func (ns *Namespace) Ones(dtype dtypes.DType, dimensions ...int) *types.Result {
	if dtype == dtypes.InvalidDType {
		dtype = ns.defaults.Float
	}
	return ns.fillResult(shapes.Make(dtype, dimensions...), ns.device, fillScalar(dtype, 1))
}

// OnesLike is Ones with the shape, dtype and device taken from x.
func (ns *Namespace) OnesLike(x types.Array, dtype dtypes.DType) *types.Result {
	if dtype == dtypes.InvalidDType {
		dtype = x.Shape().DType
	}
	return ns.fillResult(x.Shape().WithDType(dtype), x.Device(), fillScalar(dtype, 1))
}

// Zeros returns an array of zeros. The dtype defaults to the configured
// default float.
func (ns *Namespace) Zeros(dtype dtypes.DType, dimensions ...int) *types.Result {
	if dtype == dtypes.InvalidDType {
		dtype = ns.defaults.Float
	}
	return ns.fillResult(shapes.Make(dtype, dimensions...), ns.device, fillScalar(dtype, 0))
}

// ZerosLike is Zeros with the shape, dtype and device taken from x.
func (ns *Namespace) ZerosLike(x types.Array, dtype dtypes.DType) *types.Result {
	if dtype == dtypes.InvalidDType {
		dtype = x.Shape().DType
	}
	return ns.fillResult(x.Shape().WithDType(dtype), x.Device(), fillScalar(dtype, 0))
}

// Tril returns x with the elements above the k-th diagonal of its trailing
// two axes zeroed.
func (ns *Namespace) Tril(x types.Array, k int) (*types.Result, error) {
	return ns.triangle(x, k, true)
}

// Triu returns x with the elements below the k-th diagonal of its trailing
// two axes zeroed.
func (ns *Namespace) Triu(x types.Array, k int) (*types.Result, error) {
	return ns.triangle(x, k, false)
}

func (ns *Namespace) triangle(x types.Array, k int, lower bool) (*types.Result, error) {
	shape := x.Shape()
	if shape.Rank() < 2 {
		return nil, errors.Wrapf(types.ErrShapeMismatch,
			"triangular selection requires an operand of rank >= 2, got %s", shape)
	}
	numRows := shape.Dim(-2)
	numCols := shape.Dim(-1)
	zero := fillScalar(shape.DType, 0)
	stream := x.Values()
	values := make([]types.Scalar, stream.Len())
	for flat := range values {
		matrixIndex := flat % (numRows * numCols)
		row := matrixIndex / numCols
		col := matrixIndex % numCols
		keep := col-row <= k
		if !lower {
			keep = col-row >= k
		}
		if keep {
			values[flat] = stream.At(flat)
		} else {
			values[flat] = zero
		}
	}
	return types.NewResult(shape.Clone(), x.Device(), values), nil
}
