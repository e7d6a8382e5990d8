package contraction

import (
	"testing"

	"github.com/gomlx/arrayapi/types"
	"github.com/gomlx/arrayapi/types/shapes"
	"github.com/gomlx/gopjrt/dtypes"
	"github.com/pkg/errors"
)

// Aliases
var (
	F32  = dtypes.Float32
	F64  = dtypes.Float64
	I32  = dtypes.Int32
	U8   = dtypes.Uint8
	C128 = dtypes.Complex128

	S = shapes.Make
)

// must1 panics if there is an error.
func must1[T any](value T, err error) T {
	if err != nil {
		panic(err)
	}
	return value
}

func arrF(dtype dtypes.DType, dims []int, values ...float64) *types.Result {
	scalars := make([]types.Scalar, len(values))
	for i, v := range values {
		scalars[i] = types.FromFloat(dtype, v)
	}
	return types.NewResult(S(dtype, dims...), nil, scalars)
}

func arrI(dtype dtypes.DType, dims []int, values ...int64) *types.Result {
	scalars := make([]types.Scalar, len(values))
	for i, v := range values {
		if dtype.IsUnsigned() {
			scalars[i] = types.FromUint(dtype, uint64(v))
		} else {
			scalars[i] = types.FromInt(dtype, v)
		}
	}
	return types.NewResult(S(dtype, dims...), nil, scalars)
}

func arrC(dims []int, values ...complex128) *types.Result {
	scalars := make([]types.Scalar, len(values))
	for i, v := range values {
		scalars[i] = types.FromComplex(C128, v)
	}
	return types.NewResult(S(C128, dims...), nil, scalars)
}

func checkFloats(t *testing.T, result *types.Result, wantShape shapes.Shape, want ...float64) {
	t.Helper()
	if !result.Shape().Equal(wantShape) {
		t.Fatalf("expected shape %s, got %s", wantShape, result.Shape())
	}
	if result.Len() != len(want) {
		t.Fatalf("expected %d elements, got %d", len(want), result.Len())
	}
	for i, w := range want {
		if got := result.At(i).AsFloat64(); got != w {
			t.Errorf("element %d: expected %v, got %v", i, w, got)
		}
	}
}

func TestMatMul(t *testing.T) {
	opts := Options{}

	// Two length-3 vectors reduce to their inner product as a rank-0 scalar.
	result := must1(MatMul(arrF(F32, []int{3}, 1, 2, 3), arrF(F32, []int{3}, 4, 5, 6), F32, opts))
	checkFloats(t, result, S(F32), 32)

	// (2,3) x (3,4) conventional matrix product.
	lhs := arrF(F64, []int{2, 3}, 1, 2, 3, 4, 5, 6)
	rhs := arrF(F64, []int{3, 4},
		1, 0, 0, 1,
		0, 1, 0, 1,
		0, 0, 1, 1)
	result = must1(MatMul(lhs, rhs, F64, opts))
	checkFloats(t, result, S(F64, 2, 4), 1, 2, 3, 6, 4, 5, 6, 15)

	// Matrix by vector drops the promoted column axis.
	result = must1(MatMul(lhs, arrF(F64, []int{3}, 1, 1, 1), F64, opts))
	checkFloats(t, result, S(F64, 2), 6, 15)

	// Vector by matrix drops the promoted row axis.
	result = must1(MatMul(arrF(F64, []int{2}, 1, 1), lhs, F64, opts))
	checkFloats(t, result, S(F64, 3), 5, 7, 9)

	// Batched: a (2,1,2) stack against a shared (2,2) identity broadcasts.
	batched := arrF(F64, []int{2, 1, 2}, 1, 2, 3, 4)
	identity := arrF(F64, []int{2, 2}, 1, 0, 0, 1)
	result = must1(MatMul(batched, identity, F64, opts))
	checkFloats(t, result, S(F64, 2, 1, 2), 1, 2, 3, 4)
}

func TestMatMulErrors(t *testing.T) {
	opts := Options{}
	_, err := MatMul(arrF(F32, nil, 1), arrF(F32, []int{3}, 1, 2, 3), F32, opts)
	if !errors.Is(err, types.ErrShapeMismatch) {
		t.Errorf("expected ErrShapeMismatch for a rank-0 operand, got %v", err)
	}
	_, err = MatMul(arrF(F32, []int{2, 3}, 0, 0, 0, 0, 0, 0), arrF(F32, []int{4, 5}, make([]float64, 20)...), F32, opts)
	if !errors.Is(err, types.ErrShapeMismatch) {
		t.Errorf("expected ErrShapeMismatch for mismatched inner dimensions, got %v", err)
	}

	boolArr := types.NewResult(S(dtypes.Bool, 2), nil, []types.Scalar{types.FromBool(true), types.FromBool(false)})
	_, err = MatMul(boolArr, boolArr, dtypes.Bool, opts)
	if !errors.Is(err, types.ErrIncompatibleDType) {
		t.Errorf("expected ErrIncompatibleDType for boolean operands, got %v", err)
	}

	onCPU := types.NewResult(S(F32, 2), "cpu:0", []types.Scalar{types.FromFloat(F32, 1), types.FromFloat(F32, 2)})
	onGPU := types.NewResult(S(F32, 2), "gpu:0", []types.Scalar{types.FromFloat(F32, 1), types.FromFloat(F32, 2)})
	_, err = MatMul(onCPU, onGPU, F32, opts)
	if !errors.Is(err, types.ErrDeviceMismatch) {
		t.Errorf("expected ErrDeviceMismatch, got %v", err)
	}
}

func TestMatMulIntegerAccumulation(t *testing.T) {
	// Accumulation runs in int64 and only the final value wraps to the
	// output dtype.
	lhs := arrI(I32, []int{1, 2}, 1<<30, 1<<30)
	rhs := arrI(I32, []int{2, 1}, 2, 2)
	result := must1(MatMul(lhs, rhs, dtypes.Int64, Options{}))
	if got := result.At(0).Int; got != 1<<32 {
		t.Errorf("expected 2^32, got %d", got)
	}

	// Unsigned accumulation stays unsigned.
	uResult := must1(MatMul(arrI(U8, []int{2}, 200, 200), arrI(U8, []int{2}, 1, 1), dtypes.Uint16, Options{}))
	if got := uResult.At(0).Uint; got != 400 {
		t.Errorf("expected 400, got %d", got)
	}
}

func TestTensorDot(t *testing.T) {
	opts := Options{}

	// axes=0 on 1-D arrays of lengths 2 and 3 is the outer product.
	result := must1(TensorDot(arrF(F64, []int{2}, 1, 2), arrF(F64, []int{3}, 3, 4, 5), 0, F64, opts))
	checkFloats(t, result, S(F64, 2, 3), 3, 4, 5, 6, 8, 10)

	// axes=1 is the plain matrix product.
	lhs := arrF(F64, []int{2, 3}, 1, 2, 3, 4, 5, 6)
	rhs := arrF(F64, []int{3, 2}, 1, 2, 3, 4, 5, 6)
	result = must1(TensorDot(lhs, rhs, 1, F64, opts))
	checkFloats(t, result, S(F64, 2, 2), 22, 28, 49, 64)

	// axes=2 pairs the last two axes of lhs against the first two of rhs in
	// order, so (2,3) against (3,2) mismatches.
	_, err := TensorDot(lhs, arrF(F64, []int{3, 2}, 1, 1, 1, 1, 1, 1), 2, F64, opts)
	if !errors.Is(err, types.ErrShapeMismatch) {
		t.Errorf("expected ErrShapeMismatch, got %v", err)
	}

	// A matching double contraction sums every pairwise product.
	result = must1(TensorDot(lhs, arrF(F64, []int{2, 3}, 1, 1, 1, 1, 1, 1), 2, F64, opts))
	checkFloats(t, result, S(F64), 21)
}

func TestTensorDotAxes(t *testing.T) {
	opts := Options{}

	// Contract axis 1 of lhs against axis 1 of rhs.
	lhs := arrF(F64, []int{2, 3}, 1, 2, 3, 4, 5, 6)
	rhs := arrF(F64, []int{2, 3}, 1, 1, 1, 2, 2, 2)
	result := must1(TensorDotAxes(lhs, rhs, []int{1}, []int{1}, F64, opts))
	checkFloats(t, result, S(F64, 2, 2), 6, 12, 15, 30)

	// Caller axes slices are not mutated.
	lhsAxes := []int{-1}
	must1(TensorDotAxes(lhs, rhs, lhsAxes, []int{1}, F64, opts))
	if lhsAxes[0] != -1 {
		t.Errorf("expected caller axes untouched, got %v", lhsAxes)
	}

	_, err := TensorDotAxes(lhs, rhs, []int{0}, []int{1}, F64, opts)
	if !errors.Is(err, types.ErrShapeMismatch) {
		t.Errorf("expected ErrShapeMismatch for sizes 2 vs 3, got %v", err)
	}
}

func TestVecDot(t *testing.T) {
	opts := Options{}

	// Two length-4 real vectors give their dot product as a rank-0 scalar.
	result := must1(VecDot(arrF(F64, []int{4}, 1, 2, 3, 4), arrF(F64, []int{4}, 4, 3, 2, 1), -1, F64, opts))
	checkFloats(t, result, S(F64), 20)

	// Batched lhs against a shared rhs vector.
	lhs := arrF(F64, []int{2, 3}, 1, 2, 3, 4, 5, 6)
	result = must1(VecDot(lhs, arrF(F64, []int{3}, 1, 1, 1), -1, F64, opts))
	checkFloats(t, result, S(F64, 2), 6, 15)

	// Complex lhs elements are conjugated, rhs elements are not.
	lhsC := arrC([]int{2}, complex(0, 1), complex(0, 1))
	rhsC := arrC([]int{2}, complex(0, 1), complex(0, 1))
	cResult := must1(VecDot(lhsC, rhsC, -1, C128, opts))
	if got := cResult.At(0).AsComplex128(); got != complex(2, 0) {
		t.Errorf("expected (2+0i) from conj(i)*i summed twice, got %v", got)
	}

	_, err := VecDot(arrF(F64, []int{2}, 1, 2), arrF(F64, []int{3}, 1, 2, 3), -1, F64, opts)
	if !errors.Is(err, types.ErrShapeMismatch) {
		t.Errorf("expected ErrShapeMismatch, got %v", err)
	}
}
