package shapes

import (
	"testing"

	"github.com/gomlx/gopjrt/dtypes"
)

func TestShape(t *testing.T) {
	invalidShape := Invalid()
	if invalidShape.Ok() {
		t.Error("Invalid().Ok() should be false")
	}

	shape0 := Make(dtypes.Float64)
	if !shape0.Ok() {
		t.Error("shape0.Ok() should be true")
	}
	if !shape0.IsScalar() {
		t.Error("shape0.IsScalar() should be true")
	}
	if shape0.Rank() != 0 {
		t.Errorf("shape0.Rank() = %d, want 0", shape0.Rank())
	}
	if shape0.Size() != 1 {
		t.Errorf("shape0.Size() = %d, want 1", shape0.Size())
	}

	shape2 := Make(dtypes.Float32, 2, 3)
	if shape2.Rank() != 2 {
		t.Errorf("shape2.Rank() = %d, want 2", shape2.Rank())
	}
	if shape2.Size() != 6 {
		t.Errorf("shape2.Size() = %d, want 6", shape2.Size())
	}
	if shape2.Dim(0) != 2 || shape2.Dim(1) != 3 {
		t.Errorf("shape2 dims = (%d, %d), want (2, 3)", shape2.Dim(0), shape2.Dim(1))
	}
	if shape2.Dim(-1) != 3 || shape2.Dim(-2) != 2 {
		t.Errorf("shape2 negative dims = (%d, %d), want (3, 2)", shape2.Dim(-1), shape2.Dim(-2))
	}
	if got := shape2.String(); got != "(Float32)[2 3]" {
		t.Errorf("shape2.String() = %q, want %q", got, "(Float32)[2 3]")
	}
	if err := shape2.CheckDims(2, 3); err != nil {
		t.Errorf("shape2.CheckDims(2, 3) = %v, want nil", err)
	}
	if err := shape2.CheckDims(3, 2); err == nil {
		t.Error("shape2.CheckDims(3, 2) should fail")
	}

	// Zero-size dimensions are valid.
	shapeEmpty := Make(dtypes.Int32, 0, 4)
	if !shapeEmpty.Ok() {
		t.Error("shapeEmpty.Ok() should be true")
	}
	if shapeEmpty.Size() != 0 {
		t.Errorf("shapeEmpty.Size() = %d, want 0", shapeEmpty.Size())
	}

	// Negative dimensions panic.
	defer func() {
		if r := recover(); r == nil {
			t.Error("Make with a negative dimension should panic")
		}
	}()
	_ = Make(dtypes.Float32, -1)
}

func TestShapeCloneAndEqual(t *testing.T) {
	shape := Make(dtypes.Complex64, 3, 1, 4)
	clone := shape.Clone()
	if !shape.Equal(clone) {
		t.Errorf("clone %s should equal original %s", clone, shape)
	}
	clone.Dimensions[0] = 7
	if shape.Dimensions[0] != 3 {
		t.Error("mutating a clone must not affect the original")
	}
	if shape.Equal(clone) {
		t.Error("shapes with different dimensions should not be equal")
	}

	other := Make(dtypes.Float32, 3, 1, 4)
	if shape.Equal(other) {
		t.Error("shapes with different dtypes should not be equal")
	}
	if !shape.EqualDimensions(other) {
		t.Error("EqualDimensions should ignore the dtype")
	}

	withDType := shape.WithDType(dtypes.Float32)
	if !withDType.Equal(other) {
		t.Errorf("WithDType result %s should equal %s", withDType, other)
	}
}

func TestFromAnyValue(t *testing.T) {
	shape, err := FromAnyValue([][]float64{{0, 0}})
	if err != nil {
		t.Fatalf("FromAnyValue returned error: %v", err)
	}
	if want := Make(dtypes.Float64, 1, 2); !shape.Equal(want) {
		t.Errorf("FromAnyValue = %s, want %s", shape, want)
	}

	shape, err = FromAnyValue(int32(7))
	if err != nil {
		t.Fatalf("FromAnyValue returned error: %v", err)
	}
	if !shape.IsScalar() || shape.DType != dtypes.Int32 {
		t.Errorf("FromAnyValue(int32) = %s, want scalar Int32", shape)
	}

	// Empty slices keep the dtype from the static element type.
	shape, err = FromAnyValue([][]float32{})
	if err != nil {
		t.Fatalf("FromAnyValue returned error: %v", err)
	}
	if want := Make(dtypes.Float32, 0, 0); !shape.Equal(want) {
		t.Errorf("FromAnyValue of empty nested slice = %s, want %s", shape, want)
	}

	// Irregular nesting is rejected.
	_, err = FromAnyValue([][]int{{1, 2}, {3}})
	if err == nil {
		t.Error("FromAnyValue should fail on irregular nesting")
	}

	// Unsupported leaf types are rejected.
	_, err = FromAnyValue([]string{"a"})
	if err == nil {
		t.Error("FromAnyValue should fail on unsupported element types")
	}
}
