package shapes

import (
	"reflect"

	"github.com/gomlx/gopjrt/dtypes"
	"github.com/pkg/errors"
)

// FromAnyValue derives the Shape of a Go "any" value.
// Accepted values are plain-old-data (POD) scalars (bool, ints, floats,
// complex) and arbitrarily nested slices of POD, as long as the nesting is
// regular (all sub-slices at the same depth have the same length).
//
// Example:
//
//	shape, err := shapes.FromAnyValue([][]float64{{0, 0}}) // Returns shape (Float64)[1 2]
func FromAnyValue(value any) (shape Shape, err error) {
	if value == nil {
		return Invalid(), errors.New("cannot derive a shape from a nil value")
	}
	err = fromAnyValueRecursive(&shape, reflect.ValueOf(value), reflect.TypeOf(value))
	if err != nil {
		return Invalid(), err
	}
	return
}

func fromAnyValueRecursive(shape *Shape, v reflect.Value, t reflect.Type) error {
	if t.Kind() != reflect.Slice {
		// Leaf: must be one of the supported POD types.
		shape.DType = dtypes.FromGoType(t)
		if shape.DType == dtypes.InvalidDType {
			return errors.Errorf("type %q is not supported as an array element type", t)
		}
		return nil
	}

	shape.Dimensions = append(shape.Dimensions, v.Len())
	if v.Len() == 0 {
		// Empty slice: there are no values to recurse into, but the static
		// element type still determines the dtype and the remaining ranks.
		elem := t.Elem()
		for elem.Kind() == reflect.Slice {
			shape.Dimensions = append(shape.Dimensions, 0)
			elem = elem.Elem()
		}
		shape.DType = dtypes.FromGoType(elem)
		if shape.DType == dtypes.InvalidDType {
			return errors.Errorf("type %q is not supported as an array element type", elem)
		}
		return nil
	}

	// The first element sets the reference shape for the remaining dimensions.
	prefix := shape.Clone()
	t = t.Elem()
	if err := fromAnyValueRecursive(shape, v.Index(0), t); err != nil {
		return err
	}

	// All siblings must agree with the reference.
	for i := 1; i < v.Len(); i++ {
		sibling := prefix.Clone()
		if err := fromAnyValueRecursive(&sibling, v.Index(i), t); err != nil {
			return err
		}
		if !shape.Equal(sibling) {
			return errors.Errorf("sub-slices have irregular shapes, found both %s and %s", shape, sibling)
		}
	}
	return nil
}
