// Package shapes defines the Shape value type used throughout the engine.
//
// A Shape combines a data type (DType) with the dimensions of an array.
// Shapes are small immutable values: functions that derive new shapes always
// return fresh copies and never mutate their inputs.
package shapes

import (
	"fmt"
	"strings"

	"github.com/gomlx/gopjrt/dtypes"
	"github.com/pkg/errors"
)

// Shape holds the data type and dimensions of an array.
//
// A rank-0 shape (empty Dimensions) denotes a scalar.
// Every dimension must be >= 0; a zero dimension denotes an empty array.
type Shape struct {
	DType      dtypes.DType
	Dimensions []int
}

// Make returns a Shape with the given dtype and dimensions.
// It panics if any dimension is negative -- shapes with negative dimensions
// are never meaningful, so this is treated as a programming error.
func Make(dtype dtypes.DType, dimensions ...int) Shape {
	for _, dim := range dimensions {
		if dim < 0 {
			panic(fmt.Sprintf("shapes.Make(%s, %v): dimensions must be non-negative", dtype, dimensions))
		}
	}
	s := Shape{DType: dtype}
	if len(dimensions) > 0 {
		s.Dimensions = make([]int, len(dimensions))
		copy(s.Dimensions, dimensions)
	}
	return s
}

// Invalid returns an invalid Shape, for which Ok returns false.
func Invalid() Shape {
	return Shape{DType: dtypes.InvalidDType}
}

// Ok returns whether the shape is valid: its dtype is set and no dimension is negative.
func (s Shape) Ok() bool {
	if s.DType == dtypes.InvalidDType {
		return false
	}
	for _, dim := range s.Dimensions {
		if dim < 0 {
			return false
		}
	}
	return true
}

// Rank returns the number of dimensions. A scalar has rank 0.
func (s Shape) Rank() int {
	return len(s.Dimensions)
}

// IsScalar returns whether the shape has rank 0.
func (s Shape) IsScalar() bool {
	return len(s.Dimensions) == 0
}

// Dim returns the dimension of the given axis.
// Negative axes are taken from the end: Dim(-1) is the last dimension.
// It panics if the axis is out of range.
func (s Shape) Dim(axis int) int {
	adjusted := axis
	if adjusted < 0 {
		adjusted += s.Rank()
	}
	if adjusted < 0 || adjusted >= s.Rank() {
		panic(fmt.Sprintf("Shape.Dim(%d): axis out of range for rank %d", axis, s.Rank()))
	}
	return s.Dimensions[adjusted]
}

// Size returns the total number of elements: the product of all dimensions.
// A scalar has size 1.
func (s Shape) Size() int {
	size := 1
	for _, dim := range s.Dimensions {
		size *= dim
	}
	return size
}

// Clone returns a deep copy of the shape.
func (s Shape) Clone() Shape {
	s2 := Shape{DType: s.DType}
	if s.Dimensions != nil {
		s2.Dimensions = make([]int, len(s.Dimensions))
		copy(s2.Dimensions, s.Dimensions)
	}
	return s2
}

// Equal returns whether two shapes have the same dtype and dimensions.
func (s Shape) Equal(other Shape) bool {
	if s.DType != other.DType || s.Rank() != other.Rank() {
		return false
	}
	for axis, dim := range s.Dimensions {
		if other.Dimensions[axis] != dim {
			return false
		}
	}
	return true
}

// EqualDimensions returns whether two shapes have the same dimensions, ignoring the dtype.
func (s Shape) EqualDimensions(other Shape) bool {
	if s.Rank() != other.Rank() {
		return false
	}
	for axis, dim := range s.Dimensions {
		if other.Dimensions[axis] != dim {
			return false
		}
	}
	return true
}

// CheckDims returns an error unless the shape's dimensions match the given ones.
func (s Shape) CheckDims(dimensions ...int) error {
	if len(dimensions) != s.Rank() {
		return errors.Errorf("shape %s does not have rank %d", s, len(dimensions))
	}
	for axis, dim := range dimensions {
		if s.Dimensions[axis] != dim {
			return errors.Errorf("shape %s does not have dimension %d at axis %d", s, dim, axis)
		}
	}
	return nil
}

// WithDType returns a copy of the shape with the dtype replaced.
func (s Shape) WithDType(dtype dtypes.DType) Shape {
	s2 := s.Clone()
	s2.DType = dtype
	return s2
}

// String implements fmt.Stringer. E.g.: "(Float32)[2 3]".
func (s Shape) String() string {
	if s.DType == dtypes.InvalidDType {
		return "(invalid shape)"
	}
	if s.IsScalar() {
		return fmt.Sprintf("(%s)", s.DType)
	}
	var b strings.Builder
	fmt.Fprintf(&b, "(%s)[", s.DType)
	for axis, dim := range s.Dimensions {
		if axis > 0 {
			b.WriteByte(' ')
		}
		fmt.Fprintf(&b, "%d", dim)
	}
	b.WriteByte(']')
	return b.String()
}
