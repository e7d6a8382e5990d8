package types

import (
	"github.com/gomlx/arrayapi/types/shapes"
)

// Array is the read-only view the engines operate on: a shape, a device
// placement and an ordered stream of elements. Implementations own the
// physical storage; the engines never see it.
type Array interface {
	// Shape returns the array's shape. Callers must not mutate the returned
	// dimensions.
	Shape() shapes.Shape

	// Device returns the array's placement, or nil for an unplaced array.
	Device() Device

	// Values returns the elements in row-major order.
	Values() ElementStream
}

// Result is the concrete array produced by the engines. It implements Array,
// so results can feed back into further operations.
type Result struct {
	shape  shapes.Shape
	device Device
	values []Scalar
}

// NewResult wraps already-computed elements into a Result. The values slice
// is taken over by the result, not copied; its length must be shape.Size().
func NewResult(shape shapes.Shape, device Device, values []Scalar) *Result {
	return &Result{shape: shape, device: device, values: values}
}

// Shape implements Array.
func (r *Result) Shape() shapes.Shape { return r.shape }

// Device implements Array.
func (r *Result) Device() Device { return r.device }

// Values implements Array.
func (r *Result) Values() ElementStream { return SliceStream(r.values) }

// Len returns the number of elements.
func (r *Result) Len() int { return len(r.values) }

// At returns the i-th element in row-major order.
func (r *Result) At(i int) Scalar { return r.values[i] }
