package types

// ElementStream provides ordered, random access to an array's elements in
// logical (row-major) layout, without exposing the physical storage. Index 0
// is the first element of the flattened array.
//
// Implementations must be safe for concurrent reads.
type ElementStream interface {
	// Len returns the number of elements, the product of the array's dimensions.
	Len() int

	// At returns the i-th element of the flattened array. It panics if i is
	// out of [0, Len()).
	At(i int) Scalar
}

// SliceStream adapts a slice of scalars to an ElementStream.
type SliceStream []Scalar

// Len implements ElementStream.
func (s SliceStream) Len() int { return len(s) }

// At implements ElementStream.
func (s SliceStream) At(i int) Scalar { return s[i] }
