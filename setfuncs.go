package arrayapi

import (
	"github.com/gomlx/arrayapi/setops"
	"github.com/gomlx/arrayapi/types"
	"github.com/gomlx/arrayapi/types/shapes"
)

// UniqueAllResult groups the four outputs of UniqueAll. All index arrays use
// the configured index dtype.
type UniqueAllResult struct {
	// Values holds the unique elements, rank-1, in first-occurrence order.
	Values *types.Result

	// Indices holds the position in the flattened input of each value's
	// first occurrence. Same length as Values.
	Indices *types.Result

	// InverseIndices maps each flattened input position to its value's index
	// in Values. Same length as the flattened input.
	InverseIndices *types.Result

	// Counts holds the number of occurrences of each value. Same length as
	// Values.
	Counts *types.Result
}

func (ns *Namespace) indexVector(indices []int, device types.Device) *types.Result {
	values := make([]types.Scalar, len(indices))
	for i, index := range indices {
		values[i] = types.FromInt(ns.defaults.Index, int64(index))
	}
	return types.NewResult(shapes.Make(ns.defaults.Index, len(indices)), device, values)
}

func (ns *Namespace) uniqueValuesResult(unique setops.UniqueResult, x types.Array) *types.Result {
	values := make([]types.Scalar, len(unique.Values))
	copy(values, unique.Values)
	return types.NewResult(shapes.Make(x.Shape().DType, len(values)), x.Device(), values)
}

// UniqueAll returns the unique elements of x (flattened), their
// first-occurrence indices, the inverse mapping and the counts.
//
// NaN-bearing elements never compare equal, so each occurrence is returned
// as its own unique value with count 1. +0 and -0 count as one value; which
// sign the representative keeps is unspecified.
func (ns *Namespace) UniqueAll(x types.Array) UniqueAllResult {
	unique := setops.Unique(x.Values())
	return UniqueAllResult{
		Values:         ns.uniqueValuesResult(unique, x),
		Indices:        ns.indexVector(unique.Indices, x.Device()),
		InverseIndices: ns.indexVector(unique.Inverse, x.Device()),
		Counts:         ns.indexVector(unique.Counts, x.Device()),
	}
}

// UniqueCounts returns the unique elements of x (flattened) and the number
// of occurrences of each. Equality rules as in UniqueAll.
func (ns *Namespace) UniqueCounts(x types.Array) (values, counts *types.Result) {
	unique := setops.Unique(x.Values())
	return ns.uniqueValuesResult(unique, x), ns.indexVector(unique.Counts, x.Device())
}

// UniqueInverse returns the unique elements of x (flattened) and, for each
// input position, the index of its value among them. Equality rules as in
// UniqueAll.
func (ns *Namespace) UniqueInverse(x types.Array) (values, inverseIndices *types.Result) {
	unique := setops.Unique(x.Values())
	return ns.uniqueValuesResult(unique, x), ns.indexVector(unique.Inverse, x.Device())
}

// UniqueValues returns the unique elements of x (flattened). Equality rules
// as in UniqueAll.
func (ns *Namespace) UniqueValues(x types.Array) *types.Result {
	unique := setops.Unique(x.Values())
	return ns.uniqueValuesResult(unique, x)
}
