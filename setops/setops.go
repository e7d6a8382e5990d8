// Package setops extracts unique elements from a flattened element stream,
// together with first-occurrence indices, the inverse mapping and per-group
// counts.
//
// Equality follows value semantics with two floating-point exceptions:
//   - NaN-bearing elements (a NaN float, or a complex with at least one NaN
//     component) never group with anything, not even with a bit-identical
//     NaN: each occurrence is its own singleton group.
//   - +0 and -0 (component-wise for complex) belong to one group; the
//     representative kept in Values is the first occurrence.
//
// Ordinary values group through a hash table keyed by canonical bit
// patterns; NaN-bearing elements bypass the table entirely. Group order is
// first-occurrence order.
package setops

import (
	"math"

	"github.com/gomlx/arrayapi/types"
)

// UniqueResult holds the four parallel views of a uniqueness pass.
// len(Values) == len(Indices) == len(Counts), the Counts sum to the input
// length, and len(Inverse) equals the input length.
type UniqueResult struct {
	// Values are the group representatives, in first-occurrence order.
	Values []types.Scalar

	// Indices holds the flat input position of each group's first occurrence.
	Indices []int

	// Inverse maps each input position to its group.
	Inverse []int

	// Counts holds the number of occurrences per group.
	Counts []int
}

// scalarKey is the canonical, hashable identity of a non-NaN scalar: signed
// zeros collapse to one key, every other value keeps its bits.
type scalarKey struct {
	hi, lo uint64
}

func canonicalBits(v float64) uint64 {
	if v == 0 {
		return 0
	}
	return math.Float64bits(v)
}

func canonicalKey(s types.Scalar) scalarKey {
	switch s.Kind() {
	case types.KindBool:
		if s.Bool {
			return scalarKey{hi: 1}
		}
		return scalarKey{}
	case types.KindInt:
		if s.DType.IsUnsigned() {
			return scalarKey{hi: s.Uint}
		}
		return scalarKey{hi: uint64(s.Int)}
	case types.KindComplex:
		return scalarKey{hi: canonicalBits(s.Real), lo: canonicalBits(s.Imag)}
	default:
		return scalarKey{hi: canonicalBits(s.Real)}
	}
}

// Unique groups the stream's elements and returns the full UniqueResult.
func Unique(values types.ElementStream) UniqueResult {
	n := values.Len()
	result := UniqueResult{Inverse: make([]int, n)}
	groups := make(map[scalarKey]int)
	for i := range n {
		element := values.At(i)
		if element.HasNaN() {
			// Singleton group, never merged.
			result.Inverse[i] = len(result.Values)
			result.Values = append(result.Values, element)
			result.Indices = append(result.Indices, i)
			result.Counts = append(result.Counts, 1)
			continue
		}
		key := canonicalKey(element)
		group, seen := groups[key]
		if !seen {
			group = len(result.Values)
			groups[key] = group
			result.Values = append(result.Values, element)
			result.Indices = append(result.Indices, i)
			result.Counts = append(result.Counts, 0)
		}
		result.Counts[group]++
		result.Inverse[i] = group
	}
	return result
}
