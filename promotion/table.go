package promotion

import (
	"github.com/gomlx/arrayapi/types"
	"github.com/gomlx/gopjrt/dtypes"
)

// supported lists every dtype the engine promotes between. The table below is
// indexed by position in this slice.
var supported = []dtypes.DType{
	dtypes.Bool,
	dtypes.Int8, dtypes.Int16, dtypes.Int32, dtypes.Int64,
	dtypes.Uint8, dtypes.Uint16, dtypes.Uint32, dtypes.Uint64,
	dtypes.Float16, dtypes.BFloat16, dtypes.Float32, dtypes.Float64,
	dtypes.Complex64, dtypes.Complex128,
}

var (
	// dtypeIndex maps a dtype to its position in supported, or -1.
	dtypeIndex map[dtypes.DType]int

	// table holds the precomputed promotion result for every pair of supported
	// dtypes. InvalidDType marks pairs with no promotion path (uint64 against
	// any signed integer). Built once at process start from the lattice rules,
	// so commutativity holds by construction and is not re-derived at runtime.
	table [][]dtypes.DType
)

func init() {
	dtypeIndex = make(map[dtypes.DType]int, len(supported))
	for i, dtype := range supported {
		dtypeIndex[dtype] = i
	}
	table = make([][]dtypes.DType, len(supported))
	for i, a := range supported {
		table[i] = make([]dtypes.DType, len(supported))
		for j, b := range supported {
			table[i][j] = promotePair(a, b)
		}
	}
}

// numericWidth returns the width used by the lattice ordering: the bit width
// of the value for bool/int/float dtypes, and the per-component bit width for
// complex dtypes (Complex64 components are 32-bit floats).
func numericWidth(dtype dtypes.DType) int {
	switch dtype {
	case dtypes.Bool:
		return 1
	case dtypes.Int8, dtypes.Uint8:
		return 8
	case dtypes.Int16, dtypes.Uint16, dtypes.Float16, dtypes.BFloat16:
		return 16
	case dtypes.Int32, dtypes.Uint32, dtypes.Float32, dtypes.Complex64:
		return 32
	}
	return 64
}

// promotePair computes the promotion of a pair from the lattice definition.
// Only init calls it; all runtime resolution goes through the table.
func promotePair(a, b dtypes.DType) dtypes.DType {
	if a == b {
		return a
	}
	ka, kb := types.KindOf(a), types.KindOf(b)
	if kb > ka {
		a, b = b, a
		ka, kb = kb, ka
	}
	// Now ka >= kb: a is at the higher (or equal) lattice level.
	switch ka {
	case types.KindBool:
		// Only bool+bool lands here, handled by the a == b shortcut above.
		return dtypes.Bool

	case types.KindInt:
		if kb == types.KindBool {
			return a
		}
		return promoteIntPair(a, b)

	case types.KindFloat:
		if kb != types.KindFloat {
			// Bool and integers sit below every float in the lattice: the
			// float operand wins regardless of the integer's width. This (and
			// only this) ordering keeps promotion associative once mixed-sign
			// integer pairs can widen beyond both operands.
			return a
		}
		// Both floats of different dtypes. Float16 and BFloat16 are unordered
		// siblings: neither contains the other, so they meet at Float32.
		width := numericWidth(a)
		if width == numericWidth(b) {
			return dtypes.Float32
		}
		return floatOfWidth(max(width, numericWidth(b)))

	case types.KindComplex:
		if kb == types.KindBool || kb == types.KindInt {
			return a
		}
		// Complex against float or complex: component width is the join of
		// both operands' widths.
		return complexOfWidth(max(numericWidth(a), numericWidth(b)))
	}
	return dtypes.InvalidDType
}

// promoteIntPair resolves two (different) integer dtypes.
func promoteIntPair(a, b dtypes.DType) dtypes.DType {
	aUnsigned, bUnsigned := a.IsUnsigned(), b.IsUnsigned()
	if aUnsigned == bUnsigned {
		wider := a
		if numericWidth(b) > numericWidth(a) {
			wider = b
		}
		return wider
	}
	// Mixed signedness: the result is the narrowest signed integer that can
	// hold both operands. An unsigned width w needs a signed width of 2*w, so
	// uint64 has no signed counterpart and the pair has no promotion path.
	signed, unsigned := a, b
	if aUnsigned {
		signed, unsigned = b, a
	}
	if unsigned == dtypes.Uint64 {
		return dtypes.InvalidDType
	}
	width := max(numericWidth(signed), 2*numericWidth(unsigned))
	switch width {
	case 16:
		return dtypes.Int16
	case 32:
		return dtypes.Int32
	}
	return dtypes.Int64
}

func floatOfWidth(width int) dtypes.DType {
	if width <= 32 {
		return dtypes.Float32
	}
	return dtypes.Float64
}

func complexOfWidth(componentWidth int) dtypes.DType {
	if componentWidth <= 32 {
		return dtypes.Complex64
	}
	return dtypes.Complex128
}
