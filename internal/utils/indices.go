package utils

// Strides returns the row-major strides of the given dimensions: the flat
// index of a multi-index is the dot product of the two.
func Strides(dims []int) []int {
	strides := make([]int, len(dims))
	stride := 1
	for axis := len(dims) - 1; axis >= 0; axis-- {
		strides[axis] = stride
		stride *= dims[axis]
	}
	return strides
}

// BroadcastStrides returns the row-major strides of operandDims aligned to
// targetDims: the result has len(targetDims) entries, with stride 0 on axes
// the operand broadcasts over (size-1 axes and axes missing on the left).
// Walking a target multi-index with these strides visits the broadcast
// operand element by element.
func BroadcastStrides(operandDims, targetDims []int) []int {
	operandStrides := Strides(operandDims)
	strides := make([]int, len(targetDims))
	offset := len(targetDims) - len(operandDims)
	for axis := range operandDims {
		if operandDims[axis] != 1 {
			strides[offset+axis] = operandStrides[axis]
		}
	}
	return strides
}

// UnflattenIndex decomposes a row-major flat index into the multi-index
// written to the indices slice, which must have len(dims) entries.
func UnflattenIndex(flat int, dims, indices []int) {
	for axis := len(dims) - 1; axis >= 0; axis-- {
		indices[axis] = flat % dims[axis]
		flat /= dims[axis]
	}
}

// FlattenIndex composes a multi-index into a flat index using the given
// strides.
func FlattenIndex(indices, strides []int) int {
	flat := 0
	for axis, index := range indices {
		flat += index * strides[axis]
	}
	return flat
}
