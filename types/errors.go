package types

import "github.com/pkg/errors"

// Error sentinels for the engine's failure taxonomy. Every validation failure
// returned by the engine wraps exactly one of these, so callers can classify
// with errors.Is. All of them are deterministic: the same inputs always
// produce the same error, and none are retryable.
var (
	// ErrBroadcast indicates two shapes that cannot be broadcast together.
	ErrBroadcast = errors.New("incompatible shapes for broadcasting")

	// ErrShapeMismatch indicates a contraction-dimension mismatch or an
	// invalid rank for an operation (e.g. a rank-0 operand to a matrix product).
	ErrShapeMismatch = errors.New("shape mismatch")

	// ErrInvalidAxis indicates an axis outside the valid [-rank, rank) interval.
	ErrInvalidAxis = errors.New("axis out of range")

	// ErrDuplicateAxis indicates an axis repeated within one multi-axis specifier.
	ErrDuplicateAxis = errors.New("duplicate axis")

	// ErrIncompatibleDType indicates that no promotion path exists between the
	// given dtypes, or that an explicit dtype cannot represent a required value.
	ErrIncompatibleDType = errors.New("incompatible dtype")

	// ErrDeviceMismatch indicates operands placed on different devices.
	ErrDeviceMismatch = errors.New("device mismatch")
)
