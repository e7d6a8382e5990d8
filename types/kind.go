package types

import "github.com/gomlx/gopjrt/dtypes"

// Kind classifies a dtype or a scalar literal into the four levels of the
// promotion lattice: KindBool < KindInt < KindFloat < KindComplex.
// Signed and unsigned integers share KindInt; their interaction is resolved
// by the promotion table, not by the lattice level.
type Kind int

//go:generate go tool enumer -type=Kind kind.go

const (
	KindInvalid Kind = iota
	KindBool
	KindInt
	KindFloat
	KindComplex
)

// KindOf returns the lattice level of a dtype.
func KindOf(dtype dtypes.DType) Kind {
	switch {
	case dtype == dtypes.Bool:
		return KindBool
	case dtype.IsInt():
		return KindInt
	case dtype.IsFloat():
		return KindFloat
	case dtype.IsComplex():
		return KindComplex
	}
	return KindInvalid
}
