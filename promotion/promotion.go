// Package promotion resolves the output data type of operations combining
// multiple inputs, following the promotion lattice
// bool < integer < float < complex.
//
// Resolution is a lookup on a table precomputed at process start, not a chain
// of runtime conditionals: Promote is commutative and associative by
// construction, promoting a dtype with itself is the identity, and promoting
// across kinds always moves strictly upward in the lattice.
//
// The default dtypes used for scalar literals (and for index outputs) are
// process-wide configuration owned by the caller and injected through
// Defaults; the package never reads ambient state.
package promotion

import (
	"github.com/gomlx/arrayapi/types"
	"github.com/gomlx/gopjrt/dtypes"
	"github.com/pkg/errors"
)

// Defaults holds the injected default dtypes. It is read-only for the
// engine's lifetime.
type Defaults struct {
	// Int is the default integer dtype, used when only bool/integer scalar
	// literals are combined.
	Int dtypes.DType

	// Float is the default real float dtype, used when a float scalar literal
	// is present and no complex one.
	Float dtypes.DType

	// Complex is the default complex dtype, used when any complex scalar
	// literal is present.
	Complex dtypes.DType

	// Index is the dtype of index outputs (argsort, unique indices, argmax).
	Index dtypes.DType
}

// Default returns the conventional configuration: Int64, Float64, Complex128
// and Int64 indices.
func Default() Defaults {
	return Defaults{
		Int:     dtypes.Int64,
		Float:   dtypes.Float64,
		Complex: dtypes.Complex128,
		Index:   dtypes.Int64,
	}
}

// Validate returns an error unless every default dtype has the kind its role
// requires.
func (d Defaults) Validate() error {
	if !d.Int.IsInt() || d.Int.IsUnsigned() {
		return errors.Wrapf(types.ErrIncompatibleDType, "default integer dtype must be a signed integer, got %s", d.Int)
	}
	if !d.Float.IsFloat() {
		return errors.Wrapf(types.ErrIncompatibleDType, "default float dtype must be a real float, got %s", d.Float)
	}
	if !d.Complex.IsComplex() {
		return errors.Wrapf(types.ErrIncompatibleDType, "default complex dtype must be complex, got %s", d.Complex)
	}
	if !d.Index.IsInt() || d.Index.IsUnsigned() {
		return errors.Wrapf(types.ErrIncompatibleDType, "default index dtype must be a signed integer, got %s", d.Index)
	}
	return nil
}

// Promote returns the promotion of a pair of dtypes.
// It fails wrapping types.ErrIncompatibleDType if either dtype is outside the
// lattice or the pair has no promotion path (uint64 with a signed integer).
func Promote(a, b dtypes.DType) (dtypes.DType, error) {
	ia, ok := dtypeIndex[a]
	if !ok {
		return dtypes.InvalidDType, errors.Wrapf(types.ErrIncompatibleDType, "dtype %s is not part of the promotion lattice", a)
	}
	ib, ok := dtypeIndex[b]
	if !ok {
		return dtypes.InvalidDType, errors.Wrapf(types.ErrIncompatibleDType, "dtype %s is not part of the promotion lattice", b)
	}
	result := table[ia][ib]
	if result == dtypes.InvalidDType {
		return dtypes.InvalidDType, errors.Wrapf(types.ErrIncompatibleDType, "no promotion path between %s and %s", a, b)
	}
	return result, nil
}

// Resolve folds Promote over any number of dtypes. At least one is required.
func Resolve(dts ...dtypes.DType) (dtypes.DType, error) {
	if len(dts) == 0 {
		return dtypes.InvalidDType, errors.Wrap(types.ErrIncompatibleDType, "Resolve requires at least one dtype")
	}
	result := dts[0]
	if _, ok := dtypeIndex[result]; !ok {
		return dtypes.InvalidDType, errors.Wrapf(types.ErrIncompatibleDType, "dtype %s is not part of the promotion lattice", result)
	}
	var err error
	for _, dtype := range dts[1:] {
		result, err = Promote(result, dtype)
		if err != nil {
			return dtypes.InvalidDType, err
		}
	}
	return result, nil
}

// ResolveKinds returns the dtype for a combination of scalar literals, given
// only their kinds: all-boolean resolves to Bool; a boolean/integer mix to the
// default integer; any complex literal to the default complex; otherwise any
// float literal to the default float.
func (d Defaults) ResolveKinds(kinds ...types.Kind) (dtypes.DType, error) {
	if len(kinds) == 0 {
		return dtypes.InvalidDType, errors.Wrap(types.ErrIncompatibleDType, "ResolveKinds requires at least one kind")
	}
	highest := types.KindInvalid
	for _, kind := range kinds {
		if !kind.IsAKind() || kind == types.KindInvalid {
			return dtypes.InvalidDType, errors.Wrapf(types.ErrIncompatibleDType, "invalid scalar kind %s", kind)
		}
		highest = max(highest, kind)
	}
	switch highest {
	case types.KindBool:
		return dtypes.Bool, nil
	case types.KindInt:
		return d.Int, nil
	case types.KindFloat:
		return d.Float, nil
	}
	return d.Complex, nil
}
