package types

import (
	"fmt"
	"math"

	"github.com/gomlx/gopjrt/dtypes"
	"github.com/pkg/errors"
	"github.com/x448/float16"
)

// Scalar is one array element tagged with its dtype.
// Only the fields matching the dtype's kind are meaningful: Bool for booleans,
// Int for signed integers, Uint for unsigned integers, Real for floats, and
// Real+Imag for complex numbers. Float16 and BFloat16 values are held in Real
// already rounded to their representable set.
type Scalar struct {
	DType dtypes.DType

	Bool bool
	Int  int64
	Uint uint64
	Real float64
	Imag float64
}

// CastPolicy selects how Cast treats values that the target dtype cannot
// represent. The engine never chooses a policy on its own: it is part of the
// injected configuration.
type CastPolicy int

const (
	// CastWrap uses Go conversion semantics: integers wrap around, floats
	// overflow to infinities, float-to-integer truncates toward zero.
	CastWrap CastPolicy = iota

	// CastExact fails with ErrIncompatibleDType whenever a value would not
	// survive the conversion: integer narrowing out of range, non-integral or
	// out-of-range float-to-integer conversion, finite floats overflowing to
	// infinity, or complex values with a non-zero imaginary part cast to a
	// real dtype. Rounding within a float kind (e.g. Float64 to Float32) is
	// not an error.
	CastExact
)

// FromBool returns a Bool scalar.
func FromBool(value bool) Scalar {
	return Scalar{DType: dtypes.Bool, Bool: value}
}

// FromInt returns a scalar of the given signed integer dtype.
func FromInt(dtype dtypes.DType, value int64) Scalar {
	return Scalar{DType: dtype, Int: value}
}

// FromUint returns a scalar of the given unsigned integer dtype.
func FromUint(dtype dtypes.DType, value uint64) Scalar {
	return Scalar{DType: dtype, Uint: value}
}

// FromFloat returns a scalar of the given float dtype, rounding the value to
// the dtype's representable set (relevant for Float16 and BFloat16).
func FromFloat(dtype dtypes.DType, value float64) Scalar {
	return Scalar{DType: dtype, Real: roundToFloatDType(dtype, value)}
}

// FromComplex returns a scalar of the given complex dtype.
func FromComplex(dtype dtypes.DType, value complex128) Scalar {
	re, im := real(value), imag(value)
	if dtype == dtypes.Complex64 {
		re = float64(float32(re))
		im = float64(float32(im))
	}
	return Scalar{DType: dtype, Real: re, Imag: im}
}

// FromGoValue converts a Go scalar (bool, any int/uint, float or complex) to
// a Scalar of the corresponding dtype.
func FromGoValue(value any) (Scalar, error) {
	switch v := value.(type) {
	case bool:
		return FromBool(v), nil
	case int:
		return FromInt(dtypes.Int64, int64(v)), nil
	case int8:
		return FromInt(dtypes.Int8, int64(v)), nil
	case int16:
		return FromInt(dtypes.Int16, int64(v)), nil
	case int32:
		return FromInt(dtypes.Int32, int64(v)), nil
	case int64:
		return FromInt(dtypes.Int64, v), nil
	case uint:
		return FromUint(dtypes.Uint64, uint64(v)), nil
	case uint8:
		return FromUint(dtypes.Uint8, uint64(v)), nil
	case uint16:
		return FromUint(dtypes.Uint16, uint64(v)), nil
	case uint32:
		return FromUint(dtypes.Uint32, uint64(v)), nil
	case uint64:
		return FromUint(dtypes.Uint64, v), nil
	case float32:
		return FromFloat(dtypes.Float32, float64(v)), nil
	case float64:
		return FromFloat(dtypes.Float64, v), nil
	case complex64:
		return FromComplex(dtypes.Complex64, complex128(v)), nil
	case complex128:
		return FromComplex(dtypes.Complex128, v), nil
	}
	return Scalar{}, errors.Errorf("type %T is not supported as an array element type", value)
}

// Kind returns the lattice level of the scalar's dtype.
func (s Scalar) Kind() Kind {
	return KindOf(s.DType)
}

// AsFloat64 returns the value converted to float64. For complex values it
// returns the real part.
func (s Scalar) AsFloat64() float64 {
	switch s.Kind() {
	case KindBool:
		if s.Bool {
			return 1
		}
		return 0
	case KindInt:
		if s.DType.IsUnsigned() {
			return float64(s.Uint)
		}
		return float64(s.Int)
	default:
		return s.Real
	}
}

// AsComplex128 returns the value converted to complex128.
func (s Scalar) AsComplex128() complex128 {
	if s.Kind() == KindComplex {
		return complex(s.Real, s.Imag)
	}
	return complex(s.AsFloat64(), 0)
}

// HasNaN reports whether the value is NaN, or -- for complex values -- whether
// at least one of its components is NaN.
func (s Scalar) HasNaN() bool {
	switch s.Kind() {
	case KindFloat:
		return math.IsNaN(s.Real)
	case KindComplex:
		return math.IsNaN(s.Real) || math.IsNaN(s.Imag)
	}
	return false
}

// IsZero reports whether the value is zero. Both signed zeros count, as do
// complex values whose two components are (signed) zeros. Bool false is zero.
func (s Scalar) IsZero() bool {
	switch s.Kind() {
	case KindBool:
		return !s.Bool
	case KindInt:
		if s.DType.IsUnsigned() {
			return s.Uint == 0
		}
		return s.Int == 0
	case KindFloat:
		return s.Real == 0
	case KindComplex:
		return s.Real == 0 && s.Imag == 0
	}
	return false
}

// Cast converts the scalar to the given dtype under the given policy.
// Failures wrap ErrIncompatibleDType.
func (s Scalar) Cast(dtype dtypes.DType, policy CastPolicy) (Scalar, error) {
	if dtype == s.DType {
		return s, nil
	}
	switch KindOf(dtype) {
	case KindBool:
		if s.Kind() != KindBool {
			return Scalar{}, errors.Wrapf(ErrIncompatibleDType, "cannot cast %s to %s", s.DType, dtype)
		}
		return FromBool(s.Bool), nil

	case KindInt:
		return s.castToInt(dtype, policy)

	case KindFloat:
		return s.castToFloat(dtype, policy)

	case KindComplex:
		return FromComplex(dtype, s.AsComplex128()), nil
	}
	return Scalar{}, errors.Wrapf(ErrIncompatibleDType, "cannot cast %s to %s", s.DType, dtype)
}

func (s Scalar) castToInt(dtype dtypes.DType, policy CastPolicy) (Scalar, error) {
	unsigned := dtype.IsUnsigned()
	var asInt int64
	var asUint uint64
	switch s.Kind() {
	case KindBool:
		if s.Bool {
			asInt, asUint = 1, 1
		}
	case KindInt:
		if s.DType.IsUnsigned() {
			asUint = s.Uint
			asInt = int64(s.Uint)
			if policy == CastExact && !unsigned && s.Uint > math.MaxInt64 {
				return Scalar{}, errors.Wrapf(ErrIncompatibleDType, "value %d does not fit in %s", s.Uint, dtype)
			}
		} else {
			asInt = s.Int
			asUint = uint64(s.Int)
			if policy == CastExact && unsigned && s.Int < 0 {
				return Scalar{}, errors.Wrapf(ErrIncompatibleDType, "value %d does not fit in %s", s.Int, dtype)
			}
		}
	case KindFloat, KindComplex:
		if s.Kind() == KindComplex && s.Imag != 0 && policy == CastExact {
			return Scalar{}, errors.Wrapf(ErrIncompatibleDType, "cannot cast complex value %s with non-zero imaginary part to %s", s, dtype)
		}
		v := s.Real
		if policy == CastExact && (math.IsNaN(v) || v != math.Trunc(v)) {
			return Scalar{}, errors.Wrapf(ErrIncompatibleDType, "value %v is not an integer, cannot cast to %s", v, dtype)
		}
		asInt = int64(v)
		asUint = uint64(v)
		if policy == CastExact {
			if unsigned && (v < 0 || v >= math.MaxUint64) {
				return Scalar{}, errors.Wrapf(ErrIncompatibleDType, "value %v does not fit in %s", v, dtype)
			}
			if !unsigned && (v < math.MinInt64 || v > math.MaxInt64) {
				return Scalar{}, errors.Wrapf(ErrIncompatibleDType, "value %v does not fit in %s", v, dtype)
			}
		}
	}

	bits := intDTypeBits(dtype)
	if unsigned {
		wrapped := wrapUint(asUint, bits)
		if policy == CastExact && wrapped != asUint {
			return Scalar{}, errors.Wrapf(ErrIncompatibleDType, "value %d does not fit in %s", asUint, dtype)
		}
		return FromUint(dtype, wrapped), nil
	}
	wrapped := wrapInt(asInt, bits)
	if policy == CastExact && wrapped != asInt {
		return Scalar{}, errors.Wrapf(ErrIncompatibleDType, "value %d does not fit in %s", asInt, dtype)
	}
	return FromInt(dtype, wrapped), nil
}

func (s Scalar) castToFloat(dtype dtypes.DType, policy CastPolicy) (Scalar, error) {
	if s.Kind() == KindComplex {
		if s.Imag != 0 && policy == CastExact {
			return Scalar{}, errors.Wrapf(ErrIncompatibleDType, "cannot cast complex value %s with non-zero imaginary part to %s", s, dtype)
		}
		return FromFloat(dtype, s.Real), nil
	}
	v := s.AsFloat64()
	rounded := roundToFloatDType(dtype, v)
	if policy == CastExact && !math.IsInf(v, 0) && math.IsInf(rounded, 0) {
		return Scalar{}, errors.Wrapf(ErrIncompatibleDType, "value %v overflows %s", v, dtype)
	}
	return Scalar{DType: dtype, Real: rounded}, nil
}

// String implements fmt.Stringer, mostly for error messages.
func (s Scalar) String() string {
	switch s.Kind() {
	case KindBool:
		return fmt.Sprintf("%v", s.Bool)
	case KindInt:
		if s.DType.IsUnsigned() {
			return fmt.Sprintf("%d", s.Uint)
		}
		return fmt.Sprintf("%d", s.Int)
	case KindFloat:
		return fmt.Sprintf("%v", s.Real)
	case KindComplex:
		return fmt.Sprintf("%v", complex(s.Real, s.Imag))
	}
	return "invalid"
}

// roundToFloatDType rounds a float64 to the representable set of the given
// float dtype. Float16 goes through the IEEE half-precision conversion and
// BFloat16 through round-to-nearest-even truncation of the float32 bits.
func roundToFloatDType(dtype dtypes.DType, v float64) float64 {
	switch dtype {
	case dtypes.Float16:
		return float64(float16.Fromfloat32(float32(v)).Float32())
	case dtypes.BFloat16:
		if math.IsNaN(v) {
			return v
		}
		bits := math.Float32bits(float32(v))
		bits += 0x7FFF + (bits>>16)&1
		return float64(math.Float32frombits(bits & 0xFFFF0000))
	case dtypes.Float32:
		return float64(float32(v))
	}
	return v
}

func intDTypeBits(dtype dtypes.DType) int {
	switch dtype {
	case dtypes.Int8, dtypes.Uint8:
		return 8
	case dtypes.Int16, dtypes.Uint16:
		return 16
	case dtypes.Int32, dtypes.Uint32:
		return 32
	}
	return 64
}

func wrapInt(v int64, bits int) int64 {
	if bits == 64 {
		return v
	}
	shift := 64 - bits
	return v << shift >> shift
}

func wrapUint(v uint64, bits int) uint64 {
	if bits == 64 {
		return v
	}
	return v & (1<<bits - 1)
}
