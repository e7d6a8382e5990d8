package promotion

import (
	"testing"

	"github.com/gomlx/arrayapi/types"
	"github.com/gomlx/gopjrt/dtypes"
	"github.com/pkg/errors"
)

// Aliases
var (
	Bool = dtypes.Bool
	I8   = dtypes.Int8
	I16  = dtypes.Int16
	I32  = dtypes.Int32
	I64  = dtypes.Int64
	U8   = dtypes.Uint8
	U32  = dtypes.Uint32
	U64  = dtypes.Uint64
	F16  = dtypes.Float16
	BF16 = dtypes.BFloat16
	F32  = dtypes.Float32
	F64  = dtypes.Float64
	C64  = dtypes.Complex64
	C128 = dtypes.Complex128
)

func must1[T any](value T, err error) T {
	if err != nil {
		panic(err)
	}
	return value
}

func TestPromotePairs(t *testing.T) {
	cases := []struct {
		a, b, want dtypes.DType
	}{
		// Identity.
		{Bool, Bool, Bool},
		{F32, F32, F32},
		// Bool is below everything.
		{Bool, I8, I8},
		{Bool, BF16, BF16},
		{Bool, C64, C64},
		// Same-signedness integers widen.
		{I8, I32, I32},
		{U8, U32, U32},
		// Mixed signedness lands on a signed type wide enough for both.
		{I8, U8, I16},
		{I32, U8, I32},
		{I8, U32, I64},
		// Crossing into the float kind: the float operand wins.
		{I16, F32, F32},
		{I64, F32, F32},
		{I8, BF16, BF16},
		{I64, F16, F16},
		{U64, F32, F32},
		// Float16 and BFloat16 are unordered siblings.
		{F16, BF16, F32},
		{F16, F64, F64},
		// Complex dominates integers outright, floats by component width.
		{I64, C64, C64},
		{F32, C64, C64},
		{F64, C64, C128},
		{C64, C128, C128},
	}
	for _, c := range cases {
		got, err := Promote(c.a, c.b)
		if err != nil {
			t.Errorf("Promote(%s, %s) returned error: %v", c.a, c.b, err)
			continue
		}
		if got != c.want {
			t.Errorf("Promote(%s, %s) = %s, want %s", c.a, c.b, got, c.want)
		}
	}
}

func TestPromoteIsCommutativeAndAssociative(t *testing.T) {
	for _, a := range supported {
		for _, b := range supported {
			ab, errAB := Promote(a, b)
			ba, errBA := Promote(b, a)
			if (errAB == nil) != (errBA == nil) {
				t.Fatalf("Promote(%s, %s) and Promote(%s, %s) disagree on failing", a, b, b, a)
			}
			if errAB == nil && ab != ba {
				t.Errorf("Promote(%s, %s) = %s but Promote(%s, %s) = %s", a, b, ab, b, a, ba)
			}
			if errAB == nil && a == b && ab != a {
				t.Errorf("Promote(%s, %s) = %s, want identity", a, a, ab)
			}
		}
	}

	// Associativity: resolve(resolve(a,b),c) == resolve(a,resolve(b,c)) for
	// every triple where all intermediate promotions are defined.
	for _, a := range supported {
		for _, b := range supported {
			for _, c := range supported {
				ab, err := Promote(a, b)
				if err != nil {
					continue
				}
				bc, err := Promote(b, c)
				if err != nil {
					continue
				}
				lhs, err1 := Promote(ab, c)
				rhs, err2 := Promote(a, bc)
				if err1 != nil || err2 != nil {
					continue
				}
				if lhs != rhs {
					t.Errorf("associativity broken for (%s, %s, %s): %s vs %s", a, b, c, lhs, rhs)
				}
			}
		}
	}
}

func TestPromoteNoPath(t *testing.T) {
	for _, signed := range []dtypes.DType{I8, I16, I32, I64} {
		if _, err := Promote(U64, signed); !errors.Is(err, types.ErrIncompatibleDType) {
			t.Errorf("Promote(Uint64, %s) should wrap ErrIncompatibleDType, got %v", signed, err)
		}
	}
	// But uint64 still promotes upward across kinds.
	if got := must1(Promote(U64, F32)); got != F32 {
		t.Errorf("Promote(Uint64, Float32) = %s, want Float32", got)
	}
	if _, err := Promote(dtypes.InvalidDType, F32); !errors.Is(err, types.ErrIncompatibleDType) {
		t.Errorf("Promote with invalid dtype should fail, got %v", err)
	}
}

func TestResolveKinds(t *testing.T) {
	d := Default()
	if got := must1(d.ResolveKinds(types.KindBool, types.KindBool)); got != Bool {
		t.Errorf("all-bool ResolveKinds = %s, want Bool", got)
	}
	if got := must1(d.ResolveKinds(types.KindBool, types.KindInt)); got != I64 {
		t.Errorf("bool/int ResolveKinds = %s, want Int64", got)
	}
	if got := must1(d.ResolveKinds(types.KindInt, types.KindFloat)); got != F64 {
		t.Errorf("int/float ResolveKinds = %s, want Float64", got)
	}
	if got := must1(d.ResolveKinds(types.KindFloat, types.KindComplex, types.KindInt)); got != C128 {
		t.Errorf("ResolveKinds with complex = %s, want Complex128", got)
	}
	if _, err := d.ResolveKinds(); err == nil {
		t.Error("ResolveKinds with no kinds should fail")
	}
	if _, err := d.ResolveKinds(types.KindInvalid); !errors.Is(err, types.ErrIncompatibleDType) {
		t.Errorf("ResolveKinds(KindInvalid) should wrap ErrIncompatibleDType, got %v", err)
	}
}

func TestDefaultsValidate(t *testing.T) {
	if err := Default().Validate(); err != nil {
		t.Errorf("Default().Validate() = %v, want nil", err)
	}
	bad := Default()
	bad.Int = F32
	if err := bad.Validate(); !errors.Is(err, types.ErrIncompatibleDType) {
		t.Errorf("Validate with float default int should fail, got %v", err)
	}
	bad = Default()
	bad.Index = U32
	if err := bad.Validate(); !errors.Is(err, types.ErrIncompatibleDType) {
		t.Errorf("Validate with unsigned index dtype should fail, got %v", err)
	}
}
