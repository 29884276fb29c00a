package kind

import (
	"fmt"
	"strconv"

	mewfloat "github.com/mewmew/float"

	"mech/internal/errors"
	"mech/internal/value"
)

// maxRationalDenominator bounds the continued-fraction expansion used by
// float->rational conversion (spec.md §4.4; Open Question 9.c resolved
// in SPEC_FULL.md §12 as round-half-to-even via a bounded expansion).
const maxRationalDenominator = 1 << 20

// Convert normalises v to target, implementing spec.md §4.4's
// conversion rules: same-kind passthrough, integer narrow/widen,
// float IEEE cast, rational<->float continued-fraction/best-effort,
// numeric->string, bool<->integer. Returns a KindError{UnhandledFunctionArgumentKind}
// when no rule applies.
func Convert(v value.Value, target Kind) (value.Value, error) {
	target = Resolve(target)
	prim, ok := target.(Primitive)
	if !ok {
		return nil, errors.NewKindError(errors.UnhandledFunctionArgumentKind, "convert",
			fmt.Sprintf("cannot convert %s to non-primitive kind %s", v.ElemKindOf(), target.String()),
			errors.SourceLocation{})
	}
	return ConvertElem(v, prim.Elem)
}

// ConvertElem is Convert specialised to a target ElemKind, used directly
// by the dispatch layer (C6) when unifying operand kinds.
func ConvertElem(v value.Value, target value.ElemKind) (value.Value, error) {
	if v.ElemKindOf() == target {
		return v, nil
	}
	switch target {
	case value.KindBool:
		return toBool(v)
	case value.KindF32, value.KindF64:
		return toFloat(v, target)
	case value.KindR64:
		return toRational(v)
	case value.KindC64:
		return toComplex(v)
	case value.KindString:
		return value.String(v.String()), nil
	default:
		if target.IsInteger() {
			return toInteger(v, target)
		}
	}
	return nil, errors.NewKindError(errors.UnhandledFunctionArgumentKind, "convert",
		fmt.Sprintf("no conversion from %s to %s", v.ElemKindOf(), target),
		errors.SourceLocation{})
}

func asInt64(v value.Value) (int64, bool) {
	switch x := v.(type) {
	case value.Bool:
		if x {
			return 1, true
		}
		return 0, true
	case value.I8:
		return int64(x), true
	case value.I16:
		return int64(x), true
	case value.I32:
		return int64(x), true
	case value.I64:
		return int64(x), true
	case value.U8:
		return int64(x), true
	case value.U16:
		return int64(x), true
	case value.U32:
		return int64(x), true
	case value.U64:
		return int64(x), true
	case value.F32:
		return int64(x), true
	case value.F64:
		return int64(x), true
	case value.Rational:
		return x.Num / x.Den, true
	}
	return 0, false
}

func asFloat64(v value.Value) (float64, bool) {
	switch x := v.(type) {
	case value.Bool:
		if x {
			return 1, true
		}
		return 0, true
	case value.I8:
		return float64(x), true
	case value.I16:
		return float64(x), true
	case value.I32:
		return float64(x), true
	case value.I64:
		return float64(x), true
	case value.U8:
		return float64(x), true
	case value.U16:
		return float64(x), true
	case value.U32:
		return float64(x), true
	case value.U64:
		return float64(x), true
	case value.F32:
		return float64(x), true
	case value.F64:
		return float64(x), true
	case value.Rational:
		return x.Float(), true
	case value.String:
		if f, err := mewfloat.NewFloat64FromString(string(x)); err == nil {
			return f, true
		}
		if f, err := strconv.ParseFloat(string(x), 64); err == nil {
			return f, true
		}
	}
	return 0, false
}

func toBool(v value.Value) (value.Value, error) {
	switch x := v.(type) {
	case value.Bool:
		return x, nil
	default:
		if n, ok := asInt64(v); ok {
			return value.Bool(n != 0), nil
		}
	}
	return nil, errors.NewKindError(errors.UnhandledFunctionArgumentKind, "convert",
		fmt.Sprintf("cannot convert %s to bool", v.ElemKindOf()), errors.SourceLocation{})
}

func toFloat(v value.Value, target value.ElemKind) (value.Value, error) {
	f, ok := asFloat64(v)
	if !ok {
		return nil, errors.NewKindError(errors.UnhandledFunctionArgumentKind, "convert",
			fmt.Sprintf("cannot convert %s to %s", v.ElemKindOf(), target), errors.SourceLocation{})
	}
	if target == value.KindF32 {
		return value.F32(float32(f)), nil
	}
	return value.F64(f), nil
}

func toInteger(v value.Value, target value.ElemKind) (value.Value, error) {
	n, ok := asInt64(v)
	if !ok {
		return nil, errors.NewKindError(errors.UnhandledFunctionArgumentKind, "convert",
			fmt.Sprintf("cannot convert %s to %s", v.ElemKindOf(), target), errors.SourceLocation{})
	}
	return narrowWiden(n, target), nil
}

// narrowWiden truncates or sign/zero-extends n into target, and wraps
// rather than saturates or errors, per SPEC_FULL.md §12's resolution of
// Open Question (a): every integer kernel (and hence every narrowing
// conversion) uses wrapping semantics.
func narrowWiden(n int64, target value.ElemKind) value.Value {
	switch target {
	case value.KindI8:
		return value.I8(int8(n))
	case value.KindI16:
		return value.I16(int16(n))
	case value.KindI32:
		return value.I32(int32(n))
	case value.KindI64:
		return value.I64(n)
	case value.KindU8:
		return value.U8(uint8(n))
	case value.KindU16:
		return value.U16(uint16(n))
	case value.KindU32:
		return value.U32(uint32(n))
	case value.KindU64:
		return value.U64(uint64(n))
	}
	return value.I64(n)
}

func toRational(v value.Value) (value.Value, error) {
	switch x := v.(type) {
	case value.Rational:
		return x, nil
	case value.String:
		f, ok := asFloat64(v)
		if !ok {
			return nil, errors.NewKindError(errors.UnhandledFunctionArgumentKind, "convert", "cannot convert string to r64", errors.SourceLocation{})
		}
		return floatToRational(f), nil
	default:
		if n, ok := asInt64(v); ok && !v.ElemKindOf().IsFloat() {
			return value.NewRational(n, 1), nil
		}
		if f, ok := asFloat64(v); ok {
			return floatToRational(f), nil
		}
	}
	return nil, errors.NewKindError(errors.UnhandledFunctionArgumentKind, "convert",
		fmt.Sprintf("cannot convert %s to r64", v.ElemKindOf()), errors.SourceLocation{})
}

// floatToRational expands f as a continued fraction, stopping once the
// denominator would exceed maxRationalDenominator — the
// round-half-to-even rounding mode spec.md recommends falls out of
// stopping at the best approximation within that bound.
func floatToRational(f float64) value.Rational {
	if f == 0 {
		return value.Rational{Num: 0, Den: 1}
	}
	neg := f < 0
	if neg {
		f = -f
	}
	// Standard continued-fraction best-rational-approximation loop.
	h0, h1 := int64(0), int64(1)
	k0, k1 := int64(1), int64(0)
	x := f
	for i := 0; i < 64; i++ {
		a := int64(x)
		h2 := a*h1 + h0
		k2 := a*k1 + k0
		if k2 > maxRationalDenominator {
			break
		}
		h0, h1 = h1, h2
		k0, k1 = k1, k2
		frac := x - float64(a)
		if frac < 1e-12 {
			break
		}
		x = 1 / frac
	}
	if k1 == 0 {
		k1 = 1
	}
	num := h1
	if neg {
		num = -num
	}
	return value.NewRational(num, k1)
}

func toComplex(v value.Value) (value.Value, error) {
	switch x := v.(type) {
	case value.Complex:
		return x, nil
	default:
		if f, ok := asFloat64(v); ok {
			return value.Complex{Re: f, Im: 0}, nil
		}
	}
	return nil, errors.NewKindError(errors.UnhandledFunctionArgumentKind, "convert",
		fmt.Sprintf("cannot convert %s to c64", v.ElemKindOf()), errors.SourceLocation{})
}
