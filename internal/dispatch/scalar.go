package dispatch

import (
	"fmt"
	"math"

	"mech/internal/errors"
	"mech/internal/kind"
	"mech/internal/value"
)

// ScalarArith runs one of +,-,*,/ on two scalars of the same element
// kind, implementing the wrapping integer semantics and rational
// canonicalisation SPEC_FULL.md §12 fixes for spec.md §4.5/§4.6.
func ScalarArith(op string, a, b value.Value) (value.Value, error) {
	ek := a.ElemKindOf()
	switch ek {
	case value.KindI8, value.KindI16, value.KindI32, value.KindI64,
		value.KindU8, value.KindU16, value.KindU32, value.KindU64:
		return integerArith(op, ek, a, b)
	case value.KindF32, value.KindF64:
		return floatArith(op, ek, a, b)
	case value.KindR64:
		return rationalArith(op, a.(value.Rational), b.(value.Rational))
	case value.KindC64:
		return complexArith(op, a.(value.Complex), b.(value.Complex))
	case value.KindString:
		if op == "+" {
			return value.String(string(a.(value.String)) + string(b.(value.String))), nil
		}
	}
	return nil, errors.NewKindError(errors.UnhandledFunctionArgumentKind, op,
		fmt.Sprintf("no scalar arithmetic kernel for %s on %s", op, ek), errors.SourceLocation{})
}

func intOf(v value.Value) int64 {
	switch x := v.(type) {
	case value.I8:
		return int64(x)
	case value.I16:
		return int64(x)
	case value.I32:
		return int64(x)
	case value.I64:
		return int64(x)
	case value.U8:
		return int64(x)
	case value.U16:
		return int64(x)
	case value.U32:
		return int64(x)
	case value.U64:
		return int64(x)
	}
	return 0
}

func reboxInt(ek value.ElemKind, n int64) value.Value {
	switch ek {
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

// integerArith wraps on overflow (SPEC_FULL.md §12, Open Question (a)):
// all arithmetic happens in int64/uint64 and is then truncated back to
// the element width, which is exactly wrapping_add/sub/mul semantics at
// every width Mech exposes.
func integerArith(op string, ek value.ElemKind, a, b value.Value) (value.Value, error) {
	x, y := intOf(a), intOf(b)
	var r int64
	switch op {
	case "+":
		r = x + y
	case "-":
		r = x - y
	case "*":
		r = x * y
	case "/":
		if y == 0 {
			return nil, errors.NewValueError(op, "integer division by zero", errors.SourceLocation{})
		}
		r = x / y
	default:
		return nil, errors.NewKindError(errors.UnhandledFunctionArgumentKind, op, "unsupported integer operator", errors.SourceLocation{})
	}
	return reboxInt(ek, r), nil
}

func floatOf(v value.Value) float64 {
	switch x := v.(type) {
	case value.F32:
		return float64(x)
	case value.F64:
		return float64(x)
	}
	return 0
}

func floatArith(op string, ek value.ElemKind, a, b value.Value) (value.Value, error) {
	x, y := floatOf(a), floatOf(b)
	var r float64
	switch op {
	case "+":
		r = x + y
	case "-":
		r = x - y
	case "*":
		r = x * y
	case "/":
		r = x / y // IEEE: division by zero yields +-Inf/NaN, not an error, for floats
	default:
		return nil, errors.NewKindError(errors.UnhandledFunctionArgumentKind, op, "unsupported float operator", errors.SourceLocation{})
	}
	if ek == value.KindF32 {
		return value.F32(float32(r)), nil
	}
	return value.F64(r), nil
}

func rationalArith(op string, a, b value.Rational) (value.Value, error) {
	switch op {
	case "+":
		return value.NewRational(a.Num*b.Den+b.Num*a.Den, a.Den*b.Den), nil
	case "-":
		return value.NewRational(a.Num*b.Den-b.Num*a.Den, a.Den*b.Den), nil
	case "*":
		return value.NewRational(a.Num*b.Num, a.Den*b.Den), nil
	case "/":
		if b.Num == 0 {
			return nil, errors.NewValueError(op, "rational division by zero", errors.SourceLocation{})
		}
		return value.NewRational(a.Num*b.Den, a.Den*b.Num), nil
	}
	return nil, errors.NewKindError(errors.UnhandledFunctionArgumentKind, op, "unsupported rational operator", errors.SourceLocation{})
}

func complexArith(op string, a, b value.Complex) (value.Value, error) {
	switch op {
	case "+":
		return value.Complex{Re: a.Re + b.Re, Im: a.Im + b.Im}, nil
	case "-":
		return value.Complex{Re: a.Re - b.Re, Im: a.Im - b.Im}, nil
	case "*":
		return value.Complex{Re: a.Re*b.Re - a.Im*b.Im, Im: a.Re*b.Im + a.Im*b.Re}, nil
	case "/":
		denom := b.Re*b.Re + b.Im*b.Im
		if denom == 0 {
			return nil, errors.NewValueError(op, "complex division by zero", errors.SourceLocation{})
		}
		return value.Complex{
			Re: (a.Re*b.Re + a.Im*b.Im) / denom,
			Im: (a.Im*b.Re - a.Re*b.Im) / denom,
		}, nil
	}
	return nil, errors.NewKindError(errors.UnhandledFunctionArgumentKind, op, "unsupported complex operator", errors.SourceLocation{})
}

// ScalarCompare implements spec.md §4.5 Comparisons for two same-kind
// scalars: ==/!= on complex compares parts exactly, on floats uses
// bitwise equality on the canonicalised NaN value, on strings is
// byte-equal; ordering ops use the total order from value.TotalOrderFloat64
// for floats and plain numeric/lexicographic order otherwise.
func ScalarCompare(op string, a, b value.Value) (value.Value, error) {
	ek := a.ElemKindOf()
	switch ek {
	case value.KindC64:
		ac, bc := a.(value.Complex), b.(value.Complex)
		eq := ac.Re == bc.Re && ac.Im == bc.Im
		switch op {
		case "==":
			return value.Bool(eq), nil
		case "!=":
			return value.Bool(!eq), nil
		}
		return nil, errors.NewKindError(errors.UnhandledFunctionArgumentKind, op, "complex values are not ordered", errors.SourceLocation{})
	case value.KindF32, value.KindF64:
		x, y := floatOf(a), floatOf(b)
		if op == "==" || op == "!=" {
			eq := math.Float64bits(x) == math.Float64bits(y) || (math.IsNaN(x) && math.IsNaN(y))
			return value.Bool(eq == (op == "==")), nil
		}
		c := value.TotalOrderFloat64(x, y)
		return value.Bool(cmpToBool(op, c)), nil
	case value.KindString:
		x, y := string(a.(value.String)), string(b.(value.String))
		c := 0
		if x < y {
			c = -1
		} else if x > y {
			c = 1
		}
		return value.Bool(cmpToBool(op, c)), nil
	case value.KindR64:
		x, y := a.(value.Rational).Float(), b.(value.Rational).Float()
		return value.Bool(cmpToBool(op, value.TotalOrderFloat64(x, y))), nil
	case value.KindBool:
		x, y := bool(a.(value.Bool)), bool(b.(value.Bool))
		c := 0
		if !x && y {
			c = -1
		} else if x && !y {
			c = 1
		}
		return value.Bool(cmpToBool(op, c)), nil
	default:
		x, y := intOf(a), intOf(b)
		c := 0
		if x < y {
			c = -1
		} else if x > y {
			c = 1
		}
		return value.Bool(cmpToBool(op, c)), nil
	}
}

func cmpToBool(op string, c int) bool {
	switch op {
	case "==":
		return c == 0
	case "!=":
		return c != 0
	case ">":
		return c > 0
	case ">=":
		return c >= 0
	case "<":
		return c < 0
	case "<=":
		return c <= 0
	}
	return false
}

// ScalarLogic implements &, |, xor, ! on bool scalars (spec.md §4.5
// Logical: "no numeric promotion").
func ScalarLogic(op string, a, b value.Value) (value.Value, error) {
	x := bool(a.(value.Bool))
	if op == "!" {
		return value.Bool(!x), nil
	}
	y := bool(b.(value.Bool))
	switch op {
	case "&":
		return value.Bool(x && y), nil
	case "|":
		return value.Bool(x || y), nil
	case "xor":
		return value.Bool(x != y), nil
	}
	return nil, errors.NewKindError(errors.UnhandledFunctionArgumentKind, op, "unsupported logical operator", errors.SourceLocation{})
}

// UnifyElemKind converts b to a's element kind (spec.md §4.4 rule 4:
// "attempt to convert RHS to LHS kind"), returning an
// UnhandledFunctionArgumentKind error if that fails.
func UnifyElemKind(a, b value.Value) (value.Value, value.Value, error) {
	if a.ElemKindOf() == b.ElemKindOf() {
		return a, b, nil
	}
	conv, err := kind.ConvertElem(b, a.ElemKindOf())
	if err != nil {
		return nil, nil, err
	}
	return a, conv, nil
}
