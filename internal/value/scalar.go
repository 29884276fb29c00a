package value

import (
	"fmt"
	"math"
	"math/big"

	"modernc.org/mathutil"
)

// Value is the closed sum type every component exchanges: scalars,
// containers (Matrix, Tuple, Record, Table, Set, Map, Range,
// IndexSpecifier) and MutableReference. Concrete types live in this
// file, matrix.go and container.go.
type Value interface {
	ElemKindOf() ElemKind
	String() string
	isValue()
}

// Bool is a boolean scalar.
type Bool bool

func (Bool) isValue()            {}
func (Bool) ElemKindOf() ElemKind { return KindBool }
func (b Bool) String() string    { return fmt.Sprintf("%v", bool(b)) }

// Signed/unsigned integer scalars, 8 through 64 bits natively.
type (
	I8  int8
	I16 int16
	I32 int32
	I64 int64
	U8  uint8
	U16 uint16
	U32 uint32
	U64 uint64
)

func (I8) isValue()              {}
func (I8) ElemKindOf() ElemKind  { return KindI8 }
func (v I8) String() string      { return fmt.Sprintf("%d", int8(v)) }
func (I16) isValue()             {}
func (I16) ElemKindOf() ElemKind { return KindI16 }
func (v I16) String() string     { return fmt.Sprintf("%d", int16(v)) }
func (I32) isValue()             {}
func (I32) ElemKindOf() ElemKind { return KindI32 }
func (v I32) String() string     { return fmt.Sprintf("%d", int32(v)) }
func (I64) isValue()             {}
func (I64) ElemKindOf() ElemKind { return KindI64 }
func (v I64) String() string     { return fmt.Sprintf("%d", int64(v)) }
func (U8) isValue()              {}
func (U8) ElemKindOf() ElemKind  { return KindU8 }
func (v U8) String() string      { return fmt.Sprintf("%d", uint8(v)) }
func (U16) isValue()             {}
func (U16) ElemKindOf() ElemKind { return KindU16 }
func (v U16) String() string     { return fmt.Sprintf("%d", uint16(v)) }
func (U32) isValue()             {}
func (U32) ElemKindOf() ElemKind { return KindU32 }
func (v U32) String() string     { return fmt.Sprintf("%d", uint32(v)) }
func (U64) isValue()             {}
func (U64) ElemKindOf() ElemKind { return KindU64 }
func (v U64) String() string     { return fmt.Sprintf("%d", uint64(v)) }

// I128/U128 hold 128-bit integers via math/big, since Go has no native
// 128-bit integer type. A *big.Int would make the zero value unsafe to
// copy, so these wrap one behind a constructor.
type I128 struct{ v *big.Int }
type U128 struct{ v *big.Int }

func NewI128(v *big.Int) I128 { return I128{v: new(big.Int).Set(v)} }
func NewU128(v *big.Int) U128 { return U128{v: new(big.Int).Set(v)} }

func (x I128) Big() *big.Int { return new(big.Int).Set(x.v) }
func (x U128) Big() *big.Int { return new(big.Int).Set(x.v) }

func (I128) isValue()             {}
func (I128) ElemKindOf() ElemKind { return KindI128 }
func (x I128) String() string     { return x.v.String() }
func (U128) isValue()             {}
func (U128) ElemKindOf() ElemKind { return KindU128 }
func (x U128) String() string     { return x.v.String() }

// Float32/Float64 use a total order where NaN = NaN and NaN sorts after
// +Inf (spec.md §3 invariant and Design Notes "NaN ordering").
type F32 float32
type F64 float64

func (F32) isValue()             {}
func (F32) ElemKindOf() ElemKind { return KindF32 }
func (v F32) String() string     { return fmt.Sprintf("%g", float32(v)) }
func (F64) isValue()             {}
func (F64) ElemKindOf() ElemKind { return KindF64 }
func (v F64) String() string     { return fmt.Sprintf("%g", float64(v)) }

// TotalOrderFloat64 implements spec.md's deterministic float ordering:
// NaN equals itself and sorts after every finite value and +Inf.
func TotalOrderFloat64(a, b float64) int {
	aNaN, bNaN := math.IsNaN(a), math.IsNaN(b)
	switch {
	case aNaN && bNaN:
		return 0
	case aNaN:
		return 1
	case bNaN:
		return -1
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

// Rational is a canonical 64-bit rational: denominator > 0,
// gcd(|Num|, Den) == 1, sign lives on Num (spec.md §3 invariant 3).
type Rational struct {
	Num int64
	Den int64
}

// NewRational builds a canonical Rational from (num, den), reducing by
// gcd and normalising the sign, via modernc.org/mathutil's GCD helper —
// the reduction step every arithmetic kernel re-runs after +,-,*,/
// (SPEC_FULL.md §11). den == 0 is a caller error (spec.md §7.4: division
// by zero is an error value, never a stored rational) — callers must
// check before constructing.
func NewRational(num, den int64) Rational {
	if den == 0 {
		panic("value: NewRational called with zero denominator")
	}
	if den < 0 {
		num, den = -num, -den
	}
	if num == 0 {
		return Rational{Num: 0, Den: 1}
	}
	n, d := num, den
	if n < 0 {
		n = -n
	}
	g := int64(mathutil.GCDUint64(uint64(n), uint64(d)))
	if g == 0 {
		g = 1
	}
	return Rational{Num: num / g, Den: den / g}
}

func (Rational) isValue()             {}
func (Rational) ElemKindOf() ElemKind { return KindR64 }
func (r Rational) String() string     { return fmt.Sprintf("%d/%d", r.Num, r.Den) }
func (r Rational) Float() float64     { return float64(r.Num) / float64(r.Den) }

// Complex is a 64-bit complex number: two float64 parts.
type Complex struct {
	Re float64
	Im float64
}

func (Complex) isValue()             {}
func (Complex) ElemKindOf() ElemKind { return KindC64 }
func (c Complex) String() string {
	if c.Im < 0 {
		return fmt.Sprintf("%g%gi", c.Re, c.Im)
	}
	return fmt.Sprintf("%g+%gi", c.Re, c.Im)
}

// String is Mech's string scalar; the Value is the text itself, with no
// separate interning table.
type String string

func (String) isValue()             {}
func (String) ElemKindOf() ElemKind { return KindString }
func (s String) String() string     { return string(s) }

// Atom is the hash of an atom literal's text (spec.md §3: "atoms (hash
// of their literal text)").
type Atom struct {
	Name string
	Hash uint64
}

func NewAtom(name string) Atom {
	return Atom{Name: name, Hash: fnv1a(name)}
}

func fnv1a(s string) uint64 {
	const offset64 = 14695981039346656037
	const prime64 = 1099511628211
	h := uint64(offset64)
	for i := 0; i < len(s); i++ {
		h ^= uint64(s[i])
		h *= prime64
	}
	return h
}

func (Atom) isValue()             {}
func (Atom) ElemKindOf() ElemKind { return KindAtom }
func (a Atom) String() string     { return "`" + a.Name }

// Empty is the Mech unit/empty-table/no-value placeholder.
type Empty struct{}

func (Empty) isValue()             {}
func (Empty) ElemKindOf() ElemKind { return KindEmpty }
func (Empty) String() string       { return "_" }
