// Package kind implements Mech's kind (type) system: the surface kind
// grammar (spec.md §4.4), compatibility rules and value conversions
// (spec.md §4.4, component C5).
package kind

import (
	"fmt"
	"strings"

	"mech/internal/value"
)

// Kind is the surface type notation written inside `<...>` (spec.md
// Glossary). It is distinct from value.ElemKind: a Kind is source-level
// syntax (possibly a user alias, a sized record, a function type); an
// ElemKind is the runtime tag on a scalar/matrix element.
type Kind interface {
	isKind()
	String() string
}

// Primitive is one of the scalar primitive kind names.
type Primitive struct{ Elem value.ElemKind }

func (Primitive) isKind()         {}
func (p Primitive) String() string { return p.Elem.String() }

// AtomKind is a user atom kind, written `` `Name ``.
type AtomKind struct{ Name string }

func (AtomKind) isKind()         {}
func (a AtomKind) String() string { return "`" + a.Name }

// TupleKind is `(K, K, ...)`.
type TupleKind struct{ Elems []Kind }

func (TupleKind) isKind() {}
func (t TupleKind) String() string {
	parts := make([]string, len(t.Elems))
	for i, e := range t.Elems {
		parts[i] = e.String()
	}
	return "(" + strings.Join(parts, ", ") + ")"
}

// ArrayKind is `[K]:d1,d2,...`; a dimension of -1 means dynamic (`_`).
type ArrayKind struct {
	Elem Kind
	Dims []int
}

func (ArrayKind) isKind() {}
func (a ArrayKind) String() string {
	dims := make([]string, len(a.Dims))
	for i, d := range a.Dims {
		if d < 0 {
			dims[i] = "_"
		} else {
			dims[i] = fmt.Sprintf("%d", d)
		}
	}
	return fmt.Sprintf("[%s]:%s", a.Elem.String(), strings.Join(dims, ","))
}

// RecordKind is `{f1<K1>, f2<K2>, ...}:rows,cols`; Sized is false when
// the `:rows,cols` tag was omitted (defaults to a single record).
type RecordKind struct {
	Fields []string
	Kinds  []Kind
	Rows   int
	Cols   int
	Sized  bool
}

func (RecordKind) isKind() {}
func (r RecordKind) String() string {
	parts := make([]string, len(r.Fields))
	for i, f := range r.Fields {
		parts[i] = fmt.Sprintf("%s<%s>", f, r.Kinds[i].String())
	}
	s := "{" + strings.Join(parts, ", ") + "}"
	if r.Sized {
		s += fmt.Sprintf(":%d,%d", r.Rows, r.Cols)
	}
	return s
}

// TableKind is `|h1<K1> h2<K2> ...|:rows,cols`.
type TableKind struct {
	Headers []string
	Kinds   []Kind
	Rows    int
	Cols    int
}

func (TableKind) isKind() {}
func (t TableKind) String() string {
	parts := make([]string, len(t.Headers))
	for i, h := range t.Headers {
		parts[i] = fmt.Sprintf("%s<%s>", h, t.Kinds[i].String())
	}
	return fmt.Sprintf("|%s|:%d,%d", strings.Join(parts, " "), t.Rows, t.Cols)
}

// SetKind is `{K}`.
type SetKind struct{ Elem Kind }

func (SetKind) isKind()         {}
func (s SetKind) String() string { return "{" + s.Elem.String() + "}" }

// MapKind is `{Kk:Kv}`.
type MapKind struct{ Key, Val Kind }

func (MapKind) isKind()         {}
func (m MapKind) String() string { return fmt.Sprintf("{%s:%s}", m.Key.String(), m.Val.String()) }

// FuncKind is `(K1, K2, ...)=(Kr1, ...)`.
type FuncKind struct {
	Params  []Kind
	Results []Kind
}

func (FuncKind) isKind() {}
func (f FuncKind) String() string {
	ps := make([]string, len(f.Params))
	for i, p := range f.Params {
		ps[i] = p.String()
	}
	rs := make([]string, len(f.Results))
	for i, r := range f.Results {
		rs[i] = r.String()
	}
	return fmt.Sprintf("(%s)=(%s)", strings.Join(ps, ", "), strings.Join(rs, ", "))
}

// AliasKind is a user-defined `<name> := <kind>` alias.
type AliasKind struct {
	Name  string
	Under Kind
}

func (AliasKind) isKind()         {}
func (a AliasKind) String() string { return a.Name }

// Resolve follows alias chains down to the first non-alias Kind.
func Resolve(k Kind) Kind {
	for {
		a, ok := k.(AliasKind)
		if !ok {
			return k
		}
		k = a.Under
	}
}

// primitiveNames maps surface primitive kind names to their ElemKind,
// used by the parser when it encounters a `<name>` annotation.
var primitiveNames = map[string]value.ElemKind{
	"bool": value.KindBool,
	"i8": value.KindI8, "i16": value.KindI16, "i32": value.KindI32, "i64": value.KindI64, "i128": value.KindI128,
	"u8": value.KindU8, "u16": value.KindU16, "u32": value.KindU32, "u64": value.KindU64, "u128": value.KindU128,
	"f32": value.KindF32, "f64": value.KindF64,
	"r64": value.KindR64, "c64": value.KindC64,
	"string": value.KindString,
}

// LookupPrimitive returns the Primitive Kind for a surface name, if any.
func LookupPrimitive(name string) (Kind, bool) {
	ek, ok := primitiveNames[name]
	if !ok {
		return nil, false
	}
	return Primitive{Elem: ek}, true
}
