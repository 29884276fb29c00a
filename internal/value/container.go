package value

import (
	"fmt"
	"strings"
)

// Tuple is a heterogeneous, ordered fixed-size sequence — spec.md §3.
type Tuple struct {
	Elements []Value
}

func (*Tuple) isValue()             {}
func (*Tuple) ElemKindOf() ElemKind { return KindEmpty }
func (t *Tuple) String() string {
	parts := make([]string, len(t.Elements))
	for i, e := range t.Elements {
		parts[i] = e.String()
	}
	return "(" + strings.Join(parts, ", ") + ")"
}

// Record is an ordered map identifier -> Value (spec.md §3).
type Record struct {
	Fields []string
	Values []Value
}

func NewRecord() *Record { return &Record{} }

func (r *Record) Get(name string) (Value, bool) {
	for i, f := range r.Fields {
		if f == name {
			return r.Values[i], true
		}
	}
	return nil, false
}

func (r *Record) Set(name string, v Value) {
	for i, f := range r.Fields {
		if f == name {
			r.Values[i] = v
			return
		}
	}
	r.Fields = append(r.Fields, name)
	r.Values = append(r.Values, v)
}

func (*Record) isValue()             {}
func (*Record) ElemKindOf() ElemKind { return KindEmpty }
func (r *Record) String() string {
	parts := make([]string, len(r.Fields))
	for i, f := range r.Fields {
		parts[i] = fmt.Sprintf("%s: %s", f, r.Values[i].String())
	}
	return "{" + strings.Join(parts, ", ") + "}"
}

// Column is one named, kinded table column backed by an AnyMatrix of
// column-vector shape (spec.md §3: "ordered map from identifier ->
// column matrix, all columns of equal length").
type Column struct {
	Name string
	Kind ElemKind
	Data AnyMatrix
}

// Table is Mech's ordered-columns value, spec.md §3 invariant 2: all
// columns equal length, each matching its declared attribute kind.
type Table struct {
	Columns []Column
}

func (t *Table) NumRows() int {
	if len(t.Columns) == 0 {
		return 0
	}
	return t.Columns[0].Data.ShapeOf().Rows
}

func (t *Table) Column(name string) (*Column, int, bool) {
	for i := range t.Columns {
		if t.Columns[i].Name == name {
			return &t.Columns[i], i, true
		}
	}
	return nil, -1, false
}

func (*Table) isValue()             {}
func (*Table) ElemKindOf() ElemKind { return KindEmpty }
func (t *Table) String() string {
	names := make([]string, len(t.Columns))
	for i, c := range t.Columns {
		names[i] = c.Name
	}
	return fmt.Sprintf("|%s|:%d,%d", strings.Join(names, " "), t.NumRows(), len(t.Columns))
}

// Set is an insertion-ordered unique collection (spec.md §3).
type Set struct {
	order []Value
	seen  map[string]bool
}

func NewSet() *Set { return &Set{seen: map[string]bool{}} }

func (s *Set) Add(v Value) {
	key := v.String()
	if s.seen[key] {
		return
	}
	s.seen[key] = true
	s.order = append(s.order, v)
}

func (s *Set) Contains(v Value) bool { return s.seen[v.String()] }
func (s *Set) Len() int              { return len(s.order) }
func (s *Set) Elements() []Value     { return s.order }

func (*Set) isValue()             {}
func (*Set) ElemKindOf() ElemKind { return KindEmpty }
func (s *Set) String() string {
	parts := make([]string, len(s.order))
	for i, v := range s.order {
		parts[i] = v.String()
	}
	return "{" + strings.Join(parts, ", ") + "}"
}

// Map is an ordered K->V collection (spec.md §3).
type Map struct {
	keys []Value
	vals []Value
}

func NewMap() *Map { return &Map{} }

func (m *Map) Get(k Value) (Value, bool) {
	key := k.String()
	for i, kk := range m.keys {
		if kk.String() == key {
			return m.vals[i], true
		}
	}
	return nil, false
}

func (m *Map) Set(k, v Value) {
	key := k.String()
	for i, kk := range m.keys {
		if kk.String() == key {
			m.vals[i] = v
			return
		}
	}
	m.keys = append(m.keys, k)
	m.vals = append(m.vals, v)
}

func (m *Map) Keys() []Value   { return m.keys }
func (m *Map) Values() []Value { return m.vals }

func (*Map) isValue()             {}
func (*Map) ElemKindOf() ElemKind { return KindEmpty }
func (m *Map) String() string {
	parts := make([]string, len(m.keys))
	for i := range m.keys {
		parts[i] = fmt.Sprintf("%q: %s", m.keys[i].String(), m.vals[i].String())
	}
	return "{" + strings.Join(parts, ", ") + "}"
}

// Range is a lazy, bounded range with an optional step and inclusivity
// flag (spec.md §3, §4.6).
type Range struct {
	Start     int64
	Stop      int64
	Step      int64
	Inclusive bool
	IsFloat   bool
	FStart    float64
	FStop     float64
	FStep     float64
}

// Len returns the number of elements the range produces, per testable
// property 6 in spec.md §8.
func (r Range) Len() int {
	if r.IsFloat {
		if r.FStep == 0 {
			return 0
		}
		span := (r.FStop - r.FStart) / r.FStep
		if span < 0 {
			return 0
		}
		n := int(span)
		if r.Inclusive {
			return n + 1
		}
		if float64(n) < span {
			n++
		}
		return n
	}
	if r.Step == 0 {
		return 0
	}
	span := r.Stop - r.Start
	if r.Inclusive {
		if (span >= 0) != (r.Step > 0) && span != 0 {
			return 0
		}
		return int(span/r.Step) + 1
	}
	if (span > 0) != (r.Step > 0) {
		return 0
	}
	n := span / r.Step
	if span%r.Step != 0 {
		n++
	}
	if n < 0 {
		n = 0
	}
	return int(n)
}

// At returns the i'th (1-based) element of an integer range.
func (r Range) At(i int) int64 { return r.Start + int64(i-1)*r.Step }

func (Range) isValue()             {}
func (Range) ElemKindOf() ElemKind { return KindI64 }
func (r Range) String() string {
	op := ":"
	if r.Inclusive {
		op = "..="
	}
	if r.Step != 1 {
		return fmt.Sprintf("%d:%d%s%d", r.Start, r.Step, op, r.Stop)
	}
	return fmt.Sprintf("%d%s%d", r.Start, op, r.Stop)
}

// IndexSpecifierKind tags which of the four index forms spec.md §3/§4.6
// names an IndexSpecifier carries.
type IndexSpecifierKind uint8

const (
	IndexAll IndexSpecifierKind = iota
	IndexScalar
	IndexVector
	IndexLogical
)

// IndexSpecifier is one axis selector in a (possibly two-axis) index
// expression: all (:), a single scalar, a vector of scalar indices, or a
// logical (boolean) mask vector.
type IndexSpecifier struct {
	Kind     IndexSpecifierKind
	Scalar   int64
	Vector   []int64
	Logical  []bool
}

func (IndexSpecifier) isValue()             {}
func (IndexSpecifier) ElemKindOf() ElemKind { return KindI64 }
func (s IndexSpecifier) String() string {
	switch s.Kind {
	case IndexAll:
		return ":"
	case IndexScalar:
		return fmt.Sprintf("%d", s.Scalar)
	case IndexLogical:
		return "<logical>"
	default:
		return "<vector>"
	}
}
