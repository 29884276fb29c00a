package kind

import "mech/internal/value"

// primitiveClass groups ElemKinds into the buckets spec.md §4.4 compares:
// "two kinds are compatible if their primitive classes match".
type primitiveClass uint8

const (
	classBool primitiveClass = iota
	classInt
	classFloat
	classRational
	classComplex
	classString
	classAtom
	classEmpty
)

func classOf(k value.ElemKind) primitiveClass {
	switch {
	case k == value.KindBool:
		return classBool
	case k.IsInteger():
		return classInt
	case k.IsFloat():
		return classFloat
	case k == value.KindR64:
		return classRational
	case k == value.KindC64:
		return classComplex
	case k == value.KindString:
		return classString
	case k == value.KindAtom:
		return classAtom
	default:
		return classEmpty
	}
}

// Compatible reports whether two kinds can be unified by Convert,
// spec.md §4.4's compatibility rules. Any two numeric classes are
// compatible with each other and with string; bool is compatible only
// with the integer classes (and itself); atoms and the empty kind
// are only compatible with themselves.
func Compatible(a, b Kind) bool {
	a, b = Resolve(a), Resolve(b)
	switch av := a.(type) {
	case Primitive:
		bv, ok := b.(Primitive)
		if !ok {
			return false
		}
		return primitiveCompatible(av.Elem, bv.Elem)
	case AtomKind:
		bv, ok := b.(AtomKind)
		return ok && bv.Name == av.Name
	case TupleKind:
		bv, ok := b.(TupleKind)
		if !ok || len(av.Elems) != len(bv.Elems) {
			return false
		}
		for i := range av.Elems {
			if !Compatible(av.Elems[i], bv.Elems[i]) {
				return false
			}
		}
		return true
	case ArrayKind:
		bv, ok := b.(ArrayKind)
		if !ok || !Compatible(av.Elem, bv.Elem) || len(av.Dims) != len(bv.Dims) {
			return false
		}
		for i := range av.Dims {
			if av.Dims[i] < 0 || bv.Dims[i] < 0 {
				continue // `_` unifies with anything
			}
			if av.Dims[i] != bv.Dims[i] {
				return false
			}
		}
		return true
	case SetKind:
		bv, ok := b.(SetKind)
		return ok && Compatible(av.Elem, bv.Elem)
	case MapKind:
		bv, ok := b.(MapKind)
		return ok && Compatible(av.Key, bv.Key) && Compatible(av.Val, bv.Val)
	default:
		return a.String() == b.String()
	}
}

func primitiveCompatible(a, b value.ElemKind) bool {
	ca, cb := classOf(a), classOf(b)
	if ca == cb {
		return true
	}
	numeric := func(c primitiveClass) bool {
		return c == classInt || c == classFloat || c == classRational || c == classComplex
	}
	if numeric(ca) && numeric(cb) {
		return true
	}
	if (numeric(ca) && cb == classString) || (ca == classString && numeric(cb)) {
		return true
	}
	if (ca == classBool && cb == classInt) || (ca == classInt && cb == classBool) {
		return true
	}
	return false
}
