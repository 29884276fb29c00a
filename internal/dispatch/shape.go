// Package dispatch implements Mech's operation-dispatch engine
// (spec.md §4.5, component C6): for every operator, it selects the
// monomorphic kernel for the actual element type and shape combination.
//
// Go has no macro system, so unlike original_source's
// impl_binop_match_arms! (which hand-enumerates every (op, elem-type,
// shape, shape) kernel at compile time), this package follows Design
// Notes §9 strategy (b): one generic element-kind-polymorphic function
// per operator, with shapes matched at runtime. Per-kernel code stays a
// handful of loops; the "kernel" the spec talks about is the code path
// selected by the (op, kind, lhsShape, rhsShape) switch, not a distinct
// Go function for each cell of the cross-product table.
package dispatch

import (
	"fmt"

	"mech/internal/errors"
	"mech/internal/value"
)

// shapeClass buckets a Shape into the categories spec.md §4.5's
// arithmetic table keys on: scalar, a concrete MxN matrix, a row vector,
// or a column vector.
type shapeClass uint8

const (
	classScalarShape shapeClass = iota
	classMatrixShape
	classRowShape
	classColShape
)

func classify(s value.Shape) shapeClass {
	switch {
	case s.IsScalarShape():
		return classScalarShape
	case s.IsRowVector():
		return classRowShape
	case s.IsColVector():
		return classColShape
	default:
		return classMatrixShape
	}
}

// NewMatrixFor allocates a zero-valued AnyMatrix of the requested
// element kind and shape — the concrete Matrix[T] instantiation
// selected here is itself a dispatch decision (spec.md §4.4's "the
// element type T is uniform" invariant made concrete per kind).
func NewMatrixFor(k value.ElemKind, rows, cols int) value.AnyMatrix {
	switch k {
	case value.KindBool:
		return value.NewMatrix[value.Bool](k, rows, cols, nil)
	case value.KindI8:
		return value.NewMatrix[value.I8](k, rows, cols, nil)
	case value.KindI16:
		return value.NewMatrix[value.I16](k, rows, cols, nil)
	case value.KindI32:
		return value.NewMatrix[value.I32](k, rows, cols, nil)
	case value.KindI64:
		return value.NewMatrix[value.I64](k, rows, cols, nil)
	case value.KindU8:
		return value.NewMatrix[value.U8](k, rows, cols, nil)
	case value.KindU16:
		return value.NewMatrix[value.U16](k, rows, cols, nil)
	case value.KindU32:
		return value.NewMatrix[value.U32](k, rows, cols, nil)
	case value.KindU64:
		return value.NewMatrix[value.U64](k, rows, cols, nil)
	case value.KindI128:
		return value.NewMatrix[value.I128](k, rows, cols, nil)
	case value.KindU128:
		return value.NewMatrix[value.U128](k, rows, cols, nil)
	case value.KindF32:
		return value.NewMatrix[value.F32](k, rows, cols, nil)
	case value.KindF64:
		return value.NewMatrix[value.F64](k, rows, cols, nil)
	case value.KindR64:
		return value.NewMatrix[value.Rational](k, rows, cols, nil)
	case value.KindC64:
		return value.NewMatrix[value.Complex](k, rows, cols, nil)
	case value.KindString:
		return value.NewMatrix[value.String](k, rows, cols, nil)
	default:
		panic(fmt.Sprintf("dispatch: unsupported element kind %s for matrix allocation", k))
	}
}

// FeatureProfile restricts which element kinds have kernels compiled in,
// spec.md §7.5 FeatureNotEnabled. The zero value enables every kind.
type FeatureProfile struct {
	disabled map[value.ElemKind]bool
}

func NewFeatureProfile(disabledKinds ...value.ElemKind) *FeatureProfile {
	fp := &FeatureProfile{disabled: map[value.ElemKind]bool{}}
	for _, k := range disabledKinds {
		fp.disabled[k] = true
	}
	return fp
}

func (fp *FeatureProfile) check(op string, k value.ElemKind, loc errors.SourceLocation) error {
	if fp == nil {
		return nil
	}
	if fp.disabled[k] {
		return errors.NewFeatureNotEnabled(fmt.Sprintf("%s:%s", op, k), loc)
	}
	return nil
}
