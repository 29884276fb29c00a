package dispatch

import (
	"fmt"

	"mech/internal/errors"
	"mech/internal/value"
)

// MatMul implements the `**` matrix-multiplication operator (spec.md
// §4.5): lhs columns must equal rhs rows, producing an lhsRows x
// rhsCols matrix whose element kind is the unified operand kind.
// Scalar operands are rejected — use `*` for scalar multiplication.
func MatMul(lhs, rhs value.Value) (value.Value, error) {
	lm, lok := lhs.(value.AnyMatrix)
	rm, rok := rhs.(value.AnyMatrix)
	if !lok || !rok {
		return nil, errors.NewKindError(errors.UnhandledFunctionArgumentKind, "**",
			"matrix multiplication requires two matrix operands", errors.SourceLocation{})
	}
	ls, rs := lm.ShapeOf(), rm.ShapeOf()
	if ls.Cols != rs.Rows {
		return nil, errors.NewKindError(errors.DimensionMismatch, "**",
			fmt.Sprintf("cannot multiply %s by %s: inner dimensions %d and %d differ", ls, rs, ls.Cols, rs.Rows),
			errors.SourceLocation{})
	}
	ek := lm.ElemKindOf()
	if lm.ElemKindOf() != rm.ElemKindOf() {
		if _, _, err := UnifyElemKind(zeroOf(lm), zeroOf(rm)); err != nil {
			return nil, err
		}
	}
	out := NewMatrixFor(ek, ls.Rows, rs.Cols)
	for r := 1; r <= ls.Rows; r++ {
		for c := 1; c <= rs.Cols; c++ {
			var acc value.Value = zeroLike(ek)
			for k := 1; k <= ls.Cols; k++ {
				prod, err := applyKernel("*", lm.AtFlatAny(r, k), rm.AtFlatAny(k, c), ScalarArith)
				if err != nil {
					return nil, err
				}
				acc, err = applyKernel("+", acc, prod, ScalarArith)
				if err != nil {
					return nil, err
				}
			}
			out.SetFlatAny(r, c, acc)
		}
	}
	return out, nil
}

// Transpose implements the `'` postfix operator (spec.md §4.6 shape
// map), dispatching on the concrete AnyMatrix's element kind since
// Matrix[T].Transpose is a generic method, not part of the AnyMatrix
// interface (transposing requires reshaping the underlying typed
// slice, which only the concrete type knows how to do).
func Transpose(v value.Value) (value.Value, error) {
	m, ok := v.(value.AnyMatrix)
	if !ok {
		return v, nil // scalars transpose to themselves
	}
	s := m.ShapeOf()
	out := NewMatrixFor(m.ElemKindOf(), s.Cols, s.Rows)
	for r := 1; r <= s.Rows; r++ {
		for c := 1; c <= s.Cols; c++ {
			out.SetFlatAny(c, r, m.AtFlatAny(r, c))
		}
	}
	return out, nil
}

func zeroOf(m value.AnyMatrix) value.Value {
	return m.AtFlatAny(1, 1)
}

// zeroLike returns the additive identity for an element kind, used to
// seed MatMul's dot-product accumulator.
func zeroLike(ek value.ElemKind) value.Value {
	switch ek {
	case value.KindBool:
		return value.Bool(false)
	case value.KindI8:
		return value.I8(0)
	case value.KindI16:
		return value.I16(0)
	case value.KindI32:
		return value.I32(0)
	case value.KindI64:
		return value.I64(0)
	case value.KindU8:
		return value.U8(0)
	case value.KindU16:
		return value.U16(0)
	case value.KindU32:
		return value.U32(0)
	case value.KindU64:
		return value.U64(0)
	case value.KindF32:
		return value.F32(0)
	case value.KindF64:
		return value.F64(0)
	case value.KindR64:
		return value.NewRational(0, 1)
	case value.KindC64:
		return value.Complex{}
	default:
		return value.F64(0)
	}
}
